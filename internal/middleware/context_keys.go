package middleware

import "github.com/gin-gonic/gin"

const (
	// UserIDKey is the gin context key carrying the authenticated user's ID.
	UserIDKey = "userID"
	// UserRoleKey is the gin context key carrying the authenticated user's role.
	UserRoleKey = "userRole"
)

// GetUserIDFromContext extracts the authenticated user ID set by AuthMiddleware.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// GetUserRoleFromContext extracts the authenticated user's role set by AuthMiddleware.
func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(string)
	if !ok || r == "" {
		return "", false
	}
	return r, true
}
