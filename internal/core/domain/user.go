package domain

// UserRole distinguishes residents from administrators.
type UserRole string

const (
	RoleResident UserRole = "RESIDENT"
	RoleAdmin    UserRole = "ADMIN"
)

// AuthProvider identifies how a user account authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User is a resident or administrator account.
type User struct {
	UserID         string       `json:"userID"` // Primary key (UUID)
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"`
	Role           UserRole     `json:"role"`
	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID string       `json:"-"` // Google's subject claim for OAuth accounts
	EmailVerified  bool         `json:"emailVerified"`
	AuditFields
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GoogleUserInfo is the userinfo payload returned by Google's OAuth API.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
