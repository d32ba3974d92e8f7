package models

// User is the persistence shape of a resident or administrator account.
type User struct {
	UserID         string
	Name           string
	Email          string
	PasswordHash   string
	Role           string
	AuthProvider   string
	ProviderUserID *string
	EmailVerified  bool
	AuditFields
}
