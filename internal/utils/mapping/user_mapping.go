package mapping

import (
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/griyakita/ipl_ledger_app/internal/models"
)

// ToDomainUser converts a model User to a domain User.
func ToDomainUser(m models.User) domain.User {
	providerUserID := ""
	if m.ProviderUserID != nil {
		providerUserID = *m.ProviderUserID
	}
	return domain.User{
		UserID:         m.UserID,
		Name:           m.Name,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Role:           domain.UserRole(m.Role),
		AuthProvider:   domain.AuthProvider(m.AuthProvider),
		ProviderUserID: providerUserID,
		EmailVerified:  m.EmailVerified,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelUser converts a domain User to a model User.
func ToModelUser(d domain.User) models.User {
	var providerUserID *string
	if d.ProviderUserID != "" {
		providerUserID = &d.ProviderUserID
	}
	return models.User{
		UserID:         d.UserID,
		Name:           d.Name,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		Role:           string(d.Role),
		AuthProvider:   string(d.AuthProvider),
		ProviderUserID: providerUserID,
		EmailVerified:  d.EmailVerified,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}
