package services

import (
	"context"
	"time"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// UserSvcFacade defines identity operations for residents and administrators.
type UserSvcFacade interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// RegisterUser creates a new local resident account.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// AuthenticateUser verifies email/password credentials.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	// CreateOAuthUser returns the existing account for an OAuth identity or
	// creates a new resident account.
	CreateOAuthUser(ctx context.Context, name, email, provider, providerUserID string, emailVerified bool) (*domain.User, error)
}

// TokenSvcFacade issues application access tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT for the user, returning the
	// token and its expiry time.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// GoogleOAuthHandlerSvcFacade wraps the Google OAuth code-exchange flow.
type GoogleOAuthHandlerSvcFacade interface {
	// ExchangeCodeForToken exchanges an authorization code for Google tokens.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)

	// ValidateGoogleIDToken validates a Google ID token and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
