package ports

import (
	"context"

	"github.com/youbook/booking-api/internal/core/domain"
)

// AuthService verifies credentials and issues bearer tokens.
type AuthService interface {
	// Login verifies the pair against the identity provider, resolves the
	// caller's profile, and issues a token. A rejected pair and a missing
	// profile are indistinguishable (domain.ErrInvalidCredentials).
	Login(ctx context.Context, email, password string) (string, *domain.Profile, error)

	// AdminLogin is Login plus an exact role=admin check
	// (domain.ErrForbidden on mismatch).
	AdminLogin(ctx context.Context, email, password string) (string, *domain.Profile, error)

	// Refresh re-issues a token for an already-authenticated subject with a
	// fresh expiry. Trust is inherited from the presented token; credentials
	// are not re-verified.
	Refresh(profile *domain.Profile) (string, error)

	// ForgotPassword triggers the provider's reset email. It always returns
	// nil so the endpoint cannot be used to enumerate accounts.
	ForgotPassword(ctx context.Context, email string) error
}
