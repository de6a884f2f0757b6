package ports

import (
	"context"

	"github.com/youbook/booking-api/internal/core/domain"
)

// LinkType selects the kind of action link an admin can generate for a user.
type LinkType string

const (
	LinkSignup   LinkType = "signup"
	LinkRecovery LinkType = "recovery"
)

// IdentityProvider is the boundary to the hosted authentication service that
// owns credential storage, password hashing, and email delivery. Credentials
// never persist on our side of this interface.
type IdentityProvider interface {
	// SignUp registers a new identity. Metadata travels into the provider's
	// user record untouched (the admin flow carries the role there).
	// A duplicate email surfaces as domain.ErrDuplicateAccount.
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (domain.Identity, error)

	// SignInWithPassword verifies a credential pair. A nil session with a nil
	// error means the provider rejected the pair.
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)

	// AdminDeleteUser removes an identity by provider-assigned id. Used only
	// for compensating rollback during signup.
	AdminDeleteUser(ctx context.Context, id string) error

	// AdminGenerateLink produces a confirmation or recovery link for email
	// re-delivery.
	AdminGenerateLink(ctx context.Context, email string, linkType LinkType, redirectTo string) (string, error)

	// ResetPasswordForEmail asks the provider to send a password reset email.
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
}
