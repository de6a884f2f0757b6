package domain

import (
	"errors"
	"fmt"
)

// Client-visible failure taxonomy. The API error handler maps each of these to
// a stable HTTP status; everything else becomes a generic 500.
var (
	// ErrInvalidCredentials covers both a wrong password and an unknown
	// account, merged into one outcome so callers cannot probe which
	// factor failed.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUnauthorized covers a missing, malformed, expired, or forged token,
	// and a structurally valid token whose account no longer exists.
	ErrUnauthorized = errors.New("could not validate credentials")

	ErrForbidden        = errors.New("access forbidden")
	ErrDuplicateAccount = errors.New("email or cnic already registered")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrInvalidRole      = errors.New("invalid role")
	ErrTooManyAttempts  = errors.New("too many login attempts")

	// ErrServiceUnavailable signals that the hosted identity provider or
	// data store could not be reached; callers may retry.
	ErrServiceUnavailable = errors.New("upstream service unavailable")
)

// ErrProvisioningFailed wraps any signup step failure that is not a duplicate
// account. The message carries the best-effort classification of the
// underlying store error.
var ErrProvisioningFailed = errors.New("failed to create account")

// ProvisioningError attaches an actionable detail message to
// ErrProvisioningFailed while keeping errors.Is classification intact.
func ProvisioningError(detail string) error {
	return fmt.Errorf("%w: %s", ErrProvisioningFailed, detail)
}
