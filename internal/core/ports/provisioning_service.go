package ports

import "context"

// NewUser is the signup input. CNIC is optional; when empty a deterministic
// placeholder derived from the email is stored instead.
type NewUser struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
	AvatarURL   string
	CNIC        string
}

// ProvisioningService orchestrates the multi-resource signup sequence
// (identity, profile, wallet) with compensating rollback of the identity when
// a later step fails.
type ProvisioningService interface {
	// SignUp provisions a passenger account and returns a bearer token for
	// immediate login.
	SignUp(ctx context.Context, in NewUser) (string, error)

	// SignUpAdmin provisions an admin account: the role travels in the
	// identity metadata and in the profile row, and no wallet is created.
	SignUpAdmin(ctx context.Context, in NewUser) (string, error)
}
