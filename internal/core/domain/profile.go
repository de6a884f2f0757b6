package domain

import "time"

// Profile is the application-level user record held in the hosted data store,
// one-to-one with the identity provider's account record (same id).
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CNIC        string    `json:"cnic"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Wallet is created once per successful signup, keyed by the profile id.
// The balance is initialised by the store's column default.
type Wallet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the identity provider's account record. This subsystem creates
// it at signup, reads its existence implicitly at login, and deletes it during
// compensating rollback.
type Identity struct {
	ID        string
	Email     string
	Confirmed bool
}

// Session is the provider-issued session returned by a password sign-in.
// Only its presence matters to this subsystem.
type Session struct {
	AccessToken  string
	RefreshToken string
}

const cnicPlaceholderPrefix = "PENDING-CNIC-"

// CNICPlaceholder derives a deterministic stand-in for an unspecified cnic so
// the store's NOT NULL + UNIQUE constraint holds without colliding across
// users. The email is truncated to 15 characters to keep the value short.
func CNICPlaceholder(email string) string {
	if len(email) > 15 {
		email = email[:15]
	}
	return cnicPlaceholderPrefix + email
}
