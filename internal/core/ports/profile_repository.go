package ports

import (
	"context"

	"github.com/youbook/booking-api/internal/core/domain"
)

// ProfileFilter narrows List results. Zero values mean "no filter".
type ProfileFilter struct {
	Role   domain.Role
	Search string // matches email or full name, case-insensitive
	Offset int
	Limit  int
}

// ProfileUpdate carries the mutable profile fields. Nil pointers are left
// untouched by Update.
type ProfileUpdate struct {
	FullName    *string
	PhoneNumber *string
	AvatarURL   *string
	CNIC        *string
}

// ProfileRepository defines persistence for profile rows in the hosted data
// store. Write failures are reported as *domain.StoreError where the store
// provides enough structure to classify them.
type ProfileRepository interface {
	Insert(ctx context.Context, p *domain.Profile) error
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (*domain.Profile, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	List(ctx context.Context, filter ProfileFilter) ([]domain.Profile, error)
}

// WalletRepository creates the one-to-one wallet row for a new profile. The
// balance defaults in the store schema, so only the owning user id is sent.
type WalletRepository interface {
	Insert(ctx context.Context, userID string) error
}
