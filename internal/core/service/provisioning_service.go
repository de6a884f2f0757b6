package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/youbook/booking-api/internal/core/domain"
	"github.com/youbook/booking-api/internal/core/ports"
)

// ProvisioningService orchestrates signup across the identity provider and
// the data store. The three remote resources (identity, profile, wallet)
// either all exist or none exist after a call: there is no transaction
// spanning the two services, so the invariant is enforced by compensating
// deletion of the identity when a later step fails.
type ProvisioningService struct {
	idp      ports.IdentityProvider
	profiles ports.ProfileRepository
	wallets  ports.WalletRepository
	tokens   *TokenService
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewProvisioningService(
	idp ports.IdentityProvider,
	profiles ports.ProfileRepository,
	wallets ports.WalletRepository,
	tokens *TokenService,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *ProvisioningService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &ProvisioningService{
		idp:      idp,
		profiles: profiles,
		wallets:  wallets,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// SignUp provisions a passenger account: identity, profile, wallet, token.
// Not idempotent: a second call with the same email fails at the identity
// step with ErrDuplicateAccount and leaves no residue.
func (s *ProvisioningService) SignUp(ctx context.Context, in ports.NewUser) (string, error) {
	return s.provision(ctx, in, domain.RolePassenger, nil, true)
}

// SignUpAdmin provisions an admin account. The role is set directly in the
// identity metadata, bypassing the manager approval workflow, and no wallet
// is created. The compensation rule is the same as for SignUp.
func (s *ProvisioningService) SignUpAdmin(ctx context.Context, in ports.NewUser) (string, error) {
	cnic := in.CNIC
	if cnic == "" {
		cnic = domain.CNICPlaceholder(in.Email)
	}
	metadata := map[string]any{
		"full_name":    in.FullName,
		"phone_number": in.PhoneNumber,
		"cnic":         cnic,
		"role":         domain.RoleAdmin.String(),
		"avatar_url":   in.AvatarURL,
	}
	return s.provision(ctx, in, domain.RoleAdmin, metadata, false)
}

// provision runs the ordered signup sequence. Each step is attempted only if
// the previous one succeeded; the compensation decision is an explicit
// branch, not an error-handler side effect.
func (s *ProvisioningService) provision(
	ctx context.Context,
	in ports.NewUser,
	role domain.Role,
	metadata map[string]any,
	withWallet bool,
) (string, error) {
	// Step 1: create the identity. Nothing exists yet, so a failure here is
	// terminal and needs no compensation.
	identity, err := s.idp.SignUp(ctx, in.Email, in.Password, metadata)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) || errors.Is(err, domain.ErrServiceUnavailable) {
			return "", err
		}
		s.log.Error().Err(err).Str("email", in.Email).Msg("identity creation failed")
		return "", domain.ProvisioningError("identity creation failed")
	}

	// The identity now exists remotely. Caller cancellation must not stop
	// the remaining steps, or the identity would be orphaned with no
	// profile to compensate from.
	ctx = context.WithoutCancel(ctx)

	// Step 2: profile row.
	cnic := in.CNIC
	if cnic == "" {
		cnic = domain.CNICPlaceholder(in.Email)
	}
	profile := &domain.Profile{
		ID:          identity.ID,
		Email:       in.Email,
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		AvatarURL:   in.AvatarURL,
		CNIC:        cnic,
		Role:        role,
	}
	if err := s.profiles.Insert(ctx, profile); err != nil {
		s.compensate(ctx, identity.ID, "profile insert", err)
		return "", s.classify(err)
	}

	// Step 3: wallet row (balance defaults in the store schema).
	if withWallet {
		if err := s.wallets.Insert(ctx, identity.ID); err != nil {
			s.compensate(ctx, identity.ID, "wallet insert", err)
			return "", s.classify(err)
		}
	}

	// Step 4: token for immediate login.
	token, err := s.tokens.Issue(in.Email, s.tokenTTL)
	if err != nil {
		s.compensate(ctx, identity.ID, "token issue", err)
		return "", domain.ProvisioningError("token issuance failed")
	}

	s.log.Info().Str("email", in.Email).Str("user_id", identity.ID).Str("role", role.String()).Msg("account provisioned")
	return token, nil
}

// compensate deletes the identity created in step 1 so a failed signup leaves
// no orphan. A failed compensation is logged and swallowed; the original step
// error remains the one surfaced to the caller.
func (s *ProvisioningService) compensate(ctx context.Context, identityID, step string, cause error) {
	s.log.Error().Err(cause).Str("user_id", identityID).Str("step", step).Msg("signup step failed, rolling back identity")

	if err := s.idp.AdminDeleteUser(ctx, identityID); err != nil {
		s.log.Error().Err(err).Str("user_id", identityID).Msg("rollback failed: orphaned identity")
		return
	}
	s.log.Info().Str("user_id", identityID).Msg("rollback complete: identity deleted")
}

// classify maps a store failure onto the client-visible taxonomy using the
// typed error from the store layer. The message is advisory only; it exists
// to give the caller something actionable.
func (s *ProvisioningService) classify(err error) error {
	if errors.Is(err, domain.ErrServiceUnavailable) {
		return err
	}
	se, ok := domain.AsStoreError(err)
	if !ok {
		return domain.ProvisioningError("database error saving new user")
	}
	switch se.Kind {
	case domain.StoreUniqueViolation:
		return domain.ErrDuplicateAccount
	case domain.StoreNotNullViolation:
		return domain.ProvisioningError("missing required profile data")
	case domain.StoreForeignKeyViolation:
		return domain.ProvisioningError("profile does not match a provisioned identity")
	case domain.StorePermissionDenied:
		return domain.ProvisioningError("store permission denied for profile or wallet insert")
	default:
		return domain.ProvisioningError("database error saving new user")
	}
}
