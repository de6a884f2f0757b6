package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/youbook/booking-api/internal/core/domain"
	"github.com/youbook/booking-api/internal/core/ports"
)

// AuthService verifies credentials against the identity provider and issues
// bearer tokens. It holds no state between requests.
type AuthService struct {
	idp      ports.IdentityProvider
	profiles ports.ProfileRepository
	tokens   *TokenService
	tokenTTL time.Duration
	resetURL string
	log      zerolog.Logger
}

func NewAuthService(
	idp ports.IdentityProvider,
	profiles ports.ProfileRepository,
	tokens *TokenService,
	tokenTTL time.Duration,
	resetURL string,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &AuthService{
		idp:      idp,
		profiles: profiles,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		resetURL: resetURL,
		log:      log,
	}
}

// Login delegates the credential check to the identity provider and then
// resolves the caller's profile. A rejected pair and a missing profile are
// reported identically so the endpoint does not leak which check failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	profile, err := s.verify(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(profile.Email, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// AdminLogin is Login plus an exact admin role check.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	token, profile, err := s.Login(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	if profile.Role != domain.RoleAdmin {
		s.log.Warn().Str("email", email).Str("role", profile.Role.String()).Msg("admin login rejected: wrong role")
		return "", nil, domain.ErrForbidden
	}
	return token, profile, nil
}

// Refresh re-issues a token for an already-authenticated subject. Trust is
// inherited from the still-valid presented token; credentials are not
// re-verified.
func (s *AuthService) Refresh(profile *domain.Profile) (string, error) {
	return s.tokens.Issue(profile.Email, s.tokenTTL)
}

// ForgotPassword asks the provider to send a reset email. It always reports
// success: a failure is logged but never surfaced, so the endpoint cannot be
// used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := s.idp.ResetPasswordForEmail(ctx, email, s.resetURL); err != nil {
		s.log.Error().Err(err).Msg("password reset request failed")
	}
	return nil
}

// verify runs the sign-in call and the profile lookup shared by both login
// variants. Provider unavailability passes through; every other failure
// collapses into ErrInvalidCredentials.
func (s *AuthService) verify(ctx context.Context, email, password string) (*domain.Profile, error) {
	session, err := s.idp.SignInWithPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrServiceUnavailable) {
			return nil, err
		}
		s.log.Debug().Err(err).Str("email", email).Msg("provider sign-in failed")
		return nil, domain.ErrInvalidCredentials
	}
	if session == nil {
		return nil, domain.ErrInvalidCredentials
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrServiceUnavailable) {
			return nil, err
		}
		s.log.Debug().Err(err).Str("email", email).Msg("no profile for authenticated identity")
		return nil, domain.ErrInvalidCredentials
	}
	return profile, nil
}
