package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/youbook/booking-api/internal/api/metrics"
	"github.com/youbook/booking-api/internal/api/middleware"
	"github.com/youbook/booking-api/internal/core/domain"
	"github.com/youbook/booking-api/internal/core/ports"
)

type AuthHandler struct {
	auth         ports.AuthService
	provisioning ports.ProvisioningService
	limiter      ports.AttemptLimiter // nil disables throttling
	log          zerolog.Logger
}

func NewAuthHandler(
	auth ports.AuthService,
	provisioning ports.ProvisioningService,
	limiter ports.AttemptLimiter,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{auth: auth, provisioning: provisioning, limiter: limiter, log: log}
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if h.limiter != nil {
		allowed, err := h.limiter.Allow(ctx, req.Email)
		if err != nil {
			h.log.Warn().Err(err).Msg("attempt limiter unavailable, allowing login")
		} else if !allowed {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return domain.ErrTooManyAttempts
		}
	}

	token, profile, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if h.limiter != nil && errors.Is(err, domain.ErrInvalidCredentials) {
			if recErr := h.limiter.RecordFailure(ctx, req.Email); recErr != nil {
				h.log.Warn().Err(recErr).Msg("failed to record login attempt")
			}
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	if h.limiter != nil {
		if err := h.limiter.Reset(ctx, req.Email); err != nil {
			h.log.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	h.log.Info().Str("email", profile.Email).Str("role", profile.Role.String()).Msg("login succeeded")
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, newTokenResponse(token))
}

// Signup provisions a new passenger account and returns a bearer token.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "New account details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.provisioning.SignUp(c.Request().Context(), ports.NewUser{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		AvatarURL:   req.AvatarURL,
		CNIC:        req.CNIC,
	})
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("passenger", "failure").Inc()
		return err
	}

	metrics.SignupsTotal.WithLabelValues("passenger", "success").Inc()
	return c.JSON(http.StatusCreated, newTokenResponse(token))
}

// Refresh re-issues a token for the already-authenticated caller.
//
// @Summary      Refresh token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	token, err := h.auth.Refresh(profile)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTokenResponse(token))
}

// Me returns the resolved profile of the authenticated caller.
//
// @Summary      Current profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	return c.JSON(http.StatusOK, profile)
}

// Logout acknowledges logout. Tokens are stateless and never revoked
// server-side; discarding the token client-side is sufficient.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

// ForgotPassword triggers a password reset email. The response is identical
// whether or not the account exists.
//
// @Summary      Request password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_ = h.auth.ForgotPassword(c.Request().Context(), req.Email)

	return c.JSON(http.StatusOK, messageResponse{
		Message: "If an account with this email exists, we've sent you a password reset link.",
	})
}
