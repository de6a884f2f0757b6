package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/youbook/booking-api/internal/api/metrics"
	"github.com/youbook/booking-api/internal/core/domain"
	"github.com/youbook/booking-api/internal/core/ports"
)

type AdminHandler struct {
	auth         ports.AuthService
	provisioning ports.ProvisioningService
	profiles     ports.ProfileRepository
	idp          ports.IdentityProvider
	redirectURL  string
	log          zerolog.Logger
}

func NewAdminHandler(
	auth ports.AuthService,
	provisioning ports.ProvisioningService,
	profiles ports.ProfileRepository,
	idp ports.IdentityProvider,
	redirectURL string,
	log zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		auth:         auth,
		provisioning: provisioning,
		profiles:     profiles,
		idp:          idp,
		redirectURL:  redirectURL,
		log:          log,
	}
}

// Login authenticates an admin. A valid account with any other role gets 403.
//
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/login [post]
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, profile, err := h.auth.AdminLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	h.log.Info().Str("email", profile.Email).Msg("admin login succeeded")
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, newTokenResponse(token))
}

// Signup provisions an admin account. The role travels in the identity
// metadata, bypassing the manager approval workflow, and no wallet is created.
//
// @Summary      Admin sign up
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "New admin details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/signup [post]
func (h *AdminHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.provisioning.SignUpAdmin(c.Request().Context(), ports.NewUser{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		AvatarURL:   req.AvatarURL,
		CNIC:        req.CNIC,
	})
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("admin", "failure").Inc()
		return err
	}

	metrics.SignupsTotal.WithLabelValues("admin", "success").Inc()
	return c.JSON(http.StatusCreated, newTokenResponse(token))
}

// ResendConfirmation regenerates the signup confirmation link for an
// unconfirmed admin account.
//
// @Summary      Resend confirmation email
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      resendConfirmationRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /admin/resend-confirmation [post]
func (h *AdminHandler) ResendConfirmation(c echo.Context) error {
	var req resendConfirmationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.idp.AdminGenerateLink(c.Request().Context(), req.Email, ports.LinkSignup, h.redirectURL); err != nil {
		h.log.Error().Err(err).Msg("resend confirmation failed")
		return echo.NewHTTPError(http.StatusBadRequest, "failed to resend confirmation email")
	}

	return c.JSON(http.StatusOK, messageResponse{
		Message: "Confirmation email resent. Please check your email (including spam folder).",
	})
}

// ListUsers returns profiles, optionally filtered by role or a search string.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role    query  string  false  "Filter by role"
// @Param        search  query  string  false  "Match against email or full name"
// @Param        skip    query  int     false  "Offset"
// @Param        limit   query  int     false  "Page size (default 100)"
// @Success      200  {array}   domain.Profile
// @Failure      403  {object}  errorResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	filter := ports.ProfileFilter{
		Search: c.QueryParam("search"),
		Limit:  100,
	}
	if raw := c.QueryParam("role"); raw != "" {
		role, err := domain.ParseRole(raw)
		if err != nil {
			return err
		}
		filter.Role = role
	}
	if raw := c.QueryParam("skip"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			filter.Offset = n
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= 1000 {
			filter.Limit = n
		}
	}

	profiles, err := h.profiles.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// UpdateUserRole sets a user's role. The role is validated against the single
// enumerated set shared with every other role check.
//
// @Summary      Update user role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   string             true  "User id"
// @Param        body  body   updateRoleRequest  true  "New role"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	userID := c.Param("id")
	if err := h.profiles.UpdateRole(c.Request().Context(), userID, role); err != nil {
		return err
	}

	h.log.Info().Str("user_id", userID).Str("role", role.String()).Msg("user role updated")
	return c.JSON(http.StatusOK, messageResponse{Message: "User role updated to " + role.String()})
}
