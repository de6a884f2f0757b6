package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/youbook/booking-api/internal/api/middleware"
	"github.com/youbook/booking-api/internal/core/domain"
	"github.com/youbook/booking-api/internal/core/ports"
)

type ProfileHandler struct {
	profiles ports.ProfileRepository
}

func NewProfileHandler(profiles ports.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get returns the authenticated caller's profile.
//
// @Summary      Get own profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  errorResponse
// @Router       /profiles [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	return c.JSON(http.StatusOK, profile)
}

// Update patches the authenticated caller's own profile. Unset fields are
// left untouched.
//
// @Summary      Update own profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /profiles [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.profiles.Update(c.Request().Context(), profile.ID, ports.ProfileUpdate{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		AvatarURL:   req.AvatarURL,
		CNIC:        req.CNIC,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
