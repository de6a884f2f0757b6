package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/youbook/booking-api/internal/core/domain"
	"github.com/youbook/booking-api/internal/core/ports"
)

// profileKey is where Auth stores the resolved profile in the echo context.
const profileKey = "auth_profile"

// TokenVerifier is the subset of the token service the gate needs.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth validates the bearer token and resolves the caller's profile. A bad
// signature, an expired token, and a token whose account has vanished all
// produce the same 401, so the middleware cannot be used to probe whether an
// account exists.
func Auth(tokens TokenVerifier, profiles ports.ProfileRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized()
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthorized()
			}

			subject, err := tokens.Verify(parts[1])
			if err != nil {
				return unauthorized()
			}

			profile, err := profiles.FindByEmail(c.Request().Context(), subject)
			if err != nil {
				// A store outage is not an auth verdict; let the central
				// error handler report it as 503.
				if errors.Is(err, domain.ErrServiceUnavailable) {
					return err
				}
				return unauthorized()
			}

			c.Set(profileKey, profile)
			return next(c)
		}
	}
}

// RequireRole gates a route on an exact role match. There is no hierarchy:
// admin does not implicitly satisfy a manager check. Must run after Auth.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profile, ok := CurrentProfile(c)
			if !ok {
				return unauthorized()
			}
			if profile.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "access denied, required role: "+role.String())
			}
			return next(c)
		}
	}
}

// CurrentProfile returns the profile resolved by Auth for this request.
func CurrentProfile(c echo.Context) (*domain.Profile, bool) {
	profile, ok := c.Get(profileKey).(*domain.Profile)
	return profile, ok
}

func unauthorized() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthorized.Error())
}
