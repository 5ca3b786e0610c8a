package middleware

import (
	"context"
	"net/http"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/labstack/echo/v4"
)

// AdminChecker looks up the caller's current role
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RequireAdmin lets the request through only when the stored user has the
// admin role. The role claim in the token is not trusted on its own.
func RequireAdmin(checker AdminChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := CurrentUserID(c)
			if userID == "" {
				return echo.NewHTTPError(http.StatusForbidden, "Access Denied")
			}
			ok, err := checker.IsAdmin(c.Request().Context(), userID)
			if err != nil {
				return apperr.HTTP(err)
			}
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Access Denied: Admins only")
			}
			return next(c)
		}
	}
}
