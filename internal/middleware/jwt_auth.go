package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/eventpulse/backend/internal/auth"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const userContextKey = "user"

// JWTAuthMiddleware checks for a valid JWT and stores its claims under "user".
// A missing header is 403, a bad or expired token is 401.
func JWTAuthMiddleware(tokens *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusForbidden, "Access Denied")
			}

			tokenString := strings.TrimSpace(header)
			if len(tokenString) > 7 && strings.EqualFold(tokenString[:7], "bearer ") {
				tokenString = strings.TrimSpace(tokenString[7:])
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(userContextKey, claims)
			return next(c)
		}
	}
}

// Claims returns the token claims set by JWTAuthMiddleware
func Claims(c echo.Context) (*models.JwtCustomClaims, bool) {
	claims, ok := c.Get(userContextKey).(*models.JwtCustomClaims)
	return claims, ok && claims != nil
}

// CurrentUserID returns the authenticated user's id, or "" outside the auth group
func CurrentUserID(c echo.Context) string {
	if claims, ok := Claims(c); ok {
		return claims.UserID
	}
	return ""
}
