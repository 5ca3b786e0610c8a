package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/auth"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func run(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, string, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	err := mw(func(c echo.Context) error {
		seen = CurrentUserID(c)
		return c.NoContent(http.StatusNoContent)
	})(c)
	return rec, seen, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	return he.Code
}

func TestJWTAuthMiddleware(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	token, err := issuer.Issue(user)
	require.NoError(t, err)
	mw := JWTAuthMiddleware(issuer)

	t.Run("missing header", func(t *testing.T) {
		_, _, err := run(t, mw, "")
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	})

	t.Run("malformed token is 401 not 500", func(t *testing.T) {
		_, _, err := run(t, mw, "Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("expired token is 401 not 500", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JwtCustomClaims{
			UserID: user.ID.Hex(),
			Role:   user.Role,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(past),
				ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
			},
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, _, err = run(t, mw, "Bearer "+expired)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("foreign signature is 401 not 500", func(t *testing.T) {
		other, err := auth.NewTokenIssuer("other", time.Hour).Issue(user)
		require.NoError(t, err)
		_, _, err = run(t, mw, "Bearer "+other)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("valid bearer", func(t *testing.T) {
		rec, seen, err := run(t, mw, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, user.ID.Hex(), seen)
	})

	t.Run("bare token", func(t *testing.T) {
		_, seen, err := run(t, mw, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), seen)
	})
}

type checkerFunc func(ctx context.Context, userID string) (bool, error)

func (f checkerFunc) IsAdmin(ctx context.Context, userID string) (bool, error) { return f(ctx, userID) }

func TestRequireAdmin(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	plain := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	checker := checkerFunc(func(_ context.Context, id string) (bool, error) {
		return id == admin.ID.Hex(), nil
	})
	chain := func(next echo.HandlerFunc) echo.HandlerFunc {
		return JWTAuthMiddleware(issuer)(RequireAdmin(checker)(next))
	}

	adminToken, _ := issuer.Issue(admin)
	rec, _, err := run(t, chain, "Bearer "+adminToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// role claim says admin, stored user does not
	plainToken, _ := issuer.Issue(plain)
	_, _, err = run(t, chain, "Bearer "+plainToken)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}
