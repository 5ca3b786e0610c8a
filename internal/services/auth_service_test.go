package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/auth"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/pkg/firebase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	identity *firebase.Identity
}

func (v fakeVerifier) VerifyIDToken(_ context.Context, token string) (*firebase.Identity, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return v.identity, nil
}

func (f *fixture) authService(google IDTokenVerifier) *AuthService {
	return NewAuthService(f.stores.Users, auth.NewTokenIssuer("test-secret", time.Hour), google, f.mail, "http://app.test/")
}

func register(t *testing.T, svc *AuthService, email string) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), models.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: email, Password: "hunter22",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	svc := f.authService(nil)

	u := register(t, svc, "Ada@Example.com")
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "hunter22", u.Password)

	_, err := svc.Register(f.ctx, models.RegisterRequest{FirstName: "X", LastName: "Y", Email: "ada@example.com", Password: "pw123"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	resp, err := svc.Login(f.ctx, "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, u.ID, resp.User.ID)

	_, err = svc.Login(f.ctx, "ada@example.com", "wrong")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Login(f.ctx, "nobody@example.com", "hunter22")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	svc.Wait()
	assert.Len(t, f.mail.byKind("welcome"), 1)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture()
	svc := f.authService(nil)
	register(t, svc, "ada@example.com")

	require.NoError(t, svc.ForgotPassword(f.ctx, "ada@example.com"))
	sent := f.mail.byKind("reset")
	require.Len(t, sent, 1)
	require.True(t, strings.HasPrefix(sent[0].body, "http://app.test/reset-password/"))
	token := strings.TrimPrefix(sent[0].body, "http://app.test/reset-password/")

	err := svc.ResetPassword(f.ctx, "not-the-token", "newpass")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, svc.ResetPassword(f.ctx, token, "newpass"))
	_, err = svc.Login(f.ctx, "ada@example.com", "newpass")
	require.NoError(t, err)

	// single use
	err = svc.ResetPassword(f.ctx, token, "again")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	svc.Wait()
}

func TestResetPassword_Expired(t *testing.T) {
	f := newFixture()
	svc := f.authService(nil)
	register(t, svc, "ada@example.com")

	require.NoError(t, svc.ForgotPassword(f.ctx, "ada@example.com"))
	token := strings.TrimPrefix(f.mail.byKind("reset")[0].body, "http://app.test/reset-password/")

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	err := svc.ResetPassword(f.ctx, token, "newpass")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	svc.Wait()
}

func TestChangePassword(t *testing.T) {
	f := newFixture()
	svc := f.authService(nil)
	u := register(t, svc, "ada@example.com")

	err := svc.ChangePassword(f.ctx, u.ID.Hex(), "wrong", "newpass")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, svc.ChangePassword(f.ctx, u.ID.Hex(), "hunter22", "newpass"))
	_, err = svc.Login(f.ctx, "ada@example.com", "newpass")
	assert.NoError(t, err)
	svc.Wait()
}

func TestGoogleLogin(t *testing.T) {
	f := newFixture()

	_, err := f.authService(nil).GoogleLogin(f.ctx, "good")
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))

	svc := f.authService(fakeVerifier{identity: &firebase.Identity{
		UID: "g1", Email: "Grace@Example.com", GivenName: "Grace", FamilyName: "Hopper",
	}})

	_, err = svc.GoogleLogin(f.ctx, "bad")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	first, err := svc.GoogleLogin(f.ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", first.User.Email)
	assert.Equal(t, "Google User", first.User.Occupation)

	second, err := svc.GoogleLogin(f.ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	count, err := f.stores.Users.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	svc.Wait()
}
