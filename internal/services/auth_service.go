package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	mrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/auth"
	"github.com/anonto42/eventpulse/backend/internal/logging"
	"github.com/anonto42/eventpulse/backend/internal/metrics"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/anonto42/eventpulse/backend/pkg/firebase"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// IDTokenVerifier verifies a Google sign-in credential
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebase.Identity, error)
}

// AuthService handles registration, sign-in and password recovery
type AuthService struct {
	users     repositories.UserRepository
	tokens    *auth.TokenIssuer
	google    IDTokenVerifier
	mailer    Mailer
	clientURL string
	now       Clock
	log       zerolog.Logger
	pending   sync.WaitGroup
}

// NewAuthService creates a new AuthService. google may be nil, which
// disables Google sign-in.
func NewAuthService(users repositories.UserRepository, tokens *auth.TokenIssuer, google IDTokenVerifier, m Mailer, clientURL string) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		google:    google,
		mailer:    m,
		clientURL: strings.TrimRight(clientURL, "/"),
		now:       time.Now,
		log:       logging.Component("auth"),
	}
}

// Wait blocks until background emails have been handed to the mailer
func (s *AuthService) Wait() {
	s.pending.Wait()
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user := &models.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Password:      string(hash),
		PicturePath:   req.PicturePath,
		Location:      req.Location,
		Occupation:    req.Occupation,
		Privacy:       "public",
		Role:          models.RoleUser,
		ViewedProfile: mrand.Intn(1000),
		Impressions:   mrand.Intn(1000),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict("User with this email already registered")
		}
		return nil, apperr.Internal(err)
	}

	s.sendWelcome(user.Email, user.FirstName)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Validation("User does not exist.")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Validation("Invalid credentials.")
	}
	return s.respond(user)
}

// GoogleLogin signs in with a Google credential, creating the account on
// first use.
func (s *AuthService) GoogleLogin(ctx context.Context, credential string) (*models.AuthResponse, error) {
	if s.google == nil {
		return nil, apperr.Unavailable("Google sign-in is not configured")
	}
	identity, err := s.google.VerifyIDToken(ctx, credential)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "Invalid Google credential", err)
	}
	email := strings.ToLower(identity.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return s.respond(user)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(randomHex(16)), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user = &models.User{
		FirstName:   identity.GivenName,
		LastName:    identity.FamilyName,
		Email:       email,
		Password:    string(hash),
		PicturePath: identity.Picture,
		Location:    "Earth",
		Occupation:  "Google User",
		Privacy:     "public",
		Role:        models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperr.Internal(err)
	}
	s.sendWelcome(user.Email, user.FirstName)
	return s.respond(user)
}

// ForgotPassword stores a hashed single-use token and emails the reset link
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return storeErr(err, "User not found")
	}

	token := randomHex(32)
	expires := s.now().Add(resetTokenTTL)
	user.ResetPasswordToken = hashToken(token)
	user.ResetPasswordExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return apperr.Internal(err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, s.clientURL+"/reset-password/"+token); err != nil {
		metrics.EmailsSent.WithLabelValues("reset", "failed").Inc()
		return apperr.Internal(err)
	}
	metrics.EmailsSent.WithLabelValues("reset", "sent").Inc()
	return nil
}

// ResetPassword sets a new password if token matches an unexpired request
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.users.GetByResetToken(ctx, hashToken(token), s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.Validation("Invalid or expired token")
	}
	if err != nil {
		return apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err)
	}
	user.Password = string(hash)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	if err := s.users.Update(ctx, user); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storeErr(err, "User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return apperr.Validation("Incorrect current password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err)
	}
	user.Password = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) sendWelcome(to, firstName string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendWelcome(ctx, to, firstName); err != nil {
			metrics.EmailsSent.WithLabelValues("welcome", "failed").Inc()
			s.log.Error().Err(err).Str("to", to).Msg("failed to send welcome email")
			return
		}
		metrics.EmailsSent.WithLabelValues("welcome", "sent").Inc()
	}()
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
