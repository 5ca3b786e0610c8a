// Package services implements the business operations behind the HTTP
// handlers. Every exported method returns *apperr.Error values so the
// transport layer can map them to status codes.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/anonto42/eventpulse/backend/pkg/mailer"
)

// Mailer sends the transactional emails
type Mailer interface {
	SendWelcome(ctx context.Context, to, firstName string) error
	SendTicket(ctx context.Context, to string, t mailer.Ticket) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// Clock returns the current time
type Clock func() time.Time

func storeErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	return apperr.Internal(err)
}

func compacts(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToCompact())
	}
	return out
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
