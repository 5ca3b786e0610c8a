package services

import (
	"context"
	"errors"

	"github.com/anonto42/eventpulse/backend/internal/logging"
	"github.com/anonto42/eventpulse/backend/internal/metrics"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// DedupGate records at-most-once side effects of a join. Uniqueness is
// enforced by the stores; a rejected duplicate is reported as
// created=false with a nil error.
type DedupGate struct {
	notifications repositories.NotificationRepository
	transactions  repositories.TransactionRepository
	log           zerolog.Logger
}

// NewDedupGate creates a new DedupGate
func NewDedupGate(notifications repositories.NotificationRepository, transactions repositories.TransactionRepository) *DedupGate {
	return &DedupGate{
		notifications: notifications,
		transactions:  transactions,
		log:           logging.Component("dedup"),
	}
}

// RecordJoinNotification inserts a "join" notification unless one already
// exists for (FromUserID, EventID).
func (g *DedupGate) RecordJoinNotification(ctx context.Context, n *models.Notification) (bool, error) {
	n.Type = models.NotificationJoin
	err := g.notifications.Create(ctx, n)
	if errors.Is(err, repositories.ErrDuplicate) {
		metrics.DedupAbsorbed.WithLabelValues("join_notification").Inc()
		g.log.Info().
			Str("fromUserId", n.FromUserID).
			Str("eventId", n.EventID).
			Msg("duplicate join notification prevented")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecordTransaction writes the ledger row for a paid join unless one
// already exists for (UserID, EventID).
func (g *DedupGate) RecordTransaction(ctx context.Context, t *models.Transaction) (bool, error) {
	created, err := g.transactions.CreateIfAbsent(ctx, t)
	if err != nil {
		return false, err
	}
	if !created {
		metrics.DedupAbsorbed.WithLabelValues("transaction").Inc()
		g.log.Info().
			Str("userId", t.UserID).
			Str("eventId", t.EventID).
			Msg("duplicate transaction prevented")
	}
	return created, nil
}
