package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/anonto42/eventpulse/backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenNotifications struct {
	repositories.NotificationRepository
}

func (brokenNotifications) Create(context.Context, *models.Notification) error {
	return errors.New("connection reset")
}

func TestDedupGate_JoinNotification(t *testing.T) {
	ctx := context.Background()
	notifications := memory.NewNotificationRepository()
	gate := NewDedupGate(notifications, memory.NewTransactionRepository())

	created, err := gate.RecordJoinNotification(ctx, &models.Notification{UserID: "host", FromUserID: "u1", EventID: "e1"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = gate.RecordJoinNotification(ctx, &models.Notification{UserID: "host", FromUserID: "u1", EventID: "e1"})
	require.NoError(t, err)
	assert.False(t, created)

	created, err = gate.RecordJoinNotification(ctx, &models.Notification{UserID: "host", FromUserID: "u2", EventID: "e1"})
	require.NoError(t, err)
	assert.True(t, created)

	all := notifications.All()
	assert.Len(t, all, 2)
	for _, n := range all {
		assert.Equal(t, models.NotificationJoin, n.Type)
	}
}

func TestDedupGate_Transaction(t *testing.T) {
	ctx := context.Background()
	txs := memory.NewTransactionRepository()
	gate := NewDedupGate(memory.NewNotificationRepository(), txs)

	created, err := gate.RecordTransaction(ctx, &models.Transaction{UserID: "u1", EventID: "e1", Amount: 10})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = gate.RecordTransaction(ctx, &models.Transaction{UserID: "u1", EventID: "e1", Amount: 10})
	require.NoError(t, err)
	assert.False(t, created)

	rows, err := txs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestDedupGate_PropagatesOtherErrors(t *testing.T) {
	gate := NewDedupGate(brokenNotifications{}, memory.NewTransactionRepository())
	created, err := gate.RecordJoinNotification(context.Background(), &models.Notification{FromUserID: "u", EventID: "e"})
	assert.Error(t, err)
	assert.False(t, created)
}
