package services

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct {
	stored *models.AdminStats
	sets   int
}

func (c *countingCache) Get(context.Context) (*models.AdminStats, bool) {
	return c.stored, c.stored != nil
}

func (c *countingCache) Set(_ context.Context, s *models.AdminStats) {
	c.stored = s
	c.sets++
}

func (c *countingCache) Invalidate(context.Context) { c.stored = nil }

func TestAdminStats(t *testing.T) {
	f := newFixture()
	cache := &countingCache{}
	svc := NewAdminService(f.stores, cache)
	host := f.user(t, "host", models.RoleUser)
	a := f.user(t, "alice", models.RoleUser)
	b := f.user(t, "bob", models.RoleUser)

	paid := f.event(t, host, "Paid", "Music", fixedNow, 15)
	f.event(t, host, "Free", "Art", fixedNow, 0)
	f.event(t, host, "Also music", "Music", fixedNow, 5)
	for _, u := range []*models.User{a, b} {
		_, err := f.stores.Events.AddParticipant(f.ctx, paid.ID.Hex(), u.ID.Hex())
		require.NoError(t, err)
	}

	stats, err := svc.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(3), stats.TotalEvents)
	assert.Equal(t, 2, stats.TotalRSVPs)
	assert.Equal(t, 30.0, stats.TotalRevenue)
	assert.Equal(t, []models.CategoryCount{{Name: "Art", Value: 1}, {Name: "Music", Value: 2}}, stats.CategoryData)

	_, err = svc.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
}

func TestAdminIsAdmin(t *testing.T) {
	f := newFixture()
	svc := NewAdminService(f.stores, nil)
	admin := f.user(t, "admin", models.RoleAdmin)
	plain := f.user(t, "plain", models.RoleUser)

	ok, err := svc.IsAdmin(f.ctx, admin.ID.Hex())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAdmin(f.ctx, plain.ID.Hex())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminBroadcast(t *testing.T) {
	f := newFixture()
	svc := NewAdminService(f.stores, nil)
	admin := f.user(t, "admin", models.RoleAdmin)
	f.user(t, "alice", models.RoleUser)
	f.user(t, "bob", models.RoleUser)

	require.NoError(t, svc.Broadcast(f.ctx, admin.ID.Hex(), "Maintenance", "back soon"))

	alerts := 0
	for _, n := range f.notifications() {
		if n.Type == models.NotificationAlert {
			alerts++
			assert.Equal(t, "Maintenance: back soon", n.Message)
			assert.Equal(t, "ADMIN", n.FromUserID)
		}
	}
	assert.Equal(t, 3, alerts)

	logs, err := svc.Logs(f.ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditSendBroadcast, logs[0].Action)
}

func TestAdminReports(t *testing.T) {
	f := newFixture()
	svc := NewAdminService(f.stores, nil)
	admin := f.user(t, "admin", models.RoleAdmin)

	require.NoError(t, svc.Report(f.ctx, models.CreateReportRequest{
		ReporterID: "u1", ReporterName: "Alice", TargetEventID: "e1", EventTitle: "Spammy", Reason: "Spam",
	}))
	pending, err := svc.PendingReports(f.ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, svc.ResolveReport(f.ctx, admin.ID.Hex(), pending[0].ID))
	pending, err = svc.PendingReports(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	err = svc.ResolveReport(f.ctx, admin.ID.Hex(), 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	logs, err := svc.Logs(f.ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditResolveReport, logs[0].Action)
	assert.WithinDuration(t, time.Now(), logs[0].CreatedAt, time.Minute)
}
