package services

import (
	"testing"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFollow_Symmetric(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.stores)
	a := f.user(t, "alice", models.RoleUser)
	b := f.user(t, "bob", models.RoleUser)

	following, err := svc.ToggleFollow(f.ctx, a.ID.Hex(), b.ID.Hex())
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, b.ID.Hex(), following[0].ID)

	gotA, _ := svc.Get(f.ctx, a.ID.Hex())
	gotB, _ := svc.Get(f.ctx, b.ID.Hex())
	assert.Equal(t, []string{b.ID.Hex()}, gotA.Following)
	assert.Equal(t, []string{a.ID.Hex()}, gotB.Followers)

	following, err = svc.ToggleFollow(f.ctx, a.ID.Hex(), b.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, following)

	gotA, _ = svc.Get(f.ctx, a.ID.Hex())
	gotB, _ = svc.Get(f.ctx, b.ID.Hex())
	assert.Empty(t, gotA.Following)
	assert.Empty(t, gotB.Followers)

	follows := 0
	for _, n := range f.notifications() {
		if n.Type == models.NotificationFollow {
			follows++
		}
	}
	assert.Equal(t, 1, follows)
}

func TestToggleFollow_Self(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.stores)
	a := f.user(t, "alice", models.RoleUser)

	_, err := svc.ToggleFollow(f.ctx, a.ID.Hex(), a.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestToggleFollow_UnknownTarget(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.stores)
	a := f.user(t, "alice", models.RoleUser)

	_, err := svc.ToggleFollow(f.ctx, a.ID.Hex(), "64b7f0000000000000000000")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestBookmarks(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.stores)
	host := f.user(t, "host", models.RoleUser)
	a := f.user(t, "alice", models.RoleUser)
	ev := f.event(t, host, "Fair", "Food", fixedNow, 0)

	ids, err := svc.ToggleBookmark(f.ctx, a.ID.Hex(), ev.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{ev.ID.Hex()}, ids)

	events, err := svc.Bookmarks(f.ctx, a.ID.Hex())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Fair", events[0].Title)

	ids, err = svc.ToggleBookmark(f.ctx, a.ID.Hex(), ev.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeleteUser_CascadesAndAudits(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.stores)
	admin := f.user(t, "admin", models.RoleAdmin)
	host := f.user(t, "host", models.RoleUser)
	f.event(t, host, "One", "Music", fixedNow, 0)
	f.event(t, host, "Two", "Music", fixedNow, 0)

	require.NoError(t, svc.Delete(f.ctx, host.ID.Hex(), admin.ID.Hex()))

	left, err := f.stores.Events.ListByCreator(f.ctx, host.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, left)

	logs, err := f.stores.AuditLogs.ListRecent(f.ctx, 5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditDeleteUser, logs[0].Action)
	assert.Equal(t, "admin Tester", logs[0].AdminName)
}

func TestNotificationsMarkRead(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.stores)
	a := f.user(t, "alice", models.RoleUser)
	b := f.user(t, "bob", models.RoleUser)
	_, err := svc.ToggleFollow(f.ctx, b.ID.Hex(), a.ID.Hex())
	require.NoError(t, err)

	list, err := svc.Notifications(f.ctx, a.ID.Hex())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)

	require.NoError(t, svc.MarkNotificationsRead(f.ctx, a.ID.Hex()))
	list, err = svc.Notifications(f.ctx, a.ID.Hex())
	require.NoError(t, err)
	assert.True(t, list[0].IsRead)
}
