package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countJoins(ns []models.Notification, eventID string) int {
	n := 0
	for _, x := range ns {
		if x.Type == models.NotificationJoin && x.EventID == eventID {
			n++
		}
	}
	return n
}

func TestToggleJoin_EvenTogglesRestoreMembership(t *testing.T) {
	f := newFixture()
	svc := f.eventService()
	host := f.user(t, "host", models.RoleUser)
	guest := f.user(t, "guest", models.RoleUser)
	ev := f.event(t, host, "Gala", "Music", fixedNow.Add(48*time.Hour), 25)
	id := ev.ID.Hex()

	for i := 0; i < 4; i++ {
		_, err := svc.ToggleJoin(f.ctx, id, guest.ID.Hex())
		require.NoError(t, err)
	}
	svc.Wait()

	got, err := svc.Get(f.ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Participants)

	txs, err := f.stores.Transactions.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, 25.0, txs[0].Amount)
	assert.Equal(t, 1, countJoins(f.notifications(), id))
	assert.Len(t, f.mail.byKind("ticket"), 2)
}

func TestToggleJoin_FreeEventAndOwnEvent(t *testing.T) {
	f := newFixture()
	svc := f.eventService()
	host := f.user(t, "host", models.RoleUser)
	ev := f.event(t, host, "Picnic", "Outdoor", fixedNow.Add(time.Hour), 0)

	got, err := svc.ToggleJoin(f.ctx, ev.ID.Hex(), host.ID.Hex())
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, []string{host.ID.Hex()}, got.Participants)
	txs, _ := f.stores.Transactions.List(f.ctx)
	assert.Empty(t, txs)
	assert.Zero(t, countJoins(f.notifications(), ev.ID.Hex()))
}

func TestToggleJoin_UnknownEvent(t *testing.T) {
	f := newFixture()
	svc := f.eventService()
	u := f.user(t, "guest", models.RoleUser)

	_, err := svc.ToggleJoin(f.ctx, "64b7f0000000000000000000", u.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

// barrierEvents holds the first two GetByID calls until both have read,
// so both joins observe "not joined".
type barrierEvents struct {
	repositories.EventRepository
	calls   int32
	arrived sync.WaitGroup
}

func (b *barrierEvents) GetByID(ctx context.Context, id string) (*models.Event, error) {
	e, err := b.EventRepository.GetByID(ctx, id)
	if atomic.AddInt32(&b.calls, 1) <= 2 {
		b.arrived.Done()
		b.arrived.Wait()
	}
	return e, err
}

func TestToggleJoin_ConcurrentRaceKeepsLedgerUnique(t *testing.T) {
	f := newFixture()
	barrier := &barrierEvents{EventRepository: f.stores.Events}
	barrier.arrived.Add(2)
	f.stores.Events = barrier
	svc := f.eventService()

	host := f.user(t, "host", models.RoleUser)
	guest := f.user(t, "guest", models.RoleUser)
	ev := f.event(t, host, "Concert", "Music", fixedNow.Add(24*time.Hour), 40)
	id := ev.ID.Hex()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ToggleJoin(context.Background(), id, guest.ID.Hex())
		}(i)
	}
	wg.Wait()
	svc.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	got, err := svc.Get(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{guest.ID.Hex(), guest.ID.Hex()}, got.Participants)

	txs, err := f.stores.Transactions.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, 1, countJoins(f.notifications(), id))
}

func TestTicketID(t *testing.T) {
	assert.Equal(t, "abcdef-wxyz", TicketID("0123456789abcdef", "uuuuwxyz"))
	assert.Equal(t, "ab-z", TicketID("ab", "z"))
}

func TestAddReview_Gating(t *testing.T) {
	f := newFixture()
	svc := f.eventService()
	host := f.user(t, "host", models.RoleUser)
	a := f.user(t, "alice", models.RoleUser)
	b := f.user(t, "bob", models.RoleUser)
	stranger := f.user(t, "carol", models.RoleUser)

	past := f.event(t, host, "Past", "Music", fixedNow.Add(-24*time.Hour), 0)
	future := f.event(t, host, "Future", "Music", fixedNow.Add(24*time.Hour), 0)
	for _, u := range []*models.User{a, b} {
		_, err := f.stores.Events.AddParticipant(f.ctx, past.ID.Hex(), u.ID.Hex())
		require.NoError(t, err)
		_, err = f.stores.Events.AddParticipant(f.ctx, future.ID.Hex(), u.ID.Hex())
		require.NoError(t, err)
	}

	cases := []struct {
		name   string
		event  string
		user   string
		rating int
	}{
		{"rating too low", past.ID.Hex(), a.ID.Hex(), 0},
		{"rating too high", past.ID.Hex(), a.ID.Hex(), 6},
		{"future event", future.ID.Hex(), a.ID.Hex(), 4},
		{"not a participant", past.ID.Hex(), stranger.ID.Hex(), 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddReview(f.ctx, tc.event, tc.user, tc.rating, "")
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}

	_, err := svc.AddReview(f.ctx, past.ID.Hex(), a.ID.Hex(), 4, "good")
	require.NoError(t, err)
	_, err = svc.AddReview(f.ctx, past.ID.Hex(), b.ID.Hex(), 5, "")
	require.NoError(t, err)
	got, err := svc.AddReview(f.ctx, past.ID.Hex(), host.ID.Hex(), 3, "")
	require.NoError(t, err)
	assert.Len(t, got.Reviews, 3)
	assert.Equal(t, 4.0, got.AverageRating)

	_, err = svc.AddReview(f.ctx, past.ID.Hex(), a.ID.Hex(), 5, "again")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestToggleLike_NotifiesOtherUsersOnly(t *testing.T) {
	f := newFixture()
	svc := f.eventService()
	host := f.user(t, "host", models.RoleUser)
	fan := f.user(t, "fan", models.RoleUser)
	ev := f.event(t, host, "Show", "Arts", fixedNow.Add(time.Hour), 0)

	got, err := svc.ToggleLike(f.ctx, ev.ID.Hex(), fan.ID.Hex())
	require.NoError(t, err)
	assert.True(t, got.Likes[fan.ID.Hex()])

	got, err = svc.ToggleLike(f.ctx, ev.ID.Hex(), fan.ID.Hex())
	require.NoError(t, err)
	assert.False(t, got.Likes[fan.ID.Hex()])

	_, err = svc.ToggleLike(f.ctx, ev.ID.Hex(), host.ID.Hex())
	require.NoError(t, err)

	likes := 0
	for _, n := range f.notifications() {
		if n.Type == models.NotificationLike {
			likes++
			assert.Equal(t, host.ID.Hex(), n.UserID)
		}
	}
	assert.Equal(t, 1, likes)
}

type failingNotifications struct {
	repositories.NotificationRepository
}

func (failingNotifications) Create(context.Context, *models.Notification) error {
	return errors.New("notifications unavailable")
}

func TestToggleLike_NotificationFailureIsLogged(t *testing.T) {
	f := newFixture()
	f.stores.Notifications = failingNotifications{f.stores.Notifications}
	var logs bytes.Buffer
	svc := f.eventService()
	svc.log = zerolog.New(&logs)
	host := f.user(t, "host", models.RoleUser)
	fan := f.user(t, "fan", models.RoleUser)
	ev := f.event(t, host, "Show", "Arts", fixedNow.Add(time.Hour), 0)

	got, err := svc.ToggleLike(f.ctx, ev.ID.Hex(), fan.ID.Hex())
	require.NoError(t, err)
	assert.True(t, got.Likes[fan.ID.Hex()])
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "like notification not recorded")
}

func TestCreate_ParsesFormFields(t *testing.T) {
	f := newFixture()
	svc := f.eventService()
	host := f.user(t, "host", models.RoleUser)

	events, err := svc.Create(f.ctx, models.CreateEventRequest{
		UserID:      host.ID.Hex(),
		Title:       "Meetup",
		Description: "Go meetup",
		Location:    "Dhaka",
		Date:        "2025-07-01T18:30",
		Category:    "Tech",
		Coordinates: `{"lat":23.8,"lng":90.4}`,
		Price:       -5,
	}, "events/x.png")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 23.8, events[0].Coordinates.Lat)
	assert.Equal(t, 0.0, events[0].Price)
	assert.Equal(t, "host Tester", events[0].CreatorName)

	_, err = svc.Create(f.ctx, models.CreateEventRequest{UserID: host.ID.Hex(), Date: "next tuesday"}, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDelete_OnlyCreatorOrAdmin(t *testing.T) {
	f := newFixture()
	svc := f.eventService()
	host := f.user(t, "host", models.RoleUser)
	other := f.user(t, "other", models.RoleUser)
	admin := f.user(t, "admin", models.RoleAdmin)
	mine := f.event(t, host, "Mine", "Music", fixedNow, 0)
	theirs := f.event(t, host, "Theirs", "Music", fixedNow, 0)

	err := svc.Delete(f.ctx, mine.ID.Hex(), other.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	require.NoError(t, svc.Delete(f.ctx, mine.ID.Hex(), host.ID.Hex()))
	require.NoError(t, svc.Delete(f.ctx, theirs.ID.Hex(), admin.ID.Hex()))

	logs, err := f.stores.AuditLogs.ListRecent(f.ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditDeleteEvent, logs[0].Action)
}

func TestVerifyTicket(t *testing.T) {
	f := newFixture()
	svc := f.eventService()
	host := f.user(t, "host", models.RoleUser)
	guest := f.user(t, "guest", models.RoleUser)
	ev := f.event(t, host, "Party", "Social", fixedNow, 0)

	res, err := svc.VerifyTicket(f.ctx, ev.ID.Hex(), guest.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.False(t, res.Valid)

	_, err = f.stores.Events.AddParticipant(f.ctx, ev.ID.Hex(), guest.ID.Hex())
	require.NoError(t, err)
	res, err = svc.VerifyTicket(f.ctx, ev.ID.Hex(), guest.ID.Hex())
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "guest Tester", res.Attendee)
}
