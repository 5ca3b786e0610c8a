package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/logging"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/anonto42/eventpulse/backend/internal/repositories/memory"
	"github.com/anonto42/eventpulse/backend/pkg/mailer"
	"github.com/stretchr/testify/require"
)

func init() {
	logging.Init(logging.Config{Level: "disabled"})
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type sentMail struct {
	kind string
	to   string
	body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) record(kind, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: kind, to: to, body: body})
	return nil
}

func (m *fakeMailer) SendWelcome(_ context.Context, to, firstName string) error {
	return m.record("welcome", to, firstName)
}

func (m *fakeMailer) SendTicket(_ context.Context, to string, t mailer.Ticket) error {
	return m.record("ticket", to, t.TicketID)
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	return m.record("reset", to, resetURL)
}

func (m *fakeMailer) byKind(kind string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMail
	for _, s := range m.sent {
		if s.kind == kind {
			out = append(out, s)
		}
	}
	return out
}

type fixture struct {
	ctx    context.Context
	stores *repositories.Stores
	mail   *fakeMailer
}

func newFixture() *fixture {
	return &fixture{
		ctx:    context.Background(),
		stores: memory.NewStores(),
		mail:   &fakeMailer{},
	}
}

func (f *fixture) eventService() *EventService {
	svc := NewEventService(f.stores, NewDedupGate(f.stores.Notifications, f.stores.Transactions), f.mail)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func (f *fixture) user(t *testing.T, first string, role string) *models.User {
	t.Helper()
	u := &models.User{
		FirstName: first,
		LastName:  "Tester",
		Email:     first + "@example.com",
		Role:      role,
	}
	require.NoError(t, f.stores.Users.Create(f.ctx, u))
	return u
}

func (f *fixture) event(t *testing.T, creator *models.User, title, category string, date time.Time, price float64) *models.Event {
	t.Helper()
	e := &models.Event{
		UserID:      creator.ID.Hex(),
		CreatorName: creator.FullName(),
		Title:       title,
		Category:    category,
		Date:        date,
		Price:       price,
	}
	require.NoError(t, f.stores.Events.Create(f.ctx, e))
	return e
}

func (f *fixture) notifications() []models.Notification {
	return f.stores.Notifications.(*memory.NotificationRepository).All()
}
