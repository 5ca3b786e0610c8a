package chat

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/logging"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/anonto42/eventpulse/backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

type failingStore struct{}

func (failingStore) Create(context.Context, *models.Message) error {
	return errors.New("mongo down")
}

func (failingStore) ListByEvent(context.Context, string) ([]models.Message, error) {
	return nil, nil
}

func startHub(t *testing.T, store repositories.MessageRepository) *Hub {
	t.Helper()
	hub := NewHub(store)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = hub.Run(ctx) }()
	return hub
}

func joinedClient(hub *Hub, userID, room string) *Client {
	c := newClient(hub, nil, userID)
	hub.register <- c
	hub.handle(context.Background(), c, Frame{Type: TypeJoinRoom, Room: room})
	return c
}

func receive(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case f := <-c.send:
		return f
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.userID)
		return Frame{}
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case f := <-c.send:
		t.Fatalf("client %s unexpectedly received %+v", c.userID, f)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_RelaysToRoomExceptSender(t *testing.T) {
	store := memory.NewMessageRepository()
	hub := startHub(t, store)

	alice := joinedClient(hub, "alice", "event-1")
	bob := joinedClient(hub, "bob", "event-1")
	carol := joinedClient(hub, "carol", "event-1")
	dave := joinedClient(hub, "dave", "event-2")

	hub.handle(context.Background(), alice, Frame{
		Type:    TypeSendMessage,
		Room:    "event-1",
		UserID:  "alice",
		Author:  "Alice A",
		Message: "see you there",
		Time:    "18:30",
	})

	for _, c := range []*Client{bob, carol} {
		f := receive(t, c)
		assert.Equal(t, TypeReceiveMessage, f.Type)
		assert.Equal(t, "see you there", f.Message)
		assert.Equal(t, "Alice A", f.Author)
	}
	assertSilent(t, alice)
	assertSilent(t, dave)

	history, err := store.ListByEvent(context.Background(), "event-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "alice", history[0].SenderID)
	assert.Equal(t, "18:30", history[0].Time)
}

func TestHub_PersistFailureDropsMessage(t *testing.T) {
	hub := startHub(t, failingStore{})

	alice := joinedClient(hub, "alice", "event-1")
	bob := joinedClient(hub, "bob", "event-1")

	hub.handle(context.Background(), alice, Frame{Type: TypeSendMessage, Room: "event-1", Message: "hi"})

	assertSilent(t, bob)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t, memory.NewMessageRepository())
	alice := joinedClient(hub, "alice", "event-1")

	hub.unregister <- alice

	select {
	case _, ok := <-alice.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHub_IgnoresEmptyFrames(t *testing.T) {
	store := memory.NewMessageRepository()
	hub := startHub(t, store)
	alice := joinedClient(hub, "alice", "event-1")

	hub.handle(context.Background(), alice, Frame{Type: TypeSendMessage, Room: "event-1"})
	hub.handle(context.Background(), alice, Frame{Type: "unknown", Room: "event-1", Message: "x"})

	history, err := store.ListByEvent(context.Background(), "event-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}
