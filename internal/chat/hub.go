// Package chat relays event group-chat messages between WebSocket clients.
// Each event is a room; a message is stored before it is relayed to every
// other member of its room.
package chat

import (
	"context"
	"sort"

	"github.com/anonto42/eventpulse/backend/internal/logging"
	"github.com/anonto42/eventpulse/backend/internal/metrics"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// Frame types
const (
	TypeJoinRoom       = "join_room"
	TypeSendMessage    = "send_message"
	TypeReceiveMessage = "receive_message"
)

// Frame is the JSON envelope exchanged with clients
type Frame struct {
	Type    string `json:"type"`
	Room    string `json:"room"`
	UserID  string `json:"userId,omitempty"`
	Author  string `json:"author,omitempty"`
	Message string `json:"message,omitempty"`
	Time    string `json:"time,omitempty"`
}

type membership struct {
	client *Client
	room   string
}

type relay struct {
	from  *Client
	frame Frame
}

// Hub tracks clients and their rooms. All room state is owned by the Run
// goroutine.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	join       chan membership
	relay      chan relay
	done       chan struct{}
	messages   repositories.MessageRepository
	log        zerolog.Logger
}

// NewHub creates a new Hub persisting messages to messages
func NewHub(messages repositories.MessageRepository) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan membership),
		relay:      make(chan relay, 256),
		done:       make(chan struct{}),
		messages:   messages,
		log:        logging.Component("chat-hub"),
	}
}

// Run processes hub events until ctx is canceled
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.log.Info().Msg("chat hub stopped")
			return ctx.Err()

		case c := <-h.register:
			h.clients[c] = true
			metrics.ChatConnections.Inc()
			h.log.Debug().Str("userId", c.userID).Int("total_clients", len(h.clients)).Msg("chat client connected")

		case c := <-h.unregister:
			h.drop(c)

		case m := <-h.join:
			if !h.clients[m.client] {
				continue
			}
			members, ok := h.rooms[m.room]
			if !ok {
				members = make(map[*Client]bool)
				h.rooms[m.room] = members
			}
			members[m.client] = true

		case r := <-h.relay:
			h.deliver(r)
		}
	}
}

// handle processes one frame read from c. Messages are stored first; a
// storage failure drops the message.
func (h *Hub) handle(ctx context.Context, c *Client, f Frame) {
	switch f.Type {
	case TypeJoinRoom:
		if f.Room == "" {
			return
		}
		select {
		case h.join <- membership{client: c, room: f.Room}:
		case <-h.done:
		}

	case TypeSendMessage:
		if f.Room == "" || f.Message == "" {
			return
		}
		err := h.messages.Create(ctx, &models.Message{
			EventID:    f.Room,
			SenderID:   f.UserID,
			SenderName: f.Author,
			Text:       f.Message,
			Time:       f.Time,
		})
		if err != nil {
			metrics.ChatMessages.WithLabelValues("persist_failed").Inc()
			h.log.Error().Err(err).Str("room", f.Room).Msg("error saving message")
			return
		}
		f.Type = TypeReceiveMessage
		select {
		case h.relay <- relay{from: c, frame: f}:
		case <-h.done:
		}
	}
}

func (h *Hub) deliver(r relay) {
	members := h.rooms[r.frame.Room]
	targets := make([]*Client, 0, len(members))
	for c := range members {
		if c != r.from {
			targets = append(targets, c)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })

	for _, c := range targets {
		select {
		case c.send <- r.frame:
		default:
			h.drop(c)
		}
	}
	metrics.ChatMessages.WithLabelValues("relayed").Inc()
}

func (h *Hub) drop(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
	metrics.ChatConnections.Dec()
	h.log.Debug().Str("userId", c.userID).Int("total_clients", len(h.clients)).Msg("chat client disconnected")
}

func (h *Hub) closeAll() {
	for c := range h.clients {
		h.drop(c)
	}
}

