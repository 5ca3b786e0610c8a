package memory

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageRepository struct {
	mu       sync.Mutex
	messages []models.Message
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) Create(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	r.messages = append(r.messages, *m)
	return nil
}

func (r *MessageRepository) ListByEvent(_ context.Context, eventID string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Message{}
	for _, m := range r.messages {
		if m.EventID == eventID {
			out = append(out, m)
		}
	}
	return out, nil
}
