package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationRepository mirrors the partial unique index on
// (fromUserId, eventId, type) restricted to "join"
type NotificationRepository struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(n)
}

// CreateMany is unordered: every non-duplicate is stored
func (r *NotificationRepository) CreateMany(_ context.Context, ns []models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for i := range ns {
		if err := r.insert(&ns[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *NotificationRepository) ListByRecipient(_ context.Context, userID string) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

// All returns every stored notification in insertion order
func (r *NotificationRepository) All() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.notifications...)
}

func (r *NotificationRepository) insert(n *models.Notification) error {
	if n.Type == models.NotificationJoin {
		for _, existing := range r.notifications {
			if existing.Type == models.NotificationJoin &&
				existing.FromUserID == n.FromUserID &&
				existing.EventID == n.EventID {
				return repositories.ErrDuplicate
			}
		}
	}
	n.ID = primitive.NewObjectID()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	n.UpdatedAt = n.CreatedAt
	r.notifications = append(r.notifications, *n)
	return nil
}
