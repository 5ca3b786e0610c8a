package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventRepository is an in-memory repositories.EventRepository
type EventRepository struct {
	mu     sync.RWMutex
	events map[string]*models.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[string]*models.Event)}
}

func (r *EventRepository) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.UpdatedAt = time.Now()
	if event.Participants == nil {
		event.Participants = []string{}
	}
	if event.Likes == nil {
		event.Likes = map[string]bool{}
	}
	r.events[event.ID.Hex()] = copyEvent(event)
	return nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyEvent(e), nil
}

func (r *EventRepository) List(_ context.Context, q repositories.FeedQuery) ([]models.Event, int64, error) {
	search := strings.ToLower(q.Search)
	matched := r.filter(func(e *models.Event) bool {
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Title), search) &&
			!strings.Contains(strings.ToLower(e.Description), search) {
			return false
		}
		return q.Category == "" || q.Category == "All" || e.Category == q.Category
	})
	if q.Sort == repositories.SortOldest {
		sortByCreated(matched, false)
	} else {
		sortByCreated(matched, true)
	}

	total := int64(len(matched))
	start := min(q.Skip, total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	return matched[start:end], total, nil
}

func (r *EventRepository) ListAll(_ context.Context) ([]models.Event, error) {
	out := r.filter(func(*models.Event) bool { return true })
	sortByCreated(out, true)
	return out, nil
}

func (r *EventRepository) ListByCreator(_ context.Context, userID string) ([]models.Event, error) {
	out := r.filter(func(e *models.Event) bool { return e.UserID == userID })
	sortByCreated(out, true)
	return out, nil
}

func (r *EventRepository) ListByCreators(_ context.Context, userIDs []string) ([]models.Event, error) {
	set := toSet(userIDs)
	out := r.filter(func(e *models.Event) bool { return set[e.UserID] })
	sortByCreated(out, true)
	return out, nil
}

func (r *EventRepository) ListByParticipant(_ context.Context, userID string) ([]models.Event, error) {
	out := r.filter(func(e *models.Event) bool { return e.IsParticipant(userID) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *EventRepository) ListByIDs(_ context.Context, ids []string) ([]models.Event, error) {
	set := toSet(ids)
	return r.filter(func(e *models.Event) bool { return set[e.ID.Hex()] }), nil
}

func (r *EventRepository) FindInteracted(_ context.Context, userID string, bookmarkIDs []string) ([]models.Event, error) {
	bookmarks := toSet(bookmarkIDs)
	return r.filter(func(e *models.Event) bool {
		return e.IsParticipant(userID) || bookmarks[e.ID.Hex()]
	}), nil
}

func (r *EventRepository) FindUpcoming(_ context.Context, q repositories.UpcomingQuery) ([]models.Event, error) {
	excluded := toSet(q.ExcludeIDs)
	out := r.filter(func(e *models.Event) bool {
		if e.Date.Before(q.Now) || excluded[e.ID.Hex()] {
			return false
		}
		return q.Category == "" || e.Category == q.Category
	})
	if q.NewestFirst {
		sortByCreated(out, true)
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	}
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// AddParticipant appends without a membership check, like $push
func (r *EventRepository) AddParticipant(_ context.Context, id, userID string) (*models.Event, error) {
	return r.mutate(id, func(e *models.Event) {
		e.Participants = append(e.Participants, userID)
	})
}

func (r *EventRepository) RemoveParticipant(_ context.Context, id, userID string) (*models.Event, error) {
	return r.mutate(id, func(e *models.Event) {
		kept := e.Participants[:0]
		for _, p := range e.Participants {
			if p != userID {
				kept = append(kept, p)
			}
		}
		e.Participants = kept
	})
}

func (r *EventRepository) SetLike(_ context.Context, id, userID string, liked bool) (*models.Event, error) {
	return r.mutate(id, func(e *models.Event) {
		if liked {
			e.Likes[userID] = true
		} else {
			delete(e.Likes, userID)
		}
	})
}

func (r *EventRepository) AddComment(_ context.Context, id string, comment models.Comment) (*models.Event, error) {
	return r.mutate(id, func(e *models.Event) {
		e.Comments = append(e.Comments, comment)
	})
}

func (r *EventRepository) SaveReviews(_ context.Context, id string, reviews []models.Review, average float64) (*models.Event, error) {
	return r.mutate(id, func(e *models.Event) {
		e.Reviews = append([]models.Review(nil), reviews...)
		e.AverageRating = average
	})
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *EventRepository) DeleteByCreator(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.events {
		if e.UserID == userID {
			delete(r.events, id)
		}
	}
	return nil
}

func (r *EventRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.events)), nil
}

func (r *EventRepository) mutate(id string, fn func(*models.Event)) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if e.Likes == nil {
		e.Likes = map[string]bool{}
	}
	fn(e)
	e.UpdatedAt = time.Now()
	return copyEvent(e), nil
}

func (r *EventRepository) filter(keep func(*models.Event) bool) []models.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Event{}
	for _, e := range r.events {
		if keep(e) {
			out = append(out, *copyEvent(e))
		}
	}
	return out
}

func sortByCreated(events []models.Event, newestFirst bool) {
	sort.SliceStable(events, func(i, j int) bool {
		if newestFirst {
			return events[i].CreatedAt.After(events[j].CreatedAt)
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}

func copyEvent(e *models.Event) *models.Event {
	c := *e
	c.Participants = append([]string{}, e.Participants...)
	c.Comments = append([]models.Comment(nil), e.Comments...)
	c.Reviews = append([]models.Review(nil), e.Reviews...)
	c.Likes = make(map[string]bool, len(e.Likes))
	for k, v := range e.Likes {
		c.Likes[k] = v
	}
	return &c
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
