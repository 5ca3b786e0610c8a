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

// UserRepository is an in-memory repositories.UserRepository with a
// unique email constraint
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*models.User)}
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = time.Now()
	if user.Following == nil {
		user.Following = []string{}
	}
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Bookmarks == nil {
		user.Bookmarks = []string{}
	}
	r.users[user.ID.Hex()] = copyUser(user)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.findOne(func(u *models.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByResetToken(_ context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return r.findOne(func(u *models.User) bool {
		return u.ResetPasswordToken == tokenHash &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now)
	})
}

func (r *UserRepository) ListByIDs(_ context.Context, ids []string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.User{}
	seen := map[string]bool{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, *copyUser(u))
		}
	}
	return out, nil
}

func (r *UserRepository) List(_ context.Context) ([]models.User, error) {
	return r.all(), nil
}

func (r *UserRepository) ListRecent(_ context.Context, limit int64) ([]models.User, error) {
	users := r.all()
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	if limit > 0 && int64(len(users)) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID.Hex()]; !ok {
		return repositories.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID.Hex()] = copyUser(user)
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *UserRepository) findOne(match func(*models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) all() []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *copyUser(u))
	}
	return out
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Following = append([]string{}, u.Following...)
	c.Followers = append([]string{}, u.Followers...)
	c.Bookmarks = append([]string{}, u.Bookmarks...)
	if u.ResetPasswordExpires != nil {
		t := *u.ResetPasswordExpires
		c.ResetPasswordExpires = &t
	}
	return &c
}
