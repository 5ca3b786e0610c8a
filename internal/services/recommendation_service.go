package services

import (
	"context"
	"sort"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/metrics"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
)

const (
	maxRecommendations = 5
	// backfill kicks in when fewer than this many personalized events match
	minPersonalized = 3
)

// RecommendationService suggests upcoming events from a user's history
type RecommendationService struct {
	users  repositories.UserRepository
	events repositories.EventRepository
	now    Clock
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(stores *repositories.Stores) *RecommendationService {
	return &RecommendationService{
		users:  stores.Users,
		events: stores.Events,
		now:    time.Now,
	}
}

// Recommend returns at most five future events for userID.
//
// The favorite category is the most frequent one among events the user
// joined or bookmarked, ties going to the lexicographically smallest name.
// Matches in that category come first, soonest first; when fewer than three
// match, the list is topped up with the newest-created future events. Any
// storage failure is reported as NotFound.
func (s *RecommendationService) Recommend(ctx context.Context, userID string) (*models.Recommendation, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	history, err := s.events.FindInteracted(ctx, userID, user.Bookmarks)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}

	favorite := FavoriteCategory(history)
	excluded := make([]string, 0, len(history))
	for _, e := range history {
		excluded = append(excluded, e.ID.Hex())
	}

	now := s.now()
	rec := &models.Recommendation{
		Type:     models.RecommendationTrending,
		Category: favorite,
		Data:     []models.Event{},
	}

	if favorite != "" {
		personalized, err := s.events.FindUpcoming(ctx, repositories.UpcomingQuery{
			Category:   favorite,
			ExcludeIDs: excluded,
			Now:        now,
			Limit:      maxRecommendations,
		})
		if err != nil {
			return nil, apperr.NotFound(err.Error())
		}
		if len(personalized) > 0 {
			rec.Type = models.RecommendationBasedOnHistory
			rec.Data = append(rec.Data, personalized...)
		}
	}

	if len(rec.Data) < minPersonalized {
		for _, e := range rec.Data {
			excluded = append(excluded, e.ID.Hex())
		}
		trending, err := s.events.FindUpcoming(ctx, repositories.UpcomingQuery{
			ExcludeIDs:  excluded,
			Now:         now,
			Limit:       int64(maxRecommendations - len(rec.Data)),
			NewestFirst: true,
		})
		if err != nil {
			return nil, apperr.NotFound(err.Error())
		}
		if len(rec.Data) == 0 {
			rec.Type = models.RecommendationTrending
		}
		rec.Data = append(rec.Data, trending...)
	}

	if len(rec.Data) > maxRecommendations {
		rec.Data = rec.Data[:maxRecommendations]
	}
	metrics.RecommendationsServed.WithLabelValues(rec.Type).Inc()
	return rec, nil
}

// FavoriteCategory returns the most frequent category of events, or "" when
// events is empty. Ties are broken by the smallest category name.
func FavoriteCategory(events []models.Event) string {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Category]++
	}
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	favorite, best := "", 0
	for _, c := range categories {
		if counts[c] > best {
			favorite, best = c, counts[c]
		}
	}
	return favorite
}
