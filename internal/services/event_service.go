package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/logging"
	"github.com/anonto42/eventpulse/backend/internal/metrics"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/anonto42/eventpulse/backend/pkg/mailer"
	"github.com/rs/zerolog"
)

const defaultFeedLimit = 5

var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// EventService implements event discovery, participation and moderation
type EventService struct {
	events        repositories.EventRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	audit         repositories.AuditLogRepository
	gate          *DedupGate
	mailer        Mailer
	now           Clock
	log           zerolog.Logger
	pending       sync.WaitGroup
}

// NewEventService creates a new EventService
func NewEventService(stores *repositories.Stores, gate *DedupGate, m Mailer) *EventService {
	return &EventService{
		events:        stores.Events,
		users:         stores.Users,
		notifications: stores.Notifications,
		audit:         stores.AuditLogs,
		gate:          gate,
		mailer:        m,
		now:           time.Now,
		log:           logging.Component("events"),
	}
}

// Wait blocks until background emails have been handed to the mailer
func (s *EventService) Wait() {
	s.pending.Wait()
}

// Create stores a new event and returns the full list, newest first
func (s *EventService) Create(ctx context.Context, req models.CreateEventRequest, picturePath string) ([]models.Event, error) {
	creator, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		return nil, apperr.Validation("Invalid event date")
	}

	event := &models.Event{
		UserID:       req.UserID,
		CreatorName:  creator.FullName(),
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Coordinates:  parseCoordinates(req.Coordinates),
		Date:         date,
		Category:     req.Category,
		Price:        math.Max(req.Price, 0),
		PicturePath:  picturePath,
		Participants: []string{},
		Comments:     []models.Comment{},
		Likes:        map[string]bool{},
		Reviews:      []models.Review{},
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, apperr.Wrap(apperr.KindConflict, err.Error(), err)
	}

	events, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return events, nil
}

// Feed returns one page of the discovery feed
func (s *EventService) Feed(ctx context.Context, page, limit int, search, category, sort string) (*models.EventPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultFeedLimit
	}
	events, total, err := s.events.List(ctx, repositories.FeedQuery{
		Search:   strings.TrimSpace(search),
		Category: category,
		Sort:     sort,
		Skip:     int64((page - 1) * limit),
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	return &models.EventPage{
		Data:        events,
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		TotalEvents: total,
	}, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Event not found")
	}
	return event, nil
}

func (s *EventService) ListByCreator(ctx context.Context, userID string) ([]models.Event, error) {
	events, err := s.events.ListByCreator(ctx, userID)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	return events, nil
}

// Attending returns the events userID has joined
func (s *EventService) Attending(ctx context.Context, userID string) ([]models.Event, error) {
	events, err := s.events.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	return events, nil
}

// FollowingFeed returns events created by the users userID follows
func (s *EventService) FollowingFeed(ctx context.Context, userID string) ([]models.Event, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	events, err := s.events.ListByCreators(ctx, user.Following)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	return events, nil
}

// Guests returns name, email and location of every participant
func (s *EventService) Guests(ctx context.Context, eventID string) ([]models.UserCompact, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "Event not found")
	}
	users, err := s.users.ListByIDs(ctx, event.Participants)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	guests := make([]models.UserCompact, 0, len(users))
	for i := range users {
		guests = append(guests, users[i].ToGuest())
	}
	return guests, nil
}

// VerifyTicket checks whether userID is on the guest list of eventID. A
// valid=false result carries a Validation error.
func (s *EventService) VerifyTicket(ctx context.Context, eventID, userID string) (*models.TicketVerification, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return &models.TicketVerification{Message: "Event not found"}, storeErr(err, "Event not found")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return &models.TicketVerification{Message: "User not found"}, storeErr(err, "User not found")
	}
	if !event.IsParticipant(userID) {
		msg := "Access Denied - User not on guest list"
		return &models.TicketVerification{Message: msg}, apperr.Validation(msg)
	}
	return &models.TicketVerification{
		Valid:    true,
		Message:  "Access Granted",
		Attendee: user.FullName(),
		Event:    event.Title,
	}, nil
}

// ToggleJoin adds or removes userID from the participants of eventID.
//
// Membership is read first and the append is a plain $push, so two
// concurrent joins that both observe "not joined" append twice. The ledger
// row and the creator notification go through the DedupGate and stay
// unique per (user, event). Side effects never fail the join.
func (s *EventService) ToggleJoin(ctx context.Context, eventID, userID string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "Event not found")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}

	if event.IsParticipant(userID) {
		updated, err := s.events.RemoveParticipant(ctx, eventID, userID)
		if err != nil {
			return nil, storeErr(err, "Event not found")
		}
		metrics.EventJoins.WithLabelValues("leave").Inc()
		return updated, nil
	}

	updated, err := s.events.AddParticipant(ctx, eventID, userID)
	if err != nil {
		return nil, storeErr(err, "Event not found")
	}
	metrics.EventJoins.WithLabelValues("join").Inc()

	if event.IsPaid() {
		_, err := s.gate.RecordTransaction(ctx, &models.Transaction{
			UserID:     userID,
			UserName:   user.FullName(),
			UserEmail:  user.Email,
			EventID:    eventID,
			EventTitle: event.Title,
			Amount:     event.Price,
			Status:     models.TransactionSuccess,
			PaymentRef: fmt.Sprintf("TXN-%d", s.now().UnixMilli()),
		})
		if err != nil {
			metrics.SideEffectErrors.WithLabelValues("transaction").Inc()
			s.log.Error().Err(err).Str("eventId", eventID).Str("userId", userID).Msg("transaction not recorded")
		}
	}

	if event.UserID != userID {
		_, err := s.gate.RecordJoinNotification(ctx, &models.Notification{
			UserID:       event.UserID,
			FromUserID:   userID,
			FromUserName: user.FullName(),
			Message:      "joined your event: " + event.Title,
			EventID:      eventID,
		})
		if err != nil {
			metrics.SideEffectErrors.WithLabelValues("join_notification").Inc()
			s.log.Error().Err(err).Str("eventId", eventID).Str("userId", userID).Msg("join notification not recorded")
		}
	}

	s.sendTicket(user, event)
	return updated, nil
}

// TicketID derives the short ticket code printed on the confirmation email
func TicketID(eventID, userID string) string {
	return lastN(eventID, 6) + "-" + lastN(userID, 4)
}

func (s *EventService) sendTicket(user *models.User, event *models.Event) {
	ticket := mailer.Ticket{
		FirstName:  user.FirstName,
		EventTitle: event.Title,
		Location:   event.Location,
		Date:       event.Date,
		TicketID:   TicketID(event.ID.Hex(), user.ID.Hex()),
		Price:      event.Price,
	}
	to := user.Email

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendTicket(ctx, to, ticket); err != nil {
			metrics.EmailsSent.WithLabelValues("ticket", "failed").Inc()
			s.log.Error().Err(err).Str("to", to).Msg("error sending ticket email")
			return
		}
		metrics.EmailsSent.WithLabelValues("ticket", "sent").Inc()
	}()
}

// ToggleLike flips userID in the likes map. Liking someone else's event
// notifies the creator; those notifications may repeat.
func (s *EventService) ToggleLike(ctx context.Context, eventID, userID string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "Event not found")
	}

	if event.Likes[userID] {
		updated, err := s.events.SetLike(ctx, eventID, userID, false)
		if err != nil {
			return nil, storeErr(err, "Event not found")
		}
		return updated, nil
	}

	updated, err := s.events.SetLike(ctx, eventID, userID, true)
	if err != nil {
		return nil, storeErr(err, "Event not found")
	}
	if event.UserID != userID {
		if user, err := s.users.GetByID(ctx, userID); err == nil {
			if err := s.notifications.Create(ctx, &models.Notification{
				UserID:       event.UserID,
				FromUserID:   userID,
				FromUserName: user.FullName(),
				Type:         models.NotificationLike,
				Message:      "liked your event: " + event.Title,
				EventID:      eventID,
			}); err != nil {
				s.log.Warn().Err(err).Str("eventId", eventID).Str("userId", userID).Msg("like notification not recorded")
			}
		}
	}
	return updated, nil
}

func (s *EventService) Comment(ctx context.Context, eventID, userID, text string) (*models.Event, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, storeErr(err, "Event not found")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	updated, err := s.events.AddComment(ctx, eventID, models.Comment{
		UserID:      userID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PicturePath: user.PicturePath,
		Text:        text,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, storeErr(err, "Event not found")
	}
	return updated, nil
}

// AddReview rates a past event. Only participants and the creator may
// review, once each.
func (s *EventService) AddReview(ctx context.Context, eventID, userID string, rating int, text string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "Event not found")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}

	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("Rating must be between 1 and 5.")
	}
	if event.Date.After(s.now()) {
		return nil, apperr.Validation("You can only rate past events.")
	}
	if !event.IsParticipant(userID) && event.UserID != userID {
		return nil, apperr.Validation("You must participate or be the creator to rate this event.")
	}
	if event.HasReviewFrom(userID) {
		return nil, apperr.Validation("You have already reviewed this event.")
	}

	reviews := append(event.Reviews, models.Review{
		UserID:    userID,
		FirstName: user.FirstName,
		Rating:    rating,
		Text:      text,
		CreatedAt: s.now(),
	})
	updated, err := s.events.SaveReviews(ctx, eventID, reviews, models.AverageRating(reviews))
	if err != nil {
		return nil, storeErr(err, "Event not found")
	}
	return updated, nil
}

// Delete removes an event. Only the creator or an admin may delete it;
// admin deletions are audited.
func (s *EventService) Delete(ctx context.Context, eventID, callerID string) error {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return storeErr(err, "User not found")
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return storeErr(err, "Event not found")
	}
	if event.UserID != callerID && !caller.IsAdmin() {
		return apperr.Forbidden("You can only delete your own events.")
	}

	if caller.IsAdmin() {
		if err := s.audit.Create(ctx, &models.AuditLog{
			AdminID:   callerID,
			AdminName: caller.FullName(),
			Action:    models.AuditDeleteEvent,
			Target:    "Event: " + event.Title,
			Details:   "Target ID: " + eventID,
		}); err != nil {
			s.log.Error().Err(err).Str("eventId", eventID).Msg("audit log not written")
		}
	}

	if err := s.events.Delete(ctx, eventID); err != nil {
		return storeErr(err, "Event not found")
	}
	return nil
}

func parseEventDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range eventDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseCoordinates decodes the JSON coordinates form field, falling back
// to the origin on malformed input.
func parseCoordinates(raw string) models.Coordinates {
	var c models.Coordinates
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return models.Coordinates{}
	}
	return c
}
