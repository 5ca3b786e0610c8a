package services

import (
	"context"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/logging"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// UserService manages profiles, the follow graph and bookmarks
type UserService struct {
	users         repositories.UserRepository
	events        repositories.EventRepository
	notifications repositories.NotificationRepository
	audit         repositories.AuditLogRepository
	log           zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(stores *repositories.Stores) *UserService {
	return &UserService{
		users:         stores.Users,
		events:        stores.Events,
		notifications: stores.Notifications,
		audit:         stores.AuditLogs,
		log:           logging.Component("users"),
	}
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	return users, nil
}

// Update changes the editable profile fields. Empty social links clear the
// stored value; an empty picturePath keeps the current picture.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest, picturePath string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	user.Location = req.Location
	user.Occupation = req.Occupation
	user.Socials = models.Socials{
		Twitter:   req.Twitter,
		LinkedIn:  req.LinkedIn,
		Instagram: req.Instagram,
	}
	if picturePath != "" {
		user.PicturePath = picturePath
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeErr(err, "User not found")
	}
	return user, nil
}

// Delete removes a user and every event they created, then audits the
// action under adminID.
func (s *UserService) Delete(ctx context.Context, id, adminID string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, "User not found.")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return storeErr(err, "User not found.")
	}
	if err := s.events.DeleteByCreator(ctx, id); err != nil {
		return apperr.Internal(err)
	}

	adminName := adminID
	if admin, err := s.users.GetByID(ctx, adminID); err == nil {
		adminName = admin.FullName()
	}
	if err := s.audit.Create(ctx, &models.AuditLog{
		AdminID:   adminID,
		AdminName: adminName,
		Action:    models.AuditDeleteUser,
		Target:    "User: " + user.FullName(),
		Details:   "Banned ID: " + id,
	}); err != nil {
		s.log.Error().Err(err).Str("userId", id).Msg("audit log not written")
	}
	return nil
}

// ToggleFollow flips the edge selfID -> targetID and returns the caller's
// resulting following list.
//
// The two profiles are saved one after the other without a transaction; a
// failure between the saves leaves the graph asymmetric.
func (s *UserService) ToggleFollow(ctx context.Context, selfID, targetID string) ([]models.UserCompact, error) {
	if selfID == targetID {
		return nil, apperr.Validation("Cannot follow yourself")
	}
	self, err := s.users.GetByID(ctx, selfID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}

	following := indexOf(self.Following, targetID) >= 0
	if following {
		self.Following = remove(self.Following, targetID)
		target.Followers = remove(target.Followers, selfID)
	} else {
		self.Following = append(self.Following, targetID)
		target.Followers = append(target.Followers, selfID)
	}

	if err := s.users.Update(ctx, self); err != nil {
		return nil, storeErr(err, "User not found")
	}
	if err := s.users.Update(ctx, target); err != nil {
		return nil, storeErr(err, "User not found")
	}

	if !following {
		if err := s.notifications.Create(ctx, &models.Notification{
			UserID:       targetID,
			FromUserID:   selfID,
			FromUserName: self.FullName(),
			Type:         models.NotificationFollow,
			Message:      "started following you",
		}); err != nil {
			s.log.Warn().Err(err).Str("targetId", targetID).Msg("follow notification not recorded")
		}
	}

	users, err := s.users.ListByIDs(ctx, self.Following)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return compacts(orderByIDs(users, self.Following)), nil
}

// ToggleBookmark flips eventID in the user's bookmarks and returns the list
func (s *UserService) ToggleBookmark(ctx context.Context, userID, eventID string) ([]string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	if indexOf(user.Bookmarks, eventID) >= 0 {
		user.Bookmarks = remove(user.Bookmarks, eventID)
	} else {
		user.Bookmarks = append(user.Bookmarks, eventID)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeErr(err, "User not found")
	}
	return user.Bookmarks, nil
}

func (s *UserService) Bookmarks(ctx context.Context, userID string) ([]models.Event, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	events, err := s.events.ListByIDs(ctx, user.Bookmarks)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	return events, nil
}

// Notifications returns the user's notifications, newest first
func (s *UserService) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	ns, err := s.notifications.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	return ns, nil
}

func (s *UserService) MarkNotificationsRead(ctx context.Context, userID string) error {
	if err := s.notifications.MarkAllRead(ctx, userID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// orderByIDs sorts users to follow ids, dropping ids that did not resolve
func orderByIDs(users []models.User, ids []string) []models.User {
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID.Hex()] = u
	}
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

