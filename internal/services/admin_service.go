package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/cache"
	"github.com/anonto42/eventpulse/backend/internal/logging"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/rs/zerolog"
)

const (
	recentLimit = 5
	logsLimit   = 50
)

// AdminService backs the moderation dashboard
type AdminService struct {
	users         repositories.UserRepository
	events        repositories.EventRepository
	notifications repositories.NotificationRepository
	transactions  repositories.TransactionRepository
	reports       repositories.ReportRepository
	audit         repositories.AuditLogRepository
	stats         cache.StatsCache
	log           zerolog.Logger
}

// NewAdminService creates a new AdminService. A nil stats cache disables
// caching.
func NewAdminService(stores *repositories.Stores, stats cache.StatsCache) *AdminService {
	if stats == nil {
		stats = cache.NopStatsCache{}
	}
	return &AdminService{
		users:         stores.Users,
		events:        stores.Events,
		notifications: stores.Notifications,
		transactions:  stores.Transactions,
		reports:       stores.Reports,
		audit:         stores.AuditLogs,
		stats:         stats,
		log:           logging.Component("admin"),
	}
}

// IsAdmin reports whether userID holds the admin role
func (s *AdminService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, storeErr(err, "User not found")
	}
	return user.IsAdmin(), nil
}

// Stats summarizes users, events, RSVPs and revenue. Revenue is the sum of
// price times participant count over all events.
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	if stats, ok := s.stats.Get(ctx); ok {
		return stats, nil
	}

	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	events, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	recentUsers, err := s.users.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}

	stats := &models.AdminStats{
		TotalUsers:   totalUsers,
		TotalEvents:  int64(len(events)),
		CategoryData: []models.CategoryCount{},
		RecentUsers:  recentUsers,
	}
	categories := map[string]int{}
	for _, e := range events {
		stats.TotalRSVPs += len(e.Participants)
		stats.TotalRevenue += e.Price * float64(len(e.Participants))
		categories[e.Category]++
	}
	for name, value := range categories {
		stats.CategoryData = append(stats.CategoryData, models.CategoryCount{Name: name, Value: value})
	}
	sort.Slice(stats.CategoryData, func(i, j int) bool {
		return stats.CategoryData[i].Name < stats.CategoryData[j].Name
	})
	if len(events) > recentLimit {
		stats.RecentEvents = events[:recentLimit]
	} else {
		stats.RecentEvents = events
	}

	s.stats.Set(ctx, stats)
	return stats, nil
}

func (s *AdminService) Events(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	return events, nil
}

// Broadcast sends an alert notification to every user
func (s *AdminService) Broadcast(ctx context.Context, adminID, title, message string) error {
	users, err := s.users.List(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	notifications := make([]models.Notification, 0, len(users))
	for _, u := range users {
		notifications = append(notifications, models.Notification{
			UserID:       u.ID.Hex(),
			FromUserID:   "ADMIN",
			FromUserName: "System Admin",
			Type:         models.NotificationAlert,
			Message:      fmt.Sprintf("%s: %s", title, message),
		})
	}
	if err := s.notifications.CreateMany(ctx, notifications); err != nil {
		return apperr.Internal(err)
	}
	s.record(ctx, adminID, models.AuditSendBroadcast, "All Users", "Title: "+title)
	return nil
}

// Report files a moderation report; any signed-in user may do this
func (s *AdminService) Report(ctx context.Context, req models.CreateReportRequest) error {
	err := s.reports.Create(ctx, &models.Report{
		ReporterID:    req.ReporterID,
		ReporterName:  req.ReporterName,
		TargetEventID: req.TargetEventID,
		EventTitle:    req.EventTitle,
		Reason:        req.Reason,
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *AdminService) PendingReports(ctx context.Context) ([]models.Report, error) {
	reports, err := s.reports.ListPending(ctx)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	return reports, nil
}

func (s *AdminService) ResolveReport(ctx context.Context, adminID string, id uint) error {
	report, err := s.reports.Resolve(ctx, id)
	if err != nil {
		return storeErr(err, "Report not found")
	}
	s.record(ctx, adminID, models.AuditResolveReport,
		fmt.Sprintf("Report ID: %d", id), "Resolved report for: "+report.EventTitle)
	return nil
}

func (s *AdminService) Logs(ctx context.Context) ([]models.AuditLog, error) {
	logs, err := s.audit.ListRecent(ctx, logsLimit)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	return logs, nil
}

func (s *AdminService) Transactions(ctx context.Context) ([]models.Transaction, error) {
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return nil, apperr.NotFound(err.Error())
	}
	return txs, nil
}

func (s *AdminService) record(ctx context.Context, adminID, action, target, details string) {
	name := adminID
	if admin, err := s.users.GetByID(ctx, adminID); err == nil {
		name = admin.FullName()
	}
	if err := s.audit.Create(ctx, &models.AuditLog{
		AdminID:   adminID,
		AdminName: name,
		Action:    action,
		Target:    target,
		Details:   details,
	}); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("audit log not written")
	}
}
