// Package memory holds in-process implementations of the repository
// interfaces. They honour the same uniqueness rules as the real stores and
// back the "memory" storage driver and the service tests.
package memory

import (
	"github.com/anonto42/eventpulse/backend/internal/repositories"
)

// NewStores returns a Stores container backed entirely by memory
func NewStores() *repositories.Stores {
	return &repositories.Stores{
		Users:         NewUserRepository(),
		Events:        NewEventRepository(),
		Notifications: NewNotificationRepository(),
		Messages:      NewMessageRepository(),
		Transactions:  NewTransactionRepository(),
		Reports:       NewReportRepository(),
		AuditLogs:     NewAuditLogRepository(),
	}
}

var (
	_ repositories.UserRepository         = (*UserRepository)(nil)
	_ repositories.EventRepository        = (*EventRepository)(nil)
	_ repositories.NotificationRepository = (*NotificationRepository)(nil)
	_ repositories.MessageRepository      = (*MessageRepository)(nil)
	_ repositories.TransactionRepository  = (*TransactionRepository)(nil)
	_ repositories.ReportRepository       = (*ReportRepository)(nil)
	_ repositories.AuditLogRepository     = (*AuditLogRepository)(nil)
)
