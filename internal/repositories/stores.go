package repositories

import (
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Stores groups every repository the services depend on
type Stores struct {
	Users         UserRepository
	Events        EventRepository
	Notifications NotificationRepository
	Messages      MessageRepository
	Transactions  TransactionRepository
	Reports       ReportRepository
	AuditLogs     AuditLogRepository
}

// NewStores wires the MongoDB document stores and the gorm ledger
func NewStores(mdb *mongo.Database, gdb *gorm.DB) *Stores {
	return &Stores{
		Users:         NewMongoUserRepository(mdb),
		Events:        NewMongoEventRepository(mdb),
		Notifications: NewMongoNotificationRepository(mdb),
		Messages:      NewMongoMessageRepository(mdb),
		Transactions:  NewPostgresTransactionRepository(gdb),
		Reports:       NewPostgresReportRepository(gdb),
		AuditLogs:     NewPostgresAuditLogRepository(gdb),
	}
}
