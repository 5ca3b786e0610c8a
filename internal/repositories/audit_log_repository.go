package repositories

import (
	"context"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type PostgresAuditLogRepository struct {
	db *gorm.DB
}

func NewPostgresAuditLogRepository(db *gorm.DB) *PostgresAuditLogRepository {
	return &PostgresAuditLogRepository{db: db}
}

func (r *PostgresAuditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *PostgresAuditLogRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// Migrate creates the relational tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Transaction{}, &models.Report{}, &models.AuditLog{})
}
