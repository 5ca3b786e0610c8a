package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListPending(ctx context.Context) ([]models.Report, error)
	Resolve(ctx context.Context, id uint) (*models.Report, error)
}

type PostgresReportRepository struct {
	db *gorm.DB
}

func NewPostgresReportRepository(db *gorm.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.Status == "" {
		report.Status = models.ReportPending
	}
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *PostgresReportRepository) ListPending(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ReportPending).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *PostgresReportRepository) Resolve(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	report.Status = models.ReportResolved
	if err := r.db.WithContext(ctx).Save(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
