package repositories

import (
	"context"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionRepository is the payment ledger
type TransactionRepository interface {
	// CreateIfAbsent inserts t unless a row for (UserID, EventID) exists.
	// It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, t *models.Transaction) (bool, error)
	List(ctx context.Context) ([]models.Transaction, error)
}

// PostgresTransactionRepository implements TransactionRepository with gorm
type PostgresTransactionRepository struct {
	db *gorm.DB
}

// NewPostgresTransactionRepository creates a new PostgresTransactionRepository
func NewPostgresTransactionRepository(db *gorm.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

func (r *PostgresTransactionRepository) CreateIfAbsent(ctx context.Context, t *models.Transaction) (bool, error) {
	if t.Status == "" {
		t.Status = models.TransactionSuccess
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoNothing: true,
		}).
		Create(t)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresTransactionRepository) List(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&txs).Error
	return txs, err
}
