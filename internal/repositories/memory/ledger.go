package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
)

// TransactionRepository keeps one row per (user, event)
type TransactionRepository struct {
	mu     sync.Mutex
	nextID uint
	rows   map[[2]string]models.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{rows: make(map[[2]string]models.Transaction)}
}

func (r *TransactionRepository) CreateIfAbsent(_ context.Context, t *models.Transaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := [2]string{t.UserID, t.EventID}
	if _, ok := r.rows[key]; ok {
		return false, nil
	}
	r.nextID++
	t.ID = r.nextID
	if t.Status == "" {
		t.Status = models.TransactionSuccess
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.rows[key] = *t
	return true, nil
}

func (r *TransactionRepository) List(_ context.Context) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Transaction, 0, len(r.rows))
	for _, t := range r.rows {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type ReportRepository struct {
	mu      sync.Mutex
	nextID  uint
	reports []models.Report
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{}
}

func (r *ReportRepository) Create(_ context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	report.ID = r.nextID
	if report.Status == "" {
		report.Status = models.ReportPending
	}
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	r.reports = append(r.reports, *report)
	return nil
}

func (r *ReportRepository) ListPending(_ context.Context) ([]models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Report{}
	for i := len(r.reports) - 1; i >= 0; i-- {
		if r.reports[i].Status == models.ReportPending {
			out = append(out, r.reports[i])
		}
	}
	return out, nil
}

func (r *ReportRepository) Resolve(_ context.Context, id uint) (*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.reports {
		if r.reports[i].ID == id {
			r.reports[i].Status = models.ReportResolved
			r.reports[i].UpdatedAt = time.Now()
			report := r.reports[i]
			return &report, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type AuditLogRepository struct {
	mu     sync.Mutex
	nextID uint
	logs   []models.AuditLog
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) Create(_ context.Context, log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	log.ID = r.nextID
	log.CreatedAt = time.Now()
	r.logs = append(r.logs, *log)
	return nil
}

// ListRecent returns the newest entries first
func (r *AuditLogRepository) ListRecent(_ context.Context, limit int) ([]models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.AuditLog{}
	for i := len(r.logs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}
