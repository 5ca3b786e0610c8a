package models

import "time"

const (
	TransactionSuccess  = "success"
	TransactionRefunded = "refunded"
	TransactionFailed   = "failed"
)

// Transaction is a ledger row (PostgreSQL). One row per (user, event).
type Transaction struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"userId" gorm:"size:24;not null;uniqueIndex:idx_transactions_user_event"`
	UserName   string    `json:"userName" gorm:"size:120"`
	UserEmail  string    `json:"userEmail" gorm:"size:120"`
	EventID    string    `json:"eventId" gorm:"size:24;not null;uniqueIndex:idx_transactions_user_event;index"`
	EventTitle string    `json:"eventTitle"`
	Amount     float64   `json:"amount" gorm:"not null"`
	Status     string    `json:"status" gorm:"size:20;default:'success'"`
	PaymentRef string    `json:"paymentRef" gorm:"size:64"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
}
