package models

import "time"

const (
	ReportPending  = "pending"
	ReportResolved = "resolved"
)

// Report flags an event for moderation (PostgreSQL)
type Report struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ReporterID    string    `json:"reporterId" gorm:"size:24;not null"`
	ReporterName  string    `json:"reporterName" gorm:"size:120;not null"`
	TargetEventID string    `json:"targetEventId" gorm:"size:24;not null;index"`
	EventTitle    string    `json:"eventTitle" gorm:"not null"`
	Reason        string    `json:"reason" gorm:"size:20;not null"`
	Status        string    `json:"status" gorm:"size:20;default:'pending';index"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateReportRequest struct {
	ReporterID    string `json:"reporterId" validate:"required"`
	ReporterName  string `json:"reporterName" validate:"required"`
	TargetEventID string `json:"targetEventId" validate:"required"`
	EventTitle    string `json:"eventTitle" validate:"required"`
	Reason        string `json:"reason" validate:"required,oneof=Spam Inappropriate Harassment Other"`
}
