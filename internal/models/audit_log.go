package models

import "time"

const (
	AuditDeleteUser    = "DELETE_USER"
	AuditDeleteEvent   = "DELETE_EVENT"
	AuditSendBroadcast = "SEND_BROADCAST"
	AuditResolveReport = "RESOLVE_REPORT"
)

// AuditLog records an administrative action (PostgreSQL)
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AdminID   string    `json:"adminId" gorm:"size:24;not null;index"`
	AdminName string    `json:"adminName" gorm:"size:120;not null"`
	Action    string    `json:"action" gorm:"size:30;not null"`
	Target    string    `json:"target"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

type BroadcastRequest struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// CategoryCount is one slice of the admin category chart
type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// AdminStats is the dashboard summary
type AdminStats struct {
	TotalUsers   int64           `json:"totalUsers"`
	TotalEvents  int64           `json:"totalEvents"`
	TotalRSVPs   int             `json:"totalRSVPs"`
	TotalRevenue float64         `json:"totalRevenue"`
	CategoryData []CategoryCount `json:"categoryData"`
	RecentUsers  []User          `json:"recentUsers"`
	RecentEvents []Event         `json:"recentEvents"`
}
