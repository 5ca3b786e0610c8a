package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationLike    = "like"
	NotificationJoin    = "join"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationAlert   = "alert"
)

// Notification is delivered to UserID. At most one "join" notification may
// exist per (FromUserID, EventID); the store enforces it with a partial
// unique index.
type Notification struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID       string             `json:"userId" bson:"userId"`
	FromUserID   string             `json:"fromUserId" bson:"fromUserId"`
	FromUserName string             `json:"fromUserName" bson:"fromUserName"`
	Type         string             `json:"type" bson:"type"`
	Message      string             `json:"message" bson:"message"`
	IsRead       bool               `json:"isRead" bson:"isRead"`
	EventID      string             `json:"eventId,omitempty" bson:"eventId,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}
