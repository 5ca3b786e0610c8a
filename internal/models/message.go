package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a persisted chat line of an event room
type Message struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	EventID    string             `json:"eventId" bson:"eventId"`
	SenderID   string             `json:"senderId" bson:"senderId"`
	SenderName string             `json:"senderName" bson:"senderName"`
	Text       string             `json:"text" bson:"text"`
	Time       string             `json:"time" bson:"time"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type CheckoutRequest struct {
	EventID    string  `json:"eventId" validate:"required"`
	EventTitle string  `json:"eventTitle" validate:"required"`
	Price      float64 `json:"price" validate:"gt=0"`
	UserID     string  `json:"userId" validate:"required"`
}
