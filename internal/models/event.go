package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coordinates pins an event on the map
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Comment is an entry in an event's discussion thread
type Comment struct {
	UserID      string    `json:"userId" bson:"userId"`
	FirstName   string    `json:"firstName" bson:"firstName"`
	LastName    string    `json:"lastName" bson:"lastName"`
	PicturePath string    `json:"picturePath" bson:"picturePath"`
	Text        string    `json:"text" bson:"text"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// Review is a post-event rating, at most one per user
type Review struct {
	UserID    string    `json:"userId" bson:"userId"`
	FirstName string    `json:"firstName" bson:"firstName"`
	Rating    int       `json:"rating" bson:"rating"`
	Text      string    `json:"text,omitempty" bson:"text,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Event is an event document stored in MongoDB
type Event struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID        string             `json:"userId" bson:"userId"`
	CreatorName   string             `json:"creatorName" bson:"creatorName"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	Location      string             `json:"location" bson:"location"`
	Coordinates   Coordinates        `json:"coordinates" bson:"coordinates"`
	Date          time.Time          `json:"date" bson:"date"`
	Category      string             `json:"category" bson:"category"`
	Price         float64            `json:"price" bson:"price"`
	PicturePath   string             `json:"picturePath" bson:"picturePath"`
	Participants  []string           `json:"participants" bson:"participants"`
	Comments      []Comment          `json:"comments" bson:"comments"`
	Likes         map[string]bool    `json:"likes" bson:"likes"`
	Reviews       []Review           `json:"reviews" bson:"reviews"`
	AverageRating float64            `json:"averageRating" bson:"averageRating"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsParticipant reports whether userID has joined the event
func (e *Event) IsParticipant(userID string) bool {
	for _, id := range e.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// HasReviewFrom reports whether userID already reviewed the event
func (e *Event) HasReviewFrom(userID string) bool {
	for _, r := range e.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// IsPaid reports whether joining creates a ledger entry
func (e *Event) IsPaid() bool {
	return e.Price > 0
}

// AverageRating is the mean rating rounded to one decimal place.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return math.Round(float64(total)/float64(len(reviews))*10) / 10
}

// CreateEventRequest is bound from a multipart form
type CreateEventRequest struct {
	UserID      string  `form:"userId" json:"userId"`
	Title       string  `form:"title" json:"title" validate:"required"`
	Description string  `form:"description" json:"description" validate:"required"`
	Location    string  `form:"location" json:"location" validate:"required"`
	Date        string  `form:"date" json:"date" validate:"required"`
	Category    string  `form:"category" json:"category" validate:"required"`
	Coordinates string  `form:"coordinates" json:"coordinates"`
	Price       float64 `form:"price" json:"price" validate:"min=0"`
}

type JoinEventRequest struct {
	UserID string `json:"userId"`
}

type LikeEventRequest struct {
	UserID string `json:"userId"`
}

type CommentRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text" validate:"required,min=1,max=1000"`
}

type ReviewRequest struct {
	UserID string `json:"userId"`
	Rating int    `json:"rating"`
	Text   string `json:"text" validate:"max=1000"`
}

type VerifyTicketRequest struct {
	EventID string `json:"eventId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
}

// TicketVerification is the scanner's answer for a ticket
type TicketVerification struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message"`
	Attendee string `json:"attendee,omitempty"`
	Event    string `json:"event,omitempty"`
}

// EventPage is one page of the discovery feed
type EventPage struct {
	Data        []Event `json:"data"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	TotalEvents int64   `json:"totalEvents"`
}
