package repositories

import (
	"context"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	// Create inserts a notification; a second "join" for the same
	// (fromUserId, eventId) yields ErrDuplicate.
	Create(ctx context.Context, notification *models.Notification) error
	CreateMany(ctx context.Context, notifications []models.Notification) error
	ListByRecipient(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type MongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

func (r *MongoNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = notification.CreatedAt
	_, err := r.collection.InsertOne(ctx, notification)
	return mongoErr(err)
}

func (r *MongoNotificationRepository) CreateMany(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(notifications))
	for i := range notifications {
		notifications[i].ID = primitive.NewObjectID()
		notifications[i].CreatedAt = now
		notifications[i].UpdatedAt = now
		docs = append(docs, notifications[i])
	}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return mongoErr(err)
}

func (r *MongoNotificationRepository) ListByRecipient(ctx context.Context, userID string) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "updatedAt": time.Now()}},
	)
	return err
}
