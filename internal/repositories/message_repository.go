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

// MessageRepository stores chat history per event room
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByEvent(ctx context.Context, eventID string) ([]models.Message, error)
}

type MongoMessageRepository struct {
	collection *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

func (r *MongoMessageRepository) Create(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	message.UpdatedAt = message.CreatedAt
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// ListByEvent returns the room history, oldest first
func (r *MongoMessageRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"eventId": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
