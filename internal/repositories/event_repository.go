package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SortNewest = "Newest"
	SortOldest = "Oldest"
)

// FeedQuery filters the discovery feed
type FeedQuery struct {
	Search   string
	Category string
	Sort     string
	Skip     int64
	Limit    int64
}

// UpcomingQuery selects future events for recommendations.
// NewestFirst orders by creation time, otherwise by event date ascending.
type UpcomingQuery struct {
	Category    string
	ExcludeIDs  []string
	Now         time.Time
	Limit       int64
	NewestFirst bool
}

// EventRepository defines the interface for event data operations
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, q FeedQuery) ([]models.Event, int64, error)
	ListAll(ctx context.Context) ([]models.Event, error)
	ListByCreator(ctx context.Context, userID string) ([]models.Event, error)
	ListByCreators(ctx context.Context, userIDs []string) ([]models.Event, error)
	ListByParticipant(ctx context.Context, userID string) ([]models.Event, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Event, error)
	FindInteracted(ctx context.Context, userID string, bookmarkIDs []string) ([]models.Event, error)
	FindUpcoming(ctx context.Context, q UpcomingQuery) ([]models.Event, error)
	AddParticipant(ctx context.Context, id, userID string) (*models.Event, error)
	RemoveParticipant(ctx context.Context, id, userID string) (*models.Event, error)
	SetLike(ctx context.Context, id, userID string, liked bool) (*models.Event, error)
	AddComment(ctx context.Context, id string, comment models.Comment) (*models.Event, error)
	SaveReviews(ctx context.Context, id string, reviews []models.Review, average float64) (*models.Event, error)
	Delete(ctx context.Context, id string) error
	DeleteByCreator(ctx context.Context, userID string) error
	Count(ctx context.Context) (int64, error)
}

// MongoEventRepository implements EventRepository for MongoDB
type MongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new MongoEventRepository
func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{collection: db.Collection("events")}
}

func (r *MongoEventRepository) Create(ctx context.Context, event *models.Event) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	if event.Participants == nil {
		event.Participants = []string{}
	}
	if event.Likes == nil {
		event.Likes = map[string]bool{}
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

func (r *MongoEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&event); err != nil {
		return nil, mongoErr(err)
	}
	return &event, nil
}

func (r *MongoEventRepository) List(ctx context.Context, q FeedQuery) ([]models.Event, int64, error) {
	filter := bson.M{}
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	if q.Category != "" && q.Category != "All" {
		filter["category"] = q.Category
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	order := -1
	if q.Sort == SortOldest {
		order = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: order}}).
		SetSkip(q.Skip).
		SetLimit(q.Limit)
	events, err := r.find(ctx, filter, opts)
	return events, total, err
}

func (r *MongoEventRepository) ListAll(ctx context.Context) ([]models.Event, error) {
	return r.find(ctx, bson.M{}, newestFirst())
}

func (r *MongoEventRepository) ListByCreator(ctx context.Context, userID string) ([]models.Event, error) {
	return r.find(ctx, bson.M{"userId": userID}, newestFirst())
}

func (r *MongoEventRepository) ListByCreators(ctx context.Context, userIDs []string) ([]models.Event, error) {
	if len(userIDs) == 0 {
		return []models.Event{}, nil
	}
	return r.find(ctx, bson.M{"userId": bson.M{"$in": userIDs}}, newestFirst())
}

func (r *MongoEventRepository) ListByParticipant(ctx context.Context, userID string) ([]models.Event, error) {
	return r.find(ctx, bson.M{"participants": userID}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (r *MongoEventRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": objectIDs(ids)}}, options.Find())
}

// FindInteracted returns events the user joined or bookmarked
func (r *MongoEventRepository) FindInteracted(ctx context.Context, userID string, bookmarkIDs []string) ([]models.Event, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"participants": userID},
		bson.M{"_id": bson.M{"$in": objectIDs(bookmarkIDs)}},
	}}
	return r.find(ctx, filter, options.Find())
}

func (r *MongoEventRepository) FindUpcoming(ctx context.Context, q UpcomingQuery) ([]models.Event, error) {
	filter := bson.M{
		"date": bson.M{"$gte": q.Now},
		"_id":  bson.M{"$nin": objectIDs(q.ExcludeIDs)},
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	sort := bson.D{{Key: "date", Value: 1}}
	if q.NewestFirst {
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	return r.find(ctx, filter, options.Find().SetSort(sort).SetLimit(q.Limit))
}

// AddParticipant appends userID with $push. Membership is checked by the caller.
func (r *MongoEventRepository) AddParticipant(ctx context.Context, id, userID string) (*models.Event, error) {
	return r.update(ctx, id, bson.M{"$push": bson.M{"participants": userID}})
}

func (r *MongoEventRepository) RemoveParticipant(ctx context.Context, id, userID string) (*models.Event, error) {
	return r.update(ctx, id, bson.M{"$pull": bson.M{"participants": userID}})
}

func (r *MongoEventRepository) SetLike(ctx context.Context, id, userID string, liked bool) (*models.Event, error) {
	key := "likes." + userID
	if liked {
		return r.update(ctx, id, bson.M{"$set": bson.M{key: true}})
	}
	return r.update(ctx, id, bson.M{"$unset": bson.M{key: ""}})
}

func (r *MongoEventRepository) AddComment(ctx context.Context, id string, comment models.Comment) (*models.Event, error) {
	return r.update(ctx, id, bson.M{"$push": bson.M{"comments": comment}})
}

func (r *MongoEventRepository) SaveReviews(ctx context.Context, id string, reviews []models.Review, average float64) (*models.Event, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"reviews": reviews, "averageRating": average}})
}

func (r *MongoEventRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoEventRepository) DeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

func (r *MongoEventRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *MongoEventRepository) update(ctx context.Context, id string, update bson.M) (*models.Event, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now()
	} else {
		update["$set"] = bson.M{"updatedAt": time.Now()}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var event models.Event
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&event); err != nil {
		return nil, mongoErr(err)
	}
	return &event, nil
}

func (r *MongoEventRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Event, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}
