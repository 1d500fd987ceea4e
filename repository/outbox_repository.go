package repository

import (
	"context"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OutboxRepository stores events appended alongside order writes. The
// dispatcher polls pending events and marks them dispatched after publish.
type OutboxRepository interface {
	Append(ctx context.Context, event *models.OutboxEvent) error
	FindPending(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	MarkDispatched(ctx context.Context, id string) error
}

type MongoOutboxRepository struct {
	collection *mongo.Collection
}

func NewMongoOutboxRepository(db *mongo.Database) OutboxRepository {
	return &MongoOutboxRepository{collection: db.Collection("outbox")}
}

func (r *MongoOutboxRepository) Append(ctx context.Context, event *models.OutboxEvent) error {
	event.CreatedAt = time.Now().UTC()
	event.Dispatched = false
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

func (r *MongoOutboxRepository) FindPending(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	findOptions := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.M{"created_at": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"dispatched": false}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.OutboxEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *MongoOutboxRepository) MarkDispatched(ctx context.Context, id string) error {
	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"dispatched": true, "dispatched_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
