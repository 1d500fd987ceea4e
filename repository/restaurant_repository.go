package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RestaurantRepository defines data access for restaurant pickup addresses.
type RestaurantRepository interface {
	Create(ctx context.Context, addr *models.RestaurantAddress) error
	FindByID(ctx context.Context, id string) (*models.RestaurantAddress, error)
	FindAll(ctx context.Context) ([]models.RestaurantAddress, error)
	Delete(ctx context.Context, id string) error
}

type MongoRestaurantRepository struct {
	collection *mongo.Collection
}

func NewMongoRestaurantRepository(db *mongo.Database) RestaurantRepository {
	return &MongoRestaurantRepository{collection: db.Collection("restaurant_addresses")}
}

func (r *MongoRestaurantRepository) Create(ctx context.Context, addr *models.RestaurantAddress) error {
	addr.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, addr)
	return err
}

func (r *MongoRestaurantRepository) FindByID(ctx context.Context, id string) (*models.RestaurantAddress, error) {
	var addr models.RestaurantAddress
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&addr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (r *MongoRestaurantRepository) FindAll(ctx context.Context) ([]models.RestaurantAddress, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var addrs []models.RestaurantAddress
	if err := cursor.All(ctx, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

func (r *MongoRestaurantRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
