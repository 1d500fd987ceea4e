package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartRepository defines data access for per-user carts. One cart per owner,
// enforced by a unique index on owner_id.
type CartRepository interface {
	FindByOwner(ctx context.Context, ownerID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, ownerID string) error
}

type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &MongoCartRepository{collection: db.Collection("carts")}
}

// EnsureCartIndexes creates the unique owner_id index. Called once at startup.
func EnsureCartIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("carts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"owner_id": 1},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoCartRepository) FindByOwner(ctx context.Context, ownerID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save upserts the full cart document keyed by owner.
func (r *MongoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"owner_id": cart.OwnerID},
		cart,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *MongoCartRepository) Delete(ctx context.Context, ownerID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
