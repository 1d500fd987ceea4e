package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CouponRepository defines data access for promotional coupons. Codes are
// stored uppercased; lookups normalize the same way.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Coupon, int64, error)
	Update(ctx context.Context, code string, updates bson.M) error
	Deactivate(ctx context.Context, code string) error
	// ConsumeUse atomically increments used_count, guarded so an exhausted,
	// inactive or out-of-window coupon cannot be consumed. Returns ErrConflict
	// if the guard does not match.
	ConsumeUse(ctx context.Context, code string) error
}

type MongoCouponRepository struct {
	collection *mongo.Collection
}

func NewMongoCouponRepository(db *mongo.Database) CouponRepository {
	return &MongoCouponRepository{collection: db.Collection("coupons")}
}

// EnsureCouponIndexes creates the unique code index. Called once at startup.
func EnsureCouponIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("coupons").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"code": 1},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	coupon.CreatedAt = time.Now().UTC()
	coupon.UpdatedAt = coupon.CreatedAt
	_, err := r.collection.InsertOne(ctx, coupon)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *MongoCouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.collection.FindOne(ctx, bson.M{"code": strings.ToUpper(code)}).Decode(&coupon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *MongoCouponRepository) FindAll(ctx context.Context, page, limit int) ([]models.Coupon, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"created_at": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

func (r *MongoCouponRepository) Update(ctx context.Context, code string, updates bson.M) error {
	updates["updated_at"] = time.Now().UTC()
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"code": strings.ToUpper(code)},
		bson.M{"$set": updates},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCouponRepository) Deactivate(ctx context.Context, code string) error {
	return r.Update(ctx, code, bson.M{"active": false})
}

func (r *MongoCouponRepository) ConsumeUse(ctx context.Context, code string) error {
	now := time.Now().UTC()
	filter := bson.M{
		"code":       strings.ToUpper(code),
		"active":     true,
		"start_date": bson.M{"$lte": now},
		"end_date":   bson.M{"$gte": now},
		"$or": []bson.M{
			{"max_uses": 0},
			{"$expr": bson.M{"$lt": []string{"$used_count", "$max_uses"}}},
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"used_count": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}
