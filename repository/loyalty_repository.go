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

// loyaltyRulesID is the fixed _id of the singleton rules document.
const loyaltyRulesID = "loyalty_rules"

// LoyaltyRepository defines data access for the loyalty rules singleton and
// referral records.
type LoyaltyRepository interface {
	GetRules(ctx context.Context) (*models.LoyaltyRules, error)
	UpsertRules(ctx context.Context, rules *models.LoyaltyRules) error
	FindReferral(ctx context.Context, referrerID, referredUserID string) (*models.Referral, error)
	CreateReferral(ctx context.Context, ref *models.Referral) error
	// MarkReferralAwarded flips points_awarded false -> true. Returns
	// ErrConflict if the bonus was already awarded.
	MarkReferralAwarded(ctx context.Context, referralID string) error
}

type MongoLoyaltyRepository struct {
	rules     *mongo.Collection
	referrals *mongo.Collection
}

func NewMongoLoyaltyRepository(db *mongo.Database) LoyaltyRepository {
	return &MongoLoyaltyRepository{
		rules:     db.Collection("loyalty_rules"),
		referrals: db.Collection("referrals"),
	}
}

func (r *MongoLoyaltyRepository) GetRules(ctx context.Context) (*models.LoyaltyRules, error) {
	var rules models.LoyaltyRules
	err := r.rules.FindOne(ctx, bson.M{"_id": loyaltyRulesID}).Decode(&rules)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *MongoLoyaltyRepository) UpsertRules(ctx context.Context, rules *models.LoyaltyRules) error {
	rules.ID = loyaltyRulesID
	rules.UpdatedAt = time.Now().UTC()
	_, err := r.rules.ReplaceOne(
		ctx,
		bson.M{"_id": loyaltyRulesID},
		rules,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *MongoLoyaltyRepository) FindReferral(ctx context.Context, referrerID, referredUserID string) (*models.Referral, error) {
	var ref models.Referral
	err := r.referrals.FindOne(ctx, bson.M{
		"referrer_id":      referrerID,
		"referred_user_id": referredUserID,
	}).Decode(&ref)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *MongoLoyaltyRepository) CreateReferral(ctx context.Context, ref *models.Referral) error {
	ref.CreatedAt = time.Now().UTC()
	_, err := r.referrals.InsertOne(ctx, ref)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *MongoLoyaltyRepository) MarkReferralAwarded(ctx context.Context, referralID string) error {
	res, err := r.referrals.UpdateOne(
		ctx,
		bson.M{"_id": referralID, "points_awarded": false},
		bson.M{"$set": bson.M{"points_awarded": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, findErr := r.findReferralByID(ctx, referralID); findErr != nil {
			return findErr
		}
		return ErrConflict
	}
	return nil
}

func (r *MongoLoyaltyRepository) findReferralByID(ctx context.Context, id string) (*models.Referral, error) {
	var ref models.Referral
	err := r.referrals.FindOne(ctx, bson.M{"_id": id}).Decode(&ref)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}
