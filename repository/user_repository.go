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

// UserRepository defines data access for users and delivery agents. All point
// balances move through $inc operations; the conditional variants filter on
// the current balance so a failed guard never touches the document.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	IncrementLoyaltyPoints(ctx context.Context, userID string, delta int) error
	// DeductLoyaltyPoints decrements only while the balance covers the amount
	// and returns the post-deduction balance. Returns ErrInsufficientPoints
	// otherwise.
	DeductLoyaltyPoints(ctx context.Context, userID string, points int) (int, error)
	FindDeliveryAgent(ctx context.Context, id string) (*models.User, error)
	FindAvailableAgents(ctx context.Context) ([]models.DeliveryAgentView, error)
	SetAgentAvailability(ctx context.Context, agentID string, available bool) error
	IncrementBonusPoints(ctx context.Context, agentID string, delta int) error
	// DeductBonusPoints decrements the agent bonus balance only while it
	// covers the cost. Returns ErrInsufficientPoints otherwise.
	DeductBonusPoints(ctx context.Context, agentID string, cost int) error
}

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *MongoUserRepository) IncrementLoyaltyPoints(ctx context.Context, userID string, delta int) error {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{
			"$inc": bson.M{"loyalty_points": delta},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) DeductLoyaltyPoints(ctx context.Context, userID string, points int) (int, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID, "loyalty_points": bson.M{"$gte": points}},
		bson.M{
			"$inc": bson.M{"loyalty_points": -points},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, findErr := r.FindByID(ctx, userID); findErr != nil {
			return 0, findErr
		}
		return 0, ErrInsufficientPoints
	}
	if err != nil {
		return 0, err
	}
	return user.LoyaltyPoints, nil
}

func (r *MongoUserRepository) FindDeliveryAgent(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "role": models.RoleDeliveryBoy}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) FindAvailableAgents(ctx context.Context) ([]models.DeliveryAgentView, error) {
	filter := bson.M{"role": models.RoleDeliveryBoy, "delivery_profile.is_available": true}
	projection := bson.M{
		"_id":                               1,
		"name":                              1,
		"phone":                             1,
		"delivery_profile.vehicle":          1,
		"delivery_profile.current_location": 1,
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	agents := make([]models.DeliveryAgentView, 0, len(users))
	for i := range users {
		agents = append(agents, agentView(&users[i]))
	}
	return agents, nil
}

// agentView flattens the nested delivery profile into the listing shape.
func agentView(u *models.User) models.DeliveryAgentView {
	view := models.DeliveryAgentView{ID: u.ID, Name: u.Name, Phone: u.Phone}
	if u.DeliveryProfile != nil {
		view.Vehicle = u.DeliveryProfile.Vehicle
		view.Location = u.DeliveryProfile.CurrentLocation
	}
	return view
}

func (r *MongoUserRepository) SetAgentAvailability(ctx context.Context, agentID string, available bool) error {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": agentID, "role": models.RoleDeliveryBoy},
		bson.M{"$set": bson.M{
			"delivery_profile.is_available": available,
			"updated_at":                    time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) IncrementBonusPoints(ctx context.Context, agentID string, delta int) error {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": agentID, "role": models.RoleDeliveryBoy},
		bson.M{
			"$inc": bson.M{"delivery_profile.bonus_points": delta},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) DeductBonusPoints(ctx context.Context, agentID string, cost int) error {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":  agentID,
			"role": models.RoleDeliveryBoy,
			"delivery_profile.bonus_points": bson.M{"$gte": cost},
		},
		bson.M{
			"$inc": bson.M{"delivery_profile.bonus_points": -cost},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, findErr := r.FindDeliveryAgent(ctx, agentID); findErr != nil {
			return findErr
		}
		return ErrInsufficientPoints
	}
	return nil
}
