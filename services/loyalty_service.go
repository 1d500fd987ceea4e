package services

import (
	"context"
	"errors"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// referralBonusPoints is the flat bonus awarded to both sides of a referral.
const referralBonusPoints = 50

// RedeemResult is returned by a successful redemption.
type RedeemResult struct {
	DiscountAmount  float64 `json:"discountAmount"`
	RemainingPoints int     `json:"remainingPoints"`
}

// LoyaltyService is the point ledger: accrual on delivery, redemption,
// refunds and referral bonuses. All balance mutations are atomic increments
// at the storage layer.
type LoyaltyService interface {
	GetRules(ctx context.Context) (*models.LoyaltyRules, *ServiceError)
	UpdateRules(ctx context.Context, req *models.UpdateLoyaltyRulesRequest) (*models.LoyaltyRules, *ServiceError)
	// Accrue awards points for a delivered order. Returns the points earned,
	// zero when the rules are inactive or the total is below the threshold.
	Accrue(ctx context.Context, userID string, orderTotal float64) (int, error)
	Redeem(ctx context.Context, userID string, points int) (*RedeemResult, *ServiceError)
	Refund(ctx context.Context, userID string, points int) *ServiceError
	ReferralBonus(ctx context.Context, referrerID, referredUserID string) *ServiceError
}

type loyaltyServiceImpl struct {
	loyaltyRepo repository.LoyaltyRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

// NewLoyaltyService creates a new LoyaltyService.
func NewLoyaltyService(
	loyaltyRepo repository.LoyaltyRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) LoyaltyService {
	return &loyaltyServiceImpl{
		loyaltyRepo: loyaltyRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func (s *loyaltyServiceImpl) GetRules(ctx context.Context) (*models.LoyaltyRules, *ServiceError) {
	rules, err := s.loyaltyRepo.GetRules(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Loyalty rules not configured"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch loyalty rules", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch loyalty rules"}
	}
	return rules, nil
}

func (s *loyaltyServiceImpl) UpdateRules(ctx context.Context, req *models.UpdateLoyaltyRulesRequest) (*models.LoyaltyRules, *ServiceError) {
	rules := &models.LoyaltyRules{
		PointsPerAmount:      req.PointsPerAmount,
		OrderAmountThreshold: req.OrderAmountThreshold,
		RedemptionRate:       req.RedemptionRate,
		MinPointsToRedeem:    req.MinPointsToRedeem,
		Active:               req.Active,
	}
	if err := s.loyaltyRepo.UpsertRules(ctx, rules); err != nil {
		s.logger.Error("Failed to update loyalty rules", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update loyalty rules"}
	}

	s.logger.Info("Loyalty rules updated",
		zap.Int("points_per_amount", rules.PointsPerAmount),
		zap.Float64("threshold", rules.OrderAmountThreshold),
		zap.Bool("active", rules.Active),
	)
	return rules, nil
}

func (s *loyaltyServiceImpl) Accrue(ctx context.Context, userID string, orderTotal float64) (int, error) {
	rules, err := s.loyaltyRepo.GetRules(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	points := AccruedPoints(orderTotal, rules)
	if points == 0 {
		return 0, nil
	}

	if err := s.userRepo.IncrementLoyaltyPoints(ctx, userID, points); err != nil {
		return 0, err
	}

	s.logger.Info("Loyalty points accrued",
		zap.String("user_id", userID),
		zap.Int("points", points),
		zap.Float64("order_total", orderTotal),
	)
	return points, nil
}

func (s *loyaltyServiceImpl) Redeem(ctx context.Context, userID string, points int) (*RedeemResult, *ServiceError) {
	rules, err := s.loyaltyRepo.GetRules(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 400, Message: "Loyalty program is not configured"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch loyalty rules", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch loyalty rules"}
	}
	if !rules.Active {
		return nil, &ServiceError{StatusCode: 400, Message: "Loyalty program is not active"}
	}
	if points < rules.MinPointsToRedeem {
		return nil, &ServiceError{StatusCode: 400, Message: "Points below minimum redemption amount"}
	}

	// Conditional decrement: a failed guard leaves the balance untouched. The
	// remainder comes back from the same atomic operation, so it is exact
	// even under concurrent balance changes.
	remaining, err := s.userRepo.DeductLoyaltyPoints(ctx, userID, points)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "User not found"}
	}
	if errors.Is(err, repository.ErrInsufficientPoints) {
		return nil, &ServiceError{StatusCode: 400, Message: "Insufficient loyalty points"}
	}
	if err != nil {
		s.logger.Error("Failed to deduct loyalty points", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to redeem points"}
	}

	return &RedeemResult{
		DiscountAmount:  LoyaltyDiscount(points, rules),
		RemainingPoints: remaining,
	}, nil
}

// Refund adds points back unconditionally. Admin tool, no upper bound.
func (s *loyaltyServiceImpl) Refund(ctx context.Context, userID string, points int) *ServiceError {
	err := s.userRepo.IncrementLoyaltyPoints(ctx, userID, points)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "User not found"}
	}
	if err != nil {
		s.logger.Error("Failed to refund loyalty points", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to refund points"}
	}

	s.logger.Info("Loyalty points refunded", zap.String("user_id", userID), zap.Int("points", points))
	return nil
}

// ReferralBonus awards the flat bonus to both sides of a referral exactly
// once. The referral document's points_awarded flag is flipped with a
// conditional update, so a concurrent or repeated call finds it already set.
func (s *loyaltyServiceImpl) ReferralBonus(ctx context.Context, referrerID, referredUserID string) *ServiceError {
	ref, err := s.loyaltyRepo.FindReferral(ctx, referrerID, referredUserID)
	if errors.Is(err, repository.ErrNotFound) {
		ref = &models.Referral{
			ID:             uuid.NewString(),
			ReferrerID:     referrerID,
			ReferredUserID: referredUserID,
		}
		if createErr := s.loyaltyRepo.CreateReferral(ctx, ref); createErr != nil && !errors.Is(createErr, repository.ErrDuplicate) {
			s.logger.Error("Failed to create referral", zap.Error(createErr))
			return &ServiceError{StatusCode: 500, Message: "Failed to record referral"}
		}
	} else if err != nil {
		s.logger.Error("Failed to fetch referral", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to fetch referral"}
	}

	err = s.loyaltyRepo.MarkReferralAwarded(ctx, ref.ID)
	if errors.Is(err, repository.ErrConflict) {
		return &ServiceError{StatusCode: 409, Message: "Referral bonus already awarded"}
	}
	if err != nil {
		s.logger.Error("Failed to mark referral awarded", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to award referral bonus"}
	}

	if err := s.userRepo.IncrementLoyaltyPoints(ctx, referrerID, referralBonusPoints); err != nil {
		s.logger.Error("Failed to award referrer bonus", zap.String("user_id", referrerID), zap.Error(err))
	}
	if err := s.userRepo.IncrementLoyaltyPoints(ctx, referredUserID, referralBonusPoints); err != nil {
		s.logger.Error("Failed to award referred-user bonus", zap.String("user_id", referredUserID), zap.Error(err))
	}

	s.logger.Info("Referral bonus awarded",
		zap.String("referrer_id", referrerID),
		zap.String("referred_user_id", referredUserID),
	)
	return nil
}
