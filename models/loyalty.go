package models

import "time"

// LoyaltyRules is the admin-configured singleton governing accrual and
// redemption. pointsEarned = floor((orderTotal/OrderAmountThreshold) *
// PointsPerAmount), only when orderTotal >= OrderAmountThreshold and Active.
type LoyaltyRules struct {
	ID                   string    `json:"_id" bson:"_id"`
	PointsPerAmount      int       `json:"points_per_amount" bson:"points_per_amount"`
	OrderAmountThreshold float64   `json:"order_amount_threshold" bson:"order_amount_threshold"`
	RedemptionRate       float64   `json:"redemption_rate" bson:"redemption_rate"`
	MinPointsToRedeem    int       `json:"min_points_to_redeem" bson:"min_points_to_redeem"`
	Active               bool      `json:"active" bson:"active"`
	UpdatedAt            time.Time `json:"updated_at" bson:"updated_at"`
}

// Referral records a successful referred registration. PointsAwarded is
// flipped with a conditional update so the +50/+50 bonus lands at most once.
type Referral struct {
	ID             string    `json:"_id" bson:"_id"`
	ReferrerID     string    `json:"referrer_id" bson:"referrer_id"`
	ReferredUserID string    `json:"referred_user_id" bson:"referred_user_id"`
	PointsAwarded  bool      `json:"points_awarded" bson:"points_awarded"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

type UpdateLoyaltyRulesRequest struct {
	PointsPerAmount      int     `json:"points_per_amount" binding:"required,gt=0"`
	OrderAmountThreshold float64 `json:"order_amount_threshold" binding:"required,gt=0"`
	RedemptionRate       float64 `json:"redemption_rate" binding:"required,gt=0"`
	MinPointsToRedeem    int     `json:"min_points_to_redeem" binding:"gte=0"`
	Active               bool    `json:"active"`
}

type RedeemPointsRequest struct {
	PointsToRedeem int `json:"pointsToRedeem" binding:"required,min=1"`
}

type RefundPointsRequest struct {
	UserID string `json:"userId" binding:"required"`
	Points int    `json:"points" binding:"required,min=1"`
}

type ReferralBonusRequest struct {
	ReferrerID     string `json:"referrerId" binding:"required"`
	ReferredUserID string `json:"referredUserId" binding:"required"`
}
