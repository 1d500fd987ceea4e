package models

import "time"

type CartLine struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"` // snapshot at add-time
	LineTotal float64 `json:"line_total" bson:"line_total"`
}

// AppliedCoupon is the discount state stored on a cart after a coupon is
// applied. Enough of the coupon is copied in so totals can be recomputed on
// later cart mutations without re-reading the coupon document.
type AppliedCoupon struct {
	Code                 string   `json:"code" bson:"code"`
	Scope                string   `json:"scope" bson:"scope"` // price | product
	Value                float64  `json:"value" bson:"value"`
	IsPercentage         bool     `json:"is_percentage" bson:"is_percentage"`
	ApplicableProductIDs []string `json:"applicable_product_ids,omitempty" bson:"applicable_product_ids,omitempty"`
	DiscountAmount       float64  `json:"discount_amount" bson:"discount_amount"`
}

type AppliedLoyalty struct {
	PointsRedeemed int     `json:"points_redeemed" bson:"points_redeemed"`
	DiscountAmount float64 `json:"discount_amount" bson:"discount_amount"`
}

// Cart is one-per-user (unique index on owner_id). At most one of
// AppliedCoupon / AppliedLoyalty is non-nil at a time.
type Cart struct {
	ID             string          `json:"_id" bson:"_id"`
	OwnerID        string          `json:"owner_id" bson:"owner_id"`
	Lines          []CartLine      `json:"lines" bson:"lines"`
	AppliedCoupon  *AppliedCoupon  `json:"applied_coupon,omitempty" bson:"applied_coupon,omitempty"`
	AppliedLoyalty *AppliedLoyalty `json:"applied_loyalty,omitempty" bson:"applied_loyalty,omitempty"`
	Subtotal       float64         `json:"subtotal" bson:"subtotal"`
	FinalTotal     float64         `json:"final_total" bson:"final_total"`
	UpdatedAt      time.Time       `json:"updated_at" bson:"updated_at"`
}

type AddToCartRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type ApplyCouponRequest struct {
	CouponCode string `json:"couponCode" binding:"required"`
}

type ApplyLoyaltyRequest struct {
	PointsToRedeem int `json:"pointsToRedeem" binding:"required,min=1"`
}
