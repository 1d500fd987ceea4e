package models

import "time"

// CouponScope determines what a coupon discounts: the whole cart subtotal or
// a set of specific products.
type CouponScope string

const (
	CouponScopePrice   CouponScope = "price"
	CouponScopeProduct CouponScope = "product"
)

// Coupon is a promotional code document. Codes are stored uppercased and
// looked up case-insensitively. MaxUses of 0 means unlimited.
type Coupon struct {
	ID                   string      `json:"_id" bson:"_id"`
	Code                 string      `json:"code" bson:"code"`
	Scope                CouponScope `json:"scope" bson:"scope"`
	Value                float64     `json:"value" bson:"value"` // discount amount or percentage
	IsPercentage         bool        `json:"is_percentage" bson:"is_percentage"`
	MinOrderAmount       float64     `json:"min_order_amount" bson:"min_order_amount"` // price scope only
	ApplicableProductIDs []string    `json:"applicable_product_ids,omitempty" bson:"applicable_product_ids,omitempty"`
	StartDate            time.Time   `json:"start_date" bson:"start_date"`
	EndDate              time.Time   `json:"end_date" bson:"end_date"`
	Active               bool        `json:"active" bson:"active"`
	MaxUses              int         `json:"max_uses" bson:"max_uses"`
	UsedCount            int         `json:"used_count" bson:"used_count"`
	CreatedAt            time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at" bson:"updated_at"`
}

// CreateCouponRequest is the admin payload for creating a new coupon.
type CreateCouponRequest struct {
	Code                 string      `json:"code" binding:"required,min=3,max=64"`
	Scope                CouponScope `json:"scope" binding:"required,oneof=price product"`
	Value                float64     `json:"value" binding:"required,gt=0"`
	IsPercentage         bool        `json:"is_percentage"`
	MinOrderAmount       float64     `json:"min_order_amount" binding:"gte=0"`
	ApplicableProductIDs []string    `json:"applicable_product_ids"`
	StartDate            time.Time   `json:"start_date" binding:"required"`
	EndDate              time.Time   `json:"end_date" binding:"required"`
	MaxUses              int         `json:"max_uses" binding:"gte=0"`
}

// UpdateCouponRequest carries optional coupon fields for admin updates.
type UpdateCouponRequest struct {
	Value          *float64   `json:"value"`
	MinOrderAmount *float64   `json:"min_order_amount"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	MaxUses        *int       `json:"max_uses"`
	Active         *bool      `json:"active"`
}
