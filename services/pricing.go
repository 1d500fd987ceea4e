package services

import (
	"errors"
	"math"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
)

// Pricing errors surfaced when a discount cannot be applied. Callers translate
// them into validation responses; none of them mutate anything.
var (
	ErrMinOrderNotMet     = errors.New("cart subtotal below coupon minimum order amount")
	ErrNoMatchingProducts = errors.New("coupon does not apply to any product in the cart")
)

// CouponTerms is the pricing-relevant slice of a coupon, so the engine can
// price both a live coupon document and the snapshot stored on a cart.
type CouponTerms struct {
	Scope                models.CouponScope
	Value                float64
	IsPercentage         bool
	MinOrderAmount       float64
	ApplicableProductIDs []string
}

func TermsFromCoupon(c *models.Coupon) CouponTerms {
	return CouponTerms{
		Scope:                c.Scope,
		Value:                c.Value,
		IsPercentage:         c.IsPercentage,
		MinOrderAmount:       c.MinOrderAmount,
		ApplicableProductIDs: c.ApplicableProductIDs,
	}
}

func termsFromApplied(a *models.AppliedCoupon) CouponTerms {
	return CouponTerms{
		Scope:                models.CouponScope(a.Scope),
		Value:                a.Value,
		IsPercentage:         a.IsPercentage,
		ApplicableProductIDs: a.ApplicableProductIDs,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Subtotal computes the cart subtotal as the sum of line totals.
func Subtotal(lines []models.CartLine) float64 {
	var sum float64
	for _, line := range lines {
		sum += float64(line.Quantity) * line.UnitPrice
	}
	return round2(sum)
}

// CouponDiscount computes the discount a coupon yields against the given
// lines. Price-scope coupons discount the subtotal (fixed amounts gated on
// MinOrderAmount and capped at the subtotal); product-scope coupons discount
// only matching lines and fail when nothing matches.
func CouponDiscount(lines []models.CartLine, terms CouponTerms) (float64, error) {
	subtotal := Subtotal(lines)

	switch terms.Scope {
	case models.CouponScopeProduct:
		applicable := make(map[string]bool, len(terms.ApplicableProductIDs))
		for _, id := range terms.ApplicableProductIDs {
			applicable[id] = true
		}

		var discount float64
		matched := false
		for _, line := range lines {
			if !applicable[line.ProductID] {
				continue
			}
			matched = true
			lineTotal := round2(float64(line.Quantity) * line.UnitPrice)
			if terms.IsPercentage {
				discount += lineTotal * terms.Value / 100
			} else {
				discount += math.Min(terms.Value, lineTotal)
			}
		}
		if !matched {
			return 0, ErrNoMatchingProducts
		}
		return round2(discount), nil

	default: // price scope
		if terms.IsPercentage {
			return round2(subtotal * terms.Value / 100), nil
		}
		if subtotal < terms.MinOrderAmount {
			return 0, ErrMinOrderNotMet
		}
		return round2(math.Min(terms.Value, subtotal)), nil
	}
}

// LoyaltyDiscount converts redeemed points into a monetary discount.
func LoyaltyDiscount(points int, rules *models.LoyaltyRules) float64 {
	return round2(float64(points) * rules.RedemptionRate)
}

// FinalTotal clamps the discounted total at zero.
func FinalTotal(subtotal, discount float64) float64 {
	return round2(math.Max(0, subtotal-discount))
}

// AccruedPoints computes the points earned for a delivered order:
// floor((orderTotal/threshold) * pointsPerAmount), zero below the threshold
// or when the rules are inactive.
func AccruedPoints(orderTotal float64, rules *models.LoyaltyRules) int {
	if rules == nil || !rules.Active || rules.OrderAmountThreshold <= 0 {
		return 0
	}
	if orderTotal < rules.OrderAmountThreshold {
		return 0
	}
	return int(math.Floor(orderTotal / rules.OrderAmountThreshold * float64(rules.PointsPerAmount)))
}

// RecomputeCart refreshes every derived field on the cart: line totals,
// subtotal, active discount amount and final total. The stored discount
// snapshot is re-priced against the current lines; a product-scope coupon
// whose matching lines were all removed contributes zero.
func RecomputeCart(cart *models.Cart) {
	for i := range cart.Lines {
		cart.Lines[i].LineTotal = round2(float64(cart.Lines[i].Quantity) * cart.Lines[i].UnitPrice)
	}
	cart.Subtotal = Subtotal(cart.Lines)

	var discount float64
	switch {
	case cart.AppliedCoupon != nil:
		d, err := CouponDiscount(cart.Lines, termsFromApplied(cart.AppliedCoupon))
		if err != nil {
			d = 0
		}
		cart.AppliedCoupon.DiscountAmount = d
		discount = d
	case cart.AppliedLoyalty != nil:
		discount = cart.AppliedLoyalty.DiscountAmount
	}

	cart.FinalTotal = FinalTotal(cart.Subtotal, discount)
}
