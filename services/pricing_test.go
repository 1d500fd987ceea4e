package services_test

import (
	"testing"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/stretchr/testify/assert"
)

func lines(pairs ...models.CartLine) []models.CartLine { return pairs }

func TestSubtotal(t *testing.T) {
	got := services.Subtotal(lines(
		models.CartLine{ProductID: "p1", Quantity: 2, UnitPrice: 10.00},
		models.CartLine{ProductID: "p2", Quantity: 1, UnitPrice: 9.99},
	))
	assert.Equal(t, 29.99, got)
}

func TestCouponDiscountPriceScopePercentage(t *testing.T) {
	terms := services.CouponTerms{Scope: models.CouponScopePrice, Value: 10, IsPercentage: true}

	discount, err := services.CouponDiscount(lines(
		models.CartLine{ProductID: "p1", Quantity: 3, UnitPrice: 10.00},
	), terms)

	assert.NoError(t, err)
	assert.Equal(t, 3.00, discount)
}

func TestCouponDiscountMinOrderBoundary(t *testing.T) {
	terms := services.CouponTerms{Scope: models.CouponScopePrice, Value: 50, MinOrderAmount: 500.00}

	_, err := services.CouponDiscount(lines(
		models.CartLine{ProductID: "p1", Quantity: 1, UnitPrice: 499.99},
	), terms)
	assert.ErrorIs(t, err, services.ErrMinOrderNotMet)

	discount, err := services.CouponDiscount(lines(
		models.CartLine{ProductID: "p1", Quantity: 1, UnitPrice: 500.00},
	), terms)
	assert.NoError(t, err)
	assert.Equal(t, 50.00, discount)
}

func TestCouponDiscountFixedCappedAtSubtotal(t *testing.T) {
	terms := services.CouponTerms{Scope: models.CouponScopePrice, Value: 100}

	discount, err := services.CouponDiscount(lines(
		models.CartLine{ProductID: "p1", Quantity: 1, UnitPrice: 40.00},
	), terms)

	assert.NoError(t, err)
	assert.Equal(t, 40.00, discount)
}

func TestCouponDiscountProductScope(t *testing.T) {
	terms := services.CouponTerms{
		Scope:                models.CouponScopeProduct,
		Value:                20,
		IsPercentage:         true,
		ApplicableProductIDs: []string{"p1"},
	}

	discount, err := services.CouponDiscount(lines(
		models.CartLine{ProductID: "p1", Quantity: 2, UnitPrice: 15.00},
		models.CartLine{ProductID: "p2", Quantity: 1, UnitPrice: 100.00},
	), terms)

	assert.NoError(t, err)
	assert.Equal(t, 6.00, discount)
}

func TestCouponDiscountProductScopeFixedPerLineCap(t *testing.T) {
	terms := services.CouponTerms{
		Scope:                models.CouponScopeProduct,
		Value:                25,
		ApplicableProductIDs: []string{"p1", "p2"},
	}

	discount, err := services.CouponDiscount(lines(
		models.CartLine{ProductID: "p1", Quantity: 1, UnitPrice: 10.00}, // capped at 10
		models.CartLine{ProductID: "p2", Quantity: 2, UnitPrice: 20.00}, // full 25
	), terms)

	assert.NoError(t, err)
	assert.Equal(t, 35.00, discount)
}

func TestCouponDiscountProductScopeNoMatch(t *testing.T) {
	terms := services.CouponTerms{
		Scope:                models.CouponScopeProduct,
		Value:                10,
		ApplicableProductIDs: []string{"p9"},
	}

	_, err := services.CouponDiscount(lines(
		models.CartLine{ProductID: "p1", Quantity: 1, UnitPrice: 10.00},
	), terms)

	assert.ErrorIs(t, err, services.ErrNoMatchingProducts)
}

func TestFinalTotalClampsAtZero(t *testing.T) {
	assert.Equal(t, 0.00, services.FinalTotal(10.00, 15.00))
	assert.Equal(t, 5.00, services.FinalTotal(10.00, 5.00))
}

func TestAccruedPoints(t *testing.T) {
	rules := &models.LoyaltyRules{
		PointsPerAmount:      1,
		OrderAmountThreshold: 100.00,
		Active:               true,
	}

	assert.Equal(t, 2, services.AccruedPoints(250.00, rules))
	assert.Equal(t, 0, services.AccruedPoints(50.00, rules))
	assert.Equal(t, 1, services.AccruedPoints(100.00, rules))

	rules.Active = false
	assert.Equal(t, 0, services.AccruedPoints(250.00, rules))
	assert.Equal(t, 0, services.AccruedPoints(250.00, nil))
}

func TestLoyaltyDiscount(t *testing.T) {
	rules := &models.LoyaltyRules{RedemptionRate: 0.05}
	assert.Equal(t, 5.00, services.LoyaltyDiscount(100, rules))
}

func TestRecomputeCartRoundTrip(t *testing.T) {
	cart := &models.Cart{
		OwnerID: "u1",
		Lines: lines(
			models.CartLine{ProductID: "p1", Quantity: 3, UnitPrice: 10.00},
		),
	}

	services.RecomputeCart(cart)
	assert.Equal(t, 30.00, cart.Subtotal)
	assert.Equal(t, 30.00, cart.FinalTotal)

	cart.AppliedCoupon = &models.AppliedCoupon{
		Code:         "SAVE10",
		Scope:        string(models.CouponScopePrice),
		Value:        10,
		IsPercentage: true,
	}
	services.RecomputeCart(cart)
	assert.Equal(t, 30.00, cart.Subtotal)
	assert.Equal(t, 3.00, cart.AppliedCoupon.DiscountAmount)
	assert.Equal(t, 27.00, cart.FinalTotal)

	cart.AppliedCoupon = nil
	services.RecomputeCart(cart)
	assert.Equal(t, 30.00, cart.FinalTotal)
}

func TestRecomputeCartDropsOrphanedProductCoupon(t *testing.T) {
	cart := &models.Cart{
		OwnerID: "u1",
		Lines: lines(
			models.CartLine{ProductID: "p2", Quantity: 1, UnitPrice: 12.00},
		),
		AppliedCoupon: &models.AppliedCoupon{
			Code:                 "BURGER5",
			Scope:                string(models.CouponScopeProduct),
			Value:                5,
			ApplicableProductIDs: []string{"p1"},
		},
	}

	services.RecomputeCart(cart)
	assert.Equal(t, 0.00, cart.AppliedCoupon.DiscountAmount)
	assert.Equal(t, 12.00, cart.FinalTotal)
}
