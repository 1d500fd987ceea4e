package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type cartFixture struct {
	products *mockProductRepo
	carts    *mockCartRepo
	coupons  *mockCouponRepo
	loyalty  *mockLoyaltyRepo
	users    *mockUserRepo
	svc      services.CartService
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		products: newMockProductRepo(),
		carts:    newMockCartRepo(),
		coupons:  newMockCouponRepo(),
		loyalty:  newMockLoyaltyRepo(),
		users:    newMockUserRepo(),
	}
	logger, _ := zap.NewDevelopment()
	f.svc = services.NewCartService(f.carts, f.products, f.coupons, f.loyalty, f.users, logger)

	f.products.products["p1"] = &models.Product{ID: "p1", Name: "Margherita", Price: 10.00}
	f.products.products["p2"] = &models.Product{ID: "p2", Name: "Pepperoni", Price: 12.50}
	f.users.users["u1"] = &models.User{ID: "u1", Role: models.RoleCustomer, LoyaltyPoints: 200}
	return f
}

func activeCoupon(code string, scope models.CouponScope, value float64, pct bool) *models.Coupon {
	return &models.Coupon{
		ID:           "c-" + code,
		Code:         code,
		Scope:        scope,
		Value:        value,
		IsPercentage: pct,
		StartDate:    time.Now().Add(-time.Hour),
		EndDate:      time.Now().Add(24 * time.Hour),
		Active:       true,
	}
}

func TestAddItemCreatesCartAndSnapshotsPrice(t *testing.T) {
	f := newCartFixture()

	cart, svcErr := f.svc.AddItem(context.Background(), &models.AddToCartRequest{
		UserID: "u1", ProductID: "p1", Quantity: 2,
	})
	assert.Nil(t, svcErr)
	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 10.00, cart.Lines[0].UnitPrice)
	assert.Equal(t, 20.00, cart.Subtotal)
	assert.Equal(t, 20.00, cart.FinalTotal)

	// A later price change never touches the existing line.
	f.products.products["p1"].Price = 99.00
	cart, svcErr = f.svc.AddItem(context.Background(), &models.AddToCartRequest{
		UserID: "u1", ProductID: "p1", Quantity: 1,
	})
	assert.Nil(t, svcErr)
	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, 10.00, cart.Lines[0].UnitPrice)
	assert.Equal(t, 30.00, cart.Subtotal)
}

func TestAddItemUnknownProduct(t *testing.T) {
	f := newCartFixture()

	_, svcErr := f.svc.AddItem(context.Background(), &models.AddToCartRequest{
		UserID: "u1", ProductID: "missing", Quantity: 1,
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestSubtotalInvariantAcrossMutations(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, _ = f.svc.AddItem(ctx, &models.AddToCartRequest{UserID: "u1", ProductID: "p1", Quantity: 2})
	cart, svcErr := f.svc.AddItem(ctx, &models.AddToCartRequest{UserID: "u1", ProductID: "p2", Quantity: 1})
	assert.Nil(t, svcErr)
	assert.Equal(t, 32.50, cart.Subtotal)

	cart, svcErr = f.svc.UpdateQuantity(ctx, "u1", &models.UpdateQuantityRequest{ProductID: "p2", Quantity: 4})
	assert.Nil(t, svcErr)
	assert.Equal(t, 70.00, cart.Subtotal)

	cart, svcErr = f.svc.RemoveItem(ctx, "u1", "p1")
	assert.Nil(t, svcErr)
	assert.Equal(t, 50.00, cart.Subtotal)
	assert.Equal(t, cart.Subtotal, cart.FinalTotal)
}

func TestApplyCouponStoresSnapshotAndDiscount(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	f.coupons.coupons["SAVE10"] = activeCoupon("SAVE10", models.CouponScopePrice, 10, true)

	_, _ = f.svc.AddItem(ctx, &models.AddToCartRequest{UserID: "u1", ProductID: "p1", Quantity: 3})
	cart, svcErr := f.svc.ApplyCoupon(ctx, "u1", "save10")
	assert.Nil(t, svcErr)
	assert.NotNil(t, cart.AppliedCoupon)
	assert.Equal(t, "SAVE10", cart.AppliedCoupon.Code)
	assert.Equal(t, 3.00, cart.AppliedCoupon.DiscountAmount)
	assert.Equal(t, 27.00, cart.FinalTotal)

	cart, svcErr = f.svc.RemoveCoupon(ctx, "u1")
	assert.Nil(t, svcErr)
	assert.Nil(t, cart.AppliedCoupon)
	assert.Equal(t, 30.00, cart.FinalTotal)
}

func TestApplyCouponRejectsInactiveAndExpired(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	_, _ = f.svc.AddItem(ctx, &models.AddToCartRequest{UserID: "u1", ProductID: "p1", Quantity: 1})

	inactive := activeCoupon("OFF", models.CouponScopePrice, 5, false)
	inactive.Active = false
	f.coupons.coupons["OFF"] = inactive
	_, svcErr := f.svc.ApplyCoupon(ctx, "u1", "OFF")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)

	expired := activeCoupon("OLD", models.CouponScopePrice, 5, false)
	expired.EndDate = time.Now().Add(-time.Hour)
	f.coupons.coupons["OLD"] = expired
	_, svcErr = f.svc.ApplyCoupon(ctx, "u1", "OLD")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestDiscountExclusivity(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	f.coupons.coupons["SAVE10"] = activeCoupon("SAVE10", models.CouponScopePrice, 10, true)
	f.loyalty.rules = &models.LoyaltyRules{
		RedemptionRate:    0.05,
		MinPointsToRedeem: 10,
		Active:            true,
	}

	_, _ = f.svc.AddItem(ctx, &models.AddToCartRequest{UserID: "u1", ProductID: "p1", Quantity: 3})

	cart, svcErr := f.svc.ApplyCoupon(ctx, "u1", "SAVE10")
	assert.Nil(t, svcErr)
	assert.NotNil(t, cart.AppliedCoupon)

	cart, svcErr = f.svc.ApplyLoyalty(ctx, "u1", 100)
	assert.Nil(t, svcErr)
	assert.Nil(t, cart.AppliedCoupon)
	assert.NotNil(t, cart.AppliedLoyalty)
	assert.Equal(t, 5.00, cart.AppliedLoyalty.DiscountAmount)
	assert.Equal(t, 25.00, cart.FinalTotal)

	cart, svcErr = f.svc.ApplyCoupon(ctx, "u1", "SAVE10")
	assert.Nil(t, svcErr)
	assert.Nil(t, cart.AppliedLoyalty)
	assert.NotNil(t, cart.AppliedCoupon)
}

func TestApplyLoyaltyGates(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	_, _ = f.svc.AddItem(ctx, &models.AddToCartRequest{UserID: "u1", ProductID: "p1", Quantity: 1})

	// No rules configured.
	_, svcErr := f.svc.ApplyLoyalty(ctx, "u1", 50)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)

	f.loyalty.rules = &models.LoyaltyRules{RedemptionRate: 0.05, MinPointsToRedeem: 100, Active: true}

	// Below minimum redemption.
	_, svcErr = f.svc.ApplyLoyalty(ctx, "u1", 50)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)

	// Beyond the user's balance (200).
	_, svcErr = f.svc.ApplyLoyalty(ctx, "u1", 500)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)

	// Applying only stages the redemption; the balance moves at checkout.
	_, svcErr = f.svc.ApplyLoyalty(ctx, "u1", 150)
	assert.Nil(t, svcErr)
	assert.Equal(t, 200, f.users.users["u1"].LoyaltyPoints)
}

func TestGetCartMissing(t *testing.T) {
	f := newCartFixture()

	_, svcErr := f.svc.GetCart(context.Background(), "nobody")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
