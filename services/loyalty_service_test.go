package services_test

import (
	"context"
	"testing"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newLoyaltyFixture() (*mockLoyaltyRepo, *mockUserRepo, services.LoyaltyService) {
	loyalty := newMockLoyaltyRepo()
	users := newMockUserRepo()
	logger, _ := zap.NewDevelopment()
	return loyalty, users, services.NewLoyaltyService(loyalty, users, logger)
}

func TestAccrueAwardsPoints(t *testing.T) {
	loyalty, users, svc := newLoyaltyFixture()
	loyalty.rules = &models.LoyaltyRules{PointsPerAmount: 1, OrderAmountThreshold: 100.00, Active: true}
	users.users["u1"] = &models.User{ID: "u1", LoyaltyPoints: 10}

	points, err := svc.Accrue(context.Background(), "u1", 250.00)
	assert.NoError(t, err)
	assert.Equal(t, 2, points)
	assert.Equal(t, 12, users.users["u1"].LoyaltyPoints)
}

func TestAccrueBelowThreshold(t *testing.T) {
	loyalty, users, svc := newLoyaltyFixture()
	loyalty.rules = &models.LoyaltyRules{PointsPerAmount: 1, OrderAmountThreshold: 100.00, Active: true}
	users.users["u1"] = &models.User{ID: "u1"}

	points, err := svc.Accrue(context.Background(), "u1", 50.00)
	assert.NoError(t, err)
	assert.Equal(t, 0, points)
	assert.Equal(t, 0, users.users["u1"].LoyaltyPoints)
}

func TestAccrueWithoutRulesIsNoop(t *testing.T) {
	_, users, svc := newLoyaltyFixture()
	users.users["u1"] = &models.User{ID: "u1"}

	points, err := svc.Accrue(context.Background(), "u1", 1000.00)
	assert.NoError(t, err)
	assert.Equal(t, 0, points)
}

func TestRedeemBoundsLeaveBalanceUnchanged(t *testing.T) {
	loyalty, users, svc := newLoyaltyFixture()
	loyalty.rules = &models.LoyaltyRules{RedemptionRate: 0.03, MinPointsToRedeem: 100, Active: true}
	users.users["u1"] = &models.User{ID: "u1", LoyaltyPoints: 150}

	// Below the minimum.
	_, svcErr := svc.Redeem(context.Background(), "u1", 50)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, 150, users.users["u1"].LoyaltyPoints)

	// Above the balance.
	_, svcErr = svc.Redeem(context.Background(), "u1", 200)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, 150, users.users["u1"].LoyaltyPoints)

	// Within bounds.
	result, svcErr := svc.Redeem(context.Background(), "u1", 100)
	assert.Nil(t, svcErr)
	assert.Equal(t, 3.00, result.DiscountAmount)
	assert.Equal(t, 50, result.RemainingPoints)
}

func TestRedeemReportsAtomicRemainder(t *testing.T) {
	loyalty, users, svc := newLoyaltyFixture()
	loyalty.rules = &models.LoyaltyRules{RedemptionRate: 0.03, MinPointsToRedeem: 10, Active: true}
	users.users["u1"] = &models.User{ID: "u1", LoyaltyPoints: 150}

	// A concurrent accrual lands right after the deduction; the reported
	// remainder still reflects the deduction alone.
	users.postDeduct = func(u *models.User) { u.LoyaltyPoints += 40 }

	result, svcErr := svc.Redeem(context.Background(), "u1", 100)
	assert.Nil(t, svcErr)
	assert.Equal(t, 50, result.RemainingPoints)
	assert.Equal(t, 90, users.users["u1"].LoyaltyPoints)
}

func TestRedeemInactiveProgram(t *testing.T) {
	loyalty, users, svc := newLoyaltyFixture()
	loyalty.rules = &models.LoyaltyRules{RedemptionRate: 0.03, MinPointsToRedeem: 10, Active: false}
	users.users["u1"] = &models.User{ID: "u1", LoyaltyPoints: 500}

	_, svcErr := svc.Redeem(context.Background(), "u1", 100)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, 500, users.users["u1"].LoyaltyPoints)
}

func TestRefund(t *testing.T) {
	_, users, svc := newLoyaltyFixture()
	users.users["u1"] = &models.User{ID: "u1", LoyaltyPoints: 5}

	svcErr := svc.Refund(context.Background(), "u1", 20)
	assert.Nil(t, svcErr)
	assert.Equal(t, 25, users.users["u1"].LoyaltyPoints)

	svcErr = svc.Refund(context.Background(), "ghost", 20)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestReferralBonusAwardedOnce(t *testing.T) {
	_, users, svc := newLoyaltyFixture()
	users.users["ref"] = &models.User{ID: "ref", LoyaltyPoints: 0}
	users.users["new"] = &models.User{ID: "new", LoyaltyPoints: 0}

	svcErr := svc.ReferralBonus(context.Background(), "ref", "new")
	assert.Nil(t, svcErr)
	assert.Equal(t, 50, users.users["ref"].LoyaltyPoints)
	assert.Equal(t, 50, users.users["new"].LoyaltyPoints)

	// Second call finds the awarded flag set and changes nothing.
	svcErr = svc.ReferralBonus(context.Background(), "ref", "new")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, 50, users.users["ref"].LoyaltyPoints)
	assert.Equal(t, 50, users.users["new"].LoyaltyPoints)
}
