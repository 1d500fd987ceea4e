package services_test

import (
	"context"
	"testing"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type deliveryFixture struct {
	*orderFixture
	svc services.DeliveryService
}

func newDeliveryFixture() *deliveryFixture {
	of := newOrderFixture()
	logger, _ := zap.NewDevelopment()
	f := &deliveryFixture{
		orderFixture: of,
		svc:          services.NewDeliveryService(of.orders, of.users, of.svc, logger),
	}

	f.users.users["agent1"] = &models.User{
		ID:   "agent1",
		Name: "Riya",
		Role: models.RoleDeliveryBoy,
		DeliveryProfile: &models.DeliveryProfile{
			IsAvailable: true,
			Vehicle:     "bike",
			BonusPoints: 120,
		},
	}
	return f
}

func (f *deliveryFixture) shippedOrder(t *testing.T) *models.Order {
	t.Helper()
	order := f.createPending(t)
	updated, svcErr := f.orderFixture.svc.UpdateStatus(context.Background(), order.ID, &models.UpdateOrderStatusRequest{
		Status:              models.OrderStatusShipped,
		RestaurantAddressID: "r1",
	})
	assert.Nil(t, svcErr)
	return updated
}

func TestListAvailableAgents(t *testing.T) {
	f := newDeliveryFixture()

	agents, svcErr := f.svc.ListAvailableAgents(context.Background())
	assert.Nil(t, svcErr)
	assert.Len(t, agents, 1)
	assert.Equal(t, "agent1", agents[0].ID)

	_ = f.users.SetAgentAvailability(context.Background(), "agent1", false)
	agents, svcErr = f.svc.ListAvailableAgents(context.Background())
	assert.Nil(t, svcErr)
	assert.Len(t, agents, 0)
}

func TestAssignKeepsAgentAvailable(t *testing.T) {
	f := newDeliveryFixture()
	order := f.shippedOrder(t)

	assigned, svcErr := f.svc.Assign(context.Background(), order.ID, "agent1")
	assert.Nil(t, svcErr)
	assert.Equal(t, "agent1", assigned.DeliveryBoyID)

	// Assignment alone does not take the agent out of the pool.
	assert.True(t, f.users.users["agent1"].DeliveryProfile.IsAvailable)
}

func TestAssignGuards(t *testing.T) {
	f := newDeliveryFixture()
	order := f.shippedOrder(t)
	ctx := context.Background()

	_, svcErr := f.svc.Assign(ctx, order.ID, "nobody")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)

	_ = f.users.SetAgentAvailability(ctx, "agent1", false)
	_, svcErr = f.svc.Assign(ctx, order.ID, "agent1")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)

	_ = f.users.SetAgentAvailability(ctx, "agent1", true)
	pending := f.createPending(t)
	_, svcErr = f.svc.Assign(ctx, pending.ID, "agent1")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestCompleteDeliversAndRewards(t *testing.T) {
	f := newDeliveryFixture()
	f.loyalty.rules = &models.LoyaltyRules{PointsPerAmount: 1, OrderAmountThreshold: 10.00, Active: true}
	ctx := context.Background()

	order := f.shippedOrder(t)
	_, _ = f.svc.Assign(ctx, order.ID, "agent1")
	_ = f.users.SetAgentAvailability(ctx, "agent1", false)

	completed, svcErr := f.svc.Complete(ctx, order.ID, "agent1")
	assert.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusDelivered, completed.Status)

	agent := f.users.users["agent1"]
	assert.Equal(t, 170, agent.DeliveryProfile.BonusPoints)
	assert.True(t, agent.DeliveryProfile.IsAvailable)

	// Customer accrual ran through the same delivered path.
	assert.Equal(t, 2, f.users.users["u1"].LoyaltyPoints)
}

func TestCompleteGuards(t *testing.T) {
	f := newDeliveryFixture()
	ctx := context.Background()

	// Not shipped yet.
	pending := f.createPending(t)
	_, svcErr := f.svc.Complete(ctx, pending.ID, "agent1")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)

	// Shipped but assigned to someone else.
	order := f.shippedOrder(t)
	_, _ = f.svc.Assign(ctx, order.ID, "agent1")
	_, svcErr = f.svc.Complete(ctx, order.ID, "other-agent")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)

	stored, _ := f.orders.FindByID(ctx, order.ID)
	assert.Equal(t, models.OrderStatusShipped, stored.Status)
}

func TestRedeemBonusPoints(t *testing.T) {
	f := newDeliveryFixture()
	ctx := context.Background()

	// 120 < 150.
	_, svcErr := f.svc.RedeemBonusPoints(ctx, "agent1", "p1")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, 120, f.users.users["agent1"].DeliveryProfile.BonusPoints)

	f.users.users["agent1"].DeliveryProfile.BonusPoints = 200
	spent, svcErr := f.svc.RedeemBonusPoints(ctx, "agent1", "p1")
	assert.Nil(t, svcErr)
	assert.Equal(t, 150, spent)
	assert.Equal(t, 50, f.users.users["agent1"].DeliveryProfile.BonusPoints)
}
