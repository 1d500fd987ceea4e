package services

import (
	"context"
	"errors"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	// deliveryBonusPoints is awarded to the agent for each completed delivery.
	deliveryBonusPoints = 50
	// bonusRedemptionCost is the flat point cost of one bonus redemption.
	bonusRedemptionCost = 150
)

// DeliveryService handles delivery-agent workflows: listing available agents,
// assigning them to shipped orders, completing deliveries and redeeming the
// bonus points earned along the way.
type DeliveryService interface {
	ListAvailableAgents(ctx context.Context) ([]models.DeliveryAgentView, *ServiceError)
	// Assign attaches an available agent to an order. Assignment does not flip
	// the agent's availability; an agent may carry several orders at once and
	// goes unavailable only by their own toggle.
	Assign(ctx context.Context, orderID, agentID string) (*models.Order, *ServiceError)
	Complete(ctx context.Context, orderID, agentID string) (*models.Order, *ServiceError)
	SetAvailability(ctx context.Context, agentID string, available bool) *ServiceError
	RedeemBonusPoints(ctx context.Context, agentID, productID string) (int, *ServiceError)
}

type deliveryServiceImpl struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	orders    OrderService
	logger    *zap.Logger
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	orders OrderService,
	logger *zap.Logger,
) DeliveryService {
	return &deliveryServiceImpl{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		orders:    orders,
		logger:    logger,
	}
}

func (s *deliveryServiceImpl) ListAvailableAgents(ctx context.Context) ([]models.DeliveryAgentView, *ServiceError) {
	agents, err := s.userRepo.FindAvailableAgents(ctx)
	if err != nil {
		s.logger.Error("Failed to list available agents", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list available agents"}
	}
	return agents, nil
}

func (s *deliveryServiceImpl) Assign(ctx context.Context, orderID, agentID string) (*models.Order, *ServiceError) {
	agent, err := s.userRepo.FindDeliveryAgent(ctx, agentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Delivery agent not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch delivery agent", zap.String("agent_id", agentID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch delivery agent"}
	}
	if agent.DeliveryProfile == nil || !agent.DeliveryProfile.IsAvailable {
		return nil, &ServiceError{StatusCode: 400, Message: "Delivery agent is not available"}
	}

	order, svcErr := s.orders.GetOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}
	if order.Status != models.OrderStatusShipped {
		return nil, &ServiceError{StatusCode: 409, Message: "Only shipped orders can be assigned"}
	}

	if err := s.orderRepo.SetFields(ctx, orderID, bson.M{"delivery_boy_id": agentID}); err != nil {
		s.logger.Error("Failed to assign agent", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to assign agent"}
	}
	order.DeliveryBoyID = agentID

	s.logger.Info("Agent assigned to order",
		zap.String("order_id", orderID),
		zap.String("agent_id", agentID),
	)
	return order, nil
}

// Complete marks the assigned agent's order delivered, awards the delivery
// bonus and puts the agent back in the available pool.
func (s *deliveryServiceImpl) Complete(ctx context.Context, orderID, agentID string) (*models.Order, *ServiceError) {
	order, svcErr := s.orders.GetOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}
	if order.Status != models.OrderStatusShipped {
		return nil, &ServiceError{StatusCode: 409, Message: "Order is not out for delivery"}
	}
	if order.DeliveryBoyID != agentID {
		return nil, &ServiceError{StatusCode: 403, Message: "Order is not assigned to this agent"}
	}

	updated, svcErr := s.orders.UpdateStatus(ctx, orderID, &models.UpdateOrderStatusRequest{
		Status: models.OrderStatusDelivered,
	})
	if svcErr != nil {
		return nil, svcErr
	}

	// Post-delivery agent bookkeeping is best effort; the delivery itself is
	// already recorded.
	if err := s.userRepo.IncrementBonusPoints(ctx, agentID, deliveryBonusPoints); err != nil {
		s.logger.Error("Failed to award delivery bonus", zap.String("agent_id", agentID), zap.Error(err))
	}
	if err := s.userRepo.SetAgentAvailability(ctx, agentID, true); err != nil {
		s.logger.Error("Failed to reset agent availability", zap.String("agent_id", agentID), zap.Error(err))
	}

	s.logger.Info("Delivery completed",
		zap.String("order_id", orderID),
		zap.String("agent_id", agentID),
	)
	return updated, nil
}

func (s *deliveryServiceImpl) SetAvailability(ctx context.Context, agentID string, available bool) *ServiceError {
	err := s.userRepo.SetAgentAvailability(ctx, agentID, available)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Delivery agent not found"}
	}
	if err != nil {
		s.logger.Error("Failed to set agent availability", zap.String("agent_id", agentID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to set availability"}
	}
	return nil
}

// RedeemBonusPoints spends a flat amount of the agent's bonus balance in
// exchange for a product reward. Stock is not mutated. The decrement is
// guarded at the storage layer so a short balance is never driven negative.
func (s *deliveryServiceImpl) RedeemBonusPoints(ctx context.Context, agentID, productID string) (int, *ServiceError) {
	err := s.userRepo.DeductBonusPoints(ctx, agentID, bonusRedemptionCost)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, &ServiceError{StatusCode: 404, Message: "Delivery agent not found"}
	}
	if errors.Is(err, repository.ErrInsufficientPoints) {
		return 0, &ServiceError{StatusCode: 400, Message: "Insufficient bonus points"}
	}
	if err != nil {
		s.logger.Error("Failed to redeem bonus points", zap.String("agent_id", agentID), zap.Error(err))
		return 0, &ServiceError{StatusCode: 500, Message: "Failed to redeem bonus points"}
	}

	s.logger.Info("Bonus points redeemed",
		zap.String("agent_id", agentID),
		zap.String("product_id", productID),
		zap.Int("points", bonusRedemptionCost),
	)
	return bonusRedemptionCost, nil
}
