package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// checkoutIdempotencyTTL bounds how long a checkout idempotency key replays
// the original order.
const checkoutIdempotencyTTL = 24 * time.Hour

// allowedTransitions is the single source of truth for order status
// legality. Every status change in the system, whatever the endpoint, is
// checked against this table.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:               {models.OrderStatusConfirmed, models.OrderStatusShipped, models.OrderStatusCancellationRequested},
	models.OrderStatusConfirmed:             {models.OrderStatusShipped, models.OrderStatusCancellationRequested},
	models.OrderStatusShipped:               {models.OrderStatusDelivered},
	models.OrderStatusCancellationRequested: {models.OrderStatusCancelled, models.OrderStatusPending},
	// delivered, cancelled and rejected are terminal
}

// CanTransition reports whether the status table allows from -> to.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// genericStatusTargets are the only statuses the generic update endpoint may
// set; the cancellation workflow has its own operations.
var genericStatusTargets = map[models.OrderStatus]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusConfirmed: true,
	models.OrderStatusShipped:   true,
	models.OrderStatusDelivered: true,
}

// PaginatedOrders is the list response shape shared by user and admin views.
type PaginatedOrders struct {
	Orders []models.Order `json:"orders"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Total  int64          `json:"total"`
}

// OrderService owns the order lifecycle: creation, status transitions, the
// cancellation workflow and deletion. Delivered transitions trigger loyalty
// accrual; all transitions append an outbox event.
type OrderService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, *ServiceError)
	CheckoutFromCart(ctx context.Context, req *models.CheckoutRequest, idempotencyKey string) (*models.Order, *ServiceError)
	GetOrder(ctx context.Context, orderID string) (*models.Order, *ServiceError)
	GetUserOrders(ctx context.Context, userID string, page, limit int) (*PaginatedOrders, *ServiceError)
	GetAllOrders(ctx context.Context, page, limit int) (*PaginatedOrders, *ServiceError)
	UpdateStatus(ctx context.Context, orderID string, req *models.UpdateOrderStatusRequest) (*models.Order, *ServiceError)
	RequestCancellation(ctx context.Context, orderID, byUserID, reason string) (*models.Order, *ServiceError)
	ResolveCancellation(ctx context.Context, orderID string, req *models.HandleCancellationRequest) (*models.Order, *ServiceError)
	DeleteOrder(ctx context.Context, orderID string) *ServiceError
}

type orderServiceImpl struct {
	orderRepo      repository.OrderRepository
	cartRepo       repository.CartRepository
	productRepo    repository.ProductRepository
	couponRepo     repository.CouponRepository
	userRepo       repository.UserRepository
	restaurantRepo repository.RestaurantRepository
	outboxRepo     repository.OutboxRepository
	idemStore      repository.IdempotencyStore
	loyalty        LoyaltyService
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	userRepo repository.UserRepository,
	restaurantRepo repository.RestaurantRepository,
	outboxRepo repository.OutboxRepository,
	idemStore repository.IdempotencyStore,
	loyalty LoyaltyService,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:      orderRepo,
		cartRepo:       cartRepo,
		productRepo:    productRepo,
		couponRepo:     couponRepo,
		userRepo:       userRepo,
		restaurantRepo: restaurantRepo,
		outboxRepo:     outboxRepo,
		idemStore:      idemStore,
		loyalty:        loyalty,
		logger:         logger,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, *ServiceError) {
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, &ServiceError{StatusCode: 400, Message: "Item quantity must be at least 1"}
		}
	}

	status := req.Status
	if status == "" {
		status = models.OrderStatusPending
	}
	switch status {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusDelivered:
	default:
		return nil, &ServiceError{StatusCode: 400, Message: "Orders can only be created as pending, confirmed or delivered"}
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order := &models.Order{
		ID:              uuid.NewString(),
		OwnerID:         req.UserID,
		Email:           req.Email,
		Items:           items,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		TotalAmount:     req.TotalAmount,
		Status:          status,
		LoyaltyPoints:   models.OrderLoyalty{Status: models.OrderLoyaltyPending},
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	s.appendEvent(ctx, models.EventOrderCreated, order, map[string]interface{}{
		"status": string(order.Status),
		"total":  order.TotalAmount,
	})

	// Administrative override: an order created directly as delivered earns
	// its points right away.
	if order.Status == models.OrderStatusDelivered {
		s.applyDeliveryAccrual(ctx, order)
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.OwnerID),
		zap.String("status", string(order.Status)),
	)
	return order, nil
}

// CheckoutFromCart builds an order from the user's stored cart, consuming
// coupon usage and redeemed loyalty points, then clears the cart. A repeated
// call with the same idempotency key returns the original order.
func (s *orderServiceImpl) CheckoutFromCart(ctx context.Context, req *models.CheckoutRequest, idempotencyKey string) (*models.Order, *ServiceError) {
	if idempotencyKey != "" {
		if orderID, err := s.idemStore.Get(ctx, idempotencyKey); err == nil && orderID != "" {
			return s.GetOrder(ctx, orderID)
		}
	}

	cart, err := s.cartRepo.FindByOwner(ctx, req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Cart not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch cart", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch cart"}
	}
	if len(cart.Lines) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}

	items := make([]models.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		name := line.ProductID
		if product, err := s.productRepo.FindByID(ctx, line.ProductID); err == nil {
			name = product.Name
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      name,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		})
	}

	order := &models.Order{
		ID:              uuid.NewString(),
		OwnerID:         req.UserID,
		Items:           items,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		TotalAmount:     cart.FinalTotal,
		Status:          models.OrderStatusPending,
		LoyaltyPoints:   models.OrderLoyalty{Status: models.OrderLoyaltyPending},
	}

	couponCode := ""
	if cart.AppliedCoupon != nil {
		err := s.couponRepo.ConsumeUse(ctx, cart.AppliedCoupon.Code)
		if errors.Is(err, repository.ErrConflict) {
			return nil, &ServiceError{StatusCode: 400, Message: "Applied coupon is no longer valid"}
		}
		if err != nil {
			s.logger.Error("Failed to consume coupon use", zap.String("code", cart.AppliedCoupon.Code), zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to apply coupon"}
		}
		couponCode = cart.AppliedCoupon.Code
	}

	if cart.AppliedLoyalty != nil {
		_, err := s.userRepo.DeductLoyaltyPoints(ctx, req.UserID, cart.AppliedLoyalty.PointsRedeemed)
		if errors.Is(err, repository.ErrInsufficientPoints) {
			return nil, &ServiceError{StatusCode: 400, Message: "Insufficient loyalty points"}
		}
		if err != nil {
			s.logger.Error("Failed to deduct redeemed points", zap.String("user_id", req.UserID), zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to redeem loyalty points"}
		}
		order.LoyaltyPoints.PointsApplied = cart.AppliedLoyalty.PointsRedeemed
		order.LoyaltyPoints.DiscountAmount = cart.AppliedLoyalty.DiscountAmount
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.Error(err))
		// The coupon use and point deduction already happened; leave a
		// reconcilable trace instead of losing them.
		s.appendEvent(ctx, models.EventCheckoutFailed, order, map[string]interface{}{
			"coupon_code":    couponCode,
			"points_applied": order.LoyaltyPoints.PointsApplied,
		})
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	s.appendEvent(ctx, models.EventOrderCreated, order, map[string]interface{}{
		"status": string(order.Status),
		"total":  order.TotalAmount,
	})

	// Best-effort cleanup after the order exists.
	if err := s.cartRepo.Delete(ctx, req.UserID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("Failed to clear cart after checkout", zap.String("user_id", req.UserID), zap.Error(err))
	}
	if idempotencyKey != "" {
		if err := s.idemStore.Set(ctx, idempotencyKey, order.ID, checkoutIdempotencyTTL); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	s.logger.Info("Checkout complete", zap.String("order_id", order.ID), zap.String("user_id", req.UserID))
	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID string) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}
	return order, nil
}

func (s *orderServiceImpl) GetUserOrders(ctx context.Context, userID string, page, limit int) (*PaginatedOrders, *ServiceError) {
	orders, total, err := s.orderRepo.FindByOwner(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch user orders", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return &PaginatedOrders{Orders: orders, Page: page, Limit: limit, Total: total}, nil
}

func (s *orderServiceImpl) GetAllOrders(ctx context.Context, page, limit int) (*PaginatedOrders, *ServiceError) {
	orders, total, err := s.orderRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return &PaginatedOrders{Orders: orders, Page: page, Limit: limit, Total: total}, nil
}

// UpdateStatus is the generic admin transition endpoint. Shipping requires an
// existence-checked restaurant address and optionally assigns a delivery
// agent; delivering runs loyalty accrual against the snapshotted total.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID string, req *models.UpdateOrderStatusRequest) (*models.Order, *ServiceError) {
	if !genericStatusTargets[req.Status] {
		return nil, &ServiceError{StatusCode: 400, Message: "Status must be one of pending, confirmed, shipped, delivered"}
	}

	order, svcErr := s.GetOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	if !CanTransition(order.Status, req.Status) {
		return nil, &ServiceError{
			StatusCode: 409,
			Message:    fmt.Sprintf("Cannot transition order from %s to %s", order.Status, req.Status),
		}
	}

	set := bson.M{}
	if req.Status == models.OrderStatusShipped {
		if req.RestaurantAddressID == "" {
			return nil, &ServiceError{StatusCode: 400, Message: "restaurantAddressId is required to ship an order"}
		}
		if _, err := s.restaurantRepo.FindByID(ctx, req.RestaurantAddressID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &ServiceError{StatusCode: 400, Message: "Unknown restaurant address"}
			}
			s.logger.Error("Failed to fetch restaurant address", zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to verify restaurant address"}
		}
		set["restaurant_address_id"] = req.RestaurantAddressID

		if req.DeliveryBoyID != "" {
			if _, err := s.userRepo.FindDeliveryAgent(ctx, req.DeliveryBoyID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, &ServiceError{StatusCode: 400, Message: "deliveryBoyId does not reference a delivery agent"}
				}
				s.logger.Error("Failed to fetch delivery agent", zap.Error(err))
				return nil, &ServiceError{StatusCode: 500, Message: "Failed to verify delivery agent"}
			}
			set["delivery_boy_id"] = req.DeliveryBoyID
		}
	}

	updated, err := s.orderRepo.UpdateStatusFrom(ctx, orderID, order.Status, req.Status, set)
	if errors.Is(err, repository.ErrConflict) {
		return nil, &ServiceError{StatusCode: 409, Message: "Order status changed concurrently, retry"}
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if err != nil {
		s.logger.Error("Failed to update order status", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order status"}
	}

	s.appendEvent(ctx, models.EventOrderStatus, updated, map[string]interface{}{
		"from": string(order.Status),
		"to":   string(req.Status),
	})

	if req.Status == models.OrderStatusDelivered {
		s.applyDeliveryAccrual(ctx, updated)
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(req.Status)),
	)
	return updated, nil
}

func (s *orderServiceImpl) RequestCancellation(ctx context.Context, orderID, byUserID, reason string) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}
	if order.OwnerID != byUserID {
		return nil, &ServiceError{StatusCode: 403, Message: "Order does not belong to this user"}
	}
	if !CanTransition(order.Status, models.OrderStatusCancellationRequested) {
		return nil, &ServiceError{
			StatusCode: 409,
			Message:    fmt.Sprintf("Cannot request cancellation of a %s order", order.Status),
		}
	}

	set := bson.M{
		"cancellation_reason": models.CancellationReason{
			RequestedReason: reason,
			AdminResponse:   models.CancellationPending,
		},
	}
	updated, err := s.orderRepo.UpdateStatusFrom(ctx, orderID, order.Status, models.OrderStatusCancellationRequested, set)
	if errors.Is(err, repository.ErrConflict) {
		return nil, &ServiceError{StatusCode: 409, Message: "Order status changed concurrently, retry"}
	}
	if err != nil {
		s.logger.Error("Failed to request cancellation", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to request cancellation"}
	}

	s.appendEvent(ctx, models.EventOrderStatus, updated, map[string]interface{}{
		"from": string(order.Status),
		"to":   string(models.OrderStatusCancellationRequested),
	})
	return updated, nil
}

func (s *orderServiceImpl) ResolveCancellation(ctx context.Context, orderID string, req *models.HandleCancellationRequest) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}
	if order.Status != models.OrderStatusCancellationRequested {
		return nil, &ServiceError{StatusCode: 409, Message: "Order has no pending cancellation request"}
	}

	target := models.OrderStatusCancelled
	if req.AdminResponse == models.CancellationRejected {
		target = models.OrderStatusPending
	}

	now := time.Now().UTC()
	reason := order.CancellationReason
	if reason == nil {
		reason = &models.CancellationReason{}
	}
	reason.AdminResponse = req.AdminResponse
	reason.AdminReason = req.AdminReason
	reason.ResolvedAt = &now

	updated, err := s.orderRepo.UpdateStatusFrom(ctx, orderID, order.Status, target, bson.M{
		"cancellation_reason": reason,
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, &ServiceError{StatusCode: 409, Message: "Order status changed concurrently, retry"}
	}
	if err != nil {
		s.logger.Error("Failed to resolve cancellation", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to resolve cancellation"}
	}

	s.appendEvent(ctx, models.EventOrderStatus, updated, map[string]interface{}{
		"from":     string(order.Status),
		"to":       string(target),
		"decision": req.AdminResponse,
	})
	return updated, nil
}

// DeleteOrder hard-removes the order. Loyalty already applied is not
// reversed.
func (s *orderServiceImpl) DeleteOrder(ctx context.Context, orderID string) *ServiceError {
	err := s.orderRepo.Delete(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if err != nil {
		s.logger.Error("Failed to delete order", zap.String("order_id", orderID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete order"}
	}
	return nil
}

// applyDeliveryAccrual awards loyalty points for a delivered order and
// records the outcome on the order. A failed award leaves
// loyalty_points.status at "pending" next to the delivery outbox event, so
// the points can be reconciled later instead of being lost.
func (s *orderServiceImpl) applyDeliveryAccrual(ctx context.Context, order *models.Order) {
	s.appendEvent(ctx, models.EventOrderDelivered, order, map[string]interface{}{
		"total": order.TotalAmount,
	})

	points, err := s.loyalty.Accrue(ctx, order.OwnerID, order.TotalAmount)
	if err != nil {
		s.logger.Error("Loyalty accrual failed, left pending for reconciliation",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return
	}

	status := models.OrderLoyaltyAdded
	if points == 0 {
		status = models.OrderLoyaltyNotApplicable
	}
	set := bson.M{
		"loyalty_points.points_earned": points,
		"loyalty_points.status":        status,
	}
	if err := s.orderRepo.SetFields(ctx, order.ID, set); err != nil {
		s.logger.Error("Failed to record accrual on order", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	order.LoyaltyPoints.PointsEarned = points
	order.LoyaltyPoints.Status = status

	if points > 0 {
		s.appendEvent(ctx, models.EventLoyaltyAccrued, order, map[string]interface{}{
			"points": points,
		})
	}
}

// appendEvent writes an outbox event; failures are logged, never fatal to
// the primary operation.
func (s *orderServiceImpl) appendEvent(ctx context.Context, eventType string, order *models.Order, payload map[string]interface{}) {
	event := &models.OutboxEvent{
		ID:      uuid.NewString(),
		Type:    eventType,
		OrderID: order.ID,
		UserID:  order.OwnerID,
		Payload: payload,
	}
	if err := s.outboxRepo.Append(ctx, event); err != nil {
		s.logger.Error("Failed to append outbox event",
			zap.String("type", eventType),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}
