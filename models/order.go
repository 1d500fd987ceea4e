package models

import "time"

// OrderStatus represents the state of an order in its lifecycle.
type OrderStatus string

const (
	OrderStatusPending               OrderStatus = "pending"
	OrderStatusConfirmed             OrderStatus = "confirmed"
	OrderStatusShipped               OrderStatus = "shipped"
	OrderStatusDelivered             OrderStatus = "delivered"
	OrderStatusCancellationRequested OrderStatus = "cancellation_requested"
	OrderStatusCancelled             OrderStatus = "cancelled"
	OrderStatusRejected              OrderStatus = "rejected"
)

// Admin decisions on a cancellation request.
const (
	CancellationPending  = "pending"
	CancellationApproved = "approved"
	CancellationRejected = "rejected"
)

// Loyalty accrual state recorded on the order itself.
const (
	OrderLoyaltyPending       = "pending"
	OrderLoyaltyAdded         = "added"
	OrderLoyaltyNotApplicable = "not_applicable"
)

// OrderItem is a line snapshotted at checkout, independent of live product
// state.
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
}

type DeliveryAddress struct {
	Address string  `json:"address" bson:"address"`
	Lat     float64 `json:"lat" bson:"lat"`
	Lng     float64 `json:"lng" bson:"lng"`
}

// CancellationReason tracks the customer request and the admin's decision.
type CancellationReason struct {
	RequestedReason string     `json:"requested_reason" bson:"requested_reason"`
	AdminResponse   string     `json:"admin_response" bson:"admin_response"`
	AdminReason     string     `json:"admin_reason,omitempty" bson:"admin_reason,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
}

// OrderLoyalty records the accrual outcome for the order. Status stays
// "pending" if the order was delivered but the point award has not landed
// yet; the outbox event for the delivery lets it be reconciled.
type OrderLoyalty struct {
	PointsEarned   int     `json:"points_earned" bson:"points_earned"`
	PointsApplied  int     `json:"points_applied" bson:"points_applied"`
	DiscountAmount float64 `json:"discount_amount" bson:"discount_amount"`
	Status         string  `json:"status" bson:"status"`
}

type Order struct {
	ID                  string              `json:"_id" bson:"_id"`
	OwnerID             string              `json:"owner_id" bson:"owner_id"`
	Email               string              `json:"email,omitempty" bson:"email,omitempty"`
	Items               []OrderItem         `json:"items" bson:"items"`
	DeliveryAddress     DeliveryAddress     `json:"delivery_address" bson:"delivery_address"`
	PaymentMethod       string              `json:"payment_method" bson:"payment_method"`
	TotalAmount         float64             `json:"total_amount" bson:"total_amount"`
	Status              OrderStatus         `json:"status" bson:"status"`
	CancellationReason  *CancellationReason `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	LoyaltyPoints       OrderLoyalty        `json:"loyalty_points" bson:"loyalty_points"`
	RestaurantAddressID string              `json:"restaurant_address_id,omitempty" bson:"restaurant_address_id,omitempty"`
	DeliveryBoyID       string              `json:"delivery_boy_id,omitempty" bson:"delivery_boy_id,omitempty"`
	CreatedAt           time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" bson:"updated_at"`
}

type CreateOrderItem struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Price     float64 `json:"price" binding:"required,gte=0"`
}

type CreateOrderRequest struct {
	UserID          string            `json:"userId" binding:"required"`
	Email           string            `json:"email"`
	Items           []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress DeliveryAddress   `json:"deliveryAddress" binding:"required"`
	PaymentMethod   string            `json:"paymentMethod" binding:"required"`
	TotalAmount     float64           `json:"totalAmount" binding:"required,gte=0"`
	Status          OrderStatus       `json:"status"` // optional admin override
}

type CheckoutRequest struct {
	UserID          string          `json:"userId" binding:"required"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress" binding:"required"`
	PaymentMethod   string          `json:"paymentMethod" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status              OrderStatus `json:"status" binding:"required"`
	RestaurantAddressID string      `json:"restaurantAddressId"`
	DeliveryBoyID       string      `json:"deliveryBoyId"`
}

type RequestCancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type HandleCancellationRequest struct {
	AdminResponse string `json:"adminResponse" binding:"required,oneof=approved rejected"`
	AdminReason   string `json:"adminReason"`
}
