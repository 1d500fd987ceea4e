package models

import "time"

// Outbox event types.
const (
	EventOrderCreated   = "order.created"
	EventOrderStatus    = "order.status_changed"
	EventOrderDelivered = "order.delivered"
	EventLoyaltyAccrued = "loyalty.accrued"
	// EventCheckoutFailed records a checkout whose coupon use or point
	// deduction went through but whose order write did not, so the consumed
	// value can be reconciled.
	EventCheckoutFailed = "order.checkout_failed"
)

// OutboxEvent is appended alongside order writes so that downstream effects
// (loyalty reconciliation, notifications) survive a crash between the order
// write and the side effect. A background dispatcher publishes pending events
// to Kafka and SNS and marks them dispatched.
type OutboxEvent struct {
	ID           string                 `json:"_id" bson:"_id"`
	Type         string                 `json:"type" bson:"type"`
	OrderID      string                 `json:"order_id" bson:"order_id"`
	UserID       string                 `json:"user_id" bson:"user_id"`
	Payload      map[string]interface{} `json:"payload" bson:"payload"`
	Dispatched   bool                   `json:"dispatched" bson:"dispatched"`
	CreatedAt    time.Time              `json:"created_at" bson:"created_at"`
	DispatchedAt *time.Time             `json:"dispatched_at,omitempty" bson:"dispatched_at,omitempty"`
}
