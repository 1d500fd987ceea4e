package models

import "time"

// User roles. A delivery agent is a regular user with RoleDeliveryBoy and a
// populated DeliveryProfile.
const (
	RoleCustomer    = "customer"
	RoleAdmin       = "admin"
	RoleDeliveryBoy = "delivery_boy"
)

// GeoPoint is a lat/lng pair used for delivery addresses and agent locations.
type GeoPoint struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// DeliveryProfile holds the delivery-agent specific fields of a user.
type DeliveryProfile struct {
	IsAvailable     bool     `json:"is_available" bson:"is_available"`
	Vehicle         string   `json:"vehicle" bson:"vehicle"`
	CurrentLocation GeoPoint `json:"current_location" bson:"current_location"`
	BonusPoints     int      `json:"bonus_points" bson:"bonus_points"`
}

// User is the core account document. LoyaltyPoints is the customer-side
// balance and is only ever mutated through atomic increments.
type User struct {
	ID              string           `json:"_id" bson:"_id"`
	Name            string           `json:"name" bson:"name"`
	Email           string           `json:"email" bson:"email"`
	Phone           string           `json:"phone" bson:"phone"`
	Role            string           `json:"role" bson:"role"`
	LoyaltyPoints   int              `json:"loyalty_points" bson:"loyalty_points"`
	DeliveryProfile *DeliveryProfile `json:"delivery_profile,omitempty" bson:"delivery_profile,omitempty"`
	CreatedAt       time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" bson:"updated_at"`
}

// DeliveryAgentView is the flattened shape returned when listing available
// agents. It is built from a User document, never decoded from bson directly.
type DeliveryAgentView struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Vehicle  string   `json:"vehicle"`
	Location GeoPoint `json:"location"`
}
