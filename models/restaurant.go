package models

import "time"

// RestaurantAddress is a pickup location. Its existence is checked before an
// order may transition to shipped.
type RestaurantAddress struct {
	ID        string    `json:"_id" bson:"_id"`
	Label     string    `json:"label" bson:"label"`
	Address   string    `json:"address" bson:"address"`
	Lat       float64   `json:"lat" bson:"lat"`
	Lng       float64   `json:"lng" bson:"lng"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type CreateRestaurantAddressRequest struct {
	Label   string  `json:"label" binding:"required"`
	Address string  `json:"address" binding:"required"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}
