package models

import "time"

type Product struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"title" bson:"title"`
	Price     float64   `json:"price" bson:"price"`
	Category  string    `json:"category" bson:"category"`
	Images    []string  `json:"images" bson:"images"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateProductRequest struct {
	Name     string   `json:"title" binding:"required"`
	Price    float64  `json:"price" binding:"required,gt=0"`
	Category string   `json:"category"`
	Images   []string `json:"images"`
	Quantity int      `json:"quantity" binding:"gte=0"`
}
