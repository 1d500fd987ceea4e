package models

type AssignDeliveryRequest struct {
	OrderID       string `json:"orderId" binding:"required"`
	DeliveryBoyID string `json:"deliveryBoyId" binding:"required"`
}

type CompleteDeliveryRequest struct {
	DeliveryBoyID string `json:"deliveryBoyId" binding:"required"`
}

type RedeemBonusRequest struct {
	AgentID   string `json:"agentId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
}

type SetAvailabilityRequest struct {
	AgentID     string `json:"agentId" binding:"required"`
	IsAvailable bool   `json:"isAvailable"`
}
