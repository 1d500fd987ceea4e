package controllers

import (
	"net/http"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/gin-gonic/gin"
)

// DeliveryController handles the internal delivery-assignment surface,
// authenticated with scoped service keys.
type DeliveryController struct {
	deliveryService services.DeliveryService
}

// NewDeliveryController creates a new DeliveryController.
func NewDeliveryController(deliveryService services.DeliveryService) *DeliveryController {
	return &DeliveryController{deliveryService: deliveryService}
}

// ListAvailable handles GET /api/delivery/available.
func (dc *DeliveryController) ListAvailable(ctx *gin.Context) {
	agents, svcErr := dc.deliveryService.ListAvailableAgents(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"agents": agents})
}

// Assign handles POST /api/delivery/assign.
func (dc *DeliveryController) Assign(ctx *gin.Context) {
	var req models.AssignDeliveryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := dc.deliveryService.Assign(ctx.Request.Context(), req.OrderID, req.DeliveryBoyID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// Complete handles PUT /api/delivery/complete/:orderId.
func (dc *DeliveryController) Complete(ctx *gin.Context) {
	var req models.CompleteDeliveryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := dc.deliveryService.Complete(ctx.Request.Context(), ctx.Param("orderId"), req.DeliveryBoyID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// SetAvailability handles PUT /api/delivery/availability.
func (dc *DeliveryController) SetAvailability(ctx *gin.Context) {
	var req models.SetAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := dc.deliveryService.SetAvailability(ctx.Request.Context(), req.AgentID, req.IsAvailable); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Availability updated"})
}

// RedeemBonus handles POST /api/delivery/redeem-bonus.
func (dc *DeliveryController) RedeemBonus(ctx *gin.Context) {
	var req models.RedeemBonusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	spent, svcErr := dc.deliveryService.RedeemBonusPoints(ctx.Request.Context(), req.AgentID, req.ProductID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Bonus points redeemed", "pointsSpent": spent})
}
