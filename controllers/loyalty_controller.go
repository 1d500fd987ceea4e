package controllers

import (
	"net/http"

	"github.com/Saqqqi/Food-Delivery-System-sub000/middleware"
	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/gin-gonic/gin"
)

// LoyaltyController handles HTTP requests for the loyalty point ledger.
type LoyaltyController struct {
	loyaltyService services.LoyaltyService
}

// NewLoyaltyController creates a new LoyaltyController.
func NewLoyaltyController(loyaltyService services.LoyaltyService) *LoyaltyController {
	return &LoyaltyController{loyaltyService: loyaltyService}
}

// GetRules handles GET /loyalty/rules.
func (lc *LoyaltyController) GetRules(ctx *gin.Context) {
	rules, svcErr := lc.loyaltyService.GetRules(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"rules": rules})
}

// UpdateRules handles PUT /loyalty/rules (admin only).
func (lc *LoyaltyController) UpdateRules(ctx *gin.Context) {
	var req models.UpdateLoyaltyRulesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	rules, svcErr := lc.loyaltyService.UpdateRules(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"rules": rules})
}

// Redeem handles PUT /loyalty/redeem for the authenticated user.
func (lc *LoyaltyController) Redeem(ctx *gin.Context) {
	var req models.RedeemPointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	result, svcErr := lc.loyaltyService.Redeem(ctx.Request.Context(), userID, req.PointsToRedeem)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Refund handles PUT /loyalty/refund (admin only).
func (lc *LoyaltyController) Refund(ctx *gin.Context) {
	var req models.RefundPointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := lc.loyaltyService.Refund(ctx.Request.Context(), req.UserID, req.Points); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Points refunded"})
}

// ReferralBonus handles POST /loyalty/referral (admin only).
func (lc *LoyaltyController) ReferralBonus(ctx *gin.Context) {
	var req models.ReferralBonusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := lc.loyaltyService.ReferralBonus(ctx.Request.Context(), req.ReferrerID, req.ReferredUserID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Referral bonus awarded"})
}
