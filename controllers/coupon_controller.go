package controllers

import (
	"net/http"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/gin-gonic/gin"
)

// CouponController handles HTTP requests for coupon administration.
type CouponController struct {
	couponService services.CouponService
}

// NewCouponController creates a new CouponController.
func NewCouponController(couponService services.CouponService) *CouponController {
	return &CouponController{couponService: couponService}
}

// CreateCoupon handles POST /coupons (admin only).
func (cc *CouponController) CreateCoupon(ctx *gin.Context) {
	var req models.CreateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	coupon, svcErr := cc.couponService.CreateCoupon(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

// ListCoupons handles GET /coupons.
func (cc *CouponController) ListCoupons(ctx *gin.Context) {
	page, limit := pagination(ctx)

	coupons, total, svcErr := cc.couponService.ListCoupons(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"coupons": coupons, "page": page, "limit": limit, "total": total})
}

// GetCoupon handles GET /coupons/:code.
func (cc *CouponController) GetCoupon(ctx *gin.Context) {
	coupon, svcErr := cc.couponService.GetCoupon(ctx.Request.Context(), ctx.Param("code"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

// UpdateCoupon handles PUT /coupons/:code (admin only).
func (cc *CouponController) UpdateCoupon(ctx *gin.Context) {
	var req models.UpdateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := cc.couponService.UpdateCoupon(ctx.Request.Context(), ctx.Param("code"), &req); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Coupon updated"})
}

// DeactivateCoupon handles DELETE /coupons/:code (admin only).
func (cc *CouponController) DeactivateCoupon(ctx *gin.Context) {
	if svcErr := cc.couponService.DeactivateCoupon(ctx.Request.Context(), ctx.Param("code")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Coupon deactivated"})
}
