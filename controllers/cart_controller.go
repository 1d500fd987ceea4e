package controllers

import (
	"net/http"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/gin-gonic/gin"
)

// CartController handles HTTP requests for cart operations.
type CartController struct {
	cartService services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// AddProductToCart handles POST /cart/add-product-to-cart.
func (cc *CartController) AddProductToCart(ctx *gin.Context) {
	var req models.AddToCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.AddItem(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// GetCart handles GET /cart/get-cart/:userId.
func (cc *CartController) GetCart(ctx *gin.Context) {
	userID := ctx.Param("userId")

	cart, svcErr := cc.cartService.GetCart(ctx.Request.Context(), userID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// UpdateQuantity handles PUT /cart/update-quantity/:userId.
func (cc *CartController) UpdateQuantity(ctx *gin.Context) {
	userID := ctx.Param("userId")

	var req models.UpdateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.UpdateQuantity(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveProduct handles DELETE /cart/remove-product/:userId/:productId.
func (cc *CartController) RemoveProduct(ctx *gin.Context) {
	userID := ctx.Param("userId")
	productID := ctx.Param("productId")

	cart, svcErr := cc.cartService.RemoveItem(ctx.Request.Context(), userID, productID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// ApplyCoupon handles PUT /cart/apply-coupon/:userId.
func (cc *CartController) ApplyCoupon(ctx *gin.Context) {
	userID := ctx.Param("userId")

	var req models.ApplyCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.ApplyCoupon(ctx.Request.Context(), userID, req.CouponCode)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveCoupon handles DELETE /cart/remove-coupon/:userId.
func (cc *CartController) RemoveCoupon(ctx *gin.Context) {
	userID := ctx.Param("userId")

	cart, svcErr := cc.cartService.RemoveCoupon(ctx.Request.Context(), userID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// ApplyLoyalty handles PUT /cart/apply-loyalty/:userId.
func (cc *CartController) ApplyLoyalty(ctx *gin.Context) {
	userID := ctx.Param("userId")

	var req models.ApplyLoyaltyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.ApplyLoyalty(ctx.Request.Context(), userID, req.PointsToRedeem)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveLoyalty handles DELETE /cart/remove-loyalty/:userId.
func (cc *CartController) RemoveLoyalty(ctx *gin.Context) {
	userID := ctx.Param("userId")

	cart, svcErr := cc.cartService.RemoveLoyalty(ctx.Request.Context(), userID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// ClearCart handles DELETE /cart/clear/:userId.
func (cc *CartController) ClearCart(ctx *gin.Context) {
	userID := ctx.Param("userId")

	if svcErr := cc.cartService.Clear(ctx.Request.Context(), userID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
