package controllers

import (
	"net/http"
	"strconv"

	"github.com/Saqqqi/Food-Delivery-System-sub000/middleware"
	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/gin-gonic/gin"
)

// OrderController handles HTTP requests for the order lifecycle.
type OrderController struct {
	orderService services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

func pagination(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// CreateOrder handles POST /order/create-order.
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	var req models.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.CreateOrder(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"order": order})
}

// Checkout handles POST /order/checkout. The Idempotency-Key header makes
// retries safe.
func (oc *OrderController) Checkout(ctx *gin.Context) {
	var req models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	idempotencyKey := ctx.GetHeader("Idempotency-Key")
	order, svcErr := oc.orderService.CheckoutFromCart(ctx.Request.Context(), &req, idempotencyKey)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrder handles GET /order/:orderId.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	order, svcErr := oc.orderService.GetOrder(ctx.Request.Context(), ctx.Param("orderId"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// GetUserOrders handles GET /order/user/:userId.
func (oc *OrderController) GetUserOrders(ctx *gin.Context) {
	page, limit := pagination(ctx)

	result, svcErr := oc.orderService.GetUserOrders(ctx.Request.Context(), ctx.Param("userId"), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetAllOrders handles GET /admin/orders (admin only).
func (oc *OrderController) GetAllOrders(ctx *gin.Context) {
	page, limit := pagination(ctx)

	result, svcErr := oc.orderService.GetAllOrders(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// UpdateStatus handles PUT /order/update-status/:orderId (admin only).
func (oc *OrderController) UpdateStatus(ctx *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.UpdateStatus(ctx.Request.Context(), ctx.Param("orderId"), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// RequestCancel handles PUT /order/request-cancel/:orderId. The caller must
// own the order.
func (oc *OrderController) RequestCancel(ctx *gin.Context) {
	var req models.RequestCancelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	order, svcErr := oc.orderService.RequestCancellation(ctx.Request.Context(), ctx.Param("orderId"), userID, req.Reason)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// HandleCancellation handles PUT /order/handle-cancellation/:orderId (admin
// only).
func (oc *OrderController) HandleCancellation(ctx *gin.Context) {
	var req models.HandleCancellationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.ResolveCancellation(ctx.Request.Context(), ctx.Param("orderId"), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// DeleteOrder handles DELETE /order/:orderId (admin only).
func (oc *OrderController) DeleteOrder(ctx *gin.Context) {
	if svcErr := oc.orderService.DeleteOrder(ctx.Request.Context(), ctx.Param("orderId")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
