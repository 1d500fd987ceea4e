package controllers

import (
	"net/http"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/gin-gonic/gin"
)

// RestaurantController handles HTTP requests for restaurant pickup addresses.
type RestaurantController struct {
	restaurantService services.RestaurantService
}

// NewRestaurantController creates a new RestaurantController.
func NewRestaurantController(restaurantService services.RestaurantService) *RestaurantController {
	return &RestaurantController{restaurantService: restaurantService}
}

// CreateAddress handles POST /restaurants (admin only).
func (rc *RestaurantController) CreateAddress(ctx *gin.Context) {
	var req models.CreateRestaurantAddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	addr, svcErr := rc.restaurantService.CreateAddress(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"address": addr})
}

// ListAddresses handles GET /restaurants.
func (rc *RestaurantController) ListAddresses(ctx *gin.Context) {
	addrs, svcErr := rc.restaurantService.ListAddresses(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"addresses": addrs})
}

// GetAddress handles GET /restaurants/:id.
func (rc *RestaurantController) GetAddress(ctx *gin.Context) {
	addr, svcErr := rc.restaurantService.GetAddress(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"address": addr})
}

// DeleteAddress handles DELETE /restaurants/:id (admin only).
func (rc *RestaurantController) DeleteAddress(ctx *gin.Context) {
	if svcErr := rc.restaurantService.DeleteAddress(ctx.Request.Context(), ctx.Param("id")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
