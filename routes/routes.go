package routes

import (
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/controllers"
	"github.com/Saqqqi/Food-Delivery-System-sub000/middleware"
	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Controllers bundles everything RegisterRoutes mounts.
type Controllers struct {
	Cart       *controllers.CartController
	Order      *controllers.OrderController
	Coupon     *controllers.CouponController
	Loyalty    *controllers.LoyaltyController
	Delivery   *controllers.DeliveryController
	Chat       *controllers.ChatController
	Product    *controllers.ProductController
	Restaurant *controllers.RestaurantController
}

// RegisterRoutes wires the REST surface. Customer routes need a bearer
// token; admin routes need role=admin; the delivery surface is internal and
// authenticated with scoped service keys.
func RegisterRoutes(
	r *gin.Engine,
	c Controllers,
	jwtSecret []byte,
	serviceKeys map[string]string,
	logger *zap.Logger,
) {
	auth := middleware.RequireAuth(jwtSecret)
	admin := middleware.RequireRole(jwtSecret, models.RoleAdmin)
	serviceKey := middleware.RequireServiceKey(serviceKeys, logger)
	authLimit := middleware.RateLimit(rate.Every(time.Minute/100), 50)

	cart := r.Group("/cart")
	cart.Use(auth)
	{
		cart.POST("/add-product-to-cart", c.Cart.AddProductToCart)
		cart.GET("/get-cart/:userId", c.Cart.GetCart)
		cart.PUT("/update-quantity/:userId", c.Cart.UpdateQuantity)
		cart.DELETE("/remove-product/:userId/:productId", c.Cart.RemoveProduct)
		cart.PUT("/apply-coupon/:userId", c.Cart.ApplyCoupon)
		cart.DELETE("/remove-coupon/:userId", c.Cart.RemoveCoupon)
		cart.PUT("/apply-loyalty/:userId", c.Cart.ApplyLoyalty)
		cart.DELETE("/remove-loyalty/:userId", c.Cart.RemoveLoyalty)
		cart.DELETE("/clear/:userId", c.Cart.ClearCart)
	}

	order := r.Group("/order")
	order.Use(auth)
	{
		order.POST("/create-order", c.Order.CreateOrder)
		order.POST("/checkout", c.Order.Checkout)
		order.GET("/user/:userId", c.Order.GetUserOrders)
		order.PUT("/request-cancel/:orderId", c.Order.RequestCancel)
		order.GET("/:orderId", c.Order.GetOrder)
	}
	orderAdmin := r.Group("/order")
	orderAdmin.Use(admin)
	{
		orderAdmin.PUT("/update-status/:orderId", c.Order.UpdateStatus)
		orderAdmin.PUT("/handle-cancellation/:orderId", c.Order.HandleCancellation)
		orderAdmin.DELETE("/:orderId", c.Order.DeleteOrder)
	}
	r.GET("/admin/orders", admin, c.Order.GetAllOrders)

	coupons := r.Group("/coupons")
	{
		coupons.GET("", auth, c.Coupon.ListCoupons)
		coupons.GET("/:code", auth, c.Coupon.GetCoupon)
		coupons.POST("", admin, c.Coupon.CreateCoupon)
		coupons.PUT("/:code", admin, c.Coupon.UpdateCoupon)
		coupons.DELETE("/:code", admin, c.Coupon.DeactivateCoupon)
	}

	loyalty := r.Group("/loyalty")
	{
		loyalty.GET("/rules", auth, c.Loyalty.GetRules)
		loyalty.PUT("/redeem", auth, authLimit, c.Loyalty.Redeem)
		loyalty.PUT("/rules", admin, c.Loyalty.UpdateRules)
		loyalty.PUT("/refund", admin, c.Loyalty.Refund)
		loyalty.POST("/referral", admin, c.Loyalty.ReferralBonus)
	}

	delivery := r.Group("/api/delivery")
	delivery.Use(serviceKey)
	{
		delivery.GET("/available", c.Delivery.ListAvailable)
		delivery.POST("/assign", c.Delivery.Assign)
		delivery.PUT("/complete/:orderId", c.Delivery.Complete)
		delivery.PUT("/availability", c.Delivery.SetAvailability)
		delivery.POST("/redeem-bonus", c.Delivery.RedeemBonus)
	}

	chat := r.Group("/chat")
	chat.Use(auth)
	{
		chat.POST("/send", c.Chat.SendMessage)
		chat.GET("/history/:peerId", c.Chat.History)
		chat.GET("/presence/:userId", c.Chat.Presence)
		chat.GET("/stream", c.Chat.Stream)
		chat.PUT("/heartbeat", c.Chat.Heartbeat)
	}

	products := r.Group("/products")
	{
		products.GET("", c.Product.ListProducts)
		products.GET("/:id", c.Product.GetProduct)
		products.POST("", admin, c.Product.CreateProduct)
		products.PUT("/:id", admin, c.Product.UpdateProduct)
		products.DELETE("/:id", admin, c.Product.DeleteProduct)
	}

	restaurants := r.Group("/restaurants")
	{
		restaurants.GET("", auth, c.Restaurant.ListAddresses)
		restaurants.GET("/:id", auth, c.Restaurant.GetAddress)
		restaurants.POST("", admin, c.Restaurant.CreateAddress)
		restaurants.DELETE("/:id", admin, c.Restaurant.DeleteAddress)
	}
}
