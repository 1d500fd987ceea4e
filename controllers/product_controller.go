package controllers

import (
	"net/http"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// ProductController handles HTTP requests for the product catalog.
type ProductController struct {
	productService services.ProductService
}

// NewProductController creates a new ProductController.
func NewProductController(productService services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// CreateProduct handles POST /products (admin only).
func (pc *ProductController) CreateProduct(ctx *gin.Context) {
	var req models.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := pc.productService.CreateProduct(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"product": product})
}

// ListProducts handles GET /products.
func (pc *ProductController) ListProducts(ctx *gin.Context) {
	page, limit := pagination(ctx)

	products, total, svcErr := pc.productService.ListProducts(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products, "page": page, "limit": limit, "total": total})
}

// GetProduct handles GET /products/:id.
func (pc *ProductController) GetProduct(ctx *gin.Context) {
	product, svcErr := pc.productService.GetProduct(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// UpdateProduct handles PUT /products/:id (admin only). Only recognised
// fields are forwarded to the update.
func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	var body struct {
		Name     *string  `json:"title"`
		Price    *float64 `json:"price"`
		Category *string  `json:"category"`
		Images   []string `json:"images"`
		Quantity *int     `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	updates := bson.M{}
	if body.Name != nil {
		updates["title"] = *body.Name
	}
	if body.Price != nil {
		if *body.Price <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
			return
		}
		updates["price"] = *body.Price
	}
	if body.Category != nil {
		updates["category"] = *body.Category
	}
	if body.Images != nil {
		updates["images"] = body.Images
	}
	if body.Quantity != nil {
		if *body.Quantity < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Quantity cannot be negative"})
			return
		}
		updates["quantity"] = *body.Quantity
	}

	if svcErr := pc.productService.UpdateProduct(ctx.Request.Context(), ctx.Param("id"), updates); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// DeleteProduct handles DELETE /products/:id (admin only).
func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	if svcErr := pc.productService.DeleteProduct(ctx.Request.Context(), ctx.Param("id")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
