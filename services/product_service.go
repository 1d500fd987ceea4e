package services

import (
	"context"
	"errors"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ProductService is the catalog CRUD surface. Product prices feed cart line
// snapshots; changing a price never touches existing carts.
type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError)
	GetProduct(ctx context.Context, id string) (*models.Product, *ServiceError)
	ListProducts(ctx context.Context, page, limit int) ([]models.Product, int64, *ServiceError)
	UpdateProduct(ctx context.Context, id string, updates bson.M) *ServiceError
	DeleteProduct(ctx context.Context, id string) *ServiceError
}

type productServiceImpl struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productServiceImpl{repo: repo, logger: logger}
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError) {
	product := &models.Product{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Images:   req.Images,
		Quantity: req.Quantity,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create product"}
	}

	s.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("title", product.Name))
	return product, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id string) (*models.Product, *ServiceError) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch product", zap.String("product_id", id), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}
	return product, nil
}

func (s *productServiceImpl) ListProducts(ctx context.Context, page, limit int) ([]models.Product, int64, *ServiceError) {
	products, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list products"}
	}
	return products, total, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id string, updates bson.M) *ServiceError {
	if len(updates) == 0 {
		return &ServiceError{StatusCode: 400, Message: "No fields to update"}
	}
	err := s.repo.Update(ctx, id, updates)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	if err != nil {
		s.logger.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update product"}
	}
	return nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id string) *ServiceError {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	if err != nil {
		s.logger.Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete product"}
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}
