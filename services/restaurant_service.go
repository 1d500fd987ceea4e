package services

import (
	"context"
	"errors"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RestaurantService manages pickup addresses referenced by shipped orders.
type RestaurantService interface {
	CreateAddress(ctx context.Context, req *models.CreateRestaurantAddressRequest) (*models.RestaurantAddress, *ServiceError)
	GetAddress(ctx context.Context, id string) (*models.RestaurantAddress, *ServiceError)
	ListAddresses(ctx context.Context) ([]models.RestaurantAddress, *ServiceError)
	DeleteAddress(ctx context.Context, id string) *ServiceError
}

type restaurantServiceImpl struct {
	repo   repository.RestaurantRepository
	logger *zap.Logger
}

// NewRestaurantService creates a new RestaurantService.
func NewRestaurantService(repo repository.RestaurantRepository, logger *zap.Logger) RestaurantService {
	return &restaurantServiceImpl{repo: repo, logger: logger}
}

func (s *restaurantServiceImpl) CreateAddress(ctx context.Context, req *models.CreateRestaurantAddressRequest) (*models.RestaurantAddress, *ServiceError) {
	addr := &models.RestaurantAddress{
		ID:      uuid.NewString(),
		Label:   req.Label,
		Address: req.Address,
		Lat:     req.Lat,
		Lng:     req.Lng,
	}
	if err := s.repo.Create(ctx, addr); err != nil {
		s.logger.Error("Failed to create restaurant address", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create restaurant address"}
	}

	s.logger.Info("Restaurant address created", zap.String("address_id", addr.ID), zap.String("label", addr.Label))
	return addr, nil
}

func (s *restaurantServiceImpl) GetAddress(ctx context.Context, id string) (*models.RestaurantAddress, *ServiceError) {
	addr, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Restaurant address not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch restaurant address", zap.String("address_id", id), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch restaurant address"}
	}
	return addr, nil
}

func (s *restaurantServiceImpl) ListAddresses(ctx context.Context) ([]models.RestaurantAddress, *ServiceError) {
	addrs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list restaurant addresses", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list restaurant addresses"}
	}
	return addrs, nil
}

func (s *restaurantServiceImpl) DeleteAddress(ctx context.Context, id string) *ServiceError {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Restaurant address not found"}
	}
	if err != nil {
		s.logger.Error("Failed to delete restaurant address", zap.String("address_id", id), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete restaurant address"}
	}
	return nil
}
