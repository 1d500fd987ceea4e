package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// CouponService defines the admin-facing coupon business logic.
type CouponService interface {
	CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError)
	GetCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError)
	ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *ServiceError)
	UpdateCoupon(ctx context.Context, code string, req *models.UpdateCouponRequest) *ServiceError
	DeactivateCoupon(ctx context.Context, code string) *ServiceError
}

type couponServiceImpl struct {
	repo   repository.CouponRepository
	logger *zap.Logger
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repository.CouponRepository, logger *zap.Logger) CouponService {
	return &couponServiceImpl{repo: repo, logger: logger}
}

// couponIneligibleReason returns a human-readable reason when a coupon cannot
// be applied right now, or "" when it is eligible. Shared with the cart flow.
func couponIneligibleReason(c *models.Coupon, now time.Time) string {
	if !c.Active {
		return "Coupon is not active"
	}
	if now.Before(c.StartDate) {
		return "Coupon is not valid yet"
	}
	if now.After(c.EndDate) {
		return "Coupon has expired"
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return "Coupon usage limit reached"
	}
	return ""
}

func (s *couponServiceImpl) CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError) {
	if !req.EndDate.After(req.StartDate) {
		return nil, &ServiceError{StatusCode: 400, Message: "End date must be after start date"}
	}
	if req.IsPercentage && req.Value > 100 {
		return nil, &ServiceError{StatusCode: 400, Message: "Percentage discount cannot exceed 100"}
	}
	if req.Scope == models.CouponScopeProduct && len(req.ApplicableProductIDs) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Product-scope coupon requires applicable products"}
	}

	coupon := &models.Coupon{
		ID:                   uuid.NewString(),
		Code:                 strings.ToUpper(req.Code),
		Scope:                req.Scope,
		Value:                req.Value,
		IsPercentage:         req.IsPercentage,
		MinOrderAmount:       req.MinOrderAmount,
		ApplicableProductIDs: req.ApplicableProductIDs,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Active:               true,
		MaxUses:              req.MaxUses,
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ServiceError{StatusCode: 409, Message: "Coupon code already exists"}
		}
		s.logger.Error("Failed to create coupon", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create coupon"}
	}

	s.logger.Info("Coupon created", zap.String("code", coupon.Code), zap.String("scope", string(coupon.Scope)))
	return coupon, nil
}

func (s *couponServiceImpl) GetCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Coupon not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch coupon", zap.String("code", code), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch coupon"}
	}
	return coupon, nil
}

func (s *couponServiceImpl) ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *ServiceError) {
	coupons, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list coupons", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list coupons"}
	}
	return coupons, total, nil
}

func (s *couponServiceImpl) UpdateCoupon(ctx context.Context, code string, req *models.UpdateCouponRequest) *ServiceError {
	updates := bson.M{}
	if req.Value != nil {
		if *req.Value <= 0 {
			return &ServiceError{StatusCode: 400, Message: "Value must be positive"}
		}
		updates["value"] = *req.Value
	}
	if req.MinOrderAmount != nil {
		updates["min_order_amount"] = *req.MinOrderAmount
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.MaxUses != nil {
		updates["max_uses"] = *req.MaxUses
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return &ServiceError{StatusCode: 400, Message: "No fields to update"}
	}

	err := s.repo.Update(ctx, code, updates)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Coupon not found"}
	}
	if err != nil {
		s.logger.Error("Failed to update coupon", zap.String("code", code), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update coupon"}
	}
	return nil
}

func (s *couponServiceImpl) DeactivateCoupon(ctx context.Context, code string) *ServiceError {
	err := s.repo.Deactivate(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Coupon not found"}
	}
	if err != nil {
		s.logger.Error("Failed to deactivate coupon", zap.String("code", code), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to deactivate coupon"}
	}

	s.logger.Info("Coupon deactivated", zap.String("code", code))
	return nil
}
