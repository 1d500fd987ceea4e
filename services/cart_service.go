package services

import (
	"context"
	"errors"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService defines the business logic for per-user carts. Every mutation
// recomputes totals through the pricing engine and persists the whole cart.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, *ServiceError)
	AddItem(ctx context.Context, req *models.AddToCartRequest) (*models.Cart, *ServiceError)
	UpdateQuantity(ctx context.Context, userID string, req *models.UpdateQuantityRequest) (*models.Cart, *ServiceError)
	RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, *ServiceError)
	ApplyCoupon(ctx context.Context, userID, code string) (*models.Cart, *ServiceError)
	RemoveCoupon(ctx context.Context, userID string) (*models.Cart, *ServiceError)
	ApplyLoyalty(ctx context.Context, userID string, points int) (*models.Cart, *ServiceError)
	RemoveLoyalty(ctx context.Context, userID string) (*models.Cart, *ServiceError)
	Clear(ctx context.Context, userID string) *ServiceError
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	loyaltyRepo repository.LoyaltyRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	loyaltyRepo repository.LoyaltyRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		loyaltyRepo: loyaltyRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*models.Cart, *ServiceError) {
	cart, err := s.cartRepo.FindByOwner(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Cart not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch cart"}
	}
	return cart, nil
}

// AddItem adds a product to the cart, snapshotting the current product price
// for new lines. An existing line has its quantity incremented; its unit
// price is never re-synced.
func (s *cartServiceImpl) AddItem(ctx context.Context, req *models.AddToCartRequest) (*models.Cart, *ServiceError) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch product", zap.String("product_id", req.ProductID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}

	cart, err := s.cartRepo.FindByOwner(ctx, req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		cart = &models.Cart{
			ID:      uuid.NewString(),
			OwnerID: req.UserID,
			Lines:   []models.CartLine{},
		}
	} else if err != nil {
		s.logger.Error("Failed to fetch cart", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch cart"}
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == req.ProductID {
			cart.Lines[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		})
	}

	return s.saveRecomputed(ctx, cart)
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID string, req *models.UpdateQuantityRequest) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == req.ProductID {
			cart.Lines[i].Quantity = req.Quantity
			found = true
			break
		}
	}
	if !found {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not in cart"}
	}

	return s.saveRecomputed(ctx, cart)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	newLines := make([]models.CartLine, 0, len(cart.Lines))
	found := false
	for _, line := range cart.Lines {
		if line.ProductID == productID {
			found = true
			continue
		}
		newLines = append(newLines, line)
	}
	if !found {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not in cart"}
	}
	cart.Lines = newLines

	return s.saveRecomputed(ctx, cart)
}

// ApplyCoupon validates coupon eligibility against the cart and stores the
// discount snapshot. Coupon and loyalty discounts are mutually exclusive:
// applying a coupon clears any applied loyalty redemption.
func (s *cartServiceImpl) ApplyCoupon(ctx context.Context, userID, code string) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Coupon not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch coupon", zap.String("code", code), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch coupon"}
	}

	if msg := couponIneligibleReason(coupon, time.Now()); msg != "" {
		return nil, &ServiceError{StatusCode: 400, Message: msg}
	}

	discount, err := CouponDiscount(cart.Lines, TermsFromCoupon(coupon))
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: err.Error()}
	}

	cart.AppliedLoyalty = nil
	cart.AppliedCoupon = &models.AppliedCoupon{
		Code:                 coupon.Code,
		Scope:                string(coupon.Scope),
		Value:                coupon.Value,
		IsPercentage:         coupon.IsPercentage,
		ApplicableProductIDs: coupon.ApplicableProductIDs,
		DiscountAmount:       discount,
	}

	return s.saveRecomputed(ctx, cart)
}

func (s *cartServiceImpl) RemoveCoupon(ctx context.Context, userID string) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	cart.AppliedCoupon = nil
	return s.saveRecomputed(ctx, cart)
}

// ApplyLoyalty stores a loyalty redemption on the cart. The user's balance is
// only checked here; points are deducted at checkout when the order is
// actually created.
func (s *cartServiceImpl) ApplyLoyalty(ctx context.Context, userID string, points int) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	rules, err := s.loyaltyRepo.GetRules(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 400, Message: "Loyalty program is not configured"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch loyalty rules", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch loyalty rules"}
	}
	if !rules.Active {
		return nil, &ServiceError{StatusCode: 400, Message: "Loyalty program is not active"}
	}
	if points < rules.MinPointsToRedeem {
		return nil, &ServiceError{StatusCode: 400, Message: "Points below minimum redemption amount"}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "User not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch user", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch user"}
	}
	if user.LoyaltyPoints < points {
		return nil, &ServiceError{StatusCode: 400, Message: "Insufficient loyalty points"}
	}

	cart.AppliedCoupon = nil
	cart.AppliedLoyalty = &models.AppliedLoyalty{
		PointsRedeemed: points,
		DiscountAmount: LoyaltyDiscount(points, rules),
	}

	return s.saveRecomputed(ctx, cart)
}

func (s *cartServiceImpl) RemoveLoyalty(ctx context.Context, userID string) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	cart.AppliedLoyalty = nil
	return s.saveRecomputed(ctx, cart)
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID string) *ServiceError {
	err := s.cartRepo.Delete(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Cart not found"}
	}
	if err != nil {
		s.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to clear cart"}
	}
	return nil
}

func (s *cartServiceImpl) saveRecomputed(ctx context.Context, cart *models.Cart) (*models.Cart, *ServiceError) {
	RecomputeCart(cart)
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", cart.OwnerID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}
	return cart, nil
}
