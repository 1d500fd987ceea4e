package services_test

import (
	"context"
	"strings"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/repository"
	"go.mongodb.org/mongo-driver/bson"
)

// In-memory repository fakes shared by the service tests.

// --- products ---

type mockProductRepo struct {
	products map[string]*models.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[string]*models.Product)}
}

func (m *mockProductRepo) FindByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) FindAll(_ context.Context, _, _ int) ([]models.Product, int64, error) {
	var result []models.Product
	for _, p := range m.products {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (m *mockProductRepo) Create(_ context.Context, p *models.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, id string, updates bson.M) error {
	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if v, ok := updates["price"]; ok {
		p.Price = v.(float64)
	}
	if v, ok := updates["title"]; ok {
		p.Name = v.(string)
	}
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

// --- carts ---

type mockCartRepo struct {
	carts map[string]*models.Cart
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]*models.Cart)}
}

func (m *mockCartRepo) FindByOwner(_ context.Context, ownerID string) (*models.Cart, error) {
	c, ok := m.carts[ownerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (m *mockCartRepo) Save(_ context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	m.carts[cart.OwnerID] = cart
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, ownerID string) error {
	if _, ok := m.carts[ownerID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.carts, ownerID)
	return nil
}

// --- coupons ---

type mockCouponRepo struct {
	coupons map[string]*models.Coupon
}

func newMockCouponRepo() *mockCouponRepo {
	return &mockCouponRepo{coupons: make(map[string]*models.Coupon)}
}

func (m *mockCouponRepo) Create(_ context.Context, c *models.Coupon) error {
	c.Code = strings.ToUpper(c.Code)
	if _, ok := m.coupons[c.Code]; ok {
		return repository.ErrDuplicate
	}
	m.coupons[c.Code] = c
	return nil
}

func (m *mockCouponRepo) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	c, ok := m.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (m *mockCouponRepo) FindAll(_ context.Context, _, _ int) ([]models.Coupon, int64, error) {
	var result []models.Coupon
	for _, c := range m.coupons {
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (m *mockCouponRepo) Update(_ context.Context, code string, updates bson.M) error {
	c, ok := m.coupons[strings.ToUpper(code)]
	if !ok {
		return repository.ErrNotFound
	}
	if v, ok := updates["value"]; ok {
		c.Value = v.(float64)
	}
	if v, ok := updates["active"]; ok {
		c.Active = v.(bool)
	}
	return nil
}

func (m *mockCouponRepo) Deactivate(_ context.Context, code string) error {
	c, ok := m.coupons[strings.ToUpper(code)]
	if !ok {
		return repository.ErrNotFound
	}
	c.Active = false
	return nil
}

func (m *mockCouponRepo) ConsumeUse(_ context.Context, code string) error {
	c, ok := m.coupons[strings.ToUpper(code)]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	if !c.Active || now.Before(c.StartDate) || now.After(c.EndDate) ||
		(c.MaxUses > 0 && c.UsedCount >= c.MaxUses) {
		return repository.ErrConflict
	}
	c.UsedCount++
	return nil
}

// --- users ---

type mockUserRepo struct {
	users map[string]*models.User
	// postDeduct simulates a concurrent balance change landing right after
	// the atomic deduction.
	postDeduct func(*models.User)
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) Create(_ context.Context, u *models.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) IncrementLoyaltyPoints(_ context.Context, userID string, delta int) error {
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.LoyaltyPoints += delta
	return nil
}

func (m *mockUserRepo) DeductLoyaltyPoints(_ context.Context, userID string, points int) (int, error) {
	u, ok := m.users[userID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if u.LoyaltyPoints < points {
		return 0, repository.ErrInsufficientPoints
	}
	u.LoyaltyPoints -= points
	remaining := u.LoyaltyPoints
	if m.postDeduct != nil {
		m.postDeduct(u)
	}
	return remaining, nil
}

func (m *mockUserRepo) FindDeliveryAgent(_ context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok || u.Role != models.RoleDeliveryBoy {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) FindAvailableAgents(_ context.Context) ([]models.DeliveryAgentView, error) {
	var agents []models.DeliveryAgentView
	for _, u := range m.users {
		if u.Role != models.RoleDeliveryBoy || u.DeliveryProfile == nil || !u.DeliveryProfile.IsAvailable {
			continue
		}
		agents = append(agents, models.DeliveryAgentView{
			ID:       u.ID,
			Name:     u.Name,
			Phone:    u.Phone,
			Vehicle:  u.DeliveryProfile.Vehicle,
			Location: u.DeliveryProfile.CurrentLocation,
		})
	}
	return agents, nil
}

func (m *mockUserRepo) SetAgentAvailability(_ context.Context, agentID string, available bool) error {
	u, ok := m.users[agentID]
	if !ok || u.DeliveryProfile == nil {
		return repository.ErrNotFound
	}
	u.DeliveryProfile.IsAvailable = available
	return nil
}

func (m *mockUserRepo) IncrementBonusPoints(_ context.Context, agentID string, delta int) error {
	u, ok := m.users[agentID]
	if !ok || u.DeliveryProfile == nil {
		return repository.ErrNotFound
	}
	u.DeliveryProfile.BonusPoints += delta
	return nil
}

func (m *mockUserRepo) DeductBonusPoints(_ context.Context, agentID string, cost int) error {
	u, ok := m.users[agentID]
	if !ok || u.DeliveryProfile == nil {
		return repository.ErrNotFound
	}
	if u.DeliveryProfile.BonusPoints < cost {
		return repository.ErrInsufficientPoints
	}
	u.DeliveryProfile.BonusPoints -= cost
	return nil
}

// --- loyalty ---

type mockLoyaltyRepo struct {
	rules     *models.LoyaltyRules
	referrals map[string]*models.Referral
}

func newMockLoyaltyRepo() *mockLoyaltyRepo {
	return &mockLoyaltyRepo{referrals: make(map[string]*models.Referral)}
}

func (m *mockLoyaltyRepo) GetRules(_ context.Context) (*models.LoyaltyRules, error) {
	if m.rules == nil {
		return nil, repository.ErrNotFound
	}
	return m.rules, nil
}

func (m *mockLoyaltyRepo) UpsertRules(_ context.Context, rules *models.LoyaltyRules) error {
	m.rules = rules
	return nil
}

func (m *mockLoyaltyRepo) FindReferral(_ context.Context, referrerID, referredUserID string) (*models.Referral, error) {
	for _, r := range m.referrals {
		if r.ReferrerID == referrerID && r.ReferredUserID == referredUserID {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockLoyaltyRepo) CreateReferral(_ context.Context, ref *models.Referral) error {
	m.referrals[ref.ID] = ref
	return nil
}

func (m *mockLoyaltyRepo) MarkReferralAwarded(_ context.Context, referralID string) error {
	r, ok := m.referrals[referralID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.PointsAwarded {
		return repository.ErrConflict
	}
	r.PointsAwarded = true
	return nil
}

// --- orders ---

type mockOrderRepo struct {
	orders    map[string]*models.Order
	createErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*models.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id string) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) FindByOwner(_ context.Context, ownerID string, _, _ int) ([]models.Order, int64, error) {
	var result []models.Order
	for _, o := range m.orders {
		if o.OwnerID == ownerID {
			result = append(result, *o)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, _, _ int) ([]models.Order, int64, error) {
	var result []models.Order
	for _, o := range m.orders {
		result = append(result, *o)
	}
	return result, int64(len(result)), nil
}

func (m *mockOrderRepo) UpdateStatusFrom(_ context.Context, id string, from, to models.OrderStatus, set bson.M) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if o.Status != from {
		return nil, repository.ErrConflict
	}
	o.Status = to
	applyOrderSet(o, set)
	o.UpdatedAt = time.Now().UTC()
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) SetFields(_ context.Context, id string, set bson.M) error {
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	applyOrderSet(o, set)
	return nil
}

func applyOrderSet(o *models.Order, set bson.M) {
	for k, v := range set {
		switch k {
		case "restaurant_address_id":
			o.RestaurantAddressID = v.(string)
		case "delivery_boy_id":
			o.DeliveryBoyID = v.(string)
		case "cancellation_reason":
			switch reason := v.(type) {
			case models.CancellationReason:
				cp := reason
				o.CancellationReason = &cp
			case *models.CancellationReason:
				o.CancellationReason = reason
			}
		case "loyalty_points.points_earned":
			o.LoyaltyPoints.PointsEarned = v.(int)
		case "loyalty_points.status":
			o.LoyaltyPoints.Status = v.(string)
		}
	}
}

func (m *mockOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

// --- restaurant addresses ---

type mockRestaurantRepo struct {
	addrs map[string]*models.RestaurantAddress
}

func newMockRestaurantRepo() *mockRestaurantRepo {
	return &mockRestaurantRepo{addrs: make(map[string]*models.RestaurantAddress)}
}

func (m *mockRestaurantRepo) Create(_ context.Context, addr *models.RestaurantAddress) error {
	m.addrs[addr.ID] = addr
	return nil
}

func (m *mockRestaurantRepo) FindByID(_ context.Context, id string) (*models.RestaurantAddress, error) {
	a, ok := m.addrs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (m *mockRestaurantRepo) FindAll(_ context.Context) ([]models.RestaurantAddress, error) {
	var result []models.RestaurantAddress
	for _, a := range m.addrs {
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockRestaurantRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.addrs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.addrs, id)
	return nil
}

// --- outbox ---

type mockOutboxRepo struct {
	events []*models.OutboxEvent
}

func newMockOutboxRepo() *mockOutboxRepo {
	return &mockOutboxRepo{}
}

func (m *mockOutboxRepo) Append(_ context.Context, event *models.OutboxEvent) error {
	event.CreatedAt = time.Now().UTC()
	m.events = append(m.events, event)
	return nil
}

func (m *mockOutboxRepo) FindPending(_ context.Context, limit int) ([]models.OutboxEvent, error) {
	var pending []models.OutboxEvent
	for _, e := range m.events {
		if !e.Dispatched {
			pending = append(pending, *e)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (m *mockOutboxRepo) MarkDispatched(_ context.Context, id string) error {
	for _, e := range m.events {
		if e.ID == id {
			e.Dispatched = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockOutboxRepo) typesFor(orderID string) []string {
	var types []string
	for _, e := range m.events {
		if e.OrderID == orderID {
			types = append(types, e.Type)
		}
	}
	return types
}

// --- idempotency ---

type mockIdemStore struct {
	keys map[string]string
}

func newMockIdemStore() *mockIdemStore {
	return &mockIdemStore{keys: make(map[string]string)}
}

func (m *mockIdemStore) Get(_ context.Context, key string) (string, error) {
	return m.keys[key], nil
}

func (m *mockIdemStore) Set(_ context.Context, key, orderID string, _ time.Duration) error {
	m.keys[key] = orderID
	return nil
}
