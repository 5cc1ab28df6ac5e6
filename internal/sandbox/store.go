package sandbox

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopzone/storeclient/internal/domain"
)

// apiError is a sandbox-side failure carried up to the HTTP layer, where it
// becomes a {"detail": ...} body with the given status.
type apiError struct {
	status int
	detail string
}

func (e *apiError) Error() string { return e.detail }

func errNotFound(detail string) *apiError {
	return &apiError{status: http.StatusNotFound, detail: detail}
}

func errBadRequest(detail string) *apiError {
	return &apiError{status: http.StatusBadRequest, detail: detail}
}

const taxRate = 0.18

type account struct {
	id           string
	email        string
	fullName     string
	role         string
	passwordHash []byte
	apiKeyHash   []byte

	totalOrders    int
	totalReturns   int
	totalReviews   int
	avgReviewScore float64
	createdAt      time.Time

	settings domain.MerchantSettings
}

type product struct {
	domain.Product
	totalSold     int
	totalReturned int
}

type cartLine struct {
	id        string
	productID string
	quantity  int
}

// Store holds all sandbox state in memory behind one lock. It plays the
// role a database-backed repository layer would in the real platform.
type Store struct {
	mu        sync.Mutex
	accounts  map[string]*account
	byEmail   map[string]string
	products  map[string]*product
	addresses map[string][]domain.Address
	carts     map[string][]cartLine
	orders    map[string]*domain.Order
	returns   map[string]*domain.ReturnRequest
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]*account),
		byEmail:   make(map[string]string),
		products:  make(map[string]*product),
		addresses: make(map[string][]domain.Address),
		carts:     make(map[string][]cartLine),
		orders:    make(map[string]*domain.Order),
		returns:   make(map[string]*domain.ReturnRequest),
	}
}

// Seed populates the catalog and well-known accounts used by local
// development and the package tests.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, p := range []domain.Product{
		{ID: "prod-trail-runner", Name: "Trail Runner Sneakers", SKU: "SHZ-TRAIL-299", Price: 299.00, InStock: true, StockQuantity: 10, IsReturnable: true},
		{ID: "prod-canvas-tote", Name: "Canvas Tote Bag", SKU: "SHZ-TOTE-050", Price: 50.00, InStock: true, StockQuantity: 25, IsReturnable: true},
		{ID: "prod-espresso-maker", Name: "Espresso Maker", SKU: "SHZ-ESPR-799", Price: 799.00, InStock: true, StockQuantity: 2, IsReturnable: true},
		{ID: "prod-gift-card", Name: "Gift Card", SKU: "SHZ-GIFT-100", Price: 100.00, InStock: true, StockQuantity: 100, IsReturnable: false},
	} {
		s.products[p.ID] = &product{Product: p}
	}

	seedUser := func(id, email, name, role string, orders, returns, reviews int, avgReview float64, ageDays int) {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		acct := &account{
			id:             id,
			email:          email,
			fullName:       name,
			role:           role,
			passwordHash:   hash,
			totalOrders:    orders,
			totalReturns:   returns,
			totalReviews:   reviews,
			avgReviewScore: avgReview,
			createdAt:      now.AddDate(0, 0, -ageDays),
		}
		if role == roleMerchant {
			acct.settings = domain.MerchantSettings{
				DefaultReturnWindow:  30,
				FraudThreshold:       30,
				AutoApproveThreshold: 70,
			}
		}
		s.accounts[id] = acct
		s.byEmail[email] = id
	}

	seedUser("user-alice", "alice@shopzone.test", "Alice Iyer", roleCustomer, 12, 0, 10, 4.5, 400)
	seedUser("user-marco", "marco@shopzone.test", "Marco Reyes", roleCustomer, 20, 7, 8, 4.5, 400)
	seedUser("user-merchant", "merchant@shopzone.test", "ShopZone Ops", roleMerchant, 0, 0, 0, 0, 700)

	for _, userID := range []string{"user-alice", "user-marco"} {
		s.addresses[userID] = []domain.Address{{
			ID:         "addr-" + strings.TrimPrefix(userID, "user-"),
			FullName:   s.accounts[userID].fullName,
			Phone:      "+91-9000000000",
			Line1:      "14 MG Road",
			City:       "Bengaluru",
			State:      "KA",
			PostalCode: "560001",
			IsDefault:  true,
		}}
	}
}

// --- accounts ---

func (s *Store) authenticate(email, password string) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, &apiError{status: http.StatusUnauthorized, detail: "Incorrect email or password"}
	}
	acct := s.accounts[id]
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return nil, &apiError{status: http.StatusUnauthorized, detail: "Incorrect email or password"}
	}
	return acct, nil
}

func (s *Store) register(email, password, fullName, role string) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, errBadRequest("Email already registered")
	}
	if role == "" {
		role = roleCustomer
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	acct := &account{
		id:           "user-" + uuid.NewString(),
		email:        email,
		fullName:     fullName,
		role:         role,
		passwordHash: hash,
		createdAt:    time.Now().UTC(),
	}
	if role == roleMerchant {
		acct.settings = domain.MerchantSettings{
			DefaultReturnWindow:  30,
			FraudThreshold:       30,
			AutoApproveThreshold: 70,
		}
	}
	s.accounts[acct.id] = acct
	s.byEmail[email] = acct.id
	return acct, nil
}

func (s *Store) getAccount(userID string) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[userID]
	if !ok {
		return nil, errNotFound("User not found")
	}
	return acct, nil
}

func (s *Store) userView(acct *account) domain.User {
	return domain.User{
		ID:           acct.id,
		Email:        acct.email,
		FullName:     acct.fullName,
		Role:         acct.role,
		TotalOrders:  acct.totalOrders,
		TotalReturns: acct.totalReturns,
		ReturnRate:   returnRate(acct.totalReturns, acct.totalOrders),
	}
}

func (s *Store) merchantView(acct *account) domain.Merchant {
	return domain.Merchant{
		ID:               acct.id,
		Name:             acct.fullName,
		Email:            acct.email,
		MerchantSettings: acct.settings,
		IsActive:         true,
		CreatedAt:        acct.createdAt,
	}
}

func (s *Store) updateSettings(userID string, window *int, fraud, autoApprove *float64) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		return nil, errNotFound("User not found")
	}
	if window != nil {
		if *window < 1 || *window > 365 {
			return nil, errBadRequest("default_return_window must be between 1 and 365")
		}
		acct.settings.DefaultReturnWindow = *window
	}
	if fraud != nil {
		if *fraud < 0 || *fraud > 100 {
			return nil, errBadRequest("fraud_threshold must be between 0 and 100")
		}
		acct.settings.FraudThreshold = *fraud
	}
	if autoApprove != nil {
		if *autoApprove < 0 || *autoApprove > 100 {
			return nil, errBadRequest("auto_approve_threshold must be between 0 and 100")
		}
		acct.settings.AutoApproveThreshold = *autoApprove
	}
	return acct, nil
}

func (s *Store) issueAPIKey(userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		return "", errNotFound("User not found")
	}
	secret := "rsk_" + strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	acct.apiKeyHash = hash
	return secret, nil
}

func (s *Store) listAddresses(userID string) []domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Address(nil), s.addresses[userID]...)
}

func (s *Store) addAddress(userID string, addr domain.Address) domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr.ID = "addr-" + uuid.NewString()
	s.addresses[userID] = append(s.addresses[userID], addr)
	return addr
}

// merchantSettings returns the knobs of the first merchant account; the
// sandbox models a single-merchant platform.
func (s *Store) merchantSettingsLocked() domain.MerchantSettings {
	for _, acct := range s.accounts {
		if acct.role == roleMerchant {
			return acct.settings
		}
	}
	return domain.MerchantSettings{DefaultReturnWindow: 30, FraudThreshold: 30, AutoApproveThreshold: 70}
}

// --- cart ---

func (s *Store) cartView(userID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartViewLocked(userID)
}

func (s *Store) cartViewLocked(userID string) domain.Cart {
	cart := domain.Cart{
		ID:    "cart-" + userID,
		Items: []domain.CartItem{},
	}
	for _, line := range s.carts[userID] {
		p := s.products[line.productID]
		item := domain.CartItem{
			ID:                   line.id,
			ProductID:            p.ID,
			Quantity:             line.quantity,
			UnitPrice:            p.Price,
			TotalPrice:           round2(p.Price * float64(line.quantity)),
			ProductName:          p.Name,
			ProductImage:         p.Image,
			ProductInStock:       p.InStock,
			ProductStockQuantity: p.StockQuantity,
		}
		cart.Items = append(cart.Items, item)
		cart.TotalItems += line.quantity
		cart.Subtotal += item.TotalPrice
	}
	cart.Subtotal = round2(cart.Subtotal)
	cart.Tax = round2(cart.Subtotal * taxRate)
	cart.Total = round2(cart.Subtotal + cart.Tax)
	return cart
}

func (s *Store) addCartItem(userID, productID string, quantity int) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		return domain.Cart{}, errBadRequest("Quantity must be at least 1")
	}
	p, ok := s.products[productID]
	if !ok {
		return domain.Cart{}, errNotFound("Product not found")
	}

	lines := s.carts[userID]
	existing := -1
	for i, line := range lines {
		if line.productID == productID {
			existing = i
			break
		}
	}
	requested := quantity
	if existing >= 0 {
		requested += lines[existing].quantity
	}
	if requested > p.StockQuantity {
		return domain.Cart{}, errBadRequest(fmt.Sprintf("Only %d items available in stock", p.StockQuantity))
	}

	if existing >= 0 {
		lines[existing].quantity = requested
	} else {
		lines = append(lines, cartLine{
			id:        "ci-" + uuid.NewString(),
			productID: productID,
			quantity:  quantity,
		})
	}
	s.carts[userID] = lines
	return s.cartViewLocked(userID), nil
}

func (s *Store) updateCartItem(userID, itemID string, quantity int) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		return domain.Cart{}, errBadRequest("Quantity must be at least 1")
	}
	for i, line := range s.carts[userID] {
		if line.id != itemID {
			continue
		}
		p := s.products[line.productID]
		if quantity > p.StockQuantity {
			return domain.Cart{}, errBadRequest(fmt.Sprintf("Only %d items available in stock", p.StockQuantity))
		}
		s.carts[userID][i].quantity = quantity
		return s.cartViewLocked(userID), nil
	}
	return domain.Cart{}, errNotFound("Cart item not found")
}

func (s *Store) removeCartItem(userID, itemID string) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i, line := range lines {
		if line.id == itemID {
			s.carts[userID] = append(lines[:i], lines[i+1:]...)
			return s.cartViewLocked(userID), nil
		}
	}
	return domain.Cart{}, errNotFound("Cart item not found")
}

func (s *Store) clearCart(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// --- orders ---

func (s *Store) placeOrder(userID, addressID, paymentMethod string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	if len(lines) == 0 {
		return domain.Order{}, errBadRequest("Cart is empty")
	}

	var addr *domain.Address
	for i := range s.addresses[userID] {
		if s.addresses[userID][i].ID == addressID {
			addr = &s.addresses[userID][i]
			break
		}
	}
	if addr == nil {
		return domain.Order{}, errNotFound("Address not found")
	}

	settings := s.merchantSettingsLocked()
	now := time.Now().UTC()
	order := &domain.Order{
		ID:                 "order-" + uuid.NewString(),
		OrderNumber:        fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:6])),
		UserID:             userID,
		Status:             domain.OrderStatusConfirmed,
		PaymentStatus:      "paid",
		PaymentMethod:      paymentMethod,
		ShippingName:       addr.FullName,
		ShippingPhone:      addr.Phone,
		ShippingAddress:    addr.Line1,
		ShippingCity:       addr.City,
		ShippingState:      addr.State,
		ShippingPostalCode: addr.PostalCode,
		CreatedAt:          now,
		ConfirmedAt:        &now,
	}

	// Validate every line before touching stock so a rejection is atomic.
	for _, line := range lines {
		p := s.products[line.productID]
		if line.quantity > p.StockQuantity {
			return domain.Order{}, errBadRequest(fmt.Sprintf("Only %d items available in stock", p.StockQuantity))
		}
	}

	for _, line := range lines {
		p := s.products[line.productID]
		item := domain.OrderItem{
			ID:               "oi-" + uuid.NewString(),
			ProductID:        p.ID,
			ProductName:      p.Name,
			ProductSKU:       p.SKU,
			UnitPrice:        p.Price,
			Quantity:         line.quantity,
			TotalPrice:       round2(p.Price * float64(line.quantity)),
			ReturnWindowDays: settings.DefaultReturnWindow,
		}
		order.Items = append(order.Items, item)
		order.ItemCount += line.quantity
		order.Subtotal += item.TotalPrice
		p.StockQuantity -= line.quantity
		p.InStock = p.StockQuantity > 0
		p.totalSold += line.quantity
	}
	order.Subtotal = round2(order.Subtotal)
	order.Tax = round2(order.Subtotal * taxRate)
	order.Total = round2(order.Subtotal + order.Tax + order.ShippingFee - order.Discount)

	s.orders[order.ID] = order
	s.accounts[userID].totalOrders++
	delete(s.carts, userID)
	return s.orderViewLocked(order), nil
}

// orderViewLocked returns a copy with capability flags recomputed at read
// time, so staleness lives only on the client side.
func (s *Store) orderViewLocked(order *domain.Order) domain.Order {
	view := *order
	view.Items = append([]domain.OrderItem(nil), order.Items...)
	view.CanCancel = order.Status == domain.OrderStatusPending || order.Status == domain.OrderStatusConfirmed

	view.CanReturn = false
	for i := range view.Items {
		item := &view.Items[i]
		item.CanReturn = false
		if order.Status != domain.OrderStatusDelivered || order.DeliveredAt == nil || item.IsReturned {
			continue
		}
		p := s.products[item.ProductID]
		if p == nil || !p.IsReturnable {
			continue
		}
		days := int(time.Since(*order.DeliveredAt).Hours() / 24)
		if days <= item.ReturnWindowDays {
			item.CanReturn = true
			view.CanReturn = true
		}
	}
	return view
}

func (s *Store) getOrder(userID, orderID string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || (userID != "" && order.UserID != userID) {
		return domain.Order{}, errNotFound("Order not found")
	}
	return s.orderViewLocked(order), nil
}

func (s *Store) listOrders(userID string) []domain.OrderSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summaries []domain.OrderSummary
	for _, order := range s.orders {
		if order.UserID != userID {
			continue
		}
		summary := domain.OrderSummary{
			ID:            order.ID,
			OrderNumber:   order.OrderNumber,
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			Total:         order.Total,
			ItemCount:     order.ItemCount,
			CreatedAt:     order.CreatedAt,
		}
		if len(order.Items) > 0 {
			name := order.Items[0].ProductName
			summary.FirstItemName = &name
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries
}

func (s *Store) cancelOrder(userID, orderID string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || order.UserID != userID {
		return domain.Order{}, errNotFound("Order not found")
	}
	if order.Status != domain.OrderStatusPending && order.Status != domain.OrderStatusConfirmed {
		return domain.Order{}, errBadRequest("Order cannot be cancelled at this stage")
	}

	for _, item := range order.Items {
		if p := s.products[item.ProductID]; p != nil {
			p.StockQuantity += item.Quantity
			p.InStock = true
			p.totalSold -= item.Quantity
		}
	}
	order.Status = domain.OrderStatusCancelled
	return s.orderViewLocked(order), nil
}

func (s *Store) setOrderStatus(orderID string, status domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.IsValid() {
		return domain.Order{}, errBadRequest("Unknown order status")
	}
	order, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, errNotFound("Order not found")
	}

	now := time.Now().UTC()
	order.Status = status
	switch status {
	case domain.OrderStatusShipped:
		order.ShippedAt = &now
	case domain.OrderStatusDelivered:
		order.DeliveredAt = &now
	}
	return s.orderViewLocked(order), nil
}

// --- returns ---

func (s *Store) createReturn(userID string, orderID, orderItemID string, reason domain.ReturnReason, details *string) (domain.ReturnRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !reason.IsValid() {
		return domain.ReturnRequest{}, errBadRequest("Unknown return reason")
	}

	order, ok := s.orders[orderID]
	if !ok || order.UserID != userID {
		return domain.ReturnRequest{}, errNotFound("Order not found")
	}
	if order.Status != domain.OrderStatusDelivered {
		return domain.ReturnRequest{}, errBadRequest("Can only return items from delivered orders")
	}

	var item *domain.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == orderItemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return domain.ReturnRequest{}, errNotFound("Order item not found")
	}
	if item.IsReturned {
		return domain.ReturnRequest{}, errBadRequest("Item already returned")
	}

	p := s.products[item.ProductID]
	if p == nil || !p.IsReturnable {
		return domain.ReturnRequest{}, errBadRequest("This product is not returnable")
	}
	days := 0
	if order.DeliveredAt != nil {
		days = int(time.Since(*order.DeliveredAt).Hours() / 24)
	}
	if days > item.ReturnWindowDays {
		return domain.ReturnRequest{}, errBadRequest(fmt.Sprintf("Return window of %d days has expired", item.ReturnWindowDays))
	}

	for _, existing := range s.returns {
		if existing.OrderItemID == orderItemID && existing.Status.Cancellable() {
			return domain.ReturnRequest{}, errBadRequest("Return request already exists for this item")
		}
	}

	acct := s.accounts[userID]
	settings := s.merchantSettingsLocked()
	now := time.Now().UTC()

	result := scoreReturn(scoreInput{
		ReturnRate:     returnRate(acct.totalReturns, acct.totalOrders),
		AccountAgeDays: int(now.Sub(acct.createdAt).Hours() / 24),
		TotalOrders:    acct.totalOrders,
		TotalReviews:   acct.totalReviews,
		AvgReviewScore: acct.avgReviewScore,
		ReturnsThisMonth: s.returnsThisMonthLocked(userID, now),
		OrderAmount:    item.TotalPrice,
		Reason:         reason,
		DaysSinceOrder: int(now.Sub(order.CreatedAt).Hours() / 24),
		ReturnWindow:   item.ReturnWindowDays,
		Settings:       settings,
	})

	amount := item.TotalPrice
	ret := &domain.ReturnRequest{
		ID:            "ret-" + uuid.NewString(),
		ReturnNumber:  fmt.Sprintf("RET-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:6])),
		OrderID:       orderID,
		OrderItemID:   orderItemID,
		UserID:        userID,
		Reason:        reason,
		ReasonDetails: details,
		Status:        domain.ReturnStatusPending,

		EligibilityScore:     &result.Score,
		RiskLevel:            result.RiskLevel,
		RiskFlags:            result.Flags,
		EngineRecommendation: result.Recommendation,
		EngineConfidence:     &result.Confidence,

		Decision: domain.DecisionPending,

		RefundAmount:      &amount,
		DaysSinceDelivery: days,
		CreatedAt:         now,
		ProductName:       item.ProductName,
		OrderAmount:       &amount,
	}

	system := "system"
	switch result.Recommendation {
	case domain.RecommendApprove:
		ret.Status = domain.ReturnStatusApproved
		ret.Decision = domain.DecisionApproved
		ret.DecidedBy = &system
		ret.DecidedAt = &now
		ret.ApprovedAt = &now
		item.IsReturned = true
		p.totalReturned += item.Quantity
		acct.totalReturns++
	case domain.RecommendDeny:
		ret.Status = domain.ReturnStatusRejected
		ret.Decision = domain.DecisionDenied
		ret.DecidedBy = &system
		ret.DecidedAt = &now
		ret.RejectedAt = &now
	default:
		// REVIEW stays pending for manual review.
		ret.Decision = domain.DecisionReview
	}

	s.returns[ret.ID] = ret
	return *ret, nil
}

func (s *Store) returnsThisMonthLocked(userID string, now time.Time) int {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	count := 0
	for _, ret := range s.returns {
		if ret.UserID == userID && !ret.CreatedAt.Before(monthStart) {
			count++
		}
	}
	return count
}

func (s *Store) getReturn(userID, returnID string) (domain.ReturnRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ret, ok := s.returns[returnID]
	if !ok || (userID != "" && ret.UserID != userID) {
		return domain.ReturnRequest{}, errNotFound("Return request not found")
	}
	return *ret, nil
}

func (s *Store) listReturnsForUser(userID string) []domain.ReturnRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var returns []domain.ReturnRequest
	for _, ret := range s.returns {
		if ret.UserID == userID {
			returns = append(returns, *ret)
		}
	}
	sortReturns(returns)
	return returns
}

func (s *Store) cancelReturn(userID, returnID string) (domain.ReturnRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ret, ok := s.returns[returnID]
	if !ok || ret.UserID != userID {
		return domain.ReturnRequest{}, errNotFound("Return request not found")
	}
	if !ret.Status.Cancellable() {
		return domain.ReturnRequest{}, errBadRequest("Return cannot be cancelled at this stage")
	}

	if ret.Status == domain.ReturnStatusApproved {
		// Withdrawing an approved return reopens the item.
		if order := s.orders[ret.OrderID]; order != nil {
			for i := range order.Items {
				if order.Items[i].ID == ret.OrderItemID {
					order.Items[i].IsReturned = false
					if p := s.products[order.Items[i].ProductID]; p != nil {
						p.totalReturned -= order.Items[i].Quantity
					}
				}
			}
		}
		if acct := s.accounts[userID]; acct != nil && acct.totalReturns > 0 {
			acct.totalReturns--
		}
	}
	ret.Status = domain.ReturnStatusCancelled
	return *ret, nil
}

func (s *Store) listReturnQueue(page, perPage int, decision domain.Decision) ([]domain.ReturnRequest, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []domain.ReturnRequest
	for _, ret := range s.returns {
		if decision != "" && ret.Decision != decision {
			continue
		}
		all = append(all, *ret)
	}
	sortReturns(all)

	total := len(all)
	start := (page - 1) * perPage
	if start >= total {
		return []domain.ReturnRequest{}, total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return all[start:end], total
}

func (s *Store) setDecision(merchantID, returnID string, decision domain.Decision, notes *string) (domain.ReturnRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if decision != domain.DecisionApproved && decision != domain.DecisionDenied {
		return domain.ReturnRequest{}, errBadRequest("Decision must be approved or denied")
	}
	ret, ok := s.returns[returnID]
	if !ok {
		return domain.ReturnRequest{}, errNotFound("Return request not found")
	}
	if !ret.Decision.CanTransitionTo(decision) {
		return domain.ReturnRequest{}, errBadRequest("Return has already been decided")
	}

	now := time.Now().UTC()
	ret.Decision = decision
	ret.DecidedBy = &merchantID
	ret.DecidedAt = &now
	if notes != nil {
		ret.DecisionNotes = notes
	}

	// The decision is the only mutator of workflow status on this path.
	switch decision {
	case domain.DecisionApproved:
		if ret.Status.CanTransitionTo(domain.ReturnStatusApproved) {
			ret.Status = domain.ReturnStatusApproved
			ret.ApprovedAt = &now
		}
		if order := s.orders[ret.OrderID]; order != nil {
			for i := range order.Items {
				if order.Items[i].ID == ret.OrderItemID {
					order.Items[i].IsReturned = true
					if p := s.products[order.Items[i].ProductID]; p != nil {
						p.totalReturned += order.Items[i].Quantity
					}
				}
			}
		}
		if acct := s.accounts[ret.UserID]; acct != nil {
			acct.totalReturns++
		}
	case domain.DecisionDenied:
		if ret.Status.CanTransitionTo(domain.ReturnStatusRejected) {
			ret.Status = domain.ReturnStatusRejected
			ret.RejectedAt = &now
		}
	}
	return *ret, nil
}

// --- dashboard ---

func (s *Store) dashboardStats() domain.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.DashboardStats{}
	now := time.Now().UTC()
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	var scoreSum float64
	var scored int
	for _, ret := range s.returns {
		stats.TotalReturns++
		switch ret.Decision {
		case domain.DecisionApproved:
			stats.ApprovedReturns++
		case domain.DecisionDenied:
			stats.DeniedReturns++
		default:
			stats.PendingReturns++
		}
		if ret.EligibilityScore != nil {
			scoreSum += *ret.EligibilityScore
			scored++
		}
		if ret.CreatedAt.After(weekAgo) {
			stats.ReturnsThisWeek++
		} else if ret.CreatedAt.After(twoWeeksAgo) {
			stats.ReturnsLastWeek++
		}
	}
	if decided := stats.ApprovedReturns + stats.DeniedReturns; decided > 0 {
		stats.ApprovalRate = round2(float64(stats.ApprovedReturns) / float64(decided) * 100)
	}
	if scored > 0 {
		stats.AvgScore = round2(scoreSum / float64(scored))
	}

	for _, acct := range s.accounts {
		if acct.role != roleCustomer {
			continue
		}
		stats.TotalBuyers++
		if returnRate(acct.totalReturns, acct.totalOrders) > 0.3 {
			stats.HighRiskBuyers++
		}
	}
	for _, p := range s.products {
		stats.TotalProducts++
		if p.totalSold > 0 && float64(p.totalReturned)/float64(p.totalSold) > 0.2 {
			stats.HighReturnProducts++
		}
	}
	return stats
}

func (s *Store) listBuyers(page, perPage int) []domain.Buyer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buyers []domain.Buyer
	for _, acct := range s.accounts {
		if acct.role != roleCustomer {
			continue
		}
		buyers = append(buyers, domain.Buyer{
			ID:              acct.id,
			ExternalBuyerID: acct.id,
			TotalOrders:     acct.totalOrders,
			TotalReturns:    acct.totalReturns,
			AvgReviewScore:  acct.avgReviewScore,
			ReturnRate:      returnRate(acct.totalReturns, acct.totalOrders),
			CreatedAt:       acct.createdAt,
		})
	}
	sort.Slice(buyers, func(i, j int) bool {
		if buyers[i].CreatedAt.Equal(buyers[j].CreatedAt) {
			return buyers[i].ID < buyers[j].ID
		}
		return buyers[i].CreatedAt.Before(buyers[j].CreatedAt)
	})

	start := (page - 1) * perPage
	if start >= len(buyers) {
		return []domain.Buyer{}
	}
	end := start + perPage
	if end > len(buyers) {
		end = len(buyers)
	}
	return buyers[start:end]
}

// --- helpers ---

func sortReturns(returns []domain.ReturnRequest) {
	sort.Slice(returns, func(i, j int) bool {
		if returns[i].CreatedAt.Equal(returns[j].CreatedAt) {
			return returns[i].ID < returns[j].ID
		}
		return returns[i].CreatedAt.After(returns[j].CreatedAt)
	})
}

func returnRate(returns, orders int) float64 {
	if orders == 0 {
		return 0
	}
	return float64(returns) / float64(orders)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
