package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopzone/storeclient/internal/domain"
	"github.com/shopzone/storeclient/internal/gateway"
	"github.com/shopzone/storeclient/internal/session"
	apperrors "github.com/shopzone/storeclient/pkg/errors"
)

// CartService synchronizes the cached shopping cart with the backend. The
// server is the source of truth: every successful mutation replaces the
// cached cart with the server response, last writer wins. Stock ceilings are
// enforced server-side; out-of-stock surfaces as a backend rejection.
type CartService struct {
	gw     *gateway.Client
	store  *session.Store
	logger *zap.Logger
}

// NewCartService creates a new cart service.
func NewCartService(gw *gateway.Client, store *session.Store, logger *zap.Logger) *CartService {
	return &CartService{
		gw:     gw,
		store:  store,
		logger: logger,
	}
}

// Current returns the cached cart without touching the network.
func (s *CartService) Current() *domain.Cart {
	return s.store.Cart()
}

// Fetch loads the cart from the backend and replaces the cache.
func (s *CartService) Fetch(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := s.gw.Get(ctx, "/cart", &cart); err != nil {
		return nil, err
	}
	s.store.ReplaceCart(&cart)
	return &cart, nil
}

// AddItem adds quantity units of a product. Quantity below 1 is rejected
// before any network call.
func (s *CartService) AddItem(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	if productID == "" {
		return nil, &apperrors.ErrValidation{Field: "product_id", Reason: "must not be empty"}
	}
	if quantity < 1 {
		return nil, &apperrors.ErrValidation{Field: "quantity", Reason: "must be at least 1"}
	}

	var cart domain.Cart
	req := addCartItemRequest{ProductID: productID, Quantity: quantity}
	if err := s.gw.Post(ctx, "/cart/items", req, &cart); err != nil {
		return nil, err
	}
	s.store.ReplaceCart(&cart)
	s.logger.Debug("cart item added",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Int("total_items", cart.TotalItems),
	)
	return &cart, nil
}

// UpdateItemQuantity sets a line item's quantity. Quantity below 1 is
// rejected client-side and leaves the cart unchanged; the authoritative
// stock check stays server-side.
func (s *CartService) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*domain.Cart, error) {
	if itemID == "" {
		return nil, &apperrors.ErrValidation{Field: "item_id", Reason: "must not be empty"}
	}
	if quantity < 1 {
		return nil, &apperrors.ErrValidation{Field: "quantity", Reason: "must be at least 1"}
	}

	var cart domain.Cart
	req := updateCartItemRequest{Quantity: quantity}
	if err := s.gw.Put(ctx, "/cart/items/"+itemID, req, &cart); err != nil {
		return nil, err
	}
	s.store.ReplaceCart(&cart)
	return &cart, nil
}

// RemoveItem deletes a line item.
func (s *CartService) RemoveItem(ctx context.Context, itemID string) (*domain.Cart, error) {
	if itemID == "" {
		return nil, &apperrors.ErrValidation{Field: "item_id", Reason: "must not be empty"}
	}

	var cart domain.Cart
	if err := s.gw.Delete(ctx, "/cart/items/"+itemID, &cart); err != nil {
		return nil, err
	}
	s.store.ReplaceCart(&cart)
	return &cart, nil
}

// Clear empties the cart and refetches the now-empty server state.
func (s *CartService) Clear(ctx context.Context) (*domain.Cart, error) {
	if err := s.gw.Delete(ctx, "/cart", nil); err != nil {
		return nil, err
	}
	return s.Fetch(ctx)
}
