package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopzone/storeclient/internal/domain"
	"github.com/shopzone/storeclient/internal/gateway"
	"github.com/shopzone/storeclient/internal/session"
	apperrors "github.com/shopzone/storeclient/pkg/errors"
)

// OrderService converts a cart into an order and tracks the order state
// machine. Cancellation is gated on the backend-supplied can_cancel
// capability, never inferred from a cached status.
type OrderService struct {
	gw     *gateway.Client
	store  *session.Store
	logger *zap.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(gw *gateway.Client, store *session.Store, logger *zap.Logger) *OrderService {
	return &OrderService{
		gw:     gw,
		store:  store,
		logger: logger,
	}
}

// PlaceOrder consumes the current cart. On success the cached cart is
// dropped; this is the sole hand-off point between cart and order.
func (s *OrderService) PlaceOrder(ctx context.Context, addressID, paymentMethod string) (*domain.Order, error) {
	cart := s.store.Cart()
	if cart == nil || len(cart.Items) == 0 {
		return nil, &apperrors.ErrEmptyCart{}
	}
	if addressID == "" {
		return nil, &apperrors.ErrNoAddress{}
	}
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	var order domain.Order
	req := placeOrderRequest{AddressID: addressID, PaymentMethod: paymentMethod}
	if err := s.gw.Post(ctx, "/orders", req, &order); err != nil {
		return nil, err
	}

	s.store.DropCart()
	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)),
	)
	return &order, nil
}

// List fetches the caller's orders.
func (s *OrderService) List(ctx context.Context) ([]domain.OrderSummary, error) {
	var orders []domain.OrderSummary
	if err := s.gw.Get(ctx, "/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Get fetches one order.
func (s *OrderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, &apperrors.ErrValidation{Field: "order_id", Reason: "must not be empty"}
	}
	var order domain.Order
	if err := s.gw.Get(ctx, "/orders/"+orderID, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel requests cancellation. The order is refetched first so the
// can_cancel capability is current; a cached status can be stale.
func (s *OrderService) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanCancel {
		return nil, &apperrors.ErrNotCancellable{
			Resource: "order",
			ID:       orderID,
			Status:   string(order.Status),
		}
	}

	var cancelled domain.Order
	if err := s.gw.Post(ctx, "/orders/"+orderID+"/cancel", nil, &cancelled); err != nil {
		return nil, err
	}
	s.logger.Info("order cancelled", zap.String("order_id", orderID))
	return &cancelled, nil
}
