package service

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopzone/storeclient/internal/config"
	"github.com/shopzone/storeclient/internal/domain"
	"github.com/shopzone/storeclient/internal/gateway"
	"github.com/shopzone/storeclient/internal/sandbox"
	"github.com/shopzone/storeclient/internal/session"
)

// Seeded sandbox fixtures. Alice has a clean return history, Marco a high
// return rate; both share the default password.
const (
	buyerAlice   = "alice@shopzone.test"
	buyerMarco   = "marco@shopzone.test"
	merchantOps  = "merchant@shopzone.test"
	seedPassword = "password123"

	productSneakers = "prod-trail-runner"
	productTote     = "prod-canvas-tote"
	productEspresso = "prod-espresso-maker"
	productGiftCard = "prod-gift-card"
)

// clientSet is one authenticated client stack against the sandbox.
type clientSet struct {
	gw        *gateway.Client
	store     *session.Store
	auth      *AuthService
	cart      *CartService
	orders    *OrderService
	returns   *ReturnService
	dashboard *DashboardService
}

func newClientSet(baseURL string) *clientSet {
	logger := zap.NewNop()
	gw := gateway.NewClient(config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second}, logger)
	store := session.NewStore()
	return &clientSet{
		gw:        gw,
		store:     store,
		auth:      NewAuthService(gw, store, logger),
		cart:      NewCartService(gw, store, logger),
		orders:    NewOrderService(gw, store, logger),
		returns:   NewReturnService(gw, logger),
		dashboard: NewDashboardService(gw, logger),
	}
}

type harness struct {
	buyer    *clientSet
	merchant *clientSet
}

// newHarness spins up a seeded sandbox and two independent client stacks,
// one per role. The merchant is already logged in; buyers log in per test.
func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := sandbox.NewServer(config.SandboxConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	h := &harness{
		buyer:    newClientSet(ts.URL + "/api/v1"),
		merchant: newClientSet(ts.URL + "/api/v1"),
	}
	_, err := h.merchant.auth.Login(context.Background(), merchantOps, seedPassword)
	require.NoError(t, err)
	return h
}

func (h *harness) login(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := h.buyer.auth.Login(context.Background(), email, seedPassword)
	require.NoError(t, err)
	return user
}

// placeOrder runs the cart-to-order hand-off for the logged-in buyer.
func (h *harness) placeOrder(t *testing.T, productID string, quantity int) *domain.Order {
	t.Helper()
	ctx := context.Background()

	_, err := h.buyer.cart.AddItem(ctx, productID, quantity)
	require.NoError(t, err)

	addrs, err := h.buyer.auth.Addresses(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, addrs)

	order, err := h.buyer.orders.PlaceOrder(ctx, addrs[0].ID, "cod")
	require.NoError(t, err)
	return order
}

// deliver advances an order to delivered through the merchant endpoint.
func (h *harness) deliver(t *testing.T, orderID string) {
	t.Helper()
	var order domain.Order
	body := map[string]string{"status": string(domain.OrderStatusDelivered)}
	require.NoError(t, h.merchant.gw.Put(context.Background(), "/orders/"+orderID+"/status", body, &order))
	require.Equal(t, domain.OrderStatusDelivered, order.Status)
}

// placeDelivered is placeOrder plus delivery, the precondition for returns.
func (h *harness) placeDelivered(t *testing.T, productID string, quantity int) *domain.Order {
	t.Helper()
	order := h.placeOrder(t, productID, quantity)
	h.deliver(t, order.ID)

	refreshed, err := h.buyer.orders.Get(context.Background(), order.ID)
	require.NoError(t, err)
	return refreshed
}
