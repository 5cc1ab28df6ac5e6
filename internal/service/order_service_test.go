package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopzone/storeclient/internal/domain"
	apperrors "github.com/shopzone/storeclient/pkg/errors"
)

func TestPlaceOrderRequiresCart(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)

	_, err := h.buyer.orders.PlaceOrder(context.Background(), "addr-alice", "cod")
	var empty *apperrors.ErrEmptyCart
	require.ErrorAs(t, err, &empty)
}

func TestPlaceOrderRequiresAddress(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)
	ctx := context.Background()

	_, err := h.buyer.cart.AddItem(ctx, productTote, 1)
	require.NoError(t, err)

	_, err = h.buyer.orders.PlaceOrder(ctx, "", "cod")
	var noAddr *apperrors.ErrNoAddress
	require.ErrorAs(t, err, &noAddr)
}

func TestPlaceOrderConsumesCart(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)
	ctx := context.Background()

	cart, err := h.buyer.cart.AddItem(ctx, productSneakers, 3)
	require.NoError(t, err)

	addrs, err := h.buyer.auth.Addresses(ctx)
	require.NoError(t, err)

	order, err := h.buyer.orders.PlaceOrder(ctx, addrs[0].ID, "cod")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, cart.Subtotal, order.Subtotal)
	assert.Equal(t, cart.Tax, order.Tax)
	assert.Equal(t, cart.Total, order.Total)
	assert.True(t, order.CanCancel)
	assert.False(t, order.CanReturn)
	assert.Equal(t, addrs[0].City, order.ShippingCity)

	// The local cart cache is dropped and the server cart is empty.
	assert.Nil(t, h.buyer.cart.Current())
	fresh, err := h.buyer.cart.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh.Items)
}

func TestOrderListNewestFirst(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)
	ctx := context.Background()

	first := h.placeOrder(t, productTote, 1)
	second := h.placeOrder(t, productSneakers, 1)

	orders, err := h.buyer.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
	require.NotNil(t, orders[0].FirstItemName)
	assert.Equal(t, "Trail Runner Sneakers", *orders[0].FirstItemName)
}

func TestCancelOrder(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)
	ctx := context.Background()

	order := h.placeOrder(t, productTote, 1)

	cancelled, err := h.buyer.orders.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.False(t, cancelled.CanCancel)

	// A second attempt fails the capability check client-side.
	_, err = h.buyer.orders.Cancel(ctx, order.ID)
	var notCancellable *apperrors.ErrNotCancellable
	require.ErrorAs(t, err, &notCancellable)
	assert.Equal(t, string(domain.OrderStatusCancelled), notCancellable.Status)
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)

	order := h.placeDelivered(t, productTote, 1)

	_, err := h.buyer.orders.Cancel(context.Background(), order.ID)
	var notCancellable *apperrors.ErrNotCancellable
	require.ErrorAs(t, err, &notCancellable)
}

func TestDeliveredOrderItemsBecomeReturnable(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)

	order := h.placeDelivered(t, productSneakers, 1)

	assert.Equal(t, domain.OrderStatusDelivered, order.Status)
	assert.True(t, order.CanReturn)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].CanReturn)
	assert.False(t, order.Items[0].IsReturned)
}

func TestNonReturnableProductStaysIneligible(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)

	order := h.placeDelivered(t, productGiftCard, 1)

	require.Len(t, order.Items, 1)
	assert.False(t, order.Items[0].CanReturn)
	assert.False(t, order.CanReturn)
}
