package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopzone/storeclient/internal/config"
	"github.com/shopzone/storeclient/internal/gateway"
	"github.com/shopzone/storeclient/internal/session"
	apperrors "github.com/shopzone/storeclient/pkg/errors"
)

func TestCartTotalsAreServerComputed(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)
	ctx := context.Background()

	cart, err := h.buyer.cart.AddItem(ctx, productSneakers, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, cart.TotalItems)
	assert.Equal(t, 897.00, cart.Subtotal)
	assert.Equal(t, 161.46, cart.Tax)
	assert.Equal(t, 1058.46, cart.Total)

	cart, err = h.buyer.cart.AddItem(ctx, productTote, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, cart.TotalItems)
	assert.Equal(t, 947.00, cart.Subtotal)
	assert.Equal(t, 170.46, cart.Tax)
	assert.Equal(t, 1117.46, cart.Total)

	// The cache always mirrors the last server response.
	assert.Equal(t, cart, h.buyer.cart.Current())
}

func TestAddItemRejectsBadInputBeforeNetwork(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer ts.Close()

	logger := zap.NewNop()
	gw := gateway.NewClient(config.APIConfig{BaseURL: ts.URL, Timeout: time.Second}, logger)
	cart := NewCartService(gw, session.NewStore(), logger)
	ctx := context.Background()

	var invalid *apperrors.ErrValidation

	_, err := cart.AddItem(ctx, productSneakers, 0)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "quantity", invalid.Field)

	_, err = cart.AddItem(ctx, "", 1)
	require.ErrorAs(t, err, &invalid)

	_, err = cart.UpdateItemQuantity(ctx, "ci-1", -2)
	require.ErrorAs(t, err, &invalid)

	assert.Zero(t, requests, "invalid input must not reach the backend")
}

func TestUpdateAndRemoveCartItem(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)
	ctx := context.Background()

	cart, err := h.buyer.cart.AddItem(ctx, productTote, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	itemID := cart.Items[0].ID

	cart, err = h.buyer.cart.UpdateItemQuantity(ctx, itemID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, 100.00, cart.Subtotal)

	cart, err = h.buyer.cart.RemoveItem(ctx, itemID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
	assert.Zero(t, cart.Total)
}

func TestAddItemStockCeiling(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)
	ctx := context.Background()

	_, err := h.buyer.cart.AddItem(ctx, productEspresso, 3)
	var backend *apperrors.ErrBackend
	require.ErrorAs(t, err, &backend)
	assert.Equal(t, http.StatusBadRequest, backend.Status)

	// A rejected mutation leaves the cached cart untouched.
	assert.Nil(t, h.buyer.cart.Current())
}

func TestClearCart(t *testing.T) {
	h := newHarness(t)
	h.login(t, buyerAlice)
	ctx := context.Background()

	_, err := h.buyer.cart.AddItem(ctx, productSneakers, 1)
	require.NoError(t, err)

	cart, err := h.buyer.cart.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalItems)
}
