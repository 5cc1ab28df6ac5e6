package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopzone/storeclient/internal/config"
	apperrors "github.com/shopzone/storeclient/pkg/errors"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.APIConfig{BaseURL: serverURL}, zap.NewNop())
}

func TestAttachesAuthHeaders(t *testing.T) {
	var gotAuth, gotRequestID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	client.SetToken("tok-123")

	var out map[string]bool
	require.NoError(t, client.Get(context.Background(), "/ping", &out))

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	var out map[string]any
	require.NoError(t, newTestClient(ts.URL).Get(context.Background(), "/ping", &out))
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedClearsTokenAndFiresHook(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	client.SetToken("stale")

	hookFired := false
	client.OnSessionExpired(func() { hookFired = true })

	err := client.Get(context.Background(), "/auth/me", nil)
	var expired *apperrors.ErrSessionExpired
	require.ErrorAs(t, err, &expired)

	assert.Empty(t, client.Token())
	assert.True(t, hookFired)
}

func TestNotFoundMapsToErrNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Order not found"}`))
	}))
	defer ts.Close()

	err := newTestClient(ts.URL).Get(context.Background(), "/orders/nope", nil)
	var notFound *apperrors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Order not found", notFound.Detail)
}

func TestBackendDetailPassthrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Cart is empty"}`))
	}))
	defer ts.Close()

	err := newTestClient(ts.URL).Post(context.Background(), "/orders", map[string]string{}, nil)
	var backend *apperrors.ErrBackend
	require.ErrorAs(t, err, &backend)
	assert.Equal(t, http.StatusBadRequest, backend.Status)
	assert.Equal(t, "Cart is empty", backend.Detail)
}

func TestUnparseableErrorBodyYieldsGenericDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer ts.Close()

	err := newTestClient(ts.URL).Get(context.Background(), "/cart", nil)
	var backend *apperrors.ErrBackend
	require.ErrorAs(t, err, &backend)
	assert.Equal(t, "request failed", backend.Detail)
}

func TestNoContentIsSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	assert.NoError(t, newTestClient(ts.URL).Delete(context.Background(), "/cart", nil))
}

func TestFormPostEncoding(t *testing.T) {
	var gotContentType, gotUsername string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		r.ParseForm()
		gotUsername = r.PostFormValue("username")
		w.Write([]byte(`{"access_token":"t","token_type":"bearer"}`))
	}))
	defer ts.Close()

	form := url.Values{"username": {"alice@shopzone.test"}, "password": {"password123"}}
	var out map[string]string
	require.NoError(t, newTestClient(ts.URL).PostForm(context.Background(), "/auth/login", form, &out))

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "alice@shopzone.test", gotUsername)
}
