package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopzone/storeclient/internal/config"
	apperrors "github.com/shopzone/storeclient/pkg/errors"
)

// Client is the single point of contact with the platform API. It attaches
// the bearer credential, normalizes failures into the pkg/errors taxonomy
// and holds no state besides the credential itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu               sync.RWMutex
	token            string
	onSessionExpired func()
}

// NewClient creates a platform API client.
func NewClient(cfg config.APIConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SetToken installs the bearer credential used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer credential, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ClearToken discards the bearer credential.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// OnSessionExpired registers the hook fired after a 401 invalidates the
// credential. This is the only side effect outside the request/response
// cycle.
func (c *Client) OnSessionExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSessionExpired = fn
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
// body and out may each be nil.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, "application/json", reader, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, "application/json", reader, out)
}

// Delete issues a DELETE and decodes the response into out when the backend
// returns one. A 204 leaves out untouched.
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, out)
}

// PostForm issues a form-encoded POST. The login exchange is the only call
// that is not JSON.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", body, out)
}

func encodeJSON(body interface{}) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(data), nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		// The credential is invalid regardless of why; discard it and
		// signal the session container before returning.
		c.ClearToken()
		c.mu.RLock()
		hook := c.onSessionExpired
		c.mu.RUnlock()
		if hook != nil {
			hook()
		}
		return &apperrors.ErrSessionExpired{}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readDetail(resp.Body)
		c.logger.Warn("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail),
		)
		if resp.StatusCode == http.StatusNotFound {
			return &apperrors.ErrNotFound{Detail: detail}
		}
		return &apperrors.ErrBackend{Status: resp.StatusCode, Detail: detail}
	}

	// 204 is a successful empty result, not a failure.
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readDetail extracts the backend's human-readable detail string. A body
// that fails to parse still yields a generic failure.
func readDetail(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil {
		return "request failed"
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Detail == "" {
		return "request failed"
	}
	return payload.Detail
}
