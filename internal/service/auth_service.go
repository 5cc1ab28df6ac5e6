package service

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/shopzone/storeclient/internal/domain"
	"github.com/shopzone/storeclient/internal/gateway"
	"github.com/shopzone/storeclient/internal/session"
	apperrors "github.com/shopzone/storeclient/pkg/errors"
)

// AuthService owns the credential lifecycle: login, registration, the
// current profile, merchant settings and API key issuance.
type AuthService struct {
	gw     *gateway.Client
	store  *session.Store
	logger *zap.Logger
}

// NewAuthService creates the auth service and wires session teardown to the
// gateway's 401 handling, so an expired credential always resets the store.
func NewAuthService(gw *gateway.Client, store *session.Store, logger *zap.Logger) *AuthService {
	s := &AuthService{
		gw:     gw,
		store:  store,
		logger: logger,
	}
	gw.OnSessionExpired(func() {
		logger.Info("session expired, resetting session store")
		store.Reset()
	})
	return s
}

// Login performs the form-encoded credential exchange, installs the bearer
// token and loads the profile into the session store.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, &apperrors.ErrValidation{Field: "credentials", Reason: "email and password are required"}
	}

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var token domain.Token
	if err := s.gw.PostForm(ctx, "/auth/login", form, &token); err != nil {
		return nil, err
	}
	s.gw.SetToken(token.AccessToken)

	user, err := s.Me(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("logged in", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

// Register creates an account and starts a session for it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return nil, &apperrors.ErrValidation{Field: "registration", Reason: "email, password and full name are required"}
	}

	var resp struct {
		AccessToken string       `json:"access_token"`
		TokenType   string       `json:"token_type"`
		User        *domain.User `json:"user"`
	}
	if err := s.gw.Post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	s.gw.SetToken(resp.AccessToken)
	s.store.SetUser(resp.User)
	return resp.User, nil
}

// Me fetches the authenticated profile and refreshes the session store.
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := s.gw.Get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	s.store.SetUser(&user)
	return &user, nil
}

// Logout discards the credential and tears the session down.
func (s *AuthService) Logout() {
	s.gw.ClearToken()
	s.store.Reset()
	s.logger.Info("logged out")
}

// Addresses lists the shipping addresses on file.
func (s *AuthService) Addresses(ctx context.Context) ([]domain.Address, error) {
	var addrs []domain.Address
	if err := s.gw.Get(ctx, "/auth/addresses", &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

// GenerateAPIKey issues a fresh dashboard API key. The secret is returned
// exactly once and is not retained here.
func (s *AuthService) GenerateAPIKey(ctx context.Context) (string, error) {
	var key domain.APIKey
	if err := s.gw.Post(ctx, "/auth/api-key", nil, &key); err != nil {
		return "", err
	}
	return key.APIKey, nil
}

// UpdateSettings edits the merchant's scoring knobs. The knobs are engine
// inputs; nothing client-side evaluates them.
func (s *AuthService) UpdateSettings(ctx context.Context, update SettingsUpdate) (*domain.Merchant, error) {
	var merchant domain.Merchant
	if err := s.gw.Put(ctx, "/auth/me", update, &merchant); err != nil {
		return nil, err
	}
	return &merchant, nil
}
