package session

import (
	"sync"

	"github.com/shopzone/storeclient/internal/domain"
)

// Store is the per-session state container shared by the storefront views
// (cart badge, order list, return list). It is initialized at session start,
// reset on logout and on credential expiry, and never retained across
// credential changes. One store per logical session; cross-tab coordination
// is out of scope.
type Store struct {
	mu   sync.RWMutex
	user *domain.User
	cart *domain.Cart
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// User returns the authenticated user, or nil.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser installs the authenticated user.
func (s *Store) SetUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Cart returns the cached cart, or nil when none has been fetched.
func (s *Store) Cart() *domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart
}

// ReplaceCart replaces the cached cart with the server's response. The most
// recent successful response is authoritative; any optimistic guess is
// discarded.
func (s *Store) ReplaceCart(cart *domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart
}

// DropCart forgets the cached cart without replacing it. Used at the sole
// Cart to Order hand-off point.
func (s *Store) DropCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

// Reset tears the session down.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.cart = nil
}
