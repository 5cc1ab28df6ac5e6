package errors

import "fmt"

// ErrValidation is a precondition failure detected client-side. No request
// is issued for operations that fail validation.
type ErrValidation struct {
	Field  string
	Reason string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// ErrBackend is any non-2xx response from the platform API, carrying the
// backend-provided detail verbatim.
type ErrBackend struct {
	Status int
	Detail string
}

func (e *ErrBackend) Error() string {
	return fmt.Sprintf("backend rejected request (status %d): %s", e.Status, e.Detail)
}

// ErrSessionExpired is returned after a 401. The gateway has already
// discarded the credential by the time the caller sees this.
type ErrSessionExpired struct{}

func (e *ErrSessionExpired) Error() string {
	return "session expired, re-authentication required"
}

// ErrNotFound maps a backend 404.
type ErrNotFound struct {
	Detail string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("not found: %s", e.Detail)
}

// ErrEmptyCart is returned when placing an order with no cart items.
type ErrEmptyCart struct{}

func (e *ErrEmptyCart) Error() string {
	return "cart is empty"
}

// ErrNoAddress is returned when placing an order without a shipping address.
type ErrNoAddress struct{}

func (e *ErrNoAddress) Error() string {
	return "no shipping address selected"
}

// ErrNotCancellable is returned when an order or return can no longer be
// cancelled by the requester.
type ErrNotCancellable struct {
	Resource string
	ID       string
	Status   string
}

func (e *ErrNotCancellable) Error() string {
	return fmt.Sprintf("%s %s cannot be cancelled in status %q", e.Resource, e.ID, e.Status)
}

// ErrNotEligible is returned when an order item cannot be returned.
type ErrNotEligible struct {
	OrderItemID string
	Reason      string
}

func (e *ErrNotEligible) Error() string {
	return fmt.Sprintf("order item %s is not eligible for return: %s", e.OrderItemID, e.Reason)
}

// ErrAlreadyDecided is returned when a merchant tries to change a decision
// that is already approved or denied. Final decisions are immutable.
type ErrAlreadyDecided struct {
	ReturnID string
	Decision string
}

func (e *ErrAlreadyDecided) Error() string {
	return fmt.Sprintf("return %s already decided: %s", e.ReturnID, e.Decision)
}
