package service

import "github.com/shopzone/storeclient/internal/domain"

// Request payloads sent to the platform API. Field names match the wire
// contract; optional fields are pointers so they are omitted when unset.

type addCartItemRequest struct {
	ProductID     string  `json:"product_id"`
	Quantity      int     `json:"quantity"`
	SelectedSize  *string `json:"selected_size,omitempty"`
	SelectedColor *string `json:"selected_color,omitempty"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type placeOrderRequest struct {
	AddressID     string  `json:"address_id"`
	PaymentMethod string  `json:"payment_method"`
	CustomerNotes *string `json:"customer_notes,omitempty"`
}

type createReturnRequest struct {
	OrderID       string              `json:"order_id"`
	OrderItemID   string              `json:"order_item_id"`
	Reason        domain.ReturnReason `json:"reason"`
	ReasonDetails *string             `json:"reason_details,omitempty"`
}

type decisionUpdateRequest struct {
	Decision      domain.Decision `json:"decision"`
	DecisionNotes *string         `json:"decision_notes,omitempty"`
}

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
}

// SettingsUpdate carries the merchant-tunable knobs. Nil fields are left
// unchanged by the backend.
type SettingsUpdate struct {
	DefaultReturnWindow  *int     `json:"default_return_window,omitempty"`
	FraudThreshold       *float64 `json:"fraud_threshold,omitempty"`
	AutoApproveThreshold *float64 `json:"auto_approve_threshold,omitempty"`
}
