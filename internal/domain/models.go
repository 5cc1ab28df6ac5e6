package domain

import "time"

// CartItem is a line item in the shopping cart. Prices are unit-price
// snapshots taken by the backend at mutation time.
type CartItem struct {
	ID                   string  `json:"id"`
	ProductID            string  `json:"product_id"`
	Quantity             int     `json:"quantity"`
	SelectedSize         *string `json:"selected_size,omitempty"`
	SelectedColor        *string `json:"selected_color,omitempty"`
	UnitPrice            float64 `json:"unit_price"`
	TotalPrice           float64 `json:"total_price"`
	ProductName          string  `json:"product_name"`
	ProductImage         string  `json:"product_image"`
	ProductInStock       bool    `json:"product_in_stock"`
	ProductStockQuantity int     `json:"product_stock_quantity"`
}

// ClampQuantity clamps a requested quantity to the item's known stock
// ceiling for optimistic display. The authoritative check is server-side.
func (i CartItem) ClampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	if quantity > i.ProductStockQuantity {
		return i.ProductStockQuantity
	}
	return quantity
}

// Cart is the authoritative-but-cached shopping cart. Aggregates are
// server-computed; the client never persists totals it computed itself.
type Cart struct {
	ID         string     `json:"id"`
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	Subtotal   float64    `json:"subtotal"`
	Tax        float64    `json:"tax"`
	Total      float64    `json:"total"`
}

// OrderItem is a line item in a placed order. CanReturn and IsReturned are
// backend-supplied capability flags, trusted over local inference.
type OrderItem struct {
	ID               string  `json:"id"`
	ProductID        string  `json:"product_id"`
	ProductName      string  `json:"product_name"`
	ProductImage     *string `json:"product_image,omitempty"`
	ProductSKU       string  `json:"product_sku"`
	UnitPrice        float64 `json:"unit_price"`
	Quantity         int     `json:"quantity"`
	TotalPrice       float64 `json:"total_price"`
	ReturnWindowDays int     `json:"return_window_days"`
	IsReturned       bool    `json:"is_returned"`
	CanReturn        bool    `json:"can_return"`
}

// Order is a placed order with its monetary breakdown and shipping snapshot.
type Order struct {
	ID                 string      `json:"id"`
	OrderNumber        string      `json:"order_number"`
	UserID             string      `json:"user_id"`
	Status             OrderStatus `json:"status"`
	PaymentStatus      string      `json:"payment_status"`
	Subtotal           float64     `json:"subtotal"`
	Tax                float64     `json:"tax"`
	ShippingFee        float64     `json:"shipping_fee"`
	Discount           float64     `json:"discount"`
	Total              float64     `json:"total"`
	PaymentMethod      string      `json:"payment_method,omitempty"`
	ShippingName       string      `json:"shipping_name"`
	ShippingPhone      string      `json:"shipping_phone"`
	ShippingAddress    string      `json:"shipping_address"`
	ShippingCity       string      `json:"shipping_city"`
	ShippingState      string      `json:"shipping_state"`
	ShippingPostalCode string      `json:"shipping_postal_code"`
	TrackingNumber     *string     `json:"tracking_number,omitempty"`
	Carrier            *string     `json:"carrier,omitempty"`
	Items              []OrderItem `json:"items"`
	ItemCount          int         `json:"item_count"`
	CanCancel          bool        `json:"can_cancel"`
	CanReturn          bool        `json:"can_return"`
	CreatedAt          time.Time   `json:"created_at"`
	ConfirmedAt        *time.Time  `json:"confirmed_at,omitempty"`
	ShippedAt          *time.Time  `json:"shipped_at,omitempty"`
	DeliveredAt        *time.Time  `json:"delivered_at,omitempty"`
}

// OrderSummary is the condensed order shape returned by order listings.
type OrderSummary struct {
	ID             string      `json:"id"`
	OrderNumber    string      `json:"order_number"`
	Status         OrderStatus `json:"status"`
	PaymentStatus  string      `json:"payment_status"`
	Total          float64     `json:"total"`
	ItemCount      int         `json:"item_count"`
	CreatedAt      time.Time   `json:"created_at"`
	FirstItemImage *string     `json:"first_item_image,omitempty"`
	FirstItemName  *string     `json:"first_item_name,omitempty"`
}

// Address is a shipping address on file.
type Address struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	IsDefault  bool   `json:"is_default"`
}

// RiskFlag is a discrete signal contributing to a risk assessment. The
// canonical wire representation is a structured array of these, never a
// JSON-encoded string.
type RiskFlag struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// ReturnRequest carries the three facets of a return: workflow status, risk
// assessment (engine-owned, read-only here) and merchant decision.
type ReturnRequest struct {
	ID            string       `json:"id"`
	ReturnNumber  string       `json:"return_number"`
	OrderID       string       `json:"order_id"`
	OrderItemID   string       `json:"order_item_id"`
	UserID        string       `json:"user_id"`
	Reason        ReturnReason `json:"reason"`
	ReasonDetails *string      `json:"reason_details,omitempty"`
	Status        ReturnStatus `json:"status"`

	// Risk assessment, attached by the scoring engine.
	EligibilityScore     *float64       `json:"eligibility_score,omitempty"`
	RiskLevel            RiskLevel      `json:"risk_level,omitempty"`
	RiskFlags            []RiskFlag     `json:"risk_flags,omitempty"`
	EngineRecommendation Recommendation `json:"engine_recommendation,omitempty"`
	EngineConfidence     *float64       `json:"engine_confidence,omitempty"`

	// Merchant decision.
	Decision      Decision   `json:"decision"`
	DecidedBy     *string    `json:"decided_by,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	DecisionNotes *string    `json:"decision_notes,omitempty"`

	RefundAmount      *float64   `json:"refund_amount,omitempty"`
	DaysSinceDelivery int        `json:"days_since_delivery"`
	CreatedAt         time.Time  `json:"created_at"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	RejectedAt        *time.Time `json:"rejected_at,omitempty"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty"`

	ProductName  string   `json:"product_name,omitempty"`
	ProductImage *string  `json:"product_image,omitempty"`
	OrderAmount  *float64 `json:"order_amount,omitempty"`
}

// ReturnPage is one page of the merchant decision queue.
type ReturnPage struct {
	Items   []ReturnRequest `json:"items"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// Buyer is the dashboard-only read model aggregated per buyer. return_rate
// is derived by the backend and not recomputed client-side.
type Buyer struct {
	ID              string    `json:"id"`
	ExternalBuyerID string    `json:"external_buyer_id"`
	TotalOrders     int       `json:"total_orders"`
	TotalReturns    int       `json:"total_returns"`
	AvgReviewScore  float64   `json:"avg_review_score"`
	ReturnRate      float64   `json:"return_rate"`
	CreatedAt       time.Time `json:"created_at"`
}

// RiskTier bands the buyer for display.
func (b Buyer) RiskTier() RiskLevel {
	return RiskTierForReturnRate(b.ReturnRate)
}

// DashboardStats is the merchant dashboard aggregate.
type DashboardStats struct {
	TotalReturns       int     `json:"total_returns"`
	ApprovedReturns    int     `json:"approved_returns"`
	DeniedReturns      int     `json:"denied_returns"`
	PendingReturns     int     `json:"pending_returns"`
	ApprovalRate       float64 `json:"approval_rate"`
	AvgScore           float64 `json:"avg_score"`
	TotalBuyers        int     `json:"total_buyers"`
	HighRiskBuyers     int     `json:"high_risk_buyers"`
	TotalProducts      int     `json:"total_products"`
	HighReturnProducts int     `json:"high_return_products"`
	ReturnsThisWeek    int     `json:"returns_this_week"`
	ReturnsLastWeek    int     `json:"returns_last_week"`
}

// User is the authenticated account, buyer or merchant.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	Role         string  `json:"role"`
	TotalOrders  int     `json:"total_orders"`
	TotalReturns int     `json:"total_returns"`
	ReturnRate   float64 `json:"return_rate"`
}

// MerchantSettings are the three tunable knobs consumed by the scoring
// engine. The client displays and edits them, never evaluates them.
type MerchantSettings struct {
	DefaultReturnWindow  int     `json:"default_return_window"`
	FraudThreshold       float64 `json:"fraud_threshold"`
	AutoApproveThreshold float64 `json:"auto_approve_threshold"`
}

// Merchant is the merchant profile with its settings.
type Merchant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	MerchantSettings
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is the catalog entry as exposed to the storefront.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Price         float64 `json:"price"`
	Image         string  `json:"image,omitempty"`
	InStock       bool    `json:"in_stock"`
	StockQuantity int     `json:"stock_quantity"`
	IsReturnable  bool    `json:"is_returnable"`
}

// Token is the credential returned by the login exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// APIKey is an issued dashboard API key. The secret is shown exactly once.
type APIKey struct {
	APIKey  string `json:"api_key"`
	Message string `json:"message,omitempty"`
}
