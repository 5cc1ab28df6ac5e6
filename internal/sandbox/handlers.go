package sandbox

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopzone/storeclient/internal/domain"
)

// --- auth ---

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.Role != "" && req.Role != roleCustomer && req.Role != roleMerchant {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Role must be customer or merchant"})
		return
	}

	acct, err := s.store.register(req.Email, req.Password, req.FullName, req.Role)
	if err != nil {
		respondErr(c, err)
		return
	}
	token, err := s.issueToken(acct.id, acct.role)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         s.store.userView(acct),
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "username and password are required"})
		return
	}

	acct, err := s.store.authenticate(username, password)
	if err != nil {
		respondErr(c, err)
		return
	}
	token, err := s.issueToken(acct.id, acct.role)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.Token{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleMe(c *gin.Context) {
	acct, err := s.store.getAccount(c.GetString(ctxUserID))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s.store.userView(acct))
}

type settingsUpdateRequest struct {
	DefaultReturnWindow  *int     `json:"default_return_window"`
	FraudThreshold       *float64 `json:"fraud_threshold"`
	AutoApproveThreshold *float64 `json:"auto_approve_threshold"`
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	if c.GetString(ctxRole) != roleMerchant {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Merchant access required"})
		return
	}
	var req settingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	acct, err := s.store.updateSettings(c.GetString(ctxUserID), req.DefaultReturnWindow, req.FraudThreshold, req.AutoApproveThreshold)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s.store.merchantView(acct))
}

func (s *Server) handleGenerateAPIKey(c *gin.Context) {
	if c.GetString(ctxRole) != roleMerchant {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Merchant access required"})
		return
	}
	secret, err := s.store.issueAPIKey(c.GetString(ctxUserID))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.APIKey{
		APIKey:  secret,
		Message: "Store this key now. It will not be shown again.",
	})
}

func (s *Server) handleListAddresses(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listAddresses(c.GetString(ctxUserID)))
}

type addAddressRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	IsDefault  bool   `json:"is_default"`
}

func (s *Server) handleAddAddress(c *gin.Context) {
	var req addAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	addr := s.store.addAddress(c.GetString(ctxUserID), domain.Address{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Line1:      req.Line1,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	})
	c.JSON(http.StatusCreated, addr)
}

// --- cart ---

func (s *Server) handleGetCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.cartView(c.GetString(ctxUserID)))
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

func (s *Server) handleAddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	cart, err := s.store.addCartItem(c.GetString(ctxUserID), req.ProductID, req.Quantity)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (s *Server) handleUpdateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	cart, err := s.store.updateCartItem(c.GetString(ctxUserID), c.Param("id"), req.Quantity)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (s *Server) handleRemoveCartItem(c *gin.Context) {
	cart, err := s.store.removeCartItem(c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (s *Server) handleClearCart(c *gin.Context) {
	s.store.clearCart(c.GetString(ctxUserID))
	c.Status(http.StatusNoContent)
}

// --- orders ---

type placeOrderRequest struct {
	AddressID     string  `json:"address_id" binding:"required"`
	PaymentMethod string  `json:"payment_method"`
	CustomerNotes *string `json:"customer_notes"`
}

func (s *Server) handlePlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cod"
	}
	order, err := s.store.placeOrder(c.GetString(ctxUserID), req.AddressID, req.PaymentMethod)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) handleListOrders(c *gin.Context) {
	orders := s.store.listOrders(c.GetString(ctxUserID))
	if orders == nil {
		orders = []domain.OrderSummary{}
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) handleGetOrder(c *gin.Context) {
	order, err := s.store.getOrder(c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) handleCancelOrder(c *gin.Context) {
	order, err := s.store.cancelOrder(c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type setOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

func (s *Server) handleSetOrderStatus(c *gin.Context) {
	var req setOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	order, err := s.store.setOrderStatus(c.Param("id"), req.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// --- returns ---

type createReturnRequest struct {
	OrderID       string              `json:"order_id" binding:"required"`
	OrderItemID   string              `json:"order_item_id" binding:"required"`
	Reason        domain.ReturnReason `json:"reason" binding:"required"`
	ReasonDetails *string             `json:"reason_details"`
}

func (s *Server) handleCreateReturn(c *gin.Context) {
	var req createReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	ret, err := s.store.createReturn(c.GetString(ctxUserID), req.OrderID, req.OrderItemID, req.Reason, req.ReasonDetails)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, ret)
}

func (s *Server) handleListMyReturns(c *gin.Context) {
	returns := s.store.listReturnsForUser(c.GetString(ctxUserID))
	if returns == nil {
		returns = []domain.ReturnRequest{}
	}
	c.JSON(http.StatusOK, returns)
}

func (s *Server) handleGetReturn(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	if c.GetString(ctxRole) == roleMerchant {
		// Merchants see every return.
		userID = ""
	}
	ret, err := s.store.getReturn(userID, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

func (s *Server) handleCancelReturn(c *gin.Context) {
	ret, err := s.store.cancelReturn(c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

func (s *Server) handleReturnQueue(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "page must be a positive integer"})
		return
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "per_page must be a positive integer"})
		return
	}
	decision := domain.Decision(c.Query("decision"))
	if decision != "" && !decision.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown decision filter"})
		return
	}

	items, total := s.store.listReturnQueue(page, perPage, decision)
	c.JSON(http.StatusOK, domain.ReturnPage{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

type decisionUpdateRequest struct {
	Decision      domain.Decision `json:"decision" binding:"required"`
	DecisionNotes *string         `json:"decision_notes"`
}

func (s *Server) handleSetDecision(c *gin.Context) {
	var req decisionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	ret, err := s.store.setDecision(c.GetString(ctxUserID), c.Param("id"), req.Decision, req.DecisionNotes)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

// --- dashboard ---

func (s *Server) handleDashboardStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.dashboardStats())
}

func (s *Server) handleListBuyers(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "page must be a positive integer"})
		return
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "per_page must be a positive integer"})
		return
	}
	c.JSON(http.StatusOK, s.store.listBuyers(page, perPage))
}
