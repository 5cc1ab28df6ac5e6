package sandbox

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopzone/storeclient/internal/config"
)

// Server is the in-process stand-in for the commerce platform API. It serves
// the same wire contract the real backend does, backed by the in-memory
// store, so clients and tests can run against it with no external services.
type Server struct {
	store  *Store
	logger *zap.Logger
	secret string
	ttl    time.Duration
	engine *gin.Engine
}

// NewServer builds a server with a freshly seeded store.
func NewServer(cfg config.SandboxConfig, logger *zap.Logger) *Server {
	store := NewStore()
	store.Seed()

	s := &Server{
		store:  store,
		logger: logger,
		secret: cfg.JWTSecret,
		ttl:    cfg.TokenTTL,
	}
	s.engine = s.buildRouter()
	return s
}

// Handler returns the HTTP handler, suitable for http.Server or httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(s.logger))
	router.Use(metricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", s.handleRegister)
		auth.POST("/login", s.handleLogin)
	}

	authed := v1.Group("")
	authed.Use(s.authMiddleware())
	{
		authed.GET("/auth/me", s.handleMe)
		authed.PUT("/auth/me", s.handleUpdateSettings)
		authed.POST("/auth/api-key", s.handleGenerateAPIKey)
		authed.GET("/auth/addresses", s.handleListAddresses)
		authed.POST("/auth/addresses", s.handleAddAddress)

		authed.GET("/cart", s.handleGetCart)
		authed.POST("/cart/items", s.handleAddCartItem)
		authed.PUT("/cart/items/:id", s.handleUpdateCartItem)
		authed.DELETE("/cart/items/:id", s.handleRemoveCartItem)
		authed.DELETE("/cart", s.handleClearCart)

		authed.POST("/orders", s.handlePlaceOrder)
		authed.GET("/orders", s.handleListOrders)
		authed.GET("/orders/:id", s.handleGetOrder)
		authed.POST("/orders/:id/cancel", s.handleCancelOrder)

		authed.POST("/returns", s.handleCreateReturn)
		authed.GET("/returns/mine", s.handleListMyReturns)
		authed.GET("/returns/:id", s.handleGetReturn)
		authed.POST("/returns/:id/cancel", s.handleCancelReturn)

		merchant := authed.Group("")
		merchant.Use(requireMerchant())
		{
			merchant.PUT("/orders/:id/status", s.handleSetOrderStatus)
			merchant.GET("/returns", s.handleReturnQueue)
			merchant.PUT("/returns/:id", s.handleSetDecision)
			merchant.GET("/dashboard/stats", s.handleDashboardStats)
			merchant.GET("/buyers", s.handleListBuyers)
		}
	}

	return router
}

func (s *Server) issueToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// respondErr translates store failures into the wire error shape.
func respondErr(c *gin.Context, err error) {
	if apiErr, ok := err.(*apiError); ok {
		c.JSON(apiErr.status, gin.H{"detail": apiErr.detail})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}
