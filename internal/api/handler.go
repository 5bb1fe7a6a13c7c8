package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RateLimiter throttles request sources on the public surfaces.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// HandlerConfig carries the HTTP-layer knobs.
type HandlerConfig struct {
	JWTSecret          string
	TrackingRateLimit  int
	TrackingRateWindow time.Duration
}

// Handler contains HTTP handlers
type Handler struct {
	orders   *service.OrderService
	tracking *service.TrackingService
	settings *service.SettingsService
	catalog  *service.CatalogService
	accounts *service.AccountService
	limiter  RateLimiter
	cfg      HandlerConfig
}

// NewHandler creates a new HTTP handler. limiter may be nil, which disables
// the tracking throttle.
func NewHandler(
	orders *service.OrderService,
	tracking *service.TrackingService,
	settings *service.SettingsService,
	catalog *service.CatalogService,
	accounts *service.AccountService,
	limiter RateLimiter,
	cfg HandlerConfig,
) *Handler {
	return &Handler{
		orders:   orders,
		tracking: tracking,
		settings: settings,
		catalog:  catalog,
		accounts: accounts,
		limiter:  limiter,
		cfg:      cfg,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(Identity(h.cfg.JWTSecret))
	{
		v1.POST("/orders", h.createOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.PATCH("/orders/:id", h.updateOrder)
		v1.POST("/orders/track", h.trackOrder)

		v1.GET("/settings", h.getSettings)
		v1.POST("/settings", h.updateSettings)

		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.POST("/products", h.createProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)

		v1.GET("/categories", h.listCategories)
		v1.POST("/categories", h.createCategory)
		v1.PUT("/categories/:id", h.updateCategory)
		v1.DELETE("/categories/:id", h.deleteCategory)

		v1.GET("/collections", h.listCollections)
		v1.POST("/collections", h.createCollection)
		v1.PUT("/collections/:id", h.updateCollection)
		v1.DELETE("/collections/:id", h.deleteCollection)

		account := v1.Group("/account")
		account.Use(RequireAccount())
		{
			account.GET("/profile", h.getProfile)
			account.PUT("/profile/address", h.updateProfileAddress)
		}

		v1.GET("/accounts", h.listAccounts)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps service errors onto the HTTP error taxonomy.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
