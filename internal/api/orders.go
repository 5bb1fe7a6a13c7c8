package api

import (
	"fmt"
	"net/http"

	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// createOrder handles order creation
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	order, err := h.orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// listOrders handles the caller-scoped order listing
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id, callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateOrder handles the staff status update
func (h *Handler) updateOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status, callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type trackOrderRequest struct {
	ID    int64  `json:"id" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// trackOrder handles the public dual-factor order lookup. Both failure
// causes produce the same response, and the endpoint is rate limited so it
// cannot be used to enumerate order ids.
func (h *Handler) trackOrder(c *gin.Context) {
	if h.limiter != nil {
		key := fmt.Sprintf("track:%s", c.ClientIP())
		allowed, err := h.limiter.Allow(c.Request.Context(), key,
			h.cfg.TrackingRateLimit, h.cfg.TrackingRateWindow)
		if err != nil {
			// Fail open: a throttle outage must not take tracking down.
			util.GetLogger().Warn("Tracking rate limit check failed", zap.Error(err))
		} else if !allowed {
			util.TrackingThrottledTotal.Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
	}

	var req trackOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.tracking.Track(c.Request.Context(), req.ID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
