package api

import (
	"net/http"

	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
)

// getProfile returns the caller's profile, creating an empty one on first
// access.
func (h *Handler) getProfile(c *gin.Context) {
	profile, err := h.accounts.GetProfile(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// updateProfileAddress overwrites the caller's shipping address.
func (h *Handler) updateProfileAddress(c *gin.Context) {
	var req service.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.accounts.UpdateAddress(c.Request.Context(), &req, callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) listAccounts(c *gin.Context) {
	accounts, err := h.accounts.ListAccounts(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}
