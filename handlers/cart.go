package handlers

import (
	"errors"
	"net/http"

	"wanderly/models"
	"wanderly/services/cart"
	"wanderly/services/remote"
	"wanderly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CartHandler exposes the cart service to UI callers.
type CartHandler struct {
	Service cart.CartService
	Logger  *zap.Logger
}

func NewCartHandler(svc cart.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{Service: svc, Logger: logger}
}

func principalFrom(c *gin.Context) cart.Principal {
	return cart.Principal{
		UserID: c.GetString(utils.ContextUserIDKey),
		Token:  c.GetString(utils.ContextTokenKey),
	}
}

// GetCart returns the caller's cart.
func (h *CartHandler) GetCart(c *gin.Context) {
	result, err := h.Service.Cart(c.Request.Context(), principalFrom(c))
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": result})
}

// AddItem validates and adds a product item, returning the refreshed cart.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, string(models.InvalidRequest), err.Error())
		return
	}

	result, err := h.Service.AddItem(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": result})
}

// UpdateItem sets a line's quantity; zero or less removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, string(models.InvalidRequest), err.Error())
		return
	}

	result, err := h.Service.UpdateItem(c.Request.Context(), principalFrom(c), c.Param("productItemId"), *req.Quantity)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": result})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	result, err := h.Service.RemoveItem(c.Request.Context(), principalFrom(c), c.Param("productItemId"))
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": result})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	result, err := h.Service.Clear(c.Request.Context(), principalFrom(c))
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": result})
}

// RefreshCart schedules a background re-fetch and returns immediately.
func (h *CartHandler) RefreshCart(c *gin.Context) {
	h.Service.RefreshCart(principalFrom(c))
	c.JSON(http.StatusAccepted, gin.H{"status": "refreshing"})
}

// writeCartError maps service errors onto HTTP responses.
func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	var verr *models.ValidationError
	var apiErr *remote.APIError

	switch {
	case errors.As(err, &verr):
		status := http.StatusConflict
		if verr.Kind == models.InvalidRequest {
			status = http.StatusBadRequest
		}
		utils.JSONError(c, status, string(verr.Kind), verr.Message)
	case errors.Is(err, cart.ErrNoUser), errors.Is(err, remote.ErrNoAuthToken):
		utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, cart.ErrRefetch):
		getLogger(c, h.Logger).Warn("cart updated but reload failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "REFETCH_FAILED", "Your cart was updated but could not be reloaded")
	case errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError:
		utils.JSONError(c, apiErr.StatusCode, "UPSTREAM_REJECTED", apiErr.Error())
	default:
		getLogger(c, h.Logger).Error("cart request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Please try again later")
	}
}
