package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"wanderly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const (
	maxWebhookBody          = int64(65536)
	eventCheckoutCompleted  = "checkout.session.completed"
	checkoutUserMetadataKey = "userId"
)

// Invalidator marks a user's cached cart stale.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// StripeWebhookHandler drops a user's cached cart once their checkout completes.
type StripeWebhookHandler struct {
	secret      string
	invalidator Invalidator
	logger      *zap.Logger
}

func NewStripeWebhookHandler(secret string, invalidator Invalidator, logger *zap.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{secret: secret, invalidator: invalidator, logger: logger}
}

func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_WEBHOOK", "Unable to read body")
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		getLogger(c, h.logger).Warn("stripe webhook rejected", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "INVALID_WEBHOOK", "Signature verification failed")
		return
	}

	if string(event.Type) != eventCheckoutCompleted {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_WEBHOOK", "Malformed checkout session")
		return
	}

	userID := session.ClientReferenceID
	if userID == "" {
		userID = session.Metadata[checkoutUserMetadataKey]
	}
	if userID == "" {
		getLogger(c, h.logger).Warn("checkout completed without a user reference", zap.String("session", session.ID))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.invalidator.Invalidate(c.Request.Context(), userID); err != nil {
		// A non-2xx makes Stripe redeliver the event.
		getLogger(c, h.logger).Error("failed to invalidate cart after checkout", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "INVALIDATION_FAILED", "Please retry")
		return
	}

	getLogger(c, h.logger).Info("cart invalidated after checkout", zap.String("userID", userID), zap.String("session", session.ID))
	c.JSON(http.StatusOK, gin.H{"received": true})
}
