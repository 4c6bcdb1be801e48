// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all your endpoint handlers into one struct.
type HandlerBundle struct {
	JWTSecret []byte

	// Cart endpoints
	GetCart        gin.HandlerFunc
	AddCartItem    gin.HandlerFunc
	UpdateCartItem gin.HandlerFunc
	RemoveCartItem gin.HandlerFunc
	ClearCart      gin.HandlerFunc
	RefreshCart    gin.HandlerFunc

	// Webhooks; nil when no signing secret is configured.
	StripeWebhook gin.HandlerFunc
}

// NewHandlerBundle wires the cart handler's methods into a bundle.
func NewHandlerBundle(cartHandler *CartHandler, webhookHandler *StripeWebhookHandler, jwtSecret []byte) *HandlerBundle {
	hb := &HandlerBundle{
		JWTSecret:      jwtSecret,
		GetCart:        cartHandler.GetCart,
		AddCartItem:    cartHandler.AddItem,
		UpdateCartItem: cartHandler.UpdateItem,
		RemoveCartItem: cartHandler.RemoveItem,
		ClearCart:      cartHandler.ClearCart,
		RefreshCart:    cartHandler.RefreshCart,
	}
	if webhookHandler != nil {
		hb.StripeWebhook = webhookHandler.HandleStripeWebhook
	}
	return hb
}
