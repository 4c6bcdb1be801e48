package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_test"

type recordingInvalidator struct {
	users []string
	err   error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID string) error {
	r.users = append(r.users, userID)
	return r.err
}

func eventPayload(eventType, session string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":%q,"type":%q,"data":{"object":%s}}`,
		stripe.APIVersion, eventType, session))
}

func postWebhook(inv Invalidator, payload []byte, secret string) *httptest.ResponseRecorder {
	h := NewStripeWebhookHandler(testWebhookSecret, inv, zap.NewNop())
	router := gin.New()
	router.POST("/webhooks/stripe", h.HandleStripeWebhook)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signed.Header)
	router.ServeHTTP(w, req)
	return w
}

func TestStripeWebhook_CheckoutCompletedInvalidates(t *testing.T) {
	inv := &recordingInvalidator{}
	payload := eventPayload("checkout.session.completed",
		`{"id":"cs_1","object":"checkout.session","client_reference_id":"user-1"}`)

	w := postWebhook(inv, payload, testWebhookSecret)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"user-1"}, inv.users)
}

func TestStripeWebhook_FallsBackToMetadata(t *testing.T) {
	inv := &recordingInvalidator{}
	payload := eventPayload("checkout.session.completed",
		`{"id":"cs_2","object":"checkout.session","metadata":{"userId":"user-2"}}`)

	w := postWebhook(inv, payload, testWebhookSecret)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"user-2"}, inv.users)
}

func TestStripeWebhook_IgnoresOtherEvents(t *testing.T) {
	inv := &recordingInvalidator{}
	payload := eventPayload("payment_intent.created", `{"id":"pi_1","object":"payment_intent"}`)

	w := postWebhook(inv, payload, testWebhookSecret)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, inv.users)
}

func TestStripeWebhook_RejectsBadSignature(t *testing.T) {
	inv := &recordingInvalidator{}
	payload := eventPayload("checkout.session.completed",
		`{"id":"cs_1","object":"checkout.session","client_reference_id":"user-1"}`)

	w := postWebhook(inv, payload, "whsec_other")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"INVALID_WEBHOOK"`)
	assert.Empty(t, inv.users)
}

func TestStripeWebhook_InvalidationFailureAsksForRetry(t *testing.T) {
	inv := &recordingInvalidator{err: errors.New("redis down")}
	payload := eventPayload("checkout.session.completed",
		`{"id":"cs_1","object":"checkout.session","client_reference_id":"user-1"}`)

	w := postWebhook(inv, payload, testWebhookSecret)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
