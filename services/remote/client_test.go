package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"wanderly/models"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return NewClient(Options{BaseURL: server.URL, Timeout: 2 * time.Second, BreakerFailures: 3}), &hits
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestGetCart_SendsBearerTokenAndRequestID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(requestIDHeader))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"userId": "user-1",
			"items": []map[string]interface{}{
				{"productItemId": "A", "price": 12.5, "quantity": 2, "productDate": "2024-06-01"},
			},
			"total": 25,
		})
	})

	cart, err := client.GetCart(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cart.UserID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "12.5", cart.Items[0].Price.String())
	assert.Equal(t, "25", cart.Total.String())
}

func TestDo_ForwardsRequestIDFromContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-123", r.Header.Get(requestIDHeader))
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": []interface{}{}})
	})

	_, err := client.GetCart(WithRequestID(context.Background(), "req-123"), "token-1")
	require.NoError(t, err)
}

func TestGetCart_NotFoundIsEmptyCart(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Cart not found"})
	})

	cart, err := client.GetCart(context.Background(), "token-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestDo_MissingTokenNeverReachesServer(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.GetCart(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoAuthToken)
	assert.EqualError(t, err, "no auth token")
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestDo_NonSuccessBecomesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Not enough tickets left"})
	})

	err := client.AddToCart(context.Background(), "token-1", models.AddItemRequest{ProductItemID: "A", Quantity: 1})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Not enough tickets left", apiErr.Error())
	assert.False(t, IsTransportError(err))
}

func TestDo_ErrorWithoutMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.ClearCart(context.Background(), "token-1")
	assert.EqualError(t, err, "request failed with status 502")
}

func TestAddToCart_Body(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart/add", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{
			"productItemId": "A",
			"productDate":   "2024-06-01",
			"quantity":      float64(2),
			"vendorId":      "v-1",
			"templateId":    "t-1",
		}, body)
		writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
	})

	err := client.AddToCart(context.Background(), "token-1", models.AddItemRequest{
		ProductItemID: "A", ProductDate: "2024-06-01", Quantity: 2, VendorID: "v-1", TemplateID: "t-1",
	})
	assert.NoError(t, err)
}

func TestUpdateAndRemove_EscapePathSegment(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.UpdateCartItem(context.Background(), "token-1", "item/1", 4))
	require.NoError(t, client.RemoveCartItem(context.Background(), "token-1", "item/1"))

	assert.Equal(t, []string{"PUT /cart/item%2F1", "DELETE /cart/item%2F1"}, paths)
}

func TestGetProductItem(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product-items/pi-9", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id": "pi-9", "itemStatus": "PUBLISHED", "quantityAvailable": 4,
			"productDate": "2024-06-01", "startTime": "10:00", "duration": 90, "price": "40.00",
		})
	})

	item, err := client.GetProductItem(context.Background(), "token-1", "pi-9")
	require.NoError(t, err)
	assert.True(t, item.IsPublished())
	assert.Equal(t, 4, item.QuantityAvailable)
	assert.Equal(t, 90, item.Duration)
}

func TestBreaker_OpensOnServerErrorsOnly(t *testing.T) {
	var status int32 = http.StatusNotFound
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(atomic.LoadInt32(&status)))
	})
	ctx := context.Background()

	// Client errors never trip the breaker.
	for i := 0; i < 5; i++ {
		_, err := client.GetProductItem(ctx, "token-1", "pi-1")
		require.True(t, IsNotFound(err))
	}

	atomic.StoreInt32(&status, http.StatusInternalServerError)
	for i := 0; i < 3; i++ {
		_, err := client.GetProductItem(ctx, "token-1", "pi-1")
		require.Error(t, err)
	}
	before := atomic.LoadInt32(hits)

	_, err := client.GetProductItem(ctx, "token-1", "pi-1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.True(t, IsTransportError(err))
	assert.Equal(t, before, atomic.LoadInt32(hits))
}
