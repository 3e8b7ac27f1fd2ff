package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omniorder/internal/models"
)

func TestPlaceOrderSendsDocumentedShape(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/store/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(models.Order{
			ID:           "ord-1",
			TicketNumber: 7,
			CustomerName: "Ada",
			Status:       models.StatusPending,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	order, err := client.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerName: "Ada",
		TableNumber:  "4",
		Items: []PlaceOrderItem{
			{ID: "itm-1", Qty: 2, Modifiers: []PlaceOrderModifier{{OptionID: "opt-1"}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.Equal(t, 7, order.TicketNumber)

	assert.Equal(t, "Ada", captured["customer_name"])
	assert.Equal(t, "4", captured["table_number"])
	items := captured["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "itm-1", item["id"])
	assert.Equal(t, float64(2), item["qty"])
	mods := item["modifiers"].([]any)
	require.Len(t, mods, 1)
	assert.Equal(t, "opt-1", mods[0].(map[string]any)["optionId"])
}

func TestPlaceOrderRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerName: "Ada",
		Items:        []PlaceOrderItem{{ID: "itm-1", Qty: 1}},
	})
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestPlaceOrderValidation(t *testing.T) {
	client := NewClient("http://unused.invalid")

	_, err := client.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []PlaceOrderItem{{ID: "itm-1", Qty: 1}},
	})
	assert.Error(t, err, "missing customer name must fail before any request")

	_, err = client.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerName: "Ada"})
	assert.Error(t, err, "empty cart must fail before any request")
}

func TestGetOrderGone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GetOrder(context.Background(), "ord-gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMenuRejectsMalformedRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Item without an id must not survive the boundary.
		json.NewEncoder(w).Encode([]models.Category{
			{ID: "cat-1", Name: "Mains", Items: []models.MenuItem{{Name: "Nameless", Price: 100}}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GetMenu(context.Background())
	assert.Error(t, err)
}

func TestUpdateOrderStatusCarriesBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/store/orders/ord-1/status", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetTokenSource(func() string { return "tok-123" })

	require.NoError(t, client.UpdateOrderStatus(context.Background(), "ord-1", models.StatusPreparing))
	assert.Equal(t, "Bearer tok-123", auth)
}

func TestKitchenSocketURL(t *testing.T) {
	client := NewClient("http://kds.example:8080")
	client.SetTokenSource(func() string { return "tok/+=" })

	u := client.KitchenSocketURL()
	assert.Contains(t, u, "ws://kds.example:8080/api/v1/ws/kitchen")
	assert.Contains(t, u, "token=tok%2F%2B%3D")

	secure := NewClient("https://kds.example")
	assert.Contains(t, secure.KitchenSocketURL(), "wss://kds.example/api/v1/ws/kitchen")
}
