package billing_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanhq/dukaan/modules/billing"
)

func testClient(t *testing.T, handler http.Handler) *billing.RazorpayClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return billing.NewRazorpayClient(billing.Config{
		KeyID:      "rzp_test_key",
		KeySecret:  "s3cret",
		PlanID:     "plan_monthly",
		BaseURL:    server.URL,
		Timeout:    5 * time.Second,
		TotalCount: 12,
	})
}

func TestRazorpayClient_CreateCustomer(t *testing.T) {
	t.Parallel()

	t.Run("posts credentials and payload", func(t *testing.T) {
		t.Parallel()
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/customers", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "rzp_test_key", user)
			assert.Equal(t, "s3cret", pass)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Shop Owner", body["name"])
			assert.Equal(t, "owner@shop.example", body["email"])

			json.NewEncoder(w).Encode(map[string]string{
				"id": "cust_1", "name": "Shop Owner", "email": "owner@shop.example",
			})
		}))

		customer, err := client.CreateCustomer(t.Context(), "Shop Owner", "owner@shop.example")
		require.NoError(t, err)
		assert.Equal(t, "cust_1", customer.ID)
	})

	t.Run("maps the duplicate-email rejection to ErrCustomerExists", func(t *testing.T) {
		t.Parallel()
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{
				"code":        "BAD_REQUEST_ERROR",
				"description": "Customer already exists for the merchant",
			}})
		}))

		_, err := client.CreateCustomer(t.Context(), "Shop Owner", "owner@shop.example")
		assert.ErrorIs(t, err, billing.ErrCustomerExists)
	})

	t.Run("surfaces other gateway failures as ProviderError", func(t *testing.T) {
		t.Parallel()
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{
				"code":        "BAD_REQUEST_ERROR",
				"description": "Authentication failed",
			}})
		}))

		_, err := client.CreateCustomer(t.Context(), "Shop Owner", "owner@shop.example")
		var provErr *billing.ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
		assert.Equal(t, "Authentication failed", provErr.Description)
	})
}

func TestRazorpayClient_FindCustomerByEmail(t *testing.T) {
	t.Parallel()

	t.Run("pages until the email matches", func(t *testing.T) {
		t.Parallel()
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/customers", r.URL.Path)
			skip := r.URL.Query().Get("skip")

			items := make([]map[string]string, 0, 100)
			if skip == "0" {
				for i := 0; i < 100; i++ {
					items = append(items, map[string]string{
						"id": fmt.Sprintf("cust_%d", i), "email": fmt.Sprintf("user%d@example.com", i),
					})
				}
			} else {
				items = append(items, map[string]string{"id": "cust_match", "email": "Owner@Shop.Example"})
			}
			json.NewEncoder(w).Encode(map[string]any{"count": len(items), "items": items})
		}))

		customer, err := client.FindCustomerByEmail(t.Context(), "owner@shop.example")
		require.NoError(t, err)
		assert.Equal(t, "cust_match", customer.ID)
	})

	t.Run("returns ErrCustomerNotFound when pages run out", func(t *testing.T) {
		t.Parallel()
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"count": 0, "items": []any{}})
		}))

		_, err := client.FindCustomerByEmail(t.Context(), "owner@shop.example")
		assert.ErrorIs(t, err, billing.ErrCustomerNotFound)
	})
}

func TestRazorpayClient_CreateSubscription(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscriptions", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "plan_monthly", body["plan_id"])
		assert.Equal(t, "cust_1", body["customer_id"])
		assert.Equal(t, float64(12), body["total_count"])
		assert.Equal(t, float64(1), body["customer_notify"])

		notes, ok := body["notes"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "owner@shop.example", notes["userEmail"])

		json.NewEncoder(w).Encode(map[string]string{
			"id": "sub_1", "plan_id": "plan_monthly", "customer_id": "cust_1", "status": "created",
		})
	}))

	subscription, err := client.CreateSubscription(t.Context(), "cust_1", map[string]string{
		"userId": "u-1", "userEmail": "owner@shop.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_1", subscription.ID)
	assert.Equal(t, "created", subscription.Status)
}

func TestRazorpayClient_CancelSubscription(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscriptions/sub_1/cancel", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(1), body["cancel_at_cycle_end"])

		json.NewEncoder(w).Encode(map[string]string{"id": "sub_1", "status": "cancelled"})
	}))

	require.NoError(t, client.CancelSubscription(t.Context(), "sub_1", true))
}
