package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/config"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
)

func testConfig(baseURL string) config.BackendConfig {
	return config.BackendConfig{
		BaseURL:      baseURL,
		Timeout:      time.Second,
		OrderTimeout: 2 * time.Second,
		Breaker: config.BreakerConfig{
			MaxRequests:         1,
			Interval:            time.Minute,
			Timeout:             time.Minute,
			ConsecutiveFailures: 3,
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(testConfig(srv.URL), zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestClient_GetProduct(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantName   string
		wantStatus int
		wantErr    bool
	}{
		{
			name: "success envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/products/product/show/p1", r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				writeJSON(w, http.StatusOK, map[string]interface{}{
					"success": true,
					"data": map[string]interface{}{
						"_id":   "p1",
						"name":  "BITSS WAF",
						"price": 12,
						"subscription_periods": []map[string]interface{}{
							{"_id": "sp1", "duration": 12, "amount": 10, "discount_type": "percent"},
						},
					},
				})
			},
			wantName: "BITSS WAF",
		},
		{
			name: "success false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "gone"})
			},
			wantStatus: http.StatusOK,
			wantErr:    true,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Product not found"})
			},
			wantStatus: http.StatusNotFound,
			wantErr:    true,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("<html>"))
			},
			wantStatus: http.StatusOK,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			product, err := client.GetProduct(context.Background(), "p1")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantStatus, domainErrors.StatusOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, product.Name)
			require.Len(t, product.SubscriptionPeriods, 1)
			assert.True(t, decimal.NewFromInt(10).Equal(product.SubscriptionPeriods[0].Amount))
		})
	}
}

func TestClient_ConfirmOrder(t *testing.T) {
	req := entity.OrderRequest{
		OrderNumber:        "BITSS010125ABCDEF",
		Currency:           "EUR",
		CurrencyName:       "EUR",
		CurrencyRate:       decimal.NewFromInt(1),
		Rate:               decimal.NewFromInt(1),
		PaymentType:        entity.PaymentOnline,
		TermsAndConditions: true,
		Status:             "due",
		Domain:             "example.com",
		Products:           []entity.OrderLine{{Product: "p1", Period: 12}},
		PaymentMethod:      "stripe",
	}

	t.Run("payload and payment url", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/orders/order/confirm", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "BITSS010125ABCDEF", body["order_number"])
			assert.Equal(t, "online", body["payment_type"])
			assert.Equal(t, "stripe", body["payment_method"])
			assert.Equal(t, "due", body["status"])
			assert.NotContains(t, body, "price")

			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"message": "Order created",
				"data":    map[string]interface{}{"payment_url": "https://checkout.stripe.com/c/1"},
			})
		})

		conf, err := client.ConfirmOrder(context.Background(), "tok", req)
		require.NoError(t, err)
		assert.Equal(t, "BITSS010125ABCDEF", conf.OrderNumber)
		assert.Equal(t, "https://checkout.stripe.com/c/1", conf.PaymentURL)
		assert.Equal(t, "Order created", conf.Message)
	})

	t.Run("server error is sent", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"message": "boom"})
		})

		_, err := client.ConfirmOrder(context.Background(), "tok", req)
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, domainErrors.StatusOf(err))
		assert.True(t, domainErrors.WasSent(err))
	})

	t.Run("unreadable success body is malformed", func(t *testing.T) {
		bodies := map[string]string{
			"not json":    `<html>upstream proxy</html>`,
			"wrong shape": `{"success":true,"data":["payment_url"]}`,
		}
		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
					w.Write([]byte(body))
				})

				_, err := client.ConfirmOrder(context.Background(), "tok", req)
				require.Error(t, err)
				assert.True(t, domainErrors.IsMalformed(err))
				assert.Equal(t, http.StatusOK, domainErrors.StatusOf(err))
				assert.True(t, domainErrors.WasSent(err))
			})
		}
	})

	t.Run("explicit failure is not malformed", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "Domain is already taken"})
		})

		_, err := client.ConfirmOrder(context.Background(), "tok", req)
		require.Error(t, err)
		assert.False(t, domainErrors.IsMalformed(err))
		assert.Equal(t, http.StatusOK, domainErrors.StatusOf(err))
	})

	t.Run("exactly one request", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{})
		})

		_, err := client.ConfirmOrder(context.Background(), "tok", req)
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestClient_CircuitBreaker(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.ListCategories(ctx)
		require.Error(t, err)
	}

	_, err := client.ListCategories(ctx)
	require.Error(t, err)
	assert.False(t, domainErrors.WasSent(err), "open circuit must not send")
	assert.True(t, domainErrors.IsNetwork(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false})
	})

	for i := 0; i < 5; i++ {
		_, err := client.GetOrder(context.Background(), "tok", "o1")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, domainErrors.StatusOf(err))
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	client := NewClient(cfg, zap.NewNop())

	_, err := client.ListOrders(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, domainErrors.IsNetwork(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_Login(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/user/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds entity.LoginCredentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret" {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"access_token": "jwt",
				"user":         map[string]interface{}{"_id": "u1", "name": "Ada", "country": "FR"},
			},
		})
	})

	info, err := client.Login(context.Background(), entity.LoginCredentials{Email: "a@b.c", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", info.AccessToken)
	assert.Equal(t, "FR", info.User.Country)

	_, err = client.Login(context.Background(), entity.LoginCredentials{Email: "a@b.c", Password: "nope"})
	require.Error(t, err)
	var be *domainErrors.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Invalid credentials", be.Message)
}

func TestClient_Renewals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders/order/customer/renew/invoice/list":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"data": []map[string]interface{}{
					{"_id": "o1", "order_number": "BITSS010125AAAAAA", "invoices": []map[string]interface{}{
						{"_id": "i1", "invoice_id": "INV-1", "paid": false, "currency": "EUR", "totalAmount": 99.5},
						{"_id": "i2", "invoice_id": "INV-2", "paid": true, "currency": "EUR", "totalAmount": 10},
					}},
				},
			})
		case "/orders/order/show/renew/invoice":
			assert.Equal(t, "INV-1", r.URL.Query().Get("invoice_id"))
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"data": map[string]interface{}{
					"invoice": map[string]interface{}{"_id": "i1", "invoice_id": "INV-1", "order": map[string]interface{}{"id": "o1"}},
				},
			})
		case "/payment/stripe/renew":
			var body stripeRenewRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, stripeRenewRequest{InvoiceID: "INV-1", OrderID: "o1"}, body)
			writeJSON(w, http.StatusOK, map[string]interface{}{"checkout_url": "https://checkout.stripe.com/r/1"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	invoices, err := client.ListInvoices(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "BITSS010125AAAAAA", invoices[0].OrderNumber)
	assert.True(t, decimal.RequireFromString("99.5").Equal(invoices[0].TotalAmount))

	inv, err := client.GetInvoice(ctx, "tok", "INV-1")
	require.NoError(t, err)
	assert.Equal(t, "o1", inv.OrderID())

	url, err := client.StartStripeRenewal(ctx, "tok", "INV-1", "o1")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/r/1", url)
}

func TestClient_Activate(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        map[string]interface{}
		wantSuccess bool
		wantMessage string
		wantErr     bool
	}{
		{"success flag", http.StatusOK, map[string]interface{}{"success": true, "message": "Activated"}, true, "Activated", false},
		{"status string", http.StatusOK, map[string]interface{}{"status": "success"}, true, "", false},
		{"refused", http.StatusBadRequest, map[string]interface{}{"success": false, "message": "Invalid key"}, false, "Invalid key", false},
		{"backend down", http.StatusInternalServerError, map[string]interface{}{}, false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/orders/order/distributor/confirm", r.URL.Path)
				writeJSON(w, tt.status, tt.body)
			})

			result, err := client.Activate(context.Background(), "tok", "KEY-123")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantMessage, result.Message)
		})
	}
}

func TestMailboxClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		var body mailboxRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Params, 2)
		assert.Equal(t, "--info", body.Params[0])

		code := 0
		if body.Params[1] == "free@bobosohomail.com" {
			code = 1
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"code": code})
	}))
	t.Cleanup(srv.Close)

	checker := NewMailboxClient(config.MailboxConfig{URL: srv.URL, APIKey: "key", Domain: "bobosohomail.com"}, zap.NewNop())

	ok, err := checker.Available(context.Background(), "Free")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.Available(context.Background(), "taken@bobosohomail.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
