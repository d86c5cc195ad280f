package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoradi/zargar/internal/api"
	"github.com/smoradi/zargar/internal/invoice"
)

func signTestToken(t *testing.T, ttl time.Duration) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return token
}

func TestClient_LoginAndAuthHeader(t *testing.T) {
	token := signTestToken(t, time.Hour)

	var gotAuth string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "admin", body["username"])

			json.NewEncoder(w).Encode(map[string]string{"token": token})
		case "/api/v1/customers":
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode([]api.Customer{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := api.New(ts.URL, 5*time.Second)

	require.NoError(t, c.Login(context.Background(), "admin", "secret"))
	assert.True(t, c.Authenticated())

	_, err := c.ListCustomers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, gotAuth)
}

func TestClient_ExpiredTokenNotAuthenticated(t *testing.T) {
	token := signTestToken(t, -time.Minute)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	}))
	defer ts.Close()

	c := api.New(ts.URL, 5*time.Second)

	require.NoError(t, c.Login(context.Background(), "admin", "secret"))
	assert.False(t, c.Authenticated())
}

func TestClient_Calculate_RequestShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/invoices/calculate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var d invoice.Draft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&d))
		assert.Equal(t, "c1", d.CustomerID)
		require.Len(t, d.Items, 1)
		assert.Equal(t, "i1", d.Items[0].InventoryItemID)
		assert.True(t, d.Items[0].WeightGrams.Equal(decimal.RequireFromString("2.5")))

		json.NewEncoder(w).Encode(invoice.CalculationResult{
			Subtotal:   decimal.NewFromInt(6250),
			GrandTotal: decimal.NewFromInt(8618),
		})
	}))
	defer ts.Close()

	c := api.New(ts.URL, 5*time.Second)

	draft := invoice.Draft{
		CustomerID:       "c1",
		GoldPricePerGram: decimal.NewFromInt(2500),
		Items: []invoice.LineItem{
			{InventoryItemID: "i1", Quantity: 1, WeightGrams: decimal.RequireFromString("2.5")},
		},
	}

	result, err := c.Calculate(context.Background(), draft)
	require.NoError(t, err)
	assert.True(t, result.GrandTotal.Equal(decimal.NewFromInt(8618)))
}

func TestClient_StructuredErrorDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Customer already exists"})
	}))
	defer ts.Close()

	c := api.New(ts.URL, 5*time.Second)

	_, err := c.CreateCustomer(context.Background(), api.CustomerParams{Name: "Maryam", Phone: "09120000000"})
	require.Error(t, err)

	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Customer already exists", apiErr.Detail)
	assert.Equal(t, "Customer already exists", apiErr.ErrorDetail())
}

func TestClient_UnstructuredErrorHasEmptyDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := api.New(ts.URL, 5*time.Second)

	_, err := c.ListInventory(context.Background())
	require.Error(t, err)

	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Empty(t, apiErr.Detail)
}

func TestClient_SendCampaign(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sms/campaigns", r.URL.Path)

		var params api.CampaignParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Len(t, params.Recipients, 2)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.Campaign{
			ID:             "cmp-1",
			Title:          params.Title,
			RecipientCount: len(params.Recipients),
			Status:         "queued",
		})
	}))
	defer ts.Close()

	c := api.New(ts.URL, 5*time.Second)

	campaign, err := c.SendCampaign(context.Background(), api.CampaignParams{
		Title:   "Eid promotion",
		Message: "New collection in store",
		Recipients: []api.Recipient{
			{Name: "Sara", Phone: "09121111111"},
			{Name: "Reza", Phone: "09122222222"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, campaign.RecipientCount)
	assert.Equal(t, "queued", campaign.Status)
}
