package stub_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoradi/zargar/internal/api"
	"github.com/smoradi/zargar/internal/invoice"
	"github.com/smoradi/zargar/internal/stub"
)

func newTestClient(t *testing.T) *api.Client {
	t.Helper()

	server := stub.NewServer(stub.NewStore(), stub.Options{
		Username:  "admin",
		Password:  "secret",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return api.New(ts.URL, 5*time.Second)
}

func TestServer_LoginRequired(t *testing.T) {
	c := newTestClient(t)

	_, err := c.ListCustomers(context.Background())
	require.Error(t, err)

	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Missing bearer token", apiErr.Detail)
}

func TestServer_LoginRejectsBadCredentials(t *testing.T) {
	c := newTestClient(t)

	err := c.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)

	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Detail)
}

func TestServer_InvoiceLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.Login(ctx, "admin", "secret"))

	customers, err := c.ListCustomers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, customers)

	items, err := c.ListInventory(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	customer := customers[0]
	item := items[0]

	draft := invoice.Draft{
		CustomerID:       customer.ID,
		GoldPricePerGram: decimal.NewFromInt(2500),
		LaborCostPct:     decimal.NewFromInt(10),
		ProfitPct:        decimal.NewFromInt(15),
		VATPct:           decimal.NewFromInt(9),
		Items: []invoice.LineItem{
			{InventoryItemID: item.ID, Quantity: 1, WeightGrams: item.WeightGrams},
		},
	}

	// Preview is idempotent and side-effect-free.
	first, err := c.Calculate(ctx, draft)
	require.NoError(t, err)

	second, err := c.Calculate(ctx, draft)
	require.NoError(t, err)
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))

	itemsAfterPreview, err := c.ListInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, item.StockQuantity, itemsAfterPreview[0].StockQuantity)

	// Committing decrements stock and moves the total onto the customer.
	created, err := c.CreateInvoice(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "ZG-0001", created.InvoiceNumber)
	assert.Equal(t, "sale", created.Type)
	assert.True(t, created.GrandTotal.Equal(first.GrandTotal))

	itemsAfter, err := c.ListInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, item.StockQuantity-1, itemsAfter[0].StockQuantity)

	customersAfter, err := c.ListCustomers(ctx)
	require.NoError(t, err)
	assert.True(t, customersAfter[0].CurrentDebt.Equal(customer.CurrentDebt.Add(created.GrandTotal)))

	invoices, err := c.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, created.ID, invoices[0].ID)
	assert.Equal(t, customer.Name, invoices[0].CustomerName)

	summary, err := c.DashboardSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.InvoiceCount)
	assert.True(t, summary.SalesThisMonth.Equal(created.GrandTotal))
}

func TestServer_CreateInvoice_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.Login(ctx, "admin", "secret"))

	customers, err := c.ListCustomers(ctx)
	require.NoError(t, err)

	items, err := c.ListInventory(ctx)
	require.NoError(t, err)

	draft := invoice.Draft{
		CustomerID:       customers[0].ID,
		GoldPricePerGram: decimal.NewFromInt(2500),
		Items: []invoice.LineItem{
			{InventoryItemID: items[0].ID, Quantity: items[0].StockQuantity + 1, WeightGrams: items[0].WeightGrams},
		},
	}

	_, err = c.CreateInvoice(ctx, draft)
	require.Error(t, err)

	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Detail, "Insufficient stock")
}

func TestServer_CreateCustomer_DuplicatePhone(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.Login(ctx, "admin", "secret"))

	_, err := c.CreateCustomer(ctx, api.CustomerParams{Name: "Sara", Phone: "09129999999"})
	require.NoError(t, err)

	_, err = c.CreateCustomer(ctx, api.CustomerParams{Name: "Sara Again", Phone: "09129999999"})
	require.Error(t, err)

	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Customer already exists", apiErr.Detail)
}

func TestServer_Campaigns(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.Login(ctx, "admin", "secret"))

	_, err := c.SendCampaign(ctx, api.CampaignParams{Title: "x", Message: "y"})
	require.Error(t, err, "empty recipient list is rejected")

	campaign, err := c.SendCampaign(ctx, api.CampaignParams{
		Title:   "Eid promotion",
		Message: "New collection in store",
		Recipients: []api.Recipient{
			{Name: "Sara", Phone: "09121111111"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "sent", campaign.Status)
	require.NotNil(t, campaign.SentAt)

	campaigns, err := c.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, campaign.ID, campaigns[0].ID)
}
