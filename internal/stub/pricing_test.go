package stub_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoradi/zargar/internal/invoice"
	"github.com/smoradi/zargar/internal/stub"
)

func sampleDraft() invoice.Draft {
	return invoice.Draft{
		CustomerID:       "c1",
		GoldPricePerGram: decimal.NewFromInt(2500),
		LaborCostPct:     decimal.NewFromInt(10),
		ProfitPct:        decimal.NewFromInt(15),
		VATPct:           decimal.NewFromInt(9),
		Items: []invoice.LineItem{
			{InventoryItemID: "i1", Quantity: 1, WeightGrams: decimal.RequireFromString("2.5")},
		},
	}
}

func TestCalculateDraft(t *testing.T) {
	result := stub.CalculateDraft(sampleDraft())

	// base = 2.5 x 2500 = 6250
	// labor = 6250 x 10% = 625
	// profit = 6875 x 15% = 1031.25
	// vat = 7906.25 x 9% = 711.5625
	// grand = 8617.8125, rounded to 8618
	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(6250)), "subtotal = %s", result.Subtotal)
	assert.True(t, result.TotalLaborCost.Equal(decimal.NewFromInt(625)), "labor = %s", result.TotalLaborCost)
	assert.True(t, result.TotalProfit.Equal(decimal.NewFromInt(1031)), "profit = %s", result.TotalProfit)
	assert.True(t, result.TotalVAT.Equal(decimal.NewFromInt(712)), "vat = %s", result.TotalVAT)
	assert.True(t, result.GrandTotal.Equal(decimal.NewFromInt(8618)), "grand = %s", result.GrandTotal)

	require.Len(t, result.Items, 1)
	assert.True(t, result.Items[0].UnitPrice.Equal(decimal.NewFromInt(8618)))
	assert.True(t, result.Items[0].TotalPrice.Equal(decimal.NewFromInt(8618)))
}

func TestCalculateDraft_QuantityScales(t *testing.T) {
	d := sampleDraft()
	d.Items[0].Quantity = 3

	result := stub.CalculateDraft(d)

	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(18750)))
	require.Len(t, result.Items, 1)
	assert.True(t, result.Items[0].UnitPrice.Equal(decimal.NewFromInt(8618)))
}

func TestCalculateDraft_Deterministic(t *testing.T) {
	d := sampleDraft()

	first := stub.CalculateDraft(d)
	second := stub.CalculateDraft(d)

	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
}

func TestCalculateDraft_ZeroPercentages(t *testing.T) {
	d := sampleDraft()
	d.LaborCostPct = decimal.Zero
	d.ProfitPct = decimal.Zero
	d.VATPct = decimal.Zero

	result := stub.CalculateDraft(d)

	assert.True(t, result.GrandTotal.Equal(result.Subtotal))
	assert.True(t, result.TotalLaborCost.IsZero())
	assert.True(t, result.TotalProfit.IsZero())
	assert.True(t, result.TotalVAT.IsZero())
}
