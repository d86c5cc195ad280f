package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/smoradi/zargar/internal/invoice"
)

func validDraft() invoice.Draft {
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

func TestDraft_Calculable(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *invoice.Draft)
		want   bool
	}{
		{
			name:   "Complete",
			mutate: func(d *invoice.Draft) {},
			want:   true,
		},
		{
			name:   "MissingCustomer",
			mutate: func(d *invoice.Draft) { d.CustomerID = "" },
			want:   false,
		},
		{
			name:   "ZeroGoldPrice",
			mutate: func(d *invoice.Draft) { d.GoldPricePerGram = decimal.Zero },
			want:   false,
		},
		{
			name:   "NoItems",
			mutate: func(d *invoice.Draft) { d.Items = nil },
			want:   false,
		},
		{
			name:   "ItemWithoutInventoryID",
			mutate: func(d *invoice.Draft) { d.Items[0].InventoryItemID = "" },
			want:   false,
		},
		{
			name:   "ZeroQuantity",
			mutate: func(d *invoice.Draft) { d.Items[0].Quantity = 0 },
			want:   false,
		},
		{
			name:   "ZeroWeight",
			mutate: func(d *invoice.Draft) { d.Items[0].WeightGrams = decimal.Zero },
			want:   false,
		},
		{
			name: "PercentagesOutOfRangeStillCalculable",
			mutate: func(d *invoice.Draft) {
				// Percentage bounds are submit rules, not preview rules.
				d.VATPct = decimal.NewFromInt(150)
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			assert.Equal(t, tt.want, d.Calculable())
		})
	}
}

func TestDraft_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.Empty(t, validDraft().Validate())
	})

	t.Run("PercentageAboveHundred", func(t *testing.T) {
		d := validDraft()
		d.LaborCostPct = decimal.RequireFromString("100.5")

		errs := d.Validate()
		assert.Len(t, errs, 1)
		assert.Equal(t, "labor_cost_percentage", errs[0].Field)
	})

	t.Run("NegativePercentage", func(t *testing.T) {
		d := validDraft()
		d.ProfitPct = decimal.NewFromInt(-1)

		errs := d.Validate()
		assert.Len(t, errs, 1)
		assert.Equal(t, "profit_percentage", errs[0].Field)
	})

	t.Run("BoundaryPercentagesAreValid", func(t *testing.T) {
		d := validDraft()
		d.LaborCostPct = decimal.Zero
		d.ProfitPct = decimal.NewFromInt(100)
		d.VATPct = decimal.Zero

		assert.Empty(t, d.Validate())
	})

	t.Run("EverythingMissing", func(t *testing.T) {
		d := invoice.Draft{Items: []invoice.LineItem{{}}}

		errs := d.Validate()

		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field)
		}

		assert.Contains(t, fields, "customer")
		assert.Contains(t, fields, "gold_price_per_gram")
		assert.Contains(t, fields, "items[0].item")
		assert.Contains(t, fields, "items[0].quantity")
		assert.Contains(t, fields, "items[0].weight")
	})
}
