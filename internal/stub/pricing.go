package stub

import (
	"github.com/shopspring/decimal"

	"github.com/smoradi/zargar/internal/invoice"
)

var hundred = decimal.NewFromInt(100)

// CalculateDraft prices a draft the way the production backend documents it:
// per unit, base = weight x gold price; labor is a percentage of base;
// profit a percentage of base+labor; VAT a percentage of base+labor+profit.
// Aggregates are summed at full precision and rounded to whole rials
// half-away-from-zero at the end.
func CalculateDraft(d invoice.Draft) *invoice.CalculationResult {
	result := &invoice.CalculationResult{
		Items: make([]invoice.CalculatedItem, 0, len(d.Items)),
	}

	subtotal := decimal.Zero
	labor := decimal.Zero
	profit := decimal.Zero
	vat := decimal.Zero

	for _, it := range d.Items {
		qty := decimal.NewFromInt(int64(it.Quantity))

		unitBase := it.WeightGrams.Mul(d.GoldPricePerGram)
		unitLabor := unitBase.Mul(d.LaborCostPct).Div(hundred)
		unitProfit := unitBase.Add(unitLabor).Mul(d.ProfitPct).Div(hundred)
		unitVAT := unitBase.Add(unitLabor).Add(unitProfit).Mul(d.VATPct).Div(hundred)

		unitPrice := unitBase.Add(unitLabor).Add(unitProfit).Add(unitVAT)

		result.Items = append(result.Items, invoice.CalculatedItem{
			InventoryItemID: it.InventoryItemID,
			UnitPrice:       unitPrice.Round(0),
			TotalPrice:      unitPrice.Mul(qty).Round(0),
		})

		subtotal = subtotal.Add(unitBase.Mul(qty))
		labor = labor.Add(unitLabor.Mul(qty))
		profit = profit.Add(unitProfit.Mul(qty))
		vat = vat.Add(unitVAT.Mul(qty))
	}

	result.Subtotal = subtotal.Round(0)
	result.TotalLaborCost = labor.Round(0)
	result.TotalProfit = profit.Round(0)
	result.TotalVAT = vat.Round(0)
	result.GrandTotal = subtotal.Add(labor).Add(profit).Add(vat).Round(0)

	return result
}
