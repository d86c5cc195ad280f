package invoice

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=draft.go -destination=backend_mock.go -package=invoice

// Backend is the remote collaborator that prices and persists invoices.
type Backend interface {
	// Calculate prices a draft without side effects.
	Calculate(ctx context.Context, d Draft) (*CalculationResult, error)
	// CreateInvoice persists the draft. Stock and customer debt are
	// adjusted by the backend, not by this client.
	CreateInvoice(ctx context.Context, d Draft) (*CreatedInvoice, error)
}

// LineItem is one row of an invoice draft.
type LineItem struct {
	InventoryItemID string          `json:"inventory_item_id"`
	Quantity        int             `json:"quantity"`
	WeightGrams     decimal.Decimal `json:"weight_grams"`
}

// Draft is the in-progress invoice being authored.
type Draft struct {
	CustomerID       string          `json:"customer_id"`
	GoldPricePerGram decimal.Decimal `json:"gold_price_per_gram"`
	LaborCostPct     decimal.Decimal `json:"labor_cost_percentage"`
	ProfitPct        decimal.Decimal `json:"profit_percentage"`
	VATPct           decimal.Decimal `json:"vat_percentage"`
	Items            []LineItem      `json:"items"`
}

// NewDraft returns an empty draft with a single default row.
func NewDraft() Draft {
	return Draft{
		Items: []LineItem{defaultLineItem()},
	}
}

func defaultLineItem() LineItem {
	return LineItem{Quantity: 1, WeightGrams: decimal.Zero}
}

// clone returns a deep copy so in-flight requests never observe later edits.
func (d Draft) clone() Draft {
	c := d
	c.Items = make([]LineItem, len(d.Items))
	copy(c.Items, d.Items)

	return c
}

// Calculable reports whether the draft is structurally complete enough for a
// pricing preview. This is weaker than submit validation: percentage bounds
// are only checked at submit time.
func (d Draft) Calculable() bool {
	if d.CustomerID == "" || !d.GoldPricePerGram.IsPositive() {
		return false
	}

	if len(d.Items) == 0 {
		return false
	}

	for _, it := range d.Items {
		if it.InventoryItemID == "" || it.Quantity <= 0 || !it.WeightGrams.IsPositive() {
			return false
		}
	}

	return true
}

// ValidationError describes one submit-time rule violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	pctMax = decimal.NewFromInt(100)
)

// Validate enforces the full submit rules. Local only: a draft that fails
// validation is never sent to the network.
func (d Draft) Validate() []ValidationError {
	var errs []ValidationError

	if d.CustomerID == "" {
		errs = append(errs, ValidationError{Field: "customer", Message: "customer is required"})
	}

	if !d.GoldPricePerGram.IsPositive() {
		errs = append(errs, ValidationError{Field: "gold_price_per_gram", Message: "gold price must be greater than zero"})
	}

	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"labor_cost_percentage", d.LaborCostPct},
		{"profit_percentage", d.ProfitPct},
		{"vat_percentage", d.VATPct},
	} {
		if f.value.IsNegative() || f.value.GreaterThan(pctMax) {
			errs = append(errs, ValidationError{Field: f.name, Message: "must be between 0 and 100"})
		}
	}

	if len(d.Items) == 0 {
		errs = append(errs, ValidationError{Field: "items", Message: "at least one item is required"})
	}

	for i, it := range d.Items {
		if it.InventoryItemID == "" {
			errs = append(errs, ValidationError{Field: itemField(i, "item"), Message: "item is required"})
		}

		if it.Quantity <= 0 {
			errs = append(errs, ValidationError{Field: itemField(i, "quantity"), Message: "quantity must be at least 1"})
		}

		if !it.WeightGrams.IsPositive() {
			errs = append(errs, ValidationError{Field: itemField(i, "weight"), Message: "weight must be greater than zero"})
		}
	}

	return errs
}

func itemField(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}

// CalculatedItem is the priced breakdown of one draft row.
type CalculatedItem struct {
	InventoryItemID string          `json:"inventory_item_id"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

// CalculationResult is the backend's priced breakdown of a draft. It is
// replaced wholesale on every successful recalculation and cleared whenever
// the draft stops being calculable.
type CalculationResult struct {
	Items          []CalculatedItem `json:"items"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	TotalLaborCost decimal.Decimal  `json:"total_labor_cost"`
	TotalProfit    decimal.Decimal  `json:"total_profit"`
	TotalVAT       decimal.Decimal  `json:"total_vat"`
	GrandTotal     decimal.Decimal  `json:"grand_total"`
}

// CreatedInvoice is the backend's record of a committed invoice.
type CreatedInvoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Type          string          `json:"type"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// CatalogItem is the slice of an inventory entry the controller needs for
// snap-to-catalog weight fills.
type CatalogItem struct {
	ID          string
	Name        string
	WeightGrams decimal.Decimal
}
