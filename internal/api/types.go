package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a gold-shop customer as the backend reports it. Read-only on
// this side except through the create/update endpoints.
type Customer struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	CurrentDebt    decimal.Decimal `json:"current_debt"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CustomerParams carries the writable customer fields.
type CustomerParams struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// InventoryItem is a catalog entry. WeightGrams is the canonical weight used
// for snap-to-catalog fills in the invoice workflow.
type InventoryItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	WeightGrams   decimal.Decimal `json:"weight_grams"`
	StockQuantity int             `json:"stock_quantity"`
	Active        bool            `json:"active"`
}

// Invoice is a committed invoice as listed by the backend.
type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Type          string          `json:"type"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Summary is the dashboard roll-up.
type Summary struct {
	CustomerCount  int             `json:"customer_count"`
	InventoryCount int             `json:"inventory_count"`
	LowStockCount  int             `json:"low_stock_count"`
	InvoiceCount   int             `json:"invoice_count"`
	SalesThisMonth decimal.Decimal `json:"sales_this_month"`
	TotalDebt      decimal.Decimal `json:"total_debt"`
}

// Recipient is one SMS campaign recipient.
type Recipient struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Campaign is an SMS campaign. Delivery is handled by the backend's gateway;
// this client only creates and lists campaigns.
type Campaign struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	RecipientCount int        `json:"recipient_count"`
	Status         string     `json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CampaignParams creates a campaign. Recipients may come from the customer
// list or from an imported CSV.
type CampaignParams struct {
	Title      string      `json:"title"`
	Message    string      `json:"message"`
	Recipients []Recipient `json:"recipients"`
}
