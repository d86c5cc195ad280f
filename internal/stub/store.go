package stub

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smoradi/zargar/internal/api"
	"github.com/smoradi/zargar/internal/invoice"
)

// Store is the stub's in-memory state. Unlike the TUI, the HTTP server is
// concurrent, so access is serialized with a mutex.
type Store struct {
	mu sync.Mutex

	customers []api.Customer
	inventory []api.InventoryItem
	invoices  []api.Invoice
	campaigns []api.Campaign

	nextInvoiceNo int
}

// NewStore returns a store pre-seeded with a small gold-shop catalog so the
// TUI has something to show on first run.
func NewStore() *Store {
	now := time.Now()

	return &Store{
		nextInvoiceNo: 1,
		customers: []api.Customer{
			{
				ID:             uuid.NewString(),
				Name:           "مریم رضایی",
				Phone:          "09121234567",
				CurrentDebt:    decimal.Zero,
				TotalPurchases: decimal.NewFromInt(125_000_000),
				CreatedAt:      now.AddDate(0, -6, 0),
			},
			{
				ID:             uuid.NewString(),
				Name:           "علی محمدی",
				Phone:          "09351234567",
				CurrentDebt:    decimal.NewFromInt(4_500_000),
				TotalPurchases: decimal.NewFromInt(86_000_000),
				CreatedAt:      now.AddDate(0, -3, 0),
			},
		},
		inventory: []api.InventoryItem{
			{ID: uuid.NewString(), Name: "انگشتر ۱۸ عیار", WeightGrams: decimal.RequireFromString("2.5"), StockQuantity: 8, Active: true},
			{ID: uuid.NewString(), Name: "گردنبند ۱۸ عیار", WeightGrams: decimal.RequireFromString("12.3"), StockQuantity: 3, Active: true},
			{ID: uuid.NewString(), Name: "دستبند ۲۴ عیار", WeightGrams: decimal.RequireFromString("8.75"), StockQuantity: 5, Active: true},
			{ID: uuid.NewString(), Name: "سکه تمام بهار", WeightGrams: decimal.RequireFromString("8.13"), StockQuantity: 0, Active: false},
		},
	}
}

func (s *Store) Customers() []api.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]api.Customer(nil), s.customers...)
}

func (s *Store) CreateCustomer(params api.CustomerParams) (*api.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		if c.Phone == params.Phone {
			return nil, errf(http.StatusConflict, "Customer already exists")
		}
	}

	c := api.Customer{
		ID:             uuid.NewString(),
		Name:           params.Name,
		Phone:          params.Phone,
		CurrentDebt:    decimal.Zero,
		TotalPurchases: decimal.Zero,
		CreatedAt:      time.Now(),
	}
	s.customers = append(s.customers, c)

	return &c, nil
}

func (s *Store) UpdateCustomer(id string, params api.CustomerParams) (*api.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ID != id {
			continue
		}

		s.customers[i].Name = params.Name
		s.customers[i].Phone = params.Phone
		c := s.customers[i]

		return &c, nil
	}

	return nil, errf(http.StatusNotFound, "Customer not found")
}

func (s *Store) Inventory() []api.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]api.InventoryItem(nil), s.inventory...)
}

func (s *Store) Invoices() []api.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]api.Invoice(nil), s.invoices...)

	// Newest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// CreateInvoice commits a draft: it validates references and stock, prices
// the draft, decrements stock, and moves the grand total onto the customer's
// debt. This mirrors the side effects the production backend performs.
func (s *Store) CreateInvoice(d invoice.Draft) (*invoice.CreatedInvoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer := -1

	for i := range s.customers {
		if s.customers[i].ID == d.CustomerID {
			customer = i
			break
		}
	}

	if customer < 0 {
		return nil, errf(http.StatusNotFound, "Customer not found")
	}

	// Validate every row before mutating anything.
	itemIdx := make([]int, len(d.Items))

	for i, it := range d.Items {
		found := -1

		for j := range s.inventory {
			if s.inventory[j].ID == it.InventoryItemID {
				found = j
				break
			}
		}

		if found < 0 {
			return nil, errf(http.StatusNotFound, "Inventory item not found")
		}

		if s.inventory[found].StockQuantity < it.Quantity {
			return nil, errf(http.StatusConflict, "Insufficient stock for %s", s.inventory[found].Name)
		}

		itemIdx[i] = found
	}

	result := CalculateDraft(d)

	for i, it := range d.Items {
		s.inventory[itemIdx[i]].StockQuantity -= it.Quantity
	}

	s.customers[customer].CurrentDebt = s.customers[customer].CurrentDebt.Add(result.GrandTotal)
	s.customers[customer].TotalPurchases = s.customers[customer].TotalPurchases.Add(result.GrandTotal)

	created := invoice.CreatedInvoice{
		ID:            uuid.NewString(),
		InvoiceNumber: fmt.Sprintf("ZG-%04d", s.nextInvoiceNo),
		Type:          "sale",
		GrandTotal:    result.GrandTotal,
	}
	s.nextInvoiceNo++

	s.invoices = append(s.invoices, api.Invoice{
		ID:            created.ID,
		InvoiceNumber: created.InvoiceNumber,
		Type:          created.Type,
		CustomerID:    s.customers[customer].ID,
		CustomerName:  s.customers[customer].Name,
		GrandTotal:    created.GrandTotal,
		CreatedAt:     time.Now(),
	})

	return &created, nil
}

func (s *Store) Summary() api.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := api.Summary{
		CustomerCount:  len(s.customers),
		InventoryCount: len(s.inventory),
		InvoiceCount:   len(s.invoices),
		SalesThisMonth: decimal.Zero,
		TotalDebt:      decimal.Zero,
	}

	for _, it := range s.inventory {
		if it.Active && it.StockQuantity <= 2 {
			summary.LowStockCount++
		}
	}

	now := time.Now()
	for _, inv := range s.invoices {
		if inv.CreatedAt.Year() == now.Year() && inv.CreatedAt.Month() == now.Month() {
			summary.SalesThisMonth = summary.SalesThisMonth.Add(inv.GrandTotal)
		}
	}

	for _, c := range s.customers {
		summary.TotalDebt = summary.TotalDebt.Add(c.CurrentDebt)
	}

	return summary
}

func (s *Store) Campaigns() []api.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]api.Campaign(nil), s.campaigns...)

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// CreateCampaign records a campaign and marks it sent immediately; the stub
// has no real gateway behind it.
func (s *Store) CreateCampaign(params api.CampaignParams) (*api.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if params.Title == "" || params.Message == "" {
		return nil, errf(http.StatusBadRequest, "Title and message are required")
	}

	if len(params.Recipients) == 0 {
		return nil, errf(http.StatusBadRequest, "At least one recipient is required")
	}

	now := time.Now()
	c := api.Campaign{
		ID:             uuid.NewString(),
		Title:          params.Title,
		Message:        params.Message,
		RecipientCount: len(params.Recipients),
		Status:         "sent",
		SentAt:         &now,
		CreatedAt:      now,
	}
	s.campaigns = append(s.campaigns, c)

	return &c, nil
}
