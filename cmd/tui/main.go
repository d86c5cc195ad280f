package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/smoradi/zargar/cmd/tui/internal/view"
	"github.com/smoradi/zargar/internal/api"
	"github.com/smoradi/zargar/internal/config"
)

type model struct {
	client   *api.Client
	cfg      *config.Config
	defaults view.InvoiceDefaults

	currentView View
	status      string

	dashboardView  view.DashboardModel
	customersView  view.CustomersModel
	inventoryView  view.InventoryModel
	newInvoiceView view.NewInvoiceModel
	invoicesView   view.InvoicesModel
	smsView        view.SMSModel
}

type View int

const (
	ViewMenu       View = 0
	ViewDashboard  View = 1
	ViewCustomers  View = 2
	ViewInventory  View = 3
	ViewNewInvoice View = 4
	ViewInvoices   View = 5
	ViewSMS        View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout)

	return model{
		client:      client,
		cfg:         cfg,
		defaults:    invoiceDefaults(cfg),
		currentView: ViewMenu,
	}
}

func invoiceDefaults(cfg *config.Config) view.InvoiceDefaults {
	parse := func(name, raw string) decimal.Decimal {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			slog.Error("invalid default percentage", "field", name, "value", raw)
			os.Exit(1)
		}

		return d
	}

	return view.InvoiceDefaults{
		LaborPct:  parse("INVOICE_LABOR_PCT", cfg.Invoice.LaborPct),
		ProfitPct: parse("INVOICE_PROFIT_PCT", cfg.Invoice.ProfitPct),
		VATPct:    parse("INVOICE_VAT_PCT", cfg.Invoice.VATPct),
	}
}

type loginMsg struct {
	err error
}

func (m model) loginCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := view.APICtx()
		defer cancel()

		return loginMsg{err: m.client.Login(ctx, m.cfg.API.Username, m.cfg.API.Password)}
	}
}

func (m model) Init() tea.Cmd {
	return m.loginCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case loginMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Login failed: %v (l to retry)", msg.err)
		} else {
			m.status = fmt.Sprintf("Signed in as %s", m.cfg.API.Username)
		}

		return m, nil

	case view.InvoiceCreatedMsg:
		// Screens reload on entry, so the affected customer, inventory
		// and dashboard data refreshes itself the next time they open.
		m.status = fmt.Sprintf("Invoice %s created", msg.Invoice.InvoiceNumber)
		return m, nil

	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "l":
				return m, m.loginCmd()
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.client)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewCustomers
				m.customersView = view.NewCustomersModel(m.client)

				return m, m.customersView.Init()
			case "3":
				m.currentView = ViewInventory
				m.inventoryView = view.NewInventoryModel(m.client)

				return m, m.inventoryView.Init()
			case "4":
				m.currentView = ViewNewInvoice
				m.newInvoiceView = view.NewNewInvoiceModel(m.client, m.defaults)

				return m, m.newInvoiceView.Init()
			case "5":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.client)

				return m, m.invoicesView.Init()
			case "6":
				m.currentView = ViewSMS
				m.smsView = view.NewSMSModel(m.client)

				return m, m.smsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewCustomers:
		var newModel tea.Model
		newModel, cmd = m.customersView.Update(msg)
		m.customersView = newModel.(view.CustomersModel)
	case ViewInventory:
		var newModel tea.Model
		newModel, cmd = m.inventoryView.Update(msg)
		m.inventoryView = newModel.(view.InventoryModel)
	case ViewNewInvoice:
		var newModel tea.Model
		newModel, cmd = m.newInvoiceView.Update(msg)
		m.newInvoiceView = newModel.(view.NewInvoiceModel)
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewSMS:
		var newModel tea.Model
		newModel, cmd = m.smsView.Update(msg)
		m.smsView = newModel.(view.SMSModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		menu := m.cfg.App.Name + "\n\n" +
			"1. Dashboard\n" +
			"2. Customers\n" +
			"3. Inventory\n" +
			"4. New Invoice\n" +
			"5. Invoices\n" +
			"6. SMS Campaigns\n\n" +
			"q. Quit"

		if m.status != "" {
			menu += "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
		}

		return lipgloss.NewStyle().Padding(2).Render(menu)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewCustomers:
		return m.customersView.View()
	case ViewInventory:
		return m.inventoryView.View()
	case ViewNewInvoice:
		return m.newInvoiceView.View()
	case ViewInvoices:
		return m.invoicesView.View()
	case ViewSMS:
		return m.smsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
