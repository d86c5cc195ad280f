package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/smoradi/zargar/internal/api"
	"github.com/smoradi/zargar/internal/recipients"
)

const fallbackSaveCustomer = "Failed to save customer"

type customersState int

const (
	customersStateBrowse customersState = iota
	customersStateEdit
)

type CustomersModel struct {
	CommonModel
	client *api.Client

	state     customersState
	table     table.Model
	customers []api.Customer
	form      *huh.Form

	// Edit target; nil means the form creates a new customer.
	editing *api.Customer

	loading bool
	err     error
	status  string

	// Form bindings
	formName  string
	formPhone string
}

func NewCustomersModel(client *api.Client) CustomersModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Phone", Width: 14},
		{Title: "Debt", Width: 16},
		{Title: "Purchases", Width: 16},
		{Title: "Since", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return CustomersModel{
		client: client,
		table:  t,
	}
}

func (m CustomersModel) Title() string { return "Customers" }

func (m CustomersModel) ShortHelp() string {
	if m.state == customersStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | e: edit | r: refresh"
}

func (m CustomersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CustomersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case customersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.customers = msg.customers
		m.refreshTable()

		return m, nil

	case customerSavedMsg:
		m.state = customersStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errorMessage(msg.err, fallbackSaveCustomer)
			return m, nil
		}

		m.status = fmt.Sprintf("Saved %s", msg.customer.Name)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case customersStateBrowse:
		return m.updateBrowse(msg)
	case customersStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m CustomersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.enterForm(nil)
		case "e":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.customers) {
				return m, nil
			}

			return m.enterForm(&m.customers[idx])
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CustomersModel) enterForm(target *api.Customer) (tea.Model, tea.Cmd) {
	m.editing = target
	m.formName = ""
	m.formPhone = ""

	if target != nil {
		m.formName = target.Name
		m.formPhone = target.Phone
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("phone").
				Title("Phone").
				Placeholder("0912...").
				Value(&m.formPhone).
				Validate(func(s string) error {
					_, err := recipients.NormalizePhone(s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = customersStateEdit
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m CustomersModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = customersStateBrowse
			m.form = nil
			m.editing = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m CustomersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading customers...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == customersStateEdit && m.form != nil {
		title := "New Customer"
		if m.editing != nil {
			title = "Edit Customer"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *CustomersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.customers))
	for _, c := range m.customers {
		rows = append(rows, table.Row{
			c.Name,
			c.Phone,
			FormatMoney(c.CurrentDebt),
			FormatMoney(c.TotalPurchases),
			FormatDate(c.CreatedAt),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type customersLoadedMsg struct {
	customers []api.Customer
	err       error
}

func (m CustomersModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		customers, err := m.client.ListCustomers(ctx)

		return customersLoadedMsg{customers: customers, err: err}
	}
}

type customerSavedMsg struct {
	customer *api.Customer
	err      error
}

func (m CustomersModel) saveCmd() tea.Cmd {
	editing := m.editing
	params := api.CustomerParams{Name: m.formName, Phone: m.formPhone}

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		if editing != nil {
			customer, err := m.client.UpdateCustomer(ctx, editing.ID, params)
			return customerSavedMsg{customer: customer, err: err}
		}

		customer, err := m.client.CreateCustomer(ctx, params)

		return customerSavedMsg{customer: customer, err: err}
	}
}
