package view

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smoradi/zargar/internal/api"
)

var (
	panelStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(24)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	panelValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Bold(true)

	lowStockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)
)

type DashboardModel struct {
	CommonModel
	client *api.Client

	summary *api.Summary
	loading bool
	err     error
}

func NewDashboardModel(client *api.Client) DashboardModel {
	return DashboardModel{client: client, loading: true}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.summary = msg.summary

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading summary...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.summary == nil {
		return ""
	}

	s := m.summary

	lowStock := panelValueStyle.Render(strconv.Itoa(s.LowStockCount))
	if s.LowStockCount > 0 {
		lowStock = lowStockStyle.Render(strconv.Itoa(s.LowStockCount))
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		panel("Customers", panelValueStyle.Render(strconv.Itoa(s.CustomerCount))),
		panel("Inventory items", panelValueStyle.Render(strconv.Itoa(s.InventoryCount))),
		panel("Low stock", lowStock),
	)

	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		panel("Invoices", panelValueStyle.Render(strconv.Itoa(s.InvoiceCount))),
		panel("Sales this month", panelValueStyle.Render(FormatMoney(s.SalesThisMonth))),
		panel("Outstanding debt", panelValueStyle.Render(FormatMoney(s.TotalDebt))),
	)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow),
	)
}

func panel(title, value string) string {
	return panelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			panelTitleStyle.Render(title),
			value,
		),
	)
}

// Messages

type summaryLoadedMsg struct {
	summary *api.Summary
	err     error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		summary, err := m.client.DashboardSummary(ctx)

		return summaryLoadedMsg{summary: summary, err: err}
	}
}
