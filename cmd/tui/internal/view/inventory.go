package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smoradi/zargar/internal/api"
)

type InventoryModel struct {
	CommonModel
	client *api.Client

	table      table.Model
	items      []api.InventoryItem
	activeOnly bool

	loading bool
	err     error
}

func NewInventoryModel(client *api.Client) InventoryModel {
	columns := []table.Column{
		{Title: "Name", Width: 30},
		{Title: "Weight", Width: 10},
		{Title: "Stock", Width: 8},
		{Title: "Active", Width: 8},
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

	return InventoryModel{
		client: client,
		table:  t,
	}
}

func (m InventoryModel) Title() string { return "Inventory" }

func (m InventoryModel) ShortHelp() string {
	return "Esc: back | a: toggle active filter | r: refresh"
}

func (m InventoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InventoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inventoryLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.items = msg.items
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			m.activeOnly = !m.activeOnly
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InventoryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading inventory...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	filter := "All items"
	if m.activeOnly {
		filter = "Active only"
	}

	header := fmt.Sprintf("Filter: [a] %s", activeStyle(filter))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *InventoryModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))

	for _, it := range m.items {
		if m.activeOnly && !it.Active {
			continue
		}

		active := "no"
		if it.Active {
			active = "yes"
		}

		rows = append(rows, table.Row{
			it.Name,
			FormatWeight(it.WeightGrams),
			strconv.Itoa(it.StockQuantity),
			active,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type inventoryLoadedMsg struct {
	items []api.InventoryItem
	err   error
}

func (m InventoryModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		items, err := m.client.ListInventory(ctx)

		return inventoryLoadedMsg{items: items, err: err}
	}
}
