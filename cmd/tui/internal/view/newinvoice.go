package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/smoradi/zargar/internal/api"
	"github.com/smoradi/zargar/internal/invoice"
)

// InvoiceCreatedMsg is emitted to the root model after a successful
// submission so it can refresh the affected screens.
type InvoiceCreatedMsg struct {
	Invoice  *invoice.CreatedInvoice
	Affected []invoice.Entity
}

// InvoiceDefaults prefills the percentage fields of a fresh draft.
type InvoiceDefaults struct {
	LaborPct  decimal.Decimal
	ProfitPct decimal.Decimal
	VATPct    decimal.Decimal
}

type newInvoiceState int

const (
	newInvoiceStateLoading newInvoiceState = iota
	newInvoiceStatePickCustomer
	newInvoiceStateEditing
)

// Fixed pricing fields come before the per-row fields in the focus order.
const (
	fieldGoldPrice = iota
	fieldLaborPct
	fieldProfitPct
	fieldVATPct
	fixedFieldCount
)

const rowFieldCount = 3 // item, quantity, weight

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(16)

	focusedCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	totalsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(36)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

type NewInvoiceModel struct {
	CommonModel
	client   *api.Client
	backend  invoice.Backend
	defaults InvoiceDefaults

	state newInvoiceState
	ctrl  *invoice.Controller

	customers []api.Customer
	catalog   []api.InventoryItem
	picker    table.Model

	// customer holds the selected customer for display; the controller
	// tracks only the id.
	customer *api.Customer

	// focus walks the fixed pricing fields and then the item rows. The
	// focused text field edits through input; item cells cycle with
	// left/right instead.
	focus int
	input textinput.Model

	issuedSeq   uint64
	calcPending bool

	status    string
	statusErr bool
	err       error
}

func NewNewInvoiceModel(client *api.Client, defaults InvoiceDefaults) NewInvoiceModel {
	picker := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 28},
			{Title: "Phone", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
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
	picker.SetStyles(s)

	input := textinput.New()
	input.CharLimit = 16
	input.Width = 14

	return NewInvoiceModel{
		client:   client,
		backend:  client,
		defaults: defaults,
		state:    newInvoiceStateLoading,
		picker:   picker,
		input:    input,
	}
}

func (m NewInvoiceModel) Title() string { return "New Invoice" }

func (m NewInvoiceModel) ShortHelp() string {
	switch m.state {
	case newInvoiceStatePickCustomer:
		return "Enter: select customer | Esc: back"
	case newInvoiceStateEditing:
		return "Tab: next field | ←/→: change item | a: add row | d: delete row | c: customer | s: submit | Esc: back"
	}

	return "Esc: back"
}

func (m NewInvoiceModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m NewInvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case newInvoiceDataMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = newInvoiceStateEditing

			return m, nil
		}

		m.customers = msg.customers
		m.catalog = msg.catalog
		m.ctrl = invoice.NewController(catalogOf(msg.catalog))
		m.ctrl.SetLaborPct(m.defaults.LaborPct)
		m.ctrl.SetProfitPct(m.defaults.ProfitPct)
		m.ctrl.SetVATPct(m.defaults.VATPct)

		rows := make([]table.Row, 0, len(msg.customers))
		for _, c := range msg.customers {
			rows = append(rows, table.Row{c.Name, c.Phone})
		}
		m.picker.SetRows(rows)

		m.state = newInvoiceStatePickCustomer

		return m, nil

	case calcResultMsg:
		if msg.seq == m.issuedSeq {
			m.calcPending = false
		}

		if m.ctrl != nil {
			m.ctrl.ApplyCalc(msg.seq, msg.result, msg.err)
		}

		return m, nil

	case submitResultMsg:
		outcome := m.ctrl.ApplySubmit(msg.created, msg.err)
		if outcome.Invoice == nil {
			m.status = outcome.ErrMessage
			m.statusErr = true

			return m, nil
		}

		m.status = fmt.Sprintf("Invoice %s created", outcome.Invoice.InvoiceNumber)
		m.statusErr = false
		m.customer = nil
		m.focus = fieldGoldPrice
		m.ctrl.SetLaborPct(m.defaults.LaborPct)
		m.ctrl.SetProfitPct(m.defaults.ProfitPct)
		m.ctrl.SetVATPct(m.defaults.VATPct)
		m.state = newInvoiceStatePickCustomer
		m.syncInput()

		return m, func() tea.Msg {
			return InvoiceCreatedMsg{Invoice: outcome.Invoice, Affected: outcome.Affected}
		}
	}

	switch m.state {
	case newInvoiceStateLoading:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			return m, Back
		}

		return m, nil

	case newInvoiceStatePickCustomer:
		return m.updatePickCustomer(msg)

	case newInvoiceStateEditing:
		return m.updateEditing(msg)
	}

	return m, nil
}

func (m NewInvoiceModel) updatePickCustomer(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			if m.customer != nil {
				m.state = newInvoiceStateEditing
				return m, nil
			}

			return m, Back

		case "enter":
			idx := m.picker.Cursor()
			if idx < 0 || idx >= len(m.customers) {
				return m, nil
			}

			m.customer = &m.customers[idx]
			m.state = newInvoiceStateEditing
			m.syncInput()

			return m, m.issueCalc(m.ctrl.SetCustomer(m.customer.ID))
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m NewInvoiceModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	draft := m.ctrl.Draft()
	rowCount := len(draft.Items)
	fieldCount := fixedFieldCount + rowCount*rowFieldCount

	switch keyMsg.String() {
	case "esc":
		if m.ctrl.Submitting() {
			return m, nil
		}

		return m, Back

	case "tab", "down", "enter":
		m.focus = (m.focus + 1) % fieldCount
		m.syncInput()

		return m, nil

	case "shift+tab", "up":
		m.focus = (m.focus - 1 + fieldCount) % fieldCount
		m.syncInput()

		return m, nil

	case "c":
		m.state = newInvoiceStatePickCustomer
		return m, nil

	case "a":
		cmd := m.issueCalc(m.ctrl.AddItem())
		m.syncInput()

		return m, cmd

	case "d":
		row, col := m.rowField()
		if col < 0 {
			return m, nil
		}

		cmd := m.issueCalc(m.ctrl.RemoveItem(row))
		if m.focus >= fixedFieldCount+len(m.ctrl.Draft().Items)*rowFieldCount {
			m.focus = fixedFieldCount
		}
		m.syncInput()

		return m, cmd

	case "left", "right":
		row, col := m.rowField()
		if col != 0 || len(m.catalog) == 0 {
			return m, nil
		}

		next := m.nextCatalogID(draft.Items[row].InventoryItemID, keyMsg.String() == "right")

		return m, m.issueCalc(m.ctrl.SelectInventoryItem(row, next))

	case "s":
		return m.submit()
	}

	// Remaining keys edit the focused text field. The item cell has no
	// text input; it only cycles.
	if _, col := m.rowField(); col == 0 {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, tea.Batch(cmd, m.applyInput())
}

// rowField translates focus into (row, column) for item rows. col is -1 when
// a fixed pricing field is focused.
func (m NewInvoiceModel) rowField() (row, col int) {
	if m.focus < fixedFieldCount {
		return 0, -1
	}

	offset := m.focus - fixedFieldCount

	return offset / rowFieldCount, offset % rowFieldCount
}

// syncInput loads the focused field's current value into the shared text
// input.
func (m *NewInvoiceModel) syncInput() {
	draft := m.ctrl.Draft()

	value := ""

	switch m.focus {
	case fieldGoldPrice:
		value = decimalField(draft.GoldPricePerGram)
	case fieldLaborPct:
		value = decimalField(draft.LaborCostPct)
	case fieldProfitPct:
		value = decimalField(draft.ProfitPct)
	case fieldVATPct:
		value = decimalField(draft.VATPct)
	default:
		row, col := m.rowField()
		if row >= len(draft.Items) {
			break
		}

		switch col {
		case 1:
			value = strconv.Itoa(draft.Items[row].Quantity)
		case 2:
			value = decimalField(draft.Items[row].WeightGrams)
		}
	}

	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func decimalField(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}

	return d.String()
}

// applyInput parses the shared input and routes it to the controller
// mutator for the focused field. Unparseable text maps to zero, which keeps
// the draft non-calculable until the field is valid again.
func (m *NewInvoiceModel) applyInput() tea.Cmd {
	raw := m.input.Value()

	switch m.focus {
	case fieldGoldPrice:
		return m.issueCalc(m.ctrl.SetGoldPrice(parseDecimal(raw)))
	case fieldLaborPct:
		return m.issueCalc(m.ctrl.SetLaborPct(parseDecimal(raw)))
	case fieldProfitPct:
		return m.issueCalc(m.ctrl.SetProfitPct(parseDecimal(raw)))
	case fieldVATPct:
		return m.issueCalc(m.ctrl.SetVATPct(parseDecimal(raw)))
	}

	row, col := m.rowField()

	switch col {
	case 1:
		qty, err := strconv.Atoi(raw)
		if err != nil {
			qty = 0
		}

		return m.issueCalc(m.ctrl.SetQuantity(row, qty))
	case 2:
		return m.issueCalc(m.ctrl.SetWeight(row, parseDecimal(raw)))
	}

	return nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

func (m NewInvoiceModel) nextCatalogID(current string, forward bool) string {
	idx := -1
	for i, it := range m.catalog {
		if it.ID == current {
			idx = i
			break
		}
	}

	if forward {
		idx++
	} else {
		idx--
	}

	if idx < 0 {
		idx = len(m.catalog) - 1
	}
	if idx >= len(m.catalog) {
		idx = 0
	}

	return m.catalog[idx].ID
}

func (m NewInvoiceModel) submit() (tea.Model, tea.Cmd) {
	req, err := m.ctrl.BeginSubmit()
	if err != nil {
		if errs := m.ctrl.Draft().Validate(); len(errs) > 0 {
			m.status = errs[0].Error()
		} else {
			m.status = "Waiting for the price preview before submitting"
		}
		m.statusErr = true

		return m, nil
	}

	m.status = "Submitting..."
	m.statusErr = false

	return m, m.submitCmd(req)
}

// issueCalc turns a controller calc request into a backend command. A nil
// request means the draft is not calculable; nothing is issued.
func (m *NewInvoiceModel) issueCalc(req *invoice.CalcRequest) tea.Cmd {
	if req == nil {
		m.calcPending = false
		return nil
	}

	m.issuedSeq = req.Seq
	m.calcPending = true

	backend := m.backend
	seq := req.Seq
	draft := req.Draft

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		result, err := backend.Calculate(ctx, draft)

		return calcResultMsg{seq: seq, result: result, err: err}
	}
}

func (m NewInvoiceModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	switch m.state {
	case newInvoiceStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading customers and inventory...")

	case newInvoiceStatePickCustomer:
		header := "Select a customer"
		pickerView := lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.picker.View())

		content := lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			pickerView,
		)

		if m.status != "" {
			content = m.statusLine() + "\n" + content
		}

		return lipgloss.NewStyle().Padding(1).Render(content)
	}

	return m.editingView()
}

func (m NewInvoiceModel) editingView() string {
	draft := m.ctrl.Draft()

	customerName := "(none)"
	if m.customer != nil {
		customerName = m.customer.Name
	}

	lines := []string{
		labelStyle.Render("Customer") + customerName,
		m.fieldLine("Gold price/gram", fieldGoldPrice, decimalField(draft.GoldPricePerGram)),
		m.fieldLine("Labor %", fieldLaborPct, decimalField(draft.LaborCostPct)),
		m.fieldLine("Profit %", fieldProfitPct, decimalField(draft.ProfitPct)),
		m.fieldLine("VAT %", fieldVATPct, decimalField(draft.VATPct)),
		"",
		labelStyle.Render("Items"),
	}

	for i, it := range draft.Items {
		lines = append(lines, m.itemLine(i, it))
	}

	form := lipgloss.JoinVertical(lipgloss.Left, lines...)

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().PaddingRight(4).Render(form),
		m.totalsView(),
	)

	if m.status != "" {
		content = m.statusLine() + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m NewInvoiceModel) statusLine() string {
	if m.statusErr {
		return statusErrStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Faint(true).Render(m.status)
}

func (m NewInvoiceModel) fieldLine(label string, field int, value string) string {
	cell := value
	if cell == "" {
		cell = "-"
	}

	if m.focus == field {
		cell = m.input.View()
	}

	return labelStyle.Render(label) + cell
}

func (m NewInvoiceModel) itemLine(row int, it invoice.LineItem) string {
	name := "(pick item ←/→)"
	for _, entry := range m.catalog {
		if entry.ID == it.InventoryItemID {
			name = entry.Name
			break
		}
	}

	focusRow, focusCol := m.rowField()
	focused := m.focus >= fixedFieldCount && focusRow == row

	itemCell := fmt.Sprintf("%-24s", name)
	if focused && focusCol == 0 {
		itemCell = focusedCellStyle.Render(itemCell)
	}

	qtyCell := fmt.Sprintf("x%-4d", it.Quantity)
	if focused && focusCol == 1 {
		qtyCell = "x" + m.input.View()
	}

	weightCell := FormatWeight(it.WeightGrams)
	if focused && focusCol == 2 {
		weightCell = m.input.View() + "g"
	}

	return fmt.Sprintf("  %d. %s %s %s", row+1, itemCell, qtyCell, weightCell)
}

func (m NewInvoiceModel) totalsView() string {
	result := m.ctrl.Result()

	if m.calcPending {
		return totalsStyle.Render("Calculating...")
	}

	if result == nil {
		return totalsStyle.Render("Complete the draft to see pricing")
	}

	rows := []string{
		totalsLine("Subtotal", result.Subtotal),
		totalsLine("Labor", result.TotalLaborCost),
		totalsLine("Profit", result.TotalProfit),
		totalsLine("VAT", result.TotalVAT),
		"",
		totalsLine("Grand total", result.GrandTotal),
	}

	return totalsStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func totalsLine(label string, d decimal.Decimal) string {
	return fmt.Sprintf("%-12s %18s", label, FormatMoney(d))
}

func catalogOf(items []api.InventoryItem) []invoice.CatalogItem {
	catalog := make([]invoice.CatalogItem, 0, len(items))

	for _, it := range items {
		if !it.Active {
			continue
		}

		catalog = append(catalog, invoice.CatalogItem{
			ID:          it.ID,
			Name:        it.Name,
			WeightGrams: it.WeightGrams,
		})
	}

	return catalog
}

// Messages

type newInvoiceDataMsg struct {
	customers []api.Customer
	catalog   []api.InventoryItem
	err       error
}

func (m NewInvoiceModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		customers, err := m.client.ListCustomers(ctx)
		if err != nil {
			return newInvoiceDataMsg{err: err}
		}

		catalog, err := m.client.ListInventory(ctx)
		if err != nil {
			return newInvoiceDataMsg{err: err}
		}

		return newInvoiceDataMsg{customers: customers, catalog: catalog}
	}
}

type calcResultMsg struct {
	seq    uint64
	result *invoice.CalculationResult
	err    error
}

type submitResultMsg struct {
	created *invoice.CreatedInvoice
	err     error
}

func (m NewInvoiceModel) submitCmd(req *invoice.SubmitRequest) tea.Cmd {
	backend := m.backend
	draft := req.Draft

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		created, err := backend.CreateInvoice(ctx, draft)

		return submitResultMsg{created: created, err: err}
	}
}
