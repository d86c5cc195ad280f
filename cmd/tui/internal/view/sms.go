package view

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/smoradi/zargar/internal/api"
	"github.com/smoradi/zargar/internal/recipients"
)

const fallbackSendCampaign = "Failed to send campaign"

type smsState int

const (
	smsStateBrowse smsState = iota
	smsStateCompose
	smsStatePickFile
)

const (
	recipientSourceCustomers = "customers"
	recipientSourceCSV       = "csv"
)

type SMSModel struct {
	CommonModel
	client *api.Client

	state     smsState
	table     table.Model
	campaigns []api.Campaign

	form   *huh.Form
	picker filepicker.Model

	// Recipients staged for the next campaign. Filled from the customer
	// list or an imported CSV before the send.
	recipients []api.Recipient

	loading bool
	err     error
	status  string

	// Form bindings
	formTitle   string
	formMessage string
	formSource  string
}

func NewSMSModel(client *api.Client) SMSModel {
	columns := []table.Column{
		{Title: "Title", Width: 24},
		{Title: "Status", Width: 10},
		{Title: "Recipients", Width: 11},
		{Title: "Created", Width: 12},
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

	picker := filepicker.New()
	picker.AllowedTypes = []string{".csv"}
	picker.CurrentDirectory, _ = os.UserHomeDir()

	return SMSModel{
		client: client,
		table:  t,
		picker: picker,
	}
}

func (m SMSModel) Title() string { return "SMS Campaigns" }

func (m SMSModel) ShortHelp() string {
	switch m.state {
	case smsStateCompose:
		return "Navigate form | Esc: cancel"
	case smsStatePickFile:
		return "Enter: pick CSV | Esc: cancel"
	}

	return "Esc: back | n: new campaign | r: refresh"
}

func (m SMSModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SMSModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case campaignsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.campaigns = msg.campaigns
		m.refreshTable()

		return m, nil

	case recipientsStagedMsg:
		if msg.err != nil {
			m.state = smsStateBrowse
			m.status = msg.err.Error()
			m.table.Focus()

			return m, nil
		}

		m.recipients = msg.recipients

		return m, m.sendCmd()

	case campaignSentMsg:
		m.state = smsStateBrowse
		m.form = nil
		m.recipients = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errorMessage(msg.err, fallbackSendCampaign)
			return m, nil
		}

		m.status = fmt.Sprintf("Campaign %q sent to %d recipients",
			msg.campaign.Title, msg.campaign.RecipientCount)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case smsStateBrowse:
		return m.updateBrowse(msg)
	case smsStateCompose:
		return m.updateCompose(msg)
	case smsStatePickFile:
		return m.updatePickFile(msg)
	}

	return m, nil
}

func (m SMSModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.enterCompose()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SMSModel) enterCompose() (tea.Model, tea.Cmd) {
	m.formTitle = ""
	m.formMessage = ""
	m.formSource = recipientSourceCustomers

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&m.formTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),

			huh.NewText().
				Key("message").
				Title("Message").
				CharLimit(500).
				Value(&m.formMessage).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("message cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("source").
				Title("Recipients").
				Options(
					huh.NewOption("All customers", recipientSourceCustomers),
					huh.NewOption("Import from CSV", recipientSourceCSV),
				).
				Value(&m.formSource),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = smsStateCompose
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m SMSModel) updateCompose(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = smsStateBrowse
			m.form = nil
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

	if m.formSource == recipientSourceCSV {
		m.state = smsStatePickFile
		return m, m.picker.Init()
	}

	return m, m.stageCustomersCmd()
}

func (m SMSModel) updatePickFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = smsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if selected, path := m.picker.DidSelectFile(msg); selected {
		return m, tea.Batch(cmd, stageCSVCmd(path))
	}

	return m, cmd
}

func (m SMSModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading campaigns...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == smsStatePickFile {
		return lipgloss.NewStyle().Padding(1).Render(
			"Pick a recipient CSV file\n\n" + m.picker.View(),
		)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == smsStateCompose && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render("New Campaign\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *SMSModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		rows = append(rows, table.Row{
			c.Title,
			c.Status,
			strconv.Itoa(c.RecipientCount),
			FormatDate(c.CreatedAt),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type campaignsLoadedMsg struct {
	campaigns []api.Campaign
	err       error
}

func (m SMSModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		campaigns, err := m.client.ListCampaigns(ctx)

		return campaignsLoadedMsg{campaigns: campaigns, err: err}
	}
}

type recipientsStagedMsg struct {
	recipients []api.Recipient
	err        error
}

func (m SMSModel) stageCustomersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		customers, err := m.client.ListCustomers(ctx)
		if err != nil {
			return recipientsStagedMsg{err: err}
		}

		rs := make([]api.Recipient, 0, len(customers))
		for _, c := range customers {
			rs = append(rs, api.Recipient{Name: c.Name, Phone: c.Phone})
		}

		if len(rs) == 0 {
			return recipientsStagedMsg{err: fmt.Errorf("no customers to send to")}
		}

		return recipientsStagedMsg{recipients: rs}
	}
}

func stageCSVCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return recipientsStagedMsg{err: fmt.Errorf("open %s: %w", path, err)}
		}
		defer f.Close()

		rs, err := recipients.NewParser().Parse(f)
		if err != nil {
			return recipientsStagedMsg{err: err}
		}

		return recipientsStagedMsg{recipients: rs}
	}
}

type campaignSentMsg struct {
	campaign *api.Campaign
	err      error
}

func (m SMSModel) sendCmd() tea.Cmd {
	params := api.CampaignParams{
		Title:      m.formTitle,
		Message:    m.formMessage,
		Recipients: m.recipients,
	}

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		campaign, err := m.client.SendCampaign(ctx, params)

		return campaignSentMsg{campaign: campaign, err: err}
	}
}
