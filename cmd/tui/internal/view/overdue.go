package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/levy/internal/notice"
)

const sweepTimeout = 2 * time.Minute

// OverdueModel lists unpaid notices past their due date.
type OverdueModel struct {
	CommonModel
	notices Notices
	now     func() time.Time

	table   table.Model
	overdue []*notice.Notice

	loading bool
	sending bool
	err     error
	status  string
}

func NewOverdueModel(notices Notices) OverdueModel {
	columns := []table.Column{
		{Title: "Notice", Width: 20},
		{Title: "Payer", Width: 24},
		{Title: "Contact", Width: 24},
		{Title: "Amount", Width: 14},
		{Title: "Due", Width: 12},
		{Title: "Days", Width: 6},
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
	t.SetStyles(s)

	return OverdueModel{
		notices: notices,
		now:     time.Now,
		table:   t,
		loading: true,
	}
}

func (m OverdueModel) Title() string { return "Overdue Notices" }

func (m OverdueModel) ShortHelp() string {
	return "Esc: back | s: send reminders | r: refresh"
}

func (m OverdueModel) Init() tea.Cmd {
	return m.loadOverdueCmd()
}

func (m OverdueModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadOverdueMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.overdue = msg.notices
		m.refreshTable()
		return m, nil

	case sweepMsg:
		m.sending = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error sending reminders: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Reminders: %d sent, %d skipped, %d failed",
			msg.result.Sent, msg.result.Skipped, msg.result.Failed)
		return m, m.loadOverdueCmd()

	case tea.WindowSizeMsg:
		m.Resize(msg)
		m.table.SetHeight(max(m.Height-10, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadOverdueCmd()
		case "s":
			if m.sending {
				return m, nil
			}
			m.sending = true
			m.status = "Sending reminders..."
			return m, m.sweepCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m OverdueModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading overdue notices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if len(m.overdue) == 0 {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\nNo overdue notices.\n\n(Esc to back)")
	}

	var total int64
	for _, n := range m.overdue {
		total += n.AmountDue
	}

	header := fmt.Sprintf("%d overdue notice(s), %s outstanding",
		len(m.overdue), activeStyle(FormatAmount(total)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *OverdueModel) refreshTable() {
	now := m.now()

	rows := make([]table.Row, 0, len(m.overdue))
	for _, n := range m.overdue {
		contact := n.PayerPhone
		if contact == "" {
			contact = n.PayerEmail
		}

		days := int(now.Sub(n.DueDate).Hours() / 24)

		rows = append(rows, table.Row{
			n.Number,
			n.PayerName,
			contact,
			FormatAmount(n.AmountDue),
			FormatDate(n.DueDate),
			fmt.Sprint(days),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadOverdueMsg struct {
	notices []*notice.Notice
	err     error
}

func (m OverdueModel) loadOverdueCmd() tea.Cmd {
	now := m.now()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ns, err := m.notices.ListOverdue(ctx, now)
		return loadOverdueMsg{notices: ns, err: err}
	}
}

type sweepMsg struct {
	result notice.SweepResult
	err    error
}

func (m OverdueModel) sweepCmd() tea.Cmd {
	now := m.now()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		res, err := m.notices.SendReminders(ctx, now)
		return sweepMsg{result: res, err: err}
	}
}
