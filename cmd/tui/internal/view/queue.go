package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/levy/internal/payment"
)

type queueState int

const (
	queueStateBrowse queueState = iota
	queueStateApprove
	queueStateReject
)

// decisionForm is heap-allocated so huh keeps writing into the same fields
// while the model is copied between updates.
type decisionForm struct {
	BankAmount    string
	BankReference string
	Notes         string
}

// QueueModel lists bank transfers waiting for an operator decision.
type QueueModel struct {
	CommonModel
	svc      Payments
	operator string

	state   queueState
	table   table.Model
	queue   []*payment.Payment
	history []*payment.Reconciliation
	form    *huh.Form
	input   *decisionForm

	loading bool
	err     error
	status  string
}

func NewQueueModel(payments Payments, operator string) QueueModel {
	columns := []table.Column{
		{Title: "Reference", Width: 22},
		{Title: "Status", Width: 22},
		{Title: "Payer", Width: 24},
		{Title: "Expected", Width: 14},
		{Title: "Bank", Width: 14},
		{Title: "Proof", Width: 6},
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

	return QueueModel{
		svc:      payments,
		operator: operator,
		table:    t,
		loading:  true,
	}
}

func (m QueueModel) Title() string { return "Verification Queue" }
func (m QueueModel) ShortHelp() string {
	if m.state != queueStateBrowse {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | a: approve | x: reject | enter: history | r: refresh"
}

func (m QueueModel) Init() tea.Cmd {
	return m.loadQueueCmd()
}

func (m QueueModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadQueueMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.queue = msg.payments
		m.history = nil
		m.refreshTable()
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading history: %v", msg.err)
			return m, nil
		}
		m.history = msg.entries
		return m, nil

	case decisionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("%s is now %s", msg.payment.Reference, msg.payment.Status)
		}
		m.state = queueStateBrowse
		m.form = nil
		m.input = nil
		m.table.Focus()
		return m, m.loadQueueCmd()

	case tea.WindowSizeMsg:
		m.Resize(msg)
		m.table.SetHeight(max(m.Height-12, 5))
		return m, nil
	}

	if m.state == queueStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateDecision(msg)
}

func (m QueueModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.status = ""
			return m, m.loadQueueCmd()
		case "enter":
			if p := m.selected(); p != nil {
				return m, m.loadHistoryCmd(p.Reference)
			}
			return m, nil
		case "a":
			return m.enterDecision(queueStateApprove)
		case "x":
			return m.enterDecision(queueStateReject)
		}
	}

	before := m.table.Cursor()

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	if m.table.Cursor() != before {
		m.history = nil
	}

	return m, cmd
}

func (m QueueModel) selected() *payment.Payment {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.queue) {
		return nil
	}

	return m.queue[idx]
}

func (m QueueModel) enterDecision(state queueState) (tea.Model, tea.Cmd) {
	p := m.selected()
	if p == nil {
		return m, nil
	}

	if m.operator == "" {
		m.status = "Set LEVY_OPERATOR to record decisions"
		return m, nil
	}

	m.input = &decisionForm{BankReference: p.BankReference}
	if p.BankAmount != nil {
		m.input.BankAmount = strconv.FormatInt(*p.BankAmount, 10)
	}

	amount := huh.NewInput().
		Key("bank_amount").
		Title("Amount on statement (₦)").
		Value(&m.input.BankAmount).
		Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				if state == queueStateApprove {
					return errors.New("bank amount is required")
				}
				return nil
			}
			if n, err := strconv.ParseInt(s, 10, 64); err != nil || n <= 0 {
				return errors.New("enter a whole naira amount")
			}
			return nil
		})

	notes := huh.NewText().
		Key("notes").
		Title("Notes").
		Value(&m.input.Notes).
		Validate(func(s string) error {
			if state == queueStateReject && strings.TrimSpace(s) == "" {
				return errors.New("a rejection needs notes")
			}
			return nil
		})

	m.form = huh.NewForm(
		huh.NewGroup(
			amount,
			huh.NewInput().
				Key("bank_reference").
				Title("Bank reference").
				Value(&m.input.BankReference),
			notes,
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = state
	m.table.Blur()
	return m, m.form.Init()
}

func (m QueueModel) updateDecision(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = queueStateBrowse
		m.form = nil
		m.input = nil
		m.table.Focus()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.decideCmd()
}

func (m QueueModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading verification queue...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("%d payment(s) awaiting review | operator: %s",
		len(m.queue), activeStyle(orNone(m.operator)))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if panel := m.sidePanel(); panel != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m QueueModel) sidePanel() string {
	p := m.selected()
	if p == nil {
		return ""
	}

	var body string

	switch {
	case m.state != queueStateBrowse && m.form != nil:
		verb := "Approve"
		if m.state == queueStateReject {
			verb = "Reject"
		}
		body = fmt.Sprintf("%s %s\n\nExpected: %s\nProof: %s\n\n%s",
			verb, p.Reference, FormatAmount(p.Amount), orNone(p.ProofURL), m.form.View())
	case m.history != nil:
		body = fmt.Sprintf("Reconciliation log for %s\n\n%s", p.Reference, formatHistory(m.history))
	default:
		return ""
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(52).
		Render(body)
}

func formatHistory(entries []*payment.Reconciliation) string {
	if len(entries) == 0 {
		return "No entries yet."
	}

	var b strings.Builder
	for _, e := range entries {
		bank := "-"
		if e.BankAmount != nil {
			bank = FormatAmount(*e.BankAmount)
		}

		mark := "mismatch"
		if e.Matched {
			mark = "matched"
		}

		fmt.Fprintf(&b, "%s  %s  %s", e.CreatedAt.Format("2006-01-02 15:04"), bank, mark)
		if e.Resolved {
			b.WriteString("  resolved")
		}
		if e.Notes != "" {
			fmt.Fprintf(&b, "\n  %s", e.Notes)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func (m *QueueModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.queue))
	for _, p := range m.queue {
		bank := ""
		if p.BankAmount != nil {
			bank = FormatAmount(*p.BankAmount)
		}

		proof := "no"
		if p.ProofURL != "" {
			proof = "yes"
		}

		rows = append(rows, table.Row{
			p.Reference,
			string(p.Status),
			p.PayerName,
			FormatAmount(p.Amount),
			bank,
			proof,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadQueueMsg struct {
	payments []*payment.Payment
	err      error
}

func (m QueueModel) loadQueueCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ps, err := m.svc.VerificationQueue(ctx)
		return loadQueueMsg{payments: ps, err: err}
	}
}

type historyMsg struct {
	entries []*payment.Reconciliation
	err     error
}

func (m QueueModel) loadHistoryCmd(reference string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := m.svc.Reconciliation(ctx, reference)
		if entries == nil && err == nil {
			entries = []*payment.Reconciliation{}
		}
		return historyMsg{entries: entries, err: err}
	}
}

type decisionMsg struct {
	payment *payment.Payment
	err     error
}

func (m QueueModel) decideCmd() tea.Cmd {
	p := m.selected()
	if p == nil || m.input == nil {
		return nil
	}

	d := payment.Decision{
		Reference:     p.Reference,
		Actor:         m.operator,
		Notes:         m.input.Notes,
		BankReference: strings.TrimSpace(m.input.BankReference),
	}

	if s := strings.TrimSpace(m.input.BankAmount); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return func() tea.Msg { return decisionMsg{err: err} }
		}
		d.BankAmount = &n
	}

	decide := m.svc.Approve
	if m.state == queueStateReject {
		decide = m.svc.Reject
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := decide(ctx, d)
		return decisionMsg{payment: updated, err: err}
	}
}
