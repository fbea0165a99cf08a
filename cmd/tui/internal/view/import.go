package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/levy/internal/statement"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateReport
	importStateReview
	importStateError
)

// ImportModel reconciles a bank statement export against open payments and
// lets the operator teach the matcher about lines it could not place.
type ImportModel struct {
	CommonModel
	statements Statements
	narrations Narrations

	state      importState
	filePicker filepicker.Model
	report     *statement.Report
	reportList list.Model
	review     ReviewModel

	status string
	err    error
}

func NewImportModel(statements Statements, narrations Narrations) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		statements: statements,
		narrations: narrations,
		filePicker: fp,
	}
}

func (m ImportModel) Title() string { return "Import Bank Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateReport:
		if m.report != nil && len(m.report.Unmatched) > 0 {
			return "l: learn payers for unmatched lines | Esc: new import"
		}
		return "Esc: new import"
	case importStateReview:
		return m.review.ShortHelp()
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == importStateReview {
		if _, ok := msg.(reviewDoneMsg); ok {
			m.state = importStateReport
			return m, nil
		}

		var cmd tea.Cmd
		m.review, cmd = m.review.update(msg)

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Resize(msg)
		if m.state == importStateReport {
			m.reportList.SetSize(m.Width, max(m.Height-8, 5))
		}

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateReport {
			return m.updateReport(msg)
		}

	case reconcileMsg:
		if msg.err != nil {
			m.state = importStateError
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.report = msg.report
		m.state = importStateReport
		m.status = fmt.Sprintf("%s statement: %d line(s), %d matched, %d unmatched, %d skipped.",
			orNone(msg.report.Bank), msg.report.Lines, len(msg.report.Matches), len(msg.report.Unmatched), len(msg.report.Skipped))
		m.reportList = newReportList(msg.report)
		if m.Width > 0 {
			m.reportList.SetSize(m.Width, max(m.Height-8, 5))
		}

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Reconciling %s...", path)

		return m, m.reconcileCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateReport, importStateError:
		m.state = importStateFilePick
		m.report = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "l" && len(m.report.Unmatched) > 0 {
		m.review = NewReviewModel(m.narrations, m.report.Unmatched)
		m.state = importStateReview

		return m, m.review.Init()
	}

	var cmd tea.Cmd
	m.reportList, cmd = m.reportList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select statement export (CSV):\n\n%s", m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateReport:
		header := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status)
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.reportList.View())
	case importStateReview:
		return m.review.View()
	case importStateError:
		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	return ""
}

// Messages

type reconcileMsg struct {
	report *statement.Report
	err    error
}

func (m ImportModel) reconcileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return reconcileMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		report, err := m.statements.Reconcile(ctx, f)
		return reconcileMsg{report: report, err: err}
	}
}

// Report list

type lineKind int

const (
	lineMatched lineKind = iota
	lineUnmatched
	lineSkipped
)

type reportItem struct {
	kind   lineKind
	line   statement.Line
	detail string
}

func (i reportItem) Title() string       { return i.line.Narration }
func (i reportItem) Description() string { return i.detail }
func (i reportItem) FilterValue() string { return i.line.Narration }

func newReportList(r *statement.Report) list.Model {
	items := make([]list.Item, 0, len(r.Matches)+len(r.Unmatched)+len(r.Skipped))

	for _, mt := range r.Matches {
		detail := fmt.Sprintf("%s by %s, now %s", mt.Reference, mt.By, mt.Status)
		if !mt.Matched {
			detail += " (amount differs)"
		}
		items = append(items, reportItem{kind: lineMatched, line: mt.Line, detail: detail})
	}

	for _, l := range r.Unmatched {
		items = append(items, reportItem{kind: lineUnmatched, line: l, detail: "no payment found"})
	}

	for _, s := range r.Skipped {
		items = append(items, reportItem{kind: lineSkipped, line: s.Line, detail: s.Reason})
	}

	l := list.New(items, reportDelegate{}, 100, 20)
	l.Title = "Statement lines"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

var kindStyles = map[lineKind]lipgloss.Style{
	lineMatched:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	lineUnmatched: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	lineSkipped:   lipgloss.NewStyle().Faint(true),
}

var kindLabels = map[lineKind]string{
	lineMatched:   "MATCHED  ",
	lineUnmatched: "UNMATCHED",
	lineSkipped:   "SKIPPED  ",
}

type reportDelegate struct{}

func (d reportDelegate) Height() int                             { return 2 }
func (d reportDelegate) Spacing() int                            { return 0 }
func (d reportDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d reportDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(reportItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	line1 := fmt.Sprintf("%s%s %s  %s  %s",
		cursor,
		kindStyles[item.kind].Render(kindLabels[item.kind]),
		FormatDate(item.line.Date),
		FormatAmount(item.line.Amount),
		item.line.Narration,
	)

	line2 := fmt.Sprintf("      row %d: %s", item.line.Row, item.detail)

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
