package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/levy/internal/statement"
)

// ReviewModel walks through unmatched statement lines and records which
// payer each narration belongs to, so the next import can place them.
type ReviewModel struct {
	CommonModel
	narrations Narrations

	queue   []statement.Line
	current *statement.Line

	payerInput textinput.Model

	status     string
	learned    int
	totalCount int
}

func NewReviewModel(narrations Narrations, lines []statement.Line) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "payer phone or email"
	ti.Width = 50

	m := ReviewModel{
		narrations: narrations,
		queue:      lines,
		payerInput: ti,
		totalCount: len(lines),
	}
	m.next()

	return m
}

func (m ReviewModel) Title() string { return "Learn Payers" }

func (m ReviewModel) ShortHelp() string {
	return "Enter: save & next | Tab: skip | Esc: back to report"
}

func (m ReviewModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.update(msg)
}

func (m ReviewModel) update(msg tea.Msg) (ReviewModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, reviewDone
		case tea.KeyTab:
			if m.current != nil {
				m.next()
				return m, textinput.Blink
			}
		case tea.KeyEnter:
			if m.current != nil {
				return m, m.learnCmd(m.current.Narration, m.payerInput.Value())
			}
		}

	case learnMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		if msg.saved {
			m.learned++
		}

		m.next()

		return m, textinput.Blink
	}

	if m.current != nil {
		m.payerInput, cmd = m.payerInput.Update(msg)
	}

	return m, cmd
}

func (m ReviewModel) View() string {
	var content string

	if m.current != nil {
		info := fmt.Sprintf(
			"Date:      %s\nAmount:    %s\nReference: %s\nNarration: %s\n",
			FormatDate(m.current.Date),
			FormatAmount(m.current.Amount),
			orNone(m.current.BankReference),
			m.current.Narration,
		)
		content = fmt.Sprintf("%s\n\n%s\nPayer contact:\n%s", m.status, info, m.payerInput.View())
	} else {
		content = fmt.Sprintf("%s\n\nLearned %d of %d narration(s).\n\n(Esc to go back)", m.status, m.learned, m.totalCount)
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

func (m *ReviewModel) next() {
	if len(m.queue) == 0 {
		m.current = nil
		m.status = "All done."
		m.payerInput.Blur()

		return
	}

	line := m.queue[0]
	m.queue = m.queue[1:]
	m.current = &line

	m.status = fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)
	m.payerInput.Focus()

	ctx, cancel := DbCtx()
	defer cancel()

	suggestion, _ := m.narrations.Suggest(ctx, line.Narration)
	m.payerInput.SetValue(suggestion)
}

type reviewDoneMsg struct{}

func reviewDone() tea.Msg {
	return reviewDoneMsg{}
}

type learnMsg struct {
	saved bool
	err   error
}

func (m ReviewModel) learnCmd(narration, payer string) tea.Cmd {
	payer = strings.TrimSpace(payer)

	return func() tea.Msg {
		if payer == "" {
			return learnMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := m.narrations.Learn(ctx, narration, payer); err != nil {
			return learnMsg{err: err}
		}

		return learnMsg{saved: true}
	}
}
