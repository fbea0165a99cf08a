package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrJamesThe3rd/levy/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/levy/internal/app"
	"github.com/MrJamesThe3rd/levy/internal/config"
)

type model struct {
	app      *app.App
	operator string

	currentView View
	size        tea.WindowSizeMsg

	queueView   view.QueueModel
	importView  view.ImportModel
	overdueView view.OverdueModel
}

type View int

const (
	ViewMenu    View = 0
	ViewQueue   View = 1
	ViewImport  View = 2
	ViewOverdue View = 3
)

func initialModel(a *app.App, operator string) model {
	return model{
		app:         a,
		operator:    operator,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewQueue
				m.queueView = view.NewQueueModel(m.app.Payments, m.operator)

				return m, tea.Batch(m.queueView.Init(), m.resize)
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Statements, m.app.Matching)

				return m, tea.Batch(m.importView.Init(), m.resize)
			case "3":
				m.currentView = ViewOverdue
				m.overdueView = view.NewOverdueModel(m.app.Notices)

				return m, tea.Batch(m.overdueView.Init(), m.resize)
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewQueue:
		var newModel tea.Model
		newModel, cmd = m.queueView.Update(msg)
		m.queueView = newModel.(view.QueueModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewOverdue:
		var newModel tea.Model
		newModel, cmd = m.overdueView.Update(msg)
		m.overdueView = newModel.(view.OverdueModel)
	}

	return m, cmd
}

// resize replays the last known terminal size to a freshly opened view.
func (m model) resize() tea.Msg {
	if m.size.Width == 0 {
		return nil
	}

	return m.size
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Console\n\n", m.app.Config.App.Name) +
				"1. Verification Queue\n" +
				"2. Import Bank Statement\n" +
				"3. Overdue Notices\n\n" +
				"q. Quit",
		)
	case ViewQueue:
		current = m.queueView
	case ViewImport:
		current = m.importView
	case ViewOverdue:
		current = m.overdueView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return strings.Join([]string{
		lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(current.Title()),
		current.View(),
		help,
	}, "\n")
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Anything logged while the program owns the terminal would corrupt it.
	logFile, err := tea.LogToFile("levy-tui.log", "levy")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))

	a, err := app.New(cfg, prometheus.NewRegistry())
	if err != nil {
		slog.Error("failed to build app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a, cfg.Auth.Operator))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
