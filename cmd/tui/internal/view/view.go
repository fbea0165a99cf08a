package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all console screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}
