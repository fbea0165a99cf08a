package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// CommonModel tracks the terminal size views lay themselves out against.
type CommonModel struct {
	Width  int
	Height int
}

func (c *CommonModel) Resize(msg tea.WindowSizeMsg) {
	c.Width = msg.Width
	c.Height = msg.Height
}

// BackMsg returns the console to its menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
