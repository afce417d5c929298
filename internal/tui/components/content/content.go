// Package content is a scrollable text pane for the read-only tabs.
package content

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type Model struct {
	viewport viewport.Model
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

// SetContent replaces the text and scrolls back to the top.
func (m *Model) SetContent(s string) {
	m.viewport.SetContent(s)
	m.viewport.GotoTop()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}
