package foodlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tranaapp/trana/internal/models"
)

type AddFoodMsg struct{}

type UseFoodMsg struct {
	ID string
}

type DeleteFoodMsg struct {
	ID   string
	Name string
}

type Item struct {
	Food       models.FoodItem
	Status     models.ExpiryStatus
	ExpiryText string
}

func (i Item) Title() string {
	switch i.Status {
	case models.ExpiryExpired:
		return "✗ " + i.Food.Name
	case models.ExpiryExpiring:
		return "! " + i.Food.Name
	default:
		return "● " + i.Food.Name
	}
}

func (i Item) Description() string {
	return fmt.Sprintf("%g %s · %s · %s", i.Food.Quantity, i.Food.Unit, i.Food.Category, i.ExpiryText)
}

func (i Item) FilterValue() string { return i.Food.Name }

type KeyMap struct {
	Add    key.Binding
	Use    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Use: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "mark used"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Food"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Use, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Use, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddFoodMsg{} }
		case key.Matches(msg, m.keys.Use):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return UseFoodMsg{ID: i.Food.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteFoodMsg{ID: i.Food.ID, Name: i.Food.Name} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No food items yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
