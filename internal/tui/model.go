// Package tui is the full-screen dashboard: one tab per domain plus badges
// and the profile.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/notifier"
	"github.com/tranaapp/trana/internal/tui/components/content"
	"github.com/tranaapp/trana/internal/tui/components/foodlist"
	"github.com/tranaapp/trana/internal/validation"
)

type SessionState int

const (
	StateFood SessionState = iota
	StateCarbon
	StateSuggest
	StateLearn
	StateBadges
	StateProfile
	StateAddFood
	StateAddWaste
	StatePrompt
	StateConfirmDelete
)

var tabTitles = []string{"Food", "Carbon", "Suggest", "Learn", "Badges", "Profile"}

const tabCount = 6

// chrome is the number of rows taken by tabs, status and help.
const chrome = 6

type FoodFormModel struct {
	Name     string
	Category string
	Quantity string
	Unit     string
	Storage  string
	Expiry   string
}

type WasteFormModel struct {
	FoodType string
	Quantity string
}

type Model struct {
	app           *cli.App
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	foodList      foodlist.Model
	detail        content.Model
	input         textinput.Model
	form          *huh.Form
	foodForm      *FoodFormModel
	wasteForm     *WasteFormModel
	quitting      bool
	width         int
	height        int
	loading       bool
	status        string
	statusIsError bool
	itemToDelete  foodlist.DeleteFoodMsg

	// Results of the last backend calls, kept for display.
	suggestions       []models.Suggestion
	suggestIngredient string
	learnTopic        string
	learnContent      *models.LearnContent

	validationWarning   string
	validationConflicts []validation.Conflict

	notices chan string
}

// noticeMsg carries a notification published on the event bus.
type noticeMsg string

// errMsg reports a failed action in the status line.
type errMsg struct{ err error }

type suggestionsMsg struct {
	ingredients string
	suggestions []models.Suggestion
	err         error
}

type learnMsg struct {
	topic   string
	content models.LearnContent
	err     error
}

func NewModel(app *cli.App) Model {
	input := textinput.New()
	input.CharLimit = 200

	m := Model{
		app:      app,
		state:    StateFood,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		foodList: foodlist.New(nil, 0, 0),
		detail:   content.New(0, 0),
		input:    input,
		notices:  make(chan string, 16),
	}

	notices := m.notices
	app.Bus.Subscribe("tui", func(e events.Event) error {
		msg, ok := notifier.Message(e)
		if !ok || !app.Profile.NotificationsEnabled() {
			return nil
		}
		select {
		case notices <- msg:
		default:
		}
		return nil
	})

	m.refreshFood()
	m.updateValidationStatus()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateFood:
		keys = append(keys, m.keys.Add)
	case StateCarbon:
		keys = append(keys, m.keys.Add, m.keys.Remove, m.keys.Record)
	case StateSuggest:
		keys = append(keys, m.keys.Ask, m.keys.Save)
	case StateLearn:
		keys = append(keys, m.keys.Ask, m.keys.Save, m.keys.Share)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}

	var actions []key.Binding
	switch m.state {
	case StateFood:
		actions = []key.Binding{m.keys.Add}
	case StateCarbon:
		actions = []key.Binding{m.keys.Add, m.keys.Remove, m.keys.Record}
	case StateSuggest:
		actions = []key.Binding{m.keys.Ask, m.keys.Save}
	case StateLearn:
		actions = []key.Binding{m.keys.Ask, m.keys.Save, m.keys.Share}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	m.app.Food.PublishExpiryWarning()
	return waitForNotice(m.notices)
}

func waitForNotice(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-ch)
	}
}

func (m *Model) refreshFood() {
	inv := m.app.Food
	var items []foodlist.Item
	for _, it := range inv.Items() {
		items = append(items, foodlist.Item{Food: it, Status: inv.Status(it), ExpiryText: inv.ExpiryText(it)})
	}
	m.foodList.SetItems(items)
}

// refreshDetail re-renders the pane of the current read-only tab.
func (m *Model) refreshDetail() {
	switch m.state {
	case StateCarbon:
		m.detail.SetContent(m.renderCarbon())
	case StateSuggest:
		m.detail.SetContent(m.renderSuggest())
	case StateLearn:
		m.detail.SetContent(m.renderLearn())
	case StateBadges:
		m.detail.SetContent(m.renderBadges())
	case StateProfile:
		m.detail.SetContent(m.renderProfile())
	}
}

func (m *Model) resize() {
	h := m.height - chrome
	if h < 1 {
		h = 1
	}
	m.foodList.SetSize(m.width-4, h)
	m.detail.SetSize(m.width-4, h)
	m.input.Width = m.width - 10
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusIsError = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusIsError = true
}

// updateValidationStatus runs validation and updates the warning message
func (m *Model) updateValidationStatus() {
	result := validation.New().ValidateState(m.app.State)
	m.validationConflicts = result.Conflicts
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d data problem(s), run 'trana validate'", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}
