package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tranaapp/trana/internal/carbon"
	"github.com/tranaapp/trana/internal/food"
	"github.com/tranaapp/trana/internal/learn"
	"github.com/tranaapp/trana/internal/tui/components/foodlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case noticeMsg:
		m.setStatus(string(msg))
		return m, waitForNotice(m.notices)

	case errMsg:
		m.setError(msg.err)
		return m, nil

	case suggestionsMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if _, err := m.app.Suggest.Record(msg.ingredients, msg.suggestions); err != nil {
			m.setError(err)
			return m, nil
		}
		m.suggestIngredient = msg.ingredients
		m.suggestions = msg.suggestions
		m.setStatus(fmt.Sprintf("%d idea(s) for %s", len(msg.suggestions), msg.ingredients))
		m.refreshDetail()
		return m, nil

	case learnMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if _, err := m.app.Learn.Record(msg.topic, msg.content); err != nil {
			m.setError(err)
			return m, nil
		}
		m.learnTopic = msg.topic
		c := msg.content
		m.learnContent = &c
		m.refreshDetail()
		return m, nil

	case foodlist.AddFoodMsg:
		return m, m.startFoodForm()

	case foodlist.UseFoodMsg:
		if _, _, err := m.app.Food.MarkUsed(msg.ID); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Marked as used")
		}
		m.refreshFood()
		return m, nil

	case foodlist.DeleteFoodMsg:
		m.itemToDelete = msg
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil
	}

	switch m.state {
	case StateAddFood, StateAddWaste:
		return m.updateForm(msg)
	case StatePrompt:
		return m.updatePrompt(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !(m.state == StateFood && m.foodList.Filtering()) {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.switchTab((int(m.state) + 1) % tabCount)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.switchTab((int(m.state) - 1 + tabCount) % tabCount)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.app.Reload()
			m.refreshFood()
			m.refreshDetail()
			m.updateValidationStatus()
			m.setStatus("Reloaded")
			return m, nil
		}

		if !m.loading {
			if handled, cmd := m.handleTabKey(msg); handled {
				return m, cmd
			}
		}
	}

	var cmd tea.Cmd
	if m.state == StateFood {
		m.foodList, cmd = m.foodList.Update(msg)
	} else {
		m.detail, cmd = m.detail.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) switchTab(i int) {
	m.state = SessionState(i)
	m.refreshDetail()
}

// handleTabKey runs the actions specific to the current tab.
func (m *Model) handleTabKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch m.state {
	case StateCarbon:
		switch {
		case key.Matches(msg, m.keys.Add):
			return true, m.startWasteForm()
		case key.Matches(msg, m.keys.Remove):
			n := len(m.app.Carbon.Waste())
			if n == 0 {
				return true, nil
			}
			if item, err := m.app.Carbon.RemoveWaste(n - 1); err != nil {
				m.setError(err)
			} else {
				m.setStatus("Removed " + item.FoodType)
			}
			m.refreshDetail()
			return true, nil
		case key.Matches(msg, m.keys.Record):
			if len(m.app.Carbon.Waste()) == 0 {
				m.setStatus("Nothing to record, add wasted food first")
				return true, nil
			}
			total, _, err := m.app.Carbon.RecordSavings()
			if err != nil {
				m.setError(err)
			} else {
				m.setStatus(fmt.Sprintf("Recorded %.2f kg CO2 saved", total.EmissionsKg))
			}
			m.refreshDetail()
			return true, nil
		}

	case StateSuggest:
		switch {
		case key.Matches(msg, m.keys.Ask):
			return true, m.startPrompt("Ingredients: ")
		case key.Matches(msg, m.keys.Save):
			return true, m.saveSuggestion(1)
		}
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= 9 {
			return true, m.saveSuggestion(n)
		}

	case StateLearn:
		switch {
		case key.Matches(msg, m.keys.Ask):
			return true, m.startPrompt("Topic: ")
		case key.Matches(msg, m.keys.Save):
			if m.learnContent == nil {
				return true, nil
			}
			if err := m.app.Learn.Save(); err != nil {
				m.setError(err)
			} else {
				m.setStatus("Content saved to your profile")
			}
			return true, nil
		case key.Matches(msg, m.keys.Share):
			if m.learnContent == nil {
				return true, nil
			}
			if err := learn.Share(m.learnTopic, *m.learnContent); err != nil {
				m.setError(err)
			} else {
				m.setStatus("Content copied to clipboard")
			}
			return true, nil
		}
	}
	return false, nil
}

func (m *Model) saveSuggestion(n int) tea.Cmd {
	if n > len(m.suggestions) {
		return nil
	}
	s := m.suggestions[n-1]
	if err := m.app.Suggest.Save(m.suggestIngredient, s); err != nil {
		m.setError(err)
	} else {
		m.setStatus(fmt.Sprintf("Saved %q", s.Title))
	}
	m.refreshDetail()
	return nil
}

func (m *Model) startPrompt(prompt string) tea.Cmd {
	m.previousState = m.state
	m.state = StatePrompt
	m.input.Prompt = prompt
	m.input.SetValue("")
	return m.input.Focus()
}

func (m Model) updatePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			m.input.Blur()
			m.state = m.previousState
			return m, nil
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			m.input.Blur()
			m.state = m.previousState
			m.loading = true
			if m.state == StateSuggest {
				m.setStatus("Thinking about " + value + "...")
				return m, generateCmd(m, value)
			}
			m.setStatus("Looking up " + value + "...")
			return m, learnCmd(m, value)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// The commands below only talk to the backend. Services are single-threaded,
// so the results are recorded in Update when the message arrives.
func generateCmd(m Model, ingredients string) tea.Cmd {
	svc := m.app.Suggest
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		suggestions, err := svc.Fetch(ctx, ingredients)
		return suggestionsMsg{ingredients: ingredients, suggestions: suggestions, err: err}
	}
}

func learnCmd(m Model, topic string) tea.Cmd {
	svc := m.app.Learn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		c, err := svc.Fetch(ctx, topic)
		return learnMsg{topic: topic, content: c, err: err}
	}
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "y", "Y":
		if _, err := m.app.Food.Delete(m.itemToDelete.ID); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Deleted " + m.itemToDelete.Name)
		}
		m.refreshFood()
		m.state = m.previousState
	case "n", "N", "esc", "q":
		m.state = m.previousState
	}
	return m, nil
}

// Choices offered by the add form; the CLI accepts any value.
var (
	categoryOptions = []string{"produce", "dairy", "meat", "seafood", "bakery", "grains", "frozen", "beverages", "other"}
	unitOptions     = []string{"pcs", "kg", "g", "l", "ml", "pack"}
	storageOptions  = []string{"refrigerator", "freezer", "pantry", "counter"}
)

func (m *Model) startFoodForm() tea.Cmd {
	m.foodForm = &FoodFormModel{
		Category: categoryOptions[0],
		Quantity: "1",
		Unit:     "pcs",
		Storage:  "refrigerator",
		Expiry:   time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&m.foodForm.Name).Validate(required("name")),
			huh.NewSelect[string]().Title("Category").Options(huh.NewOptions(categoryOptions...)...).Value(&m.foodForm.Category),
			huh.NewInput().Title("Quantity").Value(&m.foodForm.Quantity).Validate(positive),
			huh.NewSelect[string]().Title("Unit").Options(huh.NewOptions(unitOptions...)...).Value(&m.foodForm.Unit),
			huh.NewSelect[string]().Title("Storage").Options(huh.NewOptions(storageOptions...)...).Value(&m.foodForm.Storage),
			huh.NewInput().Title("Expiry date (YYYY-MM-DD)").Value(&m.foodForm.Expiry).Validate(date),
		),
	).WithShowHelp(true)
	m.previousState = m.state
	m.state = StateAddFood
	return m.form.Init()
}

func (m *Model) startWasteForm() tea.Cmd {
	m.wasteForm = &WasteFormModel{Quantity: "1"}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Food type").Options(huh.NewOptions(carbon.FoodTypes()...)...).Value(&m.wasteForm.FoodType),
			huh.NewInput().Title("Quantity (kg)").Value(&m.wasteForm.Quantity).Validate(positive),
		),
	).WithShowHelp(true)
	m.previousState = m.state
	m.state = StateAddWaste
	return m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var err error
		if m.state == StateAddFood {
			err = m.submitFood()
		} else {
			err = m.submitWaste()
		}
		if err != nil {
			m.setError(err)
		}
		m.state = m.previousState
		m.refreshDetail()
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m *Model) submitFood() error {
	f := m.foodForm
	qty, _ := strconv.ParseFloat(f.Quantity, 64)
	item, _, err := m.app.Food.Add(food.NewItem{
		Name:            strings.TrimSpace(f.Name),
		Category:        f.Category,
		Quantity:        qty,
		Unit:            f.Unit,
		StorageLocation: f.Storage,
		ExpiryDate:      f.Expiry,
	})
	if err != nil {
		return err
	}
	m.refreshFood()
	m.setStatus("Added " + item.Name)
	return nil
}

func (m *Model) submitWaste() error {
	qty, _ := strconv.ParseFloat(m.wasteForm.Quantity, 64)
	item, err := m.app.Carbon.AddWaste(m.wasteForm.FoodType, qty)
	if err != nil {
		return err
	}
	m.setStatus(fmt.Sprintf("Added %s (%.2f kg CO2)", item.FoodType, item.Emissions))
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func positive(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a number greater than 0")
	}
	return nil
}

func date(s string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use the format YYYY-MM-DD")
	}
	return nil
}
