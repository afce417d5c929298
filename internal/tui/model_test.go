package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/config"
	"github.com/tranaapp/trana/internal/food"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/storage"
	"github.com/tranaapp/trana/internal/tui/components/foodlist"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	return newTestModelWithConfig(t, config.Default())
}

func newTestModelWithConfig(t *testing.T, cfg *config.Config) Model {
	t.Helper()
	app := cli.NewApp(storage.NewMemoryStore(), cfg, "", nil)
	m := NewModel(app)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func addFood(t *testing.T, m Model, name string) models.FoodItem {
	t.Helper()
	item, _, err := m.app.Food.Add(food.NewItem{
		Name:            name,
		Category:        "dairy",
		Quantity:        1,
		Unit:            "l",
		StorageLocation: "refrigerator",
		ExpiryDate:      time.Now().AddDate(0, 0, 10).Format("2006-01-02"),
	})
	require.NoError(t, err)
	return item
}

func send(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabNavigation(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, StateFood, m.state)

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, StateCarbon, m.state)

	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, StateProfile, m.state)
	assert.Contains(t, m.View(), "Items logged")
}

func TestUseAndDeleteFood(t *testing.T) {
	m := newTestModel(t)
	milk := addFood(t, m, "Milk")
	bread := addFood(t, m, "Bread")

	m = send(m, foodlist.UseFoodMsg{ID: milk.ID})
	require.Len(t, m.app.Food.Used(), 1)
	assert.Equal(t, "Milk", m.app.Food.Used()[0].Name)

	m = send(m, foodlist.DeleteFoodMsg{ID: bread.ID, Name: bread.Name})
	require.Equal(t, StateConfirmDelete, m.state)
	assert.Contains(t, m.View(), "Delete Bread?")

	m = send(m, runes("n"))
	assert.Equal(t, StateFood, m.state)
	assert.Len(t, m.app.Food.Items(), 1)

	m = send(m, foodlist.DeleteFoodMsg{ID: bread.ID, Name: bread.Name})
	m = send(m, runes("y"))
	assert.Equal(t, StateFood, m.state)
	assert.Empty(t, m.app.Food.Items())
	assert.Equal(t, "Deleted Bread", m.status)
}

func TestCarbonTab(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})

	m = send(m, runes("r"))
	assert.Empty(t, m.app.Carbon.Waste())

	_, err := m.app.Carbon.AddWaste("beef", 1)
	require.NoError(t, err)
	_, err = m.app.Carbon.AddWaste("rice", 2)
	require.NoError(t, err)

	m = send(m, runes("x"))
	require.Len(t, m.app.Carbon.Waste(), 1)
	assert.Equal(t, "beef", m.app.Carbon.Waste()[0].FoodType)
	assert.Equal(t, "Removed rice", m.status)
	assert.Contains(t, m.View(), "Beef")

	m = send(m, runes("r"))
	assert.Empty(t, m.app.Carbon.Waste())
	assert.Equal(t, 1, m.app.Carbon.Calculations())
	assert.False(t, m.statusIsError)
	assert.Contains(t, m.status, "kg CO2 saved")
}

func TestSuggestionResults(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, StateSuggest, m.state)

	m.loading = true
	m = send(m, suggestionsMsg{
		ingredients: "bread",
		suggestions: []models.Suggestion{
			{Title: "Bread pudding", Description: "Bake stale bread with custard."},
			{Title: "Croutons", Description: "Toast cubes with oil."},
		},
	})
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "Croutons")

	m = send(m, runes("2"))
	assert.Equal(t, 1, m.app.Suggest.Stats().SuggestionsSaved)
	assert.Equal(t, `Saved "Croutons"`, m.status)

	// Out of range picks are ignored.
	m = send(m, runes("9"))
	assert.Equal(t, 1, m.app.Suggest.Stats().SuggestionsSaved)
}

func TestPromptCancel(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, StateLearn, m.state)

	m = send(m, runes("i"))
	require.Equal(t, StatePrompt, m.state)
	assert.Contains(t, m.View(), "Topic:")

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateLearn, m.state)
	assert.False(t, m.loading)
}

func TestBadgeNotice(t *testing.T) {
	m := newTestModel(t)
	addFood(t, m, "Milk")

	select {
	case msg := <-m.notices:
		assert.Contains(t, msg, "Badge unlocked")
		m = send(m, noticeMsg(msg))
		assert.Equal(t, msg, m.status)
	default:
		t.Fatal("expected a badge notice")
	}
}

func TestBadgeNoticeMutedByProfile(t *testing.T) {
	m := newTestModel(t)
	_, err := m.app.Profile.UpdateSettings(models.ProfileSettings{Notifications: false})
	require.NoError(t, err)

	addFood(t, m, "Milk")
	assert.Empty(t, m.notices)
}

func TestBadgesView(t *testing.T) {
	m := newTestModel(t)
	addFood(t, m, "Milk")
	for i := 0; i < 4; i++ {
		m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	}
	require.Equal(t, StateBadges, m.state)
	assert.Contains(t, m.View(), "1 of 13 badges earned")
}

// slowBackend answers /api/suggestions only after release is closed.
func slowBackend(t *testing.T, started chan<- struct{}, release <-chan struct{}) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/suggestions", func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		json.NewEncoder(w).Encode(map[string]any{
			"status":      "success",
			"suggestions": []map[string]string{{"title": "Panzanella", "description": "Tomato and bread salad."}},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGenerateWhileReloading(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	cfg := config.Default()
	cfg.APIBaseURL = slowBackend(t, started, release).URL

	m := newTestModelWithConfig(t, cfg)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, StateSuggest, m.state)

	m = send(m, runes("i"))
	m = send(m, runes("bread"))
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.True(t, m.loading)
	require.NotNil(t, cmd)

	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()
	<-started

	// The update loop keeps reloading and rendering while the request is open.
	for i := 0; i < 3; i++ {
		m = send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
		m = send(m, tea.KeyMsg{Type: tea.KeyTab})
		m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	}
	assert.Empty(t, m.app.Suggest.History())
	close(release)

	m = send(m, <-result)
	assert.False(t, m.loading)
	assert.False(t, m.statusIsError, m.status)
	require.Len(t, m.app.Suggest.History(), 1)
	assert.Equal(t, "bread", m.app.Suggest.History()[0].Ingredients)
	assert.Equal(t, 1, m.app.Suggest.Stats().SuggestionsGenerated)
	assert.Contains(t, m.View(), "Panzanella")
}

func TestLearnResultRecordedOnArrival(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 3; i++ {
		m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	}
	require.Equal(t, StateLearn, m.state)

	m.loading = true
	m = send(m, learnMsg{topic: "composting", content: models.LearnContent{Title: "Composting Basics", Introduction: "Scraps become soil."}})
	assert.False(t, m.loading)
	require.Len(t, m.app.Learn.History(), 1)
	assert.Equal(t, "composting", m.app.Learn.History()[0].Topic)
	assert.Contains(t, m.View(), "Composting Basics")
}
