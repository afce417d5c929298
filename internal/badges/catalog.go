// Package badges holds the static badge catalog, the unlock rules per
// category and the evaluator that awards badges at most once.
package badges

import "github.com/tranaapp/trana/internal/models"

var catalog = []models.BadgeDefinition{
	{ID: "food_logger_basic", Title: "Logger Novice", Description: "Logged your first food item", Icon: "📝", Category: models.CategoryFood, Requirement: "Log 1 food item", Color: "#e0f7fa"},
	{ID: "food_logger_intermediate", Title: "Inventory Master", Description: "Logged 5 or more food items", Icon: "📚", Category: models.CategoryFood, Requirement: "Log 5 food items", Color: "#b2ebf2"},
	{ID: "food_logger_advanced", Title: "Tracking Pro", Description: "Logged 20 or more food items", Icon: "📊", Category: models.CategoryFood, Requirement: "Log 20 food items", Color: "#80deea"},
	{ID: "food_saver_basic", Title: "Food Saver", Description: "Used 3 or more food items before expiry", Icon: "🍎", Category: models.CategoryFood, Requirement: "Use 3 items before they expire", Color: "#e8f5e9"},
	{ID: "food_saver_intermediate", Title: "Waste Warrior", Description: "Used 10 or more food items before expiry", Icon: "🥕", Category: models.CategoryFood, Requirement: "Use 10 items before they expire", Color: "#c8e6c9"},
	{ID: "carbon_basic", Title: "Carbon Counter", Description: "Used the carbon calculator for the first time", Icon: "🔢", Category: models.CategoryCarbon, Requirement: "Calculate carbon impact once", Color: "#f1f8e9"},
	{ID: "carbon_intermediate", Title: "Climate Champion", Description: "Used the carbon calculator 5 times", Icon: "🌡️", Category: models.CategoryCarbon, Requirement: "Calculate carbon impact 5 times", Color: "#dcedc8"},
	{ID: "carbon_saver", Title: "Earth Protector", Description: "Saved 10kg of CO₂ emissions", Icon: "🌍", Category: models.CategoryCarbon, Requirement: "Save 10kg of CO₂ emissions", Color: "#c5e1a5"},
	{ID: "ai_basic", Title: "AI Apprentice", Description: "Generated your first AI suggestion", Icon: "💡", Category: models.CategoryAI, Requirement: "Get 1 AI suggestion", Color: "#fff8e1"},
	{ID: "ai_intermediate", Title: "AI Expert", Description: "Generated 3 or more AI suggestions", Icon: "🤖", Category: models.CategoryAI, Requirement: "Get 3 AI suggestions", Color: "#ffecb3"},
	{ID: "learn_first_topic", Title: "Curious Mind", Description: "Learned about your first food waste topic", Icon: "🔍", Category: models.CategoryLearn, Requirement: "Learn 1 topic", Color: "#ede7f6"},
	{ID: "learn_five_topics", Title: "Knowledge Seeker", Description: "Learned about 5 food waste topics", Icon: "📖", Category: models.CategoryLearn, Requirement: "Learn 5 topics", Color: "#d1c4e9"},
	{ID: "learn_ten_topics", Title: "Waste Scholar", Description: "Learned about 10 food waste topics", Icon: "🎓", Category: models.CategoryLearn, Requirement: "Learn 10 topics", Color: "#b39ddb"},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, b := range catalog {
		m[b.ID] = i
	}
	return m
}()

// All returns every badge definition in presentation order. The slice is a copy.
func All() []models.BadgeDefinition {
	out := make([]models.BadgeDefinition, len(catalog))
	copy(out, catalog)
	return out
}

func Find(id string) (models.BadgeDefinition, bool) {
	i, ok := byID[id]
	if !ok {
		return models.BadgeDefinition{}, false
	}
	return catalog[i], true
}

// ByCategory returns the definitions of one category in presentation order.
func ByCategory(c models.BadgeCategory) []models.BadgeDefinition {
	var out []models.BadgeDefinition
	for _, b := range catalog {
		if b.Category == c {
			out = append(out, b)
		}
	}
	return out
}

// Catalog resolves badge ids. The evaluator takes one so tests can simulate
// a rule table that drifted from the definitions.
type Catalog interface {
	Find(id string) (models.BadgeDefinition, bool)
}

type staticCatalog struct{}

func (staticCatalog) Find(id string) (models.BadgeDefinition, bool) { return Find(id) }

// Static is the built-in catalog.
var Static Catalog = staticCatalog{}
