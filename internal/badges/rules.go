package badges

import (
	"sort"

	"github.com/tranaapp/trana/internal/models"
)

// Rule unlocks BadgeID once the counter Metric reaches Threshold.
type Rule struct {
	Metric    models.Metric
	Threshold float64
	BadgeID   string
}

// RuleSet maps each category to its rules.
type RuleSet map[models.BadgeCategory][]Rule

// DefaultRules returns the built-in unlock rules.
func DefaultRules() RuleSet {
	return RuleSet{
		models.CategoryFood: {
			{models.MetricTotalLoggedItems, 1, "food_logger_basic"},
			{models.MetricTotalLoggedItems, 5, "food_logger_intermediate"},
			{models.MetricTotalLoggedItems, 20, "food_logger_advanced"},
			{models.MetricUsedItemsCount, 3, "food_saver_basic"},
			{models.MetricUsedItemsCount, 10, "food_saver_intermediate"},
		},
		models.CategoryCarbon: {
			{models.MetricCarbonCalculations, 1, "carbon_basic"},
			{models.MetricCarbonCalculations, 5, "carbon_intermediate"},
			{models.MetricTotalSavedEmissionsKg, 10, "carbon_saver"},
		},
		models.CategoryAI: {
			{models.MetricSuggestionsGenerated, 1, "ai_basic"},
			{models.MetricSuggestionsGenerated, 3, "ai_intermediate"},
		},
		models.CategoryLearn: {
			{models.MetricTopicsLearned, 1, "learn_first_topic"},
			{models.MetricTopicsLearned, 5, "learn_five_topics"},
			{models.MetricTopicsLearned, 10, "learn_ten_topics"},
		},
	}
}

// ordered returns the category's rules by ascending threshold. Ties keep
// declaration order.
func (rs RuleSet) ordered(c models.BadgeCategory) []Rule {
	rules := make([]Rule, len(rs[c]))
	copy(rules, rs[c])
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Threshold < rules[j].Threshold
	})
	return rules
}
