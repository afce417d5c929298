package models

import "time"

type BadgeCategory string

const (
	CategoryFood   BadgeCategory = "food"
	CategoryCarbon BadgeCategory = "carbon"
	CategoryAI     BadgeCategory = "ai"
	CategoryLearn  BadgeCategory = "learn"
)

// BadgeCategories lists categories in presentation order.
var BadgeCategories = []BadgeCategory{CategoryFood, CategoryCarbon, CategoryAI, CategoryLearn}

// BadgeDefinition is a catalog entry. Never mutated at runtime.
type BadgeDefinition struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    BadgeCategory `json:"category"`
	Requirement string        `json:"requirement"`
	Color       string        `json:"backgroundColor"`
}

// EarnedBadge records a single award. At most one per ID.
type EarnedBadge struct {
	ID          string    `json:"id"`
	DateAwarded time.Time `json:"dateAwarded"`
}

// Metric names a domain counter used by unlock rules.
type Metric string

const (
	MetricTotalLoggedItems      Metric = "totalLoggedItems"
	MetricUsedItemsCount        Metric = "usedItemsCount"
	MetricCarbonCalculations    Metric = "carbonCalculations"
	MetricTotalSavedEmissionsKg Metric = "totalSavedEmissionsKg"
	MetricSuggestionsGenerated  Metric = "suggestionsGenerated"
	MetricSuggestionsSaved      Metric = "suggestionsSaved"
	MetricTopicsLearned         Metric = "topicsLearned"
)

// Counters is a snapshot of one domain's counters.
type Counters map[Metric]float64
