package constants

const (
	DefaultStoragePrefix = "trana_"
	// LegacyStoragePrefix was written by older food logger builds.
	LegacyStoragePrefix = "Trāṇa_"

	KeyFoodItems          = "food_items"
	KeyUsedItems          = "used_items"
	KeyWasteItems         = "waste_items"
	KeyCarbonSavings      = "carbon_savings"
	KeyCarbonCalculations = "carbon_calculations"
	KeySuggestionHistory  = "suggestionHistory"
	KeySuggestionStats    = "suggestionStats"
	KeyLearningHistory    = "learningHistory"
	KeyLearnStats         = "learnStats"
	KeyBadges             = "badges"
	KeyUserProfile        = "user_profile"
	KeyFirstVisit         = "first_visit"

	// LegacyKeyUserBadges held badges awarded by older AI suggestion builds.
	LegacyKeyUserBadges = "userBadges"

	SuggestionHistoryCap     = 20
	LearningHistoryCap       = 10
	DefaultExpiryWarningDays = 3
	RecentBadgesCount        = 3
	LearnSnippetLength       = 100

	CarKmPerKgCO2         = 4.0
	HomePowerDaysPerKgCO2 = 0.8
)

// DomainKeys lists every key suffix owned by a domain collection.
var DomainKeys = []string{
	KeyFoodItems,
	KeyUsedItems,
	KeyWasteItems,
	KeyCarbonSavings,
	KeyCarbonCalculations,
	KeySuggestionHistory,
	KeySuggestionStats,
	KeyLearningHistory,
	KeyLearnStats,
	KeyBadges,
	KeyUserProfile,
	KeyFirstVisit,
}
