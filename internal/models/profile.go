package models

type ProfileSettings struct {
	Notifications bool `json:"notifications"`
	WeeklySummary bool `json:"weeklySummary"`
	DarkMode      bool `json:"darkMode"`
}

type UserProfile struct {
	Name     string          `json:"name"`
	Settings ProfileSettings `json:"settings"`
}

// DefaultProfile returns the profile used before the user saves one.
func DefaultProfile() UserProfile {
	return UserProfile{
		Settings: ProfileSettings{Notifications: true},
	}
}

// Statistics aggregates counters across every domain for the profile page.
type Statistics struct {
	ItemsLogged          int     `json:"itemsLogged"`
	ItemsUsed            int     `json:"itemsUsed"`
	ActiveItems          int     `json:"activeItems"`
	CarbonCalculations   int     `json:"carbonCalculations"`
	CarbonSavedKg        float64 `json:"carbonSavedKg"`
	SuggestionsGenerated int     `json:"suggestionsGenerated"`
	SuggestionsSaved     int     `json:"suggestionsSaved"`
	TopicsLearned        int     `json:"topicsLearned"`
	BadgesEarned         int     `json:"badgesEarned"`
	BadgesTotal          int     `json:"badgesTotal"`
}
