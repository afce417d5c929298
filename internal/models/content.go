package models

import "time"

type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SuggestionEntry is one suggestion history record. Generated batches carry
// Suggestions; an individually saved suggestion carries Title and Description.
type SuggestionEntry struct {
	Ingredients string       `json:"ingredients"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Saved reports whether the entry is a single saved suggestion.
func (e SuggestionEntry) Saved() bool {
	return len(e.Suggestions) == 0 && e.Title != ""
}

type SuggestionStats struct {
	SuggestionsGenerated int `json:"suggestionsGenerated"`
	SuggestionsSaved     int `json:"suggestionsSaved"`
}

// LearnContent is the educational material returned for a topic.
type LearnContent struct {
	Title        string   `json:"title"`
	Introduction string   `json:"introduction"`
	Content      string   `json:"content"`
	Tips         []string `json:"tips"`
	ActionSteps  []string `json:"actionSteps"`
}

type SearchEntry struct {
	ID        int64     `json:"id"`
	Topic     string    `json:"topic"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
	Snippet   string    `json:"snippet"`
}

type LearnStats struct {
	TopicsLearned int `json:"topicsLearned"`
	TopicsSaved   int `json:"topicsSaved"`
}
