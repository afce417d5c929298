// Package suggest asks the backend for ways to use leftover ingredients and
// keeps a capped history of what was generated and saved.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tranaapp/trana/internal/constants"
	apperrors "github.com/tranaapp/trana/internal/errors"
	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/logger"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/state"
)

// Backend is the slice of the AI client this package needs.
type Backend interface {
	TestConnection(ctx context.Context) (string, error)
	Suggestions(ctx context.Context, ingredients string) ([]models.Suggestion, error)
}

type BadgeEvaluator interface {
	Evaluate(models.BadgeCategory, models.Counters) ([]models.BadgeDefinition, error)
}

type Service struct {
	store   *state.Store
	backend Backend
	badges  BadgeEvaluator
	bus     *events.Bus
	now     func() time.Time

	history []models.SuggestionEntry
	stats   models.SuggestionStats
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store *state.Store, backend Backend, evaluator BadgeEvaluator, bus *events.Bus, opts ...Option) *Service {
	s := &Service{
		store:   store,
		backend: backend,
		badges:  evaluator,
		bus:     bus,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

func (s *Service) Load() {
	s.history = state.Load(s.store, constants.KeySuggestionHistory, []models.SuggestionEntry{})
	s.stats = state.Load(s.store, constants.KeySuggestionStats, models.SuggestionStats{})
}

func (s *Service) Persist() error {
	if err := s.store.Save(constants.KeySuggestionHistory, s.history); err != nil {
		return fmt.Errorf("failed to save suggestion history: %w", err)
	}
	if err := s.store.Save(constants.KeySuggestionStats, s.stats); err != nil {
		return fmt.Errorf("failed to save suggestion stats: %w", err)
	}
	s.bus.PublishChange(s.store.Key(constants.KeySuggestionHistory))
	return nil
}

func (s *Service) Counters() models.Counters {
	return models.Counters{
		models.MetricSuggestionsGenerated: float64(s.stats.SuggestionsGenerated),
		models.MetricSuggestionsSaved:     float64(s.stats.SuggestionsSaved),
	}
}

// Probe reports whether the backend answers.
func (s *Service) Probe(ctx context.Context) (string, error) {
	return s.backend.TestConnection(ctx)
}

// Generate fetches suggestions for a free-text ingredient list and records
// them. Nothing is recorded when the backend fails.
func (s *Service) Generate(ctx context.Context, ingredients string) ([]models.Suggestion, []models.BadgeDefinition, error) {
	suggestions, err := s.Fetch(ctx, ingredients)
	if err != nil {
		return nil, nil, err
	}
	unlocked, err := s.Record(ingredients, suggestions)
	return suggestions, unlocked, err
}

// Fetch only calls the backend and leaves the history alone, so it may run
// off the goroutine that owns the service.
func (s *Service) Fetch(ctx context.Context, ingredients string) ([]models.Suggestion, error) {
	ingredients = strings.TrimSpace(ingredients)
	if ingredients == "" {
		return nil, apperrors.Validation("ingredients", "please enter some ingredients first")
	}
	suggestions, err := s.backend.Suggestions(ctx, ingredients)
	if err != nil {
		return nil, err
	}
	logger.Debug("Received suggestions", "count", len(suggestions))
	return suggestions, nil
}

// Record adds a generated batch to the history and evaluates AI badges.
func (s *Service) Record(ingredients string, suggestions []models.Suggestion) ([]models.BadgeDefinition, error) {
	prevHistory, prevStats := s.history, s.stats
	s.push(models.SuggestionEntry{
		Ingredients: strings.TrimSpace(ingredients),
		Suggestions: suggestions,
		Timestamp:   s.now(),
	})
	s.stats.SuggestionsGenerated++
	if err := s.Persist(); err != nil {
		s.history, s.stats = prevHistory, prevStats
		return nil, err
	}
	return s.evaluate()
}

// Save records one suggestion on its own at the front of the history.
func (s *Service) Save(ingredients string, suggestion models.Suggestion) error {
	if strings.TrimSpace(suggestion.Title) == "" {
		return apperrors.Validation("title", "suggestion has no title")
	}
	prevHistory, prevStats := s.history, s.stats
	s.push(models.SuggestionEntry{
		Ingredients: strings.TrimSpace(ingredients),
		Title:       suggestion.Title,
		Description: suggestion.Description,
		Timestamp:   s.now(),
	})
	s.stats.SuggestionsSaved++
	if err := s.Persist(); err != nil {
		s.history, s.stats = prevHistory, prevStats
		return err
	}
	return nil
}

// push inserts at the front and evicts from the back past the cap.
func (s *Service) push(e models.SuggestionEntry) {
	next := make([]models.SuggestionEntry, 0, len(s.history)+1)
	next = append(next, e)
	next = append(next, s.history...)
	if len(next) > constants.SuggestionHistoryCap {
		next = next[:constants.SuggestionHistoryCap]
	}
	s.history = next
}

func (s *Service) evaluate() ([]models.BadgeDefinition, error) {
	if s.badges == nil {
		return nil, nil
	}
	return s.badges.Evaluate(models.CategoryAI, s.Counters())
}

// History returns entries newest first.
func (s *Service) History() []models.SuggestionEntry {
	out := make([]models.SuggestionEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Entry returns the history entry at index, newest first.
func (s *Service) Entry(index int) (models.SuggestionEntry, error) {
	if index < 0 || index >= len(s.history) {
		return models.SuggestionEntry{}, apperrors.Validation("index", fmt.Sprintf("no history entry at position %d", index+1))
	}
	return s.history[index], nil
}

func (s *Service) Stats() models.SuggestionStats {
	return s.stats
}
