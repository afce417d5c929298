// Package profile manages the user's name, settings, join date and the
// statistics aggregated from every other domain.
package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/tranaapp/trana/internal/badges"
	"github.com/tranaapp/trana/internal/constants"
	apperrors "github.com/tranaapp/trana/internal/errors"
	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/logger"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/state"
)

type Service struct {
	store *state.Store
	bus   *events.Bus
	now   func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store *state.Store, bus *events.Bus, opts ...Option) *Service {
	s := &Service{store: store, bus: bus, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Get() models.UserProfile {
	return state.Load(s.store, constants.KeyUserProfile, models.DefaultProfile())
}

func (s *Service) save(p models.UserProfile) error {
	if err := s.store.Save(constants.KeyUserProfile, p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	s.bus.PublishChange(s.store.Key(constants.KeyUserProfile))
	return nil
}

func (s *Service) UpdateName(name string) (models.UserProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.UserProfile{}, apperrors.Validation("name", "name cannot be empty")
	}
	p := s.Get()
	p.Name = name
	return p, s.save(p)
}

func (s *Service) UpdateSettings(settings models.ProfileSettings) (models.UserProfile, error) {
	p := s.Get()
	p.Settings = settings
	return p, s.save(p)
}

// NotificationsEnabled backs the notifier gate.
func (s *Service) NotificationsEnabled() bool {
	return s.Get().Settings.Notifications
}

// EnsureFirstVisit records the join date on first use and returns it.
// An existing date is never overwritten.
func (s *Service) EnsureFirstVisit() (time.Time, error) {
	var zero time.Time
	if t := state.Load(s.store, constants.KeyFirstVisit, zero); !t.IsZero() {
		return t, nil
	}
	now := s.now().UTC()
	if err := s.store.Save(constants.KeyFirstVisit, now); err != nil {
		return now, fmt.Errorf("failed to record first visit: %w", err)
	}
	return now, nil
}

// JoinDate renders the first visit like "March 2026".
func JoinDate(t time.Time) string {
	return t.Format("January 2006")
}

// Statistics reads every domain collection from the store.
func (s *Service) Statistics() models.Statistics {
	items := state.Load(s.store, constants.KeyFoodItems, []models.FoodItem{})
	used := state.Load(s.store, constants.KeyUsedItems, []models.UsedItem{})
	suggestions := state.Load(s.store, constants.KeySuggestionStats, models.SuggestionStats{})
	learn := state.Load(s.store, constants.KeyLearnStats, models.LearnStats{})
	earned := state.Load(s.store, constants.KeyBadges, []models.EarnedBadge{})
	progress := badges.ComputeProgress(earned)

	return models.Statistics{
		ItemsLogged:          len(items) + len(used),
		ItemsUsed:            len(used),
		ActiveItems:          len(items),
		CarbonCalculations:   state.Load(s.store, constants.KeyCarbonCalculations, 0),
		CarbonSavedKg:        state.Load(s.store, constants.KeyCarbonSavings, 0.0),
		SuggestionsGenerated: suggestions.SuggestionsGenerated,
		SuggestionsSaved:     suggestions.SuggestionsSaved,
		TopicsLearned:        learn.TopicsLearned,
		BadgesEarned:         progress.Earned,
		BadgesTotal:          progress.Total,
	}
}

func (s *Service) RecentBadges() []badges.Status {
	earned := state.Load(s.store, constants.KeyBadges, []models.EarnedBadge{})
	return badges.Recent(earned, constants.RecentBadgesCount)
}

// Reset removes every prefixed key and starts a new join date. It returns
// the number of keys removed.
func (s *Service) Reset() (int, error) {
	keys, err := s.store.Keys()
	if err != nil {
		return 0, fmt.Errorf("failed to list keys: %w", err)
	}
	for _, k := range keys {
		if err := s.store.RemoveKey(k); err != nil {
			return 0, fmt.Errorf("failed to remove %s: %w", k, err)
		}
	}
	logger.Info("Reset user data", "keys", len(keys))

	if err := s.store.Save(constants.KeyFirstVisit, s.now().UTC()); err != nil {
		return len(keys), fmt.Errorf("failed to record first visit: %w", err)
	}
	s.bus.PublishChange(s.store.Key(constants.KeyFirstVisit))
	return len(keys), nil
}
