// Package learn fetches educational content about food waste topics and
// keeps a short search history.
package learn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/tranaapp/trana/internal/aiclient"
	"github.com/tranaapp/trana/internal/constants"
	apperrors "github.com/tranaapp/trana/internal/errors"
	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/state"
	"github.com/tranaapp/trana/internal/utils"
)

type Backend interface {
	TestConnection(ctx context.Context) (string, error)
	LearnContent(ctx context.Context, topic string) (models.LearnContent, error)
}

type BadgeEvaluator interface {
	Evaluate(models.BadgeCategory, models.Counters) ([]models.BadgeDefinition, error)
}

// Topic is a suggested starting point shown before the user searches.
type Topic struct {
	Name string
	Icon string
}

var popularTopics = []Topic{
	{"Composting Basics", "🌱"},
	{"Food Storage Tips", "🥫"},
	{"Zero Waste Cooking", "🍲"},
	{"Reducing Food Waste", "♻️"},
	{"Meal Planning", "📝"},
	{"Preserving Methods", "🥭"},
}

func PopularTopics() []Topic {
	out := make([]Topic, len(popularTopics))
	copy(out, popularTopics)
	return out
}

// writeClipboard is swapped in tests; headless machines have no clipboard.
var writeClipboard = clipboard.WriteAll

type Service struct {
	store   *state.Store
	backend Backend
	badges  BadgeEvaluator
	bus     *events.Bus
	now     func() time.Time

	history []models.SearchEntry
	stats   models.LearnStats
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
	s.history = state.Load(s.store, constants.KeyLearningHistory, []models.SearchEntry{})
	s.stats = state.Load(s.store, constants.KeyLearnStats, models.LearnStats{})
}

func (s *Service) Persist() error {
	if err := s.store.Save(constants.KeyLearningHistory, s.history); err != nil {
		return fmt.Errorf("failed to save learning history: %w", err)
	}
	if err := s.store.Save(constants.KeyLearnStats, s.stats); err != nil {
		return fmt.Errorf("failed to save learn stats: %w", err)
	}
	s.bus.PublishChange(s.store.Key(constants.KeyLearningHistory))
	return nil
}

func (s *Service) Counters() models.Counters {
	return models.Counters{
		models.MetricTopicsLearned: float64(s.stats.TopicsLearned),
	}
}

func (s *Service) Probe(ctx context.Context) (string, error) {
	return s.backend.TestConnection(ctx)
}

// Learn fetches content for topic and records the search. A topic the
// backend refuses comes back as a ServiceError with Rejected set.
func (s *Service) Learn(ctx context.Context, topic string) (models.LearnContent, []models.BadgeDefinition, error) {
	content, err := s.Fetch(ctx, topic)
	if err != nil {
		return models.LearnContent{}, nil, err
	}
	unlocked, err := s.Record(topic, content)
	return content, unlocked, err
}

// Fetch asks the backend for content without touching the history.
func (s *Service) Fetch(ctx context.Context, topic string) (models.LearnContent, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return models.LearnContent{}, apperrors.Validation("topic", "please enter a topic to learn about")
	}
	return s.backend.LearnContent(ctx, topic)
}

// Record adds the search to the history and evaluates learn badges.
func (s *Service) Record(topic string, content models.LearnContent) ([]models.BadgeDefinition, error) {
	prevHistory, prevStats := s.history, s.stats
	s.push(s.entryFor(strings.TrimSpace(topic), content))
	s.stats.TopicsLearned++
	if err := s.Persist(); err != nil {
		s.history, s.stats = prevHistory, prevStats
		return nil, err
	}
	if s.badges == nil {
		return nil, nil
	}
	return s.badges.Evaluate(models.CategoryLearn, s.Counters())
}

func (s *Service) entryFor(topic string, content models.LearnContent) models.SearchEntry {
	now := s.now()
	title := content.Title
	if title == "" {
		title = topic
	}
	snippet := aiclient.PlainText(content.Introduction)
	if snippet == "" {
		snippet = utils.Truncate(aiclient.PlainText(content.Content), constants.LearnSnippetLength)
	}
	return models.SearchEntry{
		ID:        s.nextID(now),
		Topic:     topic,
		Title:     title,
		Timestamp: now,
		Snippet:   snippet,
	}
}

// nextID keeps the millisecond ids of stored history and bumps past the
// largest one when two searches land in the same millisecond.
func (s *Service) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	for _, e := range s.history {
		if e.ID >= id {
			id = e.ID + 1
		}
	}
	return id
}

func (s *Service) push(e models.SearchEntry) {
	next := make([]models.SearchEntry, 0, len(s.history)+1)
	next = append(next, e)
	next = append(next, s.history...)
	if len(next) > constants.LearningHistoryCap {
		next = next[:constants.LearningHistoryCap]
	}
	s.history = next
}

// Save counts content the user kept for later.
func (s *Service) Save() error {
	s.stats.TopicsSaved++
	if err := s.Persist(); err != nil {
		s.stats.TopicsSaved--
		return err
	}
	return nil
}

// ShareText renders content as plain text for sharing.
func ShareText(topic string, content models.LearnContent) string {
	title := content.Title
	if title == "" {
		title = topic
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(aiclient.PlainText(content.Introduction))
	b.WriteString("\n\n")
	b.WriteString(aiclient.PlainText(content.Content))
	b.WriteString("\n\nLearned from ")
	b.WriteString(constants.DisplayName)
	b.WriteString(" - Rescuing Food, Sustaining Life")
	return b.String()
}

// Share copies content to the system clipboard.
func Share(topic string, content models.LearnContent) error {
	if err := writeClipboard(ShareText(topic, content)); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

func (s *Service) History() []models.SearchEntry {
	out := make([]models.SearchEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Lookup finds a history entry by id.
func (s *Service) Lookup(id int64) (models.SearchEntry, bool) {
	for _, e := range s.history {
		if e.ID == id {
			return e, true
		}
	}
	return models.SearchEntry{}, false
}

func (s *Service) Stats() models.LearnStats {
	return s.stats
}
