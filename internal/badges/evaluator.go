package badges

import (
	"fmt"
	"time"

	"github.com/tranaapp/trana/internal/constants"
	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/logger"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/state"
)

// Evaluator owns the earned-badges collection. Every domain awards badges
// through it.
type Evaluator struct {
	store   *state.Store
	bus     *events.Bus
	rules   RuleSet
	catalog Catalog
	now     func() time.Time
}

type Option func(*Evaluator)

func WithRules(rs RuleSet) Option {
	return func(e *Evaluator) { e.rules = rs }
}

func WithCatalog(c Catalog) Option {
	return func(e *Evaluator) { e.catalog = c }
}

func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

func NewEvaluator(store *state.Store, bus *events.Bus, opts ...Option) *Evaluator {
	e := &Evaluator{
		store:   store,
		bus:     bus,
		rules:   DefaultRules(),
		catalog: Static,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Earned loads the earned-badge records. A corrupt value loads as empty.
func (e *Evaluator) Earned() []models.EarnedBadge {
	return state.Load(e.store, constants.KeyBadges, []models.EarnedBadge{})
}

// Evaluate awards every badge of category whose rule is satisfied by
// counters and that has not been earned yet. Newly earned badges are
// persisted before any notification is published; they are returned in
// ascending threshold order.
func (e *Evaluator) Evaluate(category models.BadgeCategory, counters models.Counters) ([]models.BadgeDefinition, error) {
	earned := e.Earned()
	have := make(map[string]bool, len(earned))
	for _, b := range earned {
		have[b.ID] = true
	}

	var unlocked []models.BadgeDefinition
	for _, rule := range e.rules.ordered(category) {
		if counters[rule.Metric] < rule.Threshold || have[rule.BadgeID] {
			continue
		}
		def, ok := e.catalog.Find(rule.BadgeID)
		if !ok {
			logger.Warn("Skipping unlock rule for unknown badge", "badge", rule.BadgeID, "category", category)
			continue
		}
		have[def.ID] = true
		earned = append(earned, models.EarnedBadge{ID: def.ID, DateAwarded: e.now()})
		unlocked = append(unlocked, def)
	}

	if len(unlocked) == 0 {
		return nil, nil
	}
	if err := e.store.Save(constants.KeyBadges, earned); err != nil {
		return nil, fmt.Errorf("failed to save earned badges: %w", err)
	}
	for _, def := range unlocked {
		logger.Info("Badge unlocked", "badge", def.ID)
		e.bus.PublishBadge(def)
	}
	e.bus.PublishChange(e.store.Key(constants.KeyBadges))
	return unlocked, nil
}

// Award grants a single badge outside the rule table, for example when
// importing legacy data. It returns false if the badge was already earned.
func (e *Evaluator) Award(id string, at time.Time) (bool, error) {
	def, ok := e.catalog.Find(id)
	if !ok {
		return false, fmt.Errorf("unknown badge %q", id)
	}
	earned := e.Earned()
	for _, b := range earned {
		if b.ID == id {
			return false, nil
		}
	}
	if at.IsZero() {
		at = e.now()
	}
	earned = append(earned, models.EarnedBadge{ID: def.ID, DateAwarded: at})
	if err := e.store.Save(constants.KeyBadges, earned); err != nil {
		return false, fmt.Errorf("failed to save earned badges: %w", err)
	}
	e.bus.PublishChange(e.store.Key(constants.KeyBadges))
	return true, nil
}
