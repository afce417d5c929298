// Package food manages the food inventory and the history of used items.
package food

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/tranaapp/trana/internal/constants"
	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/state"
	"github.com/tranaapp/trana/internal/utils"
	"github.com/tranaapp/trana/internal/validation"
)

// BadgeEvaluator awards badges for a category's counters.
type BadgeEvaluator interface {
	Evaluate(models.BadgeCategory, models.Counters) ([]models.BadgeDefinition, error)
}

// NewItem is the input for Add.
type NewItem struct {
	Name            string  `validate:"required,max=100"`
	Category        string  `validate:"required"`
	Quantity        float64 `validate:"gt=0"`
	Unit            string  `validate:"required"`
	StorageLocation string  `validate:"required"`
	DateAdded       string  `validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate      string  `validate:"required,datetime=2006-01-02"`
	Notes           string  `validate:"max=500"`
}

type Inventory struct {
	store       *state.Store
	badges      BadgeEvaluator
	bus         *events.Bus
	now         func() time.Time
	newID       func() string
	warningDays int

	items []models.FoodItem
	used  []models.UsedItem
}

type Option func(*Inventory)

func WithClock(now func() time.Time) Option {
	return func(inv *Inventory) { inv.now = now }
}

func WithIDGenerator(f func() string) Option {
	return func(inv *Inventory) { inv.newID = f }
}

// WithWarningDays sets how many days ahead an item counts as expiring.
func WithWarningDays(days int) Option {
	return func(inv *Inventory) { inv.warningDays = days }
}

func New(store *state.Store, evaluator BadgeEvaluator, bus *events.Bus, opts ...Option) *Inventory {
	inv := &Inventory{
		store:       store,
		badges:      evaluator,
		bus:         bus,
		now:         time.Now,
		newID:       uuid.NewString,
		warningDays: constants.DefaultExpiryWarningDays,
	}
	for _, opt := range opts {
		opt(inv)
	}
	inv.Load()
	return inv
}

// Load replaces the in-memory collections with the stored ones.
func (inv *Inventory) Load() {
	inv.items = state.Load(inv.store, constants.KeyFoodItems, []models.FoodItem{})
	inv.used = state.Load(inv.store, constants.KeyUsedItems, []models.UsedItem{})
}

// Persist writes both collections.
func (inv *Inventory) Persist() error {
	if err := inv.store.Save(constants.KeyFoodItems, inv.items); err != nil {
		return fmt.Errorf("failed to save food items: %w", err)
	}
	if err := inv.store.Save(constants.KeyUsedItems, inv.used); err != nil {
		return fmt.Errorf("failed to save used items: %w", err)
	}
	inv.bus.PublishChange(inv.store.Key(constants.KeyFoodItems))
	return nil
}

// Counters feeds the food badge rules.
func (inv *Inventory) Counters() models.Counters {
	return models.Counters{
		models.MetricTotalLoggedItems: float64(len(inv.items) + len(inv.used)),
		models.MetricUsedItemsCount:   float64(len(inv.used)),
	}
}

func (inv *Inventory) evaluate() ([]models.BadgeDefinition, error) {
	if inv.badges == nil {
		return nil, nil
	}
	return inv.badges.Evaluate(models.CategoryFood, inv.Counters())
}

// Add validates in, appends a new active item and persists. It returns the
// item and any badges the addition unlocked.
func (inv *Inventory) Add(in NewItem) (models.FoodItem, []models.BadgeDefinition, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := validation.Input(in); err != nil {
		return models.FoodItem{}, nil, err
	}

	now := inv.now()
	if in.DateAdded == "" {
		in.DateAdded = now.Format(constants.DateFormat)
	}
	item := models.FoodItem{
		ID:              inv.newID(),
		Name:            in.Name,
		Category:        in.Category,
		Quantity:        in.Quantity,
		Unit:            in.Unit,
		StorageLocation: in.StorageLocation,
		DateAdded:       in.DateAdded,
		ExpiryDate:      in.ExpiryDate,
		Notes:           in.Notes,
		AddedTimestamp:  now.UTC(),
	}

	inv.items = append(inv.items, item)
	if err := inv.Persist(); err != nil {
		inv.items = inv.items[:len(inv.items)-1]
		return models.FoodItem{}, nil, err
	}
	unlocked, err := inv.evaluate()
	return item, unlocked, err
}

// MarkUsed moves the given active items to the used history. Unknown ids are
// ignored; the moved items are returned.
func (inv *Inventory) MarkUsed(ids ...string) ([]models.UsedItem, []models.BadgeDefinition, error) {
	want := toSet(ids)
	now := inv.now().UTC()

	var moved []models.UsedItem
	kept := inv.items[:0:0]
	for _, item := range inv.items {
		if want[item.ID] {
			moved = append(moved, models.UsedItem{FoodItem: item, UsedTimestamp: now})
			continue
		}
		kept = append(kept, item)
	}
	if len(moved) == 0 {
		return nil, nil, nil
	}

	prevItems, prevUsed := inv.items, inv.used
	inv.items = kept
	inv.used = append(append([]models.UsedItem{}, inv.used...), moved...)
	if err := inv.Persist(); err != nil {
		inv.items, inv.used = prevItems, prevUsed
		return nil, nil, err
	}
	unlocked, err := inv.evaluate()
	return moved, unlocked, err
}

// Delete removes active items without a history trace and returns how many
// were removed.
func (inv *Inventory) Delete(ids ...string) (int, error) {
	want := toSet(ids)
	kept := inv.items[:0:0]
	for _, item := range inv.items {
		if !want[item.ID] {
			kept = append(kept, item)
		}
	}
	removed := len(inv.items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	prev := inv.items
	inv.items = kept
	if err := inv.Persist(); err != nil {
		inv.items = prev
		return 0, err
	}
	return removed, nil
}

// ClearAll empties the active inventory. The used history is kept.
func (inv *Inventory) ClearAll() (int, error) {
	ids := make([]string, len(inv.items))
	for i, item := range inv.items {
		ids[i] = item.ID
	}
	return inv.Delete(ids...)
}

func (inv *Inventory) Items() []models.FoodItem {
	out := make([]models.FoodItem, len(inv.items))
	copy(out, inv.items)
	return out
}

func (inv *Inventory) Used() []models.UsedItem {
	out := make([]models.UsedItem, len(inv.used))
	copy(out, inv.used)
	return out
}

// Get returns the active item with id.
func (inv *Inventory) Get(id string) (models.FoodItem, bool) {
	for _, item := range inv.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.FoodItem{}, false
}

type itemNames []models.FoodItem

func (n itemNames) String(i int) string { return n[i].Name }
func (n itemNames) Len() int            { return len(n) }

// Find resolves ref to active items: an exact id or id prefix first, then a
// fuzzy match on names, best match first.
func (inv *Inventory) Find(ref string) []models.FoodItem {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	if item, ok := inv.Get(ref); ok {
		return []models.FoodItem{item}
	}
	var byPrefix []models.FoodItem
	for _, item := range inv.items {
		if len(ref) >= 4 && strings.HasPrefix(item.ID, ref) {
			byPrefix = append(byPrefix, item)
		}
	}
	if len(byPrefix) > 0 {
		return byPrefix
	}

	matches := fuzzy.FindFrom(ref, itemNames(inv.items))
	out := make([]models.FoodItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, inv.items[m.Index])
	}
	return out
}

// Status classifies item relative to now.
func (inv *Inventory) Status(item models.FoodItem) models.ExpiryStatus {
	now := inv.now()
	switch {
	case utils.IsExpired(item.ExpiryDate, now):
		return models.ExpiryExpired
	case utils.IsWithinDays(item.ExpiryDate, inv.warningDays, now):
		return models.ExpiryExpiring
	default:
		return models.ExpiryFresh
	}
}

// ExpiryText describes how far item is from its expiry date.
func (inv *Inventory) ExpiryText(item models.FoodItem) string {
	days, err := utils.DaysUntil(item.ExpiryDate, inv.now())
	if err != nil {
		return "Unknown expiry"
	}
	return utils.ExpiryText(days)
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// sortByExpiry orders items soonest first. Unparseable dates sort last.
func sortByExpiry(items []models.FoodItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, errA := utils.ParseDate(items[i].ExpiryDate)
		b, errB := utils.ParseDate(items[j].ExpiryDate)
		if errA != nil || errB != nil {
			return errA == nil
		}
		return a.Before(b)
	})
}
