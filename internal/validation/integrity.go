package validation

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tranaapp/trana/internal/badges"
	"github.com/tranaapp/trana/internal/constants"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/state"
	"github.com/tranaapp/trana/internal/utils"
)

// ConflictType represents the type of integrity problem
type ConflictType string

const (
	ConflictCorruptValue    ConflictType = "corrupt_value"
	ConflictDuplicateBadge  ConflictType = "duplicate_badge"
	ConflictUnknownBadge    ConflictType = "unknown_badge"
	ConflictHistoryOverCap  ConflictType = "history_over_cap"
	ConflictDuplicateItemID ConflictType = "duplicate_item_id"
	ConflictInvalidDate     ConflictType = "invalid_date"
	ConflictNegativeCounter ConflictType = "negative_counter"
	ConflictUnexpectedKey   ConflictType = "unexpected_key"
)

// Conflict represents a detected problem in the stored state
type Conflict struct {
	Type        ConflictType
	Description string
	Key         string
	Items       []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks the stored collections for problems that loading would
// silently paper over.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// decodeKey reports whether suffix holds a value decodable into out. A
// missing key counts as valid.
func decodeKey(st *state.Store, suffix string, out any, result *ValidationResult) bool {
	key := st.Key(suffix)
	raw, ok, err := st.Provider().Get(key)
	if err != nil {
		result.add(Conflict{Type: ConflictCorruptValue, Key: key, Description: fmt.Sprintf("%s could not be read: %v", key, err)})
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		result.add(Conflict{
			Type:        ConflictCorruptValue,
			Key:         key,
			Description: fmt.Sprintf("%s is corrupt and will load as empty: %v", key, err),
		})
		return false
	}
	return true
}

// ValidateState checks every known key under the store prefix.
func (v *Validator) ValidateState(st *state.Store) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	var earned []models.EarnedBadge
	if decodeKey(st, constants.KeyBadges, &earned, &result) {
		v.checkBadges(st.Key(constants.KeyBadges), earned, &result)
	}

	var items []models.FoodItem
	if decodeKey(st, constants.KeyFoodItems, &items, &result) {
		v.checkFoodItems(st.Key(constants.KeyFoodItems), items, &result)
	}
	var used []models.UsedItem
	decodeKey(st, constants.KeyUsedItems, &used, &result)

	var waste []models.WasteItem
	decodeKey(st, constants.KeyWasteItems, &waste, &result)

	var savings float64
	if decodeKey(st, constants.KeyCarbonSavings, &savings, &result) && savings < 0 {
		result.add(Conflict{Type: ConflictNegativeCounter, Key: st.Key(constants.KeyCarbonSavings), Description: fmt.Sprintf("carbon savings is negative (%.2f)", savings)})
	}
	var calcs int
	if decodeKey(st, constants.KeyCarbonCalculations, &calcs, &result) && calcs < 0 {
		result.add(Conflict{Type: ConflictNegativeCounter, Key: st.Key(constants.KeyCarbonCalculations), Description: fmt.Sprintf("carbon calculation count is negative (%d)", calcs)})
	}

	var suggestions []models.SuggestionEntry
	if decodeKey(st, constants.KeySuggestionHistory, &suggestions, &result) {
		checkCap(st.Key(constants.KeySuggestionHistory), len(suggestions), constants.SuggestionHistoryCap, &result)
	}
	var suggestionStats models.SuggestionStats
	decodeKey(st, constants.KeySuggestionStats, &suggestionStats, &result)

	var searches []models.SearchEntry
	if decodeKey(st, constants.KeyLearningHistory, &searches, &result) {
		checkCap(st.Key(constants.KeyLearningHistory), len(searches), constants.LearningHistoryCap, &result)
	}
	var learnStats models.LearnStats
	decodeKey(st, constants.KeyLearnStats, &learnStats, &result)

	var profile models.UserProfile
	decodeKey(st, constants.KeyUserProfile, &profile, &result)

	v.checkUnexpectedKeys(st, &result)
	return result
}

func (v *Validator) checkBadges(key string, earned []models.EarnedBadge, result *ValidationResult) {
	count := make(map[string]int)
	for _, b := range earned {
		count[b.ID]++
		if count[b.ID] == 1 {
			if _, ok := badges.Find(b.ID); !ok {
				result.add(Conflict{
					Type:        ConflictUnknownBadge,
					Key:         key,
					Description: fmt.Sprintf("earned badge %q is not in the catalog", b.ID),
					Items:       []string{b.ID},
				})
			}
		}
	}
	var dups []string
	for id, n := range count {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	for _, id := range dups {
		result.add(Conflict{
			Type:        ConflictDuplicateBadge,
			Key:         key,
			Description: fmt.Sprintf("badge %q is recorded %d times", id, count[id]),
			Items:       []string{id},
		})
	}
}

func (v *Validator) checkFoodItems(key string, items []models.FoodItem, result *ValidationResult) {
	ids := make(map[string][]string)
	for _, item := range items {
		ids[item.ID] = append(ids[item.ID], item.Name)
		if _, err := utils.ParseDate(item.ExpiryDate); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Key:         key,
				Description: fmt.Sprintf("item %q has invalid expiry date %q", item.Name, item.ExpiryDate),
				Items:       []string{item.ID},
			})
		}
	}
	var dupIDs []string
	for id, names := range ids {
		if len(names) > 1 {
			dupIDs = append(dupIDs, id)
		}
	}
	sort.Strings(dupIDs)
	for _, id := range dupIDs {
		result.add(Conflict{
			Type:        ConflictDuplicateItemID,
			Key:         key,
			Description: fmt.Sprintf("item id %q is shared by %v", id, ids[id]),
			Items:       ids[id],
		})
	}
}

func checkCap(key string, n, limit int, result *ValidationResult) {
	if n > limit {
		result.add(Conflict{
			Type:        ConflictHistoryOverCap,
			Key:         key,
			Description: fmt.Sprintf("%s holds %d entries, more than its cap of %d", key, n, limit),
		})
	}
}

func (v *Validator) checkUnexpectedKeys(st *state.Store, result *ValidationResult) {
	known := make(map[string]bool, len(constants.DomainKeys))
	for _, suffix := range constants.DomainKeys {
		known[st.Key(suffix)] = true
	}
	keys, err := st.Keys()
	if err != nil {
		return
	}
	for _, k := range keys {
		if !known[k] {
			result.add(Conflict{
				Type:        ConflictUnexpectedKey,
				Key:         k,
				Description: fmt.Sprintf("%s is not used by any collection", k),
			})
		}
	}
}
