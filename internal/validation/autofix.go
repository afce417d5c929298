package validation

import (
	"fmt"

	"github.com/tranaapp/trana/internal/constants"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/state"
)

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// AutoFix repairs the conflicts it knows how to repair: duplicate badges
// keep their earliest record, over-cap histories drop their oldest entries
// and corrupt values are removed so they stop masking new writes.
func AutoFix(st *state.Store, conflicts []Conflict) ([]FixAction, error) {
	var actions []FixAction
	for _, c := range conflicts {
		var action string
		switch c.Type {
		case ConflictDuplicateBadge:
			n, err := dedupeBadges(st)
			if err != nil {
				return actions, err
			}
			if n == 0 {
				continue
			}
			action = fmt.Sprintf("Removed %d duplicate badge record(s)", n)
		case ConflictHistoryOverCap:
			n, err := trimHistory(st, c.Key)
			if err != nil {
				return actions, err
			}
			action = fmt.Sprintf("Dropped %d oldest entries from %s", n, c.Key)
		case ConflictCorruptValue:
			if err := st.RemoveKey(c.Key); err != nil {
				return actions, err
			}
			action = fmt.Sprintf("Removed corrupt value %s", c.Key)
		default:
			continue
		}
		actions = append(actions, FixAction{Action: action, SourceConflict: c})
	}
	return actions, nil
}

func dedupeBadges(st *state.Store) (int, error) {
	earned := state.Load(st, constants.KeyBadges, []models.EarnedBadge{})
	first := make(map[string]int)
	var out []models.EarnedBadge
	for _, b := range earned {
		if i, ok := first[b.ID]; ok {
			if b.DateAwarded.Before(out[i].DateAwarded) {
				out[i] = b
			}
			continue
		}
		first[b.ID] = len(out)
		out = append(out, b)
	}
	removed := len(earned) - len(out)
	if removed == 0 {
		return 0, nil
	}
	return removed, st.Save(constants.KeyBadges, out)
}

// History lists are newest first, so trimming keeps the head.
func trimHistory(st *state.Store, key string) (int, error) {
	switch key {
	case st.Key(constants.KeySuggestionHistory):
		h := state.Load(st, constants.KeySuggestionHistory, []models.SuggestionEntry{})
		if len(h) <= constants.SuggestionHistoryCap {
			return 0, nil
		}
		return len(h) - constants.SuggestionHistoryCap, st.Save(constants.KeySuggestionHistory, h[:constants.SuggestionHistoryCap])
	case st.Key(constants.KeyLearningHistory):
		h := state.Load(st, constants.KeyLearningHistory, []models.SearchEntry{})
		if len(h) <= constants.LearningHistoryCap {
			return 0, nil
		}
		return len(h) - constants.LearningHistoryCap, st.Save(constants.KeyLearningHistory, h[:constants.LearningHistoryCap])
	}
	return 0, fmt.Errorf("no history stored under %s", key)
}
