// Package legacy copies data written by older builds, under the "Trāṇa_"
// prefix or with no prefix at all, into the canonical key space.
package legacy

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tranaapp/trana/internal/badges"
	"github.com/tranaapp/trana/internal/constants"
	"github.com/tranaapp/trana/internal/logger"
	"github.com/tranaapp/trana/internal/state"
)

// Awarder grants a badge at a given time, reporting false if it was
// already earned.
type Awarder interface {
	Award(id string, at time.Time) (bool, error)
}

// Report lists what an import did, by full key or badge id.
type Report struct {
	Copied  []string
	Skipped []string
	Badges  []string
}

func (r Report) Empty() bool {
	return len(r.Copied) == 0 && len(r.Badges) == 0
}

// bareKeys were stored without any prefix by older learn builds.
var bareKeys = []string{constants.KeyLearningHistory, constants.KeyLearnStats}

// badgeIDs maps ids used by older builds onto the catalog.
var badgeIDs = map[string]string{
	"ai-suggestions-basic":        "ai_basic",
	"ai-suggestions-intermediate": "ai_intermediate",
}

type legacyBadge struct {
	ID          string    `json:"id"`
	DateAwarded time.Time `json:"dateAwarded"`
	Date        time.Time `json:"date"`
}

// Import copies legacy collections that have no canonical value yet and
// awards every badge recorded under a legacy key. Legacy keys are left in
// place. Running it twice changes nothing.
func Import(st *state.Store, awarder Awarder) (Report, error) {
	var r Report
	p := st.Provider()

	if st.Prefix() != constants.LegacyStoragePrefix {
		keys, err := p.ListKeys(constants.LegacyStoragePrefix)
		if err != nil {
			return r, fmt.Errorf("failed to list legacy keys: %w", err)
		}
		for _, k := range keys {
			suffix := strings.TrimPrefix(k, constants.LegacyStoragePrefix)
			if suffix == constants.KeyBadges || suffix == constants.LegacyKeyUserBadges {
				continue
			}
			if err := copyKey(st, k, suffix, &r); err != nil {
				return r, err
			}
		}
	}
	for _, suffix := range bareKeys {
		if err := copyKey(st, suffix, suffix, &r); err != nil {
			return r, err
		}
	}

	sources := []string{
		constants.LegacyStoragePrefix + constants.KeyBadges,
		constants.LegacyStoragePrefix + constants.LegacyKeyUserBadges,
		st.Key(constants.LegacyKeyUserBadges),
	}
	seen := make(map[string]bool)
	for _, key := range sources {
		if seen[key] {
			continue
		}
		seen[key] = true
		if err := importBadges(st, awarder, key, &r); err != nil {
			return r, err
		}
	}
	return r, nil
}

func copyKey(st *state.Store, from, suffix string, r *Report) error {
	if !isDomainKey(suffix) {
		logger.Debug("Ignoring unknown legacy key", "key", from)
		return nil
	}
	p := st.Provider()
	raw, ok, err := p.Get(from)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", from, err)
	}
	if !ok {
		return nil
	}
	exists, err := st.Exists(suffix)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", st.Key(suffix), err)
	}
	if exists {
		r.Skipped = append(r.Skipped, from)
		return nil
	}
	if err := p.Set(st.Key(suffix), raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", st.Key(suffix), err)
	}
	logger.Info("Copied legacy key", "from", from, "to", st.Key(suffix))
	r.Copied = append(r.Copied, from)
	return nil
}

func importBadges(st *state.Store, awarder Awarder, key string, r *Report) error {
	raw, ok, err := st.Provider().Get(key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	var records []legacyBadge
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Warn("Legacy badge list is corrupt, skipping", "key", key, "error", err)
		return nil
	}

	for _, rec := range records {
		id := rec.ID
		if mapped, ok := badgeIDs[id]; ok {
			id = mapped
		}
		if _, ok := badges.Find(id); !ok {
			logger.Warn("Skipping unknown legacy badge", "key", key, "badge", rec.ID)
			continue
		}
		at := rec.DateAwarded
		if at.IsZero() {
			at = rec.Date
		}
		awarded, err := awarder.Award(id, at)
		if err != nil {
			return err
		}
		if awarded {
			r.Badges = append(r.Badges, id)
		}
	}
	return nil
}

func isDomainKey(suffix string) bool {
	for _, k := range constants.DomainKeys {
		if k == suffix {
			return true
		}
	}
	return false
}
