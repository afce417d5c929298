package badges

import (
	"sort"

	"github.com/tranaapp/trana/internal/models"
)

// Status pairs a definition with its earned record, if any.
type Status struct {
	models.BadgeDefinition
	Earned bool
	Record models.EarnedBadge
}

type Progress struct {
	Earned  int
	Total   int
	Percent int
}

// ComputeProgress counts earned ids that still exist in the catalog.
func ComputeProgress(earned []models.EarnedBadge) Progress {
	total := len(catalog)
	n := 0
	for _, b := range earned {
		if _, ok := Find(b.ID); ok {
			n++
		}
	}
	p := Progress{Earned: n, Total: total}
	if total > 0 {
		p.Percent = n * 100 / total
	}
	return p
}

// Statuses returns every catalog badge, optionally limited to one category,
// marked earned or locked.
func Statuses(earned []models.EarnedBadge, category models.BadgeCategory) []Status {
	records := make(map[string]models.EarnedBadge, len(earned))
	for _, b := range earned {
		records[b.ID] = b
	}
	var out []Status
	for _, def := range catalog {
		if category != "" && def.Category != category {
			continue
		}
		rec, ok := records[def.ID]
		out = append(out, Status{BadgeDefinition: def, Earned: ok, Record: rec})
	}
	return out
}

// Recent returns up to n earned badges, newest first.
func Recent(earned []models.EarnedBadge, n int) []Status {
	sorted := make([]models.EarnedBadge, 0, len(earned))
	for _, b := range earned {
		if _, ok := Find(b.ID); ok {
			sorted = append(sorted, b)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateAwarded.After(sorted[j].DateAwarded)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]Status, 0, len(sorted))
	for _, b := range sorted {
		def, _ := Find(b.ID)
		out = append(out, Status{BadgeDefinition: def, Earned: true, Record: b})
	}
	return out
}
