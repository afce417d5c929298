package badges

import (
	"testing"
	"time"

	"github.com/tranaapp/trana/internal/models"
)

func TestCatalogIntegrity(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range All() {
		if seen[b.ID] {
			t.Errorf("duplicate badge id %s", b.ID)
		}
		seen[b.ID] = true
		if b.Title == "" || b.Icon == "" || b.Requirement == "" || b.Color == "" {
			t.Errorf("badge %s has empty display fields", b.ID)
		}
	}
	for cat, rules := range DefaultRules() {
		for _, r := range rules {
			def, ok := Find(r.BadgeID)
			if !ok {
				t.Errorf("rule references unknown badge %s", r.BadgeID)
				continue
			}
			if def.Category != cat {
				t.Errorf("badge %s is in category %s but ruled under %s", def.ID, def.Category, cat)
			}
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Title = "changed"
	if def, _ := Find(all[0].ID); def.Title == "changed" {
		t.Error("All() exposed the catalog backing array")
	}
}

func TestByCategory(t *testing.T) {
	want := map[models.BadgeCategory]int{
		models.CategoryFood:   5,
		models.CategoryCarbon: 3,
		models.CategoryAI:     2,
		models.CategoryLearn:  3,
	}
	for cat, n := range want {
		if got := len(ByCategory(cat)); got != n {
			t.Errorf("ByCategory(%s) = %d badges, want %d", cat, got, n)
		}
	}
}

func TestProgressAndRecent(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	earned := []models.EarnedBadge{
		{ID: "food_logger_basic", DateAwarded: base},
		{ID: "carbon_basic", DateAwarded: base.Add(2 * time.Hour)},
		{ID: "retired_badge", DateAwarded: base.Add(5 * time.Hour)},
		{ID: "ai_basic", DateAwarded: base.Add(3 * time.Hour)},
		{ID: "learn_first_topic", DateAwarded: base.Add(1 * time.Hour)},
	}

	p := ComputeProgress(earned)
	if p.Earned != 4 || p.Total != len(All()) || p.Percent != 4*100/len(All()) {
		t.Errorf("ComputeProgress() = %+v", p)
	}

	recent := Recent(earned, 3)
	var got []string
	for _, s := range recent {
		got = append(got, s.ID)
	}
	want := []string{"ai_basic", "carbon_basic", "learn_first_topic"}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("Recent() = %v, want %v", got, want)
	}

	carbon := Statuses(earned, models.CategoryCarbon)
	if len(carbon) != 3 || !carbon[0].Earned || carbon[1].Earned {
		t.Errorf("Statuses(carbon) = %+v", carbon)
	}
}
