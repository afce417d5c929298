package food

import (
	"strings"
	"testing"

	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/models"
)

func TestFilterAndStats(t *testing.T) {
	inv, _, _ := setupInventory(t)
	fixtures := []struct {
		name, category, expiry string
	}{
		{"Spinach", "vegetables", "2024-03-11"},
		{"Old Milk", "dairy", "2024-03-08"},
		{"Rice", "grains", "2024-09-01"},
		{"Yogurt", "dairy", "2024-03-13"},
		{"Cream", "dairy", "2024-03-10"},
	}
	for _, f := range fixtures {
		in := item(f.name, f.expiry)
		in.Category = f.category
		if _, _, err := inv.Add(in); err != nil {
			t.Fatal(err)
		}
	}

	names := func(items []models.FoodItem) string {
		var out []string
		for _, it := range items {
			out = append(out, it.Name)
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		status   StatusFilter
		category string
		want     string
	}{
		{FilterAll, "", "Old Milk,Cream,Spinach,Yogurt,Rice"},
		{FilterAll, "dairy", "Old Milk,Cream,Yogurt"},
		{FilterExpiringSoon, "all", "Cream,Spinach,Yogurt"},
		{FilterExpiringSoon, "dairy", "Cream,Yogurt"},
		{FilterExpired, "", "Old Milk"},
	}
	for _, tt := range tests {
		if got := names(inv.Filter(tt.status, tt.category)); got != tt.want {
			t.Errorf("Filter(%s, %q) = %s, want %s", tt.status, tt.category, got, tt.want)
		}
	}

	s := inv.Stats()
	if s.Total != 5 || s.ExpiringSoon != 3 || s.Expired != 1 || s.Used != 0 {
		t.Errorf("Stats() = %+v", s)
	}

	if got := strings.Join(inv.Categories(), ","); got != "vegetables,dairy,grains" {
		t.Errorf("Categories() = %s", got)
	}
}

func TestExpiryText(t *testing.T) {
	inv, _, _ := setupInventory(t)
	tests := map[string]string{
		"2024-03-08": "Expired 2 days ago",
		"2024-03-10": "Expires today!",
		"2024-03-11": "Expires tomorrow",
		"2024-03-17": "Expires in 7 days",
		"someday":    "Unknown expiry",
	}
	for date, want := range tests {
		if got := inv.ExpiryText(models.FoodItem{ExpiryDate: date}); got != want {
			t.Errorf("ExpiryText(%s) = %q, want %q", date, got, want)
		}
	}
}

func TestExpiryWarning(t *testing.T) {
	inv, _, _ := setupInventory(t)
	if _, ok := inv.ExpiryWarning(); ok {
		t.Error("empty inventory should not warn")
	}

	inv.Add(item("Yogurt", "2024-03-12"))
	msg, ok := inv.ExpiryWarning()
	if !ok || !strings.HasPrefix(msg, "Heads up: You have 1 item(s) expiring soon") {
		t.Errorf("ExpiryWarning() = %q, %v", msg, ok)
	}

	inv.Add(item("Old Milk", "2024-03-01"))
	msg, _ = inv.ExpiryWarning()
	if !strings.HasPrefix(msg, "Warning: You have 1 expired item(s)") {
		t.Errorf("expired items should take precedence, got %q", msg)
	}
}

func TestPublishExpiryWarning(t *testing.T) {
	inv, _, _ := setupInventory(t)
	bus := events.NewBus()
	inv.bus = bus
	var got string
	bus.Subscribe("t", func(e events.Event) error {
		if e.Kind == events.ExpiryWarning {
			got = e.Message
		}
		return nil
	})
	inv.Add(item("Old Milk", "2024-03-01"))
	if !inv.PublishExpiryWarning() || got == "" {
		t.Errorf("PublishExpiryWarning() delivered %q", got)
	}
}

func TestFind(t *testing.T) {
	inv, _, _ := setupInventory(t)
	milk, _, _ := inv.Add(item("Whole Milk", "2024-03-12"))
	inv.Add(item("Cheddar Cheese", "2024-03-20"))
	inv.Add(item("Oat Milk", "2024-03-25"))

	if got := inv.Find(milk.ID); len(got) != 1 || got[0].ID != milk.ID {
		t.Errorf("Find(id) = %+v", got)
	}
	if got := inv.Find("item-000"); len(got) != 3 {
		t.Errorf("Find(id prefix) matched %d items, want 3", len(got))
	}
	got := inv.Find("milk")
	if len(got) != 2 {
		t.Fatalf("Find(milk) = %+v, want 2 matches", got)
	}
	if got := inv.Find("chdr"); len(got) != 1 || got[0].Name != "Cheddar Cheese" {
		t.Errorf("Find(chdr) = %+v", got)
	}
	if got := inv.Find(""); got != nil {
		t.Errorf("Find(\"\") = %+v", got)
	}
}
