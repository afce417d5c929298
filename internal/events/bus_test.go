package events

import (
	"errors"
	"testing"

	"github.com/tranaapp/trana/internal/models"
)

func TestPublishOrderAndIsolation(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe("first", func(e Event) error {
		got = append(got, "first:"+string(e.Kind))
		return errors.New("boom")
	})
	bus.Subscribe("second", func(e Event) error {
		got = append(got, "second:"+e.Badge.ID)
		return nil
	})

	bus.PublishBadge(models.BadgeDefinition{ID: "carbon_saver", Title: "Earth Protector"})

	want := []string{"first:badge_unlocked", "second:carbon_saver"}
	if len(got) != len(want) {
		t.Fatalf("delivered %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delivery[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNilBus(t *testing.T) {
	var bus *Bus
	bus.Subscribe("x", func(Event) error { return nil })
	bus.PublishChange("trana_food_items")
}

func TestPublishChange(t *testing.T) {
	bus := NewBus()
	var key string
	bus.Subscribe("watch", func(e Event) error {
		if e.Kind == StateChanged {
			key = e.Key
		}
		return nil
	})
	bus.PublishChange("trana_waste_items")
	if key != "trana_waste_items" {
		t.Errorf("Key = %q, want trana_waste_items", key)
	}
}
