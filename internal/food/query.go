package food

import (
	"fmt"

	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/models"
)

type StatusFilter string

const (
	FilterAll          StatusFilter = "all"
	FilterExpiringSoon StatusFilter = "expiring-soon"
	FilterExpired      StatusFilter = "expired"
)

// Filter selects active items by status and category ("" or "all" for
// every category), sorted soonest expiry first.
func (inv *Inventory) Filter(status StatusFilter, category string) []models.FoodItem {
	var out []models.FoodItem
	for _, item := range inv.items {
		if category != "" && category != "all" && item.Category != category {
			continue
		}
		switch status {
		case FilterExpiringSoon:
			if inv.Status(item) != models.ExpiryExpiring {
				continue
			}
		case FilterExpired:
			if inv.Status(item) != models.ExpiryExpired {
				continue
			}
		}
		out = append(out, item)
	}
	sortByExpiry(out)
	return out
}

type Stats struct {
	Total        int
	ExpiringSoon int
	Expired      int
	Used         int
}

func (inv *Inventory) Stats() Stats {
	s := Stats{Total: len(inv.items), Used: len(inv.used)}
	for _, item := range inv.items {
		switch inv.Status(item) {
		case models.ExpiryExpiring:
			s.ExpiringSoon++
		case models.ExpiryExpired:
			s.Expired++
		}
	}
	return s
}

// Categories returns the distinct categories of active items in first-seen order.
func (inv *Inventory) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, item := range inv.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}

// ExpiryWarning returns the startup warning for expired or expiring items.
// Expired items take precedence.
func (inv *Inventory) ExpiryWarning() (string, bool) {
	s := inv.Stats()
	switch {
	case s.Expired > 0:
		return fmt.Sprintf("Warning: You have %d expired item(s) in your inventory. Please check your food list.", s.Expired), true
	case s.ExpiringSoon > 0:
		return fmt.Sprintf("Heads up: You have %d item(s) expiring soon. Check your food list to avoid waste.", s.ExpiringSoon), true
	default:
		return "", false
	}
}

// PublishExpiryWarning sends the startup warning through the event bus.
func (inv *Inventory) PublishExpiryWarning() bool {
	msg, ok := inv.ExpiryWarning()
	if ok {
		inv.bus.Publish(events.Event{Kind: events.ExpiryWarning, Message: msg})
	}
	return ok
}
