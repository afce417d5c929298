// Package events carries domain notifications from state owners to
// presentation adapters without either side importing the other.
package events

import (
	"sync"

	"github.com/tranaapp/trana/internal/logger"
	"github.com/tranaapp/trana/internal/models"
)

type Kind string

const (
	// BadgeUnlocked is published once per newly earned badge, after it is persisted.
	BadgeUnlocked Kind = "badge_unlocked"
	// StateChanged is published after a collection is written.
	StateChanged Kind = "state_changed"
	// ExpiryWarning is published when inventory items are expired or expiring soon.
	ExpiryWarning Kind = "expiry_warning"
)

type Event struct {
	Kind    Kind
	Key     string
	Badge   *models.BadgeDefinition
	Message string
}

type Handler func(Event) error

type subscription struct {
	name    string
	handler Handler
}

// Bus delivers events synchronously in subscription order. A nil *Bus drops
// everything published to it.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(name string, h Handler) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{name: name, handler: h})
}

// Publish hands e to every subscriber. A failing handler is logged and does
// not stop delivery to the rest.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler(e); err != nil {
			logger.Warn("Event handler failed", "handler", s.name, "kind", e.Kind, "error", err)
		}
	}
}

func (b *Bus) PublishBadge(badge models.BadgeDefinition) {
	b.Publish(Event{Kind: BadgeUnlocked, Badge: &badge, Message: badge.Title})
}

func (b *Bus) PublishChange(key string) {
	b.Publish(Event{Kind: StateChanged, Key: key})
}
