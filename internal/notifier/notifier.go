// Package notifier presents domain events to the user, either on the
// terminal or through the desktop tray app.
package notifier

import (
	"fmt"
	"io"

	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/logger"
)

type Notifier interface {
	Notify(text string) error
}

// Console writes one line per notification.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(text string) error {
	_, err := fmt.Fprintln(c.w, text)
	return err
}

// None discards notifications.
type None struct{}

func (None) Notify(string) error { return nil }

// New returns the notifier configured by kind: console, tray or none.
func New(kind string, w io.Writer) (Notifier, error) {
	switch kind {
	case "", "console":
		return NewConsole(w), nil
	case "tray":
		return NewTray(), nil
	case "none":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", kind)
	}
}

// Message renders e for display. State changes produce no message.
func Message(e events.Event) (string, bool) {
	switch e.Kind {
	case events.BadgeUnlocked:
		if e.Badge == nil {
			return "", false
		}
		return fmt.Sprintf("%s Badge unlocked: %s - %s", e.Badge.Icon, e.Badge.Title, e.Badge.Description), true
	case events.ExpiryWarning:
		return e.Message, e.Message != ""
	default:
		return "", false
	}
}

// Attach subscribes n to bus. When enabled reports false, notifications
// are skipped; it is checked per event so profile changes apply at once.
func Attach(bus *events.Bus, n Notifier, enabled func() bool) {
	bus.Subscribe("notifier", func(e events.Event) error {
		msg, ok := Message(e)
		if !ok {
			return nil
		}
		if enabled != nil && !enabled() {
			logger.Debug("Notification suppressed by settings", "kind", e.Kind)
			return nil
		}
		return n.Notify(msg)
	})
}
