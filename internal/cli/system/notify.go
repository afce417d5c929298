package system

import (
	"fmt"

	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/constants"
)

// NotifyCmd sends the expiry reminder, meant to be run from cron or a
// systemd timer.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
	Test   bool `help:"Send a test notification."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	app := ctx.App()

	if !app.Profile.NotificationsEnabled() {
		if c.DryRun {
			ctx.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	if c.Test {
		msg := fmt.Sprintf("%s notifications are working.", constants.DisplayName)
		if c.DryRun {
			ctx.Println("[DryRun] " + msg)
			return nil
		}
		return ctx.Notifier().Notify(msg)
	}

	msg, ok := app.Food.ExpiryWarning()
	if !ok {
		if c.DryRun {
			ctx.Println("Nothing is expiring.")
		}
		return nil
	}
	if c.DryRun {
		ctx.Println("[DryRun] " + msg)
		return nil
	}
	app.Food.PublishExpiryWarning()
	return nil
}
