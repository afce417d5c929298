package cli

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/tranaapp/trana/internal/aiclient"
	"github.com/tranaapp/trana/internal/backup"
	"github.com/tranaapp/trana/internal/badges"
	"github.com/tranaapp/trana/internal/carbon"
	"github.com/tranaapp/trana/internal/config"
	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/food"
	"github.com/tranaapp/trana/internal/learn"
	"github.com/tranaapp/trana/internal/logger"
	"github.com/tranaapp/trana/internal/notifier"
	"github.com/tranaapp/trana/internal/profile"
	"github.com/tranaapp/trana/internal/state"
	"github.com/tranaapp/trana/internal/storage"
	"github.com/tranaapp/trana/internal/storage/factory"
	"github.com/tranaapp/trana/internal/suggest"
)

type Context struct {
	Store       storage.Provider
	DSN         string
	Config      *config.Config
	SettingsDir string
	APIToken    string
	Out         io.Writer
	In          io.Reader

	app      *App
	notifier notifier.Notifier
}

// App wires every domain service to one state store and event bus.
type App struct {
	State   *state.Store
	Bus     *events.Bus
	Badges  *badges.Evaluator
	API     *aiclient.Client
	Food    *food.Inventory
	Carbon  *carbon.Calculator
	Suggest *suggest.Service
	Learn   *learn.Service
	Profile *profile.Service
}

// NewApp builds the services on top of a loaded store. Badge and expiry
// notifications go to n unless the profile turns them off.
func NewApp(store storage.Provider, cfg *config.Config, token string, n notifier.Notifier) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	st := state.New(store, cfg.StoragePrefix)
	bus := events.NewBus()
	ev := badges.NewEvaluator(st, bus)

	api := aiclient.New(cfg.APIBaseURL,
		aiclient.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		aiclient.WithRateLimit(cfg.APIRatePerMinute),
		aiclient.WithToken(token),
	)

	app := &App{
		State:   st,
		Bus:     bus,
		Badges:  ev,
		API:     api,
		Food:    food.New(st, ev, bus, food.WithWarningDays(cfg.ExpiryWarningDays)),
		Carbon:  carbon.New(st, ev, bus),
		Suggest: suggest.New(st, api, ev, bus),
		Learn:   learn.New(st, api, ev, bus),
		Profile: profile.New(st, bus),
	}
	if n != nil {
		notifier.Attach(bus, n, app.Profile.NotificationsEnabled)
	}
	if _, err := app.Profile.EnsureFirstVisit(); err != nil {
		logger.Warn("Failed to record first visit", "error", err)
	}
	return app
}

// Reload rereads every collection, e.g. after a restore or reset.
func (a *App) Reload() {
	a.State.Invalidate()
	a.Food.Load()
	a.Carbon.Load()
	a.Suggest.Load()
	a.Learn.Load()
}

// App returns the services, building them on first use.
func (c *Context) App() *App {
	if c.app == nil {
		c.app = NewApp(c.Store, c.AppConfig(), c.APIToken, c.Notifier())
	}
	return c.app
}

// Notifier returns the configured notifier, falling back to the console.
func (c *Context) Notifier() notifier.Notifier {
	if c.notifier == nil {
		n, err := notifier.New(c.AppConfig().Notifier, c.Stdout())
		if err != nil {
			logger.Warn("Falling back to console notifier", "error", err)
			n = notifier.NewConsole(c.Stdout())
		}
		c.notifier = n
	}
	return c.notifier
}

// SetNotifier replaces the notifier. It has no effect once App was called.
func (c *Context) SetNotifier(n notifier.Notifier) {
	c.notifier = n
}

func (c *Context) AppConfig() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Print(args ...any) {
	fmt.Fprint(c.Stdout(), args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// BackupManager returns the manager for the current store.
func (c *Context) BackupManager() *backup.Manager {
	dir := backup.DefaultDir(c.Store.GetConfigPath(), c.SettingsDir, factory.IsFileBacked(c.DSN))
	return backup.NewManager(c.App().State, dir)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, err := c.BackupManager().CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question on the context's input.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
