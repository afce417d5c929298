package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/notifier"
	"github.com/tranaapp/trana/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Console output would corrupt the screen; the dashboard shows
	// notifications itself.
	if _, ok := ctx.Notifier().(*notifier.Console); ok {
		ctx.SetNotifier(notifier.None{})
	}

	// Back up on dashboard startup, after a successful load.
	ctx.PerformAutomaticBackup()

	app := ctx.App()
	p := tea.NewProgram(tui.NewModel(app), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard exited with an error: %w", err)
	}
	return nil
}
