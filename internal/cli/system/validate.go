package system

import (
	"fmt"

	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Repair the problems that can be repaired automatically."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	app := ctx.App()
	result := validation.New().ValidateState(app.State)
	ctx.Print(result.FormatReport())
	if !result.HasConflicts() {
		ctx.Println()
		return nil
	}

	if !c.Fix {
		ctx.Println("\nRun 'trana validate --fix' to repair what can be repaired.")
		return fmt.Errorf("validation found %d problem(s)", len(result.Conflicts))
	}

	ctx.PerformAutomaticBackup()
	actions, err := validation.AutoFix(app.State, result.Conflicts)
	for _, a := range actions {
		ctx.Printf("✓ %s\n", a.Action)
	}
	if err != nil {
		return fmt.Errorf("auto-fix failed: %w", err)
	}
	app.Reload()

	remaining := validation.New().ValidateState(app.State)
	if remaining.HasConflicts() {
		ctx.Printf("\n%s", remaining.FormatReport())
		return fmt.Errorf("%d problem(s) need manual attention", len(remaining.Conflicts))
	}
	ctx.Println("\nAll problems fixed.")
	return nil
}
