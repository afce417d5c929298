package system

import (
	"fmt"

	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/legacy"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	s, ok := ctx.Store.(schemaStore)
	if !ok {
		return fmt.Errorf("migrate command only supports SQL storage (sqlite, postgres)")
	}

	count, err := s.Migrate(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}

// MigrateKeysCmd imports data written by older versions under legacy keys.
type MigrateKeysCmd struct{}

func (c *MigrateKeysCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	app := ctx.App()
	report, err := legacy.Import(app.State, app.Badges)
	if err != nil {
		return fmt.Errorf("key migration failed: %w", err)
	}
	app.Reload()

	if report.Empty() && len(report.Skipped) == 0 {
		ctx.Println("No legacy data found.")
		return nil
	}
	for _, k := range report.Copied {
		ctx.Printf("✓ Imported %s\n", k)
	}
	for _, k := range report.Skipped {
		ctx.Printf("⊘ Skipped %s (already present)\n", k)
	}
	for _, id := range report.Badges {
		ctx.Printf("✓ Restored badge %s\n", id)
	}
	return nil
}
