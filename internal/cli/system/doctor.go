package system

import (
	"context"
	"fmt"
	"time"

	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/constants"
	"github.com/tranaapp/trana/internal/migration"
	"github.com/tranaapp/trana/internal/validation"
)

// schemaStore is implemented by the SQL-backed stores.
type schemaStore interface {
	Runner() *migration.Runner
	Migrate(logFn func(string)) (int, error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	check := func(name string, err error) {
		if err != nil {
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}
	warn := func(name string, err error) {
		if err != nil {
			ctx.Printf("⚠ %s: WARNING\n", name)
			ctx.Printf("   %v\n", err)
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}
	skip := func(name string) {
		ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", name)
	}

	reachErr := checkStoreReachable(ctx)
	check("Storage reachable", reachErr)
	reachable := reachErr == nil

	if reachable {
		check("Schema version", checkSchemaVersion(ctx))
		check("Migrations complete", checkMigrationsComplete(ctx))
	} else {
		skip("Schema version")
		skip("Migrations complete")
	}

	if reachable {
		warn("Backups present", checkBackupsPresent(ctx))
		check("Data validation", checkValidation(ctx))
		warn("Legacy keys", checkLegacyKeys(ctx))
	} else {
		skip("Backups present")
		skip("Data validation")
		skip("Legacy keys")
	}

	check("Clock/timezone", checkClockTimezone())

	if reachable {
		warn("Suggestion service", checkService(ctx))
	} else {
		skip("Suggestion service")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Store.ListKeys(""); err != nil {
		return fmt.Errorf("failed to query storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	s, ok := ctx.Store.(schemaStore)
	if !ok {
		// Key-value backends without a schema.
		return nil
	}
	runner := s.Runner()

	currentVersion, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latestVersion, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if currentVersion > latestVersion {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", currentVersion, latestVersion)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	s, ok := ctx.Store.(schemaStore)
	if !ok {
		return nil
	}
	pending, err := s.Runner().Pending()
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("migrations incomplete: %d pending, run 'trana migrate'", pending)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.BackupManager().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'trana backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	result := validation.New().ValidateState(ctx.App().State)
	if result.HasConflicts() {
		return fmt.Errorf("%d problem(s) found, run 'trana validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkLegacyKeys(ctx *cli.Context) error {
	keys, err := ctx.Store.ListKeys(constants.LegacyStoragePrefix)
	if err != nil {
		return fmt.Errorf("failed to list legacy keys: %w", err)
	}
	if len(keys) > 0 && ctx.AppConfig().StoragePrefix != constants.LegacyStoragePrefix {
		return fmt.Errorf("%d key(s) from an older version found - import them with 'trana migrate-keys'", len(keys))
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkService(ctx *cli.Context) error {
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := ctx.App().API.TestConnection(c); err != nil {
		return fmt.Errorf("%s is not reachable: %w", ctx.AppConfig().APIBaseURL, err)
	}
	return nil
}
