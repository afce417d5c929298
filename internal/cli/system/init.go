package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/state"
	"github.com/tranaapp/trana/internal/storage/factory"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing file store before initialization."`
	Source string `help:"Path or connection string of a store to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized trana storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		n, err := c.copyData(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Copied %d key(s). Migration completed successfully!\n", n)
	}
	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	if !factory.IsFileBacked(ctx.DSN) {
		return fmt.Errorf("--force only applies to file stores")
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// copyData copies every prefixed key from the source store.
func (c *InitCmd) copyData(ctx *cli.Context) (int, error) {
	source, err := factory.Open(c.Source)
	if err != nil {
		return 0, err
	}
	if err := source.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source storage: %w", err)
	}
	defer source.Close()

	prefix := ctx.AppConfig().StoragePrefix
	snap, err := state.New(source, prefix).Snapshot()
	if err != nil {
		return 0, fmt.Errorf("failed to read source data: %w", err)
	}
	if err := state.New(ctx.Store, prefix).Restore(snap); err != nil {
		return 0, err
	}
	return len(snap), nil
}
