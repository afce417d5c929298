package profile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/export"
	"github.com/tranaapp/trana/internal/logger"
	profilepkg "github.com/tranaapp/trana/internal/profile"
	"github.com/tranaapp/trana/internal/utils"
)

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	svc := ctx.App().Profile
	p := svc.Get()
	joined, err := svc.EnsureFirstVisit()
	if err != nil {
		return err
	}

	name := p.Name
	if name == "" {
		name = "(not set)"
	}
	ctx.Printf("Name:    %s\n", name)
	ctx.Printf("Member since %s\n\n", profilepkg.JoinDate(joined.Local()))

	st := svc.Statistics()
	ctx.Println("Statistics:")
	ctx.Printf("  Items logged:          %d\n", st.ItemsLogged)
	ctx.Printf("  Items used:            %d\n", st.ItemsUsed)
	ctx.Printf("  Carbon calculations:   %d\n", st.CarbonCalculations)
	ctx.Printf("  CO2 saved:             %s\n", utils.Kg(st.CarbonSavedKg))
	ctx.Printf("  Suggestions generated: %d\n", st.SuggestionsGenerated)
	ctx.Printf("  Topics learned:        %d\n", st.TopicsLearned)
	ctx.Printf("  Badges:                %d/%d\n", st.BadgesEarned, st.BadgesTotal)

	if recent := svc.RecentBadges(); len(recent) > 0 {
		ctx.Println("\nRecent badges:")
		for _, b := range recent {
			ctx.Printf("  %s %s (%s)\n", b.Icon, b.Title, utils.Ago(b.Record.DateAwarded))
		}
	}

	ctx.Println("\nSettings:")
	ctx.Printf("  Notifications:  %s\n", onOff(p.Settings.Notifications))
	ctx.Printf("  Weekly summary: %s\n", onOff(p.Settings.WeeklySummary))
	ctx.Printf("  Dark mode:      %s\n", onOff(p.Settings.DarkMode))
	return nil
}

type ProfileNameCmd struct {
	Name []string `arg:"" help:"Your display name."`
}

func (c *ProfileNameCmd) Run(ctx *cli.Context) error {
	p, err := ctx.App().Profile.UpdateName(strings.Join(c.Name, " "))
	if err != nil {
		return err
	}
	ctx.Printf("✓ Name set to %s\n", p.Name)
	return nil
}

type ProfileSettingsCmd struct {
	Notifications *bool `help:"Enable or disable notifications."`
	WeeklySummary *bool `help:"Enable or disable the weekly summary."`
	DarkMode      *bool `help:"Enable or disable dark mode."`
}

func (c *ProfileSettingsCmd) Run(ctx *cli.Context) error {
	svc := ctx.App().Profile
	settings := svc.Get().Settings
	changed := false
	if c.Notifications != nil {
		settings.Notifications = *c.Notifications
		changed = true
	}
	if c.WeeklySummary != nil {
		settings.WeeklySummary = *c.WeeklySummary
		changed = true
	}
	if c.DarkMode != nil {
		settings.DarkMode = *c.DarkMode
		changed = true
	}

	if changed {
		if _, err := svc.UpdateSettings(settings); err != nil {
			return err
		}
		ctx.Println("✓ Settings updated")
	}
	ctx.Printf("notifications:  %s\n", onOff(settings.Notifications))
	ctx.Printf("weekly-summary: %s\n", onOff(settings.WeeklySummary))
	ctx.Printf("dark-mode:      %s\n", onOff(settings.DarkMode))
	return nil
}

type ProfileResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ProfileResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := ctx.Confirm("This deletes all of your data. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}

	// Keep a copy so the reset can be undone with 'backup restore'.
	ctx.PerformAutomaticBackup()

	app := ctx.App()
	n, err := app.Profile.Reset()
	if err != nil {
		return err
	}
	app.Reload()
	ctx.Printf("✓ Removed %d key(s). All data has been reset.\n", n)
	return nil
}

type ProfileExportCmd struct {
	Format string `short:"f" enum:"json,xlsx" default:"json" help:"Export format (json, xlsx)."`
	Output string `short:"o" help:"Output file or directory (defaults to the current directory)."`
	Upload bool   `help:"Upload the export to the configured S3 bucket instead of writing a file."`
}

func (c *ProfileExportCmd) Run(ctx *cli.Context) error {
	app := ctx.App()
	name := export.FileName(time.Now(), c.Format)

	var buf bytes.Buffer
	var err error
	switch c.Format {
	case "xlsx":
		err = export.WriteXLSX(&buf, app.State, app.Profile.Statistics())
	default:
		err = export.WriteJSON(&buf, app.State)
	}
	if err != nil {
		return fmt.Errorf("failed to build export: %w", err)
	}

	if c.Upload {
		bg := context.Background()
		up, err := export.NewS3Uploader(bg, ctx.AppConfig().Export)
		if err != nil {
			return err
		}
		key, err := up.Upload(bg, name, export.ContentType(c.Format), buf.Bytes())
		if err != nil {
			return err
		}
		ctx.Printf("✓ Uploaded export to s3://%s/%s\n", ctx.AppConfig().Export.S3Bucket, key)
		return nil
	}

	path, err := c.outputPath(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logger.Info("Exported user data", "path", path, "format", c.Format)
	ctx.Printf("✓ Exported data to %s\n", path)
	return nil
}

func (c *ProfileExportCmd) outputPath(name string) (string, error) {
	if c.Output == "" {
		return name, nil
	}
	out, err := utils.ExpandHome(c.Output)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name), nil
	}
	return out, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
