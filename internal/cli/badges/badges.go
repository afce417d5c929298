package badges

import (
	"fmt"
	"strings"

	"github.com/tranaapp/trana/internal/cli"
	badgespkg "github.com/tranaapp/trana/internal/badges"
	"github.com/tranaapp/trana/internal/models"
)

type BadgesListCmd struct {
	Category string `short:"c" enum:",food,carbon,ai,learn" default:"" help:"Only show one category (food, carbon, ai, learn)."`
	Earned   bool   `help:"Only show earned badges." xor:"filter"`
	Locked   bool   `help:"Only show locked badges." xor:"filter"`
}

func (c *BadgesListCmd) Run(ctx *cli.Context) error {
	statuses := badgespkg.Statuses(ctx.App().Badges.Earned(), models.BadgeCategory(c.Category))

	current := models.BadgeCategory("")
	shown := 0
	for _, s := range statuses {
		if (c.Earned && !s.Earned) || (c.Locked && s.Earned) {
			continue
		}
		if s.Category != current {
			if shown > 0 {
				ctx.Println()
			}
			ctx.Printf("%s\n", strings.ToUpper(string(s.Category)))
			current = s.Category
		}
		ctx.Println(statusLine(s))
		shown++
	}
	if shown == 0 {
		ctx.Println("No badges match.")
	}
	return nil
}

type BadgesProgressCmd struct{}

func (c *BadgesProgressCmd) Run(ctx *cli.Context) error {
	earned := ctx.App().Badges.Earned()
	p := badgespkg.ComputeProgress(earned)
	ctx.Printf("Badges earned: %d/%d (%d%%)\n", p.Earned, p.Total, p.Percent)
	ctx.Printf("[%s]\n", bar(p.Percent, 30))

	for _, cat := range models.BadgeCategories {
		statuses := badgespkg.Statuses(earned, cat)
		n := 0
		for _, s := range statuses {
			if s.Earned {
				n++
			}
		}
		ctx.Printf("  %-7s %d/%d\n", cat, n, len(statuses))
	}
	return nil
}

func statusLine(s badgespkg.Status) string {
	if s.Earned {
		return fmt.Sprintf("  %s %-24s earned %s", s.Icon, s.Title, s.Record.DateAwarded.Local().Format("2006-01-02"))
	}
	return fmt.Sprintf("  🔒 %-24s %s", s.Title, s.Requirement)
}

func bar(percent, width int) string {
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
