package food

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/tranaapp/trana/internal/cli"
	foodpkg "github.com/tranaapp/trana/internal/food"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/utils"
)

type FoodAddCmd struct {
	Name     string  `arg:"" help:"Item name."`
	Category string  `short:"c" help:"Category (e.g. dairy, produce, meat)." required:""`
	Quantity float64 `short:"q" help:"Quantity." default:"1"`
	Unit     string  `short:"u" help:"Unit (e.g. pcs, kg, l)." default:"pcs"`
	Storage  string  `short:"s" help:"Storage location (refrigerator, freezer, pantry, counter)." default:"refrigerator"`
	Expires  string  `short:"e" help:"Expiry date (YYYY-MM-DD)." required:""`
	Added    string  `help:"Date added (YYYY-MM-DD). Defaults to today."`
	Notes    string  `short:"n" help:"Free-form notes."`
}

func (c *FoodAddCmd) Run(ctx *cli.Context) error {
	app := ctx.App()
	item, _, err := app.Food.Add(foodpkg.NewItem{
		Name:            c.Name,
		Category:        c.Category,
		Quantity:        c.Quantity,
		Unit:            c.Unit,
		StorageLocation: c.Storage,
		DateAdded:       c.Added,
		ExpiryDate:      c.Expires,
		Notes:           c.Notes,
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added %s (%s) - %s\n", item.Name, shortID(item.ID), app.Food.ExpiryText(item))
	return nil
}

type FoodListCmd struct {
	Status   string `short:"s" help:"Filter by status (all|expiring-soon|expired)." enum:"all,expiring-soon,expired" default:"all"`
	Category string `short:"c" help:"Filter by category."`
	Used     bool   `help:"Show the used history instead."`
}

func (c *FoodListCmd) Run(ctx *cli.Context) error {
	inv := ctx.App().Food

	if c.Used {
		used := inv.Used()
		if len(used) == 0 {
			ctx.Println("No items used yet.")
			return nil
		}
		w := tabwriter.NewWriter(ctx.Stdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCATEGORY\tQUANTITY\tUSED")
		for i := len(used) - 1; i >= 0; i-- {
			u := used[i]
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Name, utils.FormatLabel(u.Category), quantity(u.FoodItem), utils.Ago(u.UsedTimestamp))
		}
		return w.Flush()
	}

	items := inv.Filter(foodpkg.StatusFilter(c.Status), c.Category)
	if len(items) == 0 {
		ctx.Println("No food items found.")
		return nil
	}

	w := tabwriter.NewWriter(ctx.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tQUANTITY\tSTORAGE\tEXPIRES\tSTATUS")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(item.ID),
			item.Name,
			utils.FormatLabel(item.Category),
			quantity(item),
			utils.FormatLabel(item.StorageLocation),
			utils.DisplayDate(item.ExpiryDate),
			statusMarker(inv.Status(item))+" "+inv.ExpiryText(item),
		)
	}
	return w.Flush()
}

type FoodUseCmd struct {
	Refs []string `arg:"" help:"Item ids, id prefixes or names."`
}

func (c *FoodUseCmd) Run(ctx *cli.Context) error {
	inv := ctx.App().Food
	ids, err := resolveAll(inv, c.Refs)
	if err != nil {
		return err
	}
	moved, _, err := inv.MarkUsed(ids...)
	if err != nil {
		return err
	}
	for _, u := range moved {
		ctx.Printf("✓ Marked %s as used\n", u.Name)
	}
	return nil
}

type FoodDeleteCmd struct {
	Refs []string `arg:"" help:"Item ids, id prefixes or names."`
}

func (c *FoodDeleteCmd) Run(ctx *cli.Context) error {
	inv := ctx.App().Food
	ids, err := resolveAll(inv, c.Refs)
	if err != nil {
		return err
	}
	n, err := inv.Delete(ids...)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Deleted %d item(s)\n", n)
	return nil
}

type FoodClearCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *FoodClearCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := ctx.Confirm("Remove every item from your inventory? Used history is kept.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Cancelled.")
			return nil
		}
	}
	ctx.PerformAutomaticBackup()
	n, err := ctx.App().Food.ClearAll()
	if err != nil {
		return err
	}
	ctx.Printf("✓ Cleared %d item(s)\n", n)
	return nil
}

type FoodStatsCmd struct{}

func (c *FoodStatsCmd) Run(ctx *cli.Context) error {
	inv := ctx.App().Food
	s := inv.Stats()
	ctx.Printf("Total items:    %d\n", s.Total)
	ctx.Printf("Expiring soon:  %d\n", s.ExpiringSoon)
	ctx.Printf("Expired:        %d\n", s.Expired)
	ctx.Printf("Used:           %d\n", s.Used)
	if cats := inv.Categories(); len(cats) > 0 {
		labels := make([]string, len(cats))
		for i, cat := range cats {
			labels[i] = utils.FormatLabel(cat)
		}
		ctx.Printf("Categories:     %s\n", strings.Join(labels, ", "))
	}
	inv.PublishExpiryWarning()
	return nil
}

// resolveAll maps each reference to exactly one active item id.
func resolveAll(inv *foodpkg.Inventory, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		item, err := resolve(inv, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, item.ID)
	}
	return ids, nil
}

func resolve(inv *foodpkg.Inventory, ref string) (models.FoodItem, error) {
	matches := inv.Find(ref)
	switch len(matches) {
	case 0:
		return models.FoodItem{}, fmt.Errorf("no food item matches %q", ref)
	case 1:
		return matches[0], nil
	}
	var exact []models.FoodItem
	for _, m := range matches {
		if strings.EqualFold(m.Name, ref) {
			exact = append(exact, m)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = fmt.Sprintf("%s (%s)", m.Name, shortID(m.ID))
	}
	return models.FoodItem{}, fmt.Errorf("%q is ambiguous, matches: %s", ref, strings.Join(names, ", "))
}

func quantity(item models.FoodItem) string {
	return fmt.Sprintf("%g %s", item.Quantity, item.Unit)
}

func statusMarker(s models.ExpiryStatus) string {
	switch s {
	case models.ExpiryExpired:
		return "❌"
	case models.ExpiryExpiring:
		return "⚠"
	default:
		return "✓"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
