package carbon

import (
	"fmt"
	"text/tabwriter"

	"github.com/tranaapp/trana/internal/carbon"
	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/utils"
)

type CarbonCalcCmd struct {
	FoodType string  `arg:"" help:"Food type (see 'trana carbon factors')."`
	Quantity float64 `arg:"" help:"Quantity in kg."`
}

func (c *CarbonCalcCmd) Run(ctx *cli.Context) error {
	eq, _, err := ctx.App().Carbon.Calculate(c.FoodType, c.Quantity)
	if err != nil {
		return err
	}
	ctx.Printf("%g kg of %s wasted emits %s CO₂\n", c.Quantity, utils.FormatLabel(c.FoodType), utils.Kg(eq.EmissionsKg))
	printEquivalents(ctx, eq)
	return nil
}

type CarbonFactorsCmd struct{}

func (c *CarbonFactorsCmd) Run(ctx *cli.Context) error {
	w := tabwriter.NewWriter(ctx.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FOOD TYPE\tKG CO₂ PER KG")
	for _, t := range carbon.FoodTypes() {
		fmt.Fprintf(w, "%s\t%.1f\n", utils.FormatLabel(t), carbon.Factors[t])
	}
	return w.Flush()
}

type WasteAddCmd struct {
	FoodType string  `arg:"" help:"Food type."`
	Quantity float64 `arg:"" help:"Quantity in kg."`
}

func (c *WasteAddCmd) Run(ctx *cli.Context) error {
	item, err := ctx.App().Carbon.AddWaste(c.FoodType, c.Quantity)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added %g kg of %s (%s CO₂)\n", item.Quantity, utils.FormatLabel(item.FoodType), utils.Kg(item.Emissions))
	return nil
}

type WasteRemoveCmd struct {
	Position int `arg:"" help:"Position in the waste list (1-based)."`
}

func (c *WasteRemoveCmd) Run(ctx *cli.Context) error {
	item, err := ctx.App().Carbon.RemoveWaste(c.Position - 1)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Removed %s\n", utils.FormatLabel(item.FoodType))
	return nil
}

type WasteListCmd struct{}

func (c *WasteListCmd) Run(ctx *cli.Context) error {
	calc := ctx.App().Carbon
	waste := calc.Waste()
	if len(waste) == 0 {
		ctx.Println("Your waste list is empty.")
		return nil
	}
	w := tabwriter.NewWriter(ctx.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tFOOD TYPE\tQUANTITY\tCO₂")
	for i, item := range waste {
		fmt.Fprintf(w, "%d\t%s\t%g kg\t%s\n", i+1, utils.FormatLabel(item.FoodType), item.Quantity, utils.Kg(item.Emissions))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	ctx.Println()
	ctx.Printf("Total: %s CO₂\n", utils.Kg(calc.Total().EmissionsKg))
	printEquivalents(ctx, calc.Total())
	return nil
}

type CarbonRecordCmd struct{}

func (c *CarbonRecordCmd) Run(ctx *cli.Context) error {
	calc := ctx.App().Carbon
	eq, _, err := calc.RecordSavings()
	if err != nil {
		return err
	}
	ctx.Printf("✓ Recorded %s CO₂ saved\n", utils.Kg(eq.EmissionsKg))
	ctx.Printf("  Lifetime savings: %s\n", utils.Kg(calc.Savings().EmissionsKg))
	return nil
}

type CarbonStatsCmd struct{}

func (c *CarbonStatsCmd) Run(ctx *cli.Context) error {
	calc := ctx.App().Carbon
	saved := calc.Savings()
	ctx.Printf("Calculations:   %d\n", calc.Calculations())
	ctx.Printf("CO₂ saved:      %s\n", utils.Kg(saved.EmissionsKg))
	printEquivalents(ctx, saved)
	return nil
}

func printEquivalents(ctx *cli.Context, eq carbon.Equivalents) {
	ctx.Printf("  ≈ %.1f km driven by car\n", eq.CarKm)
	ctx.Printf("  ≈ %.1f days of home electricity\n", eq.HomePowerDays)
}
