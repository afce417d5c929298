package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/utils"
)

type SuggestCmd struct {
	Ingredients []string `arg:"" help:"Ingredients you want to use up."`
}

func (c *SuggestCmd) Run(ctx *cli.Context) error {
	ingredients := strings.Join(c.Ingredients, " ")
	suggestions, _, err := ctx.App().Suggest.Generate(context.Background(), ingredients)
	if err != nil {
		return err
	}
	ctx.Printf("Ideas for %s:\n\n", ingredients)
	printSuggestions(ctx, suggestions)
	ctx.Println("Save one with 'trana suggest save 1 <number>'.")
	return nil
}

type SuggestSaveCmd struct {
	Entry  int `arg:"" help:"History entry (1 is the newest)."`
	Number int `arg:"" help:"Suggestion number within the entry."`
}

func (c *SuggestSaveCmd) Run(ctx *cli.Context) error {
	svc := ctx.App().Suggest
	entry, err := svc.Entry(c.Entry - 1)
	if err != nil {
		return err
	}
	if c.Number < 1 || c.Number > len(entry.Suggestions) {
		return fmt.Errorf("entry %d has %d suggestion(s)", c.Entry, len(entry.Suggestions))
	}
	s := entry.Suggestions[c.Number-1]
	if err := svc.Save(entry.Ingredients, s); err != nil {
		return err
	}
	ctx.Printf("✓ Saved %q\n", s.Title)
	return nil
}

type SuggestHistoryCmd struct{}

func (c *SuggestHistoryCmd) Run(ctx *cli.Context) error {
	svc := ctx.App().Suggest
	history := svc.History()
	if len(history) == 0 {
		ctx.Println("No suggestions yet.")
		return nil
	}
	for i, e := range history {
		if e.Saved() {
			ctx.Printf("%2d. ★ %s (from %s) - %s\n", i+1, e.Title, e.Ingredients, utils.Ago(e.Timestamp))
			continue
		}
		ctx.Printf("%2d. %s - %d idea(s), %s\n", i+1, e.Ingredients, len(e.Suggestions), utils.Ago(e.Timestamp))
	}
	st := svc.Stats()
	ctx.Printf("\nGenerated: %d  Saved: %d\n", st.SuggestionsGenerated, st.SuggestionsSaved)
	return nil
}

type SuggestShowCmd struct {
	Entry int `arg:"" help:"History entry (1 is the newest)."`
}

func (c *SuggestShowCmd) Run(ctx *cli.Context) error {
	e, err := ctx.App().Suggest.Entry(c.Entry - 1)
	if err != nil {
		return err
	}
	if e.Saved() {
		printSuggestions(ctx, []models.Suggestion{{Title: e.Title, Description: e.Description}})
		return nil
	}
	ctx.Printf("Ideas for %s:\n\n", e.Ingredients)
	printSuggestions(ctx, e.Suggestions)
	return nil
}

type SuggestPingCmd struct{}

func (c *SuggestPingCmd) Run(ctx *cli.Context) error {
	msg, err := ctx.App().Suggest.Probe(context.Background())
	if err != nil {
		return err
	}
	ctx.Printf("✓ %s\n", msg)
	return nil
}

func printSuggestions(ctx *cli.Context, suggestions []models.Suggestion) {
	for i, s := range suggestions {
		ctx.Printf("%d. %s\n", i+1, s.Title)
		if s.Description != "" {
			ctx.Printf("   %s\n", s.Description)
		}
		ctx.Println()
	}
}
