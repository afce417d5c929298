package learn

import (
	"context"
	"strings"

	"github.com/tranaapp/trana/internal/aiclient"
	"github.com/tranaapp/trana/internal/cli"
	learnpkg "github.com/tranaapp/trana/internal/learn"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/utils"
)

type LearnCmd struct {
	Topic []string `arg:"" optional:"" help:"Topic to learn about. Omit to list popular topics."`
	Save  bool     `help:"Save the content to your profile."`
	Share bool     `help:"Copy the content to the clipboard."`
}

func (c *LearnCmd) Run(ctx *cli.Context) error {
	if len(c.Topic) == 0 {
		ctx.Println("Popular topics:")
		for _, t := range learnpkg.PopularTopics() {
			ctx.Printf("  %s %s\n", t.Icon, t.Name)
		}
		return nil
	}

	svc := ctx.App().Learn
	topic := strings.Join(c.Topic, " ")
	content, _, err := svc.Learn(context.Background(), topic)
	if err != nil {
		return err
	}
	printContent(ctx, topic, content)

	if c.Save {
		if err := svc.Save(); err != nil {
			return err
		}
		ctx.Println("✓ Content saved to your profile")
	}
	if c.Share {
		if err := learnpkg.Share(topic, content); err != nil {
			return err
		}
		ctx.Println("✓ Content copied to clipboard")
	}
	return nil
}

type LearnHistoryCmd struct{}

func (c *LearnHistoryCmd) Run(ctx *cli.Context) error {
	svc := ctx.App().Learn
	history := svc.History()
	if len(history) == 0 {
		ctx.Println("No topics explored yet.")
		return nil
	}
	for _, e := range history {
		ctx.Printf("• %s (%s)\n", e.Title, utils.Ago(e.Timestamp))
		if e.Snippet != "" {
			ctx.Printf("  %s\n", utils.Truncate(e.Snippet, 80))
		}
	}
	st := svc.Stats()
	ctx.Printf("\nTopics learned: %d  Saved: %d\n", st.TopicsLearned, st.TopicsSaved)
	return nil
}

func printContent(ctx *cli.Context, topic string, content models.LearnContent) {
	title := content.Title
	if title == "" {
		title = topic
	}
	ctx.Printf("%s\n%s\n\n", title, strings.Repeat("=", len([]rune(title))))
	if intro := aiclient.PlainText(content.Introduction); intro != "" {
		ctx.Printf("%s\n\n", intro)
	}
	if body := aiclient.PlainText(content.Content); body != "" {
		ctx.Printf("%s\n\n", body)
	}
	if len(content.Tips) > 0 {
		ctx.Println("Tips:")
		for _, tip := range content.Tips {
			ctx.Printf("  • %s\n", aiclient.PlainText(tip))
		}
		ctx.Println()
	}
	if len(content.ActionSteps) > 0 {
		ctx.Println("Action steps:")
		for i, step := range content.ActionSteps {
			ctx.Printf("  %d. %s\n", i+1, aiclient.PlainText(step))
		}
	}
}
