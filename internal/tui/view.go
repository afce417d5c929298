package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tranaapp/trana/internal/aiclient"
	"github.com/tranaapp/trana/internal/badges"
	"github.com/tranaapp/trana/internal/learn"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/profile"
	"github.com/tranaapp/trana/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateFood:
		content = m.foodList.View()
	case StateAddFood, StateAddWaste:
		content = m.form.View()
	case StatePrompt:
		content = lipgloss.JoinVertical(lipgloss.Left, m.input.View(), "", mutedStyle.Render("enter to send • esc to cancel"))
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.detail.View()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		"",
		content,
		m.viewStatus(),
		m.help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) viewTabs() string {
	current := m.state
	if current >= tabCount {
		current = m.previousState
	}
	tabs := make([]string, len(tabTitles))
	for i, t := range tabTitles {
		if SessionState(i) == current {
			tabs[i] = activeTabStyle.Render(t)
		} else {
			tabs[i] = inactiveTabStyle.Render(t)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	var parts []string
	switch {
	case m.loading:
		parts = append(parts, warningStyle.Render(m.status))
	case m.status != "" && m.statusIsError:
		parts = append(parts, dangerStyle.Render(m.status))
	case m.status != "":
		parts = append(parts, noticeStyle.Render(m.status))
	}
	if m.validationWarning != "" {
		parts = append(parts, warningStyle.Render(m.validationWarning))
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		dangerStyle.Render("Delete "+m.itemToDelete.Name+"?"),
		"",
		"This removes the item without counting it as used.",
		"",
		mutedStyle.Render("y to confirm • n to cancel"),
	)
}

func (m Model) renderCarbon() string {
	c := m.app.Carbon
	var b strings.Builder

	b.WriteString(headingStyle.Render("Waste list") + "\n\n")
	waste := c.Waste()
	if len(waste) == 0 {
		b.WriteString(mutedStyle.Render("No wasted food yet. Press a to add some.") + "\n")
	}
	for i, w := range waste {
		fmt.Fprintf(&b, "%2d. %-20s %6.2f kg  %6.2f kg CO2\n", i+1, utils.FormatLabel(w.FoodType), w.Quantity, w.Emissions)
	}

	if len(waste) > 0 {
		total := c.Total()
		fmt.Fprintf(&b, "\nTotal: %.2f kg CO2\n", total.EmissionsKg)
		b.WriteString(mutedStyle.Render(fmt.Sprintf("≈ %.1f km by car, %.1f days of home electricity", total.CarKm, total.HomePowerDays)) + "\n")
	}

	saved := c.Savings()
	b.WriteString("\n" + headingStyle.Render("Savings") + "\n\n")
	fmt.Fprintf(&b, "Recorded: %.2f kg CO2 over %d calculation(s)\n", saved.EmissionsKg, c.Calculations())
	b.WriteString(mutedStyle.Render(fmt.Sprintf("≈ %.1f km not driven", saved.CarKm)) + "\n")
	return b.String()
}

func (m Model) renderSuggest() string {
	var b strings.Builder
	if len(m.suggestions) == 0 {
		b.WriteString(mutedStyle.Render("Press i and list what you have, e.g. \"bread, bananas\".") + "\n")
	} else {
		b.WriteString(headingStyle.Render("Ideas for "+m.suggestIngredient) + "\n\n")
		for i, s := range m.suggestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s.Title)
			b.WriteString("   " + aiclient.PlainText(s.Description) + "\n\n")
		}
		b.WriteString(mutedStyle.Render("Press 1-9 to save an idea.") + "\n")
	}

	stats := m.app.Suggest.Stats()
	b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("%d generated • %d saved", stats.SuggestionsGenerated, stats.SuggestionsSaved)))
	return b.String()
}

func (m Model) renderLearn() string {
	var b strings.Builder
	if m.learnContent == nil {
		b.WriteString(headingStyle.Render("Popular topics") + "\n\n")
		for _, t := range learn.PopularTopics() {
			fmt.Fprintf(&b, "%s %s\n", t.Icon, t.Name)
		}
		b.WriteString("\n" + mutedStyle.Render("Press i to ask about a topic.") + "\n")
	} else {
		writeLearnContent(&b, *m.learnContent)
	}

	if history := m.app.Learn.History(); len(history) > 0 {
		b.WriteString("\n" + headingStyle.Render("Recent") + "\n\n")
		for i, e := range history {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "%s  %s\n", e.Title, mutedStyle.Render(utils.Ago(e.Timestamp)))
		}
	}
	return b.String()
}

func writeLearnContent(b *strings.Builder, c models.LearnContent) {
	b.WriteString(headingStyle.Render(c.Title) + "\n\n")
	if c.Introduction != "" {
		b.WriteString(aiclient.PlainText(c.Introduction) + "\n\n")
	}
	if c.Content != "" {
		b.WriteString(aiclient.PlainText(c.Content) + "\n\n")
	}
	if len(c.Tips) > 0 {
		b.WriteString("Tips\n")
		for _, t := range c.Tips {
			b.WriteString("  • " + aiclient.PlainText(t) + "\n")
		}
		b.WriteString("\n")
	}
	if len(c.ActionSteps) > 0 {
		b.WriteString("Action steps\n")
		for i, s := range c.ActionSteps {
			fmt.Fprintf(b, "  %d. %s\n", i+1, aiclient.PlainText(s))
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("s to save • c to copy") + "\n")
}

func (m Model) renderBadges() string {
	earned := m.app.Badges.Earned()
	p := badges.ComputeProgress(earned)

	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d badges earned (%d%%)\n", p.Earned, p.Total, p.Percent)
	for _, cat := range models.BadgeCategories {
		b.WriteString("\n" + headingStyle.Render(strings.ToUpper(string(cat))) + "\n\n")
		for _, s := range badges.Statuses(earned, cat) {
			if s.Earned {
				fmt.Fprintf(&b, "%s %s  %s\n", s.Icon, noticeStyle.Render(s.Title), mutedStyle.Render(s.Record.DateAwarded.Local().Format("Jan 2, 2006")))
			} else {
				fmt.Fprintf(&b, "🔒 %s  %s\n", s.Title, mutedStyle.Render(s.Requirement))
			}
		}
	}
	return b.String()
}

func (m Model) renderProfile() string {
	p := m.app.Profile.Get()
	stats := m.app.Profile.Statistics()

	name := p.Name
	if name == "" {
		name = "Food Saver"
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render(name) + "\n")
	if joined, err := m.app.Profile.EnsureFirstVisit(); err == nil {
		b.WriteString(mutedStyle.Render("Member since "+profile.JoinDate(joined)) + "\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Items logged:      %d (%d active, %d used)\n", stats.ItemsLogged, stats.ActiveItems, stats.ItemsUsed)
	fmt.Fprintf(&b, "CO2 saved:         %.2f kg over %d calculation(s)\n", stats.CarbonSavedKg, stats.CarbonCalculations)
	fmt.Fprintf(&b, "Suggestions:       %d generated, %d saved\n", stats.SuggestionsGenerated, stats.SuggestionsSaved)
	fmt.Fprintf(&b, "Topics learned:    %d\n", stats.TopicsLearned)
	fmt.Fprintf(&b, "Badges:            %d/%d\n", stats.BadgesEarned, stats.BadgesTotal)

	if recent := m.app.Profile.RecentBadges(); len(recent) > 0 {
		b.WriteString("\n" + headingStyle.Render("Recent badges") + "\n\n")
		for _, s := range recent {
			fmt.Fprintf(&b, "%s %s\n", s.Icon, s.Title)
		}
	}

	b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("Notifications %s • edit with 'trana profile settings'", onOff(p.Settings.Notifications))) + "\n")
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
