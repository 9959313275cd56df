package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"subtracker/internal/core"
)

var (
	colorTitle   = lipgloss.Color("#87CEEB")
	colorMuted   = lipgloss.Color("#7f849c")
	colorOverdue = lipgloss.Color("#f38ba8")
	colorUrgent  = lipgloss.Color("#fab387")
	colorSoon    = lipgloss.Color("#f9e2af")
	colorGood    = lipgloss.Color("#a6e3a1")
)

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	card    lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	urgency map[core.Urgency]lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
}

// newStyles binds every style to a renderer for w, so colors are only emitted
// when w is a terminal that supports them.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Foreground(colorTitle).Bold(true),
		section: r.NewStyle().Bold(true).Underline(true).MarginTop(1),
		card:    r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1),
		label:   r.NewStyle().Foreground(colorMuted),
		value:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
		urgency: map[core.Urgency]lipgloss.Style{
			core.UrgencyOverdue: r.NewStyle().Foreground(colorOverdue).Bold(true),
			core.UrgencyUrgent:  r.NewStyle().Foreground(colorUrgent),
			core.UrgencySoon:    r.NewStyle().Foreground(colorSoon),
			core.UrgencyNormal:  r.NewStyle(),
		},
		good: r.NewStyle().Foreground(colorGood),
		bad:  r.NewStyle().Foreground(colorOverdue),
	}
}

// Render writes the dashboard to w as a terminal report.
func Render(w io.Writer, d *Dashboard) error {
	s := newStyles(w)
	var b strings.Builder

	b.WriteString(s.title.Render("Budget report"))
	b.WriteString(s.muted.Render(fmt.Sprintf("  %s · %s", d.AsOf, d.Currency)))
	b.WriteString("\n")

	nextDue := d.NextDue
	if nextDue == "" {
		nextDue = "nothing this week"
	}
	cards := []string{
		s.card.Render(s.label.Render("Monthly spend") + "\n" + s.value.Render(d.MonthlySpend)),
		s.card.Render(s.label.Render("Active") + "\n" + s.value.Render(fmt.Sprintf("%d", d.ActiveItems))),
		s.card.Render(s.label.Render("Due this week") + "\n" + s.value.Render(fmt.Sprintf("%d", d.Metrics.UpcomingCount))),
		s.card.Render(s.label.Render("Next due") + "\n" + s.value.Render(nextDue)),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")

	b.WriteString(s.section.Render("Upcoming"))
	b.WriteString("\n")
	if len(d.Upcoming) == 0 {
		b.WriteString(s.muted.Render("No payments due in the next 7 days."))
		b.WriteString("\n")
	}
	for _, row := range d.Upcoming {
		label := s.urgency[row.Due.Urgency].Render(row.Due.Label)
		fmt.Fprintf(&b, "  %-24s %14s  %-10s %-10s %s\n", truncate(row.Name, 24), row.Amount, row.Period, row.Date, label)
	}

	b.WriteString(s.section.Render("Recent activity"))
	b.WriteString("\n")
	if len(d.Recent) == 0 {
		b.WriteString(s.muted.Render("Nothing billed in the last 30 days."))
		b.WriteString("\n")
	}
	for _, row := range d.Recent {
		fmt.Fprintf(&b, "  %-24s %14s  %-10s %s\n", truncate(row.Name, 24), row.Amount, row.LastBilled, s.muted.Render(row.When))
	}

	b.WriteString(s.section.Render("Billed this month"))
	b.WriteString("\n")
	if len(d.Charges) == 0 {
		b.WriteString(s.muted.Render("No billings this month."))
		b.WriteString("\n")
	}
	for _, row := range d.Charges {
		mark := " "
		if row.Paid {
			mark = "✓"
		}
		fmt.Fprintf(&b, "  %s %-10s %-24s %14s\n", mark, row.Date, truncate(row.Name, 24), row.Amount)
	}
	if len(d.Charges) > 0 {
		fmt.Fprintf(&b, "    %-35s %14s\n", "Total", s.value.Render(d.ChargesTotal))
	}

	b.WriteString(s.section.Render("This month"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %-16s %14s\n", "Income", d.Income)
	fmt.Fprintf(&b, "  %-16s %14s\n", "Subscriptions", d.Subscriptions)
	fmt.Fprintf(&b, "  %-16s %14s\n", "Bills", d.Bills)
	fmt.Fprintf(&b, "  %-16s %14s\n", "Total expenses", d.Expenses)
	available := s.good
	if d.Overview.AvailableMoney < 0 {
		available = s.bad
	}
	fmt.Fprintf(&b, "  %-16s %s\n", "Available", available.Render(fmt.Sprintf("%14s", d.Available)))
	fmt.Fprintf(&b, "  %-16s %14s\n", "Savings rate", d.SavingsRate)

	if len(d.Categories) > 0 {
		b.WriteString(s.section.Render("Categories"))
		b.WriteString("\n")
		for _, c := range d.Categories {
			name := c.Name
			if c.Locked {
				name += " (locked)"
			}
			fmt.Fprintf(&b, "  %-32s %4d\n", truncate(name, 32), c.Count)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
