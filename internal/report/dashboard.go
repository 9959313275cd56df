// Package report turns a loaded snapshot into the dashboard a user reads:
// formatted totals, the upcoming bills list, recent billings, this month's
// billing schedule, the income overview and category counts.
package report

import (
	"errors"
	"time"

	"subtracker/internal/core"
	"subtracker/internal/ingest"
	"subtracker/internal/services"
)

// Dashboard is the presentation model of one report. Amounts are already
// formatted in the report currency; the raw aggregates are kept alongside for
// callers that need numbers.
type Dashboard struct {
	AsOf     core.Date
	Currency string
	Snapshot string

	Metrics      core.DerivedMetrics
	MonthlySpend string
	ActiveItems  int
	NextDue      string // empty when nothing is due in the window
	NextDueIn    string

	Upcoming []UpcomingRow
	Recent   []RecentRow

	Charges      []ChargeRow // every billing in the report month
	ChargesTotal string

	Overview      core.FinancialOverview
	Income        string
	Expenses      string
	Subscriptions string
	Bills         string
	Available     string
	SavingsRate   string

	Categories []CategoryRow
}

type UpcomingRow struct {
	ID     string
	Name   string
	Period string
	Amount string
	Date   string
	Due    core.DueStatus
}

type RecentRow struct {
	ID         string
	Name       string
	Amount     string
	LastBilled string
	When       string
}

type ChargeRow struct {
	ID     string
	Name   string
	Amount string
	Date   string
	Paid   bool // on or before the report day
}

type CategoryRow struct {
	Name   string
	Count  int
	Locked bool
}

// Compose builds the dashboard for snap as of the calendar day containing now.
// Every day-based value is computed from midnight of that day, so two calls on
// the same day agree regardless of the time of day.
func Compose(snap *ingest.Snapshot, now time.Time, currencyCode string) *Dashboard {
	asOf := core.DateOf(now)
	at := asOf.Time
	money := func(v float64) string { return core.FormatCurrency(v, currencyCode) }

	metrics := services.ComputeMetrics(snap.Items, at)
	d := &Dashboard{
		AsOf:         asOf,
		Currency:     currencyCode,
		Snapshot:     snap.Fingerprint,
		Metrics:      metrics,
		MonthlySpend: money(metrics.TotalMonthlySpend),
		ActiveItems:  metrics.ActiveItemCount,
	}
	if metrics.NextDueDate != nil {
		d.NextDue = money(*metrics.NextDueAmount) + " on " + metrics.NextDueDate.String()
		d.NextDueIn = services.FormatDue(services.DaysUntil(*metrics.NextDueDate, at)).Label
	}

	for _, it := range services.UpcomingItems(snap.Items, at) {
		d.Upcoming = append(d.Upcoming, UpcomingRow{
			ID:     it.ID,
			Name:   it.Name,
			Period: it.Period.DisplayName(),
			Amount: money(it.Amount),
			Date:   it.NextOccurrence.String(),
			Due:    services.FormatDue(services.DaysUntil(it.NextOccurrence, at)),
		})
	}

	for _, ra := range services.ComputeRecentActivity(snap.Items, at) {
		d.Recent = append(d.Recent, RecentRow{
			ID:         ra.ID,
			Name:       ra.Name,
			Amount:     money(ra.Amount),
			LastBilled: ra.LastOccurrence.String(),
			When:       services.FormatRelative(ra.DaysSinceLastOccurrence),
		})
	}

	charges := services.ChargesInMonth(snap.Items, at)
	amounts := make([]float64, 0, len(charges))
	for _, c := range charges {
		d.Charges = append(d.Charges, ChargeRow{
			ID:     c.ID,
			Name:   c.Name,
			Amount: money(c.Amount),
			Date:   c.Date.String(),
			Paid:   !c.Date.After(at),
		})
		amounts = append(amounts, c.Amount)
	}
	d.ChargesTotal = money(core.SumAmounts(amounts...))

	ov := services.ComputeOverview(snap.Items, snap.Incomes, at)
	d.Overview = ov
	d.Income = money(ov.TotalIncome)
	d.Expenses = money(ov.TotalExpenses)
	d.Subscriptions = money(ov.SubscriptionExpenses)
	d.Bills = money(ov.BillExpenses)
	d.Available = money(ov.AvailableMoney)
	d.SavingsRate = formatPercent(ov.SavingsRate)

	for _, c := range services.CountByCategory(snap.Items, snap.Categories) {
		locked := errors.Is(c.AssertMutable(), core.ErrCategoryLocked)
		d.Categories = append(d.Categories, CategoryRow{Name: c.Name, Count: c.SubscriptionCount, Locked: locked})
	}
	return d
}
