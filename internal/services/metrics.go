package services

import (
	"sort"
	"time"

	"subtracker/internal/core"
)

const (
	// UpcomingWindowDays is how far ahead an item counts as upcoming.
	UpcomingWindowDays = 7
	// RecentWindowDays is how far back a billing counts as recent activity.
	RecentWindowDays = 30
	// RecentActivityLimit caps the recent activity list.
	RecentActivityLimit = 5
)

// ComputeMetrics derives the dashboard header from the recurring items.
// Only active items count; one-time items add nothing to the monthly spend.
func ComputeMetrics(items []core.RecurringItem, now time.Time) core.DerivedMetrics {
	active := activeItems(items)

	monthly := make([]float64, 0, len(active))
	for _, it := range active {
		monthly = append(monthly, core.MonthlyEquivalent(it.Amount, it.Period))
	}

	upcoming := upcomingIn(active, now)
	metrics := core.DerivedMetrics{
		TotalMonthlySpend: core.SumAmounts(monthly...),
		ActiveItemCount:   len(active),
		UpcomingCount:     len(upcoming),
	}

	if len(upcoming) > 0 {
		next := upcoming[0]
		for _, it := range upcoming[1:] {
			// strict comparison keeps the first of equal dates
			if it.NextOccurrence.Before(next.NextOccurrence.Time) {
				next = it
			}
		}
		date := next.NextOccurrence
		amount := next.Amount
		metrics.NextDueDate = &date
		metrics.NextDueAmount = &amount
	}
	return metrics
}

// UpcomingItems returns the active items due within the upcoming window,
// soonest first. Items due on the same day keep their input order.
func UpcomingItems(items []core.RecurringItem, now time.Time) []core.RecurringItem {
	upcoming := upcomingIn(activeItems(items), now)
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].NextOccurrence.Before(upcoming[j].NextOccurrence.Time)
	})
	return upcoming
}

// ComputeRecentActivity lists the active items billed within the last
// RecentWindowDays days, most recent first, at most RecentActivityLimit.
func ComputeRecentActivity(items []core.RecurringItem, now time.Time) []core.RecentActivity {
	var recent []core.RecentActivity
	for _, it := range activeItems(items) {
		if it.NextOccurrence.IsZero() {
			continue
		}
		last := PreviousOccurrence(it.NextOccurrence, it.Period)
		days := DaysBetween(last.Time, now)
		if days < 0 || days > RecentWindowDays {
			continue
		}
		recent = append(recent, core.RecentActivity{
			RecurringItem:           it,
			LastOccurrence:          last,
			DaysSinceLastOccurrence: days,
		})
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].DaysSinceLastOccurrence < recent[j].DaysSinceLastOccurrence
	})
	if len(recent) > RecentActivityLimit {
		recent = recent[:RecentActivityLimit]
	}
	return recent
}

// ChargesInMonth lists every billing of the active items that falls in now's
// calendar month, earliest first. A next occurrence already in the past is
// rolled forward along its cadence before the month is scanned.
func ChargesInMonth(items []core.RecurringItem, now time.Time) []core.Charge {
	today := core.DateOf(now)
	start := core.NewDate(today.Year(), today.Month(), 1)
	end := core.Date{Time: AddPeriod(start, core.Monthly).AddDate(0, 0, -1)}

	var charges []core.Charge
	for _, it := range activeItems(items) {
		if it.NextOccurrence.IsZero() {
			continue
		}
		anchor := firstOnOrAfter(it.NextOccurrence, it.Period, start)
		for _, d := range OccurrencesInRange(anchor, it.Period, start, end) {
			charges = append(charges, core.Charge{RecurringItem: it, Date: d})
		}
	}

	sort.SliceStable(charges, func(i, j int) bool {
		return charges[i].Date.Before(charges[j].Date.Time)
	})
	return charges
}

// firstOnOrAfter moves d along its cadence to the earliest occurrence that is
// not before start.
func firstOnOrAfter(d core.Date, p core.Period, start core.Date) core.Date {
	if p == core.OneTime {
		return d
	}
	if d.Before(start.Time) {
		return NextOccurrence(d, p, start.AddDate(0, 0, -1))
	}
	for {
		prev := PreviousOccurrence(d, p)
		if !prev.Before(d.Time) || prev.Before(start.Time) {
			return d
		}
		d = prev
	}
}

// MonthlyIncome sums the income received in now's calendar month.
func MonthlyIncome(incomes []core.Income, now time.Time) float64 {
	today := core.DateOf(now)
	amounts := make([]float64, 0, len(incomes))
	for _, in := range incomes {
		if in.Date.Year() == today.Year() && in.Date.Month() == today.Month() {
			amounts = append(amounts, in.Amount)
		}
	}
	return core.SumAmounts(amounts...)
}

// ComputeOverview compares this month's income with the monthly run-rate of
// active subscriptions and bills.
func ComputeOverview(items []core.RecurringItem, incomes []core.Income, now time.Time) core.FinancialOverview {
	var subs, bills []float64
	overview := core.FinancialOverview{}
	for _, it := range activeItems(items) {
		monthly := core.MonthlyEquivalent(it.Amount, it.Period)
		if it.Kind == core.KindBill {
			bills = append(bills, monthly)
			overview.ActiveBills++
			continue
		}
		subs = append(subs, monthly)
		overview.ActiveSubscriptions++
	}

	overview.TotalIncome = MonthlyIncome(incomes, now)
	overview.SubscriptionExpenses = core.SumAmounts(subs...)
	overview.BillExpenses = core.SumAmounts(bills...)
	overview.TotalExpenses = core.SumAmounts(overview.SubscriptionExpenses, overview.BillExpenses)
	overview.AvailableMoney = core.SumAmounts(overview.TotalIncome, -overview.TotalExpenses)
	if overview.TotalIncome > 0 {
		overview.SavingsRate = core.RoundToCurrency(overview.AvailableMoney / overview.TotalIncome * 100)
	}
	return overview
}

// CountByCategory returns a copy of categories with SubscriptionCount filled in
// from every item referencing them, active or not.
func CountByCategory(items []core.RecurringItem, categories []core.Category) []core.Category {
	counts := make(map[string]int, len(categories))
	for _, it := range items {
		if it.CategoryID != "" {
			counts[it.CategoryID]++
		}
	}
	out := make([]core.Category, len(categories))
	for i, c := range categories {
		c.SubscriptionCount = counts[c.ID]
		out[i] = c
	}
	return out
}

func activeItems(items []core.RecurringItem) []core.RecurringItem {
	active := make([]core.RecurringItem, 0, len(items))
	for _, it := range items {
		if it.Active {
			active = append(active, it)
		}
	}
	return active
}

// upcomingIn keeps items due between today and UpcomingWindowDays ahead,
// preserving input order. Items without a valid date are never upcoming.
func upcomingIn(items []core.RecurringItem, now time.Time) []core.RecurringItem {
	var upcoming []core.RecurringItem
	for _, it := range items {
		if it.NextOccurrence.IsZero() {
			continue
		}
		days := DaysUntil(it.NextOccurrence, now)
		if days >= 0 && days <= UpcomingWindowDays {
			upcoming = append(upcoming, it)
		}
	}
	return upcoming
}
