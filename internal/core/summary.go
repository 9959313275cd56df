package core

// DerivedMetrics is the dashboard header computed from the recurring items.
// NextDueDate and NextDueAmount are nil when nothing is due in the window.
type DerivedMetrics struct {
	TotalMonthlySpend float64
	ActiveItemCount   int
	UpcomingCount     int
	NextDueDate       *Date
	NextDueAmount     *float64
}

// RecentActivity is a recurring item decorated with its last billing.
type RecentActivity struct {
	RecurringItem
	LastOccurrence          Date
	DaysSinceLastOccurrence int
}

// Charge is a single billing of a recurring item.
type Charge struct {
	RecurringItem
	Date Date
}

// FinancialOverview compares this month's income with the monthly run-rate
// of active subscriptions and bills.
type FinancialOverview struct {
	TotalIncome          float64
	SubscriptionExpenses float64
	BillExpenses         float64
	TotalExpenses        float64
	AvailableMoney       float64
	SavingsRate          float64 // percent of income, 0 without income
	ActiveSubscriptions  int
	ActiveBills          int
}

type Urgency string

const (
	UrgencyOverdue Urgency = "overdue"
	UrgencyUrgent  Urgency = "urgent"
	UrgencySoon    Urgency = "soon"
	UrgencyNormal  Urgency = "normal"
)

// DueStatus is the label shown next to an item's due date.
type DueStatus struct {
	Days    int
	Label   string
	Urgency Urgency
}
