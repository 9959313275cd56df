package services

import (
	"fmt"
	"math"
	"time"

	"subtracker/internal/core"
)

const day = 24 * time.Hour

// DaysBetween returns the absolute distance between a and b in days,
// counting a partial day as a whole one. Both are read as wall-clock times,
// so a local now compares with a Date on the same calendar.
func DaysBetween(a, b time.Time) int {
	diff := wallClock(b).Sub(wallClock(a))
	if diff < 0 {
		diff = -diff
	}
	return ceilDays(diff)
}

// DaysUntil returns the signed number of days from now to target, rounded up:
// 0 is today, positive is ahead, negative is overdue. now is read in its own
// location, so any time on the target's calendar day yields 0.
func DaysUntil(target core.Date, now time.Time) int {
	return ceilDays(target.Sub(wallClock(now)))
}

// wallClock re-reads t's calendar fields as UTC, the location Dates live in.
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, m, d, h, mi, s, t.Nanosecond(), time.UTC)
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}

// FormatRelative turns a day count into a coarse "ago" phrase.
// The buckets are approximate on purpose: weeks are 7 days and months 30.
func FormatRelative(days int) string {
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 14:
		return "1 week ago"
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 60:
		return "1 month ago"
	default:
		return fmt.Sprintf("%d months ago", days/30)
	}
}

// FormatDue describes how far away a due date is and how pressing it is.
func FormatDue(days int) core.DueStatus {
	status := core.DueStatus{Days: days}
	switch {
	case days < 0:
		status.Urgency = core.UrgencyOverdue
		if days == -1 {
			status.Label = "Overdue by 1 day"
		} else {
			status.Label = fmt.Sprintf("Overdue by %d days", -days)
		}
		return status
	case days == 0:
		status.Label = "Due today"
	case days == 1:
		status.Label = "Due tomorrow"
	default:
		status.Label = fmt.Sprintf("Due in %d days", days)
	}

	switch {
	case days <= 2:
		status.Urgency = core.UrgencyUrgent
	case days <= 7:
		status.Urgency = core.UrgencySoon
	default:
		status.Urgency = core.UrgencyNormal
	}
	return status
}
