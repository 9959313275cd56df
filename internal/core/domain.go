package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	OneTime   Period = "ONE_TIME"
	Daily     Period = "DAILY"
	Weekly    Period = "WEEKLY"
	Monthly   Period = "MONTHLY"
	Quarterly Period = "QUARTERLY"
	Yearly    Period = "YEARLY"
)

const (
	KindSubscription ItemKind = "subscription"
	KindBill         ItemKind = "bill"
	KindIncome       ItemKind = "income"
)

const (
	dateLayout    = "2006-01-02"
	maxNameLength = 200
)

type (
	// Period is the billing cadence of a recurring item.
	Period string

	// ItemKind tells subscriptions and bills apart where a breakdown needs it.
	ItemKind string

	// Date is a calendar date held at UTC midnight.
	Date struct {
		time.Time
	}

	RecurringItem struct {
		ID             string
		Name           string
		Amount         float64
		Period         Period
		NextOccurrence Date
		Active         bool
		CategoryID     string // optional
		Kind           ItemKind
	}

	Category struct {
		ID                string
		Name              string
		Color             string
		Locked            bool
		Kind              ItemKind
		SubscriptionCount int
	}

	Income struct {
		ID          string
		Name        string
		Amount      float64
		Date        Date
		Description string
		CategoryID  string
	}
)

var (
	ErrInvalidPeriod  = errors.New("invalid period")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")
	ErrEmptyName      = errors.New("empty name")
	ErrNameTooLong    = errors.New("name too long (max 200 characters)")
	ErrCategoryLocked = errors.New("category is locked")
)

// Periods lists every valid period in ascending cadence length, ONE_TIME first.
var Periods = []Period{OneTime, Daily, Weekly, Monthly, Quarterly, Yearly}

var periodAliases = map[string]Period{
	"one_time":  OneTime,
	"one-time":  OneTime,
	"onetime":   OneTime,
	"once":      OneTime,
	"daily":     Daily,
	"weekly":    Weekly,
	"monthly":   Monthly,
	"quarterly": Quarterly,
	"quarter":   Quarterly,
	"yearly":    Yearly,
	"annual":    Yearly,
	"annually":  Yearly,
}

// ParsePeriod normalizes a period name coming from outside the core.
func ParsePeriod(s string) (Period, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if p, ok := periodAliases[key]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

func (p Period) IsValid() bool {
	switch p {
	case OneTime, Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	default:
		return false
	}
}

func (p Period) String() string {
	return string(p)
}

// DisplayName returns the human label used in lists ("One-time", "Monthly", ...).
func (p Period) DisplayName() string {
	switch p {
	case OneTime:
		return "One-time"
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case Monthly:
		return "Monthly"
	case Quarterly:
		return "Quarterly"
	case Yearly:
		return "Yearly"
	default:
		return string(p)
	}
}

// NewDate creates a new Date from year, month, day. Out of range values
// normalize the way time.Date does.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	// Accept full timestamps too; only the calendar day is kept.
	if len(s) > len(dateLayout) {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		*d = DateOf(t)
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (it RecurringItem) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(it.Name) > maxNameLength {
		return ErrNameTooLong
	}
	if it.Amount < 0 || it.Amount != it.Amount {
		return ErrInvalidAmount
	}
	if !it.Period.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, it.Period)
	}
	if err := it.NextOccurrence.Validate(); err != nil {
		return fmt.Errorf("invalid next occurrence: %w", err)
	}
	return nil
}

func (in Income) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	if in.Amount < 0 || in.Amount != in.Amount {
		return ErrInvalidAmount
	}
	if err := in.Date.Validate(); err != nil {
		return fmt.Errorf("invalid income date: %w", err)
	}
	return nil
}

// AssertMutable reports ErrCategoryLocked for reserved categories.
func (c Category) AssertMutable() error {
	if c.Locked {
		return fmt.Errorf("%w: %s", ErrCategoryLocked, c.Name)
	}
	return nil
}
