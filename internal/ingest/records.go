package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"subtracker/internal/core"
)

var (
	ErrMalformed     = errors.New("malformed collection")
	ErrMissingAmount = errors.New("missing amount")
	ErrMissingPeriod = errors.New("missing period")
)

// flexString accepts a JSON string or number. Exported collections use
// numeric database ids; hand-written files tend to use strings.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

// flexAmount accepts 12.5, "12.50" or "12,50".
type flexAmount struct {
	value float64
	set   bool
}

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = flexAmount{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := core.ParseAmount(s)
		if err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
		*a = flexAmount{value: v, set: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidAmount, b)
	}
	v, err := n.Float64()
	if err != nil || v < 0 {
		return fmt.Errorf("%w: %s", core.ErrInvalidAmount, b)
	}
	*a = flexAmount{value: core.RoundToCurrency(v), set: true}
	return nil
}

// itemRecord is one subscription or bill as exported. Subscriptions carry
// price/billingPeriod/nextBillingDate, bills amount/period/dueDate.
type itemRecord struct {
	ID              flexString `json:"id"`
	Name            string     `json:"name"`
	Price           flexAmount `json:"price"`
	Amount          flexAmount `json:"amount"`
	BillingPeriod   string     `json:"billingPeriod"`
	Period          string     `json:"period"`
	NextBillingDate core.Date  `json:"nextBillingDate"`
	DueDate         core.Date  `json:"dueDate"`
	NextOccurrence  core.Date  `json:"nextOccurrence"`
	Active          *bool      `json:"active"`
	CategoryID      flexString `json:"categoryId"`
}

func (r itemRecord) toItem(kind core.ItemKind) (core.RecurringItem, error) {
	amount := r.Price
	if !amount.set {
		amount = r.Amount
	}
	if !amount.set {
		return core.RecurringItem{}, ErrMissingAmount
	}

	rawPeriod := firstNonEmpty(r.BillingPeriod, r.Period)
	if rawPeriod == "" {
		return core.RecurringItem{}, ErrMissingPeriod
	}
	period, err := core.ParsePeriod(rawPeriod)
	if err != nil {
		return core.RecurringItem{}, err
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}

	it := core.RecurringItem{
		ID:             idOrNew(r.ID),
		Name:           strings.TrimSpace(r.Name),
		Amount:         amount.value,
		Period:         period,
		NextOccurrence: firstDate(r.NextBillingDate, r.DueDate, r.NextOccurrence),
		Active:         active,
		CategoryID:     string(r.CategoryID),
		Kind:           kind,
	}
	if err := it.Validate(); err != nil {
		return core.RecurringItem{}, err
	}
	return it, nil
}

type incomeRecord struct {
	ID          flexString `json:"id"`
	Name        string     `json:"name"`
	Amount      flexAmount `json:"amount"`
	IncomeDate  core.Date  `json:"incomeDate"`
	Date        core.Date  `json:"date"`
	Description string     `json:"description"`
	CategoryID  flexString `json:"categoryId"`
}

func (r incomeRecord) toIncome() (core.Income, error) {
	if !r.Amount.set {
		return core.Income{}, ErrMissingAmount
	}
	in := core.Income{
		ID:          idOrNew(r.ID),
		Name:        strings.TrimSpace(r.Name),
		Amount:      r.Amount.value,
		Date:        firstDate(r.IncomeDate, r.Date),
		Description: strings.TrimSpace(r.Description),
		CategoryID:  string(r.CategoryID),
	}
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	return in, nil
}

type categoryRecord struct {
	ID     flexString `json:"id"`
	Name   string     `json:"name"`
	Color  string     `json:"color"`
	Locked bool       `json:"locked"`
	Kind   string     `json:"kind"`
}

func (r categoryRecord) toCategory() (core.Category, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return core.Category{}, core.ErrEmptyName
	}
	kind := core.ItemKind(strings.ToLower(strings.TrimSpace(r.Kind)))
	if kind == "" {
		kind = core.KindSubscription
	}
	return core.Category{
		ID:     idOrNew(r.ID),
		Name:   name,
		Color:  strings.TrimSpace(r.Color),
		Locked: r.Locked,
		Kind:   kind,
	}, nil
}

// splitCollection returns the raw records of a collection file. Both a bare
// array and a paginated page ({"content": [...]}) are accepted; an empty file
// is an empty collection.
func splitCollection(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	switch data[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return records, nil
	case '{':
		var page struct {
			Content []json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return page.Content, nil
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", ErrMalformed)
	}
}

func idOrNew(id flexString) string {
	if id == "" {
		return uuid.NewString()
	}
	return string(id)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func firstDate(dates ...core.Date) core.Date {
	for _, d := range dates {
		if !d.IsZero() {
			return d
		}
	}
	return core.Date{}
}
