package report

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"subtracker/internal/cache"
	"subtracker/internal/core"
	"subtracker/internal/ingest"
	"subtracker/internal/log"
)

// Builder composes dashboards and memoizes them by snapshot content, report
// day and currency.
type Builder struct {
	currency string
	cache    *cache.LRUCache[*Dashboard]
	logger   *log.Logger
}

// NewBuilder creates a builder. A nil cache disables memoization.
func NewBuilder(currencyCode string, c *cache.LRUCache[*Dashboard], logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Discard()
	}
	return &Builder{
		currency: strings.ToUpper(currencyCode),
		cache:    c,
		logger:   logger.WithComponent(log.ComponentReport),
	}
}

// Build returns the dashboard for snap as of now's calendar day. The second
// result reports whether it came from the cache.
func (b *Builder) Build(snap *ingest.Snapshot, now time.Time) (*Dashboard, bool) {
	start := time.Now()
	if b.cache == nil {
		d := Compose(snap, now, b.currency)
		b.logBuilt(d, false, start)
		return d, false
	}

	// Compose cannot fail.
	d, hit, _ := b.cache.GetOrCompute(CacheKey(snap, now, b.currency), func() (*Dashboard, error) {
		return Compose(snap, now, b.currency), nil
	})
	b.logBuilt(d, hit, start)
	return d, hit
}

func (b *Builder) logBuilt(d *Dashboard, hit bool, start time.Time) {
	fields := log.NewFields().
		WithOperation(log.OpBuild).
		WithReport(d.Snapshot, d.AsOf.Time, hit).
		WithDuration(time.Since(start))
	fields[log.FieldUpcoming] = len(d.Upcoming)
	fields[log.FieldMonthlySpend] = d.Metrics.TotalMonthlySpend
	fields[log.FieldCurrency] = d.Currency
	b.logger.Debug("Dashboard ready", fields.ToSlice()...)
}

// CacheKey identifies a dashboard: same files, same day and same currency
// always produce the same dashboard.
func CacheKey(snap *ingest.Snapshot, now time.Time, currencyCode string) string {
	return snap.Fingerprint + "|" + core.DateOf(now).String() + "|" + strings.ToUpper(currencyCode)
}

// formatPercent renders a savings rate such as 49.36 as "49.4%".
func formatPercent(v float64) string {
	if v != v {
		return "n/a"
	}
	return message.NewPrinter(language.AmericanEnglish).Sprint(number.Decimal(v, number.Scale(1))) + "%"
}
