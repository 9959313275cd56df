package log

import "time"

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldDuration     = "duration_ms"
	FieldFile         = "file"
	FieldRecords      = "records"
	FieldItemID       = "item_id"
	FieldItemName     = "item_name"
	FieldPeriod       = "period"
	FieldCurrency     = "currency"
	FieldSnapshot     = "snapshot"
	FieldAsOf         = "as_of"
	FieldCacheHit     = "cache_hit"
	FieldInterval     = "interval"
	FieldUpcoming     = "upcoming"
	FieldMonthlySpend = "monthly_spend"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentConfig = "config"
	ComponentIngest = "ingest"
	ComponentReport = "report"
	ComponentCache  = "cache"
	ComponentWatch  = "watch"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpDecode   = "decode"
	OpValidate = "validate"
	OpBuild    = "build"
	OpRender   = "render"
	OpCleanup  = "cleanup"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithFile adds the source file and how many records it held
func (f LogFields) WithFile(path string, records int) LogFields {
	f[FieldFile] = path
	f[FieldRecords] = records
	return f
}

// WithItem adds recurring item fields
func (f LogFields) WithItem(id, name, period string) LogFields {
	f[FieldItemID] = id
	f[FieldItemName] = name
	f[FieldPeriod] = period
	return f
}

// WithReport adds the fields describing a built report
func (f LogFields) WithReport(snapshot string, asOf time.Time, cacheHit bool) LogFields {
	f[FieldSnapshot] = snapshot
	f[FieldAsOf] = asOf.Format("2006-01-02")
	f[FieldCacheHit] = cacheHit
	return f
}

// WithDuration adds an elapsed time in milliseconds
func (f LogFields) WithDuration(d time.Duration) LogFields {
	f[FieldDuration] = d.Milliseconds()
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
