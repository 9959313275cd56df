package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"

	"subtracker/internal/core"
	"subtracker/internal/log"
)

type Config struct {
	// Data directory and collection files inside it
	DataDir           string
	SubscriptionsFile string
	BillsFile         string
	IncomeFile        string
	CategoriesFile    string

	// Presentation
	Currency string
	AsOf     string // YYYY-MM-DD; empty means the wall clock

	// Logging
	LogLevel  string
	LogFormat string

	// Watch mode and report cache
	WatchInterval   time.Duration
	ReportCacheSize int
	ReportCacheTTL  time.Duration
}

func Load() *Config {
	cfg := &Config{
		DataDir:           getEnv("DATA_DIR", "./data"),
		SubscriptionsFile: getEnv("SUBSCRIPTIONS_FILE", "subscriptions.json"),
		BillsFile:         getEnv("BILLS_FILE", "bills.json"),
		IncomeFile:        getEnv("INCOME_FILE", "income.json"),
		CategoriesFile:    getEnv("CATEGORIES_FILE", "categories.json"),

		Currency: strings.ToUpper(getEnv("CURRENCY", "USD")),
		AsOf:     getEnv("REPORT_DATE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		WatchInterval:   getEnvDuration("WATCH_INTERVAL", 0),
		ReportCacheSize: getEnvInt("REPORT_CACHE_SIZE", 16),
		ReportCacheTTL:  getEnvDuration("REPORT_CACHE_TTL", time.Minute),
	}

	return cfg
}

// BindFlags registers command line flags that override the loaded values.
// Call it after Load and before fs.Parse.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DataDir, "data", c.DataDir, "directory holding the exported collections")
	fs.StringVar(&c.Currency, "currency", c.Currency, "ISO 4217 code used to format amounts")
	fs.StringVar(&c.AsOf, "today", c.AsOf, "report date as YYYY-MM-DD instead of the current date")
	fs.DurationVar(&c.WatchInterval, "watch", c.WatchInterval, "rebuild the report on this interval until interrupted (0 runs once)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

// Now returns the instant reports are computed for: midnight UTC of AsOf when
// it is set, otherwise the wall clock.
func (c *Config) Now() (time.Time, error) {
	if c.AsOf == "" {
		return time.Now(), nil
	}
	d, err := core.ParseDate(c.AsOf)
	if err != nil {
		return time.Time{}, err
	}
	return d.Time, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate data directory
	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	} else if info, err := os.Stat(c.DataDir); err != nil {
		errors = append(errors, fmt.Sprintf("data directory '%s' is not accessible: %v", c.DataDir, err))
	} else if !info.IsDir() {
		errors = append(errors, fmt.Sprintf("data directory '%s' is not a directory", c.DataDir))
	}

	if c.SubscriptionsFile == "" && c.BillsFile == "" {
		errors = append(errors, "at least one of SUBSCRIPTIONS_FILE or BILLS_FILE must be set")
	}

	// Validate currency
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if _, err := currency.ParseISO(c.Currency); err != nil || len(c.Currency) != 3 {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': must be an ISO 4217 code", c.Currency))
	}

	// Validate report date
	if c.AsOf != "" {
		if _, err := core.ParseDate(c.AsOf); err != nil {
			errors = append(errors, fmt.Sprintf("invalid report date '%s': must be YYYY-MM-DD", c.AsOf))
		}
	}

	// Validate logging
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	validFormats := []string{"text", "json"}
	isValidFormat := false
	for _, format := range validFormats {
		if strings.EqualFold(c.LogFormat, format) {
			isValidFormat = true
			break
		}
	}
	if !isValidFormat {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	// Validate watch mode
	if c.WatchInterval < 0 {
		errors = append(errors, fmt.Sprintf("invalid watch interval %v: must not be negative", c.WatchInterval))
	} else if c.WatchInterval > 0 && c.WatchInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid watch interval %v: must be at least 1 second", c.WatchInterval))
	} else if c.WatchInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid watch interval %v: must be at most 24 hours", c.WatchInterval))
	}

	// Validate report cache
	if c.ReportCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid report cache size %d: must be at least 1", c.ReportCacheSize))
	} else if c.ReportCacheSize > 1024 {
		errors = append(errors, fmt.Sprintf("invalid report cache size %d: must be at most 1024", c.ReportCacheSize))
	}
	if c.ReportCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid report cache ttl %v: must not be negative", c.ReportCacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
