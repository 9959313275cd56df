package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(dir string) Config {
	return Config{
		DataDir:           dir,
		SubscriptionsFile: "subscriptions.json",
		BillsFile:         "bills.json",
		IncomeFile:        "income.json",
		CategoriesFile:    "categories.json",
		Currency:          "USD",
		LogLevel:          "info",
		LogFormat:         "text",
		ReportCacheSize:   16,
		ReportCacheTTL:    time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()
	notADir := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(notADir, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	tests := []struct {
		name        string
		modify      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid defaults",
			modify:  func(*Config) {},
			wantErr: false,
		},
		{
			name: "valid watch mode with report date",
			modify: func(c *Config) {
				c.WatchInterval = 30 * time.Second
				c.AsOf = "2024-06-15"
				c.Currency = "eur"
				c.LogFormat = "JSON"
			},
			wantErr: false,
		},
		{
			name:        "empty data directory",
			modify:      func(c *Config) { c.DataDir = "" },
			wantErr:     true,
			errorString: "data directory cannot be empty",
		},
		{
			name:        "missing data directory",
			modify:      func(c *Config) { c.DataDir = filepath.Join(dir, "missing") },
			wantErr:     true,
			errorString: "is not accessible",
		},
		{
			name:        "data directory is a file",
			modify:      func(c *Config) { c.DataDir = notADir },
			wantErr:     true,
			errorString: "is not a directory",
		},
		{
			name: "no recurring collections",
			modify: func(c *Config) {
				c.SubscriptionsFile = ""
				c.BillsFile = ""
			},
			wantErr:     true,
			errorString: "at least one of SUBSCRIPTIONS_FILE or BILLS_FILE must be set",
		},
		{
			name:        "invalid currency - not a code",
			modify:      func(c *Config) { c.Currency = "DOLLARS" },
			wantErr:     true,
			errorString: "invalid currency 'DOLLARS'",
		},
		{
			name:        "invalid currency - unknown code",
			modify:      func(c *Config) { c.Currency = "QQQ" },
			wantErr:     true,
			errorString: "invalid currency 'QQQ'",
		},
		{
			name:        "invalid report date",
			modify:      func(c *Config) { c.AsOf = "15/06/2024" },
			wantErr:     true,
			errorString: "invalid report date '15/06/2024': must be YYYY-MM-DD",
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "invalid log format",
			modify:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml': must be one of [text json]",
		},
		{
			name:        "invalid watch interval - negative",
			modify:      func(c *Config) { c.WatchInterval = -time.Second },
			wantErr:     true,
			errorString: "invalid watch interval -1s: must not be negative",
		},
		{
			name:        "invalid watch interval - too short",
			modify:      func(c *Config) { c.WatchInterval = 500 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid watch interval 500ms: must be at least 1 second",
		},
		{
			name:        "invalid watch interval - too long",
			modify:      func(c *Config) { c.WatchInterval = 25 * time.Hour },
			wantErr:     true,
			errorString: "invalid watch interval 25h0m0s: must be at most 24 hours",
		},
		{
			name:        "invalid report cache size - too small",
			modify:      func(c *Config) { c.ReportCacheSize = 0 },
			wantErr:     true,
			errorString: "invalid report cache size 0: must be at least 1",
		},
		{
			name:        "invalid report cache size - too large",
			modify:      func(c *Config) { c.ReportCacheSize = 2000 },
			wantErr:     true,
			errorString: "invalid report cache size 2000: must be at most 1024",
		},
		{
			name:        "invalid report cache ttl",
			modify:      func(c *Config) { c.ReportCacheTTL = -time.Minute },
			wantErr:     true,
			errorString: "invalid report cache ttl -1m0s: must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(dir)
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig(t.TempDir())
	cfg.Currency = "DOLLARS"
	cfg.ReportCacheSize = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Config.Validate() error = nil, want two problems")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 2 {
		t.Errorf("Config.Validate() reported %d problems, want 2: %v", got, err)
	}
}

func TestLoad(t *testing.T) {
	keys := []string{
		"DATA_DIR", "SUBSCRIPTIONS_FILE", "BILLS_FILE", "INCOME_FILE", "CATEGORIES_FILE",
		"CURRENCY", "REPORT_DATE", "LOG_LEVEL", "LOG_FORMAT",
		"WATCH_INTERVAL", "REPORT_CACHE_SIZE", "REPORT_CACHE_TTL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.DataDir != "./data" {
			t.Errorf("Load() DataDir = %v, want ./data", cfg.DataDir)
		}
		if cfg.SubscriptionsFile != "subscriptions.json" || cfg.IncomeFile != "income.json" {
			t.Errorf("Load() files = %v/%v", cfg.SubscriptionsFile, cfg.IncomeFile)
		}
		if cfg.Currency != "USD" {
			t.Errorf("Load() Currency = %v, want USD", cfg.Currency)
		}
		if cfg.WatchInterval != 0 {
			t.Errorf("Load() WatchInterval = %v, want 0", cfg.WatchInterval)
		}
		if cfg.ReportCacheSize != 16 {
			t.Errorf("Load() ReportCacheSize = %v, want 16", cfg.ReportCacheSize)
		}
		if cfg.ReportCacheTTL != time.Minute {
			t.Errorf("Load() ReportCacheTTL = %v, want 1m", cfg.ReportCacheTTL)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("DATA_DIR", "/srv/budget")
		t.Setenv("CURRENCY", "eur")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("WATCH_INTERVAL", "45s")
		t.Setenv("REPORT_CACHE_SIZE", "4")

		cfg := Load()

		if cfg.DataDir != "/srv/budget" {
			t.Errorf("Load() DataDir = %v, want /srv/budget", cfg.DataDir)
		}
		if cfg.Currency != "EUR" {
			t.Errorf("Load() Currency = %v, want EUR", cfg.Currency)
		}
		if cfg.LogFormat != "json" {
			t.Errorf("Load() LogFormat = %v, want json", cfg.LogFormat)
		}
		if cfg.WatchInterval != 45*time.Second {
			t.Errorf("Load() WatchInterval = %v, want 45s", cfg.WatchInterval)
		}
		if cfg.ReportCacheSize != 4 {
			t.Errorf("Load() ReportCacheSize = %v, want 4", cfg.ReportCacheSize)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("WATCH_INTERVAL", "invalid")
		t.Setenv("REPORT_CACHE_SIZE", "invalid")

		cfg := Load()

		if cfg.WatchInterval != 0 {
			t.Errorf("Load() WatchInterval = %v, want 0 (default for invalid input)", cfg.WatchInterval)
		}
		if cfg.ReportCacheSize != 16 {
			t.Errorf("Load() ReportCacheSize = %v, want 16 (default for invalid input)", cfg.ReportCacheSize)
		}
	})
}

func TestBindFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("DATA_DIR", "/from/env")
	t.Setenv("CURRENCY", "USD")

	cfg := Load()
	fs := flag.NewFlagSet("budget-report", flag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse([]string{"-data", "/from/flag", "-today", "2024-06-15", "-watch", "1m"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.DataDir != "/from/flag" {
		t.Errorf("DataDir = %v, want /from/flag", cfg.DataDir)
	}
	if cfg.Currency != "USD" {
		t.Errorf("Currency = %v, want USD from env", cfg.Currency)
	}
	if cfg.WatchInterval != time.Minute {
		t.Errorf("WatchInterval = %v, want 1m", cfg.WatchInterval)
	}

	now, err := cfg.Now()
	if err != nil {
		t.Fatalf("Now() error = %v", err)
	}
	if want := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC); !now.Equal(want) {
		t.Errorf("Now() = %v, want %v", now, want)
	}
}
