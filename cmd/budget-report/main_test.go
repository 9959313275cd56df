package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"subtracker/internal/config"
	"subtracker/internal/log"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		DataDir:           dir,
		SubscriptionsFile: "subscriptions.json",
		BillsFile:         "bills.json",
		IncomeFile:        "income.json",
		CategoriesFile:    "categories.json",
		Currency:          "USD",
		AsOf:              "2024-06-15",
		LogLevel:          "info",
		LogFormat:         "text",
		ReportCacheSize:   4,
		ReportCacheTTL:    time.Minute,
	}
}

func TestRefreshPrintsReport(t *testing.T) {
	dir := t.TempDir()
	subs := `[{"id": 1, "name": "Netflix", "price": 15.99, "billingPeriod": "MONTHLY", "nextBillingDate": "2024-06-18"}]`
	if err := os.WriteFile(filepath.Join(dir, "subscriptions.json"), []byte(subs), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	a := newApp(testConfig(dir), log.Discard(), &out)
	if err := a.refresh(context.Background()); err != nil {
		t.Fatalf("refresh() error = %v", err)
	}
	if !strings.Contains(out.String(), "Netflix") || !strings.Contains(out.String(), "Due in 3 days") {
		t.Errorf("unexpected report:\n%s", out.String())
	}

	out.Reset()
	if err := a.refresh(context.Background()); err != nil {
		t.Fatalf("second refresh() error = %v", err)
	}
	if stats := a.cache.Stats(); stats.Hits != 1 {
		t.Errorf("cache hits = %d, want 1", stats.Hits)
	}
}

func TestRefreshReportsInvalidData(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bills.json"), []byte(`[{"name": "Rent"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	a := newApp(testConfig(dir), log.Discard(), &bytes.Buffer{})
	err := a.refresh(context.Background())
	if err == nil || !strings.Contains(err.Error(), "bills.json: record 0") {
		t.Errorf("refresh() error = %v, want bills.json record 0", err)
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := newApp(testConfig(t.TempDir()), log.Discard(), &bytes.Buffer{})

	done := make(chan struct{})
	go func() {
		a.watch(ctx, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
