// Package ingest reads exported budget collections from a data directory and
// turns them into validated core values. It is the only place where period
// strings, loosely typed amounts and missing ids are normalized; everything
// downstream works on the closed core types.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"subtracker/internal/core"
	"subtracker/internal/log"
)

// Files names the collection files inside the data directory. An empty name
// skips that collection.
type Files struct {
	Subscriptions string
	Bills         string
	Incomes       string
	Categories    string
}

// DefaultFiles returns the file names used when nothing is configured.
func DefaultFiles() Files {
	return Files{
		Subscriptions: "subscriptions.json",
		Bills:         "bills.json",
		Incomes:       "income.json",
		Categories:    "categories.json",
	}
}

// Snapshot is everything loaded from one pass over the data directory.
// Items holds subscriptions followed by bills, each in file order.
type Snapshot struct {
	Items       []core.RecurringItem
	Incomes     []core.Income
	Categories  []core.Category
	Fingerprint string // digest of the raw file contents
}

// Loader reads a data directory.
type Loader struct {
	dir    string
	files  Files
	logger *log.Logger
}

// NewLoader creates a loader for dir.
func NewLoader(dir string, files Files, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Discard()
	}
	return &Loader{dir: dir, files: files, logger: logger.WithComponent(log.ComponentIngest)}
}

// LoadSnapshot is a shorthand for NewLoader(dir, files, log.FromContext(ctx)).Load(ctx).
func LoadSnapshot(ctx context.Context, dir string, files Files) (*Snapshot, error) {
	return NewLoader(dir, files, log.FromContext(ctx)).Load(ctx)
}

// Load reads and decodes the four collections concurrently. A missing file is
// an empty collection; a malformed file or an invalid record fails the whole
// load with an error naming the file and record index.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	names := []string{l.files.Subscriptions, l.files.Bills, l.files.Incomes, l.files.Categories}
	raw := make([][]byte, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		if name == "" {
			continue
		}
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := l.read(name)
			if err != nil {
				return err
			}
			raw[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{Fingerprint: fingerprint(names, raw)}

	subs, err := decodeItems(names[0], raw[0], core.KindSubscription)
	if err != nil {
		return nil, err
	}
	bills, err := decodeItems(names[1], raw[1], core.KindBill)
	if err != nil {
		return nil, err
	}
	snap.Items = append(subs, bills...)

	if snap.Incomes, err = decodeIncomes(names[2], raw[2]); err != nil {
		return nil, err
	}
	if snap.Categories, err = decodeCategories(names[3], raw[3]); err != nil {
		return nil, err
	}

	l.logger.Info("Snapshot loaded",
		log.FieldOperation, log.OpLoad,
		"subscriptions", len(subs),
		"bills", len(bills),
		"incomes", len(snap.Incomes),
		"categories", len(snap.Categories),
		log.FieldSnapshot, snap.Fingerprint,
		log.FieldDuration, time.Since(start).Milliseconds())
	return snap, nil
}

func (l *Loader) read(name string) ([]byte, error) {
	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("Collection file not found, treating as empty", log.FieldFile, path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func decodeItems(name string, data []byte, kind core.ItemKind) ([]core.RecurringItem, error) {
	records, err := splitCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	items := make([]core.RecurringItem, 0, len(records))
	for i, rawRecord := range records {
		var rec itemRecord
		if err := json.Unmarshal(rawRecord, &rec); err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, i, err)
		}
		it, err := rec.toItem(kind)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func decodeIncomes(name string, data []byte) ([]core.Income, error) {
	records, err := splitCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	incomes := make([]core.Income, 0, len(records))
	for i, rawRecord := range records {
		var rec incomeRecord
		if err := json.Unmarshal(rawRecord, &rec); err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, i, err)
		}
		in, err := rec.toIncome()
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, i, err)
		}
		incomes = append(incomes, in)
	}
	return incomes, nil
}

func decodeCategories(name string, data []byte) ([]core.Category, error) {
	records, err := splitCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	categories := make([]core.Category, 0, len(records))
	for i, rawRecord := range records {
		var rec categoryRecord
		if err := json.Unmarshal(rawRecord, &rec); err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, i, err)
		}
		c, err := rec.toCategory()
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, i, err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func fingerprint(names []string, raw [][]byte) string {
	h := sha256.New()
	for i, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write(raw[i])
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
