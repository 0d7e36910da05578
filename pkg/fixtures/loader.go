package fixtures

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/tidwall/gjson"
)

const fixtureExt = ".json"

// Listing describes one indexed fixture
type Listing struct {
	Kind    Kind
	Name    string
	Title   string
	Size    int64
	ModTime time.Time
}

// ListResult is delivered by ListAsync
type ListResult struct {
	Listings []Listing
	Err      error
}

// ValidationResult is the outcome of validating one fixture
type ValidationResult struct {
	Kind Kind
	Name string
	Err  error
}

// Loader reads fixtures from one directory. The index built by Initialize
// belongs to the loader instance and is dropped by Dispose.
type Loader struct {
	dir   string
	guard *pathGuard

	mu sync.RWMutex
	db *sql.DB
}

// NewLoader creates a loader for dir; nothing is read until Initialize
func NewLoader(dir string) (*Loader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fixtures directory: %w", err)
	}

	guard, err := newPathGuard(abs)
	if err != nil {
		return nil, err
	}
	return &Loader{dir: abs, guard: guard}, nil
}

// Dir returns the fixtures directory
func (l *Loader) Dir() string {
	return l.dir
}

// Initialize scans the fixtures directory into a fresh index. Calling it
// again rebuilds the index.
func (l *Loader) Initialize(ctx context.Context) error {
	db, err := openIndex(ctx)
	if err != nil {
		return err
	}

	count := 0
	for _, kind := range Kinds() {
		n, err := l.scanKind(ctx, db, kind)
		if err != nil {
			_ = db.Close()
			return err
		}
		count += n
	}

	l.mu.Lock()
	old := l.db
	l.db = db
	l.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	log.Printf("fixtures: indexed %d fixtures from %s", count, l.dir)
	return nil
}

// Dispose releases the index. The loader can be initialized again.
func (l *Loader) Dispose() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

func (l *Loader) scanKind(ctx context.Context, db *sql.DB, kind Kind) (int, error) {
	entries, err := os.ReadDir(filepath.Join(l.dir, string(kind)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read %s fixtures: %w", kind, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fixtureExt {
			continue
		}
		if err := ctx.Err(); err != nil {
			return count, err
		}

		name := strings.TrimSuffix(entry.Name(), fixtureExt)
		path, err := l.guard.resolve(filepath.Join(string(kind), entry.Name()))
		if err != nil {
			log.Printf("fixtures: skipping %s/%s: %v", kind, entry.Name(), err)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return count, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return count, fmt.Errorf("failed to read %s: %w", path, err)
		}

		_, err = db.ExecContext(ctx,
			"INSERT INTO fixtures (kind, name, path, title, size, mod_time) VALUES (?, ?, ?, ?, ?, ?)",
			string(kind), name, path, Summary(data), info.Size(), info.ModTime().UTC(),
		)
		if err != nil {
			return count, fmt.Errorf("failed to index %s/%s: %w", kind, name, err)
		}

		if kind == KindForms {
			if err := indexNodeForms(ctx, db, name, data); err != nil {
				return count, err
			}
		}
		count++
	}
	return count, nil
}

// indexNodeForms maps each op listed in the form's node_ops to the form.
// The first form claiming an op wins.
func indexNodeForms(ctx context.Context, db *sql.DB, form string, data []byte) error {
	for _, op := range gjson.GetBytes(data, "node_ops").Array() {
		if op.String() == "" {
			continue
		}
		_, err := db.ExecContext(ctx, "INSERT OR IGNORE INTO node_forms (op, form) VALUES (?, ?)", op.String(), form)
		if err != nil {
			return fmt.Errorf("failed to map node %s to form %s: %w", op.String(), form, err)
		}
	}
	return nil
}

func (l *Loader) index() (*sql.DB, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.db == nil {
		return nil, ErrNotInitialized
	}
	return l.db, nil
}

// List returns the fixtures of one kind ordered by name
func (l *Loader) List(ctx context.Context, kind Kind) ([]Listing, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	db, err := l.index()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT name, title, size, mod_time FROM fixtures WHERE kind = ? ORDER BY name", string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s fixtures: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	listings := make([]Listing, 0)
	for rows.Next() {
		item := Listing{Kind: kind}
		if err := rows.Scan(&item.Name, &item.Title, &item.Size, &item.ModTime); err != nil {
			return nil, fmt.Errorf("failed to scan fixture row: %w", err)
		}
		listings = append(listings, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s fixtures: %w", kind, err)
	}
	return listings, nil
}

// ListAsync lists fixtures on a separate goroutine. The channel receives
// exactly one result and is then closed.
func (l *Loader) ListAsync(ctx context.Context, kind Kind) <-chan ListResult {
	out := make(chan ListResult, 1)
	go func() {
		defer close(out)
		listings, err := l.List(ctx, kind)
		out <- ListResult{Listings: listings, Err: err}
	}()
	return out
}

// Load returns the raw content of a fixture
func (l *Loader) Load(ctx context.Context, kind Kind, name string) ([]byte, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || filepath.Base(name) != name {
		return nil, &PathError{Name: name, Reason: "fixture name must be a plain file name"}
	}

	path, err := l.guard.resolve(filepath.Join(string(kind), name+fixtureExt))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s/%s: %w", kind, name, err)
	}
	return data, nil
}

// FormForNode returns the form registered for a node op
func (l *Loader) FormForNode(ctx context.Context, op string) (string, bool, error) {
	db, err := l.index()
	if err != nil {
		return "", false, err
	}

	var form string
	err = db.QueryRowContext(ctx, "SELECT form FROM node_forms WHERE op = ?", op).Scan(&form)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up form for %s: %w", op, err)
	}
	return form, true, nil
}

// LoadDiagram loads and validates a diagram fixture
func (l *Loader) LoadDiagram(ctx context.Context, name string) (canvas.PipelineFlow, error) {
	var flow canvas.PipelineFlow

	data, err := l.Load(ctx, KindDiagrams, name)
	if err != nil {
		return flow, err
	}
	if err := Validate(KindDiagrams, data); err != nil {
		return flow, fmt.Errorf("diagram %s: %w", name, err)
	}
	if err := json.Unmarshal(data, &flow); err != nil {
		return flow, fmt.Errorf("diagram %s: %w", name, err)
	}
	return flow, nil
}

// LoadPalette loads and validates a palette fixture
func (l *Loader) LoadPalette(ctx context.Context, name string) ([]canvas.PaletteCategory, error) {
	data, err := l.Load(ctx, KindPalettes, name)
	if err != nil {
		return nil, err
	}
	if err := Validate(KindPalettes, data); err != nil {
		return nil, fmt.Errorf("palette %s: %w", name, err)
	}

	var doc struct {
		Categories []canvas.PaletteCategory `json:"categories"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("palette %s: %w", name, err)
	}
	return doc.Categories, nil
}

// ValidateAll validates every indexed fixture
func (l *Loader) ValidateAll(ctx context.Context) ([]ValidationResult, error) {
	results := make([]ValidationResult, 0)
	for _, kind := range Kinds() {
		listings, err := l.List(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, item := range listings {
			data, err := l.Load(ctx, kind, item.Name)
			if err == nil {
				err = Validate(kind, data)
			}
			results = append(results, ValidationResult{Kind: kind, Name: item.Name, Err: err})
		}
	}
	return results, nil
}
