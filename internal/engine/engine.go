// Package engine owns the scan paths and the current index and answers queries
// against it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kk-code-lab/rseek/internal/index"
	"github.com/kk-code-lab/rseek/internal/query"
	"github.com/kk-code-lab/rseek/internal/search"
	"go.uber.org/zap"
)

var (
	// ErrEmptyQuery is returned for blank queries; the UI shows it as a prompt.
	ErrEmptyQuery = errors.New("empty query")
	// ErrScanInProgress is returned when a rescan is requested while one runs.
	ErrScanInProgress = errors.New("scan already in progress")
)

// Entry is one indexed file or directory.
type Entry = index.Entry

// SnapshotStore persists the index between runs.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, entries []Entry) error
	LoadSnapshot(ctx context.Context) ([]Entry, error)
}

// Config controls scanning.
type Config struct {
	ScanPaths      []string
	FollowSymlinks bool
	HideHidden     bool
}

// Request is one search.
type Request struct {
	Query         string
	ContentSearch bool
	SortBy        search.SortKey
}

// Engine holds the scan paths and the current entry store. Queries read the store
// without waiting for a scan; a query issued mid-scan sees the entries found so far.
type Engine struct {
	snapshots SnapshotStore
	logger    *zap.Logger

	mu        sync.RWMutex
	scanPaths []string
	scanner   index.Scanner

	current  atomic.Pointer[index.Store]
	scanning atomic.Bool
}

// New creates an engine with an empty index. snapshots may be nil.
func New(cfg Config, snapshots SnapshotStore, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		snapshots: snapshots,
		logger:    logger,
		scanner: index.Scanner{
			FollowSymlinks: cfg.FollowSymlinks,
			HideHidden:     cfg.HideHidden,
		},
	}
	e.SetScanPaths(cfg.ScanPaths)
	e.current.Store(&index.Store{})
	return e
}

// ScanPaths returns a copy of the configured roots.
func (e *Engine) ScanPaths() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.scanPaths))
	copy(out, e.scanPaths)
	return out
}

// SetScanPaths replaces the roots used by the next scan.
func (e *Engine) SetScanPaths(paths []string) {
	cp := make([]string, len(paths))
	copy(cp, paths)
	e.mu.Lock()
	e.scanPaths = cp
	e.mu.Unlock()
}

// Entries returns the entries currently indexed.
func (e *Engine) Entries() []Entry {
	return e.current.Load().Snapshot()
}

// Scanning reports whether a rescan is running.
func (e *Engine) Scanning() bool {
	return e.scanning.Load()
}

// LoadOrScan restores the persisted snapshot, falling back to a fresh scan when
// there is none or it cannot be read. It returns the number of entries indexed.
func (e *Engine) LoadOrScan(ctx context.Context, observer index.Observer) (int, error) {
	if e.snapshots != nil {
		entries, err := e.snapshots.LoadSnapshot(ctx)
		if err == nil {
			e.current.Store(index.NewStore(entries))
			e.logger.Info("snapshot loaded", zap.Int("entries", len(entries)))
			return len(entries), nil
		}
		e.logger.Debug("snapshot unavailable, scanning", zap.Error(err))
	}
	return e.Rescan(ctx, observer)
}

// Rescan replaces the index with a fresh walk of the scan paths. The new store is
// visible to queries from the start, so results grow while the walk runs. Only one
// rescan runs at a time; a concurrent call gets ErrScanInProgress.
func (e *Engine) Rescan(ctx context.Context, observer index.Observer) (int, error) {
	if !e.scanning.CompareAndSwap(false, true) {
		e.logger.Debug("rescan rejected", zap.Error(ErrScanInProgress))
		return 0, ErrScanInProgress
	}
	defer e.scanning.Store(false)

	roots := e.ScanPaths()
	store := &index.Store{}
	e.current.Store(store)

	start := time.Now()
	e.logger.Info("scan started", zap.Strings("roots", roots))

	err := e.scanner.ScanInto(ctx, roots, store, observer)
	entries := store.Snapshot()
	if err != nil {
		e.logger.Warn("scan interrupted",
			zap.Int("entries", len(entries)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return len(entries), fmt.Errorf("scan interrupted: %w", err)
	}

	e.logger.Info("scan finished",
		zap.Int("entries", len(entries)),
		zap.Duration("duration", time.Since(start)))

	if e.snapshots != nil {
		if err := e.snapshots.SaveSnapshot(ctx, entries); err != nil {
			e.logger.Warn("snapshot save failed", zap.Error(err))
		}
	}
	return len(entries), nil
}

// Search parses req.Query, filters the current index and sorts the matches.
func (e *Engine) Search(req Request) ([]Entry, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	filters := query.Parse(req.Query)
	results := search.Evaluate(e.Entries(), filters, req.ContentSearch)
	results = search.Sort(results, req.SortBy)

	e.logger.Debug("search",
		zap.Stringer("filters", filters),
		zap.Bool("content", req.ContentSearch),
		zap.String("sort", string(req.SortBy)),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)))
	return results, nil
}

// Resort orders an existing result set by key.
func (e *Engine) Resort(results []Entry, key search.SortKey) []Entry {
	return search.Sort(results, key)
}

// ExportResults writes one "name: path" line per result.
func ExportResults(w io.Writer, results []Entry) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s: %s\n", r.Name, r.Path); err != nil {
			return err
		}
	}
	return nil
}
