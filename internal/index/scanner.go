package index

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	fsutil "github.com/kk-code-lab/rseek/internal/fs"
)

// shouldSkipDuringScanFn mirrors fs.ShouldSkipDuringScan for test overrides.
var shouldSkipDuringScanFn = fsutil.ShouldSkipDuringScan

// Scanner walks root directories and records every file and directory it finds.
type Scanner struct {
	// FollowSymlinks descends into symlinked directories. A set of resolved
	// directories prevents loops. Links are always recorded as entries.
	FollowSymlinks bool
	// HideHidden leaves hidden files and directories (and their subtrees) out.
	HideHidden bool
}

// Scan walks roots into a fresh store and returns the final sequence.
func (s Scanner) Scan(ctx context.Context, roots []string, observer Observer) ([]Entry, error) {
	store := &Store{}
	err := s.ScanInto(ctx, roots, store, observer)
	return store.Snapshot(), err
}

// ScanInto appends discovered entries to store in walk order: for each directory its
// files first, then its subdirectories as entries, then each subdirectory's subtree.
// Missing roots and unreadable directories are skipped. The only error returned is
// the context's.
func (s Scanner) ScanInto(ctx context.Context, roots []string, store *Store, observer Observer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	w := &walker{
		scanner:  s,
		store:    store,
		observer: observer,
	}
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.FollowSymlinks {
			// Per root, so overlapping roots still yield their duplicates.
			w.visited = make(map[string]struct{})
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		if !w.enter(root) {
			continue
		}
		if err := w.walkDir(ctx, root); err != nil {
			return err
		}
	}
	return nil
}

type walker struct {
	scanner  Scanner
	store    *Store
	observer Observer
	visited  map[string]struct{}
}

type listedChild struct {
	name  string
	path  string
	isDir bool
	link  bool
}

func (w *walker) walkDir(ctx context.Context, dir string) error {
	children, ok := w.list(dir)
	if !ok {
		return nil
	}

	for _, c := range children {
		if c.isDir {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		w.record(c)
	}

	descend := make([]listedChild, 0, len(children))
	for _, c := range children {
		if !c.isDir {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		w.record(c)
		if c.link && !w.scanner.FollowSymlinks {
			continue
		}
		descend = append(descend, c)
	}

	for _, c := range descend {
		if !w.enter(c.path) {
			continue
		}
		if err := w.walkDir(ctx, c.path); err != nil {
			return err
		}
	}
	return nil
}

// list reads dir and classifies each child. Symlinks are classified by their target,
// and dangling links count as files.
func (w *walker) list(dir string) ([]listedChild, bool) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false
	}

	children := make([]listedChild, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		full := filepath.Join(dir, name)

		if shouldSkipDuringScanFn(full, name) {
			continue
		}
		if w.scanner.HideHidden && fsutil.IsHidden(full, name) {
			continue
		}

		child := listedChild{name: name, path: full, isDir: de.IsDir()}
		if de.Type()&fs.ModeSymlink != 0 {
			child.link = true
			if info, statErr := os.Stat(full); statErr == nil && info.IsDir() {
				child.isDir = true
			}
		}
		children = append(children, child)
	}
	return children, true
}

func (w *walker) record(c listedChild) {
	prefix := w.store.Append(Entry{Name: c.name, Path: c.path})
	if w.observer != nil {
		w.observer.ScanProgress(prefix)
	}
}

// enter marks dir as visited when symlinks are followed and reports whether it
// should be walked.
func (w *walker) enter(dir string) bool {
	if w.visited == nil {
		return true
	}
	key, err := filepath.EvalSymlinks(dir)
	if err != nil {
		key = filepath.Clean(dir)
	}
	if _, seen := w.visited[key]; seen {
		return false
	}
	w.visited[key] = struct{}{}
	return true
}
