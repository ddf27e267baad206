// Package index holds the in-memory entry list and the scanner that fills it.
package index

import (
	"sync"

	fsutil "github.com/kk-code-lab/rseek/internal/fs"
)

// Entry is re-exported so callers rarely need the fs package directly.
type Entry = fsutil.Entry

// Store is an append-only, ordered list of entries. A single scanner appends while
// any number of readers take prefix snapshots.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewStore returns a store seeded with entries (copied).
func NewStore(entries []Entry) *Store {
	s := &Store{}
	s.Replace(entries)
	return s
}

// Append adds one entry and returns the prefix that now exists.
func (s *Store) Append(e Entry) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return s.entries[:len(s.entries):len(s.entries)]
}

// Replace swaps the whole content, as a snapshot load does.
func (s *Store) Replace(entries []Entry) {
	buf := make([]Entry, len(entries))
	copy(buf, entries)

	s.mu.Lock()
	s.entries = buf
	s.mu.Unlock()
}

// Snapshot returns the entries present right now. The slice is capacity-limited so
// later appends never show through it, and callers must treat it as read-only.
func (s *Store) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[:len(s.entries):len(s.entries)]
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
