package search

import (
	"sort"
	"strings"
)

// SortKey selects the result ordering.
type SortKey string

const (
	SortByName SortKey = "name"
	SortBySize SortKey = "size"
	SortByDate SortKey = "date"
)

var sortCycle = []SortKey{SortByName, SortBySize, SortByDate}

// ParseSortKey accepts name, size or date in any case.
func ParseSortKey(s string) (SortKey, bool) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range sortCycle {
		if k == key {
			return k, true
		}
	}
	return key, false
}

// Next returns the key that follows k in name, size, date order.
func (k SortKey) Next() SortKey {
	for i, candidate := range sortCycle {
		if candidate == k {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return SortByName
}

type keyedEntry struct {
	entry Entry
	num   int64
	text  string
}

// Sort orders results by key and returns a new slice; ties keep their input order.
// Names sort ascending without regard to case, sizes and dates descending with
// directories counted as zero. An unknown key returns results unchanged.
func Sort(results []Entry, by SortKey) []Entry {
	var keyOf func(Entry) keyedEntry
	var less func(a, b keyedEntry) bool

	switch by {
	case SortByName:
		keyOf = func(e Entry) keyedEntry { return keyedEntry{entry: e, text: fold(e.Name)} }
		less = func(a, b keyedEntry) bool { return a.text < b.text }
	case SortBySize:
		keyOf = func(e Entry) keyedEntry {
			st := statPathFn(e.Path)
			if !st.IsRegular {
				return keyedEntry{entry: e}
			}
			return keyedEntry{entry: e, num: st.Size}
		}
		less = func(a, b keyedEntry) bool { return a.num > b.num }
	case SortByDate:
		keyOf = func(e Entry) keyedEntry {
			st := statPathFn(e.Path)
			if !st.IsRegular {
				return keyedEntry{entry: e}
			}
			return keyedEntry{entry: e, num: st.Modified.UnixNano()}
		}
		less = func(a, b keyedEntry) bool { return a.num > b.num }
	default:
		return results
	}

	keyed := make([]keyedEntry, len(results))
	for i, e := range results {
		keyed[i] = keyOf(e)
	}
	sort.SliceStable(keyed, func(i, j int) bool { return less(keyed[i], keyed[j]) })

	out := make([]Entry, len(keyed))
	for i, k := range keyed {
		out[i] = k.entry
	}
	return out
}
