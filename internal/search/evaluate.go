// Package search filters and orders index entries for a parsed query.
package search

import (
	"strings"

	fsutil "github.com/kk-code-lab/rseek/internal/fs"
	"github.com/kk-code-lab/rseek/internal/query"
	"golang.org/x/text/unicode/norm"
)

// Entry is the index entry type results are made of.
type Entry = fsutil.Entry

// statPathFn and readTextFn mirror the fs helpers for test overrides.
var (
	statPathFn = fsutil.StatPath
	readTextFn = fsutil.ReadText
)

// fold prepares text for case-insensitive comparison. Names coming from some
// filesystems are decomposed, so both sides are composed before lowering.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

type matcher struct {
	keyword       string
	name          string
	extension     string
	minBytes      int64
	hasMin        bool
	maxBytes      int64
	hasMax        bool
	contentSearch bool
}

func newMatcher(filters query.FilterSet, contentSearch bool) matcher {
	m := matcher{
		keyword:       fold(filters.Keyword),
		name:          fold(filters.Name),
		extension:     fold(filters.Extension),
		contentSearch: contentSearch,
	}
	m.minBytes, m.hasMin = filters.MinBytes()
	m.maxBytes, m.hasMax = filters.MaxBytes()
	return m
}

// Evaluate returns the entries satisfying every predicate in filters, in input order.
// Filesystem problems never surface: an entry whose size cannot be read fails any
// size bound, and a file whose content cannot be read fails content search.
// Directories are exempt from size bounds.
func Evaluate(entries []Entry, filters query.FilterSet, contentSearch bool) []Entry {
	m := newMatcher(filters, contentSearch)
	results := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if m.match(e) {
			results = append(results, e)
		}
	}
	return results
}

func (m matcher) match(e Entry) bool {
	if m.keyword == "" && m.name == "" && m.extension == "" && !m.hasMin && !m.hasMax && !m.contentSearch {
		return true
	}

	name := fold(e.Name)
	if m.keyword != "" && !strings.Contains(name, m.keyword) {
		return false
	}
	if m.name != "" && !strings.Contains(name, m.name) {
		return false
	}
	if m.extension != "" && !strings.HasSuffix(name, m.extension) {
		return false
	}

	if !m.hasMin && !m.hasMax && !m.contentSearch {
		return true
	}

	st := statPathFn(e.Path)
	if m.hasMin || m.hasMax {
		if !st.Exists {
			return false
		}
		if st.IsRegular {
			if m.hasMin && st.Size < m.minBytes {
				return false
			}
			if m.hasMax && st.Size > m.maxBytes {
				return false
			}
		}
	}

	if m.contentSearch && st.IsRegular && fsutil.IsContentSearchable(e.Name) {
		return m.matchContent(e.Path)
	}
	return true
}

func (m matcher) matchContent(path string) bool {
	if m.keyword == "" {
		return true
	}
	text, err := readTextFn(path)
	if err != nil {
		return false
	}
	return strings.Contains(fold(text), m.keyword)
}
