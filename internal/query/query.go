// Package query turns a free-text search line into structured filter predicates.
//
// Three tokens are recognised and removed from the text, in this order:
//
//	name:<word>      substring the entry name must contain
//	type:.<word>     extension the entry name must end with
//	size<op><digits> size bound in KiB; '>' is a minimum, '<' a maximum and
//	                 '=' is accepted but sets no bound
//
// Whatever text remains becomes the keyword.
package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const wordClass = `[\p{L}\p{N}_]+`

var (
	namePattern = regexp.MustCompile(`name:(` + wordClass + `)`)
	typePattern = regexp.MustCompile(`type:(\.` + wordClass + `)`)
	sizePattern = regexp.MustCompile(`size([><=])([0-9]+)`)
)

// FilterSet is the structured form of one query line. Empty strings mean the
// predicate is not set; MinSize and MaxSize hold the digits exactly as typed.
type FilterSet struct {
	Name      string
	Extension string
	MinSize   string
	MaxSize   string
	Keyword   string
}

// Parse extracts name, extension and size tokens from query. It never fails.
func Parse(query string) FilterSet {
	var filters FilterSet

	if m := namePattern.FindStringSubmatch(query); m != nil {
		filters.Name = m[1]
		query = strip(namePattern, query)
	}

	if m := typePattern.FindStringSubmatch(query); m != nil {
		filters.Extension = m[1]
		query = strip(typePattern, query)
	}

	if m := sizePattern.FindStringSubmatch(query); m != nil {
		switch m[1] {
		case ">":
			filters.MinSize = m[2]
		case "<":
			filters.MaxSize = m[2]
		}
		query = strip(sizePattern, query)
	}

	filters.Keyword = strings.TrimSpace(query)
	return filters
}

// strip removes every occurrence of pattern and collapses the whitespace that
// surrounded each removed token into a single space.
func strip(pattern *regexp.Regexp, text string) string {
	locs := pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	pending := false
	write := func(segment string) {
		if segment == "" {
			return
		}
		if pending && b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(segment)
		pending = false
	}

	prev := 0
	for _, loc := range locs {
		raw := text[prev:loc[0]]
		before := strings.TrimRight(raw, " \t")
		write(before)
		if len(before) < len(raw) {
			pending = true
		}
		after := loc[1]
		for after < len(text) && (text[after] == ' ' || text[after] == '\t') {
			after++
		}
		if after > loc[1] {
			pending = true
		}
		prev = after
	}
	write(text[prev:])
	return b.String()
}

// IsEmpty reports whether no predicate is active, in which case every entry matches.
func (f FilterSet) IsEmpty() bool {
	return f.Name == "" && f.Extension == "" && f.MinSize == "" && f.MaxSize == "" && f.Keyword == ""
}

// MinBytes returns the lower size bound in bytes.
func (f FilterSet) MinBytes() (int64, bool) {
	return kibToBytes(f.MinSize)
}

// MaxBytes returns the upper size bound in bytes.
func (f FilterSet) MaxBytes() (int64, bool) {
	return kibToBytes(f.MaxSize)
}

func kibToBytes(digits string) (int64, bool) {
	if digits == "" {
		return 0, false
	}
	kib, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// Only range errors reach here since the grammar admits digits alone.
		return math.MaxInt64, true
	}
	if kib > math.MaxInt64/1024 {
		return math.MaxInt64, true
	}
	return kib * 1024, true
}

// String renders the filter set for logs and status lines.
func (f FilterSet) String() string {
	parts := make([]string, 0, 5)
	if f.Name != "" {
		parts = append(parts, "name:"+f.Name)
	}
	if f.Extension != "" {
		parts = append(parts, "type:"+f.Extension)
	}
	if f.MinSize != "" {
		parts = append(parts, "size>"+f.MinSize)
	}
	if f.MaxSize != "" {
		parts = append(parts, "size<"+f.MaxSize)
	}
	if f.Keyword != "" {
		parts = append(parts, strconv.Quote(f.Keyword))
	}
	return strings.Join(parts, " ")
}
