package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	fsutil "github.com/kk-code-lab/rseek/internal/fs"
	statepkg "github.com/kk-code-lab/rseek/internal/state"
)

const dateLayout = "2006-01-02 15:04"

var nowFn = time.Now

func formatSize(st fsutil.Stat) string {
	switch {
	case !st.Exists:
		return "?"
	case st.IsDir:
		return "dir"
	case !st.IsRegular:
		return "-"
	default:
		return humanize.IBytes(uint64(st.Size))
	}
}

func formatDate(st fsutil.Stat) string {
	if !st.Exists || st.Modified.IsZero() {
		return ""
	}
	return st.Modified.Local().Format(dateLayout)
}

func formatAge(st fsutil.Stat) string {
	if !st.Exists || st.Modified.IsZero() {
		return ""
	}
	return "modified " + humanize.RelTime(st.Modified, nowFn(), "ago", "from now")
}

// formatHeaderStatus summarises the index and the active search options.
func formatHeaderStatus(state *statepkg.AppState) string {
	var parts []string
	if state.Scanning {
		parts = append(parts, fmt.Sprintf("scanning… %s", humanize.Comma(int64(state.ScanCount))))
	} else {
		parts = append(parts, fmt.Sprintf("%s indexed", humanize.Comma(int64(state.ScanCount))))
	}
	parts = append(parts, "sort: "+string(state.SortBy))
	if state.ContentSearch {
		parts = append(parts, "content: on")
	} else {
		parts = append(parts, "content: off")
	}
	return strings.Join(parts, " · ")
}

func formatResultCount(state *statepkg.AppState) string {
	n := len(state.Results)
	if state.ShowFavorites {
		return fmt.Sprintf("%s favourites", humanize.Comma(int64(n)))
	}
	if state.ActiveQuery == "" && n == 0 {
		return ""
	}
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%s results", humanize.Comma(int64(n)))
}
