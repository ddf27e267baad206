package state

import (
	fsutil "github.com/kk-code-lab/rseek/internal/fs"
	"github.com/kk-code-lab/rseek/internal/search"
)

// Rows used by the header, the query line and the status bar.
const chromeRows = 3

// AppState is the whole UI model. Only the reducer mutates it.
type AppState struct {
	Query     string
	CursorPos int // rune offset into Query

	// ActiveQuery is the query whose results are on screen; it is re-run as
	// a background scan grows the index.
	ActiveQuery   string
	Results       []fsutil.Entry
	SelectedIndex int
	ScrollOffset  int
	ShowFavorites bool

	SortBy        search.SortKey
	ContentSearch bool

	Scanning  bool
	ScanCount int

	History      []string
	HistoryIndex int

	Message      string
	MessageError bool

	ScreenWidth  int
	ScreenHeight int

	ShouldQuit bool
}

// NewAppState returns the state shown before anything has been searched.
func NewAppState(sortBy search.SortKey, contentSearch bool) *AppState {
	return &AppState{
		SortBy:        sortBy,
		ContentSearch: contentSearch,
		HistoryIndex:  -1,
	}
}

// VisibleRows reports how many result rows fit on the screen.
func (s *AppState) VisibleRows() int {
	rows := s.ScreenHeight - chromeRows
	if rows < 1 {
		return 1
	}
	return rows
}

// SelectedEntry returns the highlighted result, if any.
func (s *AppState) SelectedEntry() (fsutil.Entry, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Results) {
		return fsutil.Entry{}, false
	}
	return s.Results[s.SelectedIndex], true
}

func (s *AppState) queryRunes() []rune {
	return []rune(s.Query)
}

func (s *AppState) clampCursor() {
	n := len(s.queryRunes())
	if s.CursorPos < 0 {
		s.CursorPos = 0
	}
	if s.CursorPos > n {
		s.CursorPos = n
	}
}

func (s *AppState) clampSelection() {
	if len(s.Results) == 0 {
		s.SelectedIndex = 0
		s.ScrollOffset = 0
		return
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
	if s.SelectedIndex >= len(s.Results) {
		s.SelectedIndex = len(s.Results) - 1
	}

	rows := s.VisibleRows()
	if s.SelectedIndex < s.ScrollOffset {
		s.ScrollOffset = s.SelectedIndex
	}
	if s.SelectedIndex >= s.ScrollOffset+rows {
		s.ScrollOffset = s.SelectedIndex - rows + 1
	}
	maxOffset := len(s.Results) - rows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.ScrollOffset > maxOffset {
		s.ScrollOffset = maxOffset
	}
	if s.ScrollOffset < 0 {
		s.ScrollOffset = 0
	}
}
