package state

import (
	"fmt"
	"unicode"

	fsutil "github.com/kk-code-lab/rseek/internal/fs"
	"github.com/kk-code-lab/rseek/internal/search"
)

// SortFunc reorders results for the given key.
type SortFunc func([]fsutil.Entry, search.SortKey) []fsutil.Entry

// StateReducer applies actions to AppState.
type StateReducer struct {
	sort SortFunc
}

// NewStateReducer returns a reducer that resorts with search.Sort.
func NewStateReducer() *StateReducer {
	return &StateReducer{sort: search.Sort}
}

// NewStateReducerWithSort lets callers substitute the sorter.
func NewStateReducerWithSort(fn SortFunc) *StateReducer {
	if fn == nil {
		fn = search.Sort
	}
	return &StateReducer{sort: fn}
}

// Reduce mutates state in place and returns it.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {
	case QueryCharAction:
		runes := state.queryRunes()
		state.clampCursor()
		runes = append(runes[:state.CursorPos], append([]rune{a.Char}, runes[state.CursorPos:]...)...)
		state.Query = string(runes)
		state.CursorPos++
		state.HistoryIndex = -1

	case QueryBackspaceAction:
		runes := state.queryRunes()
		state.clampCursor()
		if state.CursorPos > 0 {
			runes = append(runes[:state.CursorPos-1], runes[state.CursorPos:]...)
			state.Query = string(runes)
			state.CursorPos--
		}
		state.HistoryIndex = -1

	case QueryDeleteWordAction:
		runes := state.queryRunes()
		state.clampCursor()
		end := state.CursorPos
		start := end
		for start > 0 && unicode.IsSpace(runes[start-1]) {
			start--
		}
		for start > 0 && !unicode.IsSpace(runes[start-1]) {
			start--
		}
		state.Query = string(append(runes[:start], runes[end:]...))
		state.CursorPos = start
		state.HistoryIndex = -1

	case QueryClearAction:
		state.Query = ""
		state.CursorPos = 0
		state.HistoryIndex = -1

	case QueryCursorLeftAction:
		state.CursorPos--
		state.clampCursor()

	case QueryCursorRightAction:
		state.CursorPos++
		state.clampCursor()

	case QueryCursorHomeAction:
		state.CursorPos = 0

	case QueryCursorEndAction:
		state.CursorPos = len(state.queryRunes())

	case NavigateUpAction:
		state.SelectedIndex--
		state.clampSelection()

	case NavigateDownAction:
		state.SelectedIndex++
		state.clampSelection()

	case PageUpAction:
		state.SelectedIndex -= state.VisibleRows()
		state.clampSelection()

	case PageDownAction:
		state.SelectedIndex += state.VisibleRows()
		state.clampSelection()

	case CycleSortAction:
		state.SortBy = state.SortBy.Next()
		if len(state.Results) > 0 {
			state.Results = r.sort(state.Results, state.SortBy)
		}
		state.SelectedIndex = 0
		state.ScrollOffset = 0
		r.setMessage(state, fmt.Sprintf("sort: %s", state.SortBy), false)

	case ToggleContentSearchAction:
		state.ContentSearch = !state.ContentSearch
		if state.ContentSearch {
			r.setMessage(state, "content search on", false)
		} else {
			r.setMessage(state, "content search off", false)
		}

	case RecallHistoryAction:
		if len(state.History) == 0 {
			r.setMessage(state, "no search history", false)
			break
		}
		// History is oldest first; recall walks back from the newest query.
		if state.HistoryIndex <= 0 || state.HistoryIndex >= len(state.History) {
			state.HistoryIndex = len(state.History) - 1
		} else {
			state.HistoryIndex--
		}
		state.Query = state.History[state.HistoryIndex]
		state.CursorPos = len(state.queryRunes())

	case HistoryLoadedAction:
		state.History = append([]string(nil), a.Queries...)
		state.HistoryIndex = -1

	case SearchResultsAction:
		state.Results = a.Results
		state.ActiveQuery = a.Query
		state.ShowFavorites = a.Favorites
		if !a.Live {
			state.Message = ""
			state.MessageError = false
			state.SelectedIndex = 0
			state.ScrollOffset = 0
		}
		state.clampSelection()

	case ScanStartedAction:
		state.Scanning = true
		state.ScanCount = 0
		r.setMessage(state, "scanning…", false)

	case ScanProgressAction:
		state.ScanCount = a.Count

	case ScanFinishedAction:
		state.Scanning = false
		state.ScanCount = a.Count
		switch {
		case a.Err != nil:
			r.setMessage(state, fmt.Sprintf("scan failed: %v", a.Err), true)
		case a.Loaded:
			r.setMessage(state, fmt.Sprintf("index loaded: %d entries", a.Count), false)
		default:
			r.setMessage(state, fmt.Sprintf("scan finished: %d entries", a.Count), false)
		}

	case MessageAction:
		r.setMessage(state, a.Text, a.IsError)

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		state.clampSelection()

	case QuitAction:
		state.ShouldQuit = true

	default:
		return state, fmt.Errorf("unknown action: %T", action)
	}

	return state, nil
}

func (r *StateReducer) setMessage(state *AppState, text string, isError bool) {
	state.Message = text
	state.MessageError = isError
}
