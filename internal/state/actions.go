package state

import (
	fsutil "github.com/kk-code-lab/rseek/internal/fs"
)

// Action represents a user or background event the reducer applies to AppState.
type Action interface{}

// Query line editing

type QueryCharAction struct {
	Char rune
}

type QueryBackspaceAction struct{}

type QueryDeleteWordAction struct{}

type QueryClearAction struct{}

type QueryCursorLeftAction struct{}

type QueryCursorRightAction struct{}

type QueryCursorHomeAction struct{}

type QueryCursorEndAction struct{}

// Result list navigation

type NavigateUpAction struct{}

type NavigateDownAction struct{}

type PageUpAction struct{}

type PageDownAction struct{}

// Search requests. The application intercepts these, talks to the engine and
// answers with SearchResultsAction or MessageAction.

type SubmitSearchAction struct{}

type CycleSortAction struct{}

type ToggleContentSearchAction struct{}

type RescanAction struct{}

type ToggleFavoriteAction struct{}

type ShowFavoritesAction struct{}

type RecallHistoryAction struct{}

type ExportResultsAction struct{}

type CopyPathAction struct{}

// OpenSelectedAction opens the selected entry, or its directory with Parent.
type OpenSelectedAction struct {
	Parent bool
}

// SearchResultsAction replaces the visible results.
type SearchResultsAction struct {
	Query   string
	Results []fsutil.Entry
	// Favorites marks the list as the favourites view rather than a query result.
	Favorites bool
	// Live refreshes the list while a scan runs, keeping selection and message.
	Live bool
}

// HistoryLoadedAction provides the recent queries, newest first.
type HistoryLoadedAction struct {
	Queries []string
}

// Background scan lifecycle

type ScanStartedAction struct{}

type ScanProgressAction struct {
	Count int
}

type ScanFinishedAction struct {
	Count int
	Err   error
	// Loaded reports the index came from the saved snapshot rather than a walk.
	Loaded bool
}

// MessageAction shows a transient line in the status bar.
type MessageAction struct {
	Text    string
	IsError bool
}

type SuspendAction struct{}

type ResizeAction struct {
	Width  int
	Height int
}

type QuitAction struct{}
