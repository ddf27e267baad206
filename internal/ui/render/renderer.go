package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	fsutil "github.com/kk-code-lab/rseek/internal/fs"
	statepkg "github.com/kk-code-lab/rseek/internal/state"
	"github.com/kk-code-lab/rseek/internal/textutil"
)

const (
	headerRow   = 0
	queryRow    = 1
	resultsTop  = 2
	queryPrompt = "> "
	placeholder = "name:report type:.pdf size>100 keyword, Enter to search"

	sizeColumnWidth = 10
	dateColumnWidth = 16
	minNameWidth    = 12
	// Below this width only the name column is drawn.
	narrowLayoutWidth = 60
)

var statPathFn = fsutil.StatPath

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII widths stored +1 so zero means unset
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	w, h := r.screen.Size()
	if w <= 0 || h <= 0 || state == nil {
		r.screen.Show()
		return
	}

	r.drawHeader(state, w)
	if h > queryRow {
		r.drawQueryLine(state, w)
	}
	if h > resultsTop+1 {
		r.drawResults(state, w, h-1)
	}
	if h > queryRow+1 {
		r.drawStatusLine(state, w, h-1)
	}

	r.screen.Show()
}

func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	style := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)
	x := r.drawTextLine(0, headerRow, w, "rseek", style.Bold(true))

	status := formatHeaderStatus(state)
	statusWidth := textutil.DisplayWidth(status)
	r.fill(x, w, headerRow, style)
	if statusWidth+1 < w-x {
		r.drawTextLine(w-statusWidth-1, headerRow, statusWidth, status, style)
	}
}

func (r *Renderer) drawQueryLine(state *statepkg.AppState, w int) {
	style := tcell.StyleDefault.Foreground(r.theme.QueryFg)
	cursorStyle := style.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)

	x := r.drawTextLine(0, queryRow, w, queryPrompt, style.Bold(true))
	query := []rune(textutil.SanitizeTerminalText(state.Query))
	cursor := state.CursorPos
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(query) {
		cursor = len(query)
	}

	// Keep the cursor on screen for long queries.
	start := 0
	room := w - x - 1
	for start < cursor && textutil.DisplayWidth(string(query[start:cursor])) > room {
		start++
	}

	for idx := start; idx < len(query) && x < w; idx++ {
		cellStyle := style
		if idx == cursor {
			cellStyle = cursorStyle
		}
		x = r.drawTextLine(x, queryRow, w-x, string(query[idx]), cellStyle)
	}
	if cursor == len(query) && x < w {
		x = r.drawTextLine(x, queryRow, w-x, " ", cursorStyle)
		if len(query) == 0 && x < w {
			hint := textutil.TruncateToWidth(placeholder, w-x-1)
			x = r.drawTextLine(x+1, queryRow, w-x-1, hint, style.Foreground(r.theme.PlaceholdFg))
		}
	}
	r.fill(x, w, queryRow, style)
}

type columns struct {
	name int
	size int
	date int
	path int
}

func computeColumns(w int) columns {
	if w < narrowLayoutWidth {
		return columns{name: w}
	}
	name := w * 35 / 100
	if name < minNameWidth {
		name = minNameWidth
	}
	path := w - name - sizeColumnWidth - dateColumnWidth - 3
	if path < 0 {
		path = 0
	}
	return columns{name: name, size: sizeColumnWidth, date: dateColumnWidth, path: path}
}

// drawResults fills rows [resultsTop, bottom) with the visible slice of results.
func (r *Renderer) drawResults(state *statepkg.AppState, w, bottom int) {
	cols := computeColumns(w)
	rows := bottom - resultsTop
	for row := 0; row < rows; row++ {
		idx := state.ScrollOffset + row
		if idx >= len(state.Results) {
			break
		}
		r.drawResultRow(state.Results[idx], idx == state.SelectedIndex, resultsTop+row, w, cols)
	}

	if len(state.Results) == 0 && state.ActiveQuery != "" {
		style := tcell.StyleDefault.Foreground(r.theme.PlaceholdFg)
		r.drawTextLine(2, resultsTop, w-2, "no matches", style)
	}
}

func (r *Renderer) drawResultRow(entry fsutil.Entry, selected bool, y, w int, cols columns) {
	st := statPathFn(entry.Path)

	nameStyle := tcell.StyleDefault.Foreground(r.theme.FileFg)
	if st.IsDir {
		nameStyle = nameStyle.Foreground(r.theme.DirectoryFg).Bold(true)
	}
	metaStyle := tcell.StyleDefault.Foreground(r.theme.MetaFg)
	pathStyle := tcell.StyleDefault.Foreground(r.theme.PathFg)
	if selected {
		sel := tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		nameStyle, metaStyle, pathStyle = sel.Bold(st.IsDir), sel, sel
		r.fill(0, w, y, sel)
	}

	name := textutil.SanitizeTerminalText(entry.Name)
	if st.IsDir {
		name += "/"
	}
	r.drawTextLine(0, y, cols.name, textutil.TruncateToWidth(name, cols.name-1), nameStyle)
	if cols.size == 0 {
		return
	}

	x := cols.name
	size := formatSize(st)
	r.drawTextLine(x+cols.size-1-textutil.DisplayWidth(size), y, cols.size, size, metaStyle)
	x += cols.size + 1

	r.drawTextLine(x, y, cols.date, formatDate(st), metaStyle)
	x += cols.date + 2

	if cols.path > 0 {
		path := textutil.TruncateLeftToWidth(textutil.SanitizeTerminalText(entry.Path), cols.path)
		r.drawTextLine(x, y, cols.path, path, pathStyle)
	}
}

func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, y int) {
	style := tcell.StyleDefault.Background(r.theme.StatusBg).Foreground(r.theme.StatusFg)
	r.fill(0, w, y, style)

	right := formatResultCount(state)
	rightWidth := textutil.DisplayWidth(right)
	leftRoom := w - rightWidth - 1
	if right == "" {
		leftRoom = w
	}

	var left string
	leftStyle := style
	switch {
	case state.Message != "":
		left = state.Message
		if state.MessageError {
			leftStyle = style.Foreground(r.theme.ErrorFg)
		}
	default:
		if entry, ok := state.SelectedEntry(); ok {
			left = textutil.SanitizeTerminalText(entry.Path)
			if age := formatAge(statPathFn(entry.Path)); age != "" {
				left += " · " + age
			}
		}
	}

	if leftRoom > 0 && left != "" {
		r.drawTextLine(0, y, leftRoom, textutil.TruncateToWidth(left, leftRoom), leftStyle)
	}
	if right != "" && rightWidth < w {
		r.drawTextLine(w-rightWidth, y, rightWidth, right, style)
	}
}
