package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	fsutil "github.com/kk-code-lab/rseek/internal/fs"
	"github.com/kk-code-lab/rseek/internal/search"
	statepkg "github.com/kk-code-lab/rseek/internal/state"
	"github.com/stretchr/testify/require"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		cell := cells[y*w+x]
		if len(cell.Runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(string(cell.Runes))
	}
	return strings.TrimRight(b.String(), " ")
}

func stubStat(t *testing.T, stats map[string]fsutil.Stat) {
	t.Helper()
	orig := statPathFn
	statPathFn = func(path string) fsutil.Stat { return stats[path] }
	t.Cleanup(func() { statPathFn = orig })
}

func TestRenderEmptyStateShowsPlaceholder(t *testing.T) {
	screen := newTestScreen(t, 100, 10)
	state := statepkg.NewAppState(search.SortByName, false)
	state.ScanCount = 1234

	NewRenderer(screen).Render(state)

	header := rowText(screen, 0)
	require.True(t, strings.HasPrefix(header, "rseek"))
	require.Contains(t, header, "1,234 indexed")
	require.Contains(t, header, "sort: name")
	require.Contains(t, header, "content: off")

	query := rowText(screen, 1)
	require.True(t, strings.HasPrefix(query, "> "))
	require.Contains(t, query, "Enter to search")
}

func TestRenderResultsWithColumns(t *testing.T) {
	modified := time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local)
	stubStat(t, map[string]fsutil.Stat{
		"/data/report.txt": {Exists: true, IsRegular: true, Size: 2048, Modified: modified},
		"/data/archive":    {Exists: true, IsDir: true, Modified: modified},
	})

	screen := newTestScreen(t, 100, 10)
	state := statepkg.NewAppState(search.SortByName, false)
	state.ScreenWidth, state.ScreenHeight = 100, 10
	state.Query = "report"
	state.CursorPos = 6
	state.ActiveQuery = "report"
	state.Results = []fsutil.Entry{
		{Name: "report.txt", Path: "/data/report.txt"},
		{Name: "archive", Path: "/data/archive"},
	}

	NewRenderer(screen).Render(state)

	require.Equal(t, "> report", rowText(screen, 1))

	first := rowText(screen, 2)
	require.True(t, strings.HasPrefix(first, "report.txt"))
	require.Contains(t, first, "2.0 KiB")
	require.Contains(t, first, "2024-03-01 12:30")
	require.Contains(t, first, "/data/report.txt")

	second := rowText(screen, 3)
	require.True(t, strings.HasPrefix(second, "archive/"))
	require.Contains(t, second, "dir")

	status := rowText(screen, 9)
	require.True(t, strings.HasPrefix(status, "/data/report.txt · modified"))
	require.True(t, strings.HasSuffix(status, "2 results"))
}

func TestRenderSelectionHighlight(t *testing.T) {
	stubStat(t, map[string]fsutil.Stat{})
	screen := newTestScreen(t, 80, 8)
	state := statepkg.NewAppState(search.SortByName, false)
	state.ScreenWidth, state.ScreenHeight = 80, 8
	state.Results = []fsutil.Entry{{Name: "a", Path: "/a"}, {Name: "b", Path: "/b"}}
	state.SelectedIndex = 1

	r := NewRenderer(screen)
	r.Render(state)

	_, _, selStyle, _ := screen.GetContent(0, 3)
	_, bg, _ := selStyle.Decompose()
	require.Equal(t, r.theme.SelectionBg, bg)

	_, _, plainStyle, _ := screen.GetContent(0, 2)
	_, bg, _ = plainStyle.Decompose()
	require.NotEqual(t, r.theme.SelectionBg, bg)
}

func TestRenderNoMatchesAndMessage(t *testing.T) {
	screen := newTestScreen(t, 80, 8)
	state := statepkg.NewAppState(search.SortByName, true)
	state.ActiveQuery = "zzz"
	state.Message = "type something to search"

	NewRenderer(screen).Render(state)

	require.Contains(t, rowText(screen, 0), "content: on")
	require.Contains(t, rowText(screen, 2), "no matches")
	status := rowText(screen, 7)
	require.True(t, strings.HasPrefix(status, "type something to search"))
	require.True(t, strings.HasSuffix(status, "0 results"))
}

func TestRenderSanitizesNames(t *testing.T) {
	stubStat(t, map[string]fsutil.Stat{})
	screen := newTestScreen(t, 40, 6)
	state := statepkg.NewAppState(search.SortByName, false)
	state.Results = []fsutil.Entry{{Name: "evil\x1b[2Jname", Path: "/evil"}}
	state.ActiveQuery = "evil"

	NewRenderer(screen).Render(state)

	require.True(t, strings.HasPrefix(rowText(screen, 2), "evil?[2Jname"))
}

func TestRenderNarrowLayoutDropsColumns(t *testing.T) {
	stubStat(t, map[string]fsutil.Stat{
		"/x/file.go": {Exists: true, IsRegular: true, Size: 10},
	})
	screen := newTestScreen(t, 30, 6)
	state := statepkg.NewAppState(search.SortByName, false)
	state.Results = []fsutil.Entry{{Name: "file.go", Path: "/x/file.go"}}

	NewRenderer(screen).Render(state)

	require.Equal(t, "file.go", rowText(screen, 2))
}

func TestRenderScanningHeader(t *testing.T) {
	screen := newTestScreen(t, 80, 6)
	state := statepkg.NewAppState(search.SortBySize, false)
	state.Scanning = true
	state.ScanCount = 64

	NewRenderer(screen).Render(state)

	header := rowText(screen, 0)
	require.Contains(t, header, "scanning… 64")
	require.Contains(t, header, "sort: size")
}

func TestComputeColumns(t *testing.T) {
	cols := computeColumns(100)
	require.Equal(t, 35, cols.name)
	require.Equal(t, 100, cols.name+cols.size+cols.date+cols.path+3)

	require.Equal(t, columns{name: 40}, computeColumns(40))
}
