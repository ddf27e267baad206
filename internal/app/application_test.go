package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rseek/internal/engine"
	"github.com/kk-code-lab/rseek/internal/search"
	statepkg "github.com/kk-code-lab/rseek/internal/state"
	"github.com/kk-code-lab/rseek/internal/store"
	"github.com/stretchr/testify/require"
)

type memLibrary struct {
	mu        sync.Mutex
	history   []string
	favorites []string
}

func (m *memLibrary) AddHistory(_ context.Context, q string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.history {
		if existing == q {
			return nil
		}
	}
	m.history = append(m.history, q)
	return nil
}

func (m *memLibrary) History(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.history...), nil
}

func (m *memLibrary) ToggleFavorite(_ context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.favorites {
		if p == path {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return false, nil
		}
	}
	m.favorites = append(m.favorites, path)
	return true, nil
}

func (m *memLibrary) Favorites(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.favorites...), nil
}

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range map[string]string{
		"report.txt":     "quarterly numbers",
		"notes/todo.md":  "buy milk",
		"notes/plan.txt": "report draft",
	} {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
	}
	return root
}

func newTestApp(t *testing.T, lib Library) (*Application, string) {
	t.Helper()
	root := writeTree(t)
	screen := tcell.NewSimulationScreen("")
	eng := engine.New(engine.Config{ScanPaths: []string{root}}, nil, nil)

	opts := Options{
		Engine:     eng,
		Library:    lib,
		SortBy:     search.SortByName,
		ExportPath: filepath.Join(t.TempDir(), DefaultExportFile),
		Screen:     screen,
	}
	app, err := NewApplication(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	screen.SetSize(100, 20)
	app.handleAction(statepkg.ResizeAction{Width: 100, Height: 20})
	return app, root
}

func scanNow(t *testing.T, app *Application) {
	t.Helper()
	app.reduce(statepkg.ScanStartedAction{})
	app.runScan(false)
	app.processActions()
	require.False(t, app.state.Scanning)
}

func typeQuery(app *Application, q string) {
	app.handleAction(statepkg.QueryClearAction{})
	for _, r := range q {
		app.handleAction(statepkg.QueryCharAction{Char: r})
	}
}

func resultNames(app *Application) []string {
	var names []string
	for _, e := range app.state.Results {
		names = append(names, e.Name)
	}
	return names
}

func TestEmptyQueryShowsPrompt(t *testing.T) {
	app, _ := newTestApp(t, nil)

	app.handleAction(statepkg.SubmitSearchAction{})
	require.Equal(t, emptyQueryMessage, app.state.Message)

	typeQuery(app, "   ")
	app.handleAction(statepkg.SubmitSearchAction{})
	require.Equal(t, emptyQueryMessage, app.state.Message)
	require.Empty(t, app.state.Results)
}

func TestScanThenSearch(t *testing.T) {
	lib := &memLibrary{}
	app, _ := newTestApp(t, lib)
	scanNow(t, app)

	require.Equal(t, 4, app.state.ScanCount)
	require.Equal(t, "scan finished: 4 entries", app.state.Message)

	typeQuery(app, "name:report")
	app.handleAction(statepkg.SubmitSearchAction{})
	require.Equal(t, []string{"report.txt"}, resultNames(app))
	require.Equal(t, "name:report", app.state.ActiveQuery)
	require.Equal(t, []string{"name:report"}, app.state.History)

	typeQuery(app, "type:.txt")
	app.handleAction(statepkg.SubmitSearchAction{})
	require.Equal(t, []string{"plan.txt", "report.txt"}, resultNames(app))
	require.Equal(t, []string{"name:report", "type:.txt"}, app.state.History)
}

func TestRecallHistoryStartsFromLatestStoredQuery(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	app, _ := newTestApp(t, db)
	scanNow(t, app)
	for _, q := range []string{"name:report", "type:.md", "type:.txt"} {
		typeQuery(app, q)
		app.handleAction(statepkg.SubmitSearchAction{})
	}
	typeQuery(app, "")

	app.handleAction(statepkg.RecallHistoryAction{})
	require.Equal(t, "type:.txt", app.state.Query)
	app.handleAction(statepkg.RecallHistoryAction{})
	require.Equal(t, "type:.md", app.state.Query)
}

func TestContentSearchToggle(t *testing.T) {
	app, _ := newTestApp(t, nil)
	scanNow(t, app)

	typeQuery(app, "report")
	app.handleAction(statepkg.SubmitSearchAction{})
	require.Equal(t, []string{"report.txt"}, resultNames(app))

	// report.txt does not mention its own name.
	app.handleAction(statepkg.ToggleContentSearchAction{})
	app.handleAction(statepkg.SubmitSearchAction{})
	require.Empty(t, app.state.Results)

	// Without a keyword every readable file passes the content check.
	typeQuery(app, "type:.md")
	app.handleAction(statepkg.SubmitSearchAction{})
	require.Equal(t, []string{"todo.md"}, resultNames(app))
}

func TestLiveResultsFollowScan(t *testing.T) {
	app, _ := newTestApp(t, nil)

	typeQuery(app, "type:.md")
	app.handleAction(statepkg.SubmitSearchAction{})
	require.Empty(t, app.state.Results)
	require.Equal(t, "type:.md", app.state.ActiveQuery)

	scanNow(t, app)
	require.Equal(t, []string{"todo.md"}, resultNames(app))
}

func TestFavorites(t *testing.T) {
	lib := &memLibrary{}
	app, root := newTestApp(t, lib)
	scanNow(t, app)

	app.handleAction(statepkg.ShowFavoritesAction{})
	require.Equal(t, "no favourites yet", app.state.Message)

	typeQuery(app, "name:report")
	app.handleAction(statepkg.SubmitSearchAction{})
	app.handleAction(statepkg.ToggleFavoriteAction{})
	require.Equal(t, "added to favourites: report.txt", app.state.Message)
	require.Equal(t, []string{filepath.Join(root, "report.txt")}, lib.favorites)

	app.handleAction(statepkg.ShowFavoritesAction{})
	require.True(t, app.state.ShowFavorites)
	require.Equal(t, []string{"report.txt"}, resultNames(app))

	app.handleAction(statepkg.ToggleFavoriteAction{})
	require.Equal(t, "removed from favourites: report.txt", app.state.Message)
	require.Empty(t, app.state.Results)
}

func TestFavoritesWithoutLibrary(t *testing.T) {
	app, _ := newTestApp(t, nil)
	scanNow(t, app)

	typeQuery(app, "report")
	app.handleAction(statepkg.SubmitSearchAction{})
	app.handleAction(statepkg.ToggleFavoriteAction{})
	require.True(t, app.state.MessageError)
}

func TestExportResults(t *testing.T) {
	app, root := newTestApp(t, nil)
	scanNow(t, app)

	app.handleAction(statepkg.ExportResultsAction{})
	require.Equal(t, "no results to export", app.state.Message)

	typeQuery(app, "name:report")
	app.handleAction(statepkg.SubmitSearchAction{})
	app.handleAction(statepkg.ExportResultsAction{})
	require.Contains(t, app.state.Message, "exported 1 results")

	data, err := os.ReadFile(app.exportPath)
	require.NoError(t, err)
	require.Equal(t, "report.txt: "+filepath.Join(root, "report.txt")+"\n", string(data))
}

func TestCycleSortUsesEngine(t *testing.T) {
	app, root := newTestApp(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), make([]byte, 8192), 0o644))
	scanNow(t, app)

	typeQuery(app, "type:.txt")
	app.handleAction(statepkg.SubmitSearchAction{})
	require.Equal(t, []string{"big.txt", "plan.txt", "report.txt"}, resultNames(app))

	app.handleAction(statepkg.CycleSortAction{})
	require.Equal(t, search.SortBySize, app.state.SortBy)
	require.Equal(t, "big.txt", app.state.Results[0].Name)
}

func TestQuitStopsLoop(t *testing.T) {
	app, _ := newTestApp(t, nil)
	require.False(t, app.handleAction(statepkg.QuitAction{}))
	require.True(t, app.shouldQuit)
}

func TestRunScanLoadsEmptySnapshotByWalking(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app.reduce(statepkg.ScanStartedAction{})
	app.runScan(true)
	app.processActions()

	require.Equal(t, 4, app.state.ScanCount)
	require.Equal(t, "scan finished: 4 entries", app.state.Message)
}
