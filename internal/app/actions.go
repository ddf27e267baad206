package app

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/kk-code-lab/rseek/internal/engine"
	fsutil "github.com/kk-code-lab/rseek/internal/fs"
	"github.com/kk-code-lab/rseek/internal/index"
	statepkg "github.com/kk-code-lab/rseek/internal/state"
	"go.uber.org/zap"
)

const emptyQueryMessage = "type something to search"

func (app *Application) request(q string) engine.Request {
	return engine.Request{
		Query:         q,
		ContentSearch: app.state.ContentSearch,
		SortBy:        app.state.SortBy,
	}
}

func (app *Application) submitSearch() {
	q := app.state.Query
	results, err := app.engine.Search(app.request(q))
	if errors.Is(err, engine.ErrEmptyQuery) {
		app.reduce(statepkg.MessageAction{Text: emptyQueryMessage})
		return
	}
	if err != nil {
		app.logger.Warn("search failed", zap.String("query", q), zap.Error(err))
		app.reduce(statepkg.MessageAction{Text: err.Error(), IsError: true})
		return
	}

	app.reduce(statepkg.SearchResultsAction{Query: q, Results: results})
	if app.library != nil {
		if err := app.library.AddHistory(app.ctx, q); err != nil {
			app.logger.Warn("history update failed", zap.Error(err))
		}
		app.loadHistory()
	}
}

// refreshLiveResults re-runs the visible query against the growing index.
func (app *Application) refreshLiveResults() {
	if app.state.ActiveQuery == "" || app.state.ShowFavorites {
		return
	}
	results, err := app.engine.Search(app.request(app.state.ActiveQuery))
	if err != nil {
		return
	}
	app.reduce(statepkg.SearchResultsAction{Query: app.state.ActiveQuery, Results: results, Live: true})
}

func (app *Application) loadHistory() {
	if app.library == nil {
		return
	}
	queries, err := app.library.History(app.ctx)
	if err != nil {
		app.logger.Warn("history load failed", zap.Error(err))
		return
	}
	app.reduce(statepkg.HistoryLoadedAction{Queries: queries})
}

func (app *Application) requestRescan() {
	if app.engine.Scanning() {
		app.reduce(statepkg.MessageAction{Text: engine.ErrScanInProgress.Error()})
		return
	}
	app.startScan(false)
}

// startScan indexes in the background. With useSnapshot the saved index is
// restored when available instead of walking the roots.
func (app *Application) startScan(useSnapshot bool) {
	app.reduce(statepkg.ScanStartedAction{})
	app.scans.Add(1)
	go func() {
		defer app.scans.Done()
		app.runScan(useSnapshot)
	}()
}

func (app *Application) runScan(useSnapshot bool) {
	var walked atomic.Bool
	progress := index.NewThrottledObserver(index.ObserverFunc(func(entries []index.Entry) {
		walked.Store(true)
		app.dispatch(statepkg.ScanProgressAction{Count: len(entries)})
	}), 0)

	var (
		count int
		err   error
	)
	if useSnapshot {
		count, err = app.engine.LoadOrScan(app.ctx, progress)
	} else {
		count, err = app.engine.Rescan(app.ctx, progress)
	}
	progress.Flush()

	if errors.Is(err, engine.ErrScanInProgress) {
		app.dispatch(statepkg.MessageAction{Text: err.Error()})
		return
	}
	if err != nil && app.ctx.Err() != nil {
		return
	}
	app.dispatch(statepkg.ScanFinishedAction{
		Count:  count,
		Err:    err,
		Loaded: useSnapshot && err == nil && !walked.Load(),
	})
}

func (app *Application) toggleFavorite() {
	entry, ok := app.state.SelectedEntry()
	if !ok {
		app.reduce(statepkg.MessageAction{Text: "nothing selected"})
		return
	}
	if app.library == nil {
		app.reduce(statepkg.MessageAction{Text: "favourites unavailable", IsError: true})
		return
	}

	added, err := app.library.ToggleFavorite(app.ctx, entry.Path)
	if err != nil {
		app.logger.Warn("favourite toggle failed", zap.String("path", entry.Path), zap.Error(err))
		app.reduce(statepkg.MessageAction{Text: err.Error(), IsError: true})
		return
	}

	if app.state.ShowFavorites {
		app.showFavorites()
	}
	if added {
		app.reduce(statepkg.MessageAction{Text: "added to favourites: " + entry.Name})
	} else {
		app.reduce(statepkg.MessageAction{Text: "removed from favourites: " + entry.Name})
	}
}

func (app *Application) showFavorites() {
	if app.library == nil {
		app.reduce(statepkg.MessageAction{Text: "favourites unavailable", IsError: true})
		return
	}
	paths, err := app.library.Favorites(app.ctx)
	if err != nil {
		app.logger.Warn("favourites load failed", zap.Error(err))
		app.reduce(statepkg.MessageAction{Text: err.Error(), IsError: true})
		return
	}

	results := make([]fsutil.Entry, 0, len(paths))
	for _, p := range paths {
		results = append(results, fsutil.Entry{Name: filepath.Base(p), Path: p})
	}
	app.reduce(statepkg.SearchResultsAction{Results: results, Favorites: true})
	if len(results) == 0 {
		app.reduce(statepkg.MessageAction{Text: "no favourites yet"})
	}
}

func (app *Application) exportResults() {
	results := app.state.Results
	if len(results) == 0 {
		app.reduce(statepkg.MessageAction{Text: "no results to export"})
		return
	}

	if err := writeExport(app.exportPath, results); err != nil {
		app.logger.Warn("export failed", zap.String("path", app.exportPath), zap.Error(err))
		app.reduce(statepkg.MessageAction{Text: fmt.Sprintf("export failed: %v", err), IsError: true})
		return
	}
	app.logger.Info("results exported", zap.String("path", app.exportPath), zap.Int("results", len(results)))
	app.reduce(statepkg.MessageAction{Text: fmt.Sprintf("exported %d results to %s", len(results), app.exportPath)})
}

func writeExport(path string, results []fsutil.Entry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return engine.ExportResults(f, results)
}

func (app *Application) copySelectedPath() {
	entry, ok := app.state.SelectedEntry()
	if !ok {
		app.reduce(statepkg.MessageAction{Text: "nothing selected"})
		return
	}
	if len(app.clipboardCmd) == 0 {
		app.reduce(statepkg.MessageAction{Text: "no clipboard command found", IsError: true})
		return
	}

	p := normalizeClipboardPath(entry.Path, runtime.GOOS)
	if err := app.runCmd(app.clipboardCmd, p, true); err != nil {
		app.logger.Warn("clipboard copy failed", zap.Strings("cmd", app.clipboardCmd), zap.Error(err))
		app.reduce(statepkg.MessageAction{Text: fmt.Sprintf("copy failed: %v", err), IsError: true})
		return
	}
	app.reduce(statepkg.MessageAction{Text: "copied: " + p})
}

// openSelected hands the selected entry, or with parent its directory, to the
// desktop opener without waiting for it.
func (app *Application) openSelected(parent bool) {
	entry, ok := app.state.SelectedEntry()
	if !ok {
		app.reduce(statepkg.MessageAction{Text: "nothing selected"})
		return
	}
	if len(app.openerCmd) == 0 {
		app.reduce(statepkg.MessageAction{Text: "no opener command found", IsError: true})
		return
	}

	target := entry.Path
	if parent {
		target = filepath.Dir(entry.Path)
	}
	if st := fsutil.StatPath(target); !st.Exists {
		app.reduce(statepkg.MessageAction{Text: "no longer exists: " + target, IsError: true})
		return
	}

	args := append(append([]string(nil), app.openerCmd...), target)
	if err := app.runCmd(args, "", false); err != nil {
		app.logger.Warn("open failed", zap.Strings("cmd", args), zap.Error(err))
		app.reduce(statepkg.MessageAction{Text: fmt.Sprintf("open failed: %v", err), IsError: true})
		return
	}
	app.reduce(statepkg.MessageAction{Text: "opened: " + target})
}

func runCommand(args []string, stdin string, wait bool) error {
	cmd := exec.Command(args[0], args[1:]...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	if wait {
		return cmd.Run()
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
