package app

import (
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rseek/internal/state"
)

// Run starts the initial index load and processes events until the user quits.
func (app *Application) Run() {
	app.startScan(!app.forceRescan)
	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-app.done:
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch a := action.(type) {
	case statepkg.QuitAction:
		app.reduce(a)
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case statepkg.SubmitSearchAction:
		app.submitSearch()
	case statepkg.RescanAction:
		app.requestRescan()
	case statepkg.ToggleFavoriteAction:
		app.toggleFavorite()
	case statepkg.ShowFavoritesAction:
		app.showFavorites()
	case statepkg.ExportResultsAction:
		app.exportResults()
	case statepkg.CopyPathAction:
		app.copySelectedPath()
	case statepkg.OpenSelectedAction:
		app.openSelected(a.Parent)
	case statepkg.ScanProgressAction, statepkg.ScanFinishedAction:
		app.reduce(a)
		app.refreshLiveResults()
	default:
		app.reduce(a)
	}
	return true
}
