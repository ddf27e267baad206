package app

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rseek/internal/engine"
	"github.com/kk-code-lab/rseek/internal/search"
	statepkg "github.com/kk-code-lab/rseek/internal/state"
	inputui "github.com/kk-code-lab/rseek/internal/ui/input"
	renderui "github.com/kk-code-lab/rseek/internal/ui/render"
	"go.uber.org/zap"
)

// DefaultExportFile is written in the working directory by the export key.
const DefaultExportFile = "rseek-results.txt"

// Library keeps search history and favourites across runs.
type Library interface {
	AddHistory(ctx context.Context, query string) error
	History(ctx context.Context) ([]string, error)
	ToggleFavorite(ctx context.Context, path string) (bool, error)
	Favorites(ctx context.Context) ([]string, error)
}

// Options configures NewApplication.
type Options struct {
	Engine        *engine.Engine
	Library       Library // optional
	Logger        *zap.Logger
	SortBy        search.SortKey
	ContentSearch bool
	ExportPath    string
	// ForceRescan skips the saved snapshot on startup.
	ForceRescan bool
	// Screen replaces the terminal; tests pass a simulation screen.
	Screen tcell.Screen
}

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	state    *statepkg.AppState
	reducer  *statepkg.StateReducer
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	actionCh chan statepkg.Action

	engine      *engine.Engine
	library     Library
	logger      *zap.Logger
	exportPath  string
	forceRescan bool

	clipboardCmd []string
	openerCmd    []string
	runCmd       func(args []string, stdin string, wait bool) error

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	scans    sync.WaitGroup
	closeOne sync.Once

	shouldQuit bool
}

// NewApplication initialises the screen and the UI state.
func NewApplication(opts Options) (*Application, error) {
	screen := opts.Screen
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	exportPath := opts.ExportPath
	if exportPath == "" {
		exportPath = DefaultExportFile
	}
	sortBy := opts.SortBy
	if _, ok := search.ParseSortKey(string(sortBy)); !ok {
		sortBy = search.SortByName
	}

	state := statepkg.NewAppState(sortBy, opts.ContentSearch)
	state.ScreenWidth, state.ScreenHeight = screen.Size()
	state.ScanCount = len(opts.Engine.Entries())

	actionCh := make(chan statepkg.Action, 256)
	inputHandler := inputui.NewInputHandler(actionCh)
	inputHandler.SetState(state)

	clipboardCmd, _ := detectClipboard()
	openerCmd, _ := detectOpener()

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		screen:       screen,
		state:        state,
		reducer:      statepkg.NewStateReducerWithSort(opts.Engine.Resort),
		renderer:     renderui.NewRenderer(screen),
		input:        inputHandler,
		actionCh:     actionCh,
		engine:       opts.Engine,
		library:      opts.Library,
		logger:       logger,
		exportPath:   exportPath,
		forceRescan:  opts.ForceRescan,
		clipboardCmd: clipboardCmd,
		openerCmd:    openerCmd,
		runCmd:       runCommand,
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
	app.loadHistory()
	return app, nil
}

// Close stops background scans and releases the terminal.
func (app *Application) Close() error {
	app.closeOne.Do(func() {
		app.cancel()
		close(app.done)
		app.scans.Wait()
		app.screen.Fini()
	})
	return nil
}

// State exposes the current UI state for inspection.
func (app *Application) State() *statepkg.AppState {
	return app.state
}

// dispatch queues an action from any goroutine without blocking the caller.
func (app *Application) dispatch(action statepkg.Action) {
	select {
	case app.actionCh <- action:
	default:
		go func() {
			select {
			case app.actionCh <- action:
			case <-app.done:
			}
		}()
	}
}

func (app *Application) reduce(action statepkg.Action) {
	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.logger.Debug("reduce failed", zap.Error(err))
	}
}
