package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/rseek/internal/app"
	"github.com/kk-code-lab/rseek/internal/config"
	"github.com/kk-code-lab/rseek/internal/engine"
	fsutil "github.com/kk-code-lab/rseek/internal/fs"
	"github.com/kk-code-lab/rseek/internal/logging"
	"github.com/kk-code-lab/rseek/internal/search"
	"github.com/kk-code-lab/rseek/internal/store"
	"go.uber.org/zap"
)

func printHelp(w io.Writer) {
	fmt.Fprint(w, `rseek - find files by name, type, size and content

USAGE:
    rseek [OPTIONS]

OPTIONS:
    -h, --help            Show this help message and exit
    -q, --query QUERY     Search once, print "name: path" lines and exit
        --sort KEY        Order results by name, size or date
        --content         Also match the keyword inside text files
        --rescan          Walk the scan paths instead of using the saved index
        --roots           Print the scan paths and exit
    -c, --config PATH     Read configuration from PATH
        --init-config     Write the default configuration file and exit

QUERY SYNTAX:
    name:WORD   name contains WORD        type:.EXT   name ends with .EXT
    size>KB     at least KB kibibytes     size<KB     at most KB kibibytes
    Anything else is a keyword matched against names (and contents with --content).

KEYS:
    Enter search   Tab sort   Ctrl-T content   Ctrl-R rescan   Ctrl-F favourite
    Ctrl-O favourites   Ctrl-Y history   Ctrl-E export   Ctrl-K copy path
    Ctrl-G open   Ctrl-P open folder   Esc quit
`)
	fmt.Fprintf(w, "\nCONTENT SEARCH READS:\n    %s\n", strings.Join(fsutil.ContentSearchExtensions(), " "))
}

type cliOptions struct {
	help       bool
	query      string
	hasQuery   bool
	sort       string
	content    bool
	rescan     bool
	roots      bool
	initConfig bool
	configPath string
}

var errUsage = errors.New("usage error")

func parseArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	value := func(i *int, name string) (string, error) {
		if *i+1 >= len(args) {
			return "", fmt.Errorf("%w: %s needs a value", errUsage, name)
		}
		*i++
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		var err error
		switch {
		case arg == "-h" || arg == "--help":
			opts.help = true
		case arg == "-q" || arg == "--query":
			opts.query, err = value(&i, arg)
			opts.hasQuery = true
		case strings.HasPrefix(arg, "--query="):
			opts.query = strings.TrimPrefix(arg, "--query=")
			opts.hasQuery = true
		case arg == "--sort":
			opts.sort, err = value(&i, arg)
		case strings.HasPrefix(arg, "--sort="):
			opts.sort = strings.TrimPrefix(arg, "--sort=")
		case arg == "--content":
			opts.content = true
		case arg == "--rescan":
			opts.rescan = true
		case arg == "--roots":
			opts.roots = true
		case arg == "--init-config":
			opts.initConfig = true
		case arg == "-c" || arg == "--config":
			opts.configPath, err = value(&i, arg)
		case strings.HasPrefix(arg, "--config="):
			opts.configPath = strings.TrimPrefix(arg, "--config=")
		default:
			err = fmt.Errorf("%w: unknown option %q", errUsage, arg)
		}
		if err != nil {
			return cliOptions{}, err
		}
	}

	if opts.sort != "" {
		if _, ok := search.ParseSortKey(opts.sort); !ok {
			return cliOptions{}, fmt.Errorf("%w: --sort must be name, size or date", errUsage)
		}
	}
	return opts, nil
}

func configPath(opts cliOptions) (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	return config.Path()
}

// initConfig writes the built-in defaults so they can be edited. An existing
// file is left alone.
func initConfig(opts cliOptions, stdout io.Writer) error {
	path, err := configPath(opts)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(stdout, "config already exists: %s\n", path)
		return nil
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return nil
}

func loadConfig(opts cliOptions) (*config.Config, error) {
	path, err := configPath(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.sort != "" {
		cfg.DefaultSort = opts.sort
	}
	if opts.content {
		cfg.ContentSearch = true
	}
	return cfg, nil
}

// services are the long-lived pieces shared by both modes.
type services struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *store.DB
	engine *engine.Engine
}

func (s *services) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
	_ = s.logger.Sync()
}

func newServices(cfg *config.Config) (*services, error) {
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	s := &services{cfg: cfg, logger: logger}
	var snapshots engine.SnapshotStore
	if db, err := store.Open(cfg.CachePath); err != nil {
		logger.Warn("index database unavailable", zap.String("path", cfg.CachePath), zap.Error(err))
	} else {
		s.db = db
		snapshots = db
	}

	s.engine = engine.New(engine.Config{
		ScanPaths:      cfg.RootPaths(home),
		FollowSymlinks: cfg.FollowSymlinks,
		HideHidden:     cfg.HideHidden,
	}, snapshots, logger)
	return s, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "rseek: %v\n", err)
		fmt.Fprintln(stderr, "Try 'rseek --help' for more information.")
		return 2
	}
	if opts.help {
		printHelp(stdout)
		return 0
	}
	if opts.initConfig {
		if err := initConfig(opts, stdout); err != nil {
			fmt.Fprintf(stderr, "rseek: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "rseek: %v\n", err)
		return 1
	}
	svc, err := newServices(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "rseek: %v\n", err)
		return 1
	}
	defer svc.Close()

	switch {
	case opts.roots:
		for _, p := range svc.engine.ScanPaths() {
			fmt.Fprintln(stdout, p)
		}
		return 0
	case opts.hasQuery:
		return runQuery(svc, opts, stdout, stderr)
	default:
		return runTUI(svc, opts, stderr)
	}
}

func runQuery(svc *services, opts cliOptions, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	if opts.rescan {
		_, err = svc.engine.Rescan(ctx, nil)
	} else {
		_, err = svc.engine.LoadOrScan(ctx, nil)
	}
	if err != nil {
		fmt.Fprintf(stderr, "rseek: %v\n", err)
		return 1
	}

	sortBy, _ := search.ParseSortKey(svc.cfg.DefaultSort)
	results, err := svc.engine.Search(engine.Request{
		Query:         opts.query,
		ContentSearch: svc.cfg.ContentSearch,
		SortBy:        sortBy,
	})
	if errors.Is(err, engine.ErrEmptyQuery) {
		fmt.Fprintln(stderr, "rseek: type something to search")
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "rseek: %v\n", err)
		return 1
	}

	if svc.db != nil {
		if err := svc.db.AddHistory(ctx, opts.query); err != nil {
			svc.logger.Warn("history update failed", zap.Error(err))
		}
	}
	if err := engine.ExportResults(stdout, results); err != nil {
		fmt.Fprintf(stderr, "rseek: %v\n", err)
		return 1
	}
	return 0
}

func runTUI(svc *services, opts cliOptions, stderr io.Writer) int {
	// Fall back to UTF-8 when the locale does not name an encoding.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	sortBy, _ := search.ParseSortKey(svc.cfg.DefaultSort)
	appOpts := apppkg.Options{
		Engine:        svc.engine,
		Logger:        svc.logger,
		SortBy:        sortBy,
		ContentSearch: svc.cfg.ContentSearch,
		ForceRescan:   opts.rescan,
	}
	if svc.db != nil {
		appOpts.Library = svc.db
	}

	app, err := apppkg.NewApplication(appOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error initializing application: %v\n", err)
		return 1
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
