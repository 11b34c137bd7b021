package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"lox/internal/diag"
	"lox/internal/history"
	lxlog "lox/internal/log"
	"lox/internal/lox"
	"lox/internal/repl"
	"lox/internal/util"
)

// Exit codes follow sysexits.h.
const (
	exitUsage   = 64
	exitDataErr = 65
	exitRuntime = 70
	exitIOErr   = 74
)

var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

var (
	help    bool
	version bool
	// config file, applied before any explicit flag
	configPath string
	// logging
	logLevel string
	logFile  string
	// config vars
	debugAST      bool
	debugASTText  bool
	color         string
	historyOn     bool
	historyDriver string
	historyDSN    string
	historyShow   int
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configPath, "config", "", "Load settings from a .yaml, .yml or .toml file")
	// parser config
	flag.BoolVar(&debugAST, "debug-ast", false, "Dump the AST as JSON to stderr")
	flag.BoolVar(&debugASTText, "debug-ast-text", false, "Dump the AST as text to stderr")
	flag.StringVar(&color, "color", diag.ColorAuto, "Colour diagnostics: auto, always, never")
	// repl history
	flag.BoolVar(&historyOn, "history", false, "Record REPL entries in a database")
	flag.StringVar(&historyDriver, "history-driver", "sqlite3", "History driver: sqlite3, mysql, postgres")
	flag.StringVar(&historyDSN, "history-dsn", "", "History data source (default: lox/history.db in the user config dir)")
	flag.IntVar(&historyShow, "history-show", 0, "Print the last N history entries and exit")
	// log config
	flag.StringVar(&logLevel, "log-level", "none", "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = printHelp
	flag.Parse()

	if version {
		printVersion()
		return 0
	}
	if help {
		printHelp()
		return 0
	}
	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: lox [options] [script]")
		return exitUsage
	}

	config, err := loadConfiguration()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	logger, closer, err := lxlog.Setup(config.LogLevel, config.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	defer closer.Close()
	slog.SetDefault(logger)

	if historyShow > 0 {
		return showHistory(config, historyShow)
	}
	if flag.NArg() == 1 {
		return runFile(config, flag.Arg(0))
	}
	return runPrompt(config)
}

// loadConfiguration starts from the defaults, applies the config file and
// then every flag the user actually set.
func loadConfiguration() (util.Configuration, error) {
	config := util.DefaultConfiguration()
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	if configPath != "" {
		if err := util.LoadConfiguration(configPath, &config); err != nil {
			return config, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "debug-ast":
			config.DebugJsonAST = debugAST
		case "debug-ast-text":
			config.DebugTxtAST = debugASTText
		case "color":
			config.Color = color
		case "history":
			config.History = historyOn
		case "history-driver":
			config.HistoryDriver = historyDriver
		case "history-dsn":
			config.HistoryDSN = historyDSN
		}
	})

	switch config.Color {
	case diag.ColorAuto, diag.ColorAlways, diag.ColorNever:
	default:
		return config, fmt.Errorf("invalid -color value %q", config.Color)
	}
	if _, err := lxlog.ParseLevel(config.LogLevel); err != nil {
		return config, err
	}
	return config, nil
}

func runFile(config util.Configuration, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read '%s': %v\n", path, err)
		return exitIOErr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Debug("running script", slog.String("path", path))
	runner := lox.NewRunner(config, os.Stdout, os.Stderr)
	if err := runner.Run(ctx, string(src)); err != nil {
		lox.Report(os.Stderr, string(src), err, diag.UseColor(os.Stderr, config.Color))
		if errors.Is(err, lox.ErrCompile) {
			return exitDataErr
		}
		return exitRuntime
	}
	return 0
}

func runPrompt(config util.Configuration) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := &repl.Repl{
		Config: config,
		In:     os.Stdin,
		Out:    os.Stdout,
	}

	if config.History {
		store, err := openHistory(ctx, config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "history disabled: %v\n", err)
		} else {
			defer store.Close()
			r.History = store
		}
	}

	if err := r.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		return exitIOErr
	}
	return 0
}

func showHistory(config util.Configuration, n int) int {
	ctx := context.Background()
	store, err := openHistory(ctx, config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open history: %v\n", err)
		return exitIOErr
	}
	defer store.Close()

	if err := printHistory(ctx, os.Stdout, store, n); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOErr
	}
	return 0
}

// printHistory writes the last n entries, oldest first, one per line.
func printHistory(ctx context.Context, w io.Writer, store *history.Store, n int) error {
	entries, err := store.Recent(ctx, n)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%5d  %s  %-13s  %s\n",
			e.ID, e.CreatedAt.Format(time.DateTime), e.Status, e.Source)
	}
	return nil
}

func openHistory(ctx context.Context, config util.Configuration) (*history.Store, error) {
	dsn := config.HistoryDSN
	if dsn == "" && config.HistoryDriver == "sqlite3" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dsn = filepath.Join(dir, "lox", "history.db")
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
	}
	return history.Open(ctx, config.HistoryDriver, dsn)
}

func printVersion() {
	fmt.Printf("lox version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: lox [options] [script]

Options:
  -config <path>          Load settings from a .yaml, .yml or .toml file.
  -debug-ast              Dump the AST as JSON to stderr before running.
  -debug-ast-text         Dump the AST as text to stderr before running.
  -color <mode>           Colour diagnostics: auto, always, never. Default is 'auto'.
  -history                Record REPL entries in a database.
  -history-driver <name>  History driver: sqlite3, mysql, postgres. Default is 'sqlite3'.
  -history-dsn <dsn>      History data source.
  -history-show <n>       Print the last n history entries and exit.
  -help                   Display this help information and exit.
  -version                Display version information and exit.
  -log-level <level>      Set the log level: trace, debug, info, warn, error, none. Default is 'none'.
  -log-file <path>        Specify a log file to write logs. Default is stderr.

Details:
Without a script lox starts an interactive prompt. Definitions made at the
prompt stay visible to later lines.

Examples:
  lox                          Start the prompt
  lox -history                 Start the prompt and keep a history
  lox -history-show 20         Show the last 20 prompt entries
  lox -log-level=debug hello.lox
                               Run a script with debug logging enabled

Exit codes:
  64 usage, 65 compile error, 70 runtime error, 74 I/O error.

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
