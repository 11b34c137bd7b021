package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// LevelTrace sits below slog's debug level for very chatty output.
const LevelTrace = slog.LevelDebug - 4

// levelNone is above every level that is ever logged.
const levelNone = slog.Level(1 << 10)

// ParseLevel maps a level name to a slog level. An empty name means none.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "none", "":
		return levelNone, nil
	default:
		return levelNone, fmt.Errorf("unknown log level %q (want trace, debug, info, warn, error or none)", s)
	}
}

// fileWriter is an append-only log file that can be reopened in place after
// rotation.
type fileWriter struct {
	path string
	mu   sync.Mutex
	fh   *os.File
	sigs chan os.Signal
}

func openFileWriter(path string) (*fileWriter, error) {
	// Create parent directories if they don't exist
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &fileWriter{path: path, fh: fh}, nil
}

func (w *fileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fh == nil {
		return 0, os.ErrClosed
	}
	return w.fh.Write(p)
}

func (w *fileWriter) reopen() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fh == nil {
		return os.ErrClosed
	}
	fh, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_ = w.fh.Close()
	w.fh = fh
	return nil
}

// Close stops listening for SIGHUP and closes the file. Later calls are
// no-ops.
func (w *fileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sigs != nil {
		signal.Stop(w.sigs)
		close(w.sigs)
		w.sigs = nil
	}
	if w.fh == nil {
		return nil
	}
	err := w.fh.Close()
	w.fh = nil
	return err
}

// setupLogRotation reopens the file on SIGHUP:
//
//	mv lox.log lox.bak && kill -HUP <pid>
func (w *fileWriter) setupLogRotation() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	w.sigs = sigs
	go func() {
		for range sigs {
			if err := w.reopen(); err != nil {
				fmt.Fprintf(os.Stderr, "could not reopen log file '%s': %v\n", w.path, err)
			}
		}
	}()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds a JSON slog logger at the named level. Output goes to file
// when one is given, falling back to stderr if it can't be opened. The
// returned Closer releases the file. Only an unknown level is an error.
func Setup(level, file string) (*slog.Logger, io.Closer, error) {
	return setup(level, file, os.Stderr)
}

func setup(level, file string, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = fallback
	var closer io.Closer = nopCloser{}

	if file != "" {
		fw, err := openFileWriter(file)
		if err != nil {
			fmt.Fprintf(fallback, "failed to open log file '%s': %v; falling back to stderr\n", file, err)
		} else {
			fw.setupLogRotation()
			out = fw
			closer = fw
		}
	}

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     lvl,
	}
	return slog.New(slog.NewJSONHandler(out, loggerOptions)), closer, nil
}
