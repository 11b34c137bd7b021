package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"lox/internal/diag"
	"lox/internal/history"
	"lox/internal/lox"
	"lox/internal/util"
	"strings"
)

// Recorder receives every entry submitted to the REPL.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

type Repl struct {
	Config util.Configuration
	In     io.Reader
	Out    io.Writer
	// History is optional.
	History Recorder
}

// Start reads one line at a time until In is exhausted or ctx is done. Every
// line runs against the same globals, so earlier definitions stay visible.
// Errors are reported and the loop carries on. Cancelling ctx interrupts the
// running line and ends the session, also while waiting for input.
func (r *Repl) Start(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	lines, scanErr := readLines(r.In, done)

	runner := lox.NewRunner(r.Config, r.Out, r.Out)
	color := diag.UseColor(r.Out, r.Config.Color)

	prompt := r.Config.Prompt
	if prompt == "" {
		prompt = util.DefaultConfiguration().Prompt
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.Out, prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.Out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.Out)
				return <-scanErr
			}
			line = l
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		entry := history.Entry{Source: line, Status: history.StatusOK}
		if err := runner.Run(ctx, line); err != nil {
			lox.Report(r.Out, line, err, color)
			entry.Message = err.Error()
			if errors.Is(err, lox.ErrCompile) {
				entry.Status = history.StatusCompileError
			} else {
				entry.Status = history.StatusRuntimeError
			}
		}

		if r.History != nil {
			if err := r.History.Record(context.WithoutCancel(ctx), entry); err != nil {
				slog.Warn("failed to record history", slog.Any("error", err))
			}
		}
	}
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The error channel yields the scanner's error once lines is
// closed.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	return lines, scanErr
}
