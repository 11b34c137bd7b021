package lox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"lox/internal/diag"
	"lox/internal/evaluator"
	"lox/internal/lexer"
	"lox/internal/object"
	"lox/internal/parser"
	"lox/internal/resolver"
	"lox/internal/util"
	"strings"
)

var (
	ErrCompile = errors.New("compile error")
	ErrRuntime = errors.New("runtime error")
)

// CompileError carries every diagnostic found by the parser, or by the
// resolver when parsing succeeded. It matches ErrCompile with errors.Is.
type CompileError struct {
	Diagnostics []diag.Diagnostic
}

func (e *CompileError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

func (e *CompileError) Unwrap() error {
	return ErrCompile
}

// Runner drives source through scanning, parsing, resolution and evaluation.
// One Runner keeps one global frame, so successive Run calls see each
// other's definitions.
type Runner struct {
	config    util.Configuration
	evaluator *evaluator.Evaluator
	debugOut  io.Writer
}

// NewRunner creates a Runner printing program output to out. AST dumps, when
// enabled in config, go to debugOut.
func NewRunner(config util.Configuration, out, debugOut io.Writer) *Runner {
	return &Runner{
		config:    config,
		evaluator: evaluator.New(out),
		debugOut:  debugOut,
	}
}

// Run executes source. Nothing runs if the parser or the resolver reported a
// problem. Runtime failures, including cancellation of ctx, are wrapped so
// both ErrRuntime and the underlying *object.RuntimeError can be recovered
// with the errors package.
func (r *Runner) Run(ctx context.Context, source string) error {
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		slog.Debug("parse failed", slog.Int("errors", len(errs)))
		return &CompileError{Diagnostics: errs}
	}

	if r.config.DebugJsonAST {
		json, err := parser.RenderASTAsJSON(program)
		if err != nil {
			return err
		}
		fmt.Fprint(r.debugOut, json)
	}
	if r.config.DebugTxtAST {
		fmt.Fprintln(r.debugOut, parser.RenderASTAsText(program, 0))
	}

	var reporter diag.Collector
	locals := resolver.New(&reporter).Resolve(program.Statements)
	if reporter.HasErrors() {
		slog.Debug("resolve failed", slog.Int("errors", len(reporter.Diagnostics())))
		return &CompileError{Diagnostics: reporter.Diagnostics()}
	}
	slog.Debug("resolved program",
		slog.Int("statements", len(program.Statements)),
		slog.Int("locals", locals.Len()))

	r.evaluator.AddLocals(locals)
	if err := r.evaluator.Interpret(ctx, program.Statements); err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	return nil
}

// Report writes err, as returned by Run, to w. src is the text that was run
// and is used to show context lines.
func Report(w io.Writer, src string, err error, color bool) {
	var compileErr *CompileError
	var rtErr *object.RuntimeError
	switch {
	case errors.As(err, &compileErr):
		diag.Render(w, src, compileErr.Diagnostics, color)
	case errors.As(err, &rtErr):
		fmt.Fprintln(w, object.RenderRuntimeError(rtErr, src))
	default:
		fmt.Fprintln(w, err)
	}
}
