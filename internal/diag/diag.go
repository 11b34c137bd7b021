package diag

import (
	"fmt"
	"io"
	"lox/internal/token"
	"lox/internal/util"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Reporter receives compile-time problems. Reporting never stops the caller:
// the parser and the resolver keep going so that later problems surface too.
type Reporter interface {
	Report(tok token.Token, message string)
}

// Diagnostic is a single compile-time problem anchored to the offending token.
type Diagnostic struct {
	Token   token.Token
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Token.Line, where(d.Token), d.Message)
}

func where(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return " at end"
	case token.ILLEGAL:
		// the lexer already put the message in the literal
		return ""
	default:
		return fmt.Sprintf(" at '%s'", tok.Literal)
	}
}

// Collector accumulates diagnostics in report order.
type Collector struct {
	diagnostics []Diagnostic
}

func (c *Collector) Report(tok token.Token, message string) {
	c.diagnostics = append(c.diagnostics, Diagnostic{Token: tok, Message: message})
}

func (c *Collector) Diagnostics() []Diagnostic {
	return c.diagnostics
}

func (c *Collector) HasErrors() bool {
	return len(c.diagnostics) > 0
}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// UseColor decides whether ANSI colour should be written to w for the given
// mode. In auto mode only terminals get colour.
func UseColor(w io.Writer, mode string) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// Render writes each diagnostic followed by the surrounding source lines. src
// may be empty, in which case only the headline is written.
func Render(w io.Writer, src string, diags []Diagnostic, color bool) {
	for _, d := range diags {
		headline := d.Error()
		if color {
			headline = ansiBold + ansiRed + headline + ansiReset
		}
		fmt.Fprintln(w, headline)

		if src == "" || d.Token.Type == token.EOF || d.Token.Line == 0 {
			continue
		}
		_, col := util.GetLineAndColumn(src, d.Token.Position)
		context := util.GetContextLines(src, d.Token.Line, col, d.Message)
		if color {
			context = strings.Replace(context, "^", ansiRed+"^"+ansiReset, 1)
		}
		fmt.Fprintln(w, context)
	}
}
