package object

import (
	"bytes"
	"fmt"
	"lox/internal/util"
)

// RenderRuntimeError formats rtErr the way the command line reports it: the
// message, then the line it happened on. When src is available the offending
// line is shown as well.
func RenderRuntimeError(rtErr *RuntimeError, src string) string {
	var buf bytes.Buffer

	if rtErr.Internal {
		buf.WriteString("internal error: ")
	}
	fmt.Fprintf(&buf, "%s\n[line %d]", rtErr.Message, rtErr.Token.Line)

	if src != "" && rtErr.Token.Line > 0 {
		_, c := util.GetLineAndColumn(src, rtErr.Token.Position)
		buf.WriteString("\n")
		buf.WriteString(util.GetContextLines(src, rtErr.Token.Line, c, "here"))
	}

	return buf.String()
}
