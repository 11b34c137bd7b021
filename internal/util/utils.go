package util

import (
	"bytes"
	"fmt"
	"strings"
)

// GetLineAndColumn converts a byte offset into a 1-based line and a 1-based
// byte column within that line. The column slices the line directly.
func GetLineAndColumn(src string, pos int) (line int, column int) {
	pos = max(0, min(pos, len(src)))
	before := src[:pos]
	line = 1 + strings.Count(before, "\n")
	column = pos - strings.LastIndex(before, "\n")
	return
}

// GetContextLines renders up to two lines before errorLine plus the error line
// itself, with a caret under errorCol and the note text after it.
func GetContextLines(src string, errorLine, errorCol int, note string) string {
	var result bytes.Buffer

	lines := strings.Split(src, "\n")

	// Show 2 lines before the error line (if available)
	startLine := errorLine - 2
	if startLine < 1 {
		startLine = 1
	}

	for i := startLine; i <= errorLine && i <= len(lines); i++ {
		lineContent := lines[i-1]

		if i == errorLine {
			// Error line with arrow
			margin := fmt.Sprintf("  >  %3d | ", i)
			result.WriteString(fmt.Sprintf("%s%s\n", margin, lineContent))
			col := errorCol - 1
			if col > len(lineContent) {
				col = len(lineContent)
			}
			if col < 0 {
				col = 0
			}
			result.WriteString(fmt.Sprintf("%s^ %s",
				replaceVisibleWithSpaces(margin+lineContent[:col]), note))
		} else {
			// Context line
			result.WriteString(fmt.Sprintf("     %3d | %s\n", i, lineContent))
		}
	}

	return result.String()
}

// replaceVisibleWithSpaces replaces all non-whitespace characters with spaces
// while preserving tabs for correct alignment.
func replaceVisibleWithSpaces(s string) string {
	var buf bytes.Buffer
	for _, c := range s {
		if c == '\t' {
			buf.WriteRune('\t')
		} else {
			buf.WriteRune(' ')
		}
	}
	return buf.String()
}
