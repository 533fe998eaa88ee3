package reporter

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/ekusiadadus/h2/ast"
)

// TabstopWidth is the column width a tab renders as in an excerpt; position
// tracking treats a tab as advancing to the next multiple of 8, and
// excerpts render the same way.
const TabstopWidth = 8

// Render formats err against the original source lines, producing a
// compiler-style excerpt: the offending line followed by a caret line
// pointing at the error's span. src is the full source the error's span
// was computed against; if the span's line is out of range, Render falls
// back to a bare one-line message.
func Render(err ErrorWithPos, src []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", err.Error())

	line, ok := sourceLine(src, err.Span().Start.Line)
	if !ok {
		return b.String()
	}
	b.WriteString(line)
	b.WriteString("\n")
	b.WriteString(caretLine(line, err.Span()))
	b.WriteString("\n")
	return b.String()
}

func sourceLine(src []byte, lineNo int) (string, bool) {
	if lineNo <= 0 {
		return "", false
	}
	n := 1
	start := 0
	for i, c := range src {
		if n == lineNo {
			start = i
			break
		}
		if c == '\n' {
			n++
			start = i + 1
		}
	}
	if n != lineNo {
		if n == lineNo-1 && start <= len(src) {
			// lineNo is the line right after the last newline, i.e. the
			// file's final (possibly unterminated) line.
		} else {
			return "", false
		}
	}
	end := start
	for end < len(src) && src[end] != '\n' {
		end++
	}
	return strings.TrimSuffix(string(src[start:end]), "\r"), true
}

// caretLine renders a line of spaces and carets under line, underlining the
// span's columns. Width accounting uses uniseg.StringWidth so multi-byte
// runes in commands/identifiers (outside the ASCII grammar, but possible in
// a comment sharing a line) don't desync the caret from the error.
func caretLine(line string, span ast.Span) string {
	startCol := span.Start.Col
	endCol := span.End.Col
	if endCol <= startCol {
		endCol = startCol + 1
	}

	var b strings.Builder
	col := 1
	g := uniseg.NewGraphemes(line)
	for col < startCol && g.Next() {
		if g.Str() == "\t" {
			col += TabstopWidth - ((col - 1) % TabstopWidth)
		} else {
			col += uniseg.StringWidth(g.Str())
		}
		b.WriteByte(' ')
	}
	for col < endCol {
		b.WriteByte('^')
		col++
	}
	if b.Len() == 0 {
		b.WriteByte('^')
	}
	return b.String()
}
