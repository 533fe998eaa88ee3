package ast

import (
	"fmt"
	"sort"
)

// Pos identifies a single location in a source file: a byte offset plus the
// 1-based line and column it corresponds to.
type Pos struct {
	Filename string
	Offset   int
	Line     int
	Col      int
}

// String renders pos in "file:line:col" form, or just the filename if the
// position is unknown (line/col unset).
func (pos Pos) String() string {
	if pos.Line <= 0 || pos.Col <= 0 {
		return pos.Filename
	}
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Col)
}

// UnknownPos is a placeholder position for when only the source file name is
// known (e.g. an error that is not attributable to any particular token).
func UnknownPos(filename string) Pos {
	return Pos{Filename: filename}
}

// Span is a half-open range [Start, End) in a source file. End points one
// column past the last character of the span, matching the "open range"
// convention used throughout the compiler's error messages.
type Span struct {
	Start Pos
	End   Pos
}

// Join returns the smallest span that contains both a and b.
func Join(a, b Span) Span {
	start, end := a.Start, b.End
	if b.Start.Offset < a.Start.Offset {
		start = b.Start
	}
	if a.End.Offset > b.End.Offset {
		end = a.End
	}
	return Span{Start: start, End: end}
}

// LineIndex maps byte offsets within a single source file to Pos values. A
// lexer builds one incrementally, recording the offset of the start of each
// line as it scans past a newline.
type LineIndex struct {
	filename string
	data     []byte
	lines    []int // offsets where each line begins; lines[0] is always 0
}

// NewLineIndex creates a LineIndex for the given file contents.
func NewLineIndex(filename string, data []byte) *LineIndex {
	return &LineIndex{filename: filename, data: data, lines: []int{0}}
}

// AddLine records that a new line begins at the given offset (the offset
// immediately following a newline byte). Offsets must be added in
// increasing order.
func (li *LineIndex) AddLine(offset int) {
	if offset <= li.lines[len(li.lines)-1] {
		panic(fmt.Sprintf("ast: line offset %d does not follow previous line offset %d", offset, li.lines[len(li.lines)-1]))
	}
	if offset > len(li.data) {
		panic(fmt.Sprintf("ast: line offset %d exceeds source length %d", offset, len(li.data)))
	}
	li.lines = append(li.lines, offset)
}

// Pos computes the Pos for the given byte offset, accounting for tab stops
// every 8 columns when computing the column number.
func (li *LineIndex) Pos(offset int) Pos {
	line := sort.Search(len(li.lines), func(n int) bool {
		return li.lines[n] > offset
	})

	col := 0
	for i := li.lines[line-1]; i < offset; i++ {
		if li.data[i] == '\t' {
			col += 8 - (col % 8)
		} else {
			col++
		}
	}

	return Pos{
		Filename: li.filename,
		Offset:   offset,
		Line:     line,
		Col:      col + 1,
	}
}
