package reporter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekusiadadus/h2/ast"
	"github.com/ekusiadadus/h2/reporter"
)

func TestRenderUnderlinesSpan(t *testing.T) {
	t.Parallel()
	src := []byte("f(X):XX f(3)\n")
	// the "3" argument sits at 1-based column 11.
	sp := ast.Span{
		Start: ast.Pos{Filename: "<test>", Line: 1, Col: 11},
		End:   ast.Pos{Filename: "<test>", Line: 1, Col: 12},
	}
	err := reporter.Codedf(reporter.E008, sp, "argument 1 to %q must be a command sequence", "f")

	out := reporter.Render(err, src)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "f(X):XX f(3)", lines[1])
	assert.Equal(t, strings.Repeat(" ", 10)+"^", lines[2])
}

func TestRenderFallsBackWhenLineOutOfRange(t *testing.T) {
	t.Parallel()
	src := []byte("srl\n")
	sp := ast.Span{
		Start: ast.Pos{Filename: "<test>", Line: 5, Col: 1},
		End:   ast.Pos{Filename: "<test>", Line: 5, Col: 2},
	}
	err := reporter.Codedf(reporter.E009, sp, "out of range")

	out := reporter.Render(err, src)
	assert.Equal(t, err.Error()+"\n", out)
}

func TestRenderExpandsTabsForCaretAlignment(t *testing.T) {
	t.Parallel()
	src := []byte("\tsrl\n")
	sp := ast.Span{
		Start: ast.Pos{Filename: "<test>", Line: 1, Col: 9}, // column right after the tab stop
		End:   ast.Pos{Filename: "<test>", Line: 1, Col: 10},
	}
	err := reporter.Codedf(reporter.E009, sp, "bad command")

	out := reporter.Render(err, src)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	// the tab is a single grapheme, so it contributes a single space byte to
	// the caret line even though it advances 8 columns.
	assert.Equal(t, " ^", lines[2])
}
