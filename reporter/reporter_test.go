package reporter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekusiadadus/h2/ast"
	"github.com/ekusiadadus/h2/reporter"
)

func span() ast.Span {
	return ast.Span{
		Start: ast.Pos{Filename: "<test>", Line: 1, Col: 1},
		End:   ast.Pos{Filename: "<test>", Line: 1, Col: 2},
	}
}

func TestCodedPanicsOnReservedCode(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		reporter.Coded(reporter.Code("E006"), span(), "reserved")
	})
}

func TestCodedfFormatsMessage(t *testing.T) {
	t.Parallel()
	err := reporter.Codedf(reporter.E003, span(), "function %q takes %d argument(s), got %d", "f", 1, 2)
	assert.Equal(t, reporter.E003, err.Code())
	assert.ErrorContains(t, err, `function "f" takes 1 argument(s), got 2`)
}

func TestUnknownAliasesE009(t *testing.T) {
	t.Parallel()
	assert.Equal(t, reporter.E009, reporter.Unknown)
}

func TestHandlerNilReporterAbortsOnFirstError(t *testing.T) {
	t.Parallel()
	h := reporter.NewHandler(nil)

	err := h.HandleErrorf(reporter.E001, span(), "undefined function %q", "f")
	require.Error(t, err, "a nil-backed reporter has no errs callback, so Error() returns the error itself")
	ewp, ok := err.(reporter.ErrorWithPos)
	require.True(t, ok)
	assert.Equal(t, reporter.E001, ewp.Code())

	assert.Equal(t, err, h.Error())
}

func TestHandlerAccumulateModeReturnsErrInvalidSource(t *testing.T) {
	t.Parallel()
	rep := reporter.NewReporter(func(reporter.ErrorWithPos) error {
		return nil // explicitly keep accumulating instead of aborting
	}, nil)
	h := reporter.NewHandler(rep)

	err1 := h.HandleErrorf(reporter.E001, span(), "one")
	assert.NoError(t, err1)
	err2 := h.HandleErrorf(reporter.E002, span(), "two")
	assert.NoError(t, err2)

	assert.ErrorIs(t, h.Error(), reporter.ErrInvalidSource)
}

func TestHandlerNoErrorsReportedReturnsNil(t *testing.T) {
	t.Parallel()
	h := reporter.NewHandler(nil)
	assert.NoError(t, h.Error())
}

func TestHandlerReporterAbortsImmediately(t *testing.T) {
	t.Parallel()
	abortErr := errors.New("stop now")
	rep := reporter.NewReporter(func(reporter.ErrorWithPos) error {
		return abortErr
	}, nil)
	h := reporter.NewHandler(rep)

	err := h.HandleErrorf(reporter.E001, span(), "undefined function %q", "f")
	assert.ErrorIs(t, err, abortErr)
	assert.ErrorIs(t, h.Error(), abortErr)
}

func TestHandlerFirstErrorWins(t *testing.T) {
	t.Parallel()
	first := errors.New("first")
	calls := 0
	rep := reporter.NewReporter(func(reporter.ErrorWithPos) error {
		calls++
		return first
	}, nil)
	h := reporter.NewHandler(rep)

	err1 := h.HandleErrorf(reporter.E001, span(), "one")
	err2 := h.HandleErrorf(reporter.E002, span(), "two")

	assert.ErrorIs(t, err1, first)
	assert.ErrorIs(t, err2, first)
	assert.Equal(t, 1, calls, "once the handler has aborted, later errors are dropped before reaching the reporter")
}

func TestHandlerWarningNeverAborts(t *testing.T) {
	t.Parallel()
	var warned []reporter.ErrorWithPos
	rep := reporter.NewReporter(nil, func(err reporter.ErrorWithPos) {
		warned = append(warned, err)
	})
	h := reporter.NewHandler(rep)

	h.HandleWarning(reporter.E009, span(), "suspicious directive")
	require.Len(t, warned, 1)
	assert.Equal(t, reporter.E009, warned[0].Code())
	assert.NoError(t, h.Error())
}

func TestHandlerReporterErrorReturnsRawResult(t *testing.T) {
	t.Parallel()
	h := reporter.NewHandler(nil)
	err := h.HandleErrorf(reporter.E001, span(), "undefined function %q", "f")

	assert.Equal(t, err, h.ReporterError(), "ReporterError returns exactly what the reporter returned, unsubstituted")
	assert.Equal(t, err, h.Error())
}
