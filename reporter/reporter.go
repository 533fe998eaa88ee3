package reporter

import (
	"sync"

	"github.com/ekusiadadus/h2/ast"
)

// ErrorReporter is responsible for reporting the given error. If the
// reporter returns a non-nil error, the compile aborts with that error. If
// it returns nil, the pipeline stage that hit the error may continue,
// letting the Handler collect further diagnostics.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. Warnings
// never abort a compile.
type WarningReporter func(ErrorWithPos)

// Reporter handles both errors and warnings produced while compiling a
// program.
type Reporter interface {
	// Error is called for every error encountered. If it returns non-nil,
	// the operation aborts immediately with that error. If it returns nil,
	// the operation continues, accumulating further errors. If Error is
	// never invoked with a non-nil return, the compile eventually fails
	// with ErrInvalidSource once any error has been reported at all.
	Error(ErrorWithPos) error
	// Warning is called for every warning encountered. It never aborts the
	// compile.
	Warning(ErrorWithPos)
}

// NewReporter builds a Reporter from plain functions.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler accumulates the errors and warnings produced by one compile
// (lexer, parser, inferencer, and expander all share one Handler instance
// so that "stop at the first unrecovered error, across the whole pipeline"
// has a single point of truth).
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

// NewHandler creates a Handler that reports through rep. A nil rep is
// equivalent to NewReporter(nil, nil): with no errs callback, the first
// reported error is returned as-is and aborts the handler.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorf reports a coded error built from format/args at span. If the
// handler has already aborted, that same error is returned and the new one
// is dropped.
func (h *Handler) HandleErrorf(code Code, span ast.Span, format string, args ...interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	h.errsReported = true
	err := h.reporter.Error(Codedf(code, span, format, args...))
	h.err = err
	return err
}

// HandleError reports err. If err implements ErrorWithPos it is passed to
// the configured Reporter and this returns the Reporter's verdict; any
// other error aborts the handler immediately. If the handler has already
// aborted, that same error is returned and err is dropped.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errsReported = true
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleWarning reports a coded warning. Warnings never set the handler's
// aborted state.
func (h *Handler) HandleWarning(code Code, span ast.Span, msg string) {
	h.reporter.Warning(Coded(code, span, msg))
}

// Error returns the handler's terminal result. If any error was reported
// but the Reporter never returned non-nil, this returns ErrInvalidSource.
// Otherwise it returns whatever the Reporter last returned (nil if nothing
// was ever reported).
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidSource
	}
	return h.err
}

// ReporterError returns the raw value last returned by the configured
// Reporter, without substituting ErrInvalidSource.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}
