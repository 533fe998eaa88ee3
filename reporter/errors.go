package reporter

import (
	"errors"
	"fmt"

	"github.com/ekusiadadus/h2/ast"
)

// ErrInvalidSource is returned by Handler.Error when errors were reported
// but the configured Reporter never itself returned a non-nil error: a
// compile with any reported error is not a Success.
var ErrInvalidSource = errors.New("h2: invalid source")

// ErrorWithPos is an error about H2 source that carries a canonical code
// and the span it applies to.
//
// The value of Error() includes the span, the code, and the underlying
// message. Unwrap() returns only the underlying message.
type ErrorWithPos interface {
	error
	Code() Code
	Span() ast.Span
	Unwrap() error
}

// Coded constructs an ErrorWithPos. It panics if code is not one of the
// canonical, non-reserved codes — a construction-time guard against ever
// emitting E006.
func Coded(code Code, span ast.Span, msg string) ErrorWithPos {
	if !code.valid() {
		panic(fmt.Sprintf("reporter: refusing to construct with reserved/unknown code %q", code))
	}
	return errorWithSpan{code: code, span: span, underlying: errors.New(msg)}
}

// Codedf is Coded with fmt.Sprintf-style formatting.
func Codedf(code Code, span ast.Span, format string, args ...interface{}) ErrorWithPos {
	return Coded(code, span, fmt.Sprintf(format, args...))
}

// errorWithSpan is an error about H2 source that includes a code and the
// span that caused it.
//
// Calling code that wants to examine errors with location info should look
// for the ErrorWithPos interface rather than this concrete type.
type errorWithSpan struct {
	underlying error
	span       ast.Span
	code       Code
}

func (e errorWithSpan) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.span.Start, e.code, e.underlying)
}

// Code implements ErrorWithPos.
func (e errorWithSpan) Code() Code { return e.code }

// Span implements ErrorWithPos, supplying the source span that caused the
// error.
func (e errorWithSpan) Span() ast.Span { return e.span }

// Unwrap implements ErrorWithPos, supplying the underlying error. This error
// will not include the code or span.
func (e errorWithSpan) Unwrap() error { return e.underlying }

var _ ErrorWithPos = errorWithSpan{}
