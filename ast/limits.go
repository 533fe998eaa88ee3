package ast

// OnLimit selects what the expander does when a resource limit is first
// crossed.
type OnLimit int

const (
	// OnLimitTruncate halts expansion cleanly and keeps the partial output;
	// no error is reported for the agent. This is the default.
	OnLimitTruncate OnLimit = iota
	// OnLimitError aborts the agent's expansion and reports E004/E005.
	OnLimitError
)

func (o OnLimit) String() string {
	if o == OnLimitError {
		return "ERROR"
	}
	return "TRUNCATE"
}

// Directive names recognized at the top of a program.
const (
	DirectiveMaxStep  = "MAX_STEP"
	DirectiveMaxDepth = "MAX_DEPTH"
	DirectiveOnLimit  = "ON_LIMIT"
)

// Default values and valid ranges for the limits configuration.
const (
	DefaultMaxStep  = 1_000_000
	MinMaxStep      = 1
	MaxMaxStep      = 10_000_000
	DefaultMaxDepth = 100
	MinMaxDepth     = 1
	MaxMaxDepth     = 10_000
)

// Limits holds the program-wide execution limits derived from directives,
// or their defaults when a directive is absent. Every agent in a
// program shares an immutable copy of this value.
type Limits struct {
	MaxStep  int
	MaxDepth int
	OnLimit  OnLimit
}

// DefaultLimits returns the limits configuration in effect when no
// directives are present.
func DefaultLimits() Limits {
	return Limits{
		MaxStep:  DefaultMaxStep,
		MaxDepth: DefaultMaxDepth,
		OnLimit:  OnLimitTruncate,
	}
}

// Directive is one parsed `NAME=VALUE` line. Raw carries the text of the
// value (the value word for ON_LIMIT, the decimal form of the parsed number
// for MAX_STEP/MAX_DEPTH); the parser validates the value and also stores
// it decoded in Value or OnLim.
type Directive struct {
	Name  string
	Raw   string
	Span  Span
	Value int64 // parsed integer value, for MAX_STEP/MAX_DEPTH
	OnLim OnLimit
	IsInt bool // true if Value is meaningful, false if OnLim is (ON_LIMIT)
}
