package reporter

import "fmt"

// Code is one of the canonical error codes this module emits. E006 is
// reserved and is deliberately not defined here — nothing in this module
// may emit it.
type Code string

const (
	// Unknown is not one of the canonical codes below. Two syntax-level
	// failure modes — the lexer's UnknownCharacter and the parser's
	// UnexpectedToken — have no code of their own in the canonical set. This
	// module resolves that gap by
	// folding both into E009: both are "this source text does not parse",
	// and E009 is already the bucket for malformed directive syntax, the
	// closest existing category. Unknown exists only as an internal alias
	// kept distinct in code so the two cases remain easy to find; its wire
	// value is identical to E009.
	Unknown = E009

	// E001 undefined function, 0-arg call form.
	E001 Code = "E001"
	// E002 undefined function, n-arg call form.
	E002 Code = "E002"
	// E003 arity mismatch.
	E003 Code = "E003"
	// E004 MAX_STEP exceeded, under ON_LIMIT=ERROR.
	E004 Code = "E004"
	// E005 MAX_DEPTH exceeded, under ON_LIMIT=ERROR.
	E005 Code = "E005"
	// E007 numeric value out of the -255..255 range.
	E007 Code = "E007"
	// E008 type mismatch, at a call site or a parameter reference.
	E008 Code = "E008"
	// E009 invalid directive (unknown name or out-of-range value); also
	// used, per the Unknown alias above, for lexer/parser syntax errors
	// that are otherwise left uncoded.
	E009 Code = "E009"
	// E010 parameter type conflict; also used for DuplicateDefinition (a
	// second FuncDef for the same identifier within one agent).
	E010 Code = "E010"
)

// String implements fmt.Stringer.
func (c Code) String() string {
	return string(c)
}

// valid reports whether c is one of the codes this module is permitted to
// emit (E006 is excluded by construction, since there is no constant for
// it).
func (c Code) valid() bool {
	switch c {
	case E001, E002, E003, E004, E005, E007, E008, E009, E010:
		return true
	default:
		return false
	}
}

func init() {
	// Defensive check that the Unknown alias above didn't silently drift.
	if Unknown != E009 {
		panic(fmt.Sprintf("reporter: Unknown must alias E009, got %s", Unknown))
	}
}
