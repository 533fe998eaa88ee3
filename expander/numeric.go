package expander

import (
	"golang.org/x/exp/constraints"

	"github.com/ekusiadadus/h2/ast"
	"github.com/ekusiadadus/h2/reporter"
)

// NumMin and NumMax bound every intermediate numeric result.
const (
	NumMin = -255
	NumMax = 255
)

// InRange reports whether v falls within [lo, hi], inclusive.
func InRange[T constraints.Integer](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// EvalNum evaluates a NumExpr strictly left to right, checking the
// -255..255 bound on the first atom and on the running result after every
// operator.
func EvalNum(expr ast.NumExpr, frame *Frame) (int64, error) {
	result, err := evalAtom(expr.Atoms[0], frame)
	if err != nil {
		return 0, err
	}
	if !InRange(result, NumMin, NumMax) {
		return 0, reporter.Codedf(reporter.E007, expr.Atoms[0].Span, "value %d is out of range [%d, %d]", result, NumMin, NumMax)
	}

	for i, op := range expr.Ops {
		next, err := evalAtom(expr.Atoms[i+1], frame)
		if err != nil {
			return 0, err
		}
		switch op {
		case ast.OpAdd:
			result += next
		case ast.OpSub:
			result -= next
		}
		if !InRange(result, NumMin, NumMax) {
			return 0, reporter.Codedf(reporter.E007, expr.Span, "value %d is out of range [%d, %d]", result, NumMin, NumMax)
		}
	}
	return result, nil
}

func evalAtom(atom ast.NumAtom, frame *Frame) (int64, error) {
	switch atom.Kind {
	case ast.NumLiteral:
		return atom.Value, nil
	case ast.NumParamAtom:
		b, ok := frame.Values[atom.Param]
		if !ok || !b.IsInt {
			return 0, reporter.Codedf(reporter.E008, atom.Span, "parameter %q is not bound to a number here", string(atom.Param))
		}
		return b.Int, nil
	default:
		return 0, reporter.Codedf(reporter.E008, atom.Span, "malformed numeric atom")
	}
}
