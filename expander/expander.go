package expander

import (
	"errors"

	"github.com/ekusiadadus/h2/ast"
	"github.com/ekusiadadus/h2/reporter"
)

// errHalt is an internal control-flow signal, never returned to a caller
// outside this package: it unwinds the recursive expansion back to Expand
// once a resource limit is crossed under ON_LIMIT=TRUNCATE, at which point
// the partial output is the agent's result and no error is reported.
var errHalt = errors.New("expander: resource limit reached, truncating")

// Binding is the value a parameter letter resolves to within one call
// frame: either an evaluated Int, or a CmdSeq thunk — the unevaluated
// Expression plus the frame it must be expanded under, to preserve lexical
// substitution semantics.
type Binding struct {
	IsInt bool
	Int   int64

	Cmd   ast.Expression
	Frame *Frame
}

// Frame is one call's parameter bindings.
type Frame struct {
	Values map[byte]Binding
}

// Expander rewrites a single agent's main expression into a flat command
// vector. One Expander is used per agent; it is not safe for concurrent
// use, matching the strictly sequential per-agent expansion model.
type Expander struct {
	funcs  *ast.FuncTable
	limits ast.Limits

	output []byte
	depth  int
	step   int
}

// Expand rewrites agent's main expression into its flat command vector.
// Under ON_LIMIT=TRUNCATE, crossing MAX_STEP or MAX_DEPTH yields the
// partial vector built so far with a nil error. Under ON_LIMIT=ERROR, the
// same crossing yields a reporter.ErrorWithPos (E004 or E005). Any other
// failure (E001/E002/E003/E007/E008/E010) is always fatal regardless of
// ON_LIMIT.
func Expand(agent *ast.Agent) ([]byte, error) {
	e := &Expander{funcs: agent.Funcs, limits: agent.Limits}
	frame := &Frame{}

	err := e.expandExpr(agent.Main, frame)
	if err == nil {
		return e.output, nil
	}
	if errors.Is(err, errHalt) {
		return e.output, nil
	}
	return nil, err
}

func (e *Expander) expandExpr(expr ast.Expression, frame *Frame) error {
	for _, term := range expr {
		if err := e.expandTerm(term, frame); err != nil {
			return err
		}
	}
	return nil
}

func (e *Expander) expandTerm(term ast.Term, frame *Frame) error {
	switch term.Kind {
	case ast.TermCommand:
		return e.emitCommand(term.Command, term.Span)

	case ast.TermParamRef:
		b, ok := frame.Values[term.Param]
		if !ok || b.IsInt {
			return reporter.Codedf(reporter.E008, term.Span, "parameter %q is not bound to a command sequence here", string(term.Param))
		}
		return e.expandExpr(b.Cmd, b.Frame)

	case ast.TermFuncCall:
		return e.expandCall(term.Call, frame)

	default:
		return reporter.Codedf(reporter.E008, term.Span, "malformed term")
	}
}

func (e *Expander) expandCall(call *ast.FuncCall, frame *Frame) error {
	def, ok := e.funcs.Lookup(call.Name)
	if !ok {
		code := reporter.E002
		if len(call.Args) == 0 {
			code = reporter.E001
		}
		return reporter.Codedf(code, call.Span, "undefined function %q", string(call.Name))
	}

	callFrame, earlyExit, err := e.bindArgs(def, call, frame)
	if err != nil {
		return err
	}
	if earlyExit {
		// Numeric-termination rule: the call produces no output and does not
		// charge depth or recurse any further.
		return nil
	}

	if err := e.enterCall(call.Span); err != nil {
		return err
	}
	err = e.expandExpr(def.Body, callFrame)
	e.exitCall()
	return err
}

// bindArgs evaluates call's arguments against def's inferred parameter
// types and produces the callee's frame. earlyExit reports whether any
// Int-typed parameter evaluated to <= 0 (the empty-call exception included).
func (e *Expander) bindArgs(def *ast.FuncDef, call *ast.FuncCall, callerFrame *Frame) (*Frame, bool, error) {
	values := make(map[byte]Binding, len(def.Params))

	if len(call.Args) == 0 && len(def.Params) > 0 {
		earlyExit := false
		for _, letter := range def.Params {
			if def.Types[letter] == ast.ParamInt {
				values[letter] = Binding{IsInt: true, Int: 0}
				earlyExit = true
			} else {
				values[letter] = Binding{Frame: callerFrame}
			}
		}
		return &Frame{Values: values}, earlyExit, nil
	}

	if len(call.Args) != len(def.Params) {
		return nil, false, reporter.Codedf(reporter.E003, call.Span,
			"function %q takes %d argument(s), got %d", string(call.Name), len(def.Params), len(call.Args))
	}

	earlyExit := false
	for i, letter := range def.Params {
		arg := call.Args[i]
		switch def.Types[letter] {
		case ast.ParamInt:
			if arg.Kind != ast.ArgNum {
				return nil, false, reporter.Codedf(reporter.E008, arg.Span,
					"argument %d to %q must be a number", i+1, string(call.Name))
			}
			v, err := EvalNum(arg.Num, callerFrame)
			if err != nil {
				return nil, false, err
			}
			values[letter] = Binding{IsInt: true, Int: v}
			if v <= 0 {
				earlyExit = true
			}
		default: // ast.ParamCmdSeq
			if arg.Kind != ast.ArgCmd {
				return nil, false, reporter.Codedf(reporter.E008, arg.Span,
					"argument %d to %q must be a command sequence", i+1, string(call.Name))
			}
			values[letter] = Binding{Cmd: arg.Cmd, Frame: callerFrame}
		}
	}
	return &Frame{Values: values}, earlyExit, nil
}

// emitCommand appends c to the output if doing so would not exceed
// MAX_STEP, charging the step counter. The check happens before the
// append so a TRUNCATE stop leaves exactly MAX_STEP commands in the
// output, never MAX_STEP+1.
func (e *Expander) emitCommand(c byte, span ast.Span) error {
	if e.step+1 > e.limits.MaxStep {
		if e.limits.OnLimit == ast.OnLimitError {
			return reporter.Codedf(reporter.E004, span, "MAX_STEP (%d) exceeded", e.limits.MaxStep)
		}
		return errHalt
	}
	e.output = append(e.output, c)
	e.step++
	return nil
}

// enterCall charges the depth counter for one FuncCall body entry.
func (e *Expander) enterCall(span ast.Span) error {
	if e.depth+1 > e.limits.MaxDepth {
		if e.limits.OnLimit == ast.OnLimitError {
			return reporter.Codedf(reporter.E005, span, "MAX_DEPTH (%d) exceeded", e.limits.MaxDepth)
		}
		return errHalt
	}
	e.depth++
	return nil
}

func (e *Expander) exitCall() {
	e.depth--
}
