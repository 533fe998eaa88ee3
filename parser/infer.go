package parser

import (
	"github.com/ekusiadadus/h2/ast"
	"github.com/ekusiadadus/h2/reporter"
)

// Infer walks def's body once and assigns def.Types. It must be called
// exactly once per FuncDef, after the body is fully parsed and before the
// def is exposed to any caller.
func Infer(def *ast.FuncDef) error {
	evidence := make(map[byte]ast.ParamType)
	conflict := make(map[byte]bool)

	record := func(letter byte, kind ast.ParamType) {
		if prev, ok := evidence[letter]; ok {
			if prev != kind {
				conflict[letter] = true
			}
			return
		}
		evidence[letter] = kind
	}

	var walk func(expr ast.Expression)
	walkNum := func(n ast.NumExpr) {
		for _, atom := range n.Atoms {
			if atom.Kind == ast.NumParamAtom {
				record(atom.Param, ast.ParamInt)
			}
		}
	}
	walk = func(expr ast.Expression) {
		for _, term := range expr {
			switch term.Kind {
			case ast.TermParamRef:
				record(term.Param, ast.ParamCmdSeq)
			case ast.TermFuncCall:
				for _, arg := range term.Call.Args {
					switch arg.Kind {
					case ast.ArgNum:
						walkNum(arg.Num)
					case ast.ArgCmd:
						walk(arg.Cmd)
					}
				}
			}
		}
	}
	walk(def.Body)

	types := make(map[byte]ast.ParamType, len(def.Params))
	for _, letter := range def.Params {
		if conflict[letter] {
			return reporter.Codedf(reporter.E010, def.Span,
				"parameter %q is used both as a command sequence and as a number", string(letter))
		}
		if kind, ok := evidence[letter]; ok {
			types[letter] = kind
		} else {
			// No evidence at all defaults to CmdSeq.
			types[letter] = ast.ParamCmdSeq
		}
	}
	def.Types = types
	return nil
}
