package parser

import (
	"fmt"

	"github.com/ekusiadadus/h2/ast"
	"github.com/ekusiadadus/h2/reporter"
)

// Parser is a recursive-descent parser over a filtered token stream
// (whitespace and comments were already dropped by the lexer).
type Parser struct {
	tokens []ast.Token
	pos    int
}

// Parse builds a Program from tokens. tokens must end with a TokenEOF, as
// produced by lexer.Tokenize.
func Parse(tokens []ast.Token) (*ast.Program, error) {
	p := &Parser{tokens: tokens}

	directives, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}
	p.stripNewlines()

	prog := &ast.Program{
		Directives: directives,
		Limits:     limitsFromDirectives(directives),
	}

	if p.cur().Kind == ast.TokenAgentID {
		for p.cur().Kind == ast.TokenAgentID {
			agent, err := p.parseAgent(prog.Limits)
			if err != nil {
				return nil, err
			}
			prog.Agents = append(prog.Agents, agent)
		}
		if p.cur().Kind != ast.TokenEOF {
			return nil, p.unexpected("an agent id or end of input", p.cur())
		}
		return prog, nil
	}

	agent, err := p.parseSingleAgent(prog.Limits)
	if err != nil {
		return nil, err
	}
	prog.Agents = append(prog.Agents, agent)
	return prog, nil
}

func limitsFromDirectives(directives []ast.Directive) ast.Limits {
	lim := ast.DefaultLimits()
	for _, d := range directives {
		switch d.Name {
		case ast.DirectiveMaxStep:
			lim.MaxStep = int(d.Value)
		case ast.DirectiveMaxDepth:
			lim.MaxDepth = int(d.Value)
		case ast.DirectiveOnLimit:
			lim.OnLimit = d.OnLim
		}
	}
	return lim
}

// --- directives ---

func (p *Parser) parseDirectives() ([]ast.Directive, error) {
	var directives []ast.Directive
	for p.cur().Kind == ast.TokenDirectiveWord {
		d, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		directives = append(directives, d)
	}
	return directives, nil
}

func (p *Parser) parseDirective() (ast.Directive, error) {
	nameTok := p.advance()
	eq, err := p.expect(ast.TokenEquals)
	if err != nil {
		return ast.Directive{}, err
	}
	span := ast.Join(nameTok.Span, eq.Span)

	d := ast.Directive{Name: nameTok.Text}

	switch nameTok.Text {
	case ast.DirectiveOnLimit:
		valTok := p.cur()
		if valTok.Kind != ast.TokenDirectiveWord || (valTok.Text != "ERROR" && valTok.Text != "TRUNCATE") {
			return ast.Directive{}, reporter.Codedf(reporter.E009, valTok.Span,
				"invalid value for %s: expected ERROR or TRUNCATE, found %s", nameTok.Text, describe(valTok))
		}
		p.advance()
		d.Raw = valTok.Text
		d.OnLim = ast.OnLimitTruncate
		if valTok.Text == "ERROR" {
			d.OnLim = ast.OnLimitError
		}
		span = ast.Join(span, valTok.Span)

	case ast.DirectiveMaxStep, ast.DirectiveMaxDepth:
		valTok := p.cur()
		if valTok.Kind != ast.TokenNumber {
			return ast.Directive{}, reporter.Codedf(reporter.E009, valTok.Span,
				"invalid value for %s: expected a number, found %s", nameTok.Text, describe(valTok))
		}
		p.advance()
		lo, hi := int64(ast.MinMaxStep), int64(ast.MaxMaxStep)
		if nameTok.Text == ast.DirectiveMaxDepth {
			lo, hi = int64(ast.MinMaxDepth), int64(ast.MaxMaxDepth)
		}
		if valTok.Int < lo || valTok.Int > hi {
			return ast.Directive{}, reporter.Codedf(reporter.E009, valTok.Span,
				"%s value %d out of range [%d, %d]", nameTok.Text, valTok.Int, lo, hi)
		}
		d.IsInt = true
		d.Value = valTok.Int
		d.Raw = fmt.Sprintf("%d", valTok.Int)
		span = ast.Join(span, valTok.Span)

	default:
		// Unreachable: at line start the lexer only emits TokenDirectiveWord
		// for names in its own directiveNames table, which matches this switch
		// exactly; value words only follow a name and its '='.
		return ast.Directive{}, reporter.Codedf(reporter.E009, nameTok.Span, "unknown directive %q", nameTok.Text)
	}
	d.Span = span

	if p.cur().Kind == ast.TokenNewline {
		p.advance()
	} else if p.cur().Kind != ast.TokenEOF {
		return ast.Directive{}, p.unexpected("a newline after the directive value", p.cur())
	}
	return d, nil
}

// stripNewlines discards TokenNewline from the remainder of the stream.
// Once the directive prefix is consumed, NEWLINE carries no grammatical
// meaning — the body grammar has no statement separator token — so
// dropping it here keeps every later parsing function from having to skip
// it explicitly.
func (p *Parser) stripNewlines() {
	rest := p.tokens[p.pos:]
	filtered := make([]ast.Token, 0, len(rest))
	for _, t := range rest {
		if t.Kind == ast.TokenNewline {
			continue
		}
		filtered = append(filtered, t)
	}
	p.tokens = filtered
	p.pos = 0
}

// --- agents ---

func (p *Parser) parseAgent(limits ast.Limits) (*ast.Agent, error) {
	idTok := p.advance() // TokenAgentID
	if _, err := p.expect(ast.TokenColon); err != nil {
		return nil, err
	}
	funcs, main, err := p.parseAgentBody(true)
	if err != nil {
		return nil, err
	}
	span := idTok.Span
	if len(main) > 0 {
		span = ast.Join(span, main.Span())
	}
	return &ast.Agent{ID: idTok.Int, Span: span, Funcs: funcs, Main: main, Limits: limits}, nil
}

func (p *Parser) parseSingleAgent(limits ast.Limits) (*ast.Agent, error) {
	start := p.cur()
	funcs, main, err := p.parseAgentBody(false)
	if err != nil {
		return nil, err
	}
	span := ast.Span{Start: start.Span.Start, End: start.Span.Start}
	if len(main) > 0 {
		span = main.Span()
	}
	return &ast.Agent{ID: 0, Span: span, Funcs: funcs, Main: main, Limits: limits}, nil
}

func (p *Parser) parseAgentBody(multiAgent bool) (*ast.FuncTable, ast.Expression, error) {
	funcs := ast.NewFuncTable()
	var main ast.Expression

	for !p.atBodyEnd(multiAgent) {
		if p.looksLikeFuncDefStart() {
			def, err := p.parseFuncDef()
			if err != nil {
				return nil, nil, err
			}
			if prev, exists := funcs.Define(def); exists {
				return nil, nil, reporter.Codedf(reporter.E010, def.Span,
					"function %q redefined (first defined at %s)", string(def.Name), prev.Span.Start)
			}
			continue
		}
		term, err := p.parseTerm()
		if err != nil {
			return nil, nil, err
		}
		main = append(main, term)
	}
	return funcs, main, nil
}

func (p *Parser) atBodyEnd(multiAgent bool) bool {
	if p.cur().Kind == ast.TokenEOF {
		return true
	}
	return multiAgent && p.cur().Kind == ast.TokenAgentID
}

// looksLikeFuncDefStart implements the local func_def recognition rule: an
// IDENT immediately followed by ':' always starts a func_def; an IDENT
// immediately followed by '(' starts one only if the matching ')' is itself
// immediately followed by ':' — otherwise the parenthesized group is a
// call's argument list (e.g. in "f(X):XXX f(s)", the first is a definition
// and the later f(s) is a call).
func (p *Parser) looksLikeFuncDefStart() bool {
	if p.cur().Kind != ast.TokenIdent {
		return false
	}
	switch p.peek(1).Kind {
	case ast.TokenColon:
		return true
	case ast.TokenLParen:
		return p.parenMatchFollowedByColon(p.pos + 1)
	default:
		return false
	}
}

// parenMatchFollowedByColon reports whether the parenthesized group opened
// by the TokenLParen at index lparenIdx is immediately followed by ':'.
func (p *Parser) parenMatchFollowedByColon(lparenIdx int) bool {
	depth := 0
	for i := lparenIdx; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case ast.TokenLParen:
			depth++
		case ast.TokenRParen:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Kind == ast.TokenColon
			}
		case ast.TokenEOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseFuncDef() (*ast.FuncDef, error) {
	nameTok := p.advance() // TokenIdent
	defSpan := nameTok.Span

	var params []byte
	if p.cur().Kind == ast.TokenLParen {
		p.advance()
		if p.cur().Kind != ast.TokenRParen {
			for {
				pt, err := p.expect(ast.TokenParam)
				if err != nil {
					return nil, err
				}
				params = append(params, pt.Letter())
				if p.cur().Kind == ast.TokenComma {
					p.advance()
					continue
				}
				break
			}
		}
		rp, err := p.expect(ast.TokenRParen)
		if err != nil {
			return nil, err
		}
		defSpan = ast.Join(defSpan, rp.Span)
	}

	colonTok, err := p.expect(ast.TokenColon)
	if err != nil {
		return nil, err
	}
	defSpan = ast.Join(defSpan, colonTok.Span)

	body, err := p.parseFuncBody(params)
	if err != nil {
		return nil, err
	}
	if len(body) > 0 {
		defSpan = ast.Join(defSpan, body.Span())
	}

	def := &ast.FuncDef{Name: nameTok.Letter(), Span: defSpan, Params: params, Body: body}
	if err := Infer(def); err != nil {
		return nil, err
	}
	return def, nil
}

// parseFuncBody parses the term+ that forms a FuncDef's body, stopping at
// the first sign of the next statement (another func_def, an agent
// boundary, or end of input).
//
// A call term is ambiguous with the start of the agent's main expression:
// nothing in the token stream distinguishes a recursive self-call left
// inside a definition (e.g. the "a(X-1)" in "a(X):sa(X-1) a(4)") from the
// call that actually invokes the function from the main expression (that
// same example's trailing "a(4)"). Both parse as an ordinary call term. The
// rule this parser applies is scope, not syntax: a call belongs to the
// body being parsed only if at least one of its arguments refers back to
// one of that body's own formal parameters — only then could the call
// possibly make sense evaluated inside this definition's own binding
// frame. A call with no such reference is semantically free-standing, so
// it is left unconsumed and handed back to the enclosing statement loop,
// which folds it into the main expression instead.
func (p *Parser) parseFuncBody(params []byte) (ast.Expression, error) {
	var terms ast.Expression
	for !p.atBodyEnd(true) && !p.looksLikeFuncDefStart() {
		if p.cur().Kind == ast.TokenIdent {
			start := p.pos
			term, err := p.parseCallTerm()
			if err != nil {
				return nil, err
			}
			if !callReferencesParams(term.Call, params) {
				p.pos = start
				return terms, nil
			}
			terms = append(terms, term)
			continue
		}
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// callReferencesParams reports whether any argument to call refers,
// directly or through a nested call, to one of params.
func callReferencesParams(call *ast.FuncCall, params []byte) bool {
	for _, arg := range call.Args {
		switch arg.Kind {
		case ast.ArgNum:
			if numExprReferencesParams(arg.Num, params) {
				return true
			}
		case ast.ArgCmd:
			if exprReferencesParams(arg.Cmd, params) {
				return true
			}
		}
	}
	return false
}

func exprReferencesParams(expr ast.Expression, params []byte) bool {
	for _, term := range expr {
		switch term.Kind {
		case ast.TermParamRef:
			if isParam(params, term.Param) {
				return true
			}
		case ast.TermFuncCall:
			if callReferencesParams(term.Call, params) {
				return true
			}
		}
	}
	return false
}

func numExprReferencesParams(n ast.NumExpr, params []byte) bool {
	for _, atom := range n.Atoms {
		if atom.Kind == ast.NumParamAtom && isParam(params, atom.Param) {
			return true
		}
	}
	return false
}

func isParam(params []byte, letter byte) bool {
	for _, p := range params {
		if p == letter {
			return true
		}
	}
	return false
}

// --- terms, calls, arguments ---

func (p *Parser) parseTerm() (ast.Term, error) {
	tok := p.cur()
	switch tok.Kind {
	case ast.TokenCommand:
		p.advance()
		return ast.Term{Kind: ast.TermCommand, Span: tok.Span, Command: tok.Letter()}, nil
	case ast.TokenParam:
		p.advance()
		return ast.Term{Kind: ast.TermParamRef, Span: tok.Span, Param: tok.Letter()}, nil
	case ast.TokenIdent:
		return p.parseCallTerm()
	default:
		return ast.Term{}, p.unexpected("a command, parameter, or identifier", tok)
	}
}

func (p *Parser) parseCallTerm() (ast.Term, error) {
	nameTok := p.advance() // TokenIdent
	span := nameTok.Span

	var args []ast.Arg
	if p.cur().Kind == ast.TokenLParen {
		lp := p.advance()
		span = ast.Join(span, lp.Span)
		if p.cur().Kind != ast.TokenRParen {
			for {
				arg, err := p.parseArgument()
				if err != nil {
					return ast.Term{}, err
				}
				args = append(args, arg)
				if p.cur().Kind == ast.TokenComma {
					p.advance()
					continue
				}
				break
			}
		}
		rp, err := p.expect(ast.TokenRParen)
		if err != nil {
			return ast.Term{}, err
		}
		span = ast.Join(span, rp.Span)
	}

	call := &ast.FuncCall{Name: nameTok.Letter(), Args: args, Span: span}
	return ast.Term{Kind: ast.TermFuncCall, Span: span, Call: call}, nil
}

// parseArgument disambiguates NumExpr from CmdExpr using up to two tokens
// of look-ahead.
func (p *Parser) parseArgument() (ast.Arg, error) {
	first := p.cur()
	isNum := first.Kind == ast.TokenNumber ||
		(first.Kind == ast.TokenParam && (p.peek(1).Kind == ast.TokenPlus || p.peek(1).Kind == ast.TokenMinus))
	if isNum {
		num, err := p.parseNumExpr()
		if err != nil {
			return ast.Arg{}, err
		}
		return ast.Arg{Kind: ast.ArgNum, Span: num.Span, Num: num}, nil
	}
	return p.parseCmdArg()
}

func (p *Parser) parseCmdArg() (ast.Arg, error) {
	var terms ast.Expression
	for {
		k := p.cur().Kind
		if k == ast.TokenComma || k == ast.TokenRParen || k == ast.TokenEOF {
			break
		}
		term, err := p.parseTerm()
		if err != nil {
			return ast.Arg{}, err
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return ast.Arg{}, p.unexpected("a command, parameter, or identifier", p.cur())
	}
	return ast.Arg{Kind: ast.ArgCmd, Span: terms.Span(), Cmd: terms}, nil
}

func (p *Parser) parseNumExpr() (ast.NumExpr, error) {
	atom, err := p.parseNumAtom()
	if err != nil {
		return ast.NumExpr{}, err
	}
	expr := ast.NumExpr{Atoms: []ast.NumAtom{atom}, Span: atom.Span}

	for p.cur().Kind == ast.TokenPlus || p.cur().Kind == ast.TokenMinus {
		op := ast.OpAdd
		if p.cur().Kind == ast.TokenMinus {
			op = ast.OpSub
		}
		p.advance()
		next, err := p.parseNumAtom()
		if err != nil {
			return ast.NumExpr{}, err
		}
		expr.Atoms = append(expr.Atoms, next)
		expr.Ops = append(expr.Ops, op)
		expr.Span = ast.Join(expr.Span, next.Span)
	}
	return expr, nil
}

func (p *Parser) parseNumAtom() (ast.NumAtom, error) {
	tok := p.cur()
	switch tok.Kind {
	case ast.TokenNumber:
		p.advance()
		return ast.NumAtom{Kind: ast.NumLiteral, Span: tok.Span, Value: tok.Int}, nil
	case ast.TokenParam:
		p.advance()
		return ast.NumAtom{Kind: ast.NumParamAtom, Span: tok.Span, Param: tok.Letter()}, nil
	default:
		return ast.NumAtom{}, p.unexpected("a number or parameter", tok)
	}
}

// --- token cursor ---

func (p *Parser) peek(n int) ast.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // final token is always TokenEOF
	}
	return p.tokens[idx]
}

func (p *Parser) cur() ast.Token { return p.peek(0) }

func (p *Parser) advance() ast.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind ast.TokenKind) (ast.Token, error) {
	tok := p.cur()
	if tok.Kind != kind {
		return ast.Token{}, p.unexpected(kind.String(), tok)
	}
	p.advance()
	return tok, nil
}

func (p *Parser) unexpected(expected string, tok ast.Token) error {
	return reporter.Codedf(reporter.Unknown, tok.Span, "expected %s, found %s", expected, describe(tok))
}

func describe(tok ast.Token) string {
	switch tok.Kind {
	case ast.TokenCommand, ast.TokenIdent, ast.TokenParam, ast.TokenDirectiveWord:
		return fmt.Sprintf("%q", tok.Text)
	case ast.TokenNumber, ast.TokenAgentID:
		return fmt.Sprintf("%d", tok.Int)
	default:
		return tok.Kind.String()
	}
}
