package lexer

import (
	"fmt"

	"github.com/ekusiadadus/h2/ast"
	"github.com/ekusiadadus/h2/reporter"
)

// Error is returned for the single unrecoverable lexing failure this
// tokenizer allows: an unexpected byte in the input.
type Error struct {
	Byte byte
	Pos  ast.Pos
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: unexpected character %q", e.Pos, rune(e.Byte))
}

// lexer scans a single source file into tokens.
type lexer struct {
	filename string
	data     []byte
	pos      int
	lines    *ast.LineIndex

	// atLineStart is true at the beginning of input, immediately after a
	// NEWLINE, and remains true across any run of SPACE tokens. It drives
	// AGENT_ID disambiguation: "N:" only forms an AGENT_ID at line start.
	atLineStart bool

	// afterDirectiveEquals is true immediately after the '=' that closes a
	// recognized directive name, until an uppercase value word is consumed
	// or the line ends. It exists because directive values (TRUNCATE, ERROR)
	// are multi-letter uppercase words just like directive names, but
	// appear mid-line rather than at line start.
	afterDirectiveEquals bool

	tokens []ast.Token
}

// directiveNames are the only words this lexer will ever tokenize as
// TokenDirectiveWord at line start; every other run of uppercase letters
// there falls back to single-letter PARAM tokens (see scanDirectiveWord),
// which the parser then handles like any other PARAM. PARAM is a single
// uppercase letter with no room for a
// multi-letter ALL_CAPS directive name, so a directive name is recognized
// as its own word form rather than forced through the single-letter PARAM
// rule.
var directiveNames = map[string]bool{
	"MAX_STEP":  true,
	"MAX_DEPTH": true,
	"ON_LIMIT":  true,
}

// directiveValues are the words recognized right after a directive's '='.
var directiveValues = map[string]bool{
	"ERROR":    true,
	"TRUNCATE": true,
}

// Tokenize scans the given source into the token stream the parser
// consumes: SPACE and COMMENT runs are recognized (to drive AGENT_ID
// disambiguation and line accounting) but are not included in the
// returned slice, since the grammar never inspects them directly. The
// returned slice always ends with a TokenEOF.
func Tokenize(filename string, src []byte) ([]ast.Token, error) {
	l := &lexer{
		filename:    filename,
		data:        src,
		lines:       ast.NewLineIndex(filename, src),
		atLineStart: true,
	}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) posAt(offset int) ast.Pos {
	return l.lines.Pos(offset)
}

func (l *lexer) emit(kind ast.TokenKind, start, end int, text string, n int64) {
	l.tokens = append(l.tokens, ast.Token{
		Kind: kind,
		Span: ast.Span{Start: l.posAt(start), End: l.posAt(end)},
		Text: text,
		Int:  n,
	})
}

func (l *lexer) run() error {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		start := l.pos

		switch {
		case c == ' ' || c == '\t':
			l.scanSpace()
			continue // atLineStart unchanged

		case c == '\n':
			l.pos++
			l.lines.AddLine(l.pos)
			l.emit(ast.TokenNewline, start, start+1, "", 0)
			l.atLineStart = true
			l.afterDirectiveEquals = false
			continue

		case c == '\r' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '\n':
			l.pos += 2
			l.lines.AddLine(l.pos)
			l.emit(ast.TokenNewline, start, start+1, "", 0)
			l.atLineStart = true
			l.afterDirectiveEquals = false
			continue

		case c >= '0' && c <= '9':
			l.scanNumberOrAgentID()

		case c >= 'a' && c <= 'z':
			l.pos++
			kind := ast.TokenIdent
			if c == 's' || c == 'r' || c == 'l' {
				kind = ast.TokenCommand
			}
			l.emit(kind, start, start+1, string(c), 0)

		case (c >= 'A' && c <= 'Z') && l.atLineStart:
			l.scanDirectiveWord(start, directiveNames)

		case (c >= 'A' && c <= 'Z') && l.afterDirectiveEquals:
			l.scanDirectiveWord(start, directiveValues)
			l.afterDirectiveEquals = false

		case c >= 'A' && c <= 'Z':
			l.pos++
			l.emit(ast.TokenParam, start, start+1, string(c), 0)

		case c == '#':
			l.scanLineComment(start)
			continue

		case c == '/' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '/':
			l.scanLineComment(start)
			continue

		case c == ':':
			l.pos++
			l.emit(ast.TokenColon, start, start+1, "", 0)

		case c == '(':
			l.pos++
			l.emit(ast.TokenLParen, start, start+1, "", 0)

		case c == ')':
			l.pos++
			l.emit(ast.TokenRParen, start, start+1, "", 0)

		case c == ',':
			l.pos++
			l.emit(ast.TokenComma, start, start+1, "", 0)

		case c == '+':
			l.pos++
			l.emit(ast.TokenPlus, start, start+1, "", 0)

		case c == '-':
			l.pos++
			l.emit(ast.TokenMinus, start, start+1, "", 0)

		case c == '=':
			l.pos++
			l.emit(ast.TokenEquals, start, start+1, "", 0)
			if n := len(l.tokens); n >= 2 && l.tokens[n-2].Kind == ast.TokenDirectiveWord {
				l.afterDirectiveEquals = true
			}

		default:
			return Error{Byte: c, Pos: l.posAt(start)}
		}

		l.atLineStart = false
	}

	l.emit(ast.TokenEOF, l.pos, l.pos, "", 0)
	return nil
}

func (l *lexer) scanSpace() {
	start := l.pos
	for l.pos < len(l.data) && (l.data[l.pos] == ' ' || l.data[l.pos] == '\t') {
		l.pos++
	}
	_ = start // SPACE tokens are not emitted to the parser; see Tokenize doc.
}

// scanDirectiveWord greedily scans a run of uppercase letters and
// underscores. If the run exactly matches an entry in known, it is emitted
// as a single TokenDirectiveWord. Otherwise this is not a directive
// position after all (e.g. a bare PARAM reference at the start of a body
// line); only the first letter is consumed, as an ordinary TokenParam, and
// scanning resumes from there.
func (l *lexer) scanDirectiveWord(start int, known map[string]bool) {
	l.pos = start
	for l.pos < len(l.data) && (l.data[l.pos] == '_' || (l.data[l.pos] >= 'A' && l.data[l.pos] <= 'Z')) {
		l.pos++
	}
	text := string(l.data[start:l.pos])
	if known[text] {
		l.emit(ast.TokenDirectiveWord, start, l.pos, text, 0)
		return
	}
	l.pos = start + 1
	l.emit(ast.TokenParam, start, l.pos, string(l.data[start]), 0)
}

func (l *lexer) scanLineComment(start int) {
	for l.pos < len(l.data) && l.data[l.pos] != '\n' && !(l.data[l.pos] == '\r' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '\n') {
		l.pos++
	}
	_ = start // comments are discarded, not emitted.
}

// scanNumberOrAgentID implements the AGENT_ID disambiguation rule: a run
// of digits at the start of a logical line, immediately followed by ':',
// is an AGENT_ID; otherwise it is a NUMBER.
func (l *lexer) scanNumberOrAgentID() {
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '9' {
		l.pos++
	}
	text := string(l.data[start:l.pos])

	isAgentID := l.atLineStart && l.pos < len(l.data) && l.data[l.pos] == ':'

	var n int64
	for i := 0; i < len(text); i++ {
		n = n*10 + int64(text[i]-'0')
	}

	if isAgentID {
		l.emit(ast.TokenAgentID, start, l.pos, text, n)
	} else {
		l.emit(ast.TokenNumber, start, l.pos, text, n)
	}
}

// AsReporterError reports whether err is a lexer Error and, if so, folds it
// into a reporter.ErrorWithPos.
func AsReporterError(err error) (reporter.ErrorWithPos, bool) {
	if e, ok := err.(Error); ok {
		return reporter.Coded(reporter.Unknown, ast.Span{Start: e.Pos, End: e.Pos}, e.Error()), true
	}
	return nil, false
}
