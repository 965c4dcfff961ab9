// Package dart provides the structural syntax-tree surface the refactoring
// core depends on: declarations with byte offsets, parent navigation, and
// qualified-name references collected in source order. It is intentionally
// not a full Dart front end; it parses exactly the structure the context
// analyzer needs and treats everything else as balanced token soup.
package dart

import "fmt"

// TokenKind classifies a lexed token.
type TokenKind int

const (
	// TokenEOF terminates every token stream.
	TokenEOF TokenKind = iota
	// TokenIdent covers identifiers and keywords.
	TokenIdent
	// TokenNumber covers integer and floating literals.
	TokenNumber
	// TokenString covers whole string literals, interpolations included.
	TokenString
	// TokenPunct covers operators and delimiters.
	TokenPunct
)

// Token is one lexed token with its byte range in the source.
type Token struct {
	Kind  TokenKind
	Start int
	End   int
	Text  string
}

// ParseError describes why a file failed to lex or parse.
type ParseError struct {
	Path   string
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Msg)
}

type lexer struct {
	src  []byte
	pos  int
	toks []Token
	err  *lexError
}

// lex tokenizes src. Comments are dropped; string literals (including
// interpolated ones) become single atomic tokens so references inside them
// are never rewritten.
func lex(src []byte) ([]Token, *lexError) {
	l := &lexer{src: src}

	for {
		l.skipSpaceAndComments()
		if l.err != nil {
			return nil, l.err
		}

		if l.pos >= len(l.src) {
			break
		}

		start := l.pos
		c := l.src[l.pos]

		switch {
		case isIdentStart(c):
			l.lexIdentOrRawString()
		case c >= '0' && c <= '9':
			l.lexNumber()
		case c == '\'' || c == '"':
			l.lexString(false)
		default:
			l.lexPunct()
		}

		if l.err != nil {
			return nil, l.err
		}

		if l.pos == start {
			// Unknown byte; consume it so the loop always advances.
			l.pos++
		}
	}

	l.toks = append(l.toks, Token{Kind: TokenEOF, Start: l.pos, End: l.pos})

	return l.toks, nil
}

type lexError struct {
	offset int
	msg    string
}

func (l *lexer) fail(offset int, msg string) {
	if l.err == nil {
		l.err = &lexError{offset: offset, msg: msg}
	}
}

func (l *lexer) emit(kind TokenKind, start int) {
	l.toks = append(l.toks, Token{
		Kind:  kind,
		Start: start,
		End:   l.pos,
		Text:  string(l.src[start:l.pos]),
	})
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			l.skipBlockComment()
		default:
			return
		}

		if l.err != nil {
			return
		}
	}
}

// skipBlockComment handles Dart's nested /* */ comments.
func (l *lexer) skipBlockComment() {
	start := l.pos
	l.pos += 2
	depth := 1

	for l.pos < len(l.src) && depth > 0 {
		if l.src[l.pos] == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*' {
			depth++
			l.pos += 2

			continue
		}

		if l.src[l.pos] == '*' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
			depth--
			l.pos += 2

			continue
		}

		l.pos++
	}

	if depth > 0 {
		l.fail(start, "unterminated block comment")
	}
}

func (l *lexer) lexIdentOrRawString() {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}

	// A lone "r" directly before a quote is a raw string prefix.
	if l.pos-start == 1 && l.src[start] == 'r' && l.pos < len(l.src) &&
		(l.src[l.pos] == '\'' || l.src[l.pos] == '"') {
		l.lexStringFrom(start, true)
		return
	}

	l.emit(TokenIdent, start)
}

func (l *lexer) lexNumber() {
	start := l.pos

	if l.src[l.pos] == '0' && l.pos+1 < len(l.src) && (l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X') {
		l.pos += 2
		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.pos++
		}

		l.emit(TokenNumber, start)

		return
	}

	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}

	// Fraction: the dot belongs to the number only when a digit follows,
	// otherwise it is a member access.
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}

	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		mark := l.pos
		l.pos++

		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}

		if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = mark
		}
	}

	l.emit(TokenNumber, start)
}

func (l *lexer) lexString(raw bool) {
	l.lexStringFrom(l.pos, raw)
}

// lexStringFrom scans one string literal beginning at the quote under the
// cursor and emits a single token spanning [start, end). Triple-quoted
// strings may span lines; single-quoted ones must close before the newline.
func (l *lexer) lexStringFrom(start int, raw bool) {
	quote := l.src[l.pos]
	triple := l.pos+2 < len(l.src) && l.src[l.pos+1] == quote && l.src[l.pos+2] == quote

	if triple {
		l.pos += 3
	} else {
		l.pos++
	}

	for l.pos < len(l.src) {
		c := l.src[l.pos]

		if !raw && c == '\\' {
			l.pos += 2
			continue
		}

		if !raw && c == '$' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '{' {
			l.pos += 2
			l.skipInterpolation(start)

			if l.err != nil {
				return
			}

			continue
		}

		if c == quote {
			if !triple {
				l.pos++
				l.emit(TokenString, start)

				return
			}

			if l.pos+2 < len(l.src) && l.src[l.pos+1] == quote && l.src[l.pos+2] == quote {
				l.pos += 3
				l.emit(TokenString, start)

				return
			}
		}

		if !triple && c == '\n' {
			l.fail(start, "unterminated string literal")
			return
		}

		l.pos++
	}

	l.fail(start, "unterminated string literal")
}

// skipInterpolation consumes a ${...} region, honoring nested strings,
// comments, and braces, so the enclosing string scan cannot end on a quote
// that belongs to the interpolated expression.
func (l *lexer) skipInterpolation(stringStart int) {
	depth := 1

	for l.pos < len(l.src) && depth > 0 {
		c := l.src[l.pos]

		switch {
		case c == '{':
			depth++
			l.pos++
		case c == '}':
			depth--
			l.pos++
		case c == '\'' || c == '"':
			l.lexNestedString()
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			l.skipBlockComment()
		default:
			l.pos++
		}

		if l.err != nil {
			return
		}
	}

	if depth > 0 {
		l.fail(stringStart, "unterminated string interpolation")
	}
}

// lexNestedString consumes a string inside an interpolation without emitting
// a token; the outer literal is one atomic token.
func (l *lexer) lexNestedString() {
	mark := len(l.toks)
	l.lexStringFrom(l.pos, false)
	l.toks = l.toks[:mark]
}

func (l *lexer) lexPunct() {
	start := l.pos

	// Multi-byte tokens the parser cares about; everything else is a
	// single byte.
	two := ""
	if l.pos+1 < len(l.src) {
		two = string(l.src[l.pos : l.pos+2])
	}

	switch {
	case l.pos+2 < len(l.src) && string(l.src[l.pos:l.pos+3]) == "...":
		l.pos += 3
	case two == "=>" || two == ".." || two == "?.":
		l.pos += 2
	default:
		l.pos++
	}

	l.emit(TokenPunct, start)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
