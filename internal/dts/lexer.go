package dts

// Lexer turns source text into a stream of tokens. It operates on raw
// bytes (positions are byte columns, like dtc itself) and never fails:
// input it cannot classify comes back as TokenUnknown, unterminated
// literals come back as dedicated error kinds. The produced tokens
// cover the entire input with no gaps, including whitespace and
// comments.
//
// Like dtc, the grammar is not context free: directly after '{', ';'
// or at the start of a statement a name such as "0,copy-prop" or
// "#size-cells" must lex as a single identifier, while the same bytes
// inside a value are a number and punctuation. The lexer tracks that
// with a single "expecting name" flag.
type Lexer struct {
	input      []byte
	pos        int
	line       uint32
	column     uint32
	expectName bool
}

// NewLexer returns a lexer over text, positioned at the start.
func NewLexer(text string) *Lexer {
	return &Lexer{input: []byte(text), expectName: true}
}

// Pos returns the position of the next unread byte.
func (l *Lexer) Pos() Position {
	return Position{Line: l.line, Character: l.column}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

// assumeStatementEnd puts the lexer back into name position. The
// parser calls this when it recovers by assuming a virtual ';'.
func (l *Lexer) assumeStatementEnd() {
	l.expectName = true
}

func isNameChar(ch byte) bool {
	switch {
	case ch >= '0' && ch <= '9', ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		return true
	case ch == ',' || ch == '.' || ch == '_' || ch == '+' || ch == '?' || ch == '#' || ch == '-':
		return true
	}
	return false
}

func isLabelChar(ch byte) bool {
	return ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

// Next returns the next token. At end of input it returns a zero-width
// TokenEOF, repeatedly.
func (l *Lexer) Next() Token {
	start := l.Pos()
	startOffset := l.pos

	if l.eof() {
		return Token{Kind: TokenEOF, Span: start.AsSpan()}
	}

	ch := l.peek()

	if isWhitespace(ch) {
		for !l.eof() && isWhitespace(l.peek()) {
			l.advance()
		}
		return l.token(TokenWhitespace, start, startOffset, "")
	}

	if l.expectName && isNameChar(ch) {
		return l.scanIdentOrLabel(start, startOffset)
	}

	switch {
	case isLetter(ch) || ch == '_':
		return l.scanIdentOrLabel(start, startOffset)
	case isDigit(ch):
		for !l.eof() && (isDigit(l.peek()) || isLetter(l.peek())) {
			l.advance()
		}
		return l.token(TokenNumber, start, startOffset, "")
	case ch == '&':
		return l.scanReference(start, startOffset)
	case ch == '"':
		return l.scanString(start, startOffset)
	case ch == '/':
		return l.scanSlash(start, startOffset)
	}

	l.advance()
	switch ch {
	case ';':
		l.expectName = true
		return l.token(TokenSemicolon, start, startOffset, "")
	case '=':
		l.expectName = false
		return l.token(TokenEqual, start, startOffset, "")
	case '{':
		l.expectName = true
		return l.token(TokenLBrace, start, startOffset, "")
	case '}':
		return l.token(TokenRBrace, start, startOffset, "")
	case '[':
		return l.token(TokenLBracket, start, startOffset, "")
	case ']':
		return l.token(TokenRBracket, start, startOffset, "")
	case '(':
		return l.token(TokenLParen, start, startOffset, "")
	case ')':
		return l.token(TokenRParen, start, startOffset, "")
	case '<':
		return l.token(TokenLAngle, start, startOffset, "")
	case '>':
		return l.token(TokenRAngle, start, startOffset, "")
	case ',':
		return l.token(TokenComma, start, startOffset, "")
	}
	return l.token(TokenUnknown, start, startOffset, "")
}

// token builds a token from start to the current position. An empty
// text means "same as the literal".
func (l *Lexer) token(kind TokenKind, start Position, startOffset int, text string) Token {
	literal := string(l.input[startOffset:l.pos])
	if text == "" {
		text = literal
	}
	return Token{Kind: kind, Literal: literal, Text: text, Span: start.To(l.Pos()), Offset: startOffset}
}

// tokenText is like token but keeps an explicitly empty text.
func (l *Lexer) tokenText(kind TokenKind, start Position, startOffset int, text string) Token {
	literal := string(l.input[startOffset:l.pos])
	return Token{Kind: kind, Literal: literal, Text: text, Span: start.To(l.Pos()), Offset: startOffset}
}

func (l *Lexer) scanIdentOrLabel(start Position, startOffset int) Token {
	nameStart := l.pos
	for !l.eof() && isNameChar(l.peek()) {
		l.advance()
	}
	name := string(l.input[nameStart:l.pos])
	switch l.peek() {
	case ':':
		l.advance()
		return l.tokenText(TokenLabel, start, startOffset, name)
	case '@':
		// Unit address; a single '@' joins the node name.
		l.advance()
		for !l.eof() && isNameChar(l.peek()) {
			l.advance()
		}
		return l.token(TokenIdent, start, startOffset, "")
	}
	return l.tokenText(TokenIdent, start, startOffset, name)
}

// scanReference scans '&label' or '&{/path/to/node}'. An '&' followed
// by neither produces a reference with an empty name; the parser flags
// it.
func (l *Lexer) scanReference(start Position, startOffset int) Token {
	l.advance() // '&'
	if l.peek() == '{' {
		l.advance()
		pathStart := l.pos
		for !l.eof() && l.peek() != '}' {
			l.advance()
		}
		path := string(l.input[pathStart:l.pos])
		if !l.eof() {
			l.advance() // '}'
		}
		return l.tokenText(TokenPathRef, start, startOffset, path)
	}
	if isLetter(l.peek()) {
		nameStart := l.pos
		for !l.eof() && isLabelChar(l.peek()) {
			l.advance()
		}
		return l.tokenText(TokenLabelRef, start, startOffset, string(l.input[nameStart:l.pos]))
	}
	return l.tokenText(TokenLabelRef, start, startOffset, "")
}

func (l *Lexer) scanString(start Position, startOffset int) Token {
	l.advance() // '"'
	var text []byte
	escaped := false
	for !l.eof() {
		ch := l.advance()
		if escaped {
			text = append(text, ch)
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '"':
			return l.tokenText(TokenString, start, startOffset, string(text))
		default:
			text = append(text, ch)
		}
	}
	return l.tokenText(TokenUnterminatedString, start, startOffset, string(text))
}

func (l *Lexer) scanSlash(start Position, startOffset int) Token {
	l.advance() // '/'
	switch {
	case l.peek() == '/':
		l.advance()
		textStart := l.pos
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}
		return l.tokenText(TokenComment, start, startOffset, string(l.input[textStart:l.pos]))
	case l.peek() == '*':
		l.advance()
		textStart := l.pos
		for !l.eof() {
			if l.peek() == '*' && l.peekN(1) == '/' {
				text := string(l.input[textStart:l.pos])
				l.advance()
				l.advance()
				return l.tokenText(TokenComment, start, startOffset, text)
			}
			l.advance()
		}
		return l.tokenText(TokenUnterminatedComment, start, startOffset, string(l.input[textStart:l.pos]))
	case isLetter(l.peek()):
		// Compiler directive: /dts-v1/, /memreserve/, ...
		nameStart := l.pos
		for !l.eof() && l.peek() != '/' && !isWhitespace(l.peek()) {
			l.advance()
		}
		name := string(l.input[nameStart:l.pos])
		if l.peek() == '/' {
			l.advance()
		}
		return l.tokenText(TokenDirective, start, startOffset, name)
	}
	return l.token(TokenSlash, start, startOffset, "")
}
