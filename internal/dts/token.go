package dts

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenWhitespace
	TokenComment
	TokenUnknown
	TokenUnterminatedString
	TokenUnterminatedComment

	// Names and literals
	TokenIdent
	TokenLabel
	TokenString
	TokenNumber
	TokenLabelRef
	TokenPathRef
	TokenDirective

	// Punctuation
	TokenSemicolon
	TokenSlash
	TokenEqual
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
	TokenLAngle
	TokenRAngle
	TokenComma
	TokenLBrace
	TokenRBrace
)

// String renders the kind the way diagnostics talk about it.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of file"
	case TokenWhitespace:
		return "whitespace"
	case TokenComment:
		return "comment"
	case TokenUnknown:
		return "unknown"
	case TokenUnterminatedString:
		return "unterminated string"
	case TokenUnterminatedComment:
		return "unterminated comment"
	case TokenIdent:
		return "identifier"
	case TokenLabel:
		return "label"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenLabelRef, TokenPathRef:
		return "reference"
	case TokenDirective:
		return "directive"
	case TokenSemicolon:
		return "';'"
	case TokenSlash:
		return "'/'"
	case TokenEqual:
		return "'='"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLAngle:
		return "'<'"
	case TokenRAngle:
		return "'>'"
	case TokenComma:
		return "','"
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	}
	return "unknown"
}

// Token is a single lexeme. Literal is the exact source text the token
// covers; Text is the decoded payload where the two differ (string
// contents without quotes and escapes, label names without the ':',
// reference names without the '&', directive names without the
// slashes). Tokens are immutable once produced.
type Token struct {
	Kind    TokenKind
	Literal string
	Text    string
	Span    Span
	// Offset is the byte offset of Literal within the source text.
	Offset int
}
