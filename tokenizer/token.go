package tokenizer

import "errors"

// Sentinel errors
var (
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedQuote   = errors.New("unterminated quoted identifier")
	ErrUnterminatedComment = errors.New("unterminated block comment")
	ErrInvalidNumber       = errors.New("invalid number format")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	WORD              // identifiers, keywords
	QUOTED_IDENTIFIER // "name", `name`
	STRING            // 'text'
	NUMBER            // numeric literals
	OPENED_PARENS     // (
	CLOSED_PARENS     // )
	COMMA             // ,
	SEMICOLON         // ;
	DOT               // .
	OPERATOR          // = <> != < > <= >= + - * / % || ::

	// Comments
	LINE_COMMENT  // -- line comment
	BLOCK_COMMENT // /* block comment */

	// Others
	OTHER // anything the lexer does not classify
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case WORD:
		return "WORD"
	case QUOTED_IDENTIFIER:
		return "QUOTED_IDENTIFIER"
	case STRING:
		return "STRING"
	case NUMBER:
		return "NUMBER"
	case OPENED_PARENS:
		return "OPENED_PARENS"
	case CLOSED_PARENS:
		return "CLOSED_PARENS"
	case COMMA:
		return "COMMA"
	case SEMICOLON:
		return "SEMICOLON"
	case DOT:
		return "DOT"
	case OPERATOR:
		return "OPERATOR"
	case LINE_COMMENT:
		return "LINE_COMMENT"
	case BLOCK_COMMENT:
		return "BLOCK_COMMENT"
	case OTHER:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the source code
type Position struct {
	Line   int
	Column int
	Offset int // byte offset of the first character
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// IsComment reports whether the token is a line or block comment
func (t Token) IsComment() bool {
	return t.Type == LINE_COMMENT || t.Type == BLOCK_COMMENT
}

// IsKeyword reports whether the token is a word found in KeywordSet
func (t Token) IsKeyword() bool {
	return t.Type == WORD && IsKeyword(t.Value)
}
