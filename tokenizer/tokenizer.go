package tokenizer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// SqlTokenizer is a tokenizer that returns an iterator
type SqlTokenizer struct {
	input   string
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	SkipWhitespace bool
	SkipComments   bool
	// UpperCaseWords converts WORD tokens to upper case. Quoted identifiers
	// and literals are never changed.
	UpperCaseWords bool
}

// NewSqlTokenizer creates a new SqlTokenizer
func NewSqlTokenizer(input string, options ...TokenizerOptions) *SqlTokenizer {
	var opts TokenizerOptions
	if len(options) > 0 {
		opts = options[0]
	}

	return &SqlTokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens. After an error the iterator stops.
func (t *SqlTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		tokenizer := &tokenizer{
			input:   t.input,
			line:    1,
			column:  1,
			options: t.options,
		}

		tokenizer.readChar()

		for {
			token, err := tokenizer.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			// Filtering based on options
			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}

			if t.options.SkipComments && token.IsComment() {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice, EOF included
func (t *SqlTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 64)

	for token, err := range t.Tokens() {
		if err != nil {
			return tokens, err
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

// Internal tokenizer implementation
type tokenizer struct {
	input    string
	position int // offset of the rune after current
	offset   int // offset of current
	line     int
	column   int
	current  rune
	options  TokenizerOptions
}

// nextToken gets the next token
func (t *tokenizer) nextToken() (Token, error) {
	switch t.current {
	case 0:
		return t.newToken(EOF, "", t.offset), nil
	case ' ', '\t', '\r', '\n', '\f':
		return t.readWhitespace(), nil
	case '(':
		return t.single(OPENED_PARENS), nil
	case ')':
		return t.single(CLOSED_PARENS), nil
	case ',':
		return t.single(COMMA), nil
	case ';':
		return t.single(SEMICOLON), nil
	case '.':
		if isDigit(t.peekChar()) {
			return t.readNumber()
		}
		return t.single(DOT), nil
	case '\'':
		return t.readQuoted('\'', STRING, ErrUnterminatedString)
	case '"':
		return t.readQuoted('"', QUOTED_IDENTIFIER, ErrUnterminatedQuote)
	case '`':
		return t.readQuoted('`', QUOTED_IDENTIFIER, ErrUnterminatedQuote)
	case '-':
		if t.peekChar() == '-' {
			return t.readLineComment(), nil
		}
		return t.single(OPERATOR), nil
	case '/':
		if t.peekChar() == '*' {
			return t.readBlockComment()
		}
		return t.single(OPERATOR), nil
	case '<':
		if p := t.peekChar(); p == '=' || p == '>' {
			return t.double(OPERATOR), nil
		}
		return t.single(OPERATOR), nil
	case '>', '!':
		if t.peekChar() == '=' {
			return t.double(OPERATOR), nil
		}
		if t.current == '!' {
			return t.single(OTHER), nil
		}
		return t.single(OPERATOR), nil
	case '|':
		if t.peekChar() == '|' {
			return t.double(OPERATOR), nil
		}
		return t.single(OTHER), nil
	case ':':
		if t.peekChar() == ':' {
			return t.double(OPERATOR), nil
		}
		return t.single(OTHER), nil
	case '=', '+', '*', '%':
		return t.single(OPERATOR), nil
	default:
		if unicode.IsLetter(t.current) || t.current == '_' {
			return t.readWord(), nil
		} else if isDigit(t.current) {
			return t.readNumber()
		}

		return t.single(OTHER), nil
	}
}

// readChar reads the next character
func (t *tokenizer) readChar() {
	if t.current == '\n' {
		t.line++
		t.column = 1
	} else if t.position > 0 {
		t.column++
	}

	t.offset = t.position
	if t.position >= len(t.input) {
		t.current = 0
		return
	}

	r, size := utf8.DecodeRuneInString(t.input[t.position:])
	t.current = r
	t.position += size
}

// peekChar looks ahead at the next character
func (t *tokenizer) peekChar() rune {
	if t.position >= len(t.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(t.input[t.position:])

	return r
}

// single emits the current character as a token of the given type
func (t *tokenizer) single(tokenType TokenType) Token {
	start := t.offset
	token := t.newToken(tokenType, string(t.current), start)
	t.readChar()

	return token
}

// double emits the current and the next character as one token
func (t *tokenizer) double(tokenType TokenType) Token {
	start := t.offset
	token := t.newToken(tokenType, "", start)
	t.readChar()
	t.readChar()
	token.Value = t.input[start:t.offset]

	return token
}

// readWhitespace reads whitespace characters
func (t *tokenizer) readWhitespace() Token {
	start := t.offset
	token := t.newToken(WHITESPACE, "", start)

	for unicode.IsSpace(t.current) {
		t.readChar()
	}

	token.Value = t.input[start:t.offset]

	return token
}

// readWord reads words (identifiers and keywords)
func (t *tokenizer) readWord() Token {
	start := t.offset
	token := t.newToken(WORD, "", start)

	for unicode.IsLetter(t.current) || unicode.IsDigit(t.current) || t.current == '_' || t.current == '$' || t.current == '#' {
		t.readChar()
	}

	token.Value = t.input[start:t.offset]
	if t.options.UpperCaseWords {
		token.Value = strings.ToUpper(token.Value)
	}

	return token
}

// readQuoted reads string literals and quoted identifiers. A doubled
// delimiter inside the literal is an escaped delimiter.
func (t *tokenizer) readQuoted(delimiter rune, tokenType TokenType, unterminated error) (Token, error) {
	start := t.offset
	token := t.newToken(tokenType, "", start)

	t.readChar() // opening quote

	for {
		if t.current == 0 {
			return Token{}, fmt.Errorf("%w: %c at line %d, column %d", unterminated, delimiter, token.Position.Line, token.Position.Column)
		}

		if t.current == delimiter {
			if t.peekChar() == delimiter {
				t.readChar()
				t.readChar()

				continue
			}

			t.readChar() // closing quote

			break
		}

		if t.current == '\\' && delimiter == '\'' && t.peekChar() != 0 {
			t.readChar()
		}

		t.readChar()
	}

	token.Value = t.input[start:t.offset]

	return token, nil
}

// readNumber reads numeric literals
func (t *tokenizer) readNumber() (Token, error) {
	start := t.offset
	token := t.newToken(NUMBER, "", start)

	// Integer part
	for isDigit(t.current) {
		t.readChar()
	}

	// Decimal point
	if t.current == '.' && isDigit(t.peekChar()) {
		t.readChar()

		for isDigit(t.current) {
			t.readChar()
		}
	}

	// Exponential part
	if t.current == 'e' || t.current == 'E' {
		t.readChar()

		if t.current == '+' || t.current == '-' {
			t.readChar()
		}

		if !isDigit(t.current) {
			return Token{}, fmt.Errorf("%w: invalid exponent at line %d, column %d", ErrInvalidNumber, token.Position.Line, token.Position.Column)
		}

		for isDigit(t.current) {
			t.readChar()
		}
	}

	token.Value = t.input[start:t.offset]

	return token, nil
}

// readLineComment reads line comments up to (not including) the line end
func (t *tokenizer) readLineComment() Token {
	start := t.offset
	token := t.newToken(LINE_COMMENT, "", start)

	for t.current != 0 && t.current != '\n' {
		t.readChar()
	}

	token.Value = t.input[start:t.offset]

	return token
}

// readBlockComment reads block comments
func (t *tokenizer) readBlockComment() (Token, error) {
	start := t.offset
	token := t.newToken(BLOCK_COMMENT, "", start)

	t.readChar() // '/'
	t.readChar() // '*'

	for {
		if t.current == 0 {
			return Token{}, fmt.Errorf("%w at line %d, column %d", ErrUnterminatedComment, token.Position.Line, token.Position.Column)
		}

		if t.current == '*' && t.peekChar() == '/' {
			t.readChar()
			t.readChar()

			break
		}

		t.readChar()
	}

	token.Value = t.input[start:t.offset]

	return token, nil
}

// newToken creates a new token positioned at the current character
func (t *tokenizer) newToken(tokenType TokenType, value string, offset int) Token {
	return Token{
		Type:  tokenType,
		Value: value,
		Position: Position{
			Line:   t.line,
			Column: t.column,
			Offset: offset,
		},
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
