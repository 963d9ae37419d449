package tokenizer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTokenIterator(t *testing.T) {
	sql := "SELECT id, name FROM users WHERE active = true;"
	tokenizer := NewSqlTokenizer(sql)

	expectedTypes := []TokenType{
		WORD, WHITESPACE, WORD, COMMA, WHITESPACE, WORD, WHITESPACE,
		WORD, WHITESPACE, WORD, WHITESPACE, WORD, WHITESPACE, WORD,
		WHITESPACE, OPERATOR, WHITESPACE, WORD, SEMICOLON, EOF,
	}

	var actualTypes []TokenType

	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestTokenIteratorWithOptions(t *testing.T) {
	sql := "SELECT id /* ids */, name FROM users -- comment\nWHERE active = true;"
	tokenizer := NewSqlTokenizer(sql, TokenizerOptions{
		SkipWhitespace: true,
		SkipComments:   true,
	})

	expectedTypes := []TokenType{
		WORD, WORD, COMMA, WORD, WORD, WORD, WORD, WORD, OPERATOR, WORD, SEMICOLON, EOF,
	}

	var actualTypes []TokenType

	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestIteratorEarlyTermination(t *testing.T) {
	sql := "SELECT id, name FROM users WHERE active = true;"
	tokenizer := NewSqlTokenizer(sql, TokenizerOptions{SkipWhitespace: true})

	var collected []string

	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		collected = append(collected, token.Value)
		if len(collected) == 3 {
			break
		}
	}

	assert.Equal(t, []string{"SELECT", "id", ","}, collected)
}

func TestTokenValues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "operators",
			input: "a<>b!=c<=d>=e||f::g",
			expected: []Token{
				{Type: WORD, Value: "a"}, {Type: OPERATOR, Value: "<>"}, {Type: WORD, Value: "b"},
				{Type: OPERATOR, Value: "!="}, {Type: WORD, Value: "c"}, {Type: OPERATOR, Value: "<="},
				{Type: WORD, Value: "d"}, {Type: OPERATOR, Value: ">="}, {Type: WORD, Value: "e"},
				{Type: OPERATOR, Value: "||"}, {Type: WORD, Value: "f"}, {Type: OPERATOR, Value: "::"},
				{Type: WORD, Value: "g"},
			},
		},
		{
			name:  "literals and quoted identifiers",
			input: `'it''s' "My Col" ` + "`other`" + ` 1.5e3`,
			expected: []Token{
				{Type: STRING, Value: "'it''s'"}, {Type: QUOTED_IDENTIFIER, Value: `"My Col"`},
				{Type: QUOTED_IDENTIFIER, Value: "`other`"}, {Type: NUMBER, Value: "1.5e3"},
			},
		},
		{
			name:  "multiply without spaces",
			input: "id*42",
			expected: []Token{
				{Type: WORD, Value: "id"}, {Type: OPERATOR, Value: "*"}, {Type: NUMBER, Value: "42"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewSqlTokenizer(tt.input, TokenizerOptions{SkipWhitespace: true}).AllTokens()
			assert.NoError(t, err)

			var actual []Token
			for _, token := range tokens {
				if token.Type == EOF {
					continue
				}

				actual = append(actual, Token{Type: token.Type, Value: token.Value})
			}

			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestUpperCaseWords(t *testing.T) {
	tokens, err := NewSqlTokenizer(`select "id" from foo`, TokenizerOptions{SkipWhitespace: true, UpperCaseWords: true}).AllTokens()
	assert.NoError(t, err)
	assert.Equal(t, "SELECT", tokens[0].Value)
	assert.Equal(t, `"id"`, tokens[1].Value)
	assert.Equal(t, "FOO", tokens[3].Value)
}

func TestTokenPositions(t *testing.T) {
	tokens, err := NewSqlTokenizer("select\n  id").AllTokens()
	assert.NoError(t, err)

	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Position)
	assert.Equal(t, Position{Line: 2, Column: 3, Offset: 9}, tokens[2].Position)
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{"unterminated string", "select 'abc", ErrUnterminatedString},
		{"unterminated identifier", `select "abc`, ErrUnterminatedQuote},
		{"unterminated comment", "select /* abc", ErrUnterminatedComment},
		{"invalid exponent", "select 1e+", ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSqlTokenizer(tt.input).AllTokens()
			assert.True(t, errors.Is(err, tt.expected))
		})
	}
}

func TestKeywords(t *testing.T) {
	assert.True(t, IsKeyword("select"))
	assert.True(t, IsKeyword("Count"))
	assert.False(t, IsKeyword("foo"))
	assert.True(t, IsReserved("from"))
	assert.False(t, IsReserved("count"))
}
