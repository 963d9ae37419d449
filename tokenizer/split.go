package tokenizer

import "strings"

// Statement is a single statement cut out of a script
type Statement struct {
	Text string
	Line int // line of the first token of the statement
}

// SplitStatements splits a script into statements. The delimiter is either
// ";" or "/"; the latter only counts when it stands alone on its line.
// Delimiters inside literals, quoted identifiers and comments are ignored, and
// statements consisting only of comments and whitespace are dropped.
func SplitStatements(script string, delimiter string) ([]Statement, error) {
	if strings.TrimSpace(delimiter) == "" {
		delimiter = ";"
	}

	tokens, err := NewSqlTokenizer(script).AllTokens()
	if err != nil {
		return nil, err
	}

	var (
		statements []Statement
		start      = 0
		firstLine  = 0
		meaningful = false
	)

	flush := func(end int) {
		if meaningful {
			statements = append(statements, Statement{
				Text: strings.TrimSpace(script[start:end]),
				Line: firstLine,
			})
		}

		meaningful = false
		firstLine = 0
	}

	for i, token := range tokens {
		switch {
		case token.Type == EOF:
			flush(token.Position.Offset)
		case delimiter == ";" && token.Type == SEMICOLON:
			flush(token.Position.Offset)
			start = token.Position.Offset + len(token.Value)
		case delimiter == "/" && token.Type == OPERATOR && token.Value == "/" && aloneOnLine(tokens, i):
			flush(token.Position.Offset)
			start = token.Position.Offset + len(token.Value)
		case token.Type == WHITESPACE || token.IsComment():
			// neither starts nor ends a statement
		default:
			if !meaningful {
				meaningful = true
				firstLine = token.Position.Line
			}
		}
	}

	return statements, nil
}

func aloneOnLine(tokens []Token, i int) bool {
	before := i == 0 ||
		(tokens[i-1].Type == WHITESPACE && (i == 1 || strings.Contains(tokens[i-1].Value, "\n")))

	after := tokens[i+1].Type == EOF ||
		(tokens[i+1].Type == WHITESPACE && (strings.Contains(tokens[i+1].Value, "\n") || tokens[i+2].Type == EOF))

	return before && after
}

// LeadingWord returns the first word of a statement after skipping whitespace
// and comments, together with the remaining text that follows it. ok is false
// when the statement does not start with a word.
func LeadingWord(statement string) (word string, rest string, ok bool) {
	for token, err := range NewSqlTokenizer(statement, TokenizerOptions{SkipWhitespace: true, SkipComments: true}).Tokens() {
		if err != nil || token.Type != WORD {
			return "", "", false
		}

		end := token.Position.Offset + len(token.Value)

		return token.Value, statement[end:], true
	}

	return "", "", false
}
