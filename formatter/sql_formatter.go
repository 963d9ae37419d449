// Package formatter renders SQL text read from database metadata in one
// canonical, engine independent shape.
package formatter

import (
	"fmt"
	"strings"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/tokenizer"
)

// ViewQueryFormatter re-formats the query of a view definition. Keywords are
// upper case, identifiers follow RenderIdentifier, binary operators get single
// spaces, and the top-level clauses start on their own line.
type ViewQueryFormatter struct {
	indentSize     int
	identifierCase wbcommand.IdentifierCase
	quoteChar      string
}

// NewViewQueryFormatter creates a formatter for an engine's identifier rules
func NewViewQueryFormatter(identifierCase wbcommand.IdentifierCase, quoteChar string) *ViewQueryFormatter {
	return &ViewQueryFormatter{
		indentSize:     2,
		identifierCase: identifierCase,
		quoteChar:      quoteChar,
	}
}

// WithIndent sets the indentation of select list items
func (f *ViewQueryFormatter) WithIndent(size int) *ViewQueryFormatter {
	f.indentSize = size
	return f
}

// Format formats a query. A trailing semicolon is dropped.
func (f *ViewQueryFormatter) Format(query string) (string, error) {
	tokens, err := tokenizer.NewSqlTokenizer(query, tokenizer.TokenizerOptions{SkipWhitespace: true}).AllTokens()
	if err != nil {
		return "", fmt.Errorf("failed to tokenize view query: %w", err)
	}

	// drop EOF and trailing semicolons
	end := len(tokens)
	for end > 0 && (tokens[end-1].Type == tokenizer.EOF || tokens[end-1].Type == tokenizer.SEMICOLON) {
		end--
	}

	w := &queryWriter{indent: strings.Repeat(" ", f.indentSize)}

	for i := range end {
		f.formatToken(w, tokens[i])
	}

	return w.String(), nil
}

// clauseKeywords start a new line at the top level
var clauseKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "GROUP": true, "HAVING": true,
	"ORDER": true, "LIMIT": true, "OFFSET": true, "UNION": true, "INTERSECT": true,
	"EXCEPT": true, "WITH": true, "WINDOW": true,
	"JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true, "FULL": true, "CROSS": true, "NATURAL": true,
}

// joinContinuation words do not start a new line when they follow a join keyword
var joinContinuation = map[string]bool{
	"JOIN": true, "OUTER": true, "INNER": true,
}

type queryWriter struct {
	strings.Builder
	indent string

	depth        int
	inSelectList bool
	prev         tokenizer.Token
	prevValue    string
	noSpace      bool // the next token attaches to the previous one
	pendingBreak bool // a line comment ended the current line
	selectItem   bool // the next token is the first select list item
}

func (w *queryWriter) newline(indent bool) {
	if w.Len() > 0 {
		w.WriteString("\n")
	}

	if indent {
		w.WriteString(w.indent)
	}

	w.noSpace = true
	w.pendingBreak = false
}

func (w *queryWriter) write(value string, spaceBefore bool) {
	if w.pendingBreak {
		w.newline(w.inSelectList && w.depth == 0)
	}

	if spaceBefore && !w.noSpace && w.Len() > 0 {
		w.WriteString(" ")
	}

	w.WriteString(value)
	w.noSpace = false
}

func (f *ViewQueryFormatter) formatToken(w *queryWriter, token tokenizer.Token) {
	value := f.render(token)
	upper := strings.ToUpper(token.Value)

	defer func() {
		w.prev = token
		w.prevValue = value
	}()

	if w.selectItem {
		w.selectItem = false

		if token.Type == tokenizer.WORD && (upper == "DISTINCT" || upper == "ALL") {
			w.write(value, true)
			w.selectItem = true

			return
		}

		w.newline(true)
	}

	switch token.Type {
	case tokenizer.LINE_COMMENT:
		w.write(strings.TrimRight(token.Value, "\r\n"), true)
		w.pendingBreak = true

	case tokenizer.BLOCK_COMMENT:
		w.write(token.Value, true)

	case tokenizer.WORD:
		if w.depth == 0 && clauseKeywords[upper] && !w.continuesJoin(upper) {
			w.newline(false)
			w.write(value, false)

			w.inSelectList = upper == "SELECT"
			w.selectItem = upper == "SELECT"

			return
		}

		if w.depth == 0 && upper == "ON" {
			w.newline(true)
			w.write(value, false)

			return
		}

		w.write(value, true)

	case tokenizer.COMMA:
		w.write(",", false)

		if w.depth == 0 && w.inSelectList {
			w.newline(true)
		}

	case tokenizer.OPENED_PARENS:
		w.write("(", !w.isFunctionName())
		w.noSpace = true
		w.depth++

	case tokenizer.CLOSED_PARENS:
		w.write(")", false)

		if w.depth > 0 {
			w.depth--
		}

	case tokenizer.DOT:
		w.write(".", false)
		w.noSpace = true

	case tokenizer.OPERATOR:
		switch {
		case token.Value == "::":
			w.write("::", false)
			w.noSpace = true
		case token.Value == "*" && w.isOperandStart():
			// wildcard
			w.write("*", true)
		case (token.Value == "-" || token.Value == "+") && w.isOperandStart():
			// unary sign
			w.write(token.Value, true)
			w.noSpace = true
		default:
			w.write(token.Value, true)
		}

	default:
		w.write(value, true)
	}
}

// continuesJoin reports whether a join keyword continues a join started by the previous word
func (w *queryWriter) continuesJoin(upper string) bool {
	if !joinContinuation[upper] || w.prev.Type != tokenizer.WORD {
		return false
	}

	switch strings.ToUpper(w.prev.Value) {
	case "LEFT", "RIGHT", "FULL", "CROSS", "NATURAL", "INNER", "OUTER":
		return true
	}

	return false
}

// isOperandStart reports whether the next token starts an operand rather than following one
func (w *queryWriter) isOperandStart() bool {
	if w.Len() == 0 {
		return true
	}

	switch w.prev.Type {
	case tokenizer.OPENED_PARENS, tokenizer.COMMA, tokenizer.OPERATOR, tokenizer.DOT:
		return true
	case tokenizer.WORD:
		return tokenizer.IsReserved(w.prev.Value)
	default:
		return false
	}
}

// isFunctionName reports whether the previous token names a function being called
func (w *queryWriter) isFunctionName() bool {
	switch w.prev.Type {
	case tokenizer.WORD:
		return !tokenizer.IsReserved(w.prev.Value)
	case tokenizer.QUOTED_IDENTIFIER:
		return true
	default:
		return false
	}
}

func (f *ViewQueryFormatter) render(token tokenizer.Token) string {
	switch token.Type {
	case tokenizer.WORD:
		if tokenizer.IsKeyword(token.Value) || f.identifierCase != wbcommand.IdentifiersMixedSensitive {
			return strings.ToUpper(token.Value)
		}

		return token.Value
	case tokenizer.QUOTED_IDENTIFIER:
		return RenderIdentifier(unquote(token.Value), f.identifierCase, f.quoteChar)
	default:
		return token.Value
	}
}
