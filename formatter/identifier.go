package formatter

import (
	"regexp"
	"strings"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/tokenizer"
)

var plainIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RenderIdentifier renders a catalog name for generated SQL. A plain name
// stored in the engine's folded case (any case when the engine compares names
// case-insensitively) is written upper case without quotes; every other name
// is quoted with quote and keeps its case.
func RenderIdentifier(name string, identifierCase wbcommand.IdentifierCase, quote string) string {
	if plainIdentifier.MatchString(name) && !tokenizer.IsReserved(name) {
		switch identifierCase {
		case wbcommand.IdentifiersMixedInsensitive:
			return strings.ToUpper(name)
		case wbcommand.IdentifiersUpper, wbcommand.IdentifiersLower:
			if identifierCase.Fold(name) == name {
				return strings.ToUpper(name)
			}
		}
	}

	return Quote(name, quote)
}

// RenderQualified renders schema.name with RenderIdentifier. An empty schema is omitted.
func RenderQualified(schema, name string, identifierCase wbcommand.IdentifierCase, quote string) string {
	if schema == "" {
		return RenderIdentifier(name, identifierCase, quote)
	}

	return RenderIdentifier(schema, identifierCase, quote) + "." + RenderIdentifier(name, identifierCase, quote)
}

// Quote wraps name in quote characters, doubling embedded quotes
func Quote(name, quote string) string {
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

// unquote strips the delimiters of a quoted identifier token and undoubles embedded delimiters
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}

	delimiter := value[:1]

	return strings.ReplaceAll(value[1:len(value)-1], delimiter+delimiter, delimiter)
}
