package argparser

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ArgumentKind declares how the value of a parameter is interpreted
type ArgumentKind int

const (
	KindString ArgumentKind = iota
	KindBoolean
	KindInteger
	KindList
	KindMapping
)

// String returns the name of the kind
func (k ArgumentKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// ArgumentParser turns the text following a command verb into named and
// positional parameters. Parameter names must be registered with AddArgument
// before Parse is called; names are case-insensitive.
type ArgumentParser struct {
	kinds map[string]ArgumentKind
	names []string
}

// NewArgumentParser creates a parser without registered parameters
func NewArgumentParser() *ArgumentParser {
	return &ArgumentParser{kinds: make(map[string]ArgumentKind)}
}

// AddArgument registers a parameter name. The kind defaults to KindString.
func (p *ArgumentParser) AddArgument(name string, kind ...ArgumentKind) *ArgumentParser {
	k := KindString
	if len(kind) > 0 {
		k = kind[0]
	}

	lower := strings.ToLower(strings.TrimPrefix(name, "-"))
	if _, exists := p.kinds[lower]; !exists {
		p.names = append(p.names, name)
	}

	p.kinds[lower] = k

	return p
}

// IsRegistered reports whether a parameter name was registered
func (p *ArgumentParser) IsRegistered(name string) bool {
	_, ok := p.kinds[strings.ToLower(name)]
	return ok
}

// Kind returns the registered kind of a parameter
func (p *ArgumentParser) Kind(name string) (ArgumentKind, bool) {
	k, ok := p.kinds[strings.ToLower(name)]
	return k, ok
}

// Names returns the registered names in registration order
func (p *ArgumentParser) Names() []string {
	return append([]string(nil), p.names...)
}

// Parse parses text into Arguments. Parsing never fails outright: syntax
// problems and unknown parameter names are collected and reported by
// Arguments.Err.
func (p *ArgumentParser) Parse(text string) *Arguments {
	args := &Arguments{
		values:   make(map[string]string),
		raw:      make(map[string]string),
		mappings: make(map[string]*Mapping),
	}

	words, err := splitWords(text)
	if err != nil {
		args.errs = append(args.errs, err)
		return args
	}

	for _, word := range words {
		if !isParameter(word) {
			args.nonArguments = append(args.nonArguments, Unquote(word))
			args.rawNonArguments = append(args.rawNonArguments, word)

			continue
		}

		name, value, hasValue := strings.Cut(word[1:], "=")
		lower := strings.ToLower(name)

		kind, known := p.kinds[lower]
		if !known {
			args.unknown = append(args.unknown, name)
			args.errs = append(args.errs, fmt.Errorf("%w: -%s", ErrUnknownParameter, name))

			continue
		}

		if !hasValue && kind == KindBoolean {
			value = "true"
		}

		if _, seen := args.values[lower]; !seen {
			args.order = append(args.order, lower)
		}

		args.raw[lower] = value

		switch kind {
		case KindMapping:
			args.values[lower] = Unquote(value)

			mapping, err := ParseMapping(Unquote(value))
			if err != nil {
				args.errs = append(args.errs, fmt.Errorf("-%s: %w", name, err))
				continue
			}

			args.mappings[lower] = mapping
		case KindBoolean:
			args.values[lower] = Unquote(value)

			if _, err := parseBool(args.values[lower]); err != nil {
				args.errs = append(args.errs, fmt.Errorf("-%s: %w", name, err))
			}
		case KindInteger:
			args.values[lower] = Unquote(value)

			if _, err := strconv.Atoi(strings.TrimSpace(args.values[lower])); err != nil {
				args.errs = append(args.errs, fmt.Errorf("%w: -%s=%s is not a number", ErrInvalidValue, name, args.values[lower]))
			}
		default:
			args.values[lower] = Unquote(value)
		}
	}

	return args
}

// isParameter reports whether a word has the form -name or -name=value
func isParameter(word string) bool {
	return len(word) > 1 && word[0] == '-' && (unicode.IsLetter(rune(word[1])) || word[1] == '_')
}

// splitWords splits text at whitespace outside single or double quotes
func splitWords(text string) ([]string, error) {
	var (
		words   []string
		current strings.Builder
		quote   rune
		inWord  bool
	)

	for _, r := range text {
		switch {
		case quote != 0:
			current.WriteRune(r)

			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			current.WriteRune(r)

			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, current.String())
				current.Reset()

				inWord = false
			}
		default:
			current.WriteRune(r)

			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnterminatedQuote, strings.TrimSpace(text))
	}

	if inWord {
		words = append(words, current.String())
	}

	return words, nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "on", "1", "":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, value)
	}
}

// Arguments is the result of a single Parse call
type Arguments struct {
	values          map[string]string
	raw             map[string]string
	mappings        map[string]*Mapping
	order           []string
	nonArguments    []string
	rawNonArguments []string
	unknown         []string
	errs            []error
}

// Has reports whether the parameter was supplied
func (a *Arguments) Has(name string) bool {
	_, ok := a.values[strings.ToLower(name)]
	return ok
}

// Value returns the unquoted value of a parameter or "" if it was not supplied
func (a *Arguments) Value(name string) string {
	return a.values[strings.ToLower(name)]
}

// RawValue returns the value of a parameter as written, quotes included
func (a *Arguments) RawValue(name string) string {
	return a.raw[strings.ToLower(name)]
}

// ValueOrDefault returns the value of a parameter or def if it was not supplied or empty
func (a *Arguments) ValueOrDefault(name, def string) string {
	if v := strings.TrimSpace(a.Value(name)); v != "" {
		return v
	}

	return def
}

// Bool returns a boolean parameter, def when it was not supplied or is invalid
func (a *Arguments) Bool(name string, def bool) bool {
	if !a.Has(name) {
		return def
	}

	b, err := parseBool(a.Value(name))
	if err != nil {
		return def
	}

	return b
}

// Int returns an integer parameter, def when it was not supplied or is invalid
func (a *Arguments) Int(name string, def int) int {
	if !a.Has(name) {
		return def
	}

	i, err := strconv.Atoi(strings.TrimSpace(a.Value(name)))
	if err != nil {
		return def
	}

	return i
}

// List splits a parameter value at commas outside quotes. Elements are trimmed
// and unquoted; empty elements are dropped.
func (a *Arguments) List(name string) []string {
	if !a.Has(name) {
		return nil
	}

	parts, err := splitOutsideQuotes(a.Value(name), ',')
	if err != nil {
		return nil
	}

	var result []string

	for _, part := range parts {
		part = Unquote(strings.TrimSpace(part))
		if part != "" {
			result = append(result, part)
		}
	}

	return result
}

// Mapping returns the parsed mapping of a mapping parameter
func (a *Arguments) Mapping(name string) (*Mapping, bool) {
	m, ok := a.mappings[strings.ToLower(name)]
	return m, ok
}

// Names returns the names of the supplied parameters (lower case) in input order
func (a *Arguments) Names() []string {
	return append([]string(nil), a.order...)
}

// NonArguments returns the words that are not -name parameters
func (a *Arguments) NonArguments() []string {
	return append([]string(nil), a.nonArguments...)
}

// RawNonArguments returns the words that are not -name parameters as written,
// quotes included
func (a *Arguments) RawNonArguments() []string {
	return append([]string(nil), a.rawNonArguments...)
}

// UnknownParameters returns the names of supplied parameters that are not registered
func (a *Arguments) UnknownParameters() []string {
	unknown := append([]string(nil), a.unknown...)
	sort.Strings(unknown)

	return unknown
}

// HasErrors reports whether the parse produced any error
func (a *Arguments) HasErrors() bool {
	return len(a.errs) > 0
}

// Err returns all parse errors joined, or nil
func (a *Arguments) Err() error {
	return errors.Join(a.errs...)
}
