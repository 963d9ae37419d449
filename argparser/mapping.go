package argparser

import (
	"fmt"
	"strings"
)

// MappingEntry is one key/value pair of a mapping parameter
type MappingEntry struct {
	Key   string
	Value string
}

// Mapping is the ordered result of parsing a mapping parameter such as
// -columns='id/"ID", name/"Name"'. Keys are looked up case-insensitively.
// A key that appears more than once keeps its first position and the last value.
type Mapping struct {
	entries []MappingEntry
	index   map[string]int
}

// NewMapping creates an empty mapping
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Put adds or replaces an entry
func (m *Mapping) Put(key, value string) {
	lower := strings.ToLower(key)
	if i, ok := m.index[lower]; ok {
		m.entries[i] = MappingEntry{Key: key, Value: value}
		return
	}

	m.index[lower] = len(m.entries)
	m.entries = append(m.entries, MappingEntry{Key: key, Value: value})
}

// Get returns the value mapped to key
func (m *Mapping) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}

	i, ok := m.index[strings.ToLower(key)]
	if !ok {
		return "", false
	}

	return m.entries[i].Value, true
}

// Keys returns the keys in order of first appearance
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}

	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}

	return keys
}

// Entries returns a copy of the entries in order of first appearance
func (m *Mapping) Entries() []MappingEntry {
	if m == nil {
		return nil
	}

	return append([]MappingEntry(nil), m.entries...)
}

// Len returns the number of distinct keys
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}

	return len(m.entries)
}

// ToMap returns the mapping as a plain map keyed by the stored key
func (m *Mapping) ToMap() map[string]string {
	result := make(map[string]string, m.Len())
	for _, e := range m.Entries() {
		result[e.Key] = e.Value
	}

	return result
}

// ParseMapping parses the mapping micro syntax: entries separated by commas
// outside quotes, each entry split at the first "/" outside quotes. The key is
// trimmed; the value is trimmed but otherwise kept verbatim, quotes included.
func ParseMapping(text string) (*Mapping, error) {
	segments, err := splitOutsideQuotes(text, ',')
	if err != nil {
		return nil, err
	}

	mapping := NewMapping()

	for _, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		pos, err := indexOutsideQuotes(segment, '/')
		if err != nil {
			return nil, err
		}

		if pos < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingMappingSeparator, strings.TrimSpace(segment))
		}

		key := strings.TrimSpace(segment[:pos])
		if key == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyMappingKey, strings.TrimSpace(segment))
		}

		mapping.Put(key, strings.TrimSpace(segment[pos+1:]))
	}

	return mapping, nil
}

// splitOutsideQuotes splits text at every separator that is not inside single or double quotes
func splitOutsideQuotes(text string, separator rune) ([]string, error) {
	var (
		parts []string
		start int
		quote rune
	)

	for i, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == separator:
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnterminatedQuote, text)
	}

	return append(parts, text[start:]), nil
}

// indexOutsideQuotes returns the byte offset of the first target outside quotes or -1
func indexOutsideQuotes(text string, target rune) (int, error) {
	var quote rune

	for i, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == target:
			return i, nil
		}
	}

	if quote != 0 {
		return -1, fmt.Errorf("%w: %s", ErrUnterminatedQuote, text)
	}

	return -1, nil
}

// Unquote removes one pair of matching enclosing quotes
func Unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '\'' || first == '"') && first == last {
			return value[1 : len(value)-1]
		}
	}

	return value
}
