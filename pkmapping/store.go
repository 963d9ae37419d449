// Package pkmapping keeps substitute primary key definitions for tables and
// views that do not declare one, and persists them in a flat key=value file.
package pkmapping

import (
	"strings"
	"sync"
)

// Entry is one mapping of an object name to its key columns
type Entry struct {
	Identifier string
	Columns    string // comma separated column list
}

// ColumnList returns the mapped columns as a slice
func (e Entry) ColumnList() []string {
	return SplitColumns(e.Columns)
}

// Store holds primary key mappings in insertion order. Identifiers are compared
// case-insensitively; the stored spelling is the one of the latest AddMapping.
// A Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	entries  []Entry
	index    map[string]int
	filename string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// AddMapping inserts or replaces the mapping for identifier. The column list
// is normalised to "col1,col2" without surrounding blanks.
func (s *Store) AddMapping(identifier, columns string) error {
	entry, err := NewEntry(identifier, columns)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(entry)

	return nil
}

// NewEntry validates and normalises one mapping
func NewEntry(identifier, columns string) (Entry, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Entry{}, ErrEmptyIdentifier
	}

	normalized := strings.Join(SplitColumns(columns), ",")
	if normalized == "" {
		return Entry{}, ErrEmptyColumns
	}

	return Entry{Identifier: identifier, Columns: normalized}, nil
}

// Merge adds entries, replacing mappings of the same identifiers, in one step
func (s *Store) Merge(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.put(e)
	}
}

// Replace swaps the whole content of the store for entries in one step
func (s *Store) Replace(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.index = make(map[string]int, len(entries))

	for _, e := range entries {
		s.put(e)
	}
}

// put inserts or replaces e; the caller holds the write lock
func (s *Store) put(e Entry) {
	key := strings.ToLower(e.Identifier)
	if i, ok := s.index[key]; ok {
		s.entries[i] = e
		return
	}

	s.index[key] = len(s.entries)
	s.entries = append(s.entries, e)
}

// RemoveMapping deletes the mapping for identifier and reports whether it existed
func (s *Store) RemoveMapping(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[strings.ToLower(strings.TrimSpace(identifier))]
	if !ok {
		return false
	}

	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.reindex()

	return true
}

// Columns returns the mapped column list for identifier
func (s *Store) Columns(identifier string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[strings.ToLower(strings.TrimSpace(identifier))]
	if !ok {
		return "", false
	}

	return s.entries[i].Columns, true
}

// GetMapping returns a snapshot of all entries in insertion order
func (s *Store) GetMapping() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Entry(nil), s.entries...)
}

// Map returns the entries as a map keyed by the stored identifier
func (s *Store) Map() map[string]string {
	entries := s.GetMapping()

	result := make(map[string]string, len(entries))
	for _, e := range entries {
		result[e.Identifier] = e.Columns
	}

	return result
}

// Len returns the number of mappings
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Clear removes all mappings
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.index = make(map[string]int)
}

// Filename returns the file the store was last loaded from or saved to
func (s *Store) Filename() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filename
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		s.index[strings.ToLower(e.Identifier)] = i
	}
}

// SplitColumns splits a comma separated column list, trimming blanks and
// dropping empty elements
func SplitColumns(columns string) []string {
	var result []string

	for _, col := range strings.Split(columns, ",") {
		if col = strings.TrimSpace(col); col != "" {
			result = append(result, col)
		}
	}

	return result
}
