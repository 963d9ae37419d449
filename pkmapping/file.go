package pkmapping

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	"golang.org/x/text/encoding/charmap"
)

// FileHeader is the comment line written at the top of every mapping file
const FileHeader = "# Primary key mapping for SQL Workbench/J"

// Save writes all mappings to path: the header line followed by one
// identifier=columns line per entry in insertion order, ISO-8859-1 encoded.
// The content goes to a temporary file next to path which then replaces path,
// so a failed save never leaves a partial file behind.
func (s *Store) Save(path string) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}

	if err := writeFileAtomic(path, data); err != nil {
		return err
	}

	s.setFilename(path)

	return nil
}

// Encode renders the file content Save would write
func (s *Store) Encode() ([]byte, error) {
	var buf strings.Builder

	buf.WriteString(FileHeader)
	buf.WriteByte('\n')

	for _, e := range s.GetMapping() {
		buf.WriteString(escape(e.Identifier, true))
		buf.WriteByte('=')
		buf.WriteString(escape(e.Columns, false))
		buf.WriteByte('\n')
	}

	encoded, err := charmap.ISO8859_1.NewEncoder().String(buf.String())
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", ErrMappingIO, err)
	}

	return []byte(encoded), nil
}

// Load reads a mapping file and adds its entries to the store, replacing
// existing mappings of the same identifiers. A file with an invalid entry
// leaves the store unchanged.
func (s *Store) Load(path string) error {
	entries, err := ReadFile(path)
	if err != nil {
		return err
	}

	s.Merge(entries)
	s.setFilename(path)

	return nil
}

// Reload replaces the whole content of the store with the entries of a
// mapping file. A file that cannot be read or parsed leaves the store unchanged.
func (s *Store) Reload(path string) error {
	entries, err := ReadFile(path)
	if err != nil {
		return err
	}

	s.Replace(entries)
	s.setFilename(path)

	return nil
}

// Decode parses ISO-8859-1 encoded mapping file content into the store
func (s *Store) Decode(data []byte) error {
	entries, err := DecodeEntries(data)
	if err != nil {
		return err
	}

	s.Merge(entries)

	return nil
}

// ReadFile reads and validates all entries of a mapping file
func ReadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMappingIO, err)
	}

	entries, err := DecodeEntries(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return entries, nil
}

// DecodeEntries parses ISO-8859-1 encoded mapping file content. It fails on
// the first invalid entry and returns nothing in that case.
func DecodeEntries(data []byte) ([]Entry, error) {
	loader := &properties.Loader{
		Encoding:         properties.ISO_8859_1,
		DisableExpansion: true,
	}

	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMappingIO, err)
	}

	entries := make([]Entry, 0, props.Len())

	for _, key := range props.Keys() {
		value, _ := props.Get(key)

		entry, err := NewEntry(key, value)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %w", ErrMappingIO, key, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *Store) setFilename(path string) {
	s.mu.Lock()
	s.filename = path
	s.mu.Unlock()
}

// escape applies .properties escaping; runes outside Latin-1 become \uXXXX
func escape(text string, isKey bool) string {
	var b strings.Builder

	for i, r := range text {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\f':
			b.WriteString(`\f`)
		case isKey && strings.ContainsRune("=: #!", r):
			b.WriteByte('\\')
			b.WriteRune(r)
		case !isKey && i == 0 && (r == ' ' || r == '#' || r == '!'):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r > 0xff:
			if r > 0xffff {
				hi, lo := surrogates(r)
				fmt.Fprintf(&b, `\u%04X\u%04X`, hi, lo)
			} else {
				fmt.Fprintf(&b, `\u%04X`, r)
			}
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

func surrogates(r rune) (rune, rune) {
	r -= 0x10000
	return 0xd800 + (r>>10)&0x3ff, 0xdc00 + r&0x3ff
}

// writeFileAtomic writes data to a temp file in the directory of path and renames it to path
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMappingIO, err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = bytes.NewReader(data).WriteTo(tmp); err != nil {
		return fmt.Errorf("%w: %w", ErrMappingIO, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrMappingIO, err)
	}

	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrMappingIO, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrMappingIO, err)
	}

	return nil
}

// isNotExist reports whether err was caused by a missing file
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
