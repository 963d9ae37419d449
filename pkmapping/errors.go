package pkmapping

import "errors"

// Sentinel errors
var (
	// ErrMappingIO is returned when a mapping file cannot be read or written.
	ErrMappingIO = errors.New("primary key mapping file I/O failed")
	// ErrEmptyIdentifier is returned when a mapping is defined without an object name.
	ErrEmptyIdentifier = errors.New("primary key mapping requires an object name")
	// ErrEmptyColumns is returned when a mapping is defined without columns.
	ErrEmptyColumns = errors.New("primary key mapping requires at least one column")
)
