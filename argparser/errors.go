package argparser

import "errors"

// Sentinel errors
var (
	// ErrUnterminatedQuote is returned when a quote opened in the argument text is never closed.
	ErrUnterminatedQuote = errors.New("unterminated quote in argument")
	// ErrMissingMappingSeparator is returned when a mapping entry has no "/" between key and value.
	ErrMissingMappingSeparator = errors.New("mapping entry requires key/value separated by '/'")
	// ErrEmptyMappingKey is returned when a mapping entry has nothing in front of the "/".
	ErrEmptyMappingKey = errors.New("mapping entry has an empty key")
	// ErrUnknownParameter is returned when a parameter was supplied that is not registered.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrInvalidValue is returned when a value cannot be converted to the registered kind.
	ErrInvalidValue = errors.New("invalid parameter value")
)
