package wbcommand

import "errors"

// Common errors used throughout the wbcommand packages
var (
	// ErrObjectNotFound indicates a table or view could not be resolved through the database metadata.
	ErrObjectNotFound = errors.New("database object not found")
	// ErrMetadataUnavailable indicates the database did not expose the metadata required for an operation.
	ErrMetadataUnavailable = errors.New("database metadata not available")
	// ErrUnsupportedDatabase indicates the driver or URL scheme is not supported.
	ErrUnsupportedDatabase = errors.New("unsupported database type")
	// ErrConnectionLost indicates the underlying connection can no longer be used.
	ErrConnectionLost = errors.New("database connection lost")
)
