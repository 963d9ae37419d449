package metadata

import (
	"errors"

	"github.com/shibukawa/wbcommand"
)

// Connection errors
var (
	ErrEmptyDatabaseURL   = errors.New("database URL cannot be empty")
	ErrInvalidDatabaseURL = errors.New("invalid database URL")
	ErrConnectionFailed   = errors.New("failed to connect to database")
	// ErrUnsupportedDatabase is shared with the root package so callers can test either
	ErrUnsupportedDatabase = wbcommand.ErrUnsupportedDatabase
)

// Metadata errors
var (
	ErrObjectNotFound            = wbcommand.ErrObjectNotFound
	ErrSchemaNotFound            = errors.New("schema not found")
	ErrNotAView                  = errors.New("object is not a view")
	ErrUnsupportedIsolationLevel = errors.New("unsupported isolation level")
)
