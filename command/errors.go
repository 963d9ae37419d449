package command

import "errors"

// Error definitions
var (
	ErrUnrecognizedVerb    = errors.New("not a recognized command")
	ErrDuplicateVerb       = errors.New("command verb already registered")
	ErrMissingParameter    = errors.New("missing required parameter")
	ErrUnknownIsolation    = errors.New("unknown isolation level")
	ErrCommandPanic        = errors.New("command failed unexpectedly")
	ErrStatementFailed     = errors.New("statement execution failed")
	ErrInvalidOutputFormat = errors.New("invalid output format")
)
