package main

import "errors"

// Sentinel errors for command operations
var (
	ErrEnvironmentNotFound = errors.New("environment not found")
	ErrNoDatabase          = errors.New("no database connection configured")
	ErrStatementsFailed    = errors.New("one or more statements failed")
)
