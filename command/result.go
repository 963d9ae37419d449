package command

import (
	"fmt"
	"strings"
	"time"
)

// Result is the outcome of one statement. Messages hold human readable text
// such as generated DDL; Columns and Rows are set for plain queries.
type Result struct {
	Verb        string        `json:"verb,omitempty"`
	ExecutionID string        `json:"execution_id"`
	Success     bool          `json:"success"`
	Messages    []string      `json:"messages"`
	Warnings    []string      `json:"warnings,omitempty"`
	Err         error         `json:"-"`
	Elapsed     time.Duration `json:"elapsed"`

	Columns      []string `json:"columns,omitempty"`
	Rows         [][]any  `json:"rows,omitempty"`
	RowsAffected int64    `json:"rows_affected"`
}

// NewResult creates a successful result without messages
func NewResult() *Result {
	return &Result{Success: true}
}

// Failure creates a failed result carrying err
func Failure(err error) *Result {
	r := NewResult()
	r.Fail(err)

	return r
}

// AddMessage appends a formatted message
func (r *Result) AddMessage(format string, args ...any) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// AddWarning appends a formatted warning
func (r *Result) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Fail marks the result as failed and records err as its last message
func (r *Result) Fail(err error) {
	r.Success = false
	r.Err = err

	if err != nil {
		r.Messages = append(r.Messages, err.Error())
	}
}

// Message returns all messages joined with newlines
func (r *Result) Message() string {
	return strings.Join(r.Messages, "\n")
}
