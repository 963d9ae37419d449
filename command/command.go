// Package command implements the administrative statements (wbcopy,
// wbdefinepk, wbtablesource and friends) and the runner that dispatches
// script statements to them.
package command

import (
	"context"

	"github.com/shibukawa/wbcommand/metadata"
)

// Command is one statement verb. Execute receives the text following the
// verb, including its leading separator, and never panics out; failures are
// reported through the returned Result.
type Command interface {
	Verb() string
	Execute(ctx context.Context, conn *metadata.Connection, args string) *Result
}

// Describer is implemented by commands that can explain their usage
type Describer interface {
	Usage() string
}
