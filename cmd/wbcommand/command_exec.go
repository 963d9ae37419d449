package main

import (
	"context"
	"os"
	"strings"
)

// ExecCmd represents the exec command
type ExecCmd struct {
	DatabaseFlags `embed:""`

	Statement []string `arg:"" passthrough:"" help:"Statement to execute; words are joined with blanks"`
	Format    string   `long:"format" help:"Output format (table, json, csv, yaml, markdown)" default:"table"`
}

// Run executes the exec command
func (cmd *ExecCmd) Run(appCtx *Context) error {
	p, err := newPrinter(appCtx, cmd.Format, os.Stdout)
	if err != nil {
		return err
	}

	ctx := context.Background()

	s, err := openSession(ctx, appCtx, cmd.DatabaseFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	result, runErr := s.runner.Run(ctx, strings.Join(cmd.Statement, " "))

	if err := p.printAll(resultsOf(result)); err != nil {
		return err
	}

	return runErr
}
