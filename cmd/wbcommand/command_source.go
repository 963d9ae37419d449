package main

import (
	"context"
	"os"
	"strings"

	"github.com/shibukawa/wbcommand/command"
)

// SourceCmd groups the DDL source commands
type SourceCmd struct {
	Table SourceTableCmd `cmd:"" help:"Show CREATE TABLE statements"`
	View  SourceViewCmd  `cmd:"" help:"Show CREATE VIEW statements"`
}

// SourceTableCmd represents the source table command
type SourceTableCmd struct {
	DatabaseFlags `embed:""`

	Names              []string `arg:"" help:"Table names, optionally schema qualified"`
	ExcludeIndexes     bool     `long:"exclude-indexes" help:"Leave out CREATE INDEX statements"`
	ExcludeForeignKeys bool     `long:"exclude-foreign-keys" help:"Leave out foreign key constraints"`
}

// Run executes the source table command
func (cmd *SourceTableCmd) Run(appCtx *Context) error {
	args := quoteNames(cmd.Names)
	if cmd.ExcludeIndexes {
		args = "-excludeIndexes " + args
	}

	if cmd.ExcludeForeignKeys {
		args = "-excludeForeignKeys " + args
	}

	return runVerb(appCtx, cmd.DatabaseFlags, "wbtablesource", args)
}

// SourceViewCmd represents the source view command
type SourceViewCmd struct {
	DatabaseFlags `embed:""`

	Names []string `arg:"" help:"View names, optionally schema qualified"`
}

// Run executes the source view command
func (cmd *SourceViewCmd) Run(appCtx *Context) error {
	return runVerb(appCtx, cmd.DatabaseFlags, "wbviewsource", quoteNames(cmd.Names))
}

// runVerb executes one built-in command and prints its output as plain text
func runVerb(appCtx *Context, flags DatabaseFlags, verb, args string) error {
	p, err := newPrinter(appCtx, string(command.FormatTable), os.Stdout)
	if err != nil {
		return err
	}

	ctx := context.Background()

	s, err := openSession(ctx, appCtx, flags)
	if err != nil {
		return err
	}
	defer s.Close()

	result, runErr := s.runner.Execute(ctx, verb+" "+args)

	if err := p.printAll(resultsOf(result)); err != nil {
		return err
	}

	return runErr
}

// quoteNames protects names containing blanks from being split again
func quoteNames(names []string) string {
	quoted := make([]string, len(names))

	for i, name := range names {
		if strings.ContainsAny(name, " \t") && !strings.ContainsAny(name, `'`) {
			name = "'" + name + "'"
		}

		quoted[i] = name
	}

	return strings.Join(quoted, " ")
}

func resultsOf(result *command.Result) []*command.Result {
	if result == nil {
		return nil
	}

	return []*command.Result{result}
}
