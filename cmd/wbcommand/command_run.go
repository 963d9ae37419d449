package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// RunCmd represents the run command
type RunCmd struct {
	DatabaseFlags `embed:""`

	File            string `arg:"" help:"Script file, - reads standard input"`
	Format          string `long:"format" help:"Output format (table, json, csv, yaml, markdown)" default:"table"`
	ContinueOnError bool   `long:"continue-on-error" help:"Keep running after a failed statement"`
	Delimiter       string `long:"delimiter" help:"Statement delimiter (; or / alone on a line)"`
}

// Run executes the run command
func (cmd *RunCmd) Run(appCtx *Context) error {
	script, err := readScript(cmd.File)
	if err != nil {
		return err
	}

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

	if cmd.ContinueOnError {
		s.runner.WithContinueOnError(true)
	}

	s.runner.WithDelimiter(cmd.Delimiter)

	if appCtx.Verbose {
		color.New(color.FgBlue).Fprintf(os.Stderr, "Running %s\n", cmd.File)
	}

	results, runErr := s.runner.RunScript(ctx, script)

	if err := p.printAll(results); err != nil {
		return err
	}

	return runErr
}

func readScript(path string) (string, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}

	return string(data), nil
}
