package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/wbcommand/command"
)

// printer writes results to the terminal
type printer struct {
	out       io.Writer
	errOut    io.Writer
	formatter *command.Formatter
	verbose   bool
	quiet     bool
}

func newPrinter(appCtx *Context, format string, out io.Writer) (*printer, error) {
	if !command.IsValidOutputFormat(format) {
		return nil, fmt.Errorf("%w: %s", command.ErrInvalidOutputFormat, format)
	}

	return &printer{
		out:       out,
		errOut:    os.Stderr,
		formatter: command.NewFormatter(command.OutputFormat(strings.ToLower(format))),
		verbose:   appCtx.Verbose,
		quiet:     appCtx.Quiet,
	}, nil
}

// print writes one result and reports whether it succeeded
func (p *printer) print(result *command.Result) (bool, error) {
	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed)
	info := color.New(color.FgBlue)

	if !result.Success {
		fail.Fprintf(p.errOut, "Error: %v\n", result.Err)
	} else if !p.quiet {
		if err := p.formatter.Format(result, p.out); err != nil {
			return false, err
		}
	}

	if !p.quiet {
		for _, warning := range result.Warnings {
			warn.Fprintf(p.errOut, "Warning: %s\n", warning)
		}
	}

	if p.verbose {
		label := result.Verb
		if label == "" {
			label = "statement"
		}

		info.Fprintf(p.errOut, "%s executed in %v\n", label, result.Elapsed)
	}

	return result.Success, nil
}

// printAll writes results and returns ErrStatementsFailed when any failed
func (p *printer) printAll(results []*command.Result) error {
	failed := 0

	for _, result := range results {
		ok, err := p.print(result)
		if err != nil {
			return err
		}

		if !ok {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrStatementsFailed, failed, len(results))
	}

	return nil
}
