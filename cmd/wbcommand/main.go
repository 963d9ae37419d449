package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

const version = "v0.1.0"

// Context represents the global context for commands
type Context struct {
	Config    string
	Verbose   bool
	Quiet     bool
	Env       string
	LogFormat string
}

// CLI represents the command-line interface
var CLI struct {
	Config    string     `help:"Configuration file path" default:"wbcommand.yaml"`
	Verbose   bool       `help:"Enable verbose output" short:"v"`
	Quiet     bool       `help:"Suppress output" short:"q"`
	Env       string     `help:"Database environment to use from config"`
	LogFormat string     `help:"Log format (text, json)"`
	Run       RunCmd     `cmd:"" help:"Run a script file"`
	Exec      ExecCmd    `cmd:"" help:"Execute a single statement"`
	Source    SourceCmd  `cmd:"" help:"Show the DDL source of tables or views"`
	Version   VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("wbcommand " + version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("wbcommand"),
		kong.Description("Run SQL Workbench style administrative commands against a database"),
	)

	appCtx := &Context{
		Config:    CLI.Config,
		Verbose:   CLI.Verbose,
		Quiet:     CLI.Quiet,
		Env:       CLI.Env,
		LogFormat: CLI.LogFormat,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
