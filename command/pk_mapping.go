package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shibukawa/wbcommand/argparser"
	"github.com/shibukawa/wbcommand/metadata"
	"github.com/shibukawa/wbcommand/pkmapping"
)

// DefinePk implements wbdefinepk <identifier>=<col,col,...>. It only changes
// the mapping store. An empty column list is a failure.
type DefinePk struct {
	store *pkmapping.Store
}

// NewDefinePk creates the command working on store
func NewDefinePk(store *pkmapping.Store) *DefinePk {
	return &DefinePk{store: store}
}

func (c *DefinePk) Verb() string { return "wbdefinepk" }

func (c *DefinePk) Usage() string {
	return "wbdefinepk <table or view>=<column>[,<column>...]"
}

func (c *DefinePk) Execute(ctx context.Context, conn *metadata.Connection, args string) *Result {
	identifier, columns, found := strings.Cut(strings.TrimSpace(args), "=")
	if !found {
		return Failure(fmt.Errorf("%w: expected %s", ErrMissingParameter, c.Usage()))
	}

	identifier = argparser.Unquote(strings.TrimSpace(identifier))
	if identifier == "" {
		return Failure(pkmapping.ErrEmptyIdentifier)
	}

	if err := c.store.AddMapping(identifier, columns); err != nil {
		return Failure(fmt.Errorf("%s: %w", identifier, err))
	}

	result := NewResult()
	mapped, _ := c.store.Columns(identifier)
	result.AddMessage("Primary key for %s defined as: %s", identifier, mapped)

	return result
}

// SavePkMapping implements wbsavepkmapping -file=<path>
type SavePkMapping struct {
	store       *pkmapping.Store
	defaultFile string
	parser      *argparser.ArgumentParser
}

// NewSavePkMapping creates the command. defaultFile is used when -file is not given.
func NewSavePkMapping(store *pkmapping.Store, defaultFile string) *SavePkMapping {
	return &SavePkMapping{
		store:       store,
		defaultFile: defaultFile,
		parser:      argparser.NewArgumentParser().AddArgument("file"),
	}
}

func (c *SavePkMapping) Verb() string { return "wbsavepkmapping" }

func (c *SavePkMapping) Usage() string { return "wbsavepkmapping -file=<path>" }

func (c *SavePkMapping) Execute(ctx context.Context, conn *metadata.Connection, args string) *Result {
	path, err := fileArgument(c.parser, args, c.defaultFile)
	if err != nil {
		return Failure(err)
	}

	if err := c.store.Save(path); err != nil {
		return Failure(err)
	}

	result := NewResult()
	result.AddMessage("Primary key mapping saved to %s (%d entries)", path, c.store.Len())

	return result
}

// LoadPkMapping implements wbloadpkmapping -file=<path>. Loading replaces the
// current content of the store; a file that fails to load changes nothing.
type LoadPkMapping struct {
	store       *pkmapping.Store
	defaultFile string
	parser      *argparser.ArgumentParser
}

// NewLoadPkMapping creates the command. defaultFile is used when -file is not given.
func NewLoadPkMapping(store *pkmapping.Store, defaultFile string) *LoadPkMapping {
	return &LoadPkMapping{
		store:       store,
		defaultFile: defaultFile,
		parser:      argparser.NewArgumentParser().AddArgument("file"),
	}
}

func (c *LoadPkMapping) Verb() string { return "wbloadpkmapping" }

func (c *LoadPkMapping) Usage() string { return "wbloadpkmapping -file=<path>" }

func (c *LoadPkMapping) Execute(ctx context.Context, conn *metadata.Connection, args string) *Result {
	path, err := fileArgument(c.parser, args, c.defaultFile)
	if err != nil {
		return Failure(err)
	}

	if err := c.store.Reload(path); err != nil {
		return Failure(err)
	}

	result := NewResult()
	result.AddMessage("Primary key mapping loaded from %s (%d entries)", path, c.store.Len())

	return result
}

// ListPkDef implements wblistpkdef
type ListPkDef struct {
	store *pkmapping.Store
}

// NewListPkDef creates the command
func NewListPkDef(store *pkmapping.Store) *ListPkDef {
	return &ListPkDef{store: store}
}

func (c *ListPkDef) Verb() string { return "wblistpkdef" }

func (c *ListPkDef) Execute(ctx context.Context, conn *metadata.Connection, args string) *Result {
	result := NewResult()

	entries := c.store.GetMapping()
	if len(entries) == 0 {
		result.AddMessage("No primary key mapping defined")
		return result
	}

	for _, entry := range entries {
		result.AddMessage("%s=%s", entry.Identifier, entry.Columns)
	}

	return result
}

// fileArgument returns -file, the first positional word or def
func fileArgument(parser *argparser.ArgumentParser, args, def string) (string, error) {
	parsed := parser.Parse(args)
	if err := parsed.Err(); err != nil {
		return "", err
	}

	path := parsed.Value("file")
	if path == "" && len(parsed.NonArguments()) > 0 {
		path = parsed.NonArguments()[0]
	}

	if path == "" {
		path = def
	}

	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: -file", ErrMissingParameter)
	}

	return path, nil
}
