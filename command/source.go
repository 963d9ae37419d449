package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shibukawa/wbcommand/argparser"
	"github.com/shibukawa/wbcommand/ddl"
	"github.com/shibukawa/wbcommand/metadata"
	"github.com/shibukawa/wbcommand/pkmapping"
)

// TableSource implements wbtablesource <table> [<table>...]
type TableSource struct {
	store   *pkmapping.Store
	options ddl.Options
	parser  *argparser.ArgumentParser
}

// NewTableSource creates the command. options are the defaults that
// -excludeIndexes and -excludeForeignKeys override.
func NewTableSource(store *pkmapping.Store, options ddl.Options) *TableSource {
	return &TableSource{
		store:   store,
		options: options,
		parser: argparser.NewArgumentParser().
			AddArgument("excludeIndexes", argparser.KindBoolean).
			AddArgument("excludeForeignKeys", argparser.KindBoolean),
	}
}

func (c *TableSource) Verb() string { return "wbtablesource" }

func (c *TableSource) Usage() string {
	return "wbtablesource [-excludeIndexes] [-excludeForeignKeys] <table> [<table>...]"
}

func (c *TableSource) Execute(ctx context.Context, conn *metadata.Connection, args string) *Result {
	parsed := c.parser.Parse(args)
	if err := parsed.Err(); err != nil {
		return Failure(err)
	}

	names := objectArguments(parsed.RawNonArguments())
	if len(names) == 0 {
		return Failure(fmt.Errorf("%w: table name", ErrMissingParameter))
	}

	builder := ddl.NewTableSourceBuilder(conn, c.store).WithOptions(ddl.Options{
		ExcludeIndexes:     parsed.Bool("excludeIndexes", c.options.ExcludeIndexes),
		ExcludeForeignKeys: parsed.Bool("excludeForeignKeys", c.options.ExcludeForeignKeys),
	})

	return buildSources(names, func(name string) (string, error) {
		return builder.Build(ctx, name)
	})
}

// ViewSource implements wbviewsource <view> [<view>...]
type ViewSource struct {
	store  *pkmapping.Store
	parser *argparser.ArgumentParser
}

// NewViewSource creates the command
func NewViewSource(store *pkmapping.Store) *ViewSource {
	return &ViewSource{
		store:  store,
		parser: argparser.NewArgumentParser().AddArgument("indent", argparser.KindInteger),
	}
}

func (c *ViewSource) Verb() string { return "wbviewsource" }

func (c *ViewSource) Usage() string { return "wbviewsource [-indent=<n>] <view> [<view>...]" }

func (c *ViewSource) Execute(ctx context.Context, conn *metadata.Connection, args string) *Result {
	parsed := c.parser.Parse(args)
	if err := parsed.Err(); err != nil {
		return Failure(err)
	}

	names := objectArguments(parsed.RawNonArguments())
	if len(names) == 0 {
		return Failure(fmt.Errorf("%w: view name", ErrMissingParameter))
	}

	builder := ddl.NewViewSourceBuilder(conn, c.store).WithIndent(parsed.Int("indent", 0))

	return buildSources(names, func(name string) (string, error) {
		return builder.Build(ctx, name)
	})
}

func buildSources(names []string, build func(name string) (string, error)) *Result {
	result := NewResult()

	for _, name := range names {
		source, err := build(name)
		if err != nil {
			result.Fail(fmt.Errorf("%s: %w", name, err))
			return result
		}

		result.Messages = append(result.Messages, source)
	}

	return result
}

// objectArgument turns a name word as written into the text ParseObjectName
// expects. Identifier quotes are kept; a word wrapped in single quotes is unwrapped.
func objectArgument(word string) string {
	if strings.HasPrefix(word, "'") {
		return argparser.Unquote(word)
	}

	return word
}

func objectArguments(words []string) []string {
	names := make([]string, 0, len(words))
	for _, word := range words {
		names = append(names, objectArgument(word))
	}

	return names
}
