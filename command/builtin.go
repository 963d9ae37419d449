package command

import (
	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/ddl"
	"github.com/shibukawa/wbcommand/metadata"
	"github.com/shibukawa/wbcommand/pkmapping"
)

// Builtins returns one instance of every built-in command. store is shared
// by the commands that use primary key mappings.
func Builtins(store *pkmapping.Store, config *wbcommand.Config) []Command {
	mappingFile := wbcommand.DefaultPkMappingFile
	options := ddl.Options{}

	if config != nil {
		if config.PkMappingFile != "" {
			mappingFile = config.PkMappingFile
		}

		options.ExcludeIndexes = config.Source.ExcludeIndexes
		options.ExcludeForeignKeys = config.Source.ExcludeForeignKeys
	}

	return []Command{
		NewCopy(),
		NewDefinePk(store),
		NewSavePkMapping(store, mappingFile),
		NewLoadPkMapping(store, mappingFile),
		NewListPkDef(store),
		NewSetIsolationLevel(),
		NewTableSource(store, options),
		NewViewSource(store),
	}
}

// NewDefaultRunner creates a runner on conn with all built-in commands
// registered and the script settings of config applied
func NewDefaultRunner(conn *metadata.Connection, store *pkmapping.Store, config *wbcommand.Config) *StatementRunner {
	runner := NewStatementRunner(conn)

	if config != nil {
		runner.WithContinueOnError(config.Script.ContinueOnError).WithDelimiter(config.Script.Delimiter)
	}

	return runner.MustRegister(Builtins(store, config)...)
}
