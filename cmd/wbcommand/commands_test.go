package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/wbcommand"
)

func TestSelectDatabase(t *testing.T) {
	config := &wbcommand.Config{
		DefaultEnvironment: "development",
		Databases: map[string]wbcommand.Database{
			"development": {Driver: "sqlite3", Connection: "dev.db"},
			"test":        {Driver: "postgres", Connection: "postgres://localhost/test", Schema: "app"},
		},
	}

	db, err := selectDatabase(config, "", DatabaseFlags{})
	assert.NoError(t, err)
	assert.Equal(t, "dev.db", db.Connection)

	db, err = selectDatabase(config, "test", DatabaseFlags{Schema: "other"})
	assert.NoError(t, err)
	assert.Equal(t, wbcommand.Database{Driver: "postgres", Connection: "postgres://localhost/test", Schema: "other"}, db)

	db, err = selectDatabase(config, "missing", DatabaseFlags{DB: "sqlite::memory:"})
	assert.NoError(t, err)
	assert.Equal(t, "sqlite::memory:", db.Connection)

	_, err = selectDatabase(config, "missing", DatabaseFlags{})
	assert.IsError(t, err, ErrEnvironmentNotFound)

	_, err = selectDatabase(&wbcommand.Config{}, "", DatabaseFlags{})
	assert.IsError(t, err, ErrNoDatabase)
}

func TestQuoteNames(t *testing.T) {
	assert.Equal(t, "foo public.bar 'My Table'", quoteNames([]string{"foo", "public.bar", "My Table"}))
}

func TestCLIParse(t *testing.T) {
	var cli = CLI

	parser, err := kong.New(&cli)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"exec", "--db", "sqlite::memory:", "wbcopy", "-sourceTable=a", "-targetTable=b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"wbcopy", "-sourceTable=a", "-targetTable=b"}, cli.Exec.Statement)
	assert.Equal(t, "sqlite::memory:", cli.Exec.DB)

	_, err = parser.Parse([]string{"source", "table", "--exclude-indexes", "foo", "bar"})
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, cli.Source.Table.Names)
	assert.True(t, cli.Source.Table.ExcludeIndexes)
}

func TestRunScriptFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	scriptPath := filepath.Join(dir, "script.sql")

	require.NoError(t, os.WriteFile(scriptPath, []byte(`
create table foo (id integer not null primary key);
insert into foo values (1);
wbdefinepk foo=id;
wbtablesource foo;
`), 0o644))

	appCtx := &Context{Config: filepath.Join(dir, "wbcommand.yaml"), Quiet: true}

	cmd := &RunCmd{
		DatabaseFlags: DatabaseFlags{DB: "sqlite://" + dbPath},
		File:          scriptPath,
		Format:        "table",
	}
	assert.NoError(t, cmd.Run(appCtx))

	failing := &ExecCmd{
		DatabaseFlags: DatabaseFlags{DB: "sqlite://" + dbPath},
		Statement:     []string{"wbisolationlevel", "bogus"},
		Format:        "table",
	}
	assert.IsError(t, failing.Run(appCtx), ErrStatementsFailed)

	source := &SourceTableCmd{
		DatabaseFlags: DatabaseFlags{DB: "sqlite://" + dbPath},
		Names:         []string{"foo"},
	}
	assert.NoError(t, source.Run(appCtx))
}

func TestRunInvalidFormat(t *testing.T) {
	cmd := &RunCmd{File: "-", Format: "xml"}

	_, err := newPrinter(&Context{}, cmd.Format, os.Stdout)
	assert.Error(t, err)
}
