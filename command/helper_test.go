package command

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/metadata"
	"github.com/shibukawa/wbcommand/tokenizer"
)

const fixture = `
CREATE TABLE foo (id integer not null primary key);
CREATE TABLE src (id integer primary key, name text, extra text);
CREATE TABLE tgt (id integer, name text);
INSERT INTO src VALUES (1, 'one', 'x');
INSERT INTO src VALUES (2, 'two', 'y');
INSERT INTO src VALUES (3, 'three', NULL);
CREATE VIEW v_foo AS select id, id*42 as id2 from foo;
`

func openSQLite(t *testing.T) *metadata.Connection {
	t.Helper()

	ctx := t.Context()

	conn, err := metadata.NewConnector().Open(ctx, wbcommand.Database{Connection: "sqlite::memory:"})
	require.NoError(t, err)

	t.Cleanup(func() { conn.Close() })

	statements, err := tokenizer.SplitStatements(fixture, ";")
	require.NoError(t, err)

	for _, stmt := range statements {
		_, err := conn.ExecContext(ctx, stmt.Text)
		require.NoError(t, err, stmt.Text)
	}

	return conn
}

func countRows(t *testing.T, conn *metadata.Connection, table string) int {
	t.Helper()

	var count int
	require.NoError(t, conn.QueryRowContext(t.Context(), "SELECT count(*) FROM "+table).Scan(&count))

	return count
}
