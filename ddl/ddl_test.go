package ddl

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/metadata"
	"github.com/shibukawa/wbcommand/pkmapping"
	"github.com/shibukawa/wbcommand/testhelper"
	"github.com/shibukawa/wbcommand/tokenizer"
)

const fixture = `
CREATE TABLE foo (id integer not null primary key);
CREATE TABLE dept (id integer primary key, code text not null);
CREATE TABLE person (
	id integer not null,
	name varchar(50) default 'x',
	dept_id integer references dept on delete cascade,
	constraint pk_person primary key (id),
	unique (name)
);
CREATE INDEX idx_person_dept ON person(dept_id);
CREATE TABLE nokey (a integer, b text);
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

func TestTableSourceSimple(t *testing.T) {
	conn := openSQLite(t)

	source, err := NewTableSourceBuilder(conn, nil).Build(t.Context(), "foo")
	assert.NoError(t, err)
	assert.Equal(t, testhelper.TrimIndent(t, `
		CREATE TABLE FOO
		(
		   ID   INTEGER   NOT NULL
		);

		ALTER TABLE FOO
		  ADD PRIMARY KEY (ID);
		`), source)
}

func TestTableSourceWithConstraints(t *testing.T) {
	conn := openSQLite(t)

	source, err := NewTableSourceBuilder(conn, nil).Build(t.Context(), "Person")
	assert.NoError(t, err)
	assert.Equal(t, testhelper.TrimIndent(t, `
		CREATE TABLE PERSON
		(
		   ID        INTEGER       NOT NULL,
		   NAME      VARCHAR(50)   DEFAULT 'x',
		   DEPT_ID   INTEGER
		);

		ALTER TABLE PERSON
		  ADD PRIMARY KEY (ID);

		ALTER TABLE PERSON
		  ADD UNIQUE (NAME);

		ALTER TABLE PERSON
		  ADD FOREIGN KEY (DEPT_ID)
		  REFERENCES DEPT (ID)
		  ON DELETE CASCADE;

		CREATE INDEX IDX_PERSON_DEPT
		  ON PERSON (DEPT_ID);
		`), source)
}

func TestTableSourceOptions(t *testing.T) {
	conn := openSQLite(t)

	source, err := NewTableSourceBuilder(conn, nil).
		WithOptions(Options{ExcludeIndexes: true, ExcludeForeignKeys: true}).
		Build(t.Context(), "person")
	assert.NoError(t, err)
	assert.NotContains(t, source, "FOREIGN KEY")
	assert.NotContains(t, source, "CREATE INDEX")
	assert.Contains(t, source, "ADD UNIQUE (NAME);")
}

func TestTableSourceQualifiedName(t *testing.T) {
	conn := openSQLite(t)
	ctx := t.Context()

	_, err := conn.ExecContext(ctx, "ATTACH DATABASE ':memory:' AS other")
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "CREATE TABLE other.item (id integer)")
	require.NoError(t, err)

	source, err := NewTableSourceBuilder(conn, nil).Build(ctx, "other.item")
	assert.NoError(t, err)
	assert.Contains(t, source, "CREATE TABLE OTHER.ITEM\n")
}

func TestTableSourcePrimaryKeyMapping(t *testing.T) {
	conn := openSQLite(t)

	store := pkmapping.NewStore()
	require.NoError(t, store.AddMapping("nokey", "a, b"))

	source, err := NewTableSourceBuilder(conn, store).Build(t.Context(), "NOKEY")
	assert.NoError(t, err)
	assert.Contains(t, source, "-- ALTER TABLE NOKEY ADD PRIMARY KEY (A, B);\n")

	// a declared key wins over the mapping
	require.NoError(t, store.AddMapping("foo", "other"))

	source, err = NewTableSourceBuilder(conn, store).Build(t.Context(), "foo")
	assert.NoError(t, err)
	assert.NotContains(t, source, "OTHER")
}

func TestTableSourceErrors(t *testing.T) {
	conn := openSQLite(t)

	_, err := NewTableSourceBuilder(conn, nil).Build(t.Context(), "missing")
	assert.IsError(t, err, wbcommand.ErrObjectNotFound)

	_, err = NewViewSourceBuilder(conn, nil).Build(t.Context(), "foo")
	assert.IsError(t, err, metadata.ErrNotAView)
}

func TestViewSource(t *testing.T) {
	conn := openSQLite(t)

	expected := testhelper.TrimIndent(t, `
		CREATE VIEW MAIN.V_FOO
		(
		  ID,
		  ID2
		)
		AS
		SELECT
		  ID,
		  ID * 42 AS ID2
		FROM FOO;
		`)

	source, err := NewViewSourceBuilder(conn, nil).Build(t.Context(), "v_foo")
	assert.NoError(t, err)
	assert.Equal(t, expected, source)

	// the table builder hands views over to the view builder
	source, err = NewTableSourceBuilder(conn, nil).Build(t.Context(), "V_FOO")
	assert.NoError(t, err)
	assert.Equal(t, expected, source)
}

func TestViewSourceIndent(t *testing.T) {
	conn := openSQLite(t)

	store := pkmapping.NewStore()
	require.NoError(t, store.AddMapping("v_foo", "id"))

	source, err := NewViewSourceBuilder(conn, store).WithIndent(4).Build(t.Context(), "v_foo")
	assert.NoError(t, err)
	assert.Contains(t, source, "SELECT\n    ID,\n    ID * 42 AS ID2\nFROM FOO;\n")
	assert.Contains(t, source, "-- primary key mapping: ID\n")
}

func TestColumnType(t *testing.T) {
	length, precision, scale := 20, 10, 2

	tests := []struct {
		name     string
		column   wbcommand.ColumnInfo
		expected string
	}{
		{"plain", wbcommand.ColumnInfo{DataType: "integer"}, "INTEGER"},
		{"untyped", wbcommand.ColumnInfo{}, ""},
		{"inline length", wbcommand.ColumnInfo{DataType: "varchar(50)", MaxLength: &length}, "VARCHAR(50)"},
		{"length", wbcommand.ColumnInfo{DataType: "varchar", MaxLength: &length}, "VARCHAR(20)"},
		{"precision and scale", wbcommand.ColumnInfo{DataType: "numeric", Precision: &precision, Scale: &scale}, "NUMERIC(10,2)"},
		{"precision", wbcommand.ColumnInfo{DataType: "float", Precision: &precision}, "FLOAT(10)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, columnType(tt.column))
		})
	}
}
