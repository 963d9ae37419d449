package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/tokenizer"
)

// SQLiteProvider reads metadata through SQLite's table-valued pragma functions
type SQLiteProvider struct{}

// NewSQLiteProvider creates a SQLite provider
func NewSQLiteProvider() *SQLiteProvider {
	return &SQLiteProvider{}
}

func (p *SQLiteProvider) Type() string { return "sqlite" }

func (p *SQLiteProvider) IdentifierCase() wbcommand.IdentifierCase {
	return wbcommand.IdentifiersMixedInsensitive
}

func (p *SQLiteProvider) QuoteChar() string { return `"` }

func (p *SQLiteProvider) Placeholder(int) string { return "?" }

// DefaultSchema is always "main", the name of the primary database file
func (p *SQLiteProvider) DefaultSchema(context.Context, Queryer) (string, error) {
	return "main", nil
}

func (p *SQLiteProvider) DatabaseInfo(ctx context.Context, q Queryer) (wbcommand.DatabaseInfo, error) {
	var version string
	if err := q.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return wbcommand.DatabaseInfo{}, err
	}

	var file string
	if err := q.QueryRowContext(ctx, "SELECT file FROM pragma_database_list WHERE name = 'main'").Scan(&file); err != nil {
		return wbcommand.DatabaseInfo{}, err
	}

	if file == "" {
		file = ":memory:"
	}

	return wbcommand.DatabaseInfo{Type: "sqlite", Version: version, Name: file}, nil
}

func (p *SQLiteProvider) ResolveObject(ctx context.Context, q Queryer, name wbcommand.ObjectName) (wbcommand.ObjectName, error) {
	schema := name.Schema
	if schema == "" {
		schema = "main"
	} else {
		var stored string

		err := q.QueryRowContext(ctx, "SELECT name FROM pragma_database_list WHERE name = ? COLLATE NOCASE", schema).Scan(&stored)
		if err == sql.ErrNoRows {
			return wbcommand.ObjectName{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, schema)
		}

		if err != nil {
			return wbcommand.ObjectName{}, err
		}

		schema = stored
	}

	query := fmt.Sprintf(`SELECT type, name FROM %s.sqlite_master WHERE type IN ('table', 'view') AND name = ? COLLATE NOCASE`,
		QuoteIdentifier(schema, `"`))

	var objectType, stored string

	err := q.QueryRowContext(ctx, query, name.Name).Scan(&objectType, &stored)
	if err == sql.ErrNoRows {
		return wbcommand.ObjectName{}, notFound(name)
	}

	if err != nil {
		return wbcommand.ObjectName{}, err
	}

	return wbcommand.ObjectName{
		Schema: schema,
		Name:   stored,
		Type:   wbcommand.ObjectType(strings.ToUpper(objectType)),
	}, nil
}

// Columns reports declared types upper case, whatever spelling the CREATE statement used
func (p *SQLiteProvider) Columns(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.ColumnInfo, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?, ?) ORDER BY cid`,
		object.Name, p.schema(object))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []wbcommand.ColumnInfo

	for rows.Next() {
		var (
			cid, notNull, pk int
			name, dataType   string
			defaultValue     sql.NullString
		)

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}

		columns = append(columns, wbcommand.ColumnInfo{
			Name:         name,
			Position:     cid + 1,
			DataType:     strings.ToUpper(strings.TrimSpace(dataType)),
			Nullable:     notNull == 0 && pk == 0,
			DefaultValue: defaultValue.String,
			IsPrimaryKey: pk > 0,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, notFound(object)
	}

	return columns, nil
}

func (p *SQLiteProvider) Constraints(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.ConstraintInfo, error) {
	var constraints []wbcommand.ConstraintInfo

	pk, err := p.primaryKey(ctx, q, object)
	if err != nil {
		return nil, err
	}

	if len(pk) > 0 {
		// SQLite does not keep primary key constraint names
		constraints = append(constraints, wbcommand.ConstraintInfo{
			Type:    wbcommand.ConstraintPrimaryKey,
			Columns: pk,
		})
	}

	indexes, err := p.indexList(ctx, q, object)
	if err != nil {
		return nil, err
	}

	for _, index := range indexes {
		if index.origin != "u" {
			continue
		}

		columns, err := p.indexColumns(ctx, q, object, index.name)
		if err != nil {
			return nil, err
		}

		name := index.name
		if strings.HasPrefix(name, "sqlite_autoindex_") {
			name = ""
		}

		constraints = append(constraints, wbcommand.ConstraintInfo{
			Name:    name,
			Type:    wbcommand.ConstraintUnique,
			Columns: columns,
		})
	}

	foreignKeys, err := p.foreignKeys(ctx, q, object)
	if err != nil {
		return nil, err
	}

	return append(constraints, foreignKeys...), nil
}

func (p *SQLiteProvider) Indexes(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.IndexInfo, error) {
	list, err := p.indexList(ctx, q, object)
	if err != nil {
		return nil, err
	}

	var indexes []wbcommand.IndexInfo

	for _, index := range list {
		// primary key and unique constraint indexes are reported as constraints
		if index.origin != "c" {
			continue
		}

		columns, err := p.indexColumns(ctx, q, object, index.name)
		if err != nil {
			return nil, err
		}

		indexes = append(indexes, wbcommand.IndexInfo{
			Name:     index.name,
			Columns:  columns,
			IsUnique: index.unique,
			Type:     "BTREE",
		})
	}

	return indexes, nil
}

func (p *SQLiteProvider) ViewDefinition(ctx context.Context, q Queryer, object wbcommand.ObjectName) (wbcommand.ViewInfo, error) {
	query := fmt.Sprintf(`SELECT sql FROM %s.sqlite_master WHERE type = 'view' AND name = ?`,
		QuoteIdentifier(p.schema(object), `"`))

	var createSQL string

	err := q.QueryRowContext(ctx, query, object.Name).Scan(&createSQL)
	if err == sql.ErrNoRows {
		return wbcommand.ViewInfo{}, fmt.Errorf("%w: %s", ErrNotAView, object)
	}

	if err != nil {
		return wbcommand.ViewInfo{}, err
	}

	columns, err := p.Columns(ctx, q, object)
	if err != nil {
		return wbcommand.ViewInfo{}, err
	}

	view := wbcommand.ViewInfo{
		Name:       object.Name,
		Schema:     p.schema(object),
		Definition: ViewQuery(createSQL),
	}

	for _, col := range columns {
		view.Columns = append(view.Columns, col.Name)
	}

	return view, nil
}

// SetIsolationLevel maps READ UNCOMMITTED to the read_uncommitted pragma.
// SQLite transactions are serializable otherwise.
func (p *SQLiteProvider) SetIsolationLevel(ctx context.Context, q Queryer, level sql.IsolationLevel) error {
	if _, err := IsolationLevelName(level); err != nil {
		return err
	}

	value := 0
	if level == sql.LevelReadUncommitted {
		value = 1
	}

	_, err := q.ExecContext(ctx, fmt.Sprintf("PRAGMA read_uncommitted = %d", value))

	return err
}

func (p *SQLiteProvider) schema(object wbcommand.ObjectName) string {
	if object.Schema == "" {
		return "main"
	}

	return object.Schema
}

func (p *SQLiteProvider) primaryKey(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT name, pk FROM pragma_table_info(?, ?) WHERE pk > 0`, object.Name, p.schema(object))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type pkColumn struct {
		name string
		seq  int
	}

	var pk []pkColumn

	for rows.Next() {
		var col pkColumn
		if err := rows.Scan(&col.name, &col.seq); err != nil {
			return nil, err
		}

		pk = append(pk, col)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(pk, func(i, j int) bool { return pk[i].seq < pk[j].seq })

	columns := make([]string, 0, len(pk))
	for _, col := range pk {
		columns = append(columns, col.name)
	}

	return columns, nil
}

type sqliteIndex struct {
	name   string
	unique bool
	origin string // "c" CREATE INDEX, "u" UNIQUE constraint, "pk" PRIMARY KEY
}

func (p *SQLiteProvider) indexList(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]sqliteIndex, error) {
	rows, err := q.QueryContext(ctx, `SELECT name, "unique", origin FROM pragma_index_list(?, ?) ORDER BY name`, object.Name, p.schema(object))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []sqliteIndex

	for rows.Next() {
		var (
			index  sqliteIndex
			unique int
		)

		if err := rows.Scan(&index.name, &unique, &index.origin); err != nil {
			return nil, err
		}

		index.unique = unique == 1
		indexes = append(indexes, index)
	}

	return indexes, rows.Err()
}

func (p *SQLiteProvider) indexColumns(ctx context.Context, q Queryer, object wbcommand.ObjectName, index string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT name FROM pragma_index_info(?, ?) ORDER BY seqno`, index, p.schema(object))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string

	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		// expression index columns have no name
		if name.Valid {
			columns = append(columns, name.String)
		}
	}

	return columns, rows.Err()
}

func (p *SQLiteProvider) foreignKeys(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.ConstraintInfo, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, "table", "from", "to", on_update, on_delete FROM pragma_foreign_key_list(?, ?) ORDER BY id, seq`,
		object.Name, p.schema(object))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		constraints []wbcommand.ConstraintInfo
		lastID      = -1
	)

	for rows.Next() {
		var (
			id                 int
			table, from        string
			to                 sql.NullString
			onUpdate, onDelete string
		)

		if err := rows.Scan(&id, &table, &from, &to, &onUpdate, &onDelete); err != nil {
			return nil, err
		}

		if id != lastID {
			constraints = append(constraints, wbcommand.ConstraintInfo{
				Type:             wbcommand.ConstraintForeignKey,
				ReferencedSchema: p.schema(object),
				ReferencedTable:  table,
				OnUpdate:         referentialAction(onUpdate),
				OnDelete:         referentialAction(onDelete),
			})
			lastID = id
		}

		fk := &constraints[len(constraints)-1]
		fk.Columns = append(fk.Columns, from)

		if to.Valid {
			fk.ReferencedColumns = append(fk.ReferencedColumns, to.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// a foreign key without target columns references the primary key
	for i := range constraints {
		fk := &constraints[i]
		if len(fk.ReferencedColumns) > 0 {
			continue
		}

		pk, err := p.primaryKey(ctx, q, wbcommand.ObjectName{Schema: fk.ReferencedSchema, Name: fk.ReferencedTable})
		if err != nil {
			return nil, err
		}

		fk.ReferencedColumns = pk
	}

	return constraints, nil
}

// ViewQuery extracts the query of a CREATE VIEW statement: everything after
// the first top-level AS. Text without a CREATE VIEW prefix is returned trimmed.
func ViewQuery(createSQL string) string {
	text := strings.TrimSpace(createSQL)

	tokens, err := tokenizer.NewSqlTokenizer(text, tokenizer.TokenizerOptions{SkipWhitespace: true, SkipComments: true}).AllTokens()
	if err != nil || len(tokens) == 0 || !strings.EqualFold(tokens[0].Value, "CREATE") {
		return strings.TrimSuffix(text, ";")
	}

	depth := 0

	for _, token := range tokens {
		switch token.Type {
		case tokenizer.OPENED_PARENS:
			depth++
		case tokenizer.CLOSED_PARENS:
			depth--
		case tokenizer.WORD:
			if depth == 0 && strings.EqualFold(token.Value, "AS") {
				query := text[token.Position.Offset+len(token.Value):]
				return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
			}
		}
	}

	return strings.TrimSuffix(text, ";")
}
