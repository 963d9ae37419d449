package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/shibukawa/wbcommand"
)

// PostgreSQLProvider reads metadata from the pg_catalog tables
type PostgreSQLProvider struct{}

// NewPostgreSQLProvider creates a PostgreSQL provider
func NewPostgreSQLProvider() *PostgreSQLProvider {
	return &PostgreSQLProvider{}
}

func (p *PostgreSQLProvider) Type() string { return "postgresql" }

func (p *PostgreSQLProvider) IdentifierCase() wbcommand.IdentifierCase {
	return wbcommand.IdentifiersLower
}

func (p *PostgreSQLProvider) QuoteChar() string { return `"` }

func (p *PostgreSQLProvider) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (p *PostgreSQLProvider) DefaultSchema(ctx context.Context, q Queryer) (string, error) {
	var schema sql.NullString
	if err := q.QueryRowContext(ctx, "SELECT current_schema()").Scan(&schema); err != nil {
		return "", err
	}

	if !schema.Valid {
		return "public", nil
	}

	return schema.String, nil
}

func (p *PostgreSQLProvider) DatabaseInfo(ctx context.Context, q Queryer) (wbcommand.DatabaseInfo, error) {
	info := wbcommand.DatabaseInfo{Type: "postgresql"}

	err := q.QueryRowContext(ctx, "SELECT current_setting('server_version'), current_database()").Scan(&info.Version, &info.Name)

	return info, err
}

func (p *PostgreSQLProvider) ResolveObject(ctx context.Context, q Queryer, name wbcommand.ObjectName) (wbcommand.ObjectName, error) {
	schemas := nameCandidates(name.Schema, name.QuotedSchema, wbcommand.IdentifiersLower)
	if name.Schema == "" {
		schema, err := p.DefaultSchema(ctx, q)
		if err != nil {
			return wbcommand.ObjectName{}, err
		}

		schemas = []string{schema}
	}

	const query = `
		SELECT n.nspname, c.relname, c.relkind::text
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		AND c.relname = $2
		AND c.relkind IN ('r', 'p', 'v', 'm', 'f')`

	for _, schema := range schemas {
		for _, candidate := range nameCandidates(name.Name, name.QuotedName, wbcommand.IdentifiersLower) {
			var (
				resolved wbcommand.ObjectName
				kind     string
			)

			err := q.QueryRowContext(ctx, query, schema, candidate).Scan(&resolved.Schema, &resolved.Name, &kind)
			if err == sql.ErrNoRows {
				continue
			}

			if err != nil {
				return wbcommand.ObjectName{}, err
			}

			resolved.Type = wbcommand.ObjectTable
			if kind == "v" || kind == "m" {
				resolved.Type = wbcommand.ObjectView
			}

			return resolved, nil
		}
	}

	return wbcommand.ObjectName{}, notFound(name)
}

func (p *PostgreSQLProvider) Columns(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.ColumnInfo, error) {
	const query = `
		SELECT
			a.attname,
			a.attnum,
			format_type(a.atttypid, a.atttypmod),
			NOT a.attnotnull,
			pg_get_expr(d.adbin, d.adrelid),
			col_description(a.attrelid, a.attnum),
			EXISTS (
				SELECT 1 FROM pg_constraint pk
				WHERE pk.conrelid = a.attrelid AND pk.contype = 'p' AND a.attnum = ANY(pk.conkey)
			)
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		WHERE n.nspname = $1
		AND c.relname = $2
		AND a.attnum > 0
		AND NOT a.attisdropped
		ORDER BY a.attnum`

	rows, err := q.QueryContext(ctx, query, object.Schema, object.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []wbcommand.ColumnInfo

	for rows.Next() {
		var (
			col                   wbcommand.ColumnInfo
			defaultValue, comment sql.NullString
		)

		if err := rows.Scan(&col.Name, &col.Position, &col.DataType, &col.Nullable, &defaultValue, &comment, &col.IsPrimaryKey); err != nil {
			return nil, err
		}

		col.DefaultValue = defaultValue.String
		col.Comment = comment.String
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, notFound(object)
	}

	return columns, nil
}

func (p *PostgreSQLProvider) Constraints(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.ConstraintInfo, error) {
	const query = `
		SELECT
			con.conname,
			con.contype::text,
			COALESCE((
				SELECT string_agg(a.attname, ',' ORDER BY k.ord)
				FROM unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
				JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = k.attnum
			), ''),
			COALESCE(fn.nspname, ''),
			COALESCE(fc.relname, ''),
			COALESCE((
				SELECT string_agg(a.attname, ',' ORDER BY k.ord)
				FROM unnest(con.confkey) WITH ORDINALITY AS k(attnum, ord)
				JOIN pg_attribute a ON a.attrelid = con.confrelid AND a.attnum = k.attnum
			), ''),
			con.confdeltype::text,
			con.confupdtype::text,
			pg_get_constraintdef(con.oid)
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_class fc ON fc.oid = con.confrelid
		LEFT JOIN pg_namespace fn ON fn.oid = fc.relnamespace
		WHERE n.nspname = $1
		AND c.relname = $2
		AND con.contype IN ('p', 'u', 'f', 'c')
		ORDER BY CASE con.contype WHEN 'p' THEN 0 WHEN 'u' THEN 1 WHEN 'f' THEN 2 ELSE 3 END, con.conname`

	rows, err := q.QueryContext(ctx, query, object.Schema, object.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var constraints []wbcommand.ConstraintInfo

	for rows.Next() {
		var (
			con                       wbcommand.ConstraintInfo
			kind, columns, refColumns string
			onDelete, onUpdate        string
		)

		if err := rows.Scan(&con.Name, &kind, &columns, &con.ReferencedSchema, &con.ReferencedTable,
			&refColumns, &onDelete, &onUpdate, &con.Definition); err != nil {
			return nil, err
		}

		con.Type = p.ParseConstraintType(kind)
		con.Columns = splitList(columns)
		con.ReferencedColumns = splitList(refColumns)

		if con.Type == wbcommand.ConstraintForeignKey {
			con.OnDelete = referentialAction(onDelete)
			con.OnUpdate = referentialAction(onUpdate)
		}

		constraints = append(constraints, con)
	}

	return constraints, rows.Err()
}

func (p *PostgreSQLProvider) Indexes(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.IndexInfo, error) {
	// indexes backing a constraint are reported by Constraints
	const query = `
		SELECT
			i.relname,
			COALESCE((
				SELECT string_agg(a.attname, ',' ORDER BY k.ord)
				FROM unnest(ix.indkey::int2[]) WITH ORDINALITY AS k(attnum, ord)
				JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
			), ''),
			ix.indisunique,
			am.amname
		FROM pg_class t
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_am am ON i.relam = am.oid
		WHERE n.nspname = $1
		AND t.relname = $2
		AND NOT EXISTS (SELECT 1 FROM pg_constraint con WHERE con.conindid = ix.indexrelid)
		ORDER BY i.relname`

	rows, err := q.QueryContext(ctx, query, object.Schema, object.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []wbcommand.IndexInfo

	for rows.Next() {
		var (
			index   wbcommand.IndexInfo
			columns string
		)

		if err := rows.Scan(&index.Name, &columns, &index.IsUnique, &index.Type); err != nil {
			return nil, err
		}

		index.Columns = splitList(columns)
		index.Type = strings.ToUpper(index.Type)
		indexes = append(indexes, index)
	}

	return indexes, rows.Err()
}

func (p *PostgreSQLProvider) ViewDefinition(ctx context.Context, q Queryer, object wbcommand.ObjectName) (wbcommand.ViewInfo, error) {
	const query = `
		SELECT pg_get_viewdef(c.oid, true), obj_description(c.oid, 'pg_class')
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		AND c.relname = $2
		AND c.relkind IN ('v', 'm')`

	var (
		definition string
		comment    sql.NullString
	)

	err := q.QueryRowContext(ctx, query, object.Schema, object.Name).Scan(&definition, &comment)
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
		Schema:     object.Schema,
		Definition: strings.TrimSuffix(strings.TrimSpace(definition), ";"),
		Comment:    comment.String,
	}

	for _, col := range columns {
		view.Columns = append(view.Columns, col.Name)
	}

	return view, nil
}

func (p *PostgreSQLProvider) SetIsolationLevel(ctx context.Context, q Queryer, level sql.IsolationLevel) error {
	name, err := IsolationLevelName(level)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, "SET SESSION CHARACTERISTICS AS TRANSACTION ISOLATION LEVEL "+name)

	return err
}

// ParseConstraintType maps pg_constraint.contype codes to constraint types
func (p *PostgreSQLProvider) ParseConstraintType(constraintType string) string {
	switch strings.ToLower(strings.TrimSpace(constraintType)) {
	case "p", "primary key":
		return wbcommand.ConstraintPrimaryKey
	case "f", "foreign key":
		return wbcommand.ConstraintForeignKey
	case "u", "unique":
		return wbcommand.ConstraintUnique
	case "c", "check":
		return wbcommand.ConstraintCheck
	default:
		return strings.ToUpper(constraintType)
	}
}
