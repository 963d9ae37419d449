package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/shibukawa/wbcommand"
)

// MySQLProvider reads metadata from information_schema. The schema of an
// object is the MySQL database it lives in.
type MySQLProvider struct{}

// NewMySQLProvider creates a MySQL provider
func NewMySQLProvider() *MySQLProvider {
	return &MySQLProvider{}
}

func (p *MySQLProvider) Type() string { return "mysql" }

// IdentifierCase reports case sensitive names; table names follow the file
// system of the server, so they are always quoted in generated source.
func (p *MySQLProvider) IdentifierCase() wbcommand.IdentifierCase {
	return wbcommand.IdentifiersMixedSensitive
}

func (p *MySQLProvider) QuoteChar() string { return "`" }

func (p *MySQLProvider) Placeholder(int) string { return "?" }

func (p *MySQLProvider) DefaultSchema(ctx context.Context, q Queryer) (string, error) {
	var schema sql.NullString
	if err := q.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&schema); err != nil {
		return "", p.HandleDatabaseError(err)
	}

	return schema.String, nil
}

func (p *MySQLProvider) DatabaseInfo(ctx context.Context, q Queryer) (wbcommand.DatabaseInfo, error) {
	info := wbcommand.DatabaseInfo{Type: "mysql"}

	var name sql.NullString
	if err := q.QueryRowContext(ctx, "SELECT VERSION(), DATABASE()").Scan(&info.Version, &name); err != nil {
		return info, p.HandleDatabaseError(err)
	}

	info.Name = name.String

	return info, nil
}

func (p *MySQLProvider) ResolveObject(ctx context.Context, q Queryer, name wbcommand.ObjectName) (wbcommand.ObjectName, error) {
	schema := name.Schema
	if schema == "" {
		var err error
		if schema, err = p.DefaultSchema(ctx, q); err != nil {
			return wbcommand.ObjectName{}, err
		}
	}

	// exact spelling first, then a case-insensitive match unless the part was quoted
	const query = `
		SELECT TABLE_SCHEMA, TABLE_NAME, TABLE_TYPE
		FROM information_schema.TABLES
		WHERE LOWER(TABLE_SCHEMA) = LOWER(?)
		AND LOWER(TABLE_NAME) = LOWER(?)
		AND (? = 0 OR BINARY TABLE_SCHEMA = ?)
		AND (? = 0 OR BINARY TABLE_NAME = ?)
		ORDER BY BINARY TABLE_NAME = ? DESC, BINARY TABLE_SCHEMA = ? DESC
		LIMIT 1`

	var (
		resolved  wbcommand.ObjectName
		tableType string
	)

	err := q.QueryRowContext(ctx, query,
		schema, name.Name,
		exactFlag(name.QuotedSchema), schema,
		exactFlag(name.QuotedName), name.Name,
		name.Name, schema,
	).Scan(&resolved.Schema, &resolved.Name, &tableType)
	if err == sql.ErrNoRows {
		return wbcommand.ObjectName{}, notFound(name)
	}

	if err != nil {
		return wbcommand.ObjectName{}, p.HandleDatabaseError(err)
	}

	resolved.Type = wbcommand.ObjectTable
	if strings.EqualFold(tableType, "VIEW") {
		resolved.Type = wbcommand.ObjectView
	}

	return resolved, nil
}

func exactFlag(quoted bool) int {
	if quoted {
		return 1
	}

	return 0
}

func (p *MySQLProvider) Columns(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.ColumnInfo, error) {
	const query = `
		SELECT
			COLUMN_NAME,
			ORDINAL_POSITION,
			COLUMN_TYPE,
			DATA_TYPE,
			IS_NULLABLE,
			COLUMN_KEY,
			COLUMN_DEFAULT,
			EXTRA,
			COLUMN_COMMENT
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ?
		AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`

	rows, err := q.QueryContext(ctx, query, object.Schema, object.Name)
	if err != nil {
		return nil, p.HandleDatabaseError(err)
	}
	defer rows.Close()

	var columns []wbcommand.ColumnInfo

	for rows.Next() {
		var (
			col                                 wbcommand.ColumnInfo
			dataType, isNullable, key           string
			columnDefault, extra, columnComment sql.NullString
		)

		if err := rows.Scan(&col.Name, &col.Position, &col.DataType, &dataType, &isNullable, &key,
			&columnDefault, &extra, &columnComment); err != nil {
			return nil, p.HandleDatabaseError(err)
		}

		col.Nullable = isNullable == "YES"
		col.IsPrimaryKey = key == "PRI"
		col.Comment = columnComment.String

		if columnDefault.Valid {
			col.DefaultValue = p.ParseDefaultValue(dataType, columnDefault.String, extra.String)
		}

		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, p.HandleDatabaseError(err)
	}

	if len(columns) == 0 {
		return nil, notFound(object)
	}

	return columns, nil
}

func (p *MySQLProvider) Constraints(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.ConstraintInfo, error) {
	const query = `
		SELECT
			tc.CONSTRAINT_NAME,
			tc.CONSTRAINT_TYPE,
			COALESCE(kcu.COLUMN_NAME, ''),
			COALESCE(kcu.REFERENCED_TABLE_SCHEMA, ''),
			COALESCE(kcu.REFERENCED_TABLE_NAME, ''),
			COALESCE(kcu.REFERENCED_COLUMN_NAME, ''),
			COALESCE(rc.DELETE_RULE, ''),
			COALESCE(rc.UPDATE_RULE, '')
		FROM information_schema.TABLE_CONSTRAINTS tc
		LEFT JOIN information_schema.KEY_COLUMN_USAGE kcu
			ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
			AND tc.TABLE_NAME = kcu.TABLE_NAME
		LEFT JOIN information_schema.REFERENTIAL_CONSTRAINTS rc
			ON tc.CONSTRAINT_NAME = rc.CONSTRAINT_NAME
			AND tc.TABLE_SCHEMA = rc.CONSTRAINT_SCHEMA
		WHERE tc.TABLE_SCHEMA = ?
		AND tc.TABLE_NAME = ?
		ORDER BY
			CASE tc.CONSTRAINT_TYPE WHEN 'PRIMARY KEY' THEN 0 WHEN 'UNIQUE' THEN 1 WHEN 'FOREIGN KEY' THEN 2 ELSE 3 END,
			tc.CONSTRAINT_NAME,
			kcu.ORDINAL_POSITION`

	rows, err := q.QueryContext(ctx, query, object.Schema, object.Name)
	if err != nil {
		return nil, p.HandleDatabaseError(err)
	}
	defer rows.Close()

	var constraints []wbcommand.ConstraintInfo

	for rows.Next() {
		var name, kind, column, refSchema, refTable, refColumn, onDelete, onUpdate string

		if err := rows.Scan(&name, &kind, &column, &refSchema, &refTable, &refColumn, &onDelete, &onUpdate); err != nil {
			return nil, p.HandleDatabaseError(err)
		}

		if n := len(constraints); n == 0 || constraints[n-1].Name != name {
			con := wbcommand.ConstraintInfo{
				Name:             name,
				Type:             p.ParseConstraintType(kind),
				ReferencedSchema: refSchema,
				ReferencedTable:  refTable,
				OnDelete:         referentialAction(onDelete),
				OnUpdate:         referentialAction(onUpdate),
			}

			// MySQL names every primary key PRIMARY
			if con.Type == wbcommand.ConstraintPrimaryKey {
				con.Name = ""
			}

			constraints = append(constraints, con)
		}

		con := &constraints[len(constraints)-1]

		if column != "" {
			con.Columns = append(con.Columns, column)
		}

		if refColumn != "" {
			con.ReferencedColumns = append(con.ReferencedColumns, refColumn)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, p.HandleDatabaseError(err)
	}

	return constraints, nil
}

func (p *MySQLProvider) Indexes(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.IndexInfo, error) {
	// unique and foreign key constraints are backed by an index of the same name
	const query = `
		SELECT
			s.INDEX_NAME,
			s.NON_UNIQUE,
			COALESCE(s.COLUMN_NAME, ''),
			s.INDEX_TYPE
		FROM information_schema.STATISTICS s
		WHERE s.TABLE_SCHEMA = ?
		AND s.TABLE_NAME = ?
		AND s.INDEX_NAME <> 'PRIMARY'
		AND NOT EXISTS (
			SELECT 1 FROM information_schema.TABLE_CONSTRAINTS tc
			WHERE tc.TABLE_SCHEMA = s.TABLE_SCHEMA
			AND tc.TABLE_NAME = s.TABLE_NAME
			AND tc.CONSTRAINT_NAME = s.INDEX_NAME
		)
		ORDER BY s.INDEX_NAME, s.SEQ_IN_INDEX`

	rows, err := q.QueryContext(ctx, query, object.Schema, object.Name)
	if err != nil {
		return nil, p.HandleDatabaseError(err)
	}
	defer rows.Close()

	var indexes []wbcommand.IndexInfo

	for rows.Next() {
		var (
			name, column, indexType string
			nonUnique               int
		)

		if err := rows.Scan(&name, &nonUnique, &column, &indexType); err != nil {
			return nil, p.HandleDatabaseError(err)
		}

		if n := len(indexes); n == 0 || indexes[n-1].Name != name {
			indexes = append(indexes, wbcommand.IndexInfo{
				Name:     name,
				IsUnique: nonUnique == 0,
				Type:     strings.ToUpper(indexType),
			})
		}

		// functional index parts have no column name
		if column != "" {
			index := &indexes[len(indexes)-1]
			index.Columns = append(index.Columns, column)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, p.HandleDatabaseError(err)
	}

	return indexes, nil
}

func (p *MySQLProvider) ViewDefinition(ctx context.Context, q Queryer, object wbcommand.ObjectName) (wbcommand.ViewInfo, error) {
	const query = `
		SELECT VIEW_DEFINITION
		FROM information_schema.VIEWS
		WHERE TABLE_SCHEMA = ?
		AND TABLE_NAME = ?`

	var definition string

	err := q.QueryRowContext(ctx, query, object.Schema, object.Name).Scan(&definition)
	if err == sql.ErrNoRows {
		return wbcommand.ViewInfo{}, fmt.Errorf("%w: %s", ErrNotAView, object)
	}

	if err != nil {
		return wbcommand.ViewInfo{}, p.HandleDatabaseError(err)
	}

	columns, err := p.Columns(ctx, q, object)
	if err != nil {
		return wbcommand.ViewInfo{}, err
	}

	view := wbcommand.ViewInfo{
		Name:       object.Name,
		Schema:     object.Schema,
		Definition: strings.TrimSpace(definition),
	}

	for _, col := range columns {
		view.Columns = append(view.Columns, col.Name)
	}

	return view, nil
}

func (p *MySQLProvider) SetIsolationLevel(ctx context.Context, q Queryer, level sql.IsolationLevel) error {
	name, err := IsolationLevelName(level)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, "SET SESSION TRANSACTION ISOLATION LEVEL "+name)

	return p.HandleDatabaseError(err)
}

// ParseDefaultValue turns COLUMN_DEFAULT into a literal usable in DDL.
// MySQL reports string defaults without quotes.
func (p *MySQLProvider) ParseDefaultValue(dataType, defaultValue, extra string) string {
	if strings.Contains(strings.ToUpper(extra), "DEFAULT_GENERATED") {
		return defaultValue
	}

	switch strings.ToUpper(defaultValue) {
	case "CURRENT_TIMESTAMP", "NOW()":
		return "CURRENT_TIMESTAMP"
	case "NULL":
		return ""
	}

	switch strings.ToLower(dataType) {
	case "char", "varchar", "tinytext", "text", "mediumtext", "longtext", "enum", "set",
		"date", "datetime", "timestamp", "time", "year", "binary", "varbinary":
		if strings.HasPrefix(defaultValue, "'") && strings.HasSuffix(defaultValue, "'") && len(defaultValue) > 1 {
			return defaultValue
		}

		return "'" + strings.ReplaceAll(defaultValue, "'", "''") + "'"
	default:
		return defaultValue
	}
}

// ParseConstraintType converts MySQL constraint types to standard types
func (p *MySQLProvider) ParseConstraintType(constraintType string) string {
	switch strings.ToUpper(constraintType) {
	case "PRIMARY KEY":
		return wbcommand.ConstraintPrimaryKey
	case "FOREIGN KEY":
		return wbcommand.ConstraintForeignKey
	case "UNIQUE":
		return wbcommand.ConstraintUnique
	case "CHECK":
		return wbcommand.ConstraintCheck
	default:
		return strings.ToUpper(constraintType)
	}
}

// HandleDatabaseError maps MySQL server errors to the package's sentinel errors
func (p *MySQLProvider) HandleDatabaseError(err error) error {
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1049: // ER_BAD_DB_ERROR
			return fmt.Errorf("%w: %w", ErrSchemaNotFound, err)
		case 1146: // ER_NO_SUCH_TABLE
			return fmt.Errorf("%w: %w", ErrObjectNotFound, err)
		}
	}

	if errors.Is(err, mysql.ErrInvalidConn) {
		return fmt.Errorf("%w: %w", wbcommand.ErrConnectionLost, err)
	}

	return err
}
