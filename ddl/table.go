package ddl

import (
	"context"
	"fmt"
	"strings"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/metadata"
	"github.com/shibukawa/wbcommand/pkmapping"
)

// TableSourceBuilder generates the CREATE TABLE statement of a table followed
// by its constraints and indexes
type TableSourceBuilder struct {
	builder
}

// NewTableSourceBuilder creates a builder. store may be nil; when set, tables
// without a primary key get a hint with the mapped key columns.
func NewTableSourceBuilder(conn *metadata.Connection, store *pkmapping.Store) *TableSourceBuilder {
	return &TableSourceBuilder{builder: newBuilder(conn, store)}
}

// WithOptions sets generation options
func (b *TableSourceBuilder) WithOptions(options Options) *TableSourceBuilder {
	b.options = options
	return b
}

// Build resolves name and generates its source. Views are rendered as CREATE VIEW.
func (b *TableSourceBuilder) Build(ctx context.Context, name string) (string, error) {
	object, err := b.Resolve(ctx, name)
	if err != nil {
		return "", err
	}

	if object.Type == wbcommand.ObjectView {
		return (&ViewSourceBuilder{builder: b.builder}).BuildObject(ctx, object)
	}

	return b.BuildObject(ctx, object)
}

// BuildObject generates the source of a resolved table
func (b *TableSourceBuilder) BuildObject(ctx context.Context, object wbcommand.ObjectName) (string, error) {
	columns, err := b.provider.Columns(ctx, b.conn, object)
	if err != nil {
		return "", fmt.Errorf("columns of %s: %w", object, err)
	}

	constraints, err := b.provider.Constraints(ctx, b.conn, object)
	if err != nil {
		return "", fmt.Errorf("constraints of %s: %w", object, err)
	}

	var indexes []wbcommand.IndexInfo
	if !b.options.ExcludeIndexes {
		if indexes, err = b.provider.Indexes(ctx, b.conn, object); err != nil {
			return "", fmt.Errorf("indexes of %s: %w", object, err)
		}
	}

	tableName, err := b.qualifiedName(ctx, object.Schema, object.Name)
	if err != nil {
		return "", err
	}

	var out strings.Builder

	b.writeCreateTable(&out, tableName, columns)

	hasPrimaryKey := false

	for _, con := range constraints {
		switch con.Type {
		case wbcommand.ConstraintPrimaryKey:
			hasPrimaryKey = true

			b.writeAlter(&out, tableName, con.Name, "PRIMARY KEY ("+b.identifierList(con.Columns)+")")
		case wbcommand.ConstraintUnique:
			b.writeAlter(&out, tableName, con.Name, "UNIQUE ("+b.identifierList(con.Columns)+")")
		case wbcommand.ConstraintForeignKey:
			if b.options.ExcludeForeignKeys {
				continue
			}

			clause, err := b.foreignKey(ctx, object, con)
			if err != nil {
				return "", err
			}

			b.writeAlter(&out, tableName, con.Name, clause)
		case wbcommand.ConstraintCheck:
			if con.Definition != "" {
				b.writeAlter(&out, tableName, con.Name, con.Definition)
			}
		}
	}

	if !hasPrimaryKey {
		if mapped := b.mappedPrimaryKey(object); len(mapped) > 0 {
			out.WriteString("\n-- no primary key defined, the primary key mapping uses:\n")
			fmt.Fprintf(&out, "-- ALTER TABLE %s ADD PRIMARY KEY (%s);\n", tableName, b.identifierList(mapped))
		}
	}

	for _, index := range indexes {
		unique := ""
		if index.IsUnique {
			unique = "UNIQUE "
		}

		fmt.Fprintf(&out, "\nCREATE %sINDEX %s\n  ON %s (%s);\n", unique, b.identifier(index.Name), tableName, b.identifierList(index.Columns))
	}

	return out.String(), nil
}

func (b *TableSourceBuilder) writeCreateTable(out *strings.Builder, tableName string, columns []wbcommand.ColumnInfo) {
	names := make([]string, len(columns))
	types := make([]string, len(columns))

	nameWidth, typeWidth := 0, 0

	for i, col := range columns {
		names[i] = b.identifier(col.Name)
		types[i] = columnType(col)
		nameWidth = max(nameWidth, len(names[i]))
		typeWidth = max(typeWidth, len(types[i]))
	}

	fmt.Fprintf(out, "CREATE TABLE %s\n(\n", tableName)

	for i, col := range columns {
		var line strings.Builder

		line.WriteString("   ")
		line.WriteString(padRight(names[i], nameWidth))
		line.WriteString("   ")
		line.WriteString(padRight(types[i], typeWidth))

		if col.DefaultValue != "" {
			line.WriteString("   DEFAULT " + col.DefaultValue)
		}

		if !col.Nullable {
			line.WriteString("   NOT NULL")
		}

		text := strings.TrimRight(line.String(), " ")
		if i < len(columns)-1 {
			text += ","
		}

		out.WriteString(text + "\n")
	}

	out.WriteString(");\n")
}

func (b *TableSourceBuilder) writeAlter(out *strings.Builder, tableName, constraintName, clause string) {
	fmt.Fprintf(out, "\nALTER TABLE %s\n  ADD ", tableName)

	if constraintName != "" {
		out.WriteString("CONSTRAINT " + b.identifier(constraintName) + " ")
	}

	out.WriteString(clause + ";\n")
}

func (b *TableSourceBuilder) foreignKey(ctx context.Context, object wbcommand.ObjectName, con wbcommand.ConstraintInfo) (string, error) {
	refSchema := con.ReferencedSchema
	if refSchema == "" {
		refSchema = object.Schema
	}

	refTable, err := b.qualifiedName(ctx, refSchema, con.ReferencedTable)
	if err != nil {
		return "", err
	}

	clause := fmt.Sprintf("FOREIGN KEY (%s)\n  REFERENCES %s (%s)",
		b.identifierList(con.Columns), refTable, b.identifierList(con.ReferencedColumns))

	if con.OnUpdate != "" {
		clause += "\n  ON UPDATE " + con.OnUpdate
	}

	if con.OnDelete != "" {
		clause += "\n  ON DELETE " + con.OnDelete
	}

	return clause, nil
}

// columnType renders the type of a column, adding length and precision when
// the catalog reports them separately from the type name
func columnType(col wbcommand.ColumnInfo) string {
	dataType := strings.ToUpper(strings.TrimSpace(col.DataType))
	if dataType == "" || strings.Contains(dataType, "(") {
		return dataType
	}

	switch {
	case col.MaxLength != nil:
		return fmt.Sprintf("%s(%d)", dataType, *col.MaxLength)
	case col.Precision != nil && col.Scale != nil:
		return fmt.Sprintf("%s(%d,%d)", dataType, *col.Precision, *col.Scale)
	case col.Precision != nil:
		return fmt.Sprintf("%s(%d)", dataType, *col.Precision)
	default:
		return dataType
	}
}

func padRight(text string, width int) string {
	if len(text) >= width {
		return text
	}

	return text + strings.Repeat(" ", width-len(text))
}
