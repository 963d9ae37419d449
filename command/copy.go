package command

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/argparser"
	"github.com/shibukawa/wbcommand/formatter"
	"github.com/shibukawa/wbcommand/metadata"
)

// Copy implements wbcopy. Rows of the source table are read completely and
// then inserted into the target table, committing every -commitEvery rows.
//
// -columns maps source columns (or expressions) to target columns:
// -columns='id/"ID", upper(name)/NAME'. The target side is used verbatim.
// Without a mapping, all source columns that also exist in the target are copied.
type Copy struct {
	parser *argparser.ArgumentParser
}

// NewCopy creates the command
func NewCopy() *Copy {
	return &Copy{
		parser: argparser.NewArgumentParser().
			AddArgument("sourceTable").
			AddArgument("targetTable").
			AddArgument("columns", argparser.KindMapping).
			AddArgument("commitEvery", argparser.KindInteger).
			AddArgument("deleteTarget", argparser.KindBoolean).
			AddArgument("sourceWhere"),
	}
}

func (c *Copy) Verb() string { return "wbcopy" }

func (c *Copy) Usage() string {
	return "wbcopy -sourceTable=<table> -targetTable=<table> [-columns='<src>/<target>, ...'] [-commitEvery=<n>] [-deleteTarget] [-sourceWhere=<condition>]"
}

// copyPlan is the resolved column pairing of a copy
type copyPlan struct {
	source, target wbcommand.ObjectName
	selectList     []string
	targetColumns  []string
}

func (c *Copy) Execute(ctx context.Context, conn *metadata.Connection, args string) *Result {
	parsed := c.parser.Parse(args)
	if err := parsed.Err(); err != nil {
		return Failure(err)
	}

	for _, name := range []string{"sourceTable", "targetTable"} {
		if strings.TrimSpace(parsed.Value(name)) == "" {
			return Failure(fmt.Errorf("%w: -%s", ErrMissingParameter, name))
		}
	}

	result := NewResult()

	plan, err := c.plan(ctx, conn, parsed, result)
	if err != nil {
		return Failure(err)
	}

	if len(plan.selectList) == 0 {
		return Failure(fmt.Errorf("%w: no common columns between %s and %s", ErrMissingParameter, plan.source, plan.target))
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(plan.selectList, ", "), c.render(conn, plan.source))
	if where := strings.TrimSpace(parsed.Value("sourceWhere")); where != "" {
		query += " WHERE " + where
	}

	_, rows, err := readRows(ctx, conn, query)
	if err != nil {
		return Failure(fmt.Errorf("reading %s: %w", plan.source, err))
	}

	copied, err := c.insert(ctx, conn, plan, rows, parsed.Int("commitEvery", 0), parsed.Bool("deleteTarget", false))
	if err != nil {
		result.Fail(fmt.Errorf("writing %s: %w", plan.target, err))
		return result
	}

	result.RowsAffected = copied
	result.AddMessage("%d row(s) copied from %s to %s", copied, plan.source, plan.target)

	return result
}

func (c *Copy) plan(ctx context.Context, conn *metadata.Connection, parsed *argparser.Arguments, result *Result) (copyPlan, error) {
	var plan copyPlan

	source, err := resolve(ctx, conn, objectArgument(parsed.RawValue("sourceTable")))
	if err != nil {
		return plan, err
	}

	target, err := resolve(ctx, conn, objectArgument(parsed.RawValue("targetTable")))
	if err != nil {
		return plan, err
	}

	plan.source, plan.target = source, target

	sourceColumns, err := conn.Provider.Columns(ctx, conn, source)
	if err != nil {
		return plan, err
	}

	if mapping, ok := parsed.Mapping("columns"); ok && mapping.Len() > 0 {
		for _, entry := range mapping.Entries() {
			expression := entry.Key
			if col, found := findColumn(sourceColumns, argparser.Unquote(entry.Key)); found {
				expression = c.identifier(conn, col.Name)
			}

			plan.selectList = append(plan.selectList, expression)
			plan.targetColumns = append(plan.targetColumns, entry.Value)
		}

		return plan, nil
	}

	targetColumns, err := conn.Provider.Columns(ctx, conn, target)
	if err != nil {
		return plan, err
	}

	for _, col := range sourceColumns {
		targetCol, found := findColumn(targetColumns, col.Name)
		if !found {
			result.AddWarning("Column %s does not exist in %s and is not copied", col.Name, target)
			continue
		}

		plan.selectList = append(plan.selectList, c.identifier(conn, col.Name))
		plan.targetColumns = append(plan.targetColumns, c.identifier(conn, targetCol.Name))
	}

	return plan, nil
}

func (c *Copy) insert(ctx context.Context, conn *metadata.Connection, plan copyPlan, rows [][]any, commitEvery int, deleteTarget bool) (copied int64, err error) {
	placeholders := make([]string, len(plan.targetColumns))
	for i := range placeholders {
		placeholders[i] = conn.Provider.Placeholder(i + 1)
	}

	targetName := c.render(conn, plan.target)
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		targetName, strings.Join(plan.targetColumns, ", "), strings.Join(placeholders, ", "))

	var (
		tx   *sql.Tx
		stmt *sql.Stmt
	)

	begin := func() error {
		if tx, err = conn.BeginTx(ctx); err != nil {
			return err
		}

		stmt, err = tx.PrepareContext(ctx, insertSQL)

		return err
	}

	commit := func() error {
		return errors.Join(stmt.Close(), tx.Commit())
	}

	defer func() {
		if err != nil && tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err = begin(); err != nil {
		return 0, err
	}

	if deleteTarget {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+targetName); err != nil {
			return 0, err
		}
	}

	for i, row := range rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return copied, fmt.Errorf("row %d: %w", i+1, err)
		}

		copied++

		if commitEvery > 0 && copied%int64(commitEvery) == 0 && i < len(rows)-1 {
			if err = commit(); err != nil {
				return copied, err
			}

			if err = begin(); err != nil {
				return copied, err
			}
		}
	}

	if err = commit(); err != nil {
		return copied, err
	}

	tx = nil

	return copied, nil
}

func (c *Copy) identifier(conn *metadata.Connection, name string) string {
	return formatter.RenderIdentifier(name, conn.Provider.IdentifierCase(), conn.Provider.QuoteChar())
}

func (c *Copy) render(conn *metadata.Connection, object wbcommand.ObjectName) string {
	return formatter.RenderQualified(object.Schema, object.Name, conn.Provider.IdentifierCase(), conn.Provider.QuoteChar())
}

// resolve looks up a table name typed by the user
func resolve(ctx context.Context, conn *metadata.Connection, name string) (wbcommand.ObjectName, error) {
	object := wbcommand.ParseObjectName(name)
	if object.Schema == "" {
		object.Schema = conn.Schema
	}

	return conn.Provider.ResolveObject(ctx, conn, object)
}

func findColumn(columns []wbcommand.ColumnInfo, name string) (wbcommand.ColumnInfo, bool) {
	for _, col := range columns {
		if strings.EqualFold(col.Name, name) {
			return col, true
		}
	}

	return wbcommand.ColumnInfo{}, false
}
