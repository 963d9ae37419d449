package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/metadata"
	"github.com/shibukawa/wbcommand/tokenizer"
)

// statements that are sent with QueryContext and produce a result set
var rowReturningWords = map[string]bool{
	"SELECT":   true,
	"WITH":     true,
	"VALUES":   true,
	"PRAGMA":   true,
	"SHOW":     true,
	"EXPLAIN":  true,
	"DESCRIBE": true,
	"TABLE":    true,
}

// RunScript splits script into statements and runs them in order. Registered
// verbs go to their command, everything else is sent to the database as is.
// Execution stops after the first failed statement unless continue-on-error
// is set. The returned error is only set when the script cannot be split or
// the connection was lost.
func (r *StatementRunner) RunScript(ctx context.Context, script string) ([]*Result, error) {
	statements, err := tokenizer.SplitStatements(script, r.delimiter)
	if err != nil {
		return nil, err
	}

	var results []*Result

	for _, stmt := range statements {
		result, err := r.Run(ctx, stmt.Text)
		if result != nil {
			results = append(results, result)
		}

		if err != nil {
			return results, fmt.Errorf("line %d: %w", stmt.Line, err)
		}

		if !result.Success && !r.continueOnError {
			wbcommand.Logger().Warn("script stopped after failed statement", slog.Int("line", stmt.Line), slog.Any("error", result.Err))
			break
		}
	}

	return results, nil
}

// Run executes a single statement, through its command when the leading word
// is a registered verb and as plain SQL otherwise
func (r *StatementRunner) Run(ctx context.Context, statement string) (*Result, error) {
	if _, _, ok := r.Lookup(statement); ok {
		return r.Execute(ctx, statement)
	}

	return r.ExecuteSQL(ctx, statement)
}

// ExecuteSQL sends statement to the database. Statements that return rows are
// read completely into the result.
func (r *StatementRunner) ExecuteSQL(ctx context.Context, statement string) (*Result, error) {
	executionID := uuid.NewString()
	start := time.Now()

	result := NewResult()
	result.ExecutionID = executionID

	word, _, _ := tokenizer.LeadingWord(statement)

	var err error
	if rowReturningWords[strings.ToUpper(word)] {
		err = r.query(ctx, statement, result)
	} else {
		err = r.exec(ctx, statement, result)
	}

	result.Elapsed = time.Since(start)

	wbcommand.Logger().Debug("statement executed",
		slog.String("execution_id", executionID),
		slog.Bool("success", err == nil),
		slog.Duration("elapsed", result.Elapsed))

	if err != nil {
		if metadata.IsConnectionLost(err) {
			result.Fail(err)
			return result, err
		}

		result.Fail(fmt.Errorf("%w: %w", ErrStatementFailed, err))
	}

	return result, nil
}

func (r *StatementRunner) exec(ctx context.Context, statement string, result *Result) error {
	res, err := r.conn.ExecContext(ctx, statement)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil {
		result.RowsAffected = affected
		result.AddMessage("%d row(s) affected", affected)
	}

	return nil
}

func (r *StatementRunner) query(ctx context.Context, statement string, result *Result) error {
	columns, rows, err := readRows(ctx, r.conn, statement)
	if err != nil {
		return err
	}

	for _, row := range rows {
		for i, v := range row {
			row[i] = convertSQLValue(v)
		}
	}

	result.Columns = columns
	result.Rows = rows
	result.AddMessage("%d row(s) retrieved", len(rows))

	return nil
}

// readRows runs a query and reads the whole result set with the values as
// returned by the driver, so the session is free for the next statement when
// it returns
func readRows(ctx context.Context, q metadata.Queryer, query string, args ...any) ([]string, [][]any, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get column names: %w", err)
	}

	var resultRows [][]any

	values := make([]any, len(columns))
	scanArgs := make([]any, len(columns))

	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rowValues := make([]any, len(columns))
		copy(rowValues, values)

		resultRows = append(resultRows, rowValues)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return columns, resultRows, nil
}

// convertSQLValue turns driver byte slices into strings
func convertSQLValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}

	return v
}
