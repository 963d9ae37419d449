package command

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	FormatTable    OutputFormat = "table"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatYAML     OutputFormat = "yaml"
	FormatMarkdown OutputFormat = "markdown"
)

// Formatter writes results
type Formatter struct {
	Kind OutputFormat
}

// NewFormatter creates a new result formatter
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{
		Kind: format,
	}
}

// IsValidOutputFormat checks if the output format is valid
func IsValidOutputFormat(format string) bool {
	f := OutputFormat(strings.ToLower(format))
	return f == FormatTable || f == FormatJSON || f == FormatCSV || f == FormatYAML || f == FormatMarkdown
}

// Format writes result according to the format. Table, CSV and Markdown write
// the messages as plain lines when the result has no result set.
func (f *Formatter) Format(result *Result, output io.Writer) error {
	switch f.Kind {
	case FormatTable:
		return f.formatAsTable(result, output)
	case FormatJSON:
		return f.formatAsJSON(result, output)
	case FormatCSV:
		return f.formatAsCSV(result, output)
	case FormatYAML:
		return f.formatAsYAML(result, output)
	case FormatMarkdown:
		return f.formatAsMarkdown(result, output)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOutputFormat, f.Kind)
	}
}

func writeMessages(result *Result, output io.Writer) error {
	for _, message := range result.Messages {
		if _, err := fmt.Fprintln(output, message); err != nil {
			return err
		}
	}

	return nil
}

func (f *Formatter) formatAsTable(result *Result, output io.Writer) error {
	if len(result.Columns) == 0 {
		return writeMessages(result, output)
	}

	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(result.Columns, "\t"))

	for _, row := range result.Rows {
		fmt.Fprintln(w, strings.Join(rowStrings(row), "\t"))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(output, "(%d rows, Time: %v)\n", len(result.Rows), result.Elapsed)

	return err
}

func (f *Formatter) formatAsMarkdown(result *Result, output io.Writer) error {
	if len(result.Columns) == 0 {
		return writeMessages(result, output)
	}

	var b strings.Builder

	b.WriteString("| " + strings.Join(result.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(result.Columns)) + "\n")

	for _, row := range result.Rows {
		values := rowStrings(row)
		for i, v := range values {
			values[i] = strings.ReplaceAll(v, "|", `\|`)
		}

		b.WriteString("| " + strings.Join(values, " | ") + " |\n")
	}

	fmt.Fprintf(&b, "\n<!-- %d rows, Time: %v -->\n", len(result.Rows), result.Elapsed)

	_, err := io.WriteString(output, b.String())

	return err
}

func (f *Formatter) formatAsJSON(result *Result, output io.Writer) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	return encoder.Encode(document(result))
}

func (f *Formatter) formatAsCSV(result *Result, output io.Writer) error {
	if len(result.Columns) == 0 {
		return writeMessages(result, output)
	}

	writer := csv.NewWriter(output)

	if err := writer.Write(result.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range result.Rows {
		if err := writer.Write(rowStrings(row)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

func (f *Formatter) formatAsYAML(result *Result, output io.Writer) error {
	data, err := yaml.Marshal(document(result))
	if err != nil {
		return fmt.Errorf("failed to marshal results to YAML: %w", err)
	}

	_, err = output.Write(data)

	return err
}

// document builds the structure written by the JSON and YAML formats
func document(result *Result) map[string]any {
	doc := map[string]any{
		"success":  result.Success,
		"messages": result.Messages,
		"duration": result.Elapsed.String(),
	}

	if result.Verb != "" {
		doc["verb"] = result.Verb
	}

	if len(result.Warnings) > 0 {
		doc["warnings"] = result.Warnings
	}

	if result.Err != nil {
		doc["error"] = result.Err.Error()
	}

	if len(result.Columns) > 0 {
		doc["data"] = rowsToMaps(result.Columns, result.Rows)
		doc["count"] = len(result.Rows)
	} else {
		doc["rows_affected"] = result.RowsAffected
	}

	return doc
}

func rowsToMaps(columns []string, rows [][]any) []map[string]any {
	result := make([]map[string]any, 0, len(rows))

	for _, row := range rows {
		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rowMap[col] = row[i]
			}
		}

		result = append(result, rowMap)
	}

	return result
}

func rowStrings(row []any) []string {
	values := make([]string, len(row))
	for i, v := range row {
		values[i] = formatValue(v)
	}

	return values
}

// formatValue formats a value as a string
func formatValue(val any) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
