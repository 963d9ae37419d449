package ddl

import (
	"context"
	"fmt"
	"strings"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/formatter"
	"github.com/shibukawa/wbcommand/metadata"
	"github.com/shibukawa/wbcommand/pkmapping"
)

// ViewSourceBuilder generates the CREATE VIEW statement of a view. The
// defining query is reformatted with formatter.ViewQueryFormatter.
type ViewSourceBuilder struct {
	builder

	indent int
}

// NewViewSourceBuilder creates a builder. store may be nil; when set, a
// mapped primary key of the view is emitted as a comment.
func NewViewSourceBuilder(conn *metadata.Connection, store *pkmapping.Store) *ViewSourceBuilder {
	return &ViewSourceBuilder{builder: newBuilder(conn, store)}
}

// WithIndent sets the indentation of the reformatted query
func (b *ViewSourceBuilder) WithIndent(indent int) *ViewSourceBuilder {
	b.indent = indent
	return b
}

// Build resolves name and generates its source
func (b *ViewSourceBuilder) Build(ctx context.Context, name string) (string, error) {
	object, err := b.Resolve(ctx, name)
	if err != nil {
		return "", err
	}

	return b.BuildObject(ctx, object)
}

// BuildObject generates the source of a resolved view
func (b *ViewSourceBuilder) BuildObject(ctx context.Context, object wbcommand.ObjectName) (string, error) {
	if object.Type != "" && object.Type != wbcommand.ObjectView {
		return "", fmt.Errorf("%w: %s", metadata.ErrNotAView, object)
	}

	view, err := b.provider.ViewDefinition(ctx, b.conn, object)
	if err != nil {
		return "", err
	}

	if view.Schema == "" {
		view.Schema = object.Schema
	}

	queryFormatter := formatter.NewViewQueryFormatter(b.provider.IdentifierCase(), b.provider.QuoteChar())
	if b.indent > 0 {
		queryFormatter = queryFormatter.WithIndent(b.indent)
	}

	query, err := queryFormatter.Format(view.Definition)
	if err != nil {
		// keep the stored text when it cannot be tokenized
		wbcommand.Logger().Debug("view query not reformatted", "view", object.String(), "error", err)

		query = strings.TrimSpace(view.Definition)
	}

	var out strings.Builder

	fmt.Fprintf(&out, "CREATE VIEW %s\n", b.fullName(wbcommand.ObjectName{Schema: view.Schema, Name: view.Name}))

	if len(view.Columns) > 0 {
		out.WriteString("(\n")

		for i, col := range view.Columns {
			out.WriteString("  " + b.identifier(col))

			if i < len(view.Columns)-1 {
				out.WriteString(",")
			}

			out.WriteString("\n")
		}

		out.WriteString(")\n")
	}

	out.WriteString("AS\n")
	out.WriteString(query)
	out.WriteString(";\n")

	if view.Comment != "" {
		fmt.Fprintf(&out, "-- %s\n", view.Comment)
	}

	if mapped := b.mappedPrimaryKey(object); len(mapped) > 0 {
		fmt.Fprintf(&out, "\n-- primary key mapping: %s\n", b.identifierList(mapped))
	}

	return out.String(), nil
}
