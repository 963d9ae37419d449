// Package ddl reconstructs CREATE TABLE and CREATE VIEW statements from
// database metadata. It only talks to the metadata.Provider of a connection,
// so the same code produces source for every supported engine.
package ddl

import (
	"context"
	"strings"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/formatter"
	"github.com/shibukawa/wbcommand/metadata"
	"github.com/shibukawa/wbcommand/pkmapping"
)

// Options controls which parts of a table definition are generated
type Options struct {
	ExcludeIndexes     bool
	ExcludeForeignKeys bool
}

// builder holds what table and view source generation share
type builder struct {
	conn     *metadata.Connection
	provider metadata.Provider
	store    *pkmapping.Store
	options  Options
}

func newBuilder(conn *metadata.Connection, store *pkmapping.Store) builder {
	return builder{conn: conn, provider: conn.Provider, store: store}
}

// Resolve looks up an object name as typed by the user
func (b *builder) Resolve(ctx context.Context, name string) (wbcommand.ObjectName, error) {
	object := wbcommand.ParseObjectName(name)
	if object.Schema == "" && b.conn.Schema != "" {
		object.Schema = b.conn.Schema
	}

	return b.provider.ResolveObject(ctx, b.conn, object)
}

func (b *builder) identifier(name string) string {
	return formatter.RenderIdentifier(name, b.provider.IdentifierCase(), b.provider.QuoteChar())
}

func (b *builder) identifierList(names []string) string {
	rendered := make([]string, len(names))
	for i, name := range names {
		rendered[i] = b.identifier(name)
	}

	return strings.Join(rendered, ", ")
}

// qualifiedName renders schema.name, leaving out the schema when it is the
// default schema of the connection
func (b *builder) qualifiedName(ctx context.Context, schema, name string) (string, error) {
	defaultSchema, err := b.conn.DefaultSchema(ctx)
	if err != nil {
		return "", err
	}

	sameSchema := schema == defaultSchema ||
		b.provider.IdentifierCase() != wbcommand.IdentifiersMixedSensitive && strings.EqualFold(schema, defaultSchema)

	if schema == "" || sameSchema {
		return b.identifier(name), nil
	}

	return b.identifier(schema) + "." + b.identifier(name), nil
}

// fullName renders schema.name unconditionally
func (b *builder) fullName(object wbcommand.ObjectName) string {
	return formatter.RenderQualified(object.Schema, object.Name, b.provider.IdentifierCase(), b.provider.QuoteChar())
}

// mappedPrimaryKey returns the substitute key columns of the primary key mapping
func (b *builder) mappedPrimaryKey(object wbcommand.ObjectName) []string {
	if b.store == nil {
		return nil
	}

	for _, key := range []string{object.String(), object.Name} {
		if columns, ok := b.store.Columns(key); ok {
			return pkmapping.SplitColumns(columns)
		}
	}

	return nil
}
