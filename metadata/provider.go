// Package metadata reads table and view metadata through an engine-agnostic
// Provider interface. Each supported engine has one adapter; the code that
// consumes metadata never branches on the engine type.
package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shibukawa/wbcommand"
)

// Queryer is the subset of *sql.DB, *sql.Conn and *sql.Tx used by providers
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Provider exposes the metadata of one database engine
type Provider interface {
	// Type returns the canonical engine name: "sqlite", "postgresql" or "mysql"
	Type() string
	DatabaseInfo(ctx context.Context, q Queryer) (wbcommand.DatabaseInfo, error)
	// DefaultSchema returns the schema unqualified names resolve to
	DefaultSchema(ctx context.Context, q Queryer) (string, error)
	IdentifierCase() wbcommand.IdentifierCase
	QuoteChar() string
	// Placeholder returns the bind parameter marker for the n-th (1-based) argument
	Placeholder(n int) string

	// ResolveObject looks up a table or view and returns its name as stored in
	// the catalog. An empty schema means the default schema.
	ResolveObject(ctx context.Context, q Queryer, name wbcommand.ObjectName) (wbcommand.ObjectName, error)
	Columns(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.ColumnInfo, error)
	Constraints(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.ConstraintInfo, error)
	Indexes(ctx context.Context, q Queryer, object wbcommand.ObjectName) ([]wbcommand.IndexInfo, error)
	ViewDefinition(ctx context.Context, q Queryer, object wbcommand.ObjectName) (wbcommand.ViewInfo, error)

	SetIsolationLevel(ctx context.Context, q Queryer, level sql.IsolationLevel) error
}

// NewProvider creates the provider for a database type or driver name
func NewProvider(databaseType string) (Provider, error) {
	switch NormalizeType(databaseType) {
	case "postgresql":
		return NewPostgreSQLProvider(), nil
	case "mysql":
		return NewMySQLProvider(), nil
	case "sqlite":
		return NewSQLiteProvider(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatabase, databaseType)
	}
}

// NormalizeType maps driver names and URL schemes to a canonical engine name.
// Unknown names are returned lower-cased.
func NormalizeType(databaseType string) string {
	switch t := strings.ToLower(strings.TrimSpace(databaseType)); t {
	case "postgres", "postgresql", "pgx", "pg":
		return "postgresql"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return t
	}
}

// QuoteIdentifier quotes an identifier with quote, doubling embedded quote characters
func QuoteIdentifier(identifier, quote string) string {
	return quote + strings.ReplaceAll(identifier, quote, quote+quote) + quote
}

// IsolationLevelName returns the SQL spelling of an isolation level
func IsolationLevelName(level sql.IsolationLevel) (string, error) {
	switch level {
	case sql.LevelReadUncommitted:
		return "READ UNCOMMITTED", nil
	case sql.LevelReadCommitted:
		return "READ COMMITTED", nil
	case sql.LevelRepeatableRead:
		return "REPEATABLE READ", nil
	case sql.LevelSerializable:
		return "SERIALIZABLE", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedIsolationLevel, level)
	}
}

// nameCandidates returns the spellings tried when resolving a name: the name
// as written and, unless it was quoted, the name folded by the engine's rule
func nameCandidates(name string, quoted bool, identifierCase wbcommand.IdentifierCase) []string {
	folded := identifierCase.Fold(name)
	if quoted || folded == name {
		return []string{name}
	}

	return []string{name, folded}
}

// splitList splits an aggregated "a,b,c" column list
func splitList(list string) []string {
	if list == "" {
		return nil
	}

	parts := strings.Split(list, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}

	return parts
}

// referentialAction maps catalog action codes and names to SQL keywords.
// "NO ACTION" is the default and is returned as "".
func referentialAction(action string) string {
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case "C", "CASCADE":
		return "CASCADE"
	case "N", "SET NULL":
		return "SET NULL"
	case "D", "SET DEFAULT":
		return "SET DEFAULT"
	case "R", "RESTRICT":
		return "RESTRICT"
	default:
		return ""
	}
}

func notFound(name wbcommand.ObjectName) error {
	return fmt.Errorf("%w: %s", ErrObjectNotFound, name.String())
}
