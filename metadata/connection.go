package metadata

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver (pgx)
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/shibukawa/wbcommand"
)

// Connection is the single session commands run against. It pins one
// connection of the pool so session state such as the isolation level
// survives between statements.
type Connection struct {
	DB       *sql.DB
	Provider Provider
	// Schema overrides the provider's default schema when not empty
	Schema string

	conn      *sql.Conn
	isolation sql.IsolationLevel
}

// NewConnection pins a connection of db and pairs it with the provider of databaseType
func NewConnection(ctx context.Context, db *sql.DB, databaseType string) (*Connection, error) {
	provider, err := NewProvider(databaseType)
	if err != nil {
		return nil, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return &Connection{DB: db, Provider: provider, conn: conn}, nil
}

// QueryContext runs a query on the pinned session
func (c *Connection) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.conn.QueryContext(ctx, query, args...)
}

// QueryRowContext runs a single row query on the pinned session
func (c *Connection) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return c.conn.QueryRowContext(ctx, query, args...)
}

// ExecContext executes a statement on the pinned session
func (c *Connection) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.conn.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction on the pinned session. The session isolation
// level set through SetIsolationLevel applies.
func (c *Connection) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.conn.BeginTx(ctx, nil)
}

// PingContext checks that the session is alive
func (c *Connection) PingContext(ctx context.Context) error {
	return c.conn.PingContext(ctx)
}

// DefaultSchema returns the configured schema or the provider's default schema
func (c *Connection) DefaultSchema(ctx context.Context) (string, error) {
	if c.Schema != "" {
		return c.Schema, nil
	}

	return c.Provider.DefaultSchema(ctx, c)
}

// Isolation returns the isolation level last applied with SetIsolationLevel
func (c *Connection) Isolation() sql.IsolationLevel {
	return c.isolation
}

// SetIsolationLevel applies level to the session
func (c *Connection) SetIsolationLevel(ctx context.Context, level sql.IsolationLevel) error {
	if err := c.Provider.SetIsolationLevel(ctx, c, level); err != nil {
		return err
	}

	c.isolation = level

	return nil
}

// Close releases the pinned session and closes the pool
func (c *Connection) Close() error {
	return errors.Join(c.conn.Close(), c.DB.Close())
}

// IsConnectionLost reports whether err means the session can no longer be used
func IsConnectionLost(err error) bool {
	return errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, wbcommand.ErrConnectionLost)
}

// ConnectionPoolSettings defines database connection pool configuration
type ConnectionPoolSettings struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connector opens connections from URLs or driver specific DSNs
type Connector struct {
	poolSettings ConnectionPoolSettings
}

// NewConnector creates a connector with default pool settings
func NewConnector() *Connector {
	return &Connector{
		poolSettings: ConnectionPoolSettings{
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
	}
}

// SetPoolSettings configures connection pool settings
func (c *Connector) SetPoolSettings(settings ConnectionPoolSettings) {
	c.poolSettings = settings
}

// ParseDatabaseURL returns the canonical engine name of a database URL
func ParseDatabaseURL(databaseURL string) (string, error) {
	if databaseURL == "" {
		return "", ErrEmptyDatabaseURL
	}

	u, err := url.Parse(databaseURL)
	if err != nil || u.Scheme == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidDatabaseURL, redact(databaseURL))
	}

	switch t := NormalizeType(u.Scheme); t {
	case "postgresql", "mysql", "sqlite":
		return t, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDatabase, u.Scheme)
	}
}

// Open connects using a database configuration. The driver may be empty when
// the connection is a URL; otherwise a non-URL connection is handed to the
// driver verbatim.
func (c *Connector) Open(ctx context.Context, db wbcommand.Database) (*Connection, error) {
	dbType := NormalizeType(db.Driver)

	dsn := db.Connection
	if t, err := ParseDatabaseURL(db.Connection); err == nil {
		if dbType != "" && dbType != t {
			return nil, fmt.Errorf("%w: driver %s does not match URL scheme", ErrInvalidDatabaseURL, db.Driver)
		}

		dbType = t

		dsn, err = driverDSN(db.Connection, t)
		if err != nil {
			return nil, err
		}
	} else if dbType == "" {
		return nil, err
	}

	driverName, err := driverName(dbType)
	if err != nil {
		return nil, err
	}

	pool, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	pool.SetMaxOpenConns(c.poolSettings.MaxOpenConns)
	pool.SetMaxIdleConns(c.poolSettings.MaxIdleConns)
	pool.SetConnMaxLifetime(c.poolSettings.ConnMaxLifetime)

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	conn, err := NewConnection(ctx, pool, dbType)
	if err != nil {
		pool.Close()
		return nil, err
	}

	conn.Schema = db.Schema

	wbcommand.Logger().Debug("connected", "type", dbType, "schema", db.Schema)

	return conn, nil
}

func driverName(dbType string) (string, error) {
	switch dbType {
	case "postgresql":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	case "sqlite":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDatabase, dbType)
	}
}

// driverDSN converts a database URL to the connection string of the driver
func driverDSN(databaseURL, dbType string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidDatabaseURL, redact(databaseURL))
	}

	switch dbType {
	case "postgresql":
		if u.Host == "" || strings.TrimPrefix(u.Path, "/") == "" {
			return "", fmt.Errorf("%w: host and database are required", ErrInvalidDatabaseURL)
		}

		u.Scheme = "postgres"

		query := u.Query()
		if query.Get("sslmode") == "" {
			query.Set("sslmode", "disable")
			u.RawQuery = query.Encode()
		}

		return u.String(), nil

	case "mysql":
		if u.Host == "" || strings.TrimPrefix(u.Path, "/") == "" {
			return "", fmt.Errorf("%w: host and database are required", ErrInvalidDatabaseURL)
		}

		var b strings.Builder

		if u.User != nil {
			b.WriteString(u.User.Username())

			if password, ok := u.User.Password(); ok {
				b.WriteString(":" + password)
			}

			b.WriteString("@")
		}

		host := u.Host
		if u.Port() == "" {
			host += ":3306"
		}

		b.WriteString("tcp(" + host + ")/" + strings.TrimPrefix(u.Path, "/"))

		if u.RawQuery != "" {
			b.WriteString("?" + u.RawQuery)
		}

		return b.String(), nil

	case "sqlite":
		// sqlite::memory:, sqlite:///abs/path.db, sqlite://./rel.db
		switch {
		case u.Opaque != "":
			return u.Opaque, nil
		case u.Host == "" && u.Path != "":
			return u.Path, nil
		case u.Host != "":
			return u.Host + u.Path, nil
		default:
			return "", fmt.Errorf("%w: missing database path", ErrInvalidDatabaseURL)
		}

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDatabase, dbType)
	}
}

// redact removes the password from a URL for error messages
func redact(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "<unparsable URL>"
	}

	return u.Redacted()
}
