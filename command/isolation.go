package command

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shibukawa/wbcommand/metadata"
)

// IsolationLevel is a transaction isolation level. The values follow the
// JDBC constants so they can be shown to users familiar with them.
type IsolationLevel int

const (
	IsolationUnknown         IsolationLevel = -1
	IsolationReadUncommitted IsolationLevel = 1
	IsolationReadCommitted   IsolationLevel = 2
	IsolationRepeatableRead  IsolationLevel = 4
	IsolationSerializable    IsolationLevel = 8
)

var isolationNames = map[string]IsolationLevel{
	"READ UNCOMMITTED": IsolationReadUncommitted,
	"READ COMMITTED":   IsolationReadCommitted,
	"REPEATABLE READ":  IsolationRepeatableRead,
	"SERIALIZABLE":     IsolationSerializable,
}

// StringToLevel maps free text to an isolation level. Case, surrounding
// blanks and the separator (any whitespace or underscores) do not matter.
// Unknown text yields IsolationUnknown.
func StringToLevel(text string) IsolationLevel {
	normalized := strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(text, "_", " ")), " "))

	if level, ok := isolationNames[normalized]; ok {
		return level
	}

	return IsolationUnknown
}

// String returns the SQL name of the level
func (l IsolationLevel) String() string {
	for name, level := range isolationNames {
		if level == l {
			return name
		}
	}

	return "UNKNOWN"
}

// SQLLevel converts the level for database/sql
func (l IsolationLevel) SQLLevel() (sql.IsolationLevel, bool) {
	switch l {
	case IsolationReadUncommitted:
		return sql.LevelReadUncommitted, true
	case IsolationReadCommitted:
		return sql.LevelReadCommitted, true
	case IsolationRepeatableRead:
		return sql.LevelRepeatableRead, true
	case IsolationSerializable:
		return sql.LevelSerializable, true
	default:
		return sql.LevelDefault, false
	}
}

// SetIsolationLevel implements wbisolationlevel <level>
type SetIsolationLevel struct{}

// NewSetIsolationLevel creates the command
func NewSetIsolationLevel() *SetIsolationLevel {
	return &SetIsolationLevel{}
}

func (c *SetIsolationLevel) Verb() string { return "wbisolationlevel" }

func (c *SetIsolationLevel) Usage() string {
	return "wbisolationlevel read uncommitted|read committed|repeatable read|serializable"
}

func (c *SetIsolationLevel) Execute(ctx context.Context, conn *metadata.Connection, args string) *Result {
	level := StringToLevel(args)

	sqlLevel, ok := level.SQLLevel()
	if !ok {
		return Failure(fmt.Errorf("%w: %q", ErrUnknownIsolation, strings.TrimSpace(args)))
	}

	if err := conn.SetIsolationLevel(ctx, sqlLevel); err != nil {
		return Failure(fmt.Errorf("cannot set isolation level %s: %w", level, err))
	}

	result := NewResult()
	result.AddMessage("Isolation level changed to %s", level)

	return result
}
