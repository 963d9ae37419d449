package tokenizer

import "strings"

// KeywordInfo holds information about a SQL keyword.
type KeywordInfo struct {
	// Keyword is always true (for quick lookup)
	Keyword bool
	// StrictReserved is true if the keyword is strict reserved in any major DB (PostgreSQL/MySQL/SQLite)
	StrictReserved bool
}

// KeywordSet is a map of SQL keywords (all upper-case). It is the strictest union of
// PostgreSQL, MySQL and SQLite and decides which words are never treated as
// plain identifiers when SQL text is normalised.
var KeywordSet = map[string]KeywordInfo{
	"SELECT": {true, true}, "FROM": {true, true}, "WHERE": {true, true}, "GROUP": {true, true}, "BY": {true, true},
	"HAVING": {true, true}, "ORDER": {true, true}, "LIMIT": {true, true}, "OFFSET": {true, false}, "AS": {true, true},
	"AND": {true, true}, "OR": {true, true}, "NOT": {true, true}, "NULL": {true, true}, "ON": {true, true},
	"ALL": {true, true}, "DISTINCT": {true, true}, "WITH": {true, true}, "INSERT": {true, true}, "INTO": {true, true},
	"VALUES": {true, true}, "UPDATE": {true, true}, "SET": {true, true}, "DELETE": {true, true},
	"TRUE": {true, true}, "FALSE": {true, true},

	// Row locking and concurrency control
	"SHARE": {true, true}, "NO": {true, true}, "NOWAIT": {true, true}, "SKIP": {true, true}, "LOCKED": {true, true},
	// --- Common SQL reserved words (strictest union of PostgreSQL, MySQL, SQLite) ---
	"ALTER": {true, true}, "ASC": {true, true}, "BETWEEN": {true, true},
	"CASE": {true, true}, "CHECK": {true, true}, "COLUMN": {true, false}, "CONSTRAINT": {true, true}, "CREATE": {true, true}, "CROSS": {true, true},
	"CURRENT_DATE": {true, true}, "CURRENT_TIME": {true, true}, "CURRENT_TIMESTAMP": {true, true}, "DATABASE": {true, true},
	"DEFAULT": {true, true}, "DESC": {true, true}, "DROP": {true, true}, "ELSE": {true, true},
	"END": {true, true}, "EXCEPT": {true, true}, "EXISTS": {true, true}, "FOREIGN": {true, true},
	"FULL": {true, true}, "IF": {true, true}, "IN": {true, true}, "INDEX": {true, true},
	"INNER": {true, true}, "INTERSECT": {true, true}, "IS": {true, true}, "JOIN": {true, true},
	"KEY": {true, true}, "LEFT": {true, true}, "LIKE": {true, true}, "MATCH": {true, true}, "NATURAL": {true, true},
	"OUTER": {true, true}, "PRIMARY": {true, true},
	"REFERENCES": {true, true}, "RIGHT": {true, true}, "TABLE": {true, true}, "THEN": {true, true},
	"TO": {true, true}, "UNION": {true, true}, "UNIQUE": {true, true}, "USING": {true, true},
	"VIEW": {true, true}, "WHEN": {true, true},

	"NULLS": {true, false}, "FIRST": {true, false}, "LAST": {true, false},

	// --- PostgreSQL/extended (strict reserved) ---
	"SIMILAR": {true, true}, "OVER": {true, true}, "PARTITION": {true, true}, "RANGE": {true, true}, "ROWS": {true, true},
	"UNBOUNDED": {true, true}, "PRECEDING": {true, true}, "FOLLOWING": {true, true}, "CURRENT": {true, true}, "ROW": {true, true},
	"RETURNING": {true, true}, "WINDOW": {true, true}, "LATERAL": {true, true}, "ONLY": {true, true},

	// --- MySQL/SQLite/extended (strict reserved) ---
	"REGEXP": {true, true}, "XOR": {true, true}, "MOD": {true, true}, "DIV": {true, true},

	// Functions and types that read better upper case
	"COALESCE": {true, false}, "NULLIF": {true, false}, "CAST": {true, false}, "SUBSTRING": {true, false}, "TRIM": {true, false},
	"BIGINT": {true, false}, "INT": {true, false}, "INTEGER": {true, false}, "SMALLINT": {true, false}, "DECIMAL": {true, false},
	"NUMERIC": {true, false}, "REAL": {true, false}, "FLOAT": {true, false}, "DOUBLE": {true, false}, "PRECISION": {true, false},
	"CHAR": {true, false}, "CHARACTER": {true, false}, "VARCHAR": {true, false}, "VARYING": {true, false}, "TEXT": {true, false},
	"BOOLEAN": {true, false}, "DATE": {true, false}, "TIME": {true, false}, "TIMESTAMP": {true, false}, "INTERVAL": {true, false},
	"COUNT": {true, false}, "SUM": {true, false}, "AVG": {true, false}, "MIN": {true, false}, "MAX": {true, false},

	// SQLite/compat
	"AUTOINCREMENT": {true, false}, "GLOB": {true, false}, "RECURSIVE": {true, false}, "TEMP": {true, false}, "TEMPORARY": {true, false},
}

// IsKeyword reports whether word (any case) is a known SQL keyword
func IsKeyword(word string) bool {
	_, ok := KeywordSet[strings.ToUpper(word)]
	return ok
}

// IsReserved reports whether word (any case) is strictly reserved in at least one supported database
func IsReserved(word string) bool {
	info, ok := KeywordSet[strings.ToUpper(word)]
	return ok && info.StrictReserved
}
