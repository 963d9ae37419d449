package wbcommand

import "strings"

// ObjectType distinguishes the kinds of database objects resolved through metadata
type ObjectType string

const (
	ObjectTable ObjectType = "TABLE"
	ObjectView  ObjectType = "VIEW"
)

// ObjectName identifies a table or view as reported by the database metadata
type ObjectName struct {
	Catalog string     `json:"catalog" yaml:"catalog"`
	Schema  string     `json:"schema" yaml:"schema"`
	Name    string     `json:"name" yaml:"name"`
	Type    ObjectType `json:"type" yaml:"type"`

	// set by ParseObjectName for parts written as quoted identifiers,
	// which are matched exactly instead of by the engine's folding rule
	QuotedSchema bool `json:"-" yaml:"-"`
	QuotedName   bool `json:"-" yaml:"-"`
}

// String returns the schema qualified name without quoting
func (o ObjectName) String() string {
	if o.Schema == "" {
		return o.Name
	}

	return o.Schema + "." + o.Name
}

// ParseObjectName splits a possibly qualified name ("schema.table") into its parts.
// Parts quoted with double quotes or backticks keep their content verbatim; a
// doubled quote character inside them stands for itself.
func ParseObjectName(text string) ObjectName {
	parts := splitQualified(strings.TrimSpace(text))

	n := len(parts)
	if n == 0 {
		return ObjectName{}
	}

	object := ObjectName{Name: parts[n-1].text, QuotedName: parts[n-1].quoted}

	if n >= 2 {
		object.Schema = parts[n-2].text
		object.QuotedSchema = parts[n-2].quoted
	}

	if n >= 3 {
		object.Catalog = parts[n-3].text
	}

	return object
}

type namePart struct {
	text   string
	quoted bool
}

func splitQualified(text string) []namePart {
	if text == "" {
		return nil
	}

	var (
		parts   []namePart
		current strings.Builder
		quoted  bool
		quote   rune
	)

	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case quote != 0 && r == quote:
			if i+1 < len(runes) && runes[i+1] == quote {
				current.WriteRune(r)
				i++

				continue
			}

			quote = 0
		case quote != 0:
			current.WriteRune(r)
		case r == '"' || r == '`':
			quote = r
			quoted = true
		case r == '.':
			parts = append(parts, namePart{text: current.String(), quoted: quoted})
			current.Reset()

			quoted = false
		default:
			current.WriteRune(r)
		}
	}

	return append(parts, namePart{text: current.String(), quoted: quoted})
}

// ColumnInfo is a column definition as reported by the database metadata
type ColumnInfo struct {
	Name         string `json:"name" yaml:"name"`                 // Column name
	Position     int    `json:"position" yaml:"position"`         // 1-based ordinal position
	DataType     string `json:"dataType" yaml:"dataType"`         // Type name as reported by the database
	Nullable     bool   `json:"nullable" yaml:"nullable"`         // Is nullable
	DefaultValue string `json:"defaultValue" yaml:"defaultValue"` // Default expression (optional)
	Comment      string `json:"comment" yaml:"comment"`           // Comment (optional)
	IsPrimaryKey bool   `json:"isPrimaryKey" yaml:"isPrimaryKey"` // Part of the primary key
	MaxLength    *int   `json:"maxLength" yaml:"maxLength"`       // For string types (optional)
	Precision    *int   `json:"precision" yaml:"precision"`       // For numeric types (optional)
	Scale        *int   `json:"scale" yaml:"scale"`               // For numeric types (optional)
}

// Constraint types
const (
	ConstraintPrimaryKey = "PRIMARY_KEY"
	ConstraintForeignKey = "FOREIGN_KEY"
	ConstraintUnique     = "UNIQUE"
	ConstraintCheck      = "CHECK"
)

// ConstraintInfo describes a table constraint
type ConstraintInfo struct {
	Name              string   `json:"name" yaml:"name"`
	Type              string   `json:"type" yaml:"type"` // PRIMARY_KEY, FOREIGN_KEY, UNIQUE, CHECK
	Columns           []string `json:"columns" yaml:"columns"`
	ReferencedSchema  string   `json:"referencedSchema" yaml:"referencedSchema"`
	ReferencedTable   string   `json:"referencedTable" yaml:"referencedTable"`
	ReferencedColumns []string `json:"referencedColumns" yaml:"referencedColumns"`
	OnDelete          string   `json:"onDelete" yaml:"onDelete"`
	OnUpdate          string   `json:"onUpdate" yaml:"onUpdate"`
	Definition        string   `json:"definition" yaml:"definition"`
}

// IndexInfo describes a secondary index
type IndexInfo struct {
	Name     string   `json:"name" yaml:"name"`
	Columns  []string `json:"columns" yaml:"columns"`
	IsUnique bool     `json:"isUnique" yaml:"isUnique"`
	Type     string   `json:"type" yaml:"type"`
}

// ViewInfo describes a view and its defining query
type ViewInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Schema     string   `json:"schema" yaml:"schema"`
	Columns    []string `json:"columns" yaml:"columns"`
	Definition string   `json:"definition" yaml:"definition"`
	Comment    string   `json:"comment" yaml:"comment"`
}

// DatabaseInfo describes the connected database product
type DatabaseInfo struct {
	Type    string `json:"type" yaml:"type"`
	Version string `json:"version" yaml:"version"`
	Name    string `json:"name" yaml:"name"`
}

// IdentifierCase reports how a database stores unquoted identifiers
type IdentifierCase int

const (
	// IdentifiersUpper folds unquoted identifiers to upper case (SQL standard)
	IdentifiersUpper IdentifierCase = iota
	// IdentifiersLower folds unquoted identifiers to lower case (PostgreSQL)
	IdentifiersLower
	// IdentifiersMixedInsensitive stores identifiers as written but compares them case-insensitively (SQLite)
	IdentifiersMixedInsensitive
	// IdentifiersMixedSensitive stores identifiers as written and compares them case-sensitively
	IdentifiersMixedSensitive
)

// Fold applies the identifier folding rule of the database to an unquoted identifier
func (c IdentifierCase) Fold(identifier string) string {
	switch c {
	case IdentifiersUpper:
		return strings.ToUpper(identifier)
	case IdentifiersLower:
		return strings.ToLower(identifier)
	default:
		return identifier
	}
}
