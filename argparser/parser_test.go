package argparser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func newCopyParser() *ArgumentParser {
	return NewArgumentParser().
		AddArgument("sourceTable").
		AddArgument("targetTable").
		AddArgument("columns", KindMapping).
		AddArgument("commitEvery", KindInteger).
		AddArgument("deleteTarget", KindBoolean).
		AddArgument("keyColumns", KindList)
}

func TestParseMappingParameter(t *testing.T) {
	parser := newCopyParser()

	args := parser.Parse(`-sourceTable=person -columns='id/"id", firstname/"firstname", lastname/"lastname"'`)
	assert.NoError(t, args.Err())
	assert.Equal(t, "person", args.Value("sourcetable"))

	mapping, ok := args.Mapping("columns")
	assert.True(t, ok)
	assert.Equal(t, 3, mapping.Len())
	assert.Equal(t, []string{"id", "firstname", "lastname"}, mapping.Keys())

	for _, key := range mapping.Keys() {
		value, found := mapping.Get(key)
		assert.True(t, found)
		assert.Equal(t, `"`+key+`"`, value)
	}
}

func TestParseMappingQuotedKeyForm(t *testing.T) {
	// every entry must come back as the quoted form of its key, whatever the order
	inputs := []string{
		`-columns='A/"A", B/"B"'`,
		`-columns='B/"B",A/"A"'`,
		`-columns="A / 'A' ,  B/'B'"`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			args := newCopyParser().Parse(input)
			assert.NoError(t, args.Err())

			mapping, ok := args.Mapping("columns")
			assert.True(t, ok)
			assert.Equal(t, 2, mapping.Len())

			for _, entry := range mapping.Entries() {
				quote := entry.Value[:1]
				assert.Equal(t, quote+entry.Key+quote, entry.Value)
			}
		})
	}
}

func TestParseMappingEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []MappingEntry
		err      error
	}{
		{
			name:     "slash inside quoted value",
			input:    `id/"a/b", name/'x, y'`,
			expected: []MappingEntry{{Key: "id", Value: `"a/b"`}, {Key: "name", Value: "'x, y'"}},
		},
		{
			name:     "expression value kept verbatim",
			input:    `total/price * 2`,
			expected: []MappingEntry{{Key: "total", Value: "price * 2"}},
		},
		{
			name:     "duplicate key last wins",
			input:    `id/"first", ID/"second", name/"n"`,
			expected: []MappingEntry{{Key: "ID", Value: `"second"`}, {Key: "name", Value: `"n"`}},
		},
		{
			name:     "empty segments ignored",
			input:    `id/"id",, `,
			expected: []MappingEntry{{Key: "id", Value: `"id"`}},
		},
		{
			name:  "missing separator",
			input: `id/"id", name`,
			err:   ErrMissingMappingSeparator,
		},
		{
			name:  "empty key",
			input: `/"id"`,
			err:   ErrEmptyMappingKey,
		},
		{
			name:  "unterminated quote",
			input: `id/"id`,
			err:   ErrUnterminatedQuote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapping, err := ParseMapping(tt.input)
			if tt.err != nil {
				assert.IsError(t, err, tt.err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, mapping.Entries())
		})
	}
}

func TestParseUnknownParameter(t *testing.T) {
	args := newCopyParser().Parse("-sourceTable=a -bogus=1 -other")

	assert.Error(t, args.Err())
	assert.IsError(t, args.Err(), ErrUnknownParameter)
	assert.Equal(t, []string{"bogus", "other"}, args.UnknownParameters())
	assert.Equal(t, "a", args.Value("sourceTable"))
	assert.False(t, args.Has("bogus"))
}

func TestParseTypedValues(t *testing.T) {
	args := newCopyParser().Parse(`-commitEvery=100 -deleteTarget -keyColumns='id, "Name"' -targetTable="my table"`)
	assert.NoError(t, args.Err())

	assert.Equal(t, 100, args.Int("commitEvery", 0))
	assert.True(t, args.Bool("deleteTarget", false))
	assert.Equal(t, []string{"id", "Name"}, args.List("keyColumns"))
	assert.Equal(t, "my table", args.Value("targetTable"))
	assert.Equal(t, []string{"commitevery", "deletetarget", "keycolumns", "targettable"}, args.Names())
}

func TestParseInvalidValues(t *testing.T) {
	args := newCopyParser().Parse("-commitEvery=abc -deleteTarget=maybe")

	assert.IsError(t, args.Err(), ErrInvalidValue)
	assert.Equal(t, 42, args.Int("commitEvery", 42))
	assert.False(t, args.Bool("deleteTarget", false))
}

func TestParseNonArguments(t *testing.T) {
	args := NewArgumentParser().AddArgument("file").Parse(`person 'v person' -file=out.txt -5`)
	assert.NoError(t, args.Err())
	assert.Equal(t, []string{"person", "v person", "-5"}, args.NonArguments())
	assert.Equal(t, "out.txt", args.Value("FILE"))
}

func TestParseUnterminatedQuote(t *testing.T) {
	args := newCopyParser().Parse(`-sourceTable='abc`)
	assert.IsError(t, args.Err(), ErrUnterminatedQuote)
	assert.True(t, args.HasErrors())
}

func TestParseIsStateless(t *testing.T) {
	parser := newCopyParser()

	first := parser.Parse("-sourceTable=a")
	second := parser.Parse("-targetTable=b")

	assert.True(t, first.Has("sourceTable"))
	assert.False(t, second.Has("sourceTable"))
	assert.True(t, second.Has("targetTable"))
}

func TestRegisteredNames(t *testing.T) {
	parser := newCopyParser()

	assert.True(t, parser.IsRegistered("SOURCETABLE"))
	assert.False(t, parser.IsRegistered("file"))

	kind, ok := parser.Kind("columns")
	assert.True(t, ok)
	assert.Equal(t, KindMapping, kind)
	assert.Equal(t, "mapping", kind.String())
	assert.Equal(t, []string{"sourceTable", "targetTable", "columns", "commitEvery", "deleteTarget", "keyColumns"}, parser.Names())
}

func TestParseKeepsRawWords(t *testing.T) {
	args := newCopyParser().Parse(`"main"."foo" 'v person' -sourceTable="Public"."Person"`)
	assert.NoError(t, args.Err())

	assert.Equal(t, []string{`"main"."foo"`, `'v person'`}, args.RawNonArguments())
	assert.Equal(t, []string{`main"."foo`, "v person"}, args.NonArguments())
	assert.Equal(t, `"Public"."Person"`, args.RawValue("sourceTable"))
	assert.Equal(t, "", args.RawValue("targetTable"))
}
