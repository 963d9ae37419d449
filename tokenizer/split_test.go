package tokenizer

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name      string
		script    string
		delimiter string
		expected  []Statement
	}{
		{
			name:      "semicolon",
			script:    "create table foo (id integer);\ninsert into foo values (1);\n",
			delimiter: ";",
			expected: []Statement{
				{Text: "create table foo (id integer)", Line: 1},
				{Text: "insert into foo values (1)", Line: 2},
			},
		},
		{
			name:      "delimiter inside literal and comment",
			script:    "insert into t values ('a;b'); -- done;\n/* x; */ wbdefinepk t=id",
			delimiter: ";",
			expected: []Statement{
				{Text: "insert into t values ('a;b')", Line: 1},
				{Text: "-- done;\n/* x; */ wbdefinepk t=id", Line: 2},
			},
		},
		{
			name:      "comment only statements are dropped",
			script:    "select 1;\n-- trailing comment\n;",
			delimiter: ";",
			expected: []Statement{
				{Text: "select 1", Line: 1},
			},
		},
		{
			name:      "slash delimiter",
			script:    "begin\n  x := a / b;\nend;\n/\nselect 1\n/",
			delimiter: "/",
			expected: []Statement{
				{Text: "begin\n  x := a / b;\nend;", Line: 1},
				{Text: "select 1", Line: 5},
			},
		},
		{
			name:      "default delimiter",
			script:    "select 1;select 2",
			delimiter: "",
			expected: []Statement{
				{Text: "select 1", Line: 1},
				{Text: "select 2", Line: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statements, err := SplitStatements(tt.script, tt.delimiter)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, statements)
		})
	}
}

func TestSplitStatementsError(t *testing.T) {
	_, err := SplitStatements("select 'abc", ";")
	assert.IsError(t, err, ErrUnterminatedString)
}

func TestLeadingWord(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		word      string
		rest      string
		ok        bool
	}{
		{"plain", "wbdefinepk junitpk=id,name", "wbdefinepk", " junitpk=id,name", true},
		{"leading comment", "-- define\n  /* pk */ WbDefinePk t=id", "WbDefinePk", " t=id", true},
		{"no remainder", "wblistpkdef", "wblistpkdef", "", true},
		{"not a word", "(select 1)", "", "", false},
		{"empty", "   ", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, rest, ok := LeadingWord(tt.statement)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.word, word)
			assert.Equal(t, tt.rest, rest)
		})
	}
}
