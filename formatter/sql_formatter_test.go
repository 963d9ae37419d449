package formatter

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/testhelper"
)

func TestViewQueryFormatter_Format(t *testing.T) {
	formatter := NewViewQueryFormatter(wbcommand.IdentifiersMixedInsensitive, `"`)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "Multiplication without spaces",
			input: `select id, id*42 as id2 from foo`,
			expected: testhelper.TrimIndent(t, `
				SELECT
				  ID,
				  ID * 42 AS ID2
				FROM FOO`),
		},
		{
			name:  "PostgreSQL view definition",
			input: " SELECT foo.id,\n    foo.id * 42 AS id2\n   FROM foo;",
			expected: testhelper.TrimIndent(t, `
				SELECT
				  FOO.ID,
				  FOO.ID * 42 AS ID2
				FROM FOO`),
		},
		{
			name:  "Join and where",
			input: `select u.id,count(*) from users u left outer join posts p on u.id=p.user_id where p.score>=-1 group by u.id order by 2 desc`,
			expected: testhelper.TrimIndent(t, `
				SELECT
				  U.ID,
				  COUNT(*)
				FROM USERS U
				LEFT OUTER JOIN POSTS P
				  ON U.ID = P.USER_ID
				WHERE P.SCORE >= -1
				GROUP BY U.ID
				ORDER BY 2 DESC`),
		},
		{
			name:  "Literals and quoted identifiers",
			input: `select distinct "Name", 'it''s', "id" from "My Table" where x in (1,2)`,
			expected: testhelper.TrimIndent(t, `
				SELECT DISTINCT
				  NAME,
				  'it''s',
				  ID
				FROM "My Table"
				WHERE X IN (1, 2)`),
		},
		{
			name:  "Subquery stays inline",
			input: `select * from (select a from t union all select b from u) x`,
			expected: testhelper.TrimIndent(t, `
				SELECT
				  *
				FROM (SELECT A FROM T UNION ALL SELECT B FROM U) X`),
		},
		{
			name:  "Cast operator and comments",
			input: "select a::text -- first\n, b from t",
			expected: testhelper.TrimIndent(t, `
				SELECT
				  A::TEXT -- first
				  ,
				  B
				FROM T`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := formatter.Format(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestViewQueryFormatter_CaseSensitiveEngine(t *testing.T) {
	formatter := NewViewQueryFormatter(wbcommand.IdentifiersMixedSensitive, "`").WithIndent(4)

	actual, err := formatter.Format("select `testdb`.`foo`.`id` AS `id`,(`testdb`.`foo`.`id` * 42) AS `id2` from `testdb`.`foo`")
	assert.NoError(t, err)
	assert.Equal(t, "SELECT\n    `testdb`.`foo`.`id` AS `id`,\n    (`testdb`.`foo`.`id` * 42) AS `id2`\nFROM `testdb`.`foo`", actual)
}

func TestViewQueryFormatter_Error(t *testing.T) {
	_, err := NewViewQueryFormatter(wbcommand.IdentifiersLower, `"`).Format("select 'abc")
	assert.Error(t, err)
}

func TestRenderIdentifier(t *testing.T) {
	tests := []struct {
		name           string
		identifier     string
		identifierCase wbcommand.IdentifierCase
		expected       string
	}{
		{"lower folded", "foo", wbcommand.IdentifiersLower, "FOO"},
		{"lower mixed", "Foo", wbcommand.IdentifiersLower, `"Foo"`},
		{"upper folded", "FOO", wbcommand.IdentifiersUpper, "FOO"},
		{"upper lower", "foo", wbcommand.IdentifiersUpper, `"foo"`},
		{"insensitive", "MyTable", wbcommand.IdentifiersMixedInsensitive, "MYTABLE"},
		{"sensitive", "foo", wbcommand.IdentifiersMixedSensitive, `"foo"`},
		{"space", "my table", wbcommand.IdentifiersMixedInsensitive, `"my table"`},
		{"reserved", "order", wbcommand.IdentifiersLower, `"order"`},
		{"embedded quote", `a"b`, wbcommand.IdentifiersLower, `"a""b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RenderIdentifier(tt.identifier, tt.identifierCase, `"`))
		})
	}

	assert.Equal(t, "PUBLIC.V_FOO", RenderQualified("public", "v_foo", wbcommand.IdentifiersLower, `"`))
	assert.Equal(t, "V_FOO", RenderQualified("", "v_foo", wbcommand.IdentifiersLower, `"`))
}
