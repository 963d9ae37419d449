package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/wbcommand/pkmapping"
)

func TestDefinePk(t *testing.T) {
	store := pkmapping.NewStore()
	cmd := NewDefinePk(store)

	result := cmd.Execute(t.Context(), nil, " junitpk=id,name")
	assert.True(t, result.Success)
	assert.Equal(t, []string{"Primary key for junitpk defined as: id,name"}, result.Messages)

	columns, ok := store.Columns("JUNITPK")
	assert.True(t, ok)
	assert.Equal(t, "id,name", columns)

	// redefinition keeps one entry and the latest spelling
	result = cmd.Execute(t.Context(), nil, "JunitPk = id")
	assert.True(t, result.Success)
	assert.Equal(t, []pkmapping.Entry{{Identifier: "JunitPk", Columns: "id"}}, store.GetMapping())

	// an empty column list fails and keeps the existing mapping
	result = cmd.Execute(t.Context(), nil, " junitpk=")
	assert.False(t, result.Success)
	assert.IsError(t, result.Err, pkmapping.ErrEmptyColumns)
	assert.Equal(t, []pkmapping.Entry{{Identifier: "JunitPk", Columns: "id"}}, store.GetMapping())

	result = cmd.Execute(t.Context(), nil, "other= , ")
	assert.False(t, result.Success)
	assert.IsError(t, result.Err, pkmapping.ErrEmptyColumns)
	assert.Equal(t, 1, store.Len())
}

func TestDefinePkErrors(t *testing.T) {
	cmd := NewDefinePk(pkmapping.NewStore())

	result := cmd.Execute(t.Context(), nil, " junitpk")
	assert.False(t, result.Success)
	assert.IsError(t, result.Err, ErrMissingParameter)

	result = cmd.Execute(t.Context(), nil, " =id")
	assert.False(t, result.Success)
	assert.IsError(t, result.Err, pkmapping.ErrEmptyIdentifier)
}

func TestLoadPkMappingFailureKeepsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.def")
	require.NoError(t, os.WriteFile(path, []byte("a=id\nb=\nc=id\n"), 0o644))

	store := pkmapping.NewStore()
	require.NoError(t, store.AddMapping("person", "id"))

	result := NewLoadPkMapping(store, "").Execute(t.Context(), nil, " -file="+path)
	assert.False(t, result.Success)
	assert.IsError(t, result.Err, pkmapping.ErrEmptyColumns)
	assert.Equal(t, []pkmapping.Entry{{Identifier: "person", Columns: "id"}}, store.GetMapping())
}

func TestSaveLoadAndListPkMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.def")

	store := pkmapping.NewStore()
	require.NoError(t, store.AddMapping("person", "id"))
	require.NoError(t, store.AddMapping("v_person", "id, name"))

	result := NewSavePkMapping(store, "").Execute(t.Context(), nil, " -file="+path)
	assert.True(t, result.Success, result.Message())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Primary key mapping for SQL Workbench/J\nperson=id\nv_person=id,name\n", string(data))

	other := pkmapping.NewStore()
	require.NoError(t, other.AddMapping("stale", "x"))

	result = NewLoadPkMapping(other, path).Execute(t.Context(), nil, "")
	assert.True(t, result.Success, result.Message())
	assert.Equal(t, store.GetMapping(), other.GetMapping())

	result = NewListPkDef(other).Execute(t.Context(), nil, "")
	assert.Equal(t, []string{"person=id", "v_person=id,name"}, result.Messages)

	other.Clear()

	result = NewListPkDef(other).Execute(t.Context(), nil, "")
	assert.Equal(t, []string{"No primary key mapping defined"}, result.Messages)
}

func TestSavePkMappingErrors(t *testing.T) {
	store := pkmapping.NewStore()

	result := NewSavePkMapping(store, "").Execute(t.Context(), nil, "")
	assert.False(t, result.Success)
	assert.IsError(t, result.Err, ErrMissingParameter)

	result = NewSavePkMapping(store, "").Execute(t.Context(), nil, " -file="+filepath.Join(t.TempDir(), "missing", "x.def"))
	assert.False(t, result.Success)
	assert.IsError(t, result.Err, pkmapping.ErrMappingIO)

	result = NewLoadPkMapping(store, "").Execute(t.Context(), nil, " -bogus=1")
	assert.False(t, result.Success)
}
