package pkmapping

import (
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestAddMappingLookup(t *testing.T) {
	store := NewStore()

	assert.NoError(t, store.AddMapping("junitpk", "id,name"))

	columns, ok := store.Columns("junitpk")
	assert.True(t, ok)
	assert.Equal(t, "id,name", columns)
}

func TestAddMappingNormalizesColumns(t *testing.T) {
	store := NewStore()

	assert.NoError(t, store.AddMapping("  person ", " id , name,, "))

	columns, ok := store.Columns("PERSON")
	assert.True(t, ok)
	assert.Equal(t, "id,name", columns)
	assert.Equal(t, []string{"id", "name"}, store.GetMapping()[0].ColumnList())
}

func TestAddMappingCaseInsensitive(t *testing.T) {
	store := NewStore()

	assert.NoError(t, store.AddMapping("person", "id"))
	assert.NoError(t, store.AddMapping("v_person", "id"))
	assert.NoError(t, store.AddMapping("PERSON", "person_id"))

	// replaced in place, latest spelling kept
	assert.Equal(t, []Entry{
		{Identifier: "PERSON", Columns: "person_id"},
		{Identifier: "v_person", Columns: "id"},
	}, store.GetMapping())
	assert.Equal(t, map[string]string{"PERSON": "person_id", "v_person": "id"}, store.Map())
}

func TestAddMappingErrors(t *testing.T) {
	store := NewStore()

	assert.IsError(t, store.AddMapping(" ", "id"), ErrEmptyIdentifier)
	assert.IsError(t, store.AddMapping("person", " , "), ErrEmptyColumns)
	assert.Equal(t, 0, store.Len())
}

func TestRemoveMapping(t *testing.T) {
	store := NewStore()
	assert.NoError(t, store.AddMapping("a", "x"))
	assert.NoError(t, store.AddMapping("b", "y"))
	assert.NoError(t, store.AddMapping("c", "z"))

	assert.True(t, store.RemoveMapping("B"))
	assert.False(t, store.RemoveMapping("b"))

	columns, ok := store.Columns("c")
	assert.True(t, ok)
	assert.Equal(t, "z", columns)
	assert.Equal(t, 2, store.Len())
}

func TestClear(t *testing.T) {
	store := NewStore()
	assert.NoError(t, store.AddMapping("person", "id"))

	store.Clear()

	_, ok := store.Columns("person")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, len(store.GetMapping()))
}

func TestGetMappingIsSnapshot(t *testing.T) {
	store := NewStore()
	assert.NoError(t, store.AddMapping("person", "id"))

	snapshot := store.GetMapping()
	snapshot[0].Columns = "changed"

	columns, _ := store.Columns("person")
	assert.Equal(t, "id", columns)
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 50 {
				_ = store.AddMapping("t"+string(rune('a'+i)), "id")
				store.Columns("ta")
				store.GetMapping()

				if j%10 == 0 {
					store.RemoveMapping("tb")
				}
			}
		}()
	}

	wg.Wait()

	assert.True(t, store.Len() <= 8)
}

func TestSplitColumns(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitColumns(" a ,b,"))
	assert.Equal(t, []string(nil), SplitColumns(" , "))
}

func TestReplaceAndMerge(t *testing.T) {
	store := NewStore()
	assert.NoError(t, store.AddMapping("a", "x"))
	assert.NoError(t, store.AddMapping("b", "y"))

	store.Merge([]Entry{{Identifier: "B", Columns: "z"}, {Identifier: "c", Columns: "w"}})
	assert.Equal(t, []Entry{
		{Identifier: "a", Columns: "x"},
		{Identifier: "B", Columns: "z"},
		{Identifier: "c", Columns: "w"},
	}, store.GetMapping())

	store.Replace([]Entry{{Identifier: "d", Columns: "v"}})
	assert.Equal(t, []Entry{{Identifier: "d", Columns: "v"}}, store.GetMapping())

	_, ok := store.Columns("a")
	assert.False(t, ok)
}

func TestNewEntry(t *testing.T) {
	entry, err := NewEntry(" person ", " id , name ")
	assert.NoError(t, err)
	assert.Equal(t, Entry{Identifier: "person", Columns: "id,name"}, entry)

	_, err = NewEntry("", "id")
	assert.IsError(t, err, ErrEmptyIdentifier)

	_, err = NewEntry("person", "")
	assert.IsError(t, err, ErrEmptyColumns)
}
