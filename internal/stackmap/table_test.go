package stackmap

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestTable_RecordsSortedByID(t *testing.T) {
	tab := NewTable()
	tab.Add(Record{Function: "g", ID: 7, Live: []string{"%1"}})
	tab.Add(Record{Function: "f", ID: 2, Live: []string{"%a", "%b"}})
	tab.Add(Record{Function: "f", ID: 4})

	got := tab.Records()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []uint64{2, 4, 7} {
		if got[i].ID != want {
			t.Errorf("records[%d].ID = %d, want %d", i, got[i].ID, want)
		}
	}
}

func TestTable_AddReplacesSameID(t *testing.T) {
	tab := NewTable()
	tab.Add(Record{Function: "f", ID: 1, Live: []string{"%x"}})
	tab.Add(Record{Function: "f", ID: 1, Live: []string{"%y"}})

	if tab.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tab.Len())
	}
	r, ok := tab.Lookup(1)
	if !ok || !reflect.DeepEqual(r.Live, []string{"%y"}) {
		t.Fatalf("Lookup(1) = %+v, %v", r, ok)
	}
	if _, ok := tab.Lookup(99); ok {
		t.Fatalf("Lookup(99) should miss")
	}
}

func TestTable_ConcurrentAdd(t *testing.T) {
	tab := NewTable()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			tab.Add(Record{Function: "f", ID: id})
		}(uint64(i))
	}
	wg.Wait()
	if tab.Len() != 64 {
		t.Fatalf("Len() = %d, want 64", tab.Len())
	}
}

func TestNilTableIsInert(t *testing.T) {
	var tab *Table
	tab.Add(Record{ID: 1})
	if tab.Len() != 0 || tab.Records() != nil {
		t.Fatalf("nil table should stay empty")
	}
}

func TestCodec_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "stackmaps.mp")
	want := []Record{
		{Function: "f", ID: 0, Live: []string{"%0"}},
		{Function: "g", ID: 1, Live: []string{"%obj", "%1"}},
	}
	if err := WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestDecode_RejectsOtherSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&payload{Schema: schemaVersion + 1}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(&buf); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("Decode error = %v, want ErrSchemaMismatch", err)
	}
}
