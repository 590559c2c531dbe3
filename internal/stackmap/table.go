// Package stackmap keeps the out-of-band record of which values are live at
// each patch point, and serializes it for the pass that builds the final
// stack-map table.
package stackmap

import (
	"sort"
	"sync"
)

// Record lists the values live at one patch point of one function.
type Record struct {
	Function string   `msgpack:"function"`
	ID       uint64   `msgpack:"id"`
	Live     []string `msgpack:"live"`
}

// Table collects records from concurrently running builders.
type Table struct {
	mu      sync.Mutex
	records []Record
	byID    map[uint64]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byID: make(map[uint64]int)}
}

// Add appends a record. A later record for the same id replaces the earlier one.
func (t *Table) Add(r Record) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if i, ok := t.byID[r.ID]; ok {
		t.records[i] = r
		return
	}
	t.byID[r.ID] = len(t.records)
	t.records = append(t.records, r)
}

// Lookup returns the record for id.
func (t *Table) Lookup(id uint64) (Record, bool) {
	if t == nil {
		return Record{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.byID[id]
	if !ok {
		return Record{}, false
	}
	return t.records[i], true
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Records returns a copy of all records ordered by id.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	out := make([]Record, len(t.records))
	copy(out, t.records)
	t.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
