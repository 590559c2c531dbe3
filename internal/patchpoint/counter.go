// Package patchpoint issues the identifiers that tie a safepoint call site to
// its stack-map record.
//
// A Counter is owned by the compilation process: the driver creates one and
// hands it to every builder it starts, so identifiers stay unique across
// functions compiled concurrently.
package patchpoint

import "sync/atomic"

// Counter is a monotonically increasing identifier source, safe for concurrent use.
type Counter struct {
	issued atomic.Uint64
}

// NewCounter returns a counter whose first identifier is 0.
func NewCounter() *Counter {
	return &Counter{}
}

// Next returns a fresh identifier.
func (c *Counter) Next() uint64 {
	return c.issued.Add(1) - 1
}

// Issued returns how many identifiers have been handed out.
func (c *Counter) Issued() uint64 {
	return c.issued.Load()
}
