// Package idgen provides the two atomic counters that hand out ScriptID and
// ExecutorID values. Both start at 1 and are unique for the lifetime of the
// process; neither is ever reused.
package idgen

import "sync/atomic"

// Generator is an atomic, monotonically increasing 32-bit id source.
type Generator struct {
	next atomic.Uint32
}

// NewGenerator returns a Generator whose first Next() call yields 1.
func NewGenerator() *Generator {
	g := &Generator{}
	g.next.Store(0)
	return g
}

// Next returns the next id in the sequence.
func (g *Generator) Next() uint32 {
	return g.next.Add(1)
}
