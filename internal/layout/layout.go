// Package layout computes the device ABI layout of kernel argument types:
// byte sizes, alignments, and the field offsets of buffer descriptors.
package layout

import (
	"warp/internal/ir"
)

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Buffer-only: offsets of the base pointer and the per-dimension
	// extent and stride fields of the descriptor.
	FieldOffsets []int
}

// Engine computes and caches layouts against one target.
type Engine struct {
	Target Target
	Types  *ir.Interner

	cache *cache
}

// New creates an Engine for the given target and interner.
func New(target Target, types *ir.Interner) *Engine {
	return &Engine{
		Target: target,
		Types:  types,
		cache:  newCache(),
	}
}

// Of returns the layout of id, computing and caching it on first use.
func (e *Engine) Of(id ir.TypeID) (TypeLayout, error) {
	if l, ok := e.cache.get(id); ok {
		return l, nil
	}
	l, err := e.compute(id)
	if err != nil {
		return TypeLayout{}, err
	}
	e.cache.put(id, &l)
	return l, nil
}
