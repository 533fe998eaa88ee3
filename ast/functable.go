package ast

import "github.com/tidwall/btree"

// FuncTable is the per-agent mapping from a single-letter function
// identifier to its definition: within one agent, each IDENT maps to
// exactly one FuncDef.
//
// It is backed by an ordered map rather than a plain Go map so that any
// consumer that walks every definition in an agent (duplicate-definition
// diagnostics, debug dumps) sees them in a stable, letter-sorted order
// regardless of declaration order or Go's randomized map iteration.
type FuncTable struct {
	tree btree.Map[byte, *FuncDef]
}

// NewFuncTable returns an empty function table.
func NewFuncTable() *FuncTable {
	return &FuncTable{}
}

// Lookup returns the definition for name, if any.
func (t *FuncTable) Lookup(name byte) (*FuncDef, bool) {
	return t.tree.Get(name)
}

// Define records def under its own name. It returns the previous
// definition for that name, if one already existed — callers use this to
// detect the duplicate-definition error.
func (t *FuncTable) Define(def *FuncDef) (*FuncDef, bool) {
	return t.tree.Set(def.Name, def)
}

// Len returns the number of distinct function names defined.
func (t *FuncTable) Len() int {
	return t.tree.Len()
}

// Each calls fn for every definition, in ascending letter order. Iteration
// stops early if fn returns false.
func (t *FuncTable) Each(fn func(def *FuncDef) bool) {
	t.tree.Scan(func(_ byte, def *FuncDef) bool {
		return fn(def)
	})
}
