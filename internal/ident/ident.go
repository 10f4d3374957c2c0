// Package ident allocates the two identity kinds the pipeline hands out:
// NodeId at parse time and HirId at lowering time.
//
// The original compiler kept these as process-wide atomic counters. A
// per-compilation Allocator replaces that: each call to compiler.Compile*
// constructs a fresh Allocator, so two compilations running in the same
// process (two test cases, or a stdlib probe alongside a user file) never
// alias ids.
package ident

// NodeId identifies an AST node. Assigned monotonically at parse time.
type NodeId uint64

// HirId identifies an HIR node. Assigned monotonically at lowering time.
type HirId uint64

// Allocator hands out fresh NodeIds and HirIds for a single compilation.
type Allocator struct {
	nextNode uint64
	nextHir  uint64
}

// NewAllocator returns an Allocator with both counters at zero.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// NextNodeId returns a fresh, never-before-issued NodeId.
func (a *Allocator) NextNodeId() NodeId {
	id := a.nextNode
	a.nextNode++
	return NodeId(id)
}

// NextHirId returns a fresh, never-before-issued HirId.
func (a *Allocator) NextHirId() HirId {
	id := a.nextHir
	a.nextHir++
	return HirId(id)
}
