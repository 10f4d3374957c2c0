package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Champii/Rock-sub001/internal/ident"
)

func TestHirMapBindAndLookup(t *testing.T) {
	m := NewHirMap()
	m.Bind(ident.HirId(1), ident.NodeId(10))

	nodeID, ok := m.NodeOf(ident.HirId(1))
	assert.True(t, ok)
	assert.Equal(t, ident.NodeId(10), nodeID)

	hirID, ok := m.HirOf(ident.NodeId(10))
	assert.True(t, ok)
	assert.Equal(t, ident.HirId(1), hirID)
}

func TestHirMapDuplicateMappingCopiesNodeId(t *testing.T) {
	m := NewHirMap()
	m.Bind(ident.HirId(1), ident.NodeId(10))
	m.DuplicateHirMapping(ident.HirId(1), ident.HirId(2))

	nodeID, ok := m.NodeOf(ident.HirId(2))
	assert.True(t, ok)
	assert.Equal(t, ident.NodeId(10), nodeID)
}

func TestTraitSolverResolvePrefersInherent(t *testing.T) {
	s := NewTraitSolver()
	s.AddTrait("Show", []string{"show"})
	s.AddImplementor("Point", "Show")

	inherent := &FunctionDecl{Name: "show_inherent"}
	traitImpl := &FunctionDecl{Name: "show_trait"}

	s.RegisterMethod("Point", "", "show", inherent)
	s.RegisterMethod("Point", "Show", "show", traitImpl)

	fn, ok := s.Resolve("Point", "show", []string{"Show"})
	assert.True(t, ok)
	assert.Same(t, inherent, fn)
}

func TestTraitSolverResolveFallsBackToTraitImpl(t *testing.T) {
	s := NewTraitSolver()
	s.AddTrait("Show", []string{"show"})
	s.AddImplementor("Point", "Show")

	traitImpl := &FunctionDecl{Name: "show_trait"}
	s.RegisterMethod("Point", "Show", "show", traitImpl)

	fn, ok := s.Resolve("Point", "show", []string{"Show"})
	assert.True(t, ok)
	assert.Same(t, traitImpl, fn)
}

func TestDoesImplFn(t *testing.T) {
	s := NewTraitSolver()
	s.AddTrait("Show", []string{"show"})
	s.AddImplementor("Point", "Show")

	assert.True(t, s.DoesImplFn("Point", "show"))
	assert.False(t, s.DoesImplFn("Point", "missing"))
	assert.False(t, s.DoesImplFn("Other", "show"))
}
