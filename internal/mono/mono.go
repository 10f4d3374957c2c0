// Package mono implements monomorphization (spec.md §4.6): each distinct
// concrete signature a polymorphic function is used at gets one copy of
// that function's body, specialized to the signature internal/infer
// worked out for those uses. A worklist drains fixed-point style,
// since a freshly specialized body can itself contain calls to other
// (or the same) polymorphic functions.
package mono

import (
	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/hir"
	"github.com/Champii/Rock-sub001/internal/ident"
)

// Mono holds one compilation's monomorphization state.
type Mono struct {
	root  *hir.Root
	alloc *ident.Allocator

	// originals indexes every top-level function by its own HirId.
	originals map[ident.HirId]*hir.FunctionDecl

	// specialized memoizes one clone per (original, concrete signature)
	// pair already produced.
	specialized map[specKey]*hir.FunctionDecl

	worklist []specTask

	// pending records a use site inside a freshly cloned body that
	// targets a specialization not yet produced at clone time; resolved
	// once the worklist drains.
	pending []pendingLink

	// visited marks a monomorphic function's body as already walked for
	// reachability, so a recursive or mutually-recursive call graph
	// terminates instead of looping.
	visited map[ident.HirId]bool
}

type specKey struct {
	original ident.HirId
	sig      string
}

type specTask struct {
	original *hir.FunctionDecl
	sig      *ast.FuncType
}

type pendingLink struct {
	useID ident.HirId
	key   specKey
}

// Run specializes every polymorphic function call reachable from the
// unique top-level `main`, then drops the generic originals main's call
// graph never reaches (spec.md §4.6 steps 1, 2 and 6). main must exist
// and its signature must already be ground by the time mono runs
// (inference solves it like any other function with no callers of its
// own to infer argument types from); either failing is diagnosed here
// rather than silently specializing nothing.
func Run(root *hir.Root, alloc *ident.Allocator, diags *diag.Diagnostics) {
	m := &Mono{
		root:        root,
		alloc:       alloc,
		originals:   map[ident.HirId]*hir.FunctionDecl{},
		specialized: map[specKey]*hir.FunctionDecl{},
		visited:     map[ident.HirId]bool{},
	}

	for _, top := range root.TopLevels {
		if top.Kind == hir.HirFunction {
			m.originals[top.Func.Id] = top.Func
		}
	}

	main := m.findMain()
	if main == nil {
		diags.Push(diag.MissingMain())
		return
	}
	if isPolymorphic(main.Signature) {
		diags.Push(diag.MainNotGround(m.root.SpanOf(main.Id), main.Name))
		return
	}

	m.visited[main.Id] = true
	m.seedReachable(main.Body)
	m.drain()
	m.linkPending()
	m.relinkCallers()
	m.dropUnreachableGenerics()
}

func isPolymorphic(sig *ast.FuncType) bool {
	return sig == nil || !sig.IsSolved()
}

// findMain locates the unique top-level function named "main"; mangling
// (internal/mangle) only renames it to its backend symbol after mono
// has finished, so at this stage the name is still the surface "main".
func (m *Mono) findMain() *hir.FunctionDecl {
	for _, top := range m.root.TopLevels {
		if top.Kind == hir.HirFunction && top.Func.Name == "main" {
			return top.Func
		}
	}
	return nil
}

// seedReachable walks every name use in e, call operators and bare
// references alike (`main =\n  useInt`), the transitive closure of
// main's call graph: a use of a polymorphic function is enqueued for
// specialization (spec.md §4.6 step 2); a use of an as-yet-unvisited
// monomorphic function recurses into its body, so a generic only called
// from deep inside an ordinary helper is still discovered. Each node's
// own HirID is looked up rather than only *hir.Ident's, since a trait
// method call lowers to Op=*hir.StructAccess (lower.go) and
// internal/infer records that call's resolution against the
// StructAccess node's own HirId once it resolves the dispatch.
func (m *Mono) seedReachable(e hir.Expr) {
	walk(e, func(n hir.Expr) {
		opID := n.HirID()
		declID, ok := m.root.Resolutions[opID]
		if !ok {
			return
		}
		target, ok := m.originals[declID]
		if !ok {
			return
		}
		if isPolymorphic(target.Signature) {
			sig, ok := m.root.NodeTypes[opID].(*ast.FuncType)
			if !ok || !sig.IsSolved() {
				return
			}
			m.enqueue(target, sig)
			return
		}
		if !m.visited[target.Id] {
			m.visited[target.Id] = true
			m.seedReachable(target.Body)
		}
	})
}

func (m *Mono) enqueue(target *hir.FunctionDecl, sig *ast.FuncType) {
	key := specKey{original: target.Id, sig: sig.String()}
	if _, done := m.specialized[key]; done {
		return
	}
	for _, t := range m.worklist {
		if t.original.Id == target.Id && t.sig.String() == sig.String() {
			return
		}
	}
	m.worklist = append(m.worklist, specTask{original: target, sig: sig})
}

func (m *Mono) drain() {
	for len(m.worklist) > 0 {
		task := m.worklist[0]
		m.worklist = m.worklist[1:]

		key := specKey{original: task.original.Id, sig: task.sig.String()}
		if _, done := m.specialized[key]; done {
			continue
		}
		m.specialize(task.original, task.sig, key)
	}
}

// specialize clones original's argument list and body under fresh
// HirIds, types the clone with sig, and registers it as a reachable
// top-level function. It registers itself in m.specialized before
// cloning the body, so a self-recursive call discovered while walking
// the body resolves back to this same clone instead of re-enqueuing.
func (m *Mono) specialize(original *hir.FunctionDecl, sig *ast.FuncType, key specKey) {
	cloneID := m.alloc.NextHirId()
	m.root.Map.DuplicateHirMapping(original.Id, cloneID)
	if span, ok := m.root.Spans[original.Id]; ok {
		m.root.Spans[cloneID] = span
	}

	clone := &hir.FunctionDecl{Id: cloneID, Name: original.Name, Signature: sig}
	m.specialized[key] = clone

	c := &cloner{m: m}
	for i, arg := range original.Arguments {
		argID := c.fresh(arg.Id)
		clone.Arguments = append(clone.Arguments, &hir.Argument{Id: argID, Name: arg.Name})
		if i < len(sig.Arguments) {
			m.root.NodeTypes[argID] = sig.Arguments[i]
		}
	}

	clone.Body = c.clone(original.Body)
	m.root.NodeTypes[cloneID] = sig
	m.root.register(clone)
	m.root.TopLevels = append(m.root.TopLevels, &hir.TopLevel{Kind: hir.HirFunction, Id: cloneID, Func: clone})

	// Rewrite every use site inside the clone: a reference to a local
	// (an argument, an assign, a for-in binding) was remapped by the
	// cloner and just needs the same remap applied to its resolution; a
	// reference to a polymorphic function needs its own specialization,
	// queued here, keyed on the concrete signature infer already solved
	// for that exact call site against the *original* (pre-clone) node.
	// Every cloned node (not just *hir.Ident) goes through c.fresh, so
	// oldOf resolves for a trait-dispatched *hir.StructAccess use site
	// exactly as it does for a plain identifier.
	walk(clone.Body, func(n hir.Expr) {
		useID := n.HirID()
		oldUseID, ok := c.oldOf(useID)
		if !ok {
			return
		}
		declID, ok := m.root.Resolutions[oldUseID]
		if !ok {
			return
		}
		if newDeclID, local := c.oldToNew[declID]; local {
			m.root.Resolutions[useID] = newDeclID
			return
		}
		target, ok := m.originals[declID]
		if !ok {
			return
		}
		if !isPolymorphic(target.Signature) {
			// Monomorphic callee: the clone's reference targets exactly
			// the same declaration the original did, but it may be the
			// first time this callee's own call graph gets walked.
			m.root.Resolutions[useID] = declID
			if !m.visited[target.Id] {
				m.visited[target.Id] = true
				m.seedReachable(target.Body)
			}
			return
		}
		callSig, ok := m.root.NodeTypes[oldUseID].(*ast.FuncType)
		if !ok || !callSig.IsSolved() {
			return
		}
		nestedKey := specKey{original: target.Id, sig: callSig.String()}
		m.enqueue(target, callSig)
		m.pending = append(m.pending, pendingLink{useID: useID, key: nestedKey})
	})
}

func (m *Mono) linkPending() {
	for _, link := range m.pending {
		if fn, ok := m.specialized[link.key]; ok {
			m.root.Resolutions[link.useID] = fn.Id
		}
	}
}

// relinkCallers retargets every call from an original, never-cloned
// function body (the ordinary, non-generic functions whose own bodies
// mono leaves alone) that invokes a polymorphic function: its
// resolution is rewritten to point at the one specialized clone infer
// already solved a concrete signature for at that call site. Calls
// made from inside a cloned body are relinked as part of specialize
// itself; this pass covers every caller that was never cloned.
func (m *Mono) relinkCallers() {
	for _, fn := range m.originals {
		if isPolymorphic(fn.Signature) {
			continue
		}
		walk(fn.Body, func(n hir.Expr) {
			useID := n.HirID()
			declID, ok := m.root.Resolutions[useID]
			if !ok {
				return
			}
			target, ok := m.originals[declID]
			if !ok || !isPolymorphic(target.Signature) {
				return
			}
			sig, ok := m.root.NodeTypes[useID].(*ast.FuncType)
			if !ok || !sig.IsSolved() {
				return
			}
			key := specKey{original: target.Id, sig: sig.String()}
			if clone, ok := m.specialized[key]; ok {
				m.root.Resolutions[useID] = clone.Id
			}
		})
	}
}

// dropUnreachableGenerics removes every remaining polymorphic original
// (spec.md §4.6 step 6). By the time this runs, every call site main's
// call graph actually reaches has already been relinked to a concrete
// clone (seedReachable enqueued it, drain specialized it, relinkCallers
// or specialize itself repointed the caller) — so a still-polymorphic
// original left in TopLevels is, by construction, unreachable from
// main: either nothing ever called it, or only dead code unreachable
// from main did, and that dead code's now-dangling resolution is
// harmless since nothing live ever follows it.
func (m *Mono) dropUnreachableGenerics() {
	var kept []*hir.TopLevel
	for _, top := range m.root.TopLevels {
		if top.Kind == hir.HirFunction && isPolymorphic(top.Func.Signature) {
			delete(m.root.Arena, top.Func.Id)
			continue
		}
		kept = append(kept, top)
	}
	m.root.TopLevels = kept
}
