// Package hir defines the lowered intermediate representation produced
// by internal/lower: a flatter tree addressed by HirId rather than by
// AST node pointers, the shape internal/infer, internal/mono and
// internal/mangle all operate on.
package hir

import (
	"fmt"

	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/ident"
)

// Node is the base interface every HIR node implements: a way to get
// its own HirId, for arena lookups and diagnostics.
type Node interface {
	HirID() ident.HirId
}

// Root is the output of lowering one compilation: every module's
// declarations plus the bookkeeping tables inference, monomorphization
// and mangling mutate in place.
type Root struct {
	TopLevels []*TopLevel

	// Arena holds every HIR node reachable from TopLevels, keyed by its
	// own HirId, so later passes can look a node up without walking the
	// tree again.
	Arena map[ident.HirId]Node

	// Resolutions lifts the AST-level resolution map to HIR identities:
	// a use's HirId maps to its declaration's HirId.
	Resolutions map[ident.HirId]ident.HirId

	// NodeTypes is populated by internal/infer: every expression,
	// identifier and function gets an entry once inference completes.
	NodeTypes map[ident.HirId]ast.Type

	// Spans records the source Span each HirId was lowered from, so
	// later passes (chiefly internal/infer's diagnostics) can attribute
	// a HIR node back to source text. A synthetic node introduced by
	// lowering itself (e.g. a desugared else-less If's empty Block)
	// carries the span of the surface node it was desugared from.
	Spans map[ident.HirId]ast.Span

	Map *HirMap

	TraitSolver *TraitSolver
}

// NewRoot returns an empty Root ready for lowering to populate.
func NewRoot() *Root {
	return &Root{
		Arena:       map[ident.HirId]Node{},
		Resolutions: map[ident.HirId]ident.HirId{},
		NodeTypes:   map[ident.HirId]ast.Type{},
		Spans:       map[ident.HirId]ast.Span{},
		Map:         NewHirMap(),
	}
}

func (r *Root) register(n Node) {
	r.Arena[n.HirID()] = n
}

// SpanOf looks up the source Span id was lowered from. A zero Span
// comes back for an id with no recorded span (there should be none in
// practice; every lowered or cloned node gets one).
func (r *Root) SpanOf(id ident.HirId) ast.Span {
	return r.Spans[id]
}

// HirMap holds the bidirectional HirId <-> NodeId correspondence
// lowering establishes, plus the bookkeeping monomorphization needs to
// fabricate fresh copies of a HIR subtree under new ids.
type HirMap struct {
	hirToNode map[ident.HirId]ident.NodeId
	nodeToHir map[ident.NodeId]ident.HirId
}

func NewHirMap() *HirMap {
	return &HirMap{hirToNode: map[ident.HirId]ident.NodeId{}, nodeToHir: map[ident.NodeId]ident.HirId{}}
}

// Bind records that hirID was allocated while lowering nodeID.
func (m *HirMap) Bind(hirID ident.HirId, nodeID ident.NodeId) {
	m.hirToNode[hirID] = nodeID
	m.nodeToHir[nodeID] = hirID
}

func (m *HirMap) NodeOf(hirID ident.HirId) (ident.NodeId, bool) {
	n, ok := m.hirToNode[hirID]
	return n, ok
}

func (m *HirMap) HirOf(nodeID ident.NodeId) (ident.HirId, bool) {
	h, ok := m.nodeToHir[nodeID]
	return h, ok
}

// DuplicateHirMapping records a fresh HirId for the same originating
// NodeId as original, used when monomorphization clones a polymorphic
// function body under a new identity.
func (m *HirMap) DuplicateHirMapping(original, fresh ident.HirId) {
	if nodeID, ok := m.hirToNode[original]; ok {
		m.Bind(fresh, nodeID)
	}
}

// TopLevelKind discriminates TopLevel, mirroring ast.TopLevelKind minus
// the Mod variant (sub-modules are flattened into one TopLevels list by
// lowering) and Prototype (bodyless declarations carry no HIR; the
// resolver only declares their names).
type TopLevelKind int

const (
	HirFunction TopLevelKind = iota
	HirStruct
)

// TopLevel wraps one lowered top-level declaration.
type TopLevel struct {
	Kind   TopLevelKind
	Id     ident.HirId
	Func   *FunctionDecl
	Struct *StructDecl
}

func (t *TopLevel) HirID() ident.HirId { return t.Id }

// FunctionDecl is a lowered function: its name, the HirIds of its
// parameters, and a body Expr. Mangling rewrites Name in place once
// monomorphization has produced one concrete copy per call-site
// signature.
type FunctionDecl struct {
	Id        ident.HirId
	Name      string
	Arguments []*Argument
	Body      Expr
	Signature *ast.FuncType
}

func (f *FunctionDecl) HirID() ident.HirId { return f.Id }

// Argument is one lowered formal parameter.
type Argument struct {
	Id   ident.HirId
	Name string
}

func (a *Argument) HirID() ident.HirId { return a.Id }

// StructDecl is a lowered struct declaration.
type StructDecl struct {
	Id   ident.HirId
	Name string
	Type *ast.StructType
}

func (s *StructDecl) HirID() ident.HirId { return s.Id }

// Expr is the sum type every lowered expression implements. Unlike the
// AST's Primary/Secondary split, HIR collapses call/access/index chains
// into explicit, directly nested nodes (spec.md §4.4).
type Expr interface {
	Node
	exprNode()
}

// Block is a sequence of statements; its last expression is the
// block's value (Void if the last statement wasn't one, or if empty).
type Block struct {
	Id    ident.HirId
	Stmts []Expr
}

func (b *Block) HirID() ident.HirId { return b.Id }
func (*Block) exprNode()            {}

// Lit is a scalar literal.
type Lit struct {
	Id    ident.HirId
	Kind  ast.LiteralKind
	Value interface{}
}

func (l *Lit) HirID() ident.HirId { return l.Id }
func (*Lit) exprNode()            {}

// Ident is an identifier use; its resolution lives in Root.Resolutions.
type Ident struct {
	Id   ident.HirId
	Name string
}

func (i *Ident) HirID() ident.HirId { return i.Id }
func (*Ident) exprNode()            {}

// FunctionCall is `op(args...)`, the HIR form of collapsed
// Primary+SecondaryArguments. Op is itself an Expr so the callee may be
// a plain identifier, a field access, or a nested call's result.
type FunctionCall struct {
	Id   ident.HirId
	Op   Expr
	Args []Expr
}

func (c *FunctionCall) HirID() ident.HirId { return c.Id }
func (*FunctionCall) exprNode()            {}

// StructAccess is `target.field`, the HIR form of a collapsed
// SecondarySelector.
type StructAccess struct {
	Id     ident.HirId
	Target Expr
	Field  string
}

func (s *StructAccess) HirID() ident.HirId { return s.Id }
func (*StructAccess) exprNode()            {}

// ArrayIndex is `target[index]`, the HIR form of a collapsed
// SecondaryIndex.
type ArrayIndex struct {
	Id     ident.HirId
	Target Expr
	Index  Expr
}

func (a *ArrayIndex) HirID() ident.HirId { return a.Id }
func (*ArrayIndex) exprNode()            {}

// StructInit is `Name { field: value, ... }`, in declaration order.
type StructInit struct {
	Id     ident.HirId
	Name   string
	Fields []StructInitField
}

type StructInitField struct {
	Name  string
	Value Expr
}

func (s *StructInit) HirID() ident.HirId { return s.Id }
func (*StructInit) exprNode()            {}

// If is always total after lowering: Else is never nil (an else-less
// surface `if` lowers to an empty Body per spec.md §4.4).
type If struct {
	Id        ident.HirId
	Predicate Expr
	Then      *Block
	Else      *Block
}

func (i *If) HirID() ident.HirId { return i.Id }
func (*If) exprNode()            {}

// Assign is a local binding introduction or rebind. NameId is the
// binding's own HirId (distinct from Id, the statement's), the one
// internal/resolve's Resolutions map points a later use at.
type Assign struct {
	Id     ident.HirId
	NameId ident.HirId
	Name   string
	Value  Expr
}

func (a *Assign) HirID() ident.HirId { return a.Id }
func (*Assign) exprNode()            {}

// While is `while cond { body }`.
type While struct {
	Id   ident.HirId
	Cond Expr
	Body *Block
}

func (w *While) HirID() ident.HirId { return w.Id }
func (*While) exprNode()            {}

// For is a C-style loop.
type For struct {
	Id   ident.HirId
	Init Expr
	Cond Expr
	Step Expr
	Body *Block
}

func (f *For) HirID() ident.HirId { return f.Id }
func (*For) exprNode()            {}

// ForIn is `for name in iterable { body }`. NameId is the loop
// variable's own HirId (distinct from Id, the loop's), the one
// internal/resolve's Resolutions map points a body use at.
type ForIn struct {
	Id       ident.HirId
	NameId   ident.HirId
	Name     string
	Iterable Expr
	Body     *Block
}

func (f *ForIn) HirID() ident.HirId { return f.Id }
func (*ForIn) exprNode()            {}

func (t TopLevelKind) String() string {
	switch t {
	case HirFunction:
		return "function"
	case HirStruct:
		return "struct"
	}
	return fmt.Sprintf("TopLevelKind(%d)", int(t))
}
