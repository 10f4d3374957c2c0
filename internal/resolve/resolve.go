// Package resolve implements name resolution: it walks the parsed AST,
// binds every identifier use to its declaration, populates the trait
// solver's name tables, collects the trait-impl bookkeeping
// internal/lower needs to finish wiring hir.TraitSolver, and determines
// which declarations are never referenced (spec.md §4.3).
package resolve

import (
	"fmt"
	"strings"

	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/hir"
	"github.com/Champii/Rock-sub001/internal/ident"
	"github.com/Champii/Rock-sub001/internal/scope"
)

// decl records one unused-tracked top-level function: its display name
// and the span a warning should point at.
type decl struct {
	name string
	span ast.Span
}

// ImplRecord is one resolved impl block: the implementor type's name,
// the trait it implements ("" for an inherent impl), and the concrete
// method declarations it carries (including any copied-in trait default
// methods). internal/lower turns this into hir.TraitSolver.Impls entries
// once each FunctionDecl has a lowered HIR counterpart.
type ImplRecord struct {
	ImplementorType string
	TraitName       string
	Methods         map[string]*ast.FunctionDecl
	Order           []string // method names, declaration order, for deterministic lowering
}

// Output is everything resolution attaches to the AST. It is kept
// outside ast.Root (instead of the field the original compiler carried
// on its own Root) so internal/ast never has to import internal/resolve
// or internal/hir; internal/compiler composes the two.
type Output struct {
	// Resolutions maps every resolved identifier use's NodeId to the
	// NodeId of the declaration it refers to.
	Resolutions map[ident.NodeId]ident.NodeId

	// Impls lists every impl block resolution discovered, in source
	// order.
	Impls []*ImplRecord

	// TraitSolver's name tables (ImplementedTrait, TraitMethods) are
	// fully populated here; its Impls table (the concrete dispatch
	// targets) is filled in by internal/lower from Impls above.
	TraitSolver *hir.TraitSolver
}

// Resolver holds the state needed across one module tree's walk: the
// diagnostics sink, per-module scope chains, and the trait/impl
// bookkeeping.
type Resolver struct {
	diags  *diag.Diagnostics
	scopes map[string]*scope.Scopes[string, ast.Identity]

	out *Output

	traitDecls map[string]*ast.TraitDecl

	declared map[ident.NodeId]decl
	used     map[ident.NodeId]bool
}

// New creates a Resolver reporting into diags.
func New(diags *diag.Diagnostics) *Resolver {
	return &Resolver{
		diags:  diags,
		scopes: map[string]*scope.Scopes[string, ast.Identity]{},
		out: &Output{
			Resolutions: map[ident.NodeId]ident.NodeId{},
			TraitSolver: hir.NewTraitSolver(),
		},
		traitDecls: map[string]*ast.TraitDecl{},
		declared:   map[ident.NodeId]decl{},
		used:       map[ident.NodeId]bool{},
	}
}

// Resolve runs every resolution pass over root and returns the
// accumulated Output. Errors are pushed to diags; the caller checks
// diags.HasErrors() / ReturnIfError after calling this.
func Resolve(root *ast.Root, diags *diag.Diagnostics) *Output {
	r := New(diags)
	// Linking named-type placeholders to their real declarations first
	// means every scope/body visit below sees fully-formed types.
	r.linkTypes(root)
	// Declaring every module before visiting any of them lets a `use`
	// reach into a sibling or child module regardless of source order.
	r.declareMod(root.Mod)
	r.visitMod(root.Mod)
	r.collectUnused()
	return r.out
}

func (r *Resolver) scopeFor(path ast.IdentifierPath) *scope.Scopes[string, ast.Identity] {
	key := path.String()
	s, ok := r.scopes[key]
	if !ok {
		s = scope.New[string, ast.Identity]()
		r.scopes[key] = s
	}
	return s
}

// declareMod declares every top-level name of m and recurses into its
// `mod` children, so the whole module tree's names exist before any
// module's bodies are visited.
func (r *Resolver) declareMod(m *ast.Mod) {
	s := r.scopeFor(m.Path)

	for _, top := range m.TopLevels {
		r.declareTopLevel(s, top)
	}

	for _, top := range m.TopLevels {
		if top.Kind == ast.TopMod && top.SubMod != nil {
			r.declareMod(top.SubMod)
		}
	}
}

// visitMod visits every top-level body/use/impl of m (all names in the
// whole tree are already declared) and recurses into `mod` children.
func (r *Resolver) visitMod(m *ast.Mod) {
	s := r.scopeFor(m.Path)

	for _, top := range m.TopLevels {
		r.visitTopLevel(s, top)
	}

	for _, top := range m.TopLevels {
		if top.Kind == ast.TopMod && top.SubMod != nil {
			r.visitMod(top.SubMod)
		}
	}
}

func (r *Resolver) declareTopLevel(s *scope.Scopes[string, ast.Identity], top *ast.TopLevel) {
	switch top.Kind {
	case ast.TopFunction:
		s.Add(top.Function.Name.Name, top.Function.Ident)
		r.declared[top.Function.Ident.NodeID] = decl{name: top.Function.Name.Name, span: top.Function.Ident.Span}
	case ast.TopPrototype:
		s.Add(top.Prototype.Name.Name, top.Prototype.Ident)
	case ast.TopStruct:
		s.Add(top.Struct.Name.Name, top.Struct.Ident)
	case ast.TopTrait:
		r.declareTrait(s, top.Trait)
	case ast.TopMod:
		if top.ModName != nil {
			s.Add(top.ModName.Name, top.Ident)
		}
	}
}

func (r *Resolver) declareTrait(s *scope.Scopes[string, ast.Identity], t *ast.TraitDecl) {
	s.Add(t.Name.Name, t.Ident)
	r.traitDecls[t.Name.Name] = t

	var methodNames []string
	for _, def := range t.Defs {
		methodNames = append(methodNames, def.Name.Name)
	}

	seen := map[string]bool{}
	for _, def := range t.DefaultImpl {
		methodNames = append(methodNames, def.Name.Name)
		if seen[def.Name.Name] {
			r.diags.Push(diag.AmbiguousOverride(def.Ident.Span, t.Name.Name, def.Name.Name))
			continue
		}
		seen[def.Name.Name] = true
	}

	r.out.TraitSolver.AddTrait(t.Name.Name, methodNames)
}

func (r *Resolver) visitTopLevel(s *scope.Scopes[string, ast.Identity], top *ast.TopLevel) {
	switch top.Kind {
	case ast.TopFunction:
		r.visitFunction(s, top.Function)
	case ast.TopUse:
		r.visitUse(s, top.Use)
	case ast.TopImpl:
		r.visitImpl(s, top.Impl)
	case ast.TopTrait:
		for _, def := range top.Trait.DefaultImpl {
			r.visitFunction(s, def)
		}
	}
}

func (r *Resolver) visitUse(s *scope.Scopes[string, ast.Identity], use *ast.UseDecl) {
	target := r.scopeFor(use.Path)

	if use.Wildcard {
		for _, name := range target.Names() {
			if id, ok := target.Get(name); ok {
				s.Add(name, id)
			}
		}
		return
	}

	for _, name := range use.Symbols {
		id, ok := target.Get(name)
		if !ok {
			r.diags.Push(diag.UnresolvedName(use.Ident.Span, fmt.Sprintf("%s::%s", use.Path, name)))
			continue
		}
		s.Add(name, id)
	}
}

// visitImpl resolves one impl block: it rejects multi-type impls
// (Open Question 2 — AmbiguousImpl), copies in any trait default
// methods not overridden locally (grounded on the original compiler's
// DefaultImplPopulator, which skips inherent impls entirely), then
// visits every method body and records an ImplRecord for
// internal/lower.
func (r *Resolver) visitImpl(s *scope.Scopes[string, ast.Identity], impl *ast.ImplDecl) {
	if len(impl.Types) > 1 {
		names := make([]string, len(impl.Types))
		for i, t := range impl.Types {
			names[i] = t.String()
		}
		r.diags.Push(diag.AmbiguousImpl(impl.Ident.Span, strings.Join(names, ", ")))
		return
	}

	inherent := len(impl.Types) == 0

	var implementorType, traitName string
	if inherent {
		implementorType = impl.Name.Name
	} else {
		traitName = impl.Name.Name
		implementorType = impl.Types[0].String()
		if st, ok := impl.Types[0].(*ast.StructType); ok {
			implementorType = st.Name
		}
	}

	if !inherent {
		if trait, ok := r.traitDecls[traitName]; ok {
			have := map[string]bool{}
			for _, def := range impl.Defs {
				have[def.Name.Name] = true
			}
			for _, def := range trait.DefaultImpl {
				if !have[def.Name.Name] {
					impl.Defs = append(impl.Defs, def)
				}
			}
		}
		r.out.TraitSolver.AddImplementor(implementorType, traitName)
	}

	rec := &ImplRecord{ImplementorType: implementorType, TraitName: traitName, Methods: map[string]*ast.FunctionDecl{}}

	for _, def := range impl.Defs {
		r.visitFunction(s, def)
		if _, dup := rec.Methods[def.Name.Name]; !dup {
			rec.Order = append(rec.Order, def.Name.Name)
		}
		rec.Methods[def.Name.Name] = def
	}

	r.out.Impls = append(r.out.Impls, rec)
}

func (r *Resolver) visitFunction(s *scope.Scopes[string, ast.Identity], fn *ast.FunctionDecl) {
	s.Push()
	defer s.Pop()

	for _, arg := range fn.Arguments {
		s.Add(arg.Name.Name, arg.Ident)
	}

	r.visitBody(s, fn.Body)
}

func (r *Resolver) visitBody(s *scope.Scopes[string, ast.Identity], body *ast.Body) {
	s.Push()
	defer s.Pop()

	for _, stmt := range body.Statements {
		r.visitStatement(s, stmt)
	}
}

func (r *Resolver) visitStatement(s *scope.Scopes[string, ast.Identity], stmt *ast.Statement) {
	switch stmt.Kind {
	case ast.StmtIf:
		r.visitIf(s, stmt.If)
	case ast.StmtFor:
		s.Push()
		defer s.Pop()
		if stmt.For.Init != nil {
			r.visitStatement(s, stmt.For.Init)
		}
		r.visitExpression(s, stmt.For.Cond)
		if stmt.For.Step != nil {
			r.visitStatement(s, stmt.For.Step)
		}
		r.visitBody(s, stmt.For.Body)
	case ast.StmtForIn:
		s.Push()
		defer s.Pop()
		r.visitExpression(s, stmt.ForIn.Iterable)
		s.Add(stmt.ForIn.Name.Name, stmt.ForIn.Name.Ident)
		r.visitBody(s, stmt.ForIn.Body)
	case ast.StmtWhile:
		r.visitExpression(s, stmt.While.Cond)
		r.visitBody(s, stmt.While.Body)
	case ast.StmtAssign:
		r.visitExpression(s, stmt.Assign.Value)
		s.Add(stmt.Assign.Name.Name, stmt.Assign.Name.Ident)
	case ast.StmtExpression:
		r.visitExpression(s, stmt.Expression)
	}
}

func (r *Resolver) visitIf(s *scope.Scopes[string, ast.Identity], ifNode *ast.If) {
	r.visitExpression(s, ifNode.Predicate)
	r.visitBody(s, ifNode.Then)
	if ifNode.Else != nil {
		if ifNode.Else.If != nil {
			r.visitIf(s, ifNode.Else.If)
		} else if ifNode.Else.Body != nil {
			r.visitBody(s, ifNode.Else.Body)
		}
	}
}

func (r *Resolver) visitExpression(s *scope.Scopes[string, ast.Identity], e *ast.Expression) {
	if e == nil {
		return
	}
	r.visitUnary(s, e.Left)
	if e.Right != nil {
		r.visitExpression(s, e.Right)
	}
}

func (r *Resolver) visitUnary(s *scope.Scopes[string, ast.Identity], u *ast.UnaryExpr) {
	if u == nil {
		return
	}
	if u.Operand != nil {
		r.visitUnary(s, u.Operand)
		return
	}
	r.visitPrimary(s, u.Primary)
}

func (r *Resolver) visitPrimary(s *scope.Scopes[string, ast.Identity], p *ast.PrimaryExpr) {
	if p == nil {
		return
	}
	r.visitOperand(s, p.Operand)
	for _, sec := range p.Secondaries {
		switch sec.Kind {
		case ast.SecondaryArguments:
			for _, arg := range sec.Args {
				r.visitExpression(s, arg)
			}
		case ast.SecondaryIndex:
			r.visitExpression(s, sec.Index)
		}
	}
}

func (r *Resolver) visitOperand(s *scope.Scopes[string, ast.Identity], o *ast.Operand) {
	if o == nil {
		return
	}
	switch o.Kind {
	case ast.OperandIdentifier:
		r.resolveUse(s, o.Identifier)
	case ast.OperandExpression:
		r.visitExpression(s, o.Expression)
	case ast.OperandIf:
		r.visitIf(s, o.If)
	case ast.OperandStructInit:
		for _, name := range o.StructInit.Order {
			r.visitExpression(s, o.StructInit.Fields[name])
		}
	}
}

func (r *Resolver) resolveUse(s *scope.Scopes[string, ast.Identity], use *ast.Identifier) {
	id, ok := s.Get(use.Name)
	if !ok {
		r.diags.Push(diag.UnresolvedName(use.Ident.Span, use.Name))
		return
	}
	r.out.Resolutions[use.Ident.NodeID] = id.NodeID
	if _, tracked := r.declared[id.NodeID]; tracked {
		r.used[id.NodeID] = true
	}
}

// collectUnused runs the single non-fixed-point pass spec.md §4.3
// describes: every declared function starts unused except main, a use
// discovered while visiting flips it, and whatever is left over gets a
// warning (never an error — an unused function is still valid code).
func (r *Resolver) collectUnused() {
	for id, d := range r.declared {
		if d.name == "main" {
			continue
		}
		if !r.used[id] {
			r.diags.PushWarning(diag.UnusedFunction(d.span, d.name))
		}
	}
}
