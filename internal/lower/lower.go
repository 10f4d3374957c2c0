// Package lower turns the resolved AST into HIR (spec.md §4.4): it
// normalizes else-less ifs, collapses the parser's Primary/Secondary
// chains into directly nested call/access/index nodes, and lifts the
// resolver's NodeId-keyed tables (name resolutions, trait impls) onto
// the fresh HirIds it allocates along the way.
package lower

import (
	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/hir"
	"github.com/Champii/Rock-sub001/internal/ident"
	"github.com/Champii/Rock-sub001/internal/resolve"
)

// Lowering holds the state threaded through one compilation's lowering
// pass: the id allocator shared with the parser/resolver, the HIR
// output tree under construction, and a by-NodeId cache so a
// FunctionDecl shared across several impls (a trait default method
// nobody overrode) is lowered exactly once.
type Lowering struct {
	alloc *ident.Allocator
	root  *hir.Root

	fnCache map[ident.NodeId]*hir.FunctionDecl
}

// LowerCrate lowers astRoot into HIR, wiring in resolveOut's
// resolutions and trait-impl bookkeeping.
func LowerCrate(astRoot *ast.Root, resolveOut *resolve.Output, alloc *ident.Allocator) *hir.Root {
	l := &Lowering{alloc: alloc, root: hir.NewRoot(), fnCache: map[ident.NodeId]*hir.FunctionDecl{}}

	l.root.TraitSolver = resolveOut.TraitSolver

	l.lowerMod(astRoot.Mod)
	l.lowerImpls(resolveOut.Impls)
	l.liftResolutions(resolveOut.Resolutions)

	return l.root
}

func (l *Lowering) bind(identity ast.Identity) ident.HirId {
	id := l.alloc.NextHirId()
	l.root.Map.Bind(id, identity.NodeID)
	l.root.Spans[id] = identity.Span
	return id
}

// bindSynthetic allocates a HirId for a node lowering fabricates with no
// AST identity of its own (a desugared else-less If's empty Block, a
// native operator's synthetic Ident), attributing it to the span of the
// surface construct it was desugared from.
func (l *Lowering) bindSynthetic(span ast.Span) ident.HirId {
	id := l.alloc.NextHirId()
	l.root.Spans[id] = span
	return id
}

func (l *Lowering) lowerMod(m *ast.Mod) {
	for _, top := range m.TopLevels {
		switch top.Kind {
		case ast.TopFunction:
			fn := l.lowerFunctionOnce(top.Function)
			l.root.TopLevels = append(l.root.TopLevels, &hir.TopLevel{Kind: hir.HirFunction, Id: fn.Id, Func: fn})
			l.root.register(fn)
		case ast.TopStruct:
			st := l.lowerStruct(top.Struct)
			l.root.TopLevels = append(l.root.TopLevels, &hir.TopLevel{Kind: hir.HirStruct, Id: st.Id, Struct: st})
			l.root.register(st)
		case ast.TopMod:
			if top.SubMod != nil {
				l.lowerMod(top.SubMod)
			}
		}
	}
}

// lowerImpls lowers every impl method resolve.Resolve collected
// (inherent and trait), registering each concrete FunctionDecl with the
// shared TraitSolver so internal/infer can dispatch on it, and appending
// it to TopLevels so it is reachable like any other function.
func (l *Lowering) lowerImpls(impls []*resolve.ImplRecord) {
	for _, rec := range impls {
		for _, name := range rec.Order {
			def := rec.Methods[name]
			fn := l.lowerFunctionOnce(def)
			if _, already := l.root.Arena[fn.Id]; !already {
				l.root.TopLevels = append(l.root.TopLevels, &hir.TopLevel{Kind: hir.HirFunction, Id: fn.Id, Func: fn})
				l.root.register(fn)
			}
			l.root.TraitSolver.RegisterMethod(rec.ImplementorType, rec.TraitName, name, fn)
		}
		l.root.TraitSolver.AddImplementor(rec.ImplementorType, rec.TraitName)
	}
}

// liftResolutions converts the resolver's NodeId->NodeId map into a
// HirId->HirId map now that every referenced node has a HIR identity.
// A resolution whose use or declaration never got a HirId (an unused,
// never-lowered branch) is silently dropped; nothing downstream can
// reach it either.
func (l *Lowering) liftResolutions(resolutions map[ident.NodeId]ident.NodeId) {
	for useNode, declNode := range resolutions {
		useHir, ok := l.root.Map.HirOf(useNode)
		if !ok {
			continue
		}
		declHir, ok := l.root.Map.HirOf(declNode)
		if !ok {
			continue
		}
		l.root.Resolutions[useHir] = declHir
	}
}

func (l *Lowering) lowerFunctionOnce(fn *ast.FunctionDecl) *hir.FunctionDecl {
	if cached, ok := l.fnCache[fn.Ident.NodeID]; ok {
		return cached
	}

	id := l.bind(fn.Ident)
	out := &hir.FunctionDecl{Id: id, Name: fn.Name.Name}
	l.fnCache[fn.Ident.NodeID] = out

	if fn.Signature != nil {
		out.Signature = &ast.FuncType{Name: fn.Name.Name, Arguments: fn.Signature.Arguments, Ret: fn.Signature.Ret}
	}

	for _, arg := range fn.Arguments {
		argID := l.bind(arg.Ident)
		out.Arguments = append(out.Arguments, &hir.Argument{Id: argID, Name: arg.Name.Name})
	}

	out.Body = l.lowerBody(fn.Body)
	return out
}

func (l *Lowering) lowerStruct(decl *ast.StructDecl) *hir.StructDecl {
	id := l.bind(decl.Ident)
	st := ast.NewStructType(decl.Name.Name)
	for _, f := range decl.Defs {
		st.AddField(f.Name.Name, f.Type)
	}
	return &hir.StructDecl{Id: id, Name: decl.Name.Name, Type: st}
}

func (l *Lowering) lowerBody(body *ast.Body) *hir.Block {
	id := l.bind(body.Ident)
	block := &hir.Block{Id: id}
	for _, stmt := range body.Statements {
		block.Stmts = append(block.Stmts, l.lowerStatement(stmt))
	}
	l.root.register(block)
	return block
}

func (l *Lowering) lowerStatement(stmt *ast.Statement) hir.Expr {
	switch stmt.Kind {
	case ast.StmtIf:
		return l.lowerIf(stmt.If)
	case ast.StmtFor:
		return l.lowerFor(stmt.For)
	case ast.StmtForIn:
		return l.lowerForIn(stmt.ForIn)
	case ast.StmtWhile:
		return l.lowerWhile(stmt.While)
	case ast.StmtAssign:
		return l.lowerAssign(stmt.Assign)
	case ast.StmtExpression:
		return l.lowerExpression(stmt.Expression)
	}
	id := l.bind(stmt.Ident)
	lit := &hir.Lit{Id: id, Kind: ast.IntLit, Value: int64(0)}
	l.root.register(lit)
	return lit
}

// lowerIf normalizes an else-less surface If into a total HIR If with
// an empty Else block (spec.md §4.4).
func (l *Lowering) lowerIf(ifNode *ast.If) hir.Expr {
	id := l.bind(ifNode.Ident)
	out := &hir.If{
		Id:        id,
		Predicate: l.lowerExpression(ifNode.Predicate),
		Then:      l.lowerBody(ifNode.Then),
	}

	switch {
	case ifNode.Else == nil:
		emptyID := l.bindSynthetic(ifNode.Ident.Span)
		out.Else = &hir.Block{Id: emptyID}
		l.root.register(out.Else)
	case ifNode.Else.If != nil:
		nested := l.lowerIf(ifNode.Else.If)
		wrapID := l.bindSynthetic(ifNode.Ident.Span)
		out.Else = &hir.Block{Id: wrapID, Stmts: []hir.Expr{nested}}
		l.root.register(out.Else)
	default:
		out.Else = l.lowerBody(ifNode.Else.Body)
	}

	l.root.register(out)
	return out
}

func (l *Lowering) lowerFor(f *ast.For) hir.Expr {
	id := l.bind(f.Ident)
	out := &hir.For{Id: id, Body: l.lowerBody(f.Body)}
	if f.Init != nil {
		out.Init = l.lowerStatement(f.Init)
	}
	out.Cond = l.lowerExpression(f.Cond)
	if f.Step != nil {
		out.Step = l.lowerStatement(f.Step)
	}
	l.root.register(out)
	return out
}

func (l *Lowering) lowerForIn(f *ast.ForIn) hir.Expr {
	id := l.bind(f.Ident)
	nameID := l.bind(f.Name.Ident)
	out := &hir.ForIn{
		Id:       id,
		NameId:   nameID,
		Name:     f.Name.Name,
		Iterable: l.lowerExpression(f.Iterable),
		Body:     l.lowerBody(f.Body),
	}
	l.root.register(out)
	return out
}

func (l *Lowering) lowerWhile(w *ast.While) hir.Expr {
	id := l.bind(w.Ident)
	out := &hir.While{Id: id, Cond: l.lowerExpression(w.Cond), Body: l.lowerBody(w.Body)}
	l.root.register(out)
	return out
}

func (l *Lowering) lowerAssign(a *ast.Assign) hir.Expr {
	id := l.bind(a.Ident)
	nameID := l.bind(a.Name.Ident)
	out := &hir.Assign{Id: id, NameId: nameID, Name: a.Name.Name, Value: l.lowerExpression(a.Value)}
	l.root.register(out)
	return out
}

func (l *Lowering) lowerExpression(e *ast.Expression) hir.Expr {
	left := l.lowerUnary(e.Left)
	if e.Op == "" {
		return left
	}

	id := l.bind(e.Ident)
	opID := l.bindSynthetic(e.Ident.Span)
	op := &hir.Ident{Id: opID, Name: e.Op}
	l.root.register(op)

	out := &hir.FunctionCall{Id: id, Op: op, Args: []hir.Expr{left, l.lowerExpression(e.Right)}}
	l.root.register(out)
	return out
}

func (l *Lowering) lowerUnary(u *ast.UnaryExpr) hir.Expr {
	if u.Operand != nil {
		operand := l.lowerUnary(u.Operand)
		id := l.bind(u.Ident)
		opID := l.bindSynthetic(u.Ident.Span)
		op := &hir.Ident{Id: opID, Name: u.Op}
		l.root.register(op)
		out := &hir.FunctionCall{Id: id, Op: op, Args: []hir.Expr{operand}}
		l.root.register(out)
		return out
	}
	return l.lowerPrimary(u.Primary)
}

// lowerPrimary collapses the parser's Operand + []SecondaryExpr chain
// into nested HIR nodes, innermost-first: `a.b(c)[d]` becomes
// `ArrayIndex(FunctionCall(StructAccess(a, "b"), [c]), d)`.
func (l *Lowering) lowerPrimary(p *ast.PrimaryExpr) hir.Expr {
	cur := l.lowerOperand(p.Operand)

	for _, sec := range p.Secondaries {
		switch sec.Kind {
		case ast.SecondarySelector:
			id := l.bind(sec.Ident)
			out := &hir.StructAccess{Id: id, Target: cur, Field: sec.Selector}
			l.root.register(out)
			cur = out
		case ast.SecondaryArguments:
			id := l.bind(sec.Ident)
			var args []hir.Expr
			for _, a := range sec.Args {
				args = append(args, l.lowerExpression(a))
			}
			out := &hir.FunctionCall{Id: id, Op: cur, Args: args}
			l.root.register(out)
			cur = out
		case ast.SecondaryIndex:
			id := l.bind(sec.Ident)
			out := &hir.ArrayIndex{Id: id, Target: cur, Index: l.lowerExpression(sec.Index)}
			l.root.register(out)
			cur = out
		}
	}

	return cur
}

func (l *Lowering) lowerOperand(o *ast.Operand) hir.Expr {
	switch o.Kind {
	case ast.OperandLiteral:
		id := l.bind(o.Ident)
		out := &hir.Lit{Id: id, Kind: o.Literal.Kind, Value: o.Literal.Value}
		l.root.register(out)
		return out
	case ast.OperandIdentifier:
		// The HirId is bound to the Identifier's own NodeId, not the
		// wrapping Operand's, since the resolver's Resolutions map keys
		// every use on the Identifier's NodeId.
		id := l.bind(o.Identifier.Ident)
		out := &hir.Ident{Id: id, Name: o.Identifier.Name}
		l.root.register(out)
		return out
	case ast.OperandExpression:
		return l.lowerExpression(o.Expression)
	case ast.OperandIf:
		return l.lowerIf(o.If)
	case ast.OperandStructInit:
		id := l.bind(o.Ident)
		return l.lowerStructInit(id, o.StructInit)
	}

	id := l.bind(o.Ident)
	lit := &hir.Lit{Id: id, Kind: ast.IntLit, Value: int64(0)}
	l.root.register(lit)
	return lit
}

func (l *Lowering) lowerStructInit(id ident.HirId, s *ast.StructInit) hir.Expr {
	out := &hir.StructInit{Id: id, Name: s.Name.Name}
	for _, name := range s.Order {
		out.Fields = append(out.Fields, hir.StructInitField{Name: name, Value: l.lowerExpression(s.Fields[name])})
	}
	l.root.register(out)
	return out
}
