// Package infer implements Hindley-Milner-style type inference over
// HIR (spec.md §4.5): it assigns every function a (possibly
// polymorphic) signature, walks every body unifying constraints through
// a union-find table with an occurs check, and leaves unsolved type
// variables in a function's scheme exactly where it is generic —
// internal/mono instantiates a concrete copy per call site later.
package infer

import (
	"fmt"

	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/hir"
	"github.com/Champii/Rock-sub001/internal/ident"
)

// arithmeticOps, comparisonOps and logicalOps list the native binary
// operators inferNativeOp types directly: arithmetic unifies both
// operands together and returns that same type (operand types are not
// restricted to a fixed set), comparisons and boolean connectives always
// return Bool.
var arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}
var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}
var logicalOps = map[string]bool{"&&": true, "||": true}

// Infer carries one compilation's inference state: the union-find
// substitution table, the per-function signature cache, and the local
// variable environment for whichever function body is currently being
// walked.
type Infer struct {
	diags *diag.Diagnostics
	root  *hir.Root

	nextVar int
	parent  map[int]int
	bound   map[int]ast.Type

	signatures map[ident.HirId]*ast.FuncType
	structs    map[string]*ast.StructType

	locals map[ident.HirId]ast.Type
	raw    map[ident.HirId]ast.Type
}

// Run infers every top-level function's signature and body, populating
// root.NodeTypes. Errors are pushed to diags; the caller checks
// diags.HasErrors() afterward.
func Run(root *hir.Root, diags *diag.Diagnostics) {
	inf := &Infer{
		diags:      diags,
		root:       root,
		parent:     map[int]int{},
		bound:      map[int]ast.Type{},
		signatures: map[ident.HirId]*ast.FuncType{},
		structs:    map[string]*ast.StructType{},
		raw:        map[ident.HirId]ast.Type{},
	}
	inf.collectStructs()
	inf.seedSignatures()

	for _, top := range root.TopLevels {
		if top.Kind == hir.HirFunction {
			inf.inferFunctionBody(top.Func)
		}
	}

	inf.finalize()
}

func (inf *Infer) collectStructs() {
	for _, top := range inf.root.TopLevels {
		if top.Kind == hir.HirStruct {
			inf.structs[top.Struct.Name] = top.Struct.Type
		}
	}
}

// seedSignatures gives every top-level function a FuncType before any
// body is inferred, so mutually- and self-recursive calls have
// something to unify against. An annotated function keeps its surface
// signature; an unannotated one gets a fresh type variable per argument
// and for its return type.
func (inf *Infer) seedSignatures() {
	for _, top := range inf.root.TopLevels {
		if top.Kind != hir.HirFunction {
			continue
		}
		fn := top.Func
		if fn.Signature != nil {
			inf.signatures[fn.Id] = fn.Signature
			continue
		}
		args := make([]ast.Type, len(fn.Arguments))
		for i := range fn.Arguments {
			args[i] = inf.newVar()
		}
		inf.signatures[fn.Id] = &ast.FuncType{Name: fn.Name, Arguments: args, Ret: inf.newVar()}
	}
}

func (inf *Infer) inferFunctionBody(fn *hir.FunctionDecl) {
	sig := inf.signatures[fn.Id]

	inf.locals = map[ident.HirId]ast.Type{}
	for i, arg := range fn.Arguments {
		if i < len(sig.Arguments) {
			inf.locals[arg.Id] = sig.Arguments[i]
		}
	}

	bodyType := inf.inferExpr(fn.Body)
	inf.unify(sig.Ret, bodyType, inf.spanOf(fn.Body))
}

func (inf *Infer) inferExpr(e hir.Expr) ast.Type {
	var t ast.Type
	switch n := e.(type) {
	case *hir.Block:
		t = inf.inferBlock(n)
	case *hir.Lit:
		t = inf.literalType(n)
	case *hir.Ident:
		t = inf.inferIdent(n)
	case *hir.FunctionCall:
		t = inf.inferCall(n)
	case *hir.StructAccess:
		t = inf.inferStructAccess(n)
	case *hir.ArrayIndex:
		t = inf.inferArrayIndex(n)
	case *hir.StructInit:
		t = inf.inferStructInit(n)
	case *hir.If:
		t = inf.inferIf(n)
	case *hir.Assign:
		t = inf.inferAssign(n)
	case *hir.While:
		t = inf.inferWhile(n)
	case *hir.For:
		t = inf.inferFor(n)
	case *hir.ForIn:
		t = inf.inferForIn(n)
	default:
		t = ast.NewPrimitive(ast.Void)
	}
	inf.raw[e.HirID()] = t
	return t
}

func (inf *Infer) inferBlock(b *hir.Block) ast.Type {
	var last ast.Type = ast.NewPrimitive(ast.Void)
	for _, stmt := range b.Stmts {
		last = inf.inferExpr(stmt)
	}
	inf.raw[b.Id] = last
	return last
}

func (inf *Infer) literalType(l *hir.Lit) ast.Type {
	var t ast.Type
	switch l.Kind {
	case ast.IntLit:
		t = ast.NewPrimitive(ast.Int64)
	case ast.FloatLit:
		t = ast.NewPrimitive(ast.Float64)
	case ast.StringLit:
		t = ast.NewPrimitive(ast.String)
	case ast.BoolLit:
		t = ast.NewPrimitive(ast.Bool)
	case ast.CharLit:
		t = ast.NewPrimitive(ast.Char)
	default:
		t = ast.NewPrimitive(ast.Void)
	}
	return t
}

// inferIdent types a name use: a reference to a top-level function
// instantiates a fresh copy of its scheme (so two call sites of a
// polymorphic function don't force each other's argument types
// together); a reference to a local (argument, assign, for-in binding,
// or a native operator with no declaration at all) reads straight from
// the current local environment.
func (inf *Infer) inferIdent(n *hir.Ident) ast.Type {
	declID, ok := inf.root.Resolutions[n.HirID()]
	if !ok {
		if t, ok := inf.locals[n.HirID()]; ok {
			return t
		}
		return inf.newVar()
	}

	if node, ok := inf.root.Arena[declID]; ok {
		if fn, ok := node.(*hir.FunctionDecl); ok {
			return inf.instantiate(inf.signatures[fn.Id])
		}
	}

	if t, ok := inf.locals[declID]; ok {
		return t
	}

	t := inf.newVar()
	inf.locals[declID] = t
	return t
}

func (inf *Infer) inferCall(n *hir.FunctionCall) ast.Type {
	if op, ok := n.Op.(*hir.Ident); ok {
		if _, isDecl := inf.root.Resolutions[op.HirID()]; !isDecl {
			if t, handled := inf.inferNativeOp(op.Name, n); handled {
				return t
			}
		}
	}

	calleeType := inf.inferExpr(n.Op)

	// A call whose Op is a StructAccess that inferStructAccess dispatched
	// to a trait method (rather than a declared field) carries the
	// method's own signature, receiver argument included; unify the
	// receiver separately here before matching the rest against n.Args,
	// then proceed as an ordinary call (spec.md §4.6).
	if sa, ok := n.Op.(*hir.StructAccess); ok {
		if _, dispatched := inf.root.Resolutions[sa.HirID()]; dispatched {
			return inf.inferDispatchedCall(sa, n, calleeType)
		}
	}

	argTypes := make([]ast.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = inf.inferExpr(a)
	}

	callee, ok := inf.resolveType(calleeType).(*ast.FuncType)
	if !ok {
		ret := inf.newVar()
		fresh := &ast.FuncType{Arguments: argTypes, Ret: ret}
		inf.unify(calleeType, fresh, inf.spanOf(n))
		return ret
	}

	for i := 0; i < len(callee.Arguments) && i < len(argTypes); i++ {
		inf.unify(callee.Arguments[i], argTypes[i], inf.spanOf(n))
	}
	return callee.Ret
}

// inferDispatchedCall unifies a trait method call's receiver against the
// dispatched function's first argument and its explicit call arguments
// against the rest, mirroring inferCall's own argument-matching loop.
// The receiver's type was already computed (and cached in inf.raw) while
// inferStructAccess typed sa.Target.
func (inf *Infer) inferDispatchedCall(sa *hir.StructAccess, call *hir.FunctionCall, calleeType ast.Type) ast.Type {
	sig, ok := inf.resolveType(calleeType).(*ast.FuncType)
	if !ok || len(sig.Arguments) == 0 {
		return inf.newVar()
	}

	inf.unify(sig.Arguments[0], inf.raw[sa.Target.HirID()], inf.spanOf(call))
	for i, a := range call.Args {
		argType := inf.inferExpr(a)
		if idx := i + 1; idx < len(sig.Arguments) {
			inf.unify(sig.Arguments[idx], argType, inf.spanOf(call))
		}
	}
	return sig.Ret
}

// inferNativeOp types the fixed native-operator set directly rather
// than through a FuncType call, since operator idents never resolve to
// a declaration.
func (inf *Infer) inferNativeOp(name string, n *hir.FunctionCall) (ast.Type, bool) {
	switch {
	case arithmeticOps[name] && len(n.Args) == 2:
		left := inf.inferExpr(n.Args[0])
		right := inf.inferExpr(n.Args[1])
		inf.unify(left, right, inf.spanOf(n))
		return left, true
	case arithmeticOps[name] && len(n.Args) == 1: // unary '-'
		return inf.inferExpr(n.Args[0]), true
	case comparisonOps[name] && len(n.Args) == 2:
		left := inf.inferExpr(n.Args[0])
		right := inf.inferExpr(n.Args[1])
		inf.unify(left, right, inf.spanOf(n))
		return ast.NewPrimitive(ast.Bool), true
	case logicalOps[name] && len(n.Args) == 2:
		left := inf.inferExpr(n.Args[0])
		right := inf.inferExpr(n.Args[1])
		inf.unify(left, ast.NewPrimitive(ast.Bool), inf.spanOf(n))
		inf.unify(right, ast.NewPrimitive(ast.Bool), inf.spanOf(n))
		return ast.NewPrimitive(ast.Bool), true
	case name == "!" && len(n.Args) == 1:
		t := inf.inferExpr(n.Args[0])
		inf.unify(t, ast.NewPrimitive(ast.Bool), inf.spanOf(n))
		return ast.NewPrimitive(ast.Bool), true
	}
	return nil, false
}

// inferStructAccess reads a field's declared type off the target's
// struct type. A target that is still a type variable (an unannotated
// argument, as in `getX p = p.x`) is unified with the one declared
// struct that has this field, when exactly one does; otherwise the
// access gets a fresh variable. Row field constraints are not
// implemented.
//
// A name that isn't a declared field is tried as a trait method next:
// lower.go desugars `p.describe()` to a FunctionCall whose Op is this
// very StructAccess node, so a method found here gets its resolution
// recorded against n's own HirId (internal/mono looks up each node's
// own HirID(), so it follows this as it does a plain identifier) and its
// instantiated signature — receiver argument included — returned as
// this access's type; inferCall's inferDispatchedCall unifies the
// receiver and remaining call arguments against it.
func (inf *Infer) inferStructAccess(n *hir.StructAccess) ast.Type {
	targetType := inf.resolveType(inf.inferExpr(n.Target))
	if _, unresolved := targetType.(*ast.ForAllType); unresolved {
		var owners []*ast.StructType
		for _, cand := range inf.structs {
			if _, has := cand.Defs[n.Field]; has {
				owners = append(owners, cand)
			}
		}
		if len(owners) == 1 {
			inf.unify(targetType, owners[0], inf.spanOf(n))
			targetType = owners[0]
		}
	}
	st, ok := targetType.(*ast.StructType)
	if !ok {
		return inf.newVar()
	}
	if ft, ok := st.Defs[n.Field]; ok {
		return ft
	}
	if fn, ok := inf.root.TraitSolver.Resolve(st.Name, n.Field, inf.root.TraitSolver.TraitDeclOrder); ok {
		inf.root.Resolutions[n.HirID()] = fn.Id
		return inf.instantiate(inf.signatures[fn.Id])
	}
	inf.diags.Push(diag.TypeMismatch(inf.spanOf(n), fmt.Sprintf("%s to have field %q", st.Name, n.Field), "no such field"))
	return inf.newVar()
}

func (inf *Infer) inferArrayIndex(n *hir.ArrayIndex) ast.Type {
	targetType := inf.inferExpr(n.Target)
	idxType := inf.inferExpr(n.Index)
	inf.unify(idxType, ast.NewPrimitive(ast.Int64), inf.spanOf(n))

	elem := inf.newVar()
	inf.unify(targetType, ast.NewArray(elem, -1), inf.spanOf(n))
	return elem
}

func (inf *Infer) inferStructInit(n *hir.StructInit) ast.Type {
	st, ok := inf.structs[n.Name]
	if !ok {
		for _, f := range n.Fields {
			inf.inferExpr(f.Value)
		}
		return inf.newVar()
	}
	for _, f := range n.Fields {
		valType := inf.inferExpr(f.Value)
		if declared, ok := st.Defs[f.Name]; ok {
			inf.unify(declared, valType, inf.spanOf(n))
		}
	}
	return st
}

func (inf *Infer) inferIf(n *hir.If) ast.Type {
	cond := inf.inferExpr(n.Predicate)
	inf.unify(cond, ast.NewPrimitive(ast.Bool), inf.spanOf(n))

	thenType := inf.inferExpr(n.Then)
	elseType := inf.inferExpr(n.Else)
	inf.unify(thenType, elseType, inf.spanOf(n))
	return thenType
}

func (inf *Infer) inferAssign(n *hir.Assign) ast.Type {
	t := inf.inferExpr(n.Value)
	inf.locals[n.NameId] = t
	return t
}

func (inf *Infer) inferWhile(n *hir.While) ast.Type {
	cond := inf.inferExpr(n.Cond)
	inf.unify(cond, ast.NewPrimitive(ast.Bool), inf.spanOf(n))
	inf.inferExpr(n.Body)
	return ast.NewPrimitive(ast.Void)
}

func (inf *Infer) inferFor(n *hir.For) ast.Type {
	if n.Init != nil {
		inf.inferExpr(n.Init)
	}
	cond := inf.inferExpr(n.Cond)
	inf.unify(cond, ast.NewPrimitive(ast.Bool), inf.spanOf(n))
	if n.Step != nil {
		inf.inferExpr(n.Step)
	}
	inf.inferExpr(n.Body)
	return ast.NewPrimitive(ast.Void)
}

func (inf *Infer) inferForIn(n *hir.ForIn) ast.Type {
	iterType := inf.inferExpr(n.Iterable)
	elem := inf.newVar()
	inf.unify(iterType, ast.NewArray(elem, -1), inf.spanOf(n))
	inf.locals[n.NameId] = elem
	inf.inferExpr(n.Body)
	return ast.NewPrimitive(ast.Void)
}

// finalize substitutes every recorded raw type through the solved
// union-find table and writes the result into root.NodeTypes, and
// rewrites every function's signature to its solved form (unresolved
// vars left in place are exactly where that function stays generic).
func (inf *Infer) finalize() {
	for id, t := range inf.raw {
		inf.root.NodeTypes[id] = inf.resolveType(t)
	}
	for _, top := range inf.root.TopLevels {
		if top.Kind != hir.HirFunction {
			continue
		}
		sig := inf.signatures[top.Func.Id]
		resolved := &ast.FuncType{Name: sig.Name, Ret: inf.resolveType(sig.Ret)}
		for _, a := range sig.Arguments {
			resolved.Arguments = append(resolved.Arguments, inf.resolveType(a))
		}
		top.Func.Signature = resolved
	}
}

// spanOf looks up the source span n was lowered from, so a diagnostic
// raised while unifying n's type points back at real source text
// instead of the file's start.
func (inf *Infer) spanOf(n hir.Node) ast.Span {
	return inf.root.SpanOf(n.HirID())
}
