package infer

import (
	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/diag"
)

// newVar allocates a fresh, unbound type variable.
func (inf *Infer) newVar() *ast.ForAllType {
	v := inf.nextVar
	inf.nextVar++
	inf.parent[v] = v
	return &ast.ForAllType{Var: v}
}

// find walks the union-find chain to its representative, path-compressing
// as it goes.
func (inf *Infer) find(v int) int {
	p, ok := inf.parent[v]
	if !ok || p == v {
		return v
	}
	root := inf.find(p)
	inf.parent[v] = root
	return root
}

// resolveType substitutes every reachable ForAll variable with its bound
// type, recursively, leaving any still-unbound variable in place (that's
// exactly a function staying generic in that position).
func (inf *Infer) resolveType(t ast.Type) ast.Type {
	switch v := t.(type) {
	case *ast.ForAllType:
		root := inf.find(v.Var)
		if bound, ok := inf.bound[root]; ok {
			return inf.resolveType(bound)
		}
		return &ast.ForAllType{Var: root}
	case *ast.PrimitiveType:
		if v.Kind == ast.Array {
			return ast.NewArray(inf.resolveType(v.Elem), v.Size)
		}
		return v
	case *ast.FuncType:
		args := make([]ast.Type, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = inf.resolveType(a)
		}
		return &ast.FuncType{Name: v.Name, Arguments: args, Ret: inf.resolveType(v.Ret)}
	case *ast.StructType:
		return v
	default:
		return t
	}
}

// occurs reports whether variable v appears anywhere inside t, after
// substitution — binding a variable to a type that contains itself would
// build an infinite type.
func (inf *Infer) occurs(v int, t ast.Type) bool {
	switch n := t.(type) {
	case *ast.ForAllType:
		return inf.find(n.Var) == v
	case *ast.PrimitiveType:
		if n.Kind == ast.Array {
			return inf.occurs(v, n.Elem)
		}
		return false
	case *ast.FuncType:
		for _, a := range n.Arguments {
			if inf.occurs(v, a) {
				return true
			}
		}
		return inf.occurs(v, n.Ret)
	default:
		return false
	}
}

// unify equates a and b, pushing a TypeMismatch diagnostic and leaving the
// substitution unchanged on failure rather than panicking — a later pass
// still gets to run against whatever was already solved.
func (inf *Infer) unify(a, b ast.Type, span ast.Span) {
	a = inf.resolveType(a)
	b = inf.resolveType(b)

	if av, ok := a.(*ast.ForAllType); ok {
		inf.bindVar(av.Var, b, span)
		return
	}
	if bv, ok := b.(*ast.ForAllType); ok {
		inf.bindVar(bv.Var, a, span)
		return
	}

	switch at := a.(type) {
	case *ast.PrimitiveType:
		bt, ok := b.(*ast.PrimitiveType)
		if !ok || at.Kind != bt.Kind {
			inf.mismatch(a, b, span)
			return
		}
		if at.Kind == ast.Array {
			inf.unify(at.Elem, bt.Elem, span)
		}
	case *ast.StructType:
		bt, ok := b.(*ast.StructType)
		if !ok || at.Name != bt.Name {
			inf.mismatch(a, b, span)
		}
	case *ast.FuncType:
		bt, ok := b.(*ast.FuncType)
		if !ok || len(at.Arguments) != len(bt.Arguments) {
			inf.mismatch(a, b, span)
			return
		}
		for i := range at.Arguments {
			inf.unify(at.Arguments[i], bt.Arguments[i], span)
		}
		inf.unify(at.Ret, bt.Ret, span)
	case *ast.TraitType:
		bt, ok := b.(*ast.TraitType)
		if !ok || at.Name != bt.Name {
			inf.mismatch(a, b, span)
		}
	default:
		inf.mismatch(a, b, span)
	}
}

func (inf *Infer) bindVar(v int, t ast.Type, span ast.Span) {
	root := inf.find(v)
	if other, ok := t.(*ast.ForAllType); ok && inf.find(other.Var) == root {
		return
	}
	if inf.occurs(root, t) {
		inf.mismatch(&ast.ForAllType{Var: root}, t, span)
		return
	}
	inf.bound[root] = t
}

func (inf *Infer) mismatch(expected, found ast.Type, span ast.Span) {
	inf.diags.Push(diag.TypeMismatch(span, expected.String(), found.String()))
}
