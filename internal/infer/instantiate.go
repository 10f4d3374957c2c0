package infer

import "github.com/Champii/Rock-sub001/internal/ast"

// instantiate returns a fresh copy of sig with every still-unbound type
// variable replaced by a brand new one, consistently within this one
// copy. This is what makes let-polymorphism work: two call sites of the
// same function each unify against their own copy of its scheme, so
// unifying one call's argument to Int64 never forces another call's
// argument to Int64 too.
func (inf *Infer) instantiate(sig *ast.FuncType) ast.Type {
	mapping := map[int]ast.Type{}
	var copyType func(t ast.Type) ast.Type
	copyType = func(t ast.Type) ast.Type {
		switch v := t.(type) {
		case *ast.ForAllType:
			root := inf.find(v.Var)
			if bound, ok := inf.bound[root]; ok {
				return copyType(bound)
			}
			if fresh, ok := mapping[root]; ok {
				return fresh
			}
			fresh := inf.newVar()
			mapping[root] = fresh
			return fresh
		case *ast.PrimitiveType:
			if v.Kind == ast.Array {
				return ast.NewArray(copyType(v.Elem), v.Size)
			}
			return v
		case *ast.FuncType:
			args := make([]ast.Type, len(v.Arguments))
			for i, a := range v.Arguments {
				args[i] = copyType(a)
			}
			return &ast.FuncType{Name: v.Name, Arguments: args, Ret: copyType(v.Ret)}
		default:
			return t
		}
	}
	return copyType(sig)
}
