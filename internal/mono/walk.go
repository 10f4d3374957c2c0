package mono

import "github.com/Champii/Rock-sub001/internal/hir"

// walk visits every node reachable from e, e itself included, calling
// fn once per node in pre-order. It knows the full HIR Expr grammar
// (spec.md §4.4); a node type not listed here has no children to
// descend into.
func walk(e hir.Expr, fn func(hir.Expr)) {
	if e == nil {
		return
	}
	fn(e)

	switch n := e.(type) {
	case *hir.Block:
		for _, s := range n.Stmts {
			walk(s, fn)
		}
	case *hir.FunctionCall:
		walk(n.Op, fn)
		for _, a := range n.Args {
			walk(a, fn)
		}
	case *hir.StructAccess:
		walk(n.Target, fn)
	case *hir.ArrayIndex:
		walk(n.Target, fn)
		walk(n.Index, fn)
	case *hir.StructInit:
		for _, f := range n.Fields {
			walk(f.Value, fn)
		}
	case *hir.If:
		walk(n.Predicate, fn)
		walk(n.Then, fn)
		walk(n.Else, fn)
	case *hir.Assign:
		walk(n.Value, fn)
	case *hir.While:
		walk(n.Cond, fn)
		walk(n.Body, fn)
	case *hir.For:
		walk(n.Init, fn)
		walk(n.Cond, fn)
		walk(n.Step, fn)
		walk(n.Body, fn)
	case *hir.ForIn:
		walk(n.Iterable, fn)
		walk(n.Body, fn)
	}
}
