package mono

import (
	"github.com/Champii/Rock-sub001/internal/hir"
	"github.com/Champii/Rock-sub001/internal/ident"
)

// cloner deep-copies one function body under fresh HirIds for one
// monomorphization, remembering both directions of the old<->new id
// correspondence: remap resolves an old local (an argument) to its
// clone's id up front, and oldOf lets the caller look up, after
// cloning, which original node a newly-minted one stands in for (to
// read infer's already-solved type for that exact call site).
type cloner struct {
	m       *Mono
	oldToNew map[ident.HirId]ident.HirId
	newToOld map[ident.HirId]ident.HirId
}

func (c *cloner) remap(old, new_ ident.HirId) {
	if c.oldToNew == nil {
		c.oldToNew = map[ident.HirId]ident.HirId{}
		c.newToOld = map[ident.HirId]ident.HirId{}
	}
	c.oldToNew[old] = new_
	c.newToOld[new_] = old
}

func (c *cloner) oldOf(newID ident.HirId) (ident.HirId, bool) {
	id, ok := c.newToOld[newID]
	return id, ok
}

func (c *cloner) fresh(oldID ident.HirId) ident.HirId {
	newID := c.m.alloc.NextHirId()
	c.m.root.Map.DuplicateHirMapping(oldID, newID)
	if span, ok := c.m.root.Spans[oldID]; ok {
		c.m.root.Spans[newID] = span
	}
	c.remap(oldID, newID)
	return newID
}

func (c *cloner) clone(e hir.Expr) hir.Expr {
	if e == nil {
		return nil
	}

	var out hir.Expr
	switch n := e.(type) {
	case *hir.Block:
		b := &hir.Block{Id: c.fresh(n.Id)}
		for _, s := range n.Stmts {
			b.Stmts = append(b.Stmts, c.clone(s))
		}
		out = b
	case *hir.Lit:
		out = &hir.Lit{Id: c.fresh(n.Id), Kind: n.Kind, Value: n.Value}
	case *hir.Ident:
		newID := c.fresh(n.Id)
		out = &hir.Ident{Id: newID, Name: n.Name}
		// Resolutions for this use are rewritten by the caller once it
		// knows whether the target itself needed specializing.
	case *hir.FunctionCall:
		out = &hir.FunctionCall{Id: c.fresh(n.Id), Op: c.clone(n.Op), Args: c.cloneAll(n.Args)}
	case *hir.StructAccess:
		out = &hir.StructAccess{Id: c.fresh(n.Id), Target: c.clone(n.Target), Field: n.Field}
	case *hir.ArrayIndex:
		out = &hir.ArrayIndex{Id: c.fresh(n.Id), Target: c.clone(n.Target), Index: c.clone(n.Index)}
	case *hir.StructInit:
		si := &hir.StructInit{Id: c.fresh(n.Id), Name: n.Name}
		for _, f := range n.Fields {
			si.Fields = append(si.Fields, hir.StructInitField{Name: f.Name, Value: c.clone(f.Value)})
		}
		out = si
	case *hir.If:
		ifOut := &hir.If{Id: c.fresh(n.Id), Predicate: c.clone(n.Predicate)}
		ifOut.Then, _ = c.clone(n.Then).(*hir.Block)
		ifOut.Else, _ = c.clone(n.Else).(*hir.Block)
		out = ifOut
	case *hir.Assign:
		a := &hir.Assign{Id: c.fresh(n.Id), NameId: c.fresh(n.NameId), Name: n.Name, Value: c.clone(n.Value)}
		out = a
	case *hir.While:
		body, _ := c.clone(n.Body).(*hir.Block)
		out = &hir.While{Id: c.fresh(n.Id), Cond: c.clone(n.Cond), Body: body}
	case *hir.For:
		body, _ := c.clone(n.Body).(*hir.Block)
		out = &hir.For{Id: c.fresh(n.Id), Init: c.clone(n.Init), Cond: c.clone(n.Cond), Step: c.clone(n.Step), Body: body}
	case *hir.ForIn:
		body, _ := c.clone(n.Body).(*hir.Block)
		out = &hir.ForIn{Id: c.fresh(n.Id), NameId: c.fresh(n.NameId), Name: n.Name, Iterable: c.clone(n.Iterable), Body: body}
	default:
		return nil
	}

	c.m.root.register(out)
	return out
}

func (c *cloner) cloneAll(es []hir.Expr) []hir.Expr {
	out := make([]hir.Expr, len(es))
	for i, e := range es {
		out[i] = c.clone(e)
	}
	return out
}
