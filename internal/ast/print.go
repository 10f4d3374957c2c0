package ast

// Print renders a node's canonical textual form (its String method, or
// "<nil>" for a nil node). Unlike a JSON dump it is intentionally
// terse: it mirrors surface syntax rather than internal field layout.
func Print(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}

// PrintRoot renders every top-level declaration of a Root, one per line.
func PrintRoot(r *Root) string {
	if r == nil || r.Mod == nil {
		return ""
	}
	return r.Mod.String()
}
