// Package mangle assigns every monomorphized function a unique linker
// name (spec.md §4.7): the original surface name with one type-prefix
// suffix per concrete argument type plus a final suffix for the return
// type, so the many concrete copies internal/mono produces from one
// polymorphic definition never collide. The return suffix is appended
// unconditionally, even for a function that was never polymorphic and
// took no arguments (main included).
package mangle

import (
	"strings"

	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/hir"
)

// Run rewrites every top-level function's Name in place to its mangled
// form, then checks the result is injective: two distinct functions
// landing on the same mangled name is reported as a diagnostic rather
// than silently overwriting one of them in a later codegen stage.
func Run(root *hir.Root, diags *diag.Diagnostics) {
	seen := map[string]*hir.FunctionDecl{}

	for _, top := range root.TopLevels {
		if top.Kind != hir.HirFunction {
			continue
		}
		fn := top.Func
		mangled := mangleName(fn)

		if other, dup := seen[mangled]; dup && other != fn {
			diags.Push(diag.DuplicateMangledName(ast.Span{}, mangled))
			continue
		}
		seen[mangled] = fn
		fn.Name = mangled
	}
}

// mangleName is the declared name followed by one TypePrefix per
// argument and finally the return type's TypePrefix, underscore-joined
// (spec.md §4.7). main itself is not special-cased: a zero-argument
// Int64-returning main mangles to "main_i64", which is exactly the
// entry symbol the backend contract (spec.md §6) requires it to look
// for.
func mangleName(fn *hir.FunctionDecl) string {
	if fn.Signature == nil || len(fn.Signature.Arguments) != len(fn.Arguments) {
		return fn.Name
	}

	parts := make([]string, 0, len(fn.Signature.Arguments)+1)
	for _, argType := range fn.Signature.Arguments {
		parts = append(parts, ast.TypePrefix(argType))
	}
	parts = append(parts, ast.TypePrefix(fn.Signature.Ret))
	return fn.Name + "_" + strings.Join(parts, "_")
}
