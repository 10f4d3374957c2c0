// Package parser turns a token stream into an AST, tracking indentation
// via INDENT/DEDENT tokens and resolving `mod` declarations to sibling
// source files through a ModuleResolver.
package parser

import (
	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/ident"
)

// ModuleResolver loads the source text for a `mod name` declaration,
// relative to the file that owns it. internal/source.Loader implements
// this for the real compiler pipeline; tests can stub it.
type ModuleResolver interface {
	ResolveModule(fromPath string, name string) (path, content string, err error)
}

// ParsingCtx is shared by every Parser created for one compilation: the
// file table (for diagnostic source context), the diagnostics sink, the
// id allocator, the live infix operator/precedence table, and the
// module resolver used for `mod` declarations.
type ParsingCtx struct {
	Files     diag.FileTable
	Diags     *diag.Diagnostics
	Alloc     *ident.Allocator
	Operators map[string]int
	Resolver  ModuleResolver
}

// NewParsingCtx builds a ParsingCtx seeded with the built-in operator
// precedences.
func NewParsingCtx(alloc *ident.Allocator, resolver ModuleResolver) *ParsingCtx {
	return &ParsingCtx{
		Files:     diag.FileTable{},
		Diags:     diag.New(),
		Alloc:     alloc,
		Operators: defaultOperators(),
		Resolver:  resolver,
	}
}

func defaultOperators() map[string]int {
	return map[string]int{
		"||": 1,
		"&&": 2,
		"==": 3, "!=": 3,
		"<": 4, ">": 4, "<=": 4, ">=": 4,
		"+": 5, "-": 5,
		"*": 6, "/": 6, "%": 6,
	}
}

// DeclareInfix registers a user-defined infix operator at the given
// precedence. Redeclaring an existing name is a DuplicatedOperator
// diagnostic.
func (c *ParsingCtx) DeclareInfix(span ast.Span, name string, prec uint8) {
	if _, exists := c.Operators[name]; exists {
		c.Diags.Push(diag.DuplicatedOperator(span, name))
		return
	}
	c.Operators[name] = int(prec)
}
