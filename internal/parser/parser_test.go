package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/ident"
	"github.com/Champii/Rock-sub001/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Root {
	t.Helper()
	normalized := string(lexer.Normalize([]byte(src)))
	l := lexer.New(normalized, "test.rk")
	ctx := NewParsingCtx(ident.NewAllocator(), nil)
	root := ParseRoot(l, ctx, "test.rk", normalized)
	require.False(t, ctx.Diags.HasErrors(), "unexpected parse diagnostics: %+v", ctx.Diags.Messages)
	return root
}

func TestParseSimpleAssignment(t *testing.T) {
	root := parse(t, "main = 0\n")
	require.Len(t, root.Mod.TopLevels, 1)
	top := root.Mod.TopLevels[0]
	assert.Equal(t, ast.TopFunction, top.Kind)
	assert.Equal(t, "main", top.Function.Name.Name)
	require.Len(t, top.Function.Body.Statements, 1)
}

func TestParseFunctionWithArgsAndBlockBody(t *testing.T) {
	root := parse(t, "add a b =\n  a + b\n")
	top := root.Mod.TopLevels[0]
	require.Equal(t, ast.TopFunction, top.Kind)
	fn := top.Function
	assert.Equal(t, "add", fn.Name.Name)
	require.Len(t, fn.Arguments, 2)
	assert.Equal(t, "a", fn.Arguments[0].Name.Name)
	assert.Equal(t, "b", fn.Arguments[1].Name.Name)
	require.Len(t, fn.Body.Statements, 1)

	stmt := fn.Body.Statements[0]
	require.Equal(t, ast.StmtExpression, stmt.Kind)
	expr := stmt.Expression
	assert.Equal(t, "a", expr.Left.Primary.Operand.Identifier.Name)
	assert.Equal(t, "+", expr.Op)
	assert.Equal(t, "b", expr.Right.Left.Primary.Operand.Identifier.Name)
}

func TestParseIfExpression(t *testing.T) {
	root := parse(t, "main =\n  if true then 1 else 2\n")
	fn := root.Mod.TopLevels[0].Function
	stmt := fn.Body.Statements[0]
	require.Equal(t, ast.StmtExpression, stmt.Kind)
	operand := stmt.Expression.Left.Primary.Operand
	require.Equal(t, ast.OperandIf, operand.Kind)
	assert.NotNil(t, operand.If.Else)
}

func TestParseUseWildcard(t *testing.T) {
	root := parse(t, "use std::prelude::(*)\nmain = 0\n")
	top := root.Mod.TopLevels[0]
	require.Equal(t, ast.TopUse, top.Kind)
	assert.True(t, top.Use.Wildcard)
	assert.Equal(t, "std::prelude", top.Use.Path.String())
}

func TestParseStructDecl(t *testing.T) {
	root := parse(t, "struct P {\n  x: Int64,\n  y: Int64,\n}\nmain = 0\n")
	top := root.Mod.TopLevels[0]
	require.Equal(t, ast.TopStruct, top.Kind)
	assert.Equal(t, "P", top.Struct.Name.Name)
	require.Len(t, top.Struct.Defs, 2)
}

func TestParseInfixDuplicateIsDiagnostic(t *testing.T) {
	normalized := string(lexer.Normalize([]byte("infix + 9\nmain = 0\n")))
	l := lexer.New(normalized, "test.rk")
	ctx := NewParsingCtx(ident.NewAllocator(), nil)
	ParseRoot(l, ctx, "test.rk", normalized)
	require.True(t, ctx.Diags.HasErrors())
}

func TestParsePrototypeWithoutBody(t *testing.T) {
	root := parse(t, "id : (Int64) -> Int64\nmain = 0\n")
	top := root.Mod.TopLevels[0]
	require.Equal(t, ast.TopPrototype, top.Kind)
	assert.Equal(t, "id", top.Prototype.Name.Name)
}
