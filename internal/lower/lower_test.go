package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/hir"
	"github.com/Champii/Rock-sub001/internal/ident"
	"github.com/Champii/Rock-sub001/internal/lexer"
	"github.com/Champii/Rock-sub001/internal/parser"
	"github.com/Champii/Rock-sub001/internal/resolve"
)

func lowerSrc(t *testing.T, src string) *hir.Root {
	t.Helper()
	normalized := string(lexer.Normalize([]byte(src)))
	l := lexer.New(normalized, "test.rk")
	alloc := ident.NewAllocator()
	ctx := parser.NewParsingCtx(alloc, nil)
	root := parser.ParseRoot(l, ctx, "test.rk", normalized)
	require.False(t, ctx.Diags.HasErrors())

	diags := diag.New()
	out := resolve.Resolve(root, diags)
	require.False(t, diags.HasErrors())

	return LowerCrate(root, out, alloc)
}

func findFunc(root *hir.Root, name string) *hir.FunctionDecl {
	for _, top := range root.TopLevels {
		if top.Kind == hir.HirFunction && top.Func.Name == name {
			return top.Func
		}
	}
	return nil
}

func TestLowerFunctionBodyProducesBlock(t *testing.T) {
	root := lowerSrc(t, "main = 0\n")
	fn := findFunc(root, "main")
	require.NotNil(t, fn)
	require.Len(t, fn.Body.(*hir.Block).Stmts, 1)
	lit, ok := fn.Body.(*hir.Block).Stmts[0].(*hir.Lit)
	require.True(t, ok)
	assert.Equal(t, int64(0), lit.Value)
}

func TestLowerElselessIfGetsEmptyElse(t *testing.T) {
	root := lowerSrc(t, "main =\n  if true then\n    0\n")
	fn := findFunc(root, "main")
	ifExpr, ok := fn.Body.(*hir.Block).Stmts[0].(*hir.If)
	require.True(t, ok)
	require.NotNil(t, ifExpr.Else)
	assert.Empty(t, ifExpr.Else.Stmts)
}

func TestLowerCollapsesCallChainInnermostFirst(t *testing.T) {
	root := lowerSrc(t, "struct P {\n  x: Int64,\n}\nget p = p.x\nmain =\n  get (P { x = 1 })\n")
	fn := findFunc(root, "get")
	access, ok := fn.Body.(*hir.Block).Stmts[0].(*hir.StructAccess)
	require.True(t, ok)
	assert.Equal(t, "x", access.Field)
	_, ok = access.Target.(*hir.Ident)
	assert.True(t, ok)
}

func TestLowerResolutionsLiftedToHirIds(t *testing.T) {
	root := lowerSrc(t, "id x = x\nmain =\n  id 1\n")
	idFn := findFunc(root, "id")
	mainFn := findFunc(root, "main")
	require.NotNil(t, idFn)
	require.NotNil(t, mainFn)

	call, ok := mainFn.Body.(*hir.Block).Stmts[0].(*hir.FunctionCall)
	require.True(t, ok)
	callee, ok := call.Op.(*hir.Ident)
	require.True(t, ok)
	assert.Equal(t, "id", callee.Name)

	target, ok := root.Resolutions[callee.HirID()]
	require.True(t, ok)
	assert.Equal(t, idFn.HirID(), target)
}

func TestLowerImplRegistersMethodWithTraitSolver(t *testing.T) {
	src := "trait Show {\n" +
		"  describe x = x\n" +
		"}\n" +
		"impl Show for Int64 {\n" +
		"  describe x = 0\n" +
		"}\n" +
		"main = 0\n"
	root := lowerSrc(t, src)
	fn, ok := root.TraitSolver.Resolve("Int64", "describe", []string{"Show"})
	require.True(t, ok)
	assert.NotNil(t, fn)
}
