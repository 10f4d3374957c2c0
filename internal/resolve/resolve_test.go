package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/ident"
	"github.com/Champii/Rock-sub001/internal/lexer"
	"github.com/Champii/Rock-sub001/internal/parser"
)

func parseSrc(t *testing.T, src string) (*ast.Root, *diag.Diagnostics) {
	t.Helper()
	normalized := string(lexer.Normalize([]byte(src)))
	l := lexer.New(normalized, "test.rk")
	ctx := parser.NewParsingCtx(ident.NewAllocator(), nil)
	root := parser.ParseRoot(l, ctx, "test.rk", normalized)
	require.False(t, ctx.Diags.HasErrors(), "unexpected parse diagnostics: %+v", ctx.Diags.Messages)
	return root, ctx.Diags
}

func TestResolveBindsCallToFunctionDecl(t *testing.T) {
	root, parseDiags := parseSrc(t, "id x = x\nmain =\n  id 1\n")
	diags := diag.New()
	_ = parseDiags
	out := Resolve(root, diags)
	require.False(t, diags.HasErrors())

	idDecl := root.Mod.TopLevels[0].Function
	mainFn := root.Mod.TopLevels[1].Function
	call := mainFn.Body.Statements[0].Expression.Left.Primary

	callee := call.Operand.Identifier
	resolved, ok := out.Resolutions[callee.Ident.NodeID]
	require.True(t, ok)
	assert.Equal(t, idDecl.Ident.NodeID, resolved)
}

func TestResolveUnresolvedNameIsError(t *testing.T) {
	root, _ := parseSrc(t, "main =\n  missing\n")
	diags := diag.New()
	Resolve(root, diags)
	require.True(t, diags.HasErrors())
}

func TestResolveUnusedFunctionIsWarningNotError(t *testing.T) {
	root, _ := parseSrc(t, "unused = 0\nmain = 0\n")
	diags := diag.New()
	Resolve(root, diags)
	require.False(t, diags.HasErrors())

	var sawUnused bool
	for _, m := range diags.Messages {
		if m.Severity == diag.SeverityWarning && m.Report.Code == diag.RES002UnusedFunction {
			sawUnused = true
			assert.Equal(t, "unused", m.Report.Data["name"])
		}
	}
	assert.True(t, sawUnused, "expected an unused-function warning")
}

func TestResolveMainIsNeverUnused(t *testing.T) {
	root, _ := parseSrc(t, "main = 0\n")
	diags := diag.New()
	Resolve(root, diags)
	for _, m := range diags.Messages {
		assert.NotEqual(t, diag.RES002UnusedFunction, m.Report.Code)
	}
}

func TestResolveWildcardUseBringsNamesIntoScope(t *testing.T) {
	root, _ := parseSrc(t, "use std::prelude::(*)\nmain =\n  id 1\n")
	diags := diag.New()
	out := Resolve(root, diags)
	require.False(t, diags.HasErrors())
	assert.NotEmpty(t, out.Resolutions)
}

func TestResolveTraitImplPopulatesDefaultMethods(t *testing.T) {
	src := "trait Show {\n" +
		"  show : (Int64) -> Int64\n" +
		"  describe x = x\n" +
		"}\n" +
		"impl Show for Int64 {\n" +
		"  show x = x\n" +
		"}\n" +
		"main = 0\n"
	root, _ := parseSrc(t, src)
	diags := diag.New()
	out := Resolve(root, diags)
	require.False(t, diags.HasErrors())

	require.Len(t, out.Impls, 1)
	rec := out.Impls[0]
	assert.Equal(t, "Int64", rec.ImplementorType)
	assert.Equal(t, "Show", rec.TraitName)
	assert.Contains(t, rec.Methods, "show")
	assert.Contains(t, rec.Methods, "describe", "default method not overridden locally should be copied in")
}

func TestResolveAmbiguousImplMultiType(t *testing.T) {
	src := "trait Show {\n" +
		"  show : (Int64) -> Int64\n" +
		"}\n" +
		"impl Show for Int64, Bool {\n" +
		"  show x = x\n" +
		"}\n" +
		"main = 0\n"
	root, _ := parseSrc(t, src)
	diags := diag.New()
	Resolve(root, diags)
	require.True(t, diags.HasErrors())

	var sawAmbiguous bool
	for _, m := range diags.Messages {
		if m.Report.Code == diag.MONO001AmbiguousImpl {
			sawAmbiguous = true
		}
	}
	assert.True(t, sawAmbiguous)
}

func TestResolveAmbiguousOverrideDuplicateDefaultMethod(t *testing.T) {
	src := "trait Show {\n" +
		"  describe x = x\n" +
		"  describe x = 0\n" +
		"}\n" +
		"main = 0\n"
	root, _ := parseSrc(t, src)
	diags := diag.New()
	Resolve(root, diags)
	require.True(t, diags.HasErrors())

	var sawAmbiguous bool
	for _, m := range diags.Messages {
		if m.Report.Code == diag.RES003AmbiguousOverride {
			sawAmbiguous = true
		}
	}
	assert.True(t, sawAmbiguous)
}

func TestResolveInherentImplSkipsDefaultPopulation(t *testing.T) {
	src := "struct P {\n  x: Int64,\n}\n" +
		"impl P {\n  get self = 0\n}\n" +
		"main = 0\n"
	root, _ := parseSrc(t, src)
	diags := diag.New()
	out := Resolve(root, diags)
	require.False(t, diags.HasErrors())

	require.Len(t, out.Impls, 1)
	assert.Equal(t, "", out.Impls[0].TraitName)
	assert.Equal(t, "P", out.Impls[0].ImplementorType)
}

func TestResolveLinksStructFieldTypePlaceholder(t *testing.T) {
	src := "struct Inner {\n  v: Int64,\n}\n" +
		"struct Outer {\n  inner: Inner,\n}\n" +
		"main = 0\n"
	root, _ := parseSrc(t, src)
	diags := diag.New()
	Resolve(root, diags)
	require.False(t, diags.HasErrors())

	outer := root.Mod.TopLevels[1].Struct
	require.Len(t, outer.Defs, 1)
	inner, ok := outer.Defs[0].Type.(*ast.StructType)
	require.True(t, ok)
	assert.Equal(t, "Inner", inner.Name)
	assert.NotEmpty(t, inner.Order, "placeholder should have been swapped for the real declared struct type")
}

func TestResolveLinksFunctionSignaturePlaceholder(t *testing.T) {
	src := "struct P {\n  x: Int64,\n}\n" +
		"identity p : (P) -> P = p\n" +
		"main = 0\n"
	root, _ := parseSrc(t, src)
	diags := diag.New()
	Resolve(root, diags)
	require.False(t, diags.HasErrors())

	fn := root.Mod.TopLevels[1].Function
	require.NotNil(t, fn.Signature)
	argType, ok := fn.Signature.Arguments[0].(*ast.StructType)
	require.True(t, ok)
	assert.NotEmpty(t, argType.Order)
}
