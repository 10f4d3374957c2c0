package compiler

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/hir"
	"github.com/Champii/Rock-sub001/testutil"
)

func funcNamed(root *hir.Root, name string) *hir.FunctionDecl {
	for _, top := range root.TopLevels {
		if top.Kind == hir.HirFunction && top.Func.Name == name {
			return top.Func
		}
	}
	return nil
}

func TestCompileStringMainLiteral(t *testing.T) {
	res := CompileString("main.rk", "main = 0\n")
	require.False(t, res.Diags.HasErrors())
	main := funcNamed(res.Root, "main_i64")
	require.NotNil(t, main)
	assert.True(t, main.Signature.IsSolved())
}

func TestCompileStringPolymorphicIdSpecializesPerCallSite(t *testing.T) {
	src := "id x = x\n" +
		"useInt =\n" +
		"  id 1\n" +
		"useBool =\n" +
		"  id true\n" +
		"main =\n" +
		"  useInt\n" +
		"  useBool\n"
	res := CompileString("main.rk", src)
	require.False(t, res.Diags.HasErrors())

	assert.NotNil(t, funcNamed(res.Root, "id_i64_i64"))
	assert.NotNil(t, funcNamed(res.Root, "id_b_b"))
	assert.Nil(t, funcNamed(res.Root, "id"))
}

func TestCompileStringMissingMainIsDiagnosed(t *testing.T) {
	res := CompileString("main.rk", "notMain = 0\n")
	require.True(t, res.Diags.HasErrors())
	assertHasCode(t, res.Diags, diag.MONO002MissingMain)
}

func TestCompileStringNativeOperatorSpecializesLikeAnyOtherCall(t *testing.T) {
	src := "add a b = a + b\n" +
		"main =\n" +
		"  add 1 2\n"
	res := CompileString("main.rk", src)
	require.False(t, res.Diags.HasErrors())
	assert.NotNil(t, funcNamed(res.Root, "add_i64_i64_i64"))
}

// TestCompileStringChainedArithmeticAfterCall covers the second
// end-to-end scenario: a call result feeding straight into further
// native-operator arithmetic (`add 2 3 - 5`) still resolves to a
// single Int64 and compiles clean.
func TestCompileStringChainedArithmeticAfterCall(t *testing.T) {
	src := "add a b = a + b\n" +
		"main =\n" +
		"  add 2 3 - 5\n"
	res := CompileString("main.rk", src)
	require.False(t, res.Diags.HasErrors())
	main := funcNamed(res.Root, "main_i64")
	require.NotNil(t, main)
	assert.True(t, main.Signature.IsSolved())
}

// TestCompileStringEmptySourceIsItsOwnEntryFile guards against src=""
// being mistaken for "no src given" and silently falling back to
// loading path from disk: an empty file is just a file with no
// top-level declarations.
func TestCompileStringEmptySourceIsItsOwnEntryFile(t *testing.T) {
	res := CompileString("empty.rk", "")
	require.NotNil(t, res.AstRoot)
	assert.Empty(t, res.AstRoot.Mod.TopLevels)
	// Parsing and resolving an empty module succeed cleanly; the only
	// diagnostic is mono's own missing-main check, confirming "" parsed
	// as a real empty file rather than silently falling back to disk
	// (a disk-loaded file with no declarations would fail the same way).
	require.True(t, res.Diags.HasErrors())
	assertHasCode(t, res.Diags, diag.MONO002MissingMain)
}

func TestCompileStringStructFieldAccess(t *testing.T) {
	src := "struct P {\n  x: Int64,\n  y: Int64,\n}\n" +
		"getX p = p.x\n" +
		"main =\n" +
		"  getX (P { x = 1, y = 2 })\n"
	res := CompileString("main.rk", src)
	require.False(t, res.Diags.HasErrors())
	getX := funcNamed(res.Root, "getX_P_i64")
	require.NotNil(t, getX)
	ret, ok := getX.Signature.Ret.(*ast.PrimitiveType)
	require.True(t, ok)
	assert.Equal(t, ast.Int64, ret.Kind)
}

// TestCompileStringTraitMethodCallCompilesEndToEnd exercises spec.md
// §4.6's trait-dispatch rule through the whole pipeline: `describe` is
// looked up via TraitSolver.Resolve (internal/infer), then mono
// specializes and mangles the resolved impl exactly like an ordinary
// call, with no trait-specific code of its own.
func TestCompileStringTraitMethodCallCompilesEndToEnd(t *testing.T) {
	src := "struct P {\n  x: Int64,\n}\n" +
		"trait Show {\n" +
		"  describe p = p\n" +
		"}\n" +
		"impl Show for P {\n" +
		"  describe p : (P) -> Int64 = p.x\n" +
		"}\n" +
		"mkP =\n" +
		"  P { x = 1 }\n" +
		"main =\n" +
		"  mkP().describe()\n"
	res := CompileString("main.rk", src)
	require.False(t, res.Diags.HasErrors())

	describe := funcNamed(res.Root, "describe_P_i64")
	require.NotNil(t, describe)
	assert.True(t, describe.Signature.IsSolved())
}

func TestCompileStringUnresolvedNameIsDiagnosed(t *testing.T) {
	res := CompileString("main.rk", "main =\n  doesNotExist\n")
	require.True(t, res.Diags.HasErrors())
	assertHasCode(t, res.Diags, diag.RES001UnresolvedName)
}

func TestCompileStringIfBranchTypeMismatchIsDiagnosed(t *testing.T) {
	src := "main =\n" +
		"  if true then\n" +
		"    1\n" +
		"  else\n" +
		"    true\n"
	res := CompileString("main.rk", src)
	require.True(t, res.Diags.HasErrors())
	assertHasCode(t, res.Diags, diag.TYP001TypeMismatch)
}

// dumpFunctions renders the final, fully mangled function set as a
// sorted "name: signature" listing. Sorting before comparing keeps the
// golden file independent of the order mono appends specializations to
// root.TopLevels.
func dumpFunctions(root *hir.Root) string {
	var lines []string
	for _, top := range root.TopLevels {
		if top.Kind != hir.HirFunction {
			continue
		}
		lines = append(lines, top.Func.Name)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}

func TestCompileStringGoldenFunctionSet(t *testing.T) {
	src := "id x = x\n" +
		"add a b = a + b\n" +
		"useBool =\n" +
		"  id true\n" +
		"main =\n" +
		"  id (add 1 2)\n" +
		"  useBool\n"
	res := CompileString("main.rk", src)
	require.False(t, res.Diags.HasErrors())
	testutil.GoldenCompare(t, "compiler", "function_set", dumpFunctions(res.Root))
}

func assertHasCode(t *testing.T, diags *diag.Diagnostics, code string) {
	t.Helper()
	for _, m := range diags.Messages {
		if m.Report.Code == code {
			return
		}
	}
	t.Fatalf("expected a diagnostic with code %q, got %+v", code, diags.Messages)
}
