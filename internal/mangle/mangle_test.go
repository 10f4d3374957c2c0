package mangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/hir"
	"github.com/Champii/Rock-sub001/internal/ident"
	"github.com/Champii/Rock-sub001/internal/infer"
	"github.com/Champii/Rock-sub001/internal/lexer"
	"github.com/Champii/Rock-sub001/internal/lower"
	"github.com/Champii/Rock-sub001/internal/mono"
	"github.com/Champii/Rock-sub001/internal/parser"
	"github.com/Champii/Rock-sub001/internal/resolve"
)

func mangleSrc(t *testing.T, src string) (*hir.Root, *diag.Diagnostics) {
	t.Helper()
	normalized := string(lexer.Normalize([]byte(src)))
	l := lexer.New(normalized, "test.rk")
	alloc := ident.NewAllocator()
	ctx := parser.NewParsingCtx(alloc, nil)
	astRoot := parser.ParseRoot(l, ctx, "test.rk", normalized)
	require.False(t, ctx.Diags.HasErrors())

	diags := diag.New()
	out := resolve.Resolve(astRoot, diags)
	require.False(t, diags.HasErrors())

	root := lower.LowerCrate(astRoot, out, alloc)
	infer.Run(root, diags)
	require.False(t, diags.HasErrors())

	mono.Run(root, alloc, diags)
	Run(root, diags)
	return root, diags
}

func namesOf(root *hir.Root) []string {
	var names []string
	for _, top := range root.TopLevels {
		if top.Kind == hir.HirFunction {
			names = append(names, top.Func.Name)
		}
	}
	return names
}

func TestMangleMainMatchesBackendEntrySymbol(t *testing.T) {
	root, diags := mangleSrc(t, "main = 0\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, namesOf(root), "main_i64")
}

func TestMangleGivesEachSpecializationADistinctName(t *testing.T) {
	src := "id x = x\n" +
		"useInt =\n" +
		"  id 1\n" +
		"useBool =\n" +
		"  id true\n" +
		"main =\n" +
		"  useInt\n" +
		"  useBool\n"
	root, diags := mangleSrc(t, src)
	require.False(t, diags.HasErrors())

	names := namesOf(root)
	seen := map[string]bool{}
	idCount := 0
	for _, n := range names {
		if n == "id_i64_i64" || n == "id_b_b" {
			idCount++
		}
		require.False(t, seen[n], "mangled name %q collided", n)
		seen[n] = true
	}
	assert.Equal(t, 2, idCount)
}

func TestMangleNoCollisionDiagnosticForDistinctSignatures(t *testing.T) {
	src := "add a b = a + b\n" +
		"main =\n" +
		"  add 1 2\n"
	_, diags := mangleSrc(t, src)
	require.False(t, diags.HasErrors())
}
