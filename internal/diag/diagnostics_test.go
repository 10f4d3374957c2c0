package diag

import (
	"bytes"
	"testing"

	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushSetsMustStop(t *testing.T) {
	d := New()
	require.False(t, d.HasErrors())

	d.Push(UnresolvedName(ast.Span{}, "foo"))

	assert.True(t, d.HasErrors())
	assert.Len(t, d.Messages, 1)
	assert.Equal(t, RES001UnresolvedName, d.Messages[0].Report.Code)
}

func TestPushWarningDoesNotStop(t *testing.T) {
	d := New()
	d.PushWarning(UnusedFunction(ast.Span{}, "bar"))

	assert.False(t, d.HasErrors())
	assert.Len(t, d.Messages, 1)
	assert.Equal(t, SeverityWarning, d.Messages[0].Severity)
}

func TestReturnIfErrorNilWhenClean(t *testing.T) {
	d := New()
	assert.NoError(t, d.ReturnIfError(FileTable{}))
}

func TestPrintRendersSourceContext(t *testing.T) {
	d := New()
	span := ast.Span{Start: ast.Pos{File: "main.rk", Line: 2, Column: 1}}
	d.Push(UnresolvedName(span, "foo"))

	var buf bytes.Buffer
	d.Print(FileTable{"main.rk": "main = 0\n  foo\n"}, &buf)

	assert.Contains(t, buf.String(), "RES001")
	assert.Contains(t, buf.String(), "foo")
}

func TestReportRoundTripsThroughError(t *testing.T) {
	err := Wrap(TypeMismatch(ast.Span{}, "Int64", "Bool"))

	rep, ok := AsReport(err)
	require.True(t, ok)
	assert.Equal(t, TYP001TypeMismatch, rep.Code)
}
