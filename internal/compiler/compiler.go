// Package compiler wires every pipeline stage (spec.md §4) into the
// entry points a driver needs: CompileFile/CompileString for the plain
// in-process case tests use, and Run for cmd/rockc, which additionally
// threads a config.Config through and calls a backend.Generator once
// the pipeline succeeds. Each call gets its own fresh
// ident.Allocator-scoped run; a MustStop diagnostic aborts the pipeline
// at the stage boundary that raised it, matching the "collect what you
// can, then stop" discipline internal/diag documents.
package compiler

import (
	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/backend"
	"github.com/Champii/Rock-sub001/internal/config"
	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/hir"
	"github.com/Champii/Rock-sub001/internal/ident"
	"github.com/Champii/Rock-sub001/internal/infer"
	"github.com/Champii/Rock-sub001/internal/lexer"
	"github.com/Champii/Rock-sub001/internal/lower"
	"github.com/Champii/Rock-sub001/internal/mangle"
	"github.com/Champii/Rock-sub001/internal/mono"
	"github.com/Champii/Rock-sub001/internal/parser"
	"github.com/Champii/Rock-sub001/internal/resolve"
	"github.com/Champii/Rock-sub001/internal/source"
)

// Result is everything a caller might want out of a compilation
// attempt: the AST as parsed (present even on a later-stage failure, so
// a driver's --show-ast still has something to print), the final HIR
// tree, and the diagnostics sink (which may still carry warnings, e.g.
// RES002UnusedFunction, even on success).
type Result struct {
	AstRoot *ast.Root
	Root    *hir.Root
	Diags   *diag.Diagnostics
	Files   diag.FileTable
}

// loaderResolver adapts internal/source.Loader's File-based Resolve to
// the path/content-string shape internal/parser.ModuleResolver expects,
// so the parser package never has to know about source.File.
type loaderResolver struct {
	loader *source.Loader
	byPath map[string]*source.File
}

func newLoaderResolver(loader *source.Loader) *loaderResolver {
	return &loaderResolver{loader: loader, byPath: map[string]*source.File{}}
}

func (lr *loaderResolver) ResolveModule(fromPath, name string) (path, content string, err error) {
	from, ok := lr.byPath[fromPath]
	if !ok {
		// The entry file registers itself before parsing starts; a
		// `mod` reached from any other file was itself resolved through
		// this same adapter and is already registered.
		return "", "", diag.Wrap(diag.FileNotFound(ast.Span{}, fromPath))
	}

	resolved, err := lr.loader.Resolve(from, name)
	if err != nil {
		return "", "", err
	}
	lr.byPath[resolved.FilePath] = resolved
	return resolved.FilePath, resolved.Content, nil
}

// CompileFile reads path from disk and runs it through every stage,
// using default configuration and no backend.
func CompileFile(path string) *Result {
	return run(path, nil, config.Default(), nil)
}

// CompileString compiles src as if it were the file at path, without
// touching the filesystem for the entry module itself (a `mod`
// declaration reached from it still resolves against the real
// filesystem, matching the teacher CLI's one-shot evaluation mode). An
// empty src is a valid (if useless) entry file, not a signal to fall
// back to disk.
func CompileString(path, src string) *Result {
	return run(path, &src, config.Default(), nil)
}

// Run is the full driver entry point for cmd/rockc: it always loads
// path from disk. gen is called with the finished Root once every
// stage has succeeded, unless cfg.REPL is set (spec.md §6's backend
// contract is skipped for the one-shot interpreter/REPL path) or gen
// is nil.
func Run(path string, cfg *config.Config, gen backend.Generator) *Result {
	return run(path, nil, cfg, gen)
}

// run is shared by the three entry points above; src distinguishes
// "load path from disk" (nil) from "use this exact string as path's
// content" (non-nil, CompileString's case, empty string included).
func run(path string, src *string, cfg *config.Config, gen backend.Generator) *Result {
	loader := source.NewLoader()

	var entry *source.File
	if src != nil {
		entry = loader.LoadString(path, *src)
	} else {
		loaded, err := loader.LoadEntry(path)
		if err != nil {
			diags := diag.New()
			if rep, ok := diag.AsReport(err); ok {
				diags.Push(rep)
			}
			return &Result{Diags: diags, Files: diag.FileTable{}}
		}
		entry = loaded
	}

	res := compile(loader, entry)
	if res.Diags.HasErrors() || res.Root == nil {
		return res
	}

	if gen != nil && cfg != nil && !cfg.REPL {
		if err := gen.Generate(res.Root, cfg); err != nil {
			if rep, ok := diag.AsReport(err); ok {
				res.Diags.Push(rep)
			}
		}
	}

	return res
}

func compile(loader *source.Loader, entry *source.File) *Result {
	diags := diag.New()
	resolver := newLoaderResolver(loader)
	resolver.byPath[entry.FilePath] = entry

	normalized := string(lexer.Normalize([]byte(entry.Content)))
	l := lexer.New(normalized, entry.FilePath)

	alloc := ident.NewAllocator()
	ctx := parser.NewParsingCtx(alloc, resolver)
	astRoot := parser.ParseRoot(l, ctx, entry.FilePath, normalized)

	// The parser accumulates into its own ctx.Diags; every later stage
	// shares the one diags sink Run/CompileFile/CompileString returns.
	diags.Messages = append(diags.Messages, ctx.Diags.Messages...)
	diags.MustStop = diags.MustStop || ctx.Diags.MustStop
	if diags.HasErrors() {
		return &Result{AstRoot: astRoot, Diags: diags, Files: ctx.Files}
	}

	resolveOut := resolve.Resolve(astRoot, diags)
	if diags.HasErrors() {
		return &Result{AstRoot: astRoot, Diags: diags, Files: ctx.Files}
	}

	root := lower.LowerCrate(astRoot, resolveOut, alloc)

	infer.Run(root, diags)
	if diags.HasErrors() {
		return &Result{AstRoot: astRoot, Root: root, Diags: diags, Files: ctx.Files}
	}

	mono.Run(root, alloc, diags)
	if diags.HasErrors() {
		return &Result{AstRoot: astRoot, Root: root, Diags: diags, Files: ctx.Files}
	}

	mangle.Run(root, diags)

	return &Result{AstRoot: astRoot, Root: root, Diags: diags, Files: ctx.Files}
}
