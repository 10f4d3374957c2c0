// Package backend defines the contract a code generator implements
// once internal/mangle has produced a fully monomorphized, uniquely
// named hir.Root. Emitting an actual target (LLVM IR, WASM, ...) is out
// of scope here; this package exists so internal/compiler has a stable
// seam to call into once a backend is written.
package backend

import (
	"github.com/Champii/Rock-sub001/internal/config"
	"github.com/Champii/Rock-sub001/internal/hir"
)

// Generator turns a fully lowered, monomorphized and mangled Root
// (prog) into target output, honoring whichever build options cfg
// carries (build folder, entry symbol, ...). internal/compiler calls
// Generate as the last pipeline stage, skipping it entirely in
// interpreter/REPL mode; no implementation ships here.
type Generator interface {
	Generate(prog *hir.Root, cfg *config.Config) error
}
