// Command rockc is the thin CLI entry point (spec.md §6): it loads an
// optional rock.yaml project file, overlays command-line flags on top,
// compiles the entry file through internal/compiler, prints
// diagnostics, and exits 0/1/-1 (success / diagnostic errors / pipeline
// crash).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/Champii/Rock-sub001/internal/compiler"
	"github.com/Champii/Rock-sub001/internal/config"
	"github.com/Champii/Rock-sub001/internal/lexer"
	"github.com/Champii/Rock-sub001/internal/source"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

const (
	exitOK         = 0
	exitDiagnostic = 1
	exitCrash      = -1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("internal error"), r)
			code = exitCrash
		}
	}()

	fs := flag.NewFlagSet("rockc", flag.ContinueOnError)
	configPath := fs.String("config", "rock.yaml", "project config file")
	showTokens := fs.Bool("show-tokens", false, "print the token stream")
	showAST := fs.Bool("show-ast", false, "print the parsed AST")
	showHIR := fs.Bool("show-hir", false, "print the lowered HIR")
	showIR := fs.Bool("show-ir", false, "print the monomorphized, mangled HIR")
	showState := fs.Bool("show-state", false, "print inference's solved node types")
	verbose := fs.Bool("verbose", false, "verbose diagnostics output")
	replFlag := fs.Bool("repl", false, "step through each pipeline stage interactively instead of compiling straight through")

	if err := fs.Parse(args); err != nil {
		return exitCrash
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("config"), err)
		return exitCrash
	}
	// A flag can switch an option on over the config file; it cannot
	// switch off an option the config file enabled.
	cfg.ShowTokens = cfg.ShowTokens || *showTokens
	cfg.ShowAST = cfg.ShowAST || *showAST
	cfg.ShowHIR = cfg.ShowHIR || *showHIR
	cfg.ShowIR = cfg.ShowIR || *showIR
	cfg.ShowState = cfg.ShowState || *showState
	cfg.Verbose = cfg.Verbose || *verbose
	cfg.REPL = cfg.REPL || *replFlag

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: rockc [flags] <file.rk>")
		return exitDiagnostic
	}
	path := fs.Arg(0)

	if cfg.REPL {
		return stepInteractively(path, cfg)
	}

	if cfg.ShowTokens {
		printTokens(os.Stdout, path)
	}

	res := compiler.Run(path, cfg, nil)
	printStages(os.Stdout, res, cfg)

	if len(res.Diags.Messages) > 0 {
		res.Diags.Print(res.Files, color.Output)
	}
	if res.Diags.HasErrors() {
		return exitDiagnostic
	}

	fmt.Fprintf(os.Stdout, "%s\n", green("compiled"))
	return exitOK
}

// printTokens re-lexes path on its own (the compiler pipeline doesn't
// keep its token stream around past parsing) and prints every token in
// order, stopping after EOF.
func printTokens(w *os.File, path string) {
	file, err := source.NewLoader().LoadEntry(path)
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", red("tokens"), err)
		return
	}

	normalized := string(lexer.Normalize([]byte(file.Content)))
	l := lexer.New(normalized, file.FilePath)

	fmt.Fprintln(w, bold("-- tokens --"))
	for {
		tok := l.NextToken()
		fmt.Fprintln(w, tok.String())
		if tok.Type == lexer.EOF {
			break
		}
	}
}

// printStages dumps whichever intermediate representation cfg asked
// for; each is independent of the others, so a failed later stage (no
// Root) still lets --show-ast work off the AST alone.
func printStages(w *os.File, res *compiler.Result, cfg *config.Config) {
	if cfg.ShowAST && res.AstRoot != nil {
		fmt.Fprintln(w, bold("-- ast --"))
		fmt.Fprintln(w, res.AstRoot.String())
	}
	if cfg.ShowHIR && res.Root != nil {
		fmt.Fprintln(w, bold("-- hir --"))
		for _, top := range res.Root.TopLevels {
			fmt.Fprintf(w, "%+v\n", top)
		}
	}
	if cfg.ShowIR && res.Root != nil {
		fmt.Fprintln(w, bold("-- ir (monomorphized + mangled) --"))
		for _, top := range res.Root.TopLevels {
			fmt.Fprintf(w, "%+v\n", top)
		}
	}
	if cfg.ShowState && res.Root != nil {
		fmt.Fprintln(w, bold("-- node types --"))
		for id, t := range res.Root.NodeTypes {
			fmt.Fprintf(w, "%v: %s\n", id, t)
		}
	}
}

// stepInteractively prompts once per stage name via liner, stopping on
// `:q` or end of input, and then runs the whole pipeline and prints every
// stage's --show-* output together; output is not shown between the
// prompts. This is a debug aid over the same deterministic pipeline compiler.Run
// drives straight through; it does not evaluate the program (the
// source language has no interpreter here).
func stepInteractively(path string, cfg *config.Config) int {
	line := liner.NewLiner()
	defer line.Close()

	stages := []string{"tokens", "ast", "hir", "ir (mono+mangle)", "node types"}
	fmt.Printf("%s %s\n", bold("rockc"), "interactive stage walkthrough")
	for _, s := range stages {
		if in, err := line.Prompt(fmt.Sprintf("[%s] press enter to continue, :q to stop > ", s)); err != nil || in == ":q" {
			return exitOK
		}
	}

	stepCfg := *cfg
	stepCfg.ShowTokens = true
	stepCfg.ShowAST = true
	stepCfg.ShowHIR = true
	stepCfg.ShowIR = true
	stepCfg.ShowState = true

	printTokens(os.Stdout, path)

	res := compiler.Run(path, &stepCfg, nil)
	printStages(os.Stdout, res, &stepCfg)
	if len(res.Diags.Messages) > 0 {
		res.Diags.Print(res.Files, color.Output)
	}
	if res.Diags.HasErrors() {
		return exitDiagnostic
	}
	return exitOK
}
