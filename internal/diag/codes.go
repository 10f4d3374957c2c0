package diag

// Stable error codes, one per taxonomy entry in spec.md §7. Grouped by
// the phase that raises them, mirroring the PHASE### convention the
// teacher compiler uses for its own error codes.
const (
	// LDR — SourceLoader
	LDR001FileNotFound = "LDR001"

	// PAR — Lexer/Parser
	PAR001SyntaxError        = "PAR001"
	PAR002DuplicatedOperator = "PAR002"

	// RES — Resolver
	RES001UnresolvedName    = "RES001"
	RES002UnusedFunction    = "RES002" // warning, non-fatal
	RES003AmbiguousOverride = "RES003" // Open Question (1): default-impl name clash

	// TYP — Infer
	TYP001TypeMismatch = "TYP001"

	// MONO — Monomorphizer
	MONO001AmbiguousImpl = "MONO001" // Open Question (2): multi-type trait impl
	MONO002MissingMain   = "MONO002" // no top-level `main` found to seed reachability from
	MONO003MainNotGround = "MONO003" // `main` exists but its signature never fully solved

	// MANG — Mangler
	MANG001DuplicateMangledName = "MANG001"

	// INT — internal invariants; should never reach a user
	INT001InternalInvariant = "INT001"
)

// Phase names used in Report.Phase.
const (
	PhaseLoader  = "loader"
	PhaseParser  = "parser"
	PhaseResolve = "resolve"
	PhaseInfer   = "infer"
	PhaseMono    = "mono"
	PhaseMangle  = "mangle"
)
