package diag

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Champii/Rock-sub001/internal/ast"
)

// Report is the canonical structured diagnostic. Every builder below
// returns one; Wrap puts it in a *ReportError so the structure survives
// a plain `error` return value and can be recovered with errors.As.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

const schemaV1 = "rock.diagnostic/v1"

// ReportError adapts a Report to the error interface.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts the Report from an error chain, if any.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap turns a Report into an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New builds a Report with the standard schema tag.
func New(code, phase, message string, span *ast.Span, data map[string]any) *Report {
	return &Report{Schema: schemaV1, Code: code, Phase: phase, Message: message, Span: span, Data: data}
}

// ToJSON renders the report deterministically (sorted keys, via
// encoding/json's default map ordering).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Builders for each taxonomy entry in spec.md §7.

func FileNotFound(span ast.Span, name string) *Report {
	return New(LDR001FileNotFound, PhaseLoader, fmt.Sprintf("module %q not found", name), &span, map[string]any{"name": name})
}

func SyntaxError(span ast.Span, expected, found string) *Report {
	return New(PAR001SyntaxError, PhaseParser, fmt.Sprintf("expected %s, found %s", expected, found), &span,
		map[string]any{"expected": expected, "found": found})
}

func DuplicatedOperator(span ast.Span, name string) *Report {
	return New(PAR002DuplicatedOperator, PhaseParser, fmt.Sprintf("infix operator %q already declared", name), &span,
		map[string]any{"name": name})
}

func UnresolvedName(span ast.Span, name string) *Report {
	return New(RES001UnresolvedName, PhaseResolve, fmt.Sprintf("cannot resolve name %q", name), &span,
		map[string]any{"name": name})
}

func UnusedFunction(span ast.Span, name string) *Report {
	return New(RES002UnusedFunction, PhaseResolve, fmt.Sprintf("function %q is never used", name), &span,
		map[string]any{"name": name})
}

func AmbiguousOverride(span ast.Span, trait, method string) *Report {
	return New(RES003AmbiguousOverride, PhaseResolve,
		fmt.Sprintf("trait %q has more than one default method named %q", trait, method), &span,
		map[string]any{"trait": trait, "method": method})
}

func TypeMismatch(span ast.Span, expected, found string) *Report {
	return New(TYP001TypeMismatch, PhaseInfer, fmt.Sprintf("type mismatch: expected %s, found %s", expected, found), &span,
		map[string]any{"expected": expected, "found": found})
}

func AmbiguousImpl(span ast.Span, typeName string) *Report {
	return New(MONO001AmbiguousImpl, PhaseMono,
		fmt.Sprintf("impl lists more than one type (%s); multi-type dispatch is not specified", typeName), &span,
		map[string]any{"types": typeName})
}

func MissingMain() *Report {
	return New(MONO002MissingMain, PhaseMono, "no top-level `main` function found", nil, nil)
}

func MainNotGround(span ast.Span, name string) *Report {
	return New(MONO003MainNotGround, PhaseMono,
		fmt.Sprintf("%q's signature did not fully resolve to concrete types", name), &span,
		map[string]any{"name": name})
}

func DuplicateMangledName(span ast.Span, name string) *Report {
	return New(MANG001DuplicateMangledName, PhaseMangle, fmt.Sprintf("two functions mangle to the same name %q", name), &span,
		map[string]any{"name": name})
}

// InternalInvariant builds a Report for an assertion that should never
// fire outside a compiler bug. Callers still surface it as a Report
// rather than panicking so the driver can print it uniformly, but it is
// never recoverable: the pipeline aborts immediately (spec.md §7).
func InternalInvariant(phase, message string) *Report {
	return New(INT001InternalInvariant, phase, message, nil, nil)
}
