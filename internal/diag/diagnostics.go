package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Severity distinguishes fatal diagnostics from warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Message pairs a Report with the severity it was pushed at.
type Message struct {
	Severity Severity
	Report   *Report
}

// Diagnostics is the single sink every pipeline stage appends to. A
// pushed error sets MustStop; a pushed warning never does. Stages keep
// going after a recoverable error to collect as many diagnostics as
// possible, then check MustStop at their boundary (spec.md §4.8, §7).
type Diagnostics struct {
	Messages []Message
	MustStop bool
}

// New returns an empty Diagnostics sink.
func New() *Diagnostics { return &Diagnostics{} }

// Push records a fatal diagnostic and sets MustStop.
func (d *Diagnostics) Push(r *Report) {
	d.Messages = append(d.Messages, Message{Severity: SeverityError, Report: r})
	d.MustStop = true
}

// PushWarning records a non-fatal diagnostic.
func (d *Diagnostics) PushWarning(r *Report) {
	d.Messages = append(d.Messages, Message{Severity: SeverityWarning, Report: r})
}

// HasErrors reports whether any fatal diagnostic was pushed.
func (d *Diagnostics) HasErrors() bool { return d.MustStop }

// ReturnIfError prints all accumulated diagnostics to color.Output and
// returns a sentinel error iff MustStop is set. A stage boundary
// calls this after doing as much recoverable work as it can.
func (d *Diagnostics) ReturnIfError(files FileTable) error {
	if !d.MustStop {
		return nil
	}
	d.Print(files, color.Output)
	return Wrap(New(INT001InternalInvariant, "pipeline", "compilation aborted due to prior errors", nil, nil))
}

// FileTable maps a file path to its source text, used to render context
// lines around a Span.
type FileTable map[string]string

// Print renders every accumulated message to w: errors in red, warnings
// in yellow, with a source context line when the Report carries a Span.
func (d *Diagnostics) Print(files FileTable, w io.Writer) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	for _, m := range d.Messages {
		label := "error"
		c := red
		if m.Severity == SeverityWarning {
			label = "warning"
			c = yellow
		}
		c.Fprintf(w, "%s", strings.ToUpper(label))
		fmt.Fprintf(w, "[%s]: %s\n", m.Report.Code, m.Report.Message)

		if m.Report.Span != nil {
			fmt.Fprintf(w, "  --> %s:%d:%d\n", m.Report.Span.Start.File, m.Report.Span.Start.Line, m.Report.Span.Start.Column)
			if src, ok := files[m.Report.Span.Start.File]; ok {
				if line := sourceLine(src, m.Report.Span.Start.Line); line != "" {
					fmt.Fprintf(w, "   | %s\n", line)
				}
			}
		}
	}
}

func sourceLine(src string, line int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
