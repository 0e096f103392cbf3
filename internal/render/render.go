// Package render prints diagnostics as annotated source snippets:
//
//	error --> board.dts:4:13
//	  |
//	4 |     status = "okay"
//	  |                    ^ Expected ';'
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/dts-tools/go-dts-lsp/internal/analysis"
	"github.com/dts-tools/go-dts-lsp/internal/dts"
)

// Printer writes diagnostics to an output stream.
type Printer struct {
	out      io.Writer
	colorize bool
}

// NewPrinter returns a printer. With colorize set the severity word is
// colored by level.
func NewPrinter(out io.Writer, colorize bool) *Printer {
	return &Printer{out: out, colorize: colorize}
}

var severityColors = map[dts.Severity]*color.Color{
	dts.SeverityError:   color.New(color.FgRed, color.Bold),
	dts.SeverityWarning: color.New(color.FgYellow, color.Bold),
	dts.SeverityInfo:    color.New(color.FgCyan, color.Bold),
}

func (p *Printer) severity(s dts.Severity) string {
	if !p.colorize {
		return s.String()
	}
	return severityColors[s].Sprint(s.String())
}

// Print renders every diagnostic of the snapshot, in order.
func (p *Printer) Print(filename string, snapshot *analysis.Snapshot) {
	for _, diag := range snapshot.Diagnostics() {
		p.PrintDiagnostic(filename, snapshot, diag)
	}
}

// PrintDiagnostic renders a single diagnostic with its source line and
// a caret marker under the offending span. Positions are shown one
// based, the way editors and compilers display them.
func (p *Printer) PrintDiagnostic(filename string, snapshot *analysis.Snapshot, diag dts.Diagnostic) {
	start := diag.Span.Start
	line := snapshot.Line(start.Line)

	prefix := fmt.Sprintf("%d", start.Line+1)
	gutter := strings.Repeat(" ", len(prefix))

	fmt.Fprintf(p.out, "%s --> %s:%d:%d\n", p.severity(diag.Severity), filename, start.Line+1, start.Character+1)
	fmt.Fprintf(p.out, "%s |\n", gutter)
	fmt.Fprintf(p.out, "%s | %s\n", prefix, line)
	fmt.Fprintf(p.out, "%s | %s%s %s\n\n", gutter, caretPad(line, start.Character), carets(line, diag.Span), diag.Message)
}

// caretPad builds the whitespace run that places the caret under the
// span start. The line's own tabs are kept so the alignment survives
// any tab width; other characters turn into spaces matching their
// display width.
func caretPad(line string, character uint32) string {
	var b strings.Builder
	for i, r := range line {
		if i >= int(character) {
			break
		}
		switch {
		case r == '\t':
			b.WriteByte('\t')
		case r == ' ':
			b.WriteByte(' ')
		default:
			b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
	}
	return b.String()
}

// carets returns the marker under the span, at least one '^'.
func carets(line string, span dts.Span) string {
	width := 1
	if span.Start.Line == span.End.Line && span.End.Character > span.Start.Character {
		start := int(span.Start.Character)
		end := int(span.End.Character)
		if start > len(line) {
			start = len(line)
		}
		if end > len(line) {
			end = len(line)
		}
		if w := runewidth.StringWidth(line[start:end]); w > width {
			width = w
		}
	}
	return strings.Repeat("^", width)
}
