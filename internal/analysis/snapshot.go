package analysis

import (
	"sort"
	"strings"

	"github.com/dts-tools/go-dts-lsp/internal/dts"
)

// Snapshot is the fully analyzed state of one document version: the
// source text, the syntax tree, the symbol table and all diagnostics.
// A snapshot is immutable; an edit produces a new one.
type Snapshot struct {
	Text  string
	File  *dts.File
	Table *SymbolTable

	ParseDiagnostics    []dts.Diagnostic
	AnalysisDiagnostics []dts.Diagnostic

	lineStarts []int
}

// Analyze parses and analyzes text. It always returns a snapshot; on
// malformed input the tree and table are partial and the diagnostics
// say why.
func Analyze(text string) *Snapshot {
	file, parseDiags := dts.Parse(text)
	table, analysisDiags := AnalyzeFile(file)
	return &Snapshot{
		Text:                text,
		File:                file,
		Table:               table,
		ParseDiagnostics:    parseDiags,
		AnalysisDiagnostics: analysisDiags,
		lineStarts:          lineStarts(text),
	}
}

// Diagnostics returns all findings ordered by span start. At equal
// positions parse diagnostics come before analysis diagnostics.
func (s *Snapshot) Diagnostics() []dts.Diagnostic {
	combined := make([]dts.Diagnostic, 0, len(s.ParseDiagnostics)+len(s.AnalysisDiagnostics))
	combined = append(combined, s.ParseDiagnostics...)
	combined = append(combined, s.AnalysisDiagnostics...)
	dts.SortDiagnostics(combined)
	return combined
}

func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Offset converts a position into a byte offset, clamped to the text.
func (s *Snapshot) Offset(pos dts.Position) int {
	line := int(pos.Line)
	if line >= len(s.lineStarts) {
		return len(s.Text)
	}
	offset := s.lineStarts[line] + int(pos.Character)
	lineEnd := len(s.Text)
	if line+1 < len(s.lineStarts) {
		lineEnd = s.lineStarts[line+1]
	}
	if offset > lineEnd {
		return lineEnd
	}
	return offset
}

// Slice returns the source text a span covers.
func (s *Snapshot) Slice(span dts.Span) string {
	start := s.Offset(span.Start)
	end := s.Offset(span.End)
	if start > end {
		return ""
	}
	return s.Text[start:end]
}

// Line returns the given source line without its trailing newline.
func (s *Snapshot) Line(line uint32) string {
	index := int(line)
	if index >= len(s.lineStarts) {
		return ""
	}
	start := s.lineStarts[index]
	end := len(s.Text)
	if index+1 < len(s.lineStarts) {
		end = s.lineStarts[index+1]
	}
	return strings.TrimRight(s.Text[start:end], "\r\n")
}

// LabelInfo is one completion candidate for a '&' reference.
type LabelInfo struct {
	Name string
	Path string
}

// LabelCompletions returns all labels defined in the document, sorted
// by name.
func (s *Snapshot) LabelCompletions() []LabelInfo {
	out := make([]LabelInfo, 0, len(s.Table.Labels))
	for name, sym := range s.Table.Labels {
		out = append(out, LabelInfo{Name: name, Path: sym.Path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
