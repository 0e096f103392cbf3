// Package dts implements the device-tree source language core: a lexer,
// an error-tolerant parser, the syntax tree model and the diagnostic
// model shared by the analyzer and the front ends.
package dts

import "fmt"

// Position is a source position given by its zero-based line and
// zero-based character offset within that line. This is intentionally
// the same convention the LSP standard uses, which keeps protocol
// conversions trivial.
type Position struct {
	Line      uint32
	Character uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Before reports whether p is strictly before other in source order.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// To builds the span [p, other).
func (p Position) To(other Position) Span {
	return Span{Start: p, End: other}
}

// AsSpan returns the zero-length span at p.
func (p Position) AsSpan() Span {
	return Span{Start: p, End: p}
}

// AsCharSpan returns the one-character span starting at p.
func (p Position) AsCharSpan() Span {
	return Span{Start: p, End: Position{Line: p.Line, Character: p.Character + 1}}
}

// Span is a half-open range in the source text: Start is inclusive,
// End is exclusive.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Contains reports whether pos falls inside the span. A zero-length
// span contains nothing.
func (s Span) Contains(pos Position) bool {
	return !pos.Before(s.Start) && pos.Before(s.End)
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	result := s
	if other.Start.Before(result.Start) {
		result.Start = other.Start
	}
	if result.End.Before(other.End) {
		result.End = other.End
	}
	return result
}
