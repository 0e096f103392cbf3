package lsp

import (
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dts-tools/go-dts-lsp/internal/analysis"
	"github.com/dts-tools/go-dts-lsp/internal/dts"
)

// The analyzer measures characters in bytes while the protocol speaks
// UTF-16 code units. The conversions need the line text, which the
// snapshot provides.

// utf16RuneLen mirrors unicode/utf16.RuneLen, which is not available
// before Go 1.23.
func utf16RuneLen(r rune) int {
	switch {
	case 0 <= r && r < 0xd800, 0xe000 <= r && r < 0x10000:
		return 1
	case 0x10000 <= r && r <= '\U0010FFFF':
		return 2
	default:
		return -1
	}
}

func toUInteger(value int) protocol.UInteger {
	converted, err := safecast.Conv[protocol.UInteger](value)
	if err != nil {
		return 0
	}
	return converted
}

// toProtocolPosition converts a byte-column position into a protocol
// position.
func toProtocolPosition(snapshot *analysis.Snapshot, pos dts.Position) protocol.Position {
	line := snapshot.Line(pos.Line)
	column := int(pos.Character)
	if column > len(line) {
		column = len(line)
	}
	units := 0
	for _, r := range line[:column] {
		units += utf16RuneLen(r)
	}
	return protocol.Position{Line: pos.Line, Character: toUInteger(units)}
}

// fromProtocolPosition converts a protocol position into a
// byte-column position.
func fromProtocolPosition(snapshot *analysis.Snapshot, pos protocol.Position) dts.Position {
	line := snapshot.Line(pos.Line)
	target := int(pos.Character)
	units := 0
	offset := 0
	for offset < len(line) && units < target {
		r, size := utf8.DecodeRuneInString(line[offset:])
		units += utf16RuneLen(r)
		offset += size
	}
	return dts.Position{Line: pos.Line, Character: toUInteger(offset)}
}

// toProtocolRange converts a span into a protocol range.
func toProtocolRange(snapshot *analysis.Snapshot, span dts.Span) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(snapshot, span.Start),
		End:   toProtocolPosition(snapshot, span.End),
	}
}
