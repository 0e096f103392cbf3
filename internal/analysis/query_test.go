package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dts-tools/go-dts-lsp/internal/dts"
)

const queryDoc = `/dts-v1/;
/ {
	soc {
		pic: interrupt-controller@0 {
			phandle = <1>;
		};
		uart@4000 {
			status = "okay";
			interrupt-parent = <&pic>;
		};
	};
};
&pic { bias = <2>; };`

func pos(line, character uint32) dts.Position {
	return dts.Position{Line: line, Character: character}
}

func TestDefinitionAt_Reference(t *testing.T) {
	snapshot := Analyze(queryDoc)
	require.Empty(t, snapshot.Diagnostics())

	// On '&pic' inside the cell list (line 8, "<&pic>").
	span, ok := snapshot.DefinitionAt(pos(8, 24))
	require.True(t, ok)
	// The definition is the node name on line 3.
	assert.Equal(t, uint32(3), span.Start.Line)
	assert.Equal(t, "interrupt-controller@0", snapshot.Slice(span))
}

func TestDefinitionAt_ExtensionReference(t *testing.T) {
	snapshot := Analyze(queryDoc)
	span, ok := snapshot.DefinitionAt(pos(12, 1))
	require.True(t, ok)
	assert.Equal(t, "interrupt-controller@0", snapshot.Slice(span))
}

func TestDefinitionAt_Unresolved(t *testing.T) {
	snapshot := Analyze("/dts-v1/;\n/ { x = <&nope>; };")
	_, ok := snapshot.DefinitionAt(pos(1, 10))
	assert.False(t, ok)
}

func TestDefinitionAt_NotAReference(t *testing.T) {
	snapshot := Analyze(queryDoc)
	_, ok := snapshot.DefinitionAt(pos(0, 2))
	assert.False(t, ok)
}

func TestHoverAt_Reference(t *testing.T) {
	snapshot := Analyze(queryDoc)
	hover, ok := snapshot.HoverAt(pos(8, 24))
	require.True(t, ok)
	assert.Contains(t, hover.Contents, "/soc/interrupt-controller@0")
	assert.Contains(t, hover.Contents, "pic")
	assert.Contains(t, hover.Contents, "Phandle: 1")
}

func TestHoverAt_NodeName(t *testing.T) {
	snapshot := Analyze(queryDoc)
	// On 'uart@4000' (line 6).
	hover, ok := snapshot.HoverAt(pos(6, 3))
	require.True(t, ok)
	assert.Contains(t, hover.Contents, "/soc/uart@4000")
}

func TestHoverAt_Property(t *testing.T) {
	snapshot := Analyze(queryDoc)
	// On 'status' (line 7).
	hover, ok := snapshot.HoverAt(pos(7, 4))
	require.True(t, ok)
	assert.Equal(t, `status = "okay";`, hover.Contents)
}

func TestHoverAt_Nothing(t *testing.T) {
	snapshot := Analyze(queryDoc)
	_, ok := snapshot.HoverAt(pos(0, 3))
	assert.False(t, ok)
}

func TestReferencesTo(t *testing.T) {
	snapshot := Analyze(queryDoc)

	// From the label definition (line 3, 'pic:').
	spans := snapshot.ReferencesTo(pos(3, 3), false)
	require.Len(t, spans, 2)
	assert.Equal(t, uint32(8), spans[0].Start.Line)
	assert.Equal(t, uint32(12), spans[1].Start.Line)

	withDefs := snapshot.ReferencesTo(pos(3, 3), true)
	assert.Greater(t, len(withDefs), len(spans))
}

func TestReferencesTo_FromReference(t *testing.T) {
	snapshot := Analyze(queryDoc)
	spans := snapshot.ReferencesTo(pos(12, 1), false)
	assert.Len(t, spans, 2)
}

func TestOutline(t *testing.T) {
	snapshot := Analyze(queryDoc)
	outline := snapshot.Outline()
	require.Len(t, outline, 2)

	root := outline[0]
	assert.Equal(t, "/", root.Name)
	require.Len(t, root.Children, 1)

	soc := root.Children[0]
	assert.Equal(t, "soc", soc.Name)
	require.Len(t, soc.Children, 2)

	pic := soc.Children[0]
	assert.Equal(t, "interrupt-controller@0", pic.Name)
	assert.Equal(t, "pic:", pic.Detail)
	assert.True(t, pic.IsNode)
	require.Len(t, pic.Children, 1)
	assert.Equal(t, "phandle", pic.Children[0].Name)
	assert.False(t, pic.Children[0].IsNode)

	extension := outline[1]
	assert.Equal(t, "&pic", extension.Name)
}

func TestOutline_SurvivesBrokenInput(t *testing.T) {
	snapshot := Analyze("/dts-v1/;\n/ {\n\tuart {\n\t\tstatus = \"okay\";\n")
	outline := snapshot.Outline()
	require.Len(t, outline, 1)
	require.Len(t, outline[0].Children, 1)
	assert.Equal(t, "uart", outline[0].Children[0].Name)
}

func TestLabelCompletions(t *testing.T) {
	snapshot := Analyze(`/dts-v1/;
/ {
	uart1: uart@0 { };
	adc: adc@4 { };
};`)
	labels := snapshot.LabelCompletions()
	require.Len(t, labels, 2)
	assert.Equal(t, "adc", labels[0].Name)
	assert.Equal(t, "/adc@4", labels[0].Path)
	assert.Equal(t, "uart1", labels[1].Name)
}

func TestSnapshot_SliceAndLine(t *testing.T) {
	snapshot := Analyze("abc\ndef\n")
	assert.Equal(t, "def", snapshot.Line(1))
	span := dts.Span{Start: pos(0, 1), End: pos(1, 2)}
	assert.Equal(t, "bc\nde", snapshot.Slice(span))
}

func TestSnapshot_DiagnosticsOrdered(t *testing.T) {
	snapshot := Analyze("/ { x = ; y = <&gone>; };")
	diags := snapshot.Diagnostics()
	require.NotEmpty(t, diags)
	for i := 1; i < len(diags); i++ {
		assert.False(t, diags[i].Span.Start.Before(diags[i-1].Span.Start),
			"diagnostic %d out of order", i)
	}
}
