package dts

import (
	"testing"
)

func parseOK(t *testing.T, text string) *File {
	t.Helper()
	file, diags := Parse(text)
	if len(diags) != 0 {
		t.Fatalf("Parse(%q) produced diagnostics: %v", text, diags)
	}
	return file
}

func rootNode(t *testing.T, file *File) *Node {
	t.Helper()
	for _, el := range file.Elements {
		if node, ok := el.(*Node); ok {
			return node
		}
	}
	t.Fatal("No node element in file")
	return nil
}

func TestParse_WellFormed(t *testing.T) {
	file := parseOK(t, "/dts-v1/;\n/ { a { }; };")
	if len(file.Elements) != 2 {
		t.Fatalf("Got %d elements, want 2", len(file.Elements))
	}
	directive, ok := file.Elements[0].(*Directive)
	if !ok || directive.Kind != DirectiveDTSVersion {
		t.Errorf("Element 0 = %#v, want /dts-v1/ directive", file.Elements[0])
	}
	root := rootNode(t, file)
	if root.Name.Name != "/" {
		t.Errorf("Root name = %q, want /", root.Name.Name)
	}
	children := root.Children()
	if len(children) != 1 || children[0].Name.Name != "a" {
		t.Fatalf("Root children = %v", children)
	}
}

func TestParse_Properties(t *testing.T) {
	file := parseOK(t, `/ {
	compatible = "acme,board", "acme,any";
	#address-cells = <1>;
	enabled;
	mac = [00 12 34 56 78 9a];
	intc = <&pic 5>;
};`)
	root := rootNode(t, file)
	props := root.Properties()
	if len(props) != 5 {
		t.Fatalf("Got %d properties, want 5", len(props))
	}

	compatible := props[0]
	if len(compatible.Values) != 2 {
		t.Fatalf("compatible has %d values, want 2", len(compatible.Values))
	}
	str, ok := compatible.Values[0].(*StringValue)
	if !ok || str.Text != "acme,board" {
		t.Errorf("Value 0 = %#v, want string acme,board", compatible.Values[0])
	}

	cells := props[1]
	if cells.Name != "#address-cells" {
		t.Errorf("Property 1 name = %q, want #address-cells", cells.Name)
	}
	list, ok := cells.Values[0].(*CellList)
	if !ok || len(list.Cells) != 1 {
		t.Fatalf("Value = %#v, want one-cell list", cells.Values[0])
	}
	if number, ok := list.Cells[0].(*NumberCell); !ok || number.Value != 1 {
		t.Errorf("Cell = %#v, want number 1", list.Cells[0])
	}

	if len(props[2].Values) != 0 {
		t.Errorf("Boolean property has values: %v", props[2].Values)
	}

	bytes, ok := props[3].Values[0].(*ByteString)
	if !ok {
		t.Fatalf("Value = %#v, want byte string", props[3].Values[0])
	}
	if len(bytes.Bytes) != 6 || bytes.Bytes[5] != 0x9a {
		t.Errorf("Bytes = %x", bytes.Bytes)
	}

	intc, ok := props[4].Values[0].(*CellList)
	if !ok || len(intc.Cells) != 2 {
		t.Fatalf("Value = %#v, want two-cell list", props[4].Values[0])
	}
	if ref, ok := intc.Cells[0].(*RefCell); !ok || ref.Ref.Name != "pic" {
		t.Errorf("Cell 0 = %#v, want reference to pic", intc.Cells[0])
	}
}

func TestParse_Labels(t *testing.T) {
	file := parseOK(t, "/ { pic: interrupt-controller@0 { }; };")
	child := rootNode(t, file).Children()[0]
	if child.Label == nil || child.Label.Name != "pic" {
		t.Fatalf("Label = %#v, want pic", child.Label)
	}
	if child.Name.Full() != "interrupt-controller@0" {
		t.Errorf("Name = %q", child.Name.Full())
	}
	if !child.Name.HasAddress || child.Name.UnitAddress != "0" {
		t.Errorf("Unit address = %#v", child.Name)
	}
}

func TestParse_ReferencedNode(t *testing.T) {
	file := parseOK(t, "&pic { status = \"okay\"; };")
	root := rootNode(t, file)
	if root.Ref == nil || root.Ref.Name != "pic" || root.Ref.IsPath {
		t.Fatalf("Ref = %#v, want label reference pic", root.Ref)
	}
	if len(root.Properties()) != 1 {
		t.Errorf("Got %d properties, want 1", len(root.Properties()))
	}
}

func TestParse_PathReference(t *testing.T) {
	file := parseOK(t, "&{/soc/uart@0} { };")
	root := rootNode(t, file)
	if root.Ref == nil || !root.Ref.IsPath || root.Ref.Name != "/soc/uart@0" {
		t.Fatalf("Ref = %#v, want path /soc/uart@0", root.Ref)
	}
}

func TestParse_Memreserve(t *testing.T) {
	file := parseOK(t, "/memreserve/ 0x10000000 0x4000;")
	directive := file.Elements[0].(*Directive)
	if directive.Kind != DirectiveMemReserve {
		t.Fatalf("Kind = %v", directive.Kind)
	}
	if directive.Address != 0x10000000 || directive.Length != 0x4000 {
		t.Errorf("Operands = %#x %#x", directive.Address, directive.Length)
	}
}

func TestParse_Includes(t *testing.T) {
	file := parseOK(t, "/include/ \"common.dtsi\"\n#include \"board.dtsi\"\n/ { };")
	include := file.Elements[0].(*Directive)
	if include.Kind != DirectiveInclude || include.CStyle || include.FileName != "common.dtsi" {
		t.Errorf("Element 0 = %#v", include)
	}
	cInclude := file.Elements[1].(*Directive)
	if cInclude.Kind != DirectiveInclude || !cInclude.CStyle || cInclude.FileName != "board.dtsi" {
		t.Errorf("Element 1 = %#v", cInclude)
	}
}

func TestParse_DeleteDirectives(t *testing.T) {
	file := parseOK(t, "/delete-node/ &pic;\n/ { /delete-node/ old@0; /delete-property/ stale; };")
	deleted, ok := file.Elements[0].(*DeletedNode)
	if !ok || deleted.Ref == nil || deleted.Ref.Name != "pic" {
		t.Fatalf("Element 0 = %#v", file.Elements[0])
	}
	root := rootNode(t, file)
	if len(root.Items) != 2 {
		t.Fatalf("Root has %d items, want 2", len(root.Items))
	}
	inner, ok := root.Items[0].(*DeletedNode)
	if !ok || inner.Name.Full() != "old@0" {
		t.Errorf("Item 0 = %#v", root.Items[0])
	}
	property, ok := root.Items[1].(*DeletedProperty)
	if !ok || property.Name != "stale" {
		t.Errorf("Item 1 = %#v", root.Items[1])
	}
}

func TestParse_BitsValue(t *testing.T) {
	file := parseOK(t, "/ { pixels = /bits/ 16 <0x1234 0x5678>; };")
	value := rootNode(t, file).Properties()[0].Values[0]
	list, ok := value.(*CellList)
	if !ok || list.Bits != 16 {
		t.Fatalf("Value = %#v, want 16 bit cell list", value)
	}
	if len(list.Cells) != 2 {
		t.Errorf("Got %d cells, want 2", len(list.Cells))
	}
}

func TestParse_ExprCellKeptVerbatim(t *testing.T) {
	file := parseOK(t, "/ { x = <(1 << (2 + 2))>; };")
	list := rootNode(t, file).Properties()[0].Values[0].(*CellList)
	expr, ok := list.Cells[0].(*ExprCell)
	if !ok {
		t.Fatalf("Cell = %#v, want expression", list.Cells[0])
	}
	if expr.Raw != "(1 << (2 + 2))" {
		t.Errorf("Raw = %q", expr.Raw)
	}
}

func TestParse_ValueLabelsSkipped(t *testing.T) {
	file := parseOK(t, "/ { x = start: <1 mid: 2> end:; };")
	list := rootNode(t, file).Properties()[0].Values[0].(*CellList)
	if len(list.Cells) != 2 {
		t.Errorf("Got %d cells, want 2", len(list.Cells))
	}
}

func findDiag(diags []Diagnostic, code Code) *Diagnostic {
	for i := range diags {
		if diags[i].Code == code {
			return &diags[i]
		}
	}
	return nil
}

func TestParse_MissingSemicolonAfterBrace(t *testing.T) {
	// The inner node lacks its ';'. The parser must not eat the outer
	// '}' and the diagnostic points at the character right after the
	// inner '}'.
	_, diags := Parse("/ { pic { } };")
	if len(diags) != 1 {
		t.Fatalf("Got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if diags[0].Code != CodeExpected {
		t.Errorf("Code = %q", diags[0].Code)
	}
	want := Span{Start: Position{Character: 11}, End: Position{Character: 12}}
	if diags[0].Span != want {
		t.Errorf("Span = %v, want %v", diags[0].Span, want)
	}
}

func TestParse_MissingSemicolonAtEOF(t *testing.T) {
	_, diags := Parse("/dts-v1/")
	if len(diags) != 1 {
		t.Fatalf("Got %d diagnostics, want 1: %v", len(diags), diags)
	}
	// Zero-width span at the end of the input.
	want := Position{Character: 8}.AsSpan()
	if diags[0].Span != want {
		t.Errorf("Span = %v, want %v", diags[0].Span, want)
	}
}

func TestParse_UnclosedNode(t *testing.T) {
	file, diags := Parse("/ { a = <1>;")
	diag := findDiag(diags, CodeUnclosedNode)
	if diag == nil {
		t.Fatalf("No unclosed_node diagnostic: %v", diags)
	}
	// The tree still holds the parsed property.
	root := rootNode(t, file)
	if len(root.Properties()) != 1 {
		t.Errorf("Got %d properties, want 1", len(root.Properties()))
	}
}

func TestParse_RecoveryIsLocal(t *testing.T) {
	// The broken first property must not damage the second one.
	file, diags := Parse("/ { x = ; y = <1>; };")
	if len(diags) != 1 {
		t.Fatalf("Got %d diagnostics, want 1: %v", len(diags), diags)
	}
	root := rootNode(t, file)
	props := root.Properties()
	if len(props) != 2 {
		t.Fatalf("Got %d properties, want 2", len(props))
	}
	if props[1].Name != "y" || len(props[1].Values) != 1 {
		t.Errorf("Property y = %#v", props[1])
	}
}

func TestParse_MissingStatementEnd(t *testing.T) {
	// A bare name followed by another statement: the name becomes a
	// boolean property and the next statement parses normally.
	file, diags := Parse("/ { prop_a\nprop_b; };")
	if len(diags) != 1 {
		t.Fatalf("Got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if diags[0].Code != CodeExpected {
		t.Errorf("Code = %q", diags[0].Code)
	}
	props := rootNode(t, file).Properties()
	if len(props) != 2 {
		t.Fatalf("Got %d properties, want 2", len(props))
	}
	if props[0].Name != "prop_a" || props[1].Name != "prop_b" {
		t.Errorf("Properties = %q, %q", props[0].Name, props[1].Name)
	}
}

func TestParse_PropertyAfterNode(t *testing.T) {
	_, diags := Parse("/ { sub { }; late = <1>; };")
	if diag := findDiag(diags, CodePropertyAfterNode); diag == nil {
		t.Errorf("No property_after_node diagnostic: %v", diags)
	}
}

func TestParse_UnterminatedString(t *testing.T) {
	file, diags := Parse("/ { s = \"abc; };")
	if diag := findDiag(diags, CodeUnterminatedString); diag == nil {
		t.Fatalf("No unterminated_string diagnostic: %v", diags)
	}
	// The string value survives with the text that was there.
	props := rootNode(t, file).Properties()
	if len(props) != 1 {
		t.Fatalf("Got %d properties, want 1", len(props))
	}
	if _, ok := props[0].Values[0].(*StringValue); !ok {
		t.Errorf("Value = %#v, want string", props[0].Values[0])
	}
}

func TestParse_UnterminatedComment(t *testing.T) {
	_, diags := Parse("/ { }; /* trailing")
	diag := findDiag(diags, CodeUnterminatedComment)
	if diag == nil {
		t.Fatalf("No unterminated_comment diagnostic: %v", diags)
	}
	if len(diags) != 1 {
		t.Errorf("Got %d diagnostics, want 1: %v", len(diags), diags)
	}
}

func TestParse_UnknownDirective(t *testing.T) {
	_, diags := Parse("/frobnicate/;\n/ { };")
	diag := findDiag(diags, CodeUnknownDirective)
	if diag == nil {
		t.Fatalf("No unknown_directive diagnostic: %v", diags)
	}
	if diag.Severity != SeverityWarning {
		t.Errorf("Severity = %v, want warning", diag.Severity)
	}
}

func TestParse_NameChecks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  Code
	}{
		{"illegal node name char", "/ { bad? { }; };", CodeIllegalChar},
		{"node name too long", "/ { abcdefghijklmnopqrstuvwxyz_abcdefgh { }; };", CodeNameTooLong},
		{"empty reference", "/ { x = <&>; };", CodeExpectedName},
		{"empty path", "/ { x = <&{}>; };", CodeEmptyPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := Parse(tt.input)
			if findDiag(diags, tt.code) == nil {
				t.Errorf("No %s diagnostic: %v", tt.code, diags)
			}
		})
	}
}

func TestParse_OddByteString(t *testing.T) {
	_, diags := Parse("/ { mac = [001]; };")
	if findDiag(diags, CodeOddBytestring) == nil {
		t.Errorf("No odd_bytestring_length diagnostic: %v", diags)
	}
}

func TestParse_UnbalancedParens(t *testing.T) {
	_, diags := Parse("/ { x = <(1 + ;")
	if findDiag(diags, CodeUnbalancedParens) == nil {
		t.Errorf("No unbalanced_parentheses diagnostic: %v", diags)
	}
}

func TestParse_IncludeSemicolon(t *testing.T) {
	_, diags := Parse("/include/ \"a.dtsi\";")
	if findDiag(diags, CodeIncludeSemicolon) == nil {
		t.Errorf("No include_semicolon diagnostic: %v", diags)
	}
}

func TestParse_DiagnosticsSorted(t *testing.T) {
	_, diags := Parse("/ { x = ; br~ken = <1>;\ny = ; };")
	if len(diags) < 2 {
		t.Fatalf("Got %d diagnostics, want at least 2", len(diags))
	}
	for i := 1; i < len(diags); i++ {
		if diags[i].Span.Start.Before(diags[i-1].Span.Start) {
			t.Errorf("Diagnostics out of order at %d: %v before %v",
				i, diags[i].Span, diags[i-1].Span)
		}
	}
}

func TestParse_EmptyInput(t *testing.T) {
	file, diags := Parse("")
	if len(file.Elements) != 0 {
		t.Errorf("Got %d elements, want 0", len(file.Elements))
	}
	if len(diags) != 0 {
		t.Errorf("Got %d diagnostics, want 0: %v", len(diags), diags)
	}
}

func TestParse_SpansNestWithinParent(t *testing.T) {
	file := parseOK(t, "/ { soc { uart@0 { status = \"okay\"; }; }; };")
	root := rootNode(t, file)
	soc := root.Children()[0]
	uart := soc.Children()[0]
	status := uart.Properties()[0]

	contains := func(outer, inner Span) bool {
		return !inner.Start.Before(outer.Start) && !outer.End.Before(inner.End)
	}
	if !contains(root.NodeSpan, soc.NodeSpan) {
		t.Errorf("soc %v outside root %v", soc.NodeSpan, root.NodeSpan)
	}
	if !contains(soc.NodeSpan, uart.NodeSpan) {
		t.Errorf("uart %v outside soc %v", uart.NodeSpan, soc.NodeSpan)
	}
	if !contains(uart.NodeSpan, status.NodeSpan) {
		t.Errorf("status %v outside uart %v", status.NodeSpan, uart.NodeSpan)
	}
}
