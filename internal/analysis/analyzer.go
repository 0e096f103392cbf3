package analysis

import (
	"fmt"

	"github.com/dts-tools/go-dts-lsp/internal/dts"
)

// Default cell counts per the devicetree specification, used when no
// enclosing node defines #address-cells or #size-cells.
const (
	defaultAddressCells = 2
	defaultSizeCells    = 1
)

// AnalyzeFile builds the symbol table for a parsed file and returns
// the semantic diagnostics. Like the parser it never fails; a broken
// tree produces a partial table.
func AnalyzeFile(file *dts.File) (*SymbolTable, []dts.Diagnostic) {
	a := &analyzer{table: newSymbolTable()}
	a.checkHeader(file)

	// First pass: merge all definitions rooted at '/'. Extensions that
	// address their target by reference are deferred so labels defined
	// anywhere in the document can resolve them.
	var deferred []dts.Element
	for _, el := range file.Elements {
		switch el := el.(type) {
		case *dts.Node:
			if el.Ref != nil {
				deferred = append(deferred, el)
				continue
			}
			a.mergeNode(a.table.Root, el)
		case *dts.DeletedNode:
			deferred = append(deferred, el)
		}
	}

	for _, el := range deferred {
		switch el := el.(type) {
		case *dts.Node:
			target := a.resolveReference(el.Ref)
			if target != nil {
				a.mergeNode(target, el)
			}
		case *dts.DeletedNode:
			if el.Ref == nil {
				continue
			}
			if target := a.resolveReference(el.Ref); target != nil && target.Parent != nil {
				target.Parent.deleteChild(target.Name.Full())
			}
		}
	}

	// Value references resolve last so forward references work.
	for _, pending := range a.pendingRefs {
		a.resolveReference(pending)
	}

	a.checkCells(a.table.Root)

	dts.SortDiagnostics(a.diags)
	return a.table, a.diags
}

type analyzer struct {
	table       *SymbolTable
	diags       []dts.Diagnostic
	pendingRefs []*dts.Reference
}

func (a *analyzer) errorf(span dts.Span, code dts.Code, format string, args ...any) {
	a.diags = append(a.diags, dts.NewDiagnostic(span, code, fmt.Sprintf(format, args...)))
}

// checkHeader verifies the /dts-v1/ header: present, before any node,
// and given only once.
func (a *analyzer) checkHeader(file *dts.File) {
	var header *dts.Directive
	nodeSeen := false
	for _, el := range file.Elements {
		switch el := el.(type) {
		case *dts.Directive:
			if el.Kind != dts.DirectiveDTSVersion {
				continue
			}
			switch {
			case header != nil:
				a.errorf(el.NodeSpan, dts.CodeDuplicateDirective, "Duplicate /dts-v1/ directive")
			case nodeSeen:
				a.errorf(el.NodeSpan, dts.CodeMisplacedDTSHeader, "/dts-v1/ must appear before the first node")
			}
			if header == nil {
				header = el
			}
		case *dts.Node, *dts.DeletedNode:
			nodeSeen = true
		}
	}
	if header == nil {
		a.errorf(file.FileSpan.Start.AsSpan(), dts.CodeNonDTSV1, "File does not start with /dts-v1/")
	}
}

// mergeNode merges one node definition into sym, recursing into
// children. Properties and children accumulate across definitions of
// the same path; on a property name clash the later definition wins.
func (a *analyzer) mergeNode(sym *Symbol, node *dts.Node) {
	if len(sym.DefSpans) == 0 && sym.Parent != nil {
		sym.NameSpan = node.NameSpan
	}
	sym.DefSpans = append(sym.DefSpans, node.NameSpan)
	if node.Label != nil {
		a.addLabel(sym, node.Label)
	}

	for _, item := range node.Items {
		switch item := item.(type) {
		case *dts.Node:
			child := sym.ensureChild(item.Name, item.NameSpan)
			a.mergeNode(child, item)

		case *dts.Property:
			a.addProperty(sym, item)

		case *dts.DeletedNode:
			if item.Ref != nil {
				a.pendingRefs = append(a.pendingRefs, item.Ref)
				continue
			}
			sym.deleteChild(item.Name.Full())

		case *dts.DeletedProperty:
			sym.deleteProperty(item.Name)
		}
	}
}

func (a *analyzer) addLabel(sym *Symbol, label *dts.Label) {
	sym.labels = append(sym.labels, LabelDef{Name: label.Name, Span: label.NodeSpan})
	existing, ok := a.table.Labels[label.Name]
	if !ok {
		a.table.Labels[label.Name] = sym
		return
	}
	if existing == sym {
		return
	}
	a.errorf(label.NodeSpan, dts.CodeDuplicateLabel,
		"Label '%s' is already defined at %s on node %s",
		label.Name, existing.labelSpan(label.Name).Start, existing.Path)
}

// labelSpan returns the span of the named label on this node.
func (s *Symbol) labelSpan(name string) dts.Span {
	for _, label := range s.labels {
		if label.Name == name {
			return label.Span
		}
	}
	return s.NameSpan
}

func (a *analyzer) addProperty(sym *Symbol, prop *dts.Property) {
	if previous := sym.setProperty(prop); previous != nil {
		a.errorf(prop.NameSpan, dts.CodePropertyRedefined,
			"Property '%s' overrides the definition at %s", prop.Name, previous.NameSpan.Start)
	}
	a.collectReferences(prop)

	switch prop.Name {
	case "compatible":
		a.checkCompatible(prop)
	case "phandle":
		a.checkPhandle(sym, prop)
	}
}

// collectReferences queues every reference in the property's values
// for deferred resolution.
func (a *analyzer) collectReferences(prop *dts.Property) {
	for _, value := range prop.Values {
		switch value := value.(type) {
		case *dts.RefValue:
			a.pendingRefs = append(a.pendingRefs, &value.Ref)
		case *dts.CellList:
			for _, cell := range value.Cells {
				if ref, ok := cell.(*dts.RefCell); ok {
					a.pendingRefs = append(a.pendingRefs, &ref.Ref)
				}
			}
		}
	}
}

// resolveReference resolves one reference, records the occurrence and
// reports it when the target does not exist. References the parser
// already flagged as malformed are recorded but not reported again.
func (a *analyzer) resolveReference(ref *dts.Reference) *Symbol {
	target := a.table.Resolve(ref)
	a.table.References = append(a.table.References, &ReferenceSite{Ref: ref, Target: target})
	if target == nil && ref.Name != "" {
		if ref.IsPath {
			a.errorf(ref.NodeSpan, dts.CodeUnresolvedReference, "Path '%s' does not exist", ref.Name)
		} else {
			a.errorf(ref.NodeSpan, dts.CodeUnresolvedReference, "Label '%s' is not defined", ref.Name)
		}
	}
	return target
}

// checkCompatible requires every compatible value to be a string.
func (a *analyzer) checkCompatible(prop *dts.Property) {
	for _, value := range prop.Values {
		if _, ok := value.(*dts.StringValue); !ok {
			a.errorf(value.Span(), dts.CodeNonStringCompatible, "Values of 'compatible' must be strings")
		}
	}
}

// checkPhandle requires a phandle to be a single u32 cell and records
// its value for duplicate detection.
func (a *analyzer) checkPhandle(sym *Symbol, prop *dts.Property) {
	// A redefinition replaces the previously registered value.
	if sym.phandle != nil {
		if a.table.Phandles[*sym.phandle] == sym {
			delete(a.table.Phandles, *sym.phandle)
		}
		sym.phandle = nil
	}

	if len(prop.Values) != 1 {
		a.errorf(prop.NameSpan, dts.CodePhandleShape, "A phandle must be a single 32 bit cell")
		return
	}
	list, ok := prop.Values[0].(*dts.CellList)
	if !ok || len(list.Cells) != 1 {
		a.errorf(prop.Values[0].Span(), dts.CodePhandleShape, "A phandle must be a single 32 bit cell")
		return
	}
	number, ok := list.Cells[0].(*dts.NumberCell)
	if !ok {
		// References and expressions get their value elsewhere;
		// nothing to register.
		return
	}
	value := number.Value
	if existing, ok := a.table.Phandles[value]; ok && existing != sym {
		a.errorf(prop.NameSpan, dts.CodeDuplicatePhandle,
			"Phandle %d is already used by node %s", value, existing.Path)
		return
	}
	a.table.Phandles[value] = sym
	sym.phandle = &value
}

// checkCells walks the finished tree and verifies that each 'reg'
// property holds a multiple of the cell count its enclosing node
// prescribes. The counts come from the nearest enclosing definition of
// #address-cells and #size-cells, with the devicetree defaults as
// fallback.
func (a *analyzer) checkCells(sym *Symbol) {
	if info := sym.Property("reg"); info != nil && sym.Parent != nil {
		address := inheritedCells(sym.Parent, "#address-cells", defaultAddressCells)
		size := inheritedCells(sym.Parent, "#size-cells", defaultSizeCells)
		expected := address + size
		total, countable := regCellCount(info.Prop)
		if countable && expected > 0 && total%expected != 0 {
			a.errorf(info.NameSpan, dts.CodeRegCellMismatch,
				"'reg' has %d cells, expected a multiple of %d (#address-cells %d + #size-cells %d)",
				total, expected, address, size)
		}
	}
	for _, child := range sym.Children() {
		a.checkCells(child)
	}
}

func inheritedCells(sym *Symbol, name string, fallback uint32) uint32 {
	for current := sym; current != nil; current = current.Parent {
		if value, ok := current.cellCount(name); ok {
			return value
		}
	}
	return fallback
}

// regCellCount counts the cells of a reg property. Values that are
// not plain 32 bit cell lists make the count unreliable, so the check
// is skipped for them.
func regCellCount(prop *dts.Property) (uint32, bool) {
	total := uint32(0)
	for _, value := range prop.Values {
		list, ok := value.(*dts.CellList)
		if !ok || (list.Bits != 0 && list.Bits != 32) {
			return 0, false
		}
		total += uint32(len(list.Cells))
	}
	return total, len(prop.Values) > 0
}
