package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dts-tools/go-dts-lsp/internal/dts"
)

// Hover is the answer to a hover query: a plain text description and
// the span it applies to. Markdown wrapping is the front end's job.
type Hover struct {
	Contents string
	Span     dts.Span
}

// DefinitionAt resolves the construct at pos to its definition site.
// On a reference that is the referenced node's name; on the name of a
// merged node it is the first definition.
func (s *Snapshot) DefinitionAt(pos dts.Position) (dts.Span, bool) {
	if site := s.Table.ReferenceAt(pos); site != nil {
		if site.Target == nil {
			return dts.Span{}, false
		}
		return site.Target.NameSpan, true
	}
	if sym := s.Table.SymbolAt(pos); sym != nil {
		return sym.NameSpan, true
	}
	return dts.Span{}, false
}

// HoverAt describes the construct at pos.
func (s *Snapshot) HoverAt(pos dts.Position) (Hover, bool) {
	if site := s.Table.ReferenceAt(pos); site != nil {
		if site.Target == nil {
			return Hover{Contents: "unresolved reference", Span: site.Ref.NodeSpan}, true
		}
		return Hover{Contents: describeSymbol(site.Target), Span: site.Ref.NodeSpan}, true
	}
	if sym := s.Table.SymbolAt(pos); sym != nil {
		return Hover{Contents: describeSymbol(sym), Span: spanAt(sym, pos)}, true
	}
	if prop := s.propertyAt(pos); prop != nil {
		return Hover{Contents: strings.TrimSpace(s.Slice(prop.NodeSpan)), Span: prop.NameSpan}, true
	}
	return Hover{}, false
}

// ReferencesTo returns the spans of all references to the node
// written or referenced at pos, optionally including its definition
// sites.
func (s *Snapshot) ReferencesTo(pos dts.Position, includeDefinition bool) []dts.Span {
	var target *Symbol
	if site := s.Table.ReferenceAt(pos); site != nil {
		target = site.Target
	} else {
		target = s.Table.SymbolAt(pos)
	}
	if target == nil {
		return nil
	}
	var spans []dts.Span
	if includeDefinition {
		spans = append(spans, target.DefSpans...)
	}
	for _, site := range s.Table.References {
		if site.Target == target {
			spans = append(spans, site.Ref.NodeSpan)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start.Before(spans[j].Start) })
	return spans
}

func describeSymbol(sym *Symbol) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Node %s", sym.Path)
	if len(sym.labels) > 0 {
		names := make([]string, len(sym.labels))
		for i, label := range sym.labels {
			names[i] = label.Name
		}
		fmt.Fprintf(&b, "\nLabels: %s", strings.Join(names, ", "))
	}
	if sym.phandle != nil {
		fmt.Fprintf(&b, "\nPhandle: %d", *sym.phandle)
	}
	if len(sym.DefSpans) > 1 {
		fmt.Fprintf(&b, "\nDefined %d times", len(sym.DefSpans))
	}
	return b.String()
}

// spanAt returns the definition or label span of sym containing pos.
func spanAt(sym *Symbol, pos dts.Position) dts.Span {
	for _, span := range sym.DefSpans {
		if span.Contains(pos) {
			return span
		}
	}
	for _, label := range sym.labels {
		if label.Span.Contains(pos) {
			return label.Span
		}
	}
	return sym.NameSpan
}

// propertyAt finds the property whose name is written at pos, walking
// the syntax tree so overridden definitions are found too.
func (s *Snapshot) propertyAt(pos dts.Position) *dts.Property {
	for _, el := range s.File.Elements {
		if node, ok := el.(*dts.Node); ok && node.NodeSpan.Contains(pos) {
			if prop := propertyIn(node, pos); prop != nil {
				return prop
			}
		}
	}
	return nil
}

func propertyIn(node *dts.Node, pos dts.Position) *dts.Property {
	for _, item := range node.Items {
		switch item := item.(type) {
		case *dts.Property:
			if item.NameSpan.Contains(pos) {
				return item
			}
		case *dts.Node:
			if item.NodeSpan.Contains(pos) {
				if prop := propertyIn(item, pos); prop != nil {
					return prop
				}
			}
		}
	}
	return nil
}

// OutlineItem is one entry of the document outline, built from the
// syntax tree so that broken documents still produce a structure.
type OutlineItem struct {
	Name          string
	Detail        string
	IsNode        bool
	Span          dts.Span
	SelectionSpan dts.Span
	Children      []OutlineItem
}

// Outline returns the document structure: nodes with their properties
// and child nodes, in source order.
func (s *Snapshot) Outline() []OutlineItem {
	var items []OutlineItem
	for _, el := range s.File.Elements {
		if node, ok := el.(*dts.Node); ok {
			items = append(items, outlineNode(node))
		}
	}
	return items
}

func outlineNode(node *dts.Node) OutlineItem {
	name := node.Name.Full()
	if node.Ref != nil {
		if node.Ref.IsPath {
			name = "&{" + node.Ref.Name + "}"
		} else {
			name = "&" + node.Ref.Name
		}
	}
	item := OutlineItem{
		Name:          name,
		IsNode:        true,
		Span:          node.NodeSpan,
		SelectionSpan: node.NameSpan,
	}
	if node.Label != nil {
		item.Detail = node.Label.Name + ":"
	}
	for _, child := range node.Items {
		switch child := child.(type) {
		case *dts.Node:
			item.Children = append(item.Children, outlineNode(child))
		case *dts.Property:
			item.Children = append(item.Children, OutlineItem{
				Name:          child.Name,
				Span:          child.NodeSpan,
				SelectionSpan: child.NameSpan,
			})
		}
	}
	return item
}
