// Package analysis builds the semantic model of a device-tree source
// document: the merged node tree, the label and phandle tables and the
// semantic diagnostics. Editor queries (definition, hover, outline,
// references) run against the Snapshot this package produces.
package analysis

import (
	"strings"

	"github.com/dts-tools/go-dts-lsp/internal/dts"
)

// Symbol is one node of the merged tree. Multiple definitions of the
// same path (root re-openings, '&label { }' extensions) collapse into
// a single symbol; DefSpans keeps every definition site.
type Symbol struct {
	// Path is the canonical slash separated path, "/" for the root.
	Path string
	Name dts.NodeName
	// NameSpan is the name span of the first definition, the place
	// go-to-definition jumps to.
	NameSpan dts.Span
	// DefSpans holds the name spans of all definitions in source order.
	DefSpans []dts.Span
	Parent   *Symbol

	labels     []LabelDef
	children   map[string]*Symbol
	childOrder []string
	properties map[string]*PropertyInfo
	propOrder  []string
	phandle    *uint32
}

// LabelDef is one label attached to a node definition.
type LabelDef struct {
	Name string
	Span dts.Span
}

// PropertyInfo is the winning definition of a property after merging.
type PropertyInfo struct {
	Name     string
	NameSpan dts.Span
	Prop     *dts.Property
}

func newSymbol(parent *Symbol, name dts.NodeName, nameSpan dts.Span) *Symbol {
	path := "/"
	if parent != nil {
		if parent.Parent == nil {
			path = "/" + name.Full()
		} else {
			path = parent.Path + "/" + name.Full()
		}
	}
	return &Symbol{
		Path:       path,
		Name:       name,
		NameSpan:   nameSpan,
		Parent:     parent,
		children:   map[string]*Symbol{},
		properties: map[string]*PropertyInfo{},
	}
}

// Labels returns the labels bound to this node in source order.
func (s *Symbol) Labels() []LabelDef { return s.labels }

// Children returns the child symbols in first-definition order.
func (s *Symbol) Children() []*Symbol {
	out := make([]*Symbol, 0, len(s.childOrder))
	for _, name := range s.childOrder {
		out = append(out, s.children[name])
	}
	return out
}

// Child returns the child with the given full name.
func (s *Symbol) Child(fullName string) *Symbol {
	return s.children[fullName]
}

// ensureChild returns the child with the given name, creating it on
// first sight.
func (s *Symbol) ensureChild(name dts.NodeName, nameSpan dts.Span) *Symbol {
	full := name.Full()
	if child, ok := s.children[full]; ok {
		return child
	}
	child := newSymbol(s, name, nameSpan)
	s.children[full] = child
	s.childOrder = append(s.childOrder, full)
	return child
}

func (s *Symbol) deleteChild(fullName string) bool {
	if _, ok := s.children[fullName]; !ok {
		return false
	}
	delete(s.children, fullName)
	for i, name := range s.childOrder {
		if name == fullName {
			s.childOrder = append(s.childOrder[:i], s.childOrder[i+1:]...)
			break
		}
	}
	return true
}

// Properties returns the merged properties in first-definition order.
func (s *Symbol) Properties() []*PropertyInfo {
	out := make([]*PropertyInfo, 0, len(s.propOrder))
	for _, name := range s.propOrder {
		out = append(out, s.properties[name])
	}
	return out
}

// Property returns the winning definition of the named property.
func (s *Symbol) Property(name string) *PropertyInfo {
	return s.properties[name]
}

// setProperty records a property definition, returning the definition
// it overrides, if any.
func (s *Symbol) setProperty(prop *dts.Property) *PropertyInfo {
	previous := s.properties[prop.Name]
	s.properties[prop.Name] = &PropertyInfo{Name: prop.Name, NameSpan: prop.NameSpan, Prop: prop}
	if previous == nil {
		s.propOrder = append(s.propOrder, prop.Name)
	}
	return previous
}

func (s *Symbol) deleteProperty(name string) bool {
	if _, ok := s.properties[name]; !ok {
		return false
	}
	delete(s.properties, name)
	for i, propName := range s.propOrder {
		if propName == name {
			s.propOrder = append(s.propOrder[:i], s.propOrder[i+1:]...)
			break
		}
	}
	return true
}

// cellCount returns the numeric value of a cell-count property like
// #address-cells defined on this node itself.
func (s *Symbol) cellCount(name string) (uint32, bool) {
	info := s.Property(name)
	if info == nil {
		return 0, false
	}
	for _, value := range info.Prop.Values {
		if list, ok := value.(*dts.CellList); ok && len(list.Cells) > 0 {
			if number, ok := list.Cells[0].(*dts.NumberCell); ok {
				return number.Value, true
			}
		}
	}
	return 0, false
}

// ReferenceSite is one resolved or unresolved reference occurrence.
type ReferenceSite struct {
	Ref    *dts.Reference
	Target *Symbol // nil when unresolved
}

// SymbolTable is the result of analyzing one document.
type SymbolTable struct {
	Root *Symbol
	// Labels maps a label name to the node it is bound to. On
	// conflicting definitions the first one wins.
	Labels map[string]*Symbol
	// Phandles maps explicit phandle values to their nodes.
	Phandles map[uint32]*Symbol
	// References lists every reference occurrence in source order.
	References []*ReferenceSite
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{
		Root:     newSymbol(nil, dts.NodeName{Name: "/"}, dts.Span{}),
		Labels:   map[string]*Symbol{},
		Phandles: map[uint32]*Symbol{},
	}
}

// Resolve resolves a reference against the table.
func (t *SymbolTable) Resolve(ref *dts.Reference) *Symbol {
	if ref.IsPath {
		return t.LookupPath(ref.Name)
	}
	return t.Labels[ref.Name]
}

// LookupPath resolves an absolute path like "/soc/uart@0". A segment
// without a unit address also matches an addressed child when the base
// name is unambiguous.
func (t *SymbolTable) LookupPath(path string) *Symbol {
	if !strings.HasPrefix(path, "/") {
		return nil
	}
	current := t.Root
	if path == "/" {
		return current
	}
	for _, segment := range strings.Split(path[1:], "/") {
		if segment == "" {
			return nil
		}
		next := current.Child(segment)
		if next == nil && !strings.Contains(segment, "@") {
			for _, child := range current.Children() {
				if child.Name.Name == segment {
					if next != nil {
						return nil // ambiguous
					}
					next = child
				}
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// ReferenceAt returns the reference whose span contains pos.
func (t *SymbolTable) ReferenceAt(pos dts.Position) *ReferenceSite {
	for _, site := range t.References {
		if site.Ref.NodeSpan.Contains(pos) {
			return site
		}
	}
	return nil
}

// SymbolAt returns the symbol whose name or label is written at pos.
func (t *SymbolTable) SymbolAt(pos dts.Position) *Symbol {
	return symbolAt(t.Root, pos)
}

func symbolAt(sym *Symbol, pos dts.Position) *Symbol {
	for _, span := range sym.DefSpans {
		if span.Contains(pos) {
			return sym
		}
	}
	for _, label := range sym.labels {
		if label.Span.Contains(pos) {
			return sym
		}
	}
	for _, child := range sym.Children() {
		if found := symbolAt(child, pos); found != nil {
			return found
		}
	}
	return nil
}
