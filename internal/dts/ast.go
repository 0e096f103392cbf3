package dts

import "strings"

// The syntax tree is a closed set of variants: Element for top-level
// constructs, NodeItem for the contents of a node body, Value for
// property values and Cell for the members of a cell list. Consumers
// switch exhaustively over the concrete types. Every variant carries
// the span of all tokens it consumed, including trailing tokens
// absorbed during error recovery, and exclusively owns its children.
// The tree is immutable once Parse returns.

// File is the root of a parsed document. Elements appear in source
// order.
type File struct {
	Elements []Element
	FileSpan Span
}

func (f *File) Span() Span { return f.FileSpan }

// Element is a top-level construct: a compiler directive, a node
// definition (root or referenced) or a /delete-node/.
type Element interface {
	Span() Span
	element()
}

// NodeItem is an entry in a node body: a child node, a property or one
// of the delete directives.
type NodeItem interface {
	Span() Span
	nodeItem()
}

// DirectiveKind classifies the compiler directives the parser
// understands. Unrecognized names map to DirectiveUnknown and are kept
// as opaque nodes rather than dropped.
type DirectiveKind int

const (
	DirectiveUnknown DirectiveKind = iota
	DirectiveDTSVersion
	DirectivePlugin
	DirectiveMemReserve
	DirectiveBits
	DirectiveInclude
	DirectiveDeleteNode
	DirectiveDeleteProperty
	DirectiveOmitIfNoRef
)

func directiveKind(name string) DirectiveKind {
	switch name {
	case "dts-v1":
		return DirectiveDTSVersion
	case "plugin":
		return DirectivePlugin
	case "memreserve":
		return DirectiveMemReserve
	case "bits":
		return DirectiveBits
	case "include":
		return DirectiveInclude
	case "delete-node":
		return DirectiveDeleteNode
	case "delete-property":
		return DirectiveDeleteProperty
	case "omit-if-no-ref":
		return DirectiveOmitIfNoRef
	}
	return DirectiveUnknown
}

// Directive is a top-level compiler directive. For /memreserve/ the
// Address and Length fields hold the parsed operands; for /include/
// and C-style #include the FileName field holds the quoted path.
// Unknown directives keep their raw name and skipped tokens' span.
type Directive struct {
	Kind     DirectiveKind
	Name     string
	Address  uint64
	Length   uint64
	FileName string
	CStyle   bool
	NodeSpan Span
}

func (d *Directive) Span() Span { return d.NodeSpan }
func (d *Directive) element()   {}

// Label is a name bound to a node or property ("name:").
type Label struct {
	Name     string
	NodeSpan Span
}

func (l *Label) Span() Span { return l.NodeSpan }

// Reference is a phandle reference: '&label' or '&{/path/to/node}'.
type Reference struct {
	IsPath   bool
	Name     string // label name, or the raw path for IsPath
	NodeSpan Span
}

func (r *Reference) Span() Span { return r.NodeSpan }

// NodeName is a node name with an optional unit address. Two siblings
// may share a base name as long as the addresses differ, so the
// address is part of the identity.
type NodeName struct {
	Name        string
	UnitAddress string
	HasAddress  bool
}

// ParseNodeName splits "name@addr" into its parts.
func ParseNodeName(text string) NodeName {
	if base, addr, ok := strings.Cut(text, "@"); ok {
		return NodeName{Name: base, UnitAddress: addr, HasAddress: true}
	}
	return NodeName{Name: text}
}

// Full renders the name the way it appears in a path.
func (n NodeName) Full() string {
	if n.HasAddress {
		return n.Name + "@" + n.UnitAddress
	}
	return n.Name
}

// Node is a node definition. Either Name is set (root node and named
// children) or Ref is set (top-level '&label { ... }' extensions).
// Items holds children and properties in insertion order; the order is
// significant because later definitions override earlier ones under
// device-tree merge semantics.
type Node struct {
	Label    *Label
	Name     NodeName
	NameSpan Span
	Ref      *Reference
	Items    []NodeItem
	NodeSpan Span
}

func (n *Node) Span() Span { return n.NodeSpan }
func (n *Node) element()   {}
func (n *Node) nodeItem()  {}

// Property is a property definition. A boolean property has no
// values.
type Property struct {
	Label    *Label
	Name     string
	NameSpan Span
	Values   []Value
	NodeSpan Span
}

func (p *Property) Span() Span { return p.NodeSpan }
func (p *Property) nodeItem()  {}

// DeletedNode is a /delete-node/ directive. At top level it names its
// target by reference; inside a node body by child name.
type DeletedNode struct {
	Ref      *Reference
	Name     NodeName
	NodeSpan Span
}

func (d *DeletedNode) Span() Span { return d.NodeSpan }
func (d *DeletedNode) element()   {}
func (d *DeletedNode) nodeItem()  {}

// DeletedProperty is a /delete-property/ directive inside a node body.
type DeletedProperty struct {
	Name     string
	NodeSpan Span
}

func (d *DeletedProperty) Span() Span { return d.NodeSpan }
func (d *DeletedProperty) nodeItem()  {}

// Value is a single property value.
type Value interface {
	Span() Span
	value()
}

// StringValue is a quoted string.
type StringValue struct {
	Text     string
	NodeSpan Span
}

func (v *StringValue) Span() Span { return v.NodeSpan }
func (v *StringValue) value()     {}

// CellList is an angle-bracketed list of cells. Bits holds the
// /bits/ width when one was given, otherwise 0.
type CellList struct {
	Bits     uint32
	Cells    []Cell
	NodeSpan Span
}

func (v *CellList) Span() Span { return v.NodeSpan }
func (v *CellList) value()     {}

// ByteString is a bracketed byte string ("[00 12 ab]").
type ByteString struct {
	Bytes    []byte
	NodeSpan Span
}

func (v *ByteString) Span() Span { return v.NodeSpan }
func (v *ByteString) value()     {}

// RefValue is a bare reference used as a property value.
type RefValue struct {
	Ref Reference
}

func (v *RefValue) Span() Span { return v.Ref.NodeSpan }
func (v *RefValue) value()     {}

// Cell is one member of a cell list.
type Cell interface {
	Span() Span
	cell()
}

// NumberCell is a numeric cell.
type NumberCell struct {
	Value    uint32
	NodeSpan Span
}

func (c *NumberCell) Span() Span { return c.NodeSpan }
func (c *NumberCell) cell()      {}

// RefCell is a reference used inside a cell list; it resolves to the
// target's phandle.
type RefCell struct {
	Ref Reference
}

func (c *RefCell) Span() Span { return c.Ref.NodeSpan }
func (c *RefCell) cell()      {}

// ExprCell is a parenthesized expression. The raw text is kept
// verbatim so a later evaluation pass can pick it up; this parser does
// not evaluate it.
type ExprCell struct {
	Raw      string
	NodeSpan Span
}

func (c *ExprCell) Span() Span { return c.NodeSpan }
func (c *ExprCell) cell()      {}

// Properties returns the node's properties in source order.
func (n *Node) Properties() []*Property {
	var props []*Property
	for _, item := range n.Items {
		if prop, ok := item.(*Property); ok {
			props = append(props, prop)
		}
	}
	return props
}

// Children returns the node's child nodes in source order.
func (n *Node) Children() []*Node {
	var children []*Node
	for _, item := range n.Items {
		if child, ok := item.(*Node); ok {
			children = append(children, child)
		}
	}
	return children
}

// PropertyNamed returns the last property with the given name, which
// is the one that wins under merge semantics.
func (n *Node) PropertyNamed(name string) *Property {
	var found *Property
	for _, item := range n.Items {
		if prop, ok := item.(*Property); ok && prop.Name == name {
			found = prop
		}
	}
	return found
}
