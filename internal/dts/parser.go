package dts

import (
	"fmt"
	"strconv"
	"strings"
)

// maxNameLength is the node and property name length dtc warns about.
const maxNameLength = 31

// Parse parses source text into a File. It never fails: on malformed
// input it records a diagnostic, resynchronizes at the next statement
// or node boundary and keeps going, so the returned tree covers as
// much of the input as possible. The returned diagnostics are sorted
// by span start and contain exactly one entry per defect.
func Parse(text string) (*File, []Diagnostic) {
	p := &parser{source: text, lex: NewLexer(text)}
	p.tok = p.pull()

	file := &File{}
	for p.tok.Kind != TokenEOF {
		if el := p.primary(); el != nil {
			file.Elements = append(file.Elements, el)
		}
	}
	file.FileSpan = Position{}.To(p.lex.Pos())

	SortDiagnostics(p.diags)
	return file, p.diags
}

// parser is a recursive descent parser with one token of lookahead.
// Whitespace and comments are skipped below the lookahead so the
// grammar rules never see them.
type parser struct {
	source  string
	lex     *Lexer
	tok     Token
	lastEnd Position // end of the previous significant token
	diags   []Diagnostic
}

// pull fetches the next significant token from the lexer. Unterminated
// comments are reported here and skipped; unterminated strings pass
// through as tokens so value parsing can still pick up their content,
// but the diagnostic is emitted exactly once, at this single choke
// point.
func (p *parser) pull() Token {
	for {
		tok := p.lex.Next()
		switch tok.Kind {
		case TokenWhitespace, TokenComment:
			continue
		case TokenUnterminatedComment:
			p.errorf(tok.Span, CodeUnterminatedComment, "Comment is not terminated")
			continue
		case TokenUnterminatedString:
			p.errorf(tok.Span, CodeUnterminatedString, "String is not terminated")
		}
		return tok
	}
}

// advance consumes the lookahead and returns it. At end of input the
// EOF token is sticky.
func (p *parser) advance() Token {
	tok := p.tok
	if tok.Kind != TokenEOF {
		p.lastEnd = tok.Span.End
		p.tok = p.pull()
	}
	return tok
}

func (p *parser) errorf(span Span, code Code, format string, args ...any) {
	p.diags = append(p.diags, NewDiagnostic(span, code, fmt.Sprintf(format, args...)))
}

// expectSemicolon consumes a statement terminator. When the ';' is
// missing the parser recovers by assuming a virtual one: a token that
// legally starts the next construct is left alone and the diagnostic
// points at the character right after the previous token, while a
// garbage token is consumed in its place. Returns the span the
// enclosing construct should end at.
func (p *parser) expectSemicolon() Span {
	switch p.tok.Kind {
	case TokenSemicolon:
		return p.advance().Span
	case TokenEOF:
		p.errorf(p.lastEnd.AsSpan(), CodeExpected, "Expected ';'")
		return p.lastEnd.AsSpan()
	case TokenUnknown, TokenUnterminatedString:
		tok := p.advance()
		p.lex.assumeStatementEnd()
		p.errorf(tok.Span, CodeExpected, "Expected ';'")
		return tok.Span
	default:
		p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected ';'")
		return p.lastEnd.AsSpan()
	}
}

// resyncStatement skips tokens until something that can start a new
// statement. A ';' is consumed as the end of the broken statement;
// names, directives, '}' and EOF are left for the caller.
func (p *parser) resyncStatement() {
	for {
		switch p.tok.Kind {
		case TokenSemicolon:
			p.advance()
			return
		case TokenEOF, TokenRBrace, TokenIdent, TokenLabel, TokenDirective:
			return
		default:
			p.advance()
		}
	}
}

// primary parses one top-level element.
func (p *parser) primary() Element {
	switch p.tok.Kind {
	case TokenDirective:
		return p.topLevelDirective()
	case TokenSlash:
		slash := p.advance()
		node := &Node{Name: NodeName{Name: "/"}, NameSpan: slash.Span}
		p.nodeBody(node, slash.Span)
		return node
	case TokenLabelRef, TokenPathRef:
		refTok := p.advance()
		node := &Node{Ref: p.makeReference(refTok), NameSpan: refTok.Span}
		p.nodeBody(node, refTok.Span)
		return node
	case TokenIdent:
		if p.tok.Text == "#include" {
			return p.cStyleInclude()
		}
		tok := p.advance()
		p.errorf(tok.Span, CodeUnexpectedToken,
			"Unexpected '%s'; expected '/', a reference or a directive", tok.Text)
		p.resyncStatement()
		return nil
	case TokenRBrace:
		tok := p.advance()
		p.errorf(tok.Span, CodeUnexpectedToken, "Unexpected '}'")
		p.expectSemicolon()
		return nil
	default:
		tok := p.advance()
		p.errorf(tok.Span, CodeUnexpectedToken,
			"Unexpected %s; expected '/', a reference or a directive", tok.Kind)
		return nil
	}
}

// cStyleInclude parses '#include "file.dtsi"'. Unlike /include/ this
// is a preprocessor line and takes no ';'.
func (p *parser) cStyleInclude() Element {
	tok := p.advance()
	directive := &Directive{Kind: DirectiveInclude, Name: tok.Text, CStyle: true, NodeSpan: tok.Span}
	if p.tok.Kind != TokenString && p.tok.Kind != TokenUnterminatedString {
		p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected include file name")
		return directive
	}
	file := p.advance()
	directive.FileName = file.Text
	directive.NodeSpan = tok.Span.Union(file.Span)
	return directive
}

// topLevelDirective parses a compiler directive at file scope.
func (p *parser) topLevelDirective() Element {
	tok := p.advance()
	kind := directiveKind(tok.Text)
	directive := &Directive{Kind: kind, Name: tok.Text, NodeSpan: tok.Span}

	switch kind {
	case DirectiveDTSVersion, DirectivePlugin:
		end := p.expectSemicolon()
		directive.NodeSpan = tok.Span.Union(end)
		return directive

	case DirectiveMemReserve:
		address, addressOK := p.reserveOperand()
		length, lengthOK := p.reserveOperand()
		directive.Address = address
		directive.Length = length
		if addressOK && lengthOK {
			end := p.expectSemicolon()
			directive.NodeSpan = tok.Span.Union(end)
		} else {
			p.resyncStatement()
			directive.NodeSpan = tok.Span.Union(p.lastEnd.AsSpan())
		}
		return directive

	case DirectiveInclude:
		if p.tok.Kind == TokenString || p.tok.Kind == TokenUnterminatedString {
			file := p.advance()
			directive.FileName = file.Text
			directive.NodeSpan = tok.Span.Union(file.Span)
		} else {
			p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected include file name")
		}
		// dtc's /include/ takes no ';'; a trailing one is a common slip.
		if p.tok.Kind == TokenSemicolon {
			semi := p.advance()
			p.errorf(semi.Span, CodeIncludeSemicolon, "/include/ does not end with ';'")
			directive.NodeSpan = directive.NodeSpan.Union(semi.Span)
		}
		return directive

	case DirectiveDeleteNode:
		deleted := &DeletedNode{NodeSpan: tok.Span}
		switch p.tok.Kind {
		case TokenLabelRef, TokenPathRef:
			refTok := p.advance()
			deleted.Ref = p.makeReference(refTok)
		default:
			p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected reference")
			p.resyncStatement()
			deleted.NodeSpan = tok.Span.Union(p.lastEnd.AsSpan())
			return deleted
		}
		end := p.expectSemicolon()
		deleted.NodeSpan = tok.Span.Union(end)
		return deleted

	case DirectiveOmitIfNoRef:
		// The next element is the node the omission applies to; the
		// directive itself is kept as an element in front of it.
		return directive

	case DirectiveDeleteProperty, DirectiveBits:
		p.errorf(tok.Span, CodeUnexpectedToken, "'/%s/' is not allowed here", tok.Text)
		p.resyncStatement()
		directive.NodeSpan = tok.Span.Union(p.lastEnd.AsSpan())
		return directive
	}

	p.errorf(tok.Span, CodeUnknownDirective, "Unknown directive '/%s/'", tok.Text)
	p.resyncStatement()
	directive.NodeSpan = tok.Span.Union(p.lastEnd.AsSpan())
	return directive
}

// reserveOperand parses one /memreserve/ operand, a 64 bit number.
func (p *parser) reserveOperand() (uint64, bool) {
	if p.tok.Kind != TokenNumber {
		p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected number")
		return 0, false
	}
	tok := p.advance()
	value, err := parseUint(tok.Text, 64)
	if err != nil {
		p.errorf(tok.Span, CodeIntError, "'%s' is not a valid number", tok.Text)
		return 0, false
	}
	return value, true
}

// nodeBody parses '{ items } ;' into node, which already carries its
// name or reference. startSpan is where the node's first token began.
func (p *parser) nodeBody(node *Node, startSpan Span) {
	if p.tok.Kind != TokenLBrace {
		p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected '{'")
		node.NodeSpan = startSpan.Union(p.lastEnd.AsSpan())
		return
	}
	p.advance()

	nodeSeen := false
	for {
		switch p.tok.Kind {
		case TokenRBrace:
			p.advance()
			end := p.expectSemicolon()
			node.NodeSpan = startSpan.Union(end)
			return
		case TokenEOF:
			p.errorf(p.lastEnd.AsSpan(), CodeUnclosedNode, "Node is not closed; expected '}'")
			node.NodeSpan = startSpan.Union(p.lastEnd.AsSpan())
			return
		case TokenDirective:
			p.nodeDirective(node)
		case TokenLabel:
			labelTok := p.advance()
			p.checkName(labelTok.Span, labelTok.Text, 0, "label", isLabelChar, isLabelStart)
			label := &Label{Name: labelTok.Text, NodeSpan: labelTok.Span}
			p.namedItem(node, label, labelTok.Span, &nodeSeen)
		case TokenIdent:
			p.namedItem(node, nil, p.tok.Span, &nodeSeen)
		default:
			tok := p.advance()
			p.errorf(tok.Span, CodeUnexpectedToken, "Unexpected %s; expected node or property", tok.Kind)
			p.resyncStatement()
		}
	}
}

// namedItem parses a child node, a property definition or a boolean
// property, all of which start with a name. label is the statement's
// label if one was consumed, startSpan the span of its first token.
func (p *parser) namedItem(node *Node, label *Label, startSpan Span, nodeSeen *bool) {
	if p.tok.Kind != TokenIdent {
		p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected node or property name")
		return
	}
	nameTok := p.advance()

	switch p.tok.Kind {
	case TokenLBrace:
		p.checkNodeName(nameTok)
		child := &Node{Label: label, Name: ParseNodeName(nameTok.Text), NameSpan: nameTok.Span}
		p.nodeBody(child, startSpan)
		node.Items = append(node.Items, child)
		*nodeSeen = true

	case TokenEqual:
		p.advance()
		p.checkPropertyName(nameTok)
		values, terminated := p.propertyValues()
		end := p.lastEnd.AsSpan()
		if terminated {
			end = p.expectSemicolon()
		}
		property := &Property{
			Label:    label,
			Name:     nameTok.Text,
			NameSpan: nameTok.Span,
			Values:   values,
			NodeSpan: startSpan.Union(end),
		}
		if *nodeSeen {
			p.errorf(property.NodeSpan, CodePropertyAfterNode, "Properties must be placed before child nodes")
		}
		node.Items = append(node.Items, property)

	case TokenSemicolon:
		semi := p.advance()
		p.checkPropertyName(nameTok)
		property := &Property{
			Label:    label,
			Name:     nameTok.Text,
			NameSpan: nameTok.Span,
			NodeSpan: startSpan.Union(semi.Span),
		}
		if *nodeSeen {
			p.errorf(property.NodeSpan, CodePropertyAfterNode, "Properties must be placed before child nodes")
		}
		node.Items = append(node.Items, property)

	default:
		p.errorf(p.lastEnd.AsSpan(), CodeExpected, "Expected ';', '=' or '{'")
		p.resyncStatement()
		// Keep the name as a boolean property so the tree still covers
		// the statement.
		node.Items = append(node.Items, &Property{
			Label:    label,
			Name:     nameTok.Text,
			NameSpan: nameTok.Span,
			NodeSpan: startSpan.Union(p.lastEnd.AsSpan()),
		})
	}
}

// nodeDirective parses a directive inside a node body.
func (p *parser) nodeDirective(node *Node) {
	tok := p.advance()
	switch directiveKind(tok.Text) {
	case DirectiveDeleteNode:
		switch p.tok.Kind {
		case TokenIdent:
			nameTok := p.advance()
			end := p.expectSemicolon()
			node.Items = append(node.Items, &DeletedNode{
				Name:     ParseNodeName(nameTok.Text),
				NodeSpan: tok.Span.Union(end),
			})
		case TokenLabelRef, TokenPathRef:
			refTok := p.advance()
			ref := p.makeReference(refTok)
			end := p.expectSemicolon()
			node.Items = append(node.Items, &DeletedNode{Ref: ref, NodeSpan: tok.Span.Union(end)})
		default:
			p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected node name")
			p.resyncStatement()
		}

	case DirectiveDeleteProperty:
		if p.tok.Kind != TokenIdent {
			p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected property name")
			p.resyncStatement()
			return
		}
		nameTok := p.advance()
		end := p.expectSemicolon()
		node.Items = append(node.Items, &DeletedProperty{
			Name:     nameTok.Text,
			NodeSpan: tok.Span.Union(end),
		})

	case DirectiveOmitIfNoRef:
		// Applies to the following child; nothing to record.

	case DirectiveUnknown:
		p.errorf(tok.Span, CodeUnknownDirective, "Unknown directive '/%s/'", tok.Text)
		p.resyncStatement()

	default:
		p.errorf(tok.Span, CodeUnexpectedToken, "'/%s/' is not allowed inside a node", tok.Text)
		p.resyncStatement()
	}
}

// propertyValues parses the comma separated value list after '='.
// terminated is false when the list ran into '}' or EOF, in which case
// the caller must not look for a ';'.
func (p *parser) propertyValues() (values []Value, terminated bool) {
	for {
		p.skipValueLabels()
		value, ok := p.propertyValue()
		if value != nil {
			values = append(values, value)
		}
		if !ok {
			return values, false
		}
		p.skipValueLabels()
		if p.tok.Kind != TokenComma {
			return values, true
		}
		p.advance()
	}
}

// skipValueLabels drops labels in value position ("prop = label: <1>").
// dtc accepts them as binary offsets; this parser records nothing for
// them.
func (p *parser) skipValueLabels() {
	for p.tok.Kind == TokenLabel {
		p.advance()
	}
}

// propertyValue parses one value. A nil value with ok true means the
// token was consumed during recovery and parsing can continue; ok
// false means the statement is over.
func (p *parser) propertyValue() (Value, bool) {
	switch p.tok.Kind {
	case TokenString, TokenUnterminatedString:
		tok := p.advance()
		return &StringValue{Text: tok.Text, NodeSpan: tok.Span}, true

	case TokenLAngle:
		return p.cellList(p.advance(), 0), true

	case TokenLBracket:
		return p.byteString(p.advance()), true

	case TokenLabelRef, TokenPathRef:
		tok := p.advance()
		return &RefValue{Ref: *p.makeReference(tok)}, true

	case TokenDirective:
		if directiveKind(p.tok.Text) == DirectiveBits {
			return p.bitsValue()
		}
		tok := p.advance()
		p.errorf(tok.Span, CodeUnexpectedToken, "'/%s/' is not allowed here", tok.Text)
		return nil, true

	case TokenSemicolon, TokenRBrace, TokenEOF:
		p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected value")
		return nil, p.tok.Kind == TokenSemicolon

	default:
		tok := p.advance()
		p.errorf(tok.Span, CodeExpected, "Expected value, found %s", tok.Kind)
		return nil, true
	}
}

// bitsValue parses '/bits/ N <cells>'.
func (p *parser) bitsValue() (Value, bool) {
	tok := p.advance()
	bits := uint32(0)
	if p.tok.Kind != TokenNumber {
		p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected bit width")
	} else {
		widthTok := p.advance()
		width, err := parseUint(widthTok.Text, 32)
		switch {
		case err != nil:
			p.errorf(widthTok.Span, CodeIntError, "'%s' is not a valid number", widthTok.Text)
		case width != 8 && width != 16 && width != 32 && width != 64:
			p.errorf(widthTok.Span, CodeIntError, "Bit width must be 8, 16, 32 or 64")
		default:
			bits = uint32(width)
		}
	}
	if p.tok.Kind != TokenLAngle {
		p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected '<'")
		return nil, p.tok.Kind != TokenRBrace && p.tok.Kind != TokenEOF
	}
	list := p.cellList(p.advance(), bits)
	list.NodeSpan = tok.Span.Union(list.NodeSpan)
	return list, true
}

// cellList parses the cells after an already consumed '<'.
func (p *parser) cellList(open Token, bits uint32) *CellList {
	list := &CellList{Bits: bits, NodeSpan: open.Span}
	for {
		p.skipValueLabels()
		switch p.tok.Kind {
		case TokenRAngle:
			close := p.advance()
			list.NodeSpan = open.Span.Union(close.Span)
			return list

		case TokenEOF:
			p.errorf(p.lastEnd.AsSpan(), CodeUnexpectedEOF, "Unexpected end of file; expected '>'")
			list.NodeSpan = open.Span.Union(p.lastEnd.AsSpan())
			return list

		case TokenSemicolon, TokenRBrace:
			p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected '>'")
			list.NodeSpan = open.Span.Union(p.lastEnd.AsSpan())
			return list

		case TokenNumber:
			tok := p.advance()
			value, err := parseUint(tok.Text, 32)
			if err != nil {
				p.errorf(tok.Span, CodeIntError, "'%s' is not a valid 32 bit number", tok.Text)
				continue
			}
			list.Cells = append(list.Cells, &NumberCell{Value: uint32(value), NodeSpan: tok.Span})

		case TokenLabelRef, TokenPathRef:
			tok := p.advance()
			list.Cells = append(list.Cells, &RefCell{Ref: *p.makeReference(tok)})

		case TokenLParen:
			if cell := p.exprCell(); cell != nil {
				list.Cells = append(list.Cells, cell)
			}

		default:
			tok := p.advance()
			p.errorf(tok.Span, CodeExpected, "Expected number, reference or '(', found %s", tok.Kind)
		}
	}
}

// exprCell consumes a parenthesized expression without evaluating it.
// Nested parentheses are tracked by depth; the raw text between the
// outer parentheses, inclusive, is kept verbatim.
func (p *parser) exprCell() Cell {
	open := p.advance()
	depth := 1
	end := open.Span
	endOffset := open.Offset + len(open.Literal)
	for depth > 0 {
		switch p.tok.Kind {
		case TokenEOF:
			p.errorf(open.Span, CodeUnbalancedParens, "Unbalanced parentheses")
			return &ExprCell{
				Raw:      p.source[open.Offset:endOffset],
				NodeSpan: open.Span.Union(end),
			}
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		}
		tok := p.advance()
		end = tok.Span
		endOffset = tok.Offset + len(tok.Literal)
	}
	return &ExprCell{
		Raw:      p.source[open.Offset:endOffset],
		NodeSpan: open.Span.Union(end),
	}
}

// byteString parses the hex pairs after an already consumed '['.
func (p *parser) byteString(open Token) *ByteString {
	value := &ByteString{NodeSpan: open.Span}
	for {
		p.skipValueLabels()
		switch p.tok.Kind {
		case TokenRBracket:
			close := p.advance()
			value.NodeSpan = open.Span.Union(close.Span)
			return value

		case TokenEOF:
			p.errorf(p.lastEnd.AsSpan(), CodeUnexpectedEOF, "Unexpected end of file; expected ']'")
			value.NodeSpan = open.Span.Union(p.lastEnd.AsSpan())
			return value

		case TokenSemicolon, TokenRBrace:
			p.errorf(p.lastEnd.AsCharSpan(), CodeExpected, "Expected ']'")
			value.NodeSpan = open.Span.Union(p.lastEnd.AsSpan())
			return value

		case TokenNumber, TokenIdent:
			tok := p.advance()
			bytes, err := parseHexBytes(tok.Text)
			switch {
			case err == errOddLength:
				p.errorf(tok.Span, CodeOddBytestring, "Number of digits in byte string must be even")
			case err != nil:
				p.errorf(tok.Span, CodeIntError, "'%s' is not valid hex", tok.Text)
			default:
				value.Bytes = append(value.Bytes, bytes...)
			}

		default:
			tok := p.advance()
			p.errorf(tok.Span, CodeExpected, "Expected hex bytes or ']', found %s", tok.Kind)
		}
	}
}

// makeReference converts a reference token into a Reference, checking
// the name or path it carries.
func (p *parser) makeReference(tok Token) *Reference {
	ref := &Reference{IsPath: tok.Kind == TokenPathRef, Name: tok.Text, NodeSpan: tok.Span}
	if ref.IsPath {
		if ref.Name == "" {
			p.errorf(tok.Span, CodeEmptyPath, "Path cannot be empty")
			return ref
		}
		if !strings.HasPrefix(ref.Name, "/") {
			p.errorf(tok.Span, CodeIllegalStart, "Path must start with '/'")
			return ref
		}
		offset := uint32(2) // '&{'
		for _, segment := range strings.Split(ref.Name[1:], "/") {
			base, address, hasAddress := strings.Cut(segment, "@")
			p.checkName(tok.Span, base, offset+1, "node name", isNodeNameChar, isNodeNameChar)
			if hasAddress {
				p.checkName(tok.Span, address, offset+1+uint32(len(base))+1,
					"unit address", isNodeNameChar, isNodeNameChar)
			}
			offset += uint32(len(segment)) + 1
		}
		return ref
	}
	if ref.Name == "" {
		p.errorf(tok.Span, CodeExpectedName, "Expected label after '&'")
		return ref
	}
	p.checkName(tok.Span, ref.Name, 1, "label", isLabelChar, isLabelStart)
	return ref
}

func isLabelStart(ch byte) bool {
	return isLetter(ch) || ch == '_'
}

func isNodeNameChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == ',' || ch == '.' || ch == '_' || ch == '+' || ch == '-'
}

func isPropertyNameChar(ch byte) bool {
	return isNodeNameChar(ch) || ch == '?' || ch == '#'
}

// checkNodeName validates a node name token, including the unit
// address if one is present. The generated __symbols__ node is exempt.
func (p *parser) checkNodeName(tok Token) {
	name := tok.Text
	base, address, hasAddress := strings.Cut(name, "@")
	if !hasAddress && base == "__symbols__" {
		return
	}
	p.checkName(tok.Span, base, 0, "node name", isNodeNameChar, isLetter)
	if hasAddress {
		p.checkName(tok.Span, address, uint32(len(base))+1, "unit address", isNodeNameChar, isNodeNameChar)
	}
}

func (p *parser) checkPropertyName(tok Token) {
	p.checkName(tok.Span, tok.Text, 0, "property name", isPropertyNameChar, isPropertyNameChar)
}

// checkName validates one name against its character set. offset is
// the distance from the token start to the name's first character, so
// the illegal character diagnostic lands on the exact byte.
func (p *parser) checkName(span Span, name string, offset uint32, what string, valid, validStart func(byte) bool) {
	if name == "" {
		p.errorf(span, CodeExpectedName, "Expected %s", what)
		return
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		ok := valid(ch)
		if i == 0 {
			ok = validStart(ch)
		}
		if !ok {
			at := Position{Line: span.Start.Line, Character: span.Start.Character + offset + uint32(i)}
			code := CodeIllegalChar
			if i == 0 && valid(ch) {
				code = CodeIllegalStart
			}
			p.errorf(at.AsCharSpan(), code, "Character '%c' is not allowed in a %s", ch, what)
			return
		}
	}
	if len(name) > maxNameLength {
		p.errorf(span, CodeNameTooLong, "%s is longer than %d characters",
			strings.ToUpper(what[:1])+what[1:], maxNameLength)
	}
}

var errOddLength = fmt.Errorf("odd number of digits")

// parseHexBytes decodes a run of hex digits into bytes. dtc allows the
// pairs to be written packed ("1234ab") or spaced ("12 34 ab"); each
// token must hold a whole number of pairs.
func parseHexBytes(text string) ([]byte, error) {
	if len(text)%2 != 0 {
		return nil, errOddLength
	}
	out := make([]byte, 0, len(text)/2)
	for i := 0; i < len(text); i += 2 {
		b, err := strconv.ParseUint(text[i:i+2], 16, 8)
		if err != nil {
			return nil, err
		}
		out = append(out, byte(b))
	}
	return out, nil
}

// parseUint parses a dts integer literal: 0x prefixes hex, a leading 0
// octal, anything else decimal.
func parseUint(text string, bits int) (uint64, error) {
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		return strconv.ParseUint(text[2:], 16, bits)
	case len(text) > 1 && text[0] == '0':
		return strconv.ParseUint(text[1:], 8, bits)
	default:
		return strconv.ParseUint(text, 10, bits)
	}
}
