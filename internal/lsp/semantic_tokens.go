// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dts-tools/go-dts-lsp/internal/analysis"
	"github.com/dts-tools/go-dts-lsp/internal/dts"
	"github.com/dts-tools/go-dts-lsp/internal/server"
)

// Semantic token types, in legend order. The indices below must match
// the positions in this slice.
var semanticTokenTypes = []string{
	"comment",
	"string",
	"number",
	"keyword",
	"variable",
	"property",
	"type",
}

const (
	tokenTypeComment = iota
	tokenTypeString
	tokenTypeNumber
	tokenTypeKeyword
	tokenTypeVariable
	tokenTypeProperty
	tokenTypeType
)

func semanticTokensLegend() protocol.SemanticTokensLegend {
	return protocol.SemanticTokensLegend{
		TokenTypes:     semanticTokenTypes,
		TokenModifiers: []string{},
	}
}

// SemanticTokensFull handles the textDocument/semanticTokens/full request.
// Highlighting is lexical: comments, strings, numbers, directives,
// labels and references straight from the token stream. Identifiers are
// classified by the token that follows them, a '{' makes a node name
// and anything else a property name.
func SemanticTokensFull(context *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	// Get server instance
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in SemanticTokensFull")
		return nil, nil
	}

	// Retrieve document from store
	doc, exists := srv.Documents().Get(params.TextDocument.URI)
	if !exists {
		log.Printf("Warning: Document not found for semanticTokens: %s\n", params.TextDocument.URI)
		return nil, nil
	}

	snapshot := doc.Snapshot

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(snapshot),
	}, nil
}

// semanticToken is one classified token before delta encoding, with
// protocol (UTF-16) columns. Multi-line tokens are already split into
// one entry per line.
type semanticToken struct {
	line      uint32
	startChar uint32
	length    uint32
	tokenType uint32
}

func encodeSemanticTokens(snapshot *analysis.Snapshot) []protocol.UInteger {
	tokens := classifyTokens(snapshot)

	data := make([]protocol.UInteger, 0, len(tokens)*5)
	var prevLine, prevChar uint32
	for _, tok := range tokens {
		deltaLine := tok.line - prevLine
		deltaChar := tok.startChar
		if deltaLine == 0 {
			deltaChar = tok.startChar - prevChar
		}
		data = append(data,
			protocol.UInteger(deltaLine),
			protocol.UInteger(deltaChar),
			protocol.UInteger(tok.length),
			protocol.UInteger(tok.tokenType),
			0,
		)
		prevLine = tok.line
		prevChar = tok.startChar
	}
	return data
}

func classifyTokens(snapshot *analysis.Snapshot) []semanticToken {
	lex := dts.NewLexer(snapshot.Text)

	// Collect everything except whitespace so identifier classification
	// can look at the following token.
	var raw []dts.Token
	for {
		tok := lex.Next()
		if tok.Kind == dts.TokenEOF {
			break
		}
		if tok.Kind == dts.TokenWhitespace {
			continue
		}
		raw = append(raw, tok)
	}

	var out []semanticToken
	for i, tok := range raw {
		tokenType, ok := classify(raw, i, tok)
		if !ok {
			continue
		}
		out = appendSpan(out, snapshot, tok.Span, tokenType)
	}
	return out
}

func classify(raw []dts.Token, i int, tok dts.Token) (uint32, bool) {
	switch tok.Kind {
	case dts.TokenComment, dts.TokenUnterminatedComment:
		return tokenTypeComment, true
	case dts.TokenString, dts.TokenUnterminatedString:
		return tokenTypeString, true
	case dts.TokenNumber:
		return tokenTypeNumber, true
	case dts.TokenDirective:
		return tokenTypeKeyword, true
	case dts.TokenLabel, dts.TokenLabelRef, dts.TokenPathRef:
		return tokenTypeVariable, true
	case dts.TokenIdent:
		if next := nextMeaningful(raw, i); next != nil && next.Kind == dts.TokenLBrace {
			return tokenTypeType, true
		}
		return tokenTypeProperty, true
	}
	return 0, false
}

// nextMeaningful returns the first token after index i that is not a
// comment, or nil at the end of the stream.
func nextMeaningful(raw []dts.Token, i int) *dts.Token {
	for j := i + 1; j < len(raw); j++ {
		if raw[j].Kind == dts.TokenComment || raw[j].Kind == dts.TokenUnterminatedComment {
			continue
		}
		return &raw[j]
	}
	return nil
}

// appendSpan adds span as semantic tokens, one entry per covered line.
// The protocol forbids multi-line tokens unless the client opts in, so
// block comments are split here.
func appendSpan(out []semanticToken, snapshot *analysis.Snapshot, span dts.Span, tokenType uint32) []semanticToken {
	for line := span.Start.Line; line <= span.End.Line; line++ {
		startCol := uint32(0)
		if line == span.Start.Line {
			startCol = span.Start.Character
		}
		endCol := uint32(len(snapshot.Line(line)))
		if line == span.End.Line {
			endCol = span.End.Character
		}
		if endCol <= startCol {
			continue
		}
		start := toProtocolPosition(snapshot, dts.Position{Line: line, Character: startCol})
		end := toProtocolPosition(snapshot, dts.Position{Line: line, Character: endCol})
		out = append(out, semanticToken{
			line:      line,
			startChar: start.Character,
			length:    end.Character - start.Character,
			tokenType: tokenType,
		})
	}
	return out
}
