// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dts-tools/go-dts-lsp/internal/analysis"
	"github.com/dts-tools/go-dts-lsp/internal/server"
)

// DocumentSymbol handles the textDocument/documentSymbol request.
// It returns the hierarchical outline of the document: nodes with
// their child nodes and properties, in source order. The outline is
// built from the syntax tree so broken documents still get one.
func DocumentSymbol(context *glsp.Context, params *protocol.DocumentSymbolParams) (interface{}, error) {
	// Get server instance
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DocumentSymbol")
		return nil, nil
	}

	// Retrieve document from store
	doc, exists := srv.Documents().Get(params.TextDocument.URI)
	if !exists {
		log.Printf("Warning: Document not found for documentSymbol: %s\n", params.TextDocument.URI)
		return nil, nil
	}

	snapshot := doc.Snapshot

	outline := snapshot.Outline()
	symbols := make([]protocol.DocumentSymbol, 0, len(outline))
	for _, item := range outline {
		symbols = append(symbols, toDocumentSymbol(snapshot, item))
	}

	return symbols, nil
}

func toDocumentSymbol(snapshot *analysis.Snapshot, item analysis.OutlineItem) protocol.DocumentSymbol {
	kind := protocol.SymbolKindProperty
	if item.IsNode {
		kind = protocol.SymbolKindModule
	}

	symbol := protocol.DocumentSymbol{
		Name:           item.Name,
		Kind:           kind,
		Range:          toProtocolRange(snapshot, item.Span),
		SelectionRange: toProtocolRange(snapshot, item.SelectionSpan),
	}
	if item.Detail != "" {
		detail := item.Detail
		symbol.Detail = &detail
	}

	for _, child := range item.Children {
		childSymbol := toDocumentSymbol(snapshot, child)
		symbol.Children = append(symbol.Children, childSymbol)
	}

	return symbol
}
