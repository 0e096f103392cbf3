// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dts-tools/go-dts-lsp/internal/server"
)

// Hover handles the textDocument/hover request.
// It describes the node, reference or property under the cursor.
func Hover(context *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	// Get server instance
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Hover")
		return nil, nil
	}

	// Retrieve document from store
	doc, exists := srv.Documents().Get(params.TextDocument.URI)
	if !exists {
		log.Printf("Warning: Document not found for hover: %s\n", params.TextDocument.URI)
		return nil, nil
	}

	snapshot := doc.Snapshot
	pos := fromProtocolPosition(snapshot, params.Position)

	hover, found := snapshot.HoverAt(pos)
	if !found {
		return nil, nil
	}

	hoverRange := toProtocolRange(snapshot, hover.Span)

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "```dts\n" + hover.Contents + "\n```",
		},
		Range: &hoverRange,
	}, nil
}
