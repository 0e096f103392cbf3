// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dts-tools/go-dts-lsp/internal/server"
)

// References handles the textDocument/references request.
// It lists every '&' reference to the node under the cursor, and its
// definition sites when the client asks for them.
func References(context *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	// Get server instance
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in References")
		return nil, nil
	}

	// Retrieve document from store
	doc, exists := srv.Documents().Get(params.TextDocument.URI)
	if !exists {
		log.Printf("Warning: Document not found for references: %s\n", params.TextDocument.URI)
		return nil, nil
	}

	snapshot := doc.Snapshot
	pos := fromProtocolPosition(snapshot, params.Position)

	spans := snapshot.ReferencesTo(pos, params.Context.IncludeDeclaration)
	if len(spans) == 0 {
		return nil, nil
	}

	locations := make([]protocol.Location, 0, len(spans))
	for _, span := range spans {
		locations = append(locations, protocol.Location{
			URI:   params.TextDocument.URI,
			Range: toProtocolRange(snapshot, span),
		})
	}

	return locations, nil
}
