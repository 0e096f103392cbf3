// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dts-tools/go-dts-lsp/internal/server"
)

// Definition handles the textDocument/definition request.
// On a '&label' or '&{/path}' reference it jumps to the referenced
// node; on a node name or label it jumps to the first definition.
func Definition(context *glsp.Context, params *protocol.DefinitionParams) (interface{}, error) {
	// Get server instance
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Definition")
		return nil, nil
	}

	// Retrieve document from store
	doc, exists := srv.Documents().Get(params.TextDocument.URI)
	if !exists {
		log.Printf("Warning: Document not found for definition: %s\n", params.TextDocument.URI)
		return nil, nil
	}

	snapshot := doc.Snapshot
	pos := fromProtocolPosition(snapshot, params.Position)

	span, found := snapshot.DefinitionAt(pos)
	if !found {
		return nil, nil
	}

	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: toProtocolRange(snapshot, span),
	}, nil
}
