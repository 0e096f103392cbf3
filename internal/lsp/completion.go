// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dts-tools/go-dts-lsp/internal/server"
)

// Completion handles the textDocument/completion request.
// The only completion the language needs is label names after '&': each
// label defined anywhere in the document is offered, with the path of
// the labeled node as detail.
func Completion(context *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	// Get server instance
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Completion")
		return nil, nil
	}

	// Retrieve document from store
	doc, exists := srv.Documents().Get(params.TextDocument.URI)
	if !exists {
		log.Printf("Warning: Document not found for completion: %s\n", params.TextDocument.URI)
		return nil, nil
	}

	snapshot := doc.Snapshot

	labels := snapshot.LabelCompletions()
	if len(labels) == 0 {
		return nil, nil
	}

	kind := protocol.CompletionItemKindReference
	items := make([]protocol.CompletionItem, 0, len(labels))
	for _, label := range labels {
		detail := label.Path
		items = append(items, protocol.CompletionItem{
			Label:  label.Name,
			Kind:   &kind,
			Detail: &detail,
		})
	}

	log.Printf("Completion: %d label(s) for %s\n", len(items), params.TextDocument.URI)

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}
