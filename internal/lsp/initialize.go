// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dts-tools/go-dts-lsp/internal/server"
)

var (
	// serverInstance holds the global server instance
	// This is set by SetServer and accessed by handlers
	serverInstance interface{}
)

// SetServer sets the global server instance for handlers to access.
func SetServer(srv interface{}) {
	serverInstance = srv
}

// Initialize handles the LSP initialize request.
// This is the first request sent by the client and establishes the server capabilities.
func Initialize(context *glsp.Context, params *protocol.InitializeParams) (interface{}, error) {
	if srv, ok := serverInstance.(*server.Server); ok && srv != nil {
		srv.SetClientCapabilities(&params.Capabilities)

		var folders []string
		for _, folder := range params.WorkspaceFolders {
			folders = append(folders, folder.URI)
		}
		srv.SetWorkspaceFolders(folders)
	}

	// Build server capabilities
	changeKind := protocol.TextDocumentSyncKindIncremental
	trueVal := true
	falseVal := false

	capabilities := protocol.ServerCapabilities{
		// Text document synchronization
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: &trueVal,
			Change:    &changeKind,
			WillSave:  &falseVal,
			Save: &protocol.SaveOptions{
				IncludeText: &falseVal,
			},
		},

		// Hover support
		HoverProvider: &trueVal,

		// Go-to definition support
		DefinitionProvider: &trueVal,

		// Find references support
		ReferencesProvider: &trueVal,

		// Document symbols (outline view)
		DocumentSymbolProvider: &trueVal,

		// Code completion; '&' starts a reference to a labeled node
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: []string{"&"},
			ResolveProvider:   &falseVal,
		},

		// Semantic tokens (semantic highlighting)
		SemanticTokensProvider: &protocol.SemanticTokensOptions{
			Legend: semanticTokensLegend(),
			Full:   &trueVal,
		},

		// Diagnostics are pushed via publishDiagnostics
	}

	// Build and return InitializeResult
	serverVersion := "0.1.0"

	result := protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "go-dts-lsp",
			Version: &serverVersion,
		},
	}

	return result, nil
}

// Initialized handles the initialized notification from the client.
// This is sent after the initialize response, signaling that the client is ready.
func Initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

// Shutdown handles the shutdown request.
// The client sends this to ask the server to shut down gracefully.
func Shutdown(context *glsp.Context) error {
	if srv, ok := serverInstance.(*server.Server); ok && srv != nil {
		srv.SetShuttingDown()
	}
	log.Println("Shutdown requested")
	return nil
}
