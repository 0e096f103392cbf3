// Package lsp implements LSP protocol handlers.
package lsp

// This package contains all LSP request and notification handlers:
// - Initialize / Initialized
// - Shutdown
// - textDocument/didOpen, didClose, didChange
// - textDocument/hover
// - textDocument/definition
// - textDocument/references
// - textDocument/documentSymbol
// - textDocument/completion
// - textDocument/semanticTokens/full
