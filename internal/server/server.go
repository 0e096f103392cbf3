// Package server provides the core LSP server state and management.
package server

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dts-tools/go-dts-lsp/internal/dts"
)

// Server holds the state of the LSP server.
type Server struct {
	// documents stores all open documents with their snapshots
	documents *DocumentStore

	// severities maps diagnostic codes to the severity reported to the
	// client
	severities dts.SeverityMap

	// workspaceFolders stores the workspace folders from the client
	workspaceFolders []string

	// clientCapabilities stores the client's capabilities from the
	// initialize request
	clientCapabilities *protocol.ClientCapabilities

	// mutex protects server state
	mu sync.RWMutex

	// shutting down flag
	shuttingDown bool
}

// New creates a new LSP server instance.
func New() *Server {
	return &Server{
		documents:  NewDocumentStore(),
		severities: dts.DefaultSeverities(),
	}
}

// IsShuttingDown returns true if the server is shutting down.
func (s *Server) IsShuttingDown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuttingDown
}

// SetShuttingDown marks the server as shutting down.
func (s *Server) SetShuttingDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuttingDown = true
}

// Documents returns the document store.
func (s *Server) Documents() *DocumentStore {
	return s.documents
}

// Severities returns the active severity map.
func (s *Server) Severities() dts.SeverityMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.severities
}

// SetSeverities replaces the severity map.
func (s *Server) SetSeverities(severities dts.SeverityMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.severities = severities
}

// SetWorkspaceFolders sets the workspace folders.
func (s *Server) SetWorkspaceFolders(folders []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaceFolders = folders
}

// GetWorkspaceFolders returns the workspace folders.
func (s *Server) GetWorkspaceFolders() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspaceFolders
}

// SetClientCapabilities sets the client's capabilities.
func (s *Server) SetClientCapabilities(capabilities *protocol.ClientCapabilities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientCapabilities = capabilities
}

// GetClientCapabilities returns the client's capabilities.
func (s *Server) GetClientCapabilities() *protocol.ClientCapabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientCapabilities
}
