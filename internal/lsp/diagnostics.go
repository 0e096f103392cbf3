// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"
	"sort"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dts-tools/go-dts-lsp/internal/analysis"
	"github.com/dts-tools/go-dts-lsp/internal/dts"
)

// diagnosticSource tags findings in the editor's problems view.
const diagnosticSource = "dts"

// protocolDiagnostics converts a snapshot's findings into protocol
// diagnostics, applying the configured severity map.
func protocolDiagnostics(snapshot *analysis.Snapshot, severities dts.SeverityMap) []protocol.Diagnostic {
	diags := dts.ApplySeverities(snapshot.Diagnostics(), severities)
	out := make([]protocol.Diagnostic, 0, len(diags))
	source := diagnosticSource
	for _, diag := range diags {
		severity := protocolSeverity(diag.Severity)
		code := protocol.IntegerOrString{Value: string(diag.Code)}
		out = append(out, protocol.Diagnostic{
			Range:    toProtocolRange(snapshot, diag.Span),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  diag.Message,
		})
	}
	return out
}

func protocolSeverity(severity dts.Severity) protocol.DiagnosticSeverity {
	switch severity {
	case dts.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case dts.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

// PublishDiagnostics sends diagnostic information to the client for a specific document.
// This notifies the editor about syntax errors, semantic errors, warnings, and hints.
func PublishDiagnostics(context *glsp.Context, uri string, diagnostics []protocol.Diagnostic) {
	if context == nil || context.Notify == nil {
		log.Println("Warning: Cannot publish diagnostics - context or Notify is nil")
		return
	}

	// Sort diagnostics by position (line, then column) for consistent ordering
	sortDiagnostics(diagnostics)

	// Build the PublishDiagnosticsParams
	params := &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	}

	log.Printf("Publishing %d diagnostic(s) for %s", len(diagnostics), uri)

	// Send the notification to the client
	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

// sortDiagnostics sorts diagnostics by position (line first, then column).
// This ensures diagnostics are presented in a predictable order in the editor.
func sortDiagnostics(diagnostics []protocol.Diagnostic) {
	sort.Slice(diagnostics, func(i, j int) bool {
		// Compare by line first
		if diagnostics[i].Range.Start.Line != diagnostics[j].Range.Start.Line {
			return diagnostics[i].Range.Start.Line < diagnostics[j].Range.Start.Line
		}
		// If same line, compare by column
		return diagnostics[i].Range.Start.Character < diagnostics[j].Range.Start.Character
	})
}
