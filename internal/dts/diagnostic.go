package dts

import "sort"

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	}
	return "error"
}

// ParseSeverity converts a config string into a Severity.
func ParseSeverity(text string) (Severity, bool) {
	switch text {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	}
	return SeverityError, false
}

// Code is a stable diagnostic identifier. Codes never change once
// published; front ends key severity overrides and documentation on
// them.
type Code string

const (
	CodeUnexpectedEOF        Code = "unexpected_eof"
	CodeExpected             Code = "expected"
	CodeExpectedName         Code = "expected_name"
	CodeIllegalChar          Code = "illegal_char"
	CodeIllegalStart         Code = "illegal_start"
	CodeNameTooLong          Code = "name_too_long"
	CodeIntError             Code = "int_error"
	CodeOddBytestring        Code = "odd_bytestring_length"
	CodeUnterminatedString   Code = "unterminated_string"
	CodeUnterminatedComment  Code = "unterminated_comment"
	CodeUnknownDirective     Code = "unknown_directive"
	CodeUnexpectedToken      Code = "unexpected_token"
	CodeUnclosedNode         Code = "unclosed_node"
	CodePropertyAfterNode    Code = "property_after_node"
	CodeUnbalancedParens     Code = "unbalanced_parentheses"
	CodeMisplacedDTSHeader   Code = "misplaced_dts_header"
	CodeDuplicateDirective   Code = "duplicate_directive"
	CodeNonDTSV1             Code = "non_dts_v1"
	CodeIncludeSemicolon     Code = "include_semicolon"
	CodeEmptyPath            Code = "empty_path"
	CodeDuplicateLabel       Code = "duplicate_label"
	CodeDuplicatePhandle     Code = "duplicate_phandle"
	CodeUnresolvedReference  Code = "unresolved_reference"
	CodePropertyRedefined    Code = "property_redefined"
	CodeRegCellMismatch      Code = "reg_cell_mismatch"
	CodeNonStringCompatible  Code = "non_string_compatible"
	CodePhandleShape         Code = "phandle_shape"
)

// SeverityMap maps diagnostic codes to severities. The zero value is
// not useful; start from DefaultSeverities.
type SeverityMap map[Code]Severity

// DefaultSeverities returns the built-in severity policy. Name-length
// and style findings are warnings, merge overrides are informational,
// everything else is an error.
func DefaultSeverities() SeverityMap {
	return SeverityMap{
		CodeUnexpectedEOF:       SeverityError,
		CodeExpected:            SeverityError,
		CodeExpectedName:        SeverityError,
		CodeIllegalChar:         SeverityError,
		CodeIllegalStart:        SeverityError,
		CodeNameTooLong:         SeverityWarning,
		CodeIntError:            SeverityError,
		CodeOddBytestring:       SeverityError,
		CodeUnterminatedString:  SeverityError,
		CodeUnterminatedComment: SeverityError,
		CodeUnknownDirective:    SeverityWarning,
		CodeUnexpectedToken:     SeverityError,
		CodeUnclosedNode:        SeverityError,
		CodePropertyAfterNode:   SeverityError,
		CodeUnbalancedParens:    SeverityError,
		CodeMisplacedDTSHeader:  SeverityError,
		CodeDuplicateDirective:  SeverityWarning,
		CodeNonDTSV1:            SeverityError,
		CodeIncludeSemicolon:    SeverityError,
		CodeEmptyPath:           SeverityError,
		CodeDuplicateLabel:      SeverityError,
		CodeDuplicatePhandle:    SeverityError,
		CodeUnresolvedReference: SeverityError,
		CodePropertyRedefined:   SeverityInfo,
		CodeRegCellMismatch:     SeverityWarning,
		CodeNonStringCompatible: SeverityWarning,
		CodePhandleShape:        SeverityError,
	}
}

// Severity looks a code up, falling back to error for unknown codes.
func (m SeverityMap) Severity(code Code) Severity {
	if severity, ok := m[code]; ok {
		return severity
	}
	return SeverityError
}

// Diagnostic is one finding against the source text. Diagnostics are
// immutable; they are created once by the parser or the analyzer and
// returned by value, never collected in shared state.
type Diagnostic struct {
	Severity Severity
	Span     Span
	Code     Code
	Message  string
}

// NewDiagnostic builds a diagnostic with the default severity for its
// code.
func NewDiagnostic(span Span, code Code, message string) Diagnostic {
	return Diagnostic{
		Severity: defaultSeverities.Severity(code),
		Span:     span,
		Code:     code,
		Message:  message,
	}
}

var defaultSeverities = DefaultSeverities()

// ApplySeverities returns a copy of diags with severities remapped
// through m. The input is left untouched.
func ApplySeverities(diags []Diagnostic, m SeverityMap) []Diagnostic {
	if len(m) == 0 {
		return diags
	}
	out := make([]Diagnostic, len(diags))
	for i, d := range diags {
		d.Severity = m.Severity(d.Code)
		out[i] = d
	}
	return out
}

// SortDiagnostics orders diags by span start, preserving the emission
// order of diagnostics that share a position.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Span.Start.Before(diags[j].Span.Start)
	})
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
