package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dts-tools/go-dts-lsp/internal/dts"
)

func TestSeverities_Overrides(t *testing.T) {
	severities, err := Severities(map[string]string{
		"name_too_long":      "error",
		"property_redefined": "warning",
	})
	if err != nil {
		t.Fatalf("Severities returned error: %v", err)
	}
	if got := severities.Severity(dts.CodeNameTooLong); got != dts.SeverityError {
		t.Errorf("name_too_long = %v, want error", got)
	}
	if got := severities.Severity(dts.CodePropertyRedefined); got != dts.SeverityWarning {
		t.Errorf("property_redefined = %v, want warning", got)
	}
	// Untouched codes keep their defaults.
	if got := severities.Severity(dts.CodeExpected); got != dts.SeverityError {
		t.Errorf("expected = %v, want error", got)
	}
}

func TestSeverities_UnknownCode(t *testing.T) {
	if _, err := Severities(map[string]string{"no_such_code": "error"}); err == nil {
		t.Error("Expected error for unknown code")
	}
}

func TestSeverities_InvalidSeverity(t *testing.T) {
	if _, err := Severities(map[string]string{"expected": "fatal"}); err == nil {
		t.Error("Expected error for invalid severity name")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtscheck.toml")
	content := "[severities]\nname_too_long = \"info\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	severities, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := severities.Severity(dts.CodeNameTooLong); got != dts.SeverityInfo {
		t.Errorf("name_too_long = %v, want info", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
