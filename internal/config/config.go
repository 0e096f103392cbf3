// Package config loads the checker configuration file, which lets a
// project raise or silence individual diagnostic codes.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dts-tools/go-dts-lsp/internal/dts"
)

// File mirrors the on-disk TOML layout:
//
//	[severities]
//	name_too_long = "error"
//	property_redefined = "info"
type File struct {
	Severities map[string]string `toml:"severities"`
}

// Load reads the configuration at path and returns the severity map
// it produces on top of the built-in defaults.
func Load(path string) (dts.SeverityMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	severities, err := Severities(file.Severities)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return severities, nil
}

// Severities applies overrides to the default severity map. Both the
// diagnostic codes and the severity names are validated.
func Severities(overrides map[string]string) (dts.SeverityMap, error) {
	severities := dts.DefaultSeverities()
	for code, name := range overrides {
		if _, ok := severities[dts.Code(code)]; !ok {
			return nil, fmt.Errorf("unknown diagnostic code %q", code)
		}
		severity, ok := dts.ParseSeverity(name)
		if !ok {
			return nil, fmt.Errorf("invalid severity %q for %s; use error, warning or info", name, code)
		}
		severities[dts.Code(code)] = severity
	}
	return severities, nil
}
