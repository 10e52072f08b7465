// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docsweep/pkg/types"
)

// WriteReport writes the run summary to path as YAML.
func WriteReport(path string, s types.RunSummary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a summary previously written by WriteReport.
func ReadReport(path string) (types.RunSummary, error) {
	var s types.RunSummary
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading report %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return s, nil
}
