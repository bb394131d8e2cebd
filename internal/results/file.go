package results

import (
	"encoding/json"
	"fmt"
	"os"

	"grocer/internal/domain"
)

// Write saves a run summary to path as indented JSON. The file is the
// hand-off artifact between an extraction run and the persistence phase.
func Write(path string, summary *domain.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	return nil
}

// Load reads a run summary previously written by Write.
func Load(path string) (*domain.RunSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run summary: %w", err)
	}
	var summary domain.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("decode run summary %s: %w", path, err)
	}
	return &summary, nil
}
