package trace

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveToFile finalizes the emitter and writes the artifact to path.
// The in-memory trace survives a failed write; callers may retry with
// Finalize + WriteFile or discard.
func (e *Emitter) SaveToFile(path string, passed bool) error {
	return WriteFile(path, e.Finalize(passed))
}

// WriteFile writes a trace artifact as indented JSON. Write failures are
// propagated without retry.
func WriteFile(path string, tr Trace) error {
	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return fmt.Errorf("trace: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("trace: write %q: %w", path, err)
	}
	return nil
}

// LoadFromFile reads a trace artifact written by WriteFile.
func LoadFromFile(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trace: read %q: %w", path, err)
	}
	var tr Trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("trace: unmarshal %q: %w", path, err)
	}
	return &tr, nil
}
