package pmx

import (
	"fmt"
	"os"
)

// ReadFile decodes the PMX file at path.
func ReadFile(path string) (*Model, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("pmx: read %s: %w", path, err)
	}
	return Decode(data)
}

// WriteFile encodes m to path.
func WriteFile(path string, m *Model) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("pmx: write %s: %w", path, err)
	}
	return nil
}
