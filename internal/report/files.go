package report

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// ReadFile loads an import file and guesses its format from the name
func ReadFile(fs afero.Fs, path string) ([]byte, Kind, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, KindFromName(path), nil
}

// WriteFile writes an export into dir and returns its path
func WriteFile(fs afero.Fs, dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
