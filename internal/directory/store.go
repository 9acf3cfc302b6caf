package directory

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a counterparties CSV and builds a Directory.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening directory: %w", err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	d, err := New(entries)
	if err != nil {
		return nil, fmt.Errorf("building directory from %s: %w", path, err)
	}
	return d, nil
}

// Save writes the directory entries to path, creating parent directories.
func (d *Directory) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating directory file: %w", err)
	}
	defer f.Close()

	if err := WriteEntries(f, d.entries); err != nil {
		return fmt.Errorf("writing directory: %w", err)
	}
	return nil
}
