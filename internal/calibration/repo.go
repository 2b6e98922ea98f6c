package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Repository abstracts the persisted calibration document. The file-backed
// implementation is the only place where cross-process write discipline
// matters; keeping it behind an interface makes it swappable for an embedded
// store later.
type Repository interface {
	// Load returns the persisted document, or (nil, nil) when none exists.
	Load() (*Data, error)
	// Save replaces the persisted document atomically.
	Save(*Data) error
}

// FileRepository stores the document as a single JSON file. Writes go to a
// temp file in the same directory followed by a rename, so a concurrent
// reader never observes a half-written document. Last writer wins.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository at path, creating parent
// directories as needed.
func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create calibration dir: %w", err)
	}
	return &FileRepository{path: path}, nil
}

// Path returns the backing file location.
func (r *FileRepository) Path() string { return r.path }

func (r *FileRepository) Load() (*Data, error) {
	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration file: %w", err)
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse calibration file: %w", err)
	}
	return &data, nil
}

func (r *FileRepository) Save(data *Data) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal calibration data: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".calibration-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace calibration file: %w", err)
	}
	return nil
}
