package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"zone-matrix-service/internal/domain"
)

// FileStore reads and writes the serving artifact as indented JSON, the
// format the map viewer and the matrix CLI share. Both directions validate,
// so a malformed artifact is caught at the boundary it crossed.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("artifact file path is empty")
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Save(ctx context.Context, art *domain.Artifact) error {
	if art == nil {
		return errors.New("save artifact: artifact is nil")
	}
	if err := art.Validate(); err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}

	data, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return fmt.Errorf("save artifact: marshal: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("save artifact: write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("save artifact: rename into place: %w", err)
	}
	return nil
}

func (f *FileStore) Load(ctx context.Context) (*domain.Artifact, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("load artifact %q: %w", f.path, err)
	}

	var art domain.Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse artifact %q: %w", f.path, err)
	}
	if err := art.Validate(); err != nil {
		return nil, fmt.Errorf("validate artifact %q: %w", f.path, err)
	}
	return &art, nil
}
