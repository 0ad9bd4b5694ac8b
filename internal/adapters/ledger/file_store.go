package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"zone-matrix-service/internal/domain"
)

// FileStore persists the spend ledger as one JSON document. A missing file
// reads as an empty ledger; writes go through a temp file and rename so a
// crash never leaves a truncated ledger behind. The mutex serializes
// appends within this process only; deployments with concurrent runners
// should use SQLStore instead.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("ledger file path is empty")
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Load(ctx context.Context) (*domain.Ledger, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &domain.Ledger{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger %q: %w", f.path, err)
	}

	var led domain.Ledger
	if err := json.Unmarshal(data, &led); err != nil {
		return nil, fmt.Errorf("parse ledger %q: %w", f.path, err)
	}
	return &led, nil
}

func (f *FileStore) Append(ctx context.Context, entry domain.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	led, err := f.Load(ctx)
	if err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	led.Runs = append(led.Runs, entry)

	data, err := json.MarshalIndent(led, "", "  ")
	if err != nil {
		return fmt.Errorf("append ledger: marshal: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("append ledger: write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("append ledger: rename into place: %w", err)
	}
	return nil
}
