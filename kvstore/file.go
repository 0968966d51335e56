package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir is a file backend storing one JSON document per collection under a
// store directory, e.g. <dir>/exchange_transactions.json.
type Dir struct {
	dir string
}

// NewDir creates a file backend rooted at dir. The directory is created on
// first write.
func NewDir(dir string) *Dir {
	return &Dir{dir: dir}
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.dir, key+".json")
}

func (d *Dir) Get(_ context.Context, key string) (json.RawMessage, error) {
	raw, err := os.ReadFile(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("could not read document %q: %w", key, err)
	}
	return raw, nil
}

func (d *Dir) Set(_ context.Context, key string, value json.RawMessage) error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("could not create store directory %q: %w", d.dir, err)
	}
	if err := os.WriteFile(d.path(key), value, 0644); err != nil {
		return fmt.Errorf("could not write document %q: %w", key, err)
	}
	return nil
}
