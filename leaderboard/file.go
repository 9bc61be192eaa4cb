package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the list as a JSON array in a single file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

// Load reads the list. A missing file is an empty list.
func (f *FileStore) Load(ctx context.Context) ([]int, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file: read %s: %w", f.path, err)
	}

	var scores []int
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, fmt.Errorf("file: decode %s: %w", f.path, err)
	}
	return scores, nil
}

// Save replaces the file contents, writing through a temporary file so a
// failed write never leaves a truncated list behind.
func (f *FileStore) Save(ctx context.Context, scores []int) error {
	if scores == nil {
		scores = []int{}
	}
	data, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("file: encode: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".leaderboard-*")
	if err != nil {
		return fmt.Errorf("file: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("file: replace %s: %w", f.path, err)
	}
	return nil
}
