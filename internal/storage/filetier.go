package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"nestboard/internal/port"
)

// FileTier is the durable storage tier: a flat string map persisted to a
// mode-0600 JSON file. Every mutation is written through immediately so a
// restarted process observes the latest state.
type FileTier struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewFileTier loads (or initializes) the state file at path.
func NewFileTier(path string) (*FileTier, error) {
	t := &FileTier{path: path, data: map[string]string{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return t, nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &t.data); err != nil {
			return nil, fmt.Errorf("parsing state file %s: %w", path, err)
		}
	}
	return t, nil
}

func (t *FileTier) Get(key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.data[key]
	return v, ok
}

func (t *FileTier) Set(key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data[key] = value
	return t.persist()
}

func (t *FileTier) Delete(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.data[key]; !ok {
		return nil
	}
	delete(t.data, key)
	return t.persist()
}

// persist writes the map atomically: temp file in the same directory, then
// rename. Caller holds t.mu.
func (t *FileTier) persist() error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	raw, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// Compile-time check.
var _ port.Tier = (*FileTier)(nil)
