// Package file provides a core.Slot backed by a single file on disk.
//
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so a concurrent reader sees either the previous or the
// new cart and never a partially written one.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/shopcart/slot"
)

// Slot persists the slot value in one file.
type Slot struct {
	path string
	perm fs.FileMode
}

// Open prepares a file slot at path, creating parent directories as needed.
// The file itself is created on the first Save.
func Open(path string) (*Slot, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("slot path is required")
	}
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return nil, fmt.Errorf("create slot dir: %w", err)
	}
	return &Slot{path: clean, perm: 0o600}, nil
}

// Path returns the file the slot writes to.
func (s *Slot) Path() string { return s.path }

// Load returns the file contents or slot.ErrEmpty when the file does not exist.
func (s *Slot) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, slot.ErrEmpty
		}
		return nil, fmt.Errorf("read slot: %w", err)
	}
	return data, nil
}

// Save atomically replaces the file contents with data.
func (s *Slot) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp slot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp slot: %w", err)
	}
	if err := os.Chmod(tmpName, s.perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp slot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace slot: %w", err)
	}
	return nil
}
