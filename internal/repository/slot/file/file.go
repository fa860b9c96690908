// Package file stores slots as JSON files, one file per key, in a directory
// of an afero filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"
	"subspend/internal/usecase"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Slot is a directory-backed usecase.Slot
type Slot struct {
	fs  afero.Fs
	dir string
}

// New returns a slot rooted at dir on fs, creating the directory if needed.
func New(fs afero.Fs, dir string) (*Slot, error) {
	if dir == "" {
		return nil, fmt.Errorf("file slot: empty directory")
	}
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create slot directory %s: %w", dir, err)
	}
	return &Slot{fs: fs, dir: dir}, nil
}

// NewMemory returns a slot living only in process memory
func NewMemory() *Slot {
	s, _ := New(afero.NewMemMapFs(), "/slots")
	return s
}

func (s *Slot) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("file slot: invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *Slot) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, usecase.ErrSlotEmpty
		}
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

// Write replaces the file atomically: data goes to a temp file in the same
// directory which is then renamed over the target.
func (s *Slot) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, p); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", p, err)
	}
	return nil
}

// Close is a no-op; files are closed after every write.
func (s *Slot) Close() error {
	return nil
}
