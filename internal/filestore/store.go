// Package filestore keeps save slots as files in a directory, one
// "<timestamp>.tsf" file per slot. Files with other names are ignored.
package filestore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"sync"

	"github.com/vk/tamigo/internal/savestore"
)

// Extension is the suffix of slot files.
const Extension = ".tsf"

var slotName = regexp.MustCompile(`^(\d{13})\` + Extension + `$`)

// Store is a directory of slot files.
type Store struct {
	dir string
	mu  sync.RWMutex
}

var _ savestore.Store = (*Store)(nil)

// New returns a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating saves directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(ts int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%013d%s", ts, Extension))
}

// Put writes the slot through a temporary file so readers never see a
// partial slot.
func (s *Store) Put(ctx context.Context, slot savestore.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("writing slot %d: %w", slot.Timestamp, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(slot.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing slot %d: %w", slot.Timestamp, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing slot %d: %w", slot.Timestamp, err)
	}
	if err := os.Rename(tmp.Name(), s.path(slot.Timestamp)); err != nil {
		return fmt.Errorf("writing slot %d: %w", slot.Timestamp, err)
	}
	return nil
}

// Get reads a slot file.
func (s *Store) Get(ctx context.Context, ts int64) (savestore.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(ts))
	if errors.Is(err, fs.ErrNotExist) {
		return savestore.Slot{}, savestore.ErrNotFound
	}
	if err != nil {
		return savestore.Slot{}, fmt.Errorf("reading slot %d: %w", ts, err)
	}
	return savestore.Slot{Timestamp: ts, Data: data}, nil
}

// List returns the slots in the directory, newest first, without their data.
func (s *Store) List(ctx context.Context) ([]savestore.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	var out []savestore.Slot
	for _, e := range entries {
		m := slotName.FindStringSubmatch(e.Name())
		if m == nil || e.IsDir() {
			continue
		}
		ts, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		out = append(out, savestore.Slot{Timestamp: ts})
	}
	slices.SortFunc(out, func(a, b savestore.Slot) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return out, nil
}

// Delete removes a slot file.
func (s *Store) Delete(ctx context.Context, ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(ts))
	if errors.Is(err, fs.ErrNotExist) {
		return savestore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting slot %d: %w", ts, err)
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
