package inmemorystore

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/vk/tamigo/internal/savestore"
)

// Store keeps slots in a sync.Map keyed by timestamp. Data is copied on the
// way in and out so callers cannot alias stored slots.
type Store struct {
	slots sync.Map // Key: int64 timestamp, Value: []byte
}

// New creates a new, empty in-memory slot store.
func New() *Store {
	return &Store{}
}

var _ savestore.Store = (*Store)(nil)

// Put stores a copy of the slot.
func (s *Store) Put(ctx context.Context, slot savestore.Slot) error {
	s.slots.Store(slot.Timestamp, slices.Clone(slot.Data))
	return nil
}

// Get returns a copy of the slot with the given timestamp.
func (s *Store) Get(ctx context.Context, ts int64) (savestore.Slot, error) {
	data, ok := s.slots.Load(ts)
	if !ok {
		return savestore.Slot{}, savestore.ErrNotFound
	}
	return savestore.Slot{Timestamp: ts, Data: slices.Clone(data.([]byte))}, nil
}

// List returns every slot, newest first.
func (s *Store) List(ctx context.Context) ([]savestore.Slot, error) {
	var out []savestore.Slot
	s.slots.Range(func(key, value any) bool {
		out = append(out, savestore.Slot{Timestamp: key.(int64), Data: slices.Clone(value.([]byte))})
		return true
	})
	slices.SortFunc(out, func(a, b savestore.Slot) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return out, nil
}

// Delete removes the slot with the given timestamp.
func (s *Store) Delete(ctx context.Context, ts int64) error {
	if _, loaded := s.slots.LoadAndDelete(ts); !loaded {
		return savestore.ErrNotFound
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
