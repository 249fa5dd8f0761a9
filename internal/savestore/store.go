// Package savestore defines the boundary between a game session and the
// place its save slots physically live.
//
// # Slots
//
// A slot is an opaque blob produced by the interpreter, keyed by the moment it
// was created (Unix milliseconds). The key doubles as the slot's display name
// and as its sort order: listings are always newest first.
//
// # Implementations
//
//   - internal/inmemorystore: ephemeral, for tests and throwaway play
//   - internal/filestore: one file per slot in a directory
//   - internal/sqlstore: one row per slot in SQLite, MySQL or PostgreSQL
package savestore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get and Delete when no slot has the timestamp.
var ErrNotFound = errors.New("save slot not found")

// Slot is one saved game.
type Slot struct {
	// Timestamp is the creation time in Unix milliseconds.
	Timestamp int64
	Data      []byte
}

// Time returns the creation time in the local time zone.
func (s Slot) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Name renders the creation time the way players see it.
func (s Slot) Name() string {
	return s.Time().Format("2006/01/02 15:04:05")
}

// Store persists save slots.
//
// Implementations MUST be safe for concurrent use: several sessions may
// share one store.
type Store interface {
	// Put writes a slot, replacing any slot with the same timestamp.
	Put(ctx context.Context, slot Slot) error

	// Get returns the slot with the given timestamp, or ErrNotFound.
	Get(ctx context.Context, ts int64) (Slot, error)

	// List returns every slot, newest first. Data may be omitted by
	// implementations for which reading it is expensive; use Get to load
	// a slot's data.
	List(ctx context.Context) ([]Slot, error)

	// Delete removes a slot, or returns ErrNotFound.
	Delete(ctx context.Context, ts int64) error

	// Close releases any resources held by the store.
	Close() error
}

// Latest returns the newest slot in s, or ErrNotFound when s is empty.
func Latest(ctx context.Context, s Store) (Slot, error) {
	slots, err := s.List(ctx)
	if err != nil {
		return Slot{}, err
	}
	if len(slots) == 0 {
		return Slot{}, ErrNotFound
	}
	return s.Get(ctx, slots[0].Timestamp)
}
