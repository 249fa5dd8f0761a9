// Package storetest holds the behaviour every savestore.Store must share.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tamigo/internal/savestore"
)

// Run exercises a store created by newStore. Each subtest gets a fresh, empty
// store.
func Run(t *testing.T, newStore func(t *testing.T) savestore.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		s := newStore(t)

		slots, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, slots)

		_, err = s.Get(ctx, 1)
		assert.ErrorIs(t, err, savestore.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, 1), savestore.ErrNotFound)
		_, err = savestore.Latest(ctx, s)
		assert.ErrorIs(t, err, savestore.ErrNotFound)
	})

	t.Run("put and get", func(t *testing.T) {
		s := newStore(t)
		want := savestore.Slot{Timestamp: 1700000000123, Data: []byte(`{"currentPosition":3}`)}

		require.NoError(t, s.Put(ctx, want))
		got, err := s.Get(ctx, want.Timestamp)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("put replaces a slot with the same timestamp", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, savestore.Slot{Timestamp: 5, Data: []byte("old")}))

		require.NoError(t, s.Put(ctx, savestore.Slot{Timestamp: 5, Data: []byte("new")}))

		got, err := s.Get(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), got.Data)
		slots, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, slots, 1)
	})

	t.Run("list is newest first", func(t *testing.T) {
		s := newStore(t)
		for _, ts := range []int64{1700000000002, 1700000000009, 1700000000005} {
			require.NoError(t, s.Put(ctx, savestore.Slot{Timestamp: ts, Data: []byte("x")}))
		}

		slots, err := s.List(ctx)

		require.NoError(t, err)
		var order []int64
		for _, slot := range slots {
			order = append(order, slot.Timestamp)
		}
		assert.Equal(t, []int64{1700000000009, 1700000000005, 1700000000002}, order)

		latest, err := savestore.Latest(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000009), latest.Timestamp)
		assert.Equal(t, []byte("x"), latest.Data)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, savestore.Slot{Timestamp: 7, Data: []byte("x")}))

		require.NoError(t, s.Delete(ctx, 7))

		_, err := s.Get(ctx, 7)
		assert.ErrorIs(t, err, savestore.ErrNotFound)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		for i := int64(1); i <= 20; i++ {
			wg.Add(1)
			go func(ts int64) {
				defer wg.Done()
				assert.NoError(t, s.Put(ctx, savestore.Slot{Timestamp: ts, Data: []byte("x")}))
			}(i)
		}
		wg.Wait()

		slots, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, slots, 20)
	})
}
