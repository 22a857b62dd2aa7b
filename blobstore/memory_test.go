package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("PutOpen", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Put(ctx, "k", []byte("payload")))

		r, err := store.Open(ctx, "k")
		require.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("PutCopiesData", func(t *testing.T) {
		store := NewMemoryStore()

		data := []byte{1, 2, 3}
		require.NoError(t, store.Put(ctx, "k", data))
		data[0] = 99

		r, err := store.Open(ctx, "k")
		require.NoError(t, err)
		defer r.Close()

		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, got)
	})

	t.Run("OpenMissing", func(t *testing.T) {
		store := NewMemoryStore()

		_, err := store.Open(ctx, "absent")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "k", []byte("x")))

		require.NoError(t, store.Delete(ctx, "k"))
		_, err := store.Open(ctx, "k")
		require.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, store.Delete(ctx, "k"))
	})

	t.Run("List", func(t *testing.T) {
		store := NewMemoryStore()
		for _, name := range []string{"b", "a", "prefix-z", "prefix-a"} {
			require.NoError(t, store.Put(ctx, name, []byte("x")))
		}

		names, err := store.List(ctx, "prefix-")
		require.NoError(t, err)
		assert.Equal(t, []string{"prefix-a", "prefix-z"}, names)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "prefix-a", "prefix-z"}, all)
	})
}
