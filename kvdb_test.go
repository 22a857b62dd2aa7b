package kvdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvdb-io/kvdb/math32"
)

func TestInsert(t *testing.T) {
	t.Run("Single", func(t *testing.T) {
		db := New()

		res, err := db.Insert("a", []float32{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, UpsertResult{ID: "a", Updated: false}, res)
		assert.Equal(t, 1, db.Count())
		assert.Equal(t, 3, db.Dimension())
		assert.Len(t, db.data, 3)
	})

	t.Run("StoredNormalized", func(t *testing.T) {
		db := New()

		_, err := db.Insert("a", []float32{3, 4})
		require.NoError(t, err)

		v, ok := db.Get("a")
		require.True(t, ok)
		assert.InDelta(t, 0.6, v[0], 1e-5)
		assert.InDelta(t, 0.8, v[1], 1e-5)
		assert.InDelta(t, 1.0, math32.Norm(v), 1e-5)
	})

	t.Run("Multiple", func(t *testing.T) {
		db := New()

		for i, id := range []string{"a", "b", "c"} {
			vec := make([]float32, 3)
			vec[i] = 1
			_, err := db.Insert(id, vec)
			require.NoError(t, err)
		}

		assert.Equal(t, 3, db.Count())
		assert.Len(t, db.data, 9)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		db := New()

		_, err := db.Insert("a", []float32{1, 2, 3})
		require.NoError(t, err)

		_, err = db.Insert("b", []float32{1, 2})
		require.Error(t, err)

		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 3, dm.Expected)
		assert.Equal(t, 2, dm.Actual)

		// The failed insert must leave the store unchanged.
		assert.Equal(t, 1, db.Count())
	})

	t.Run("Upsert", func(t *testing.T) {
		db := New()

		_, err := db.Insert("a", []float32{1, 0})
		require.NoError(t, err)
		_, err = db.Insert("b", []float32{0, 1})
		require.NoError(t, err)

		res, err := db.Insert("a", []float32{3, 4})
		require.NoError(t, err)
		assert.True(t, res.Updated)
		assert.Equal(t, 2, db.Count())

		v, ok := db.Get("a")
		require.True(t, ok)
		assert.InDelta(t, 0.6, v[0], 1e-5)
		assert.InDelta(t, 0.8, v[1], 1e-5)

		// The overwrite must not disturb the neighbor record.
		v, ok = db.Get("b")
		require.True(t, ok)
		assert.InDelta(t, 1.0, v[1], 1e-5)
	})

	t.Run("EmptyVector", func(t *testing.T) {
		db := New()

		_, err := db.Insert("x", nil)
		require.ErrorIs(t, err, ErrEmptyVector)

		// No dimension may be locked in by the failure.
		assert.Zero(t, db.Dimension())
		assert.Zero(t, db.Count())
	})

	t.Run("ZeroVector", func(t *testing.T) {
		db := New()

		_, err := db.Insert("x", []float32{0, 0, 0})
		require.ErrorIs(t, err, ErrZeroVector)
		assert.Zero(t, db.Dimension())
		assert.Zero(t, db.Count())
	})
}

func TestBatchInsert(t *testing.T) {
	db := New()

	result := db.BatchInsert([]Entry{
		{ID: "a", Vector: []float32{1, 0}},
		{ID: "bad", Vector: []float32{1, 2, 3}},
		{ID: "b", Vector: []float32{0, 1}},
	})

	require.Len(t, result.Errors, 3)
	assert.NoError(t, result.Errors[0])
	assert.Error(t, result.Errors[1])
	// A failed item must not stop the rest of the batch.
	assert.NoError(t, result.Errors[2])
	assert.Equal(t, 2, db.Count())
}

func TestGet(t *testing.T) {
	t.Run("Existing", func(t *testing.T) {
		db := New()
		_, err := db.Insert("a", []float32{3, 4})
		require.NoError(t, err)

		v, ok := db.Get("a")
		require.True(t, ok)
		assert.Len(t, v, 2)
	})

	t.Run("ReturnsCopy", func(t *testing.T) {
		db := New()
		_, err := db.Insert("a", []float32{3, 4})
		require.NoError(t, err)

		v, _ := db.Get("a")
		v[0] = 42

		again, _ := db.Get("a")
		assert.InDelta(t, 0.6, again[0], 1e-5)
	})

	t.Run("Missing", func(t *testing.T) {
		db := New()
		_, err := db.Insert("a", []float32{1, 2})
		require.NoError(t, err)

		_, ok := db.Get("b")
		assert.False(t, ok)
	})

	t.Run("NeverWritten", func(t *testing.T) {
		db := New()

		_, ok := db.Get("a")
		assert.False(t, ok)
	})
}

func TestDelete(t *testing.T) {
	t.Run("Existing", func(t *testing.T) {
		db := New()
		_, err := db.Insert("a", []float32{1, 2})
		require.NoError(t, err)
		_, err = db.Insert("b", []float32{3, 4})
		require.NoError(t, err)

		require.NoError(t, db.Delete("a"))

		_, ok := db.Get("a")
		assert.False(t, ok)
		_, ok = db.Get("b")
		assert.True(t, ok)
		assert.Equal(t, 1, db.Count())
		assert.Len(t, db.data, 2)
	})

	t.Run("ShiftsLaterRecords", func(t *testing.T) {
		db := New()
		_, _ = db.Insert("a", []float32{1, 0})
		_, _ = db.Insert("b", []float32{0, 1})
		_, _ = db.Insert("c", []float32{3, 4})

		require.NoError(t, db.Delete("b"))

		// Records keep their relative order; "c" moves down one slot.
		entries := db.List()
		require.Len(t, entries, 2)
		assert.Equal(t, "a", entries[0].ID)
		assert.Equal(t, "c", entries[1].ID)

		v, ok := db.Get("c")
		require.True(t, ok)
		assert.InDelta(t, 0.6, v[0], 1e-5)
		assert.InDelta(t, 0.8, v[1], 1e-5)
	})

	t.Run("NotFound", func(t *testing.T) {
		db := New()
		_, err := db.Insert("a", []float32{1, 2})
		require.NoError(t, err)

		require.ErrorIs(t, db.Delete("b"), ErrNotFound)
		assert.Equal(t, 1, db.Count())
	})

	t.Run("EmptyStore", func(t *testing.T) {
		db := New()
		require.ErrorIs(t, db.Delete("a"), ErrEmptyStore)
	})

	t.Run("DimensionSurvivesEmptying", func(t *testing.T) {
		db := New()
		_, err := db.Insert("a", []float32{1, 2})
		require.NoError(t, err)
		require.NoError(t, db.Delete("a"))

		// Emptied is not the same as never used: the dimension stays locked.
		assert.Zero(t, db.Count())
		assert.Equal(t, 2, db.Dimension())
		require.ErrorIs(t, db.Delete("a"), ErrNotFound)
	})

	t.Run("ReinsertAfterDelete", func(t *testing.T) {
		db := New()
		_, err := db.Insert("a", []float32{1, 2})
		require.NoError(t, err)
		require.NoError(t, db.Delete("a"))

		_, err = db.Insert("a", []float32{3, 4})
		require.NoError(t, err)

		v, ok := db.Get("a")
		require.True(t, ok)
		assert.InDelta(t, 0.6, v[0], 1e-5)
	})
}

func TestList(t *testing.T) {
	db := New()
	_, _ = db.Insert("a", []float32{1, 0})
	_, _ = db.Insert("b", []float32{0, 1})

	entries := db.List()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
	assert.InDelta(t, 1.0, entries[0].Vector[0], 1e-5)
}

func TestCount(t *testing.T) {
	db := New()
	assert.Zero(t, db.Count())

	_, _ = db.Insert("a", []float32{1, 2})
	_, _ = db.Insert("b", []float32{3, 4})
	assert.Equal(t, 2, db.Count())

	require.NoError(t, db.Delete("a"))
	assert.Equal(t, 1, db.Count())
}
