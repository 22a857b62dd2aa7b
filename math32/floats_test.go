package math32

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeL2Copy(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		// ||[3,4]|| = 5, so the unit vector is [0.6, 0.8]
		got, err := NormalizeL2Copy([]float32{3, 4})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.InDelta(t, 0.6, got[0], 1e-6)
		assert.InDelta(t, 0.8, got[1], 1e-6)
	})

	t.Run("UnitLength", func(t *testing.T) {
		got, err := NormalizeL2Copy([]float32{1, 2, 3, 4})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, Norm(got), 1e-5)
	})

	t.Run("SingleElement", func(t *testing.T) {
		got, err := NormalizeL2Copy([]float32{5})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got[0], 1e-6)
	})

	t.Run("NegativeValues", func(t *testing.T) {
		got, err := NormalizeL2Copy([]float32{-3, 4})
		require.NoError(t, err)
		assert.InDelta(t, -0.6, got[0], 1e-6)
		assert.InDelta(t, 0.8, got[1], 1e-6)
	})

	t.Run("SourceUntouched", func(t *testing.T) {
		src := []float32{3, 4}
		_, err := NormalizeL2Copy(src)
		require.NoError(t, err)
		assert.Equal(t, []float32{3, 4}, src)
	})

	t.Run("ZeroVector", func(t *testing.T) {
		_, err := NormalizeL2Copy([]float32{0, 0, 0})
		require.ErrorIs(t, err, ErrZeroVector)
	})

	t.Run("EmptyVector", func(t *testing.T) {
		_, err := NormalizeL2Copy(nil)
		require.ErrorIs(t, err, ErrEmptyVector)
	})
}

func TestDot(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		// 1*4 + 2*5 + 3*6 = 32
		got, err := Dot([]float32{1, 2, 3}, []float32{4, 5, 6})
		require.NoError(t, err)
		assert.InDelta(t, 32.0, got, 1e-6)
	})

	t.Run("Orthogonal", func(t *testing.T) {
		got, err := Dot([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, got, 1e-6)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		_, err := Dot([]float32{1, 2, 3}, []float32{4, 5})
		require.Error(t, err)

		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 3, dm.Expected)
		assert.Equal(t, 2, dm.Actual)
	})

	t.Run("ZeroOperand", func(t *testing.T) {
		got, err := Dot([]float32{0, 0, 0}, []float32{1, 2, 3})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, got, 1e-6)
	})

	t.Run("Empty", func(t *testing.T) {
		got, err := Dot(nil, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, got, 1e-6)
	})
}

func TestNormalizeThenDot(t *testing.T) {
	a, err := NormalizeL2Copy([]float32{1, 0, 0})
	require.NoError(t, err)

	b, err := NormalizeL2Copy([]float32{0.7, 0.7, 0})
	require.NoError(t, err)

	sim, err := Dot(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.707, sim, 1e-3)
}
