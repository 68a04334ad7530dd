package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(n int, fill float64) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = fill
			}
		}
	}
	return m
}

func TestMatrixPairValidate(t *testing.T) {
	t.Run("valid matrix", func(t *testing.T) {
		m := &MatrixPair{
			StopOrder: []string{"depot", "a", "b"},
			T:         square(3, 10),
			D:         square(3, 100),
		}
		require.NoError(t, m.Validate())
	})

	t.Run("empty stop order", func(t *testing.T) {
		m := &MatrixPair{}
		err := m.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		m := &MatrixPair{
			StopOrder: []string{"depot", "a", "b"},
			T:         square(2, 10),
			D:         square(2, 10),
		}
		err := m.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("non-square row", func(t *testing.T) {
		m := &MatrixPair{
			StopOrder: []string{"depot", "a"},
			T:         [][]float64{{0, 1}, {1}},
			D:         square(2, 1),
		}
		err := m.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("negative entry", func(t *testing.T) {
		m := &MatrixPair{
			StopOrder: []string{"depot", "a"},
			T:         [][]float64{{0, -1}, {1, 0}},
			D:         square(2, 1),
		}
		err := m.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("nonzero diagonal", func(t *testing.T) {
		m := &MatrixPair{
			StopOrder: []string{"depot", "a"},
			T:         [][]float64{{1, 1}, {1, 0}},
			D:         square(2, 1),
		}
		err := m.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBadInput)
	})
}

func TestMatrixPairIndexOf(t *testing.T) {
	m := &MatrixPair{StopOrder: []string{"depot", "a", "b"}}
	assert.Equal(t, 0, m.IndexOf("depot"))
	assert.Equal(t, 2, m.IndexOf("b"))
	assert.Equal(t, -1, m.IndexOf("missing"))
}
