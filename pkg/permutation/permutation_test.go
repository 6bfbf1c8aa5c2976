package permutation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func seed(b byte) []byte {
	s := make([]byte, 32)
	s[31] = b
	return s
}

func TestPermutation_IsBijection(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 16, 17, 100, 1000, 4097} {
		p, err := New(seed(11), n)
		require.NoError(t, err)

		seen := make([]bool, n)
		for i := 0; i < n; i++ {
			j, err := p.At(i)
			require.NoError(t, err)
			require.False(t, seen[j], "n=%d image %d is hit twice", n, j)
			seen[j] = true
		}
	}
}

func TestPermutation_IsStable(t *testing.T) {
	p1, err := New(seed(42), 100)
	require.NoError(t, err)
	p2, err := New(seed(42), 100)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		a, err := p1.At(i)
		require.NoError(t, err)
		b, err := p2.At(i)
		require.NoError(t, err)
		c, err := p1.At(i)
		require.NoError(t, err)

		require.Equal(t, a, b)
		require.Equal(t, a, c)
	}
}

func TestPermutation_DependsOnSeed(t *testing.T) {
	p1, err := New(seed(1), 1000)
	require.NoError(t, err)
	p2, err := New(seed(2), 1000)
	require.NoError(t, err)

	differ := 0
	for i := 0; i < 1000; i++ {
		a, _ := p1.At(i)
		b, _ := p2.At(i)
		if a != b {
			differ++
		}
	}

	require.Greater(t, differ, 900)
}

func TestPermutation_Errors(t *testing.T) {
	_, err := New(seed(1), 0)
	require.Error(t, err)

	p, err := New(seed(1), 3)
	require.NoError(t, err)
	require.Equal(t, 3, p.Size())

	_, err = p.At(3)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = p.At(-1)
	require.ErrorIs(t, err, ErrOutOfRange)
}
