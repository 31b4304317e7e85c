package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	_, err := Index(0)
	assert.Error(t, err)

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v, err := Index(3)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 3)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
}

func TestChance_Bounds(t *testing.T) {
	ok, err := Chance(0)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Chance(1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		s, err := Digits(8)
		require.NoError(t, err)
		require.Len(t, s, 8)
		assert.NotEqual(t, byte('0'), s[0])
		for _, r := range s {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
