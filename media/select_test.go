package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickEmpty(t *testing.T) {
	_, err := Pick(NewRand(1), []string(nil))
	assert.ErrorIs(t, err, ErrEmptyChoice)
}

func TestPickIsReproducibleWithSeed(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	draw := func(seed uint64) []string {
		r := NewRand(seed)
		out := make([]string, 20)
		for i := range out {
			v, err := Pick(r, items)
			require.NoError(t, err)
			out[i] = v
		}
		return out
	}
	assert.Equal(t, draw(42), draw(42))
}

func TestPickReachesEveryItem(t *testing.T) {
	items := []int{0, 1, 2, 3}
	seen := map[int]bool{}
	r := NewRand(7)
	for i := 0; i < 400; i++ {
		v, err := Pick(r, items)
		require.NoError(t, err)
		seen[v] = true
	}
	assert.Len(t, seen, len(items))
}
