package stats

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroOneMask(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		rate       float64
		wantZeros  int
	}{
		{"fifth", 10, 10, 0.2, 20},
		{"truncated", 3, 3, 0.5, 4},
		{"none", 4, 4, 0, 0},
		{"clamped", 2, 3, 1.5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(1, 2))
			m, err := ZeroOneMask(tt.rows, tt.cols, tt.rate, rng)
			require.NoError(t, err)

			r, c := m.Dims()
			assert.Equal(t, tt.rows, r)
			assert.Equal(t, tt.cols, c)

			zeros := 0
			for _, v := range m.RawMatrix().Data {
				switch v {
				case 0:
					zeros++
				case 1:
				default:
					t.Fatalf("unexpected mask value %f", v)
				}
			}
			assert.Equal(t, tt.wantZeros, zeros)
		})
	}
}

func TestZeroOneMaskSeeded(t *testing.T) {
	a, err := ZeroOneMask(5, 5, 0.4, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	b, err := ZeroOneMask(5, 5, 0.4, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	assert.Equal(t, a.RawMatrix().Data, b.RawMatrix().Data)
}

func TestZeroOneMaskInvalid(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tests := []struct {
		name       string
		rows, cols int
		rate       float64
		rng        *rand.Rand
	}{
		{"no rows", 0, 4, 0.2, rng},
		{"no columns", 4, 0, 0.2, rng},
		{"negative", -1, 4, 0.2, rng},
		{"nan rate", 2, 2, math.NaN(), rng},
		{"no source", 2, 2, 0.2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ZeroOneMask(tt.rows, tt.cols, tt.rate, tt.rng)
			assert.ErrorIs(t, err, ErrInvalidMask)
			assert.Nil(t, m)
		})
	}
}
