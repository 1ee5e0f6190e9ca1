package stats

import (
	"errors"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidMask is returned for mask dimensions below one, a NaN rate or a
// missing random source.
var ErrInvalidMask = errors.New("stats: mask needs positive dimensions, a rate and a random source")

// ZeroOneMask returns a rows×cols matrix of ones in which exactly
// int(rows*cols*rate) randomly chosen entries are zero. rate is clamped to
// [0, 1].
func ZeroOneMask(rows, cols int, rate float64, rng *rand.Rand) (*mat.Dense, error) {
	if rows <= 0 || cols <= 0 || math.IsNaN(rate) || rng == nil {
		return nil, ErrInvalidMask
	}
	rate = min(max(rate, 0), 1)
	size := rows * cols
	zeros := int(float64(size) * rate)

	data := make([]float64, size)
	for i := zeros; i < size; i++ {
		data[i] = 1
	}
	rng.Shuffle(size, func(i, j int) {
		data[i], data[j] = data[j], data[i]
	})
	return mat.NewDense(rows, cols, data), nil
}
