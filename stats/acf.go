package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ACF calculates the autocorrelation function of values for lags 0 to maxLag.
// It returns nil for constant input or a negative lag.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	maxLag = min(maxLag, n-1)
	if maxLag < 0 {
		return nil
	}

	centered := make([]float64, n)
	copy(centered, values)
	floats.AddConst(-stat.Mean(values, nil), centered)
	variance := floats.Dot(centered, centered)
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := range acf {
		acf[k] = floats.Dot(centered[k:], centered[:n-k]) / variance
	}
	return acf
}
