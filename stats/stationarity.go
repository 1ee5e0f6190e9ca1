package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// KPSSResult is the outcome of a level-stationarity KPSS test.
type KPSSResult struct {
	Statistic    float64 `json:"statistic"`
	PValue       float64 `json:"p_value"`
	Lags         int     `json:"lags"`
	IsStationary bool    `json:"is_stationary"`
}

// KPSS tests values for level stationarity. The null hypothesis is that the
// series is stationary around its mean; it is kept when the p-value is at
// least 0.05. nlags <= 0 selects ceil(12·(n/100)^¼) Bartlett lags. Returns
// nil for fewer than 10 values.
//
// Windowed models assume the mean seen in training holds in validation and
// test; a failing column is a hint that the split ratios matter.
func KPSS(values []float64, nlags int) *KPSSResult {
	n := len(values)
	if n < 10 {
		return nil
	}
	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}
	if nlags >= n {
		nlags = n - 1
	}

	mean := stat.Mean(values, nil)
	resid := make([]float64, n)
	for i, v := range values {
		resid[i] = v - mean
	}

	partial := make([]float64, n)
	floats.CumSum(partial, resid)
	eta := floats.Dot(partial, partial)

	// Newey-West long-run variance with Bartlett weights
	s2 := floats.Dot(resid, resid) / float64(n)
	for l := 1; l <= nlags; l++ {
		cov := floats.Dot(resid[l:], resid[:n-l]) / float64(n)
		s2 += 2 * (1 - float64(l)/float64(nlags+1)) * cov
	}
	if s2 <= 0 {
		s2 = 1e-10
	}

	statistic := eta / (float64(n) * float64(n) * s2)
	p := kpssPValue(statistic)
	return &KPSSResult{
		Statistic:    statistic,
		PValue:       p,
		Lags:         nlags,
		IsStationary: p >= 0.05,
	}
}

// kpssPValue interpolates from the level critical values
// 0.347 (10%), 0.463 (5%) and 0.739 (1%).
func kpssPValue(statistic float64) float64 {
	switch {
	case statistic > 0.739:
		return 0.01
	case statistic > 0.463:
		return 0.05
	case statistic > 0.347:
		return 0.10
	default:
		return 0.10 + (0.347-statistic)*0.5
	}
}
