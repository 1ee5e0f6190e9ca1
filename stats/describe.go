package stats

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/tsprep/timeseries"
)

// ColumnSummary describes one variable of a panel.
type ColumnSummary struct {
	Name      string  `json:"name"`
	Mean      float64 `json:"mean"`
	Std       float64 `json:"std"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	ZeroRatio float64 `json:"zero_ratio"`
	// Autocorrelation at the requested lag; NaN when undefined.
	ACF float64 `json:"acf"`
	// Level-stationarity test; nil for fewer than 10 steps.
	KPSS *KPSSResult `json:"kpss,omitempty"`
}

// Describe summarizes every column of p. lag is usually the history length,
// so a high ACF shows the window reaches back over a full cycle.
func Describe(p *timeseries.Panel, lag int) []ColumnSummary {
	out := make([]ColumnSummary, p.Width())
	for j := range out {
		col := p.Column(j)
		mean, std := stat.PopMeanStdDev(col, nil)

		zeros := 0
		for _, v := range col {
			if v == 0 {
				zeros++
			}
		}

		name := strconv.Itoa(j)
		if j < len(p.Columns) {
			name = p.Columns[j]
		}

		acf := math.NaN()
		if lag >= 0 && lag < len(col) {
			if vals := ACF(col, lag); vals != nil {
				acf = vals[lag]
			}
		}

		out[j] = ColumnSummary{
			Name:      name,
			Mean:      mean,
			Std:       std,
			Min:       floats.Min(col),
			Max:       floats.Max(col),
			ZeroRatio: float64(zeros) / float64(len(col)),
			ACF:       acf,
			KPSS:      KPSS(col, 0),
		}
	}
	return out
}
