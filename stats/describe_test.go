package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsprep/timeseries"
)

func TestACF(t *testing.T) {
	// Create a simple AR(1) process
	n := 100
	phi := 0.8
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = phi*values[i-1] + (float64(i%10)-5)/10
	}

	acf := ACF(values, 10)
	require.NotNil(t, acf)
	assert.Len(t, acf, 11)

	// ACF at lag 0 should be 1
	assert.InDelta(t, 1.0, acf[0], 1e-10)
	assert.Greater(t, acf[1], 0.0)
}

func TestACFValues(t *testing.T) {
	// centered: -1.5 -0.5 0.5 1.5, sum of squares 5
	acf := ACF([]float64{1, 2, 3, 4}, 3)
	require.Len(t, acf, 4)
	for k, want := range []float64{1, 0.25, -0.3, -0.45} {
		assert.InDelta(t, want, acf[k], 1e-12, "lag %d", k)
	}

	assert.Nil(t, ACF([]float64{1, 2}, -1))
}

func TestACFDegenerate(t *testing.T) {
	assert.Nil(t, ACF([]float64{2, 2, 2}, 1))
	assert.Nil(t, ACF(nil, 3))
	// lag is clamped to n-1
	assert.Len(t, ACF([]float64{1, 2, 3}, 10), 3)
}

func TestDescribe(t *testing.T) {
	rows := make([][]float64, 48)
	for i := range rows {
		// daily cycle in the first column, constant zero in the second
		rows[i] = []float64{math.Sin(2 * math.Pi * float64(i) / 24), 0}
	}
	p, err := timeseries.FromRows(rows)
	require.NoError(t, err)
	p.Columns = []string{"load", "dead"}

	summary := Describe(p, 24)
	require.Len(t, summary, 2)

	load := summary[0]
	assert.Equal(t, "load", load.Name)
	assert.InDelta(t, 0.0, load.Mean, 1e-10)
	assert.InDelta(t, -1.0, load.Min, 1e-10)
	assert.InDelta(t, 1.0, load.Max, 1e-10)
	assert.Greater(t, load.ACF, 0.4)

	dead := summary[1]
	assert.Equal(t, 1.0, dead.ZeroRatio)
	assert.True(t, math.IsNaN(dead.ACF))
}

func TestDescribeStationarity(t *testing.T) {
	rows := make([][]float64, 200)
	for i := range rows {
		rows[i] = []float64{float64(i)}
	}
	p, err := timeseries.FromRows(rows)
	require.NoError(t, err)

	summary := Describe(p, 1)
	require.NotNil(t, summary[0].KPSS)
	assert.False(t, summary[0].KPSS.IsStationary)
	// unnamed columns fall back to their index
	assert.Equal(t, "0", summary[0].Name)
}
