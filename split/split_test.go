package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsprep/timeseries"
	"github.com/sartorproj/tsprep/window"
)

func column(t *testing.T, steps int) *timeseries.Panel {
	t.Helper()
	data := make([]float64, steps)
	for i := range data {
		data[i] = float64(i)
	}
	p, err := timeseries.NewPanel(steps, 1, data)
	require.NoError(t, err)
	return p
}

func TestSizes(t *testing.T) {
	tests := []struct {
		name                         string
		n                            int
		val, test                    float64
		wantTrain, wantVal, wantTest int
	}{
		{"defaults", 100, 0.2, 0.2, 60, 20, 20},
		{"truncates", 17, 0.2, 0.2, 11, 3, 3},
		{"uneven", 50, 0.1, 0.3, 30, 5, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			train, val, test, err := Sizes(tt.n, tt.val, tt.test)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrain, train)
			assert.Equal(t, tt.wantVal, val)
			assert.Equal(t, tt.wantTest, test)
		})
	}
}

func TestSizesErrors(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		val, test float64
		want      error
	}{
		{"negative", 100, -0.1, 0.2, ErrInvalidRatio},
		{"sum to one", 100, 0.5, 0.5, ErrInvalidRatio},
		{"zero test", 100, 0.2, 0, ErrEmptyPartition},
		{"too few items", 4, 0.2, 0.2, ErrEmptyPartition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Sizes(tt.n, tt.val, tt.test)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestByRatio(t *testing.T) {
	s, err := window.Slide(column(t, 24), 3, 2)
	require.NoError(t, err)
	require.Equal(t, 20, s.Len())

	part, err := ByRatio(s, 0.2, 0.2)
	require.NoError(t, err)

	assert.Equal(t, 12, part.Train.Len())
	assert.Equal(t, 4, part.Val.Len())
	assert.Equal(t, 4, part.Test.Len())

	// order is preserved: validation follows train, test follows validation
	assert.Equal(t, 0.0, part.Train.X[0].At(0, 0))
	assert.Equal(t, 12.0, part.Val.X[0].At(0, 0))
	assert.Equal(t, 16.0, part.Test.X[0].At(0, 0))
	assert.Equal(t, 19.0, part.Test.X[3].At(0, 0))
	assert.Len(t, part.Sets(), 3)
}

func TestPanelByRatio(t *testing.T) {
	part, err := PanelByRatio(column(t, 10), 0.2, 0.3)
	require.NoError(t, err)

	assert.Equal(t, 5, part.Train.Len())
	assert.Equal(t, 2, part.Val.Len())
	assert.Equal(t, 3, part.Test.Len())
	assert.Equal(t, 5.0, part.Val.Values.At(0, 0))
	assert.Equal(t, 7.0, part.Test.Values.At(0, 0))
	assert.Equal(t, 9.0, part.Test.Values.At(2, 0))
}
