package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/tsprep/split"
	"github.com/sartorproj/tsprep/timeseries"
	"github.com/sartorproj/tsprep/window"
)

func partition(t *testing.T) split.Partition {
	t.Helper()
	rows := make([][]float64, 30)
	for i := range rows {
		rows[i] = []float64{float64(i), float64(-i), float64(i) / 2}
	}
	p, err := timeseries.FromRows(rows)
	require.NoError(t, err)

	set, err := window.Slide(p, 4, 2)
	require.NoError(t, err)
	part, err := split.ByRatio(set, 0.2, 0.2)
	require.NoError(t, err)
	return part
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "ETTh1", "24_data.npz"), Offline.Path("data", "ETTh1", 24))
	assert.Equal(t, filepath.Join("data", "Elec", "96_online_data.npz"), Online.Path("data", "Elec", 96))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, layout := range []Layout{Offline, Online} {
		t.Run(layout.Suffix, func(t *testing.T) {
			part := partition(t)
			path := filepath.Join(t.TempDir(), layout.Suffix)

			require.NoError(t, Save(path, layout, part))
			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := Load(path, layout)
			require.NoError(t, err)

			want, got := part.Sets(), loaded.Sets()
			for i := range want {
				require.Equal(t, want[i].Len(), got[i].Len())
				wx, wy := want[i].Shape()
				gx, gy := got[i].Shape()
				assert.Equal(t, wx, gx)
				assert.Equal(t, wy, gy)
				for k := range want[i].X {
					assert.True(t, mat.Equal(want[i].X[k], got[i].X[k]))
					assert.True(t, mat.Equal(want[i].Y[k], got[i].Y[k]))
				}
			}
		})
	}
}

func TestSaveEmptyPartition(t *testing.T) {
	part := partition(t)
	part.Val = &window.Set{}

	err := Save(filepath.Join(t.TempDir(), "x.npz"), Offline, part)
	assert.ErrorIs(t, err, split.ErrEmptyPartition)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.npz"), Offline)
	assert.Error(t, err)
}
