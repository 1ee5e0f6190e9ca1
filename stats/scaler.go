package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/tsprep/timeseries"
	"github.com/sartorproj/tsprep/window"
)

var (
	// ErrNoData is returned when fitting on an empty set or panel.
	ErrNoData = errors.New("stats: no data to fit")
	// ErrZeroStd is returned when the fitted data is constant.
	ErrZeroStd = errors.New("stats: standard deviation is zero")
)

// Scaler standardizes values with a single mean and standard deviation
// shared by every variable.
type Scaler struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// NewScaler creates a scaler from known moments.
func NewScaler(mean, std float64) (*Scaler, error) {
	if std == 0 || math.IsNaN(std) {
		return nil, ErrZeroStd
	}
	return &Scaler{Mean: mean, Std: std}, nil
}

// FitSet fits a scaler to every element of the X samples of s. Overlapping
// windows contribute each occurrence of a value. The standard deviation is
// the population one (divisor n).
//
// Rows are summarized with stat.PopMeanStdDev and merged with the pairwise
// update of Chan et al., so no copy of the overlapping windows is made.
func FitSet(s *window.Set) (*Scaler, error) {
	if s.Len() == 0 {
		return nil, ErrNoData
	}

	var mean, m2, n float64
	eachRow(s.X, func(row []float64) {
		if len(row) == 0 {
			return
		}
		rowMean, rowStd := stat.PopMeanStdDev(row, nil)
		k := float64(len(row))
		total := n + k
		delta := rowMean - mean
		mean += delta * k / total
		m2 += rowStd*rowStd*k + delta*delta*n*k/total
		n = total
	})
	if n == 0 {
		return nil, ErrNoData
	}

	return NewScaler(mean, math.Sqrt(m2/n))
}

// FitPanel fits a scaler to every value of a panel.
func FitPanel(p *timeseries.Panel) (*Scaler, error) {
	if p.Len() == 0 || p.Width() == 0 {
		return nil, ErrNoData
	}
	raw := p.Values.RawMatrix()
	data := raw.Data
	if raw.Stride == raw.Cols {
		data = data[:raw.Rows*raw.Cols]
	} else {
		data = mat.DenseCopyOf(p.Values).RawMatrix().Data
	}
	mean, std := stat.PopMeanStdDev(data, nil)
	return NewScaler(mean, std)
}

// Transform returns (m - mean) / std as a new matrix.
func (s *Scaler) Transform(m mat.Matrix) *mat.Dense {
	out := mat.DenseCopyOf(m)
	out.Apply(func(_, _ int, v float64) float64 {
		return (v - s.Mean) / s.Std
	}, out)
	return out
}

// InverseTransform returns m * std + mean as a new matrix.
func (s *Scaler) InverseTransform(m mat.Matrix) *mat.Dense {
	out := mat.DenseCopyOf(m)
	out.Apply(func(_, _ int, v float64) float64 {
		return v*s.Std + s.Mean
	}, out)
	return out
}

// TransformSet standardizes X and Y of every sample. The result owns its
// matrices; set is left untouched.
func (s *Scaler) TransformSet(set *window.Set) *window.Set {
	return mapSet(set, s.Transform)
}

// InverseTransformSet undoes TransformSet.
func (s *Scaler) InverseTransformSet(set *window.Set) *window.Set {
	return mapSet(set, s.InverseTransform)
}

func mapSet(set *window.Set, fn func(mat.Matrix) *mat.Dense) *window.Set {
	out := &window.Set{
		X: make([]*mat.Dense, set.Len()),
		Y: make([]*mat.Dense, set.Len()),
	}
	for i := range set.X {
		out.X[i] = fn(set.X[i])
		out.Y[i] = fn(set.Y[i])
	}
	return out
}

func eachRow(samples []*mat.Dense, fn func(row []float64)) {
	for _, m := range samples {
		r, _ := m.Dims()
		for i := 0; i < r; i++ {
			fn(m.RawRowView(i))
		}
	}
}
