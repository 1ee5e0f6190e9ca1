// Package window cuts a panel into paired history/forecast samples.
//
// Slide produces the overlapping windows used for offline training:
//
//	set, err := window.Slide(panel, 96, 24) // X: 96×N, Y: 24×N per sample
//
// Shift produces the one-step pairs used for online training, where sample i
// is row i and its target is row i+history:
//
//	set, err := window.Shift(panel, 96, 24)
//
// Samples are views over the panel. Nothing is copied until a standardizer
// materializes them.
package window

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/tsprep/timeseries"
)

var (
	// ErrInvalidLength is returned for non-positive history or horizon lengths.
	ErrInvalidLength = errors.New("window: history and horizon must be positive")
	// ErrSeriesTooShort is returned when the panel cannot hold a single sample.
	ErrSeriesTooShort = errors.New("window: series too short for window")
	// ErrUnpaired is returned when X and Y hold different sample counts.
	ErrUnpaired = errors.New("window: X and Y sample counts differ")
)

// Set is an ordered list of samples. X[i] is the history of sample i and
// Y[i] its forecast target; both have one column per variable.
type Set struct {
	X []*mat.Dense
	Y []*mat.Dense
}

// NewSet pairs X and Y samples.
func NewSet(x, y []*mat.Dense) (*Set, error) {
	if len(x) != len(y) {
		return nil, ErrUnpaired
	}
	return &Set{X: x, Y: y}, nil
}

// Slide builds every window of history rows followed by horizon rows.
// The set holds T-history-horizon+1 samples.
func Slide(p *timeseries.Panel, history, horizon int) (*Set, error) {
	if history <= 0 || horizon <= 0 {
		return nil, ErrInvalidLength
	}
	n := p.Len() - history - horizon + 1
	if n <= 0 {
		return nil, fmt.Errorf("%d steps, history %d, horizon %d: %w", p.Len(), history, horizon, ErrSeriesTooShort)
	}

	s := &Set{
		X: make([]*mat.Dense, n),
		Y: make([]*mat.Dense, n),
	}
	for i := 0; i < n; i++ {
		s.X[i] = p.Rows(i, i+history)
		s.Y[i] = p.Rows(i+history, i+history+horizon)
	}
	return s, nil
}

// Shift builds one-row pairs from X = data[:-horizon] and Y = data[history:].
// The two sequences differ in length when history != horizon; the set keeps
// the T-max(history, horizon) pairs present in both.
func Shift(p *timeseries.Panel, history, horizon int) (*Set, error) {
	if history <= 0 || horizon <= 0 {
		return nil, ErrInvalidLength
	}
	n := p.Len() - max(history, horizon)
	if n <= 0 {
		return nil, fmt.Errorf("%d steps, history %d, horizon %d: %w", p.Len(), history, horizon, ErrSeriesTooShort)
	}

	s := &Set{
		X: make([]*mat.Dense, n),
		Y: make([]*mat.Dense, n),
	}
	for i := 0; i < n; i++ {
		s.X[i] = p.Rows(i, i+1)
		s.Y[i] = p.Rows(i+history, i+history+1)
	}
	return s, nil
}

// Len returns the number of samples.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.X)
}

// History returns the number of rows in each X sample.
func (s *Set) History() int {
	if s.Len() == 0 {
		return 0
	}
	r, _ := s.X[0].Dims()
	return r
}

// Horizon returns the number of rows in each Y sample.
func (s *Set) Horizon() int {
	if s.Len() == 0 {
		return 0
	}
	r, _ := s.Y[0].Dims()
	return r
}

// Nodes returns the number of variables per row.
func (s *Set) Nodes() int {
	if s.Len() == 0 {
		return 0
	}
	_, c := s.X[0].Dims()
	return c
}

// Slice returns samples [i, j). The result shares samples with s.
func (s *Set) Slice(i, j int) *Set {
	return &Set{X: s.X[i:j], Y: s.Y[i:j]}
}

// Shape returns the X and Y shapes as [B, W, N, D] with D = 1.
func (s *Set) Shape() (x, y [4]int) {
	return [4]int{s.Len(), s.History(), s.Nodes(), 1},
		[4]int{s.Len(), s.Horizon(), s.Nodes(), 1}
}

// Flatten packs X and Y into B×(W·N) and B×(H·N) matrices, one row per
// sample in row-major order. Both are nil for an empty set.
func (s *Set) Flatten() (x, y *mat.Dense) {
	if s.Len() == 0 {
		return nil, nil
	}
	return pack(s.X), pack(s.Y)
}

// Unflatten reverses Flatten given the per-sample row counts.
func Unflatten(x, y *mat.Dense, history, horizon int) (*Set, error) {
	if history <= 0 || horizon <= 0 {
		return nil, ErrInvalidLength
	}
	bx, cx := x.Dims()
	by, cy := y.Dims()
	if bx != by {
		return nil, ErrUnpaired
	}
	if cx%history != 0 || cy%horizon != 0 || cx/history != cy/horizon {
		return nil, fmt.Errorf("window: cannot reshape %d and %d columns into %d and %d rows", cx, cy, history, horizon)
	}
	nodes := cx / history

	s := &Set{
		X: make([]*mat.Dense, bx),
		Y: make([]*mat.Dense, bx),
	}
	for i := 0; i < bx; i++ {
		s.X[i] = mat.NewDense(history, nodes, mat.Row(nil, i, x))
		s.Y[i] = mat.NewDense(horizon, nodes, mat.Row(nil, i, y))
	}
	return s, nil
}

func pack(samples []*mat.Dense) *mat.Dense {
	r, c := samples[0].Dims()
	out := mat.NewDense(len(samples), r*c, nil)
	for i, m := range samples {
		row := out.RawRowView(i)
		for k := 0; k < r; k++ {
			copy(row[k*c:(k+1)*c], m.RawRowView(k))
		}
	}
	return out
}
