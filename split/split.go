// Package split partitions windowed samples and raw panels into contiguous
// train, validation and test ranges.
//
// The test range is taken from the end, the validation range immediately
// before it, and training gets everything earlier. Order is preserved so that
// validation and test always lie in the future of the training data.
package split

import (
	"errors"
	"fmt"

	"github.com/sartorproj/tsprep/timeseries"
	"github.com/sartorproj/tsprep/window"
)

// Default ratios used when preparing a dataset.
const (
	DefaultValRatio  = 0.2
	DefaultTestRatio = 0.2
)

var (
	// ErrInvalidRatio is returned for ratios outside [0, 1) or summing to 1 or more.
	ErrInvalidRatio = errors.New("split: invalid ratio")
	// ErrEmptyPartition is returned when a ratio leaves a partition with no samples.
	ErrEmptyPartition = errors.New("split: empty partition")
)

// Partition holds the three window sets of a prepared dataset.
type Partition struct {
	Train *window.Set
	Val   *window.Set
	Test  *window.Set
}

// PanelPartition holds the three contiguous ranges of a raw panel.
type PanelPartition struct {
	Train *timeseries.Panel
	Val   *timeseries.Panel
	Test  *timeseries.Panel
}

// Sizes returns the number of train, validation and test items for n items.
// Validation and test sizes are truncated toward zero.
func Sizes(n int, valRatio, testRatio float64) (train, val, test int, err error) {
	if valRatio < 0 || testRatio < 0 || valRatio >= 1 || testRatio >= 1 || valRatio+testRatio >= 1 {
		return 0, 0, 0, fmt.Errorf("val %.3f, test %.3f: %w", valRatio, testRatio, ErrInvalidRatio)
	}
	val = int(float64(n) * valRatio)
	test = int(float64(n) * testRatio)
	train = n - val - test
	if train <= 0 || val <= 0 || test <= 0 {
		return 0, 0, 0, fmt.Errorf("%d items into %d/%d/%d: %w", n, train, val, test, ErrEmptyPartition)
	}
	return train, val, test, nil
}

// ByRatio splits a window set into train, validation and test sets.
func ByRatio(s *window.Set, valRatio, testRatio float64) (Partition, error) {
	train, val, _, err := Sizes(s.Len(), valRatio, testRatio)
	if err != nil {
		return Partition{}, err
	}
	return Partition{
		Train: s.Slice(0, train),
		Val:   s.Slice(train, train+val),
		Test:  s.Slice(train+val, s.Len()),
	}, nil
}

// PanelByRatio splits a panel's rows into train, validation and test ranges.
func PanelByRatio(p *timeseries.Panel, valRatio, testRatio float64) (PanelPartition, error) {
	train, val, _, err := Sizes(p.Len(), valRatio, testRatio)
	if err != nil {
		return PanelPartition{}, err
	}
	return PanelPartition{
		Train: p.Slice(0, train),
		Val:   p.Slice(train, train+val),
		Test:  p.Slice(train+val, p.Len()),
	}, nil
}

// Sets returns the partition's sets in train, validation, test order.
func (p Partition) Sets() []*window.Set {
	return []*window.Set{p.Train, p.Val, p.Test}
}
