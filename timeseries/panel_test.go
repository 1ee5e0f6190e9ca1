package timeseries

import (
	"errors"
	"math"
	"testing"
)

func TestNewPanel(t *testing.T) {
	p, err := NewPanel(2, 3, []float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}

	if p.Len() != 2 || p.Width() != 3 {
		t.Errorf("Expected 2x3, got %dx%d", p.Len(), p.Width())
	}

	if p.Values.At(1, 0) != 4 {
		t.Errorf("Expected row-major layout, got %f at (1,0)", p.Values.At(1, 0))
	}
}

func TestNewPanelErrors(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		data       []float64
		want       error
	}{
		{"no rows", 0, 3, nil, ErrEmptyPanel},
		{"no cols", 3, 0, nil, ErrEmptyPanel},
		{"short data", 2, 2, []float64{1, 2, 3}, ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPanel(tt.rows, tt.cols, tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFromRowsRagged(t *testing.T) {
	_, err := FromRows([][]float64{{1, 2}, {3}})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
}

func TestSlice(t *testing.T) {
	p, _ := FromRows([][]float64{{0, 10}, {1, 11}, {2, 12}, {3, 13}, {4, 14}})

	s := p.Slice(1, 4)
	if s.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", s.Len())
	}
	if s.Values.At(0, 1) != 11 || s.Values.At(2, 0) != 3 {
		t.Errorf("Unexpected slice contents: %v", s.Column(0))
	}

	// clamped bounds
	if got := p.Slice(-2, 100).Len(); got != 5 {
		t.Errorf("Expected clamped slice of 5 rows, got %d", got)
	}
	if got := p.Slice(3, 3).Len(); got != 0 {
		t.Errorf("Expected empty slice, got %d rows", got)
	}
}

func TestSliceSharesStorage(t *testing.T) {
	p, _ := FromRows([][]float64{{1}, {2}, {3}})
	s := p.Slice(1, 3)
	p.Values.Set(2, 0, 30)

	if s.Values.At(1, 0) != 30 {
		t.Error("Expected Slice to be a view over the panel")
	}

	c := p.Copy()
	p.Values.Set(0, 0, 100)
	if c.Values.At(0, 0) != 1 {
		t.Error("Expected Copy to be independent of the panel")
	}
}

func TestZeroRatio(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]float64
		expected float64
	}{
		{"none", [][]float64{{1, 2}, {3, 4}}, 0},
		{"quarter", [][]float64{{0, 2}, {3, 4}}, 0.25},
		{"all", [][]float64{{0, 0}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := FromRows(tt.rows)
			if math.Abs(p.ZeroRatio()-tt.expected) > 1e-10 {
				t.Errorf("Expected zero ratio %f, got %f", tt.expected, p.ZeroRatio())
			}
		})
	}
}

func TestColumn(t *testing.T) {
	p, _ := FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	col := p.Column(1)

	expected := []float64{2, 4, 6}
	for i, v := range expected {
		if col[i] != v {
			t.Errorf("Expected %f at index %d, got %f", v, i, col[i])
		}
	}
}
