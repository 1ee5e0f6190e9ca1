package timeseries

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmptyPanel is returned when a panel would have no rows or no columns.
	ErrEmptyPanel = errors.New("timeseries: panel has no rows or columns")
	// ErrShapeMismatch is returned when data does not fit the requested shape.
	ErrShapeMismatch = errors.New("timeseries: data length does not match shape")
)

// Panel is a multivariate time series: one row per time step, one column per
// variable or sensor. The feature depth is always 1.
type Panel struct {
	Values     *mat.Dense
	Columns    []string
	Timestamps []time.Time
	Name       string
}

// NewPanel creates a panel of rows×cols values in row-major order.
func NewPanel(rows, cols int, data []float64) (*Panel, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyPanel
	}
	if len(data) != rows*cols {
		return nil, ErrShapeMismatch
	}
	return &Panel{Values: mat.NewDense(rows, cols, data)}, nil
}

// FromRows creates a panel from equally sized rows.
func FromRows(rows [][]float64) (*Panel, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyPanel
	}
	width := len(rows[0])
	data := make([]float64, 0, len(rows)*width)
	for _, r := range rows {
		if len(r) != width {
			return nil, ErrShapeMismatch
		}
		data = append(data, r...)
	}
	return NewPanel(len(rows), width, data)
}

// Len returns the number of time steps.
func (p *Panel) Len() int {
	if p == nil || p.Values == nil {
		return 0
	}
	r, _ := p.Values.Dims()
	return r
}

// Width returns the number of variables.
func (p *Panel) Width() int {
	if p == nil || p.Values == nil {
		return 0
	}
	_, c := p.Values.Dims()
	return c
}

// Rows returns a view of rows [start, end). The view shares storage with p.
func (p *Panel) Rows(start, end int) *mat.Dense {
	return p.Values.Slice(start, end, 0, p.Width()).(*mat.Dense)
}

// Slice returns a panel over rows [start, end), clamped to the panel bounds.
// The values share storage with p; call Copy for an independent panel.
func (p *Panel) Slice(start, end int) *Panel {
	if start < 0 {
		start = 0
	}
	if end > p.Len() {
		end = p.Len()
	}
	if start >= end {
		return &Panel{Columns: p.Columns, Name: p.Name}
	}

	var ts []time.Time
	if len(p.Timestamps) >= end {
		ts = p.Timestamps[start:end]
	}

	return &Panel{
		Values:     p.Rows(start, end),
		Columns:    p.Columns,
		Timestamps: ts,
		Name:       p.Name,
	}
}

// Column returns a copy of column j.
func (p *Panel) Column(j int) []float64 {
	return mat.Col(nil, j, p.Values)
}

// Copy creates a deep copy of the panel.
func (p *Panel) Copy() *Panel {
	out := &Panel{Name: p.Name}
	if p.Values != nil {
		out.Values = mat.DenseCopyOf(p.Values)
	}
	if p.Columns != nil {
		out.Columns = append([]string(nil), p.Columns...)
	}
	if p.Timestamps != nil {
		out.Timestamps = append([]time.Time(nil), p.Timestamps...)
	}
	return out
}

// ZeroRatio returns the fraction of entries that are exactly zero. Sensor
// datasets encode missing readings as zeros, so this is logged on load.
func (p *Panel) ZeroRatio() float64 {
	rows, cols := p.Len(), p.Width()
	if rows == 0 || cols == 0 {
		return 0
	}
	zeros := 0
	for i := 0; i < rows; i++ {
		for _, v := range p.Values.RawRowView(i) {
			if v == 0 {
				zeros++
			}
		}
	}
	return float64(zeros) / float64(rows*cols)
}
