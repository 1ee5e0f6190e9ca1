package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingValue is returned when a cell is empty or holds a NA marker.
var ErrMissingValue = errors.New("timeseries: missing value")

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	HasHeader   bool   // Whether the first row names the columns
	Delimiter   rune   // Field delimiter (default: ',')
	SkipColumns int    // Leading non-numeric columns to drop, e.g. a date column
	DateColumn  int    // Index of a date column to parse into Timestamps (-1: none)
	DateFormat  string // Date format tried first (default: "2006-01-02 15:04:05")
	SkipRows    int    // Number of rows to skip at start
}

// DefaultCSVOptions returns the layout shared by the ETT and weather files:
// a header row and a leading date column.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		HasHeader:   true,
		Delimiter:   ',',
		SkipColumns: 1,
		DateColumn:  0,
		DateFormat:  "2006-01-02 15:04:05",
	}
}

// TextOptions returns the layout of headerless numeric files such as
// electricity.txt.
func TextOptions() *CSVOptions {
	return &CSVOptions{
		Delimiter:  ',',
		DateColumn: -1,
	}
}

// LoadCSV loads a panel from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Panel, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	p, err := LoadCSVFromReader(bufio.NewReader(file), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return p, nil
}

// LoadCSVFromReader loads a panel from an io.Reader. Every data row must have
// the same number of numeric cells.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Panel, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	// Skip rows if needed
	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	var columns []string
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		if len(header) <= opts.SkipColumns {
			return nil, ErrEmptyPanel
		}
		for _, h := range header[opts.SkipColumns:] {
			columns = append(columns, strings.TrimSpace(strings.Trim(h, "\"")))
		}
	}

	var (
		data       []float64
		timestamps []time.Time
		width      = -1
		rows       = 0
		datesOK    = opts.DateColumn >= 0
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		// Whitespace-only lines come back as a single blank field.
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		if len(record) <= opts.SkipColumns {
			return nil, fmt.Errorf("line %d: %w", line, ErrEmptyPanel)
		}
		cells := record[opts.SkipColumns:]
		if width == -1 {
			width = len(cells)
		} else if len(cells) != width {
			return nil, fmt.Errorf("line %d: expected %d values, got %d: %w", line, width, len(cells), ErrShapeMismatch)
		}

		for j, cell := range cells {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, j+opts.SkipColumns, err)
			}
			data = append(data, v)
		}
		rows++

		if datesOK && opts.DateColumn < len(record) {
			if ts, ok := parseDate(record[opts.DateColumn], opts.DateFormat); ok {
				timestamps = append(timestamps, ts)
			} else {
				datesOK = false
			}
		}
	}

	if rows == 0 {
		return nil, errors.New("no valid data found in CSV")
	}
	if columns != nil && len(columns) != width {
		return nil, fmt.Errorf("header has %d value columns, rows have %d: %w", len(columns), width, ErrShapeMismatch)
	}

	p, err := NewPanel(rows, width, data)
	if err != nil {
		return nil, err
	}
	p.Columns = columns
	if datesOK && len(timestamps) == rows {
		p.Timestamps = timestamps
	}
	return p, nil
}

func parseCell(cell string) (float64, error) {
	s := strings.TrimSpace(strings.Trim(cell, "\""))
	switch s {
	case "", "NA", "NaN", "nan", "null":
		return 0, ErrMissingValue
	}
	return strconv.ParseFloat(s, 64)
}

func parseDate(cell, preferred string) (time.Time, bool) {
	s := strings.TrimSpace(strings.Trim(cell, "\""))
	// Try multiple date formats
	formats := []string{
		preferred,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"2006/01/02 15:04",
		"01/02/2006",
	}
	for _, layout := range formats {
		if layout == "" {
			continue
		}
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// SaveCSV writes a panel to a CSV file, with a header row when the panel has
// column names.
func SaveCSV(p *Panel, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if len(p.Columns) == p.Width() && p.Columns != nil {
		if err := w.Write(p.Columns); err != nil {
			return err
		}
	}

	record := make([]string, p.Width())
	for i := 0; i < p.Len(); i++ {
		for j, v := range p.Values.RawRowView(i) {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
