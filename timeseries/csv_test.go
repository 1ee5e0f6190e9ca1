package timeseries

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSVFromReader(t *testing.T) {
	// ETTh1 layout: date column followed by the variables
	csvData := `date,HUFL,HULL,OT
2016-07-01 00:00:00,5.827,2.009,30.531
2016-07-01 01:00:00,5.693,2.076,27.787
2016-07-01 02:00:00,5.157,1.741,27.787`

	p, err := LoadCSVFromReader(strings.NewReader(csvData), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if p.Len() != 3 || p.Width() != 3 {
		t.Fatalf("Expected 3x3 panel, got %dx%d", p.Len(), p.Width())
	}

	expected := []string{"HUFL", "HULL", "OT"}
	for i, c := range expected {
		if p.Columns[i] != c {
			t.Errorf("Column %d: expected %s, got %s", i, c, p.Columns[i])
		}
	}

	if math.Abs(p.Values.At(1, 2)-27.787) > 1e-10 {
		t.Errorf("Expected OT at row 1 to be 27.787, got %f", p.Values.At(1, 2))
	}

	if len(p.Timestamps) != 3 {
		t.Fatalf("Expected 3 timestamps, got %d", len(p.Timestamps))
	}
	if p.Timestamps[2].Hour() != 2 {
		t.Errorf("Expected third timestamp at 02:00, got %v", p.Timestamps[2])
	}
}

func TestLoadCSVTextLayout(t *testing.T) {
	// electricity.txt: no header, no date column
	data := "1.5,2,3\n4,5,6\n \n7,8,9.25\n"

	p, err := LoadCSVFromReader(strings.NewReader(data), TextOptions())
	if err != nil {
		t.Fatalf("Failed to load text: %v", err)
	}

	if p.Len() != 3 || p.Width() != 3 {
		t.Fatalf("Expected 3x3 panel, got %dx%d", p.Len(), p.Width())
	}
	if p.Columns != nil {
		t.Errorf("Expected no column names, got %v", p.Columns)
	}
	if p.Values.At(2, 2) != 9.25 {
		t.Errorf("Expected 9.25, got %f", p.Values.At(2, 2))
	}
}

func TestLoadCSVMissingValue(t *testing.T) {
	tests := []struct {
		name string
		cell string
	}{
		{"NA", "NA"},
		{"NaN", "NaN"},
		{"empty", ""},
		{"null", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csvData := "date,a,b\n2020-01-01,1,2\n2020-01-02," + tt.cell + ",3\n"
			_, err := LoadCSVFromReader(strings.NewReader(csvData), DefaultCSVOptions())
			if !errors.Is(err, ErrMissingValue) {
				t.Errorf("Expected ErrMissingValue, got %v", err)
			}
			if err != nil && !strings.Contains(err.Error(), "line 3") {
				t.Errorf("Expected error to name line 3, got %v", err)
			}
		})
	}
}

func TestLoadCSVRaggedRows(t *testing.T) {
	data := "1,2,3\n4,5\n"

	_, err := LoadCSVFromReader(strings.NewReader(data), TextOptions())
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	_, err := LoadCSVFromReader(strings.NewReader("date,a,b\n"), DefaultCSVOptions())
	if err == nil {
		t.Error("Expected error for CSV without data rows")
	}
}

func TestLoadCSVQuotedFields(t *testing.T) {
	csvData := `"date","a"
"2020-01-01","100"
"2020-01-02","101"`

	p, err := LoadCSVFromReader(strings.NewReader(csvData), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if p.Len() != 2 || p.Values.At(1, 0) != 101 {
		t.Errorf("Unexpected panel: len=%d values=%v", p.Len(), p.Column(0))
	}
}

func TestSaveCSVRoundTrip(t *testing.T) {
	p, err := FromRows([][]float64{{1, 2}, {3.5, -4}})
	if err != nil {
		t.Fatal(err)
	}
	p.Columns = []string{"x", "y"}

	path := filepath.Join(t.TempDir(), "panel.csv")
	if err := SaveCSV(p, path); err != nil {
		t.Fatalf("SaveCSV failed: %v", err)
	}

	opts := DefaultCSVOptions()
	opts.SkipColumns = 0
	opts.DateColumn = -1
	loaded, err := LoadCSV(path, opts)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	if loaded.Values.At(1, 0) != 3.5 || loaded.Values.At(1, 1) != -4 {
		t.Errorf("Round trip mismatch: %v", loaded.Values.RawMatrix().Data)
	}
	if loaded.Columns[1] != "y" {
		t.Errorf("Expected column y, got %s", loaded.Columns[1])
	}
}

func TestDefaultCSVOptions(t *testing.T) {
	opts := DefaultCSVOptions()

	if !opts.HasHeader {
		t.Error("Expected HasHeader to be true by default")
	}

	if opts.SkipColumns != 1 {
		t.Errorf("Expected the date column to be skipped, got SkipColumns=%d", opts.SkipColumns)
	}

	if opts.Delimiter != ',' {
		t.Errorf("Expected default delimiter ',', got '%c'", opts.Delimiter)
	}
}
