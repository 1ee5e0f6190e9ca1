package graph

import (
	"bufio"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/tsprep/timeseries"
)

// ErrUnsupportedFormat is returned for adjacency files the loader cannot read.
var ErrUnsupportedFormat = errors.New("graph: unsupported adjacency format")

// sequence is satisfied by gopickle's list and tuple types.
type sequence interface {
	Len() int
	Get(i int) interface{}
}

// Load reads an adjacency matrix and normalizes it. It returns the supports
// and the raw matrix.
func Load(path string, kind Kind) ([]*mat.Dense, *mat.Dense, error) {
	raw, err := LoadAdjacency(path)
	if err != nil {
		return nil, nil, err
	}
	supports, err := Normalize(raw, kind)
	if err != nil {
		return nil, nil, err
	}
	return supports, raw, nil
}

// LoadAdjacency reads an N×N adjacency matrix. The format follows the file
// extension:
//
//   - .pkl: a pickled (sensor_ids, sensor_id_to_index, matrix) tuple, as
//     shipped with METR-LA and PEMS-BAY, or the bare matrix as shipped with
//     PeMS04. The matrix is a float32/float64 NumPy array (protocol 2 or
//     later, C or Fortran order) or a nested list of numbers.
//   - .npy: a 2-D float64 NumPy array.
//   - .csv: a headerless dense numeric matrix.
func LoadAdjacency(path string) (*mat.Dense, error) {
	var (
		adj *mat.Dense
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pkl", ".pickle":
		adj, err = loadPickle(path)
	case ".npy":
		adj, err = loadNpy(path)
	case ".csv", ".txt":
		adj, err = loadCSV(path)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("load adjacency %s: %w", path, err)
	}
	if err := checkSquare(adj); err != nil {
		return nil, fmt.Errorf("load adjacency %s: %w", path, err)
	}
	return adj, nil
}

func loadPickle(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	u := pickle.NewUnpickler(bufio.NewReader(f))
	u.FindClass = findNumpyClass
	obj, err := u.Load()
	if err != nil {
		return nil, err
	}
	if t, ok := obj.(*types.Tuple); ok {
		if t.Len() != 3 {
			return nil, fmt.Errorf("expected a 3-tuple, got %d items: %w", t.Len(), ErrUnsupportedFormat)
		}
		obj = t.Get(2)
	}
	if a, ok := obj.(*ndarray); ok {
		return a.matrix()
	}
	return matrixFromPickle(obj)
}

func matrixFromPickle(obj interface{}) (*mat.Dense, error) {
	rows, ok := obj.(sequence)
	if !ok || rows.Len() == 0 {
		return nil, fmt.Errorf("matrix is %T, not a NumPy array or nested list: %w", obj, ErrUnsupportedFormat)
	}

	n := rows.Len()
	var data []float64
	width := -1
	for i := 0; i < n; i++ {
		row, ok := rows.Get(i).(sequence)
		if !ok {
			return nil, fmt.Errorf("row %d is %T: %w", i, rows.Get(i), ErrUnsupportedFormat)
		}
		if width == -1 {
			width = row.Len()
			data = make([]float64, 0, n*width)
		} else if row.Len() != width {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", i, row.Len(), width, ErrNotSquare)
		}
		for j := 0; j < row.Len(); j++ {
			v, ok := toFloat(row.Get(j))
			if !ok {
				return nil, fmt.Errorf("value (%d,%d) is %T: %w", i, j, row.Get(j), ErrUnsupportedFormat)
			}
			data = append(data, v)
		}
	}
	if width <= 0 {
		return nil, ErrNotSquare
	}
	return mat.NewDense(n, width, data), nil
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case *big.Int:
		f, _ := new(big.Float).SetInt(x).Float64()
		return f, true
	}
	return 0, false
}

func loadNpy(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m mat.Dense
	if err := npyio.Read(f, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func loadCSV(path string) (*mat.Dense, error) {
	p, err := timeseries.LoadCSV(path, timeseries.TextOptions())
	if err != nil {
		return nil, err
	}
	return p.Values, nil
}

// Save writes a matrix as a .npy file, the format training code loads
// supports from.
func Save(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := npyio.Write(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
