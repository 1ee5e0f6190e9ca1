package graph

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/nlpodyssey/gopickle/types"
	"gonum.org/v1/gonum/mat"
)

// findNumpyClass resolves the globals numpy emits when pickling an ndarray.
// Anything else falls back to gopickle's generic class.
func findNumpyClass(module, name string) (interface{}, error) {
	switch module + "." + name {
	case "numpy.core.multiarray._reconstruct", "numpy._core.multiarray._reconstruct":
		return reconstruct{}, nil
	case "numpy.dtype":
		return dtypeClass{}, nil
	case "_codecs.encode":
		return codecsEncode{}, nil
	}
	return types.NewGenericClass(module, name), nil
}

// reconstruct creates an empty array that BUILD later fills in.
type reconstruct struct{}

func (reconstruct) Call(args ...interface{}) (interface{}, error) {
	return &ndarray{}, nil
}

// codecsEncode turns the latin-1 strings protocol 2 uses for bytes back into
// bytes.
type codecsEncode struct{}

func (codecsEncode) Call(args ...interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("_codecs.encode: no arguments")
	}
	s, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("_codecs.encode: got %T, want string", args[0])
	}
	if len(args) > 1 {
		if enc, _ := args[1].(string); enc != "" && enc != "latin1" && enc != "latin-1" {
			return nil, fmt.Errorf("_codecs.encode: unsupported encoding %q", enc)
		}
	}
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, fmt.Errorf("_codecs.encode: rune %U outside latin-1", r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}

type dtypeClass struct{}

func (dtypeClass) Call(args ...interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("numpy.dtype: no arguments")
	}
	code, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("numpy.dtype: got %T, want string", args[0])
	}
	return &dtype{code: code, order: "<"}, nil
}

// dtype is the part of numpy.dtype needed to read raw buffers.
type dtype struct {
	code  string // f4, f8, i8, ...
	order string // <, >, | or =
}

// PySetState reads the byte order from (version, order, subarray, names,
// fields, elsize, alignment, flags).
func (d *dtype) PySetState(state interface{}) error {
	t, ok := state.(*types.Tuple)
	if !ok || t.Len() < 2 {
		return fmt.Errorf("numpy.dtype: unexpected state %v", state)
	}
	if order, ok := t.Get(1).(string); ok {
		d.order = order
	}
	return nil
}

func (d *dtype) byteOrder() binary.ByteOrder {
	if d.order == ">" {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ndarray holds a decoded numpy array state.
type ndarray struct {
	shape   []int
	dtype   *dtype
	fortran bool
	raw     []byte
}

// PySetState reads (version, shape, dtype, is_fortran, raw_data).
func (a *ndarray) PySetState(state interface{}) error {
	t, ok := state.(*types.Tuple)
	if !ok || t.Len() != 5 {
		return fmt.Errorf("numpy.ndarray: unexpected state %v", state)
	}

	shape, ok := t.Get(1).(*types.Tuple)
	if !ok {
		return fmt.Errorf("numpy.ndarray: shape is %T", t.Get(1))
	}
	for i := 0; i < shape.Len(); i++ {
		n, ok := shape.Get(i).(int)
		if !ok {
			return fmt.Errorf("numpy.ndarray: dimension %d is %T", i, shape.Get(i))
		}
		a.shape = append(a.shape, n)
	}

	if a.dtype, ok = t.Get(2).(*dtype); !ok {
		return fmt.Errorf("numpy.ndarray: dtype is %T", t.Get(2))
	}
	a.fortran, _ = t.Get(3).(bool)

	switch raw := t.Get(4).(type) {
	case []byte:
		a.raw = raw
	case string:
		// python 2 str
		a.raw = []byte(raw)
	default:
		return fmt.Errorf("numpy.ndarray: object arrays are not supported (data is %T)", raw)
	}
	return nil
}

// matrix converts a 2-D float32 or float64 array to a dense matrix.
func (a *ndarray) matrix() (*mat.Dense, error) {
	if len(a.shape) != 2 || a.shape[0] == 0 || a.shape[1] == 0 {
		return nil, fmt.Errorf("numpy array of shape %v: %w", a.shape, ErrNotSquare)
	}
	rows, cols := a.shape[0], a.shape[1]

	var (
		size int
		read func([]byte) float64
	)
	order := a.dtype.byteOrder()
	switch strings.TrimLeft(a.dtype.code, "<>=|") {
	case "f4", "float32":
		size = 4
		read = func(b []byte) float64 { return float64(math.Float32frombits(order.Uint32(b))) }
	case "f8", "float64":
		size = 8
		read = func(b []byte) float64 { return math.Float64frombits(order.Uint64(b)) }
	default:
		return nil, fmt.Errorf("numpy dtype %q, want f4 or f8: %w", a.dtype.code, ErrUnsupportedFormat)
	}
	if len(a.raw) != rows*cols*size {
		return nil, fmt.Errorf("numpy array holds %d bytes, shape %v needs %d: %w", len(a.raw), a.shape, rows*cols*size, ErrUnsupportedFormat)
	}

	m := mat.NewDense(rows, cols, nil)
	for k := 0; k < rows*cols; k++ {
		v := read(a.raw[k*size:])
		if a.fortran {
			m.Set(k%rows, k/rows, v)
		} else {
			m.Set(k/cols, k%cols, v)
		}
	}
	return m, nil
}
