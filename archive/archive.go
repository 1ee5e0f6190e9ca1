// Package archive stores prepared partitions as NumPy .npz files so the
// training side can load them without re-running preparation.
//
// Every window set is stored as two 2-D arrays of shape B×(W·N) and
// B×(H·N), one sample per row, plus an int64 "<key>_shape" array holding the
// 4-D shape [B, W, N, 1] to reshape them with.
package archive

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/tsprep/split"
	"github.com/sartorproj/tsprep/window"
)

// ErrBadShape is returned when a stored shape does not match its array.
var ErrBadShape = errors.New("archive: stored shape does not match array")

// Layout names the six arrays of an archive and the file they live in.
type Layout struct {
	Suffix string // file name after "<pred_len>_"
	TrainX string
	TrainY string
	ValX   string
	ValY   string
	TestX  string
	TestY  string
}

// Offline is the layout of windowed datasets.
var Offline = Layout{
	Suffix: "data.npz",
	TrainX: "trn_x", TrainY: "trn_y",
	ValX: "val_x", ValY: "val_y",
	TestX: "tst_x", TestY: "tst_y",
}

// Online is the layout of one-step online datasets.
var Online = Layout{
	Suffix: "online_data.npz",
	TrainX: "x_trn_online", TrainY: "y_trn_online",
	ValX: "x_val_online", ValY: "y_val_online",
	TestX: "x_tst_online", TestY: "y_tst_online",
}

// Path returns <dir>/<dataset>/<predLen>_<suffix>.
func (l Layout) Path(dir, dataset string, predLen int) string {
	return filepath.Join(dir, dataset, strconv.Itoa(predLen)+"_"+l.Suffix)
}

func (l Layout) pairs() [3][2]string {
	return [3][2]string{
		{l.TrainX, l.TrainY},
		{l.ValX, l.ValY},
		{l.TestX, l.TestY},
	}
}

// Save writes the partition to path.
func Save(path string, layout Layout, p split.Partition) error {
	w, err := npz.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	sets := p.Sets()
	for i, keys := range layout.pairs() {
		if err := writeSet(w, keys[0], keys[1], sets[i]); err != nil {
			w.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return w.Close()
}

func writeSet(w *npz.Writer, xKey, yKey string, s *window.Set) error {
	if s.Len() == 0 {
		return fmt.Errorf("%s: %w", xKey, split.ErrEmptyPartition)
	}
	x, y := s.Flatten()
	xs, ys := s.Shape()

	if err := w.Write(xKey, x); err != nil {
		return err
	}
	if err := w.Write(shapeKey(xKey), shapeOf(xs)); err != nil {
		return err
	}
	if err := w.Write(yKey, y); err != nil {
		return err
	}
	return w.Write(shapeKey(yKey), shapeOf(ys))
}

// Load reads a partition written by Save.
func Load(path string, layout Layout) (split.Partition, error) {
	r, err := npz.Open(path)
	if err != nil {
		return split.Partition{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	var sets [3]*window.Set
	for i, keys := range layout.pairs() {
		s, err := readSet(r, keys[0], keys[1])
		if err != nil {
			return split.Partition{}, fmt.Errorf("read %s: %w", path, err)
		}
		sets[i] = s
	}
	return split.Partition{Train: sets[0], Val: sets[1], Test: sets[2]}, nil
}

func readSet(r *npz.Reader, xKey, yKey string) (*window.Set, error) {
	x, xs, err := readArray(r, xKey)
	if err != nil {
		return nil, err
	}
	y, ys, err := readArray(r, yKey)
	if err != nil {
		return nil, err
	}
	return window.Unflatten(x, y, int(xs[1]), int(ys[1]))
}

func readArray(r *npz.Reader, key string) (*mat.Dense, []int64, error) {
	var m mat.Dense
	if err := r.Read(key, &m); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", key, err)
	}
	var shape []int64
	if err := r.Read(shapeKey(key), &shape); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", shapeKey(key), err)
	}

	rows, cols := m.Dims()
	if len(shape) != 4 || shape[1] <= 0 || int(shape[0]) != rows || int(shape[1]*shape[2]*shape[3]) != cols {
		return nil, nil, fmt.Errorf("%s: shape %v for %dx%d array: %w", key, shape, rows, cols, ErrBadShape)
	}
	return &m, shape, nil
}

func shapeKey(key string) string {
	return strings.TrimSuffix(key, ".npy") + "_shape"
}

func shapeOf(s [4]int) []int64 {
	out := make([]int64, len(s))
	for i, v := range s {
		out[i] = int64(v)
	}
	return out
}
