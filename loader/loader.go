// Package loader wraps window sets into batch iterators for a training loop.
//
//	train, err := loader.New(loader.NewDataset(set), loader.Options{
//	    BatchSize: 32,
//	    Shuffle:   true,
//	    DropLast:  true,
//	    Seed:      42,
//	})
//	for epoch := 0; epoch < epochs; epoch++ {
//	    for i, batch := range train.All() {
//	        x, y := batch.Flatten()
//	        ...
//	    }
//	}
//
// Each call to All is one epoch. Shuffled loaders draw a fresh permutation
// per epoch from a seeded source, so runs with the same seed see the same
// order.
package loader

import (
	"errors"
	"iter"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/tsprep/window"
)

// ErrBatchSize is returned for a batch size below one.
var ErrBatchSize = errors.New("loader: batch size must be positive")

// Dataset is an indexable collection of (X, Y) samples.
type Dataset struct {
	set *window.Set
}

// NewDataset wraps a window set.
func NewDataset(set *window.Set) *Dataset {
	if set == nil {
		set = &window.Set{}
	}
	return &Dataset{set: set}
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return d.set.Len()
}

// Get returns sample i.
func (d *Dataset) Get(i int) (x, y *mat.Dense) {
	return d.set.X[i], d.set.Y[i]
}

// Set returns the underlying window set.
func (d *Dataset) Set() *window.Set {
	return d.set
}

// Options configures a Loader.
type Options struct {
	BatchSize int
	Shuffle   bool
	DropLast  bool // drop a trailing batch smaller than BatchSize
	Seed      uint64
}

// Batch is a group of samples in iteration order.
type Batch struct {
	Indices []int
	X       []*mat.Dense
	Y       []*mat.Dense
}

// Size returns the number of samples in the batch.
func (b Batch) Size() int {
	return len(b.Indices)
}

// Flatten stacks the batch into b×(W·N) and b×(H·N) matrices, one sample per
// row, ready to be reshaped into [b, W, N, 1] and [b, H, N, 1].
func (b Batch) Flatten() (x, y *mat.Dense) {
	return (&window.Set{X: b.X, Y: b.Y}).Flatten()
}

// Loader yields batches of a Dataset.
type Loader struct {
	ds   *Dataset
	opts Options
	rng  *rand.Rand
}

// New creates a loader.
func New(ds *Dataset, opts Options) (*Loader, error) {
	if opts.BatchSize < 1 {
		return nil, ErrBatchSize
	}
	return &Loader{
		ds:   ds,
		opts: opts,
		rng:  rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Dataset returns the wrapped dataset.
func (l *Loader) Dataset() *Dataset {
	return l.ds
}

// Options returns the loader configuration.
func (l *Loader) Options() Options {
	return l.opts
}

// Len returns the number of batches in an epoch.
func (l *Loader) Len() int {
	n, b := l.ds.Len(), l.opts.BatchSize
	if l.opts.DropLast {
		return n / b
	}
	return (n + b - 1) / b
}

// All iterates over one epoch of batches, keyed by batch number.
func (l *Loader) All() iter.Seq2[int, Batch] {
	order := l.order()
	return func(yield func(int, Batch) bool) {
		b := l.opts.BatchSize
		for k := 0; k < l.Len(); k++ {
			end := min((k+1)*b, len(order))
			idx := order[k*b : end]

			batch := Batch{
				Indices: idx,
				X:       make([]*mat.Dense, len(idx)),
				Y:       make([]*mat.Dense, len(idx)),
			}
			for j, i := range idx {
				batch.X[j], batch.Y[j] = l.ds.Get(i)
			}
			if !yield(k, batch) {
				return
			}
		}
	}
}

func (l *Loader) order() []int {
	if l.opts.Shuffle {
		return l.rng.Perm(l.ds.Len())
	}
	order := make([]int, l.ds.Len())
	for i := range order {
		order[i] = i
	}
	return order
}
