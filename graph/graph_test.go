package graph

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// fixture matches every readable file under testdata.
func fixture() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, 1, 0.5,
		1, 0, 0,
		0.25, 0, 0,
	})
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(" " + string(k) + " ")
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("laplace")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNormalizeIdentityAndOriginal(t *testing.T) {
	adj := fixture()

	id, err := Normalize(adj, Identity)
	require.NoError(t, err)
	require.Len(t, id, 1)
	assert.True(t, mat.Equal(id[0], identity(3)))

	orig, err := Normalize(adj, Original)
	require.NoError(t, err)
	assert.True(t, mat.Equal(orig[0], adj))
	orig[0].Set(0, 0, 42)
	assert.Equal(t, 0.0, adj.At(0, 0), "original must be a copy")
}

func TestTransition(t *testing.T) {
	adj := fixture()
	p := TransitionMatrix(adj)

	// row sums are 1.5, 1 and 0.25
	assert.InDelta(t, 1/1.5, p.At(0, 1), 1e-12)
	assert.InDelta(t, 0.5/1.5, p.At(0, 2), 1e-12)
	assert.InDelta(t, 1.0, p.At(1, 0), 1e-12)
	assert.InDelta(t, 1.0, p.At(2, 0), 1e-12)

	supports, err := Normalize(adj, Transition)
	require.NoError(t, err)
	require.Len(t, supports, 1)
	assert.True(t, mat.EqualApprox(supports[0], p.T(), 1e-12))
}

func TestTransitionIsolatedNode(t *testing.T) {
	adj := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	p := TransitionMatrix(adj)
	assert.Equal(t, []float64{0, 0}, p.RawRowView(1))
}

func TestDoubleTransition(t *testing.T) {
	adj := fixture()
	supports, err := Normalize(adj, DoubleTransition)
	require.NoError(t, err)
	require.Len(t, supports, 2)

	forward := TransitionMatrix(adj)
	backward := TransitionMatrix(mat.DenseCopyOf(adj.T()))
	assert.True(t, mat.EqualApprox(supports[0], forward.T(), 1e-12))
	assert.True(t, mat.EqualApprox(supports[1], backward.T(), 1e-12))
}

func TestSymmetricNormalizedLaplacian(t *testing.T) {
	// path graph 0-1-2
	adj := mat.NewDense(3, 3, []float64{
		0, 1, 0,
		1, 0, 1,
		0, 1, 0,
	})
	l := SymmetricNormalizedLaplacian(adj)

	s := 1 / math.Sqrt(2)
	want := mat.NewDense(3, 3, []float64{
		1, -s, 0,
		-s, 1, -s,
		0, -s, 1,
	})
	assert.True(t, mat.EqualApprox(want, l, 1e-12))
}

func TestScaledLaplacian(t *testing.T) {
	adj := mat.NewDense(2, 2, []float64{0, 1, 1, 0})

	// L = [[1,-1],[-1,1]], eigenvalues 0 and 2
	fixed, err := ScaledLaplacianOf(adj, 2, true)
	require.NoError(t, err)
	want := mat.NewDense(2, 2, []float64{0, -1, -1, 0})
	assert.True(t, mat.EqualApprox(want, fixed, 1e-12))

	computed, err := ScaledLaplacianOf(adj, 0, true)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, computed, 1e-9))

	supports, err := Normalize(adj, ScaledLaplacian)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, supports[0], 1e-12))
}

func TestScaledLaplacianSymmetrizes(t *testing.T) {
	directed := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	undirected := mat.NewDense(2, 2, []float64{0, 1, 1, 0})

	a, err := ScaledLaplacianOf(directed, 2, true)
	require.NoError(t, err)
	b, err := ScaledLaplacianOf(undirected, 2, true)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(a, b, 1e-12))
}

func TestSymmetricMessagePassing(t *testing.T) {
	adj := mat.NewDense(2, 2, []float64{0, 1, 1, 0})
	// A+I is all ones with degree 2, so every entry becomes 1/2
	got := SymmetricMessagePassing(adj)
	want := mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, 0.5})
	assert.True(t, mat.EqualApprox(want, got, 1e-12))
}

func TestNormalizeErrors(t *testing.T) {
	_, err := Normalize(mat.NewDense(2, 3, nil), Identity)
	assert.ErrorIs(t, err, ErrNotSquare)

	_, err = Normalize(fixture(), Kind("bogus"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestLoadAdjacency(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"pickled METR tuple", "metr.pkl"},
		{"pickled PeMS04 matrix", "pems04.pkl"},
		{"numpy float32 in METR tuple, protocol 2", "metr_numpy.pkl"},
		{"numpy float64 fortran order, protocol 4", "pems04_numpy.pkl"},
		{"numpy big-endian float64", "bigendian_numpy.pkl"},
		{"dense csv", "adj.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj, err := LoadAdjacency(filepath.Join("testdata", tt.file))
			require.NoError(t, err)
			assert.True(t, mat.Equal(fixture(), adj))
		})
	}
}

func TestLoadAdjacencyNpyRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adj.npy")
	require.NoError(t, Save(path, fixture()))

	supports, raw, err := Load(path, Transition)
	require.NoError(t, err)
	assert.True(t, mat.Equal(fixture(), raw))
	require.Len(t, supports, 1)
}

func TestLoadAdjacencyErrors(t *testing.T) {
	_, err := LoadAdjacency(filepath.Join("testdata", "ragged.pkl"))
	assert.ErrorIs(t, err, ErrNotSquare)

	_, err = LoadAdjacency("adj.parquet")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadAdjacency(filepath.Join("testdata", "int_numpy.pkl"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadAdjacency(filepath.Join("testdata", "vector_numpy.pkl"))
	assert.ErrorIs(t, err, ErrNotSquare)
}

func TestCodecsEncode(t *testing.T) {
	out, err := codecsEncode{}.Call("\x00\u00ff\u0080", "latin1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff, 0x80}, out)

	_, err = codecsEncode{}.Call("\u0100", "latin1")
	assert.Error(t, err)
}
