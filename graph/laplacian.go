package graph

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Kind selects how an adjacency matrix is turned into graph supports.
type Kind string

// Supported normalizations.
const (
	ScaledLaplacian     Kind = "scalap"
	NormalizedLaplacian Kind = "normlap"
	SymmetricAdjacency  Kind = "symnadj"
	Transition          Kind = "transition"
	DoubleTransition    Kind = "doubletransition"
	Identity            Kind = "identity"
	Original            Kind = "original"
)

// Largest eigenvalue assumed for the scaled Laplacian; the normalized
// Laplacian's spectrum is bounded by 2.
const defaultScaledLambda = 2.0

var (
	// ErrUnknownKind is returned for an unrecognized normalization name.
	ErrUnknownKind = errors.New("graph: adjacency type not defined")
	// ErrNotSquare is returned when an adjacency matrix is not N×N.
	ErrNotSquare = errors.New("graph: adjacency matrix is not square")
)

// Kinds lists every supported normalization.
func Kinds() []Kind {
	return []Kind{ScaledLaplacian, NormalizedLaplacian, SymmetricAdjacency, Transition, DoubleTransition, Identity, Original}
}

// ParseKind parses a normalization name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// Normalize turns adj into the supports a graph forecaster consumes. Every
// kind yields one matrix except DoubleTransition, which yields the forward
// and backward transition matrices. adj is not modified.
func Normalize(adj *mat.Dense, kind Kind) ([]*mat.Dense, error) {
	if err := checkSquare(adj); err != nil {
		return nil, err
	}
	n, _ := adj.Dims()

	switch kind {
	case ScaledLaplacian:
		l, err := ScaledLaplacianOf(adj, defaultScaledLambda, true)
		if err != nil {
			return nil, err
		}
		return []*mat.Dense{l}, nil
	case NormalizedLaplacian:
		return []*mat.Dense{SymmetricNormalizedLaplacian(adj)}, nil
	case SymmetricAdjacency:
		return []*mat.Dense{SymmetricMessagePassing(adj)}, nil
	case Transition:
		return []*mat.Dense{transposed(TransitionMatrix(adj))}, nil
	case DoubleTransition:
		return []*mat.Dense{
			transposed(TransitionMatrix(adj)),
			transposed(TransitionMatrix(transposed(adj))),
		}, nil
	case Identity:
		return []*mat.Dense{identity(n)}, nil
	case Original:
		return []*mat.Dense{mat.DenseCopyOf(adj)}, nil
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
}

// SymmetricNormalizedLaplacian returns I - (A·D)ᵀ·D with D = diag(deg^-1/2)
// and deg the row sums of A. Isolated nodes get a zero scaling factor.
func SymmetricNormalizedLaplacian(adj *mat.Dense) *mat.Dense {
	n, _ := adj.Dims()
	d := invSqrtDegree(adj)

	var ad, l mat.Dense
	ad.Mul(adj, d)
	l.Mul(ad.T(), d)

	out := identity(n)
	out.Sub(out, &l)
	return out
}

// ScaledLaplacianOf returns (2/λmax)·L - I where L is the symmetric
// normalized Laplacian. With undirected set, A is first replaced by
// max(A, Aᵀ). A λmax <= 0 is computed as the largest eigenvalue of L.
func ScaledLaplacianOf(adj *mat.Dense, lambdaMax float64, undirected bool) (*mat.Dense, error) {
	a := adj
	if undirected {
		a = symmetrizeMax(adj)
	}
	l := SymmetricNormalizedLaplacian(a)
	n, _ := l.Dims()

	if lambdaMax <= 0 {
		var eig mat.EigenSym
		if ok := eig.Factorize(mat.NewSymDense(n, symmetricData(l)), false); !ok {
			return nil, errors.New("graph: eigen decomposition failed")
		}
		vals := eig.Values(nil)
		lambdaMax = vals[len(vals)-1]
		if lambdaMax <= 0 {
			return nil, errors.New("graph: laplacian has no positive eigenvalue")
		}
	}

	out := mat.NewDense(n, n, nil)
	out.Scale(2/lambdaMax, l)
	out.Sub(out, identity(n))
	return out, nil
}

// SymmetricMessagePassing returns (Â·D)ᵀ·D with Â = A + I and
// D = diag(deg(Â)^-1/2).
func SymmetricMessagePassing(adj *mat.Dense) *mat.Dense {
	n, _ := adj.Dims()
	a := mat.NewDense(n, n, nil)
	a.Add(adj, identity(n))
	d := invSqrtDegree(a)

	var ad mat.Dense
	ad.Mul(a, d)
	out := mat.NewDense(n, n, nil)
	out.Mul(ad.T(), d)
	return out
}

// TransitionMatrix returns the random-walk matrix D⁻¹·A with D the row sums
// of A. Rows of isolated nodes stay zero.
func TransitionMatrix(adj *mat.Dense) *mat.Dense {
	n, _ := adj.Dims()
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		row := adj.RawRowView(i)
		deg := 0.0
		for _, v := range row {
			deg += v
		}
		inv := 1 / deg
		if math.IsInf(inv, 0) {
			inv = 0
		}
		dst := out.RawRowView(i)
		for j, v := range row {
			dst[j] = v * inv
		}
	}
	return out
}

func invSqrtDegree(adj *mat.Dense) *mat.DiagDense {
	n, _ := adj.Dims()
	diag := make([]float64, n)
	for i := 0; i < n; i++ {
		deg := 0.0
		for _, v := range adj.RawRowView(i) {
			deg += v
		}
		inv := math.Pow(deg, -0.5)
		if math.IsInf(inv, 0) || math.IsNaN(inv) {
			inv = 0
		}
		diag[i] = inv
	}
	return mat.NewDiagDense(n, diag)
}

func symmetrizeMax(adj *mat.Dense) *mat.Dense {
	n, _ := adj.Dims()
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, math.Max(adj.At(i, j), adj.At(j, i)))
		}
	}
	return out
}

// symmetricData averages m with its transpose to absorb rounding noise
// before handing it to a symmetric solver.
func symmetricData(m *mat.Dense) []float64 {
	n, _ := m.Dims()
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data[i*n+j] = (m.At(i, j) + m.At(j, i)) / 2
		}
	}
	return data
}

func transposed(m *mat.Dense) *mat.Dense {
	return mat.DenseCopyOf(m.T())
}

func identity(n int) *mat.Dense {
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}
	return out
}

func checkSquare(adj *mat.Dense) error {
	if adj == nil {
		return ErrNotSquare
	}
	r, c := adj.Dims()
	if r != c {
		return fmt.Errorf("%dx%d: %w", r, c, ErrNotSquare)
	}
	return nil
}
