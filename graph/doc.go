// Package graph loads sensor adjacency matrices and turns them into the
// supports consumed by graph-based forecasters.
//
// # Loading
//
//	supports, raw, err := graph.Load("data/METR-LA/adj_mx.pkl", graph.DoubleTransition)
//
// Pickled METR-LA/PEMS-BAY tuples and PeMS04 matrices (NumPy arrays or nested
// lists), .npy arrays and dense CSV matrices are accepted.
//
// # Normalizations
//
//   - scalap: scaled Laplacian (2/λmax)·L - I over the symmetrized graph
//   - normlap: symmetric normalized Laplacian I - D^-1/2·A·D^-1/2
//   - symnadj: symmetric message passing D^-1/2·(A+I)·D^-1/2
//   - transition: transposed random-walk matrix (D^-1·A)ᵀ
//   - doubletransition: forward and backward transition matrices
//   - identity: I
//   - original: A unchanged
package graph
