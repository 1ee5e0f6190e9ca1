// Package stats provides the statistics used while preparing a dataset.
//
// # Standardization
//
// A Scaler holds one mean and one standard deviation for the whole dataset,
// fitted on the training inputs only:
//
//	scaler, err := stats.FitSet(part.Train)
//	train := scaler.TransformSet(part.Train)
//	pred = scaler.InverseTransform(pred)
//
// # Masks
//
// ZeroOneMask draws a Bernoulli keep-mask for masked-reconstruction
// pretraining:
//
//	rng := rand.New(rand.NewPCG(seed, seed))
//	mask, err := stats.ZeroOneMask(96, 7, 0.25, rng) // 1 = keep, 0 = masked
//
// # Summaries
//
// Describe reports per-column moments, zero ratio, autocorrelation at the
// window length and a KPSS level-stationarity test:
//
//	for _, s := range stats.Describe(panel, 96) {
//	    fmt.Println(s.Name, s.Mean, s.Std, s.ACF, s.KPSS.IsStationary)
//	}
package stats
