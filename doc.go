// Package tsprep prepares multivariate time series for forecasting models.
//
// tsprep turns raw sensor and load datasets (ETTh1, electricity, weather,
// traffic graphs such as METR-LA and PeMS04) into the sample sets deep
// forecasting models train on. It follows the preprocessing used by the
// common long-horizon benchmarks.
//
// # Features
//
//   - Sliding history/forecast windows and one-step online pairs
//   - Ratio splits into train, validation and test sets
//   - Z-score standardization fitted on training inputs only
//   - Batching loaders with seeded shuffling
//   - .npz archives compatible with numpy
//   - Graph supports from adjacency matrices (Laplacians, transition matrices)
//   - Run manifests and S3 publishing of prepared files
//
// # Quick Start
//
// Prepare ETTh1 for a 96-step history and 24-step forecast:
//
//	cfg := config.DefaultConfig()
//	cfg.DataDir = "./data"
//	p, err := dataset.New(cfg, dataset.WithLogger(logger))
//	out, err := p.Offline(ctx)
//	for i, batch := range out.Train.All() {
//	    x, y := batch.Flatten() // B×(96·N), B×(24·N)
//	}
//
// Or from the command line:
//
//	tsprep prepare -d ./data
//	tsprep online -d ./data
//	tsprep adj data/METR-LA/adj_mx.pkl --type doubletransition
//
// # Packages
//
//   - timeseries: Panel type and CSV readers
//   - window: history/forecast sample construction
//   - split: ratio splits of sample sets and panels
//   - stats: scaler, masks, summaries and stationarity
//   - loader: batching and shuffling
//   - archive: .npz persistence
//   - graph: adjacency loading and normalization
//   - dataset: the end-to-end preparation pipeline
//   - artifact: publishing prepared files
//   - config: YAML configuration
package tsprep
