package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/tsprep/archive"
	"github.com/sartorproj/tsprep/artifact"
	"github.com/sartorproj/tsprep/config"
	"github.com/sartorproj/tsprep/graph"
	"github.com/sartorproj/tsprep/loader"
	"github.com/sartorproj/tsprep/split"
	"github.com/sartorproj/tsprep/stats"
	"github.com/sartorproj/tsprep/timeseries"
	"github.com/sartorproj/tsprep/window"
)

// Loaders is the result of a preparation run.
type Loaders struct {
	Train *loader.Loader
	Val   *loader.Loader
	Test  *loader.Loader // nil when read back from an offline archive
	// Standardization applied to every split; invert predictions with it.
	Scaler *stats.Scaler
	// Graph supports when an adjacency matrix is configured.
	Supports []*mat.Dense
	Manifest *Manifest
}

// Pipeline prepares one dataset according to a configuration.
type Pipeline struct {
	cfg       *config.Config
	logger    *zap.Logger
	publisher artifact.Publisher
	available func() (uint64, error)
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPublisher sets where archives and manifests are published.
func WithPublisher(pub artifact.Publisher) Option {
	return func(p *Pipeline) {
		if pub != nil {
			p.publisher = pub
		}
	}
}

// WithMemoryProbe replaces the available-memory probe.
func WithMemoryProbe(fn func() (uint64, error)) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.available = fn
		}
	}
}

// New validates cfg and creates a pipeline.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:       cfg,
		logger:    zap.NewNop(),
		publisher: artifact.Nop{},
		available: availableMemory,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run prepares the dataset in the configured mode.
func (p *Pipeline) Run(ctx context.Context) (*Loaders, error) {
	if p.cfg.Mode == config.ModeOffline {
		return p.Offline(ctx)
	}
	return p.Online(ctx)
}

// Offline windows the whole series, splits the windows by ratio,
// standardizes them with train-X moments, archives the raw splits and wraps
// the standardized ones into loaders: train (shuffled, drop last), validation (ordered, drop last) and
// test (ordered, batch size 1).
func (p *Pipeline) Offline(ctx context.Context) (*Loaders, error) {
	cfg := p.cfg
	log := p.logger.With(zap.String("dataset", cfg.Dataset), zap.String("mode", config.ModeOffline))

	panel, err := p.read(log)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := window.Slide(panel, cfg.HistoryLen, cfg.PredLen)
	if err != nil {
		return nil, err
	}
	part, err := split.ByRatio(set, cfg.ValRatio, cfg.TestRatio)
	if err != nil {
		return nil, err
	}
	log.Info("Windows split",
		zap.Int("windows", set.Len()),
		zap.Int("train", part.Train.Len()),
		zap.Int("val", part.Val.Len()),
		zap.Int("test", part.Test.Len()))

	// nothing is written until every step that can fail on the data has run
	scaler, scaled, err := p.fit(ctx, log, part)
	if err != nil {
		return nil, err
	}
	kind, supports, err := p.loadGraph(log)
	if err != nil {
		return nil, err
	}
	archivePath := archive.Offline.Path(cfg.Output(), cfg.Dataset, cfg.PredLen)
	if err := p.save(ctx, log, archivePath, archive.Offline, part); err != nil {
		return nil, err
	}

	out := &Loaders{Scaler: scaler, Supports: supports}
	if out.Train, err = loader.New(loader.NewDataset(scaled.Train), loader.Options{
		BatchSize: cfg.BatchSize, Shuffle: true, DropLast: true, Seed: cfg.Seed,
	}); err != nil {
		return nil, err
	}
	if out.Val, err = loader.New(loader.NewDataset(scaled.Val), loader.Options{
		BatchSize: cfg.BatchSize, DropLast: true,
	}); err != nil {
		return nil, err
	}
	if out.Test, err = loader.New(loader.NewDataset(scaled.Test), loader.Options{
		BatchSize: 1,
	}); err != nil {
		return nil, err
	}

	if err := p.finish(ctx, log, out, config.ModeOffline, archivePath, part, panel.ZeroRatio(), kind); err != nil {
		return nil, err
	}
	return out, nil
}

// Online splits the raw series by ratio first and pairs each row with the
// row history steps later inside every split. All loaders are ordered with
// batch size 1, matching step-by-step online updates.
func (p *Pipeline) Online(ctx context.Context) (*Loaders, error) {
	cfg := p.cfg
	log := p.logger.With(zap.String("dataset", cfg.Dataset), zap.String("mode", cfg.Mode))

	panel, err := p.read(log)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts, err := split.PanelByRatio(panel, cfg.ValRatio, cfg.TestRatio)
	if err != nil {
		return nil, err
	}

	var sets [3]*window.Set
	for i, part := range []*timeseries.Panel{parts.Train, parts.Val, parts.Test} {
		if sets[i], err = window.Shift(part, cfg.HistoryLen, cfg.PredLen); err != nil {
			return nil, fmt.Errorf("%s split: %w", splitNames[i], err)
		}
	}
	part := split.Partition{Train: sets[0], Val: sets[1], Test: sets[2]}
	log.Info("Series split",
		zap.Int("steps", panel.Len()),
		zap.Int("train", part.Train.Len()),
		zap.Int("val", part.Val.Len()),
		zap.Int("test", part.Test.Len()))

	scaler, scaled, err := p.fit(ctx, log, part)
	if err != nil {
		return nil, err
	}
	kind, supports, err := p.loadGraph(log)
	if err != nil {
		return nil, err
	}
	archivePath := archive.Online.Path(cfg.Output(), cfg.Dataset, cfg.PredLen)
	if err := p.save(ctx, log, archivePath, archive.Online, part); err != nil {
		return nil, err
	}

	out, err := onlineLoaders(scaler, scaled)
	if err != nil {
		return nil, err
	}
	out.Supports = supports
	if err := p.finish(ctx, log, out, cfg.Mode, archivePath, part, panel.ZeroRatio(), kind); err != nil {
		return nil, err
	}
	return out, nil
}

// FromArchive rebuilds loaders from a previously written archive. The online
// modes behave like Online; offline returns shuffled train and validation
// loaders and no test loader. Graph supports are rebuilt when an adjacency
// matrix is configured.
func (p *Pipeline) FromArchive(ctx context.Context, mode string) (*Loaders, error) {
	cfg := p.cfg
	log := p.logger.With(zap.String("dataset", cfg.Dataset), zap.String("mode", mode))

	var (
		out *Loaders
		err error
	)
	switch mode {
	case config.ModeOnline, config.ModeOnlineTrain:
		out, err = p.onlineFromArchive(ctx, log)
	case config.ModeOffline:
		out, err = p.offlineFromArchive(ctx, log)
	default:
		return nil, fmt.Errorf("dataset: unknown archive mode %q", mode)
	}
	if err != nil {
		return nil, err
	}

	if _, out.Supports, err = p.loadGraph(log); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Pipeline) onlineFromArchive(ctx context.Context, log *zap.Logger) (*Loaders, error) {
	cfg := p.cfg
	path := archive.Online.Path(cfg.Output(), cfg.Dataset, cfg.PredLen)
	part, err := archive.Load(path, archive.Online)
	if err != nil {
		return nil, err
	}
	log.Info("Archive loaded", zap.String("path", path))

	scaler, scaled, err := p.fit(ctx, log, part)
	if err != nil {
		return nil, err
	}
	return onlineLoaders(scaler, scaled)
}

func (p *Pipeline) offlineFromArchive(ctx context.Context, log *zap.Logger) (*Loaders, error) {
	cfg := p.cfg
	path := archive.Offline.Path(cfg.Output(), cfg.Dataset, cfg.PredLen)
	part, err := archive.Load(path, archive.Offline)
	if err != nil {
		return nil, err
	}
	log.Info("Archive loaded", zap.String("path", path))

	// no test loader on this path
	part.Test = &window.Set{}
	scaler, scaled, err := p.fit(ctx, log, part)
	if err != nil {
		return nil, err
	}

	out := &Loaders{Scaler: scaler}
	if out.Train, err = loader.New(loader.NewDataset(scaled.Train), loader.Options{
		BatchSize: cfg.BatchSize, Shuffle: true, DropLast: true, Seed: cfg.Seed,
	}); err != nil {
		return nil, err
	}
	if out.Val, err = loader.New(loader.NewDataset(scaled.Val), loader.Options{
		BatchSize: cfg.BatchSize, Shuffle: true, DropLast: true, Seed: cfg.Seed + 1,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

var splitNames = [3]string{"train", "val", "test"}

func (p *Pipeline) read(log *zap.Logger) (*timeseries.Panel, error) {
	panel, err := Read(p.cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Series loaded",
		zap.Int("steps", panel.Len()),
		zap.Int("variables", panel.Width()),
		zap.Float64("zero_ratio", panel.ZeroRatio()))
	return panel, nil
}

// onlineLoaders wraps standardized online splits into ordered loaders with
// batch size 1.
func onlineLoaders(scaler *stats.Scaler, scaled split.Partition) (*Loaders, error) {
	out := &Loaders{Scaler: scaler}
	ordered := loader.Options{BatchSize: 1}
	var err error
	if out.Train, err = loader.New(loader.NewDataset(scaled.Train), ordered); err != nil {
		return nil, err
	}
	if out.Val, err = loader.New(loader.NewDataset(scaled.Val), ordered); err != nil {
		return nil, err
	}
	if out.Test, err = loader.New(loader.NewDataset(scaled.Test), ordered); err != nil {
		return nil, err
	}
	return out, nil
}

// fit fits a scaler on the training inputs and returns standardized copies
// of every split.
func (p *Pipeline) fit(ctx context.Context, log *zap.Logger, part split.Partition) (*stats.Scaler, split.Partition, error) {
	scaler, err := stats.FitSet(part.Train)
	if err != nil {
		return nil, split.Partition{}, fmt.Errorf("fit scaler: %w", err)
	}
	scaled, err := p.standardize(ctx, log, scaler, part)
	if err != nil {
		return nil, split.Partition{}, err
	}
	return scaler, scaled, nil
}

func (p *Pipeline) save(ctx context.Context, log *zap.Logger, path string, layout archive.Layout, part split.Partition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := archive.Save(path, layout, part); err != nil {
		return err
	}
	log.Info("Archive written", zap.String("path", path))
	return nil
}

// standardize materializes scaled copies of every split after checking they
// fit in memory.
func (p *Pipeline) standardize(ctx context.Context, log *zap.Logger, scaler *stats.Scaler, part split.Partition) (split.Partition, error) {
	if err := ctx.Err(); err != nil {
		return split.Partition{}, err
	}
	if err := p.checkMemory(log, EstimateBytes(part)); err != nil {
		return split.Partition{}, err
	}
	log.Debug("Standardizing", zap.Float64("mean", scaler.Mean), zap.Float64("std", scaler.Std))
	return split.Partition{
		Train: scaler.TransformSet(part.Train),
		Val:   scaler.TransformSet(part.Val),
		Test:  scaler.TransformSet(part.Test),
	}, nil
}

// finish writes graph supports and the manifest, then publishes the run's
// files.
func (p *Pipeline) finish(ctx context.Context, log *zap.Logger, out *Loaders, mode, archivePath string, part split.Partition, zeroRatio float64, kind graph.Kind) error {
	cfg := p.cfg
	dir := filepath.Dir(archivePath)
	files := []string{archivePath}

	m := newManifest(uuid.NewString(), p.now(), cfg, mode, archivePath, part, *out.Scaler, zeroRatio)

	if out.Supports != nil {
		paths, err := saveSupports(dir, kind, out.Supports)
		if err != nil {
			return err
		}
		m.Adjacency = &AdjacencyInfo{Source: cfg.Adjacency.Path, Type: cfg.Adjacency.Type, Supports: paths}
		files = append(files, paths...)
	}

	manifestPath := ManifestPath(dir, cfg.PredLen, mode)
	if err := m.Write(manifestPath); err != nil {
		return err
	}
	files = append(files, manifestPath)
	out.Manifest = m

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := filepath.Join(cfg.Dataset, filepath.Base(f))
		if err := p.publisher.Publish(ctx, key, f); err != nil {
			return err
		}
		log.Debug("Published", zap.String("file", f), zap.String("key", key))
	}

	log.Info("Preparation finished",
		zap.String("run_id", m.RunID),
		zap.Int("train_batches", out.Train.Len()),
		zap.Int("val_batches", out.Val.Len()),
		zap.Int("test_batches", out.Test.Len()))
	return nil
}

func saveSupports(dir string, kind graph.Kind, supports []*mat.Dense) ([]string, error) {
	paths := make([]string, len(supports))
	for i, m := range supports {
		paths[i] = filepath.Join(dir, fmt.Sprintf("adj_%s_%d.npy", kind, i))
		if err := graph.Save(paths[i], m); err != nil {
			return nil, fmt.Errorf("save support: %w", err)
		}
	}
	return paths, nil
}

// loadGraph reads and normalizes the configured adjacency matrix. It returns
// no supports when none is configured.
func (p *Pipeline) loadGraph(log *zap.Logger) (graph.Kind, []*mat.Dense, error) {
	cfg := p.cfg
	if cfg.Adjacency.Path == "" {
		return "", nil, nil
	}
	kind, err := graph.ParseKind(cfg.Adjacency.Type)
	if err != nil {
		return "", nil, err
	}
	supports, raw, err := graph.Load(cfg.Adjacency.Path, kind)
	if err != nil {
		return "", nil, err
	}
	n, _ := raw.Dims()
	log.Info("Adjacency loaded",
		zap.String("path", cfg.Adjacency.Path),
		zap.String("type", string(kind)),
		zap.Int("nodes", n),
		zap.Int("supports", len(supports)))
	return kind, supports, nil
}
