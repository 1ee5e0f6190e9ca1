package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/sartorproj/tsprep/config"
	"github.com/sartorproj/tsprep/timeseries"
)

// ErrUnknownDataset is returned for a dataset name missing from the registry.
var ErrUnknownDataset = errors.New("dataset: unknown dataset")

// Source locates a raw file relative to the data directory.
type Source struct {
	Path    string
	Options func() *timeseries.CSVOptions
}

var registry = map[string]Source{
	// transformer temperature, hourly; date column then 7 variables
	"ETTh1": {Path: filepath.Join("ETTh1", "ETTh1.csv"), Options: timeseries.DefaultCSVOptions},
	// electricity load of 321 clients, headerless
	"Elec": {Path: filepath.Join("Elec", "electricity.txt"), Options: timeseries.TextOptions},
	// weather station, 10-minute; date column then 21 variables
	"Weather": {Path: filepath.Join("Weather", "weather.csv"), Options: timeseries.DefaultCSVOptions},
}

// Names returns the registered dataset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the registered source for name.
func Lookup(name string) (Source, error) {
	src, ok := registry[name]
	if !ok {
		return Source{}, fmt.Errorf("%q (known: %v): %w", name, Names(), ErrUnknownDataset)
	}
	return src, nil
}

// Read loads the panel selected by cfg: cfg.Source when it names a file,
// otherwise the registry entry for cfg.Dataset under cfg.DataDir.
func Read(cfg *config.Config) (*timeseries.Panel, error) {
	var (
		path string
		opts *timeseries.CSVOptions
	)
	if cfg.Source.Path != "" {
		path = cfg.Source.Path
		opts = timeseries.TextOptions()
		opts.HasHeader = cfg.Source.HasHeader
		opts.SkipColumns = cfg.Source.SkipColumns
		if cfg.Source.SkipColumns > 0 {
			opts.DateColumn = 0
		}
	} else {
		src, err := Lookup(cfg.Dataset)
		if err != nil {
			return nil, err
		}
		path = filepath.Join(cfg.DataDir, src.Path)
		opts = src.Options()
	}

	p, err := timeseries.LoadCSV(path, opts)
	if err != nil {
		return nil, err
	}
	p.Name = cfg.Dataset
	return p, nil
}
