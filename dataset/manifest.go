package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sartorproj/tsprep/config"
	"github.com/sartorproj/tsprep/split"
	"github.com/sartorproj/tsprep/stats"
)

// Manifest records what a preparation run produced.
type Manifest struct {
	RunID      string            `json:"run_id"`
	CreatedAt  time.Time         `json:"created_at"`
	Dataset    string            `json:"dataset"`
	Mode       string            `json:"mode"`
	HistoryLen int               `json:"history_len"`
	PredLen    int               `json:"pred_len"`
	ValRatio   float64           `json:"val_ratio"`
	TestRatio  float64           `json:"test_ratio"`
	Archive    string            `json:"archive"`
	Shapes     map[string][4]int `json:"shapes"`
	Scaler     stats.Scaler      `json:"scaler"`
	ZeroRatio  float64           `json:"zero_ratio"`
	Adjacency  *AdjacencyInfo    `json:"adjacency,omitempty"`
}

// AdjacencyInfo records the graph supports written next to the archive.
type AdjacencyInfo struct {
	Source   string   `json:"source"`
	Type     string   `json:"type"`
	Supports []string `json:"supports"`
}

func newManifest(runID string, now time.Time, cfg *config.Config, mode, archivePath string, part split.Partition, scaler stats.Scaler, zeroRatio float64) *Manifest {
	shapes := make(map[string][4]int, 6)
	for i, s := range part.Sets() {
		x, y := s.Shape()
		shapes[splitNames[i]+"_x"] = x
		shapes[splitNames[i]+"_y"] = y
	}
	return &Manifest{
		RunID:      runID,
		CreatedAt:  now.UTC(),
		Dataset:    cfg.Dataset,
		Mode:       mode,
		HistoryLen: cfg.HistoryLen,
		PredLen:    cfg.PredLen,
		ValRatio:   cfg.ValRatio,
		TestRatio:  cfg.TestRatio,
		Archive:    filepath.Base(archivePath),
		Shapes:     shapes,
		Scaler:     scaler,
		ZeroRatio:  zeroRatio,
	}
}

// ManifestPath returns <dir>/<predLen>_manifest.json, or
// <predLen>_online_manifest.json for the online modes.
func ManifestPath(dir string, predLen int, mode string) string {
	name := strconv.Itoa(predLen) + "_manifest.json"
	if mode != config.ModeOffline {
		name = strconv.Itoa(predLen) + "_online_manifest.json"
	}
	return filepath.Join(dir, name)
}

// Write stores the manifest as indented JSON.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a manifest written by Write.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
