package dataset

import (
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/sartorproj/tsprep/split"
)

// ErrInsufficientMemory is returned when standardized windows would not fit
// in the configured share of available memory.
var ErrInsufficientMemory = errors.New("dataset: not enough memory for standardized windows")

// EstimateBytes returns the memory standardized copies of every split take:
// B·(W+H)·N float64 values per split.
func EstimateBytes(part split.Partition) uint64 {
	var total uint64
	for _, s := range part.Sets() {
		if s.Len() == 0 {
			continue
		}
		total += uint64(s.Len()) * uint64(s.History()+s.Horizon()) * uint64(s.Nodes()) * 8
	}
	return total
}

func availableMemory() (uint64, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return v.Available, nil
}

func (p *Pipeline) checkMemory(log *zap.Logger, need uint64) error {
	frac := p.cfg.Memory.MaxFraction
	if frac <= 0 {
		return nil
	}
	avail, err := p.available()
	if err != nil {
		log.Warn("Memory probe failed, skipping check", zap.Error(err))
		return nil
	}

	limit := uint64(float64(avail) * frac)
	log.Debug("Memory check",
		zap.Uint64("need_bytes", need),
		zap.Uint64("available_bytes", avail),
		zap.Uint64("limit_bytes", limit))
	if need > limit {
		return fmt.Errorf("need %d bytes, limit %d of %d available: %w", need, limit, avail, ErrInsufficientMemory)
	}
	return nil
}
