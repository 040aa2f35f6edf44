package system

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/coremud/engine/internal/component"
	"github.com/coremud/engine/internal/core/ecs"
	coresys "github.com/coremud/engine/internal/core/system"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WorkloadConfig sizes the simulated consumers.
type WorkloadConfig struct {
	Workers        int
	AcquirePerTick int // per worker, per pool
	HoldTicks      int
}

// WorkloadStats counts what the workload has done so far.
type WorkloadStats struct {
	Acquired uint64
	Released uint64
	Misses   uint64 // TryCreate on an exhausted fixed-size pool
}

// lease is what one worker acquired in one tick.
type lease struct {
	powers  []*component.Power
	healths []*component.Health
}

// WorkloadSystem simulates concurrent consumers of the component pools.
// Each tick every worker goroutine releases the lease it took HoldTicks
// ago, then acquires a fresh one. Phase 2 (Update).
type WorkloadSystem struct {
	powers  ecs.Pool[*component.Power]
	healths ecs.Pool[*component.Health]
	cfg     WorkloadConfig
	log     *zap.Logger

	// held[tick%HoldTicks][worker]
	held [][]lease
	tick int

	acquired atomic.Uint64
	released atomic.Uint64
	misses   atomic.Uint64
}

func NewWorkloadSystem(pools *ecs.PoolRegistry, cfg WorkloadConfig, log *zap.Logger) (*WorkloadSystem, error) {
	if cfg.HoldTicks < 1 {
		return nil, fmt.Errorf("workload hold ticks must be at least 1: given %d", cfg.HoldTicks)
	}
	powers, ok := ecs.PoolFor[*component.Power](pools)
	if !ok {
		return nil, fmt.Errorf("workload: %w for %s", ecs.ErrNoPool, component.PowerPool)
	}
	healths, ok := ecs.PoolFor[*component.Health](pools)
	if !ok {
		return nil, fmt.Errorf("workload: %w for %s", ecs.ErrNoPool, component.HealthPool)
	}

	held := make([][]lease, cfg.HoldTicks)
	for i := range held {
		held[i] = make([]lease, cfg.Workers)
	}
	return &WorkloadSystem{
		powers:  powers,
		healths: healths,
		cfg:     cfg,
		log:     log,
		held:    held,
	}, nil
}

func (s *WorkloadSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *WorkloadSystem) Update(_ time.Duration) {
	slot := s.held[s.tick%len(s.held)]
	s.tick++

	var g errgroup.Group
	for w := range slot {
		l := &slot[w]
		g.Go(func() error {
			s.release(l)
			s.acquire(l)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *WorkloadSystem) acquire(l *lease) {
	for i := 0; i < s.cfg.AcquirePerTick; i++ {
		if p, ok := s.powers.TryCreate(); ok {
			p.Power += float64(i)
			l.powers = append(l.powers, p)
			s.acquired.Add(1)
		} else {
			s.misses.Add(1)
		}
		if h, ok := s.healths.TryCreate(); ok {
			h.SetHealth(h.Health() - float64(i+1))
			l.healths = append(l.healths, h)
			s.acquired.Add(1)
		} else {
			s.misses.Add(1)
		}
	}
}

func (s *WorkloadSystem) release(l *lease) {
	for i, p := range l.powers {
		s.powers.ReturnObject(p)
		l.powers[i] = nil
	}
	for i, h := range l.healths {
		s.healths.ReturnObject(h)
		l.healths[i] = nil
	}
	s.released.Add(uint64(len(l.powers) + len(l.healths)))
	l.powers = l.powers[:0]
	l.healths = l.healths[:0]
}

// ReleaseAll hands back every held component. Used at shutdown, before the
// final CleanUpAll.
func (s *WorkloadSystem) ReleaseAll() {
	for _, slot := range s.held {
		for w := range slot {
			s.release(&slot[w])
		}
	}
	s.log.Debug("workload released all leases", zap.Uint64("released", s.released.Load()))
}

func (s *WorkloadSystem) Stats() WorkloadStats {
	return WorkloadStats{
		Acquired: s.acquired.Load(),
		Released: s.released.Load(),
		Misses:   s.misses.Load(),
	}
}
