package system

import (
	"fmt"
	"sync"
	"time"

	"github.com/coremud/engine/internal/component"
	"github.com/coremud/engine/internal/core/ecs"
	coresys "github.com/coremud/engine/internal/core/system"
	"go.uber.org/zap"
)

// VitalsStats summarizes the Health components in use at the end of a tick.
type VitalsStats struct {
	Live    int
	Wounded int // alive, below max health
	Fallen  int // zero health
}

// VitalsSystem walks every Health component currently handed out and tallies
// how many are hurt. It reads after the workload has run and before the
// cleanup system reclaims returns. Phase 3 (PostUpdate).
type VitalsSystem struct {
	healths ecs.Walker[*component.Health]
	log     *zap.Logger

	mu   sync.Mutex
	last VitalsStats
}

func NewVitalsSystem(pools *ecs.PoolRegistry, log *zap.Logger) (*VitalsSystem, error) {
	healths, ok := ecs.WalkerFor[*component.Health](pools)
	if !ok {
		return nil, fmt.Errorf("vitals: %w for %s", ecs.ErrNoPool, component.HealthPool)
	}
	return &VitalsSystem{healths: healths, log: log}, nil
}

func (s *VitalsSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *VitalsSystem) Update(_ time.Duration) {
	var st VitalsStats
	s.healths.Each(func(_ int, h *component.Health) {
		st.Live++
		switch {
		case !h.IsAlive():
			st.Fallen++
		case h.Percentage() < 100:
			st.Wounded++
		}
	})

	s.mu.Lock()
	s.last = st
	s.mu.Unlock()

	if st.Fallen > 0 {
		s.log.Warn("fallen health components in use", zap.Int("fallen", st.Fallen), zap.Int("live", st.Live))
	}
}

// Stats returns the tally from the most recent tick.
func (s *VitalsSystem) Stats() VitalsStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
