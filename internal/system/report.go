package system

import (
	"time"

	"github.com/coremud/engine/internal/core/ecs"
	coresys "github.com/coremud/engine/internal/core/system"
	"go.uber.org/zap"
)

// ReportSystem logs pool counters every n ticks. Phase 5 (Report).
type ReportSystem struct {
	pools *ecs.PoolRegistry
	every int
	ticks int
	log   *zap.Logger
}

// NewReportSystem returns a system logging every `every` ticks; every <= 0
// disables logging.
func NewReportSystem(pools *ecs.PoolRegistry, every int, log *zap.Logger) *ReportSystem {
	return &ReportSystem{pools: pools, every: every, log: log}
}

func (s *ReportSystem) Phase() coresys.Phase { return coresys.PhaseReport }

func (s *ReportSystem) Update(_ time.Duration) {
	if s.every <= 0 {
		return
	}
	s.ticks++
	if s.ticks%s.every != 0 {
		return
	}
	for _, st := range s.pools.Snapshot() {
		s.log.Info("pool stats",
			zap.String("pool", st.Name),
			zap.Int("capacity", st.Capacity),
			zap.Int("free", st.Free),
			zap.Int("in_use", st.InUse),
			zap.Int("pending", st.Pending),
			zap.Uint64("grows", st.Grows),
			zap.Uint64("created", st.Created),
		)
	}
}
