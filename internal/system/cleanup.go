package system

import (
	"time"

	"github.com/coremud/engine/internal/core/ecs"
	coresys "github.com/coremud/engine/internal/core/system"
)

// CleanupSystem reclaims every pool's returned components at tick end.
// Phase 4 (Cleanup). It is the only caller of PoolRegistry.CleanUpAll
// while the loop runs.
type CleanupSystem struct {
	pools *ecs.PoolRegistry
}

func NewCleanupSystem(pools *ecs.PoolRegistry) *CleanupSystem {
	return &CleanupSystem{pools: pools}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.pools.CleanUpAll()
}
