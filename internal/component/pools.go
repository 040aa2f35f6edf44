package component

import (
	"fmt"

	"github.com/coremud/engine/internal/core/ecs"
	"github.com/coremud/engine/internal/data"
	"go.uber.org/zap"
)

// Pool profile names for the components in this package.
const (
	PowerPool  = "power"
	HealthPool = "health"
)

// Shapes lists the profile names RegisterPools builds pools for.
func Shapes() []string {
	return []string{PowerPool, HealthPool}
}

// RegisterPools builds one pool per component in this package, sized by
// the matching profile in table, and registers it in reg. A component with
// no profile gets the table defaults.
func RegisterPools(reg *ecs.PoolRegistry, table *data.PoolTable, log *zap.Logger) error {
	if err := registerPool[*Power](reg, table, PowerPool, NewPower, log); err != nil {
		return err
	}
	return registerPool[*Health](reg, table, HealthPool, NewHealth, log)
}

func registerPool[T ecs.Poolable](reg *ecs.PoolRegistry, table *data.PoolTable, name string, factory ecs.Factory[T], log *zap.Logger) error {
	profile := table.Profile(name)
	pool, err := ecs.NewComponentPool(factory, profile.PoolConfig(),
		ecs.WithPoolName(name),
		ecs.WithPoolLogger(log),
	)
	if err != nil {
		return fmt.Errorf("pool %s: %w", name, err)
	}
	if err := ecs.RegisterPool(reg, pool); err != nil {
		return fmt.Errorf("pool %s: %w", name, err)
	}
	return nil
}
