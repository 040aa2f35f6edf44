package component

import (
	"reflect"

	"github.com/coremud/engine/internal/core/ecs"
)

// DefaultPower is the power a freshly handed out Power component starts with.
const DefaultPower = 250

// Power is a pooled component carrying an entity's power.
type Power struct {
	ecs.PoolableComponent
	Power float64
}

func (c *Power) Initialize() { c.Power = DefaultPower }

func (c *Power) CleanUp() { c.Power = 0 }

// NewPower is the pool factory for Power.
func NewPower(reflect.Type) *Power {
	return &Power{}
}
