package component

import (
	"math"
	"reflect"

	"github.com/coremud/engine/internal/core/ecs"
)

// DefaultMaxHealth is the max health of a Health component created by the pool.
const DefaultMaxHealth = 100

// Health is a pooled component tracking current and max health.
// CleanUp restores full health so the next owner starts unhurt.
type Health struct {
	ecs.PoolableComponent
	MaxHealth float64
	health    float64
}

func NewHealth(reflect.Type) *Health {
	return &Health{MaxHealth: DefaultMaxHealth, health: DefaultMaxHealth}
}

func (c *Health) CleanUp() { c.health = c.MaxHealth }

func (c *Health) Health() float64 { return c.health }

// SetHealth clamps v to [0, MaxHealth].
func (c *Health) SetHealth(v float64) {
	c.health = math.Min(c.MaxHealth, math.Max(0, v))
}

// Percentage of max health, rounded to a whole number.
func (c *Health) Percentage() float64 {
	if c.MaxHealth == 0 {
		return 0
	}
	return math.Round(c.health / c.MaxHealth * 100)
}

func (c *Health) IsAlive() bool { return c.health > 0 }
