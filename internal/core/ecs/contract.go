package ecs

import "reflect"

// Pool is the capability a consumer needs from a component pool.
type Pool[T Poolable] interface {
	// CleanUp reclaims components returned since the last call.
	// Must be called regularly, normally once per tick.
	CleanUp()

	// TryCreate returns a free component, or false if none is available
	// and the pool cannot grow.
	TryCreate() (T, bool)

	// ReturnObject hands a component back for reuse.
	ReturnObject(c T)
}

// AnyPool is the shape-erased view the PoolRegistry drives every pool
// through, whatever component type it holds.
type AnyPool interface {
	CleanUp()
	Shape() reflect.Type
	Stats() PoolStats
}

// Walker visits the components a pool currently has handed out.
type Walker[T Poolable] interface {
	Each(fn func(int, T))
}

var (
	_ Pool[*PoolableComponent]   = (*ComponentPool[*PoolableComponent])(nil)
	_ Walker[*PoolableComponent] = (*ComponentPool[*PoolableComponent])(nil)
	_ AnyPool                    = (*ComponentPool[*PoolableComponent])(nil)
)
