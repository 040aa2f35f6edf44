package ecs

// slotInTransit marks a component that has been folded back into the free
// region. It is never a valid store index.
const slotInTransit = -1

// Poolable is implemented by every component a ComponentPool can hold.
// The unexported slot accessor means only types embedding PoolableComponent
// satisfy it, so the slot handle can only be written from this package.
type Poolable interface {
	Initialize()
	CleanUp()
	poolSlot() *PoolableComponent
}

// PoolableComponent is the embeddable base for pooled components.
//
//	type Power struct {
//		ecs.PoolableComponent
//		Power float64
//	}
//
// Embedding types override Initialize and CleanUp as needed.
type PoolableComponent struct {
	poolID int
}

// PoolID returns the component's current slot in its pool's store.
// It is -1 once the component has been reclaimed into the free region.
func (c *PoolableComponent) PoolID() int { return c.poolID }

// Initialize is called by the pool each time the component is handed out.
func (c *PoolableComponent) Initialize() {}

// CleanUp is called by the pool each time the component is reclaimed.
func (c *PoolableComponent) CleanUp() {}

func (c *PoolableComponent) poolSlot() *PoolableComponent { return c }
