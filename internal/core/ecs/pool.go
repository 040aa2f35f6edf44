package ecs

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Factory allocates a new component for a pool. shape is the component
// type the pool stores, so one factory can serve several pools.
type Factory[T Poolable] func(shape reflect.Type) T

// PoolConfig holds the sizing policy of a ComponentPool.
type PoolConfig struct {
	InitialSize     int
	Resizable       bool
	ResizeIncrement int
}

// Validate reports the first sizing parameter that is out of range.
func (c PoolConfig) Validate() error {
	if c.InitialSize < 1 {
		return fmt.Errorf("%w: initial_size must be at least 1: given %d",
			ErrInvalidPoolConfig, c.InitialSize)
	}
	if c.Resizable && c.ResizeIncrement < 1 {
		return fmt.Errorf("%w: resize_increment must be at least 1 when resizable: given %d",
			ErrInvalidPoolConfig, c.ResizeIncrement)
	}
	return nil
}

// PoolStats is a point-in-time view of a pool's counters.
type PoolStats struct {
	Name     string
	Capacity int
	Free     int
	InUse    int
	Pending  int
	Grows    uint64
	Created  uint64
}

// PoolOption configures optional ComponentPool settings.
type PoolOption func(*poolOptions)

type poolOptions struct {
	name string
	log  *zap.Logger
}

// WithPoolName sets the name used in logs and metrics. Defaults to the
// component type's name.
func WithPoolName(name string) PoolOption {
	return func(o *poolOptions) { o.name = name }
}

// WithPoolLogger sets the logger used to report pool growth.
func WithPoolLogger(log *zap.Logger) PoolOption {
	return func(o *poolOptions) { o.log = log }
}

// ComponentPool recycles components so the tick loop does not allocate.
//
// The store is split at invalidCount: slots [0, invalidCount) are free,
// slots [invalidCount, len) are in use and every component there has
// PoolID equal to its slot. Free slots are materialized lazily by the
// factory the first time they are handed out.
//
// ReturnObject only queues a component. It is folded back into the free
// region by the next CleanUp, which the owner calls once per tick.
type ComponentPool[T Poolable] struct {
	mu           sync.Mutex // guards components, invalidCount and the counters
	components   []T
	invalidCount int

	resizeIncrement int
	allocate        Factory[T]
	shape           reflect.Type
	name            string
	log             *zap.Logger

	returned *returnQueue[T]
	grows    uint64
	created  uint64
}

// NewComponentPool creates a pool of cfg.InitialSize empty slots. When
// cfg.Resizable is false the resize increment is forced to zero.
func NewComponentPool[T Poolable](factory Factory[T], cfg PoolConfig, opts ...PoolOption) (*ComponentPool[T], error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: factory cannot be nil", ErrInvalidPoolConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shape := reflect.TypeOf((*T)(nil)).Elem()
	o := poolOptions{name: shape.String(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	p := &ComponentPool[T]{
		components:   make([]T, cfg.InitialSize),
		invalidCount: cfg.InitialSize,
		allocate:     factory,
		shape:        shape,
		name:         o.name,
		log:          o.log,
		returned:     newReturnQueue[T](cfg.InitialSize),
	}
	if cfg.Resizable {
		p.resizeIncrement = cfg.ResizeIncrement
	}
	return p, nil
}

func (p *ComponentPool[T]) Name() string        { return p.name }
func (p *ComponentPool[T]) Shape() reflect.Type { return p.shape }

// ResizeIncrement is zero for pools that cannot grow.
func (p *ComponentPool[T]) ResizeIncrement() int { return p.resizeIncrement }

// InvalidCount returns the number of free slots.
func (p *ComponentPool[T]) InvalidCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.invalidCount
}

// ValidCount returns the number of components currently handed out.
func (p *ComponentPool[T]) ValidCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.components) - p.invalidCount
}

func (p *ComponentPool[T]) Capacity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.components)
}

// Pending returns the number of returned components awaiting CleanUp.
func (p *ComponentPool[T]) Pending() int {
	return p.returned.Len()
}

// TryCreate hands out a free component, growing the store if allowed.
// It returns false when the pool is exhausted and cannot grow; that is an
// expected outcome, not an error. A factory that returns nil panics with
// a *FactoryError.
func (p *ComponentPool[T]) TryCreate() (T, bool) {
	c, ok := p.take()
	if !ok {
		return c, false
	}
	// Consumer code never runs under the store lock.
	c.Initialize()
	return c, true
}

func (p *ComponentPool[T]) take() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.invalidCount == 0 {
		if p.resizeIncrement == 0 {
			var zero T
			return zero, false
		}
		// Allocate first: a failing factory must leave the store untouched.
		c := p.materialize(p.resizeIncrement - 1)
		p.resize(p.resizeIncrement)
		p.components[p.invalidCount-1] = c
	}

	idx := p.invalidCount - 1
	c := p.components[idx]
	if isNilComponent(c) {
		c = p.materialize(idx)
		p.components[idx] = c
	}
	p.invalidCount = idx
	c.poolSlot().poolID = idx
	return c, true
}

// materialize calls the factory for the component that will occupy slot.
// Caller holds p.mu.
func (p *ComponentPool[T]) materialize(slot int) T {
	c := p.allocate(p.shape)
	if isNilComponent(c) {
		panic(&FactoryError{Pool: p.name, Shape: p.shape, Slot: slot})
	}
	p.created++
	return c
}

// resize grows the store by n slots at the head so the in-use region stays
// at the tail. Caller holds p.mu.
func (p *ComponentPool[T]) resize(n int) {
	grown := make([]T, len(p.components)+n)
	for i := len(p.components) - 1; i >= 0; i-- {
		if i >= p.invalidCount {
			p.components[i].poolSlot().poolID = i + n
		}
		grown[i+n] = p.components[i]
	}
	old := len(p.components)
	p.components = grown
	p.invalidCount += n
	p.grows++

	p.log.Debug("pool grown",
		zap.String("pool", p.name),
		zap.Int("from", old),
		zap.Int("to", len(grown)),
	)
}

// ReturnObject queues c for reclamation. It never blocks on the store lock
// and is safe from any goroutine. The caller must not use c afterwards.
func (p *ComponentPool[T]) ReturnObject(c T) {
	p.returned.Push(c)
}

// CleanUp folds every returned component back into the free region and
// calls its CleanUp hook. Components returned while CleanUp runs are left
// for the next call. Only one goroutine should drive CleanUp.
func (p *ComponentPool[T]) CleanUp() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.returned.Drain(func(c T) {
		slot := c.poolSlot()
		id := slot.poolID
		if id < p.invalidCount || id >= len(p.components) ||
			p.components[id].poolSlot() != slot {
			p.log.Warn("ignoring component not in use",
				zap.String("pool", p.name),
				zap.Int("pool_id", id),
			)
			return
		}

		if id != p.invalidCount {
			other := p.components[p.invalidCount]
			p.components[id] = other
			other.poolSlot().poolID = id
			p.components[p.invalidCount] = c
		}
		slot.poolID = slotInTransit

		c.CleanUp()
		p.invalidCount++
	})
}

// At returns the index-th in-use component. Index 0 is the slot at the
// tail of the store; TryCreate fills the in-use region from the tail
// towards the head, so without intervening reclaims the order is
// acquisition order.
func (p *ComponentPool[T]) At(index int) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	valid := len(p.components) - p.invalidCount
	if index < 0 || index >= valid {
		var zero T
		return zero, fmt.Errorf("%w: index %d must be in [0, %d): valid count %d",
			ErrIndexOutOfRange, index, valid, valid)
	}
	return p.components[len(p.components)-1-index], nil
}

// Each calls fn for every in-use component in At order. fn runs under the
// store lock and must not call back into the pool.
func (p *ComponentPool[T]) Each(fn func(int, T)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	last := len(p.components) - 1
	for i := 0; i < len(p.components)-p.invalidCount; i++ {
		fn(i, p.components[last-i])
	}
}

func (p *ComponentPool[T]) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PoolStats{
		Name:     p.name,
		Capacity: len(p.components),
		Free:     p.invalidCount,
		InUse:    len(p.components) - p.invalidCount,
		Pending:  p.returned.Len(),
		Grows:    p.grows,
		Created:  p.created,
	}
}

func isNilComponent(c any) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
