package ecs

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// PoolRegistry holds one pool per component type and drives their
// reclamation in bulk.
type PoolRegistry struct {
	mu    sync.RWMutex // registration is rare, lookups are per acquire
	pools map[reflect.Type]AnyPool
	order []AnyPool
	log   *zap.Logger
}

func NewPoolRegistry(log *zap.Logger) *PoolRegistry {
	if log == nil {
		log = zap.NewNop()
	}
	return &PoolRegistry{
		pools: make(map[reflect.Type]AnyPool, 16),
		order: make([]AnyPool, 0, 16),
		log:   log,
	}
}

// Register adds a pool under its shape.
func (r *PoolRegistry) Register(p AnyPool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	shape := p.Shape()
	if _, ok := r.pools[shape]; ok {
		return fmt.Errorf("register %v: %w", shape, ErrPoolExists)
	}
	r.pools[shape] = p
	r.order = append(r.order, p)

	st := p.Stats()
	r.log.Info("pool registered",
		zap.String("pool", st.Name),
		zap.Int("capacity", st.Capacity),
	)
	return nil
}

// Lookup returns the pool registered for shape.
func (r *PoolRegistry) Lookup(shape reflect.Type) (AnyPool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pools[shape]
	return p, ok
}

func (r *PoolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// CleanUpAll reclaims returned components in every registered pool, in
// registration order.
func (r *PoolRegistry) CleanUpAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.order {
		p.CleanUp()
	}
}

// Snapshot returns the stats of every pool sorted by name.
func (r *PoolRegistry) Snapshot() []PoolStats {
	r.mu.RLock()
	out := make([]PoolStats, 0, len(r.order))
	for _, p := range r.order {
		out = append(out, p.Stats())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func shapeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterPool registers p as the pool for T.
func RegisterPool[T Poolable](r *PoolRegistry, p *ComponentPool[T]) error {
	return r.Register(p)
}

// PoolFor returns the pool registered for T.
func PoolFor[T Poolable](r *PoolRegistry) (Pool[T], bool) {
	p, ok := r.Lookup(shapeOf[T]())
	if !ok {
		return nil, false
	}
	typed, ok := p.(Pool[T])
	return typed, ok
}

// WalkerFor returns the registered pool for T as a Walker.
func WalkerFor[T Poolable](r *PoolRegistry) (Walker[T], bool) {
	p, ok := r.Lookup(shapeOf[T]())
	if !ok {
		return nil, false
	}
	w, ok := p.(Walker[T])
	return w, ok
}

// NewPooled takes a T from its registered pool. It returns false when no
// pool is registered for T or the pool is exhausted.
func NewPooled[T Poolable](r *PoolRegistry) (T, bool) {
	p, ok := PoolFor[T](r)
	if !ok {
		var zero T
		return zero, false
	}
	return p.TryCreate()
}

// Release returns c to the pool registered for T.
func Release[T Poolable](r *PoolRegistry, c T) error {
	p, ok := PoolFor[T](r)
	if !ok {
		return fmt.Errorf("release %v: %w", shapeOf[T](), ErrNoPool)
	}
	p.ReturnObject(c)
	return nil
}
