package ecs

import (
	"sync"
	"sync/atomic"
)

// returnQueue is the pending-return queue of a ComponentPool. It is
// double-buffered: producers append to the back buffer, the single consumer
// swaps buffers and walks the front one. The queue's mutex is never the
// pool's store mutex, so ReturnObject does not contend with TryCreate.
type returnQueue[T any] struct {
	mu    sync.Mutex // protects back and the swap
	back  []T
	front []T
	size  atomic.Int64
}

func newReturnQueue[T any](capacity int) *returnQueue[T] {
	return &returnQueue[T]{
		back:  make([]T, 0, capacity),
		front: make([]T, 0, capacity),
	}
}

// Push queues a component. Safe for any number of concurrent callers.
func (q *returnQueue[T]) Push(c T) {
	q.mu.Lock()
	q.back = append(q.back, c)
	q.size.Add(1)
	q.mu.Unlock()
}

// Drain hands every queued component to fn and empties the queue. Components
// pushed while fn runs stay queued for the next Drain. Single consumer only.
func (q *returnQueue[T]) Drain(fn func(T)) int {
	q.mu.Lock()
	q.front, q.back = q.back, q.front
	q.mu.Unlock()

	n := len(q.front)
	var zero T
	for i, c := range q.front {
		fn(c)
		q.front[i] = zero
	}
	q.front = q.front[:0]
	q.size.Add(int64(-n))
	return n
}

// Len is approximate while producers are active.
func (q *returnQueue[T]) Len() int {
	return int(q.size.Load())
}
