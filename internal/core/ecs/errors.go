package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidPoolConfig is wrapped by every constructor argument error.
	ErrInvalidPoolConfig = errors.New("invalid pool config")

	// ErrNilComponent means a pool factory returned no component.
	ErrNilComponent = errors.New("pool factory returned a nil component")

	// ErrIndexOutOfRange is returned by ComponentPool.At.
	ErrIndexOutOfRange = errors.New("pool index out of range")

	// ErrPoolExists is returned when a shape already has a registered pool.
	ErrPoolExists = errors.New("pool already registered")

	// ErrNoPool is returned when a shape has no registered pool.
	ErrNoPool = errors.New("no pool registered")
)

// FactoryError is the panic value raised when a pool's factory breaks its
// contract. It is distinct from pool exhaustion, which is reported by
// TryCreate's boolean result.
type FactoryError struct {
	Pool  string
	Shape reflect.Type
	Slot  int
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("pool %s: %s (shape %v, slot %d)", e.Pool, ErrNilComponent, e.Shape, e.Slot)
}

func (e *FactoryError) Unwrap() error { return ErrNilComponent }
