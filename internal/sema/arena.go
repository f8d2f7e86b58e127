package sema

import (
	"math"

	"fortio.org/safecast"
)

// Limits caps how many entities of each family a context may create. Zero
// means the whole id space.
type Limits struct {
	Decls     uint32
	Scopes    uint32
	Functions uint32
}

func limitOrMax(v uint32) uint32 {
	if v == 0 {
		return math.MaxUint32
	}
	return v
}

// arena is an append-only store addressed by index+1 ids.
type arena[T any] struct {
	entity string
	limit  uint32
	data   []T
}

func newArena[T any](entity string, limit uint32, capHint int) arena[T] {
	return arena[T]{
		entity: entity,
		limit:  limitOrMax(limit),
		data:   make([]T, 0, capHint),
	}
}

// push appends v and returns its raw id. Nothing is stored on failure.
func (a *arena[T]) push(v T) (uint32, error) {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil || n >= a.limit {
		return 0, &CapacityError{Entity: a.entity, Limit: a.limit}
	}
	a.data = append(a.data, v)
	return n + 1, nil
}

// at returns the slot for a raw id, or nil when the id was never minted.
func (a *arena[T]) at(raw uint32) *T {
	if raw == 0 || int(raw) > len(a.data) {
		return nil
	}
	return &a.data[raw-1]
}

func (a *arena[T]) len() int { return len(a.data) }
