package sema

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded reports that an entity family ran out of ids.
var ErrCapacityExceeded = errors.New("sema: capacity exceeded")

// CapacityError names the entity family whose arena is full.
type CapacityError struct {
	Entity string // "declaration", "scope" or "function"
	Limit  uint32
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("sema: %s capacity exceeded (limit %d)", e.Entity, e.Limit)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// ContractError is the panic value for misuse of the context by its caller:
// unknown ids, globals requested before the global scope exists, scopes
// created out of order. These are bugs in the resolver, not data errors.
type ContractError struct {
	Op     string
	Detail string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("sema: %s: %s", e.Op, e.Detail)
}

func contractf(op, format string, args ...any) {
	panic(&ContractError{Op: op, Detail: fmt.Sprintf(format, args...)})
}

// CatchContract runs fn and converts a *ContractError panic into a returned
// error so a compilation unit can fail as a whole. Other panics propagate.
func CatchContract(fn func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if ce, ok := r.(*ContractError); ok {
			err = ce
			return
		}
		panic(r)
	}()
	return fn()
}
