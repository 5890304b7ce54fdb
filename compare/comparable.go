// Package compare provides utilities for comparing values.
package compare

import "go.uber.org/atomic"

// Func is a three-way comparison function. It returns a negative number when
// a sorts before b, a positive number when b sorts before a, and zero when
// the two are equivalent. It has the shape expected by slices.SortStableFunc.
type Func[T any] func(a, b T) int

// Counter wraps a Func and counts how many times it is invoked.
// The count is safe to read while the wrapped function is in use by
// concurrent sorts.
type Counter[T any] struct {
	cmp   Func[T]
	calls *atomic.Int64
}

// Counting wraps cmp in a Counter.
func Counting[T any](cmp Func[T]) *Counter[T] {
	return &Counter[T]{
		cmp:   cmp,
		calls: atomic.NewInt64(0),
	}
}

// Compare invokes the wrapped function and records the call.
func (c *Counter[T]) Compare(a, b T) int {
	c.calls.Inc()

	return c.cmp(a, b)
}

// Calls returns the number of comparisons made so far.
func (c *Counter[T]) Calls() int64 {
	return c.calls.Load()
}
