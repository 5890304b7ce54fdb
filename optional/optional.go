// Package optional provides a type-safe Optional type for representing values that may or may not be present.
// It is used to model lookups whose absence is an ordinary outcome rather than an error,
// such as resolving a path through a record that may not contain it.
package optional

import "fmt"

// Value represents a value that may or may not be present.
// Use Some(value) to create a Value with a value, or None() for an empty Value.
type Value[T any] struct {
	value T
	isSet bool
}

// Some creates a Value containing the given value.
func Some[T any](value T) Value[T] {
	return Value[T]{value: value, isSet: true}
}

// None creates an empty Value with no value.
func None[T any]() Value[T] {
	return Value[T]{isSet: false}
}

// NonEmpty returns true if the Value contains a value.
func (o Value[T]) NonEmpty() bool {
	return o.isSet
}

// Empty returns true if the Value does not contain a value.
func (o Value[T]) Empty() bool {
	return !o.isSet
}

// Get returns the value and a boolean indicating whether the value is present.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.isSet
}

// GetOrElse returns the value if present, or the provided default value if empty.
func (o Value[T]) GetOrElse(defaultValue T) T {
	if o.isSet {
		return o.value
	}

	return defaultValue
}

// OrElseFunc returns this Value if it contains a value, or calls the provided function
// to get an alternative Value if empty. The function is only called when needed, which
// makes it suitable for chaining fallbacks in priority order.
func (o Value[T]) OrElseFunc(alternativeFunc func() Value[T]) Value[T] {
	if o.isSet {
		return o
	}

	return alternativeFunc()
}

// Filter returns this Value if it contains a value that satisfies the predicate, or None otherwise.
func (o Value[T]) Filter(predicate func(T) bool) Value[T] {
	if o.isSet && predicate(o.value) {
		return o
	}

	return None[T]()
}

// String returns "Some(value)" if present, or "None" if empty.
func (o Value[T]) String() string {
	if o.isSet {
		return fmt.Sprintf("Some(%v)", o.value)
	}

	return "None"
}

// Map transforms the value inside the Value using the provided function.
// Returns Some(f(value)) if the Value contains a value, or None if empty.
func Map[T any, U any](o Value[T], f func(T) U) Value[U] {
	if o.isSet {
		return Some(f(o.value))
	}

	return None[U]()
}

// FlatMap transforms the value inside the Value using the provided function that returns a Value.
// Returns f(value) if the Value contains a value, or None if empty.
func FlatMap[T any, U any](o Value[T], f func(T) Value[U]) Value[U] {
	if o.isSet {
		return f(o.value)
	}

	return None[U]()
}
