package envutil

import "github.com/amp-labs/propsort/xform"

// Option adjusts a Reader after the variable has been read and parsed.
// Options run in the order they are given.
type Option[T any] func(Reader[T]) Reader[T]

// With applies opts in order. Readers built by hand (NewReader, Map) take
// the same options as the typed readers this way.
func (e Reader[A]) With(opts ...Option[A]) Reader[A] { //nolint:ireturn
	return apply(e, opts)
}

// Default supplies dfl when the variable is not set.
func Default[T any](dfl T) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithDefault(dfl)
	}
}

// Fallback consults another Reader, typically a more general variable,
// when this one is not set. A malformed value never falls back.
func Fallback[T any](f Reader[T]) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithFallback(f)
	}
}

// Validate fails the Reader with the error returned by check.
// Missing values are not checked.
func Validate[T any](check func(T) error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.Map(func(val T) (T, error) {
			return val, check(val)
		})
	}
}

// Positive rejects zero and negative values with xform.ErrNonPositive.
func Positive[N xform.Numeric]() Option[N] {
	return Validate(func(val N) error {
		_, err := xform.Positive(val)

		return err
	})
}
