// Package envutil reads typed configuration from environment variables.
//
// Every reader takes a context so that tests (and embedding programs) can
// override individual variables with WithEnvOverride instead of mutating the
// process environment.
package envutil

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/amp-labs/propsort/xform"
	"golang.org/x/text/language"
)

// get returns a Reader for the given environment variable key.
func get(ctx context.Context, key string) Reader[string] {
	if val, ok := getEnvOverride(ctx, key); ok {
		return Reader[string]{
			key:     key,
			present: true,
			value:   val,
		}
	}

	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

// NewReader returns a Reader for the given raw data. If you feel like
// you want to branch out from using the environment variables directly,
// this will provide the same functionality - except you need to provide
// the initial values yourself.
func NewReader[T any](key string, present bool, err error, value T) Reader[T] {
	return Reader[T]{
		key:     key,
		present: present,
		value:   value,
		err:     err,
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String returns a Reader for the given environment variable key.
func String(ctx context.Context, key string, opts ...Option[string]) Reader[string] {
	return apply(get(ctx, key), opts)
}

// Bool returns a Reader which parses the variable with strconv.ParseBool.
func Bool(ctx context.Context, key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(ctx, key), xform.Bool), opts)
}

// Int returns a Reader which parses the variable as a base-10 integer.
func Int[I xform.Intish](ctx context.Context, key string, opts ...Option[I]) Reader[I] {
	return apply(Map(Map(get(ctx, key), xform.Int64), xform.CastNumeric[int64, I]), opts)
}

// SlogLevel returns a Reader for the given environment variable key.
func SlogLevel(ctx context.Context, key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	rdr := Map(Map(Map(get(ctx, key), xform.TrimString), xform.ToLower), xform.SlogLevel)

	return apply(rdr, opts)
}

// StringSlice returns a Reader which splits the variable on sep, trims every
// element and drops empty ones. A variable holding only separators and
// whitespace is an error.
func StringSlice(ctx context.Context, key string, sep string, opts ...Option[[]string]) Reader[[]string] {
	rdr := Map(Map(get(ctx, key), xform.SplitString(sep)), xform.TrimStrings)

	return apply(rdr, opts)
}

// LanguageTag returns a Reader which parses the variable as a BCP 47 tag.
func LanguageTag(ctx context.Context, key string, opts ...Option[language.Tag]) Reader[language.Tag] {
	rdr := Map(Map(get(ctx, key), xform.TrimString), xform.LanguageTag)

	return apply(rdr, opts)
}

// Duration returns a Reader which parses the variable with time.ParseDuration.
func Duration(ctx context.Context, key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(Map(get(ctx, key), xform.TrimString), xform.Duration), opts)
}
