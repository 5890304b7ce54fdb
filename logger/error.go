package logger

import (
	"context"
	"log/slog"
	"time"
)

// AnnotateError wraps an error with structured logging attributes (slog key-value pairs).
// When the returned error is logged through a logger configured by this package,
// the attributes are automatically extracted and included in the log output.
//
// Example:
//
//	records, err := decode(input)
//	if err != nil {
//	    return AnnotateError(err, "input", name, "format", format)
//	}
//
// Returns nil if err is nil.
func AnnotateError(err error, args ...any) error {
	if err == nil {
		return nil
	}

	r := slog.NewRecord(time.Now(), slog.LevelDebug, "", 0)
	r.Add(args...)

	var errAttrs []slog.Attr

	r.Attrs(func(attr slog.Attr) bool {
		errAttrs = append(errAttrs, attr)

		return true
	})

	return &slogError{
		err:   err,
		attrs: errAttrs,
	}
}

// slogError wraps an error with structured logging attributes.
// It supports error unwrapping, making it compatible with errors.Is and errors.As.
type slogError struct {
	err   error
	attrs []slog.Attr
}

// Error returns the error message from the underlying error.
func (s *slogError) Error() string {
	return s.err.Error()
}

// Unwrap returns the underlying error, supporting error chain traversal.
func (s *slogError) Unwrap() error {
	return s.err
}

var _ error = (*slogError)(nil)

// ErrorAttrs collects the attributes attached with AnnotateError anywhere in
// err's tree, including every branch of joined errors. Outer annotations come first.
func ErrorAttrs(err error) []slog.Attr {
	var attrs []slog.Attr

	var walk func(err error)

	walk = func(err error) {
		if err == nil {
			return
		}

		if se, ok := err.(*slogError); ok { //nolint:errorlint
			attrs = append(attrs, se.attrs...)
		}

		switch wrapped := err.(type) { //nolint:errorlint
		case interface{ Unwrap() []error }:
			for _, inner := range wrapped.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(wrapped.Unwrap())
		}
	}

	walk(err)

	return attrs
}

// slogErrorLogger is a slog.Handler decorator that extracts structured attributes
// from annotated errors (created via AnnotateError) and includes them in log output.
type slogErrorLogger struct {
	inner slog.Handler
}

var _ slog.Handler = (*slogErrorLogger)(nil)

// Enabled reports whether the handler handles records at the given level.
func (s *slogErrorLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return s.inner.Enabled(ctx, level)
}

// Handle appends the attributes of any annotated error in the record before
// passing it on to the inner handler.
func (s *slogErrorLogger) Handle(ctx context.Context, record slog.Record) error {
	var errAttrs []slog.Attr

	record.Attrs(func(attr slog.Attr) bool {
		if err, ok := attr.Value.Any().(error); ok {
			errAttrs = append(errAttrs, ErrorAttrs(err)...)
		}

		return true
	})

	if len(errAttrs) == 0 {
		return s.inner.Handle(ctx, record)
	}

	r := record.Clone()
	r.AddAttrs(errAttrs...)

	return s.inner.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes added.
func (s *slogErrorLogger) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &slogErrorLogger{inner: s.inner.WithAttrs(attrs)}
}

// WithGroup returns a new handler with the given group name.
func (s *slogErrorLogger) WithGroup(name string) slog.Handler {
	return &slogErrorLogger{inner: s.inner.WithGroup(name)}
}
