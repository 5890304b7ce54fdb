//nolint:err113 // Test file uses errors.New() for creating test errors
package logger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateError_NilError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, AnnotateError(nil, "key", "value"))
}

func TestAnnotateError_BasicAnnotation(t *testing.T) {
	t.Parallel()

	baseErr := errors.New("base error")
	annotated := AnnotateError(baseErr, "input", "people.json", "format", "json")

	require.Error(t, annotated)
	assert.Equal(t, "base error", annotated.Error())
	require.ErrorIs(t, annotated, baseErr)

	var se *slogError
	require.ErrorAs(t, annotated, &se)
	require.Len(t, se.attrs, 2)
	assert.Equal(t, "input", se.attrs[0].Key)
	assert.Equal(t, "format", se.attrs[1].Key)
}

func TestErrorAttrs(t *testing.T) {
	t.Parallel()

	inner := AnnotateError(errors.New("decode failed"), "line", 3)
	wrapped := AnnotateError(fmt.Errorf("reading: %w", inner), "input", "a.json")
	other := AnnotateError(errors.New("other"), "input", "b.yaml")

	attrs := ErrorAttrs(errors.Join(wrapped, other, errors.New("plain")))

	keys := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		keys = append(keys, attr.Key+"="+attr.Value.String())
	}

	assert.Equal(t, []string{"input=a.json", "line=3", "input=b.yaml"}, keys)
	assert.Empty(t, ErrorAttrs(nil))
	assert.Empty(t, ErrorAttrs(errors.New("plain")))
}

func TestSlogErrorLogger_Handle_NoAnnotatedError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := &slogErrorLogger{inner: slog.NewJSONHandler(&buf, nil)}

	record := slog.NewRecord(time.Now(), slog.LevelError, "plain failure", 0)
	record.AddAttrs(slog.Any("error", errors.New("boom")), slog.String("k", "v"))

	require.NoError(t, logger.Handle(context.Background(), record))

	output := buf.String()
	assert.Contains(t, output, "plain failure")
	assert.Contains(t, output, "boom")
	assert.Contains(t, output, `"k":"v"`)
}

func TestSlogErrorLogger_Handle_WithAnnotatedError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := &slogErrorLogger{inner: slog.NewJSONHandler(&buf, nil)}

	annotated := AnnotateError(errors.New("base error"), "input", "people.json")

	record := slog.NewRecord(time.Now(), slog.LevelError, "sort failed", 0)
	record.AddAttrs(slog.Any("error", annotated))

	require.NoError(t, logger.Handle(context.Background(), record))

	output := buf.String()
	assert.Contains(t, output, "sort failed")
	assert.Contains(t, output, "base error")
	assert.Contains(t, output, `"input":"people.json"`)
}

func TestSlogErrorLogger_Handle_JoinedErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := &slogErrorLogger{inner: slog.NewJSONHandler(&buf, nil)}

	err1 := AnnotateError(errors.New("first error"), "error1_attr", "value1")
	err2 := AnnotateError(errors.New("second error"), "error2_attr", "value2")

	slog.New(logger).Error("multiple errors occurred", "error", errors.Join(err1, err2))

	output := buf.String()
	assert.Contains(t, output, "first error")
	assert.Contains(t, output, "second error")
	assert.Contains(t, output, `"error1_attr":"value1"`)
	assert.Contains(t, output, `"error2_attr":"value2"`)
}

func TestSlogErrorLogger_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	base := &slogErrorLogger{inner: slog.NewJSONHandler(&buf, nil)}

	withAttrs, ok := base.WithAttrs([]slog.Attr{slog.String("service", "propsort")}).(*slogErrorLogger)
	require.True(t, ok)

	withGroup, ok := withAttrs.WithGroup("details").(*slogErrorLogger)
	require.True(t, ok)

	slog.New(withGroup).Error("failed", "error", AnnotateError(errors.New("x"), "input", "a.json"))

	output := buf.String()
	assert.Contains(t, output, `"service":"propsort"`)
	assert.Contains(t, output, `"details":{`)
	assert.Contains(t, output, `"input":"a.json"`)
}

func TestSlogErrorLogger_Enabled(t *testing.T) {
	t.Parallel()

	logger := &slogErrorLogger{inner: slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})}

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelError))
}
