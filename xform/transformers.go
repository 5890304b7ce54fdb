// Package xform provides small value transformers for use with envutil readers.
// Every transformer has the shape func(A) (B, error) so they can be chained
// with envutil.Map.
package xform

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// TrimString removes leading and trailing whitespace from a string.
func TrimString(s string) (string, error) {
	return strings.TrimSpace(s), nil
}

// SplitString returns a transformer that splits a string by the given separator.
// The separator can be any string, including multi-character separators.
func SplitString(sep string) func(string) ([]string, error) {
	return func(s string) ([]string, error) {
		return strings.Split(s, sep), nil
	}
}

// TrimStrings trims every element and drops the ones left empty.
// Returns ErrEmptyList if nothing remains.
func TrimStrings(values []string) ([]string, error) {
	out := make([]string, 0, len(values))

	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	if len(out) == 0 {
		return nil, ErrEmptyList
	}

	return out, nil
}

// ToLower converts a string to lowercase.
func ToLower(s string) (string, error) {
	return strings.ToLower(s), nil
}

// OneOf returns a transformer that validates a value is one of the allowed choices.
// Returns ErrInvalidChoice if the value doesn't match any of the choices.
func OneOf[A comparable](choices ...A) func(A) (A, error) { //nolint:ireturn
	return func(value A) (A, error) {
		if slices.Contains(choices, value) {
			return value, nil
		}

		return value, fmt.Errorf("%w: %v (expected one of %v)", ErrInvalidChoice, value, choices)
	}
}

// Bool parses a string as a boolean value.
// Accepts: "1", "t", "T", "true", "TRUE", "True", "0", "f", "F", "false", "FALSE", "False".
func Bool(value string) (bool, error) {
	return strconv.ParseBool(value)
}

// Int64 parses a string as a base-10 int64.
func Int64(value string) (int64, error) {
	return strconv.ParseInt(value, 10, 64)
}

// Positive validates that a numeric value is greater than zero.
// Returns ErrNonPositive if the value is less than or equal to zero.
func Positive[A Numeric](value A) (A, error) { // nolint:ireturn
	if value <= 0 {
		return value, ErrNonPositive
	}

	return value, nil
}

// CastNumeric converts a numeric value from one type to another.
// Example: CastNumeric[int64, int32] converts int64 to int32.
// Note: This may truncate or lose precision depending on the types involved.
func CastNumeric[A Numeric, B Numeric](value A) (B, error) { //nolint:ireturn
	return B(value), nil
}

// SlogLevel parses a string as a slog.Level.
// Accepts: "debug", "info", "warn", "error" (case-sensitive).
// Returns ErrInvalidLogLevel for unrecognized values.
func SlogLevel(value string) (slog.Level, error) {
	switch value {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, value)
	}
}

// LanguageTag parses a BCP 47 language tag such as "de", "de-AT" or "sv".
// Returns ErrInvalidLocale for malformed tags.
func LanguageTag(value string) (language.Tag, error) {
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q: %w", ErrInvalidLocale, value, err)
	}

	return tag, nil
}

// Duration parses a string with time.ParseDuration, e.g. "5s" or "250ms".
func Duration(value string) (time.Duration, error) {
	return time.ParseDuration(value)
}
