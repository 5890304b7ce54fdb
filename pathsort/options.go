package pathsort

import (
	"log/slog"

	"golang.org/x/text/language"
)

// DefaultLocale is the collation locale used when none is configured.
var DefaultLocale = language.German //nolint:gochecknoglobals

// Options configures a Sorter.
type Options struct {
	// Locale selects the collation rules used inside a group.
	Locale language.Tag

	// Numeric collates runs of digits by numeric value ("2" < "12") inside a
	// group. Group placement is unaffected.
	Numeric bool

	// BracketPaths accepts keys in bracket notation ("$['a.b']['c']") next to
	// dotted keys. When off, every key is split on '.' as written.
	BracketPaths bool

	// Logger receives a debug record when the sorter is built. Comparisons
	// never log.
	Logger *slog.Logger
}

// Option is a functional option for configuring a Sorter via New.
type Option func(*Options)

// WithLocale sets the collation locale.
func WithLocale(tag language.Tag) Option {
	return func(o *Options) {
		o.Locale = tag
	}
}

// WithNumeric toggles numeric collation of digit runs.
func WithNumeric(numeric bool) Option {
	return func(o *Options) {
		o.Numeric = numeric
	}
}

// WithBracketPaths toggles bracket notation for keys.
func WithBracketPaths(enabled bool) Option {
	return func(o *Options) {
		o.BracketPaths = enabled
	}
}

// WithLogger sets the logger used for construction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
