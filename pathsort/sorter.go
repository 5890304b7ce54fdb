package pathsort

import (
	"slices"
	"sync"

	"github.com/amp-labs/propsort/compare"
	"github.com/amp-labs/propsort/jsonpath"
	"github.com/amp-labs/propsort/logger"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter orders records by the first usable value along its paths.
// A Sorter must not be copied after first use.
type Sorter struct {
	paths  jsonpath.PathList
	locale language.Tag

	// collate.Collator keeps iteration state between calls, so each
	// comparison borrows its own.
	collators sync.Pool
}

// New creates a Sorter for the given keys, highest priority first. Each key is
// a dot-separated path ("profile.name"); with WithBracketPaths a key may also
// be a bracket path ("$['a.b']['c']"). An empty key list is allowed: every record then extracts to the empty string
// and all records compare equal.
func New(keys []string, opts ...Option) *Sorter {
	options := Options{
		Locale: DefaultLocale,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = logger.Get()
	}

	collateOpts := []collate.Option{collate.Loose}
	if options.Numeric {
		collateOpts = append(collateOpts, collate.Numeric)
	}

	paths := jsonpath.ParseDottedList(keys...)
	if options.BracketPaths {
		paths = jsonpath.ParseList(keys...)
	}

	sorter := &Sorter{
		paths:  paths,
		locale: options.Locale,
	}

	sorter.collators.New = func() any {
		return collate.New(sorter.locale, collateOpts...)
	}

	options.Logger.Debug("created path sorter",
		"paths", sorter.paths.Strings(),
		"locale", sorter.locale.String(),
		"numeric", options.Numeric,
		"bracketPaths", options.BracketPaths)

	return sorter
}

// By returns a comparator for the given keys with default options. Pass a
// single key or several keys in priority order.
//
//	slices.SortStableFunc(records, pathsort.By("alias", "profile.name", "name"))
func By(keys ...string) compare.Func[any] {
	return New(keys).Compare
}

// Compare orders a and b: first by group (letter, digit, symbol, missing),
// then by locale collation of the extracted values. It returns a negative
// number, zero or a positive number.
func (s *Sorter) Compare(a, b any) int {
	left := FirstUsable(a, s.paths)
	right := FirstUsable(b, s.paths)

	leftGroup, rightGroup := Classify(left), Classify(right)
	if leftGroup != rightGroup {
		return int(leftGroup) - int(rightGroup)
	}

	if left == right {
		return 0
	}

	return s.collate(left, right)
}

func (s *Sorter) collate(a, b string) int {
	collator, _ := s.collators.Get().(*collate.Collator)
	defer s.collators.Put(collator)

	return collator.CompareString(a, b)
}

// Extract returns the value the sorter would compare for record.
func (s *Sorter) Extract(record any) string {
	return FirstUsable(record, s.paths)
}

// Group returns the group record falls into.
func (s *Sorter) Group(record any) Group {
	return Classify(s.Extract(record))
}

// Paths returns a copy of the parsed paths in priority order.
func (s *Sorter) Paths() jsonpath.PathList {
	out := make(jsonpath.PathList, len(s.paths))
	for idx, path := range s.paths {
		out[idx] = slices.Clone(path)
	}

	return out
}

// Locale returns the collation locale.
func (s *Sorter) Locale() language.Tag {
	return s.locale
}

// Sort stably sorts records in place.
func (s *Sorter) Sort(records []any) {
	slices.SortStableFunc(records, s.Compare)
}

// SortFunc adapts a Sorter to a typed slice element, for slices of concrete
// record types such as []map[string]any or []*User.
func SortFunc[T any](s *Sorter) compare.Func[T] {
	return func(a, b T) int {
		return s.Compare(a, b)
	}
}

// Sort stably sorts records in place using the given keys and default options.
func Sort[T any](records []T, keys ...string) {
	slices.SortStableFunc(records, SortFunc[T](New(keys)))
}
