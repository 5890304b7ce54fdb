// Package pathsort builds comparators that order loosely typed records by the
// first usable value found along a priority-ordered list of property paths.
//
// # Overview
//
// Given one or more dot-separated paths, [By] (or [New] for a configurable
// [Sorter]) returns a three-way comparison function suitable for
// [slices.SortStableFunc]. For each record the comparator walks the paths in
// order and takes the first value that is usable:
//
//   - any number, including zero, rendered in its canonical decimal form
//   - any string that is not blank, trimmed and lowercased
//
// Everything else (missing keys, blank strings, booleans, nested objects,
// nulls) falls through to the next path. A record with no usable value
// extracts to the empty string.
//
// # Ordering
//
// Extracted values are placed into four groups, compared in this order:
//
//	letter  < digit  < symbol  < missing
//
// The group is decided by the first character only: an ASCII letter, an ASCII
// digit, or anything else. The empty string is always missing. Values in the
// same group are collated for the configured locale (German by default) at
// base strength, so "Anna", "anna" and "Änna" are equivalent.
//
// # Usage
//
//	records := []any{
//	    map[string]any{"alias": "", "profile": map[string]any{"name": "John"}},
//	    map[string]any{"alias": "#Provider"},
//	    map[string]any{"alias": "Anna"},
//	}
//
//	slices.SortStableFunc(records, pathsort.By("alias", "profile.name", "name"))
//	// anna, john, #provider
//
// # Thread Safety
//
// A [Sorter] holds no per-comparison state of its own. Collators are borrowed
// from an internal pool for the duration of one comparison, so one Sorter may
// serve any number of concurrent sorts.
package pathsort
