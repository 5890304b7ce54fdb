// Package jsonpath provides utilities for addressing values inside loosely typed records.
// Two path notations are supported:
// - Dot notation: profile.name (split on every '.', empty segments are kept as keys)
// - Bracket notation: $['profile']['name'] (for keys which themselves contain dots)
//
// Paths are resolved leniently: a missing key or a value that cannot be traversed
// yields an absent result rather than an error.
//
//nolint:godoclint // Package comment is correctly formatted
package jsonpath

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for bracket path validation.
var (
	ErrPathEmpty               = errors.New("path cannot be empty")
	ErrPathMustStartWithDollar = errors.New("path must start with $[")
	ErrPathEmptySegment        = errors.New("path contains empty segment")
	ErrPathNoValidSegments     = errors.New("no valid segments found in path")
	ErrPathInvalidSyntax       = errors.New("invalid bracket notation syntax")
)

var (
	emptySegmentRe = regexp.MustCompile(`\[''\]`)
	openBracketRe  = regexp.MustCompile(`\[`)
	segmentRe      = regexp.MustCompile(`\['([^']+)'\]`)
)

// Path is an ordered sequence of lookup keys.
type Path []string

// String renders the path in dot notation, falling back to bracket
// notation when a segment would not survive a round trip through dots.
func (p Path) String() string {
	if p.needsBrackets() {
		return ToNestedPath(p...)
	}

	return strings.Join(p, ".")
}

// needsBrackets reports whether a segment contains a dot and every segment
// can be written in bracket notation (non-empty, no single quotes).
func (p Path) needsBrackets() bool {
	dotted := false

	for _, segment := range p {
		if segment == "" || strings.Contains(segment, "'") {
			return false
		}

		if strings.Contains(segment, ".") {
			dotted = true
		}
	}

	return dotted
}

// PathList is a priority-ordered list of paths. Earlier paths win.
type PathList []Path

// Strings renders every path with Path.String.
func (l PathList) Strings() []string {
	out := make([]string, len(l))
	for idx, path := range l {
		out[idx] = path.String()
	}

	return out
}

// ParseDotted splits a dot-delimited key into a Path. Segments are never
// collapsed, so "a..b" yields ["a", "", "b"] and "" yields [""].
func ParseDotted(key string) Path {
	return Path(strings.Split(key, "."))
}

// Parse turns a key into a Path. Keys in bracket notation ($['a.b']['c'])
// are parsed as such; anything else, including malformed bracket notation,
// is treated as a dotted key.
func Parse(key string) Path {
	if IsNestedPath(key) {
		if path, err := ParsePath(key); err == nil {
			return path
		}
	}

	return ParseDotted(key)
}

// ParseDottedList splits each key with ParseDotted, preserving order.
// Bracket notation is not recognized.
func ParseDottedList(keys ...string) PathList {
	paths := make(PathList, 0, len(keys))
	for _, key := range keys {
		paths = append(paths, ParseDotted(key))
	}

	return paths
}

// ParseList parses each key with Parse, preserving order.
func ParseList(keys ...string) PathList {
	paths := make(PathList, 0, len(keys))
	for _, key := range keys {
		paths = append(paths, Parse(key))
	}

	return paths
}

// ParsePath parses a JSONPath bracket notation string into a Path.
// Example: ParsePath("$['mailingaddress']['street']") returns
// Path{"mailingaddress", "street"}, nil.
func ParsePath(path string) (Path, error) {
	if path == "" {
		return nil, ErrPathEmpty
	}

	if !IsNestedPath(path) {
		return nil, fmt.Errorf("%w, got: %s", ErrPathMustStartWithDollar, path)
	}

	if emptyMatches := emptySegmentRe.FindAllStringIndex(path, -1); len(emptyMatches) > 0 {
		emptyPos := emptyMatches[0][0]
		segmentNum := 0

		for _, match := range openBracketRe.FindAllStringIndex(path, -1) {
			if match[0] < emptyPos {
				segmentNum++
			}
		}

		return nil, fmt.Errorf("%w: segment %d", ErrPathEmptySegment, segmentNum)
	}

	matches := segmentRe.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPathNoValidSegments, path)
	}

	segments := make(Path, len(matches))
	for idx, match := range matches {
		segments[idx] = match[1]
	}

	// Anything the segment pattern skipped over makes the path invalid.
	if ToNestedPath(segments...) != path {
		return nil, fmt.Errorf("%w: %s", ErrPathInvalidSyntax, path)
	}

	return segments, nil
}

// IsNestedPath checks if a key is written in JSONPath bracket notation.
func IsNestedPath(key string) bool {
	return strings.HasPrefix(key, "$[")
}

// ToNestedPath converts path keys into JSONPath bracket notation.
//
// Examples:
//   - ToNestedPath("address") -> "$['address']"
//   - ToNestedPath("email.primary", "label") -> "$['email.primary']['label']"
func ToNestedPath(keys ...string) string {
	if len(keys) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString("$")

	for _, key := range keys {
		b.WriteString("['")
		b.WriteString(key)
		b.WriteString("']")
	}

	return b.String()
}
