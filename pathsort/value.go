package pathsort

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/amp-labs/propsort/jsonpath"
	"github.com/amp-labs/propsort/optional"
)

type valueKind int

const (
	kindOther valueKind = iota
	kindNumber
	kindString
)

// candidate is a resolved value tagged by how it participates in extraction.
type candidate struct {
	kind valueKind
	text string
}

// FirstUsable returns the first usable value found along paths, or the empty
// string when no path yields one. Numbers are usable regardless of value and
// are rendered canonically; strings are usable when not blank and are returned
// trimmed and lowercased.
func FirstUsable(record any, paths jsonpath.PathList) string {
	return optional.FlatMap(jsonpath.ResolveFirst(record, paths, isUsable), usable).GetOrElse("")
}

func isUsable(value any) bool {
	return usable(value).NonEmpty()
}

func usable(value any) optional.Value[string] {
	found := inspect(value)

	switch found.kind {
	case kindNumber:
		return optional.Some(found.text)
	case kindString:
		trimmed := strings.TrimFunc(found.text, isTrimmable)
		if trimmed == "" {
			return optional.None[string]()
		}

		return optional.Some(strings.ToLower(trimmed))
	default:
		return optional.None[string]()
	}
}

// isTrimmable matches Unicode white space and the byte order mark, which
// JavaScript's String.prototype.trim also strips.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// inspect is the single place where a resolved value's dynamic type is examined.
func inspect(value any) candidate {
	switch typed := value.(type) {
	case string:
		return candidate{kind: kindString, text: typed}
	case json.Number:
		f, err := strconv.ParseFloat(typed.String(), 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return candidate{kind: kindNumber, text: formatFloat(f, 64)}
		}

		return candidate{kind: kindString, text: typed.String()}
	case float64:
		return candidate{kind: kindNumber, text: formatFloat(typed, 64)}
	case int:
		return candidate{kind: kindNumber, text: strconv.Itoa(typed)}
	}

	val := reflect.ValueOf(value)

	switch val.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return candidate{kind: kindNumber, text: strconv.FormatInt(val.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return candidate{kind: kindNumber, text: strconv.FormatUint(val.Uint(), 10)}
	case reflect.Float32:
		return candidate{kind: kindNumber, text: formatFloat(val.Float(), 32)}
	case reflect.Float64:
		return candidate{kind: kindNumber, text: formatFloat(val.Float(), 64)}
	case reflect.String:
		return candidate{kind: kindString, text: val.String()}
	case reflect.Pointer:
		if val.IsNil() {
			return candidate{kind: kindOther}
		}

		return inspect(val.Elem().Interface())
	default:
		return candidate{kind: kindOther}
	}
}

// formatFloat renders f the way a JavaScript engine prints a number: the
// shortest round-trip digits, plain notation inside [1e-6, 1e21), exponent
// notation without zero padding outside it.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}

	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, bitSize), "e")

	return mantissa + "e" + exponent[:1] + strings.TrimLeft(exponent[1:], "0")
}
