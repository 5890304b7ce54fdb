package jsonpath

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/amp-labs/propsort/optional"
)

// Resolve walks path through record one segment at a time and returns the value
// found at the end. The walk stops with None as soon as a key is missing, a value
// is nil, or a value does not support key lookup. Resolve never fails.
//
// Key lookup is supported on:
//   - maps with string keys (map[string]any and any other string-keyed map)
//   - structs and pointers to structs (json tag name first, then field name)
//   - slices and arrays (the segment must be a canonical base-10 index)
func Resolve(record any, path Path) optional.Value[any] {
	current := present(record)

	for _, segment := range path {
		current = optional.FlatMap(current, func(value any) optional.Value[any] {
			return lookup(value, segment)
		})

		if current.Empty() {
			return current
		}
	}

	return current
}

// ResolveFirst resolves each path in order and returns the first result for
// which accept returns true. Later paths are not resolved once one is accepted.
func ResolveFirst(record any, paths PathList, accept func(any) bool) optional.Value[any] {
	found := optional.None[any]()

	for _, path := range paths {
		found = found.OrElseFunc(func() optional.Value[any] {
			return Resolve(record, path).Filter(accept)
		})
	}

	return found
}

// present wraps a value, treating nil and nil-ish values as absent.
func present(value any) optional.Value[any] {
	if isNilish(value) {
		return optional.None[any]()
	}

	return optional.Some(value)
}

// isNilish returns true if the value is a literal nil
// or if it points to something with a nil value.
func isNilish(val any) bool {
	if val == nil {
		return true
	}

	valOf := reflect.ValueOf(val)

	switch valOf.Kind() { //nolint:exhaustive
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer,
		reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return valOf.IsNil()
	}

	return false
}

func lookup(value any, key string) optional.Value[any] {
	// Fast paths for the shapes produced by encoding/json and yaml.v3.
	switch typed := value.(type) {
	case map[string]any:
		child, ok := typed[key]
		if !ok {
			return optional.None[any]()
		}

		return present(child)
	case []any:
		idx, ok := index(key, len(typed))
		if !ok {
			return optional.None[any]()
		}

		return present(typed[idx])
	}

	return lookupReflect(reflect.ValueOf(value), key)
}

func lookupReflect(val reflect.Value, key string) optional.Value[any] {
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return optional.None[any]()
		}

		val = val.Elem()
	}

	switch val.Kind() { //nolint:exhaustive
	case reflect.Map:
		mapKey, ok := mapKeyFor(val.Type().Key(), key)
		if !ok {
			return optional.None[any]()
		}

		child := val.MapIndex(mapKey)
		if !child.IsValid() {
			return optional.None[any]()
		}

		return present(child.Interface())
	case reflect.Struct:
		return lookupField(val, key)
	case reflect.Slice, reflect.Array:
		idx, ok := index(key, val.Len())
		if !ok {
			return optional.None[any]()
		}

		return present(val.Index(idx).Interface())
	default:
		return optional.None[any]()
	}
}

// mapKeyFor converts key for maps keyed by a string type or by an interface
// a string satisfies, such as the map[any]any yaml.v3 builds for mixed keys.
func mapKeyFor(keyType reflect.Type, key string) (reflect.Value, bool) {
	switch keyType.Kind() { //nolint:exhaustive
	case reflect.String:
		return reflect.ValueOf(key).Convert(keyType), true
	case reflect.Interface:
		keyVal := reflect.ValueOf(key)

		return keyVal, keyVal.Type().Implements(keyType)
	default:
		return reflect.Value{}, false
	}
}

// lookupField finds an exported struct field by json tag name, then by Go field name.
func lookupField(val reflect.Value, key string) optional.Value[any] {
	typ := val.Type()

	for _, field := range reflect.VisibleFields(typ) {
		if !field.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == key && name != "-" {
			return fieldValue(val, field.Index)
		}
	}

	field, ok := typ.FieldByName(key)
	if !ok || !field.IsExported() {
		return optional.None[any]()
	}

	return fieldValue(val, field.Index)
}

func fieldValue(val reflect.Value, fieldIndex []int) optional.Value[any] {
	// Promoted fields behind a nil embedded pointer are unreachable.
	field, err := val.FieldByIndexErr(fieldIndex)
	if err != nil || !field.CanInterface() {
		return optional.None[any]()
	}

	return present(field.Interface())
}

// index parses a canonical, in-range slice index ("01" and "-1" are rejected).
func index(key string, length int) (int, bool) {
	idx, err := strconv.Atoi(key)
	if err != nil || idx < 0 || idx >= length || strconv.Itoa(idx) != key {
		return 0, false
	}

	return idx, true
}
