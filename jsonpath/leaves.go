package jsonpath

import (
	"strconv"

	"facette.io/natsort"
)

// Leaves returns the path of every non-container value reachable from record,
// deduplicated and in natural sort order ("items.2" before "items.10").
// Only the generic shapes produced by decoders (map[string]any and []any) are
// walked. Keys containing dots are rendered in bracket notation so the result
// can be fed back into Parse.
func Leaves(records ...any) []string {
	seen := make(map[string]struct{})

	var walk func(value any, prefix Path)

	walk = func(value any, prefix Path) {
		switch typed := value.(type) {
		case map[string]any:
			for key, child := range typed {
				walk(child, append(prefix[:len(prefix):len(prefix)], key))
			}
		case []any:
			for idx, child := range typed {
				walk(child, append(prefix[:len(prefix):len(prefix)], strconv.Itoa(idx)))
			}
		default:
			if len(prefix) > 0 {
				seen[prefix.String()] = struct{}{}
			}
		}
	}

	for _, record := range records {
		walk(record, nil)
	}

	out := make([]string, 0, len(seen))
	for path := range seen {
		out = append(out, path)
	}

	natsort.Sort(out)

	return out
}
