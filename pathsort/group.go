package pathsort

import "fmt"

// Group is the ordinal category of an extracted value. Lower groups sort first.
type Group int

const (
	// GroupLetter holds values starting with an ASCII letter.
	GroupLetter Group = iota
	// GroupDigit holds values starting with an ASCII digit.
	GroupDigit
	// GroupSymbol holds values starting with anything else, including non-ASCII letters.
	GroupSymbol
	// GroupMissing holds the empty string, i.e. records with no usable value.
	GroupMissing
)

func (g Group) String() string {
	switch g {
	case GroupLetter:
		return "letter"
	case GroupDigit:
		return "digit"
	case GroupSymbol:
		return "symbol"
	case GroupMissing:
		return "missing"
	default:
		return fmt.Sprintf("Group(%d)", int(g))
	}
}

// Classify returns the group of an extracted value. Only the first byte is
// inspected; multi-byte leading runes are never ASCII letters or digits.
func Classify(value string) Group {
	if value == "" {
		return GroupMissing
	}

	switch first := value[0]; {
	case 'a' <= first && first <= 'z', 'A' <= first && first <= 'Z':
		return GroupLetter
	case '0' <= first && first <= '9':
		return GroupDigit
	default:
		return GroupSymbol
	}
}
