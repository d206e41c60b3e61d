package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Path is a dotted field path into a decoded JSON document (e.g. data.items or profile.name).
// Numeric parts index into arrays.
type Path struct {
	Parts []string
}

// ParsePath splits a dotted path. The empty string is the root path.
func ParsePath(s string) Path {
	s = strings.Trim(strings.TrimSpace(s), ".")
	if s == "" {
		return Path{}
	}
	return Path{Parts: strings.Split(s, ".")}
}

// String returns the dotted notation
func (p Path) String() string {
	return strings.Join(p.Parts, ".")
}

// IsRoot reports whether the path has no parts
func (p Path) IsRoot() bool {
	return len(p.Parts) == 0
}

// decode parses raw JSON bytes or strings; anything else is assumed decoded already
func decode(value any) (any, error) {
	var parsed any
	switch v := value.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case []byte:
		if err := json.Unmarshal(v, &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		parsed = v
	}
	return parsed, nil
}

// GetValueAtPath retrieves the value at path
func GetValueAtPath(value any, path Path) (any, error) {
	current, err := decode(value)
	if err != nil {
		return nil, err
	}

	for _, part := range path.Parts {
		switch curr := current.(type) {
		case map[string]any:
			val, ok := curr[part]
			if !ok {
				return nil, fmt.Errorf("key '%s' not found", part)
			}
			current = val
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid array index: %s", part)
			}
			if idx < 0 || idx >= len(curr) {
				return nil, fmt.Errorf("array index out of bounds: %d", idx)
			}
			current = curr[idx]
		default:
			return nil, fmt.Errorf("cannot traverse into %T", curr)
		}
	}

	return current, nil
}

// scalarString renders a JSON leaf as a label or value; objects, arrays and null are rejected
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	case json.Number:
		return val.String(), true
	case int:
		return strconv.Itoa(val), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}

// ErrNotAList is returned when the items of a response cannot be found
var ErrNotAList = errors.New("response items are not a list")

func errNotAList(path string) error {
	return fmt.Errorf("%w at %s", ErrNotAList, path)
}
