package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FilterValue is a raw UI filter value: either a single string or a list of strings
type FilterValue struct {
	scalar string
	list   []string
	isList bool
}

// StringValue wraps a single string
func StringValue(s string) FilterValue {
	return FilterValue{scalar: s}
}

// ListValue wraps a list of strings
func ListValue(items ...string) FilterValue {
	list := make([]string, len(items))
	copy(list, items)
	return FilterValue{list: list, isList: true}
}

// IsList reports whether the value uses the array form
func (v FilterValue) IsList() bool {
	return v.isList
}

// IsEmpty reports an empty string or an empty list
func (v FilterValue) IsEmpty() bool {
	if v.isList {
		return len(v.list) == 0
	}
	return v.scalar == ""
}

// First returns the scalar, or the first list element
func (v FilterValue) First() string {
	if v.isList {
		if len(v.list) == 0 {
			return ""
		}
		return v.list[0]
	}
	return v.scalar
}

// Items returns the value as a list; a scalar becomes a one-element list
func (v FilterValue) Items() []string {
	if v.isList {
		out := make([]string, len(v.list))
		copy(out, v.list)
		return out
	}
	return []string{v.scalar}
}

func (v FilterValue) String() string {
	if v.isList {
		return fmt.Sprintf("%v", v.list)
	}
	return v.scalar
}

// MarshalJSON encodes the value as a JSON string or array
func (v FilterValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

// UnmarshalJSON accepts a JSON string, an array of strings, or null
func (v *FilterValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = FilterValue{}
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("filter value must be a string array: %w", err)
		}
		*v = ListValue(list...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("filter value must be a string: %w", err)
	}
	*v = StringValue(s)
	return nil
}

// GlobalFilterValues maps column keys to raw filter values, preserving insertion order
type GlobalFilterValues struct {
	keys   []string
	values map[string]FilterValue
}

// NewGlobalFilterValues creates an empty value map
func NewGlobalFilterValues() GlobalFilterValues {
	return GlobalFilterValues{values: make(map[string]FilterValue)}
}

// Set stores a value. Re-setting an existing key keeps its position.
func (g *GlobalFilterValues) Set(key string, value FilterValue) {
	if g.values == nil {
		g.values = make(map[string]FilterValue)
	}
	if _, ok := g.values[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.values[key] = value
}

// Get returns the value for key
func (g GlobalFilterValues) Get(key string) (FilterValue, bool) {
	v, ok := g.values[key]
	return v, ok
}

// Delete removes key
func (g *GlobalFilterValues) Delete(key string) {
	if _, ok := g.values[key]; !ok {
		return
	}
	delete(g.values, key)
	for i, k := range g.keys {
		if k == key {
			g.keys = append(g.keys[:i:i], g.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order
func (g GlobalFilterValues) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Len returns the number of entries
func (g GlobalFilterValues) Len() int {
	return len(g.keys)
}

// Each calls fn for every entry in insertion order
func (g GlobalFilterValues) Each(fn func(key string, value FilterValue)) {
	for _, k := range g.keys {
		fn(k, g.values[k])
	}
}

// Clone returns an independent copy
func (g GlobalFilterValues) Clone() GlobalFilterValues {
	out := NewGlobalFilterValues()
	g.Each(func(k string, v FilterValue) {
		out.Set(k, v)
	})
	return out
}

// MarshalJSON encodes the map as a JSON object in insertion order
func (g GlobalFilterValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range g.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := g.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the document's key order
func (g *GlobalFilterValues) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*g = NewGlobalFilterValues()
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("filter values must be a JSON object")
	}

	out := NewGlobalFilterValues()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected filter key token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to decode filter %q: %w", key, err)
		}
		var value FilterValue
		if err := value.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("filter %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*g = out
	return nil
}
