// Package state implements the symbolic fact store used by the planner.
// A state maps fact keys to scalar values (booleans, numbers, strings),
// with explicit comparison policies for conditions and explicit modes
// for effects.
package state

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
)

// State represents a snapshot of world facts.
// It maps fact keys to scalar values. Numeric values are normalized
// to float64 so that integer and floating inputs compare equal.
type State map[string]any

// New creates a state from a raw fact map, normalizing numeric values.
func New(facts map[string]any) State {
	s := make(State, len(facts))
	for k, v := range facts {
		s[k] = normalize(v)
	}
	return s
}

// Copy creates a deep copy of the state.
func (s State) Copy() State {
	result := make(State, len(s))
	for k, v := range s {
		result[k] = v
	}
	return result
}

// Equals checks if two states hold identical facts.
func (s State) Equals(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok || !valueEqual(v, ov) {
			return false
		}
	}
	return true
}

// Hash returns a deterministic hash of the state, suitable for
// visited-set keys. Key order does not affect the result.
func (s State) Hash() string {
	keys := s.SortedKeys()
	h := sha256.New()
	buf := make([]byte, 8)
	for _, k := range keys {
		h.Write([]byte(k))
		switch v := s[k].(type) {
		case float64:
			h.Write([]byte{'f'})
			binary.BigEndian.PutUint64(buf, math.Float64bits(v))
			h.Write(buf)
		case bool:
			if v {
				h.Write([]byte{'b', 1})
			} else {
				h.Write([]byte{'b', 0})
			}
		case string:
			h.Write([]byte{'s'})
			h.Write([]byte(v))
		default:
			h.Write([]byte{'?'})
			fmt.Fprintf(h, "%v", v)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// String returns a human-readable representation.
func (s State) String() string {
	keys := s.SortedKeys()
	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", k, s[k]))
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, ", ")
}

// SortedKeys returns fact keys in sorted order.
func (s State) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value for a key and whether it is present.
func (s State) Get(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// Number returns the numeric value for a key. The second result is
// false when the key is absent or holds a non-numeric value.
func (s State) Number(key string) (float64, bool) {
	v, ok := s[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Flag returns true when the key holds the boolean true.
func (s State) Flag(key string) bool {
	v, ok := s[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Set stores a value, normalizing numerics.
func (s State) Set(key string, value any) {
	s[key] = normalize(value)
}

// normalize converts any numeric kind to float64. Booleans and strings
// pass through: a boolean never becomes a number here.
func normalize(v any) any {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return v
	}
}

// valueEqual compares two fact values after numeric normalization.
// Values of different kinds are never equal.
func valueEqual(a, b any) bool {
	return normalize(a) == normalize(b)
}

// numeric reports whether a raw value is a number.
func numeric(v any) (float64, bool) {
	f, ok := normalize(v).(float64)
	return f, ok
}
