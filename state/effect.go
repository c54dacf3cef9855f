package state

import "fmt"

// EffectMode selects how an effect writes its value into the state.
// Like comparison policies, the mode is fixed at construction.
type EffectMode int

const (
	// Additive adds a numeric delta to the current value. When the key
	// is absent or holds a non-numeric value, the delta is assigned
	// directly (first-time counters start at the delta).
	Additive EffectMode = iota
	// Assign overwrites the value.
	Assign
)

// String returns the mode name.
func (m EffectMode) String() string {
	if m == Assign {
		return "assign"
	}
	return "add"
}

// Effect is a single state change produced by an action.
type Effect struct {
	Key   string     `json:"key"`
	Value any        `json:"value"`
	Mode  EffectMode `json:"mode"`
}

// AddEffect builds an additive numeric effect.
func AddEffect(key string, delta float64) Effect {
	return Effect{Key: key, Value: delta, Mode: Additive}
}

// AssignEffect builds a direct-assignment effect.
func AssignEffect(key string, value any) Effect {
	return Effect{Key: key, Value: normalize(value), Mode: Assign}
}

// Effects builds an effect set from a raw effect map using the effect
// application rule: numeric values are additive deltas, everything else
// is assigned directly.
func Effects(eff map[string]any) EffectSet {
	set := make(EffectSet, 0, len(eff))
	for _, k := range sortedMapKeys(eff) {
		v := eff[k]
		if f, ok := numeric(v); ok {
			set = append(set, AddEffect(k, f))
		} else {
			set = append(set, AssignEffect(k, v))
		}
	}
	return set
}

// String returns a compact form, e.g. "energy add -0.05".
func (e Effect) String() string {
	return fmt.Sprintf("%s %s %v", e.Key, e.Mode, e.Value)
}

// EffectSet is an ordered collection of effects.
type EffectSet []Effect

// Apply returns a new state with every effect applied in order.
// The input state is never mutated.
func (es EffectSet) Apply(s State) State {
	result := s.Copy()
	for _, e := range es {
		switch e.Mode {
		case Additive:
			delta, _ := numeric(e.Value)
			if have, ok := result.Number(e.Key); ok {
				result[e.Key] = have + delta
			} else {
				result[e.Key] = delta
			}
		default:
			result[e.Key] = normalize(e.Value)
		}
	}
	return result
}
