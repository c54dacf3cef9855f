package state

import (
	"fmt"
	"sort"
	"strings"
)

// Policy selects how a condition compares its value against the state.
// The policy is fixed when the condition is constructed; it is never
// inferred from the state at evaluation time.
type Policy int

const (
	// Equal requires the state value to equal the condition value exactly.
	Equal Policy = iota
	// AtLeast requires a numeric state value >= the condition value.
	AtLeast
	// AtMost requires a numeric state value <= the condition value.
	AtMost
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Equal:
		return "eq"
	case AtLeast:
		return "min"
	case AtMost:
		return "max"
	}
	return "unknown"
}

// ZeroTolerance is the threshold under which an asymptotically decaying
// quantity (hunger, fatigue) counts as reduced to zero.
const ZeroTolerance = 0.05

// Condition is a single requirement on a state.
type Condition struct {
	Key    string `json:"key"`
	Value  any    `json:"value"`
	Policy Policy `json:"policy"`
}

// MinCondition requires state[key] >= value.
func MinCondition(key string, value float64) Condition {
	return Condition{Key: key, Value: value, Policy: AtLeast}
}

// MaxCondition requires state[key] <= value.
func MaxCondition(key string, value float64) Condition {
	return Condition{Key: key, Value: value, Policy: AtMost}
}

// EqualsCondition requires state[key] == value.
func EqualsCondition(key string, value any) Condition {
	return Condition{Key: key, Value: normalize(value), Policy: Equal}
}

// Met checks the condition against a state. A condition on an absent
// key is unmet under every policy, and the threshold policies are unmet
// when the state value is not numeric.
func (c Condition) Met(s State) bool {
	sv, ok := s[c.Key]
	if !ok {
		return false
	}
	switch c.Policy {
	case AtLeast:
		want, wok := numeric(c.Value)
		have, hok := numeric(sv)
		return wok && hok && have >= want
	case AtMost:
		want, wok := numeric(c.Value)
		have, hok := numeric(sv)
		return wok && hok && have <= want
	default:
		return valueEqual(sv, c.Value)
	}
}

// String returns a compact key/policy/value form, e.g. "energy min 0.1".
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %v", c.Key, c.Policy, c.Value)
}

// ConditionSet is an ordered collection of conditions, all of which
// must hold for the set to be satisfied.
type ConditionSet []Condition

// Preconditions builds a condition set from a raw requirement map using
// the operator precondition rule: a numeric value is a minimum
// threshold, any other value requires exact equality.
func Preconditions(req map[string]any) ConditionSet {
	set := make(ConditionSet, 0, len(req))
	for _, k := range sortedMapKeys(req) {
		v := req[k]
		if f, ok := numeric(v); ok {
			set = append(set, MinCondition(k, f))
		} else {
			set = append(set, EqualsCondition(k, v))
		}
	}
	return set
}

// GoalConditions builds a condition set from a raw goal map using the
// goal satisfaction rule: a numeric target of zero means "driven below
// ZeroTolerance", a positive numeric target is a minimum threshold, and
// everything else (booleans, strings, negative numbers) requires exact
// equality.
func GoalConditions(goal map[string]any) ConditionSet {
	set := make(ConditionSet, 0, len(goal))
	for _, k := range sortedMapKeys(goal) {
		v := goal[k]
		f, ok := numeric(v)
		switch {
		case ok && f == 0:
			set = append(set, MaxCondition(k, ZeroTolerance))
		case ok && f > 0:
			set = append(set, MinCondition(k, f))
		default:
			set = append(set, EqualsCondition(k, v))
		}
	}
	return set
}

// Satisfied checks every condition against the state.
func (cs ConditionSet) Satisfied(s State) bool {
	for _, c := range cs {
		if !c.Met(s) {
			return false
		}
	}
	return true
}

// Unmet counts the conditions the state fails. This is the planner's
// heuristic: it ignores interaction between conditions and remaining
// cost magnitude, so it is not admissible.
func (cs ConditionSet) Unmet(s State) int {
	n := 0
	for _, c := range cs {
		if !c.Met(s) {
			n++
		}
	}
	return n
}

// Keys returns the condition keys in set order.
func (cs ConditionSet) Keys() []string {
	keys := make([]string, len(cs))
	for i, c := range cs {
		keys[i] = c.Key
	}
	return keys
}

// Snapshot returns a canonical sorted representation of the set,
// suitable for cache keys. Condition order does not affect the result.
func (cs ConditionSet) Snapshot() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = fmt.Sprintf("%s|%s|%v", c.Key, c.Policy, c.Value)
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

func sortedMapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
