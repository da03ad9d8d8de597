package vector

import (
	"fmt"
	"strconv"
)

// Condition is one predicate on a payload field. Exactly one of Match or
// Gte is set.
type Condition struct {
	Field string
	Match *string
	Gte   *float64
}

// Filter is a conjunction of conditions.
type Filter struct {
	Must []Condition
}

// MatchKeyword requires field to equal value exactly.
func MatchKeyword(field, value string) Condition {
	return Condition{Field: field, Match: &value}
}

// AtLeast requires the numeric field to be greater than or equal to lower.
func AtLeast(field string, lower float64) Condition {
	return Condition{Field: field, Gte: &lower}
}

// And returns a filter with c appended.
func (f Filter) And(c ...Condition) Filter {
	must := make([]Condition, 0, len(f.Must)+len(c))
	must = append(must, f.Must...)
	must = append(must, c...)
	return Filter{Must: must}
}

// Validate checks every condition against the declared field indexes.
func (f Filter) Validate(indexes map[string]FieldType) error {
	for _, c := range f.Must {
		t, ok := indexes[c.Field]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, c.Field)
		}
		if c.Gte != nil && t != FieldFloat {
			return fmt.Errorf("%w: range condition on %s field %q", ErrUnknownField, t, c.Field)
		}
	}
	return nil
}

// Matches evaluates the filter against a payload. Keyword matches compare
// the string form of the stored value.
func (f Filter) Matches(payload map[string]any) bool {
	for _, c := range f.Must {
		v, ok := payload[c.Field]
		if !ok {
			return false
		}

		switch {
		case c.Match != nil:
			if Stringify(v) != *c.Match {
				return false
			}
		case c.Gte != nil:
			n, ok := toFloat(v)
			if !ok || n < *c.Gte {
				return false
			}
		}
	}
	return true
}

// Stringify renders a payload or filter value the way keyword indexes
// compare it.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
