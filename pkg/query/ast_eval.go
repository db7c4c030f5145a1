package query

import (
	"fmt"
	"strings"

	"github.com/terndb/terndb/pkg/storage"
)

// Truth is a three-valued logical result. Predicates over missing or
// null values evaluate to TruthUnknown rather than an error, and only
// TruthTrue keeps a row.
type Truth int

const (
	TruthFalse Truth = iota
	TruthTrue
	TruthUnknown
)

func (t Truth) String() string {
	switch t {
	case TruthTrue:
		return "true"
	case TruthFalse:
		return "false"
	default:
		return "unknown"
	}
}

// truthOf interprets an evaluated value as a logical truth value.
// nil is unknown; any non-boolean value is a type error.
func truthOf(val any) (Truth, error) {
	if val == nil {
		return TruthUnknown, nil
	}
	b, ok := val.(bool)
	if !ok {
		return TruthUnknown, fmt.Errorf("expected a boolean, got %T", val)
	}
	if b {
		return TruthTrue, nil
	}
	return TruthFalse, nil
}

// truthValue converts back to a value for expression results:
// unknown becomes nil.
func truthValue(t Truth) any {
	switch t {
	case TruthTrue:
		return true
	case TruthFalse:
		return false
	default:
		return nil
	}
}

func truthAnd(l, r Truth) Truth {
	if l == TruthFalse || r == TruthFalse {
		return TruthFalse
	}
	if l == TruthUnknown || r == TruthUnknown {
		return TruthUnknown
	}
	return TruthTrue
}

func truthOr(l, r Truth) Truth {
	if l == TruthTrue || r == TruthTrue {
		return TruthTrue
	}
	if l == TruthUnknown || r == TruthUnknown {
		return TruthUnknown
	}
	return TruthFalse
}

func truthNot(t Truth) Truth {
	switch t {
	case TruthTrue:
		return TruthFalse
	case TruthFalse:
		return TruthTrue
	default:
		return TruthUnknown
	}
}

// valueEquals compares two values for equality. A null on either side
// makes the result unknown, so null never equals anything, including
// another null. Integers and floats compare by numeric value. Integer
// pairs compare exactly; going through float64 would collapse values
// above 2^53.
func valueEquals(left, right any) Truth {
	if left == nil || right == nil {
		return TruthUnknown
	}

	li, liok := toInt(left)
	ri, riok := toInt(right)
	if liok && riok {
		if li == ri {
			return TruthTrue
		}
		return TruthFalse
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if lok && rok {
		if lf == rf {
			return TruthTrue
		}
		return TruthFalse
	}

	if left == right {
		return TruthTrue
	}
	return TruthFalse
}

// compareValues orders two values. ok is false when either side is
// null or the values are not comparable, in which case the comparison
// result is unknown.
func compareValues(left, right any) (int, bool) {
	if left == nil || right == nil {
		return 0, false
	}

	li, liok := toInt(left)
	ri, riok := toInt(right)
	if liok && riok {
		switch {
		case li < ri:
			return -1, true
		case li > ri:
			return 1, true
		default:
			return 0, true
		}
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if lok && rok {
		switch {
		case lf < rf:
			return -1, true
		case lf > rf:
			return 1, true
		default:
			return 0, true
		}
	}

	ls, lok := left.(string)
	rs, rok := right.(string)
	if lok && rok {
		return strings.Compare(ls, rs), true
	}

	lb, lok := left.(bool)
	rb, rok := right.(bool)
	if lok && rok {
		switch {
		case lb == rb:
			return 0, true
		case !lb:
			return -1, true
		default:
			return 1, true
		}
	}

	return 0, false
}

// toFloat converts any numeric value to float64 for comparison
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// propertyValue reads a property off a bound node or edge, returning
// nil for missing properties and stored nulls alike.
func propertyValue(entity any, property string) (any, error) {
	switch e := entity.(type) {
	case *storage.Node:
		val, ok := e.Properties[property]
		if !ok {
			return nil, nil
		}
		return val.Native(), nil
	case *storage.Edge:
		val, ok := e.Properties[property]
		if !ok {
			return nil, nil
		}
		return val.Native(), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("cannot read property %q from %T", property, entity)
	}
}
