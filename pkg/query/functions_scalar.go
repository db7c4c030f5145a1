package query

import (
	"fmt"
	"math"
	"strconv"

	"github.com/terndb/terndb/pkg/storage"
)

func init() {
	RegisterFunction("coalesce", fnCoalesce)
	RegisterFunction("abs", fnAbs)
	RegisterFunction("sign", fnSign)
	RegisterFunction("toInteger", fnToInteger)
	RegisterFunction("toFloat", fnToFloat)
	RegisterFunction("toString", fnToString)
	RegisterFunction("toBoolean", fnToBoolean)
	RegisterFunction("id", fnID)
	RegisterFunction("labels", fnLabels)
}

// coalesce returns the first non-null argument
func fnCoalesce(args []any) (any, error) {
	for _, arg := range args {
		if arg != nil {
			return arg, nil
		}
	}
	return nil, nil
}

func fnAbs(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("abs expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case int64:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	default:
		return nil, fmt.Errorf("abs: argument must be numeric, got %T", args[0])
	}
}

func fnSign(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("sign expects 1 argument, got %d", len(args))
	}
	if args[0] == nil {
		return nil, nil
	}
	f, ok := toFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("sign: argument must be numeric, got %T", args[0])
	}
	switch {
	case f > 0:
		return int64(1), nil
	case f < 0:
		return int64(-1), nil
	default:
		return int64(0), nil
	}
}

func fnToInteger(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("toInteger expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, nil
		}
		return n, nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	default:
		return nil, fmt.Errorf("toInteger: cannot convert %T", args[0])
	}
}

func fnToFloat(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("toFloat expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil
		}
		return f, nil
	default:
		return nil, fmt.Errorf("toFloat: cannot convert %T", args[0])
	}
}

func fnToString(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("toString expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return nil, fmt.Errorf("toString: cannot convert %T", args[0])
	}
}

func fnToBoolean(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("toBoolean expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, nil
		}
		return b, nil
	default:
		return nil, fmt.Errorf("toBoolean: cannot convert %T", args[0])
	}
}

// id returns the internal identifier of a node or edge
func fnID(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("id expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case *storage.Node:
		return int64(v.ID), nil
	case *storage.Edge:
		return int64(v.ID), nil
	default:
		return nil, fmt.Errorf("id: argument must be a node or edge, got %T", args[0])
	}
}

// labels returns a node's labels as a list
func fnLabels(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("labels expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case *storage.Node:
		out := make([]any, len(v.Labels))
		for i, l := range v.Labels {
			out[i] = l
		}
		return out, nil
	default:
		return nil, fmt.Errorf("labels: argument must be a node, got %T", args[0])
	}
}
