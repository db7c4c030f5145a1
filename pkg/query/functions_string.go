package query

import (
	"fmt"
	"strings"
)

func init() {
	RegisterFunction("toUpper", fnToUpper)
	RegisterFunction("toLower", fnToLower)
	RegisterFunction("trim", fnTrim)
	RegisterFunction("size", fnSize)
	RegisterFunction("substring", fnSubstring)
	RegisterFunction("replace", fnReplace)
	RegisterFunction("startsWith", fnStartsWith)
	RegisterFunction("endsWith", fnEndsWith)
	RegisterFunction("contains", fnContains)
}

func stringArg(args []any, n int, fname string) (string, bool, error) {
	if args[n] == nil {
		return "", true, nil
	}
	s, ok := args[n].(string)
	if !ok {
		return "", false, fmt.Errorf("%s: argument %d must be a string, got %T", fname, n+1, args[n])
	}
	return s, false, nil
}

func fnToUpper(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("toUpper expects 1 argument, got %d", len(args))
	}
	s, isNull, err := stringArg(args, 0, "toUpper")
	if err != nil || isNull {
		return nil, err
	}
	return strings.ToUpper(s), nil
}

func fnToLower(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("toLower expects 1 argument, got %d", len(args))
	}
	s, isNull, err := stringArg(args, 0, "toLower")
	if err != nil || isNull {
		return nil, err
	}
	return strings.ToLower(s), nil
}

func fnTrim(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("trim expects 1 argument, got %d", len(args))
	}
	s, isNull, err := stringArg(args, 0, "trim")
	if err != nil || isNull {
		return nil, err
	}
	return strings.TrimSpace(s), nil
}

func fnSize(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("size expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return int64(len(v)), nil
	case []any:
		return int64(len(v)), nil
	default:
		return nil, fmt.Errorf("size: argument must be a string or list, got %T", args[0])
	}
}

func fnSubstring(args []any) (any, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, fmt.Errorf("substring expects 2 or 3 arguments, got %d", len(args))
	}
	s, isNull, err := stringArg(args, 0, "substring")
	if err != nil || isNull {
		return nil, err
	}
	start, ok := toInt(args[1])
	if !ok {
		if args[1] == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("substring: start must be an integer")
	}
	if start < 0 || start > int64(len(s)) {
		return nil, fmt.Errorf("substring: start %d out of range", start)
	}
	end := int64(len(s))
	if len(args) == 3 {
		length, ok := toInt(args[2])
		if !ok {
			if args[2] == nil {
				return nil, nil
			}
			return nil, fmt.Errorf("substring: length must be an integer")
		}
		if length < 0 {
			return nil, fmt.Errorf("substring: length must not be negative")
		}
		if start+length < end {
			end = start + length
		}
	}
	return s[start:end], nil
}

func stringPairFn(fname string, pred func(s, sub string) bool) QueryFunction {
	return func(args []any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", fname, len(args))
		}
		s, isNull, err := stringArg(args, 0, fname)
		if err != nil || isNull {
			return nil, err
		}
		sub, isNull, err := stringArg(args, 1, fname)
		if err != nil || isNull {
			return nil, err
		}
		return pred(s, sub), nil
	}
}

var (
	fnStartsWith = stringPairFn("startsWith", strings.HasPrefix)
	fnEndsWith   = stringPairFn("endsWith", strings.HasSuffix)
	fnContains   = stringPairFn("contains", strings.Contains)
)

func fnReplace(args []any) (any, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("replace expects 3 arguments, got %d", len(args))
	}
	s, isNull, err := stringArg(args, 0, "replace")
	if err != nil || isNull {
		return nil, err
	}
	old, isNull, err := stringArg(args, 1, "replace")
	if err != nil || isNull {
		return nil, err
	}
	repl, isNull, err := stringArg(args, 2, "replace")
	if err != nil || isNull {
		return nil, err
	}
	return strings.ReplaceAll(s, old, repl), nil
}
