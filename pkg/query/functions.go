package query

import (
	"strings"
	"sync"
)

// QueryFunction is a callable registered by name. Functions receive
// evaluated argument values; a nil argument is a null.
type QueryFunction func(args []any) (any, error)

var (
	functionsMu sync.RWMutex
	functions   = make(map[string]QueryFunction)
)

// RegisterFunction makes a function available to queries. Names are
// case-insensitive. Registering an existing name replaces it.
func RegisterFunction(name string, fn QueryFunction) {
	functionsMu.Lock()
	defer functionsMu.Unlock()
	functions[strings.ToLower(name)] = fn
}

// GetFunction looks up a registered function by name
func GetFunction(name string) (QueryFunction, bool) {
	functionsMu.RLock()
	defer functionsMu.RUnlock()
	fn, ok := functions[strings.ToLower(name)]
	return fn, ok
}
