package query

import (
	"fmt"
	"sort"

	"github.com/terndb/terndb/pkg/storage"
)

// buildResults evaluates the RETURN items for each binding and
// applies DISTINCT, ORDER BY, SKIP and LIMIT.
func (e *Executor) buildResults(ret *ReturnClause, bindings []Binding) (*ResultSet, error) {
	columns := make([]string, len(ret.Items))
	for i, item := range ret.Items {
		columns[i] = item.ColumnName()
	}

	rows := make([][]any, 0, len(bindings))
	keys := make([]Binding, 0, len(bindings))
	for _, binding := range bindings {
		row := make([]any, len(ret.Items))
		// ORDER BY can reference aliases, so sort keys evaluate
		// against the binding extended with projected values
		augmented := make(Binding, len(binding)+len(ret.Items))
		for k, v := range binding {
			augmented[k] = v
		}
		for i, item := range ret.Items {
			val, err := item.Expr.EvalValue(binding)
			if err != nil {
				return nil, err
			}
			row[i] = resultValue(val)
			augmented[item.ColumnName()] = val
		}
		rows = append(rows, row)
		keys = append(keys, augmented)
	}

	if ret.Distinct {
		rows, keys = distinctRows(rows, keys)
	}

	if len(ret.OrderBy) > 0 {
		if err := e.orderRows(ret.OrderBy, rows, keys); err != nil {
			return nil, err
		}
	}

	if ret.HasSkip {
		if ret.Skip >= len(rows) {
			rows = rows[:0]
		} else {
			rows = rows[ret.Skip:]
		}
	}
	if ret.HasLimit && ret.Limit < len(rows) {
		rows = rows[:ret.Limit]
	}

	return &ResultSet{
		Columns: columns,
		Rows:    rows,
		Count:   len(rows),
	}, nil
}

// resultValue converts bound entities to plain maps for output
func resultValue(val any) any {
	switch v := val.(type) {
	case *storage.Node:
		props := make(map[string]any, len(v.Properties))
		for key, value := range v.Properties {
			props[key] = value.Native()
		}
		return map[string]any{
			"id":         v.ID,
			"labels":     v.Labels,
			"properties": props,
		}
	case *storage.Edge:
		props := make(map[string]any, len(v.Properties))
		for key, value := range v.Properties {
			props[key] = value.Native()
		}
		return map[string]any{
			"id":         v.ID,
			"type":       v.Type,
			"from":       v.FromNodeID,
			"to":         v.ToNodeID,
			"properties": props,
		}
	default:
		return val
	}
}

// distinctRows removes duplicate rows, keeping first occurrences
func distinctRows(rows [][]any, keys []Binding) ([][]any, []Binding) {
	seen := make(map[string]bool, len(rows))
	outRows := rows[:0]
	outKeys := keys[:0]
	for i, row := range rows {
		key := fmt.Sprintf("%#v", row)
		if seen[key] {
			continue
		}
		seen[key] = true
		outRows = append(outRows, row)
		outKeys = append(outKeys, keys[i])
	}
	return outRows, outKeys
}

// orderRows sorts rows by the ORDER BY keys, evaluated against each
// row's original binding. Nulls sort after every other value, so they
// come last ascending and first descending.
func (e *Executor) orderRows(orderBy []*OrderItem, rows [][]any, keys []Binding) error {
	type sortable struct {
		row  []any
		vals []any
	}

	items := make([]sortable, len(rows))
	for i := range rows {
		vals := make([]any, len(orderBy))
		for j, ob := range orderBy {
			val, err := ob.Expr.EvalValue(keys[i])
			if err != nil {
				return err
			}
			vals[j] = val
		}
		items[i] = sortable{row: rows[i], vals: vals}
	}

	sort.SliceStable(items, func(a, b int) bool {
		for j, ob := range orderBy {
			cmp := orderCompare(items[a].vals[j], items[b].vals[j])
			if ob.Descending {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})

	for i := range items {
		rows[i] = items[i].row
	}
	return nil
}

func orderCompare(left, right any) int {
	if left == nil && right == nil {
		return 0
	}
	if left == nil {
		return 1
	}
	if right == nil {
		return -1
	}
	cmp, ok := compareValues(left, right)
	if !ok {
		return 0
	}
	return cmp
}
