// Package fields resolves dotted paths against decoded JSON values and
// flattens a value into a path -> leaf map for field discovery.
package fields

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds extraction when the caller has no opinion.
const DefaultMaxDepth = 5

// Lookup walks a dotted path (e.g. "data.items.0.id") through a decoded JSON
// value. Purely numeric segments index arrays, everything else keys objects.
// The second return is false when any segment cannot be applied.
func Lookup(v any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	cur := v
	for _, part := range strings.Split(path, ".") {
		if idx, err := strconv.Atoi(part); err == nil && !strings.HasPrefix(part, "-") {
			arr, ok := cur.([]any)
			if !ok || idx >= len(arr) {
				return nil, false
			}
			cur = arr[idx]
			continue
		}
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Extract flattens a decoded JSON value into a map from dotted path to value.
// Scalars appear once per leaf; containers also get an entry at their own
// path so kind checks can target them. Traversal stops at maxDepth levels
// from the root; deeper paths are simply absent.
func Extract(v any, maxDepth int) map[string]any {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	out := map[string]any{}
	walk(v, "", maxDepth, out)
	return out
}

func walk(v any, prefix string, depth int, out map[string]any) {
	if depth <= 0 {
		return
	}
	switch x := v.(type) {
	case map[string]any:
		for k, vv := range x {
			p := joinPath(prefix, k)
			out[p] = vv
			walk(vv, p, depth-1, out)
		}
	case []any:
		for i, vv := range x {
			p := joinPath(prefix, strconv.Itoa(i))
			out[p] = vv
			walk(vv, p, depth-1, out)
		}
	}
}

func joinPath(prefix, part string) string {
	if prefix == "" {
		return part
	}
	return prefix + "." + part
}

// TypeName reports the JSON kind of a decoded value:
// null, boolean, number, string, array or object.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, int, int64, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
