package models

import (
	"github.com/mcncl/jsoncodec/internal/serializer"
)

// KeyText returns the canonical object key for k: strings as they are,
// everything else as its compact JSON text. A nil key becomes "null".
func KeyText(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	s, err := serializer.ToString(k)
	if err != nil {
		return serializer.Fallback(k)
	}
	return s
}

// TransformKeys returns a copy of v with every object key passed through
// fn. Arrays and sets are copied; scalars are shared.
func TransformKeys(v JSONValue, fn func(string) string) JSONValue {
	return RewriteKeys(v, func(k string) (string, bool) { return fn(k), true })
}

// RewriteKeys is TransformKeys where fn may also drop a member by returning
// false.
func RewriteKeys(v JSONValue, fn func(string) (string, bool)) JSONValue {
	switch x := v.(type) {
	case *JSONObject:
		out := NewObjectSize(x.ordered, x.Len())
		x.Range(func(k string, val JSONValue) bool {
			if nk, keep := fn(k); keep {
				out.Put(nk, RewriteKeys(val, fn))
			}
			return true
		})
		return out
	case *JSONArray:
		out := NewArray(x.Len())
		for _, item := range x.items {
			out.Add(RewriteKeys(item, fn))
		}
		return out
	case *JSONSet:
		out := NewSet(x.sorted)
		for _, item := range x.items {
			out.Add(RewriteKeys(item, fn))
		}
		return out
	}
	return v
}

// Walk visits v and its descendants depth first. depth is 0 for v itself.
// Returning false from fn skips the children of the current value.
func Walk(v JSONValue, fn func(key string, v JSONValue, depth int) bool) {
	walk("", v, 0, fn)
}

func walk(key string, v JSONValue, depth int, fn func(string, JSONValue, int) bool) {
	if !fn(key, v, depth) {
		return
	}
	switch x := v.(type) {
	case *JSONObject:
		x.Range(func(k string, child JSONValue) bool {
			walk(k, child, depth+1, fn)
			return true
		})
	default:
		if items, ok := asSlice(v); ok {
			for _, child := range items {
				walk("", child, depth+1, fn)
			}
		}
	}
}
