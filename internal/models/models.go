// Package models holds the generic value tree produced by the parser and
// consumed by the serializer.
//
// A JSONValue is one of: nil, bool, a signed integer (int8 to int64 or
// *big.Int), a float (float32, float64 or decimal.Decimal), string, time.Time,
// []byte, *JSONArray, *JSONSet or *JSONObject.
package models

import (
	"sort"

	"github.com/mcncl/jsoncodec/internal/serializer"
)

// JSONValue is a generic type to represent any JSON value.
type JSONValue = any

// JSONObject maps string keys to values. An ordered object iterates in
// insertion order; an unordered one iterates its keys sorted. Re-putting an
// existing key replaces the value and keeps its position.
type JSONObject struct {
	values  map[string]JSONValue
	keys    []string
	ordered bool
}

// NewObject creates an empty object.
func NewObject(ordered bool) *JSONObject {
	return NewObjectSize(ordered, 0)
}

// NewObjectSize creates an empty object with room for n entries.
func NewObjectSize(ordered bool, n int) *JSONObject {
	o := &JSONObject{
		values:  make(map[string]JSONValue, n),
		ordered: ordered,
	}
	if ordered {
		o.keys = make([]string, 0, n)
	}
	return o
}

// Ordered reports whether the object preserves insertion order.
func (o *JSONObject) Ordered() bool { return o.ordered }

// Len returns the number of entries.
func (o *JSONObject) Len() int { return len(o.values) }

// Put stores v under key.
func (o *JSONObject) Put(key string, v JSONValue) {
	if _, exists := o.values[key]; !exists && o.ordered {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// PutAny stores v under the textual form of key.
func (o *JSONObject) PutAny(key any, v JSONValue) {
	o.Put(KeyText(key), v)
}

// Get looks key up. Non-string keys fall back to their textual form, so
// Get(1) finds the entry stored under "1".
func (o *JSONObject) Get(key any) (JSONValue, bool) {
	if s, ok := key.(string); ok {
		v, ok := o.values[s]
		return v, ok
	}
	v, ok := o.values[KeyText(key)]
	return v, ok
}

// Value is Get without the presence flag.
func (o *JSONObject) Value(key any) JSONValue {
	v, _ := o.Get(key)
	return v
}

// GetObject returns the nested object under key, or nil.
func (o *JSONObject) GetObject(key any) *JSONObject {
	obj, _ := o.Value(key).(*JSONObject)
	return obj
}

// GetArray returns the nested array under key, or nil.
func (o *JSONObject) GetArray(key any) *JSONArray {
	arr, _ := o.Value(key).(*JSONArray)
	return arr
}

// GetString returns the string under key.
func (o *JSONObject) GetString(key any) (string, bool) {
	s, ok := o.Value(key).(string)
	return s, ok
}

// GetInt64 returns the integer under key, widened to int64.
func (o *JSONObject) GetInt64(key any) (int64, bool) {
	return AsInt64(o.Value(key))
}

// Remove deletes key and reports whether it was present.
func (o *JSONObject) Remove(key string) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	if o.ordered {
		for i, k := range o.keys {
			if k == key {
				o.keys = append(o.keys[:i], o.keys[i+1:]...)
				break
			}
		}
	}
	return true
}

// Keys returns the keys in iteration order.
func (o *JSONObject) Keys() []string {
	if o.ordered {
		return append([]string(nil), o.keys...)
	}
	keys := make([]string, 0, len(o.values))
	for k := range o.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Range calls fn for each entry in iteration order until fn returns false.
func (o *JSONObject) Range(fn func(key string, v JSONValue) bool) {
	keys := o.keys
	if !o.ordered {
		keys = o.Keys()
	}
	for _, k := range keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// String returns the compact JSON form.
func (o *JSONObject) String() string {
	return toString(o)
}

// JSONArray is an indexed, growable sequence of values.
type JSONArray struct {
	items []JSONValue
}

// NewArray creates an empty array with room for n elements.
func NewArray(n int) *JSONArray {
	return &JSONArray{items: make([]JSONValue, 0, n)}
}

// ArrayOf wraps values in an array.
func ArrayOf(values ...JSONValue) *JSONArray {
	return &JSONArray{items: values}
}

// Add appends v.
func (a *JSONArray) Add(v JSONValue) {
	a.items = append(a.items, v)
}

// Set assigns v at index i. Assigning past the end pads with nil.
func (a *JSONArray) Set(i int, v JSONValue) {
	if i < 0 {
		panic("models: negative array index")
	}
	for len(a.items) <= i {
		a.items = append(a.items, nil)
	}
	a.items[i] = v
}

// Get returns the element at i, or nil when i is out of range.
func (a *JSONArray) Get(i int) JSONValue {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Remove deletes the element at i.
func (a *JSONArray) Remove(i int) {
	if i < 0 || i >= len(a.items) {
		return
	}
	a.items = append(a.items[:i], a.items[i+1:]...)
}

// Len returns the number of elements.
func (a *JSONArray) Len() int { return len(a.items) }

// Values returns the backing slice.
func (a *JSONArray) Values() []JSONValue { return a.items }

// String returns the compact JSON form.
func (a *JSONArray) String() string {
	return toString(a)
}

func toString(v JSONValue) string {
	s, err := serializer.ToString(v)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}
