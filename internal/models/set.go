package models

import "sort"

// JSONSet is a duplicate-free sequence. An unsorted set keeps insertion
// order; a sorted one keeps its elements ordered by Compare.
type JSONSet struct {
	items  []JSONValue
	sorted bool
}

// NewSet creates an empty set.
func NewSet(sorted bool) *JSONSet {
	return &JSONSet{sorted: sorted}
}

// Sorted reports whether the set orders its elements.
func (s *JSONSet) Sorted() bool { return s.sorted }

// Add inserts v unless an element of the same type and value is present.
func (s *JSONSet) Add(v JSONValue) bool {
	if s.Contains(v) {
		return false
	}
	if !s.sorted {
		s.items = append(s.items, v)
		return true
	}
	i := sort.Search(len(s.items), func(i int) bool {
		return Compare(s.items[i], v) > 0
	})
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
	return true
}

// Contains reports whether the set holds v.
func (s *JSONSet) Contains(v JSONValue) bool {
	for _, item := range s.items {
		if sameElement(item, v) {
			return true
		}
	}
	return false
}

// Len returns the number of elements.
func (s *JSONSet) Len() int { return len(s.items) }

// Get returns the element at i, or nil when out of range.
func (s *JSONSet) Get(i int) JSONValue {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return s.items[i]
}

// Values returns the elements in iteration order.
func (s *JSONSet) Values() []JSONValue { return s.items }

// String returns the compact JSON form.
func (s *JSONSet) String() string {
	return toString(s)
}

// sameElement is Equal restricted to identical dynamic types, so 1 and 1.0
// are distinct set members.
func sameElement(a, b JSONValue) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	if isNumber(a) && numberType(a) != numberType(b) {
		return false
	}
	return Equal(a, b)
}
