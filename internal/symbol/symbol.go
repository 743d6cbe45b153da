// Package symbol provides a fixed-size intern cache for object keys.
//
// The table is open addressed with no chaining: a key lands in the bucket
// hash & (size-1) and a colliding key is returned as a fresh string without
// touching the resident entry. Lookups never lock, so a Table must not be
// written by more than one goroutine at a time. Use Acquire/Release to give
// each worker its own table.
package symbol

import (
	"math/bits"
	"strings"
	"sync"
)

// DefaultSize is the number of buckets used when no size is given.
const DefaultSize = 4096

type entry struct {
	hash  uint32
	value string
	used  bool
}

// Table interns short strings addressed by a caller-computed hash.
type Table struct {
	entries []entry
	mask    uint32
	replace bool
	count   int
}

// NewTable creates a table with size buckets rounded up to a power of two.
// When replace is set a colliding insert evicts the resident entry.
func NewTable(size int, replace bool) *Table {
	if size <= 0 {
		size = DefaultSize
	}
	if size&(size-1) != 0 {
		size = 1 << bits.Len(uint(size))
	}
	return &Table{
		entries: make([]entry, size),
		mask:    uint32(size - 1),
		replace: replace,
	}
}

// Size returns the number of buckets.
func (t *Table) Size() int { return len(t.entries) }

// Len returns the number of occupied buckets.
func (t *Table) Len() int { return t.count }

// Intern returns the interned form of buf[off:off+n].
func (t *Table) Intern(buf []byte, off, n int, hash uint32) string {
	return intern(t, buf, off, n, hash)
}

// InternString returns the interned form of s[off:off+n].
func (t *Table) InternString(s string, off, n int, hash uint32) string {
	return intern(t, s, off, n, hash)
}

func intern[S string | []byte](t *Table, buf S, off, n int, hash uint32) string {
	e := &t.entries[hash&t.mask]
	if !e.used {
		e.hash = hash
		e.value = own(buf, off, n)
		e.used = true
		t.count++
		return e.value
	}
	if e.hash == hash && len(e.value) == n && equal(e.value, buf, off) {
		return e.value
	}
	if t.replace {
		e.hash = hash
		e.value = own(buf, off, n)
		return e.value
	}
	return string(buf[off : off+n])
}

// own copies the slice so a resident entry never pins the caller's input.
func own[S string | []byte](buf S, off, n int) string {
	if s, ok := any(buf).(string); ok {
		return strings.Clone(s[off : off+n])
	}
	return string(buf[off : off+n])
}

func equal[S string | []byte](v string, buf S, off int) bool {
	for i := 0; i < len(v); i++ {
		if v[i] != buf[off+i] {
			return false
		}
	}
	return true
}

// Hash computes h = 31*h + c over s.
func Hash(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = 31*h + uint32(s[i])
	}
	return h
}

// Reset clears every bucket.
func (t *Table) Reset() {
	clear(t.entries)
	t.count = 0
}

var pool = sync.Pool{
	New: func() any { return NewTable(DefaultSize, false) },
}

// Acquire borrows a default-sized table owned by the caller until Release.
func Acquire() *Table {
	return pool.Get().(*Table)
}

// Release hands a table back for reuse by another worker. Interned entries
// survive so hot keys stay warm.
func Release(t *Table) {
	if t == nil || len(t.entries) != DefaultSize || t.replace {
		return
	}
	pool.Put(t)
}
