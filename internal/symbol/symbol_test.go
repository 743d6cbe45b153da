package symbol

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sameString(a, b string) bool {
	return len(a) == len(b) && unsafe.StringData(a) == unsafe.StringData(b)
}

func TestNewTable_RoundsToPowerOfTwo(t *testing.T) {
	tests := []struct {
		size     int
		expected int
	}{
		{0, DefaultSize},
		{-3, DefaultSize},
		{16, 16},
		{17, 32},
		{1000, 1024},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NewTable(tt.size, false).Size())
	}
}

func TestTable_InternReturnsResident(t *testing.T) {
	table := NewTable(64, false)
	src := `{"name":1,"name":2}`

	first := table.InternString(src, 2, 4, Hash("name"))
	second := table.Intern([]byte(src), 11, 4, Hash("name"))

	assert.Equal(t, "name", first)
	assert.True(t, sameString(first, second), "second lookup should return the stored string")
	assert.Equal(t, 1, table.Len())
}

func TestTable_CollisionDoesNotDisplace(t *testing.T) {
	table := NewTable(1, false)

	a := table.InternString("alpha", 0, 5, Hash("alpha"))
	b := table.InternString("beta", 0, 4, Hash("beta"))
	again := table.InternString("alpha", 0, 5, Hash("alpha"))

	assert.Equal(t, "beta", b)
	assert.True(t, sameString(a, again))
	assert.Equal(t, 1, table.Len())
}

func TestTable_CollisionWithReplace(t *testing.T) {
	table := NewTable(1, true)

	a := table.InternString("alpha", 0, 5, Hash("alpha"))
	b := table.InternString("beta", 0, 4, Hash("beta"))
	b2 := table.InternString("beta", 0, 4, Hash("beta"))
	a2 := table.InternString("alpha", 0, 5, Hash("alpha"))

	assert.True(t, sameString(b, b2))
	assert.Equal(t, a, a2)
	assert.False(t, sameString(a, a2))
}

func TestTable_InternCopiesBytes(t *testing.T) {
	table := NewTable(8, false)
	buf := []byte("key")

	s := table.Intern(buf, 0, 3, Hash("key"))
	buf[0] = 'x'

	assert.Equal(t, "key", s)
}

func TestHash(t *testing.T) {
	// Same recurrence as java.lang.String.hashCode
	assert.Equal(t, uint32(0), Hash(""))
	assert.Equal(t, uint32(97), Hash("a"))
	assert.Equal(t, uint32(3373707), Hash("name"))
}

func TestAcquireRelease(t *testing.T) {
	table := Acquire()
	require.NotNil(t, table)
	assert.Equal(t, DefaultSize, table.Size())
	table.InternString("id", 0, 2, Hash("id"))
	Release(table)

	Release(nil)
	Release(NewTable(8, false))
}

func TestTable_Reset(t *testing.T) {
	table := NewTable(8, false)
	table.InternString("id", 0, 2, Hash("id"))
	table.Reset()
	assert.Equal(t, 0, table.Len())
}
