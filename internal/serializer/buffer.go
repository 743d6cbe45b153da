package serializer

import (
	"fmt"
	"io"
	"math"
	"sync"
)

const (
	initialBufferSize = 2 << 10
	maxCachedBuffer   = 128 << 10
	defaultChunkSize  = 8 << 10
)

var bufferPool = sync.Pool{
	New: func() any {
		return &Buffer{buf: make([]byte, 0, initialBufferSize)}
	},
}

// Buffer is a growable output buffer with JSON-aware write primitives.
// When an io.Writer is attached the buffer drains to it whenever the next
// write would take it past the chunk size.
type Buffer struct {
	buf   []byte
	w     io.Writer
	chunk int
	err   error

	// ASCIIOnly escapes every non-ASCII rune in quoted strings.
	ASCIIOnly bool
}

// NewBuffer claims a buffer from the pool.
func NewBuffer() *Buffer {
	b := bufferPool.Get().(*Buffer)
	b.buf = b.buf[:0]
	b.w = nil
	b.err = nil
	b.ASCIIOnly = false
	return b
}

// NewBufferWriter claims a buffer that flushes to w.
func NewBufferWriter(w io.Writer) *Buffer {
	b := NewBuffer()
	b.w = w
	b.chunk = defaultChunkSize
	return b
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int { return len(b.buf) }

// Bytes returns the buffered bytes. The slice is only valid until the next
// write.
func (b *Buffer) Bytes() []byte { return b.buf }

// String returns a copy of the buffered bytes.
func (b *Buffer) String() string { return string(b.buf) }

// Reset discards the buffered bytes.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// reserve makes room for n more bytes, draining to the attached writer
// first when that keeps the buffer under its chunk size.
func (b *Buffer) reserve(n int) {
	if b.w != nil && len(b.buf)+n > b.chunk && len(b.buf) > 0 {
		b.drain()
	}
	if cap(b.buf)-len(b.buf) < n {
		grown := make([]byte, len(b.buf), 2*cap(b.buf)+n)
		copy(grown, b.buf)
		b.buf = grown
	}
}

func (b *Buffer) drain() {
	if b.err != nil {
		b.buf = b.buf[:0]
		return
	}
	_, b.err = b.w.Write(b.buf)
	b.buf = b.buf[:0]
}

// WriteChar appends one byte.
func (b *Buffer) WriteChar(c byte) {
	b.buf = append(b.buf, c)
}

// Write appends p. Slices larger than the chunk size go straight to the
// attached writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.w != nil && len(p) > b.chunk {
		b.drain()
		if b.err == nil {
			_, b.err = b.w.Write(p)
		}
		return len(p), b.err
	}
	b.reserve(len(p))
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteString appends s verbatim.
func (b *Buffer) WriteString(s string) (int, error) {
	b.reserve(len(s))
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// WriteNull appends null.
func (b *Buffer) WriteNull() {
	b.reserve(4)
	b.buf = append(b.buf, "null"...)
}

// WriteBool appends true or false.
func (b *Buffer) WriteBool(v bool) {
	b.reserve(5)
	if v {
		b.buf = append(b.buf, "true"...)
	} else {
		b.buf = append(b.buf, "false"...)
	}
}

// WriteInt appends the decimal form of i. The width comes from the size
// table and the digits are filled in place from the right.
func (b *Buffer) WriteInt(i int64) {
	if i == math.MinInt64 {
		b.WriteString("-9223372036854775808")
		return
	}
	if i >= 0 && i < 10 {
		b.reserve(1)
		b.buf = append(b.buf, byte('0'+i))
		return
	}
	neg := i < 0
	u := uint64(i)
	if neg {
		u = uint64(-i)
	}
	size := stringSize(u)
	if neg {
		size++
	}
	b.reserve(size)
	start := len(b.buf)
	b.buf = b.buf[:start+size]
	fillDigits(b.buf[start:start+size], u)
	if neg {
		b.buf[start] = '-'
	}
}

// WriteUint appends the decimal form of u.
func (b *Buffer) WriteUint(u uint64) {
	size := stringSize(u)
	b.reserve(size)
	start := len(b.buf)
	b.buf = b.buf[:start+size]
	fillDigits(b.buf[start:], u)
}

// WriteFloat64 appends f, or null when f is NaN or infinite.
func (b *Buffer) WriteFloat64(f float64) {
	b.writeFloat(f, 64)
}

// WriteFloat32 appends f, or null when f is NaN or infinite.
func (b *Buffer) WriteFloat32(f float32) {
	b.writeFloat(float64(f), 32)
}

func (b *Buffer) writeFloat(f float64, bits int) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		b.WriteNull()
		return
	}
	b.reserve(24)
	b.buf = AppendFloat(b.buf, f, bits)
}

// WriteFieldName appends "key": in one reservation. checkSpecial escapes
// the key; without it the key is copied verbatim.
func (b *Buffer) WriteFieldName(key string, checkSpecial bool) {
	b.reserve(len(key) + 3)
	if checkSpecial {
		b.buf = appendQuoted(b.buf, key, b.ASCIIOnly)
	} else {
		b.buf = append(b.buf, '"')
		b.buf = append(b.buf, key...)
		b.buf = append(b.buf, '"')
	}
	b.buf = append(b.buf, ':')
}

// WriteNullFieldName appends null: for a missing key.
func (b *Buffer) WriteNullFieldName() {
	b.reserve(5)
	b.buf = append(b.buf, "null:"...)
}

// WriteQuoted appends s as a double-quoted JSON string.
func (b *Buffer) WriteQuoted(s string) {
	b.reserve(len(s) + 2)
	b.buf = appendQuoted(b.buf, s, b.ASCIIOnly)
}

// Append writes the textual form of v: strings verbatim, fmt.Stringer via
// String, anything else via fmt.
func (b *Buffer) Append(v any) {
	switch x := v.(type) {
	case nil:
		b.WriteNull()
	case string:
		b.WriteString(x)
	case fmt.Stringer:
		b.WriteString(x.String())
	default:
		b.WriteString(fmt.Sprint(x))
	}
}

// Flush drains the buffer to the attached writer. Without a writer it is a
// no-op.
func (b *Buffer) Flush() error {
	if b.w == nil {
		return nil
	}
	if len(b.buf) > 0 {
		b.drain()
	}
	return b.err
}

// Close flushes and returns the buffer to the pool when it is small enough
// to be worth keeping. The buffer must not be used afterwards.
func (b *Buffer) Close() error {
	err := b.Flush()
	b.w = nil
	if cap(b.buf) <= maxCachedBuffer {
		b.buf = b.buf[:0]
		bufferPool.Put(b)
	}
	return err
}
