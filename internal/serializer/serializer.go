// Package serializer renders value trees as JSON text.
//
// Values are dispatched on their dynamic type through a Config. The built-in
// table covers booleans, every integer and float width, strings, *big.Int,
// decimal.Decimal, time.Time and []byte; anything implementing Mapping or
// Sequence, and plain Go maps and slices, are resolved on first use.
package serializer

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/mcncl/jsoncodec/internal/errors"
)

// Feature toggles serializer behaviour.
type Feature uint32

const (
	// SortField emits object keys in sorted order.
	SortField Feature = 1 << iota
	// BrowserCompatible escapes every non-ASCII rune as \uXXXX.
	BrowserCompatible
	// DisableCircularReferenceDetect skips ancestor tracking.
	DisableCircularReferenceDetect
)

// maxDepth bounds nesting when cycle detection is off.
const maxDepth = 10000

// Option configures a Serializer.
type Option func(*Serializer)

// WithFeatures enables features.
func WithFeatures(f Feature) Option {
	return func(s *Serializer) { s.features |= f }
}

// WithConfig replaces the global emitter table.
func WithConfig(c *Config) Option {
	return func(s *Serializer) { s.config = c }
}

// WithIndent puts every member on its own line, indented by indent per
// level, with a space after each colon.
func WithIndent(indent string) Option {
	return func(s *Serializer) { s.indent = indent }
}

// WithLogger sets the logger used for debug records.
func WithLogger(l *zap.Logger) Option {
	return func(s *Serializer) {
		if l != nil {
			s.logger = l
		}
	}
}

// Serializer writes values into a Buffer. It is not safe for concurrent use.
type Serializer struct {
	out      *Buffer
	config   *Config
	features Feature
	indent   string
	level    int
	depth    int
	logger   *zap.Logger

	ctx  *SerialContext
	refs map[any]*SerialContext
}

// New creates a serializer writing into a pooled buffer.
func New(opts ...Option) *Serializer {
	return newSerializer(NewBuffer(), opts)
}

// NewWriter creates a serializer that streams to w.
func NewWriter(w io.Writer, opts ...Option) *Serializer {
	return newSerializer(NewBufferWriter(w), opts)
}

func newSerializer(out *Buffer, opts []Option) *Serializer {
	s := &Serializer{
		out:    out,
		config: globalConfig,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	out.ASCIIOnly = s.IsEnabled(BrowserCompatible)
	return s
}

// IsEnabled reports whether f is on.
func (s *Serializer) IsEnabled(f Feature) bool {
	return s.features&f != 0
}

// Buffer returns the output buffer.
func (s *Serializer) Buffer() *Buffer { return s.out }

// String returns the text written so far.
func (s *Serializer) String() string { return s.out.String() }

// Context returns the context of the value being written.
func (s *Serializer) Context() *SerialContext { return s.ctx }

// Flush drains buffered output to the attached writer.
func (s *Serializer) Flush() error { return s.out.Flush() }

// Close flushes and releases the buffer.
func (s *Serializer) Close() error {
	if s.out == nil {
		return nil
	}
	err := s.out.Close()
	s.out = nil
	return err
}

// Write emits v.
func (s *Serializer) Write(v any) error {
	if v == nil {
		s.out.WriteNull()
		return nil
	}
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if reflect.ValueOf(v).IsNil() {
			s.out.WriteNull()
			return nil
		}
	}
	e, ok := s.config.lookup(t, s.logger)
	if !ok {
		return unsupported(v)
	}
	return e(s, v)
}

// writeChild emits v under fieldName with a fresh context.
func (s *Serializer) writeChild(v any, fieldName any) error {
	parent := s.ctx
	s.ctx = &SerialContext{Parent: parent, Object: v, FieldName: fieldName}
	err := s.Write(v)
	s.ctx = parent
	return err
}

// enter records owner as an open container and fails if it is already one
// of its own ancestors.
func (s *Serializer) enter(owner any) (func(), error) {
	s.depth++
	if s.depth > maxDepth {
		s.depth--
		return nil, fmt.Errorf("%w: nesting deeper than %d at %s", errors.ErrCycle, maxDepth, s.ctx.Path())
	}
	if s.IsEnabled(DisableCircularReferenceDetect) {
		return func() { s.depth-- }, nil
	}
	key, ok := identity(owner)
	if !ok {
		return func() { s.depth-- }, nil
	}
	if s.refs == nil {
		s.refs = make(map[any]*SerialContext)
	}
	if prev, seen := s.refs[key]; seen {
		s.depth--
		return nil, fmt.Errorf("%w: %s refers back to %s", errors.ErrCycle, s.ctx.Path(), prev.Path())
	}
	s.refs[key] = s.ctx
	return func() {
		delete(s.refs, key)
		s.depth--
	}, nil
}

type mapIdentity struct {
	t reflect.Type
	p uintptr
}

// identity returns a comparable key naming the storage behind v.
func identity(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		return mapIdentity{rv.Type(), rv.Pointer()}, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return nil, false
		}
		return mapIdentity{rv.Type(), rv.Pointer()}, true
	}
	return nil, false
}

func (s *Serializer) newline() {
	if s.indent == "" {
		return
	}
	s.out.WriteChar('\n')
	for i := 0; i < s.level; i++ {
		s.out.WriteString(s.indent)
	}
}

func (s *Serializer) writeObject(owner any, n int, each func(func(string, any) bool)) error {
	if n == 0 {
		s.out.WriteString("{}")
		return nil
	}
	leave, err := s.enter(owner)
	if err != nil {
		return err
	}
	defer leave()

	if s.IsEnabled(SortField) {
		sorted := make(entries, 0, n)
		each(func(k string, v any) bool {
			sorted = append(sorted, entry{key: k, value: v})
			return true
		})
		sortEntries(sorted)
		each = sorted.rangeFn
	}

	s.out.WriteChar('{')
	s.level++
	first := true
	each(func(k string, v any) bool {
		if !first {
			s.out.WriteChar(',')
		}
		first = false
		s.newline()
		s.out.WriteFieldName(k, true)
		if s.indent != "" {
			s.out.WriteChar(' ')
		}
		if v == nil {
			s.out.WriteNull()
			return true
		}
		err = s.writeChild(v, k)
		return err == nil
	})
	s.level--
	if err != nil {
		return err
	}
	s.newline()
	s.out.WriteChar('}')
	return nil
}

func (s *Serializer) writeArray(owner any, n int, get func(int) any) error {
	if n == 0 {
		s.out.WriteString("[]")
		return nil
	}
	leave, err := s.enter(owner)
	if err != nil {
		return err
	}
	defer leave()

	s.out.WriteChar('[')
	s.level++
	for i := 0; i < n; i++ {
		if i > 0 {
			s.out.WriteChar(',')
		}
		s.newline()
		switch v := get(i).(type) {
		case nil:
			s.out.WriteNull()
		case int32:
			s.out.WriteInt(int64(v))
		case int64:
			s.out.WriteInt(v)
		case int:
			s.out.WriteInt(int64(v))
		default:
			if err := s.writeChild(v, i); err != nil {
				s.level--
				return err
			}
		}
	}
	s.level--
	s.newline()
	s.out.WriteChar(']')
	return nil
}

type entry struct {
	key   string
	value any
}

type entries []entry

func (es entries) rangeFn(fn func(string, any) bool) {
	for _, e := range es {
		if !fn(e.key, e.value) {
			return
		}
	}
}

func sortEntries(es []entry) {
	slices.SortStableFunc(es, func(a, b entry) int {
		return strings.Compare(a.key, b.key)
	})
}

// ToString renders v as compact JSON.
func ToString(v any, features ...Feature) (string, error) {
	b, err := Marshal(v, features...)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Marshal renders v as compact JSON.
func Marshal(v any, features ...Feature) ([]byte, error) {
	var f Feature
	for _, x := range features {
		f |= x
	}
	s := New(WithFeatures(f))
	defer s.Close()
	if err := s.Write(v); err != nil {
		return nil, err
	}
	return append([]byte(nil), s.out.Bytes()...), nil
}

// Fallback is the textual form used for values the serializer cannot
// render.
func Fallback(v any) string {
	return fmt.Sprint(v)
}
