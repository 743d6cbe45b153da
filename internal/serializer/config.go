package serializer

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mcncl/jsoncodec/internal/errors"
)

// Emitter writes one value of a registered type.
type Emitter func(s *Serializer, v any) error

// Mapping is implemented by values that serialize as JSON objects.
type Mapping interface {
	Len() int
	Range(fn func(key string, v any) bool)
}

// Sequence is implemented by values that serialize as JSON arrays.
type Sequence interface {
	Len() int
	Get(i int) any
}

var (
	mappingType   = reflect.TypeOf((*Mapping)(nil)).Elem()
	sequenceType  = reflect.TypeOf((*Sequence)(nil)).Elem()
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textType      = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Config maps runtime types to emitters. Lookups that miss the table are
// resolved by shape (mapping, sequence, reflective map or slice) and the
// decision is memoised. A Config is safe for concurrent use.
type Config struct {
	mu       sync.RWMutex
	emitters map[reflect.Type]Emitter
}

// NewConfig creates a config with the built-in emitters.
func NewConfig() *Config {
	c := &Config{emitters: make(map[reflect.Type]Emitter, 32)}
	c.Register(reflect.TypeOf(false), emitBool)
	for _, v := range []any{int(0), int8(0), int16(0), int32(0), int64(0)} {
		c.Register(reflect.TypeOf(v), emitInt)
	}
	for _, v := range []any{uint(0), uint8(0), uint16(0), uint32(0), uint64(0)} {
		c.Register(reflect.TypeOf(v), emitUint)
	}
	c.Register(reflect.TypeOf(float32(0)), emitFloat32)
	c.Register(reflect.TypeOf(float64(0)), emitFloat64)
	c.Register(reflect.TypeOf(""), emitString)
	c.Register(reflect.TypeOf((*big.Int)(nil)), emitBigInt)
	c.Register(reflect.TypeOf(decimal.Decimal{}), emitDecimal)
	c.Register(reflect.TypeOf(time.Time{}), emitTime)
	c.Register(reflect.TypeOf([]byte(nil)), emitBytes)
	c.Register(reflect.TypeOf(json.Number("")), emitNumber)
	return c
}

var globalConfig = NewConfig()

// GlobalConfig returns the config shared by serializers created without
// WithConfig.
func GlobalConfig() *Config { return globalConfig }

// Register installs e for values whose dynamic type is t.
func (c *Config) Register(t reflect.Type, e Emitter) {
	c.mu.Lock()
	c.emitters[t] = e
	c.mu.Unlock()
}

// Lookup returns the emitter for t, resolving and memoising a miss.
func (c *Config) Lookup(t reflect.Type) (Emitter, bool) {
	return c.lookup(t, zap.NewNop())
}

func (c *Config) lookup(t reflect.Type, logger *zap.Logger) (Emitter, bool) {
	c.mu.RLock()
	e, ok := c.emitters[t]
	c.mu.RUnlock()
	if ok {
		return e, true
	}

	e = resolve(t)
	if e == nil {
		return nil, false
	}
	c.Register(t, e)
	logger.Debug("memoised emitter", zap.Stringer("type", t))
	return e, true
}

// resolve picks an emitter by the shape of t.
func resolve(t reflect.Type) Emitter {
	switch {
	case t.Implements(mappingType):
		return emitMapping
	case t.Implements(sequenceType):
		return emitSequence
	case t.Implements(marshalerType):
		return emitMarshaler
	case t.Implements(textType):
		return emitText
	}

	switch t.Kind() {
	case reflect.Map:
		return emitReflectMap
	case reflect.Slice, reflect.Array:
		return emitReflectSlice
	case reflect.Pointer:
		return emitPointer
	case reflect.Bool:
		return func(s *Serializer, v any) error {
			s.out.WriteBool(reflect.ValueOf(v).Bool())
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(s *Serializer, v any) error {
			s.out.WriteInt(reflect.ValueOf(v).Int())
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(s *Serializer, v any) error {
			s.out.WriteUint(reflect.ValueOf(v).Uint())
			return nil
		}
	case reflect.Float32:
		return func(s *Serializer, v any) error {
			s.out.WriteFloat32(float32(reflect.ValueOf(v).Float()))
			return nil
		}
	case reflect.Float64:
		return func(s *Serializer, v any) error {
			s.out.WriteFloat64(reflect.ValueOf(v).Float())
			return nil
		}
	case reflect.String:
		return func(s *Serializer, v any) error {
			s.out.WriteQuoted(reflect.ValueOf(v).String())
			return nil
		}
	}
	return nil
}

func emitBool(s *Serializer, v any) error {
	s.out.WriteBool(v.(bool))
	return nil
}

func emitInt(s *Serializer, v any) error {
	switch n := v.(type) {
	case int:
		s.out.WriteInt(int64(n))
	case int8:
		s.out.WriteInt(int64(n))
	case int16:
		s.out.WriteInt(int64(n))
	case int32:
		s.out.WriteInt(int64(n))
	case int64:
		s.out.WriteInt(n)
	}
	return nil
}

func emitUint(s *Serializer, v any) error {
	switch n := v.(type) {
	case uint:
		s.out.WriteUint(uint64(n))
	case uint8:
		s.out.WriteUint(uint64(n))
	case uint16:
		s.out.WriteUint(uint64(n))
	case uint32:
		s.out.WriteUint(uint64(n))
	case uint64:
		s.out.WriteUint(n)
	}
	return nil
}

func emitFloat32(s *Serializer, v any) error {
	s.out.WriteFloat32(v.(float32))
	return nil
}

func emitFloat64(s *Serializer, v any) error {
	s.out.WriteFloat64(v.(float64))
	return nil
}

func emitString(s *Serializer, v any) error {
	s.out.WriteQuoted(v.(string))
	return nil
}

func emitBigInt(s *Serializer, v any) error {
	b := v.(*big.Int)
	s.out.reserve(b.BitLen()/3 + 2)
	s.out.buf = b.Append(s.out.buf, 10)
	return nil
}

func emitDecimal(s *Serializer, v any) error {
	s.out.WriteString(v.(decimal.Decimal).String())
	return nil
}

// emitTime writes epoch milliseconds, the form new Date(ms) reads back.
func emitTime(s *Serializer, v any) error {
	s.out.WriteInt(v.(time.Time).UnixMilli())
	return nil
}

func emitBytes(s *Serializer, v any) error {
	s.out.WriteQuoted(base64.StdEncoding.EncodeToString(v.([]byte)))
	return nil
}

func emitNumber(s *Serializer, v any) error {
	n := v.(json.Number)
	if n == "" {
		s.out.WriteChar('0')
		return nil
	}
	s.out.WriteString(string(n))
	return nil
}

func emitMarshaler(s *Serializer, v any) error {
	raw, err := v.(json.Marshaler).MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal %T: %w", v, err)
	}
	_, err = s.out.Write(raw)
	return err
}

func emitText(s *Serializer, v any) error {
	text, err := v.(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return fmt.Errorf("marshal %T: %w", v, err)
	}
	s.out.WriteQuoted(string(text))
	return nil
}

func emitPointer(s *Serializer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.IsNil() {
		s.out.WriteNull()
		return nil
	}
	return s.Write(rv.Elem().Interface())
}

func emitMapping(s *Serializer, v any) error {
	m := v.(Mapping)
	return s.writeObject(v, m.Len(), m.Range)
}

func emitSequence(s *Serializer, v any) error {
	seq := v.(Sequence)
	return s.writeArray(v, seq.Len(), seq.Get)
}

// emitReflectMap writes plain Go maps with their keys sorted so the output
// is deterministic.
func emitReflectMap(s *Serializer, v any) error {
	rv := reflect.ValueOf(v)
	es := make(entries, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		es = append(es, entry{key: mapKey(iter.Key()), value: iter.Value().Interface()})
	}
	sortEntries(es)
	return s.writeObject(v, len(es), es.rangeFn)
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if k.Kind() == reflect.Interface && k.IsNil() {
		return "null"
	}
	s, err := ToString(k.Interface())
	if err != nil {
		return Fallback(k.Interface())
	}
	return s
}

func emitReflectSlice(s *Serializer, v any) error {
	rv := reflect.ValueOf(v)
	return s.writeArray(v, rv.Len(), func(i int) any {
		return rv.Index(i).Interface()
	})
}

func unsupported(v any) error {
	return fmt.Errorf("%w: %T", errors.ErrUnsupportedType, v)
}
