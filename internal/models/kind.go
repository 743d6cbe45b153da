package models

import (
	"math"
	"math/big"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a JSONValue.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindDecimal
	KindString
	KindArray
	KindObject
	KindTime
	KindBytes
	KindUnknown
)

var kindNames = [...]string{
	KindNull:    "null",
	KindBool:    "boolean",
	KindInteger: "integer",
	KindDecimal: "decimal",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
	KindTime:    "date",
	KindBytes:   "bytes",
	KindUnknown: "unknown",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindOf classifies v.
func KindOf(v JSONValue) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, *big.Int:
		return KindInteger
	case float32, float64, decimal.Decimal:
		return KindDecimal
	case string:
		return KindString
	case *JSONArray, *JSONSet, []JSONValue:
		return KindArray
	case *JSONObject, map[string]JSONValue:
		return KindObject
	case time.Time:
		return KindTime
	case []byte:
		return KindBytes
	}
	return KindUnknown
}

func isNumber(v JSONValue) bool {
	k := KindOf(v)
	return k == KindInteger || k == KindDecimal
}

func numberType(v JSONValue) reflect.Type {
	return reflect.TypeOf(v)
}

// AsInt64 widens any integer value to int64. It fails for floats, for
// *big.Int values outside the int64 range and for uint64 values above
// math.MaxInt64.
func AsInt64(v JSONValue) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case *big.Int:
		if n != nil && n.IsInt64() {
			return n.Int64(), true
		}
	}
	return 0, false
}

// AsFloat64 converts any numeric value to float64, losing precision for
// big values.
func AsFloat64(v JSONValue) (float64, bool) {
	if i, ok := AsInt64(v); ok {
		return float64(i), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case decimal.Decimal:
		return n.InexactFloat64(), true
	case *big.Int:
		if n == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	case uint64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}

// toRat converts a finite number to an exact rational.
func toRat(v JSONValue) (*big.Rat, bool) {
	if i, ok := AsInt64(v); ok {
		return new(big.Rat).SetInt64(i), true
	}
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, false
		}
		return new(big.Rat).SetInt(n), true
	case uint64:
		return new(big.Rat).SetUint64(n), true
	case uint:
		return new(big.Rat).SetUint64(uint64(n)), true
	case float32:
		return floatRat(float64(n))
	case float64:
		return floatRat(n)
	case decimal.Decimal:
		return n.Rat(), true
	}
	return nil, false
}

func floatRat(f float64) (*big.Rat, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return new(big.Rat).SetFloat64(f), true
}
