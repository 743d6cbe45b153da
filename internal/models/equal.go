package models

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"time"
)

// Equal reports whether two trees hold the same data. Numbers compare by
// mathematical value regardless of width, so int32(150) equals 150.0.
// Objects compare without regard to key order; arrays and sets compare
// element by element.
func Equal(a, b JSONValue) bool {
	if isNumber(a) && isNumber(b) {
		return numbersEqual(a, b)
	}

	switch x := a.(type) {
	case nil:
		return b == nil
	case bool, string:
		return a == b
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case *JSONObject:
		y, ok := b.(*JSONObject)
		return ok && objectsEqual(x, y)
	}

	if sa, ok := asSlice(a); ok {
		sb, ok := asSlice(b)
		if !ok || len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !Equal(sa[i], sb[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func asSlice(v JSONValue) ([]JSONValue, bool) {
	switch s := v.(type) {
	case *JSONArray:
		return s.items, true
	case *JSONSet:
		return s.items, true
	case []JSONValue:
		return s, true
	}
	return nil, false
}

func objectsEqual(a, b *JSONObject) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Len() != b.Len() {
		return false
	}
	for k, va := range a.values {
		vb, ok := b.values[k]
		if !ok || !Equal(va, vb) {
			return false
		}
	}
	return true
}

func numbersEqual(a, b JSONValue) bool {
	ra, okA := toRat(a)
	rb, okB := toRat(b)
	if okA && okB {
		return ra.Cmp(rb) == 0
	}
	// At least one side is NaN or infinite.
	fa, _ := AsFloat64(a)
	fb, _ := AsFloat64(b)
	return !math.IsNaN(fa) && fa == fb
}

// Compare orders two values: null, then booleans, numbers, strings, dates
// and finally anything else by kind. It returns -1, 0 or 1.
func Compare(a, b JSONValue) int {
	ka, kb := rank(a), rank(b)
	if ka != kb {
		return cmpInt(ka, kb)
	}

	switch x := a.(type) {
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case string:
		return strings.Compare(x, b.(string))
	case time.Time:
		return x.Compare(b.(time.Time))
	}

	if ka == rank(int64(0)) {
		ra, okA := toRat(a)
		rb, okB := toRat(b)
		if okA && okB {
			return ra.Cmp(rb)
		}
		fa, _ := AsFloat64(a)
		fb, _ := AsFloat64(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return 0
}

func rank(v JSONValue) int {
	switch KindOf(v) {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindInteger, KindDecimal:
		return 2
	case KindString:
		return 3
	case KindTime:
		return 4
	}
	return 5 + int(KindOf(v))
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
