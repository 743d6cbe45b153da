package lexer

import (
	stderrors "errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/valyala/fastjson/fastfloat"

	"github.com/mcncl/jsoncodec/internal/errors"
)

// ScanNumber consumes a numeric literal: optional sign, digits, optional
// fraction and exponent, then an optional type suffix L, S, B, F or D.
func (l *Lexer) ScanNumber() error {
	l.np = l.bp
	l.suffix = 0
	l.hasSpecial = false

	if l.ch == '-' || l.ch == '+' {
		if l.ch == '+' && l.Strict {
			return l.unexpected()
		}
		l.next()
	}
	if !IsDigit(l.ch) {
		return l.ErrorAt(errors.NumberFormat, "digit")
	}
	for IsDigit(l.next()) {
	}

	isFloat := false
	if l.ch == '.' {
		isFloat = true
		if !IsDigit(l.next()) {
			return l.ErrorAt(errors.NumberFormat, "digit")
		}
		for IsDigit(l.next()) {
		}
	}

	switch l.ch {
	case 'L', 'S', 'B':
		if !isFloat {
			if err := l.takeSuffix(); err != nil {
				return err
			}
		}
	case 'F', 'D':
		isFloat = true
		if err := l.takeSuffix(); err != nil {
			return err
		}
	case 'e', 'E':
		isFloat = true
		c := l.next()
		if c == '+' || c == '-' {
			c = l.next()
		}
		if !IsDigit(c) {
			return l.ErrorAt(errors.NumberFormat, "digit")
		}
		for IsDigit(l.next()) {
		}
		if l.ch == 'F' || l.ch == 'D' {
			if err := l.takeSuffix(); err != nil {
				return err
			}
		}
	}

	l.sp = l.bp - l.np
	if isFloat {
		l.token = LiteralFloat
	} else {
		l.token = LiteralInt
	}
	return nil
}

func (l *Lexer) takeSuffix() error {
	if l.Strict {
		return l.ErrorAt(errors.NumberFormat, "")
	}
	l.suffix = l.ch
	l.next()
	return nil
}

// numberText returns the last numeric span without its suffix.
func (l *Lexer) numberText() string {
	s := l.text[l.np : l.np+l.sp]
	if l.suffix != 0 {
		s = s[:len(s)-1]
	}
	return s
}

// IntegerValue materialises the last integer literal. Values that fit in 32
// bits come back as int32, wider ones as int64, and anything beyond the
// 64-bit range as *big.Int. The suffixes L, S and B force int64, int16 and
// int8, truncating like a narrowing conversion.
func (l *Lexer) IntegerValue() (any, error) {
	s := l.numberText()
	v, ok := parseInt64(s)
	if !ok {
		b, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, errors.NewSyntaxError(errors.NumberFormat, l.np, strconv.Quote(s), "integer")
		}
		switch l.suffix {
		case 'L':
			return int64(lowBits(b)), nil
		case 'S':
			return int16(lowBits(b)), nil
		case 'B':
			return int8(lowBits(b)), nil
		}
		return b, nil
	}

	switch l.suffix {
	case 'L':
		return v, nil
	case 'S':
		return int16(v), nil
	case 'B':
		return int8(v), nil
	}
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return int32(v), nil
	}
	return v, nil
}

// parseInt64 accumulates negatively so that MinInt64 needs no special case.
func parseInt64(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	i := 0
	neg := false
	limit := int64(-math.MaxInt64)
	switch s[0] {
	case '-':
		neg = true
		limit = math.MinInt64
		i++
	case '+':
		i++
	}
	if i == len(s) {
		return 0, false
	}

	multmin := limit / 10
	var result int64
	for ; i < len(s); i++ {
		d := int64(s[i] - '0')
		if d < 0 || d > 9 || result < multmin {
			return 0, false
		}
		result *= 10
		if result < limit+d {
			return 0, false
		}
		result -= d
	}
	if neg {
		return result, true
	}
	return -result, true
}

var mask64 = new(big.Int).SetUint64(math.MaxUint64)

// lowBits returns the two's complement low 64 bits of b.
func lowBits(b *big.Int) uint64 {
	return new(big.Int).And(b, mask64).Uint64()
}

// DecimalValue materialises the last float literal. The F suffix yields a
// float32 and D a float64; otherwise exact selects decimal.Decimal over
// float64.
func (l *Lexer) DecimalValue(exact bool) (any, error) {
	s := strings.TrimPrefix(l.numberText(), "+")
	switch {
	case l.suffix == 'F':
		f, err := l.parseFloat(s)
		return float32(f), err
	case l.suffix == 'D':
		return l.parseFloat(s)
	case exact:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, &errors.SyntaxError{Kind: errors.NumberFormat, Pos: l.np, Found: strconv.Quote(s), Err: err}
		}
		return d, nil
	}
	return l.parseFloat(s)
}

func (l *Lexer) parseFloat(s string) (float64, error) {
	f, err := fastfloat.Parse(s)
	if err == nil {
		return f, nil
	}
	// Out-of-range exponents saturate to infinity rather than fail.
	f, err = strconv.ParseFloat(s, 64)
	if err != nil && !stderrors.Is(err, strconv.ErrRange) {
		return 0, &errors.SyntaxError{Kind: errors.NumberFormat, Pos: l.np, Found: strconv.Quote(s), Err: err}
	}
	return f, nil
}
