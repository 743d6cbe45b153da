package lexer

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mcncl/jsoncodec/internal/errors"
	"github.com/mcncl/jsoncodec/internal/symbol"
)

// ScanString consumes a double-quoted string starting at the current '"'.
func (l *Lexer) ScanString() error {
	_, err := l.scanQuoted('"')
	return err
}

// ScanSymbol consumes a string quoted by quote and returns it interned
// through table. A nil table returns the decoded string uninterned.
func (l *Lexer) ScanSymbol(table *symbol.Table, quote byte) (string, error) {
	hash, err := l.scanQuoted(quote)
	if err != nil {
		return "", err
	}
	if table == nil {
		return l.StringVal(), nil
	}
	if l.hasSpecial {
		return table.Intern(l.sbuf, 0, l.sp, hash), nil
	}
	return table.InternString(l.text, l.np+1, l.sp, hash), nil
}

// scanQuoted scans a quoted literal and returns the rolling hash of its
// decoded bytes. Until the first escape the value stays a slice of the
// input; afterwards it is assembled in the scratch buffer.
func (l *Lexer) scanQuoted(quote byte) (uint32, error) {
	l.np = l.bp
	l.hasSpecial = false
	l.sp = 0

	var hash uint32
	for {
		c := l.next()
		if l.isEOF() {
			return 0, errors.NewSyntaxError(errors.UnterminatedString, l.np, "EOF", strconv.QuoteRune(rune(quote)))
		}
		if c == quote {
			break
		}
		if c == '\\' {
			if !l.hasSpecial {
				l.hasSpecial = true
				l.sbuf = append(l.sbuf[:0], l.text[l.np+1:l.np+1+l.sp]...)
			}
			if err := l.scanEscape(); err != nil {
				return 0, err
			}
			for _, b := range l.sbuf[l.sp:] {
				hash = 31*hash + uint32(b)
			}
			l.sp = len(l.sbuf)
			continue
		}
		hash = 31*hash + uint32(c)
		if l.hasSpecial {
			l.sbuf = append(l.sbuf, c)
		}
		l.sp++
	}
	l.next()
	l.token = LiteralString
	return hash, nil
}

// scanEscape decodes the escape sequence whose backslash is the current
// character and leaves the cursor on its last byte.
func (l *Lexer) scanEscape() error {
	at := l.bp
	c := l.next()
	if l.isEOF() {
		return errors.NewSyntaxError(errors.UnterminatedString, l.np, "EOF", `'"'`)
	}

	switch c {
	case '"', '\\', '/':
		l.sbuf = append(l.sbuf, c)
		return nil
	case 'b':
		l.sbuf = append(l.sbuf, '\b')
		return nil
	case 't':
		l.sbuf = append(l.sbuf, '\t')
		return nil
	case 'n':
		l.sbuf = append(l.sbuf, '\n')
		return nil
	case 'f':
		l.sbuf = append(l.sbuf, '\f')
		return nil
	case 'r':
		l.sbuf = append(l.sbuf, '\r')
		return nil
	case 'u':
		return l.scanUnicodeEscape(at)
	}

	if l.Strict {
		return l.badEscape(at)
	}
	switch {
	case c >= '0' && c <= '7':
		l.sbuf = append(l.sbuf, c-'0')
	case c == 'v':
		l.sbuf = append(l.sbuf, '\v')
	case c == 'F':
		l.sbuf = append(l.sbuf, '\f')
	case c == '\'':
		l.sbuf = append(l.sbuf, '\'')
	case c == 'x':
		hi, lo := hexVal(l.next()), hexVal(l.next())
		if hi < 0 || lo < 0 {
			return l.badEscape(at)
		}
		l.sbuf = utf8.AppendRune(l.sbuf, rune(hi<<4|lo))
	default:
		return l.badEscape(at)
	}
	return nil
}

func (l *Lexer) scanUnicodeEscape(at int) error {
	r, ok := l.hex4()
	if !ok {
		return l.badEscape(at)
	}
	if utf16.IsSurrogate(r) && r < 0xDC00 && l.charAt(l.bp+1) == '\\' && l.charAt(l.bp+2) == 'u' {
		l.next()
		l.next()
		lo, ok := l.hex4()
		if !ok {
			return l.badEscape(at)
		}
		if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
			r = pair
		} else {
			l.sbuf = utf8.AppendRune(l.sbuf, utf8.RuneError)
			r = lo
		}
	}
	// Lone surrogates encode as U+FFFD.
	l.sbuf = utf8.AppendRune(l.sbuf, r)
	return nil
}

func (l *Lexer) hex4() (rune, bool) {
	var r rune
	for i := 0; i < 4; i++ {
		v := hexVal(l.next())
		if v < 0 {
			return 0, false
		}
		r = r<<4 | rune(v)
	}
	return r, true
}

func (l *Lexer) badEscape(at int) error {
	end := l.bp + 1
	if end > len(l.text) {
		end = len(l.text)
	}
	return errors.NewSyntaxError(errors.BadEscape, at, strconv.Quote(l.text[at:end]), "")
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func (l *Lexer) isDelimiter() bool {
	switch l.ch {
	case ',', '}', ']', ':', '/':
		return true
	}
	return l.isEOF() || l.ch == EOI || isWhitespace(l.ch)
}

// scanKeyword matches word exactly, followed by a delimiter.
func (l *Lexer) scanKeyword(word string, tok Token) error {
	l.np = l.bp
	for i := 0; i < len(word); i++ {
		if l.ch != word[i] {
			return l.TokenError(errors.UnexpectedCharacter, strconv.Quote(word))
		}
		l.next()
	}
	if !l.isDelimiter() {
		return l.TokenError(errors.UnexpectedCharacter, strconv.Quote(word))
	}
	l.token = tok
	return nil
}

func (l *Lexer) scanNullOrNew() error {
	if l.charAt(l.bp+1) == 'e' {
		return l.scanKeyword("new", NewKeyword)
	}
	return l.scanKeyword("null", Null)
}

func (l *Lexer) scanIdent() error {
	l.np = l.bp
	l.hasSpecial = false
	for isIdentPart(l.next()) {
	}
	l.sp = l.bp - l.np

	switch ident := l.text[l.np:l.bp]; {
	case strings.EqualFold(ident, "null"):
		l.token = Null
	case ident == "new":
		l.token = NewKeyword
	case ident == "true":
		l.token = True
	case ident == "false":
		l.token = False
	case ident == "undefined":
		l.token = Undefined
	case ident == "Set":
		l.token = Set
	case ident == "TreeSet":
		l.token = TreeSet
	default:
		l.token = Identifier
	}
	return nil
}

// scanHex reads x'HH..' into the scratch buffer, one byte per digit pair.
func (l *Lexer) scanHex() error {
	l.np = l.bp
	if l.Strict {
		return l.TokenError(errors.UnexpectedCharacter, "")
	}
	l.next()
	l.sbuf = l.sbuf[:0]
	for {
		c := l.next()
		if l.isEOF() {
			return errors.NewSyntaxError(errors.UnterminatedString, l.np, "EOF", `"'"`)
		}
		if c == '\'' {
			break
		}
		lo := hexVal(l.next())
		hi := hexVal(c)
		if hi < 0 || lo < 0 {
			return l.ErrorAt(errors.UnexpectedCharacter, "hex digit")
		}
		l.sbuf = append(l.sbuf, byte(hi<<4|lo))
	}
	l.next()
	l.sp = len(l.sbuf)
	l.token = Hex
	return nil
}

// HexValue returns a copy of the bytes of the last hex literal.
func (l *Lexer) HexValue() []byte {
	if l.token != Hex {
		return nil
	}
	return bytes.Clone(l.sbuf[:l.sp])
}
