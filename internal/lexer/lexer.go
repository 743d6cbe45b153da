// Package lexer turns JSON text into tokens.
//
// A Lexer is a cursor over a single input string. After every successful
// NextToken call Token reports the class of the scanned span and the literal
// accessors (StringVal, IntegerValue, DecimalValue, HexValue) decode it on
// demand. Only the most recent literal is retained.
package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/mcncl/jsoncodec/internal/errors"
)

// Lexer scans one input text. It is not safe for concurrent use.
type Lexer struct {
	source

	token Token
	// np is the start of the token being scanned, -1 before the first.
	np int
	// sp is the decoded length of the most recent literal.
	sp         int
	hasSpecial bool
	suffix     byte

	sbuf   []byte
	holder *[]byte

	// Strict rejects everything outside RFC 8259: numeric suffixes, leading
	// '+', single quotes, hex literals and the non-standard escapes.
	Strict bool
}

// New creates a lexer positioned before the first token of text. Call
// NextToken to scan it, and Close when done so the scratch buffer can be
// reused.
func New(text string) *Lexer {
	l := &Lexer{np: -1}
	l.reset(text)
	l.holder = acquireScratch()
	l.sbuf = (*l.holder)[:0]
	return l
}

// Token returns the most recently recognised token.
func (l *Lexer) Token() Token { return l.token }

// Pos returns the byte offset at which the current token starts.
func (l *Lexer) Pos() int { return l.np }

// BP returns the byte offset of the current character.
func (l *Lexer) BP() int { return l.bp }

// Char returns the current character, or EOI at the end of input.
func (l *Lexer) Char() byte { return l.ch }

// Next advances one character and returns it.
func (l *Lexer) Next() byte { return l.next() }

// CharAt returns the byte at index i, or EOI when out of range.
func (l *Lexer) CharAt(i int) byte { return l.charAt(i) }

// IsEOF reports whether the cursor has reached the end of input.
func (l *Lexer) IsEOF() bool { return l.isEOF() }

// Text returns the whole input.
func (l *Lexer) Text() string { return l.text }

// HasSpecial reports whether the last string literal contained an escape.
func (l *Lexer) HasSpecial() bool { return l.hasSpecial }

// NumberSuffix returns the type suffix of the last numeric literal, or 0.
func (l *Lexer) NumberSuffix() byte { return l.suffix }

// ResetStringPosition discards the last decoded literal.
func (l *Lexer) ResetStringPosition() { l.sp = 0 }

// IsBlankInput reports whether the input holds nothing but whitespace after
// an optional byte order mark.
func (l *Lexer) IsBlankInput() bool {
	for i := bomLen(l.text); i < len(l.text); i++ {
		if !isWhitespace(l.text[i]) {
			return false
		}
	}
	return true
}

// SkipWhitespace advances over space, tab, CR, LF, FF and BS.
func (l *Lexer) SkipWhitespace() {
	for isWhitespace(l.ch) {
		l.next()
	}
}

// SkipIgnorable advances over whitespace and the other ASCII control
// characters NextToken skips between tokens.
func (l *Lexer) SkipIgnorable() {
	for !l.isEOF() && isIgnorable(l.ch) {
		l.next()
	}
}

// NextToken scans the next token from the input.
func (l *Lexer) NextToken() error {
	l.sp = 0
	for {
		l.np = l.bp
		if l.isEOF() {
			l.token = EOF
			return nil
		}

		c := l.ch
		switch {
		case c == '"':
			return l.ScanString()
		case c == '\'' && !l.Strict:
			_, err := l.scanQuoted('\'')
			return err
		case IsDigit(c) || c == '-':
			return l.ScanNumber()
		case c == '+' && !l.Strict:
			return l.ScanNumber()
		case c == 't':
			return l.scanKeyword("true", True)
		case c == 'f':
			return l.scanKeyword("false", False)
		case c == 'n':
			return l.scanNullOrNew()
		case c == 'x' && l.charAt(l.bp+1) == '\'':
			return l.scanHex()
		case isIdentStart(c):
			return l.scanIdent()
		case punctuation[c] != 0:
			l.token = punctuation[c]
			l.next()
			return nil
		case isIgnorable(c):
			l.next()
			continue
		default:
			return l.unexpected()
		}
	}
}

// NextTokenExpect scans the next token, short-circuiting when the upcoming
// character matches what the caller expects. The token produced is the same
// as NextToken would produce.
func (l *Lexer) NextTokenExpect(expect Token) error {
	l.sp = 0
	for {
		l.np = l.bp
		c := l.ch
		switch expect {
		case LBrace:
			if c == '{' || c == '[' {
				return l.single()
			}
		case Comma:
			if c == ',' || c == '}' || c == ']' || c == '{' {
				return l.single()
			}
			if l.isEOF() {
				l.token = EOF
				return nil
			}
		case LiteralInt:
			if IsDigit(c) || c == '-' {
				return l.ScanNumber()
			}
			if c == '"' {
				return l.ScanString()
			}
			if c == ',' || c == '[' || c == ']' || c == '{' || c == '}' {
				return l.single()
			}
		case LiteralString:
			if c == '"' {
				return l.ScanString()
			}
			if IsDigit(c) || c == '-' {
				return l.ScanNumber()
			}
			if c == '[' || c == ']' || c == '{' || c == '}' || c == ',' {
				return l.single()
			}
		case LBracket:
			if c == '[' || c == '{' {
				return l.single()
			}
		case RBracket:
			if c == ']' {
				return l.single()
			}
		case EOF:
			if l.isEOF() {
				l.token = EOF
				return nil
			}
		case Identifier:
			if isIdentStart(c) && c != 't' && c != 'f' && c != 'n' && c != 'x' {
				return l.scanIdent()
			}
		}
		if isWhitespace(c) {
			l.next()
			continue
		}
		return l.NextToken()
	}
}

func (l *Lexer) single() error {
	l.token = punctuation[l.ch]
	l.next()
	return nil
}

// StringVal returns the decoded value of the last string or identifier.
func (l *Lexer) StringVal() string {
	if l.hasSpecial {
		return string(l.sbuf[:l.sp])
	}
	start := l.np
	if l.token == LiteralString {
		start++
	}
	return l.text[start : start+l.sp]
}

// Lexeme returns the raw text of the current token.
func (l *Lexer) Lexeme() string {
	if l.np < 0 || l.np >= len(l.text) {
		return l.token.String()
	}
	return l.text[l.np:l.bp]
}

// Close releases the scratch buffer. The lexer must not be used afterwards.
func (l *Lexer) Close() {
	if l.holder == nil {
		return
	}
	releaseScratch(l.holder, l.sbuf)
	l.holder = nil
	l.sbuf = nil
}

// TokenError builds a syntax error of kind at the current token start.
func (l *Lexer) TokenError(kind errors.SyntaxKind, expected string) *errors.SyntaxError {
	pos := l.np
	if pos < 0 {
		pos = l.bp
	}
	return errors.NewSyntaxError(kind, pos, l.describe(pos), expected)
}

// ErrorAt builds a syntax error of kind at the current character.
func (l *Lexer) ErrorAt(kind errors.SyntaxKind, expected string) *errors.SyntaxError {
	return errors.NewSyntaxError(kind, l.bp, l.describe(l.bp), expected)
}

func (l *Lexer) unexpected() error {
	return l.ErrorAt(errors.UnexpectedCharacter, "")
}

// describe renders the character at i for diagnostics.
func (l *Lexer) describe(i int) string {
	if i >= len(l.text) {
		return "EOF"
	}
	r, _ := utf8.DecodeRuneInString(l.text[i:])
	return fmt.Sprintf("%q", r)
}

// Describe renders the current character for diagnostics.
func (l *Lexer) Describe() string { return l.describe(l.bp) }

func (l *Lexer) String() string {
	return fmt.Sprintf("lexer{token=%s pos=%d bp=%d}", l.token, l.np, l.bp)
}
