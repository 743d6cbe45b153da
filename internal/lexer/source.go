package lexer

import "strings"

// EOI is the sentinel returned as the current character once the input is
// exhausted.
const EOI = 0x1A

const bom = "\xEF\xBB\xBF"

// source walks the input one byte at a time. Multi-byte UTF-8 sequences are
// only meaningful inside string literals, where they are copied through.
type source struct {
	text string
	bp   int
	ch   byte
}

func (s *source) reset(text string) {
	s.text = text
	s.bp = bomLen(text)
	s.ch = s.charAt(s.bp)
}

// next advances one byte and returns the new current character.
func (s *source) next() byte {
	s.bp++
	if s.bp >= len(s.text) {
		s.bp = len(s.text)
		s.ch = EOI
		return EOI
	}
	s.ch = s.text[s.bp]
	return s.ch
}

func (s *source) charAt(i int) byte {
	if i < 0 || i >= len(s.text) {
		return EOI
	}
	return s.text[i]
}

func (s *source) isEOF() bool {
	return s.bp >= len(s.text)
}

func bomLen(text string) int {
	if strings.HasPrefix(text, bom) {
		return len(bom)
	}
	return 0
}

func isIgnorable(c byte) bool {
	return isWhitespace(c) || c <= 31 || c == 127
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == '\b'
}

// IsDigit reports whether c is an ASCII digit.
func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || IsDigit(c)
}
