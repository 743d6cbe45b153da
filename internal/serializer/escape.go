package serializer

import "unicode/utf8"

var hexDigit = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// needsEscape reports whether s has a byte that cannot be copied verbatim.
func needsEscape(s string, asciiOnly bool) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == '"' || c == '\\' || c >= utf8.RuneSelf && asciiOnly {
			return true
		}
	}
	return !asciiOnly && !utf8.ValidString(s)
}

// appendQuoted appends s as a JSON string. Control characters, quotes and
// backslashes are always escaped; invalid UTF-8 becomes U+FFFD. asciiOnly
// additionally escapes every rune at or above 0x80.
func appendQuoted(dst []byte, s string, asciiOnly bool) []byte {
	dst = append(dst, '"')
	if !needsEscape(s, asciiOnly) {
		dst = append(dst, s...)
		return append(dst, '"')
	}

	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				dst = append(dst, '\\', '"')
			case '\\':
				dst = append(dst, '\\', '\\')
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			default:
				if c < 0x20 {
					dst = appendUnicodeEscape(dst, rune(c))
				} else {
					dst = append(dst, c)
				}
			}
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case asciiOnly && r > 0xFFFF:
			r1, r2 := surrogates(r)
			dst = appendUnicodeEscape(dst, r1)
			dst = appendUnicodeEscape(dst, r2)
		case asciiOnly:
			dst = appendUnicodeEscape(dst, r)
		case r == utf8.RuneError && size == 1:
			dst = append(dst, "\xef\xbf\xbd"...)
		default:
			dst = append(dst, s[i:i+size]...)
		}
		i += size
	}
	return append(dst, '"')
}

func appendUnicodeEscape(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigit[r>>12&0xF], hexDigit[r>>8&0xF], hexDigit[r>>4&0xF], hexDigit[r&0xF])
}

func surrogates(r rune) (rune, rune) {
	r -= 0x10000
	return 0xD800 + (r>>10)&0x3FF, 0xDC00 + r&0x3FF
}
