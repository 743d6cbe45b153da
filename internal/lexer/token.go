package lexer

import "fmt"

// Token is the lexical class of the most recently scanned span.
type Token int

const (
	Error Token = iota + 1
	LiteralInt
	LiteralFloat
	LiteralString
	True
	False
	Null
	NewKeyword
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	Identifier
	EOF
	Set
	TreeSet
	Undefined
	Semi
	Dot
	Hex
)

var tokenNames = [...]string{
	Error:         "error",
	LiteralInt:    "int",
	LiteralFloat:  "float",
	LiteralString: "string",
	True:          "true",
	False:         "false",
	Null:          "null",
	NewKeyword:    "new",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
	Comma:         ",",
	Colon:         ":",
	Identifier:    "ident",
	EOF:           "EOF",
	Set:           "Set",
	TreeSet:       "TreeSet",
	Undefined:     "undefined",
	Semi:          ";",
	Dot:           ".",
	Hex:           "hex",
}

func (t Token) String() string {
	if t > 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("Token(%d)", int(t))
}

// punctuation maps single-byte tokens.
var punctuation = [256]Token{
	'(': LParen,
	')': RParen,
	'{': LBrace,
	'}': RBrace,
	'[': LBracket,
	']': RBracket,
	',': Comma,
	':': Colon,
	';': Semi,
	'.': Dot,
}
