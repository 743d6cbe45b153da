package parser

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mcncl/jsoncodec/internal/errors"
	"github.com/mcncl/jsoncodec/internal/lexer"
	"github.com/mcncl/jsoncodec/internal/models"
	"github.com/mcncl/jsoncodec/internal/symbol"
)

// Feature toggles optional parser behaviour.
type Feature uint32

const (
	// OrderedObjects keeps object keys in insertion order.
	OrderedObjects Feature = 1 << iota
	// UseBigDecimal materialises unsuffixed floats as decimal.Decimal.
	UseBigDecimal
	// RejectExtensions turns off every non-standard input form: single
	// quotes, comments-free identifiers such as NaN, suffixed numbers, new
	// Date(...), Set and TreeSet literals, unquoted or non-string keys and
	// stray commas.
	RejectExtensions
)

// DefaultFeatures is used when no WithFeatures option is given.
const DefaultFeatures = OrderedObjects

// Option configures a Parser.
type Option func(*Parser)

// WithFeatures replaces the enabled feature set.
func WithFeatures(f Feature) Option {
	return func(p *Parser) { p.features = f }
}

// WithSymbolTable interns object keys through t instead of a pooled table.
func WithSymbolTable(t *symbol.Table) Option {
	return func(p *Parser) { p.symbols = t }
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// Parser builds a value tree from a single JSON text.
type Parser struct {
	lexer      *lexer.Lexer
	symbols    *symbol.Table
	ownSymbols bool
	features   Feature
	contexts   contextStack
	logger     *zap.Logger
	closed     bool
}

// New returns a parser over text.
func New(text string, opts ...Option) *Parser {
	p := &Parser{
		lexer:    lexer.New(text),
		features: DefaultFeatures,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.symbols == nil {
		p.symbols = symbol.Acquire()
		p.ownSymbols = true
	}
	p.lexer.Strict = p.IsEnabled(RejectExtensions)
	p.contexts = newContextStack(p.logger)
	return p
}

// IsEnabled reports whether f is on.
func (p *Parser) IsEnabled(f Feature) bool { return p.features&f != 0 }

// Lexer exposes the underlying tokenizer.
func (p *Parser) Lexer() *lexer.Lexer { return p.lexer }

// Context returns the innermost open container while parsing.
func (p *Parser) Context() *ParseContext { return p.contexts.Current() }

// Parse reads one value from the input. Blank input yields nil.
func (p *Parser) Parse() (models.JSONValue, error) {
	if err := p.lexer.NextTokenExpect(lexer.LBrace); err != nil {
		return nil, p.fail(err)
	}
	v, err := p.parse(nil)
	if err != nil {
		p.logger.Debug("parse failed", zap.Error(err))
		return nil, err
	}
	return v, nil
}

// Close verifies that the whole input was consumed and releases pooled
// resources. It is safe to call more than once.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	var err error
	if tok := p.lexer.Token(); tok != lexer.EOF {
		err = p.lexer.TokenError(errors.NotClosedText, "EOF")
	}
	p.lexer.Close()
	if p.ownSymbols {
		symbol.Release(p.symbols)
		p.symbols = nil
	}
	return err
}

// fail attaches the current container path to syntax errors that lack one.
func (p *Parser) fail(err error) error {
	if se, ok := errors.AsSyntaxError(err); ok && se.Field == "" && p.contexts.Depth() > 0 {
		se.Field = p.contexts.Path()
	}
	return err
}

// enter opens a context for a container. The error carries no field path,
// which would itself be MaxDepth segments long.
func (p *Parser) enter(object, fieldName any) (contextMark, error) {
	if p.contexts.Depth() >= MaxDepth {
		se := p.lexer.TokenError(errors.UnexpectedToken, fmt.Sprintf("at most %d nested containers", MaxDepth))
		se.Found = "nesting too deep"
		return contextMark{}, se
	}
	saved := p.contexts.mark()
	p.contexts.SetContext(object, fieldName)
	return saved, nil
}

func (p *Parser) unexpected(expected string) error {
	kind := errors.UnexpectedToken
	if p.lexer.Token() == lexer.EOF {
		kind = errors.UnexpectedEOF
	}
	se := p.lexer.TokenError(kind, expected)
	se.Found = p.lexer.Token().String()
	return p.fail(se)
}

func (p *Parser) next() error {
	return p.fail(p.lexer.NextToken())
}

func (p *Parser) nextExpect(tok lexer.Token) error {
	return p.fail(p.lexer.NextTokenExpect(tok))
}

func (p *Parser) strict() bool { return p.lexer.Strict }

func (p *Parser) newObject() *models.JSONObject {
	return models.NewObject(p.IsEnabled(OrderedObjects))
}

func (p *Parser) number() (models.JSONValue, error) {
	var (
		v   any
		err error
	)
	if p.lexer.Token() == lexer.LiteralInt {
		v, err = p.lexer.IntegerValue()
	} else {
		v, err = p.lexer.DecimalValue(p.IsEnabled(UseBigDecimal))
	}
	return v, p.fail(err)
}

// parse dispatches on the current token. fieldName is the key or index the
// value will be stored under.
func (p *Parser) parse(fieldName any) (models.JSONValue, error) {
	l := p.lexer
	switch tok := l.Token(); tok {
	case lexer.LBrace:
		obj := p.newObject()
		if err := p.parseObject(obj, fieldName); err != nil {
			return nil, err
		}
		return obj, nil
	case lexer.LBracket:
		arr := models.NewArray(0)
		if err := p.parseArray(arr.Add, arr, fieldName); err != nil {
			return nil, err
		}
		return arr, nil
	case lexer.Set, lexer.TreeSet:
		if p.strict() {
			return nil, p.unexpected("value")
		}
		set := models.NewSet(tok == lexer.TreeSet)
		if err := p.next(); err != nil {
			return nil, err
		}
		add := func(v models.JSONValue) { set.Add(v) }
		if err := p.parseArray(add, set, fieldName); err != nil {
			return nil, err
		}
		return set, nil
	case lexer.LiteralInt, lexer.LiteralFloat:
		v, err := p.number()
		if err != nil {
			return nil, err
		}
		return v, p.nextExpect(lexer.Comma)
	case lexer.LiteralString:
		s := l.StringVal()
		return s, p.nextExpect(lexer.Comma)
	case lexer.True:
		return true, p.next()
	case lexer.False:
		return false, p.next()
	case lexer.Null:
		return nil, p.next()
	case lexer.Undefined:
		if p.strict() {
			return nil, p.unexpected("value")
		}
		return nil, p.next()
	case lexer.NewKeyword:
		if p.strict() {
			return nil, p.unexpected("value")
		}
		return p.parseDate()
	case lexer.Identifier:
		if !p.strict() && l.StringVal() == "NaN" {
			return nil, p.next()
		}
		return nil, p.unexpected("value")
	case lexer.EOF:
		if l.IsBlankInput() {
			return nil, nil
		}
		return nil, p.unexpected("value")
	default:
		return nil, p.unexpected("value")
	}
}

// parseDate reads new <Identifier>(<millis>).
func (p *Parser) parseDate() (models.JSONValue, error) {
	l := p.lexer
	if err := p.nextExpect(lexer.Identifier); err != nil {
		return nil, err
	}
	if l.Token() != lexer.Identifier {
		return nil, p.unexpected("identifier")
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	if l.Token() != lexer.LParen {
		return nil, p.unexpected("'('")
	}
	if err := p.nextExpect(lexer.LiteralInt); err != nil {
		return nil, err
	}
	if l.Token() != lexer.LiteralInt {
		return nil, p.unexpected("integer")
	}
	v, err := p.number()
	if err != nil {
		return nil, err
	}
	ms, ok := models.AsInt64(v)
	if !ok {
		return nil, p.fail(l.TokenError(errors.NumberFormat, "epoch milliseconds"))
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	if l.Token() != lexer.RParen {
		return nil, p.unexpected("')'")
	}
	return time.UnixMilli(ms), p.nextExpect(lexer.Comma)
}

// parseArray fills a sequence through add. The current token must be '['.
// Runs of commas collapse unless extensions are rejected.
func (p *Parser) parseArray(add func(models.JSONValue), owner any, fieldName any) error {
	l := p.lexer
	if l.Token() != lexer.LBracket {
		return p.unexpected("'['")
	}
	saved, err := p.enter(owner, fieldName)
	if err != nil {
		return err
	}
	defer p.contexts.restore(saved)

	if err := p.nextExpect(lexer.LiteralString); err != nil {
		return err
	}
	for i := 0; ; i++ {
		if l.Token() == lexer.Comma {
			if p.strict() {
				return p.unexpected("value")
			}
			for l.Token() == lexer.Comma {
				if err := p.next(); err != nil {
					return err
				}
			}
		}

		var (
			v   models.JSONValue
			err error
		)
		switch l.Token() {
		case lexer.LiteralInt, lexer.LiteralFloat:
			if v, err = p.number(); err == nil {
				err = p.nextExpect(lexer.Comma)
			}
		case lexer.LiteralString:
			v = l.StringVal()
			err = p.nextExpect(lexer.Comma)
		case lexer.True:
			v = true
			err = p.nextExpect(lexer.Comma)
		case lexer.False:
			v = false
			err = p.nextExpect(lexer.Comma)
		case lexer.Null:
			err = p.nextExpect(lexer.LiteralString)
		case lexer.LBrace:
			obj := p.newObject()
			err = p.parseObject(obj, i)
			v = obj
		case lexer.LBracket:
			nested := models.NewArray(0)
			err = p.parseArray(nested.Add, nested, i)
			v = nested
		case lexer.RBracket:
			if p.strict() && i > 0 {
				return p.unexpected("value")
			}
			return p.nextExpect(lexer.Comma)
		case lexer.EOF:
			return p.fail(l.TokenError(errors.UnclosedContainer, "']'"))
		default:
			v, err = p.parse(i)
		}
		if err != nil {
			return err
		}
		add(v)

		switch l.Token() {
		case lexer.Comma:
			if err := p.nextExpect(lexer.LiteralString); err != nil {
				return err
			}
		case lexer.RBracket:
			return p.nextExpect(lexer.Comma)
		default:
			if p.strict() {
				return p.unexpected("',' or ']'")
			}
		}
	}
}

// parseObject fills obj. The current token is '{', or ',' when called to
// continue an object. Keys and scalar values are read straight from the
// character stream.
func (p *Parser) parseObject(obj *models.JSONObject, fieldName any) error {
	l := p.lexer
	if tok := l.Token(); tok != lexer.LBrace && tok != lexer.Comma {
		return p.unexpected("'{'")
	}
	saved, err := p.enter(obj, fieldName)
	if err != nil {
		return err
	}
	defer p.contexts.restore(saved)

	afterComma := l.Token() == lexer.Comma
	for {
		l.SkipIgnorable()
		key, colonConsumed, done, err := p.parseKey(afterComma)
		if err != nil || done {
			return err
		}
		if !colonConsumed {
			l.Next()
		}
		l.SkipIgnorable()
		l.ResetStringPosition()

		switch ch := l.Char(); {
		case ch == '"':
			if err := l.ScanString(); err != nil {
				return p.fail(err)
			}
			obj.Put(key, l.StringVal())
		case lexer.IsDigit(ch) || ch == '-':
			if err := l.ScanNumber(); err != nil {
				return p.fail(err)
			}
			v, err := p.number()
			if err != nil {
				return err
			}
			obj.Put(key, v)
		default:
			if err := p.next(); err != nil {
				return err
			}
			var v models.JSONValue
			switch l.Token() {
			case lexer.LBrace:
				child := p.newObject()
				err = p.parseObject(child, key)
				v = child
			case lexer.LBracket:
				arr := models.NewArray(0)
				err = p.parseArray(arr.Add, arr, key)
				v = arr
			default:
				v, err = p.parse(key)
			}
			if err != nil {
				return err
			}
			obj.Put(key, v)

			switch l.Token() {
			case lexer.RBrace:
				return p.next()
			case lexer.Comma:
				afterComma = true
				continue
			case lexer.EOF:
				return p.fail(l.TokenError(errors.UnclosedContainer, "'}'"))
			default:
				return p.unexpected("',' or '}'")
			}
		}

		l.SkipIgnorable()
		switch l.Char() {
		case ',':
			l.Next()
			afterComma = true
		case '}':
			l.Next()
			l.ResetStringPosition()
			return p.next()
		default:
			if l.IsEOF() {
				return p.fail(l.ErrorAt(errors.UnclosedContainer, "'}'"))
			}
			return p.fail(l.ErrorAt(errors.UnexpectedCharacter, "',' or '}'"))
		}
	}
}

// parseKey reads an object key and leaves the cursor on the ':' unless
// colonConsumed is set. done reports that the closing '}' was consumed.
func (p *Parser) parseKey(afterComma bool) (key string, colonConsumed, done bool, err error) {
	l := p.lexer
	ch := l.Char()
	switch {
	case ch == '"' || (ch == '\'' && !p.strict()):
		if key, err = l.ScanSymbol(p.symbols, ch); err != nil {
			return "", false, false, p.fail(err)
		}
	case ch == '}':
		if afterComma && p.strict() {
			return "", false, false, p.fail(l.ErrorAt(errors.UnexpectedCharacter, "key"))
		}
		l.Next()
		l.ResetStringPosition()
		return "", false, true, p.next()
	case l.IsEOF():
		return "", false, false, p.fail(l.ErrorAt(errors.UnclosedContainer, "'}'"))
	case ch == ',' || p.strict():
		return "", false, false, p.fail(l.ErrorAt(errors.UnexpectedCharacter, "key"))
	case lexer.IsDigit(ch) || ch == '-':
		if err = l.ScanNumber(); err != nil {
			return "", false, false, p.fail(err)
		}
		v, err := p.number()
		if err != nil {
			return "", false, false, err
		}
		key = models.KeyText(v)
	case ch == '{' || ch == '[':
		if err = p.next(); err != nil {
			return "", false, false, err
		}
		k, err := p.parse(nil)
		if err != nil {
			return "", false, false, err
		}
		if l.Token() != lexer.Colon {
			return "", false, false, p.unexpected("':'")
		}
		return models.KeyText(k), true, false, nil
	default:
		key = "null"
	}

	l.SkipIgnorable()
	if l.Char() != ':' {
		return "", false, false, p.fail(l.ErrorAt(errors.UnexpectedCharacter, "':'"))
	}
	return key, false, false, nil
}

// ParseString parses a complete JSON text.
func ParseString(text string, opts ...Option) (models.JSONValue, error) {
	p := New(text, opts...)
	v, err := p.Parse()
	cerr := p.Close()
	if err != nil {
		return nil, errors.NewParsingError("failed to parse JSON", err)
	}
	if cerr != nil {
		return nil, errors.NewParsingError("unexpected trailing data", cerr)
	}
	return v, nil
}

// Parse reads all of reader and parses it as one JSON text.
func Parse(reader io.Reader, opts ...Option) (models.JSONValue, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	return ParseString(string(data), opts...)
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string, opts ...Option) (models.JSONValue, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", filePath), errors.ErrFileNotFound)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", filePath), err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(fmt.Sprintf("input file '%s' is empty", filePath), errors.ErrFileEmpty)
	}
	return ParseString(string(data), opts...)
}
