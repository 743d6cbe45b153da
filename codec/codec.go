// Package codec is the one-call entry point for reading and writing JSON
// value trees.
//
//	v, err := codec.Parse(`{"a":1,"b":[true,false,null]}`)
//	text, err := codec.Serialize(v)
package codec

import (
	"io"
	"reflect"

	"go.uber.org/zap"

	"github.com/mcncl/jsoncodec/internal/config"
	"github.com/mcncl/jsoncodec/internal/errors"
	"github.com/mcncl/jsoncodec/internal/formatter"
	"github.com/mcncl/jsoncodec/internal/models"
	"github.com/mcncl/jsoncodec/internal/parser"
	"github.com/mcncl/jsoncodec/internal/serializer"
	"github.com/mcncl/jsoncodec/internal/symbol"
)

// ParserFeature toggles optional parser behaviour.
type ParserFeature = parser.Feature

// SerializerFeature toggles optional serializer behaviour.
type SerializerFeature = serializer.Feature

const (
	OrderedObjects   = parser.OrderedObjects
	UseBigDecimal    = parser.UseBigDecimal
	RejectExtensions = parser.RejectExtensions

	SortField                      = serializer.SortField
	BrowserCompatible              = serializer.BrowserCompatible
	DisableCircularReferenceDetect = serializer.DisableCircularReferenceDetect
)

// Value trees use these container types.
type (
	Value  = models.JSONValue
	Object = models.JSONObject
	Array  = models.JSONArray
	Set    = models.JSONSet
)

// Emitter writes one value of a registered type. It reaches the output
// through the serializer's Buffer.
type Emitter = serializer.Emitter

// RegisterEmitter installs e for values whose dynamic type is t. It applies
// to every Codec and to the package-level functions.
func RegisterEmitter(t reflect.Type, e Emitter) {
	serializer.GlobalConfig().Register(t, e)
}

// Codec bundles parser and serializer settings.
type Codec struct {
	parserFeatures     ParserFeature
	serializerFeatures SerializerFeature
	indent             int
	symbolTableSize    int
	rewriteKey         func(string) (string, bool)
	logger             *zap.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithParserFeatures replaces the parser feature set.
func WithParserFeatures(f ParserFeature) Option {
	return func(c *Codec) { c.parserFeatures = f }
}

// WithSerializerFeatures replaces the serializer feature set.
func WithSerializerFeatures(f SerializerFeature) Option {
	return func(c *Codec) { c.serializerFeatures = f }
}

// WithIndent sets the spaces per level used by Pretty.
func WithIndent(n int) Option {
	return func(c *Codec) { c.indent = n }
}

// WithSymbolTableSize gives every parse its own key table of n slots
// instead of borrowing a pooled one.
func WithSymbolTableSize(n int) Option {
	return func(c *Codec) { c.symbolTableSize = n }
}

// WithKeyRewrite passes every object key of a parsed tree through fn;
// returning false drops the member.
func WithKeyRewrite(fn func(string) (string, bool)) Option {
	return func(c *Codec) { c.rewriteKey = fn }
}

// WithLogger enables debug records from the parser and serializer.
func WithLogger(l *zap.Logger) Option {
	return func(c *Codec) { c.logger = l }
}

// New returns a Codec with default settings adjusted by opts.
func New(opts ...Option) *Codec {
	c := &Codec{
		parserFeatures: parser.DefaultFeatures,
		indent:         2,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig builds a Codec from loaded configuration.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) *Codec {
	opts := []Option{
		WithParserFeatures(cfg.ParserFeatures()),
		WithSerializerFeatures(cfg.SerializerFeatures()),
		WithIndent(cfg.Formatter.Indent),
	}
	if cfg.Parser.SymbolTableSize != symbol.DefaultSize {
		opts = append(opts, WithSymbolTableSize(cfg.Parser.SymbolTableSize))
	}
	if cfg.HasKeyRules() {
		opts = append(opts, WithKeyRewrite(cfg.RewriteKey))
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	return New(opts...)
}

func (c *Codec) parserOptions() []parser.Option {
	opts := []parser.Option{parser.WithFeatures(c.parserFeatures), parser.WithLogger(c.logger)}
	if c.symbolTableSize > 0 {
		opts = append(opts, parser.WithSymbolTable(symbol.NewTable(c.symbolTableSize, false)))
	}
	return opts
}

func (c *Codec) rewrite(v Value) Value {
	if c.rewriteKey == nil {
		return v
	}
	return models.RewriteKeys(v, c.rewriteKey)
}

// Parse reads one JSON text. Blank input yields nil.
func (c *Codec) Parse(text string) (Value, error) {
	v, err := parser.ParseString(text, c.parserOptions()...)
	if err != nil {
		return nil, err
	}
	return c.rewrite(v), nil
}

// ParseReader reads r to the end and parses it.
func (c *Codec) ParseReader(r io.Reader) (Value, error) {
	v, err := parser.Parse(r, c.parserOptions()...)
	if err != nil {
		return nil, err
	}
	return c.rewrite(v), nil
}

// ParseFile parses the JSON file at path.
func (c *Codec) ParseFile(path string) (Value, error) {
	v, err := parser.ParseFile(path, c.parserOptions()...)
	if err != nil {
		return nil, err
	}
	return c.rewrite(v), nil
}

// Serialize renders v as compact JSON.
func (c *Codec) Serialize(v Value) (string, error) {
	s := serializer.New(serializer.WithFeatures(c.serializerFeatures), serializer.WithLogger(c.logger))
	defer func() { _ = s.Close() }()
	if err := s.Write(v); err != nil {
		return "", errors.NewSerializeError("failed to serialize value", err)
	}
	return s.String(), nil
}

// SerializeTo streams compact JSON for v into w.
func (c *Codec) SerializeTo(w io.Writer, v Value) error {
	s := serializer.NewWriter(w, serializer.WithFeatures(c.serializerFeatures), serializer.WithLogger(c.logger))
	if err := s.Write(v); err != nil {
		_ = s.Close()
		return errors.NewSerializeError("failed to serialize value", err)
	}
	if err := s.Close(); err != nil {
		return errors.NewOutputError("failed to write output", err)
	}
	return nil
}

func (c *Codec) formatter() *formatter.Formatter {
	return formatter.NewFormatter(
		formatter.WithIndent(c.indent),
		formatter.WithParserFeatures(c.parserFeatures),
		formatter.WithSerializerFeatures(c.serializerFeatures),
		formatter.WithLogger(c.logger),
	)
}

// Pretty renders v as indented JSON.
func (c *Codec) Pretty(v Value) (string, error) {
	return c.formatter().FormatValue(v)
}

// YAML renders v as a YAML document.
func (c *Codec) YAML(v Value) (string, error) {
	return c.formatter().ToYAML(v)
}

var std = New()

// Parse reads one JSON text with the default features.
func Parse(text string) (Value, error) {
	return std.Parse(text)
}

// ParseWithFeatures reads one JSON text with features f.
func ParseWithFeatures(text string, f ParserFeature) (Value, error) {
	return New(WithParserFeatures(f)).Parse(text)
}

// Serialize renders v as compact JSON.
func Serialize(v Value) (string, error) {
	return std.Serialize(v)
}

// SerializeWithFeatures renders v as compact JSON with features f.
func SerializeWithFeatures(v Value, f SerializerFeature) (string, error) {
	return New(WithSerializerFeatures(f)).Serialize(v)
}

// Pretty renders v as JSON indented by indent spaces per level.
func Pretty(v Value, indent int) (string, error) {
	return New(WithIndent(indent)).Pretty(v)
}
