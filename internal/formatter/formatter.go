package formatter

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsoncodec/internal/errors"
	"github.com/mcncl/jsoncodec/internal/models"
	"github.com/mcncl/jsoncodec/internal/parser"
	"github.com/mcncl/jsoncodec/internal/serializer"
)

const defaultIndent = 2

// Formatter re-renders JSON text as indented JSON or as YAML
type Formatter struct {
	indent         int
	parserFeatures parser.Feature
	features       serializer.Feature
	logger         *zap.Logger
}

// Option configures a Formatter
type Option func(*Formatter)

// WithIndent sets the number of spaces per nesting level
func WithIndent(n int) Option {
	return func(f *Formatter) { f.indent = n }
}

// WithParserFeatures sets the features used when reading input
func WithParserFeatures(pf parser.Feature) Option {
	return func(f *Formatter) { f.parserFeatures = pf }
}

// WithSerializerFeatures sets the features used when writing JSON
func WithSerializerFeatures(sf serializer.Feature) Option {
	return func(f *Formatter) { f.features = sf }
}

// WithLogger passes l down to the parser and serializer
func WithLogger(l *zap.Logger) Option {
	return func(f *Formatter) { f.logger = l }
}

// NewFormatter creates a new Formatter instance
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		indent:         defaultIndent,
		parserFeatures: parser.DefaultFeatures,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format takes JSON text and returns it pretty printed
func (f *Formatter) Format(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	v, err := parser.ParseString(text, parser.WithFeatures(f.parserFeatures), parser.WithLogger(f.logger))
	if err != nil {
		return "", err
	}
	return f.FormatValue(v)
}

// FormatValue pretty prints an already parsed tree
func (f *Formatter) FormatValue(v models.JSONValue) (string, error) {
	s := serializer.New(
		serializer.WithIndent(strings.Repeat(" ", f.indent)),
		serializer.WithFeatures(f.features),
		serializer.WithLogger(f.logger),
	)
	defer func() { _ = s.Close() }()

	if err := s.Write(v); err != nil {
		return "", errors.NewFormatError("failed to format JSON", err)
	}
	return s.String(), nil
}

// ToYAML renders a tree as a YAML document, keeping object key order
func (f *Formatter) ToYAML(v models.JSONValue) (string, error) {
	node, err := f.yamlNode(v, make(map[any]bool))
	if err != nil {
		return "", errors.NewFormatError("failed to convert to YAML", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(max(f.indent, defaultIndent))
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{node}}); err != nil {
		return "", errors.NewFormatError("failed to encode YAML", err)
	}
	if err := enc.Close(); err != nil {
		return "", errors.NewFormatError("failed to encode YAML", err)
	}
	return buf.String(), nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// yamlNode converts one value. open holds the containers on the current
// path so that self-referencing trees fail instead of recursing forever.
func (f *Formatter) yamlNode(v models.JSONValue, open map[any]bool) (*yaml.Node, error) {
	switch x := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case bool:
		if x {
			return scalar("!!bool", "true"), nil
		}
		return scalar("!!bool", "false"), nil
	case string:
		return scalar("!!str", x), nil
	case float32:
		return floatNode(float64(x), 32), nil
	case float64:
		return floatNode(x, 64), nil
	case time.Time:
		return scalar("!!timestamp", x.UTC().Format(time.RFC3339Nano)), nil
	case []byte:
		return scalar("!!binary", base64.StdEncoding.EncodeToString(x)), nil
	case *models.JSONObject:
		if open[x] {
			return nil, fmt.Errorf("%w: object contains itself", errors.ErrCycle)
		}
		open[x] = true
		defer delete(open, x)

		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		x.Range(func(k string, child models.JSONValue) bool {
			var cn *yaml.Node
			if cn, err = f.yamlNode(child, open); err != nil {
				return false
			}
			node.Content = append(node.Content, scalar("!!str", k), cn)
			return true
		})
		return node, err
	}

	switch models.KindOf(v) {
	case models.KindInteger:
		return numberNode("!!int", v)
	case models.KindDecimal:
		return numberNode("!!float", v)
	}

	if seq, ok := v.(serializer.Sequence); ok {
		if key, ok := sequenceKey(seq); ok {
			if open[key] {
				return nil, fmt.Errorf("%w: array contains itself", errors.ErrCycle)
			}
			open[key] = true
			defer delete(open, key)
		}

		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := 0; i < seq.Len(); i++ {
			cn, err := f.yamlNode(seq.Get(i), open)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, cn)
		}
		return node, nil
	}

	// Anything else goes through JSON, which YAML accepts as flow style.
	text, err := serializer.ToString(v, f.features)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(text), &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return scalar("!!null", "null"), nil
	}
	return node.Content[0], nil
}

func sequenceKey(seq serializer.Sequence) (uintptr, bool) {
	rv := reflect.ValueOf(seq)
	if rv.Kind() != reflect.Pointer {
		return 0, false
	}
	return rv.Pointer(), true
}

func floatNode(x float64, bits int) *yaml.Node {
	switch {
	case math.IsNaN(x):
		return scalar("!!float", ".nan")
	case math.IsInf(x, 1):
		return scalar("!!float", ".inf")
	case math.IsInf(x, -1):
		return scalar("!!float", "-.inf")
	}
	return scalar("!!float", floatText(string(serializer.AppendFloat(nil, x, bits))))
}

// floatText keeps integral floats from reading back as YAML integers.
func floatText(s string) string {
	if strings.ContainsAny(s, ".eE") {
		return s
	}
	return s + ".0"
}

func numberNode(tag string, v models.JSONValue) (*yaml.Node, error) {
	text, err := serializer.ToString(v)
	if err != nil {
		return nil, err
	}
	if tag == "!!float" {
		text = floatText(text)
	}
	return scalar(tag, text), nil
}
