package formatter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsoncodec/internal/errors"
	"github.com/mcncl/jsoncodec/internal/models"
	"github.com/mcncl/jsoncodec/internal/parser"
	"github.com/mcncl/jsoncodec/internal/serializer"
)

func TestFormat_Indented(t *testing.T) {
	input := `{"a":1,"b":[true,null],"c":{},"d":[]}`

	formatted, err := NewFormatter().Format(input)
	require.NoError(t, err)

	expected := `{
  "a": 1,
  "b": [
    true,
    null
  ],
  "c": {},
  "d": []
}`
	assert.Equal(t, expected, formatted)
}

func TestFormat_Options(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		input    string
		expected string
	}{
		{
			name:     "four spaces",
			opts:     []Option{WithIndent(4)},
			input:    `{"a":{"b":1}}`,
			expected: "{\n    \"a\": {\n        \"b\": 1\n    }\n}",
		},
		{
			name:     "zero indent is compact",
			opts:     []Option{WithIndent(0)},
			input:    `{ "a" : [ 1 , 2 ] }`,
			expected: `{"a":[1,2]}`,
		},
		{
			name:     "sorted keys",
			opts:     []Option{WithIndent(0), WithSerializerFeatures(serializer.SortField)},
			input:    `{"b":1,"a":2}`,
			expected: `{"a":2,"b":1}`,
		},
		{
			name:     "scalar",
			input:    `"x"`,
			expected: `"x"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatted, err := NewFormatter(tt.opts...).Format(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, formatted)
		})
	}
}

func TestFormat_EmptyInput(t *testing.T) {
	formatted, err := NewFormatter().Format("  \n")
	require.NoError(t, err)
	assert.Empty(t, formatted)
}

func TestFormat_InvalidJSON(t *testing.T) {
	_, err := NewFormatter().Format(`{"a":}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidJSON)

	_, err = NewFormatter(WithParserFeatures(parser.RejectExtensions)).Format(`[1,,2]`)
	assert.Error(t, err)
}

func TestFormatValue_Unsupported(t *testing.T) {
	_, err := NewFormatter().FormatValue(make(chan int))
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeFormat, appErr.Type)
}

func TestToYAML_KeepsOrderAndKinds(t *testing.T) {
	v, err := parser.ParseString(`{"name":"Ada","age":36,"tags":["x","1"],"ratio":1.5,"score":150.0,"none":null,"nested":{"ok":true},"empty":[]}`)
	require.NoError(t, err)

	out, err := NewFormatter().ToYAML(v)
	require.NoError(t, err)

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	root := doc.Content[0]
	require.Equal(t, yaml.MappingNode, root.Kind)

	var keys []string
	for i := 0; i < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	assert.Equal(t, []string{"name", "age", "tags", "ratio", "score", "none", "nested", "empty"}, keys)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Ada", decoded["name"])
	assert.Equal(t, 36, decoded["age"])
	assert.Equal(t, []any{"x", "1"}, decoded["tags"])
	assert.Equal(t, 1.5, decoded["ratio"])
	assert.Equal(t, 150.0, decoded["score"])
	assert.Nil(t, decoded["none"])
	assert.Equal(t, map[string]any{"ok": true}, decoded["nested"])
	assert.Equal(t, []any{}, decoded["empty"])
}

func TestToYAML_Scalars(t *testing.T) {
	f := NewFormatter()
	tests := []struct {
		name string
		in   models.JSONValue
		want any
	}{
		{"nan", math.NaN(), nil},
		{"inf", math.Inf(1), math.Inf(1)},
		{"negative inf", math.Inf(-1), math.Inf(-1)},
		{"float32", float32(2), 2.0},
		{"int64", int64(-5), -5},
		{"string that looks like bool", "true", "true"},
		{"bytes", []byte("hi"), "hi"},
		{"set", models.NewSet(true), []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.ToYAML(tt.in)
			require.NoError(t, err)
			var got any
			require.NoError(t, yaml.Unmarshal([]byte(out), &got))
			if tt.name == "nan" {
				fv, ok := got.(float64)
				require.True(t, ok)
				assert.True(t, math.IsNaN(fv))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToYAML_Time(t *testing.T) {
	out, err := NewFormatter().ToYAML(time.UnixMilli(1500))
	require.NoError(t, err)

	var got time.Time
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.True(t, got.Equal(time.UnixMilli(1500)))
}

func TestToYAML_Fallback(t *testing.T) {
	out, err := NewFormatter().ToYAML(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, got)
}

func TestToYAML_Cycle(t *testing.T) {
	obj := models.NewObject(true)
	obj.Put("self", obj)
	_, err := NewFormatter().ToYAML(obj)
	assert.ErrorIs(t, err, errors.ErrCycle)

	arr := models.NewArray(0)
	arr.Add(arr)
	_, err = NewFormatter().ToYAML(arr)
	assert.ErrorIs(t, err, errors.ErrCycle)

	shared := models.ArrayOf(int32(1))
	twice := models.ArrayOf(shared, shared)
	_, err = NewFormatter().ToYAML(twice)
	assert.NoError(t, err)
}
