package codec

import (
	"bytes"
	"math"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsoncodec/internal/config"
	"github.com/mcncl/jsoncodec/internal/errors"
	"github.com/mcncl/jsoncodec/internal/models"
	"github.com/mcncl/jsoncodec/internal/serializer"
)

func TestParseSerialize_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"object", `{"a":1,"b":[true,false,null]}`, `{"a":1,"b":[true,false,null]}`},
		{"unicode", `{"name":"狄仁杰","history":{"DOB":630}}`, `{"name":"狄仁杰","history":{"DOB":630}}`},
		{"array", `[1,2,3,4]`, `[1,2,3,4]`},
		{"exponent", `{"x":1.5e2}`, `{"x":150}`},
		{"blank", ` `, `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			require.NoError(t, err)
			got, err := Serialize(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Error(t *testing.T) {
	_, err := Parse("not-json")
	require.Error(t, err)
	se, ok := errors.AsSyntaxError(err)
	require.True(t, ok)
	assert.Equal(t, errors.UnexpectedCharacter, se.Kind)
	assert.Equal(t, 0, se.Pos)
}

func TestRoundTrip(t *testing.T) {
	obj := models.NewObject(true)
	obj.Put("s", "tab\there \"quoted\" \\ done")
	obj.Put("i", int64(math.MinInt64))
	obj.Put("f", 0.1)
	obj.Put("nested", models.ArrayOf(int32(1), "two", nil, true, models.NewObject(true)))

	text, err := Serialize(obj)
	require.NoError(t, err)

	back, err := Parse(text)
	require.NoError(t, err)
	assert.True(t, models.Equal(obj, back), text)

	again, err := Serialize(back)
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestParseWithFeatures(t *testing.T) {
	_, err := ParseWithFeatures(`[1,,2]`, OrderedObjects|RejectExtensions)
	assert.Error(t, err)

	v, err := ParseWithFeatures(`{"b":1,"a":2}`, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.(*Object).Keys())
}

func TestSerializeWithFeatures(t *testing.T) {
	v, err := Parse(`{"b":"é","a":1}`)
	require.NoError(t, err)

	got, err := SerializeWithFeatures(v, SortField|BrowserCompatible)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":"`+"\\"+`u00e9"}`, got)
}

func TestSerialize_Cycle(t *testing.T) {
	obj := models.NewObject(true)
	obj.Put("self", obj)

	_, err := Serialize(obj)
	assert.ErrorIs(t, err, errors.ErrCycle)

	_, err = SerializeWithFeatures(obj, DisableCircularReferenceDetect)
	assert.ErrorIs(t, err, errors.ErrCycle)
}

func TestPretty(t *testing.T) {
	v, err := Parse(`{"a":[1]}`)
	require.NoError(t, err)

	got, err := Pretty(v, 2)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}", got)
}

func TestCodec_KeyRewrite(t *testing.T) {
	c := New(WithKeyRewrite(func(k string) (string, bool) {
		return strings.ToUpper(k), k != "drop"
	}))
	v, err := c.Parse(`{"a":{"b":1},"drop":2}`)
	require.NoError(t, err)

	got, err := c.Serialize(v)
	require.NoError(t, err)
	assert.Equal(t, `{"A":{"B":1}}`, got)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Parser.UseBigDecimal = true
	cfg.Parser.SymbolTableSize = 16
	cfg.Serializer.SortField = true
	cfg.Formatter.Indent = 0
	cfg.Keys.Case = config.CaseSnake

	c := NewFromConfig(cfg, nil)
	v, err := c.Parse(`{"zetaValue":0.10,"alphaValue":1}`)
	require.NoError(t, err)

	got, err := c.Pretty(v)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha_value":1,"zeta_value":0.1}`, got)
}

func TestCodec_Streams(t *testing.T) {
	c := New()
	v, err := c.ParseReader(strings.NewReader(`[1,"x"]`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.SerializeTo(&buf, v))
	assert.Equal(t, `[1,"x"]`, buf.String())

	err = c.SerializeTo(&buf, make(chan int))
	assert.ErrorIs(t, err, errors.ErrUnsupportedType)
}

func TestCodec_YAML(t *testing.T) {
	v, err := Parse(`{"a":[1,"b"]}`)
	require.NoError(t, err)

	out, err := New().YAML(v)
	require.NoError(t, err)
	assert.Contains(t, out, "a:")
	assert.Contains(t, out, "- b")
}

type celsius float64

func TestRegisterEmitter(t *testing.T) {
	RegisterEmitter(reflect.TypeOf(celsius(0)), func(s *serializer.Serializer, v any) error {
		s.Buffer().WriteQuoted(strconv.FormatFloat(float64(v.(celsius)), 'f', 1, 64) + "C")
		return nil
	})

	text, err := Serialize(models.ArrayOf(celsius(21.5), 3))
	require.NoError(t, err)
	assert.Equal(t, `["21.5C",3]`, text)

	pretty, err := New(WithIndent(1)).Pretty(models.ArrayOf(celsius(-4)))
	require.NoError(t, err)
	assert.Equal(t, "[\n \"-4.0C\"\n]", pretty)
}
