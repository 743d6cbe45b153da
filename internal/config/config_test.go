package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsoncodec/internal/parser"
	"github.com/mcncl/jsoncodec/internal/serializer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func boolPtr(b bool) *bool { return &b }

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.True(t, cfg.Parser.OrderedObjects)
	assert.False(t, cfg.Parser.UseBigDecimal)
	assert.False(t, cfg.Parser.RejectExtensions)
	assert.Equal(t, 4096, cfg.Parser.SymbolTableSize)
	assert.Equal(t, 2, cfg.Formatter.Indent)
	assert.Equal(t, CaseNone, cfg.Keys.Case)
	assert.False(t, cfg.HasKeyRules())
	assert.Equal(t, parser.OrderedObjects, cfg.ParserFeatures())
	assert.Equal(t, serializer.Feature(0), cfg.SerializerFeatures())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
parser:
  ordered_objects: false
  use_big_decimal: true
  reject_extensions: true
  symbol_table_size: 1000
serializer:
  sort_field: true
  browser_compatible: true
formatter:
  indent: 4
keys:
  case: snake
  mappings:
    "ID": "identifier"
  skip:
    - pattern: "^_"
      comment: "private members"
dev:
  debug: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Parser.OrderedObjects)
	assert.Equal(t, 1000, cfg.Parser.SymbolTableSize)
	assert.Equal(t, parser.UseBigDecimal|parser.RejectExtensions, cfg.ParserFeatures())
	assert.Equal(t, serializer.SortField|serializer.BrowserCompatible, cfg.SerializerFeatures())
	assert.Equal(t, 4, cfg.Formatter.Indent)
	assert.Equal(t, CaseSnake, cfg.Keys.Case)
	assert.Equal(t, "identifier", cfg.Keys.Mappings["ID"])
	require.Len(t, cfg.Keys.Skip, 1)
	assert.Equal(t, "private members", cfg.Keys.Skip[0].Comment)
	assert.True(t, cfg.Dev.Debug)
	assert.True(t, cfg.HasKeyRules())
}

func TestConfig_PartialYAMLKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "serializer:\n  sort_field: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Parser.OrderedObjects)
	assert.Equal(t, 2, cfg.Formatter.Indent)
	assert.True(t, cfg.Serializer.SortField)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_LoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"yaml", "parser: [unclosed array\n", "failed to parse config file"},
		{"key case", "keys:\n  case: shouty\n", "unknown key case 'shouty'"},
		{"indent", "formatter:\n  indent: -1\n", "indent must not be negative"},
		{"symbol table", "parser:\n  symbol_table_size: -8\n", "symbol table size"},
		{"pattern", "keys:\n  skip:\n    - pattern: \"[\"\n", "invalid key skip pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	configPath := filepath.Join(tmpDir, "project", ".jsoncodec.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("formatter:\n  indent: 8\n"), 0o644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(nestedDir))

	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	cfg, err := LoadConfig(foundPath)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Formatter.Indent)
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "a", "b"), 0o755))

	foundPath := findConfigFrom(filepath.Join(tmpDir, "a", "b"))
	assert.NotContains(t, foundPath, tmpDir)
}

func TestConfig_RewriteKey(t *testing.T) {
	tests := []struct {
		name     string
		keys     KeysConfig
		key      string
		want     string
		wantKeep bool
	}{
		{"no rules", KeysConfig{}, "userId", "userId", true},
		{"camel", KeysConfig{Case: CaseCamel}, "user_id", "UserId", true},
		{"lower camel", KeysConfig{Case: CaseLowerCamel}, "user_id", "userId", true},
		{"snake", KeysConfig{Case: CaseSnake}, "userId", "user_id", true},
		{"kebab", KeysConfig{Case: CaseKebab}, "userId", "user-id", true},
		{"screaming", KeysConfig{Case: CaseScreamingSnake}, "userId", "USER_ID", true},
		{"mapping wins", KeysConfig{Case: CaseSnake, Mappings: map[string]string{"userId": "uid"}}, "userId", "uid", true},
		{"skipped", KeysConfig{Skip: []KeyRule{{Pattern: "^_"}}}, "_rev", "", false},
		{"not skipped", KeysConfig{Skip: []KeyRule{{Pattern: "^_"}}}, "rev", "rev", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Keys = tt.keys
			got, keep := cfg.RewriteKey(tt.key)
			assert.Equal(t, tt.wantKeep, keep)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyRule_InvalidPattern(t *testing.T) {
	rule := KeyRule{Pattern: "["}
	assert.False(t, rule.MatchesKey("anything"))
}

func TestLoadConfigWithCLI(t *testing.T) {
	path := writeConfig(t, `
parser:
  use_big_decimal: true
serializer:
  sort_field: true
keys:
  case: kebab
`)

	t.Run("file values without overrides", func(t *testing.T) {
		cfg, err := LoadConfigWithCLI(path, CLIOverrides{})
		require.NoError(t, err)
		assert.True(t, cfg.Parser.UseBigDecimal)
		assert.True(t, cfg.Serializer.SortField)
		assert.Equal(t, CaseKebab, cfg.Keys.Case)
	})

	t.Run("explicit flags win", func(t *testing.T) {
		cfg, err := LoadConfigWithCLI(path, CLIOverrides{
			Ordered:    boolPtr(false),
			BigDecimal: boolPtr(false),
			Strict:     boolPtr(true),
			SortKeys:   boolPtr(false),
			KeyCase:    CaseCamel,
			Indent:     3,
			Debug:      true,
		})
		require.NoError(t, err)
		assert.False(t, cfg.Parser.OrderedObjects)
		assert.False(t, cfg.Parser.UseBigDecimal)
		assert.True(t, cfg.Parser.RejectExtensions)
		assert.False(t, cfg.Serializer.SortField)
		assert.Equal(t, CaseCamel, cfg.Keys.Case)
		assert.Equal(t, 3, cfg.Formatter.Indent)
		assert.True(t, cfg.Dev.Debug)
	})

	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := LoadConfigWithCLI("", CLIOverrides{})
		require.NoError(t, err)
		assert.Equal(t, NewConfig(), cfg)
	})

	t.Run("bad key case flag", func(t *testing.T) {
		_, err := LoadConfigWithCLI("", CLIOverrides{KeyCase: "weird"})
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigWithCLI("/non/existent.yml", CLIOverrides{})
		assert.Error(t, err)
	})
}
