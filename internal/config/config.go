package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsoncodec/internal/parser"
	"github.com/mcncl/jsoncodec/internal/serializer"
)

// Config represents the complete configuration for jsoncodec
type Config struct {
	Parser     ParserConfig     `yaml:"parser"`
	Serializer SerializerConfig `yaml:"serializer"`
	Formatter  FormatterConfig  `yaml:"formatter"`
	Keys       KeysConfig       `yaml:"keys"`
	Dev        DevConfig        `yaml:"dev"`
}

// ParserConfig controls how input text is read
type ParserConfig struct {
	OrderedObjects   bool `yaml:"ordered_objects"`
	UseBigDecimal    bool `yaml:"use_big_decimal"`
	RejectExtensions bool `yaml:"reject_extensions"`
	SymbolTableSize  int  `yaml:"symbol_table_size"`
}

// SerializerConfig controls how values are written back out
type SerializerConfig struct {
	SortField                      bool `yaml:"sort_field"`
	BrowserCompatible              bool `yaml:"browser_compatible"`
	DisableCircularReferenceDetect bool `yaml:"disable_circular_reference_detect"`
}

// FormatterConfig controls pretty printing
type FormatterConfig struct {
	Indent int `yaml:"indent"`
}

// KeysConfig rewrites object keys after parsing
type KeysConfig struct {
	Case     string            `yaml:"case"`
	Mappings map[string]string `yaml:"mappings"`
	Skip     []KeyRule         `yaml:"skip"`
}

// KeyRule drops every member whose key matches Pattern
type KeyRule struct {
	Pattern string `yaml:"pattern"`
	Comment string `yaml:"comment,omitempty"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool `yaml:"debug"`
	Verbose bool `yaml:"verbose"`
}

// Key cases accepted by keys.case
const (
	CaseNone           = ""
	CaseCamel          = "camel"
	CaseLowerCamel     = "lower_camel"
	CaseSnake          = "snake"
	CaseKebab          = "kebab"
	CaseScreamingSnake = "screaming_snake"
)

var caseFuncs = map[string]func(string) string{
	CaseCamel:          strcase.ToCamel,
	CaseLowerCamel:     strcase.ToLowerCamel,
	CaseSnake:          strcase.ToSnake,
	CaseKebab:          strcase.ToKebab,
	CaseScreamingSnake: strcase.ToScreamingSnake,
}

const defaultSymbolTableSize = 4096

var configNames = []string{".jsoncodec.yml", ".jsoncodec.yaml", "jsoncodec.yml", "jsoncodec.yaml"}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			OrderedObjects:  true,
			SymbolTableSize: defaultSymbolTableSize,
		},
		Formatter: FormatterConfig{
			Indent: 2,
		},
		Keys: KeysConfig{
			Mappings: make(map[string]string),
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(currentDir)
}

func findConfigFrom(dir string) string {
	for {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			// Reached root directory
			return ""
		}
		dir = parentDir
	}
}

// Validate checks enumerated values and compiles key patterns
func (c *Config) Validate() error {
	if _, ok := caseFuncs[c.Keys.Case]; !ok && c.Keys.Case != CaseNone {
		return fmt.Errorf("unknown key case '%s'", c.Keys.Case)
	}
	if c.Formatter.Indent < 0 {
		return fmt.Errorf("formatter indent must not be negative, got %d", c.Formatter.Indent)
	}
	if c.Parser.SymbolTableSize < 0 {
		return fmt.Errorf("symbol table size must not be negative, got %d", c.Parser.SymbolTableSize)
	}
	for i := range c.Keys.Skip {
		rule := &c.Keys.Skip[i]
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid key skip pattern '%s': %w", rule.Pattern, err)
		}
		rule.regex = regex
	}
	return nil
}

// MatchesKey checks if this rule matches the given key
func (r *KeyRule) MatchesKey(key string) bool {
	if r.regex == nil {
		regex, err := regexp.Compile(r.Pattern)
		if err != nil {
			return false
		}
		r.regex = regex
	}
	return r.regex.MatchString(key)
}

// ParserFeatures derives the parser feature set
func (c *Config) ParserFeatures() parser.Feature {
	var f parser.Feature
	if c.Parser.OrderedObjects {
		f |= parser.OrderedObjects
	}
	if c.Parser.UseBigDecimal {
		f |= parser.UseBigDecimal
	}
	if c.Parser.RejectExtensions {
		f |= parser.RejectExtensions
	}
	return f
}

// SerializerFeatures derives the serializer feature set
func (c *Config) SerializerFeatures() serializer.Feature {
	var f serializer.Feature
	if c.Serializer.SortField {
		f |= serializer.SortField
	}
	if c.Serializer.BrowserCompatible {
		f |= serializer.BrowserCompatible
	}
	if c.Serializer.DisableCircularReferenceDetect {
		f |= serializer.DisableCircularReferenceDetect
	}
	return f
}

// HasKeyRules reports whether RewriteKey changes anything
func (c *Config) HasKeyRules() bool {
	return c.Keys.Case != CaseNone || len(c.Keys.Mappings) > 0 || len(c.Keys.Skip) > 0
}

// RewriteKey applies skip rules, explicit mappings and then the case
// transform. It returns false when the member should be dropped.
func (c *Config) RewriteKey(key string) (string, bool) {
	for i := range c.Keys.Skip {
		if c.Keys.Skip[i].MatchesKey(key) {
			return "", false
		}
	}
	if mapped, exists := c.Keys.Mappings[key]; exists {
		return mapped, true
	}
	if fn, ok := caseFuncs[c.Keys.Case]; ok {
		return fn(key), true
	}
	return key, true
}

// CLIOverrides carries flags given explicitly on the command line. Nil
// pointers leave the file or default value in place.
type CLIOverrides struct {
	Ordered    *bool
	BigDecimal *bool
	Strict     *bool
	SortKeys   *bool
	KeyCase    string
	Indent     int
	Debug      bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.Ordered != nil {
		cfg.Parser.OrderedObjects = *cli.Ordered
	}
	if cli.BigDecimal != nil {
		cfg.Parser.UseBigDecimal = *cli.BigDecimal
	}
	if cli.Strict != nil {
		cfg.Parser.RejectExtensions = *cli.Strict
	}
	if cli.SortKeys != nil {
		cfg.Serializer.SortField = *cli.SortKeys
	}
	if cli.KeyCase != "" {
		cfg.Keys.Case = cli.KeyCase
	}
	if cli.Indent > 0 {
		cfg.Formatter.Indent = cli.Indent
	}
	if cli.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
