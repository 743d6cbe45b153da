package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/mcncl/jsoncodec/codec"
	"github.com/mcncl/jsoncodec/internal/analyzer"
	"github.com/mcncl/jsoncodec/internal/config"
	"github.com/mcncl/jsoncodec/internal/errors"
	"github.com/mcncl/jsoncodec/internal/logging"
)

// Globals are the flags shared by every command
type Globals struct {
	Input      string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output     string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config     string `help:"Path to config file. Defaults to the nearest .jsoncodec.yml." short:"c" type:"path"`
	Debug      bool   `help:"Enable debug logging." short:"d"`
	Ordered    *bool  `help:"Keep object keys in input order."`
	BigDecimal *bool  `help:"Read fractional numbers as exact decimals." name:"big-decimal"`
	Strict     *bool  `help:"Reject non-standard JSON extensions."`
	SortKeys   *bool  `help:"Write object keys in sorted order." name:"sort-keys"`
	KeyCase    string `help:"Rewrite keys: camel, lower_camel, snake, kebab or screaming_snake." name:"key-case"`
	Indent     int    `help:"Spaces per indentation level for fmt and yaml output."`
}

// CLI defines the command-line interface
var CLI struct {
	Globals

	Parse   ParseCmd   `cmd:"" default:"withargs" help:"Re-serialize input as compact JSON."`
	Fmt     FmtCmd     `cmd:"" help:"Pretty print input."`
	Inspect InspectCmd `cmd:"" help:"Print statistics about the input."`
	Convert ConvertCmd `cmd:"" help:"Convert input to another format."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Input  string
	Output string
	Config *config.Config
	Codec  *codec.Codec
	Logger *zap.SugaredLogger
	Stdin  io.Reader
	Stdout io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("jsoncodec"),
		kong.Description("Parse, format and convert JSON"),
		kong.UsageOnError(),
	)

	ctx, err := newContext(&CLI.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
	defer func() { _ = ctx.Logger.Sync() }()

	if err := kctx.Run(ctx); err != nil {
		ctx.Logger.Debugw("command failed", "command", kctx.Command(), "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsoncodec --help\n")
		os.Exit(1)
	}
}

// newContext loads configuration and builds the codec the commands share
func newContext(g *Globals) (*Context, error) {
	configPath := g.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, config.CLIOverrides{
		Ordered:    g.Ordered,
		BigDecimal: g.BigDecimal,
		Strict:     g.Strict,
		SortKeys:   g.SortKeys,
		KeyCase:    g.KeyCase,
		Indent:     g.Indent,
		Debug:      g.Debug,
	})
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	logger := logging.New(cfg.Dev.Debug || cfg.Dev.Verbose)
	if configPath != "" {
		logger.Debugw("loaded configuration", "path", configPath)
	}
	return &Context{
		Debug:  cfg.Dev.Debug,
		Input:  g.Input,
		Output: g.Output,
		Config: cfg,
		Codec:  codec.NewFromConfig(cfg, logger.Desugar()),
		Logger: logger,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}, nil
}

// ParseCmd re-serializes input compactly
type ParseCmd struct{}

// Run executes the parse command
func (c *ParseCmd) Run(ctx *Context) error {
	v, err := parseInput(ctx)
	if err != nil {
		return err
	}
	text, err := ctx.Codec.Serialize(v)
	if err != nil {
		return err
	}
	return writeOutput(ctx, text)
}

// FmtCmd pretty prints input
type FmtCmd struct{}

// Run executes the fmt command
func (c *FmtCmd) Run(ctx *Context) error {
	v, err := parseInput(ctx)
	if err != nil {
		return err
	}
	text, err := ctx.Codec.Pretty(v)
	if err != nil {
		return err
	}
	return writeOutput(ctx, text)
}

// InspectCmd prints statistics about the input
type InspectCmd struct {
	Top int `help:"Number of most frequent keys to list." default:"10"`
}

// Run executes the inspect command
func (c *InspectCmd) Run(ctx *Context) error {
	v, err := parseInput(ctx)
	if err != nil {
		return err
	}
	stats := analyzer.NewAnalyzerWithTopKeys(c.Top).Analyze(v)
	ctx.Logger.Debugw("analyzed input", "max_depth", stats.MaxDepth, "unique_keys", stats.UniqueKeys)

	text, err := ctx.Codec.Pretty(stats.Tree())
	if err != nil {
		return err
	}
	return writeOutput(ctx, text)
}

// ConvertCmd renders input in another format
type ConvertCmd struct {
	To string `help:"Target format." enum:"yaml,json" default:"yaml"`
}

// Run executes the convert command
func (c *ConvertCmd) Run(ctx *Context) error {
	v, err := parseInput(ctx)
	if err != nil {
		return err
	}

	var text string
	switch c.To {
	case "yaml":
		text, err = ctx.Codec.YAML(v)
	case "json":
		text, err = ctx.Codec.Serialize(v)
	default:
		return errors.NewOutputError(fmt.Sprintf("cannot convert to '%s'", c.To), errors.ErrUnknownOutputFmt)
	}
	if err != nil {
		return err
	}
	return writeOutput(ctx, text)
}

// VersionCmd prints the version
type VersionCmd struct{}

// Run executes the version command
func (c *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "jsoncodec version %s\n", Version)
	return err
}

// parseInput reads JSON from file or stdin
func parseInput(ctx *Context) (codec.Value, error) {
	if ctx.Input != "" {
		return ctx.Codec.ParseFile(ctx.Input)
	}

	if f, ok := ctx.Stdin.(*os.File); ok {
		stdinInfo, err := f.Stat()
		if err != nil {
			return nil, errors.NewInputError("failed to access stdin", err)
		}
		if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
			return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	jsonData, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	ctx.Logger.Debugw("read stdin", "bytes", len(jsonData))

	return ctx.Codec.Parse(string(jsonData))
}

// writeOutput writes text to file or stdout
func writeOutput(ctx *Context, text string) error {
	if ctx.Output != "" {
		err := os.WriteFile(ctx.Output, []byte(strings.TrimSpace(text)+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", ctx.Output), err)
		}
		ctx.Logger.Infof("output written to %s", ctx.Output)
		return nil
	}

	_, err := fmt.Fprintln(ctx.Stdout, strings.TrimSpace(text))
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
