package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doccollect/internal/config"
)

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
	In     io.Reader

	cfg *config.Config
}

// Config returns the configuration loaded in AfterApply.
func (g *Global) Config() *config.Config {
	if g.cfg == nil {
		return config.Default()
	}
	return g.cfg
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default doccollect.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Extract ExtractCmd `cmd:"" help:"Collect documentation records from source files"`
	Render  RenderCmd  `cmd:"" help:"Render a markdown file or stdin to HTML"`
	Tags    TagsCmd    `cmd:"" help:"List the registered doc-comment tags"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; it loads the configuration and sets up logging once.
// The init command tolerates a missing file since it is about to create it.
func (c *CLI) AfterApply(kctx *kong.Context, g *Global) error {
	var (
		cfg *config.Config
		err error
	)
	if c.Config == "" || strings.HasPrefix(kctx.Command(), "init") {
		path := c.Config
		if path == "" {
			path = config.DefaultConfigFile
		}
		cfg, err = config.LoadOrDefault(path)
	} else {
		cfg, err = config.Load(c.Config)
	}
	if err != nil {
		return err
	}
	g.cfg = cfg

	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Logging.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	g.Logger = slog.New(handler)
	slog.SetDefault(g.Logger)

	if g.Out == nil {
		g.Out = os.Stdout
	}
	if g.In == nil {
		g.In = os.Stdin
	}
	return nil
}
