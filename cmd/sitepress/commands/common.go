package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/atterbury/sitepress/internal/config"
	"github.com/atterbury/sitepress/internal/layout"
	"github.com/atterbury/sitepress/internal/site"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct{}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Render the content directory into the output directory"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file and starter content"`
	Watch WatchCmd `cmd:"" help:"Rebuild on content or layout changes"`
	Check CheckCmd `cmd:"" help:"Verify internal links across the rendered output"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// logLevel honours the verbose flag, with SITEPRESS_LOG_LEVEL as an
// environment override for non-interactive use.
func logLevel(verbose bool) slog.Level {
	if env := strings.ToLower(os.Getenv("SITEPRESS_LOG_LEVEL")); env != "" {
		switch env {
		case "debug":
			return slog.LevelDebug
		case "info":
			return slog.LevelInfo
		case "warn", "warning":
			return slog.LevelWarn
		case "error":
			return slog.LevelError
		}
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// loadConfig loads configuration and applies common CLI overrides.
func loadConfig(root *CLI, output string, drafts bool) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if output != "" {
		cfg.Output.Directory = output
	}
	if drafts {
		cfg.Build.Drafts = true
	}
	return cfg, nil
}

// newBuilder wires up a builder from configuration: layouts first, then
// the builder over the content store.
func newBuilder(cfg *config.Config) (*site.Builder, error) {
	registry, err := layout.Load(cfg.Layouts.Directory)
	if err != nil {
		return nil, err
	}
	return site.NewBuilder(cfg, registry), nil
}
