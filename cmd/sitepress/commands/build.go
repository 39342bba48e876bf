package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atterbury/sitepress/internal/logfields"
	"github.com/atterbury/sitepress/internal/state"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory override"`
	Drafts bool   `help:"Include draft items"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, b.Output, b.Drafts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	builder, err := newBuilder(cfg)
	if err != nil {
		return err
	}

	if cfg.Build.StatePath != "" {
		store, err := state.Open(cfg.Build.StatePath)
		if err != nil {
			slog.Warn("Build state unavailable, continuing without it", logfields.Error(err))
		} else {
			defer func() { _ = store.Close() }()
			builder.WithState(store)
		}
	}

	report, err := builder.Build(context.Background())
	if err != nil {
		return err
	}
	if report.HasFailures() {
		return fmt.Errorf("build completed with %d failing item(s)", len(report.Issues))
	}
	return nil
}
