package commands

import (
	"fmt"
	"log/slog"

	"github.com/atterbury/sitepress/internal/linkcheck"
	"github.com/atterbury/sitepress/internal/logfields"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Output string `short:"o" help:"Output directory override"`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, c.Output, false)
	if err != nil {
		return err
	}

	checker := linkcheck.NewChecker(cfg.Output.Directory, cfg.Site.BaseURL)
	checked, broken, err := checker.Run()
	if err != nil {
		return err
	}

	for _, b := range broken {
		slog.Error("Broken internal link", logfields.Path(b.Page), slog.String("url", b.URL))
	}
	slog.Info("Link check complete", logfields.Count(checked), slog.Int("broken", len(broken)))
	if len(broken) > 0 {
		return fmt.Errorf("%d broken internal link(s)", len(broken))
	}
	return nil
}
