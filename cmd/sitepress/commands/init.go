package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/atterbury/sitepress/internal/config"
	"github.com/atterbury/sitepress/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force   bool `help:"Overwrite existing configuration file"`
	Starter bool `help:"Also write starter content files" default:"true" negatable:""`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	slog.Info("Initializing configuration", logfields.Path(root.Config))
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	if !i.Starter {
		return nil
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	return writeStarterContent(cfg)
}

// writeStarterContent scaffolds an about page and a first post. Existing
// files are left untouched.
func writeStarterContent(cfg *config.Config) error {
	today := time.Now().Format("2006-01-02")
	files := map[string]string{
		"about.md": `---
title: About
permalink: /about/
---
A few words about this site.
`,
		filepath.Join(cfg.Content.PostsDir, today+"-hello-world.md"): `---
layout: post
title: Hello World
tags:
  - meta
---
First post.
`,
	}

	for rel, body := range files {
		path := filepath.Join(cfg.Content.Directory, rel)
		if _, err := os.Stat(path); err == nil {
			slog.Info("Starter file exists, skipping", logfields.Path(path))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return err
		}
		// #nosec G306 -- starter content is public
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("write starter file %s: %w", path, err)
		}
		slog.Info("Wrote starter file", logfields.Path(path))
	}
	return nil
}
