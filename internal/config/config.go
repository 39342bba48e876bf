// Package config loads and validates the site configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	sperrors "github.com/atterbury/sitepress/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Layouts LayoutsConfig `yaml:"layouts"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
}

// SiteConfig holds site-wide presentation settings.
type SiteConfig struct {
	Title         string `yaml:"title"`
	Description   string `yaml:"description,omitempty"`
	BaseURL       string `yaml:"base_url,omitempty"`       // used to construct absolute links
	DefaultLayout string `yaml:"default_layout,omitempty"` // applied when an item specifies none
}

// ContentConfig locates the content store on disk.
type ContentConfig struct {
	Directory string `yaml:"directory"`           // root of the content tree
	PostsDir  string `yaml:"posts_dir,omitempty"` // subdirectory holding dated posts
}

// LayoutsConfig locates site-supplied layout overrides. Built-in layouts
// are always available; files here shadow them by name.
type LayoutsConfig struct {
	Directory string `yaml:"directory,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// BuildConfig tunes the build pass.
type BuildConfig struct {
	RenderConcurrency int    `yaml:"render_concurrency,omitempty"`
	StatePath         string `yaml:"state_path,omitempty"` // sqlite build-state db, empty disables incremental skips
	GitMetadata       bool   `yaml:"git_metadata,omitempty"`
	Drafts            bool   `yaml:"drafts,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env if present; missing files are fine.
	_ = godotenv.Load()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, sperrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks invariants that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Content.Directory == "" {
		return sperrors.ValidationFailed("content.directory", "must not be empty")
	}
	if c.Output.Directory == c.Content.Directory {
		return sperrors.ValidationFailed("output.directory", "must differ from content.directory")
	}
	if c.Build.RenderConcurrency < 0 {
		return sperrors.ValidationFailed("build.render_concurrency", "must not be negative")
	}
	return nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	// #nosec G306 -- configuration files are not secrets
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

const exampleConfig = `# sitepress configuration
site:
  title: "My Site"
  description: "Notes and posts"
  base_url: "https://example.com"
  default_layout: "default"

content:
  directory: "./content"
  posts_dir: "posts"

layouts:
  directory: "./layouts"

output:
  directory: "./public"
  clean: true

build:
  render_concurrency: 4
  git_metadata: false
`
