package config

// applyDefaults fills zero values with the documented defaults.
func applyDefaults(c *Config) {
	if c.Site.Title == "" {
		c.Site.Title = "Site"
	}
	if c.Site.DefaultLayout == "" {
		c.Site.DefaultLayout = "default"
	}
	if c.Content.Directory == "" {
		c.Content.Directory = "./content"
	}
	if c.Content.PostsDir == "" {
		c.Content.PostsDir = "posts"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./public"
	}
	if c.Build.RenderConcurrency == 0 {
		c.Build.RenderConcurrency = 4
	}
}

// Default returns a configuration populated entirely from defaults.
// Useful for tests and for watch mode fallbacks.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}
