// Package layout maps layout names to templates. The registry is built
// once at load time and is read-only afterwards; rendering never mutates
// it, so concurrent renders need no locking.
package layout

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Registry holds the immutable layout name to template mapping for a
// render pass.
type Registry struct {
	templates map[string]*template.Template
}

// Load builds a registry from the built-in layouts overlaid by any
// *.html files in dir (empty dir means built-ins only). A file named
// post.html shadows the built-in "post" layout.
func Load(dir string) (*Registry, error) {
	sources := make(map[string]string, len(builtinLayouts))
	for name, src := range builtinLayouts {
		sources[name] = src
	}

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read layouts dir: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(dir, entry.Name())) // #nosec G304 -- layouts dir comes from config
			if err != nil {
				return nil, fmt.Errorf("read layout %s: %w", entry.Name(), err)
			}
			name := strings.TrimSuffix(entry.Name(), ".html")
			sources[name] = string(raw)
		}
	}

	templates := make(map[string]*template.Template, len(sources))
	for name, src := range sources {
		tpl, err := template.New(name).Parse(partials + src)
		if err != nil {
			return nil, fmt.Errorf("parse layout %q: %w", name, err)
		}
		templates[name] = tpl
	}

	return &Registry{templates: templates}, nil
}

// Get returns the template for a layout name. The second return value is
// false when the name resolves to no known template.
func (r *Registry) Get(name string) (*template.Template, bool) {
	tpl, ok := r.templates[name]
	return tpl, ok
}

// Names returns the sorted set of known layout names, for diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
