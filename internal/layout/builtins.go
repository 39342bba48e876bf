package layout

// Built-in layouts. A site's layouts directory may shadow any of these
// by file name.
var builtinLayouts = map[string]string{
	"default": defaultTemplate,
	"post":    postTemplate,
	"list":    listTemplate,
}

// Shared partials prepended to every layout source before parsing.
const partials = `{{ define "head" }}<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Page.Title }}{{ with .Site.Title }} | {{ . }}{{ end }}</title>
  {{ with .Site.Description }}<meta name="description" content="{{ . }}">{{ end }}
  {{ with .Page.Canonical }}<link rel="canonical" href="{{ . }}">{{ end }}
</head>{{ end }}
{{ define "header" }}<header>
  <nav><a href="{{ .Site.BaseURL }}/">{{ .Site.Title }}</a></nav>
</header>{{ end }}
{{ define "footer" }}<footer>
  <p>{{ .Site.Title }}</p>
</footer>{{ end }}
`

const defaultTemplate = `<!DOCTYPE html>
<html lang="en">
{{ template "head" . }}
<body>
  {{ template "header" . }}
  <main>
    <article>
      <h1>{{ .Page.Title }}</h1>
      <div class="content">
        {{ .Content }}
      </div>
    </article>
  </main>
  {{ template "footer" . }}
</body>
</html>
`

const postTemplate = `<!DOCTYPE html>
<html lang="en">
{{ template "head" . }}
<body>
  {{ template "header" . }}
  <main>
    <article>
      <header>
        <h1>{{ .Page.Title }}</h1>
        {{ if .Page.HasDate }}<time datetime="{{ .Page.Date.Format "2006-01-02" }}">{{ .Page.Date.Format "January 2, 2006" }}</time>{{ end }}
        {{ if .Page.Tags }}
        <ul class="tags">
          {{ range .Page.Tags }}<li>{{ . }}</li>{{ end }}
        </ul>
        {{ end }}
      </header>
      <div class="content">
        {{ .Content }}
      </div>
      {{ if not .Page.LastMod.IsZero }}<p class="lastmod">Last updated {{ .Page.LastMod.Format "January 2, 2006" }}</p>{{ end }}
    </article>
  </main>
  {{ template "footer" . }}
</body>
</html>
`

const listTemplate = `<!DOCTYPE html>
<html lang="en">
{{ template "head" . }}
<body>
  {{ template "header" . }}
  <main>
    <section>
      <h1>{{ .Page.Title }}</h1>
      <ul class="post-list">
        {{ range .Pages }}
        <li>
          <a href="{{ .Permalink }}">{{ .Title }}</a>
          {{ if .HasDate }}<time datetime="{{ .Date.Format "2006-01-02" }}">{{ .Date.Format "2006-01-02" }}</time>{{ end }}
        </li>
        {{ end }}
      </ul>
    </section>
  </main>
  {{ template "footer" . }}
</body>
</html>
`
