package engine

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/anatolykoptev/go_resume/internal/engine/doc"
)

// RenderArtifact is one rendered document: self-contained HTML plus the
// stylesheet it references.
type RenderArtifact struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

const defaultCSS = `body { font-family: Georgia, serif; max-width: 820px; margin: 2rem auto; color: #1a1a1a; }
section { margin-bottom: 1.5rem; }
h1 { font-size: 1.6rem; margin: 0 0 .25rem; }
h2 { font-size: 1.1rem; border-bottom: 1px solid #ccc; padding-bottom: .2rem; }
.entry { margin: .75rem 0; }
.entry .meta { color: #555; font-size: .9rem; }
ul { margin: .25rem 0 0 1.25rem; padding: 0; }
dl { display: grid; grid-template-columns: max-content 1fr; gap: .15rem .75rem; margin: 0; }
dt { font-weight: bold; }
.grid { display: flex; flex-wrap: wrap; gap: .4rem; list-style: none; margin: .25rem 0 0; padding: 0; }
.grid li { background: #eee; border-radius: 3px; padding: .15rem .5rem; }`

const defaultTemplate = `{{define "node"}}{{if eq .Kind "heading"}}<h2>{{.Text}}</h2>
{{else if eq .Kind "paragraph"}}<p>{{.Text}}</p>
{{else if eq .Kind "list_item"}}<li>{{.Text}}</li>
{{else if eq .Kind "key_value"}}<dt>{{index .Hints "key"}}</dt><dd>{{.Text}}</dd>
{{else if eq .Kind "grid"}}{{if .Text}}<h2>{{.Text}}</h2>{{end}}<ul class="grid">{{range .Children}}{{template "node" .}}{{end}}</ul>
{{else}}{{template "container" .}}{{end}}{{end}}

{{define "container"}}{{if .Meta.Company}}<div class="entry"><h3>{{.Text}}</h3><div class="meta">{{.Meta.Company}}{{if .Meta.Duration}} · {{.Meta.Duration}}{{end}}{{if .Meta.Location}} · {{.Meta.Location}}{{end}}</div>{{if .Children}}<ul>{{range .Children}}{{template "node" .}}{{end}}</ul>{{end}}</div>
{{else}}<section>{{if .Text}}<h2>{{.Text}}</h2>{{end}}{{if kvOnly .}}<dl>{{range .Children}}{{template "node" .}}{{end}}</dl>{{else}}{{range .Children}}{{template "node" .}}{{end}}{{end}}</section>{{end}}{{end}}

<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>{{.CSS}}</style></head>
<body>
{{range .Roots}}{{template "node" .}}{{end}}
</body></html>`

// RenderDocument renders a document forest to HTML+CSS. The template is
// overridable through config; node text is escaped by the template engine.
func RenderDocument(roots []*doc.Node) (RenderArtifact, error) {
	metrics.Renders.Add(1)

	src := cfg.RenderTemplate
	if src == "" {
		src = defaultTemplate
	}
	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"kvOnly": kvOnly,
	}).Parse(src)
	if err != nil {
		metrics.RenderErrors.Add(1)
		return RenderArtifact{}, fmt.Errorf("render: parse template: %w", err)
	}

	var sb strings.Builder
	data := struct {
		CSS   template.CSS
		Roots []*doc.Node
	}{
		CSS:   template.CSS(defaultCSS),
		Roots: roots,
	}
	if err := tmpl.Execute(&sb, data); err != nil {
		metrics.RenderErrors.Add(1)
		return RenderArtifact{}, fmt.Errorf("render: execute: %w", err)
	}
	return RenderArtifact{HTML: sb.String(), CSS: defaultCSS}, nil
}

// kvOnly reports whether every child of n is a key_value node, which
// selects the definition-list layout.
func kvOnly(n *doc.Node) bool {
	if len(n.Children) == 0 {
		return false
	}
	for _, c := range n.Children {
		if c.Kind != doc.KindKeyValue {
			return false
		}
	}
	return true
}
