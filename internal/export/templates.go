package export

import (
	"bytes"
	"html/template"
	"time"
)

var boardTemplate = template.Must(template.New("board").Funcs(template.FuncMap{
	"formatDate": func(t time.Time, layout string) string {
		return t.Format(layout)
	},
}).Parse(boardTemplateHTML))

// RenderBoardHTML renders the printable board view.
func RenderBoardHTML(b Board) (string, error) {
	var buf bytes.Buffer
	if err := boardTemplate.Execute(&buf, b); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const boardTemplateHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.5; max-width: 800px; margin: 2rem auto; color: #222; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 2rem; }
    .section { margin: 1.5rem 0; }
    .section h2 { font-size: 1.1em; padding: 0.3rem 0.6rem; background: #f0f0f0; border-left: 4px solid #888; }
    .post { border: 1px solid #ddd; border-radius: 4px; padding: 0.8rem; margin: 0.6rem 0; page-break-inside: avoid; }
    .post h3 { margin: 0 0 0.4rem; font-size: 1em; }
    .post .byline { color: #888; font-size: 0.8em; }
    .comment { margin: 0.4rem 0 0 1rem; padding-left: 0.6rem; border-left: 2px solid #eee; font-size: 0.9em; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  {{if .Description}}<p>{{.Description}}</p>{{end}}
  <div class="meta">{{.OwnerName}} | exported {{formatDate .ExportedAt "Jan 2, 2006 15:04"}}</div>
  {{range .Sections}}
  <div class="section">
    <h2>{{.Title}}</h2>
    {{range .Posts}}
    <div class="post">
      {{if .Title}}<h3>{{.Title}}</h3>{{end}}
      {{if .Content}}<p>{{.Content}}</p>{{end}}
      <div class="byline">{{if .AuthorName}}{{.AuthorName}}{{else}}Anonymous{{end}} | {{formatDate .CreatedAt "Jan 2, 2006"}}{{if .Likes}} | {{.Likes}} likes{{end}}</div>
      {{range .Comments}}
      <div class="comment"><strong>{{if .AuthorName}}{{.AuthorName}}{{else}}Anonymous{{end}}:</strong> {{.Content}}</div>
      {{end}}
    </div>
    {{end}}
  </div>
  {{end}}
</body>
</html>`
