// Package render converts generated markdown into a standalone HTML page.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer turns markdown documents into HTML pages.
type Renderer struct {
	md   goldmark.Markdown
	page *template.Template
}

type pageData struct {
	Title   string
	Repo    string
	Content template.HTML
}

// New creates a Renderer with GFM and syntax highlighting enabled. Raw HTML
// in the markdown is escaped since documents may come from an LLM.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Renderer{
		md:   md,
		page: template.Must(template.New("page").Parse(pageTemplate)),
	}
}

// HTML converts markdown to an HTML fragment.
func (r *Renderer) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// Page renders markdown as a complete HTML document for repo.
func (r *Renderer) Page(repo, markdown string) ([]byte, error) {
	content, err := r.HTML(markdown)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = r.page.Execute(&buf, pageData{
		Title:   extractTitle(markdown, repo),
		Repo:    repo,
		Content: template.HTML(content),
	})
	if err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return buf.Bytes(), nil
}

// extractTitle pulls the first # heading from markdown content, or falls back to the repository name.
func extractTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} | {{.Repo}}</title>
  <style>
    body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; color: #1f2328; background: #ffffff; }
    main { max-width: 880px; margin: 0 auto; padding: 32px 24px 64px; line-height: 1.6; }
    h1, h2, h3 { line-height: 1.25; }
    h1, h2 { border-bottom: 1px solid #d0d7de; padding-bottom: .3em; }
    code { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; font-size: 85%; background: #f6f8fa; padding: .2em .4em; border-radius: 6px; }
    pre { padding: 16px; overflow: auto; border-radius: 6px; background: #f6f8fa; }
    pre code { background: none; padding: 0; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #d0d7de; padding: 6px 13px; }
  </style>
</head>
<body>
  <main>
    {{.Content}}
  </main>
</body>
</html>`
