package docgen

import (
	"strings"
	"text/template"

	"github.com/ziadkadry99/repodocs/internal/analysis"
	"github.com/ziadkadry99/repodocs/internal/diagrams"
)

var templateFuncs = template.FuncMap{
	"code": func(s string) string {
		if s == "" {
			return ""
		}
		return "`" + s + "`"
	},
	"join":    strings.Join,
	"trim":    strings.TrimSpace,
	"diagram": diagrams.StackDiagram,
}

var fallbackTmpl = template.Must(template.New("fallback").Funcs(templateFuncs).Parse(fallbackTemplate))

// RenderFallback renders documentation from the analysis facts alone.
func RenderFallback(r *analysis.AnalysisResult) (string, error) {
	var b strings.Builder
	if err := fallbackTmpl.Execute(&b, r); err != nil {
		return "", err
	}
	return b.String(), nil
}

const fallbackTemplate = `# {{ .Repository.Name }}
{{ with .Repository.URL }}
Source: {{ . }}{{ with $.Repository.Branch }} (branch {{ code . }}){{ end }}
{{ end }}
## Overview

{{ if .Readme }}{{ trim .Readme.Content }}
{{ if .Readme.Truncated }}
*README truncated; see {{ code .Readme.Filename }} for the full text.*
{{ end }}{{ else }}No README found.
{{ end }}
## Tech Stack

**Languages:**
{{ range .Languages }}
- {{ .Language }} ({{ .FileCount }} files)
{{- else }}
- None detected
{{- end }}

**Frameworks:** {{ if .Frameworks }}{{ join .Frameworks ", " }}{{ else }}None detected{{ end }}
{{ with diagram . }}
` + "```mermaid" + `
{{ . }}` + "```" + `
{{ end }}
## Dependencies
{{ if and (eq .Dependencies.PackageManager "unknown") (eq .Dependencies.Total 0) }}
No dependency manifest found.
{{ else }}
Package manager: {{ code .Dependencies.PackageManager }} ({{ .Dependencies.Total }} total)

**Production:** {{ if .Dependencies.Production }}{{ join .Dependencies.Production ", " }}{{ else }}None{{ end }}

**Development:** {{ if .Dependencies.Development }}{{ join .Dependencies.Development ", " }}{{ else }}None{{ end }}
{{ end }}
## Project Structure

` + "```" + `
{{ trim .Structure }}
` + "```" + `

## Getting Started

**Entry points:**
{{ range .EntryPoints }}
- {{ code . }}
{{- else }}
- None found
{{- end }}

**Configuration files:**
{{ range .ConfigFiles }}
- {{ code . }}
{{- else }}
- None found
{{- end }}

## Testing
{{ range .TestFiles }}
- {{ code . }}
{{- else }}
No test files found.
{{- end }}
{{ if .APISpecs }}
## API Reference
{{ range .APISpecs }}
- {{ code .File }}: {{ .Type }}{{ with .Title }}, {{ . }}{{ end }}{{ with .Version }} {{ . }}{{ end }}
{{- end }}
{{ end }}
## Documentation
{{ range .DocumentationFiles }}
- {{ code . }}
{{- else }}
No additional documentation files found.
{{- end }}

## Metrics

| Metric | Value |
|--------|-------|
| Files | {{ .Metrics.TotalFiles }} |
| Code files | {{ .Metrics.CodeFiles }} |
| Estimated lines of code | {{ .Metrics.EstimatedLinesOfCode }} |
| Total size (bytes) | {{ .Metrics.TotalSizeBytes }} |
| Average file size (bytes) | {{ .Metrics.AverageFileSize }} |
`
