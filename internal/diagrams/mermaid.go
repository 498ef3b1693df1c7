// Package diagrams renders analysis facts as mermaid diagrams.
package diagrams

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/repodocs/internal/analysis"
)

// maxNodes caps the nodes drawn per group.
const maxNodes = 8

// group is one cluster of nodes hanging off the repository node.
type group struct {
	id    string
	title string
	edge  string
	items []string
}

// StackDiagram draws the repository with its languages, frameworks, entry
// points and API specs as a mermaid "graph LR". It returns "" when the
// result has none of them.
func StackDiagram(r *analysis.AnalysisResult) string {
	langs := make([]string, len(r.Languages))
	for i, l := range r.Languages {
		langs[i] = l.Language
	}
	specs := make([]string, len(r.APISpecs))
	for i, s := range r.APISpecs {
		specs[i] = s.File
	}
	groups := []group{
		{id: "lang", title: "Languages", edge: "written in", items: langs},
		{id: "fw", title: "Frameworks", edge: "uses", items: r.Frameworks},
		{id: "entry", title: "Entry points", edge: "starts at", items: r.EntryPoints},
		{id: "api", title: "API specs", edge: "describes", items: specs},
	}

	var b strings.Builder
	drawn := 0
	b.WriteString("graph LR\n")
	fmt.Fprintf(&b, "    repo[\"%s\"]\n", escapeMermaid(r.Repository.Name))
	for _, g := range groups {
		if len(g.items) == 0 {
			continue
		}
		items := g.items
		more := 0
		if len(items) > maxNodes {
			more = len(items) - maxNodes
			items = items[:maxNodes]
		}
		fmt.Fprintf(&b, "    subgraph %s[\"%s\"]\n", g.id, g.title)
		for i, item := range items {
			fmt.Fprintf(&b, "        %s_%d[\"%s\"]\n", g.id, i, escapeMermaid(item))
		}
		if more > 0 {
			fmt.Fprintf(&b, "        %s_more[\"+%d more\"]\n", g.id, more)
		}
		b.WriteString("    end\n")
		fmt.Fprintf(&b, "    repo -->|%s| %s\n", g.edge, g.id)
		drawn++
	}
	if drawn == 0 {
		return ""
	}
	return b.String()
}

// escapeMermaid escapes characters that have special meaning in mermaid labels.
func escapeMermaid(s string) string {
	return labelEscaper.Replace(s)
}

var labelEscaper = strings.NewReplacer(
	"\"", "#quot;",
	"(", "#lpar;",
	")", "#rpar;",
	"[", "#lsqb;",
	"]", "#rsqb;",
	"{", "#lbrace;",
	"}", "#rbrace;",
	"<", "#lt;",
	">", "#gt;",
)
