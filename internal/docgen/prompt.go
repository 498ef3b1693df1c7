package docgen

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/repodocs/internal/analysis"
)

// Placeholders rendered for empty facets so the model does not invent them.
const (
	noReadme       = "No README found"
	noneDetected   = "None detected"
	noneFound      = "None found"
	noManifest     = "No dependency manifest found"
	noAPISpecs     = "No API specifications found"
	maxPromptItems = 40
)

const systemPrompt = `You are a technical writer producing documentation for a software repository.
Write clear GitHub-flavored markdown based only on the facts you are given.
When a section says nothing was found, say so briefly instead of guessing.
Return only the markdown document, without surrounding code fences.`

// BuildPrompt renders every facet of result as prompt text.
func BuildPrompt(r *analysis.AnalysisResult) string {
	var b strings.Builder

	repo := r.Repository
	fmt.Fprintf(&b, "Write documentation for the repository %q.\n\n", repo.Name)
	b.WriteString("Include these sections: Overview, Features, Tech Stack, Project Structure, Getting Started, Configuration, Testing, API Reference (only if specs exist).\n\n")

	b.WriteString("## Repository\n")
	fmt.Fprintf(&b, "Name: %s\n", repo.Name)
	if repo.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", repo.URL)
	}
	if repo.Branch != "" {
		fmt.Fprintf(&b, "Branch: %s\n", repo.Branch)
	}
	fmt.Fprintf(&b, "Total files: %d\n\n", repo.TotalFiles)

	b.WriteString("## Structure\n")
	if r.Structure == "" {
		b.WriteString(noneFound + "\n\n")
	} else {
		b.WriteString("```\n" + strings.TrimRight(r.Structure, "\n") + "\n```\n\n")
	}

	b.WriteString("## Languages\n")
	if len(r.Languages) == 0 {
		b.WriteString(noneDetected + "\n")
	}
	for _, l := range r.Languages {
		fmt.Fprintf(&b, "- %s: %d files\n", l.Language, l.FileCount)
	}
	b.WriteString("\n")

	writeList(&b, "Frameworks", r.Frameworks, noneDetected)

	b.WriteString("## Dependencies\n")
	deps := r.Dependencies
	if deps.PackageManager == analysis.PackageManagerUnknown && deps.Total == 0 {
		b.WriteString(noManifest + "\n\n")
	} else {
		fmt.Fprintf(&b, "Package manager: %s\nTotal: %d\n", deps.PackageManager, deps.Total)
		fmt.Fprintf(&b, "Production: %s\n", joinOr(deps.Production, noneFound))
		fmt.Fprintf(&b, "Development: %s\n\n", joinOr(deps.Development, noneFound))
	}

	b.WriteString("## README\n")
	if r.Readme == nil {
		b.WriteString(noReadme + "\n\n")
	} else {
		fmt.Fprintf(&b, "File: %s", r.Readme.Filename)
		if r.Readme.Truncated {
			fmt.Fprintf(&b, " (truncated from %d characters)", r.Readme.FullLength)
		}
		b.WriteString("\n\n" + r.Readme.Content + "\n\n")
	}

	writeList(&b, "Entry points", r.EntryPoints, noneFound)
	writeList(&b, "Configuration files", r.ConfigFiles, noneFound)
	writeList(&b, "Test files", r.TestFiles, noneFound)
	writeList(&b, "Documentation files", r.DocumentationFiles, noneFound)

	b.WriteString("## API specifications\n")
	if len(r.APISpecs) == 0 {
		b.WriteString(noAPISpecs + "\n")
	}
	for _, s := range r.APISpecs {
		fmt.Fprintf(&b, "- %s (%s", s.File, s.Type)
		if s.Title != "" {
			fmt.Fprintf(&b, ", %s", s.Title)
		}
		if s.Version != "" {
			fmt.Fprintf(&b, " %s", s.Version)
		}
		b.WriteString(")\n")
		if s.Preview != "" {
			b.WriteString("```\n" + s.Preview + "\n```\n")
		}
	}
	b.WriteString("\n")

	m := r.Metrics
	b.WriteString("## Metrics\n")
	fmt.Fprintf(&b, "Files: %d\nCode files: %d\nEstimated lines of code: %d\nTotal size: %d bytes\nAverage file size: %d bytes\n",
		m.TotalFiles, m.CodeFiles, m.EstimatedLinesOfCode, m.TotalSizeBytes, m.AverageFileSize)

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string, empty string) {
	fmt.Fprintf(b, "## %s\n", title)
	if len(items) == 0 {
		b.WriteString(empty + "\n\n")
		return
	}
	for i, it := range items {
		if i == maxPromptItems {
			fmt.Fprintf(b, "- ... and %d more\n", len(items)-maxPromptItems)
			break
		}
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	if len(items) > maxPromptItems {
		return strings.Join(items[:maxPromptItems], ", ") + fmt.Sprintf(", ... and %d more", len(items)-maxPromptItems)
	}
	return strings.Join(items, ", ")
}
