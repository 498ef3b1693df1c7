package analysis

import (
	"sort"
	"strings"

	"github.com/ziadkadry99/repodocs/internal/walker"
)

var importantFiles = map[string]bool{
	"package.json":        true,
	"requirements.txt":    true,
	"pyproject.toml":      true,
	"setup.py":            true,
	"pipfile":             true,
	"go.mod":              true,
	"cargo.toml":          true,
	"pom.xml":             true,
	"build.gradle":        true,
	"gemfile":             true,
	"composer.json":       true,
	"tsconfig.json":       true,
	"dockerfile":          true,
	"docker-compose.yml":  true,
	"docker-compose.yaml": true,
	"makefile":            true,
	".env.example":        true,
}

func isImportantFile(name string) bool {
	lower := strings.ToLower(name)
	return importantFiles[lower] || strings.HasPrefix(lower, "readme") ||
		strings.HasPrefix(lower, "license") || strings.HasPrefix(lower, "changelog")
}

// RenderStructure draws the top of the tree: up to MaxStructureDirs sorted
// top-level directories, then up to MaxStructureFiles sorted important root
// files, under the repository name.
func RenderStructure(name string, files []walker.FileDescriptor) string {
	var dirs, roots []string
	for _, f := range files {
		if strings.Contains(f.RelPath, "/") {
			continue
		}
		if f.IsDir {
			dirs = append(dirs, f.Name)
		} else if isImportantFile(f.Name) {
			roots = append(roots, f.Name)
		}
	}
	sort.Strings(dirs)
	sort.Strings(roots)
	if len(dirs) > MaxStructureDirs {
		dirs = dirs[:MaxStructureDirs]
	}
	if len(roots) > MaxStructureFiles {
		roots = roots[:MaxStructureFiles]
	}

	var b strings.Builder
	b.WriteString(name + "/\n")
	for _, d := range dirs {
		b.WriteString("  " + d + "/\n")
	}
	for _, f := range roots {
		b.WriteString("  " + f + "\n")
	}
	return b.String()
}
