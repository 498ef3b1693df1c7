package analysis

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/repodocs/internal/walker"
)

// FindAPISpecs returns OpenAPI/Swagger and GraphQL schema files. Candidates
// are chosen by name and kept only when their content carries a matching
// marker. Files above MaxSpecSize are never read. Read failures skip the
// file and are returned joined alongside the specs found.
func FindAPISpecs(files []walker.FileDescriptor, root string) ([]APISpec, error) {
	specs := []APISpec{}
	var errs []error
	for _, f := range files {
		if len(specs) >= MaxAPISpecs {
			break
		}
		if f.IsDir || f.Size > MaxSpecSize {
			continue
		}
		kind := specCandidate(f)
		if kind == "" {
			continue
		}
		data, err := readFile(root, f.RelPath)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.RelPath, err))
			continue
		}
		content := string(data)
		if !hasSpecMarker(kind, content) {
			continue
		}
		preview, _ := truncateRunes(content, SpecPreviewBudget)
		spec := APISpec{File: f.RelPath, Type: kind, Size: f.Size, Preview: preview}
		if kind == SpecOpenAPI {
			spec.Title, spec.Version = openAPIInfo(data)
		}
		specs = append(specs, spec)
	}
	return specs, errors.Join(errs...)
}

// specCandidate classifies a file by name alone.
func specCandidate(f walker.FileDescriptor) string {
	name := strings.ToLower(f.Name)
	rest := strings.Contains(name, "swagger") || strings.Contains(name, "openapi")
	switch f.Extension {
	case ".yaml", ".yml":
		if rest || strings.Contains(name, "api") {
			return SpecOpenAPI
		}
	case ".json":
		if rest {
			return SpecOpenAPI
		}
	case ".graphql", ".gql", ".graphqls":
		return SpecGraphQL
	}
	if strings.TrimSuffix(name, path.Ext(name)) == "schema" && f.Extension != ".json" && f.Extension != ".sql" {
		return SpecGraphQL
	}
	return ""
}

func hasSpecMarker(kind, content string) bool {
	if kind == SpecGraphQL {
		return strings.Contains(content, "type ") || strings.Contains(content, "schema ")
	}
	return strings.Contains(content, "openapi:") || strings.Contains(content, "swagger:") ||
		strings.Contains(content, `"openapi"`) || strings.Contains(content, `"swagger"`)
}

// openAPIInfo extracts info.title and info.version. YAML is a superset of
// JSON, so one decoder serves both encodings; parse failures yield blanks.
func openAPIInfo(data []byte) (title, version string) {
	var doc struct {
		Info struct {
			Title   string `yaml:"title"`
			Version string `yaml:"version"`
		} `yaml:"info"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", ""
	}
	return doc.Info.Title, doc.Info.Version
}
