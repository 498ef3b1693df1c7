package analysis

import (
	"strings"

	"github.com/ziadkadry99/repodocs/internal/walker"
)

var configNames = map[string]bool{
	"dockerfile":         true,
	"docker-compose.yml": true,
	"makefile":           true,
	".env":               true,
	".env.example":       true,
	".editorconfig":      true,
	".prettierrc":        true,
	".babelrc":           true,
	".nvmrc":             true,
	".gitignore":         true,
	".dockerignore":      true,
	"procfile":           true,
	"pyproject.toml":     true,
	"setup.cfg":          true,
	"tox.ini":            true,
	"cargo.toml":         true,
}

var configExtensions = map[string]bool{
	".yml":        true,
	".yaml":       true,
	".toml":       true,
	".ini":        true,
	".cfg":        true,
	".conf":       true,
	".properties": true,
}

// FindConfigFiles lists configuration files in encounter order, capped at
// MaxConfigFiles.
func FindConfigFiles(files []walker.FileDescriptor) []string {
	out := []string{}
	for _, f := range files {
		if f.IsDir {
			continue
		}
		if isConfigFile(f) {
			out = capped(out, f.RelPath, MaxConfigFiles)
		}
	}
	return out
}

func isConfigFile(f walker.FileDescriptor) bool {
	name := strings.ToLower(f.Name)
	switch {
	case configNames[name], configExtensions[f.Extension]:
		return true
	case strings.Contains(name, ".config.") || strings.HasPrefix(name, ".eslintrc"):
		return true
	case strings.HasPrefix(name, "tsconfig") || strings.HasPrefix(name, "jsconfig"):
		return true
	}
	return false
}

// FindTestFiles lists test files in encounter order, capped at MaxTestFiles.
func FindTestFiles(files []walker.FileDescriptor) []string {
	out := []string{}
	for _, f := range files {
		if f.IsDir {
			continue
		}
		if isTestFile(f) {
			out = capped(out, f.RelPath, MaxTestFiles)
		}
	}
	return out
}

func isTestFile(f walker.FileDescriptor) bool {
	name := strings.ToLower(f.Name)
	if strings.Contains(name, ".test.") || strings.Contains(name, ".spec.") {
		return true
	}
	if strings.HasPrefix(name, "test_") || strings.HasSuffix(name, "_test.go") ||
		strings.HasSuffix(name, "_test.py") || strings.HasSuffix(name, "_spec.rb") {
		return true
	}
	if strings.HasSuffix(f.Name, "Test.java") || strings.HasSuffix(f.Name, "Tests.cs") || strings.HasSuffix(f.Name, "Test.kt") {
		return true
	}
	// Any directory segment naming tests or specs marks its files.
	segments := strings.Split(strings.ToLower(f.RelPath), "/")
	for _, seg := range segments[:len(segments)-1] {
		if strings.Contains(seg, "test") || strings.Contains(seg, "spec") {
			return true
		}
	}
	return false
}

var docExtensions = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
	".rst":      true,
	".adoc":     true,
}

var docDirs = map[string]bool{
	"docs":          true,
	"doc":           true,
	"documentation": true,
	"wiki":          true,
}

// FindDocumentationFiles lists documentation files in encounter order,
// capped at MaxDocFiles.
func FindDocumentationFiles(files []walker.FileDescriptor) []string {
	out := []string{}
	for _, f := range files {
		if f.IsDir {
			continue
		}
		if isDocFile(f) {
			out = capped(out, f.RelPath, MaxDocFiles)
		}
	}
	return out
}

func isDocFile(f walker.FileDescriptor) bool {
	if docExtensions[f.Extension] {
		return true
	}
	first, _, nested := strings.Cut(strings.ToLower(f.RelPath), "/")
	return nested && docDirs[first] && f.Extension == ".txt"
}
