package walker

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names never descended into: dependency
// caches, build output and version-control metadata.
var DefaultExcludes = []string{
	"node_modules",
	"bower_components",
	"vendor",
	"__pycache__",
	"venv",
	".venv",
	"dist",
	"build",
	"out",
	"target",
	"coverage",
	".next",
	".nuxt",
	".git",
	".svn",
	".hg",
}

// allowedDotfiles are dot-prefixed names kept by the walker.
var allowedDotfiles = map[string]bool{
	".env":           true,
	".env.example":   true,
	".gitignore":     true,
	".dockerignore":  true,
	".github":        true,
	".gitlab-ci.yml": true,
	".travis.yml":    true,
	".prettierrc":    true,
	".babelrc":       true,
	".editorconfig":  true,
	".nvmrc":         true,
}

// shouldExcludeDir checks whether a directory name matches any default
// exclusion. This is used during traversal to skip entire subtrees.
func shouldExcludeDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// isHidden reports whether a dot-prefixed name should be skipped.
func isHidden(name string) bool {
	if !strings.HasPrefix(name, ".") {
		return false
	}
	if allowedDotfiles[name] || strings.HasPrefix(name, ".eslintrc") {
		return false
	}
	return true
}

// MatchesExclude returns true if the given relative path matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny checks if relPath matches any of the given glob patterns,
// either as a full path or by basename.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	base := filepath.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
