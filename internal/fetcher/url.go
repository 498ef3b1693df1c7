package fetcher

import (
	"strings"
)

// RepoName derives a display name from a repository URL: any trailing slash
// and ".git" suffix are dropped and the last path segment is kept. Both
// https and scp-style (git@host:org/repo) URLs are handled.
//
// Examples:
//   - https://github.com/org/repo.git -> repo
//   - git@github.com:org/repo.git -> repo
//   - https://gitlab.com/group/sub/repo/ -> repo
func RepoName(url string) string {
	name := strings.TrimSpace(url)
	name = strings.TrimRight(name, "/")
	name = strings.TrimSuffix(name, ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "repository"
	}
	return name
}

// sanitize makes name safe for use as a directory component.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
		if b.Len() >= 64 {
			break
		}
	}
	out := strings.Trim(b.String(), ".-")
	if out == "" {
		return "repo"
	}
	return out
}
