package analysis

import (
	"sort"

	"github.com/ziadkadry99/repodocs/internal/walker"
)

// entryPointTiers maps conventional entry file names to a priority; lower
// tiers are listed first.
var entryPointTiers = map[string]int{
	// Program mains.
	"main.go":     1,
	"main.py":     1,
	"__main__.py": 1,
	"main.rs":     1,
	"Main.java":   1,
	"Main.kt":     1,
	"Program.cs":  1,
	"main.c":      1,
	"main.cpp":    1,
	"main.swift":  1,
	// Module and server entries.
	"index.js":         2,
	"index.ts":         2,
	"index.mjs":        2,
	"index.tsx":        2,
	"main.js":          2,
	"main.ts":          2,
	"app.js":           2,
	"app.ts":           2,
	"server.js":        2,
	"server.ts":        2,
	"app.py":           2,
	"manage.py":        2,
	"wsgi.py":          2,
	"asgi.py":          2,
	"Application.java": 2,
	"index.php":        2,
	"lib.rs":           2,
	// Auxiliary launchers.
	"cli.js":    3,
	"cli.ts":    3,
	"cli.py":    3,
	"run.py":    3,
	"server.py": 3,
	"start.js":  3,
	"config.ru": 3,
}

// FindEntryPoints returns paths whose base name is a conventional entry
// file, sorted by tier with encounter order kept inside a tier.
func FindEntryPoints(files []walker.FileDescriptor) []string {
	type match struct {
		path string
		tier int
	}
	var matches []match
	for _, f := range files {
		if f.IsDir {
			continue
		}
		if tier, ok := entryPointTiers[f.Name]; ok {
			matches = append(matches, match{f.RelPath, tier})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].tier < matches[j].tier
	})

	out := []string{}
	for _, m := range matches {
		out = capped(out, m.path, MaxEntryPoints)
	}
	return out
}
