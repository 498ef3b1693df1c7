package analysis

import (
	"sort"

	"github.com/ziadkadry99/repodocs/internal/walker"
)

// DetectLanguages counts files per language, most common first. Languages
// with equal counts keep the order in which they were first seen.
func DetectLanguages(files []walker.FileDescriptor) []LanguageCount {
	counts := make(map[string]int)
	var order []string
	for _, f := range files {
		if f.IsDir {
			continue
		}
		lang, ok := walker.LanguageFor(f.Extension)
		if !ok {
			continue
		}
		if counts[lang] == 0 {
			order = append(order, lang)
		}
		counts[lang]++
	}

	out := make([]LanguageCount, 0, len(order))
	for _, lang := range order {
		out = append(out, LanguageCount{Language: lang, FileCount: counts[lang]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FileCount > out[j].FileCount
	})
	return out
}
