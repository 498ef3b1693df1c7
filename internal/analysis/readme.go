package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/ziadkadry99/repodocs/internal/walker"
)

// ReadReadme loads the first root-level file whose name starts with
// "readme" (case-insensitive). It returns nil when there is none.
func ReadReadme(files []walker.FileDescriptor, root string) (*Readme, error) {
	for _, f := range files {
		if f.IsDir || strings.Contains(f.RelPath, "/") {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(f.Name), "readme") {
			continue
		}
		data, err := readFile(root, f.RelPath)
		if err != nil {
			return nil, err
		}
		full := string(data)
		content, truncated := truncateRunes(full, ReadmeBudget)
		return &Readme{
			Filename:   f.Name,
			Content:    content,
			FullLength: utf8.RuneCountInString(full),
			Truncated:  truncated,
		}, nil
	}
	return nil, nil
}
