package search

import (
	"regexp"
	"strings"
)

const maxSectionRunes = 2000

var headingRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Section is a heading and the markdown below it, up to the next heading.
type Section struct {
	Heading string
	Level   int
	Content string
}

// SplitSections splits markdown at headings. Text above the first heading
// becomes a level-0 section titled with fallback. Headings inside fenced
// code blocks are ignored and empty sections are dropped.
func SplitSections(markdown, fallback string) []Section {
	var sections []Section
	current := Section{Heading: fallback}
	var body strings.Builder
	inFence := false

	flush := func() {
		current.Content = strings.TrimSpace(body.String())
		body.Reset()
		if current.Content != "" {
			sections = append(sections, splitLong(current)...)
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		if !inFence {
			if m := headingRegex.FindStringSubmatch(line); m != nil {
				flush()
				current = Section{Heading: strings.TrimSpace(m[2]), Level: len(m[1])}
				continue
			}
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()
	return sections
}

// splitLong breaks a section into parts of at most maxSectionRunes,
// preferring paragraph boundaries.
func splitLong(s Section) []Section {
	if len([]rune(s.Content)) <= maxSectionRunes {
		return []Section{s}
	}
	var parts []Section
	var cur strings.Builder
	curLen := 0
	emit := func() {
		if text := strings.TrimSpace(cur.String()); text != "" {
			parts = append(parts, Section{Heading: s.Heading, Level: s.Level, Content: text})
		}
		cur.Reset()
		curLen = 0
	}
	for _, para := range strings.Split(s.Content, "\n\n") {
		r := []rune(para)
		for len(r) > maxSectionRunes {
			emit()
			parts = append(parts, Section{Heading: s.Heading, Level: s.Level, Content: string(r[:maxSectionRunes])})
			r = r[maxSectionRunes:]
		}
		if curLen+len(r)+2 > maxSectionRunes {
			emit()
		}
		cur.WriteString(string(r))
		cur.WriteString("\n\n")
		curLen += len(r) + 2
	}
	emit()
	return parts
}
