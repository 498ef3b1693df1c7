package analysis

import (
	"bytes"
	"math"

	"github.com/ziadkadry99/repodocs/internal/walker"
)

// EstimateMetrics summarises repository size. Lines of code are estimated
// from the first MetricsSampleFiles code files: the average line count of
// the readable samples times the number of code files. Unreadable samples
// are left out of the average.
func EstimateMetrics(files []walker.FileDescriptor, root string) Metrics {
	m := Metrics{TotalFiles: len(files)}

	var regular int64
	var code []walker.FileDescriptor
	for _, f := range files {
		if f.IsDir {
			continue
		}
		regular++
		m.TotalSizeBytes += f.Size
		if walker.IsCode(f.Extension) {
			code = append(code, f)
		}
	}
	m.CodeFiles = len(code)
	if regular > 0 {
		m.AverageFileSize = m.TotalSizeBytes / regular
	}

	sampled, lines := 0, 0
	for _, f := range code {
		if sampled == MetricsSampleFiles {
			break
		}
		data, err := readFile(root, f.RelPath)
		if err != nil {
			continue
		}
		sampled++
		lines += countLines(data)
	}
	if sampled > 0 {
		avg := float64(lines) / float64(sampled)
		m.EstimatedLinesOfCode = int(math.Round(avg * float64(m.CodeFiles)))
	}
	return m
}

// countLines counts newline-terminated lines plus a trailing partial line.
func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}
