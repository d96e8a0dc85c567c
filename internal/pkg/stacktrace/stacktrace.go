// Package stacktrace extracts this repository's own frames from a goroutine
// stack dump, used when logging recovered panics.
package stacktrace

import "strings"

// InternalPaths filters a raw stack trace down to file:line entries under an
// internal/ directory.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines))

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.Contains(line, "/internal/") {
			continue
		}

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		end := strings.Index(line[idx:], " ")
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}

		short := line[:end]
		if cut := strings.Index(short, "/internal/"); cut != -1 {
			paths = append(paths, short[cut+1:])
		}
	}

	return paths
}
