package output

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// DefaultDiffContext is the number of context lines around each hunk.
const DefaultDiffContext = 4

// UnifiedDiff renders a unified patch from before to after for path. It
// returns "" when the two texts are identical. A context below 1 means
// DefaultDiffContext.
func UnifiedDiff(path, before, after string, context int) (string, error) {
	if before == after {
		return "", nil
	}
	if context <= 0 {
		context = DefaultDiffContext
	}

	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(before),
		B:        splitLinesKeepNL(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  context,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", path, err)
	}
	return s, nil
}

// splitLinesKeepNL splits s into lines that keep their newline, so a file
// without a trailing newline still diffs cleanly.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
