package treeparse

import "strings"

const (
	branch   = "├─"
	leaf     = "└─"
	vertical = "│ "
	marker   = "*"
)

// Normalize rewrites a listing line's box-drawing prefix into a run of
// markers, one per indentation step.
//
// Branch and vertical glyphs collapse to the leaf glyph, a four-space indent
// before a leaf becomes an extra leaf, stray single spaces before a leaf are
// absorbed, and each remaining leaf becomes one marker. The space and indent
// rewrites repeat until nothing changes.
func Normalize(line string) string {
	line = strings.ReplaceAll(line, branch, leaf)
	line = strings.ReplaceAll(line, vertical, leaf)

	for strings.Contains(line, "    "+leaf) {
		line = strings.ReplaceAll(line, "    "+leaf, leaf+leaf)
	}
	for strings.Contains(line, " "+leaf) {
		line = strings.ReplaceAll(line, " "+leaf, leaf)
	}

	return strings.ReplaceAll(line, leaf, marker)
}

// splitMarkers returns the number of leading markers of a normalized line
// and the text left once every marker is removed.
func splitMarkers(normalized string) (weight int, label string) {
	for weight < len(normalized) && normalized[weight] == marker[0] {
		weight++
	}
	label = strings.TrimSpace(strings.ReplaceAll(normalized, marker, ""))
	return weight, label
}
