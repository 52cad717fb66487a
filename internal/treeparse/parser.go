// Package treeparse rebuilds a dataset manifest from the archive service's
// text-tree listing.
//
// The listing is a notice banner followed by a box-drawn tree. File lines
// carry "name | size | key"; every other line is a directory. Indentation is
// irregular, so depth comes from a DepthAlphabet of observed weights rather
// than from a fixed indent width.
package treeparse

import (
	"path"
	"strings"

	"github.com/danieljhkim/aihub/internal/manifest"
)

// noticeMarker is the heading of the banner that precedes the tree.
const noticeMarker = "공지사항"

// minFileFields is the number of pipe-separated fields a file line carries.
const minFileFields = 3

// Parser consumes a listing line by line. A Parser holds per-listing state
// and must not be reused for a second listing without Reset.
type Parser struct {
	alphabet DepthAlphabet
	stack    []*manifest.Node
	roots    []*manifest.Node
	inBanner bool
}

// NewParser returns a parser positioned at the start of a listing.
func NewParser() *Parser {
	p := &Parser{}
	p.Reset()
	return p
}

// Reset discards all state so the parser can read a new listing.
func (p *Parser) Reset() {
	p.alphabet.Reset()
	p.stack = nil
	p.roots = nil
	p.inBanner = true
}

// Feed processes one physical line.
func (p *Parser) Feed(line string) {
	line = strings.TrimRight(line, "\r")

	if isSeparator(line) {
		p.inBanner = false
		return
	}
	if p.inBanner {
		return
	}

	weight, label := splitMarkers(Normalize(line))
	if label == "" {
		return
	}

	depth := p.alphabet.Depth(weight)
	node := newNode(label)
	node.Weight = weight
	node.Depth = depth

	if len(p.stack) > depth {
		p.stack = p.stack[:depth]
	}

	node.Path = nodePath(p.stack, node.Name)

	if len(p.stack) == 0 {
		p.roots = append(p.roots, node)
	} else {
		p.stack[len(p.stack)-1].AddChild(node)
	}

	if !node.IsFile() {
		p.stack = append(p.stack, node)
	}
}

// Manifest returns the manifest built from every line fed so far.
func (p *Parser) Manifest(datasetKey string) *manifest.Manifest {
	return manifest.New(datasetKey, p.roots)
}

// Parse builds a manifest from a complete listing.
func Parse(datasetKey, text string) *manifest.Manifest {
	p := NewParser()
	for _, line := range strings.Split(text, "\n") {
		p.Feed(line)
	}
	return p.Manifest(datasetKey)
}

// isSeparator reports whether line ends the banner. Such lines are never
// part of the tree.
func isSeparator(line string) bool {
	return strings.TrimSpace(line) == "" ||
		strings.Contains(line, noticeMarker) ||
		strings.Contains(line, "=")
}

// newNode classifies a label. A label with at least three pipe-separated
// fields is a file; any other label, including a malformed pipe line, is a
// directory.
func newNode(label string) *manifest.Node {
	if strings.Contains(label, "|") {
		fields := strings.Split(label, "|")
		if len(fields) >= minFileFields {
			return &manifest.Node{
				Name:        strings.TrimSpace(fields[0]),
				Kind:        manifest.KindFile,
				Size:        strings.TrimSpace(fields[1]),
				DownloadKey: strings.TrimSpace(fields[2]),
			}
		}
	}
	return &manifest.Node{
		Name: label,
		Kind: manifest.KindDirectory,
	}
}

// nodePath joins the ancestor names and name, replacing spaces with
// underscores.
func nodePath(ancestors []*manifest.Node, name string) string {
	elems := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		elems = append(elems, a.Name)
	}
	elems = append(elems, name)
	return strings.ReplaceAll(path.Join(elems...), " ", "_")
}
