package manifest

import (
	"sort"
	"strconv"
	"strings"
)

// FileInfo is the flattened view of a downloadable file.
type FileInfo struct {
	Key   int    `json:"key"`
	Name  string `json:"name"`
	Size  string `json:"size"`
	Path  string `json:"path"`
	Depth int    `json:"depth"`
}

// Manifest is the parsed listing of one dataset.
type Manifest struct {
	DatasetKey string  `json:"datasetKey"`
	Roots      []*Node `json:"roots"`

	index map[int]*Node
}

// New builds a manifest and its key index by a full depth-first traversal.
// When two file nodes share a key the later one in traversal order wins.
// File nodes whose download key is not an integer stay in the tree but are
// not indexed.
func New(datasetKey string, roots []*Node) *Manifest {
	m := &Manifest{
		DatasetKey: datasetKey,
		Roots:      roots,
		index:      make(map[int]*Node),
	}

	m.Walk(func(n *Node) {
		if !n.IsFile() {
			return
		}
		key, err := strconv.Atoi(strings.TrimSpace(n.DownloadKey))
		if err != nil {
			return
		}
		m.index[key] = n
	})

	return m
}

// Walk visits every node depth-first in pre-order.
func (m *Manifest) Walk(fn func(n *Node)) {
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			fn(n)
			visit(n.Children)
		}
	}
	visit(m.Roots)
}

// Lookup returns the file node with the given download key.
func (m *Manifest) Lookup(key int) (*Node, bool) {
	n, ok := m.index[key]
	return n, ok
}

// Len returns the number of indexed files.
func (m *Manifest) Len() int {
	return len(m.index)
}

// Files returns every indexed file in ascending key order.
func (m *Manifest) Files() []FileInfo {
	files := make([]FileInfo, 0, len(m.index))
	for key, n := range m.index {
		files = append(files, fileInfo(key, n))
	}
	sortFiles(files)
	return files
}

// Resolve maps a selection onto indexed files. Keys absent from the index
// are dropped without error; an empty result is the caller's concern.
func (m *Manifest) Resolve(sel Selection) map[int]FileInfo {
	out := make(map[int]FileInfo)

	if sel.All() {
		for key, n := range m.index {
			out[key] = fileInfo(key, n)
		}
		return out
	}

	for _, key := range sel.Keys() {
		if n, ok := m.index[key]; ok {
			out[key] = fileInfo(key, n)
		}
	}
	return out
}

// SortedFiles returns the values of a resolved set in ascending key order.
func SortedFiles(files map[int]FileInfo) []FileInfo {
	out := make([]FileInfo, 0, len(files))
	for _, f := range files {
		out = append(out, f)
	}
	sortFiles(out)
	return out
}

func fileInfo(key int, n *Node) FileInfo {
	return FileInfo{
		Key:   key,
		Name:  n.Name,
		Size:  n.Size,
		Path:  n.Path,
		Depth: n.Depth,
	}
}

func sortFiles(files []FileInfo) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Key < files[j].Key
	})
}
