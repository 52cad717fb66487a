// Package manifest models a dataset's file listing.
//
// A Manifest is a forest of Nodes rebuilt from the archive service's
// text-tree listing, plus an index from integer download key to file node.
// It is the only structure the acquisition pipeline consults when resolving a
// user's key selection.
package manifest

import "fmt"

// Kind distinguishes files from directories.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind as "file" or "directory".
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses "file" or "directory".
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "file":
		*k = KindFile
	case "directory":
		*k = KindDirectory
	default:
		return fmt.Errorf("unknown node kind %q", string(b))
	}
	return nil
}

// Node is one entry of the listing tree.
type Node struct {
	// Name is the label as shown in the listing (spaces preserved)
	Name string `json:"name"`

	Kind Kind `json:"kind"`

	// Depth is the rank of the node's indentation weight among all weights
	// seen so far in the listing
	Depth int `json:"depth"`

	// Weight is the raw indentation weight (count of leading markers)
	Weight int `json:"-"`

	// Path is the slash-separated location relative to the download
	// directory, with spaces replaced by underscores
	Path string `json:"path"`

	// Size is the human-readable size text (files only)
	Size string `json:"size,omitempty"`

	// DownloadKey is the service-side file identifier (files only)
	DownloadKey string `json:"downloadKey,omitempty"`

	// Children are kept in source order (directories only)
	Children []*Node `json:"children,omitempty"`
}

// IsFile reports whether the node is a file.
func (n *Node) IsFile() bool {
	return n.Kind == KindFile
}

// AddChild appends child to a directory node.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}
