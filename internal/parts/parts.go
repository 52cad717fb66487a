// Package parts reassembles files the archive service splits into
// "<name>.part<N>" pieces.
package parts

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/danieljhkim/aihub/internal/fsops"
)

var partName = regexp.MustCompile(`^(.+)\.part(\d+)$`)

// ParsePartName splits a part file name into its prefix and number.
func ParsePartName(name string) (prefix string, n int, ok bool) {
	m := partName.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], n, true
}

// Merged describes one reassembled file.
type Merged struct {
	Dir    string   `json:"dir"`
	Prefix string   `json:"prefix"`
	Output string   `json:"output"`
	Parts  []string `json:"parts"`
	Bytes  int64    `json:"bytes"`
}

type part struct {
	n    int
	path string
}

// Reassembler merges part files found on disk.
type Reassembler struct {
	fs fsops.FS
}

// NewReassembler creates a Reassembler.
func NewReassembler(fs fsops.FS) *Reassembler {
	return &Reassembler{fs: fs}
}

// MergeAll merges the parts of every directory below root, root included.
func (r *Reassembler) MergeAll(root string) ([]Merged, error) {
	var all []Merged
	err := r.fs.WalkDirs(root, func(dir string) error {
		merged, err := r.MergeDir(dir)
		if err != nil {
			return err
		}
		all = append(all, merged...)
		return nil
	})
	if err != nil {
		return all, err
	}
	return all, nil
}

// MergeDir merges the parts of a single directory. Each group is written
// as <prefix> in ascending part order, replacing any existing file of that
// name, and its parts are then removed. Groups are processed in prefix
// order.
func (r *Reassembler) MergeDir(dir string) ([]Merged, error) {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	groups := make(map[string][]part)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		prefix, n, ok := ParsePartName(e.Name())
		if !ok {
			continue
		}
		groups[prefix] = append(groups[prefix], part{n: n, path: filepath.Join(dir, e.Name())})
	}

	prefixes := make([]string, 0, len(groups))
	for prefix := range groups {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	var merged []Merged
	for _, prefix := range prefixes {
		m, err := r.merge(dir, prefix, groups[prefix])
		if err != nil {
			return merged, err
		}
		merged = append(merged, m)
	}
	return merged, nil
}

func (r *Reassembler) merge(dir, prefix string, group []part) (Merged, error) {
	sort.Slice(group, func(i, j int) bool {
		return group[i].n < group[j].n
	})

	output := filepath.Join(dir, prefix)
	m := Merged{Dir: dir, Prefix: prefix, Output: output}

	log.Info().Str("dir", dir).Str("prefix", prefix).Int("parts", len(group)).Msg("merging parts")

	err := r.fs.AtomicWriteFrom(output, 0644, func(w io.Writer) error {
		for _, p := range group {
			n, err := r.appendPart(w, p.path)
			if err != nil {
				return err
			}
			m.Bytes += n
		}
		return nil
	})
	if err != nil {
		return m, fmt.Errorf("failed to merge %s: %w", output, err)
	}

	for _, p := range group {
		if err := r.fs.Remove(p.path); err != nil {
			return m, fmt.Errorf("failed to remove part %s: %w", p.path, err)
		}
		m.Parts = append(m.Parts, p.path)
	}
	return m, nil
}

func (r *Reassembler) appendPart(w io.Writer, path string) (int64, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open part: %w", err)
	}
	defer func() { _ = f.Close() }()

	n, err := io.Copy(w, f)
	if err != nil {
		return n, fmt.Errorf("failed to copy part %s: %w", path, err)
	}
	return n, nil
}
