package treeparse

import (
	"strings"
	"testing"

	"github.com/danieljhkim/aihub/internal/manifest"
)

const sampleListing = `This dataset is provided for research use.
Please read the notice before downloading.
================================ 공지사항 ================================
└─images
    ├─경구약제 | 92 GB | 66065
    └─sub folder
        └─a b.zip | 1 MB | 3
└─labels.zip | 10 KB | 7
`

func TestParse_Scenario(t *testing.T) {
	m := Parse("576", sampleListing)

	if m.DatasetKey != "576" {
		t.Errorf("DatasetKey = %q", m.DatasetKey)
	}
	if len(m.Roots) != 2 {
		t.Fatalf("len(Roots) = %d, want 2", len(m.Roots))
	}

	n, ok := m.Lookup(66065)
	if !ok {
		t.Fatal("key 66065 not indexed")
	}
	if n.Kind != manifest.KindFile {
		t.Errorf("Kind = %v, want file", n.Kind)
	}
	if n.Path != "images/경구약제" {
		t.Errorf("Path = %q, want images/경구약제", n.Path)
	}
	if n.Size != "92 GB" {
		t.Errorf("Size = %q, want 92 GB", n.Size)
	}
	if n.DownloadKey != "66065" {
		t.Errorf("DownloadKey = %q", n.DownloadKey)
	}
	if n.Depth != 1 {
		t.Errorf("Depth = %d, want 1", n.Depth)
	}
}

func TestParse_TreeShape(t *testing.T) {
	m := Parse("576", sampleListing)

	images := m.Roots[0]
	if images.Name != "images" || images.Kind != manifest.KindDirectory || images.Depth != 0 {
		t.Fatalf("unexpected first root: %+v", images)
	}
	if len(images.Children) != 2 {
		t.Fatalf("images has %d children, want 2", len(images.Children))
	}

	sub := images.Children[1]
	if sub.Name != "sub folder" || sub.Path != "images/sub_folder" {
		t.Errorf("sub directory = %q at %q", sub.Name, sub.Path)
	}

	nested, ok := m.Lookup(3)
	if !ok {
		t.Fatal("key 3 not indexed")
	}
	if nested.Path != "images/sub_folder/a_b.zip" || nested.Depth != 2 {
		t.Errorf("nested file path=%q depth=%d", nested.Path, nested.Depth)
	}
	if nested.Name != "a b.zip" {
		t.Errorf("Name should keep spaces, got %q", nested.Name)
	}

	labels := m.Roots[1]
	if labels.Path != "labels.zip" || labels.Depth != 0 {
		t.Errorf("labels root path=%q depth=%d", labels.Path, labels.Depth)
	}
}

func TestParse_BannerSkipped(t *testing.T) {
	m := Parse("1", sampleListing)
	m.Walk(func(n *manifest.Node) {
		if strings.Contains(n.Name, "notice") || strings.Contains(n.Name, "research") {
			t.Errorf("banner line became node %q", n.Name)
		}
	})
}

func TestParse_WithoutSeparatorYieldsNothing(t *testing.T) {
	m := Parse("1", "└─images\n    └─a.zip | 1 GB | 1")
	if len(m.Roots) != 0 || m.Len() != 0 {
		t.Errorf("listing without banner separator should be skipped entirely, got %d roots", len(m.Roots))
	}
}

func TestParse_CRLFAndBlankLines(t *testing.T) {
	text := "notice\r\n=====\r\n└─d\r\n\r\n    └─f.zip | 5 MB | 11\r\n"
	m := Parse("1", text)

	n, ok := m.Lookup(11)
	if !ok {
		t.Fatal("key 11 not indexed")
	}
	if n.DownloadKey != "11" || n.Path != "d/f.zip" {
		t.Errorf("got key=%q path=%q", n.DownloadKey, n.Path)
	}
}

func TestParse_MalformedPipeLineIsDirectory(t *testing.T) {
	text := "=\n└─odd | name\n    └─f.zip | 1 KB | 4\n"
	m := Parse("1", text)

	if len(m.Roots) != 1 {
		t.Fatalf("len(Roots) = %d, want 1", len(m.Roots))
	}
	odd := m.Roots[0]
	if odd.Kind != manifest.KindDirectory || odd.Name != "odd | name" {
		t.Errorf("malformed pipe line parsed as %v %q", odd.Kind, odd.Name)
	}
	if len(odd.Children) != 1 || odd.Children[0].DownloadKey != "4" {
		t.Errorf("file should attach below the malformed directory")
	}
}

func TestParse_EmptyLabelSkipped(t *testing.T) {
	text := "=\n└─d\n    └─\n    └─f.zip | 1 KB | 4\n"
	m := Parse("1", text)

	if len(m.Roots) != 1 || len(m.Roots[0].Children) != 1 {
		t.Fatalf("bare connector line should not create a node")
	}
}

func TestParse_LateSmallerWeightKeepsEmittedDepths(t *testing.T) {
	text := "=\n" +
		"        └─deep\n" + // weight 3, first seen, depth 0
		"└─shallow\n" // weight 1, rank 0 among {1,3}
	m := Parse("1", text)

	if len(m.Roots) != 2 {
		t.Fatalf("len(Roots) = %d, want 2", len(m.Roots))
	}
	if m.Roots[0].Depth != 0 {
		t.Errorf("already-emitted node re-ranked to %d", m.Roots[0].Depth)
	}
	if m.Roots[1].Depth != 0 {
		t.Errorf("shallow.Depth = %d, want 0", m.Roots[1].Depth)
	}
}

func TestParse_DepthMatchesFinalRank(t *testing.T) {
	p := NewParser()
	for _, line := range strings.Split(sampleListing, "\n") {
		p.Feed(line)
	}
	weights := p.alphabet.Weights()

	p.Manifest("1").Walk(func(n *manifest.Node) {
		if weights[n.Depth] != n.Weight {
			t.Errorf("%q: depth %d does not rank weight %d in %v", n.Name, n.Depth, n.Weight, weights)
		}
	})
}

func TestParser_Reset(t *testing.T) {
	p := NewParser()
	for _, line := range strings.Split(sampleListing, "\n") {
		p.Feed(line)
	}
	p.Reset()

	for _, line := range strings.Split("=\n└─only.zip | 1 B | 1", "\n") {
		p.Feed(line)
	}
	m := p.Manifest("2")
	if len(m.Roots) != 1 || m.Roots[0].Name != "only.zip" {
		t.Errorf("Reset did not discard previous listing: %d roots", len(m.Roots))
	}
}
