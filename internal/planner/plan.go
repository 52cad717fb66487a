package planner

import (
	"github.com/danieljhkim/aihub/internal/manifest"
)

// SentinelSuffix marks an archive that was already extracted and removed.
const SentinelSuffix = ".unzip"

// SkipReason explains why a file was left out of a download.
type SkipReason string

// Skip reason constants
const (
	SkipExists   SkipReason = "exists"
	SkipSentinel SkipReason = "extracted"
)

// DownloadPlan represents the files of one download request.
type DownloadPlan struct {
	// DestDir is the directory files are extracted into
	DestDir string `json:"destDir"`

	// Fetch lists the files to request, ascending by key
	Fetch []manifest.FileInfo `json:"fetch"`

	// Skipped lists the files already present, ascending by key
	Skipped []Skip `json:"skipped"`
}

// Skip records a file that does not need downloading.
type Skip struct {
	File manifest.FileInfo `json:"file"`

	// Reason is why the file was skipped
	Reason SkipReason `json:"reason"`

	// Path is the filesystem path that was found
	Path string `json:"path"`
}

// NewDownloadPlan creates a new empty DownloadPlan.
func NewDownloadPlan(destDir string) *DownloadPlan {
	return &DownloadPlan{
		DestDir: destDir,
		Fetch:   []manifest.FileInfo{},
		Skipped: []Skip{},
	}
}

// IsEmpty returns true if nothing needs fetching.
func (p *DownloadPlan) IsEmpty() bool {
	return len(p.Fetch) == 0
}

// Keys returns the keys to fetch.
func (p *DownloadPlan) Keys() []int {
	keys := make([]int, len(p.Fetch))
	for i, f := range p.Fetch {
		keys[i] = f.Key
	}
	return keys
}

// KeyParam renders the keys to fetch as the fileSn request parameter.
func (p *DownloadPlan) KeyParam() string {
	return manifest.JoinKeys(p.Keys())
}

// AddFetch adds a file to fetch.
func (p *DownloadPlan) AddFetch(f manifest.FileInfo) {
	p.Fetch = append(p.Fetch, f)
}

// AddSkip adds a skipped file.
func (p *DownloadPlan) AddSkip(s Skip) {
	p.Skipped = append(p.Skipped, s)
}
