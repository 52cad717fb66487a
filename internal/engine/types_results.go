package engine

import (
	"github.com/danieljhkim/aihub/internal/manifest"
	"github.com/danieljhkim/aihub/internal/parts"
	"github.com/danieljhkim/aihub/internal/planner"
)

// ListResult represents the files of a selection.
type ListResult struct {
	DatasetKey string `json:"datasetKey"`

	// Selection is the selection in its input form
	Selection string `json:"selection"`

	// Files are the resolved files in ascending key order
	Files []manifest.FileInfo `json:"files"`

	// EstimatedBytes is the sum of the listed sizes
	EstimatedBytes int64 `json:"estimatedBytes"`
}

// DownloadResult represents the outcome of a download.
type DownloadResult struct {
	DatasetKey string `json:"datasetKey"`

	// Plan is the generated plan
	Plan *planner.DownloadPlan `json:"plan"`

	// Requested are the keys sent to the service (empty when nothing was fetched)
	Requested []int `json:"requested"`

	// TotalBytes is the expected transfer size
	TotalBytes int64 `json:"totalBytes"`

	// Estimated is true when TotalBytes comes from listed sizes rather than the service
	Estimated bool `json:"estimated"`

	// Written is the number of bytes received
	Written int64 `json:"written"`

	// Extracted are the paths unpacked from the combined archive, relative to the plan's DestDir
	Extracted []string `json:"extracted,omitempty"`

	// Merged are the files reassembled from parts
	Merged []parts.Merged `json:"merged,omitempty"`

	// Files are the selected paths that exist on disk after the download
	Files []string `json:"files"`

	// AlreadyPresent is true when every selected file was skipped
	AlreadyPresent bool `json:"alreadyPresent"`

	// NoMatch is true when no key of the selection names a listed file
	NoMatch bool `json:"noMatch"`

	// DryRun is true when nothing was transferred by request
	DryRun bool `json:"dryRun"`
}
