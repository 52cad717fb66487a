package engine

import (
	"github.com/danieljhkim/aihub/internal/archive"
	"github.com/danieljhkim/aihub/internal/manifest"
)

// ManifestRequest represents a request for a dataset's manifest.
type ManifestRequest struct {
	// DatasetKey identifies the dataset
	DatasetKey string

	// Refresh bypasses the listing cache
	Refresh bool
}

// ListRequest represents a request to list the files of a selection.
type ListRequest struct {
	DatasetKey string

	// Selection picks the files to list
	Selection manifest.Selection

	// Refresh bypasses the listing cache
	Refresh bool
}

// DownloadRequest represents a request to download a selection.
type DownloadRequest struct {
	DatasetKey string

	// Selection picks the files to download
	Selection manifest.Selection

	// DestDir overrides the configured download directory
	DestDir string

	// APIKey overrides the configured API key
	APIKey string

	// Overwrite downloads files even when they already exist
	Overwrite bool

	// DryRun performs planning only without transferring anything
	DryRun bool

	// Refresh bypasses the listing cache
	Refresh bool

	// Manifest, when set, is used instead of fetching the listing
	Manifest *manifest.Manifest
}

// UnzipRequest represents a request to extract zip archives.
type UnzipRequest struct {
	// Archives are the zip files to extract
	Archives []string

	// Dir, when Archives is empty, is searched for zip files
	Dir string

	Options archive.Options
}
