package engine

import (
	"fmt"

	"github.com/danieljhkim/aihub/internal/archive"
	"github.com/danieljhkim/aihub/internal/parts"
)

// Unzip extracts zip archives. When no archive is named, every zip below
// req.Dir is extracted.
func (e *Engine) Unzip(req *UnzipRequest) (archive.Results, error) {
	archives := req.Archives
	if len(archives) == 0 {
		dir := req.Dir
		if dir == "" {
			dir = e.settings.DownloadDir
		}
		found, err := archive.FindArchives(e.fs, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s for archives: %w", dir, err)
		}
		archives = found
	}

	if len(archives) == 0 {
		e.log.Info().Msg("no zip archives to extract")
		return archive.Results{}, nil
	}
	return archive.NewExtractor(e.fs, req.Options).Extract(archives...), nil
}

// Merge reassembles part files below dir.
func (e *Engine) Merge(dir string) ([]parts.Merged, error) {
	if dir == "" {
		dir = e.settings.DownloadDir
	}
	merged, err := e.reassembler.MergeAll(dir)
	if err != nil {
		return merged, fmt.Errorf("failed to reassemble parts in %s: %w", dir, err)
	}
	return merged, nil
}
