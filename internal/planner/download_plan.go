package planner

import (
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/aihub/internal/fsops"
	"github.com/danieljhkim/aihub/internal/manifest"
)

// TargetPath is where a listed file lands below destDir.
func TargetPath(destDir string, f manifest.FileInfo) string {
	return filepath.Join(destDir, filepath.FromSlash(f.Path))
}

// PlanDownload decides which resolved files still need fetching.
// Files are visited in ascending key order so the plan is deterministic.
func PlanDownload(fs fsops.FS, destDir string, files map[int]manifest.FileInfo, overwrite bool) (*DownloadPlan, error) {
	plan := NewDownloadPlan(destDir)

	for _, f := range manifest.SortedFiles(files) {
		if err := fs.ValidateRelPath(filepath.FromSlash(f.Path)); err != nil {
			return nil, fmt.Errorf("file %d: %w", f.Key, err)
		}

		target := TargetPath(destDir, f)

		if overwrite {
			plan.AddFetch(f)
			continue
		}

		exists, err := fs.Exists(target)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", target, err)
		}
		if exists {
			plan.AddSkip(Skip{File: f, Reason: SkipExists, Path: target})
			continue
		}

		sentinel := target + SentinelSuffix
		exists, err = fs.Exists(sentinel)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", sentinel, err)
		}
		if exists {
			plan.AddSkip(Skip{File: f, Reason: SkipSentinel, Path: sentinel})
			continue
		}

		plan.AddFetch(f)
	}

	return plan, nil
}
