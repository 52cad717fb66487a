package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/aihub/internal/archive"
	"github.com/danieljhkim/aihub/internal/clock"
	"github.com/danieljhkim/aihub/internal/manifest"
	"github.com/danieljhkim/aihub/internal/planner"
	"github.com/danieljhkim/aihub/internal/progress"
	"github.com/danieljhkim/aihub/internal/remote"
)

// CombinedArchive is the file the download stream is written to.
const CombinedArchive = "download.tar"

// Download fetches the selected files of a dataset into the destination
// directory.
//
// Files already on disk (or extracted, as marked by a ".unzip" directory)
// are skipped unless Overwrite is set; when nothing remains, including when
// the selection matches no listed file, the call succeeds without contacting
// the download endpoint. Otherwise the whole
// selection is fetched as one tar stream, unpacked, and split files are
// reassembled before the stream file is removed.
func (e *Engine) Download(ctx context.Context, req *DownloadRequest) (*DownloadResult, error) {
	datasetKey := strings.TrimSpace(req.DatasetKey)
	if datasetKey == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidation, remote.ErrEmptyDatasetKey)
	}
	if err := e.fs.ValidateIdentifier(datasetKey); err != nil {
		return nil, fmt.Errorf("%w: dataset key: %w", ErrValidation, err)
	}

	destDir := req.DestDir
	if destDir == "" {
		destDir = e.settings.DownloadDir
	}
	logger := e.log.With().Str("dataset", datasetKey).Str("dest", destDir).Logger()

	m := req.Manifest
	if m == nil {
		var err error
		m, err = e.Manifest(ctx, ManifestRequest{DatasetKey: datasetKey, Refresh: req.Refresh})
		if err != nil {
			return nil, err
		}
	}

	// Unknown keys are dropped; a selection left empty is an empty download
	selected := m.Resolve(req.Selection)

	plan, err := planner.PlanDownload(e.fs, destDir, selected, req.Overwrite)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	for _, s := range plan.Skipped {
		logger.Info().Int("key", s.File.Key).Str("path", s.Path).Str("reason", string(s.Reason)).Msg("skipping present file")
	}

	result := &DownloadResult{
		DatasetKey: datasetKey,
		Plan:       plan,
		Requested:  []int{},
		NoMatch:    len(selected) == 0,
	}

	if plan.IsEmpty() {
		if result.NoMatch {
			logger.Warn().Str("selection", req.Selection.String()).Msg("selection matches no listed file")
		} else {
			logger.Info().Msg("all selected files already present")
			result.AlreadyPresent = true
		}
		result.Files = e.receipt(destDir, selected)
		return result, nil
	}

	if req.DryRun {
		result.DryRun = true
		result.TotalBytes = manifest.EstimateTotal(plan.Fetch)
		result.Estimated = true
		result.Files = e.receipt(destDir, selected)
		return result, nil
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = e.settings.APIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidation, remote.ErrMissingAPIKey)
	}

	archiveReq := remote.ArchiveRequest{
		DatasetKey: datasetKey,
		APIKey:     apiKey,
		FileKeys:   plan.KeyParam(),
	}
	result.Requested = plan.Keys()
	tarPath := filepath.Join(destDir, CombinedArchive)

	total, err := e.service.Head(ctx, archiveReq)
	if err != nil {
		e.discard(tarPath)
		return nil, fmt.Errorf("failed to query download size: %w", err)
	}
	if total == 0 {
		total = manifest.EstimateTotal(plan.Fetch)
		result.Estimated = true
		logger.Debug().Int64("bytes", total).Msg("size estimated from listing")
	}
	result.TotalBytes = total

	logger.Info().Ints("keys", result.Requested).Int64("bytes", total).Msg("downloading")
	start := e.clock.Now()
	written, err := e.transfer(ctx, archiveReq, tarPath, total)
	result.Written = written
	if err != nil {
		e.discard(tarPath)
		return nil, err
	}

	extracted, err := archive.ExtractTar(e.fs, tarPath, destDir)
	result.Extracted = extracted
	if err != nil {
		e.discard(tarPath)
		return nil, fmt.Errorf("failed to unpack %s: %w", tarPath, err)
	}

	merged, err := e.reassembler.MergeAll(destDir)
	result.Merged = merged
	if err != nil {
		e.discard(tarPath)
		return nil, fmt.Errorf("failed to reassemble parts: %w", err)
	}

	if err := e.fs.Remove(tarPath); err != nil {
		return nil, fmt.Errorf("failed to remove %s: %w", tarPath, err)
	}

	result.Files = e.receipt(destDir, selected)
	logger.Info().
		Int("files", len(result.Files)).
		Int64("bytes", written).
		Dur("elapsed", clock.Since(e.clock, start)).
		Msg("download complete")
	return result, nil
}

// transfer streams the archive into tarPath.
func (e *Engine) transfer(ctx context.Context, req remote.ArchiveRequest, tarPath string, total int64) (int64, error) {
	tr, err := e.service.Open(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("failed to download dataset %s: %w", req.DatasetKey, err)
	}
	defer func() { _ = tr.Body.Close() }()

	w, err := e.fs.Create(tarPath, 0644)
	if err != nil {
		return 0, err
	}

	tracker := e.newTracker("Downloading")
	reader := progress.NewReader(tr.Body, tracker, total)
	_, copyErr := io.Copy(w, reader)
	closeErr := w.Close()
	tracker.Complete()

	if copyErr != nil {
		return reader.N(), fmt.Errorf("download interrupted after %d bytes: %w", reader.N(), copyErr)
	}
	if closeErr != nil {
		return reader.N(), fmt.Errorf("failed to close %s: %w", tarPath, closeErr)
	}
	return reader.N(), nil
}

// discard removes a partial combined archive.
func (e *Engine) discard(tarPath string) {
	exists, err := e.fs.Exists(tarPath)
	if err != nil || !exists {
		return
	}
	if err := e.fs.Remove(tarPath); err != nil {
		e.log.Warn().Err(err).Str("path", tarPath).Msg("failed to remove partial archive")
	}
}

// receipt lists the selected paths that exist on disk.
func (e *Engine) receipt(destDir string, selected map[int]manifest.FileInfo) []string {
	files := []string{}
	for _, f := range manifest.SortedFiles(selected) {
		target := planner.TargetPath(destDir, f)
		if ok, err := e.fs.Exists(target); err == nil && ok {
			files = append(files, target)
		}
	}
	return files
}
