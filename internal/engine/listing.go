package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/danieljhkim/aihub/internal/cache"
	"github.com/danieljhkim/aihub/internal/manifest"
	"github.com/danieljhkim/aihub/internal/remote"
	"github.com/danieljhkim/aihub/internal/treeparse"
)

// Listing returns the raw listing text of a dataset, from the cache when
// possible.
func (e *Engine) Listing(ctx context.Context, datasetKey string, refresh bool) (string, error) {
	datasetKey = strings.TrimSpace(datasetKey)
	if datasetKey == "" {
		return "", fmt.Errorf("%w: %w", ErrValidation, remote.ErrEmptyDatasetKey)
	}
	if err := e.fs.ValidateIdentifier(datasetKey); err != nil {
		return "", fmt.Errorf("%w: dataset key: %w", ErrValidation, err)
	}
	logger := e.log.With().Str("dataset", datasetKey).Logger()

	if e.listings != nil && !refresh {
		text, ok, err := e.listings.Get(datasetKey)
		if err != nil {
			logger.Warn().Err(err).Msg("listing cache read failed")
		} else if ok {
			logger.Debug().Msg("listing cache hit")
			return text, nil
		}
	}

	text, err := e.service.Listing(ctx, datasetKey)
	if err != nil {
		return "", fmt.Errorf("failed to fetch listing of dataset %s: %w", datasetKey, err)
	}

	if e.listings != nil {
		if err := e.listings.Put(datasetKey, text); err != nil {
			logger.Warn().Err(err).Msg("listing cache write failed")
		}
	}
	return text, nil
}

// Manifest fetches and parses a dataset listing.
func (e *Engine) Manifest(ctx context.Context, req ManifestRequest) (*manifest.Manifest, error) {
	text, err := e.Listing(ctx, req.DatasetKey, req.Refresh)
	if err != nil {
		return nil, err
	}

	m := treeparse.Parse(strings.TrimSpace(req.DatasetKey), text)
	e.log.Debug().Str("dataset", m.DatasetKey).Int("files", m.Len()).Msg("parsed listing")
	return m, nil
}

// Files resolves a selection against a dataset's manifest.
func (e *Engine) Files(ctx context.Context, req ListRequest) (*ListResult, error) {
	m, err := e.Manifest(ctx, ManifestRequest{DatasetKey: req.DatasetKey, Refresh: req.Refresh})
	if err != nil {
		return nil, err
	}

	files := manifest.SortedFiles(m.Resolve(req.Selection))
	return &ListResult{
		DatasetKey:     m.DatasetKey,
		Selection:      req.Selection.String(),
		Files:          files,
		EstimatedBytes: manifest.EstimateTotal(files),
	}, nil
}

// Datasets returns the catalogue entries matching query.
func (e *Engine) Datasets(ctx context.Context, query string) ([]remote.Dataset, error) {
	list, err := e.service.Datasets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset catalogue: %w", err)
	}
	return remote.FilterDatasets(list, query), nil
}

// Manual returns the service's API manual.
func (e *Engine) Manual(ctx context.Context) (*remote.Manual, error) {
	m, err := e.service.Manual(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch api manual: %w", err)
	}
	return m, nil
}

// CacheEntries lists the cached listings.
func (e *Engine) CacheEntries() ([]cache.Entry, error) {
	if e.listings == nil {
		return nil, ErrCacheDisabled
	}
	return e.listings.Entries()
}

// CacheClear drops every cached listing.
func (e *Engine) CacheClear() error {
	if e.listings == nil {
		return ErrCacheDisabled
	}
	return e.listings.Clear()
}
