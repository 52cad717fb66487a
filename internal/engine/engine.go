// Package engine provides the core business logic for aihub operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// lower-level operations. One Engine is built per invocation and carries every
// collaborator explicitly: the remote service, the optional listing cache,
// the filesystem, and the progress reporter.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Manifest/Files: Fetches listings and resolves key selections
//   - Download: Plans, transfers, extracts and reassembles a selection
//   - Unzip/Merge: Post-processing of downloaded archives
package engine

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danieljhkim/aihub/internal/cache"
	"github.com/danieljhkim/aihub/internal/clock"
	"github.com/danieljhkim/aihub/internal/config"
	"github.com/danieljhkim/aihub/internal/fsops"
	"github.com/danieljhkim/aihub/internal/parts"
	"github.com/danieljhkim/aihub/internal/progress"
	"github.com/danieljhkim/aihub/internal/remote"
)

// Service is the archive service as seen by the engine.
type Service interface {
	Listing(ctx context.Context, datasetKey string) (string, error)
	Datasets(ctx context.Context) ([]remote.Dataset, error)
	Manual(ctx context.Context) (*remote.Manual, error)
	Head(ctx context.Context, req remote.ArchiveRequest) (int64, error)
	Open(ctx context.Context, req remote.ArchiveRequest) (*remote.Transfer, error)
}

// ListingStore caches raw listing text.
type ListingStore interface {
	Get(datasetKey string) (string, bool, error)
	Put(datasetKey, text string) error
	Entries() ([]cache.Entry, error)
	Clear() error
	Close() error
}

// TrackerFactory creates a progress tracker for a transfer.
type TrackerFactory func(label string) progress.Tracker

// Engine orchestrates all aihub operations.
// It is the main API surface called by the CLI.
type Engine struct {
	service     Service
	listings    ListingStore
	fs          fsops.FS
	reassembler *parts.Reassembler
	clock       clock.Clock
	settings    config.Settings
	newTracker  TrackerFactory
	runID       string
	log         zerolog.Logger
}

// New creates a new Engine with the given dependencies. listings may be nil,
// which disables listing caching.
func New(
	service Service,
	listings ListingStore,
	fs fsops.FS,
	clk clock.Clock,
	settings config.Settings,
) *Engine {
	runID := uuid.NewString()
	return &Engine{
		service:     service,
		listings:    listings,
		fs:          fs,
		reassembler: parts.NewReassembler(fs),
		clock:       clk,
		settings:    settings,
		newTracker:  func(string) progress.Tracker { return progress.Nop{} },
		runID:       runID,
		log:         log.With().Str("run", runID[:8]).Logger(),
	}
}

// SetTrackerFactory sets how download progress is reported.
func (e *Engine) SetTrackerFactory(f TrackerFactory) {
	if f == nil {
		f = func(string) progress.Tracker { return progress.Nop{} }
	}
	e.newTracker = f
}

// BarFactory returns a TrackerFactory drawing progress bars on w.
func BarFactory(w io.Writer, interval time.Duration, clk clock.Clock) TrackerFactory {
	return func(label string) progress.Tracker {
		return progress.NewBar(w, label, progress.WithInterval(interval), progress.WithClock(clk))
	}
}

// RunID identifies this invocation in logs.
func (e *Engine) RunID() string {
	return e.runID
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() config.Settings {
	return e.settings
}

// Close releases the listing cache.
func (e *Engine) Close() error {
	if e.listings == nil {
		return nil
	}
	return e.listings.Close()
}
