package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/aihub/internal/cache"
	"github.com/danieljhkim/aihub/internal/clock"
	"github.com/danieljhkim/aihub/internal/config"
	"github.com/danieljhkim/aihub/internal/engine"
	"github.com/danieljhkim/aihub/internal/fsops"
	"github.com/danieljhkim/aihub/internal/logger"
	"github.com/danieljhkim/aihub/internal/remote"
)

// newEngine creates a new engine with real implementations of all dependencies.
// Settings are resolved against the flags of cmd.
func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	// Get default paths
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	// Ensure directories exist
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	settings, err := config.Load(paths, configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	if err := logger.Setup(settings.LogLevel, os.Stderr); err != nil {
		return nil, err
	}

	// The listing cache is optional; a locked or broken cache only costs a refetch
	var listings engine.ListingStore
	if !noCache {
		c, err := cache.Open(paths.Cache, settings.CacheTTL)
		switch {
		case errors.Is(err, cache.ErrDisabled):
		case err != nil:
			log.Warn().Err(err).Str("dir", paths.Cache).Msg("listing cache unavailable")
		default:
			listings = c
		}
	}

	// Create real implementations
	client := remote.NewClient(
		remote.Endpoints{BaseURL: settings.BaseURL, DownloadVersion: settings.DownloadVersion},
		remote.WithTimeout(settings.HTTPTimeout),
		remote.WithLogger(log.Logger),
	)
	clk := &clock.RealClock{}

	// Create engine
	return engine.New(client, listings, fsops.NewRealFS(), clk, *settings), nil
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
