// Package config manages aihub configuration and filesystem paths.
//
// Configuration includes the location of the aihub data directory, which can
// be customized via environment variables, and the user settings (service
// endpoint, API key, download directory, cache lifetime) layered from
// defaults, an optional config file, AIHUB_* environment variables and
// command-line flags. The default root is ~/.aihub/ containing the listing
// cache and config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by aihub.
type Paths struct {
	// Root is the base directory for all aihub data (default: ~/.aihub)
	Root string

	// Cache is the directory holding the listing cache database
	Cache string

	// Config is the path to the global config file
	Config string
}

// DefaultPaths returns the default paths for aihub.
// Paths can be overridden with environment variables:
// - AIHUB_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("AIHUB_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".aihub")
	}

	return PathsAt(root), nil
}

// PathsAt lays out the standard paths below root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:   root,
		Cache:  filepath.Join(root, "cache"),
		Config: filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Cache,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
