// Package archive unpacks the containers a dataset download produces: the
// tar stream the service sends, and the zip archives inside it.
//
// Zip member names from Korean datasets are frequently stored in a legacy
// code page without the UTF-8 flag, so names pass through an optional
// recovery chain and NFC normalization before they become paths.
package archive

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"

	"github.com/danieljhkim/aihub/internal/fsops"
)

// ExtractSuffix names the directory a zip is extracted into.
const ExtractSuffix = ".unzip"

// Status is the outcome of extracting one archive.
type Status string

// Status constants
const (
	StatusExtracted        Status = "extracted"
	StatusAlreadyExtracted Status = "already_extracted"
	StatusMissing          Status = "missing"
	StatusFailed           Status = "failed"
)

// Options controls zip extraction.
type Options struct {
	// RemoveZip deletes the archive after a successful extraction
	RemoveZip bool

	// SkipRoot strips a single top-level directory shared by all members
	SkipRoot bool

	// NormalizeNFC converts member names to NFC
	NormalizeNFC bool

	// ForceRecovery decodes every member name through RecoveryChain
	ForceRecovery bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{NormalizeNFC: true}
}

// Result describes the extraction of one archive.
type Result struct {
	Archive string `json:"archive"`
	Dir     string `json:"dir"`
	Status  Status `json:"status"`

	// StrippedRoot is the top-level directory removed by SkipRoot
	StrippedRoot string `json:"strippedRoot,omitempty"`

	// Files lists extracted files relative to Dir
	Files []string `json:"files,omitempty"`

	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Results is the outcome of a batch.
type Results []Result

// Err joins the errors of every failed archive.
func (rs Results) Err() error {
	var errs []error
	for _, r := range rs {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Archive, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Dirs returns the extraction directory of every archive that exists.
func (rs Results) Dirs() []string {
	var dirs []string
	for _, r := range rs {
		if r.Status != StatusMissing {
			dirs = append(dirs, r.Dir)
		}
	}
	return dirs
}

// Extractor unpacks zip archives.
type Extractor struct {
	fs   fsops.FS
	opts Options
}

// NewExtractor creates an Extractor.
func NewExtractor(fs fsops.FS, opts Options) *Extractor {
	return &Extractor{fs: fs, opts: opts}
}

// Extract unpacks each archive into "<archive>.unzip". A failure is recorded
// in that archive's Result and the batch moves on.
func (x *Extractor) Extract(archives ...string) Results {
	results := make(Results, 0, len(archives))
	for _, path := range archives {
		results = append(results, x.extractOne(path))
	}
	return results
}

func (x *Extractor) extractOne(archivePath string) Result {
	res := Result{Archive: archivePath, Dir: archivePath + ExtractSuffix}
	logger := log.With().Str("archive", archivePath).Logger()

	info, err := x.fs.Stat(archivePath)
	if err != nil || info.IsDir() {
		logger.Warn().Msg("archive not found")
		res.Status = StatusMissing
		return res
	}

	exists, err := x.fs.Exists(res.Dir)
	if err != nil {
		return failed(res, fmt.Errorf("failed to check %s: %w", res.Dir, err))
	}
	if exists {
		logger.Info().Str("dir", res.Dir).Msg("already extracted")
		res.Status = StatusAlreadyExtracted
		return res
	}

	root, files, err := x.unpack(archivePath, res.Dir)
	res.StrippedRoot = root
	res.Files = files
	if err != nil {
		// a partial directory would read as a finished extraction next time
		_ = x.fs.RemoveAll(res.Dir)
		return failed(res, err)
	}

	if x.opts.RemoveZip {
		if err := x.fs.Remove(archivePath); err != nil {
			return failed(res, fmt.Errorf("failed to remove archive: %w", err))
		}
	}

	logger.Info().Str("dir", res.Dir).Int("files", len(files)).Msg("extracted")
	res.Status = StatusExtracted
	return res
}

func failed(res Result, err error) Result {
	log.Error().Err(err).Str("archive", res.Archive).Msg("extraction failed")
	res.Status = StatusFailed
	res.Err = err
	res.Error = err.Error()
	return res
}

func (x *Extractor) unpack(archivePath, dest string) (string, []string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer func() { _ = zr.Close() }()

	var prefix, root string
	if x.opts.SkipRoot {
		names := make([]string, len(zr.File))
		for i, f := range zr.File {
			names[i] = f.Name
		}
		if r, ok := CommonRoot(names); ok {
			prefix = r + "/"
		}
	}

	if err := x.fs.MkdirAll(dest, 0755); err != nil {
		return root, nil, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	var files []string
	for _, f := range zr.File {
		if isMetadata(f.Name) {
			continue
		}

		raw := f.Name
		if prefix != "" && strings.HasPrefix(raw, prefix) {
			raw = raw[len(prefix):]
			root = x.displayName(strings.TrimSuffix(prefix, "/"))
		}
		if raw == "" {
			continue
		}

		rel := x.displayName(raw)
		target, err := x.target(dest, rel)
		if err != nil {
			return root, files, err
		}
		if target == "" {
			continue
		}

		if f.FileInfo().IsDir() {
			if err := x.fs.MkdirAll(target, 0755); err != nil {
				return root, files, fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			continue
		}

		if err := x.writeMember(f, target); err != nil {
			return root, files, err
		}
		files = append(files, strings.TrimSuffix(rel, "/"))
	}
	return root, files, nil
}

func (x *Extractor) displayName(raw string) string {
	var name string
	if x.opts.ForceRecovery {
		name = RecoverName([]byte(raw))
	} else {
		name = memberName(raw)
	}
	if x.opts.NormalizeNFC {
		name = NormalizeName(name)
	}
	return name
}

// target maps a member name to a path below dest. It returns "" for a name
// that resolves to dest itself.
func (x *Extractor) target(dest, rel string) (string, error) {
	local := filepath.FromSlash(strings.TrimSuffix(rel, "/"))
	if filepath.Clean(local) == "." || local == "" {
		return "", nil
	}
	if err := x.fs.ValidateRelPath(local); err != nil {
		return "", fmt.Errorf("refusing member %q: %w", rel, err)
	}
	return filepath.Join(dest, local), nil
}

func (x *Extractor) writeMember(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open member %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}

	w, err := x.fs.Create(target, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, rc); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}
	return nil
}

// FindArchives lists the zip files directly inside dir or below it.
func FindArchives(fs fsops.FS, root string) ([]string, error) {
	var archives []string
	err := fs.WalkDirs(root, func(dir string) error {
		entries, err := fs.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".zip") {
				continue
			}
			archives = append(archives, filepath.Join(dir, e.Name()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return archives, nil
}
