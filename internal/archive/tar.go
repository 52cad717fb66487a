package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danieljhkim/aihub/internal/fsops"
)

// ExtractTar unpacks a tar archive into destDir and returns the extracted
// file paths relative to destDir. Only directories and regular files are
// materialized; links and device entries are skipped.
func ExtractTar(fs fsops.FS, archivePath, destDir string) ([]string, error) {
	f, err := fs.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open tar: %w", err)
	}
	defer func() { _ = f.Close() }()

	return extractTarStream(fs, f, destDir)
}

func extractTarStream(fs fsops.FS, r io.Reader, destDir string) ([]string, error) {
	tr := tar.NewReader(r)
	var files []string

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return files, nil
		}
		if err != nil {
			return files, fmt.Errorf("failed to read tar: %w", err)
		}

		rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(hdr.Name, "./")))
		if rel == "." {
			continue
		}
		if err := fs.ValidateRelPath(rel); err != nil {
			return files, fmt.Errorf("refusing tar entry %q: %w", hdr.Name, err)
		}
		target := filepath.Join(destDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fs.MkdirAll(target, 0755); err != nil {
				return files, fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeTarEntry(fs, tr, target, hdr.FileInfo().Mode().Perm()); err != nil {
				return files, err
			}
			files = append(files, filepath.ToSlash(rel))
		default:
			log.Warn().Str("entry", hdr.Name).Str("type", string(hdr.Typeflag)).Msg("skipping unsupported tar entry")
		}
	}
}

func writeTarEntry(fs fsops.FS, r io.Reader, target string, perm os.FileMode) error {
	if perm == 0 {
		perm = 0644
	}
	w, err := fs.Create(target, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to extract %s: %w", target, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}
	return nil
}
