package fsops

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestRealFS_ValidateRelPath(t *testing.T) {
	fs := &RealFS{}

	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{name: "valid relative path", path: "경구약제/원천데이터/a.zip", wantError: false},
		{name: "valid single file", path: "file.txt", wantError: false},
		{name: "empty path", path: "", wantError: true},
		{name: "current directory", path: ".", wantError: true},
		{name: "absolute path", path: "/etc/hosts", wantError: true},
		{name: "parent directory traversal", path: "../etc/hosts", wantError: true},
		{name: "traversal in middle", path: "foo/../../../etc/hosts", wantError: true},
		{name: "path with dot prefix", path: ".hidden/file.txt", wantError: false},
		{name: "dots inside a name", path: "a..b/c", wantError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateRelPath(tt.path)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateRelPath(%q) error = %v, wantError %v", tt.path, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_ValidateIdentifier(t *testing.T) {
	fs := &RealFS{}

	tests := []struct {
		name      string
		id        string
		wantError bool
	}{
		{name: "dataset key", id: "576", wantError: false},
		{name: "empty", id: "", wantError: true},
		{name: "slash", id: "a/b", wantError: true},
		{name: "backslash", id: `a\b`, wantError: true},
		{name: "dot dot", id: "..", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantError %v", tt.id, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_Exists(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	ok, err := fs.Exists(filepath.Join(dir, "missing"))
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v", ok, err)
	}
	ok, err = fs.Exists(dir)
	if err != nil || !ok {
		t.Errorf("Exists(dir) = %v, %v", ok, err)
	}
}

func TestRealFS_Create(t *testing.T) {
	fs := NewRealFS()
	path := filepath.Join(t.TempDir(), "a", "b", "download.tar")

	w, err := fs.Create(path, 0644)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, _ = io.WriteString(w, "data")
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil || string(got) != "data" {
		t.Errorf("content = %q, %v", got, err)
	}
}

func TestRealFS_AtomicWriteFrom(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "merged.bin")

	err := fs.AtomicWriteFrom(path, 0644, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	if err != nil {
		t.Fatalf("AtomicWriteFrom() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "hello" {
		t.Errorf("content = %q", got)
	}

	t.Run("failed write leaves target and no temp file", func(t *testing.T) {
		boom := errors.New("boom")
		err := fs.AtomicWriteFrom(path, 0644, func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("error = %v, want boom", err)
		}
		got, _ := os.ReadFile(path)
		if string(got) != "hello" {
			t.Errorf("target changed to %q", got)
		}
		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".aihub-tmp-") {
				t.Errorf("temp file %s left behind", e.Name())
			}
		}
	})
}

func TestRealFS_WalkDirs(t *testing.T) {
	fs := NewRealFS()
	root := t.TempDir()
	for _, d := range []string{"a/b", "c"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}

	var got []string
	err := fs.WalkDirs(root, func(dir string) error {
		rel, _ := filepath.Rel(root, dir)
		got = append(got, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDirs() error = %v", err)
	}
	sort.Strings(got)
	want := []string{".", "a", "a/b", "c"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("dirs = %v, want %v", got, want)
	}
}
