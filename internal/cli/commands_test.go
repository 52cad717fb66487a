package cli

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/danieljhkim/aihub/internal/archive"
	"github.com/danieljhkim/aihub/internal/cache"
	"github.com/danieljhkim/aihub/internal/manifest"
)

const cliListing = `공지사항
└─data
    ├─train.csv | 2 KB | 1
    └─valid.csv | 1 KB | 2
`

type archiveServer struct {
	archive  []byte
	getCalls int
}

func (s *archiveServer) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/info/dataset.do", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "576, 경구약제 이미지\n71, Road Signs\n")
	})
	r.HandleFunc("/info/api.do", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"result":[{"SJ":"AI Hub API","ENGL_CMGG":"apikey","KOREAN_CMGG":"인증키","DETAIL_CN":"","FRST_RGST_PNTTM":2023-01-02 10:11:12.0}]}`)
	})
	r.HandleFunc("/info/{key:[0-9]+}.do", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, cliListing)
	})
	r.HandleFunc("/down/0.5/{key:[0-9]+}.do", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("apikey") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if req.Method == http.MethodGet {
			s.getCalls++
			_, _ = w.Write(s.archive)
		}
	}).Methods(http.MethodGet, http.MethodHead)
	return r
}

// setupTestEnv points the config root at a temp dir and starts a fake service.
func setupTestEnv(t *testing.T) (*archiveServer, string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("AIHUB_ROOT", root)
	t.Setenv("AIHUB_API_KEY", "")
	t.Setenv("AIHUB_DOWNLOAD_DIR", "")

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, body := range map[string]string{
		"data/train.csv.part0": "a,b\n",
		"data/train.csv.part1": "1,2\n",
		"data/valid.csv":       "a,b\n",
	} {
		_ = tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(body)), Typeflag: tar.TypeReg})
		_, _ = tw.Write([]byte(body))
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}

	srv := &archiveServer{archive: buf.Bytes()}
	hs := httptest.NewServer(srv.router())
	t.Cleanup(hs.Close)
	return srv, hs.URL
}

// resetFlags restores every flag to its default so that tests sharing
// rootCmd do not leak state into each other.
func resetFlags(t *testing.T) {
	t.Helper()
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		reset := func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	buf := captureStdout(t)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestListCommand_JSON(t *testing.T) {
	_, url := setupTestEnv(t)

	out, err := runCLI(t, "--base-url", url, "--json", "list", "576", "--keys", "2,9")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}

	var files []manifest.FileInfo
	if err := json.Unmarshal([]byte(out), &files); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(files) != 1 || files[0].Key != 2 || files[0].Path != "data/valid.csv" {
		t.Errorf("files = %+v", files)
	}
}

func TestListCommand_Table(t *testing.T) {
	_, url := setupTestEnv(t)

	out, err := runCLI(t, "--base-url", url, "list", "576")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"FileKey", "train.csv", "data/valid.csv", "2 files", "3.00 KB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTreeAndCacheCommands(t *testing.T) {
	_, url := setupTestEnv(t)

	out, err := runCLI(t, "--base-url", url, "tree", "576")
	if err != nil {
		t.Fatalf("tree error = %v", err)
	}
	if !strings.Contains(out, "train.csv | 2 KB | 1") {
		t.Errorf("tree output = %q", out)
	}

	out, err = runCLI(t, "--json", "cache", "ls")
	if err != nil {
		t.Fatalf("cache ls error = %v", err)
	}
	var entries []cache.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(entries) != 1 || entries[0].DatasetKey != "576" {
		t.Errorf("entries = %+v", entries)
	}

	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	out, _ = runCLI(t, "--json", "cache", "ls")
	if strings.Contains(out, "576") {
		t.Errorf("cache not cleared: %s", out)
	}
}

func TestDatasetsCommand(t *testing.T) {
	_, url := setupTestEnv(t)

	out, err := runCLI(t, "--base-url", url, "--json", "datasets", "road")
	if err != nil {
		t.Fatalf("datasets error = %v", err)
	}
	if !strings.Contains(out, `"71"`) || strings.Contains(out, `"576"`) {
		t.Errorf("datasets output = %s", out)
	}

	out, err = runCLI(t, "--base-url", url, "--no-cache", "datasets", "576", "--tree")
	if err != nil {
		t.Fatalf("datasets --tree error = %v", err)
	}
	if !strings.Contains(out, "valid.csv") {
		t.Errorf("tree missing from output: %s", out)
	}
}

func TestManualCommand(t *testing.T) {
	_, url := setupTestEnv(t)

	out, err := runCLI(t, "--base-url", url, "manual")
	if err != nil {
		t.Fatalf("manual error = %v", err)
	}
	if !strings.Contains(out, "인증키") {
		t.Errorf("manual output = %s", out)
	}
}

func TestDownloadCommand(t *testing.T) {
	srv, url := setupTestEnv(t)
	dest := t.TempDir()

	out, err := runCLI(t, "--base-url", url, "download", "576", "--dir", dest, "--api-key", "k", "--quiet")
	if err != nil {
		t.Fatalf("download error = %v", err)
	}
	if !strings.Contains(out, "Downloaded 2 files") {
		t.Errorf("output = %s", out)
	}

	got, err := os.ReadFile(filepath.Join(dest, "data", "train.csv"))
	if err != nil || string(got) != "a,b\n1,2\n" {
		t.Errorf("train.csv = %q, %v", got, err)
	}

	out, err = runCLI(t, "--base-url", url, "download", "576", "--dir", dest, "--api-key", "k", "--quiet")
	if err != nil {
		t.Fatalf("second download error = %v", err)
	}
	if !strings.Contains(out, "already present") {
		t.Errorf("second output = %s", out)
	}
	if srv.getCalls != 1 {
		t.Errorf("getCalls = %d, want 1", srv.getCalls)
	}
}

func TestDownloadCommand_MissingAPIKey(t *testing.T) {
	_, url := setupTestEnv(t)

	_, err := runCLI(t, "--base-url", url, "download", "576", "--dir", t.TempDir(), "--quiet")
	if err == nil || !strings.Contains(err.Error(), "api key is required") {
		t.Errorf("error = %v, want missing api key", err)
	}
}

func TestDownloadCommand_NoMatchingKeys(t *testing.T) {
	srv, url := setupTestEnv(t)

	out, err := runCLI(t, "--base-url", url, "download", "576", "--dir", t.TempDir(), "--keys", "99", "--quiet")
	if err != nil {
		t.Fatalf("download error = %v", err)
	}
	if !strings.Contains(out, "No listed file matches the selection") {
		t.Errorf("output = %s", out)
	}
	if srv.getCalls != 0 {
		t.Errorf("getCalls = %d, want 0", srv.getCalls)
	}
}

func TestDownloadCommand_DryRun(t *testing.T) {
	srv, url := setupTestEnv(t)
	dest := t.TempDir()

	out, err := runCLI(t, "--base-url", url, "download", "576", "--dir", dest, "--keys", "1", "--dry-run")
	if err != nil {
		t.Fatalf("dry run error = %v", err)
	}
	if !strings.Contains(out, "Would download 1 file") || !strings.Contains(out, "~2.00 KB") {
		t.Errorf("output = %s", out)
	}
	if srv.getCalls != 0 {
		t.Error("dry run downloaded")
	}
}

func TestUnzipAndMergeCommands(t *testing.T) {
	setupTestEnv(t)
	dir := t.TempDir()

	zipPath := filepath.Join(dir, "labels.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("labels/a.json")
	_, _ = io.WriteString(w, "{}")
	_ = zw.Close()
	_ = f.Close()

	out, err := runCLI(t, "--json", "unzip", "--dir", dir, "--skip-root")
	if err != nil {
		t.Fatalf("unzip error = %v", err)
	}
	var results []archive.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(results) != 1 || results[0].Status != archive.StatusExtracted || results[0].StrippedRoot != "labels" {
		t.Errorf("results = %+v", results)
	}
	if _, err := os.Stat(filepath.Join(dir, "labels.zip.unzip", "a.json")); err != nil {
		t.Errorf("extracted file missing: %v", err)
	}

	for i, body := range []string{"he", "llo"} {
		name := filepath.Join(dir, "big.bin.part"+strconv.Itoa(i))
		if err := os.WriteFile(name, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := runCLI(t, "merge", dir); err != nil {
		t.Fatalf("merge error = %v", err)
	}
	got, _ := os.ReadFile(filepath.Join(dir, "big.bin"))
	if string(got) != "hello" {
		t.Errorf("merged = %q", got)
	}
}
