package integration

import (
	"archive/tar"
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/zip"
	"golang.org/x/text/encoding/korean"

	"github.com/danieljhkim/aihub/internal/cache"
	"github.com/danieljhkim/aihub/internal/clock"
	"github.com/danieljhkim/aihub/internal/config"
	"github.com/danieljhkim/aihub/internal/engine"
	"github.com/danieljhkim/aihub/internal/fsops"
	"github.com/danieljhkim/aihub/internal/remote"
)

const apiKey = "integration-key"

// archiveService is a fake archive service. The download endpoint serves
// whatever tar the test configured and records what was asked for.
type archiveService struct {
	mu       sync.Mutex
	listing  []byte
	archive  []byte
	fileSns  []string
	getCalls int
}

func (s *archiveService) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/info/{key:[0-9]+}.do", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write(s.listing)
	}).Methods(http.MethodGet)
	r.HandleFunc("/down/{version}/{key:[0-9]+}.do", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get(remote.APIKeyHeader) != apiKey {
			http.Error(w, "invalid api key", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(s.archive)))
		if req.Method == http.MethodHead {
			return
		}

		s.mu.Lock()
		s.getCalls++
		s.fileSns = append(s.fileSns, req.URL.Query().Get("fileSn"))
		s.mu.Unlock()
		_, _ = w.Write(s.archive)
	}).Methods(http.MethodGet, http.MethodHead)
	return r
}

// newPipeline wires an engine against a fake service the way the CLI does.
func newPipeline(t *testing.T, svc *archiveService, dest string) *engine.Engine {
	t.Helper()
	srv := httptest.NewServer(svc.router())
	t.Cleanup(srv.Close)

	listings, err := cache.OpenInMemory(time.Hour)
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}

	settings := config.Settings{
		BaseURL:          srv.URL,
		DownloadVersion:  config.DefaultDownloadVersion,
		APIKey:           apiKey,
		DownloadDir:      dest,
		CacheTTL:         time.Hour,
		ProgressInterval: time.Second,
		HTTPTimeout:      5 * time.Second,
		LogLevel:         "info",
	}
	client := remote.NewClient(
		remote.Endpoints{BaseURL: settings.BaseURL, DownloadVersion: settings.DownloadVersion},
		remote.WithTimeout(settings.HTTPTimeout),
	)

	eng := engine.New(client, listings, fsops.NewRealFS(), &clock.RealClock{}, settings)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

// eucKR encodes s the way legacy archive tools stored Korean names.
func eucKR(t *testing.T, s string) []byte {
	t.Helper()
	b, err := korean.EUCKR.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("failed to encode %q: %v", s, err)
	}
	return b
}

type zipMember struct {
	name    []byte
	body    string
	nonUTF8 bool
}

func buildZip(t *testing.T, members ...zipMember) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: string(m.name), Method: zip.Deflate, NonUTF8: m.nonUTF8})
		if err != nil {
			t.Fatalf("failed to add %q: %v", m.name, err)
		}
		if _, err := io.WriteString(w, m.body); err != nil {
			t.Fatalf("failed to write %q: %v", m.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

type tarEntry struct {
	name string
	body []byte
}

func buildTar(t *testing.T, entries ...tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0644, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write header %s: %v", e.name, err)
		}
		if _, err := tw.Write(e.body); err != nil {
			t.Fatalf("failed to write %s: %v", e.name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar: %v", err)
	}
	return buf.Bytes()
}

// split cuts b into n parts named name.part0 ... name.part<n-1>.
func split(name string, b []byte, n int) []tarEntry {
	size := (len(b) + n - 1) / n
	var entries []tarEntry
	for i := 0; i < n; i++ {
		lo, hi := min(i*size, len(b)), min((i+1)*size, len(b))
		entries = append(entries, tarEntry{name: name + ".part" + strconv.Itoa(i), body: b[lo:hi]})
	}
	return entries
}
