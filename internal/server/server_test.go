package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/notegraph/pkg/buildinfo"
	nerrors "github.com/matzehuels/notegraph/pkg/errors"
	"github.com/matzehuels/notegraph/pkg/interact"
	"github.com/matzehuels/notegraph/pkg/layout"
	"github.com/matzehuels/notegraph/pkg/observability"
	"github.com/matzehuels/notegraph/pkg/pipeline"
	"github.com/matzehuels/notegraph/pkg/snapshot"
)

// testEnv writes a small vault and returns a server that has built it.
func testEnv(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"a.md": "[[b]] [[zzz]]\n",
		"b.md": "[[a]]\n",
		"c.md": "alone\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(logger), Options{
		Build:  pipeline.Options{Root: root},
		Layout: layout.Params{MaxSteps: 20},
	}, logger)
	if err := s.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	return s, root
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNotReady(t *testing.T) {
	s := New(nil, Options{}, log.New(io.Discard))
	h := s.Router()

	if rec := get(t, h, "/health/live"); rec.Code != http.StatusOK {
		t.Errorf("live = %d, want 200", rec.Code)
	}
	for _, path := range []string{"/api/graph", "/api/diagnostics", "/api/graph.dot", "/api/graph.svg"} {
		if rec := get(t, h, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s = %d, want 503", path, rec.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	s, _ := testEnv(t)
	rec := get(t, s.Router(), "/health/live")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Server"); got != buildinfo.Short() {
		t.Errorf("Server header = %q, want %q", got, buildinfo.Short())
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestGraph(t *testing.T) {
	s, root := testEnv(t)
	rec := get(t, s.Router(), "/api/graph")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Root != filepath.Clean(root) || snap.Steps != 20 {
		t.Errorf("Root, Steps = %q, %d", snap.Root, snap.Steps)
	}
	if len(snap.Nodes) != 3 || len(snap.Edges) != 2 || len(snap.Diagnostics) != 2 {
		t.Errorf("snapshot = %d nodes, %d edges, %d diagnostics", len(snap.Nodes), len(snap.Edges), len(snap.Diagnostics))
	}
}

func TestDiagnostics(t *testing.T) {
	s, _ := testEnv(t)

	var body diagnosticsResponse
	rec := get(t, s.Router(), "/api/diagnostics")
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Problems != 1 || body.Counts["dangling-link"] != 1 || body.Counts["orphan"] != 1 || body.Counts["self-reference"] != 0 {
		t.Errorf("diagnostics = %+v", body)
	}
	if len(body.Diagnostics) != 2 {
		t.Errorf("Diagnostics = %+v", body.Diagnostics)
	}

	rec = get(t, s.Router(), "/api/diagnostics?kind=orphan")
	body = diagnosticsResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Diagnostics) != 1 || body.Diagnostics[0].Source != "c" {
		t.Errorf("orphan filter = %+v", body.Diagnostics)
	}

	rec = get(t, s.Router(), "/api/diagnostics?kind=nope")
	if !strings.Contains(rec.Body.String(), `"diagnostics":[]`) {
		t.Errorf("empty filter body = %s", rec.Body)
	}
}

func TestGraphDOT(t *testing.T) {
	s, _ := testEnv(t)
	h := s.Router()

	rec := get(t, h, "/api/graph.dot")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "digraph G") {
		t.Fatalf("dot = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	if strings.Contains(rec.Body.String(), interact.Nord.Success) {
		t.Error("plain dot carries the marker colour")
	}

	rec = get(t, h, "/api/graph.dot?highlight=a")
	if !strings.Contains(rec.Body.String(), interact.Nord.Success) {
		t.Error("highlighted dot misses the marker colour")
	}

	if rec := get(t, h, "/api/graph.dot?highlight=zzz"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown highlight = %d, want 404", rec.Code)
	}
}

func TestGraphSVG(t *testing.T) {
	s, _ := testEnv(t)
	rec := get(t, s.Router(), "/api/graph.svg")
	if rec.Code != http.StatusOK {
		t.Fatalf("svg = %d: %s", rec.Code, rec.Body)
	}
	if rec.Header().Get("Content-Type") != "image/svg+xml" || !strings.Contains(rec.Body.String(), "<svg") {
		t.Errorf("svg response = %q %.80s", rec.Header().Get("Content-Type"), rec.Body)
	}
}

func TestRebuildKeepsPreviousOnFailure(t *testing.T) {
	s, root := testEnv(t)
	before := s.current().snap.ID

	for _, name := range []string{"a.md", "b.md", "c.md"} {
		if err := os.Remove(filepath.Join(root, name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Rebuild(context.Background()); !nerrors.Is(err, nerrors.ErrCodeNoDocuments) {
		t.Fatalf("Rebuild() error = %v, want NO_DOCUMENTS", err)
	}
	if got := s.current().snap.ID; got != before {
		t.Errorf("served build changed to %s after failed rebuild", got)
	}
}

func TestRebuildSwaps(t *testing.T) {
	s, root := testEnv(t)
	before := s.current().snap.ID

	if err := os.WriteFile(filepath.Join(root, "d.md"), []byte("[[c]]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}
	cur := s.current()
	if cur.snap.ID == before || len(cur.snap.Nodes) != 4 {
		t.Errorf("after rebuild: id %s, %d nodes", cur.snap.ID, len(cur.snap.Nodes))
	}
}

type requestRecorder struct {
	observability.NoopServerHooks
	mu       sync.Mutex
	requests []string
	rebuilds int
}

func (h *requestRecorder) OnRequest(_ context.Context, method, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path+" "+http.StatusText(status))
}

func (h *requestRecorder) OnRebuild(context.Context, string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rebuilds++
}

func TestServerHooks(t *testing.T) {
	rec := &requestRecorder{}
	observability.SetServerHooks(rec)
	defer observability.Reset()

	s, _ := testEnv(t)
	get(t, s.Router(), "/health/live")
	get(t, s.Router(), "/api/graph.dot?highlight=zzz")

	want := []string{"GET /health/live OK", "GET /api/graph.dot Not Found"}
	if strings.Join(rec.requests, "|") != strings.Join(want, "|") {
		t.Errorf("requests = %v, want %v", rec.requests, want)
	}
	if rec.rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", rec.rebuilds)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := testEnv(t)
	s.opts.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
