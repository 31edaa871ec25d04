package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"jah/internal/slogutil"
)

type serverFixture struct {
	server   *Server
	compiler *fakeCompiler
	public   string
	logs     *bytes.Buffer
}

// newTestServer creates a server over a temp public dir and a fake compiler
func newTestServer(t *testing.T, output string) *serverFixture {
	t.Helper()

	f := newResolverFixture(t, output)
	logs := &bytes.Buffer{}
	logger := slogutil.NewLogger(logs, slog.LevelDebug)
	f.resolver.logger = logger

	return &serverFixture{
		server:   NewServer("127.0.0.1:0", f.resolver, logger, DefaultConfig()),
		compiler: f.compiler,
		public:   f.staticRoot,
		logs:     logs,
	}
}

func (f *serverFixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)
	return w
}

func TestServer_BundleRoute(t *testing.T) {
	f := newTestServer(t, "app.js")
	f.compiler.code = []byte("(() => { console.log('hi'); })();")

	w := f.get(t, "/app.js")

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/javascript" {
		t.Errorf("Content-Type = %q, want text/javascript", ct)
	}
	if w.Body.String() != "(() => { console.log('hi'); })();" {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestServer_RootIsIndex(t *testing.T) {
	f := newTestServer(t, "app.js")
	writeTestFile(t, filepath.Join(f.public, "index.html"), "<h1>jah</h1>")

	root := f.get(t, "/")
	index := f.get(t, "/index.html")

	if root.Code != http.StatusOK || index.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d; want 200", root.Code, index.Code)
	}
	if root.Body.String() != index.Body.String() {
		t.Errorf("/ served %q, /index.html served %q", root.Body.String(), index.Body.String())
	}
	if ct := root.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestServer_LogsRequestPath(t *testing.T) {
	f := newTestServer(t, "app.js")

	f.get(t, "/?debug=1")

	logs := f.logs.String()
	requestAt := strings.Index(logs, "Request |")
	notFoundAt := strings.Index(logs, "File not found")
	if requestAt < 0 {
		t.Fatalf("expected a Request log line, got:\n%s", logs)
	}
	if !strings.Contains(logs, "path=/index.html") {
		t.Errorf("request log should carry the normalized path, got:\n%s", logs)
	}
	if !strings.Contains(logs, "query=debug=1") {
		t.Errorf("request log should carry the query, got:\n%s", logs)
	}
	if notFoundAt < requestAt {
		t.Errorf("request should be logged before resolution, got:\n%s", logs)
	}
}

func TestServer_NotFound(t *testing.T) {
	f := newTestServer(t, "app.js")

	w := f.get(t, "/missing.xyz")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if w.Body.String() != "File not found" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "File not found")
	}
	if f.compiler.builds != 0 {
		t.Errorf("builds = %d, want 0", f.compiler.builds)
	}
}

func TestServer_BuildFailureIsServerError(t *testing.T) {
	f := newTestServer(t, "app.js")
	f.compiler.err = io.ErrUnexpectedEOF

	w := f.get(t, "/app.js")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), io.ErrUnexpectedEOF.Error()) {
		t.Errorf("Body = %q, want the build diagnostic", w.Body.String())
	}
	if !strings.Contains(f.logs.String(), "Build failed") {
		t.Errorf("expected a Build failed log line, got:\n%s", f.logs.String())
	}
}

func TestServer_Addr(t *testing.T) {
	f := newTestServer(t, "app.js")
	if got := f.server.Addr(); got != "127.0.0.1:0" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:0")
	}
}

func TestServer_MalformedTarget(t *testing.T) {
	f := newTestServer(t, "app.js")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "index.html"
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if f.compiler.builds != 0 || f.compiler.resolveCalls != 0 {
		t.Error("a malformed request must not reach the resolver")
	}
}

func TestServer_RecoversFromPanic(t *testing.T) {
	f := newTestServer(t, "app.js")
	f.compiler.panicMsg = "compiler exploded"

	w := f.get(t, "/app.js")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if !strings.Contains(f.logs.String(), "Panic recovered") {
		t.Errorf("expected the panic to be logged, got:\n%s", f.logs.String())
	}

	f.compiler.panicMsg = ""
	if w := f.get(t, "/app.js"); w.Code != http.StatusOK {
		t.Errorf("server should keep serving after a panic, got %d", w.Code)
	}
}

func TestServer_Compression(t *testing.T) {
	f := newTestServer(t, "app.js")
	f.compiler.code = bytes.Repeat([]byte("console.log('x');\n"), 512)

	req := httptest.NewRequest(http.MethodGet, "/app.js", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)

	if enc := w.Header().Get("Content-Encoding"); enc != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", enc)
	}

	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("reading gzip body: %v", err)
	}
	if !bytes.Equal(body, f.compiler.code) {
		t.Errorf("decompressed body differs from the bundle (%d vs %d bytes)", len(body), len(f.compiler.code))
	}
}

func TestServer_CompressionDisabled(t *testing.T) {
	f := newResolverFixture(t, "app.js")
	f.compiler.code = bytes.Repeat([]byte("x"), 8192)
	cfg := DefaultConfig()
	cfg.Compress = false
	srv := NewServer("127.0.0.1:0", f.resolver, slogutil.NewDiscardLogger(), cfg)

	req := httptest.NewRequest(http.MethodGet, "/app.js", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if enc := w.Header().Get("Content-Encoding"); enc != "" {
		t.Errorf("Content-Encoding = %q, want none", enc)
	}
	if w.Body.Len() != 8192 {
		t.Errorf("body length = %d, want 8192", w.Body.Len())
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	f := newTestServer(t, "public/app.js")
	writeTestFile(t, filepath.Join(f.public, "style.css"), "body{}")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- f.server.Serve(ln) }()

	base := "http://" + ln.Addr().String()
	for path, wantType := range map[string]string{"/app.js": "text/javascript", "/style.css": "text/css"} {
		resp, err := http.Get(base + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != wantType {
			t.Errorf("GET %s Content-Type = %q, want %q", path, ct, wantType)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.server.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Serve returned %v after shutdown, want nil", err)
	}
}
