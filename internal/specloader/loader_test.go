package specloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-structspec/pkg/spec"
)

const fixture = `{"name": "Result", "fields": []}`

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "spec.json")
	if err := os.WriteFile(path, []byte(fixture), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loader := New(Options{})
	doc, err := loader.Load(context.Background(), spec.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != fixture {
		t.Fatalf("unexpected document body: %s", doc.Raw())
	}
	if doc.Location() != path {
		t.Fatalf("document should carry its source location, got %q", doc.Location())
	}
}

func TestLoadFromFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"schemas/spec.json": &fstest.MapFile{Data: []byte(fixture)},
	}

	loader := New(Options{FileSystem: fsys})
	doc, err := loader.Load(context.Background(), spec.SourceFromFS("schemas/spec.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != fixture {
		t.Fatalf("unexpected document body: %s", doc.Raw())
	}
}

func TestLoadFromFSWithoutFilesystem(t *testing.T) {
	t.Parallel()

	loader := New(Options{})
	if _, err := loader.Load(context.Background(), spec.SourceFromFS("spec.json")); err == nil {
		t.Fatalf("expected failure when no filesystem is configured")
	}
}

func TestLoadFromHTTP(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	loader := New(Options{AllowHTTP: true})
	doc, err := loader.Load(context.Background(), spec.SourceFromURL(server.URL))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != fixture {
		t.Fatalf("unexpected document body: %s", doc.Raw())
	}
}

func TestLoadHTTPSendsAcceptHeader(t *testing.T) {
	t.Parallel()

	var accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	loader := New(Options{AllowHTTP: true})
	if _, err := loader.Load(context.Background(), spec.SourceFromURL(server.URL)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(accept, "application/json") {
		t.Fatalf("expected a document accept header, got %q", accept)
	}
}

func TestLoadHTTPRejectsHTMLResponse(t *testing.T) {
	t.Parallel()

	// Captive portals and misconfigured hosts serve HTML with a 200.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>sign in</body></html>"))
	}))
	defer server.Close()

	loader := New(Options{AllowHTTP: true})
	if _, err := loader.Load(context.Background(), spec.SourceFromURL(server.URL)); err == nil {
		t.Fatalf("expected failure for an html response")
	}
}

func TestLoadHTTPDisabled(t *testing.T) {
	t.Parallel()

	loader := New(Options{})
	if _, err := loader.Load(context.Background(), spec.SourceFromURL("https://example.com/spec.json")); err == nil {
		t.Fatalf("expected failure when http is disabled")
	}
}

func TestLoadHTTPErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer server.Close()

	loader := New(Options{AllowHTTP: true})
	if _, err := loader.Load(context.Background(), spec.SourceFromURL(server.URL)); err == nil {
		t.Fatalf("expected failure for a 404 response")
	}
}

func TestLoadNilSource(t *testing.T) {
	t.Parallel()

	loader := New(Options{})
	if _, err := loader.Load(context.Background(), nil); err == nil {
		t.Fatalf("expected failure for a nil source")
	}
}

func TestLoadRespectsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fsys := fstest.MapFS{"spec.json": &fstest.MapFile{Data: []byte(fixture)}}
	loader := New(Options{FileSystem: fsys})
	if _, err := loader.Load(ctx, spec.SourceFromFS("spec.json")); err == nil {
		t.Fatalf("expected failure for a cancelled context")
	}
}
