package ui

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestFSHandlerServesIndexAndAssets(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html":      {Data: []byte("<html>catalog</html>")},
		"app.js":          {Data: []byte("console.log('hi')")},
		"docs/index.html": {Data: []byte("docs")},
	}
	handler := FSHandler(fsys)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "<html>catalog</html>"},
		{"/app.js", http.StatusOK, "console.log('hi')"},
		{"/docs/", http.StatusOK, "docs"},
		{"/docs", http.StatusOK, "docs"},
		{"/missing.css", http.StatusNotFound, ""},
		{"/../etc/passwd", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.wantBody != "" && rr.Body.String() != tt.wantBody {
				t.Fatalf("unexpected body %q", rr.Body.String())
			}
		})
	}
}

func TestFSHandlerRejectsWrites(t *testing.T) {
	rr := httptest.NewRecorder()
	FSHandler(fstest.MapFS{}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestHandlerFromDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	rr := httptest.NewRecorder()
	Handler(dir).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "hello" {
		t.Fatalf("unexpected response %d %q", rr.Code, rr.Body.String())
	}
}

func TestHandlerNotConfigured(t *testing.T) {
	for _, dir := range []string{"", filepath.Join(t.TempDir(), "absent")} {
		rr := httptest.NewRecorder()
		Handler(dir).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), "not configured") {
			t.Fatalf("dir %q: unexpected response %d %q", dir, rr.Code, rr.Body.String())
		}
	}
}
