package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/semkit/internal/adapters/fs"
)

func newTestSite(t *testing.T, isDev bool) http.Handler {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":             "<h1>home</h1>",
		"about/index.html":       "<h1>about</h1>",
		"assets/css/styles.css":  "body{}",
		"posts/hello/index.html": "<h1>hello</h1>",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewSiteHandler(fs.NewOSFileSystem(), root, isDev, logger), logger)
}

func TestSiteHandler(t *testing.T) {
	site := newTestSite(t, true)

	tests := []struct {
		path        string
		status      int
		contentType string
		body        string
	}{
		{"/", http.StatusOK, "text/html; charset=utf-8", "<h1>home</h1>"},
		{"/about", http.StatusOK, "text/html; charset=utf-8", "<h1>about</h1>"},
		{"/about/", http.StatusOK, "text/html; charset=utf-8", "<h1>about</h1>"},
		{"/posts/hello", http.StatusOK, "text/html; charset=utf-8", "<h1>hello</h1>"},
		{"/assets/css/styles.css", http.StatusOK, "text/css; charset=utf-8", "body{}"},
		{"/../index.html", http.StatusOK, "text/html; charset=utf-8", "<h1>home</h1>"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestSiteHandlerNotFound(t *testing.T) {
	tests := []struct {
		name    string
		isDev   bool
		message string
	}{
		{"dev shows detail", true, "no file for /missing"},
		{"prod hides detail", false, "The requested page could not be served."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestSite(t, tt.isDev).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "404 Not Found")
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestSiteHandlerRejectsWrites(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestSite(t, true).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
