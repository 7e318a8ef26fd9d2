// Package http serves a generated target for preview.
package http

import (
	"html"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/semkit/internal/core"
)

type Reader interface {
	ReadFile(path string) ([]byte, error)
	FileExists(path string) bool
	IsDir(path string) bool
}

// SiteHandler serves files below root. Directories and extension-less
// routes resolve to their index.html.
type SiteHandler struct {
	fs     Reader
	root   string
	isDev  bool
	logger *slog.Logger
}

func NewSiteHandler(fs Reader, root string, isDev bool, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{
		fs:     fs,
		root:   root,
		isDev:  isDev,
		logger: logger,
	}
}

func (h *SiteHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	urlPath := path.Clean("/" + req.URL.Path)

	file, ok := h.resolve(urlPath)
	if !ok {
		h.serveError(w, http.StatusNotFound, "Not Found", urlPath, "no file for "+urlPath)
		return
	}

	data, err := h.fs.ReadFile(file)
	if err != nil {
		h.logger.Error("read failed", "path", file, "error", err)
		h.serveError(w, http.StatusInternalServerError, "Internal Server Error", urlPath, err.Error())
		return
	}

	w.Header().Set("Content-Type", core.ContentType(file))
	w.WriteHeader(http.StatusOK)
	if req.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

func (h *SiteHandler) resolve(urlPath string) (string, bool) {
	full := filepath.Join(h.root, filepath.FromSlash(strings.TrimPrefix(urlPath, "/")))
	if h.fs.IsDir(full) {
		index := filepath.Join(full, "index.html")
		return index, h.fs.FileExists(index)
	}
	if h.fs.FileExists(full) {
		return full, true
	}
	if path.Ext(urlPath) == "" {
		page := core.PageHTMLPath(h.root, urlPath)
		return page, h.fs.FileExists(page)
	}
	return "", false
}

func (h *SiteHandler) serveError(w http.ResponseWriter, status int, title, urlPath, message string) {
	body, err := core.RenderErrorPage(core.ErrorPage{
		Status:  status,
		Title:   title,
		Path:    urlPath,
		Message: message,
		IsDev:   h.isDev,
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<!doctype html><html><body><pre>" + html.EscapeString(message) + "</pre></body></html>"))
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(body)
}
