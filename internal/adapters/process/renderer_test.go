package process

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/semkit/internal/core"
)

func serveSocket(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "semkit")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	socket := filepath.Join(dir, "r.sock")
	ln, err := net.Listen("unix", socket)
	require.NoError(t, err)

	srv := &http.Server{Handler: handler}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Close() })
	return socket
}

func TestRenderPostsRequest(t *testing.T) {
	var got core.RenderRequest
	socket := serveSocket(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/render", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"html":"<main class=\"p-4\">hi</main>","head":"<meta name=\"x\">"}`))
	})

	r := Dial(socket)
	page, err := r.Render(context.Background(), core.RenderRequest{
		Pattern:         "/posts/:slug",
		Path:            "/posts/a",
		Params:          map[string]string{"slug": "a"},
		Component:       "Post",
		ComponentModule: "/src/routes/Post.tsx",
		Theme:           core.Theme{Name: "sky", Dark: true},
	})
	require.NoError(t, err)

	assert.Equal(t, `<main class="p-4">hi</main>`, page.Body)
	assert.Equal(t, `<meta name="x">`, page.Head)
	assert.Equal(t, "a", got.Params["slug"])
	assert.True(t, got.Theme.Dark)
	assert.NoError(t, r.Stop())
}

func TestRenderReportsServerError(t *testing.T) {
	socket := serveSocket(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"message":"Cannot find module","stack":"at load","errors":[{"message":"missing ./Post"}]}}`))
	})

	_, err := Dial(socket).Render(context.Background(), core.RenderRequest{Component: "Post", ComponentModule: "/x.tsx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot find module")
	assert.Contains(t, err.Error(), "1. missing ./Post")
	assert.Contains(t, err.Error(), "Stack:\nat load")
}

func TestRenderRejectsUnresolvedModule(t *testing.T) {
	_, err := Dial("/nonexistent.sock").Render(context.Background(), core.RenderRequest{Component: "Home"})
	assert.ErrorContains(t, err, "Home has no resolved module")
}

func TestRenderNonJSONFailure(t *testing.T) {
	socket := serveSocket(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := Dial(socket).Render(context.Background(), core.RenderRequest{Component: "Home", ComponentModule: "/h.tsx"})
	assert.ErrorContains(t, err, "500 Internal Server Error: boom")
}

func TestStartServerReapsProcessOnTimeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	socket := filepath.Join(t.TempDir(), "never.sock")
	cmd := exec.Command("sleep", "30")

	err := startServer(cmd, socket, 50*time.Millisecond)
	assert.ErrorContains(t, err, "timeout waiting for render socket")
	require.NotNil(t, cmd.ProcessState, "killed server must be waited on")
	assert.False(t, cmd.ProcessState.Success())
}

func TestRenderServerEmitsStaticMarkup(t *testing.T) {
	assert.Contains(t, RenderServerSource, "renderToStaticMarkup(tree)")
	assert.NotContains(t, RenderServerSource, "renderToString")
}
