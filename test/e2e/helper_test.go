//nolint:errcheck // Test helpers - error handling deferred to test assertions
package e2e

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/3-lines-studio/semkit"
	"github.com/3-lines-studio/semkit/internal/adapters"
	"github.com/3-lines-studio/semkit/internal/adapters/fs"
	"github.com/3-lines-studio/semkit/internal/usecase"
)

func bunAvailable() bool {
	_, err := exec.LookPath("bun")
	return err == nil
}

func skipIfNoBun(t *testing.T) {
	if !bunAvailable() {
		t.Skip("bun not available, skipping E2E test")
	}
}

type quietCLI struct{}

func (quietCLI) PrintHeader(string) {}
func (quietCLI) PrintStep(string, string, ...any) {}
func (quietCLI) PrintSuccess(string, ...any) {}
func (quietCLI) PrintWarning(string, ...any) {}
func (quietCLI) PrintError(string, ...any) {}
func (quietCLI) PrintFile(string) {}
func (quietCLI) PrintDone(string) {}
func (quietCLI) Green(text string) string { return text }
func (quietCLI) Yellow(text string) string { return text }
func (quietCLI) Red(text string) string { return text }
func (quietCLI) Gray(text string) string { return text }
func (quietCLI) Stdout() io.Writer { return io.Discard }
func (quietCLI) Stderr() io.Writer { return io.Discard }

// newStarter scaffolds a starter project and opens a pipeline on it.
func newStarter(t *testing.T, starter string) (*semkit.Pipeline, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "site")

	out := usecase.NewInitService(fs.NewOSFileSystem(), adapters.NewStarterSource(), quietCLI{}).
		InitProject(usecase.InitInput{ProjectDir: dir, Template: starter})
	if out.Error != nil {
		t.Fatalf("init %s: %v", starter, out.Error)
	}

	cfg, err := semkit.LoadConfig(filepath.Join(dir, "semkit.yaml"), false)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	p, err := semkit.New(cfg, semkit.WithOutput(io.Discard, io.Discard))
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p, dir
}

func getFreePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

type previewServer struct {
	port   int
	client *http.Client
}

// startPreview serves the pipeline's first target until the test ends.
func startPreview(t *testing.T, p *semkit.Pipeline) *previewServer {
	t.Helper()
	s := &previewServer{
		port:   getFreePort(t),
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Preview(ctx, fmt.Sprintf("127.0.0.1:%d", s.port))
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Logf("preview server error: %v", err)
		}
	})

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
		if err == nil {
			conn.Close()
			return s
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("preview server did not start on port %d", s.port)
	return nil
}

func (s *previewServer) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()

	resp, err := s.client.Get(fmt.Sprintf("http://127.0.0.1:%d%s", s.port, path))
	if err != nil {
		t.Fatalf("failed to GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp, string(body)
}

func assertHTTPStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Errorf("status = %d, want %d", resp.StatusCode, want)
	}
}
