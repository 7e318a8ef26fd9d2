// Package process renders components in a bun child process reached over a
// unix socket.
package process

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/3-lines-studio/semkit/internal/core"
)

//go:embed render_server.ts
var RenderServerSource string

const (
	SocketEnv      = "SEMKIT_SOCKET"
	startupTimeout = 5 * time.Second
)

type Options struct {
	// Command runs the render server; the embedded script is piped to its
	// stdin. Defaults to bun.
	Command []string
	Dir     string
	Stdout  io.Writer
	Stderr  io.Writer
}

type Renderer struct {
	cmd    *exec.Cmd
	socket string
	client *http.Client
}

func NewRenderer(opts Options) (*Renderer, error) {
	socket := filepath.Join(os.TempDir(), fmt.Sprintf("semkit-%d.sock", os.Getpid()))
	_ = os.Remove(socket)

	command := opts.Command
	if len(command) == 0 {
		command = []string{"bun", "run", "--smol", "-"}
	}
	if opts.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		opts.Dir = cwd
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), SocketEnv+"="+socket)
	cmd.Stdout = orStd(opts.Stdout, os.Stdout)
	cmd.Stderr = orStd(opts.Stderr, os.Stderr)
	cmd.Stdin = strings.NewReader(RenderServerSource)

	if err := startServer(cmd, socket, startupTimeout); err != nil {
		return nil, err
	}

	r := Dial(socket)
	r.cmd = cmd
	return r, nil
}

// Dial connects to a render server that is already listening on socket.
func Dial(socket string) *Renderer {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socket)
		},
	}
	return &Renderer{
		socket: socket,
		client: &http.Client{Transport: transport},
	}
}

// startServer starts cmd and waits for it to listen on socket. A server
// that never comes up is killed and reaped.
func startServer(cmd *exec.Cmd, socket string, timeout time.Duration) error {
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	if err := waitForSocket(socket, timeout); err != nil {
		_ = stopProcess(cmd, socket)
		return err
	}
	return nil
}

func stopProcess(cmd *exec.Cmd, socket string) error {
	err := cmd.Process.Kill()
	_ = cmd.Wait()
	_ = os.Remove(socket)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func (r *Renderer) Stop() error {
	if r.cmd == nil || r.cmd.Process == nil {
		return nil
	}
	return stopProcess(r.cmd, r.socket)
}

type renderError struct {
	Message string `json:"message"`
	Stack   string `json:"stack"`
	Errors  []struct {
		Message string `json:"message"`
		Stack   string `json:"stack"`
	} `json:"errors"`
}

func (e *renderError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if len(e.Errors) > 0 {
		sb.WriteString("\n\nErrors:")
		for i, err := range e.Errors {
			fmt.Fprintf(&sb, "\n  %d. %s", i+1, err.Message)
			if err.Stack != "" {
				fmt.Fprintf(&sb, "\n     Stack: %s", err.Stack)
			}
		}
	}

	if e.Stack != "" {
		fmt.Fprintf(&sb, "\n\nStack:\n%s", e.Stack)
	}
	return sb.String()
}

// Render asks the server for one page. The request's modules must be
// resolved; the server imports them directly.
func (r *Renderer) Render(ctx context.Context, req core.RenderRequest) (core.RenderedPage, error) {
	if req.ComponentModule == "" {
		return core.RenderedPage{}, fmt.Errorf("component %s has no resolved module", req.Component)
	}

	// The server runs in its own directory; hand it absolute modules.
	var err error
	if req.ComponentModule, err = absModule(req.ComponentModule); err != nil {
		return core.RenderedPage{}, err
	}
	if req.LayoutModule, err = absModule(req.LayoutModule); err != nil {
		return core.RenderedPage{}, err
	}

	var result struct {
		HTML  string       `json:"html"`
		Head  string       `json:"head"`
		Error *renderError `json:"error"`
	}

	if err := r.postJSON(ctx, "/render", req, &result); err != nil {
		return core.RenderedPage{}, err
	}
	if result.Error != nil {
		return core.RenderedPage{}, result.Error
	}

	return core.RenderedPage{
		Body: result.HTML,
		Head: result.Head,
	}, nil
}

func (r *Renderer) postJSON(ctx context.Context, endpoint string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://localhost"+endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("render server returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func absModule(module string) (string, error) {
	if module == "" || filepath.IsAbs(module) {
		return module, nil
	}
	return filepath.Abs(module)
}

func orStd(w io.Writer, std io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return std
}

func waitForSocket(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for render socket at %s", path)
}
