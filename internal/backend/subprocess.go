package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

const defaultReadyTimeout = 30 * time.Second

// SubprocessLauncher spawns one python helper process per session.
type SubprocessLauncher struct {
	httpClient *http.Client
	publisher  EventPublisher
}

// NewSubprocessLauncher constructs the production launcher.
func NewSubprocessLauncher() *SubprocessLauncher {
	// Intentionally set Timeout=0: all calls must use context-based timeouts.
	cli := &http.Client{Timeout: 0}
	return &SubprocessLauncher{httpClient: cli, publisher: noopPublisher{}}
}

// SetPublisher installs an EventPublisher for emitting lifecycle events.
func (l *SubprocessLauncher) SetPublisher(p EventPublisher) {
	if p == nil {
		l.publisher = noopPublisher{}
		return
	}
	l.publisher = p
}

// Launch verifies the spec's artifacts, spawns the helper, waits for it to
// report healthy and encodes the given image. The process's stdout lines are
// forwarded to sink as they arrive.
func (l *SubprocessLauncher) Launch(ctx context.Context, spec LaunchSpec, imagePath string, sink DebugSink) (Session, error) {
	for _, p := range []string{spec.Script, spec.Checkpoint} {
		if strings.TrimSpace(p) == "" {
			return nil, ErrMissingArtifact("(unset path)")
		}
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			return nil, ErrMissingArtifact(p)
		}
	}
	bin := spec.PythonBin
	if strings.TrimSpace(bin) == "" {
		bin = "python3"
	}
	if !strings.ContainsRune(bin, os.PathSeparator) {
		resolved, err := exec.LookPath(bin)
		if err != nil {
			return nil, ErrMissingArtifact(bin)
		}
		bin = resolved
	} else if fi, err := os.Stat(bin); err != nil || fi.IsDir() {
		return nil, ErrMissingArtifact(bin)
	}

	host := strings.TrimSpace(spec.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	var port int
	var err error
	if spec.PortStart > 0 && spec.PortEnd >= spec.PortStart {
		port, err = pickPortInRange(host, spec.PortStart, spec.PortEnd)
	} else {
		port, err = pickFreePort(host)
	}
	if err != nil {
		return nil, ErrBackendFailure(err.Error())
	}
	baseURL := fmt.Sprintf("http://%s:%d", host, port)

	args := []string{
		spec.Script,
		"--checkpoint", spec.Checkpoint,
		"--host", host,
		"--port", fmt.Sprint(port),
	}
	args = append(args, spec.ExtraArgs...)

	cmd := exec.Command(bin, args...)
	// Capture stderr for diagnostics (kept in-memory; tail is included on failure)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, ErrBackendFailure(fmt.Sprintf("stdout pipe: %v", err))
	}
	if err := cmd.Start(); err != nil {
		return nil, ErrBackendFailure(fmt.Sprintf("start backend helper: %v", err))
	}
	log.Printf("backend=subprocess event=start image=%q pid=%d host=%s port=%d", imagePath, cmd.Process.Pid, host, port)
	l.publisher.Publish(Event{Name: "spawn_start", Image: imagePath, Fields: map[string]any{"pid": cmd.Process.Pid, "host": host, "port": port}})

	// Forward stdout lines to the debug sink as they arrive.
	go func() {
		sc := bufio.NewScanner(stdout)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			if sink != nil {
				sink(sc.Text())
			}
		}
	}()

	// Early-exit watcher: surface non-zero exit before readiness.
	waitErrCh := make(chan error, 1)
	go func() {
		waitErrCh <- cmd.Wait()
	}()

	s := &httpSession{
		baseURL:   baseURL,
		cmd:       cmd,
		pid:       cmd.Process.Pid,
		port:      port,
		image:     imagePath,
		client:    l.httpClient,
		publisher: l.publisher,
		waitErrCh: waitErrCh,
	}

	if err := l.awaitReady(ctx, s, spec, imagePath, &stderr, waitErrCh); err != nil {
		return nil, err
	}

	// Bind the session to its image.
	if err := s.post(ctx, "/encode", map[string]any{"image_path": imagePath}, nil); err != nil {
		_ = s.Close()
		return nil, err
	}
	log.Printf("backend=subprocess event=encoded image=%q pid=%d", imagePath, s.pid)
	l.publisher.Publish(Event{Name: "encoded", Image: imagePath, Fields: map[string]any{"pid": s.pid}})
	return s, nil
}

// awaitReady polls the helper's health endpoint with early failure detection
// and a deadline. Cancellation of ctx stops the wait and kills the helper.
func (l *SubprocessLauncher) awaitReady(ctx context.Context, s *httpSession, spec LaunchSpec, imagePath string, stderr *bytes.Buffer, waitErrCh chan error) error {
	timeout := spec.ReadyTimeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			_ = s.Close()
			return ErrInterrupted(err)
		}
		if time.Now().After(deadline) {
			_ = s.Close()
			log.Printf("backend=subprocess event=timeout image=%q pid=%d", imagePath, s.pid)
			l.publisher.Publish(Event{Name: "spawn_timeout", Image: imagePath, Fields: map[string]any{"pid": s.pid}})
			return ErrBackendFailure(fmt.Sprintf("backend helper not ready in time: %s", s.baseURL))
		}
		select {
		case werr := <-waitErrCh:
			s.markExited()
			tail := stderr.String()
			if len(tail) > 4096 {
				tail = tail[len(tail)-4096:]
			}
			log.Printf("backend=subprocess event=exit_early image=%q pid=%d err=%v", imagePath, s.pid, werr)
			l.publisher.Publish(Event{Name: "spawn_exit", Image: imagePath, Fields: map[string]any{"pid": s.pid, "error": fmt.Sprint(werr)}})
			if werr != nil {
				return ErrBackendFailure(fmt.Sprintf("backend helper exited early: %v; stderr tail: %s", werr, tail))
			}
			return ErrBackendFailure(fmt.Sprintf("backend helper exited before ready: %s", s.baseURL))
		default:
		}

		hctx, cancel := context.WithTimeout(ctx, 1*time.Second)
		req, _ := http.NewRequestWithContext(hctx, http.MethodGet, s.baseURL+"/health", nil)
		resp, err := l.httpClient.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				cancel()
				log.Printf("backend=subprocess event=ready image=%q pid=%d url=%s", imagePath, s.pid, s.baseURL)
				l.publisher.Publish(Event{Name: "spawn_ready", Image: imagePath, Fields: map[string]any{"pid": s.pid, "url": s.baseURL}})
				return nil
			}
		}
		cancel()
		time.Sleep(100 * time.Millisecond)
	}
}

// httpSession talks JSON over loopback HTTP to one helper process.
type httpSession struct {
	mu        sync.Mutex
	closed    bool
	exited    bool
	cmd       *exec.Cmd
	baseURL   string
	pid       int
	port      int
	image     string
	client    *http.Client
	publisher EventPublisher
	waitErrCh chan error
}

// wireResult is the helper's response shape: parallel contour arrays.
type wireResult struct {
	ContoursX [][]int `json:"contours_x"`
	ContoursY [][]int `json:"contours_y"`
	Error     string  `json:"error,omitempty"`
}

func (s *httpSession) InferFromPoints(ctx context.Context, points [][2]int) ([]types.Polygon, error) {
	var out wireResult
	if err := s.post(ctx, "/segment/points", map[string]any{"points": points}, &out); err != nil {
		return nil, err
	}
	return contoursToPolygons(out)
}

func (s *httpSession) InferFromPointsWithNegatives(ctx context.Context, points, negPoints [][2]int) ([]types.Polygon, error) {
	var out wireResult
	if err := s.post(ctx, "/segment/points", map[string]any{"points": points, "neg_points": negPoints}, &out); err != nil {
		return nil, err
	}
	return contoursToPolygons(out)
}

func (s *httpSession) InferFromBox(ctx context.Context, box [4]int) ([]types.Polygon, error) {
	var out wireResult
	if err := s.post(ctx, "/segment/box", map[string]any{"box": box}, &out); err != nil {
		return nil, err
	}
	return contoursToPolygons(out)
}

func (s *httpSession) InferFromMask(ctx context.Context, mask types.Raster) ([]types.Polygon, error) {
	var out wireResult
	if err := s.post(ctx, "/segment/mask", map[string]any{"mask": mask}, &out); err != nil {
		return nil, err
	}
	return contoursToPolygons(out)
}

func (s *httpSession) Port() int { return s.port }
func (s *httpSession) PID() int  { return s.pid }

// post performs one blocking JSON round-trip and classifies failures into the
// session error taxonomy.
func (s *httpSession) post(ctx context.Context, path string, payload any, out *wireResult) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	body, err := json.Marshal(payload)
	if err != nil {
		return ErrBackendFailure(fmt.Sprintf("encode request: %v", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return ErrBackendFailure(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ErrInterrupted(ctx.Err())
		}
		return ErrBackendFailure(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ErrBackendFailure(fmt.Sprintf("backend http error: %s: %s", resp.Status, string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ErrBackendFailure(fmt.Sprintf("decode response: %v", err))
	}
	if out.Error != "" {
		return ErrBackendFailure(out.Error)
	}
	return nil
}

// contoursToPolygons zips the helper's parallel contour arrays into polygons.
func contoursToPolygons(w wireResult) ([]types.Polygon, error) {
	if len(w.ContoursX) != len(w.ContoursY) {
		return nil, ErrBackendFailure(fmt.Sprintf("contour count mismatch: %d x-lists vs %d y-lists", len(w.ContoursX), len(w.ContoursY)))
	}
	polys := make([]types.Polygon, 0, len(w.ContoursX))
	for i := range w.ContoursX {
		if len(w.ContoursX[i]) != len(w.ContoursY[i]) {
			return nil, ErrBackendFailure(fmt.Sprintf("contour %d length mismatch: %d vs %d", i, len(w.ContoursX[i]), len(w.ContoursY[i])))
		}
		polys = append(polys, types.Polygon{Xs: w.ContoursX[i], Ys: w.ContoursY[i]})
	}
	return polys, nil
}

// markExited records that the process is already gone so Close skips signaling.
func (s *httpSession) markExited() {
	s.mu.Lock()
	s.exited = true
	s.closed = true
	s.mu.Unlock()
}

// Close terminates the helper process: SIGTERM first, then kill after a
// grace period. Idempotent.
func (s *httpSession) Close() error {
	s.mu.Lock()
	if s.closed && s.exited {
		s.mu.Unlock()
		return nil
	}
	alreadyClosed := s.closed
	s.closed = true
	s.exited = true
	s.mu.Unlock()
	if alreadyClosed {
		return nil
	}
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	_ = s.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-s.waitErrCh:
		// exited gracefully
	case <-time.After(2 * time.Second):
		_ = s.cmd.Process.Kill()
		<-s.waitErrCh
	}
	log.Printf("backend=subprocess event=stop image=%q pid=%d", s.image, s.pid)
	s.publisher.Publish(Event{Name: "spawn_stop", Image: s.image, Fields: map[string]any{"pid": s.pid}})
	return nil
}

func pickPortInRange(host string, start, end int) (int, error) {
	for p := start; p <= end; p++ {
		l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, p))
		if err != nil {
			continue
		}
		_ = l.Close()
		return p, nil
	}
	return 0, fmt.Errorf("no free port in range %d-%d", start, end)
}

func pickFreePort(host string) (int, error) {
	l, err := net.Listen("tcp", host+":0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	addr := l.Addr().String()
	// addr like 127.0.0.1:54321
	lastColon := strings.LastIndex(addr, ":")
	if lastColon < 0 {
		return 0, fmt.Errorf("unexpected addr: %s", addr)
	}
	p, err := strconv.Atoi(addr[lastColon+1:])
	if err != nil {
		return 0, err
	}
	return p, nil
}
